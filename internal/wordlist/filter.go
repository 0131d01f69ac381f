package wordlist

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when an imported card question should be kept.
type FilterFunc func(string) bool

// alphabets lists the letters beyond a-z each language accepts.
var alphabets = map[string]string{
	"en": "",
	"de": "äöüß",
}

// FilterForLang returns a filter keeping single words spelled with the
// language's alphabet, ignoring case. Unknown or empty languages keep
// everything and return nil.
func FilterForLang(lang string) FilterFunc {
	extra, ok := alphabets[strings.ToLower(strings.TrimSpace(lang))]
	if !ok {
		return nil
	}
	return func(word string) bool {
		return inAlphabet(word, extra)
	}
}

// FilterLangs returns the languages FilterForLang knows, sorted.
func FilterLangs() []string {
	return []string{"de", "en"}
}

func inAlphabet(word, extra string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		r = unicode.ToLower(r)
		if r >= 'a' && r <= 'z' {
			continue
		}
		if !strings.ContainsRune(extra, r) {
			return false
		}
	}
	return true
}
