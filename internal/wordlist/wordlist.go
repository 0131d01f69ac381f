// Package wordlist loads cards from plain-text files.
//
// Words files hold one word per line, optionally followed by a tab and a
// hint. Pairs files hold a question, a tab and an answer, optionally
// followed by another tab and a hint. Blank lines and lines starting with
// '#' are skipped.
package wordlist

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/verte-zerg/tuicards/internal/model"
)

// Format selects how lines are split into cards.
type Format string

// Supported formats.
const (
	FormatWords Format = "words"
	FormatPairs Format = "pairs"
)

var policy = bluemonday.StrictPolicy()

// LoadCards reads cards from the file at path. keep, when set, drops cards
// whose question it rejects.
func LoadCards(path string, format Format, keep FilterFunc) ([]model.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			_ = cerr
		}
	}()
	return ParseCards(file, format, keep)
}

// ParseCards reads cards from r.
func ParseCards(r io.Reader, format Format, keep FilterFunc) ([]model.Card, error) {
	var cards []model.Card
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" || strings.HasPrefix(strings.TrimSpace(raw), "#") {
			continue
		}
		fields := strings.Split(raw, "\t")
		for i := range fields {
			fields[i] = clean(fields[i])
		}
		var card model.Card
		switch format {
		case FormatWords:
			if fields[0] == "" {
				continue
			}
			if keep != nil && !keep(fields[0]) {
				continue
			}
			card = model.NewCard(fields[0], fields[0])
			if len(fields) > 1 {
				card.Hint = fields[1]
			}
		case FormatPairs:
			if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
				return nil, fmt.Errorf("line %d: expected question<TAB>answer", lineNo)
			}
			if keep != nil && !keep(fields[0]) {
				continue
			}
			card = model.NewCard(fields[0], fields[1])
			if len(fields) > 2 {
				card.Hint = fields[2]
			}
		default:
			return nil, fmt.Errorf("unknown format %q", format)
		}
		cards = append(cards, card)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("no cards found")
	}
	return cards, nil
}

// clean strips markup and surrounding space from one field.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}
