// Package apps defines the games built on the card engine.
package apps

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/scoring"
)

// Input kinds tell the UI how to collect an answer.
const (
	InputChoice = "choice"
	InputTyping = "typing"
	InputReveal = "reveal"
)

// Mode is one way of playing a game.
type Mode struct {
	Name       string
	Multiplier int
	Timed      bool
	Input      string
}

// Prompt is what the player sees for one card.
type Prompt struct {
	Question string
	Expected string
	Input    string
}

// App is one game built on the shared engine.
type App interface {
	Name() string
	Description() string
	Modes() []Mode
	DefaultMode() string
	Languages() []string
	Key(card model.Card) string
	Prompt(card model.Card, settings model.Settings) Prompt
	Evaluate(card model.Card, settings model.Settings, input string) scoring.Result
	SeedDecks() []model.Deck
	Rules() scoring.Rules
}

var registry = map[string]App{}

func register(app App) {
	registry[app.Name()] = app
}

// Lookup returns the app registered under name.
func Lookup(name string) (App, error) {
	app, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown app %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return app, nil
}

// Names lists registered apps in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered app in name order.
func All() []App {
	names := Names()
	out := make([]App, 0, len(names))
	for _, name := range names {
		out = append(out, registry[name])
	}
	return out
}

// FindMode returns the named mode of an app.
func FindMode(app App, name string) (Mode, bool) {
	for _, m := range app.Modes() {
		if m.Name == name {
			return m, true
		}
	}
	return Mode{}, false
}

func rulesFor(modes []Mode, bonusLanguage string, difficulty func(model.Card) int) scoring.Rules {
	rules := scoring.Rules{
		Multipliers:   map[string]int{},
		TimedModes:    map[string]bool{},
		BonusLanguage: bonusLanguage,
		Difficulty:    difficulty,
	}
	for _, m := range modes {
		rules.Multipliers[m.Name] = m.Multiplier
		if m.Timed {
			rules.TimedModes[m.Name] = true
		}
	}
	return rules
}

// Normalize folds case and whitespace for answer comparison and card keys.
func Normalize(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), unicode.IsSpace), " ")
}

// compareText grades a typed answer, allowing one edit for long enough words.
func compareText(expected, input string, closeMinLen int) scoring.Result {
	want, got := Normalize(expected), Normalize(input)
	if got == "" {
		return scoring.Incorrect
	}
	if want == got {
		return scoring.Correct
	}
	if len([]rune(want)) >= closeMinLen && levenshtein.ComputeDistance(want, got) == 1 {
		return scoring.Close
	}
	return scoring.Incorrect
}

func selfGraded(input string) scoring.Result {
	switch Normalize(input) {
	case "y", "yes":
		return scoring.Correct
	default:
		return scoring.Incorrect
	}
}
