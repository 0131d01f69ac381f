package apps

import (
	"strings"

	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/scoring"
)

type spell struct{}

func init() { register(spell{}) }

var spellModes = []Mode{
	{Name: "copy", Multiplier: 1, Input: InputTyping},
	{Name: "hidden", Multiplier: 2, Timed: true, Input: InputTyping},
}

func (spell) Name() string        { return "spell" }
func (spell) Description() string { return "Spelling practice with visible or hidden words" }
func (spell) Modes() []Mode       { return spellModes }
func (spell) DefaultMode() string { return "copy" }
func (spell) Languages() []string { return nil }

func (spell) Key(card model.Card) string {
	return Normalize(card.Answer)
}

func (spell) Prompt(card model.Card, settings model.Settings) Prompt {
	p := Prompt{Question: card.Answer, Expected: card.Answer, Input: InputTyping}
	if settings.Mode == "hidden" {
		p.Question = maskWord(card.Answer)
		if card.Hint != "" {
			p.Question = card.Hint + "  " + p.Question
		}
	}
	return p
}

func (spell) Evaluate(card model.Card, _ model.Settings, input string) scoring.Result {
	return compareText(card.Answer, input, 4)
}

func (spell) SeedDecks() []model.Deck {
	words := []struct{ word, hint string }{
		{"because", "for the reason that"},
		{"friend", "a person you like and trust"},
		{"necessary", "needed"},
		{"separate", "apart"},
		{"believe", "accept as true"},
		{"tomorrow", "the day after today"},
		{"receive", "get something"},
		{"library", "a place full of books"},
		{"different", "not the same"},
		{"beautiful", "very pretty"},
	}
	cards := make([]model.Card, len(words))
	for i, w := range words {
		c := model.NewCard(w.word, w.word)
		c.Hint = w.hint
		cards[i] = c
	}
	return []model.Deck{{Name: "common", Cards: cards}}
}

func (spell) Rules() scoring.Rules {
	return rulesFor(spellModes, "", nil)
}

// maskWord keeps the first letter and the length visible.
func maskWord(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return ""
	}
	parts := make([]string, len(runes))
	parts[0] = string(runes[0])
	for i := 1; i < len(runes); i++ {
		if runes[i] == ' ' {
			parts[i] = " "
			continue
		}
		parts[i] = "_"
	}
	return strings.Join(parts, " ")
}
