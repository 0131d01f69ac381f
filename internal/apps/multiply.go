package apps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/scoring"
)

type multiply struct{}

func init() { register(multiply{}) }

var multiplyModes = []Mode{
	{Name: "choice", Multiplier: 1, Input: InputChoice},
	{Name: "typing", Multiplier: 2, Timed: true, Input: InputTyping},
}

func (multiply) Name() string        { return "multiply" }
func (multiply) Description() string { return "Multiplication tables 1×1 to 10×10" }
func (multiply) Modes() []Mode       { return multiplyModes }
func (multiply) DefaultMode() string { return "choice" }
func (multiply) Languages() []string { return nil }

func (multiply) Key(card model.Card) string {
	return Normalize(card.Question)
}

func (multiply) Prompt(card model.Card, settings model.Settings) Prompt {
	input := InputTyping
	if m, ok := FindMode(multiply{}, settings.Mode); ok {
		input = m.Input
	}
	return Prompt{Question: card.Question + " = ?", Expected: card.Answer, Input: input}
}

func (multiply) Evaluate(card model.Card, _ model.Settings, input string) scoring.Result {
	got, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return scoring.Incorrect
	}
	want, err := strconv.Atoi(card.Answer)
	if err != nil || got != want {
		return scoring.Incorrect
	}
	return scoring.Correct
}

func (multiply) SeedDecks() []model.Deck {
	cards := make([]model.Card, 0, 100)
	for a := 1; a <= 10; a++ {
		for b := 1; b <= 10; b++ {
			cards = append(cards, model.NewCard(fmt.Sprintf("%d × %d", a, b), strconv.Itoa(a*b)))
		}
	}
	return []model.Deck{{Name: "tables", Cards: cards}}
}

func (multiply) Rules() scoring.Rules {
	return rulesFor(multiplyModes, "", multiplyDifficulty)
}

// multiplyDifficulty rewards the products most people find hard.
func multiplyDifficulty(card model.Card) int {
	parts := strings.Split(card.Question, "×")
	if len(parts) != 2 {
		return 0
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil {
		return 0
	}
	if a > 5 && b > 5 {
		return 1
	}
	return 0
}
