package apps

import (
	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/scoring"
)

// Language directions. Cards store the target-language word as the question
// and its native-language translation as the answer.
const (
	TargetToNative = "target-native"
	NativeToTarget = "native-target"
)

type vocab struct{}

func init() { register(vocab{}) }

var vocabModes = []Mode{
	{Name: "choice", Multiplier: 1, Input: InputChoice},
	{Name: "blind", Multiplier: 2, Timed: true, Input: InputReveal},
	{Name: "typing", Multiplier: 4, Timed: true, Input: InputTyping},
}

func (vocab) Name() string        { return "vocab" }
func (vocab) Description() string { return "Vocabulary pairs in both directions" }
func (vocab) Modes() []Mode       { return vocabModes }
func (vocab) DefaultMode() string { return "choice" }
func (vocab) Languages() []string { return []string{TargetToNative, NativeToTarget} }

func (vocab) Key(card model.Card) string {
	return Normalize(card.Question)
}

func (vocab) Prompt(card model.Card, settings model.Settings) Prompt {
	p := Prompt{Question: card.Question, Expected: card.Answer, Input: InputChoice}
	if settings.Language == NativeToTarget {
		p.Question, p.Expected = card.Answer, card.Question
	}
	if m, ok := FindMode(vocab{}, settings.Mode); ok {
		p.Input = m.Input
	}
	return p
}

func (v vocab) Evaluate(card model.Card, settings model.Settings, input string) scoring.Result {
	p := v.Prompt(card, settings)
	switch p.Input {
	case InputReveal:
		return selfGraded(input)
	case InputChoice:
		if Normalize(input) == Normalize(p.Expected) {
			return scoring.Correct
		}
		return scoring.Incorrect
	default:
		return compareText(p.Expected, input, 3)
	}
}

func (vocab) SeedDecks() []model.Deck {
	pairs := [][2]string{
		{"der Hund", "dog"}, {"die Katze", "cat"}, {"das Haus", "house"},
		{"der Baum", "tree"}, {"das Wasser", "water"}, {"die Sonne", "sun"},
		{"der Mond", "moon"}, {"das Buch", "book"}, {"die Stadt", "city"},
		{"der Apfel", "apple"}, {"die Schule", "school"}, {"das Fenster", "window"},
	}
	cards := make([]model.Card, len(pairs))
	for i, p := range pairs {
		cards[i] = model.NewCard(p[0], p[1])
	}
	return []model.Deck{{Name: "de", Cards: cards}}
}

func (vocab) Rules() scoring.Rules {
	return rulesFor(vocabModes, TargetToNative, nil)
}
