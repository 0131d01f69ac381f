package apps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/scoring"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"multiply", "spell", "vocab"}, Names())
	app, err := Lookup(" Vocab ")
	require.NoError(t, err)
	assert.Equal(t, "vocab", app.Name())
	_, err = Lookup("chess")
	assert.Error(t, err)

	all := All()
	require.Len(t, all, 3)
	assert.Equal(t, "multiply", all[0].Name())
}

func TestSeedDecksAreUsable(t *testing.T) {
	for _, name := range Names() {
		app, err := Lookup(name)
		require.NoError(t, err)
		decks := app.SeedDecks()
		require.NotEmpty(t, decks, name)
		keys := map[string]bool{}
		for _, c := range decks[0].Cards {
			assert.Equal(t, model.MinLevel, c.Level)
			k := app.Key(c)
			assert.False(t, keys[k], "duplicate key %q in %s", k, name)
			keys[k] = true
		}
		_, ok := FindMode(app, app.DefaultMode())
		assert.True(t, ok, name)
	}
}

func TestMultiply(t *testing.T) {
	app, _ := Lookup("multiply")
	card := model.NewCard("7 × 8", "56")
	settings := model.Settings{Mode: "typing"}
	assert.Equal(t, scoring.Correct, app.Evaluate(card, settings, " 56 "))
	assert.Equal(t, scoring.Incorrect, app.Evaluate(card, settings, "54"))
	assert.Equal(t, scoring.Incorrect, app.Evaluate(card, settings, "fifty-six"))

	rules := app.Rules()
	assert.Equal(t, 1, rules.Difficulty(card))
	assert.Equal(t, 0, rules.Difficulty(model.NewCard("2 × 9", "18")))
	assert.Equal(t, 2, rules.Multiplier("typing"))
	assert.True(t, rules.Timed("typing"))
	assert.False(t, rules.Timed("choice"))
	assert.Len(t, app.SeedDecks()[0].Cards, 100)
}

func TestVocabDirections(t *testing.T) {
	app, _ := Lookup("vocab")
	card := model.NewCard("der Hund", "dog")

	p := app.Prompt(card, model.Settings{Mode: "typing", Language: TargetToNative})
	assert.Equal(t, "der Hund", p.Question)
	assert.Equal(t, "dog", p.Expected)
	assert.Equal(t, InputTyping, p.Input)

	p = app.Prompt(card, model.Settings{Mode: "choice", Language: NativeToTarget})
	assert.Equal(t, "dog", p.Question)
	assert.Equal(t, "der Hund", p.Expected)
	assert.Equal(t, InputChoice, p.Input)
}

func TestVocabEvaluate(t *testing.T) {
	app, _ := Lookup("vocab")
	card := model.NewCard("das Fenster", "window")
	typing := model.Settings{Mode: "typing", Language: TargetToNative}
	assert.Equal(t, scoring.Correct, app.Evaluate(card, typing, "Window"))
	assert.Equal(t, scoring.Close, app.Evaluate(card, typing, "windw"))
	assert.Equal(t, scoring.Incorrect, app.Evaluate(card, typing, "door"))
	assert.Equal(t, scoring.Incorrect, app.Evaluate(card, typing, ""))

	reverse := model.Settings{Mode: "typing", Language: NativeToTarget}
	assert.Equal(t, scoring.Correct, app.Evaluate(card, reverse, "das  fenster"))

	blind := model.Settings{Mode: "blind"}
	assert.Equal(t, scoring.Correct, app.Evaluate(card, blind, "y"))
	assert.Equal(t, scoring.Incorrect, app.Evaluate(card, blind, "n"))

	choice := model.Settings{Mode: "choice"}
	assert.Equal(t, scoring.Incorrect, app.Evaluate(card, choice, "windw"))

	assert.Equal(t, TargetToNative, app.Rules().BonusLanguage)
}

func TestSpell(t *testing.T) {
	app, _ := Lookup("spell")
	card := model.NewCard("necessary", "necessary")
	card.Hint = "needed"

	p := app.Prompt(card, model.Settings{Mode: "hidden"})
	assert.Equal(t, "needed  n _ _ _ _ _ _ _ _", p.Question)
	p = app.Prompt(card, model.Settings{Mode: "copy"})
	assert.Equal(t, "necessary", p.Question)

	assert.Equal(t, scoring.Correct, app.Evaluate(card, model.Settings{}, "necessary"))
	assert.Equal(t, scoring.Close, app.Evaluate(card, model.Settings{}, "neccessary"))
	assert.Equal(t, scoring.Incorrect, app.Evaluate(card, model.Settings{}, "nesesary"))

	short := model.NewCard("cat", "cat")
	assert.Equal(t, scoring.Incorrect, app.Evaluate(short, model.Settings{}, "cap"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "der hund", Normalize("  Der\tHUND "))
	assert.Equal(t, "", Normalize("   "))
}
