package gamemode

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuicards/internal/model"
)

func key(c model.Card) string { return c.Question }

func card(q string, level int) model.Card {
	return model.Card{Question: q, Answer: q, Level: level}
}

func keys(cards []model.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Question
	}
	return out
}

func sortedKeys(cards []model.Card) []string {
	out := keys(cards)
	sort.Strings(out)
	return out
}

func TestFilterLevel1(t *testing.T) {
	cards := []model.Card{card("a", 1), card("b", 2), card("c", 1), card("d", 5)}
	got := FilterLevel1(cards)
	assert.Equal(t, []string{"a", "c"}, keys(got))
	assert.Empty(t, FilterLevel1([]model.Card{card("x", 3)}))
	assert.Empty(t, FilterLevel1[model.Card](nil))
}

func TestFilterBelowMax(t *testing.T) {
	cards := []model.Card{card("a", 5), card("b", 4), card("c", 1), card("d", 5)}
	got := FilterBelowMax(cards)
	assert.Equal(t, []string{"b", "c"}, keys(got))
	assert.Equal(t, cards[1], got[0])
}

func TestFilterPreservesPointerIdentity(t *testing.T) {
	a, b, c := &levelCard{level: 1}, &levelCard{level: 3}, &levelCard{level: 1}
	got := FilterLevel1([]*levelCard{a, b, c})
	require.Len(t, got, 2)
	assert.Same(t, a, got[0])
	assert.Same(t, c, got[1])
}

type levelCard struct{ level int }

func (l *levelCard) GetLevel() int { return l.level }

func TestRepeatCards(t *testing.T) {
	cards := []model.Card{card("a", 1), card("b", 1), card("c", 1)}
	got := RepeatCards(cards, LoopCount)
	require.Len(t, got, len(cards)*LoopCount)
	counts := map[string]int{}
	for _, c := range got {
		counts[c.Question]++
	}
	assert.Equal(t, map[string]int{"a": 3, "b": 3, "c": 3}, counts)
	assert.Empty(t, RepeatCards(cards, 0))
}

func TestRemoveAtOutOfRange(t *testing.T) {
	cards := []model.Card{card("a", 1)}
	_, err := RemoveAt(cards, 1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = RemoveAt(cards, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	got, err := RemoveAt(cards, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAvoidRepeatSwap(t *testing.T) {
	cards := []model.Card{card("a", 1), card("a", 1), card("b", 1)}
	AvoidRepeat(cards, 1, "a", key, true)
	assert.Equal(t, []string{"a", "b", "a"}, keys(cards))
	assert.Equal(t, []string{"a", "a", "b"}, sortedKeys(cards))
}

func TestAvoidRepeatWraps(t *testing.T) {
	cards := []model.Card{card("b", 1), card("a", 1), card("a", 1)}
	AvoidRepeat(cards, 2, "a", key, true)
	assert.Equal(t, []string{"a", "a", "b"}, keys(cards))
}

func TestAvoidRepeatWithoutWrapKeepsPast(t *testing.T) {
	cards := []model.Card{card("b", 1), card("a", 1), card("a", 1)}
	AvoidRepeat(cards, 2, "a", key, false)
	assert.Equal(t, []string{"b", "a", "a"}, keys(cards))
}

func TestAvoidRepeatNoop(t *testing.T) {
	cards := []model.Card{card("a", 1), card("a", 1)}
	AvoidRepeat(cards, 1, "a", key, true)
	assert.Equal(t, []string{"a", "a"}, keys(cards))

	cards = []model.Card{card("a", 1), card("b", 1)}
	AvoidRepeat(cards, 1, "a", key, true)
	assert.Equal(t, []string{"a", "b"}, keys(cards))
}

func TestStandardAdvance(t *testing.T) {
	ctrl := New[model.Card](model.SessionStandard, key)
	cards := []model.Card{card("a", 1), card("a", 1), card("b", 1)}
	step, err := ctrl.Advance(cards, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, step.Index)
	assert.False(t, step.Over)
	// Standard sessions never reorder.
	assert.Equal(t, []string{"a", "a", "b"}, keys(step.Cards))

	step, err = ctrl.Advance(step.Cards, 2)
	require.NoError(t, err)
	assert.True(t, step.Over)
}

func TestAdvanceOutOfRange(t *testing.T) {
	ctrl := New[model.Card](model.SessionStandard, key)
	_, err := ctrl.Advance([]model.Card{card("a", 1)}, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = ctrl.Advance(nil, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestEndless1Termination(t *testing.T) {
	ctrl := New[model.Card](model.SessionEndless1, key)
	cards := ctrl.Prepare(nil, []model.Card{card("a", 1), card("b", 1), card("c", 3)})
	require.Equal(t, []string{"a", "b"}, keys(cards))

	// Promote the first card.
	cards[0] = cards[0].WithLevel(2)
	step, err := ctrl.Advance(cards, 0)
	require.NoError(t, err)
	assert.False(t, step.Over)
	assert.Equal(t, []string{"b"}, keys(step.Cards))
	assert.Equal(t, 0, step.Index)

	// Promote the second card: the session ends now, not before.
	step.Cards[0] = step.Cards[0].WithLevel(2)
	step, err = ctrl.Advance(step.Cards, step.Index)
	require.NoError(t, err)
	assert.True(t, step.Over)
	assert.Empty(t, step.Cards)
}

func TestEndless1RingWraps(t *testing.T) {
	ctrl := New[model.Card](model.SessionEndless1, key)
	cards := []model.Card{card("a", 1), card("b", 1), card("c", 1)}
	step, err := ctrl.Advance(cards, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, step.Index)
	assert.Len(t, step.Cards, 3)
}

func TestEndless1RemoveTrailingResetsIndex(t *testing.T) {
	ctrl := New[model.Card](model.SessionEndless1, key)
	cards := []model.Card{card("a", 1), card("b", 1), card("c", 2)}
	step, err := ctrl.Advance(cards, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, step.Index)
	assert.Equal(t, []string{"a", "b"}, keys(step.Cards))
}

func TestEndless1SingleCardRepeats(t *testing.T) {
	ctrl := New[model.Card](model.SessionEndless1, key)
	cards := []model.Card{card("a", 1)}
	for i := 0; i < 5; i++ {
		step, err := ctrl.Advance(cards, 0)
		require.NoError(t, err)
		assert.False(t, step.Over)
		assert.Equal(t, 0, step.Index)
		cards = step.Cards
	}
	cards[0] = cards[0].WithLevel(2)
	step, err := ctrl.Advance(cards, 0)
	require.NoError(t, err)
	assert.True(t, step.Over)
}

func TestEndless1AntiRepeat(t *testing.T) {
	ctrl := New[model.Card](model.SessionEndless1, key)
	cards := []model.Card{card("a", 1), card("a", 1), card("b", 1)}
	step, err := ctrl.Advance(cards, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, step.Index)
	assert.Equal(t, "b", step.Cards[1].Question)
	assert.Equal(t, []string{"a", "a", "b"}, sortedKeys(step.Cards))
}

func TestEndless5(t *testing.T) {
	ctrl := New[model.Card](model.SessionEndless5, key)
	cards := ctrl.Prepare(nil, []model.Card{card("a", 4), card("b", 5), card("c", 1)})
	require.Equal(t, []string{"a", "c"}, keys(cards))

	cards[0] = cards[0].WithLevel(5)
	step, err := ctrl.Advance(cards, 0)
	require.NoError(t, err)
	assert.False(t, step.Over)
	assert.Equal(t, []string{"c"}, keys(step.Cards))

	// Not yet at max: stays in the ring.
	step.Cards[0] = step.Cards[0].WithLevel(2)
	step, err = ctrl.Advance(step.Cards, 0)
	require.NoError(t, err)
	assert.False(t, step.Over)
	assert.Equal(t, 0, step.Index)

	step.Cards[0] = step.Cards[0].WithLevel(5)
	step, err = ctrl.Advance(step.Cards, 0)
	require.NoError(t, err)
	assert.True(t, step.Over)
}

func TestRounds3(t *testing.T) {
	ctrl := New[model.Card](model.SessionRounds3, key)
	round := []model.Card{card("a", 1), card("b", 2)}
	cards := ctrl.Prepare(round, nil)
	require.Len(t, cards, 6)

	index := 0
	prev := ""
	answered := 0
	for {
		if prev != "" && len(cards) > 1 {
			assert.NotEqual(t, prev, cards[index].Question, "consecutive repeat at %d: %v", index, keys(cards))
		}
		prev = cards[index].Question
		answered++
		step, err := ctrl.Advance(cards, index)
		require.NoError(t, err)
		cards, index = step.Cards, step.Index
		if step.Over {
			break
		}
	}
	assert.Equal(t, 6, answered)
	assert.Equal(t, []string{"a", "a", "a", "b", "b", "b"}, sortedKeys(cards))
}

func TestRounds3AntiRepeatScenario(t *testing.T) {
	ctrl := New[model.Card](model.SessionRounds3, key)
	cards := []model.Card{card("a", 1), card("a", 1), card("b", 1)}
	step, err := ctrl.Advance(cards, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, step.Index)
	assert.Equal(t, "b", step.Cards[1].Question)
	assert.Equal(t, []string{"a", "a", "b"}, sortedKeys(step.Cards))
}

func TestPrepareStandardCopiesRound(t *testing.T) {
	ctrl := New[model.Card](model.SessionStandard, key)
	round := []model.Card{card("a", 1), card("b", 1)}
	cards := ctrl.Prepare(round, nil)
	cards[0].Question = "z"
	assert.Equal(t, "a", round[0].Question)
}

func TestIndexBoundsWhileActive(t *testing.T) {
	for _, mode := range model.SessionModes {
		ctrl := New[model.Card](mode, key)
		all := []model.Card{card("a", 1), card("b", 1), card("c", 4), card("d", 1)}
		cards := ctrl.Prepare(all, all)
		index := 0
		for i := 0; i < 100 && len(cards) > 0; i++ {
			// Promote every other answer.
			if i%2 == 0 {
				cards[index] = cards[index].WithLevel(cards[index].Level + 1)
			}
			step, err := ctrl.Advance(cards, index)
			require.NoError(t, err)
			cards, index = step.Cards, step.Index
			if step.Over {
				break
			}
			assert.GreaterOrEqual(t, index, 0, "mode %s", mode)
			assert.Less(t, index, len(cards), "mode %s", mode)
		}
	}
}
