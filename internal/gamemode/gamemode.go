// Package gamemode decides which card comes next and when a session ends.
package gamemode

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/tuicards/internal/model"
)

// LoopCount is how many times a 3-rounds session repeats its round.
const LoopCount = 3

// ErrIndexOutOfRange reports a card index outside the session's bounds.
var ErrIndexOutOfRange = errors.New("card index out of range")

// Leveled is satisfied by any card type that exposes its level.
type Leveled interface {
	GetLevel() int
}

// KeyFunc returns a stable identity key for a card.
type KeyFunc[C any] func(C) string

// FilterLevel1 returns the cards still at MinLevel, in order.
func FilterLevel1[C Leveled](cards []C) []C {
	out := make([]C, 0, len(cards))
	for _, c := range cards {
		if c.GetLevel() <= model.MinLevel {
			out = append(out, c)
		}
	}
	return out
}

// FilterBelowMax returns the cards below MaxLevel, in order.
func FilterBelowMax[C Leveled](cards []C) []C {
	out := make([]C, 0, len(cards))
	for _, c := range cards {
		if c.GetLevel() < model.MaxLevel {
			out = append(out, c)
		}
	}
	return out
}

// RepeatCards returns cards concatenated n times.
func RepeatCards[C any](cards []C, n int) []C {
	if n <= 0 {
		return []C{}
	}
	out := make([]C, 0, len(cards)*n)
	for i := 0; i < n; i++ {
		out = append(out, cards...)
	}
	return out
}

// RemoveAt removes the card at index i in place.
func RemoveAt[C any](cards []C, i int) ([]C, error) {
	if i < 0 || i >= len(cards) {
		return cards, fmt.Errorf("remove card %d of %d: %w", i, len(cards), ErrIndexOutOfRange)
	}
	return append(cards[:i], cards[i+1:]...), nil
}

// AvoidRepeat makes sure cards[next] differs from prevKey by swapping in the
// nearest later card with another key. With wrap the search continues from
// the start of the slice. It is a no-op when no such card exists.
func AvoidRepeat[C any](cards []C, next int, prevKey string, key KeyFunc[C], wrap bool) {
	n := len(cards)
	if n < 2 || next < 0 || next >= n || key(cards[next]) != prevKey {
		return
	}
	limit := n - next
	if wrap {
		limit = n
	}
	for off := 1; off < limit; off++ {
		j := next + off
		if wrap {
			j %= n
		}
		if key(cards[j]) != prevKey {
			cards[next], cards[j] = cards[j], cards[next]
			return
		}
	}
}

// Step is the result of advancing past the current card.
type Step[C any] struct {
	Cards []C
	Index int
	Over  bool
}

// Controller advances a session according to its mode.
type Controller[C Leveled] struct {
	Mode model.SessionMode
	Key  KeyFunc[C]
}

// New returns a controller for the mode.
func New[C Leveled](mode model.SessionMode, key KeyFunc[C]) Controller[C] {
	return Controller[C]{Mode: mode, Key: key}
}

// Prepare builds a session's working set. round is the selected round and
// all is the full deck; endless modes draw from the deck directly.
func (c Controller[C]) Prepare(round, all []C) []C {
	switch c.Mode {
	case model.SessionEndless1:
		return FilterLevel1(all)
	case model.SessionEndless5:
		return FilterBelowMax(all)
	case model.SessionRounds3:
		return RepeatCards(round, LoopCount)
	default:
		out := make([]C, len(round))
		copy(out, round)
		return out
	}
}

// Advance moves past the card at index. cards[index] must already reflect
// the answer that was just given.
func (c Controller[C]) Advance(cards []C, index int) (Step[C], error) {
	if index < 0 || index >= len(cards) {
		return Step[C]{Cards: cards, Index: index, Over: true}, fmt.Errorf("advance from %d of %d: %w", index, len(cards), ErrIndexOutOfRange)
	}
	switch c.Mode {
	case model.SessionEndless1:
		return c.advanceEndless(cards, index, func(level int) bool { return level > model.MinLevel })
	case model.SessionEndless5:
		return c.advanceEndless(cards, index, func(level int) bool { return level >= model.MaxLevel })
	case model.SessionRounds3:
		prevKey := c.Key(cards[index])
		next := index + 1
		if next >= len(cards) {
			return Step[C]{Cards: cards, Index: next, Over: true}, nil
		}
		// Only unplayed cards may be swapped in; wrapping would replay one.
		AvoidRepeat(cards, next, prevKey, c.Key, false)
		return Step[C]{Cards: cards, Index: next}, nil
	default:
		next := index + 1
		return Step[C]{Cards: cards, Index: next, Over: next >= len(cards)}, nil
	}
}

// advanceEndless treats cards as a ring. Cards for which done reports true
// leave the ring; the session ends when it is empty.
func (c Controller[C]) advanceEndless(cards []C, index int, done func(level int) bool) (Step[C], error) {
	current := cards[index]
	prevKey := c.Key(current)
	next := index
	if done(current.GetLevel()) {
		var err error
		cards, err = RemoveAt(cards, index)
		if err != nil {
			return Step[C]{Cards: cards, Index: index, Over: true}, err
		}
		if len(cards) == 0 {
			return Step[C]{Cards: cards, Index: 0, Over: true}, nil
		}
		if next >= len(cards) {
			next = 0
		}
	} else {
		next++
		if next >= len(cards) {
			next = 0
		}
	}
	if c.Mode == model.SessionEndless1 {
		AvoidRepeat(cards, next, prevKey, c.Key, true)
	}
	return Step[C]{Cards: cards, Index: next}, nil
}
