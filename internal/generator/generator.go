// Package generator builds randomized card rounds.
package generator

import (
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/tuicards/internal/model"
)

// DefaultRoundSize is used when a caller asks for a non-positive round size.
const DefaultRoundSize = 10

var mediumWeights = [model.MaxLevel]int{1, 3, 5, 3, 1}

// Generator produces randomized card rounds.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Weight returns the selection weight of a level under a focus strategy.
func Weight(focus model.Focus, level int) int {
	level = model.ClampLevel(level)
	switch focus {
	case model.FocusStrong:
		return level
	case model.FocusMedium:
		return mediumWeights[level-1]
	default:
		return (model.MaxLevel + 1) - level
	}
}

// Round selects up to size cards for one session. The input slice is left
// untouched; the result is shuffled.
func (g *Generator) Round(all []model.Card, focus model.Focus, mode string, size int) []model.Card {
	if len(all) == 0 {
		return []model.Card{}
	}
	if size <= 0 {
		size = DefaultRoundSize
	}
	if size > len(all) {
		size = len(all)
	}

	var selected []model.Card
	if focus == model.FocusSlow {
		selected = slowest(all, mode, size)
	} else {
		selected = g.sampleWeighted(all, focus, size)
	}
	Shuffle(g, selected)
	return selected
}

func slowest(all []model.Card, mode string, size int) []model.Card {
	sorted := make([]model.Card, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimeFor(mode) > sorted[j].TimeFor(mode)
	})
	return sorted[:size]
}

// sampleWeighted draws size cards without replacement.
func (g *Generator) sampleWeighted(all []model.Card, focus model.Focus, size int) []model.Card {
	pool := make([]model.Card, len(all))
	copy(pool, all)
	weights := make([]int, len(pool))
	total := 0
	for i, card := range pool {
		w := Weight(focus, card.Level)
		weights[i] = w
		total += w
	}

	result := make([]model.Card, 0, size)
	for len(result) < size && len(pool) > 0 {
		r := g.rnd.Intn(total)
		acc := 0
		idx := len(pool) - 1
		for j, w := range weights {
			acc += w
			if acc > r {
				idx = j
				break
			}
		}
		result = append(result, pool[idx])
		total -= weights[idx]
		pool = append(pool[:idx], pool[idx+1:]...)
		weights = append(weights[:idx], weights[idx+1:]...)
	}
	return result
}

// Shuffle permutes items in place with Fisher-Yates.
func Shuffle[T any](g *Generator, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Choices returns answer plus up to n-1 distinct distractors from pool, shuffled.
func (g *Generator) Choices(answer string, pool []string, n int) []string {
	if n <= 0 {
		return nil
	}
	seen := map[string]struct{}{answer: {}}
	candidates := make([]string, 0, len(pool))
	for _, p := range pool {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		candidates = append(candidates, p)
	}
	Shuffle(g, candidates)
	if len(candidates) > n-1 {
		candidates = candidates[:n-1]
	}
	out := append([]string{answer}, candidates...)
	Shuffle(g, out)
	return out
}
