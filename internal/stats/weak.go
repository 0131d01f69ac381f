package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/tuicards/internal/model"
)

// WeakestCards returns up to n cards ordered by lowest level, then slowest
// best time.
func WeakestCards(cards []model.Card, n int) []model.Card {
	if n <= 0 || len(cards) == 0 {
		return nil
	}
	candidates := make([]model.Card, len(cards))
	copy(candidates, cards)
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Level != candidates[j].Level {
			return candidates[i].Level < candidates[j].Level
		}
		return candidates[i].TimeFor("") > candidates[j].TimeFor("")
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

// RenderLevels prints how many cards sit at each level and the weakest cards.
func RenderLevels(w io.Writer, cards []model.Card, weakest int) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(w, "No cards found.")
		return err
	}
	counts := make([]int, model.MaxLevel+1)
	for _, c := range cards {
		counts[model.ClampLevel(c.Level)]++
	}
	if _, err := fmt.Fprintln(w, "Levels"); err != nil {
		return err
	}
	headers := []string{"Level", "Cards"}
	rows := make([][]string, 0, model.MaxLevel)
	for level := model.MinLevel; level <= model.MaxLevel; level++ {
		rows = append(rows, []string{fmt.Sprintf("%d", level), fmt.Sprintf("%d", counts[level])})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	weak := WeakestCards(cards, weakest)
	if len(weak) == 0 {
		_, err := fmt.Fprintln(w, "")
		return err
	}
	if _, err := fmt.Fprintln(w, "\nWeakest Cards"); err != nil {
		return err
	}
	rows = rows[:0]
	for _, c := range weak {
		best := "-"
		if t := c.TimeFor(""); t < model.MaxTime {
			best = fmt.Sprintf("%.1fs", t)
		}
		rows = append(rows, []string{c.Question, c.Answer, fmt.Sprintf("%d", c.Level), best})
	}
	for _, line := range formatTable([]string{"Question", "Answer", "Level", "Best"}, rows, map[int]bool{2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
