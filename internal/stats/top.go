package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/tuicards/internal/model"
)

// ModeSummary aggregates the sessions played in one mode.
type ModeSummary struct {
	Mode     string
	Games    int
	Points   int
	Correct  int
	Answered int
}

// ByMode groups sessions by game mode, most played first.
func ByMode(history []model.HistoryEntry) []ModeSummary {
	byMode := map[string]*ModeSummary{}
	for _, h := range history {
		s, ok := byMode[h.Settings.Mode]
		if !ok {
			s = &ModeSummary{Mode: h.Settings.Mode}
			byMode[h.Settings.Mode] = s
		}
		s.Games++
		s.Points += h.Points
		s.Correct += h.CorrectAnswers
		s.Answered += h.Answered
	}
	out := make([]ModeSummary, 0, len(byMode))
	for _, s := range byMode {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Games == out[j].Games {
			return out[i].Mode < out[j].Mode
		}
		return out[i].Games > out[j].Games
	})
	return out
}

// RenderModes prints per-mode aggregates.
func RenderModes(w io.Writer, modes []ModeSummary) error {
	if len(modes) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Mode"); err != nil {
		return err
	}
	headers := []string{"Mode", "Games", "Avg Points", "Accuracy"}
	rows := make([][]string, 0, len(modes))
	for _, m := range modes {
		acc := 0.0
		if m.Answered > 0 {
			acc = float64(m.Correct) / float64(m.Answered)
		}
		rows = append(rows, []string{
			m.Mode,
			fmt.Sprintf("%d", m.Games),
			fmt.Sprintf("%.1f", float64(m.Points)/float64(m.Games)),
			fmt.Sprintf("%.2f%%", acc*100),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
