// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuicards/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Accuracy returns the share of correct answers in a session.
func Accuracy(entry model.HistoryEntry) float64 {
	if entry.Answered <= 0 {
		return 0
	}
	return float64(entry.CorrectAnswers) / float64(entry.Answered)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func minMax(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// RenderSummary prints the cumulative stats of an app.
func RenderSummary(w io.Writer, app string, stats model.GameStats, history []model.HistoryEntry) error {
	if stats.GamesPlayed == 0 {
		_, err := fmt.Fprintf(w, "No games played for %s.\n", app)
		return err
	}
	best := 0
	for _, h := range history {
		if h.Points > best {
			best = h.Points
		}
	}
	lines := []string{
		fmt.Sprintf("Summary (%s)", app),
		fmt.Sprintf("Games: %d", stats.GamesPlayed),
		fmt.Sprintf("Total points: %d", stats.TotalPoints),
		fmt.Sprintf("Avg points: %.2f", float64(stats.TotalPoints)/float64(stats.GamesPlayed)),
		fmt.Sprintf("Best game: %d", best),
		fmt.Sprintf("Correct answers: %d", stats.CorrectAnswers),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints the most recent sessions, newest last.
func RenderHistory(w io.Writer, history []model.HistoryEntry, last int) error {
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if last > 0 && len(history) > last {
		history = history[len(history)-last:]
	}
	if _, err := fmt.Fprintln(w, "Recent Sessions"); err != nil {
		return err
	}
	headers := []string{"Date", "Mode", "Session", "Focus", "Cards", "Correct", "Accuracy", "Points"}
	rows := make([][]string, 0, len(history))
	for _, h := range history {
		rows = append(rows, []string{
			h.Date.Local().Format("2006-01-02 15:04"),
			h.Settings.Mode,
			string(h.Settings.Session),
			string(h.Settings.Focus),
			fmt.Sprintf("%d", h.Cards),
			fmt.Sprintf("%d/%d", h.CorrectAnswers, h.Answered),
			fmt.Sprintf("%.0f%%", Accuracy(h)*100),
			fmt.Sprintf("%d", h.Points),
		})
	}
	rightAlign := map[int]bool{4: true, 5: true, 6: true, 7: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderLastResult prints the result of the last finished session.
func RenderLastResult(w io.Writer, entry model.HistoryEntry) error {
	_, err := fmt.Fprintf(w, "Last game: %d points, %d/%d correct (%s, %s)\n\n",
		entry.Points, entry.CorrectAnswers, entry.Answered, entry.Settings.Mode, entry.Settings.Session)
	return err
}
