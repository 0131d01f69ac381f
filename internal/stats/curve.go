package stats

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/tuicards/internal/model"
)

const (
	curveLabelWidth     = len("Accuracy  ")
	minCurveWidth       = 10
	terminalWidthBackup = 80
)

// RenderCurves prints points and accuracy sparklines smoothed over window
// sessions. totalWidth <= 0 uses the terminal width.
func RenderCurves(w io.Writer, history []model.HistoryEntry, window, totalWidth int) error {
	if len(history) == 0 {
		return nil
	}
	points := make([]float64, len(history))
	accs := make([]float64, len(history))
	for i, h := range history {
		points[i] = float64(h.Points)
		accs[i] = Accuracy(h) * 100
	}
	points = MovingAverage(points, window)
	accs = MovingAverage(accs, window)

	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	width := CurveWidthFor(totalWidth)
	if len(history) < width {
		width = len(history)
	}
	if _, err := fmt.Fprintf(w, "Learning Curves (window %d)\n", window); err != nil {
		return err
	}
	for _, s := range []struct {
		name   string
		values []float64
	}{
		{"Points", points},
		{"Accuracy", accs},
	} {
		lo, hi := minMax(s.values)
		line := fmt.Sprintf("%-*s%s  min=%.1f max=%.1f", curveLabelWidth, s.name, Sparkline(resample(s.values, width)), lo, hi)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// CurveWidthFor computes the sparkline width that fits within totalWidth.
func CurveWidthFor(totalWidth int) int {
	// Leave room for the label and the min/max suffix.
	width := totalWidth - curveLabelWidth - len("  min=000.0 max=000.0")
	if width < minCurveWidth {
		return minCurveWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// resample averages values into width buckets. Shorter input is returned
// unchanged.
func resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := int(math.Floor(float64(i) * float64(len(values)) / float64(width)))
		end := int(math.Floor(float64(i+1) * float64(len(values)) / float64(width)))
		if end <= start {
			end = start + 1
		}
		if end > len(values) {
			end = len(values)
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
