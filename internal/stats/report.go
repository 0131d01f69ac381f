package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/persist"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	App     string
	Stats   model.GameStats
	History []model.HistoryEntry
	Modes   []ModeSummary
	Last    *model.HistoryEntry
}

// BuildReport loads the stats and history of one app. last limits the
// history to the most recent sessions; the cumulative stats stay whole.
func BuildReport(ctx context.Context, repo *persist.Repository, session *persist.Session, last int) Report {
	history := repo.LoadHistory(ctx)
	if last > 0 && len(history) > last {
		history = history[len(history)-last:]
	}
	report := Report{
		App:     repo.App(),
		Stats:   repo.LoadStats(ctx),
		History: history,
		Modes:   ByMode(history),
	}
	if session != nil {
		if entry, ok := session.LoadLastResult(ctx); ok {
			report.Last = &entry
		}
	}
	return report
}

// Render prints every section of the report.
func (r Report) Render(w io.Writer, window, width int) error {
	if r.Last != nil {
		if err := RenderLastResult(w, *r.Last); err != nil {
			return err
		}
	}
	if err := RenderSummary(w, r.App, r.Stats, r.History); err != nil {
		return err
	}
	if len(r.History) == 0 {
		return nil
	}
	if err := RenderModes(w, r.Modes); err != nil {
		return err
	}
	if err := RenderHistory(w, r.History, 0); err != nil {
		return err
	}
	return RenderCurves(w, r.History, window, width)
}
