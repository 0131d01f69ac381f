package stats

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/persist"
	"github.com/verte-zerg/tuicards/internal/store"
)

func TestBuildReport(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	repo := persist.NewRepository(kv, "vocab", nil, zerolog.Nop())
	session := persist.NewSession(kv, "vocab", zerolog.Nop())

	total := model.GameStats{}
	for i := 0; i < 3; i++ {
		e := entry("typing", 10*(i+1), i, 3)
		e.Date = time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		if err := repo.AppendHistory(ctx, e); err != nil {
			t.Fatalf("append history: %v", err)
		}
		total = total.Add(e)
	}
	if err := repo.SaveStats(ctx, total); err != nil {
		t.Fatalf("save stats: %v", err)
	}
	if err := session.SaveLastResult(ctx, entry("typing", 30, 2, 3)); err != nil {
		t.Fatalf("save last result: %v", err)
	}

	report := BuildReport(ctx, repo, session, 2)
	if len(report.History) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.History))
	}
	if report.History[0].Points != 20 || report.History[1].Points != 30 {
		t.Fatalf("unexpected history window: %+v", report.History)
	}
	if report.Stats.GamesPlayed != 3 || report.Stats.TotalPoints != 60 {
		t.Fatalf("stats must cover every game: %+v", report.Stats)
	}
	if report.Last == nil || report.Last.Points != 30 {
		t.Fatalf("expected last result, got %+v", report.Last)
	}
	if len(report.Modes) != 1 || report.Modes[0].Games != 2 {
		t.Fatalf("unexpected modes: %+v", report.Modes)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, 2, 80); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Last game: 30 points", "Summary (vocab)", "Per-Mode", "Recent Sessions", "Learning Curves"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderEmptyReport(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	report := BuildReport(ctx, persist.NewRepository(kv, "spell", nil, zerolog.Nop()), nil, 0)
	var buf bytes.Buffer
	if err := report.Render(&buf, 5, 80); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No games played for spell." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
