package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/tuicards/internal/model"
)

func TestWeakestCards(t *testing.T) {
	cards := []model.Card{
		model.NewCard("a", "1").WithLevel(3),
		model.NewCard("b", "2").WithTime("typing", 2),
		model.NewCard("c", "3"),
		model.NewCard("d", "4").WithLevel(2),
	}
	weak := WeakestCards(cards, 3)
	if len(weak) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(weak))
	}
	got := weak[0].Question + weak[1].Question + weak[2].Question
	if got != "cbd" {
		t.Fatalf("unexpected order %q", got)
	}
	if cards[0].Question != "a" {
		t.Fatalf("input must not be reordered")
	}
	if WeakestCards(cards, 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
}

func TestRenderLevels(t *testing.T) {
	var buf bytes.Buffer
	cards := []model.Card{model.NewCard("a", "1"), model.NewCard("b", "2").WithLevel(5)}
	if err := RenderLevels(&buf, cards, 1); err != nil {
		t.Fatalf("render levels: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Weakest Cards") || !strings.Contains(out, "Question") {
		t.Fatalf("missing weakest section:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	if lines[1] != "Level Cards" || lines[2] != "    1     1" || lines[6] != "    5     1" {
		t.Fatalf("unexpected level table:\n%s", out)
	}
}
