package tui

import (
	"strings"
	"testing"
)

func TestBuildStyledRunesCursor(t *testing.T) {
	runes := buildStyledRunes([]rune("ab"), []rune("a"))
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != pendingStyle.Underline(true).Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesMistype(t *testing.T) {
	runes := buildStyledRunes([]rune("a b"), []rune("axc"))
	if runes[1].s != incorrectStyle.Render("•") {
		t.Fatalf("expected a dot for a mistyped space")
	}
	if runes[2].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for third rune")
	}
}

func TestWrapStyledRunesBreaksAtSpace(t *testing.T) {
	runes := []styledRune{}
	for _, r := range "ab cd ef" {
		runes = append(runes, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	if got := wrapStyledRunes(runes, 5); got != "ab cd\nef" {
		t.Fatalf("unexpected wrap %q", got)
	}
	if got := wrapStyledRunes(runes, 0); got != "ab cd ef" {
		t.Fatalf("unexpected unwrapped %q", got)
	}
}

func TestWrapStyledRunesSplitsLongWords(t *testing.T) {
	runes := []styledRune{}
	for _, r := range "abcdef" {
		runes = append(runes, styledRune{s: string(r), width: 1})
	}
	got := wrapStyledRunes(runes, 4)
	if strings.Split(got, "\n")[0] != "abcd" {
		t.Fatalf("unexpected wrap %q", got)
	}
}
