package model

import (
	"fmt"
	"strings"
)

// Focus biases which cards a round selects.
type Focus string

// Focus strategies.
const (
	FocusWeak   Focus = "weak"
	FocusStrong Focus = "strong"
	FocusMedium Focus = "medium"
	FocusSlow   Focus = "slow"
)

// Focuses lists every focus strategy.
var Focuses = []Focus{FocusWeak, FocusStrong, FocusMedium, FocusSlow}

// Valid reports whether f is a known focus.
func (f Focus) Valid() bool {
	for _, known := range Focuses {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFocus parses a focus name case-insensitively.
func ParseFocus(s string) (Focus, error) {
	f := Focus(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown focus %q (expected weak, strong, medium or slow)", s)
	}
	return f, nil
}

// SessionMode selects how a session advances and when it ends.
type SessionMode string

// Session modes.
const (
	SessionStandard SessionMode = "standard"
	SessionEndless1 SessionMode = "endless-1"
	SessionEndless5 SessionMode = "endless-5"
	SessionRounds3  SessionMode = "3-rounds"
)

// SessionModes lists every session mode.
var SessionModes = []SessionMode{SessionStandard, SessionEndless1, SessionEndless5, SessionRounds3}

// Valid reports whether m is a known session mode.
func (m SessionMode) Valid() bool {
	for _, known := range SessionModes {
		if m == known {
			return true
		}
	}
	return false
}

// ParseSessionMode parses a session mode name case-insensitively.
func ParseSessionMode(s string) (SessionMode, error) {
	m := SessionMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown session mode %q (expected standard, endless-1, endless-5 or 3-rounds)", s)
	}
	return m, nil
}
