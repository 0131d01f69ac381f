// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Level and time bounds shared by every game.
const (
	MinLevel = 1
	MaxLevel = 5
	MinTime  = 0.1
	MaxTime  = 60.0
)

// ClampLevel keeps a level within [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// ClampTime keeps an answer latency within [MinTime, MaxTime].
func ClampTime(seconds float64) float64 {
	if seconds < MinTime {
		return MinTime
	}
	if seconds > MaxTime {
		return MaxTime
	}
	return seconds
}

// Card is a unit of learning content.
type Card struct {
	Question string             `json:"question"`
	Answer   string             `json:"answer"`
	Hint     string             `json:"hint,omitempty"`
	Level    int                `json:"level"`
	Times    map[string]float64 `json:"times,omitempty"`
}

// NewCard returns a level-1 card without recorded times.
func NewCard(question, answer string) Card {
	return Card{Question: question, Answer: answer, Level: MinLevel}
}

// GetLevel returns the card level.
func (c Card) GetLevel() int {
	return c.Level
}

// TimeFor returns the best recorded time for a mode. An empty mode returns
// the minimum across all tracked modes. Untracked times read as MaxTime.
func (c Card) TimeFor(mode string) float64 {
	if mode != "" {
		if t, ok := c.Times[mode]; ok {
			return t
		}
		return MaxTime
	}
	best := MaxTime
	for _, t := range c.Times {
		if t < best {
			best = t
		}
	}
	return best
}

// WithLevel returns a copy of the card at the clamped level.
func (c Card) WithLevel(level int) Card {
	c.Level = ClampLevel(level)
	return c
}

// WithTime returns a copy of the card with the mode time replaced.
func (c Card) WithTime(mode string, seconds float64) Card {
	times := make(map[string]float64, len(c.Times)+1)
	for k, v := range c.Times {
		times[k] = v
	}
	times[mode] = ClampTime(seconds)
	c.Times = times
	return c
}

// Deck is a named ordered collection of cards.
type Deck struct {
	Name  string `json:"name"`
	Cards []Card `json:"cards"`
}

// Settings configures one play session.
type Settings struct {
	App       string      `json:"app"`
	Mode      string      `json:"mode"`
	Focus     Focus       `json:"focus"`
	Session   SessionMode `json:"session"`
	Language  string      `json:"language,omitempty"`
	Deck      string      `json:"deck,omitempty"`
	RoundSize int         `json:"roundSize,omitempty"`
}

// HistoryEntry records one completed session.
type HistoryEntry struct {
	ID             uuid.UUID `json:"id"`
	Date           time.Time `json:"date"`
	Points         int       `json:"points"`
	CorrectAnswers int       `json:"correctAnswers"`
	Answered       int       `json:"answered"`
	Cards          int       `json:"cards"`
	Settings       Settings  `json:"settings"`
}

// GameStats is the cumulative aggregate over all completed sessions.
type GameStats struct {
	GamesPlayed    int `json:"gamesPlayed"`
	TotalPoints    int `json:"totalPoints"`
	CorrectAnswers int `json:"correctAnswers"`
}

// Add folds one completed session into the aggregate.
func (s GameStats) Add(entry HistoryEntry) GameStats {
	s.GamesPlayed++
	s.TotalPoints += entry.Points
	s.CorrectAnswers += entry.CorrectAnswers
	return s
}
