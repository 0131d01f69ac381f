// Package scoring computes the points awarded for one answered card.
package scoring

import (
	"math"

	"github.com/verte-zerg/tuicards/internal/model"
)

// Result classifies an answer.
type Result string

// Answer results.
const (
	Correct   Result = "correct"
	Incorrect Result = "incorrect"
	Close     Result = "close"
)

const (
	// CloseFactor scales the points of an almost-correct answer.
	CloseFactor = 0.75
	// LanguageBonus is added for correct answers in the bonus direction.
	LanguageBonus = 2
	// TimeBonus is added for correct answers that beat the card's best time.
	TimeBonus = 5
)

// Rules holds the per-game scoring tables.
type Rules struct {
	// Multipliers maps a game mode to its multiplier. Unknown modes score x1.
	Multipliers map[string]int
	// TimedModes lists the modes that track answer times.
	TimedModes map[string]bool
	// BonusLanguage is the language direction that earns LanguageBonus.
	BonusLanguage string
	// Difficulty adds game-specific base points. Nil means zero.
	Difficulty func(model.Card) int
}

// Multiplier returns the multiplier for a mode.
func (r Rules) Multiplier(mode string) int {
	if m, ok := r.Multipliers[mode]; ok && m > 0 {
		return m
	}
	return 1
}

// Timed reports whether a mode tracks answer times.
func (r Rules) Timed(mode string) bool {
	return r.TimedModes[mode]
}

// Breakdown itemizes the points for one answer.
type Breakdown struct {
	LevelPoints       int `json:"levelPoints"`
	DifficultyPoints  int `json:"difficultyPoints"`
	ModeMultiplier    int `json:"modeMultiplier"`
	PointsBeforeBonus int `json:"pointsBeforeBonus"`
	CloseAdjustment   int `json:"closeAdjustment"`
	LanguageBonus     int `json:"languageBonus"`
	TimeBonus         int `json:"timeBonus"`
	TotalPoints       int `json:"totalPoints"`
}

// ComputePoints scores one answer. answerTime is in seconds and only counts
// in timed modes. A nil card or nil settings yields a zero breakdown.
func ComputePoints(result Result, card *model.Card, settings *model.Settings, rules Rules, answerTime *float64) Breakdown {
	if card == nil || settings == nil {
		return Breakdown{}
	}
	level := model.ClampLevel(card.Level)
	b := Breakdown{
		LevelPoints:    (model.MaxLevel + 1) - level,
		ModeMultiplier: rules.Multiplier(settings.Mode),
	}
	if rules.Difficulty != nil {
		b.DifficultyPoints = rules.Difficulty(*card)
	}
	b.PointsBeforeBonus = (b.LevelPoints + b.DifficultyPoints) * b.ModeMultiplier

	if result != Correct && result != Close {
		return b
	}

	points := b.PointsBeforeBonus
	if result == Close {
		adjusted := int(math.Round(float64(points) * CloseFactor))
		b.CloseAdjustment = points - adjusted
		points = adjusted
	}

	if result == Correct {
		if rules.BonusLanguage != "" && settings.Language == rules.BonusLanguage {
			b.LanguageBonus = LanguageBonus
		}
		if beatsTime(card, settings.Mode, rules, answerTime) {
			b.TimeBonus = TimeBonus
		}
	}
	// Close answers never earn a speed bonus.
	if result == Close {
		b.TimeBonus = 0
	}

	b.TotalPoints = points + b.LanguageBonus + b.TimeBonus
	return b
}

func beatsTime(card *model.Card, mode string, rules Rules, answerTime *float64) bool {
	if answerTime == nil || !rules.Timed(mode) {
		return false
	}
	t := *answerTime
	if t <= 0 || t >= model.MaxTime {
		return false
	}
	return t < card.TimeFor(mode)
}
