// Package game runs play sessions: it selects a round, grades answers,
// moves cards between levels and records finished sessions.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuicards/internal/apps"
	"github.com/verte-zerg/tuicards/internal/gamemode"
	"github.com/verte-zerg/tuicards/internal/generator"
	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/persist"
	"github.com/verte-zerg/tuicards/internal/scoring"
)

// ChoiceCount is the number of options offered in choice modes.
const ChoiceCount = 4

// ErrNoSession is returned when an answer or advance arrives with no card
// on screen.
var ErrNoSession = errors.New("no active session")

// ErrAlreadyAnswered is returned when the card on screen was answered and
// NextCard has not been called yet.
var ErrAlreadyAnswered = errors.New("card already answered")

// Question is the current card as presented to the player.
type Question struct {
	apps.Prompt
	Hint    string
	Choices []string
}

// Outcome describes one graded answer.
type Outcome struct {
	Result    scoring.Result
	Breakdown scoring.Breakdown
	Expected  string
	Before    model.Card
	After     model.Card
}

// Store owns the cards of one app and the session being played.
type Store struct {
	app     apps.App
	rules   scoring.Rules
	repo    *persist.Repository
	session *persist.Session
	gen     *generator.Generator
	logger  zerolog.Logger
	now     func() time.Time

	initialized bool
	cards       []model.Card
	history     []model.HistoryEntry
	stats       model.GameStats

	settings   model.Settings
	controller gamemode.Controller[model.Card]
	gameCards  []model.Card
	index      int
	roundSize  int
	points     int
	correct    int
	answered   int
	last       scoring.Breakdown
	pending    bool
	active     bool
	startedAt  time.Time
	result     *model.HistoryEntry
}

// New returns a store for app. Nothing is loaded until Initialize.
func New(app apps.App, repo *persist.Repository, session *persist.Session, gen *generator.Generator, logger zerolog.Logger) *Store {
	return &Store{
		app:     app,
		rules:   app.Rules(),
		repo:    repo,
		session: session,
		gen:     gen,
		logger:  logger.With().Str("app", app.Name()).Logger(),
		now:     time.Now,
	}
}

// Initialize loads cards, history and stats once. Later calls do nothing.
func (s *Store) Initialize(ctx context.Context) {
	if s.initialized {
		return
	}
	s.cards = s.repo.LoadCards(ctx)
	s.history = s.repo.LoadHistory(ctx)
	s.stats = s.repo.LoadStats(ctx)
	s.initialized = true
	s.logger.Debug().Int("cards", len(s.cards)).Int("history", len(s.history)).Msg("store initialized")
}

// normalize fills in defaults for unset or unknown settings.
func (s *Store) normalize(ctx context.Context, settings model.Settings) model.Settings {
	settings.App = s.app.Name()
	if _, ok := apps.FindMode(s.app, settings.Mode); !ok {
		settings.Mode = s.app.DefaultMode()
	}
	if !settings.Focus.Valid() {
		settings.Focus = model.FocusWeak
	}
	if !settings.Session.Valid() {
		settings.Session = model.SessionStandard
	}
	if settings.Language == "" {
		if langs := s.app.Languages(); len(langs) > 0 {
			settings.Language = langs[0]
		}
	}
	if settings.Deck == "" {
		settings.Deck = s.repo.CurrentDeck(ctx)
	}
	if settings.RoundSize <= 0 {
		settings.RoundSize = generator.DefaultRoundSize
	}
	return settings
}

// StartGame selects a round and resets the session counters. It reports
// false when the selected deck has no playable cards.
func (s *Store) StartGame(ctx context.Context, settings model.Settings) bool {
	s.Initialize(ctx)
	settings = s.normalize(ctx, settings)
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save settings")
	}
	// The deck may have changed since Initialize.
	s.cards = s.repo.LoadCards(ctx)

	round := s.gen.Round(s.cards, settings.Focus, settings.Mode, settings.RoundSize)
	controller := gamemode.New[model.Card](settings.Session, s.app.Key)
	gameCards := controller.Prepare(round, s.cards)
	if settings.Session != model.SessionStandard {
		generator.Shuffle(s.gen, gameCards)
	}

	s.resetSession()
	if len(gameCards) == 0 {
		s.logger.Debug().Str("session", string(settings.Session)).Msg("nothing to play")
		return false
	}
	s.settings = settings
	s.controller = controller
	s.gameCards = gameCards
	s.roundSize = len(gameCards)
	s.active = true
	s.startedAt = s.now()
	s.checkpoint(ctx)
	s.logger.Debug().
		Str("mode", settings.Mode).
		Str("session", string(settings.Session)).
		Str("focus", string(settings.Focus)).
		Int("cards", len(gameCards)).
		Msg("session started")
	return true
}

// Resume restores a session interrupted before it finished. Game cards take
// their level and times from the deck, which may have changed since the
// checkpoint. A session left after an answer moves on to the next card; if
// that was the last card, the session is recorded and Resume reports false
// with the entry available from Result.
func (s *Store) Resume(ctx context.Context) bool {
	state, ok := s.session.LoadState(ctx)
	if !ok {
		return false
	}
	s.Initialize(ctx)
	settings := s.normalize(ctx, state.Settings)
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save settings")
	}
	s.cards = s.repo.LoadCards(ctx)

	s.resetSession()
	s.settings = settings
	s.controller = gamemode.New[model.Card](settings.Session, s.app.Key)
	s.gameCards = s.reconcile(state.Cards)
	s.index = state.Index
	s.roundSize = state.RoundSize
	if s.roundSize <= 0 {
		s.roundSize = len(state.Cards)
	}
	s.points = state.Points
	s.correct = state.Correct
	s.answered = state.Answered
	s.startedAt = state.StartedAt
	s.pending = state.Pending
	s.active = true
	s.logger.Debug().Int("index", s.index).Int("cards", len(s.gameCards)).Bool("pending", s.pending).Msg("session resumed")
	if !s.pending {
		return true
	}
	over, err := s.NextCard(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to advance resumed session")
		s.clearState(ctx)
		return false
	}
	return !over
}

// reconcile replaces checkpointed cards with their current deck version.
// Cards no longer in the deck are kept as saved.
func (s *Store) reconcile(saved []model.Card) []model.Card {
	byKey := make(map[string]model.Card, len(s.cards))
	for _, c := range s.cards {
		byKey[s.app.Key(c)] = c
	}
	out := make([]model.Card, len(saved))
	for i, c := range saved {
		if deckCard, ok := byKey[s.app.Key(c)]; ok {
			c = deckCard
		}
		out[i] = c
	}
	return out
}

func (s *Store) resetSession() {
	s.settings = model.Settings{}
	s.gameCards = nil
	s.index = 0
	s.roundSize = 0
	s.points = 0
	s.correct = 0
	s.answered = 0
	s.last = scoring.Breakdown{}
	s.pending = false
	s.active = false
	s.startedAt = time.Time{}
	s.result = nil
}

// Current returns the card on screen.
func (s *Store) Current() (model.Card, bool) {
	if !s.active || s.index < 0 || s.index >= len(s.gameCards) {
		return model.Card{}, false
	}
	return s.gameCards[s.index], true
}

// Prompt returns the current card as the player sees it. Choice modes get
// the expected answer mixed with answers of other cards in the deck.
func (s *Store) Prompt() (Question, bool) {
	card, ok := s.Current()
	if !ok {
		return Question{}, false
	}
	q := Question{Prompt: s.app.Prompt(card, s.settings), Hint: card.Hint}
	if q.Input == apps.InputChoice {
		key := s.app.Key(card)
		pool := make([]string, 0, len(s.cards))
		for _, c := range s.cards {
			if s.app.Key(c) == key {
				continue
			}
			pool = append(pool, s.app.Prompt(c, s.settings).Expected)
		}
		q.Choices = s.gen.Choices(q.Expected, pool, ChoiceCount)
	}
	return q, true
}

// Answer grades input for the current card, updates its level and best
// time, and persists the deck. elapsed is how long the player took; zero
// means the answer was not timed. Each card is answered once until NextCard.
func (s *Store) Answer(ctx context.Context, input string, elapsed time.Duration) (Outcome, error) {
	card, ok := s.Current()
	if !ok {
		return Outcome{}, ErrNoSession
	}
	if s.pending {
		return Outcome{}, ErrAlreadyAnswered
	}
	var answerTime *float64
	if elapsed > 0 {
		secs := elapsed.Seconds()
		answerTime = &secs
	}

	result := s.app.Evaluate(card, s.settings, input)
	breakdown := scoring.ComputePoints(result, &card, &s.settings, s.rules, answerTime)
	s.HandleAnswerBase(result, breakdown)
	s.answered++

	updated := s.progress(card, result, answerTime)
	s.replace(updated)
	s.pending = true
	if err := s.repo.SaveCards(ctx, s.cards); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save cards")
	}
	s.checkpoint(ctx)

	s.logger.Debug().
		Str("result", string(result)).
		Int("points", breakdown.TotalPoints).
		Int("level", updated.Level).
		Msg("answer graded")
	return Outcome{
		Result:    result,
		Breakdown: breakdown,
		Expected:  s.app.Prompt(card, s.settings).Expected,
		Before:    card,
		After:     updated,
	}, nil
}

// HandleAnswerBase folds a graded answer into the session counters.
func (s *Store) HandleAnswerBase(result scoring.Result, breakdown scoring.Breakdown) {
	if result == scoring.Correct {
		s.correct++
	}
	s.points += breakdown.TotalPoints
	s.last = breakdown
}

// progress applies the level transition and records a new best time.
func (s *Store) progress(card model.Card, result scoring.Result, answerTime *float64) model.Card {
	switch result {
	case scoring.Correct:
		card = card.WithLevel(card.Level + 1)
		if answerTime != nil && s.rules.Timed(s.settings.Mode) && *answerTime < card.TimeFor(s.settings.Mode) {
			card = card.WithTime(s.settings.Mode, *answerTime)
		}
	case scoring.Incorrect:
		card = card.WithLevel(card.Level - 1)
	}
	return card
}

// replace writes card back to every copy in the session and the deck.
func (s *Store) replace(card model.Card) {
	key := s.app.Key(card)
	for i := range s.gameCards {
		if s.app.Key(s.gameCards[i]) == key {
			s.gameCards[i] = card
		}
	}
	for i := range s.cards {
		if s.app.Key(s.cards[i]) == key {
			s.cards[i] = card
		}
	}
}

// NextCard advances past the current card. It reports true when the
// session is over, in which case the result has been saved.
func (s *Store) NextCard(ctx context.Context) (bool, error) {
	if !s.active {
		return true, ErrNoSession
	}
	step, err := s.controller.Advance(s.gameCards, s.index)
	if err != nil {
		s.active = false
		return true, fmt.Errorf("next card: %w", err)
	}
	s.gameCards = step.Cards
	s.index = step.Index
	s.pending = false
	if !step.Over {
		s.checkpoint(ctx)
		return false, nil
	}

	entry := model.HistoryEntry{
		ID:             uuid.New(),
		Date:           s.now(),
		Points:         s.points,
		CorrectAnswers: s.correct,
		Answered:       s.answered,
		Cards:          s.roundSize,
		Settings:       s.settings,
	}
	s.active = false
	s.result = &entry
	s.SaveGameResults(ctx, entry)
	if err := s.session.SaveLastResult(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save last result")
	}
	s.clearState(ctx)
	s.logger.Debug().Int("points", entry.Points).Int("correct", entry.CorrectAnswers).Msg("session finished")
	return true, nil
}

// SaveGameResults appends entry to the history and adds it to the
// cumulative stats.
func (s *Store) SaveGameResults(ctx context.Context, entry model.HistoryEntry) {
	s.Initialize(ctx)
	s.history = append(s.history, entry)
	s.stats = s.stats.Add(entry)
	if err := s.repo.AppendHistory(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save history")
	}
	if err := s.repo.SaveStats(ctx, s.stats); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save stats")
	}
}

// DiscardGame abandons the session without recording it.
func (s *Store) DiscardGame(ctx context.Context) {
	s.resetSession()
	s.clearState(ctx)
	s.logger.Debug().Msg("session discarded")
}

// MoveAllCards sets every card of the deck to level. Levels outside
// [MinLevel, MaxLevel] are rejected without writing anything.
func (s *Store) MoveAllCards(ctx context.Context, level int) bool {
	if level < model.MinLevel || level > model.MaxLevel {
		return false
	}
	s.Initialize(ctx)
	for i := range s.cards {
		s.cards[i] = s.cards[i].WithLevel(level)
	}
	if err := s.repo.SaveCards(ctx, s.cards); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save cards")
	}
	return true
}

// ResetAllCards wipes all progress: every card returns to MinLevel with
// no recorded times.
func (s *Store) ResetAllCards(ctx context.Context) {
	s.Initialize(ctx)
	for i := range s.cards {
		s.cards[i].Level = model.MinLevel
		s.cards[i].Times = nil
	}
	if err := s.repo.SaveCards(ctx, s.cards); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save cards")
	}
}

// Result returns the entry recorded when this store's session finished.
func (s *Store) Result() (model.HistoryEntry, bool) {
	if s.result == nil {
		return model.HistoryEntry{}, false
	}
	return *s.result, true
}

// LastResult returns the result of the last finished session.
func (s *Store) LastResult(ctx context.Context) (model.HistoryEntry, bool) {
	return s.session.LoadLastResult(ctx)
}

func (s *Store) checkpoint(ctx context.Context) {
	state := persist.State{
		Settings:  s.settings,
		Cards:     s.gameCards,
		Index:     s.index,
		Points:    s.points,
		Correct:   s.correct,
		Answered:  s.answered,
		Pending:   s.pending,
		RoundSize: s.roundSize,
		StartedAt: s.startedAt,
	}
	if err := s.session.SaveState(ctx, state); err != nil {
		s.logger.Warn().Err(err).Msg("failed to checkpoint session")
	}
}

func (s *Store) clearState(ctx context.Context) {
	if err := s.session.ClearState(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear session state")
	}
}

// App returns the app being played.
func (s *Store) App() apps.App { return s.app }

// Settings returns the settings of the current session.
func (s *Store) Settings() model.Settings { return s.settings }

// Active reports whether a session is in progress.
func (s *Store) Active() bool { return s.active }

// Points returns the session's points so far.
func (s *Store) Points() int { return s.points }

// CorrectAnswers returns the number of correct answers so far.
func (s *Store) CorrectAnswers() int { return s.correct }

// Answered returns the number of answers given so far.
func (s *Store) Answered() int { return s.answered }

// Index returns the position of the current card.
func (s *Store) Index() int { return s.index }

// Remaining returns the number of cards in the session's working set.
func (s *Store) Remaining() int { return len(s.gameCards) }

// RoundSize returns the working set size at the start of the session.
func (s *Store) RoundSize() int { return s.roundSize }

// LastBreakdown returns the scoring of the last answer.
func (s *Store) LastBreakdown() scoring.Breakdown { return s.last }

// GameCards returns a copy of the session's working set.
func (s *Store) GameCards() []model.Card {
	return append([]model.Card(nil), s.gameCards...)
}

// Cards returns a copy of the deck.
func (s *Store) Cards() []model.Card {
	return append([]model.Card(nil), s.cards...)
}

// History returns a copy of the completed sessions.
func (s *Store) History() []model.HistoryEntry {
	return append([]model.HistoryEntry(nil), s.history...)
}

// Stats returns the cumulative stats.
func (s *Store) Stats() model.GameStats { return s.stats }
