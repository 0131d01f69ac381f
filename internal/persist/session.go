package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/store"
)

const (
	keyState      = "state"
	keyLastResult = "last-result"
)

// State is a snapshot of an unfinished session.
type State struct {
	Settings  model.Settings `json:"settings"`
	Cards     []model.Card   `json:"cards"`
	Index     int            `json:"index"`
	Points    int            `json:"points"`
	Correct   int            `json:"correct"`
	Answered  int            `json:"answered"`
	Pending   bool           `json:"pending"`
	RoundSize int            `json:"roundSize"`
	StartedAt time.Time      `json:"startedAt"`
}

// Session holds transient data used to recover an interrupted session.
type Session struct {
	kv     store.KV
	app    string
	logger zerolog.Logger
}

// NewSession returns session storage for app.
func NewSession(kv store.KV, app string, logger zerolog.Logger) *Session {
	return &Session{kv: kv, app: app, logger: logger.With().Str("app", app).Logger()}
}

func (s *Session) key(name string) string {
	return s.app + "/" + name
}

// SaveState stores the in-progress snapshot.
func (s *Session) SaveState(ctx context.Context, state State) error {
	return saveJSON(ctx, s.kv, store.ScopeSession, s.key(keyState), state)
}

// LoadState returns the in-progress snapshot, if a usable one exists.
func (s *Session) LoadState(ctx context.Context) (State, bool) {
	state, ok := loadJSON[State](ctx, s.kv, s.logger, store.ScopeSession, s.key(keyState))
	if !ok {
		return State{}, false
	}
	if len(state.Cards) == 0 || state.Index < 0 || state.Index >= len(state.Cards) {
		s.logger.Warn().Int("index", state.Index).Int("cards", len(state.Cards)).Msg("discarding unusable session state")
		return State{}, false
	}
	return state, true
}

// ClearState removes the in-progress snapshot.
func (s *Session) ClearState(ctx context.Context) error {
	if err := s.kv.Delete(ctx, store.ScopeSession, s.key(keyState)); err != nil {
		return fmt.Errorf("clear session state: %w", err)
	}
	return nil
}

// SaveLastResult stores the result of the last finished session.
func (s *Session) SaveLastResult(ctx context.Context, entry model.HistoryEntry) error {
	return saveJSON(ctx, s.kv, store.ScopeSession, s.key(keyLastResult), entry)
}

// LoadLastResult returns the result of the last finished session.
func (s *Session) LoadLastResult(ctx context.Context) (model.HistoryEntry, bool) {
	return loadJSON[model.HistoryEntry](ctx, s.kv, s.logger, store.ScopeSession, s.key(keyLastResult))
}
