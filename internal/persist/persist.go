// Package persist stores cards, decks, history and settings for one app.
//
// Values are JSON documents in the key-value store. Reads never fail: a
// missing or malformed value falls back to its default and is logged.
package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/store"
)

const (
	keyDecks    = "decks"
	keyHistory  = "history"
	keyStats    = "stats"
	keySettings = "settings"
)

// Repository is the durable persistence for one app namespace.
type Repository struct {
	kv     store.KV
	app    string
	seed   func() []model.Deck
	logger zerolog.Logger
}

// NewRepository returns a repository for app. seed provides the decks used
// when nothing valid is stored yet.
func NewRepository(kv store.KV, app string, seed func() []model.Deck, logger zerolog.Logger) *Repository {
	if seed == nil {
		seed = func() []model.Deck { return []model.Deck{{Name: "default"}} }
	}
	return &Repository{
		kv:     kv,
		app:    app,
		seed:   seed,
		logger: logger.With().Str("app", app).Logger(),
	}
}

// App returns the namespace of the repository.
func (r *Repository) App() string {
	return r.app
}

func (r *Repository) key(name string) string {
	return r.app + "/" + name
}

// LoadDecks returns the stored decks, or the seed decks when none are stored.
func (r *Repository) LoadDecks(ctx context.Context) []model.Deck {
	decks, ok := loadJSON[[]model.Deck](ctx, r.kv, r.logger, store.ScopeLocal, r.key(keyDecks))
	if !ok || len(decks) == 0 {
		return r.seed()
	}
	for i := range decks {
		for j := range decks[i].Cards {
			decks[i].Cards[j].Level = model.ClampLevel(decks[i].Cards[j].Level)
		}
	}
	return decks
}

// SaveDecks replaces the stored decks.
func (r *Repository) SaveDecks(ctx context.Context, decks []model.Deck) error {
	return saveJSON(ctx, r.kv, store.ScopeLocal, r.key(keyDecks), decks)
}

// CurrentDeck returns the name of the deck play draws from: the deck named
// in the settings when it exists, otherwise the first deck.
func (r *Repository) CurrentDeck(ctx context.Context) string {
	return currentDeck(r.LoadDecks(ctx), r.settingsDeck(ctx))
}

func (r *Repository) settingsDeck(ctx context.Context) string {
	settings, ok := r.LoadSettings(ctx)
	if !ok {
		return ""
	}
	return settings.Deck
}

func currentDeck(decks []model.Deck, name string) string {
	if len(decks) == 0 {
		return ""
	}
	for _, d := range decks {
		if d.Name == name {
			return name
		}
	}
	return decks[0].Name
}

// LoadCards returns the cards of the current deck.
func (r *Repository) LoadCards(ctx context.Context) []model.Card {
	decks := r.LoadDecks(ctx)
	name := currentDeck(decks, r.settingsDeck(ctx))
	for _, d := range decks {
		if d.Name == name {
			return d.Cards
		}
	}
	return nil
}

// SaveCards replaces the cards of the current deck.
func (r *Repository) SaveCards(ctx context.Context, cards []model.Card) error {
	decks := r.LoadDecks(ctx)
	name := currentDeck(decks, r.settingsDeck(ctx))
	for i := range decks {
		if decks[i].Name == name {
			decks[i].Cards = cards
			return r.SaveDecks(ctx, decks)
		}
	}
	return fmt.Errorf("no deck to save cards into")
}

// LoadHistory returns completed sessions, oldest first.
func (r *Repository) LoadHistory(ctx context.Context) []model.HistoryEntry {
	history, ok := loadJSON[[]model.HistoryEntry](ctx, r.kv, r.logger, store.ScopeLocal, r.key(keyHistory))
	if !ok {
		return []model.HistoryEntry{}
	}
	return history
}

// SaveHistory replaces the stored history.
func (r *Repository) SaveHistory(ctx context.Context, history []model.HistoryEntry) error {
	return saveJSON(ctx, r.kv, store.ScopeLocal, r.key(keyHistory), history)
}

// AppendHistory adds one entry to the stored history.
func (r *Repository) AppendHistory(ctx context.Context, entry model.HistoryEntry) error {
	return r.SaveHistory(ctx, append(r.LoadHistory(ctx), entry))
}

// LoadStats returns the cumulative stats.
func (r *Repository) LoadStats(ctx context.Context) model.GameStats {
	stats, _ := loadJSON[model.GameStats](ctx, r.kv, r.logger, store.ScopeLocal, r.key(keyStats))
	return stats
}

// SaveStats replaces the cumulative stats.
func (r *Repository) SaveStats(ctx context.Context, stats model.GameStats) error {
	return saveJSON(ctx, r.kv, store.ScopeLocal, r.key(keyStats), stats)
}

// LoadSettings returns the last saved settings, if any.
func (r *Repository) LoadSettings(ctx context.Context) (model.Settings, bool) {
	return loadJSON[model.Settings](ctx, r.kv, r.logger, store.ScopeLocal, r.key(keySettings))
}

// SaveSettings stores the settings.
func (r *Repository) SaveSettings(ctx context.Context, settings model.Settings) error {
	return saveJSON(ctx, r.kv, store.ScopeLocal, r.key(keySettings), settings)
}

func loadJSON[T any](ctx context.Context, kv store.KV, logger zerolog.Logger, scope, key string) (T, bool) {
	var v T
	raw, ok, err := kv.Get(ctx, scope, key)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("read failed, using default")
		return v, false
	}
	if !ok {
		return v, false
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("malformed value, using default")
		var zero T
		return zero, false
	}
	return v, true
}

func saveJSON(ctx context.Context, kv store.KV, scope, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Put(ctx, scope, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
