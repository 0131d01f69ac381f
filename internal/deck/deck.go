// Package deck manages the named card decks of an app.
package deck

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/persist"
)

// Manager edits decks through the app's repository. Every mutation is a
// read-modify-write; failed operations write nothing.
type Manager struct {
	repo   *persist.Repository
	key    func(model.Card) string
	logger zerolog.Logger
}

// NewManager returns a deck manager. key identifies duplicate cards on import.
func NewManager(repo *persist.Repository, key func(model.Card) string, logger zerolog.Logger) *Manager {
	return &Manager{repo: repo, key: key, logger: logger.With().Str("app", repo.App()).Logger()}
}

// List returns all decks.
func (m *Manager) List(ctx context.Context) []model.Deck {
	return m.repo.LoadDecks(ctx)
}

// Current returns the name of the deck play draws from.
func (m *Manager) Current(ctx context.Context) string {
	return m.repo.CurrentDeck(ctx)
}

// AddDeck appends an empty deck.
func (m *Manager) AddDeck(ctx context.Context, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	decks := m.repo.LoadDecks(ctx)
	if indexOf(decks, name) >= 0 {
		return false
	}
	return m.save(ctx, append(decks, model.Deck{Name: name, Cards: []model.Card{}}))
}

// RenameDeck renames a deck, following it with the current-deck setting.
func (m *Manager) RenameDeck(ctx context.Context, oldName, newName string) bool {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return false
	}
	decks := m.repo.LoadDecks(ctx)
	i := indexOf(decks, oldName)
	if i < 0 || indexOf(decks, newName) >= 0 {
		return false
	}
	current := m.repo.CurrentDeck(ctx)
	decks[i].Name = newName
	if !m.save(ctx, decks) {
		return false
	}
	if current == oldName {
		m.setCurrent(ctx, newName)
	}
	return true
}

// RemoveDeck deletes a deck. The last deck cannot be removed. Removing the
// current deck makes the first remaining deck current.
func (m *Manager) RemoveDeck(ctx context.Context, name string) bool {
	decks := m.repo.LoadDecks(ctx)
	if len(decks) <= 1 {
		return false
	}
	i := indexOf(decks, name)
	if i < 0 {
		return false
	}
	current := m.repo.CurrentDeck(ctx)
	decks = append(decks[:i], decks[i+1:]...)
	if !m.save(ctx, decks) {
		return false
	}
	if current == name {
		m.setCurrent(ctx, decks[0].Name)
	}
	return true
}

// UseDeck makes name the current deck.
func (m *Manager) UseDeck(ctx context.Context, name string) bool {
	if indexOf(m.repo.LoadDecks(ctx), name) < 0 {
		return false
	}
	return m.setCurrent(ctx, name)
}

// ImportCards appends cards to a deck, skipping cards whose key is already
// present. It returns the number of cards added and false when the deck
// does not exist or nothing could be written.
func (m *Manager) ImportCards(ctx context.Context, name string, cards []model.Card) (int, bool) {
	decks := m.repo.LoadDecks(ctx)
	i := indexOf(decks, name)
	if i < 0 {
		return 0, false
	}
	seen := make(map[string]struct{}, len(decks[i].Cards)+len(cards))
	for _, c := range decks[i].Cards {
		seen[m.key(c)] = struct{}{}
	}
	added := 0
	for _, c := range cards {
		k := m.key(c)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		c.Level = model.ClampLevel(c.Level)
		decks[i].Cards = append(decks[i].Cards, c)
		added++
	}
	if added == 0 {
		return 0, true
	}
	if !m.save(ctx, decks) {
		return 0, false
	}
	return added, true
}

func (m *Manager) save(ctx context.Context, decks []model.Deck) bool {
	if err := m.repo.SaveDecks(ctx, decks); err != nil {
		m.logger.Warn().Err(err).Msg("failed to save decks")
		return false
	}
	return true
}

func (m *Manager) setCurrent(ctx context.Context, name string) bool {
	settings, ok := m.repo.LoadSettings(ctx)
	if !ok {
		settings = model.Settings{App: m.repo.App()}
	}
	settings.Deck = name
	if err := m.repo.SaveSettings(ctx, settings); err != nil {
		m.logger.Warn().Err(err).Msg("failed to save settings")
		return false
	}
	return true
}

func indexOf(decks []model.Deck, name string) int {
	for i, d := range decks {
		if d.Name == name {
			return i
		}
	}
	return -1
}
