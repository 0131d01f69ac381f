package deck

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/persist"
	"github.com/verte-zerg/tuicards/internal/store"
)

func key(c model.Card) string { return c.Question }

func newManager(kv store.KV) (*Manager, *persist.Repository) {
	seed := func() []model.Deck {
		return []model.Deck{
			{Name: "en", Cards: []model.Card{model.NewCard("cat", "Katze")}},
			{Name: "fr", Cards: []model.Card{model.NewCard("chat", "cat")}},
		}
	}
	repo := persist.NewRepository(kv, "vocab", seed, zerolog.Nop())
	return NewManager(repo, key, zerolog.Nop()), repo
}

func names(decks []model.Deck) []string {
	out := make([]string, 0, len(decks))
	for _, d := range decks {
		out = append(out, d.Name)
	}
	return out
}

func TestRemoveCurrentDeckRedirects(t *testing.T) {
	ctx := context.Background()
	m, repo := newManager(store.NewMemory())
	require.True(t, m.UseDeck(ctx, "en"))

	assert.True(t, m.RemoveDeck(ctx, "en"))
	settings, ok := repo.LoadSettings(ctx)
	require.True(t, ok)
	assert.Equal(t, "fr", settings.Deck)
	assert.Equal(t, []string{"fr"}, names(repo.LoadDecks(ctx)))
}

func TestRemoveDeckFailures(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	m, _ := newManager(kv)

	assert.False(t, m.RemoveDeck(ctx, "de"))
	_, ok, err := kv.Get(ctx, store.ScopeLocal, "vocab/decks")
	require.NoError(t, err)
	assert.False(t, ok)

	require.True(t, m.RemoveDeck(ctx, "fr"))
	assert.False(t, m.RemoveDeck(ctx, "en"), "last deck must stay")
	assert.Equal(t, []string{"en"}, names(m.List(ctx)))
}

func TestRemoveOtherDeckKeepsCurrent(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(store.NewMemory())
	require.True(t, m.UseDeck(ctx, "fr"))
	require.True(t, m.RemoveDeck(ctx, "en"))
	assert.Equal(t, "fr", m.Current(ctx))
}

func TestAddDeck(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(store.NewMemory())
	assert.True(t, m.AddDeck(ctx, " de "))
	assert.False(t, m.AddDeck(ctx, "de"))
	assert.False(t, m.AddDeck(ctx, "en"))
	assert.False(t, m.AddDeck(ctx, "  "))
	decks := m.List(ctx)
	assert.Equal(t, []string{"en", "fr", "de"}, names(decks))
	assert.Empty(t, decks[2].Cards)
}

func TestRenameDeck(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(store.NewMemory())
	require.True(t, m.UseDeck(ctx, "fr"))

	assert.False(t, m.RenameDeck(ctx, "fr", "en"), "name taken")
	assert.False(t, m.RenameDeck(ctx, "de", "es"), "unknown deck")
	assert.False(t, m.RenameDeck(ctx, "fr", ""))

	assert.True(t, m.RenameDeck(ctx, "fr", "francais"))
	assert.Equal(t, "francais", m.Current(ctx))
	assert.Equal(t, []string{"en", "francais"}, names(m.List(ctx)))

	assert.True(t, m.RenameDeck(ctx, "en", "english"))
	assert.Equal(t, "francais", m.Current(ctx))
}

func TestRenameImplicitCurrentDeck(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(store.NewMemory())
	require.True(t, m.RenameDeck(ctx, "en", "english"))
	assert.Equal(t, "english", m.Current(ctx))
}

func TestUseDeck(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(store.NewMemory())
	assert.Equal(t, "en", m.Current(ctx))
	assert.False(t, m.UseDeck(ctx, "de"))
	assert.True(t, m.UseDeck(ctx, "fr"))
	assert.Equal(t, "fr", m.Current(ctx))
}

func TestImportCards(t *testing.T) {
	ctx := context.Background()
	m, repo := newManager(store.NewMemory())

	_, ok := m.ImportCards(ctx, "de", []model.Card{model.NewCard("x", "y")})
	assert.False(t, ok)

	added, ok := m.ImportCards(ctx, "en", []model.Card{
		model.NewCard("cat", "Katze"),
		model.NewCard("dog", "Hund"),
		model.NewCard("dog", "Hund"),
		{Question: "bird", Answer: "Vogel", Level: 9},
	})
	require.True(t, ok)
	assert.Equal(t, 2, added)
	cards := repo.LoadDecks(ctx)[0].Cards
	require.Len(t, cards, 3)
	assert.Equal(t, model.MaxLevel, cards[2].Level)
}
