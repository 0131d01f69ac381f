package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuicards/internal/apps"
	"github.com/verte-zerg/tuicards/internal/deck"
	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/persist"
	"github.com/verte-zerg/tuicards/internal/stats"
	"github.com/verte-zerg/tuicards/internal/store"
	"github.com/verte-zerg/tuicards/internal/wordlist"
)

const (
	defaultCurveWindow = 5
	defaultWeakest     = 5
)

var (
	statsLast        int
	statsCurveWindow int
	statsWeakest     int

	importFormat string
	importLang   string

	cardsLevel int
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Long:  "Show stats for the game given by --app, or for every game with history when --app is not set.",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit history to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsWeakest, "weakest", defaultWeakest, "number of weakest cards to list")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLast < 0 || statsCurveWindow < 0 || statsWeakest < 0 {
		return fmt.Errorf("--last, --curve-window and --weakest must be >= 0")
	}
	fileCfg, app, rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx := cmd.Context()

	selected := []apps.App{app}
	if !cmd.Flags().Changed("app") && fileCfg.Play.App == nil {
		names, err := appsWithHistory(ctx, rt.store)
		if err != nil {
			return fmt.Errorf("failed to list stats: %w", err)
		}
		if len(names) > 0 {
			selected = selected[:0]
			for _, name := range names {
				a, err := apps.Lookup(name)
				if err != nil {
					rt.logger.Warn().Str("app", name).Msg("skipping stats of unknown app")
					continue
				}
				selected = append(selected, a)
			}
		}
	}

	w := cmd.OutOrStdout()
	for _, a := range selected {
		repo := rt.repo(a)
		session := persist.NewSession(rt.store, a.Name(), rt.logger)
		report := stats.BuildReport(ctx, repo, session, statsLast)
		if err := report.Render(w, statsCurveWindow, 0); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderLevels(w, repo.LoadCards(ctx), statsWeakest); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// appsWithHistory lists the apps that have recorded at least one session.
func appsWithHistory(ctx context.Context, kv store.KV) ([]string, error) {
	keys, err := kv.Keys(ctx, store.ScopeLocal, "")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, k := range keys {
		if name, ok := strings.CutSuffix(k, "/history"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func newDecksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decks",
		Short: "Manage decks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List decks (* marks the current deck)",
		Args:  cobra.NoArgs,
		RunE: withDecks(func(ctx context.Context, w io.Writer, m *deck.Manager, _ []string) error {
			return writeDecks(w, m.List(ctx), m.Current(ctx))
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Add an empty deck",
		Args:  cobra.ExactArgs(1),
		RunE: withDecks(func(ctx context.Context, _ io.Writer, m *deck.Manager, args []string) error {
			if !m.AddDeck(ctx, args[0]) {
				return fmt.Errorf("cannot add deck %q: name is empty or already used", args[0])
			}
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a deck",
		Args:  cobra.ExactArgs(2),
		RunE: withDecks(func(ctx context.Context, _ io.Writer, m *deck.Manager, args []string) error {
			if !m.RenameDeck(ctx, args[0], args[1]) {
				return fmt.Errorf("cannot rename deck %q to %q: deck not found or name already used", args[0], args[1])
			}
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a deck",
		Args:  cobra.ExactArgs(1),
		RunE: withDecks(func(ctx context.Context, _ io.Writer, m *deck.Manager, args []string) error {
			if !m.RemoveDeck(ctx, args[0]) {
				return fmt.Errorf("cannot remove deck %q: deck not found or it is the last deck", args[0])
			}
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "use NAME",
		Short: "Make a deck current",
		Args:  cobra.ExactArgs(1),
		RunE: withDecks(func(ctx context.Context, _ io.Writer, m *deck.Manager, args []string) error {
			if !m.UseDeck(ctx, args[0]) {
				return fmt.Errorf("deck %q not found", args[0])
			}
			return nil
		}),
	})

	importCmd := &cobra.Command{
		Use:   "import NAME FILE",
		Short: "Import cards from a text file into a deck",
		Long: "Import cards from a text file. The words format has one word per line with an optional " +
			"tab-separated hint; the pairs format has question<TAB>answer with an optional hint.",
		Args: cobra.ExactArgs(2),
		RunE: withDecks(func(ctx context.Context, w io.Writer, m *deck.Manager, args []string) error {
			format := wordlist.Format(importFormat)
			cards, err := wordlist.LoadCards(args[1], format, wordlist.FilterForLang(importLang))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}
			added, ok := m.ImportCards(ctx, args[0], cards)
			if !ok {
				return fmt.Errorf("cannot import into deck %q", args[0])
			}
			_, err = fmt.Fprintf(w, "Imported %d of %d cards into %s\n", added, len(cards), args[0])
			return err
		}),
	}
	importCmd.Flags().StringVar(&importFormat, "format", string(wordlist.FormatPairs), "file format: words, pairs")
	importCmd.Flags().StringVar(&importLang, "filter-lang", "", "drop cards whose question is not a word of the language alphabet: "+strings.Join(wordlist.FilterLangs(), ", "))
	cmd.AddCommand(importCmd)
	return cmd
}

type deckAction func(ctx context.Context, w io.Writer, m *deck.Manager, args []string) error

func withDecks(action deckAction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		_, app, rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()
		m := deck.NewManager(rt.repo(app), app.Key, rt.logger)
		return action(cmd.Context(), cmd.OutOrStdout(), m, args)
	}
}

func writeDecks(w io.Writer, decks []model.Deck, current string) error {
	for _, d := range decks {
		marker := " "
		if d.Name == current {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s (%d cards)\n", marker, d.Name, len(d.Cards)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newCardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Change the progress of the current deck",
	}
	moveCmd := &cobra.Command{
		Use:   "move",
		Short: "Move every card of the current deck to one level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			if !rt.game(app).MoveAllCards(cmd.Context(), cardsLevel) {
				return fmt.Errorf("--level must be between %d and %d", model.MinLevel, model.MaxLevel)
			}
			return nil
		},
	}
	moveCmd.Flags().IntVar(&cardsLevel, "level", model.MinLevel, "target level")
	cmd.AddCommand(moveCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset levels and best times of the current deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			rt.game(app).ResetAllCards(cmd.Context())
			return nil
		},
	})
	return cmd
}
