// Package main provides the CLI entrypoint for tuicards.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuicards/internal/apps"
	"github.com/verte-zerg/tuicards/internal/config"
	"github.com/verte-zerg/tuicards/internal/game"
	"github.com/verte-zerg/tuicards/internal/generator"
	"github.com/verte-zerg/tuicards/internal/logging"
	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/persist"
	"github.com/verte-zerg/tuicards/internal/stats"
	"github.com/verte-zerg/tuicards/internal/store"
	"github.com/verte-zerg/tuicards/internal/tui"
)

const (
	defaultApp           = "multiply"
	defaultFocus         = model.FocusWeak
	defaultSession       = model.SessionStandard
	defaultRoundSize     = generator.DefaultRoundSize
	defaultFeedbackDelay = 2
	sessionMaxAge        = 24 * time.Hour
)

var (
	playApp           string
	playMode          string
	playFocus         string
	playSession       string
	playDeck          string
	playLanguage      string
	playRoundSize     int
	playFeedbackDelay int
	playResume        bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuicards",
		Short:         "TUI flashcard trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&playApp, "app", defaultApp, "game to play: "+strings.Join(apps.Names(), ", "))
	rootCmd.Flags().StringVar(&playMode, "mode", "", "game mode (default: the game's first mode)")
	rootCmd.Flags().StringVar(&playFocus, "focus", string(defaultFocus), "card focus: weak, strong, medium, slow")
	rootCmd.Flags().StringVar(&playSession, "session", string(defaultSession), "session mode: standard, endless-1, endless-5, 3-rounds")
	rootCmd.Flags().StringVar(&playDeck, "deck", "", "deck to play (default: current deck)")
	rootCmd.Flags().StringVar(&playLanguage, "lang", "", "language direction for vocab: target-native, native-target")
	rootCmd.Flags().IntVar(&playRoundSize, "round-size", defaultRoundSize, "cards per round")
	rootCmd.Flags().IntVar(&playFeedbackDelay, "feedback-delay", defaultFeedbackDelay, "seconds before advancing after an answer (0 waits for enter)")
	rootCmd.Flags().BoolVar(&playResume, "resume", false, "resume the interrupted session")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newAppsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newDecksCmd())
	rootCmd.AddCommand(newCardsCmd())

	return rootCmd
}

// runtime holds what every command opens: the logger, the store and the
// random source.
type runtime struct {
	logger zerolog.Logger
	store  *store.Store
	gen    *generator.Generator
	logs   io.Closer
}

func openRuntime(ctx context.Context, fileCfg config.FileConfig) (*runtime, error) {
	envCfg, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	level := ""
	if fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	if envCfg.LogLevel != "" {
		level = envCfg.LogLevel
	}
	logPath := config.DefaultLogPath()
	if fileCfg.Log.File != nil {
		logPath = *fileCfg.Log.File
	}
	if envCfg.LogFile != "" {
		logPath = envCfg.LogFile
	}
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	logger, logs, err := logging.Open(level, logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	st, err := store.Open(envCfg.ResolveDBPath())
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if n, err := st.PurgeScope(ctx, store.ScopeSession, sessionMaxAge); err != nil {
		logger.Warn().Err(err).Msg("failed to purge stale sessions")
	} else if n > 0 {
		logger.Debug().Int64("rows", n).Msg("purged stale sessions")
	}
	return &runtime{logger: logger, store: st, gen: generator.New(), logs: logs}, nil
}

func (r *runtime) repo(app apps.App) *persist.Repository {
	return persist.NewRepository(r.store, app.Name(), app.SeedDecks, r.logger)
}

func (r *runtime) game(app apps.App) *game.Store {
	return game.New(app, r.repo(app), persist.NewSession(r.store, app.Name(), r.logger), r.gen, r.logger)
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.logger.Error().Err(err).Msg("failed to close db")
	}
	if err := r.logs.Close(); err != nil {
		logErrf("failed to close log: %v\n", err)
	}
}

// setup loads the config file, applies it to the persistent flags and opens
// the runtime for app.
func setup(cmd *cobra.Command) (config.FileConfig, apps.App, *runtime, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "app", &playApp, fileCfg.Play.App)
	app, err := apps.Lookup(playApp)
	if err != nil {
		return config.FileConfig{}, nil, nil, err
	}
	rt, err := openRuntime(cmd.Context(), fileCfg)
	if err != nil {
		return config.FileConfig{}, nil, nil, err
	}
	return fileCfg, app, rt, nil
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, app, rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx := cmd.Context()

	applyStringConfig(cmd, "mode", &playMode, fileCfg.Play.Mode)
	applyStringConfig(cmd, "focus", &playFocus, fileCfg.Play.Focus)
	applyStringConfig(cmd, "session", &playSession, fileCfg.Play.Session)
	applyStringConfig(cmd, "deck", &playDeck, fileCfg.Play.Deck)
	applyStringConfig(cmd, "lang", &playLanguage, fileCfg.Play.Language)
	applyIntConfig(cmd, "round-size", &playRoundSize, fileCfg.Play.RoundSize)
	applyIntConfig(cmd, "feedback-delay", &playFeedbackDelay, fileCfg.Play.FeedbackDelay)

	repo := rt.repo(app)
	if saved, ok := repo.LoadSettings(ctx); ok {
		applySavedString(cmd, "mode", &playMode, fileCfg.Play.Mode, saved.Mode)
		applySavedString(cmd, "lang", &playLanguage, fileCfg.Play.Language, saved.Language)
	}

	settings := model.Settings{
		App:       app.Name(),
		Mode:      playMode,
		Focus:     model.Focus(playFocus),
		Session:   model.SessionMode(playSession),
		Language:  playLanguage,
		Deck:      playDeck,
		RoundSize: playRoundSize,
	}
	if settings.Mode == "" {
		settings.Mode = app.DefaultMode()
	}
	if err := validateSettings(app, settings, playFeedbackDelay); err != nil {
		return err
	}

	g := rt.game(app)
	if playResume {
		if !g.Resume(ctx) {
			// The checkpoint was taken after the final answer.
			if r, ok := g.Result(); ok {
				return stats.RenderLastResult(cmd.OutOrStdout(), r)
			}
			return fmt.Errorf("no interrupted %s session to resume", app.Name())
		}
	} else if !g.StartGame(ctx, settings) {
		return fmt.Errorf("no cards to play for %s session in deck %q", settings.Session, repo.CurrentDeck(ctx))
	}

	m := tui.NewModel(ctx, g, rt.logger, playFeedbackDelay)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return err
	}
	if r := m.Result(); r != nil {
		return stats.RenderLastResult(cmd.OutOrStdout(), *r)
	}
	if !m.Discarded() && g.Active() {
		logErrf("Session saved. Continue with: tuicards --app %s --resume\n", app.Name())
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newAppsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List games and their modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeApps(cmd.OutOrStdout())
		},
	}
}

func writeApps(w io.Writer) error {
	for _, app := range apps.All() {
		if _, err := fmt.Fprintf(w, "%s - %s\n", app.Name(), app.Description()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		for _, m := range app.Modes() {
			line := fmt.Sprintf("  %-8s x%d", m.Name, m.Multiplier)
			if m.Timed {
				line += " timed"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		if langs := app.Languages(); len(langs) > 0 {
			if _, err := fmt.Fprintf(w, "  languages: %s\n", strings.Join(langs, ", ")); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applySavedString falls back to the last played value when neither the
// flag nor the config file sets one.
func applySavedString(cmd *cobra.Command, name string, target, fileValue *string, saved string) {
	if saved == "" || fileValue != nil || cmd.Flags().Changed(name) {
		return
	}
	*target = saved
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuicards configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# app = %q            # Game: %s
# mode = "choice"             # Game mode (see: tuicards apps)
# focus = %q              # weak, strong, medium, slow
# session = %q        # standard, endless-1, endless-5, 3-rounds
# deck = "tables"             # Deck to play
# language = "target-native"  # vocab direction
# round-size = %d             # Cards per round
# feedback-delay = %d          # Seconds before the next card (0 waits for enter)

[log]
# level = "warn"              # debug, info, warn, error
# file = %q
`,
		defaultApp,
		strings.Join(apps.Names(), ", "),
		defaultFocus,
		defaultSession,
		defaultRoundSize,
		defaultFeedbackDelay,
		config.DefaultLogPath(),
	)
}

func validateSettings(app apps.App, s model.Settings, feedbackDelay int) error {
	if _, ok := apps.FindMode(app, s.Mode); !ok {
		names := make([]string, 0, len(app.Modes()))
		for _, m := range app.Modes() {
			names = append(names, m.Name)
		}
		return fmt.Errorf("--mode must be one of: %s", strings.Join(names, ", "))
	}
	if !s.Focus.Valid() {
		return fmt.Errorf("--focus must be one of: weak, strong, medium, slow")
	}
	if !s.Session.Valid() {
		return fmt.Errorf("--session must be one of: standard, endless-1, endless-5, 3-rounds")
	}
	if s.Language != "" {
		langs := app.Languages()
		found := false
		for _, l := range langs {
			if l == s.Language {
				found = true
				break
			}
		}
		if !found {
			if len(langs) == 0 {
				return fmt.Errorf("--lang is not supported by %s", app.Name())
			}
			return fmt.Errorf("--lang must be one of: %s", strings.Join(langs, ", "))
		}
	}
	if s.RoundSize <= 0 {
		return fmt.Errorf("--round-size must be > 0")
	}
	if feedbackDelay < 0 {
		return fmt.Errorf("--feedback-delay must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
