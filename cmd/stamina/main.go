// Package main provides the CLI entrypoint for stamina.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/verte-zerg/stamina/internal/config"
	"github.com/verte-zerg/stamina/internal/event"
	"github.com/verte-zerg/stamina/internal/generator"
	"github.com/verte-zerg/stamina/internal/i18n"
	"github.com/verte-zerg/stamina/internal/logging"
	"github.com/verte-zerg/stamina/internal/model"
	"github.com/verte-zerg/stamina/internal/session"
	"github.com/verte-zerg/stamina/internal/stats"
	"github.com/verte-zerg/stamina/internal/store"
	"github.com/verte-zerg/stamina/internal/targets"
	"github.com/verte-zerg/stamina/internal/tui"
)

const (
	defaultWeakTop    = 5
	defaultWeakFactor = 2.0
)

var (
	practiceDifficulty    int
	practiceMaxDifficulty int
	practiceFocusWeak     bool
	practiceWeakTop       int
	practiceWeakFactor    float64
	practiceLocale        string
	practiceNoReport      bool

	logLevel string
	logFile  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stamina",
		Short:         "Letter-sequence typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceDifficulty, "difficulty", session.DefaultDifficulty, "starting difficulty")
	rootCmd.Flags().IntVar(&practiceMaxDifficulty, "max-difficulty", session.DefaultMaxDifficulty, "upper bound of the difficulty control")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias sequences toward letters mistyped in this session")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak letters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "extra weight for weak letters")
	rootCmd.Flags().StringVar(&practiceLocale, "locale", "", "prompt language: "+i18n.SupportedNames()+" (default: from $LANG)")
	rootCmd.Flags().BoolVar(&practiceNoReport, "no-report", false, "do not print the run report on exit")
	rootCmd.Flags().StringVar(&logLevel, "log-level", logging.LevelInfo, "log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "log file path, '-' disables logging (default: XDG state dir)")

	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg)

	cfg := model.Config{
		Difficulty:    practiceDifficulty,
		MaxDifficulty: practiceMaxDifficulty,
		FocusWeak:     practiceFocusWeak,
		WeakTop:       practiceWeakTop,
		WeakFactor:    practiceWeakFactor,
		Locale:        practiceLocale,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if !logging.ValidLevel(logLevel) {
		return fmt.Errorf("--log-level must be one of DEBUG, INFO, WARN, ERROR")
	}
	tag, err := resolveLocale(cfg.Locale)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stamina needs an interactive terminal")
	}

	if logFile == "" {
		logFile = config.DefaultLogPath()
	}
	logger, err := logging.New(logFile, logLevel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logger.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return fmt.Errorf("failed to open run log: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close run log: %v\n", cerr)
		}
	}()

	bus := event.NewBus(logger.Logger)
	logging.Attach(bus, logger.Logger)
	recordRuns(bus, st, logger.Logger)

	rows := targets.DefaultRows()
	ctrl := session.New(
		session.Config{
			Difficulty:    cfg.Difficulty,
			MaxDifficulty: cfg.MaxDifficulty,
			FocusWeak:     cfg.FocusWeak,
			WeakFactor:    cfg.WeakFactor,
		},
		generator.New(),
		bus,
		session.WithTargets(targets.NewMap(targets.Flatten(rows))),
		session.WithWeakLetters(weakLetters(st, cfg.WeakTop)),
		session.WithLogger(logger.Logger),
	)
	logger.Info("session started",
		"difficulty", ctrl.Difficulty(),
		"max_difficulty", ctrl.MaxDifficulty(),
		"focus_weak", cfg.FocusWeak,
		"locale", tag.String())

	ui := tui.NewModel(ctrl, tui.Options{
		Locale:  tag,
		Rows:    rows,
		History: st.ListRuns,
		Logger:  logger.Logger,
	})
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if practiceNoReport {
		return nil
	}
	return printReport(cmd.Context(), cmd.OutOrStdout(), st, cfg.WeakTop)
}

// recordRuns appends every completed run to the in-process run log.
// Write failures are logged and do not interrupt practice.
func recordRuns(bus *event.Bus, st *store.Store, logger *slog.Logger) uint64 {
	return bus.Subscribe(event.TypeRunCompleted, func(e event.Event) {
		ev, ok := e.(event.RunCompletedEvent)
		if !ok {
			return
		}
		if _, err := st.InsertRun(context.Background(), ev.Run, ev.Letters); err != nil {
			logger.Error("failed to record run", "error", err)
		}
	})
}

func weakLetters(st *store.Store, top int) session.WeakFunc {
	return func(ctx context.Context) (map[rune]struct{}, error) {
		aggs, err := st.LetterAggregates(ctx, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to load letter stats: %w", err)
		}
		return stats.SelectWeakLetters(aggs, top), nil
	}
}

func printReport(ctx context.Context, w io.Writer, st *store.Store, weakTop int) error {
	report, err := stats.BuildReport(ctx, st)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	report.WeakTop = weakTop
	if err := report.Render(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
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
	if _, err := config.EnsureConfig(path); err != nil {
		return err
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

func applyFileConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyIntConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyIntConfig(cmd, "max-difficulty", &practiceMaxDifficulty, fileCfg.Practice.MaxDifficulty)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyStringConfig(cmd, "locale", &practiceLocale, fileCfg.UI.Locale)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if cfg.MaxDifficulty < 1 {
		return fmt.Errorf("--max-difficulty must be >= 1")
	}
	if cfg.Difficulty < 1 || cfg.Difficulty > cfg.MaxDifficulty {
		return fmt.Errorf("--difficulty must be between 1 and %d", cfg.MaxDifficulty)
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	return nil
}

// resolveLocale picks the prompt language from the flag or, when unset,
// from $LANG. An explicit unsupported value is an error; an unsupported
// $LANG falls back to English.
func resolveLocale(value string) (language.Tag, error) {
	if strings.TrimSpace(value) != "" {
		tag, ok := i18n.ParseTag(value)
		if !ok {
			return i18n.Default(), fmt.Errorf("unsupported --locale %q (supported: %s)", value, i18n.SupportedNames())
		}
		return tag, nil
	}
	env := os.Getenv("LANG")
	if i := strings.IndexAny(env, ".@"); i >= 0 {
		env = env[:i]
	}
	tag, _ := i18n.ParseTag(strings.ReplaceAll(env, "_", "-"))
	return tag, nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
