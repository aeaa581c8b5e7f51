// Package main provides the CLI entrypoint for tuitrace.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuitrace/internal/config"
	"github.com/verte-zerg/tuitrace/internal/generator"
	"github.com/verte-zerg/tuitrace/internal/letters"
	"github.com/verte-zerg/tuitrace/internal/model"
	"github.com/verte-zerg/tuitrace/internal/progress"
	"github.com/verte-zerg/tuitrace/internal/raster"
	"github.com/verte-zerg/tuitrace/internal/scoring"
	"github.com/verte-zerg/tuitrace/internal/stats"
	"github.com/verte-zerg/tuitrace/internal/statsui"
	"github.com/verte-zerg/tuitrace/internal/store"
	"github.com/verte-zerg/tuitrace/internal/tui"
)

const (
	defaultWeakTop     = 4
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 30
	defaultCurveWindow = 10
)

var (
	verbose bool

	practiceLetter      string
	practiceKind        string
	practiceLettersFile string
	practiceFocusWeak   bool
	practiceWeakTop     int
	practiceWeakFactor  float64
	practiceWeakWindow  int
	practiceNoSave      bool

	statsKind        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	exportForce bool

	scoreLetter   string
	scorePath     string
	scoreWidth    float64
	scoreHeight   float64
	scoreGrid     int
	scoreShowGrid bool

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuitrace",
		Short:         "TUI letter tracing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				scoring.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
		RunE: runPracticeCmd,
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log scoring details to stderr")
	rootCmd.PersistentFlags().StringVar(&practiceLettersFile, "letters-file", "", "TOML or YAML letter set (default: built-in or exported set)")
	rootCmd.Flags().StringVar(&practiceLetter, "letter", "", "letter id to start with")
	rootCmd.Flags().StringVar(&practiceKind, "kind", "", "practice only letters or ayah items (letter, ayah)")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak letters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak letters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "extra weight for weak letters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent attempts to compute weak letters")
	rootCmd.Flags().BoolVar(&practiceNoSave, "no-save", false, "do not store attempts or progress")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLettersCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "letter", &practiceLetter, fileCfg.Practice.Letter)
	applyStringConfig(cmd, "kind", &practiceKind, fileCfg.Practice.Kind)
	applyStringConfig(cmd, "letters-file", &practiceLettersFile, fileCfg.Practice.LettersFile)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	cfg := model.Config{
		Letter:      practiceLetter,
		Kind:        practiceKind,
		LettersFile: practiceLettersFile,
		FocusWeak:   practiceFocusWeak,
		WeakTop:     practiceWeakTop,
		WeakFactor:  practiceWeakFactor,
		WeakWindow:  practiceWeakWindow,
		NoSave:      practiceNoSave,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	set, err := loadLetterSet(cfg.LettersFile)
	if err != nil {
		return err
	}
	if _, err := set.Filter(cfg.Kind); err != nil {
		return err
	}

	ctx := context.Background()
	var tracker progress.Tracker = progress.NewMemory()
	var recorder tui.Recorder
	if !cfg.NoSave {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		tracker = st
		recorder = st
	}

	if err := checkPracticeStart(ctx, tracker, set, cfg); err != nil {
		return err
	}

	weakSet := map[string]struct{}{}
	weakNoticePrinted := false
	if cfg.FocusWeak && recorder != nil {
		aggs, err := recorder.GetWeakLetters(ctx, cfg.WeakWindow, cfg.Kind)
		if err != nil {
			logErrf("failed to load weak letters: %v\n", err)
		} else {
			weakSet = stats.SelectWeakLetters(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				logErrln("no stats available for weak-letter focus yet; picking uniformly")
				weakNoticePrinted = true
			}
		}
	}

	ui := tui.NewModel(cfg, set, tracker, recorder, generator.New(), weakSet, weakNoticePrinted)
	program := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// checkPracticeStart verifies the kind has at least one unlocked item and that
// the requested start letter, if any, is unlocked and of that kind.
func checkPracticeStart(ctx context.Context, tracker progress.Tracker, set *letters.Set, cfg model.Config) error {
	pool, err := progress.UnlockedOfKind(ctx, tracker, set, cfg.Kind)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	if len(pool) == 0 {
		return fmt.Errorf("no %s items unlocked yet; earn stars on the letters before them first", cfg.Kind)
	}
	if cfg.Letter == "" {
		return nil
	}
	l, err := set.Get(cfg.Letter)
	if err != nil {
		return err
	}
	if cfg.Kind != "" && l.Kind != cfg.Kind {
		return fmt.Errorf("letter %q is %s, not %s", cfg.Letter, l.Kind, cfg.Kind)
	}
	if !lo.Contains(pool, cfg.Letter) {
		return fmt.Errorf("letter %q is locked; earn a star on the letter before it first", cfg.Letter)
	}
	return nil
}

// loadLetterSet reads file, else an exported set in the config dir, else the built-in set.
// The full set is returned so unlock order never depends on a kind filter.
func loadLetterSet(file string) (*letters.Set, error) {
	if file == "" {
		if _, err := os.Stat(config.DefaultLettersPath()); err == nil {
			file = config.DefaultLettersPath()
		}
	}
	var (
		set *letters.Set
		err error
	)
	if file == "" {
		set, err = letters.Default()
	} else {
		set, err = letters.LoadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load letters: %w", err)
	}
	return set, nil
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

func newLettersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "letters",
		Short: "List letters with unlock state and best stars",
		Args:  cobra.NoArgs,
		RunE:  runLettersCmd,
	}
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the built-in letter set to the config directory for editing",
		Args:  cobra.NoArgs,
		RunE:  runLettersExportCmd,
	}
	exportCmd.Flags().BoolVar(&exportForce, "force", false, "overwrite an existing file")
	cmd.AddCommand(exportCmd)
	return cmd
}

func runLettersCmd(cmd *cobra.Command, _ []string) error {
	set, err := loadLetterSet(practiceLettersFile)
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	records, err := st.ListProgress(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	return writeLetterList(cmd.OutOrStdout(), set, records)
}

func writeLetterList(w io.Writer, set *letters.Set, records map[string]model.LetterProgress) error {
	for i, l := range set.All() {
		rec := records[l.ID]
		state := "locked"
		if i == 0 || rec.Unlocked {
			state = "open"
		}
		line := fmt.Sprintf("%s %s %s %s %s",
			runewidth.FillRight(l.ID, 12),
			runewidth.FillRight(l.Name+" "+l.Glyph, 16),
			runewidth.FillRight(l.Kind, 6),
			scoring.Stars(rec.HighScore),
			state,
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runLettersExportCmd(_ *cobra.Command, _ []string) error {
	set, err := letters.Default()
	if err != nil {
		return fmt.Errorf("failed to load letters: %w", err)
	}
	path := config.DefaultLettersPath()
	if !exportForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("letter set already exists: %s (use --force to overwrite)", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat letter set: %w", err)
		}
	}
	if err := writeLetterSet(path, set); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logErrf("Wrote %s\n", path)
	return nil
}

func writeLetterSet(path string, set *letters.Set) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create letters dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "letters-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp letter set: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := letters.Export(tmpFile, set); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close letter set: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write letter set: %w", err)
	}
	return nil
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a recorded path against a letter",
		Args:  cobra.NoArgs,
		RunE:  runScoreCmd,
	}
	cmd.Flags().StringVar(&scoreLetter, "letter", "", "letter id to score against")
	cmd.Flags().StringVar(&scorePath, "path", "", "TOML or YAML recording of the user path")
	cmd.Flags().Float64Var(&scoreWidth, "width", 0, "canvas width (overrides the recording)")
	cmd.Flags().Float64Var(&scoreHeight, "height", 0, "canvas height (overrides the recording)")
	cmd.Flags().IntVar(&scoreGrid, "grid", raster.DefaultGridSize, "cells per side of the scoring grid")
	cmd.Flags().BoolVar(&scoreShowGrid, "show-grid", false, "print the covered cells")
	_ = cmd.MarkFlagRequired("letter")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	set, err := loadLetterSet(practiceLettersFile)
	if err != nil {
		return err
	}
	letter, err := set.Get(scoreLetter)
	if err != nil {
		return err
	}
	rec, err := letters.LoadRecording(scorePath)
	if err != nil {
		return fmt.Errorf("failed to load recording: %w", err)
	}
	size := rec.Canvas
	if cmd.Flags().Changed("width") {
		size.Width = scoreWidth
	}
	if cmd.Flags().Changed("height") {
		size.Height = scoreHeight
	}
	if !size.Valid() {
		return fmt.Errorf("canvas size is required (set width/height in the recording or pass --width and --height)")
	}
	b := scoring.EvaluateGrid(letter.Path, rec.Path, size, scoreGrid)
	return writeScore(cmd.OutOrStdout(), letter, b, scoreShowGrid)
}

func writeScore(w io.Writer, letter letters.Letter, b scoring.Breakdown, showGrid bool) error {
	lines := []string{
		fmt.Sprintf("Letter: %s %s", letter.Name, letter.Glyph),
		fmt.Sprintf("Accuracy: %.1f%%", b.Result.AccuracyPercent),
		fmt.Sprintf("Stars: %s", scoring.Stars(b.Result.Tier)),
		fmt.Sprintf("Coverage: %.1f%% (%d/%d cells)", b.Coverage*100, b.SharedCells, b.RefCells),
		fmt.Sprintf("Precision: %.1f%% (%d/%d cells)", b.Precision*100, b.SharedCells, b.UserCells),
	}
	if showGrid {
		lines = append(lines, "", raster.Render(b.Ref, b.User, b.GridSize))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsKind, "kind", "", "kind filter (letter, ayah)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "last", &statsLast, fileCfg.Stats.Last)
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsKind != "" && statsKind != letters.KindLetter && statsKind != letters.KindAyah {
		return fmt.Errorf("--kind must be %q or %q", letters.KindLetter, letters.KindAyah)
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

	cfg := model.StatsConfig{
		Kind:        statsKind,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	set, err := loadLetterSet(practiceLettersFile)
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return writeStatsReport(cmd.Context(), cmd.OutOrStdout(), st, set, cfg)
	}

	ui := statsui.NewModel(st, set, cfg)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writeStatsReport(ctx context.Context, w io.Writer, st *store.Store, set *letters.Set, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Attempts); err != nil {
		return err
	}
	if err := stats.RenderCurves(w, report.Attempts, cfg.CurveWindow); err != nil {
		return err
	}
	labels := make(map[string]string, set.Len())
	for _, l := range set.All() {
		labels[l.ID] = l.Name + " " + l.Glyph
	}
	return stats.RenderLetterTable(w, report.LetterAggsWindow, labels)
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear best scores and unlocks (attempt history is kept)",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm the reset")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to reset progress without --yes")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.ResetProgress(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Progress reset."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuitrace configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# letter = "alif"         # Letter id to start with
# kind = "letter"         # Practice only "letter" or "ayah" items
# letters-file = ""       # TOML or YAML letter set
# focus-weak = false      # Bias practice toward weak letters
# weak-top = %d            # Number of weak letters to focus on
# weak-factor = %.1f      # Extra weight for weak letters
# weak-window = %d        # Number of recent attempts to compute weak letters

[stats]
# last = 0                # Limit stats to the last N attempts
# curve-window = %d       # Moving average window
`,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultCurveWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Kind != "" && cfg.Kind != letters.KindLetter && cfg.Kind != letters.KindAyah {
		return fmt.Errorf("--kind must be %q or %q", letters.KindLetter, letters.KindAyah)
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
