// Package main provides the CLI entrypoint for kanatype.
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
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/kanatype/internal/config"
	"github.com/verte-zerg/kanatype/internal/generator"
	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/problem"
	"github.com/verte-zerg/kanatype/internal/romaji"
	"github.com/verte-zerg/kanatype/internal/session"
	"github.com/verte-zerg/kanatype/internal/stats"
	"github.com/verte-zerg/kanatype/internal/store"
	"github.com/verte-zerg/kanatype/internal/tui"
)

const (
	defaultCategory      = problem.AllCategories
	defaultCount         = 10
	defaultMistakePolicy = "reset"
	defaultWeakTop       = 8
	defaultWeakFactor    = 2.0
	defaultWeakWindow    = 20
	defaultCurveWindow   = 20
	defaultCurveKana     = 5
	defaultStatsWidth    = 60
)

var (
	practiceCategory      string
	practiceCount         int
	practiceProblems      string
	practiceMistakePolicy string
	practiceFocusWeak     bool
	practiceWeakTop       int
	practiceWeakFactor    float64
	practiceWeakWindow    int

	statsCategory    string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsKana        string

	addCategory string
	addText     string
	addReading  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kanatype",
		Short:         "Kana typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceCategory, "category", defaultCategory, "problem category or 'all'")
	rootCmd.Flags().IntVar(&practiceCount, "count", defaultCount, "problems per run")
	rootCmd.Flags().StringVar(&practiceProblems, "problems", "", "problem bank path (default: built-in bank unless the config dir has problems.toml)")
	rootCmd.Flags().StringVar(&practiceMistakePolicy, "mistake-policy", defaultMistakePolicy, "pending input after a mistake: reset or keep")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak kana")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak kana to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak kana")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak kana")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newAddCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "category", &practiceCategory, fileCfg.Practice.Category)
	applyConfig(cmd, "count", &practiceCount, fileCfg.Practice.Count)
	applyConfig(cmd, "problems", &practiceProblems, fileCfg.Practice.Problems)
	applyConfig(cmd, "mistake-policy", &practiceMistakePolicy, fileCfg.Practice.MistakePolicy)
	applyConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	cfg := model.Config{
		Category:      strings.ToLower(strings.TrimSpace(practiceCategory)),
		Count:         practiceCount,
		ProblemsPath:  practiceProblems,
		MistakePolicy: practiceMistakePolicy,
		FocusWeak:     practiceFocusWeak,
		WeakTop:       practiceWeakTop,
		WeakFactor:    practiceWeakFactor,
		WeakWindow:    practiceWeakWindow,
	}
	if cfg.Category == "" {
		cfg.Category = problem.AllCategories
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	policy, err := session.ParseMistakePolicy(cfg.MistakePolicy)
	if err != nil {
		return fmt.Errorf("--mistake-policy: %w", err)
	}

	categories, err := loadCategories(cfg.ProblemsPath)
	if err != nil {
		return err
	}
	selected, err := problem.Select(categories, cfg.Category)
	if err != nil {
		return err
	}
	problems := problem.Filter(selected)
	if dropped := len(selected) - len(problems); dropped > 0 {
		logErrf("skipping %d problem(s) with untypeable characters\n", dropped)
	}
	if len(problems) == 0 {
		return fmt.Errorf("no typeable problems in category %q", cfg.Category)
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

	weakSet := map[string]struct{}{}
	weakNoticePrinted := false
	if cfg.FocusWeak {
		aggs, err := st.GetWeakKana(context.Background(), cfg.WeakWindow, cfg.Category)
		if err != nil {
			logErrf("failed to load weak kana: %v\n", err)
		} else {
			weakSet = stats.SelectWeakKana(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				logErrln("no stats available for weak-kana focus yet; using uniform selection")
				weakNoticePrinted = true
			}
		}
	}

	m := tui.NewModel(cfg, st, generator.New(), problems, policy, weakSet, weakNoticePrinted)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadCategories reads the problem bank at path. With no explicit path the
// default bank file is used when present, otherwise the built-in bank.
func loadCategories(path string) ([]problem.Category, error) {
	explicit := path != ""
	if !explicit {
		path = config.DefaultProblemsPath()
	}
	ok, err := problem.Exists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		if explicit {
			return nil, fmt.Errorf("problem bank not found: %s", path)
		}
		return problem.Builtin(), nil
	}
	categories, err := problem.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem bank %s: %w", path, err)
	}
	return categories, nil
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

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List problem categories",
		Args:  cobra.NoArgs,
		RunE:  runCategoriesCmd,
	}
	cmd.Flags().StringVar(&practiceProblems, "problems", "", "problem bank path")
	return cmd
}

func runCategoriesCmd(cmd *cobra.Command, _ []string) error {
	categories, err := loadCategories(practiceProblems)
	if err != nil {
		return err
	}
	counts := lo.SliceToMap(categories, func(c problem.Category) (string, int) {
		return c.Name, len(problem.Filter(c.Problems))
	})
	for _, name := range problem.Names(categories) {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", name, counts[name]); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsCategory, "category", "", "category filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsKana, "kana", "", "kana for per-kana curves (default: most practiced)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
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

	return printStats(cmd.Context(), cmd.OutOrStdout(), st, cfg, terminalWidth())
}

func statsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	return model.StatsConfig{
		Category:    strings.ToLower(strings.TrimSpace(statsCategory)),
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Kana:        statsKana,
	}, nil
}

func printStats(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig, width int) error {
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if len(report.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded yet.")
		return err
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurves(w, report.Sessions, cfg.CurveWindow, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderKanaTable(w, report.KanaAggsWindow); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	kana := curveKana(cfg.Kana, report.KanaAggsAll)
	perSession, err := st.ListKanaStatsForSessions(ctx, lo.Map(report.Sessions, func(s model.SessionAggregate, _ int) int64 {
		return s.SessionID
	}), kana)
	if err != nil {
		return fmt.Errorf("failed to load per-kana stats: %w", err)
	}
	if err := stats.RenderKanaCurves(w, report.Sessions, perSession, kana, cfg.CurveWindow, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// curveKana segments the requested kana into units, dropping punctuation,
// or falls back to the most practiced kana.
func curveKana(requested string, aggs []model.KanaAggregate) []string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return stats.TopKanaByFrequency(aggs, defaultCurveKana)
	}
	units := romaji.Segment(requested)
	kana := lo.FilterMap(units, func(u romaji.Unit, _ int) (string, bool) {
		return u.Kana, strings.IndexFunc(u.Default(), unicode.IsLetter) >= 0
	})
	return lo.Uniq(kana)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultStatsWidth
	}
	return max(width-12, 10)
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add sentences with their kana reading to the problem bank",
		Args:  cobra.NoArgs,
		RunE:  runAddCmd,
	}
	cmd.Flags().StringVar(&addCategory, "category", "", "category to add to")
	cmd.Flags().StringVar(&addText, "text", "", "display text")
	cmd.Flags().StringVar(&addReading, "reading", "", "kana reading of the text")
	cmd.Flags().StringVar(&practiceProblems, "problems", "", "problem bank path")
	return cmd
}

func runAddCmd(cmd *cobra.Command, _ []string) error {
	name := strings.ToLower(strings.TrimSpace(addCategory))
	if name == "" || name == problem.AllCategories {
		return fmt.Errorf("--category must name a single category")
	}
	problems, err := problem.AlignSentences(addText, addReading)
	if err != nil {
		return fmt.Errorf("failed to align text and reading: %w", err)
	}
	if len(problems) == 0 {
		return fmt.Errorf("--text and --reading must not be empty")
	}
	for _, p := range problems {
		if !problem.Typeable(p) {
			return fmt.Errorf("reading %q has untypeable characters", p.Kana)
		}
	}

	path := practiceProblems
	if path == "" {
		path = config.DefaultProblemsPath()
	}
	categories, err := loadCategories(practiceProblems)
	if err != nil {
		return err
	}
	if err := problem.SaveFile(path, problem.Append(categories, name, problems)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %d problem(s) to %s in %s\n", len(problems), name, path)
	return err
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# kanatype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# category = %q          # Problem category or "all"
# count = %d               # Problems per run
# problems = ""            # Problem bank path (default: built-in bank)
# mistake-policy = %q   # Pending input after a mistake: "reset" or "keep"
# focus-weak = false       # Bias practice toward weak kana
# weak-top = %d             # Number of weak kana to focus on
# weak-factor = %.1f        # Weight factor for weak kana
# weak-window = %d         # Number of recent sessions to compute weak kana
`,
		defaultCategory,
		defaultCount,
		defaultMistakePolicy,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Count <= 0 {
		return fmt.Errorf("--count must be > 0")
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
