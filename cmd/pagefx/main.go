package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/pagefx/internal/config"
	"github.com/san-kum/pagefx/internal/field"
	"github.com/san-kum/pagefx/internal/theme"
)

var (
	configFile string
	preset     string
	dataDir    string
	logLevel   string
	seed       int64

	frames    int
	pathName  string
	themeName string
	width     float64
	height    float64
	svgOut    string
	column    string
	members   int
	raw       bool

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	grid       []string
	tuneMetric string
	tuneTarget float64

	logger *slog.Logger
)

// main registers the commands and runs the desktop page when no subcommand
// is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "pagefx",
		Short: "interactive particle page",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
		RunE:          runGUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "default", "field preset")
	pf.StringVar(&dataDir, "data", "", "runs directory (default from config)")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the page in a desktop window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the field in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&raw, "raw", false, "draw straight on the terminal, without the preset menu")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record a headless run along a scripted pointer path",
		Args:  cobra.NoArgs,
		RunE:  recordRun,
	}
	runFlags(recordCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file.svg]",
		Short: "render the last frame of a headless run to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	runFlags(snapshotCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run several seeds in parallel and average their metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	runFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&members, "runs", 8, "number of seeds")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one field parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	runFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "link_radius", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 60, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 180, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search field parameters toward a target metric",
		Args:  cobra.NoArgs,
		RunE:  tune,
	}
	runFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", []string{"link_radius=60:180:5"}, "name=min:max:steps, repeatable")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "links", "metric to steer")
	tuneCmd.Flags().Float64Var(&tuneTarget, "target", 30, "goal value of the metric")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted batch of recordings",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded column",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "column to plot (default: links and mean_dist)")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the plot to this SVG file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "mean_dist", "column to analyze")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the field at several particle counts",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}

	themeCmd := &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "show or set the persisted theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE:      setTheme,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list field presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	quoteCmd := &cobra.Command{
		Use:   "quote [file]",
		Short: "play an audio quote (opens a file picker without an argument)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  playQuote,
	}

	rootCmd.AddCommand(guiCmd, liveCmd, recordCmd, snapshotCmd, ensembleCmd, sweepCmd, tuneCmd, scenarioCmd,
		listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, benchCmd, themeCmd, presetsCmd, quoteCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&frames, "frames", 0, "frames to run (default from config)")
	f.StringVar(&pathName, "path", "circle", "pointer path: circle, drift, exit, figure8, still, sweep, wander")
	f.StringVar(&themeName, "theme", "light", "page theme of the run")
	f.Float64Var(&width, "width", 0, "surface width (default from config)")
	f.Float64Var(&height, "height", 0, "surface height (default from config)")
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("bad --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// loadConfig builds the effective config: the config file when given, else
// the preset; an explicit --preset applies on top of a file. Flags override
// both.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
		if cmd.Flags().Changed("preset") {
			apply, ok := config.Presets[preset]
			if !ok {
				return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
			}
			apply(cfg)
			cfg.Preset = preset
		}
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if dataDir != "" {
		cfg.Record.Dir = dataDir
	}
	if f := cmd.Flags().Lookup("frames"); f != nil && f.Changed {
		cfg.Record.Frames = frames
	}
	if f := cmd.Flags().Lookup("width"); f != nil && f.Changed {
		cfg.Window.Width = int(width)
	}
	if f := cmd.Flags().Lookup("height"); f != nil && f.Changed {
		cfg.Window.Height = int(height)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// paramsFor resolves a preset on top of the loaded config's file values.
func paramsFor(base *config.Config) func(string) (field.Params, error) {
	return func(name string) (field.Params, error) {
		if name == "" || name == base.Preset {
			return base.FieldParams(), nil
		}
		cfg := config.GetPreset(name)
		if cfg == nil {
			return field.Params{}, fmt.Errorf("unknown preset: %s", name)
		}
		return cfg.FieldParams(), nil
	}
}

// openSwitch restores the persisted theme. An unreadable store falls back
// to memory so the page still runs.
func openSwitch(cfg *config.Config) *theme.Switch {
	path, err := cfg.ThemeStorePath()
	if err != nil {
		logger.Warn("theme store unavailable", "err", err)
		return theme.NewSwitch(theme.NewMemKV(), logger)
	}
	kv, err := theme.OpenFile(path)
	if err != nil {
		logger.Warn("theme store unavailable", "path", path, "err", err)
		return theme.NewSwitch(theme.NewMemKV(), logger)
	}
	return theme.NewSwitch(kv, logger)
}
