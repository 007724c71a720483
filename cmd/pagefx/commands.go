package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"

	"github.com/san-kum/pagefx/internal/analysis"
	"github.com/san-kum/pagefx/internal/audio"
	"github.com/san-kum/pagefx/internal/automation"
	"github.com/san-kum/pagefx/internal/config"
	"github.com/san-kum/pagefx/internal/experiment"
	"github.com/san-kum/pagefx/internal/export"
	"github.com/san-kum/pagefx/internal/gui"
	"github.com/san-kum/pagefx/internal/optim"
	"github.com/san-kum/pagefx/internal/quote"
	"github.com/san-kum/pagefx/internal/storage"
	"github.com/san-kum/pagefx/internal/theme"
	"github.com/san-kum/pagefx/internal/tui"
	"github.com/san-kum/pagefx/internal/viz"
)

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var out *audio.Output
	if cfg.Audio.Enabled {
		out = audio.NewOutput()
		if err := out.Start(); err != nil {
			logger.Warn("audio disabled", "err", err)
			out = nil
		} else {
			defer out.Close()
		}
	}

	gui.Run(gui.Options{
		Params:   cfg.FieldParams(),
		Sections: cfg.Page.Sections,
		Switch:   openSwitch(cfg),
		Output:   out,
		Seed:     cfg.Seed,
		Logger:   logger,
	})
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	presets := config.ListPresets()
	if cmd.Flags().Changed("preset") || configFile != "" {
		presets = []string{cfg.Preset}
	}
	opts := tui.Options{
		Presets: presets,
		Params:  paramsFor(cfg),
		Switch:  openSwitch(cfg),
		Seed:    cfg.Seed,
		Logger:  logger,
	}
	if raw {
		opts.Presets = []string{cfg.Preset}
		return tui.RunRaw(opts)
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func experimentConfig(cfg *config.Config) (experiment.Config, error) {
	mode, err := theme.Parse(themeName)
	if err != nil {
		return experiment.Config{}, err
	}
	return experiment.Config{
		Preset: cfg.Preset,
		Params: cfg.FieldParams(),
		Path:   pathName,
		Frames: cfg.Record.Frames,
		Seed:   cfg.Seed,
		Width:  float64(cfg.Window.Width),
		Height: float64(cfg.Window.Height),
		Theme:  mode,
	}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func recordRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ecfg, err := experimentConfig(cfg)
	if err != nil {
		return err
	}
	exp, err := experiment.New(ecfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("recording %s along %s for %d frames...\n", ecfg.Preset, ecfg.Path, ecfg.Frames)
	res, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	st := storage.New(cfg.Record.Dir)
	runID, err := st.Save(res.Meta(exp.Config()), res.Frames)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", res.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	printMetrics(res.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ecfg, err := experimentConfig(cfg)
	if err != nil {
		return err
	}
	out := "snapshot.svg"
	if len(args) > 0 {
		out = args[0]
	}

	svg := export.NewSVG(ecfg.Width, ecfg.Height, viz.ForMode(ecfg.Theme).BackgroundNRGBA())
	ecfg.Canvas = svg
	exp, err := experiment.New(ecfg)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	if _, err := exp.Run(ctx); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := svg.WriteTo(f); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d glows)\n", out, svg.Elements())
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ecfg, err := experimentConfig(cfg)
	if err != nil {
		return err
	}
	if members < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := experiment.Ensemble(ctx, ecfg, members)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tLINKS\tMEAN_DIST\tRESETS/FRAME\tCOHESION")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.3f\t%.3f\n", ecfg.Seed+int64(i),
			r.Metrics["links"], r.Metrics["mean_distance"], r.Metrics["reset_rate"], r.Metrics["cohesion"])
	}
	mean := experiment.Mean(results)
	fmt.Fprintf(w, "mean\t%.2f\t%.2f\t%.3f\t%.3f\n",
		mean["links"], mean["mean_distance"], mean["reset_rate"], mean["cohesion"])
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d runs in %v\n", len(results), time.Since(start))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ecfg, err := experimentConfig(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, automation.Sweep{
		Base:  ecfg,
		Param: sweepParam,
		Min:   sweepMin,
		Max:   sweepMax,
		Steps: sweepSteps,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tLINKS\tMEAN_DIST\tCOHESION\n", strings.ToUpper(sweepParam))
	links := make([]float64, len(results))
	for i, r := range results {
		links[i] = r.Metrics["links"]
		fmt.Fprintf(w, "%.4g\t%.2f\t%.2f\t%.3f\n", r.Value, r.Metrics["links"], r.Metrics["mean_distance"], r.Metrics["cohesion"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(links) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(links, asciigraph.Height(8), asciigraph.Width(60),
			asciigraph.Caption("links vs "+sweepParam)))
	}
	return nil
}

// parseGrid reads name=min:max:steps.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, rng, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad --grid %q: want name=min:max:steps", spec)
		}
		var lo, hi float64
		var n int
		if _, err := fmt.Sscanf(rng, "%g:%g:%d", &lo, &hi, &n); err != nil {
			return nil, nil, fmt.Errorf("bad --grid %q: %w", spec, err)
		}
		names = append(names, name)
		ranges = append(ranges, optim.Linspace(lo, hi, n))
	}
	return names, ranges, nil
}

func tune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base, err := experimentConfig(cfg)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	probe := base.Params
	for _, name := range names {
		if err := automation.SetParam(&probe, name, 0); err != nil {
			return err
		}
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("searching %d combinations for %s = %g...\n", g.Size(), tuneMetric, tuneTarget)
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := base
		for name, v := range params {
			if err := automation.SetParam(&c.Params, name, v); err != nil {
				return nil, err
			}
		}
		return experiment.New(c)
	}
	best, score, err := g.Search(ctx, build, optim.Target(tuneMetric, tuneTarget))
	if err != nil {
		return err
	}

	fmt.Printf("best (off by %.3f):\n", score)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best[name])
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, sc, paramsFor(cfg), storage.New(cfg.Record.Dir), logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tPATH\tFRAMES\tLINKS\tRUN")
	for i, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2f\t%s\n", i+1, r.Step.Preset, r.Step.Path, len(r.Result.Frames), r.Result.Metrics["links"], id)
	}
	return w.Flush()
}

func runsStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Record.Dir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := runsStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tPARTICLES\tPATH\tTHEME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Particles,
			run.Path,
			run.Theme,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := runsStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", len(frames))

	cols := []string{"links", "mean_dist"}
	if column != "" {
		cols = []string{column}
	}
	for _, c := range cols {
		data, err := storage.Column(frames, c)
		if err != nil {
			return err
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c),
		))
		fmt.Println()
	}

	if svgOut != "" {
		data, err := storage.Column(frames, cols[0])
		if err != nil {
			return err
		}
		doc := export.SeriesToSVG(data, 800, 240, "#81c784")
		if doc == "" {
			return fmt.Errorf("not enough frames for an SVG plot")
		}
		if err := os.WriteFile(svgOut, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st, err := runsStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	data, err := storage.Column(frames, column)
	if err != nil {
		return err
	}
	if len(data) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s\n\n", column)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:max(2, len(ps)/4)]
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+column+")"),
	))
	fmt.Println()

	rate := float64(time.Second / experiment.FrameTime)
	freq, _ := analysis.Dominant(data, rate)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1/freq)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := runsStore(cmd)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := runsStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.WriteJSON(os.Stdout, *meta, frames)
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	const benchFrames = 600
	fmt.Printf("benchmarking %s, %d frames per run\n\n", cfg.Preset, benchFrames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tTIME\tFRAMES/SEC\tLINKS")

	for _, count := range []int{35, 70, 150, 300} {
		p := cfg.FieldParams()
		p.Count = count
		exp, err := experiment.New(experiment.Config{
			Preset: cfg.Preset,
			Params: p,
			Path:   "wander",
			Frames: benchFrames,
			Seed:   42,
			Width:  float64(cfg.Window.Width),
			Height: float64(cfg.Window.Height),
		})
		if err != nil {
			return err
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		fps := float64(benchFrames) / res.Elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%v\t%.0f\t%.1f\n", count, res.Elapsed.Round(time.Microsecond), fps, res.Metrics["links"])
	}
	return w.Flush()
}

func setTheme(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sw := openSwitch(cfg)
	if len(args) == 0 {
		fmt.Printf("%s %s\n", sw.Theme(), sw.Theme().Toggle().Icon())
		return nil
	}

	if args[0] == "toggle" {
		m := sw.Toggle(time.Now())
		fmt.Println(m)
		return nil
	}
	m, err := theme.Parse(args[0])
	if err != nil {
		return err
	}
	if err := sw.Set(m); err != nil {
		return err
	}
	fmt.Println(m)
	return nil
}

func playQuote(cmd *cobra.Command, args []string) error {
	var src string
	if len(args) > 0 {
		src = args[0]
	} else {
		var err error
		src, err = zenity.SelectFile(
			zenity.Title("Open quote"),
			zenity.FileFilters{{
				Name:     "Audio",
				Patterns: []string{"*.wav", "*.mp3", "*.flac"},
			}},
		)
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	out := audio.NewOutput()
	if err := out.Start(); err != nil {
		return err
	}
	defer out.Close()

	ended := make(chan struct{})
	player := quote.NewPlayer(out, logger, quote.WithOnEnd(func(*quote.Button) { close(ended) }))
	btn := &quote.Button{ID: "cli", Src: src}
	if err := player.Press(btn); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("%s %s\n", btn.Icon(), src)
	select {
	case <-ended:
	case <-ctx.Done():
		player.Stop()
	}
	return nil
}
