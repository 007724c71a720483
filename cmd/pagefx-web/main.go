// Command pagefx-web runs the page on ebiten. It builds for the desktop and
// for the browser:
//
//	GOOS=js GOARCH=wasm go build -o pagefx.wasm ./cmd/pagefx-web
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	eaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/spf13/cobra"

	"github.com/san-kum/pagefx/internal/config"
	"github.com/san-kum/pagefx/internal/theme"
	"github.com/san-kum/pagefx/internal/web"
)

const sampleRate = 44100

var (
	configFile string
	preset     string
	themeName  string
	muted      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pagefx-web",
		Short:         "particle page on ebiten",
		Args:          cobra.NoArgs,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.Flags().StringVar(&preset, "preset", "default", "field preset")
	rootCmd.Flags().StringVar(&themeName, "theme", "", "start theme (light or dark)")
	rootCmd.Flags().BoolVar(&muted, "mute", false, "disable quote playback")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.GetPreset(preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	sw := theme.NewSwitch(openThemeStore(cfg, logger), logger)
	if themeName != "" {
		m, err := theme.Parse(themeName)
		if err != nil {
			return err
		}
		_ = sw.Set(m)
	}

	opts := web.Options{
		Params:   cfg.FieldParams(),
		Sections: cfg.Page.Sections,
		Switch:   sw,
		Seed:     cfg.Seed,
		Logger:   logger,
	}
	if cfg.Audio.Enabled && !muted {
		opts.Sink = web.NewSink(eaudio.NewContext(sampleRate))
	}
	return web.Run(opts)
}
