//go:build !js

package main

import (
	"log/slog"

	"github.com/san-kum/pagefx/internal/config"
	"github.com/san-kum/pagefx/internal/theme"
)

// openThemeStore shares the desktop app's state file.
func openThemeStore(cfg *config.Config, logger *slog.Logger) theme.KV {
	path, err := cfg.ThemeStorePath()
	if err != nil {
		logger.Warn("theme will not persist", "err", err)
		return theme.NewMemKV()
	}
	kv, err := theme.OpenFile(path)
	if err != nil {
		logger.Warn("theme will not persist", "path", path, "err", err)
		return theme.NewMemKV()
	}
	return kv
}
