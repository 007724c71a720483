//go:build js

package main

import (
	"log/slog"

	"github.com/san-kum/pagefx/internal/config"
	"github.com/san-kum/pagefx/internal/theme"
)

func openThemeStore(_ *config.Config, logger *slog.Logger) theme.KV {
	kv, err := theme.NewLocalStorage()
	if err != nil {
		logger.Warn("theme will not persist", "err", err)
		return theme.NewMemKV()
	}
	return kv
}
