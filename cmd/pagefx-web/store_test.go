//go:build !js

package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/pagefx/internal/config"
	"github.com/san-kum/pagefx/internal/theme"
)

func TestThemeSurvivesRestart(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.DefaultConfig()
	cfg.Theme.Store = filepath.Join(t.TempDir(), "state.yaml")

	sw := theme.NewSwitch(openThemeStore(cfg, logger), logger)
	if sw.Theme() != theme.Light {
		t.Fatalf("fresh store starts %s, want light", sw.Theme())
	}
	sw.Toggle(time.Now())

	again := theme.NewSwitch(openThemeStore(cfg, logger), logger)
	if again.Theme() != theme.Dark {
		t.Errorf("after restart theme = %s, want dark", again.Theme())
	}
}

func TestUnreadableThemeStoreFallsBackToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.DefaultConfig()
	cfg.Theme.Store = filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(cfg.Theme.Store, []byte("theme: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	kv := openThemeStore(cfg, logger)
	if _, ok := kv.(*theme.MemKV); !ok {
		t.Errorf("store = %T, want *theme.MemKV", kv)
	}
}
