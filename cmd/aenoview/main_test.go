package main

import (
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netisu/aeno-showcase/config"
)

func renderConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Assets.DevDir = t.TempDir()
	cfg.Render.Width, cfg.Render.Height = 8, 6
	cfg.Render.Frames = 3
	cfg.Render.OutDir = filepath.Join(t.TempDir(), "out")
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func frameNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRender(t *testing.T) {
	cfg := renderConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, render(ctx, cfg, discard()))

	assert.Equal(t, []string{"frame_0000.png", "frame_0001.png", "frame_0002.png"}, frameNames(t, cfg.Render.OutDir))

	f, err := os.Open(filepath.Join(cfg.Render.OutDir, "frame_0002.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Width)
	assert.Equal(t, 6, img.Height)
}

func TestRenderUnwritableOutDir(t *testing.T) {
	cfg := renderConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.Render.OutDir = filepath.Join(blocker, "out")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	assert.ErrorContains(t, render(ctx, cfg, discard()), "render:")
}

func TestRenderStopsOnWriteError(t *testing.T) {
	cfg := renderConfig(t)
	// a directory where the second frame should go makes its write fail
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Render.OutDir, "frame_0001.png"), 0o755))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	assert.Error(t, render(ctx, cfg, discard()))
	assert.Equal(t, []string{"frame_0000.png", "frame_0001.png"}, frameNames(t, cfg.Render.OutDir))
}

func TestRenderCommandRejectsNoFrames(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"render", "--frames", "0"})
	assert.ErrorContains(t, cmd.Execute(), "frames must be positive")
}
