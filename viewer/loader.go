package viewer

import (
	"context"
	"log/slog"
	"sync"

	aeno "github.com/netisu/aeno-showcase"
)

// AssetFunc loads a scene file
type AssetFunc func(path string, opts aeno.LoadOptions) (*aeno.Asset, error)

// TextureFunc loads an image file
type TextureFunc func(path string, progress aeno.ProgressFunc) (*aeno.ImageTexture, error)

// Loader runs loads on their own goroutines and delivers each result as an
// event on the loop. Failures are logged and never reach the callback.
type Loader struct {
	loop    *Loop
	log     *slog.Logger
	Options aeno.LoadOptions
	Asset   AssetFunc
	Texture TextureFunc
	pending sync.WaitGroup
}

func NewLoader(loop *Loop, log *slog.Logger) *Loader {
	return &Loader{
		loop:    loop,
		log:     log.With("component", "loader"),
		Asset:   aeno.LoadAsset,
		Texture: aeno.LoadTextureProgress,
	}
}

// LoadAsset starts loading path; done runs on the loop after a successful load
func (l *Loader) LoadAsset(label, path string, done func(*aeno.Asset)) {
	opts := l.Options
	opts.Progress = l.progress(label)
	l.start(func() func() {
		asset, err := l.Asset(path, opts)
		return func() {
			if err != nil {
				l.log.Error("an error occurred while loading the model", "asset", label, "path", path, "err", err)
				return
			}
			done(asset)
		}
	})
}

// LoadTexture starts loading an image; done runs on the loop after a successful load
func (l *Loader) LoadTexture(label, path string, done func(*aeno.ImageTexture)) {
	progress := l.progress(label)
	l.start(func() func() {
		tex, err := l.Texture(path, progress)
		return func() {
			if err != nil {
				l.log.Error("an error occurred while loading the texture", "asset", label, "path", path, "err", err)
				return
			}
			done(tex)
		}
	})
}

func (l *Loader) start(load func() func()) {
	l.pending.Add(1)
	go func() {
		complete := load()
		err := l.loop.Post(func() {
			defer l.pending.Done()
			complete()
		})
		if err != nil {
			l.pending.Done()
		}
	}()
}

// Wait blocks until every started load has delivered its result.
// Loads started from completion callbacks are included.
func (l *Loader) Wait(ctx context.Context) error {
	settled := make(chan struct{})
	go func() {
		l.pending.Wait()
		close(settled)
	}()
	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// progress logs each tenth of the expected size once
func (l *Loader) progress(label string) aeno.ProgressFunc {
	next := int64(0)
	return func(loaded, total int64) {
		if total <= 0 {
			return
		}
		pct := loaded * 100 / total
		if pct < next {
			return
		}
		next = (pct/10 + 1) * 10
		l.log.Info("loading file", "asset", label, "percent", pct)
	}
}
