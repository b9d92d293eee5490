package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	aeno "github.com/netisu/aeno-showcase"
	"github.com/netisu/aeno-showcase/config"
)

// App owns the loop and the current session. The session pointer is only
// touched on the loop goroutine.
type App struct {
	cfg      config.Config
	loop     *Loop
	loader   *Loader
	renderer Renderer
	log      *slog.Logger

	session    *Session
	background aeno.Color
}

func NewApp(cfg config.Config, renderer Renderer, log *slog.Logger) (*App, error) {
	// Validate also normalizes the base path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	loop := NewLoop()
	loader := NewLoader(loop, log)
	loader.Options.Simplify = cfg.Render.Simplify
	return &App{
		cfg:        cfg,
		loop:       loop,
		loader:     loader,
		renderer:   renderer,
		log:        log,
		background: aeno.HexColor(cfg.Render.Background),
	}, nil
}

// Config returns the validated configuration the app runs with
func (a *App) Config() config.Config {
	return a.cfg
}

func (a *App) Loop() *Loop {
	return a.loop
}

// Loader exposes the loader so callers can swap the load functions
func (a *App) Loader() *Loader {
	return a.loader
}

// Start builds the first session
func (a *App) Start() error {
	return a.loop.Post(a.newSession)
}

// Reload discards the current session and loads every asset again
func (a *App) Reload() error {
	return a.loop.Post(func() {
		a.log.Info("reloading scene")
		a.newSession()
	})
}

func (a *App) newSession() {
	assets := Assets{
		Scene:   a.cfg.Assets.Resolve(a.cfg.Assets.Scene),
		Cone:    a.cfg.Assets.Resolve(a.cfg.Assets.Cone),
		Texture: a.cfg.Assets.Resolve(a.cfg.Assets.Texture),
	}
	aspect := float64(a.cfg.Render.Width) / float64(a.cfg.Render.Height)
	s := NewSession(aspect, assets, a.loader, a.renderer, a.log)
	s.Context.Scene.Background = a.background
	a.session = s
	s.Start()
}

// Session returns the current session. Call it from the loop only.
func (a *App) Session() *Session {
	return a.session
}

// Input validates a control value and applies it on the loop.
// Unknown ids and unparsable values fail before anything is queued.
func (a *App) Input(id, raw string) error {
	if !IsControl(id) {
		return fmt.Errorf("%w %q", ErrUnknownControl, id)
	}
	v, err := ParseValue(id, raw)
	if err != nil {
		return err
	}
	return a.loop.Post(func() {
		if a.session == nil {
			return
		}
		applied, err := a.session.Controls.Input(id, v)
		if err != nil {
			a.log.Warn("control input rejected", "id", id, "err", err)
			return
		}
		if !applied {
			a.log.Debug("control target not loaded yet", "id", id)
		}
	})
}

// Tick advances the current session by one frame
func (a *App) Tick(now time.Time) {
	if a.session != nil {
		a.session.Frames.Tick(now)
	}
}

// Run drives the loop at the configured frame rate until ctx is done
func (a *App) Run(ctx context.Context) error {
	return a.loop.Run(ctx, a.cfg.Render.FrameInterval(), a.Tick)
}

// WaitLoaded blocks until every load started by events posted so far has
// been delivered. The loop must be running.
func (a *App) WaitLoaded(ctx context.Context) error {
	if err := a.loop.Do(ctx, func() {}); err != nil {
		return err
	}
	return a.loader.Wait(ctx)
}

// Viewport is the output image size from the configuration
func (a *App) Viewport() aeno.Viewport {
	return aeno.Viewport{
		Width:  a.cfg.Render.Width,
		Height: a.cfg.Render.Height,
		Scale:  a.cfg.Render.Supersample,
	}
}
