// Command aenoview serves the animated showcase scene to a browser or
// renders a fixed number of frames to disk.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	aeno "github.com/netisu/aeno-showcase"
	"github.com/netisu/aeno-showcase/config"
	"github.com/netisu/aeno-showcase/server"
	"github.com/netisu/aeno-showcase/viewer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "aenoview",
		Short:         "Animated glb showcase rendered by aeno",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "TOML or YAML config file")
	root.AddCommand(newServeCmd(opts), newRenderCmd(opts))
	return root
}

// setup loads the configuration and installs the process logger
func (o *options) setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return cfg, nil, err
	}
	log, err := cfg.Log.Logger(os.Stderr)
	if err != nil {
		return cfg, nil, err
	}
	slog.SetDefault(log)
	return cfg, log, nil
}

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr   string
		dev    bool
		noOpen bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scene and its controls over http",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.setup()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("dev") {
				cfg.Assets.Mode = config.ModeProd
				if dev {
					cfg.Assets.Mode = config.ModeDev
				}
			}
			if noOpen {
				cfg.Server.OpenBrowser = false
			}
			srv, err := server.New(cfg, log)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&dev, "dev", true, "read assets from the dev directory and reload on change")
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "do not open a browser")
	return cmd
}

func newRenderCmd(opts *options) *cobra.Command {
	var (
		frames int
		out    string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Load the scene headless and write png frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.setup()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("frames") {
				cfg.Render.Frames = frames
			}
			if cmd.Flags().Changed("out") {
				cfg.Render.OutDir = out
			}
			if cfg.Render.Frames <= 0 {
				return fmt.Errorf("render: frames must be positive, got %d", cfg.Render.Frames)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return render(ctx, cfg, log)
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 0, "number of frames to write (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "output directory (default from config)")
	return cmd
}

// render drives the loop by synthetic frame times so the output does not
// depend on how long rasterizing takes
func render(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if err := os.MkdirAll(cfg.Render.OutDir, 0o755); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	writer := &frameWriter{dir: cfg.Render.OutDir}
	renderer := &viewer.ImageRenderer{
		Viewport: aeno.Viewport{Width: cfg.Render.Width, Height: cfg.Render.Height, Scale: cfg.Render.Supersample},
		Sink:     writer.write,
	}
	app, err := viewer.NewApp(cfg, renderer, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- app.Loop().Run(ctx, 0, nil)
	}()

	if err := app.Start(); err != nil {
		return err
	}
	if err := app.WaitLoaded(ctx); err != nil {
		return err
	}

	start := time.Now()
	interval := cfg.Render.FrameInterval()
	for i := 0; i < cfg.Render.Frames; i++ {
		at := start.Add(time.Duration(i) * interval)
		if err := app.Loop().Do(ctx, func() { app.Tick(at) }); err != nil {
			return err
		}
		if writer.err != nil {
			return writer.err
		}
	}
	log.Info("frames written", "count", writer.n, "dir", cfg.Render.OutDir)

	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// frameWriter numbers the frames it receives. It runs on the loop goroutine.
type frameWriter struct {
	dir string
	n   int
	err error
}

func (w *frameWriter) write(img image.Image) {
	if w.err != nil {
		return
	}
	path := filepath.Join(w.dir, fmt.Sprintf("frame_%04d.png", w.n))
	w.err = aeno.SavePNG(path, img)
	w.n++
}
