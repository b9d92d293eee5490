// Package config holds the runtime settings of the showcase: where the
// assets live, how frames are rendered and how the web surface is served.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	ModeDev  = "dev"
	ModeProd = "prod"
)

type Config struct {
	Server ServerConfig `toml:"server" yaml:"server"`
	Assets AssetsConfig `toml:"assets" yaml:"assets"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
	// BasePath prefixes every route, always with leading and trailing slash.
	BasePath    string `toml:"base_path" yaml:"base_path"`
	OpenBrowser bool   `toml:"open_browser" yaml:"open_browser"`
}

type AssetsConfig struct {
	Mode string `toml:"mode" yaml:"mode"`
	// DevDir is read in dev mode; BaseURL (a directory or an http(s) prefix) in prod.
	DevDir  string `toml:"dev_dir" yaml:"dev_dir"`
	BaseURL string `toml:"base_url" yaml:"base_url"`
	Scene   string `toml:"scene" yaml:"scene"`
	Cone    string `toml:"cone" yaml:"cone"`
	Texture string `toml:"texture" yaml:"texture"`
	// Watch reloads the session when a file under DevDir changes (dev mode only).
	Watch bool `toml:"watch" yaml:"watch"`
}

type RenderConfig struct {
	Width       int     `toml:"width" yaml:"width"`
	Height      int     `toml:"height" yaml:"height"`
	Supersample int     `toml:"supersample" yaml:"supersample"`
	FPS         float64 `toml:"fps" yaml:"fps"`
	Simplify    float64 `toml:"simplify" yaml:"simplify"`
	Background  string  `toml:"background" yaml:"background"`
	OutDir      string  `toml:"out_dir" yaml:"out_dir"`
	Frames      int     `toml:"frames" yaml:"frames"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default mirrors the original page: two glb files and a jpeg under ./public.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        "127.0.0.1:5173",
			BasePath:    "/",
			OpenBrowser: true,
		},
		Assets: AssetsConfig{
			Mode:    ModeDev,
			DevDir:  "./public",
			BaseURL: "dist/",
			Scene:   "blenderthreeanimated2.glb",
			Cone:    "cone.glb",
			Texture: "pattern.jpg",
			Watch:   true,
		},
		Render: RenderConfig{
			Width:       640,
			Height:      480,
			Supersample: 1,
			FPS:         30,
			Background:  "000000",
			OutDir:      "dist",
			Frames:      60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a TOML or YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	if c.Assets.Mode != ModeDev && c.Assets.Mode != ModeProd {
		errs = append(errs, fmt.Errorf("assets.mode must be %q or %q, got %q", ModeDev, ModeProd, c.Assets.Mode))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.Supersample < 1 {
		errs = append(errs, fmt.Errorf("render.supersample must be at least 1"))
	}
	if c.Render.FPS <= 0 {
		errs = append(errs, fmt.Errorf("render.fps must be positive"))
	}
	if c.Render.Simplify < 0 || c.Render.Simplify > 1 {
		errs = append(errs, fmt.Errorf("render.simplify must be within [0, 1]"))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	c.Server.BasePath = NormalizeBasePath(c.Server.BasePath)
	return errors.Join(errs...)
}

// NormalizeBasePath returns p with exactly one leading and one trailing slash
func NormalizeBasePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}

// Dev reports whether assets are read from the development directory
func (a AssetsConfig) Dev() bool {
	return a.Mode == ModeDev
}

// Resolve maps an asset name to the path or URL it is loaded from
func (a AssetsConfig) Resolve(name string) string {
	if a.Dev() {
		return filepath.Join(a.DevDir, name)
	}
	if strings.HasPrefix(a.BaseURL, "http://") || strings.HasPrefix(a.BaseURL, "https://") {
		return strings.TrimSuffix(a.BaseURL, "/") + "/" + strings.TrimPrefix(name, "/")
	}
	return filepath.Join(a.BaseURL, name)
}

// FrameInterval is the delay between frame loop ticks
func (r RenderConfig) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / r.FPS)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// Logger builds the process logger writing to w
func (c LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
