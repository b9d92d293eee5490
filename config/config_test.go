package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Assets.Dev())
	assert.Equal(t, filepath.Join("public", "cone.glb"), cfg.Assets.Resolve(cfg.Assets.Cone))
	assert.Equal(t, time.Second/30, cfg.Render.FrameInterval())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "aenoview.toml", `
[server]
addr = ":8080"
base_path = "showcase"

[assets]
mode = "prod"
base_url = "https://cdn.example.com/dist/"

[render]
width = 320
height = 240
fps = 60
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "/showcase/", cfg.Server.BasePath)
	assert.True(t, cfg.Server.OpenBrowser, "unset keys keep their defaults")
	assert.False(t, cfg.Assets.Dev())
	assert.Equal(t, "https://cdn.example.com/dist/pattern.jpg", cfg.Assets.Resolve(cfg.Assets.Texture))
	assert.Equal(t, 320, cfg.Render.Width)
	assert.Equal(t, "cone.glb", cfg.Assets.Cone)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "aenoview.yaml", `
assets:
  mode: prod
  base_url: build
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("build", "cone.glb"), cfg.Assets.Resolve("cone.glb"))
	assert.Equal(t, "json", cfg.Log.Format)

	var buf bytes.Buffer
	log, err := cfg.Log.Logger(&buf)
	require.NoError(t, err)
	log.Debug("loading file", "percent", 10)
	assert.Contains(t, buf.String(), `"msg":"loading file"`)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "bad.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported file type")

	_, err = Load(writeFile(t, "bad.toml", "[server\n"))
	assert.ErrorContains(t, err, "parse")

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "invalid.toml", `
[assets]
mode = "staging"
[render]
width = 0
fps = 0
[log]
level = "loud"
`))
	require.Error(t, err)
	for _, msg := range []string{"assets.mode", "render size", "render.fps", "log.level"} {
		assert.ErrorContains(t, err, msg)
	}
}

func TestNormalizeBasePath(t *testing.T) {
	for in, want := range map[string]string{
		"":       "/",
		"/":      "/",
		"app":    "/app/",
		"/app":   "/app/",
		"//a/b/": "/a/b/",
	} {
		assert.Equal(t, want, NormalizeBasePath(in), in)
	}
}
