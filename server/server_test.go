package server

import (
	"context"
	"image"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aeno "github.com/netisu/aeno-showcase"
	"github.com/netisu/aeno-showcase/config"
	"github.com/netisu/aeno-showcase/viewer"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Server.BasePath = "/showcase/"
	cfg.Server.OpenBrowser = false
	cfg.Assets.Watch = false
	cfg.Render.Width, cfg.Render.Height = 8, 6
	cfg.Render.FPS = 100
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func coneOnly(path string, _ aeno.LoadOptions) (*aeno.Asset, error) {
	root := aeno.NewGroup("Scene")
	if filepath.Base(path) == "cone.glb" {
		root.Add(aeno.NewMeshObject(viewer.ConeName, aeno.NewTriangleMesh(nil), aeno.NewStandardMaterial(aeno.White)))
	}
	return &aeno.Asset{Scene: root}, nil
}

func newTestServer(t *testing.T) (*Server, *httptest.Server, context.Context) {
	t.Helper()
	s, err := New(testConfig(), discard())
	require.NoError(t, err)
	s.App().Loader().Asset = coneOnly

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.App().Run(ctx)
	}()
	require.NoError(t, s.App().Start())
	require.NoError(t, s.App().WaitLoaded(ctx))

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
		s.Hub().Close()
	})
	return s, ts, ctx
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/showcase/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestIndex(t *testing.T) {
	_, ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/showcase/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	for _, c := range viewer.Controls() {
		assert.Contains(t, string(body), `id="`+c.ID+`"`)
	}

	resp, err = http.Get(ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSocketControls(t *testing.T) {
	s, ts, ctx := newTestServer(t)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(map[string]string{"id": viewer.ConeColour, "value": "1"}))
	require.NoError(t, conn.WriteJSON(map[string]any{"id": "unknown", "value": 1}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"cone-colour","value":0}`)))

	assert.Eventually(t, func() bool {
		var c aeno.Color
		err := s.App().Loop().Do(ctx, func() {
			m, _ := s.App().Session().Context.ConeMaterial.Get()
			c = m.Color
		})
		return err == nil && c == viewer.Ramp(0)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSocketFrames(t *testing.T) {
	_, ts, _ := newTestServer(t)
	conn := dial(t, ts)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	for {
		typ, data, err := conn.ReadMessage()
		require.NoError(t, err)
		if typ != websocket.BinaryMessage {
			continue
		}
		img, _, err := image.Decode(strings.NewReader(string(data)))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())
		return
	}
}

func TestReloadNotifies(t *testing.T) {
	s, ts, _ := newTestServer(t)
	conn := dial(t, ts)
	assert.Eventually(t, func() bool { return s.Hub().Len() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Reload())
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		typ, data, err := conn.ReadMessage()
		require.NoError(t, err)
		if typ == websocket.TextMessage {
			assert.Equal(t, ReloadMessage, string(data))
			return
		}
	}
}

func TestHubDropsFramesForSlowClients(t *testing.T) {
	h := NewHub(discard())
	c := &client{send: make(chan message, sendBuffer)}
	h.clients[c] = struct{}{}
	for i := 0; i < sendBuffer+3; i++ {
		h.Broadcast(websocket.BinaryMessage, []byte{byte(i)})
	}
	assert.Len(t, c.send, sendBuffer)
	assert.Equal(t, 1, h.Len())

	// a text message replaces the queued frames
	h.Notify(ReloadMessage)
	require.Len(t, c.send, 1)
	m := <-c.send
	assert.Equal(t, websocket.TextMessage, m.typ)
	assert.Equal(t, ReloadMessage, string(m.data))

	h.Close()
	assert.Zero(t, h.Len())
	h.SendFrame(image.NewNRGBA(image.Rect(0, 0, 1, 1)))
}

func TestHubKeepsTextOrder(t *testing.T) {
	h := NewHub(discard())
	c := &client{send: make(chan message, sendBuffer)}
	h.clients[c] = struct{}{}
	h.Notify("a")
	h.Broadcast(websocket.BinaryMessage, []byte{1})
	h.Notify("b")
	h.Broadcast(websocket.BinaryMessage, []byte{2})
	h.Notify("c")

	var got []string
	for len(c.send) > 0 {
		m := <-c.send
		assert.Equal(t, websocket.TextMessage, m.typ)
		got = append(got, string(m.data))
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestHubDisconnectsClientNotReading(t *testing.T) {
	h := NewHub(discard())
	c := &client{send: make(chan message, sendBuffer)}
	h.clients[c] = struct{}{}
	for i := 0; i < sendBuffer+1; i++ {
		h.Notify("x")
	}
	assert.Zero(t, h.Len())
	_, open := <-c.send
	assert.False(t, open, "the send channel is closed so the writer hangs up")
	h.Notify("x")
}

func TestURL(t *testing.T) {
	s := &Server{cfg: testConfig()}
	assert.Equal(t, "http://localhost:5173/showcase/", s.URL(&net.TCPAddr{IP: net.IPv4zero, Port: 5173}))
	assert.Equal(t, "http://127.0.0.1:80/showcase/", s.URL(&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 80}))
}
