// Package server publishes the showcase in a browser: an html page with the
// control panel and a websocket carrying frames one way and control input
// the other.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	aeno "github.com/netisu/aeno-showcase"
	"github.com/netisu/aeno-showcase/config"
	"github.com/netisu/aeno-showcase/viewer"
)

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

const socketPath = "ws"

// Server wires an App to the http surface
type Server struct {
	cfg      config.Config
	app      *viewer.App
	hub      *Hub
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// New builds the app with a renderer streaming frames to the hub
func New(cfg config.Config, log *slog.Logger) (*Server, error) {
	hub := NewHub(log)
	renderer := &viewer.ImageRenderer{
		Viewport: aeno.Viewport{Width: cfg.Render.Width, Height: cfg.Render.Height, Scale: cfg.Render.Supersample},
		Sink:     hub.SendFrame,
	}
	app, err := viewer.NewApp(cfg, renderer, log)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg: app.Config(),
		app: app,
		hub: hub,
		log: log.With("component", "server"),
	}, nil
}

func (s *Server) App() *viewer.App {
	return s.app
}

func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler serves the page at the base path and the websocket below it
func (s *Server) Handler() http.Handler {
	base := s.cfg.Server.BasePath
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+base+"{$}", s.serveIndex)
	mux.HandleFunc("GET "+base+socketPath, s.serveSocket)
	return mux
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, struct {
		Controls   []viewer.Control
		SocketPath string
	}{viewer.Controls(), socketPath})
	if err != nil {
		s.log.Warn("could not render index", "err", err)
	}
}

// inputMessage is what the page sends on every slider change.
// Value is accepted as a JSON string or number.
type inputMessage struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value"`
}

func (m inputMessage) raw() string {
	var str string
	if err := json.Unmarshal(m.Value, &str); err == nil {
		return str
	}
	return string(m.Value)
}

func (s *Server) serveSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("upgrade failed", "err", err)
		return
	}
	c := s.hub.register(conn)
	defer s.hub.unregister(c)
	s.log.Info("client connected", "remote", conn.RemoteAddr())

	for {
		var msg inputMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("read failed", "remote", conn.RemoteAddr(), "err", err)
			}
			return
		}
		if err := s.app.Input(msg.ID, msg.raw()); err != nil {
			s.log.Warn("ignoring control input", "id", msg.ID, "err", err)
		}
	}
}

// Reload rebuilds the session and tells every page
func (s *Server) Reload() error {
	if err := s.app.Reload(); err != nil {
		return err
	}
	s.hub.Notify(ReloadMessage)
	return nil
}

// Run starts the app, listens and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if err := s.app.Start(); err != nil {
		return err
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.app.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.hub.Close()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	if s.cfg.Assets.Dev() && s.cfg.Assets.Watch {
		g.Go(func() error {
			return s.watch(ctx)
		})
	}

	url := s.URL(ln.Addr())
	s.log.Info("serving", "url", url, "mode", s.cfg.Assets.Mode)
	if s.cfg.Server.OpenBrowser {
		if err := OpenURL(url); err != nil {
			s.log.Warn("could not open browser", "url", url, "err", err)
		}
	}
	return g.Wait()
}

// URL is the page address for a listener bound to addr
func (s *Server) URL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String() + s.cfg.Server.BasePath
	}
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + s.cfg.Server.BasePath
}
