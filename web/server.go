package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/worldtiles/layout"
	"github.com/mogaika/worldtiles/status"
)

var log = logrus.WithField("pkg", "web")

const SHUTDOWN_TIMEOUT = 5 * time.Second

// Server exposes read-only lookups over built layout
type Server struct {
	layout *layout.Layout
	hub    *status.Hub
	build  string
}

// NewServer wraps layout. Hub may be nil, then /status is not routed.
func NewServer(l *layout.Layout, hub *status.Hub, build string) *Server {
	return &Server{layout: l, hub: hub, build: build}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/tiles", s.HandlerTiles)
	r.HandleFunc("/json/tile/at", s.HandlerTileAt)
	r.HandleFunc("/json/tile/{name}", s.HandlerTile)
	r.HandleFunc("/json/tile/{name}/flag/{designation}/{flag}", s.HandlerTileFlag)
	r.HandleFunc("/json/region/{name}", s.HandlerRegion)
	r.HandleFunc("/json/flag/{designation}/{name}", s.HandlerFlag)
	r.HandleFunc("/dump/tile/{name}", s.HandlerDumpTile)
	r.HandleFunc("/dump/preview.glb", s.HandlerPreview)
	if s.hub != nil {
		r.Handle("/status", s.hub)
	}
	return r
}

// Handler is router wrapped with panic recovery and access log
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router()
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(log), handlers.PrintRecoveryStack(true))(h)
	return handlers.LoggingHandler(log.WriterLevel(logrus.DebugLevel), h)
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Server shutdown failed")
		}
	}()

	log.Infof("Starting server %v", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
