package http

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"larder/frontend/help"
	"larder/frontend/inventory"
	sessioncontext "larder/frontend/shared/context"
	"larder/infrastructure/audit"
	"larder/infrastructure/backend"
	"larder/infrastructure/cache"
	"larder/infrastructure/metrics"
	sessioncookie "larder/infrastructure/session"
	"larder/infrastructure/sqlite"
)

//go:embed assets/*
var assets embed.FS

var ShutdownTimeout = 5 * time.Second

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux

	DB            *sqlite.DB
	Backend       *backend.Client
	Views         *cache.PageSessionCache[*inventory.View]
	Audit         *audit.Service
	Metrics       *metrics.Collector
	ActivityLimit int
}

// NewServer creates a new http server.
func NewServer(addr string, db *sqlite.DB, client *backend.Client, views *cache.PageSessionCache[*inventory.View], auditSvc *audit.Service, collector *metrics.Collector, activityLimit int) *Server {
	s := &Server{
		Addr:          addr,
		router:        chi.NewRouter(),
		DB:            db,
		Backend:       client,
		Views:         views,
		Audit:         auditSvc,
		Metrics:       collector,
		ActivityLimit: activityLimit,
		server: &http.Server{
			MaxHeaderBytes:    1 << 20,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.CSRFMiddleware)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/inventory", http.StatusSeeOther)
	})

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/help", help.HelpPageQueryHandler())

	if collector != nil {
		s.router.Handle("/metrics", collector.Handler())
	}

	var assetsFS fs.FS = assets
	if sub, err := fs.Sub(assets, "assets"); err == nil {
		assetsFS = sub
	} else {
		slog.Error("assets subfs init failed; serving fallback fs", slog.Any("err", err))
	}
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	s.router.Group(func(r chi.Router) {
		r.Use(s.PageSessionMiddleware)
		s.RegisterInventoryRoutes(r)
	})

	s.server.Handler = s.router
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// PageSessionMiddleware attaches the page session id, issuing a cookie on first visit.
func (s *Server) PageSessionMiddleware(next http.Handler) http.Handler {
	maxAge := int(sessioncookie.IdleTimeout / time.Second)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessioncookie.FromRequest(r)
		if !ok {
			id = sessioncookie.NewID()
			slog.Debug("new page session", slog.String("session", id), slog.String("path", r.URL.Path))
		}
		http.SetCookie(w, sessioncookie.SessionCookie(id, maxAge))

		ctx := sessioncontext.NewContextWithPageSession(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
		s.Metrics.SetPageSessions(s.Views.Len())
	})
}

// SweepSessions evicts idle page sessions every interval until ctx is done.
func (s *Server) SweepSessions(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if removed := s.Views.Sweep(); removed > 0 {
				slog.Info("evicted idle page sessions", slog.Int("count", removed))
			}
			s.Metrics.SetPageSessions(s.Views.Len())
		}
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server stopped", slog.Any("err", err))
		}
	}()
	return nil
}

// Run starts the server and stops it gracefully once ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	slog.Info("larder listening", slog.String("addr", s.ln.Addr().String()))
	<-ctx.Done()
	return s.Stop()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.ln = nil
	return nil
}
