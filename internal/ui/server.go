// Package ui serves the launch dashboard over HTTP.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/internal/ui/notifier"
	"github.com/leapstack-labs/launchdash/internal/ui/router"
	"github.com/leapstack-labs/launchdash/internal/ui/session"
	"github.com/leapstack-labs/launchdash/pkg/source"
)

// DefaultReloadDebounce coalesces the burst of events editors emit for one save.
const DefaultReloadDebounce = 200 * time.Millisecond

// Server is the dashboard HTTP server.
type Server struct {
	holder       *dataset.Holder
	source       source.Config
	sessionStore *sessions.CookieStore
	registry     *session.Registry
	dispatcher   *session.Dispatcher
	host         string
	port         int
	watch        bool
	debounce     time.Duration
	dev          bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the dashboard server.
type Config struct {
	Holder        *dataset.Holder
	Source        source.Config
	Host          string
	Port          int
	Watch         bool
	Debounce      time.Duration
	Dev           bool
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new dashboard server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}

	return &Server{
		holder:       cfg.Holder,
		source:       cfg.Source,
		sessionStore: session.NewCookieStore(cfg.SessionSecret),
		registry:     session.NewRegistry(),
		dispatcher:   session.NewDispatcher(),
		host:         cfg.Host,
		port:         cfg.Port,
		watch:        cfg.Watch,
		debounce:     debounce,
		dev:          cfg.Dev,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Handler builds the HTTP handler with middleware and every route.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, router.Deps{
		Holder:       s.holder,
		SessionStore: s.sessionStore,
		Registry:     s.registry,
		Dispatcher:   s.dispatcher,
		Notifier:     s.notifier,
		Logger:       s.logger,
		IsDev:        s.dev,
	}); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	s.logger.Info("starting dashboard server", "addr", s.URL())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchDataset(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down dashboard server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for dataset changes.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchDataset reloads the dataset whenever its file changes.
// Only file-backed sources can be watched.
func (s *Server) watchDataset(ctx context.Context) error {
	if s.source.Path == "" {
		s.logger.Warn("dataset watch requires a file source, not watching", "source", s.source.Location())
		<-ctx.Done()
		return nil
	}

	target, err := filepath.Abs(s.source.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve dataset path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file, which drops a file watch.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch dataset directory", "path", filepath.Dir(target), "error", err)
		<-ctx.Done()
		return nil
	}
	s.logger.Info("watching dataset for changes", "path", target)

	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
	)
	defer func() {
		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDatasetEvent(event, target) {
				continue
			}

			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(s.debounce, func() {
				s.reloadDataset(ctx)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reloadDataset publishes a freshly loaded dataset and notifies open streams.
// A failed reload keeps the current dataset.
func (s *Server) reloadDataset(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.logger.Debug("dataset file changed, reloading", "source", s.source.Location())

	if err := s.holder.Reload(ctx, s.source, s.logger); err != nil {
		s.logger.Error("dataset reload failed", "error", err)
		return
	}

	ds := s.holder.Current()
	s.notifier.Broadcast(notifier.Change{Source: ds.Source(), Records: ds.Len()})
}

func isDatasetEvent(event fsnotify.Event, target string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == target
}

func displayAddr(host string, port int) string {
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// URL returns the address a browser on this machine should open.
func (s *Server) URL() string {
	return "http://" + displayAddr(s.host, s.port)
}
