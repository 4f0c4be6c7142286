// Package web provides an HTTP JSON API over a tracker.
//
// The server exposes the ledger, the derived view (filtered entries, statistics,
// breakdown and tips), CSV export, the calculator and the country selection.
// Connected clients receive a "reload" Server-Sent Event after every change,
// including changes made to the ledger file by other processes when watching is
// enabled. Prometheus metrics are served on /metrics.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/spendlog/telemetry"
	"github.com/robinvdvleuten/spendlog/tracker"
)

// debounceDelay groups the several events editors and atomic renames produce for
// one logical save.
const debounceDelay = 100 * time.Millisecond

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	ReadOnly     bool
	WatchEnabled bool

	// WatchFiles are reloaded from when they change on disk. Only used when
	// WatchEnabled is set.
	WatchFiles []string

	Logger zerolog.Logger

	// mu serializes every access to the tracker, which is single-owner.
	mu      sync.Mutex
	tracker *tracker.Tracker
	metrics *metrics

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, t *tracker.Tracker) *Server {
	return NewWithVersion(port, t, "", "")
}

func NewWithVersion(port int, t *tracker.Tracker, version, commitSHA string) *Server {
	s := &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Version:    version,
		CommitSHA:  commitSHA,
		Logger:     zerolog.Nop(),
		tracker:    t,
		metrics:    newMetrics(),
		sseClients: make(map[chan string]struct{}),
	}

	s.metrics.entries.Set(float64(t.Len()))
	t.OnRender(s.onRender)

	return s
}

// Start serves the API until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("web.start %s:%d", s.Host, s.Port))

	if s.WatchEnabled {
		watchTimer := timer.Child("web.watch")
		err := s.startWatcher(ctx)
		watchTimer.End()
		if err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	timer.End()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.Logger.Info().Str("addr", srv.Addr).Bool("read_only", s.ReadOnly).Msg("web server listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the HTTP handler with every route mounted.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/view", s.instrument("view", s.handleGetView))
	mux.HandleFunc("PUT /api/criteria", s.instrument("criteria", s.handlePutCriteria))
	mux.HandleFunc("DELETE /api/criteria", s.instrument("criteria", s.handleDeleteCriteria))

	mux.HandleFunc("GET /api/expenses", s.instrument("expenses", s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.instrument("expenses", s.requireWritable(s.handleCreateExpense)))
	mux.HandleFunc("DELETE /api/expenses", s.instrument("expenses", s.requireWritable(s.handleClearExpenses)))
	mux.HandleFunc("GET /api/expenses/{id}", s.instrument("expense", s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.instrument("expense", s.requireWritable(s.handleUpdateExpense)))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.instrument("expense", s.requireWritable(s.handleDeleteExpense)))

	mux.HandleFunc("GET /api/export", s.instrument("export", s.handleExport))

	mux.HandleFunc("GET /api/calculator", s.instrument("calculator", s.handleGetCalculator))
	mux.HandleFunc("POST /api/calculator", s.instrument("calculator", s.handlePressCalculator))

	mux.HandleFunc("GET /api/country", s.instrument("country", s.handleGetCountry))
	mux.HandleFunc("PUT /api/country", s.instrument("country", s.requireWritable(s.handlePutCountry)))

	mux.HandleFunc("GET /api/version", s.instrument("version", s.handleVersion))
	mux.HandleFunc("GET /api/events", s.handleSSE)
	mux.Handle("GET /metrics", s.metrics.handler())

	return mux
}

// requireWritable is middleware that rejects write requests in read-only mode.
func (s *Server) requireWritable(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ReadOnly {
			http.Error(w, "Server is in read-only mode", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// onRender runs after every tracker mutation, reload and criteria change. The
// tracker lock is held by the caller.
func (s *Server) onRender(view tracker.View) {
	s.metrics.entries.Set(float64(view.Total))
	s.broadcast("reload")
}

// reload replaces the tracker state with what is on disk.
func (s *Server) reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Load(ctx)
}

// startWatcher watches the directories of WatchFiles. Directories are watched rather
// than the files themselves because atomic saves replace the file with a new inode.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	watched := make(map[string]bool, len(s.WatchFiles))
	dirs := make(map[string]bool)
	for _, file := range s.WatchFiles {
		abs, err := filepath.Abs(file)
		if err != nil {
			_ = watcher.Close()
			return fmt.Errorf("invalid watch path %s: %w", file, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			s.Logger.Warn().Err(err).Str("dir", dir).Msg("failed to watch directory")
		}
	}

	go s.runWatcher(ctx, watcher, watched)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, watched map[string]bool) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.Logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// handleFileChange reloads the tracker. The render hook broadcasts the reload.
func (s *Server) handleFileChange(ctx context.Context) {
	if err := s.reload(ctx); err != nil {
		s.Logger.Error().Err(err).Msg("failed to reload ledger")
		return
	}
	s.metrics.reloads.Inc()
	s.Logger.Info().Msg("ledger reloaded from disk")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.metrics.sseClients.Set(float64(len(s.sseClients)))
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.metrics.sseClients.Set(float64(len(s.sseClients)))
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
