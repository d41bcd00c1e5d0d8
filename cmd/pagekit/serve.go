package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/internal/config"
	"github.com/vango-dev/pagekit/pkg/dom"
	"github.com/vango-dev/pagekit/pkg/favorite"
	"github.com/vango-dev/pagekit/pkg/live"
	"github.com/vango-dev/pagekit/pkg/middleware"
	"github.com/vango-dev/pagekit/pkg/pref"
	"github.com/vango-dev/pagekit/pkg/protocol"
	"github.com/vango-dev/pagekit/pkg/urlparam"
)

// defaultPage is served when server.page is not set.
const defaultPage = `<!DOCTYPE html>
<html>
<head>
  <title>pagekit</title>
  <style>.hidden { display: none; } .favorited { color: gold; }</style>
</head>
<body>
  <button id="favorite-btn-1" data-id="1">
    <span id="star-icon-1">&#9734;</span>
    <span id="x-icon-1" class="hidden">&#10005;</span>
  </button>
</body>
</html>
`

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		port     int
		host     string
		entities []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a page with a favorite API and live patches",
		Long: `Serve a server-rendered page and keep connected pages in step.

Routes:
  GET  /                          the page, favorite state applied
  POST /api/favorites/{id}        toggle a favorite, {"favorited": bool}
  POST /api/sessions/{id}/query   push query updates to one page
  GET  /ws                        live patch channel
  GET  /metrics                   Prometheus metrics

Favorite state is kept on the configured storage backend.

Examples:
  pagekit serve
  pagekit serve --port=8080 --entity=1 --entity=2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if port != 0 {
				e.cfg.Server.Port = port
			}
			if host != "" {
				e.cfg.Server.Host = host
			}
			return runServe(cmd, e, entities)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from pagekit.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from pagekit.json)")
	cmd.Flags().StringArrayVar(&entities, "entity", []string{"1"}, "Entity ids whose favorite buttons the page carries")

	return cmd
}

func runServe(cmd *cobra.Command, e *env, entities []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	surface, closeSurface, err := openSurface(ctx, e.cfg.Storage)
	if err != nil {
		return err
	}
	defer closeSurface()

	page := defaultPage
	if e.cfg.Server.Page != "" {
		data, err := os.ReadFile(e.cfg.Server.Page)
		if err != nil {
			return fmt.Errorf("read page: %w", err)
		}
		page = string(data)
	}

	srv := newServer(e, pref.NewStore(surface, pref.WithLogger(e.logger), pref.WithMetrics(e.metrics)), page, entities)
	defer srv.hub.Close()

	httpServer := &http.Server{
		Addr:              e.cfg.ServerAddress(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	success(out, "Serving on http://%s", ln.Addr())
	info(out, "Storage: %s", e.cfg.Storage.Backend)
	info(out, "Press Ctrl+C to stop")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	warn(out, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// server serves one page and keeps its favorite state on a store.
type server struct {
	cfg      *config.Config
	logger   *slog.Logger
	env      *env
	store    *pref.Store
	hub      *live.Hub
	page     string
	entities []string

	mu        sync.Mutex
	locations map[string]*urlparam.MemoryLocation
}

func newServer(e *env, store *pref.Store, page string, entities []string) *server {
	return &server{
		cfg:    e.cfg,
		logger: e.logger,
		env:    e,
		store:  store,
		hub: live.NewHub(live.Config{
			Logger:  e.logger,
			Metrics: e.metrics,
		}),
		page:      page,
		entities:  entities,
		locations: make(map[string]*urlparam.MemoryLocation),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(
		middleware.OpenTelemetry(),
		middleware.Prometheus(s.env.metrics),
		middleware.RequestLogger(s.logger),
	)

	r.Get("/", s.handlePage)
	r.Post("/api/favorites/{id}", s.handleFavorite)
	r.Post("/api/sessions/{id}/query", s.handleQuery)
	r.Handle("/ws", s.hub)
	r.Handle("/metrics", promhttp.HandlerFor(s.env.registry, promhttp.HandlerOpts{}))
	return r
}

func favoriteKey(entityID string) string {
	return "favorite:" + entityID
}

// render parses the page and applies the stored favorite state to it.
func (s *server) render(ctx context.Context) (*dom.HTMLDocument, error) {
	doc, err := dom.ParseHTMLString(s.page)
	if err != nil {
		return nil, err
	}
	presenter := newPresenter(s.cfg, dom.NewAccessor(doc, dom.WithLogger(s.logger), dom.WithMetrics(s.env.metrics)))
	for _, id := range s.entities {
		presenter.SetState(id, pref.Get(ctx, s.store, favoriteKey(id), false))
	}
	return doc, nil
}

func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	doc, err := s.render(r.Context())
	if err != nil {
		s.logger.Error("render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	html, err := doc.Render()
	if err != nil {
		s.logger.Error("render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

func (s *server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req favorite.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.ID != "" && req.ID != id {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id does not match the path"})
		return
	}

	// Patches are the difference between the rendered page and the new state.
	doc, err := s.render(r.Context())
	if err != nil {
		s.logger.Error("render failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}
	if !s.store.Set(r.Context(), favoriteKey(id), req.Favorited) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not store favorite"})
		return
	}

	var patches []protocol.Patch
	patchDoc := dom.NewPatchDocument(doc, func(p protocol.Patch) { patches = append(patches, p) })
	newPresenter(s.cfg, dom.NewAccessor(patchDoc, dom.WithLogger(s.logger))).SetState(id, req.Favorited)
	if len(patches) > 0 {
		sent := s.hub.Broadcast(patches)
		s.logger.Debug("favorite broadcast", "id", id, "patches", len(patches), "sessions", sent)
	}

	writeJSON(w, http.StatusOK, favorite.ToggleResponse{Favorited: req.Favorited})
}

// handleQuery applies ordered name/value updates to the address of one live
// session and pushes the new address to it.
func (s *server) handleQuery(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.hub.Session(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such session"})
		return
	}

	var pairs []urlparam.Pair
	if err := json.NewDecoder(r.Body).Decode(&pairs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	loc := s.location(sess)
	syncer := urlparam.NewSynchronizer(loc,
		urlparam.WithLogger(s.logger),
		urlparam.WithMetrics(s.env.metrics),
	)
	push := sess.Committer()
	commit := func(state map[string]any, title, url string) error {
		if err := push(state, title, url); err != nil {
			return err
		}
		return loc.ReplaceState(state, title, url)
	}
	if err := syncer.SetMany(pairs, commit); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := sess.Flush(); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"href": syncer.Href()})
}

// location returns the address the server tracks for sess, starting from the
// path the session was opened from. Entries of closed sessions are dropped.
func (s *server) location(sess *live.Session) *urlparam.MemoryLocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.locations {
		if _, ok := s.hub.Session(id); !ok {
			delete(s.locations, id)
		}
	}
	loc, ok := s.locations[sess.ID()]
	if !ok {
		loc = urlparam.NewMemoryLocation(sess.Path())
		s.locations[sess.ID()] = loc
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
