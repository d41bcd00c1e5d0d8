package live

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/pagekit/internal/logging"
	"github.com/vango-dev/pagekit/pkg/metrics"
	"github.com/vango-dev/pagekit/pkg/protocol"
)

// Config configures a Hub.
type Config struct {
	ReadBufferSize  int
	WriteBufferSize int

	// WriteTimeout bounds each frame write. Default: 10 seconds.
	WriteTimeout time.Duration

	// MaxMessageSize caps client frames. Default: 64 KiB.
	MaxMessageSize int64

	// CheckOrigin validates the Origin header. Nil accepts same-origin
	// requests only.
	CheckOrigin func(r *http.Request) bool

	// OnConnect runs once per session before its read loop starts.
	OnConnect func(s *Session)

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

func (c *Config) applyDefaults() {
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = 1024
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = 1024
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = 64 * 1024
	}
	c.Logger = logging.OrDefault(c.Logger)
}

// Hub tracks live sessions.
type Hub struct {
	config   Config
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHub returns a Hub.
func NewHub(cfg Config) *Hub {
	cfg.applyDefaults()
	return &Hub{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		logger:   cfg.Logger,
		sessions: make(map[string]*Session),
	}
}

// ServeHTTP upgrades the request and serves the session until it closes.
// The page path is taken from the "path" query parameter, or the Referer.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(h.config.MaxMessageSize)

	s := newSession(uuid.NewString(), pagePath(r), conn, h)
	h.add(s)
	defer h.remove(s)

	if h.config.OnConnect != nil {
		h.config.OnConnect(s)
	}
	s.readLoop()
}

// Session returns the session with the given id.
func (h *Hub) Session(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Len returns the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Sessions returns a snapshot of the connected sessions.
func (h *Hub) Sessions() []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out
}

// Broadcast queues patches on every session and flushes them. It returns the
// number of sessions that received the frame.
func (h *Hub) Broadcast(patches []protocol.Patch) int {
	sent := 0
	for _, s := range h.Sessions() {
		for _, p := range patches {
			s.Queue(p)
		}
		if err := s.Flush(); err != nil {
			h.logger.Warn("broadcast failed", "session", s.ID(), "error", err)
			continue
		}
		sent++
	}
	return sent
}

// Close closes every session.
func (h *Hub) Close() {
	for _, s := range h.Sessions() {
		s.Close()
	}
}

func (h *Hub) add(s *Session) {
	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
	h.config.Metrics.SessionOpened()
	h.logger.Info("session opened", "session", s.id, "path", s.path)
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	_, ok := h.sessions[s.id]
	delete(h.sessions, s.id)
	h.mu.Unlock()
	if ok {
		h.config.Metrics.SessionClosed()
	}
	s.Close()
}

func pagePath(r *http.Request) string {
	if p := r.URL.Query().Get("path"); p != "" {
		return p
	}
	if ref := r.Referer(); ref != "" {
		return ref
	}
	return "/"
}
