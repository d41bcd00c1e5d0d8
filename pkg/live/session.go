package live

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/pagekit/pkg/dom"
	"github.com/vango-dev/pagekit/pkg/protocol"
	"github.com/vango-dev/pagekit/pkg/urlparam"
)

// ErrSessionClosed is returned when flushing a closed session.
var ErrSessionClosed = errors.New("live: session closed")

// Session is one connected page.
type Session struct {
	id     string
	path   string
	conn   *websocket.Conn
	hub    *Hub
	logger *slog.Logger

	mu      sync.Mutex // guards pending, seq and writes to conn
	pending []protocol.Patch
	seq     uint64

	closed    atomic.Bool
	closeOnce sync.Once
	patches   atomic.Uint64
}

func newSession(id, path string, conn *websocket.Conn, hub *Hub) *Session {
	return &Session{
		id:     id,
		path:   path,
		conn:   conn,
		hub:    hub,
		logger: hub.logger.With("session", id),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Path returns the page address the session was opened from.
func (s *Session) Path() string { return s.path }

// Queue adds a patch to the next Flush.
func (s *Session) Queue(p protocol.Patch) {
	s.mu.Lock()
	s.pending = append(s.pending, p)
	s.mu.Unlock()
}

// Pending returns the number of queued patches.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Committer returns a urlparam.Committer that queues the new address on this
// session.
func (s *Session) Committer() urlparam.Committer {
	return urlparam.NewPatchCommitter(s.Queue)
}

// Document wraps doc so class changes are queued on this session.
func (s *Session) Document(doc dom.Document) *dom.PatchDocument {
	return dom.NewPatchDocument(doc, s.Queue)
}

// Flush sends queued patches as one sequenced Patches frame. It does nothing
// when the queue is empty. A write error closes the session.
func (s *Session) Flush() error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}

	s.seq++
	pf := &protocol.PatchesFrame{Seq: s.seq, Patches: s.pending}
	data, err := protocol.EncodePatchesFrame(pf)
	if err != nil {
		s.seq--
		return err
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.hub.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		s.logger.Error("write error", "error", err)
		go s.Close()
		return err
	}

	n := len(s.pending)
	s.pending = nil
	s.patches.Add(uint64(n))
	s.hub.config.Metrics.RecordPatches(n)
	s.logger.Debug("sent patches", "seq", pf.Seq, "count", n, "bytes", len(data))
	return nil
}

// Close sends a close message and closes the connection.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		s.mu.Lock()
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.mu.Unlock()
		s.conn.Close()

		s.logger.Info("session closed", "patches", s.patches.Load())
	})
}

// IsClosed reports whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

func (s *Session) readLoop() {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("read error", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Debug("dropping malformed frame", "error", err)
			continue
		}
		if frame.Type != protocol.FrameControl {
			s.logger.Debug("ignoring frame", "type", frame.Type)
			continue
		}
		s.handleControl(frame.Payload)
	}
}

func (s *Session) handleControl(payload []byte) {
	c, err := protocol.DecodeControl(payload)
	if err != nil {
		s.logger.Debug("dropping malformed control", "error", err)
		return
	}

	switch c.Type {
	case protocol.ControlPing:
		data, err := protocol.EncodeControlFrame(&protocol.Control{Type: protocol.ControlPong, Timestamp: c.Timestamp})
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conn.SetWriteDeadline(time.Now().Add(s.hub.config.WriteTimeout))
		err = s.conn.WriteMessage(websocket.BinaryMessage, data)
		s.mu.Unlock()
		if err != nil {
			s.logger.Error("pong write failed", "error", err)
		}
	case protocol.ControlClose:
		go s.Close()
	}
}
