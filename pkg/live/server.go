// Package live pushes freshly compiled template descriptors to connected
// rendering runtimes over WebSocket. The compiler side only ships
// descriptors; applying them to a running UI is the runtime's business.
package live

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// PathPrefix is the URL prefix sessions connect under; the remainder of the
// path is the session ID.
const PathPrefix = "/loom/live/"

// Server accepts hot-reload sessions and broadcasts descriptor updates to
// all of them.
type Server struct {
	upgrader websocket.Upgrader
	sessions map[string]*Session
	mu       sync.RWMutex
}

// Session is one connected runtime. It survives reconnects: a client dialing
// in with a known ID takes over the existing session and its sequence
// counter, so it can tell whether it missed updates. A takeover swaps in a
// fresh connection, send channel and close channel under the session lock;
// the previous connection's goroutines keep working against their own
// snapshots and can never touch the replacement.
type Session struct {
	ID      string
	conn    *websocket.Conn
	lastSeq uint64
	send    chan []byte
	closeCh chan struct{}
	mu      sync.Mutex
}

// NewServer creates a hot-reload push server.
func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The dev server binds to localhost; cross-origin dev setups
				// are on their own here.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions: make(map[string]*Session),
	}
}

// HandleWebSocket upgrades a connection under PathPrefix and runs its
// session until the peer goes away.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, PathPrefix)
	if sessionID == "" || sessionID == r.URL.Path {
		http.Error(w, "session ID required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Live] Failed to upgrade connection: %v", err)
		return
	}

	session := s.getOrCreateSession(sessionID, conn)
	go session.run(conn)
}

func (s *Server) getOrCreateSession(sessionID string, conn *websocket.Conn) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, exists := s.sessions[sessionID]; exists {
		session.mu.Lock()
		if session.conn != nil {
			session.conn.Close()
		}
		// Stop the previous writer, then hand the session fresh channels.
		// Frames enqueued from here on can only reach the new connection.
		select {
		case <-session.closeCh:
		default:
			close(session.closeCh)
		}
		session.conn = conn
		session.send = make(chan []byte, 64)
		session.closeCh = make(chan struct{})
		session.mu.Unlock()
		return session
	}

	session := &Session{
		ID:      sessionID,
		conn:    conn,
		send:    make(chan []byte, 64),
		closeCh: make(chan struct{}),
	}
	s.sessions[sessionID] = session
	return session
}

// RemoveSession drops a session by ID.
func (s *Server) RemoveSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Broadcast pushes a templates frame, stamped with each session's own
// sequence number, to every connected session. Sessions with a full send
// buffer are skipped rather than blocked on.
func (s *Server) Broadcast(file string, templates []json.RawMessage) {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	for _, session := range sessions {
		if err := session.sendTemplates(file, templates); err != nil {
			log.Printf("[Live Session %s] Dropping update: %v", session.ID, err)
		}
	}
}

func (s *Session) sendTemplates(file string, templates []json.RawMessage) error {
	s.mu.Lock()
	s.lastSeq++
	frame := Frame{Type: TypeTemplates, Seq: s.lastSeq, File: file, Templates: templates}
	send := s.send
	s.mu.Unlock()

	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	select {
	case send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

var errSendBufferFull = errors.New("send buffer full")

// run reads frames from conn until the connection dies. A writer goroutine
// drains the send channel and keeps the connection alive with pings. conn,
// send and closeCh are this run's own; after a takeover the session fields
// point elsewhere and teardown here must not touch them.
func (s *Session) run(conn *websocket.Conn) {
	s.mu.Lock()
	send := s.send
	closeCh := s.closeCh
	hello := Frame{Type: TypeHello, Seq: s.lastSeq}
	s.mu.Unlock()

	var closeOnce sync.Once
	cleanup := func() {
		closeOnce.Do(func() {
			conn.Close()
			s.mu.Lock()
			select {
			case <-closeCh:
			default:
				close(closeCh)
			}
			s.mu.Unlock()
		})
	}
	defer cleanup()

	go s.writer(conn, send, closeCh)

	s.enqueue(send, hello)
	log.Printf("[Live Session %s] Connected", s.ID)

	conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Live Session %s] Unexpected close: %v", s.ID, err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("[Live Session %s] Bad frame: %v", s.ID, err)
			continue
		}

		switch frame.Type {
		case TypeHello:
			log.Printf("[Live Session %s] Client hello, lastSeq=%d", s.ID, frame.Seq)
		case TypePing:
			s.enqueue(send, Frame{Type: TypePong})
		}
	}
}

// enqueue marshals a control frame onto one connection's send channel,
// dropping it when the buffer is full.
func (s *Session) enqueue(send chan []byte, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case send <- data:
	default:
		log.Printf("[Live Session %s] Send buffer full, dropping %s frame", s.ID, frame.Type)
	}
}

func (s *Session) writer(conn *websocket.Conn, send chan []byte, closeCh chan struct{}) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[Live Session %s] Write failed: %v", s.ID, err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-closeCh:
			return
		}
	}
}
