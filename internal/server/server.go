// Package server is the transport edge: it upgrades HTTP connections to
// websockets, pumps inbound frames through the protocol decoder into the
// registry, and exposes the health and stats endpoints.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spotUP/pong-websocket-server/internal/protocol"
	"github.com/spotUP/pong-websocket-server/internal/registry"
)

const (
	writeWait    = 5 * time.Second
	maxFrameSize = 64 * 1024
	readDeadline = 60 * time.Second
)

// Server wires websocket clients to the registry.
type Server struct {
	log      *slog.Logger
	registry *registry.Registry
	upgrader websocket.Upgrader
}

// New builds the transport layer. The origin check is permissive; the
// protocol carries no credentials and rooms are public.
func New(log *slog.Logger, reg *registry.Registry) *Server {
	return &Server{
		log:      log,
		registry: reg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Routes returns the HTTP mux: websocket endpoint plus health and stats.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.registry.Snapshot()); err != nil {
		s.log.Error("stats encode failed", "error", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	conn := newWSConn(ws)
	go s.readLoop(conn)
}

// readLoop pumps one connection until it closes, then tells the registry.
func (s *Server) readLoop(conn *wsConn) {
	defer func() {
		conn.Close()
		if id := conn.playerID(); id != "" {
			s.registry.Disconnect(id, time.Now())
		}
	}()

	conn.ws.SetReadLimit(maxFrameSize)
	conn.ws.SetReadDeadline(time.Now().Add(readDeadline))
	conn.ws.SetPongHandler(func(string) error {
		conn.ws.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		_, payload, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("read failed", "remote", conn.ws.RemoteAddr().String(), "error", err)
			}
			return
		}
		conn.ws.SetReadDeadline(time.Now().Add(readDeadline))

		cmd, err := protocol.Decode(payload)
		if err != nil {
			s.replyError(conn, err)
			continue
		}
		if cmd.Type == protocol.TypeJoinRoom {
			conn.setPlayerID(cmd.PlayerID)
		}
		s.registry.Handle(conn, cmd, time.Now())
	}
}

// replyError reports a malformed frame to its sender only.
func (s *Server) replyError(conn *wsConn, decodeErr error) {
	msg := "malformed payload"
	if errors.Is(decodeErr, protocol.ErrUnknownType) {
		msg = "unknown message type"
	}
	payload, err := protocol.Encode(protocol.ErrorMessage{
		Type:  protocol.TypeError,
		Error: msg,
	})
	if err != nil {
		return
	}
	if err := conn.Send(payload); err != nil {
		s.log.Debug("error reply failed", "error", err)
	}
}

// wsConn wraps a gorilla connection with a write mutex so the tick loop,
// heartbeat loop, and per-message broadcasts can all send safely.
type wsConn struct {
	ws *websocket.Conn

	writeMu sync.Mutex

	mu     sync.Mutex
	player string
	closed bool
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{ws: ws}
}

func (c *wsConn) setPlayerID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.player = id
}

func (c *wsConn) playerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player
}

// Send writes one text frame. Safe for concurrent use.
func (c *wsConn) Send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Close shuts the socket down once; later calls are no-ops.
func (c *wsConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.writeMu.Lock()
	deadline := time.Now().Add(writeWait)
	c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	c.writeMu.Unlock()
	return c.ws.Close()
}
