package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"buckshot-lite/roulette"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Frame is one JSON text message on the feed. Seq 0 carries the snapshot
// sent on connect; events start at 1.
type Frame struct {
	MatchID  string             `json:"match_id"`
	Seq      uint64             `json:"seq"`
	Event    *roulette.Event    `json:"event,omitempty"`
	Snapshot *roulette.Snapshot `json:"snapshot,omitempty"`
}

// Connection is one spectator.
type Connection struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	LastPing time.Time
}

// Gateway fans match events out to spectators. Inbound messages are ignored.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	nextConnID  uint64

	matchID string
	seq     uint64
	last    *roulette.Snapshot

	log logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Gateway {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Gateway{
		connections: make(map[string]*Connection),
		log:         log.WithField("component", "gateway"),
	}
}

// Handler serves /ws and /health. extra, if set, registers more routes.
func (g *Gateway) Handler(extra func(*http.ServeMux)) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":     "ok",
			"spectators": g.ConnectionCount(),
		})
	})
	if extra != nil {
		extra(mux)
	}
	return mux
}

// Serve runs the HTTP server until ctx is cancelled.
func (g *Gateway) Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		g.log.WithField("addr", addr).Info("spectator feed listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		g.closeAll()
		return srv.Shutdown(shutdownCtx)
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("upgrade failed")
		return
	}

	g.mu.Lock()
	g.nextConnID++
	c := &Connection{
		ID:       fmt.Sprintf("conn_%d", g.nextConnID),
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		LastPing: time.Now(),
	}
	g.connections[c.ID] = c
	total := len(g.connections)
	var hello []byte
	if g.last != nil {
		hello, _ = json.Marshal(Frame{MatchID: g.matchID, Snapshot: g.last})
	}
	g.mu.Unlock()

	if hello != nil {
		c.Send <- hello
	}
	g.log.WithFields(logrus.Fields{"conn": c.ID, "total": total}).Info("spectator connected")

	go c.readPump()
	go c.writePump()
}

// Publish broadcasts events of matchID and remembers snap for late joiners.
func (g *Gateway) Publish(matchID string, events []roulette.Event, snap roulette.Snapshot) {
	g.mu.Lock()
	if g.matchID != matchID {
		g.matchID = matchID
		g.seq = 0
	}
	frames := make([][]byte, 0, len(events))
	for i := range events {
		g.seq++
		data, err := json.Marshal(Frame{MatchID: matchID, Seq: g.seq, Event: &events[i]})
		if err != nil {
			g.log.WithError(err).Warn("marshal event failed")
			continue
		}
		frames = append(frames, data)
	}
	g.last = &snap
	g.mu.Unlock()

	for _, data := range frames {
		g.Broadcast(data)
	}
}

func (g *Gateway) ConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Gateway.log.WithError(err).Debug("read error")
			}
			break
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.connections[c.ID]; !ok {
		return
	}
	delete(g.connections, c.ID)
	close(c.Send)
	g.log.WithFields(logrus.Fields{"conn": c.ID, "total": len(g.connections)}).Info("spectator disconnected")
}

func (g *Gateway) closeAll() {
	g.mu.RLock()
	conns := make([]*Connection, 0, len(g.connections))
	for _, c := range g.connections {
		conns = append(conns, c)
	}
	g.mu.RUnlock()
	for _, c := range conns {
		c.Conn.Close()
	}
}

// Broadcast sends a message to all connections.
func (g *Gateway) Broadcast(message []byte) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.connections {
		select {
		case c.Send <- message:
		default:
			// Drop message if buffer full
		}
	}
}
