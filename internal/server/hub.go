package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Makepad-fr/clientdash/internal/logging"
	"github.com/Makepad-fr/clientdash/internal/realtime"
)

const (
	peerBuffer = 64
	writeWait  = 5 * time.Second
)

// Hub fans frames out to every connected websocket.
type Hub struct {
	upgrader websocket.Upgrader
	log      *logging.Logger

	mu    sync.Mutex
	peers map[*peer]struct{}
}

type peer struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (p *peer) close() {
	p.once.Do(func() {
		close(p.send)
	})
}

// NewHub creates an empty hub.
func NewHub(log *logging.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// the mock server accepts any origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:   log,
		peers: make(map[*peer]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the socket until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err.Error())
		return
	}
	p := &peer{conn: conn, send: make(chan []byte, peerBuffer)}
	h.add(p)
	h.log.Info("socket connected", "remote", r.RemoteAddr, "peers", h.Count())

	go h.writeLoop(p)

	// inbound frames are ignored; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(p)
	h.log.Info("socket disconnected", "remote", r.RemoteAddr, "peers", h.Count())
}

func (h *Hub) writeLoop(p *peer) {
	defer p.conn.Close()
	for msg := range p.send {
		_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(p)
			// drain so Broadcast never blocks on a dead peer
			for range p.send {
			}
			return
		}
	}
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) add(p *peer) {
	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	_, ok := h.peers[p]
	delete(h.peers, p)
	h.mu.Unlock()
	if ok {
		p.close()
	}
}

// Broadcast sends f to every peer. A peer whose buffer is full is dropped.
func (h *Hub) Broadcast(f realtime.Frame) {
	msg, err := json.Marshal(f)
	if err != nil {
		h.log.Error("encode frame", "error", err.Error())
		return
	}
	h.mu.Lock()
	var slow []*peer
	for p := range h.peers {
		select {
		case p.send <- msg:
		default:
			slow = append(slow, p)
		}
	}
	for _, p := range slow {
		delete(h.peers, p)
		p.close()
	}
	h.mu.Unlock()

	for range slow {
		h.log.Warn("dropped slow socket")
	}
	h.log.Debug("broadcast", "event", f.Event, "id", f.Data.ID)
}

// Count returns the number of connected sockets.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Close disconnects every peer.
func (h *Hub) Close() {
	h.mu.Lock()
	peers := h.peers
	h.peers = make(map[*peer]struct{})
	h.mu.Unlock()
	for p := range peers {
		p.close()
	}
}
