package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledring/internal/link"
	"github.com/coreman2200/ledring/internal/pixel"
	"github.com/coreman2200/ledring/internal/ring"
)

const writeWait = 200 * time.Millisecond

// Hub serves the websocket preview and control endpoints. It is also a
// display sink: every frame shown is broadcast to /frames clients.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*websocket.Conn]bool
	frameID   uint64
	startTime time.Time

	queue *link.Queue
	// Status feeds /health. May be nil.
	Status func() ring.Snapshot
}

func NewHub(q *link.Queue) *Hub {
	return &Hub{
		clients:   map[*websocket.Conn]bool{},
		startTime: time.Now(),
		queue:     q,
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/frames", h.HandleFramesWS)
	mux.HandleFunc("/control", h.HandleControlWS)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	log.Debug().Str("remote", r.RemoteAddr).Msg("frames client connected")

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleControlWS treats every text message as one command line.
func (h *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		for _, line := range strings.Split(strings.TrimRight(string(data), "\r\n"), "\n") {
			line = strings.TrimRight(line, "\r")
			if err := h.queue.Push(r.Context(), line); err != nil {
				return
			}
		}
	}
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	resp := map[string]any{
		"frame_id": h.frameID,
		"uptime_s": time.Since(h.startTime).Seconds(),
		"clients":  len(h.clients),
	}
	h.mu.RUnlock()
	if h.Status != nil {
		resp["ring"] = h.Status()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type frame struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	RGB     []int  `json:"rgb"`
}

// Show broadcasts the frame. Clients that cannot keep up are dropped.
func (h *Hub) Show(buf pixel.Buffer) error {
	rgb := buf.RGB()
	ints := make([]int, len(rgb))
	for i, v := range rgb {
		ints[i] = int(v)
	}

	h.mu.Lock()
	h.frameID++
	id := h.frameID
	h.mu.Unlock()

	b, err := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: id, RGB: ints})
	if err != nil {
		return err
	}

	var failed []*websocket.Conn
	h.mu.RLock()
	for c := range h.clients {
		if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Debug().Err(err).Msg("set write deadline")
			failed = append(failed, c)
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
			failed = append(failed, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range failed {
		h.drop(c)
	}
	return nil
}

// Halt disconnects every preview client.
func (h *Hub) Halt() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
	return nil
}

func (h *Hub) drop(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.Close()
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
