package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/field"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// wsMessage is the envelope for every frames-socket message. Exactly one of
// Frame or Buffers is set, selected by Type ("frame" or "buffers").
type wsMessage struct {
	Type    string                  `json:"type"`
	Frame   *field.FrameUniforms    `json:"frame,omitempty"`
	Buffers *field.AttributeBuffers `json:"buffers,omitempty"`
}

// FramesHandler broadcasts per-tick frame uniforms via WebSocket, plus the
// bulk attribute buffers whenever they change. The render front end draws
// entirely from these two message kinds.
type FramesHandler struct {
	app     *app.App
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewFramesHandler creates a new FramesHandler over the given application.
func NewFramesHandler(a *app.App) *FramesHandler {
	h := &FramesHandler{
		app:     a,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *FramesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// New clients get the full attribute buffers before any frames, so the
	// first frame message lands on a populated scene.
	if msg, err := json.Marshal(wsMessage{Type: "buffers", Buffers: h.buffers()}); err == nil {
		conn.WriteMessage(websocket.TextMessage, msg)
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *FramesHandler) buffers() *field.AttributeBuffers {
	b := h.app.Engine().Buffers()
	return &b
}

// broadcast sends frame data to all connected clients.
func (h *FramesHandler) broadcast() {
	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		// Shape changes and photo reassignment rewrite the buffers; push
		// the new set before the frame that references it.
		if h.app.Engine().TakeDirty() {
			if msg, err := json.Marshal(wsMessage{Type: "buffers", Buffers: h.buffers()}); err == nil {
				h.send(msg)
			}
		}

		frame := h.app.Frame()
		msg, err := json.Marshal(wsMessage{Type: "frame", Frame: &frame})
		if err != nil {
			continue
		}
		h.send(msg)
	}
}

func (h *FramesHandler) send(msg []byte) {
	h.mu.RLock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
	h.mu.RUnlock()
}
