package dashboard

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const livePushInterval = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// admin tool runs on a separate origin
		return true
	},
}

// Live - GET /admin/dashboard/live: push the stats payload on connect and
// then every 10 seconds until the client goes away
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	log.Printf("📡 Dashboard client connected: %s", r.RemoteAddr)
	go h.pushLoop(conn)
}

func (h *Handler) pushLoop(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		log.Println("📡 Dashboard client disconnected")
	}()

	// reads are discarded; a read error is how we learn the client left
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(livePushInterval)
	defer ticker.Stop()

	if !h.pushStats(conn) {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !h.pushStats(conn) {
				return
			}
		}
	}
}

func (h *Handler) pushStats(conn *websocket.Conn) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		log.Printf("⚠️  Live stats failed: %v", err)
		return true // transient; keep the connection
	}

	if err := conn.WriteJSON(stats); err != nil {
		return false
	}
	return true
}
