package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// Handle returns an HTTP handler that upgrades connections to WebSocket
// and runs them as Hub clients.
func Handle(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			slog.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn)
		client.Run(r.Context())
	}
}
