package websocket

import (
	"log"
	"net/http"

	"swms-backend/internal/auth"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same policy as the HTTP CORS layer: all origins allowed.
		return true
	},
}

// HandleWebSocket upgrades the connection. Browsers cannot set an
// Authorization header on a WebSocket handshake, so the bearer token
// arrives as a query parameter and is verified the same way.
func HandleWebSocket(hub *Hub, tokens *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			log.Printf("ws: token rejected: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ws: upgrade failed: %v", err)
			return
		}

		client := NewClient(claims.UserID, claims.Role, conn, hub)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
