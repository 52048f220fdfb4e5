package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	ws "github.com/thereayou/parley/internal/websocket"
)

// WebSocketHandler upgrades HTTP requests into gateway connections.
// Connections come up unauthenticated; identity arrives over the
// protocol via register_user.
type WebSocketHandler struct {
	hub      *ws.Hub
	gateway  *Gateway
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, gateway *Gateway, allowedOrigin string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:     hub,
		gateway: gateway,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.gateway)
}
