package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/parley/internal/handlers"
)

func APIEndpoints(r *gin.Engine, roomH *handlers.RoomHandler, wsH *handlers.WebSocketHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rooms := r.Group("/api/rooms")
	{
		rooms.POST("", roomH.CreateRoom)
		rooms.POST("/direct", roomH.CreateDirectRoom)
		rooms.GET("/mine/:userId", roomH.GetMyRooms)
		rooms.POST("/:roomId/invite", roomH.InviteToRoom)
	}

	r.GET("/ws", wsH.HandleWebSocket)
}
