package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/parley/internal/handlers/dto"
	"github.com/thereayou/parley/internal/services"
	ws "github.com/thereayou/parley/internal/websocket"
	apperrors "github.com/thereayou/parley/pkg/errors"
)

// RoomHandler is the REST facade mirroring a subset of the room and
// message operations for non-realtime clients.
type RoomHandler struct {
	rooms *services.RoomService
	hub   *ws.Hub
}

func NewRoomHandler(rooms *services.RoomService, hub *ws.Hub) *RoomHandler {
	return &RoomHandler{rooms: rooms, hub: hub}
}

// CreateRoom creates a group room; the creator, when given, joins it.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		CreatorID string `json:"creator_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": apperrors.CodeBadRequest})
		return
	}

	var creatorID *uuid.UUID
	if req.CreatorID != "" {
		id, err := uuid.Parse(req.CreatorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": apperrors.CodeInvalidUserID})
			return
		}
		creatorID = &id
	}

	room, err := h.rooms.CreateGroup(req.Name, creatorID)
	if err != nil {
		respondError(c, err, apperrors.CodeCreateFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "room": dto.NewRoomView(room)})
}

// CreateDirectRoom finds or creates the 1:1 room between two users.
func (h *RoomHandler) CreateDirectRoom(c *gin.Context) {
	var req struct {
		UserAID string `json:"user_a_id"`
		UserBID string `json:"user_b_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": apperrors.CodeInvalidUserIDs})
		return
	}

	userA, errA := uuid.Parse(req.UserAID)
	userB, errB := uuid.Parse(req.UserBID)
	if errA != nil || errB != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": apperrors.CodeInvalidUserIDs})
		return
	}

	room, err := h.rooms.EnsureDirectRoom(userA, userB)
	if err != nil {
		respondError(c, err, apperrors.CodeDirectFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "room": dto.NewRoomView(room)})
}

// GetMyRooms lists the user's rooms with member counts and last messages.
func (h *RoomHandler) GetMyRooms(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": apperrors.CodeInvalidUserID})
		return
	}

	rooms, err := h.rooms.ListForUser(userID)
	if err != nil {
		respondError(c, err, apperrors.CodeListFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "rooms": rooms})
}

// InviteToRoom adds a user (by id or username) to a room and notifies
// the room. If the invitee is connected, their connections are joined to
// the room's broadcast group immediately.
func (h *RoomHandler) InviteToRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": apperrors.CodeRoomNotFound})
		return
	}

	var req struct {
		UserID   string `json:"user_id"`
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": apperrors.CodeUserRequired})
		return
	}

	user, err := h.rooms.Invite(roomID, req.UserID, req.Username)
	if err != nil {
		respondError(c, err, apperrors.CodeInviteFailed)
		return
	}

	view := dto.UserView{ID: user.ID, Username: user.Username}
	if payload, err := ws.EncodeFrame(ws.EventUserJoinedRoom, roomEvent{RoomID: roomID, User: view}); err == nil {
		h.hub.SendToRoom(roomID, payload)
	}
	h.hub.JoinRoomForUser(user.ID, roomID)

	c.JSON(http.StatusOK, gin.H{"ok": true, "invited": view})
}

func respondError(c *gin.Context, err error, fallback string) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{
		"ok":    false,
		"error": apperrors.CodeOf(err, fallback),
	})
}
