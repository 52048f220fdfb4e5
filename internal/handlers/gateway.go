package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/thereayou/parley/internal/database"
	"github.com/thereayou/parley/internal/handlers/dto"
	"github.com/thereayou/parley/internal/models"
	"github.com/thereayou/parley/internal/services"
	"github.com/thereayou/parley/internal/session"
	ws "github.com/thereayou/parley/internal/websocket"
	apperrors "github.com/thereayou/parley/pkg/errors"
)

// Gateway is the realtime protocol state machine. A connection is
// unregistered until register_user succeeds; every other request on an
// unregistered connection is refused with not_registered. Failures
// always resolve the acknowledgement, never the connection.
type Gateway struct {
	db       *database.Database
	identity *services.IdentityService
	rooms    *services.RoomService
	messages *services.MessageService
	sessions session.Registry
	hub      *ws.Hub
}

func NewGateway(
	db *database.Database,
	identity *services.IdentityService,
	rooms *services.RoomService,
	messages *services.MessageService,
	sessions session.Registry,
	hub *ws.Hub,
) *Gateway {
	g := &Gateway{
		db:       db,
		identity: identity,
		rooms:    rooms,
		messages: messages,
		sessions: sessions,
		hub:      hub,
	}
	hub.HandleDisconnect(g.handleDisconnect)
	return g
}

type errAck struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type okAck struct {
	OK bool `json:"ok"`
}

type registerAck struct {
	OK   bool            `json:"ok"`
	User dto.UserAccount `json:"user"`
}

type messageAck struct {
	OK      bool            `json:"ok"`
	Message dto.MessageView `json:"message"`
}

type leaveAck struct {
	OK          bool  `json:"ok"`
	Removed     bool  `json:"removed"`
	Remaining   int64 `json:"remaining"`
	RoomDeleted bool  `json:"room_deleted"`
}

type roomEvent struct {
	RoomID uuid.UUID    `json:"room_id"`
	User   dto.UserView `json:"user"`
}

// HandleFrame dispatches one inbound frame. The switch is exhaustive
// over request events; anything else is logged and dropped.
func (g *Gateway) HandleFrame(client *ws.Client, frame *ws.Frame) {
	switch frame.Type {
	case ws.EventRegisterUser:
		g.handleRegister(client, frame)
	case ws.EventJoinRoom:
		g.handleJoinRoom(client, frame)
	case ws.EventSwitchRoom:
		g.handleSwitchRoom(client, frame)
	case ws.EventLeaveRoom:
		g.handleLeaveRoom(client, frame)
	case ws.EventSendMessage:
		g.handleSendMessage(client, frame)
	default:
		log.Printf("Unknown event %q from %s", frame.Type, client.ID)
	}
}

func (g *Gateway) handleRegister(client *ws.Client, frame *ws.Frame) {
	var payload struct {
		UserID   string `json:"user_id"`
		Username string `json:"username"`
	}
	if frame.Data != nil {
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			g.fail(client, frame.ID, err, apperrors.CodeBadRequest)
			return
		}
	}

	user, err := g.identity.ResolveOrRegister(payload.UserID, payload.Username)
	if err != nil {
		g.fail(client, frame.ID, err, apperrors.CodeRegisterFailed)
		return
	}

	ctx := context.Background()
	if err := g.sessions.Bind(ctx, client.ID, user.ID); err != nil {
		g.fail(client, frame.ID, err, apperrors.CodeRegisterFailed)
		return
	}
	g.hub.BindUser(client, user.ID)
	g.identity.SetOnline(user.ID, true)
	user.IsOnline = true

	// Re-subscribe to everything the user is already a member of, so a
	// returning client receives pushes without re-joining each room.
	if rooms, err := g.db.GetUserRooms(user.ID); err != nil {
		log.Printf("Failed to auto-join rooms for %s: %v", user.ID, err)
	} else {
		for i := range rooms {
			g.hub.JoinRoom(client, rooms[i].ID)
		}
	}

	client.Ack(frame.ID, registerAck{OK: true, User: dto.NewUserAccount(user)})
}

func (g *Gateway) handleJoinRoom(client *ws.Client, frame *ws.Frame) {
	roomID, ok := g.decodeRoomID(client, frame)
	if !ok {
		return
	}
	userID, ok := g.requireUser(client, frame.ID)
	if !ok {
		return
	}

	if _, err := g.db.GetRoom(roomID.String()); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			g.fail(client, frame.ID, apperrors.NotFound(apperrors.CodeRoomNotFound, "room not found"), apperrors.CodeJoinFailed)
		} else {
			g.fail(client, frame.ID, err, apperrors.CodeJoinFailed)
		}
		return
	}

	if err := g.rooms.AddMember(userID, roomID); err != nil {
		g.fail(client, frame.ID, err, apperrors.CodeJoinFailed)
		return
	}
	g.hub.JoinRoom(client, roomID)

	history, err := g.messages.RecentHistory(roomID, services.DefaultHistoryLimit)
	if err != nil {
		g.fail(client, frame.ID, err, apperrors.CodeJoinFailed)
		return
	}

	views := make([]dto.MessageView, len(history))
	for i := range history {
		views[i] = dto.NewMessageView(&history[i])
	}
	client.Push(ws.EventChatHistory, struct {
		RoomID  uuid.UUID         `json:"room_id"`
		History []dto.MessageView `json:"history"`
	}{RoomID: roomID, History: views})

	client.Ack(frame.ID, okAck{OK: true})
}

func (g *Gateway) handleSwitchRoom(client *ws.Client, frame *ws.Frame) {
	roomID, ok := g.decodeRoomID(client, frame)
	if !ok {
		return
	}
	if _, ok := g.requireUser(client, frame.ID); !ok {
		return
	}

	// Unsubscribe from the broadcast group only; membership is untouched.
	g.hub.LeaveRoom(client, roomID)
	client.Ack(frame.ID, okAck{OK: true})
}

func (g *Gateway) handleLeaveRoom(client *ws.Client, frame *ws.Frame) {
	roomID, ok := g.decodeRoomID(client, frame)
	if !ok {
		return
	}
	userID, ok := g.requireUser(client, frame.ID)
	if !ok {
		return
	}

	user, err := g.db.GetUser(userID.String())
	if err != nil {
		g.fail(client, frame.ID, err, apperrors.CodeLeaveRoomFailed)
		return
	}

	// The "left" system message goes in before the membership row is
	// removed, so a concurrent empty-room deletion cannot orphan it.
	if _, err := g.messages.SystemMessage(roomID, models.KindLeave, user); err != nil {
		g.fail(client, frame.ID, err, apperrors.CodeLeaveRoomFailed)
		return
	}

	result, err := g.rooms.RemoveMember(userID, roomID, database.RemoveOptions{
		DestroyEmptyRooms: true,
		GroupsOnly:        true,
	})
	if err != nil {
		g.fail(client, frame.ID, err, apperrors.CodeLeaveRoomFailed)
		return
	}

	g.hub.LeaveRoom(client, roomID)

	if !result.RoomDeleted {
		payload, err := ws.EncodeFrame(ws.EventUserLeftRoom, roomEvent{
			RoomID: roomID,
			User:   dto.UserView{ID: user.ID, Username: user.Username},
		})
		if err == nil {
			g.hub.SendToRoom(roomID, payload)
		}
	}

	client.Ack(frame.ID, leaveAck{
		OK:          true,
		Removed:     result.Removed,
		Remaining:   result.Remaining,
		RoomDeleted: result.RoomDeleted,
	})
}

func (g *Gateway) handleSendMessage(client *ws.Client, frame *ws.Frame) {
	var payload struct {
		RoomID  uuid.UUID `json:"room_id"`
		Content string    `json:"content"`
	}
	if frame.Data != nil {
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			g.fail(client, frame.ID, err, apperrors.CodeBadRequest)
			return
		}
	}

	userID, ok := g.requireUser(client, frame.ID)
	if !ok {
		return
	}

	if payload.RoomID == uuid.Nil || strings.TrimSpace(payload.Content) == "" {
		client.Ack(frame.ID, errAck{Error: apperrors.CodeBadRequest})
		return
	}

	message, err := g.messages.Post(payload.RoomID, &userID, payload.Content)
	if err != nil {
		g.fail(client, frame.ID, err, apperrors.CodeSendFailed)
		return
	}

	view := dto.NewMessageView(message)
	push, err := ws.EncodeFrame(ws.EventReceiveMessage, struct {
		RoomID  uuid.UUID       `json:"room_id"`
		Message dto.MessageView `json:"message"`
	}{RoomID: payload.RoomID, Message: view})
	if err == nil {
		g.hub.SendToRoom(payload.RoomID, push)
	}

	client.Ack(frame.ID, messageAck{OK: true, Message: view})
}

// handleDisconnect runs when a connection is torn down: drop the
// session binding and mark the user offline. There is no ack channel
// left to report to.
func (g *Gateway) handleDisconnect(client *ws.Client) {
	ctx := context.Background()

	userID, ok, err := g.sessions.Lookup(ctx, client.ID)
	if err != nil {
		log.Printf("Session lookup failed for %s: %v", client.ID, err)
		return
	}
	if err := g.sessions.Unbind(ctx, client.ID); err != nil {
		log.Printf("Session unbind failed for %s: %v", client.ID, err)
	}
	if ok {
		g.identity.SetOnline(userID, false)
	}
}

func (g *Gateway) decodeRoomID(client *ws.Client, frame *ws.Frame) (uuid.UUID, bool) {
	var payload struct {
		RoomID uuid.UUID `json:"room_id"`
	}
	if frame.Data != nil {
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			g.fail(client, frame.ID, err, apperrors.CodeBadRequest)
			return uuid.Nil, false
		}
	}
	if payload.RoomID == uuid.Nil {
		client.Ack(frame.ID, errAck{Error: apperrors.CodeBadRequest})
		return uuid.Nil, false
	}
	return payload.RoomID, true
}

func (g *Gateway) requireUser(client *ws.Client, id *int64) (uuid.UUID, bool) {
	userID, ok, err := g.sessions.Lookup(context.Background(), client.ID)
	if err != nil || !ok {
		if err != nil {
			log.Printf("Session lookup failed for %s: %v", client.ID, err)
		}
		client.Ack(id, errAck{Error: apperrors.CodeNotRegistered})
		return uuid.Nil, false
	}
	return userID, true
}

func (g *Gateway) fail(client *ws.Client, id *int64, err error, fallback string) {
	code := apperrors.CodeOf(err, fallback)
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperrors.KindInternal {
		log.Printf("%s failed on %s: %v", fallback, client.ID, err)
	}
	client.Ack(id, errAck{Error: code})
}
