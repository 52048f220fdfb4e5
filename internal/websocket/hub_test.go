package websocket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveFrame(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.Send:
		return payload
	default:
		t.Fatal("expected a frame on the send channel")
		return nil
	}
}

func TestHub_JoinAndLeaveRoom(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil)
	roomID := uuid.New()

	hub.JoinRoom(client, roomID)
	assert.True(t, client.IsInRoom(roomID))

	hub.SendToRoom(roomID, []byte("hello"))
	assert.Equal(t, []byte("hello"), receiveFrame(t, client))

	hub.LeaveRoom(client, roomID)
	assert.False(t, client.IsInRoom(roomID))

	hub.SendToRoom(roomID, []byte("again"))
	assert.Empty(t, client.Send)
}

func TestHub_SendToRoomExcept(t *testing.T) {
	hub := NewHub()
	sender := NewClient(hub, nil)
	receiver := NewClient(hub, nil)
	roomID := uuid.New()

	hub.JoinRoom(sender, roomID)
	hub.JoinRoom(receiver, roomID)

	hub.SendToRoomExcept(roomID, []byte("payload"), sender.ID)

	assert.Empty(t, sender.Send)
	assert.Equal(t, []byte("payload"), receiveFrame(t, receiver))
}

func TestHub_JoinRoomForUser(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	first := NewClient(hub, nil)
	second := NewClient(hub, nil)
	hub.BindUser(first, userID)
	hub.BindUser(second, userID)

	roomID := uuid.New()
	hub.JoinRoomForUser(userID, roomID)

	assert.True(t, first.IsInRoom(roomID))
	assert.True(t, second.IsInRoom(roomID))

	users := hub.RoomUsers(roomID)
	require.Len(t, users, 1)
	assert.Equal(t, userID, users[0])
}

func TestHub_JoinRoomForUnknownUser(t *testing.T) {
	hub := NewHub()
	hub.JoinRoomForUser(uuid.New(), uuid.New())
	// Nothing to assert beyond not panicking on an absent user.
}

func TestClient_PushAndAck(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil)

	require.NoError(t, client.Push(EventReceiveMessage, map[string]string{"k": "v"}))
	payload := receiveFrame(t, client)
	assert.Contains(t, string(payload), `"receive_message"`)

	id := int64(7)
	require.NoError(t, client.Ack(&id, map[string]bool{"ok": true}))
	payload = receiveFrame(t, client)
	assert.Contains(t, string(payload), `"id":7`)

	// A request without an id gets no ack frame at all.
	require.NoError(t, client.Ack(nil, map[string]bool{"ok": true}))
	assert.Empty(t, client.Send)
}
