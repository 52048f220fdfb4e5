package websocket

import "encoding/json"

// EventType names a protocol event on the wire.
type EventType string

const (
	// Client requests, each acknowledged.
	EventRegisterUser EventType = "register_user"
	EventJoinRoom     EventType = "join_room"
	EventSwitchRoom   EventType = "switch_room"
	EventLeaveRoom    EventType = "leave_room"
	EventSendMessage  EventType = "send_message"

	// Acknowledgement reply to a request, correlated by id.
	EventAck EventType = "ack"

	// Server pushes, never acknowledged.
	EventChatHistory    EventType = "chat_history"
	EventReceiveMessage EventType = "receive_message"
	EventUserJoinedRoom EventType = "user_joined_room"
	EventUserLeftRoom   EventType = "user_left_room"
)

// Frame is the wire envelope. Requests carry a client-chosen id that the
// matching ack echoes back; pushes have no id.
type Frame struct {
	Type EventType       `json:"type"`
	ID   *int64          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EncodeFrame marshals a push frame for room-wide delivery.
func EncodeFrame(event EventType, data interface{}) ([]byte, error) {
	frame := Frame{Type: event}
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		frame.Data = payload
	}
	return json.Marshal(frame)
}

// FrameHandler receives every inbound frame of a connection. Handlers
// report failures to the client through the ack contract, so a frame
// never tears the connection down.
type FrameHandler interface {
	HandleFrame(client *Client, frame *Frame)
}
