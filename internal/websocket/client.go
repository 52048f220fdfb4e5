package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameSize = 64 * 1024
)

// Client is one live connection. The user id stays uuid.Nil until the
// connection completes registration.
type Client struct {
	ID   uuid.UUID
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub

	mu     sync.RWMutex
	userID uuid.UUID
	rooms  map[uuid.UUID]bool
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:    uuid.New(),
		Conn:  conn,
		Send:  make(chan []byte, 256),
		Hub:   hub,
		rooms: make(map[uuid.UUID]bool),
	}
}

// ReadPump decodes inbound frames and hands them to the gateway until
// the connection drops.
func (c *Client) ReadPump(handler FrameHandler) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxFrameSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame Frame
		if err := c.Conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error on %s: %v", c.ID, err)
			}
			break
		}

		if handler != nil {
			handler.HandleFrame(c, &frame)
		}
	}
}

// WritePump flushes the send channel to the connection and keeps it
// alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Push sends an unacknowledged server event to this connection.
func (c *Client) Push(event EventType, data interface{}) error {
	return c.send(Frame{Type: event}, data)
}

// Ack replies to a request. A request without an id gets no ack.
func (c *Client) Ack(id *int64, data interface{}) error {
	if id == nil {
		return nil
	}
	return c.send(Frame{Type: EventAck, ID: id}, data)
}

func (c *Client) send(frame Frame, data interface{}) error {
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return err
		}
		frame.Data = payload
	}

	encoded, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	select {
	case c.Send <- encoded:
		return nil
	default:
		return ErrClientQueueFull
	}
}

// User returns the bound user id, or uuid.Nil before registration.
func (c *Client) User() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Client) setUser(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
}

func (c *Client) IsInRoom(roomID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rooms[roomID]
}

func (c *Client) addRoom(roomID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[roomID] = true
}

func (c *Client) removeRoom(roomID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, roomID)
}

func (c *Client) subscriptions() map[uuid.UUID]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rooms := make(map[uuid.UUID]bool, len(c.rooms))
	for roomID := range c.rooms {
		rooms[roomID] = true
	}
	return rooms
}
