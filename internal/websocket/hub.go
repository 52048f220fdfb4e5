package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub owns every live connection and the per-room broadcast groups.
// A connection starts unbound; BindUser attaches the user identity once
// registration succeeds.
type Hub struct {
	clients map[uuid.UUID]*Client

	// One user may hold several connections at once.
	userClients map[uuid.UUID]map[uuid.UUID]*Client

	// Broadcast groups: connections currently subscribed to a room.
	rooms map[uuid.UUID]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	// Called after a connection is torn down, outside the hub lock.
	onDisconnect func(*Client)

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[uuid.UUID]map[uuid.UUID]*Client),
		rooms:       make(map[uuid.UUID]map[uuid.UUID]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// HandleDisconnect sets the disconnect callback. Must be called before
// Run.
func (h *Hub) HandleDisconnect(fn func(*Client)) {
	h.onDisconnect = fn
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	log.Printf("Connection opened: %s", client.ID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()

	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}

	for roomID := range client.subscriptions() {
		h.removeFromRoomLocked(client, roomID)
	}

	if userID := client.User(); userID != uuid.Nil {
		if clients, ok := h.userClients[userID]; ok {
			delete(clients, client.ID)
			if len(clients) == 0 {
				delete(h.userClients, userID)
			}
		}
	}

	delete(h.clients, client.ID)
	close(client.Send)
	h.mu.Unlock()

	log.Printf("Connection closed: %s (user: %s)", client.ID, client.User())

	if h.onDisconnect != nil {
		h.onDisconnect(client)
	}
}

// BindUser attaches a registered identity to the connection so later
// user-scoped operations (invite force-join) can find it.
func (h *Hub) BindUser(client *Client, userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.setUser(userID)
	if _, ok := h.userClients[userID]; !ok {
		h.userClients[userID] = make(map[uuid.UUID]*Client)
	}
	h.userClients[userID][client.ID] = client
}

// JoinRoom subscribes the connection to a room's broadcast group.
func (h *Hub) JoinRoom(client *Client, roomID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[uuid.UUID]*Client)
	}
	h.rooms[roomID][client.ID] = client
	client.addRoom(roomID)
}

// LeaveRoom unsubscribes the connection from a room's broadcast group.
// Membership is untouched; that is the caller's concern.
func (h *Hub) LeaveRoom(client *Client, roomID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoomLocked(client, roomID)
}

// JoinRoomForUser subscribes every live connection of a user to a room,
// used to force-join an invited user who is currently connected.
func (h *Hub) JoinRoomForUser(userID, roomID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.userClients[userID]
	if !ok {
		return
	}

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[uuid.UUID]*Client)
	}
	for _, client := range clients {
		h.rooms[roomID][client.ID] = client
		client.addRoom(roomID)
	}
}

func (h *Hub) removeFromRoomLocked(client *Client, roomID uuid.UUID) {
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(room, client.ID)
	client.removeRoom(roomID)
	if len(room) == 0 {
		delete(h.rooms, roomID)
	}
}

// SendToRoom delivers a payload to every connection subscribed to the
// room, the sender included.
func (h *Hub) SendToRoom(roomID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.sendToRoomLocked(roomID, payload, uuid.Nil)
}

// SendToRoomExcept delivers to every subscriber but the given connection.
func (h *Hub) SendToRoomExcept(roomID uuid.UUID, payload []byte, exclude uuid.UUID) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.sendToRoomLocked(roomID, payload, exclude)
}

func (h *Hub) sendToRoomLocked(roomID uuid.UUID, payload []byte, exclude uuid.UUID) {
	for _, client := range h.rooms[roomID] {
		if client.ID == exclude {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			log.Printf("Client %s send channel full, dropping frame", client.ID)
		}
	}
}

// RoomUsers returns the distinct users currently subscribed to a room.
func (h *Hub) RoomUsers(roomID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	for _, client := range h.rooms[roomID] {
		if userID := client.User(); userID != uuid.Nil {
			seen[userID] = true
		}
	}

	users := make([]uuid.UUID, 0, len(seen))
	for userID := range seen {
		users = append(users, userID)
	}
	return users
}
