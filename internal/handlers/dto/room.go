package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/parley/internal/models"
)

type RoomView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsGroup   bool      `json:"is_group"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewRoomView(r *models.Room) RoomView {
	return RoomView{
		ID:        r.ID,
		Name:      r.Name,
		IsGroup:   r.IsGroup,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// RoomSummary enriches a room listing entry with its member count and
// most recent message. Either field is null when enrichment failed for
// that room; the listing itself still succeeds.
type RoomSummary struct {
	RoomView
	Members     *int64       `json:"members"`
	LastMessage *MessageView `json:"last_message"`
}
