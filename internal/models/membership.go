package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership is the user_rooms join row. The composite primary key makes
// a duplicate join impossible at the schema level; inserts go through
// find-or-create so a repeat join is a no-op, not an error.
type Membership struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	JoinedAt time.Time
}

func (Membership) TableName() string {
	return "user_rooms"
}
