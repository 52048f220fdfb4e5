package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MessageTypeText   = "text"
	MessageTypeSystem = "system"
)

// System message kinds stored in Meta.
const (
	KindInviteJoin = "invite_join"
	KindLeave      = "leave"
)

type Message struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey"`
	RoomID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	SenderID  *uuid.UUID   `gorm:"type:uuid"` // nil for system messages
	Content   string       `gorm:"not null"`
	Type      string       `gorm:"not null;default:'text'"`
	Meta      *MessageMeta `gorm:"type:jsonb"`
	CreatedAt time.Time    `gorm:"index"`

	Sender *User `gorm:"foreignKey:SenderID"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// UserRef is the actor snapshot embedded in system message metadata.
type UserRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// MessageMeta is structured metadata for system messages, stored as a
// JSON column.
type MessageMeta struct {
	Kind string   `json:"kind"`
	User *UserRef `json:"user,omitempty"`
}

func (m MessageMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MessageMeta) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported meta column type %T", value)
	}
}
