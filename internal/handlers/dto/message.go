package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/parley/internal/models"
)

type UserView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// UserAccount is the registration acknowledgement payload.
type UserAccount struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	IsOnline  bool      `json:"is_online"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserAccount(u *models.User) UserAccount {
	return UserAccount{
		ID:        u.ID,
		Username:  u.Username,
		IsOnline:  u.IsOnline,
		CreatedAt: u.CreatedAt,
	}
}

// MessageView is a message as delivered to clients: sender is null for
// system messages, kind is the system event kind when present.
type MessageView struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Sender    *UserView `json:"sender"`
	Kind      string    `json:"kind,omitempty"`
}

func NewMessageView(m *models.Message) MessageView {
	view := MessageView{
		ID:        m.ID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if m.Sender != nil {
		view.Sender = &UserView{ID: m.Sender.ID, Username: m.Sender.Username}
	}
	if m.Meta != nil {
		view.Kind = m.Meta.Kind
	}
	return view
}
