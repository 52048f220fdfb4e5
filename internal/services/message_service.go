package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/thereayou/parley/internal/database"
	"github.com/thereayou/parley/internal/models"
	apperrors "github.com/thereayou/parley/pkg/errors"
)

// DefaultHistoryLimit caps history replay on join.
const DefaultHistoryLimit = 50

type MessageService struct {
	db *database.Database
}

func NewMessageService(db *database.Database) *MessageService {
	return &MessageService{db: db}
}

// Post persists a text message and returns it with the sender populated.
// Room activity is bumped so the room sorts to the top of listings.
func (s *MessageService) Post(roomID uuid.UUID, senderID *uuid.UUID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation(apperrors.CodeBadRequest, "message content is required")
	}

	message := &models.Message{
		RoomID:   roomID,
		SenderID: senderID,
		Content:  content,
		Type:     models.MessageTypeText,
	}
	if err := s.db.SaveMessage(message); err != nil {
		return nil, err
	}

	populated, err := s.db.GetMessage(message.ID)
	if err != nil {
		return nil, err
	}

	if err := s.db.TouchRoom(roomID); err != nil {
		return nil, err
	}
	return populated, nil
}

// SystemMessage persists a server-synthesized membership event message:
// no sender, metadata records the kind and the acting user.
func (s *MessageService) SystemMessage(roomID uuid.UUID, kind string, actor *models.User) (*models.Message, error) {
	verb := kind
	switch kind {
	case models.KindInviteJoin:
		verb = "joined"
	case models.KindLeave:
		verb = "left"
	}

	message := &models.Message{
		RoomID:  roomID,
		Content: fmt.Sprintf("%s %s", actor.Username, verb),
		Type:    models.MessageTypeSystem,
		Meta: &models.MessageMeta{
			Kind: kind,
			User: &models.UserRef{ID: actor.ID, Username: actor.Username},
		},
	}
	if err := s.db.SaveMessage(message); err != nil {
		return nil, err
	}
	return message, nil
}

// RecentHistory returns the newest messages of a room, oldest first.
func (s *MessageService) RecentHistory(roomID uuid.UUID, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.db.GetRecentMessages(roomID, limit)
}
