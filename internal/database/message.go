package database

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/thereayou/parley/internal/models"
	"gorm.io/gorm"
)

func (d *Database) SaveMessage(message *models.Message) error {
	return errors.Wrap(d.db.Create(message).Error, "database.SaveMessage")
}

func (d *Database) GetMessage(id uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := d.db.Preload("Sender").First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "database.GetMessage")
	}
	return &message, nil
}

// GetRecentMessages returns the newest `limit` messages of a room,
// oldest first, each with its sender populated.
func (d *Database) GetRecentMessages(roomID uuid.UUID, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Preload("Sender").
		Find(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, "database.GetRecentMessages")
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// LastMessage returns the most recent message of a room, or nil when the
// room has none.
func (d *Database) LastMessage(roomID uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := d.db.
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Preload("Sender").
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "database.LastMessage")
	}
	return &message, nil
}
