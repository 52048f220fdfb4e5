package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/thereayou/parley/internal/models"
)

// AddMembership is a find-or-create on (user_id, room_id). Two
// near-simultaneous joins by the same user end up with exactly one row
// and neither caller sees an error.
func (d *Database) AddMembership(userID, roomID uuid.UUID) error {
	membership := models.Membership{UserID: userID, RoomID: roomID}
	err := d.db.
		Where(models.Membership{UserID: userID, RoomID: roomID}).
		Attrs(models.Membership{JoinedAt: time.Now()}).
		FirstOrCreate(&membership).Error
	return errors.Wrap(err, "database.AddMembership")
}

func (d *Database) CountMembers(roomID uuid.UUID) (int64, error) {
	var count int64
	err := d.db.Model(&models.Membership{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, errors.Wrap(err, "database.CountMembers")
}
