package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/thereayou/parley/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (d *Database) CreateRoom(room *models.Room) error {
	return errors.Wrap(d.db.Create(room).Error, "database.CreateRoom")
}

func (d *Database) GetRoom(id string) (*models.Room, error) {
	var room models.Room
	if err := d.db.First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "database.GetRoom")
	}
	return &room, nil
}

// FindDirectRoom looks a direct room up by its synthetic name. Returns
// ErrNotFound when no such room exists.
func (d *Database) FindDirectRoom(name string) (*models.Room, error) {
	var room models.Room
	err := d.db.Where("name = ? AND is_group = ?", name, false).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "database.FindDirectRoom")
	}
	return &room, nil
}

// GetUserRooms returns the rooms the user is a member of, most recently
// active first.
func (d *Database) GetUserRooms(userID uuid.UUID) ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.
		Joins("JOIN user_rooms ON user_rooms.room_id = rooms.id").
		Where("user_rooms.user_id = ?", userID).
		Order("rooms.updated_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, errors.Wrap(err, "database.GetUserRooms")
	}
	return rooms, nil
}

// TouchRoom bumps updated_at so the room sorts to the top of listings.
func (d *Database) TouchRoom(id uuid.UUID) error {
	err := d.db.Model(&models.Room{}).Where("id = ?", id).Update("updated_at", time.Now()).Error
	return errors.Wrap(err, "database.TouchRoom")
}

type RemoveOptions struct {
	// DestroyEmptyRooms deletes the room once its last member is gone.
	DestroyEmptyRooms bool
	// GroupsOnly limits deletion to group rooms; direct rooms survive empty.
	GroupsOnly bool
}

type RemovalResult struct {
	Removed     bool  `json:"removed"`
	Remaining   int64 `json:"remaining"`
	RoomDeleted bool  `json:"room_deleted"`
}

// RemoveUserFromRoom deletes the membership and, when requested, the
// now-empty room — all in one transaction. The remaining-member check
// runs under a row lock on the room's membership set so two concurrent
// leaves cannot both observe zero and double-delete the room.
func (d *Database) RemoveUserFromRoom(userID, roomID uuid.UUID, opts RemoveOptions) (*RemovalResult, error) {
	result := &RemovalResult{Removed: true}

	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND room_id = ?", userID, roomID).
			Delete(&models.Membership{}).Error; err != nil {
			return err
		}

		countRemaining := func(q *gorm.DB) (int64, error) {
			var n int64
			err := q.Model(&models.Membership{}).Where("room_id = ?", roomID).Count(&n).Error
			return n, err
		}

		if !opts.DestroyEmptyRooms {
			n, err := countRemaining(tx)
			if err != nil {
				return err
			}
			result.Remaining = n
			return nil
		}

		if opts.GroupsOnly {
			var room models.Room
			err := tx.Select("id", "is_group").First(&room, "id = ?", roomID).Error
			if err != nil || !room.IsGroup {
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				n, err := countRemaining(tx)
				if err != nil {
					return err
				}
				result.Remaining = n
				return nil
			}
		}

		locked := tx
		// SELECT ... FOR UPDATE only exists on postgres; sqlite (used in
		// tests) serializes writers anyway.
		if tx.Dialector.Name() == "postgres" {
			locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		n, err := countRemaining(locked)
		if err != nil {
			return err
		}

		if n == 0 {
			if err := tx.Delete(&models.Message{}, "room_id = ?", roomID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Room{}, "id = ?", roomID).Error; err != nil {
				return err
			}
			result.RoomDeleted = true
			return nil
		}

		result.Remaining = n
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "database.RemoveUserFromRoom")
	}
	return result, nil
}
