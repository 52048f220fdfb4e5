package database

import (
	"github.com/pkg/errors"
	"github.com/thereayou/parley/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = gorm.ErrRecordNotFound

func (d *Database) CreateUser(user *models.User) error {
	return errors.Wrap(d.db.Create(user).Error, "database.CreateUser")
}

func (d *Database) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "database.GetUser")
	}
	return &user, nil
}

func (d *Database) FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := d.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "database.FindUserByUsername")
	}
	return &user, nil
}

func (d *Database) SetOnline(id string, online bool) error {
	err := d.db.Model(&models.User{}).Where("id = ?", id).Update("is_online", online).Error
	return errors.Wrap(err, "database.SetOnline")
}
