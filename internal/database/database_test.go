package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thereayou/parley/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite store for testing.
func setupTestDB(t *testing.T) *Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A pooled second connection would see its own empty :memory: database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	return NewDatabase(db)
}

func createTestUser(t *testing.T, d *Database, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	require.NoError(t, d.CreateUser(user))
	return user
}

func createTestRoom(t *testing.T, d *Database, name string, isGroup bool) *models.Room {
	t.Helper()
	room := &models.Room{Name: name, IsGroup: isGroup}
	require.NoError(t, d.CreateRoom(room))
	return room
}
