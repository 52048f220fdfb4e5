package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thereayou/parley/internal/database"
	"github.com/thereayou/parley/internal/models"
	apperrors "github.com/thereayou/parley/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db       *database.Database
	identity *IdentityService
	rooms    *RoomService
	messages *MessageService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	store := database.NewDatabase(db)
	messages := NewMessageService(store)
	return &testEnv{
		db:       store,
		identity: NewIdentityService(store),
		rooms:    NewRoomService(store, messages),
		messages: messages,
	}
}

func registerUser(t *testing.T, env *testEnv, username string) *models.User {
	t.Helper()
	user, err := env.identity.ResolveOrRegister("", username)
	require.NoError(t, err)
	return user
}

func errorCode(err error) string {
	return apperrors.CodeOf(err, "")
}
