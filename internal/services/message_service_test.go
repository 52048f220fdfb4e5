package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/parley/internal/models"
	apperrors "github.com/thereayou/parley/pkg/errors"
)

func TestPost_RejectsEmptyContent(t *testing.T) {
	env := setupServices(t)
	alice := registerUser(t, env, "alice")
	room, err := env.rooms.CreateGroup("Team", &alice.ID)
	require.NoError(t, err)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := env.messages.Post(room.ID, &alice.ID, content)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeBadRequest, errorCode(err))
	}

	history, err := env.messages.RecentHistory(room.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPost_PopulatesSenderAndBumpsRoom(t *testing.T) {
	env := setupServices(t)
	alice := registerUser(t, env, "alice")
	room, err := env.rooms.CreateGroup("Team", &alice.ID)
	require.NoError(t, err)
	before, err := env.db.GetRoom(room.ID.String())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	message, err := env.messages.Post(room.ID, &alice.ID, "  hi  ")
	require.NoError(t, err)
	assert.Equal(t, "hi", message.Content)
	assert.Equal(t, models.MessageTypeText, message.Type)
	require.NotNil(t, message.Sender)
	assert.Equal(t, "alice", message.Sender.Username)

	after, err := env.db.GetRoom(room.ID.String())
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestSystemMessage_HasNoSender(t *testing.T) {
	env := setupServices(t)
	bob := registerUser(t, env, "bob")
	room, err := env.rooms.CreateGroup("Team", &bob.ID)
	require.NoError(t, err)

	message, err := env.messages.SystemMessage(room.ID, models.KindLeave, bob)
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeSystem, message.Type)
	assert.Equal(t, "bob left", message.Content)
	assert.Nil(t, message.SenderID)
	require.NotNil(t, message.Meta)
	assert.Equal(t, models.KindLeave, message.Meta.Kind)
	require.NotNil(t, message.Meta.User)
	assert.Equal(t, bob.ID, message.Meta.User.ID)
}

func TestRecentHistory_OrderedAndCapped(t *testing.T) {
	env := setupServices(t)
	alice := registerUser(t, env, "alice")
	room, err := env.rooms.CreateGroup("Team", &alice.ID)
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		_, err := env.messages.Post(room.ID, &alice.ID, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	history, err := env.messages.RecentHistory(room.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, DefaultHistoryLimit)

	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].CreatedAt.Before(history[i-1].CreatedAt))
	}
	assert.Equal(t, "message 59", history[len(history)-1].Content)
}
