package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/thereayou/parley/pkg/errors"
)

func TestResolveOrRegister_NewUser(t *testing.T) {
	env := setupServices(t)

	user, err := env.identity.ResolveOrRegister("", "alice")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestResolveOrRegister_TrimsUsername(t *testing.T) {
	env := setupServices(t)

	user, err := env.identity.ResolveOrRegister("", "  alice  ")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestResolveOrRegister_ClaimedIDIsStable(t *testing.T) {
	env := setupServices(t)
	created := registerUser(t, env, "alice")

	// Registering again with the saved id must return that exact user
	// and never create a duplicate.
	resolved, err := env.identity.ResolveOrRegister(created.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)
	assert.Equal(t, "alice", resolved.Username)
}

func TestResolveOrRegister_UnknownClaimedID(t *testing.T) {
	env := setupServices(t)

	_, err := env.identity.ResolveOrRegister(uuid.NewString(), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidUserID, errorCode(err))

	_, err = env.identity.ResolveOrRegister("not-a-uuid", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidUserID, errorCode(err))
}

func TestResolveOrRegister_UsernameTooShort(t *testing.T) {
	env := setupServices(t)

	_, err := env.identity.ResolveOrRegister("", "  ab ")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUsernameRequired, errorCode(err))
}

func TestResolveOrRegister_UsernameTaken(t *testing.T) {
	env := setupServices(t)
	registerUser(t, env, "alice")

	_, err := env.identity.ResolveOrRegister("", "alice")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUsernameTaken, errorCode(err))
}

func TestSetOnline(t *testing.T) {
	env := setupServices(t)
	user := registerUser(t, env, "alice")

	env.identity.SetOnline(user.ID, true)

	loaded, err := env.db.GetUser(user.ID.String())
	require.NoError(t, err)
	assert.True(t, loaded.IsOnline)

	env.identity.SetOnline(user.ID, false)
	loaded, err = env.db.GetUser(user.ID.String())
	require.NoError(t, err)
	assert.False(t, loaded.IsOnline)
}
