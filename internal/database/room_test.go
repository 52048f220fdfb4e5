package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMembership_Idempotent(t *testing.T) {
	d := setupTestDB(t)
	user := createTestUser(t, d, "alice")
	room := createTestRoom(t, d, "Team", true)

	require.NoError(t, d.AddMembership(user.ID, room.ID))
	require.NoError(t, d.AddMembership(user.ID, room.ID))

	count, err := d.CountMembers(room.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRemoveUserFromRoom_DeletesEmptyGroupRoom(t *testing.T) {
	d := setupTestDB(t)
	user := createTestUser(t, d, "alice")
	room := createTestRoom(t, d, "Team", true)
	require.NoError(t, d.AddMembership(user.ID, room.ID))

	result, err := d.RemoveUserFromRoom(user.ID, room.ID, RemoveOptions{
		DestroyEmptyRooms: true,
		GroupsOnly:        true,
	})
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.True(t, result.RoomDeleted)
	assert.Equal(t, int64(0), result.Remaining)

	_, err = d.GetRoom(room.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveUserFromRoom_SecondRemovalIsHarmless(t *testing.T) {
	d := setupTestDB(t)
	user := createTestUser(t, d, "alice")
	room := createTestRoom(t, d, "Team", true)
	require.NoError(t, d.AddMembership(user.ID, room.ID))

	opts := RemoveOptions{DestroyEmptyRooms: true, GroupsOnly: true}

	first, err := d.RemoveUserFromRoom(user.ID, room.ID, opts)
	require.NoError(t, err)
	assert.True(t, first.RoomDeleted)

	// The member is gone and so is the room; a repeat attempt must not
	// error or re-delete anything.
	second, err := d.RemoveUserFromRoom(user.ID, room.ID, opts)
	require.NoError(t, err)
	assert.False(t, second.RoomDeleted)
	assert.Equal(t, int64(0), second.Remaining)
}

func TestRemoveUserFromRoom_KeepsDirectRoom(t *testing.T) {
	d := setupTestDB(t)
	user := createTestUser(t, d, "alice")
	room := createTestRoom(t, d, "dm:a:b", false)
	require.NoError(t, d.AddMembership(user.ID, room.ID))

	result, err := d.RemoveUserFromRoom(user.ID, room.ID, RemoveOptions{
		DestroyEmptyRooms: true,
		GroupsOnly:        true,
	})
	require.NoError(t, err)
	assert.False(t, result.RoomDeleted)
	assert.Equal(t, int64(0), result.Remaining)

	_, err = d.GetRoom(room.ID.String())
	assert.NoError(t, err)
}

func TestRemoveUserFromRoom_ReportsRemaining(t *testing.T) {
	d := setupTestDB(t)
	alice := createTestUser(t, d, "alice")
	bob := createTestUser(t, d, "bob")
	room := createTestRoom(t, d, "Team", true)
	require.NoError(t, d.AddMembership(alice.ID, room.ID))
	require.NoError(t, d.AddMembership(bob.ID, room.ID))

	result, err := d.RemoveUserFromRoom(bob.ID, room.ID, RemoveOptions{
		DestroyEmptyRooms: true,
		GroupsOnly:        true,
	})
	require.NoError(t, err)
	assert.False(t, result.RoomDeleted)
	assert.Equal(t, int64(1), result.Remaining)
}

func TestRemoveUserFromRoom_NoDestroyKeepsEmptyRoom(t *testing.T) {
	d := setupTestDB(t)
	user := createTestUser(t, d, "alice")
	room := createTestRoom(t, d, "Team", true)
	require.NoError(t, d.AddMembership(user.ID, room.ID))

	result, err := d.RemoveUserFromRoom(user.ID, room.ID, RemoveOptions{
		DestroyEmptyRooms: false,
	})
	require.NoError(t, err)
	assert.False(t, result.RoomDeleted)

	_, err = d.GetRoom(room.ID.String())
	assert.NoError(t, err)
}

func TestGetUserRooms_MostRecentFirst(t *testing.T) {
	d := setupTestDB(t)
	user := createTestUser(t, d, "alice")
	older := createTestRoom(t, d, "Older", true)
	newer := createTestRoom(t, d, "Newer", true)
	require.NoError(t, d.AddMembership(user.ID, older.ID))
	require.NoError(t, d.AddMembership(user.ID, newer.ID))

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, d.TouchRoom(older.ID))

	rooms, err := d.GetUserRooms(user.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, older.ID, rooms[0].ID)
	assert.Equal(t, newer.ID, rooms[1].ID)
}
