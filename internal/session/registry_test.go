package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistry_Lifecycle(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()
	connID := uuid.New()
	userID := uuid.New()

	_, ok, err := registry.Lookup(ctx, connID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, registry.Bind(ctx, connID, userID))

	found, ok, err := registry.Lookup(ctx, connID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, userID, found)

	require.NoError(t, registry.Unbind(ctx, connID))

	_, ok, err = registry.Lookup(ctx, connID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRegistry_RebindReplaces(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()
	connID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	require.NoError(t, registry.Bind(ctx, connID, first))
	require.NoError(t, registry.Bind(ctx, connID, second))

	found, ok, err := registry.Lookup(ctx, connID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, second, found)
}
