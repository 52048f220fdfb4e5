// Package session maps live connection ids to authenticated user ids.
// An entry exists only between a successful register on a connection and
// that connection closing; nothing here survives a process restart.
package session

import (
	"context"

	"github.com/google/uuid"
)

// Registry is the session table. The in-memory implementation is the
// default; a single gateway instance per process owns it. Running
// multiple server processes requires the Redis-backed implementation so
// all gateways see the same table.
type Registry interface {
	Bind(ctx context.Context, connID, userID uuid.UUID) error
	Lookup(ctx context.Context, connID uuid.UUID) (uuid.UUID, bool, error)
	Unbind(ctx context.Context, connID uuid.UUID) error
}
