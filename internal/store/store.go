package store

import (
	"context"

	"github.com/afoley587/coding-challenges-2025/user-records/internal/user"
)

// UserStore defines an interface for persisting and retrieving users.
//
// Implementations may use different backends (in-memory for tests,
// Redis or PostgreSQL for production).  The record service depends on
// this abstraction rather than a concrete data store so that alternate
// implementations, including test doubles, can be substituted freely.
//
// All methods accept a context for cancellation and deadlines.
type UserStore interface {
	// FindByID returns the user identified by id, or nil if it does not
	// exist.  Absence is not an error: a nil error is returned when the
	// user isn't found.
	FindByID(ctx context.Context, id int64) (*user.User, error)
	// FindAll returns every stored user ordered by identifier.  An empty
	// store yields an empty slice.
	FindAll(ctx context.Context) ([]*user.User, error)
	// Save persists u.  A user without an ID is inserted and receives a
	// freshly assigned one; a user with an ID replaces the stored row
	// with that ID.  Saving an ID the store does not hold fails with a
	// *user.NotFoundError.  The returned pointer is u itself.
	Save(ctx context.Context, u *user.User) (*user.User, error)
	// Delete removes u from the store.  Deleting a user that is already
	// gone is not an error.
	Delete(ctx context.Context, u *user.User) error
}
