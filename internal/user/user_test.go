package user_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afoley587/coding-challenges-2025/user-records/internal/user"
)

func TestApplyKeepsIdentifier(t *testing.T) {
	u := &user.User{ID: 7, Name: "Alice", Email: "alice@example.com"}
	u.Apply(&user.User{ID: 99, Name: "Alice Smith", Email: "alice.smith@example.com"})

	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "Alice Smith", u.Name)
	assert.Equal(t, "alice.smith@example.com", u.Email)
}

func TestIsNew(t *testing.T) {
	assert.True(t, (&user.User{Name: "Bob"}).IsNew())
	assert.False(t, (&user.User{ID: 1}).IsNew())
}

func TestCloneDoesNotAlias(t *testing.T) {
	u := &user.User{ID: 1, Name: "Alice"}
	c := u.Clone()
	c.Name = "changed"
	assert.Equal(t, "Alice", u.Name)
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("lookup: %w", user.NotFound(99))

	assert.True(t, user.IsNotFound(err))
	assert.True(t, errors.Is(err, user.ErrNotFound))
	assert.EqualError(t, err, "lookup: user 99 not found")

	var nf *user.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, int64(99), nf.ID)

	assert.False(t, user.IsNotFound(errors.New("boom")))
}
