package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afoley587/coding-challenges-2025/user-records/internal/store"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/user"
)

// backends returns every UserStore implementation that can run in the
// current environment.  PostgreSQL is only exercised when
// RECORDS_TEST_POSTGRES_DSN points at a disposable database.
func backends(t *testing.T) map[string]func(t *testing.T) store.UserStore {
	t.Helper()
	b := map[string]func(t *testing.T) store.UserStore{
		"memory": func(t *testing.T) store.UserStore {
			return store.NewInMemoryStore()
		},
		"redis": func(t *testing.T) store.UserStore {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			s := store.NewRedisStoreWithClient(client)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
	if dsn := os.Getenv("RECORDS_TEST_POSTGRES_DSN"); dsn != "" {
		b["postgres"] = func(t *testing.T) store.UserStore {
			require.NoError(t, store.Migrate(dsn))
			s, err := store.NewPostgresStore(context.Background(), dsn)
			require.NoError(t, err)
			users, err := s.FindAll(context.Background())
			require.NoError(t, err)
			for _, u := range users {
				require.NoError(t, s.Delete(context.Background(), u))
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		}
	}
	return b
}

// TestUserStoreCRUD exercises Save/FindByID/FindAll/Delete against every
// backend.  It ensures IDs are assigned on insert, updates keep the ID,
// and nonexistent lookups return nil without error.
func TestUserStoreCRUD(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			all, err := s.FindAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)

			alice := &user.User{Name: "Alice", Email: "alice@example.com"}
			saved, err := s.Save(ctx, alice)
			require.NoError(t, err)
			assert.Same(t, alice, saved)
			assert.False(t, saved.IsNew(), "ID should be assigned on insert")

			got, err := s.FindByID(ctx, saved.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "Alice", got.Name)
			assert.Equal(t, "alice@example.com", got.Email)

			got.Email = "alice11@example.com"
			_, err = s.Save(ctx, got)
			require.NoError(t, err)
			reread, err := s.FindByID(ctx, saved.ID)
			require.NoError(t, err)
			assert.Equal(t, "alice11@example.com", reread.Email)
			assert.Equal(t, saved.ID, reread.ID)

			none, err := s.FindByID(ctx, saved.ID+1000)
			require.NoError(t, err)
			assert.Nil(t, none)

			require.NoError(t, s.Delete(ctx, reread))
			gone, err := s.FindByID(ctx, saved.ID)
			require.NoError(t, err)
			assert.Nil(t, gone)

			require.NoError(t, s.Delete(ctx, reread), "deleting twice is not an error")
		})
	}
}

func TestUserStoreAssignsDistinctIDs(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			a, err := s.Save(ctx, &user.User{Name: "Bob", Email: "bob@example.com"})
			require.NoError(t, err)
			b, err := s.Save(ctx, &user.User{Name: "Bob", Email: "bob@example.com"})
			require.NoError(t, err)
			assert.NotEqual(t, a.ID, b.ID)

			all, err := s.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, a.ID, all[0].ID)
			assert.Equal(t, b.ID, all[1].ID)
		})
	}
}

func TestUserStoreSaveUnknownID(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			_, err := s.Save(context.Background(), &user.User{ID: 4242, Name: "Ghost", Email: "ghost@example.com"})
			require.Error(t, err)
			assert.True(t, user.IsNotFound(err))

			all, err := s.FindAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all, "an update must not insert a row")
		})
	}
}

func TestInMemoryStoreDoesNotAlias(t *testing.T) {
	s := store.NewInMemoryStore()
	ctx := context.Background()

	u, err := s.Save(ctx, &user.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	u.Name = "mutated without save"

	got, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
}

func TestInMemoryStoreHonoursCancelledContext(t *testing.T) {
	s := store.NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FindAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisStoreReportsConnectionErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := store.NewRedisStoreWithClient(client)
	t.Cleanup(func() { _ = s.Close() })
	mr.SetError("READONLY broken")

	_, err := s.FindAll(context.Background())
	require.Error(t, err)
	assert.False(t, user.IsNotFound(err))
}

func TestNewRedisStorePingFailure(t *testing.T) {
	_, err := store.NewRedisStore("127.0.0.1:1", "", nil)
	assert.Error(t, err)
}
