package store

import (
	"context"
	"sort"
	"sync"

	"github.com/afoley587/coding-challenges-2025/user-records/internal/user"
)

// InMemoryStore is an implementation of UserStore backed by a simple
// in-memory map.  It is safe for concurrent use and intended primarily
// for unit tests and development.  Data stored in this store is not
// persisted beyond the lifetime of the process.
//
// Users are copied on the way in and on the way out, so callers never
// share memory with the map.
type InMemoryStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*user.User
}

// NewInMemoryStore constructs an empty in-memory store.  IDs are
// assigned sequentially starting from 1.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		nextID: 1,
		users:  make(map[int64]*user.User),
	}
}

// FindByID retrieves a user by id.  It returns (nil, nil) if the user
// does not exist.
func (s *InMemoryStore) FindByID(ctx context.Context, id int64) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u.Clone(), nil
	}
	return nil, nil
}

// FindAll returns copies of all stored users ordered by ID.
func (s *InMemoryStore) FindAll(ctx context.Context) ([]*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Save inserts or replaces u.  New users get the next sequential ID,
// which is written back into u.
func (s *InMemoryStore) Save(ctx context.Context, u *user.User) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.IsNew() {
		u.ID = s.nextID
		s.nextID++
	} else if _, ok := s.users[u.ID]; !ok {
		return nil, user.NotFound(u.ID)
	}
	s.users[u.ID] = u.Clone()
	return u, nil
}

// Delete removes u if present.
func (s *InMemoryStore) Delete(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, u.ID)
	return nil
}
