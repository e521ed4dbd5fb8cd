// Package service holds the record service: CRUD orchestration over a
// store.UserStore with a find-or-fail policy for every operation that
// addresses an existing user.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/afoley587/coding-challenges-2025/user-records/internal/store"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/user"
)

// UserService is the caller-facing contract implemented by *Service.
// Transports depend on it so they can be tested with fakes.
type UserService interface {
	GetAllUsers(ctx context.Context) ([]*user.User, error)
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
	CreateUser(ctx context.Context, u *user.User) (*user.User, error)
	UpdateUser(ctx context.Context, id int64, details *user.User) (*user.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

var _ UserService = (*Service)(nil)

// Service is stateless; every call goes to the store.  Errors returned
// by the store are passed through untouched.
type Service struct {
	store store.UserStore
	log   zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for not-found diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New returns a Service backed by st.
func New(st store.UserStore, opts ...Option) *Service {
	s := &Service{store: st, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GetAllUsers returns every user in store order.
func (s *Service) GetAllUsers(ctx context.Context) ([]*user.User, error) {
	users, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*user.User{}
	}
	return users, nil
}

// GetUserByID returns the user with the given id or a
// *user.NotFoundError.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	return s.find(ctx, id)
}

// CreateUser saves u without any existence check.
func (s *Service) CreateUser(ctx context.Context, u *user.User) (*user.User, error) {
	return s.store.Save(ctx, u)
}

// UpdateUser copies the name and email of details onto the stored user
// and saves that same value.  The stored ID is kept.
func (s *Service) UpdateUser(ctx context.Context, id int64, details *user.User) (*user.User, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Apply(details)
	return s.store.Save(ctx, existing)
}

// DeleteUser removes the user with the given id.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	existing, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, existing)
}

func (s *Service) find(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.log.Debug().Int64("user_id", id).Msg("user not found")
		return nil, user.NotFound(id)
	}
	return u, nil
}
