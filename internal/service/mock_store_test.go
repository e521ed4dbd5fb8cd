package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/afoley587/coding-challenges-2025/user-records/internal/user"
)

// mockStore is a testify mock implementing store.UserStore.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockStore) FindAll(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*user.User)
	return users, args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, u *user.User) (*user.User, error) {
	args := m.Called(ctx, u)
	saved, _ := args.Get(0).(*user.User)
	return saved, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}
