package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/afoley587/coding-challenges-2025/user-records/internal/user"
)

const (
	selectUserByID = `SELECT id, name, email FROM users WHERE id = $1`
	selectUsers    = `SELECT id, name, email FROM users ORDER BY id`
	insertUser     = `INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`
	updateUser     = `UPDATE users SET name = $2, email = $3 WHERE id = $1`
	deleteUser     = `DELETE FROM users WHERE id = $1`
)

// PostgresStore is an implementation of UserStore backed by a
// PostgreSQL "users" table.  The schema is managed by Migrate.  Every
// operation is a single statement, so row-level atomicity comes from
// PostgreSQL itself.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a connection pool for dsn and pings it.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases every pooled connection.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// FindByID returns (nil, nil) when no row has the given id.
func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*user.User, error) {
	rows, err := s.pool.Query(ctx, selectUserByID, id)
	if err != nil {
		return nil, fmt.Errorf("postgres select failed: %w", err)
	}
	u, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByPos[user.User])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres scan failed: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]*user.User, error) {
	rows, err := s.pool.Query(ctx, selectUsers)
	if err != nil {
		return nil, fmt.Errorf("postgres select failed: %w", err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[user.User])
	if err != nil {
		return nil, fmt.Errorf("postgres scan failed: %w", err)
	}
	if users == nil {
		users = []*user.User{}
	}
	return users, nil
}

// Save inserts new users using the table's sequence for the ID and
// updates existing ones in place.
func (s *PostgresStore) Save(ctx context.Context, u *user.User) (*user.User, error) {
	if u.IsNew() {
		var id int64
		if err := s.pool.QueryRow(ctx, insertUser, u.Name, u.Email).Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres insert failed: %w", err)
		}
		u.ID = id
		return u, nil
	}
	tag, err := s.pool.Exec(ctx, updateUser, u.ID, u.Name, u.Email)
	if err != nil {
		return nil, fmt.Errorf("postgres update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, user.NotFound(u.ID)
	}
	return u, nil
}

func (s *PostgresStore) Delete(ctx context.Context, u *user.User) error {
	if _, err := s.pool.Exec(ctx, deleteUser, u.ID); err != nil {
		return fmt.Errorf("postgres delete failed: %w", err)
	}
	return nil
}
