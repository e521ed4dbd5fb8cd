package store

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	redis "github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"

	"github.com/afoley587/coding-challenges-2025/user-records/internal/user"
)

const (
	// usersKey is a hash mapping decimal user IDs to JSON documents.
	usersKey = "users"
	// nextIDKey is an integer counter used to allocate user IDs.
	nextIDKey = "users:next_id"
)

// replaceScript writes a user document only when the hash field already
// exists, so an update never resurrects a user deleted concurrently.
var replaceScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// RedisStore is an implementation of UserStore backed by Redis.  Each
// user is stored as a JSON document in a field of the "users" hash,
// keyed by its ID.  IDs are allocated with INCR on "users:next_id" so
// several service instances can share one Redis safely.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to a Redis instance at the provided address and
// returns a store using the "users" keys.  A ping is performed to verify
// connectivity.
func NewRedisStore(addr string, password string, tls *tls.Config) (*RedisStore, error) {
	opts := &redis.Options{
		Addr:     addr,
		Password: password, // empty string means no auth
		DB:       0,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	}
	if tls != nil {
		opts.TLSConfig = tls
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient wraps an existing client.  The caller keeps
// responsibility for its configuration; Close closes it.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close releases the underlying Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// FindByID retrieves a user by id from Redis.  It returns (nil, nil) if
// the user does not exist.
func (s *RedisStore) FindByID(ctx context.Context, id int64) (*user.User, error) {
	doc, err := s.client.HGet(ctx, usersKey, strconv.FormatInt(id, 10)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget failed: %w", err)
	}
	return decodeUser(doc)
}

// FindAll returns all users stored in Redis ordered by ID.  When the
// hash doesn't exist, an empty slice and nil error are returned.
func (s *RedisStore) FindAll(ctx context.Context) ([]*user.User, error) {
	docs, err := s.client.HGetAll(ctx, usersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}
	users := make([]*user.User, 0, len(docs))
	for _, doc := range docs {
		u, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Save inserts a new user or replaces an existing one.
func (s *RedisStore) Save(ctx context.Context, u *user.User) (*user.User, error) {
	if u.IsNew() {
		return s.insert(ctx, u)
	}
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}
	n, err := replaceScript.Run(ctx, s.client, []string{usersKey}, strconv.FormatInt(u.ID, 10), data).Int()
	if err != nil {
		return nil, fmt.Errorf("redis replace failed: %w", err)
	}
	if n == 0 {
		return nil, user.NotFound(u.ID)
	}
	return u, nil
}

func (s *RedisStore) insert(ctx context.Context, u *user.User) (*user.User, error) {
	id, err := s.client.Incr(ctx, nextIDKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis incr failed: %w", err)
	}
	u.ID = id
	data, err := json.Marshal(u)
	if err != nil {
		u.ID = 0
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := s.client.HSet(ctx, usersKey, strconv.FormatInt(id, 10), data).Err(); err != nil {
		u.ID = 0
		return nil, fmt.Errorf("redis hset failed: %w", err)
	}
	return u, nil
}

// Delete removes the hash field for u.
func (s *RedisStore) Delete(ctx context.Context, u *user.User) error {
	if err := s.client.HDel(ctx, usersKey, strconv.FormatInt(u.ID, 10)).Err(); err != nil {
		return fmt.Errorf("redis hdel failed: %w", err)
	}
	return nil
}

func decodeUser(doc string) (*user.User, error) {
	var u user.User
	if err := json.Unmarshal([]byte(doc), &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user json: %w", err)
	}
	return &u, nil
}
