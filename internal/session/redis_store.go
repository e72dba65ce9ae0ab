package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the Redis connection for the session backend.
type RedisConfig struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore keeps sessions in Redis so multiple webhook replicas can
// share them. Entries are stored without TTL: the no-expiry policy of
// the memory backend carries over.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address is required")
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "neolink:session:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}, nil
}

// Get implements the Store interface.
func (s *RedisStore) Get(ctx context.Context, userKey string) (Session, bool, error) {
	raw, err := s.client.Get(ctx, s.key(userKey)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	return sess, true, nil
}

// SaveWallet implements the Store interface.
func (s *RedisStore) SaveWallet(ctx context.Context, userKey, address string) (Session, error) {
	address = strings.TrimSpace(address)
	if err := ValidateAddress(address); err != nil {
		return Session{}, err
	}

	sess := Session{
		UserKey:       strings.TrimSpace(userKey),
		WalletAddress: address,
		SavedAt:       s.now().Unix(),
	}
	encoded, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.UserKey), encoded, 0).Err(); err != nil {
		return Session{}, fmt.Errorf("write session: %w", err)
	}
	return sess, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *RedisStore) key(userKey string) string {
	return s.prefix + strings.TrimSpace(userKey)
}

var _ Store = (*RedisStore)(nil)
