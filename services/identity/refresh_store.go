package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mindnest/utils"

	"github.com/go-redis/redis/v8"
)

const (
	refreshKeyPrefix = "refresh:"
	rotatedKeyPrefix = "refresh:rotated:"
)

// RefreshRecord is what a refresh token resolves to.
type RefreshRecord struct {
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	IssuedAt time.Time `json:"issuedAt"`
	// Rotated is set when the token was already consumed within the grace
	// window. The caller should accept the session but not issue new tokens.
	Rotated bool `json:"-"`
}

// RefreshStore keeps refresh tokens. Take consumes a token; a consumed token
// keeps resolving, marked Rotated, for grace so requests that raced the
// rotation are not signed out.
type RefreshStore interface {
	Save(ctx context.Context, token string, rec RefreshRecord, ttl time.Duration) error
	Take(ctx context.Context, token string, grace time.Duration) (*RefreshRecord, error)
	Delete(ctx context.Context, token string) error
}

// takeScript consumes KEYS[1] and parks its value under KEYS[2] for ARGV[1]
// milliseconds. A second call within that window reads the parked copy.
var takeScript = redis.NewScript(`
local v = redis.call('GETDEL', KEYS[1])
if v then
	redis.call('SET', KEYS[2], v, 'PX', ARGV[1])
	return {v, '0'}
end
local r = redis.call('GET', KEYS[2])
if r then
	return {r, '1'}
end
return false
`)

// RedisRefreshStore stores hashed refresh tokens in redis.
type RedisRefreshStore struct {
	client *redis.Client
}

func NewRedisRefreshStore(client *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{client: client}
}

func refreshKey(token string) string {
	return refreshKeyPrefix + utils.HashToken(token)
}

func rotatedKey(token string) string {
	return rotatedKeyPrefix + utils.HashToken(token)
}

func (s *RedisRefreshStore) Save(ctx context.Context, token string, rec RefreshRecord, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh record: %w", err)
	}
	if err := s.client.Set(ctx, refreshKey(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

func (s *RedisRefreshStore) Take(ctx context.Context, token string, grace time.Duration) (*RefreshRecord, error) {
	keys := []string{refreshKey(token), rotatedKey(token)}
	res, err := takeScript.Run(ctx, s.client, keys, grace.Milliseconds()).Slice()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected refresh lookup reply: %v", res)
	}
	data, _ := res[0].(string)
	flag, _ := res[1].(string)

	var rec RefreshRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal refresh record: %w", err)
	}
	rec.Rotated = flag == "1"
	return &rec, nil
}

func (s *RedisRefreshStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, refreshKey(token), rotatedKey(token)).Err()
}
