package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// ChallengeStoreImpl implements domain.ChallengeStore using Redis. The TTL on
// each key is the challenge token TTL, so expired challenges vanish on their
// own and a verify after expiry finds nothing pending.
type ChallengeStoreImpl struct {
	client *redis.Client
	prefix string
}

// NewChallengeStore creates a new Redis-backed challenge store
func NewChallengeStore(client *redis.Client) domain.ChallengeStore {
	return &ChallengeStoreImpl{
		client: client,
		prefix: "2fa:chal:",
	}
}

// Put implements domain.ChallengeStore
func (s *ChallengeStoreImpl) Put(ctx context.Context, jti string, accountID uint, ttl time.Duration) error {
	key := s.prefix + jti
	if err := s.client.Set(ctx, key, strconv.FormatUint(uint64(accountID), 10), ttl).Err(); err != nil {
		return fmt.Errorf("failed to register challenge: %w", err)
	}
	return nil
}

// Pending implements domain.ChallengeStore
func (s *ChallengeStoreImpl) Pending(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Consume implements domain.ChallengeStore. GetDel makes consumption atomic:
// two concurrent verifies of the same challenge cannot both succeed.
func (s *ChallengeStoreImpl) Consume(ctx context.Context, jti string) (bool, error) {
	_, err := s.client.GetDel(ctx, s.prefix+jti).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
