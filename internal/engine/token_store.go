package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "approval:token:"

// minTokenTTL keeps Redis expiry semantics valid for point requests
// whose interval rounds down to zero seconds.
const minTokenTTL = time.Second

// TokenStore keeps continuation tokens alive for the duration of a
// suspension. Expiry in Redis IS the saga timeout: once the key is gone
// any resume attempt fails with ErrUnknownToken and the request stays
// wherever it was.
type TokenStore struct {
	rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

// Issue mints a fresh opaque token bound to the given identity.
func (s *TokenStore) Issue(ctx context.Context, identity string, ttl time.Duration) (string, error) {
	if ttl < minTokenTTL {
		ttl = minTokenTTL
	}

	token := uuid.New().String()
	if err := s.rdb.Set(ctx, tokenKeyPrefix+token, identity, ttl).Err(); err != nil {
		return "", fmt.Errorf("issue continuation token: %w", err)
	}
	return token, nil
}

// Lookup returns the identity a live token is bound to.
func (s *TokenStore) Lookup(ctx context.Context, token string) (string, error) {
	identity, err := s.rdb.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrUnknownToken
	}
	if err != nil {
		return "", fmt.Errorf("lookup continuation token: %w", err)
	}
	return identity, nil
}

// Revoke removes a token once its saga resolved or aborted.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, tokenKeyPrefix+token).Err()
}
