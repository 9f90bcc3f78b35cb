package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultCacheTTL = 60 * time.Second

//go:generate mockgen -source=directory_service.go -destination=mock/directory_service_mock.go -package=mock
type Service interface {
	// Admins returns all administrator accounts, minus the excluded
	// account (the applicant never approves their own request).
	Admins(ctx context.Context, excludeAccountID string) ([]Account, error)
	AccountByID(ctx context.Context, id string) (*Account, error)
}

type service struct {
	repo     Repository
	rdb      *redis.Client
	group    singleflight.Group
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("directory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("directory.service")
	}
	return &service{repo: repo, rdb: rdb, cacheTTL: defaultCacheTTL, logger: l}
}

func (s *service) Admins(ctx context.Context, excludeAccountID string) ([]Account, error) {
	accounts, err := s.roleAccounts(ctx, RoleAdministrator)
	if err != nil {
		return nil, err
	}

	audience := make([]Account, 0, len(accounts))
	for _, account := range accounts {
		if account.ID == excludeAccountID || account.Email == "" {
			continue
		}
		audience = append(audience, account)
	}
	return audience, nil
}

func (s *service) AccountByID(ctx context.Context, id string) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}

// roleAccounts serves the role query from a short-lived Redis cache.
// Concurrent misses for the same role collapse into a single DB query
// via singleflight.
func (s *service) roleAccounts(ctx context.Context, role string) ([]Account, error) {
	cacheKey := fmt.Sprintf("directory:role:%s", role)

	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached []Account
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
			s.logger.Warn("decode cached role accounts failed", zap.String("role", role))
		} else if err != redis.Nil {
			s.logger.Warn("role cache read failed", zap.String("role", role), zap.Error(err))
		}
	}

	result, err, _ := s.group.Do(cacheKey, func() (any, error) {
		accounts, err := s.repo.FindByRole(ctx, role)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(accounts); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
					s.logger.Warn("role cache write failed", zap.String("role", role), zap.Error(err))
				}
			}
		}

		return accounts, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]Account), nil
}
