package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"godownhub/internal/models"
)

const keyPrefix = "godown"

type CacheService interface {
	// Role permission codes, keyed by the role's permissions_version
	GetRolePermissions(ctx context.Context, roleID uuid.UUID, version int) ([]string, bool, error)
	SetRolePermissions(ctx context.Context, roleID uuid.UUID, version int, codes []string, ttl time.Duration) error

	// Dashboard summaries
	GetDashboard(ctx context.Context, companyID uuid.UUID) (*models.DashboardSummary, error)
	SetDashboard(ctx context.Context, companyID uuid.UUID, summary *models.DashboardSummary, ttl time.Duration) error
	InvalidateCompanyDashboard(ctx context.Context, companyID uuid.UUID) error
	InvalidateAllDashboards(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCacheService connects to addr, which is either host:port or a
// redis:// / rediss:// URL. An unreachable server is logged, not fatal.
func NewRedisCacheService(addr, password string, db int, logger *zap.Logger) (CacheService, error) {
	opts, err := redisOptions(addr, password, db)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		logger.Warn("redis ping failed on initialization", zap.String("addr", opts.Addr), zap.Error(pingErr))
	} else {
		logger.Debug("redis connection established", zap.String("addr", opts.Addr))
	}

	return &redisCacheService{client: client, logger: logger}, nil
}

func redisOptions(addr, password string, db int) (*redis.Options, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		if password != "" {
			opts.Password = password
		}
		return opts, nil
	}
	return &redis.Options{Addr: addr, Password: password, DB: db}, nil
}

func rolePermissionsKey(roleID uuid.UUID, version int) string {
	return fmt.Sprintf("%s:role_permissions:%s:v%d", keyPrefix, roleID, version)
}

func dashboardKey(companyID uuid.UUID) string {
	return fmt.Sprintf("%s:dashboard:%s", keyPrefix, companyID)
}

func (r *redisCacheService) GetRolePermissions(ctx context.Context, roleID uuid.UUID, version int) ([]string, bool, error) {
	data, err := r.client.Get(ctx, rolePermissionsKey(roleID, version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // cache miss
		}
		return nil, false, err
	}

	var codes []string
	if err := json.Unmarshal(data, &codes); err != nil {
		return nil, false, err
	}
	return codes, true, nil
}

func (r *redisCacheService) SetRolePermissions(ctx context.Context, roleID uuid.UUID, version int, codes []string, ttl time.Duration) error {
	if codes == nil {
		codes = []string{}
	}
	data, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, rolePermissionsKey(roleID, version), data, ttl).Err()
}

func (r *redisCacheService) GetDashboard(ctx context.Context, companyID uuid.UUID) (*models.DashboardSummary, error) {
	data, err := r.client.Get(ctx, dashboardKey(companyID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summary models.DashboardSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetDashboard(ctx context.Context, companyID uuid.UUID, summary *models.DashboardSummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, dashboardKey(companyID), data, ttl).Err()
}

func (r *redisCacheService) InvalidateCompanyDashboard(ctx context.Context, companyID uuid.UUID) error {
	return r.client.Del(ctx, dashboardKey(companyID)).Err()
}

func (r *redisCacheService) InvalidateAllDashboards(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+":dashboard:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}

// noopCacheService is used when no Redis address is configured. Every read
// misses and every write succeeds.
type noopCacheService struct{}

func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetRolePermissions(context.Context, uuid.UUID, int) ([]string, bool, error) {
	return nil, false, nil
}

func (noopCacheService) SetRolePermissions(context.Context, uuid.UUID, int, []string, time.Duration) error {
	return nil
}

func (noopCacheService) GetDashboard(context.Context, uuid.UUID) (*models.DashboardSummary, error) {
	return nil, nil
}

func (noopCacheService) SetDashboard(context.Context, uuid.UUID, *models.DashboardSummary, time.Duration) error {
	return nil
}

func (noopCacheService) InvalidateCompanyDashboard(context.Context, uuid.UUID) error { return nil }
func (noopCacheService) InvalidateAllDashboards(context.Context) error                 { return nil }
func (noopCacheService) Ping(context.Context) error                                    { return nil }
func (noopCacheService) Close() error                                                  { return nil }
