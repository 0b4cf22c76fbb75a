package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
	"github.com/opsdesk-io/opsdesk-engine/pkg/repositories"
)

// MasterCodeService resolves opaque subcodes to display names. Groups are
// cached in Redis when a client is configured; cache misses and cache
// failures fall through to Postgres.
type MasterCodeService interface {
	// GetGroup returns every code in a group.
	GetGroup(ctx context.Context, group string) ([]*models.MasterCode, error)

	// ResolveName returns the display name for a subcode within a group.
	// Unknown codes resolve to the code itself so views never render blanks.
	ResolveName(ctx context.Context, group, code string) (string, error)
}

type masterCodeService struct {
	repo     repositories.MasterCodeRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewMasterCodeService creates a new MasterCodeService. cache may be nil
// to disable caching.
func NewMasterCodeService(repo repositories.MasterCodeRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) MasterCodeService {
	return &masterCodeService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.Named("mastercode-service"),
	}
}

var _ MasterCodeService = (*masterCodeService)(nil)

func cacheKey(group string) string {
	return "opsdesk:mastercodes:" + group
}

func (s *masterCodeService) GetGroup(ctx context.Context, group string) ([]*models.MasterCode, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey(group)).Bytes(); err == nil {
			var codes []*models.MasterCode
			if err := json.Unmarshal(cached, &codes); err == nil {
				return codes, nil
			}
			s.logger.Warn("Corrupt master-code cache entry, refetching",
				zap.String("group", group))
		} else if err != redis.Nil {
			s.logger.Warn("Master-code cache read failed",
				zap.String("group", group), zap.Error(err))
		}
	}

	codes, err := s.repo.ListByGroup(ctx, group)
	if err != nil {
		s.logger.Error("Failed to load master codes",
			zap.String("group", group), zap.Error(err))
		return nil, fmt.Errorf("load master codes: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(codes); err == nil {
			if err := s.cache.Set(ctx, cacheKey(group), data, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("Master-code cache write failed",
					zap.String("group", group), zap.Error(err))
			}
		}
	}

	return codes, nil
}

func (s *masterCodeService) ResolveName(ctx context.Context, group, code string) (string, error) {
	codes, err := s.GetGroup(ctx, group)
	if err != nil {
		return "", err
	}
	for _, mc := range codes {
		if mc.Code == code {
			return mc.Name, nil
		}
	}
	return code, nil
}
