// Package stats 首页统计与分类分布，结果经由统计缓存按 TTL 复用
package stats

import (
	"context"
	"time"

	"carmarket/domain/shared"
	"carmarket/domain/stats"
	"carmarket/infrastructure/cache"
)

// TTLFunc 按缓存键返回 TTL（config.CacheConfig.TTLFor）
type TTLFunc func(key string) time.Duration

// LandingResponse 首页统计及其计算时间
type LandingResponse struct {
	stats.LandingStats
	ComputedAt time.Time `json:"computed_at"`
}

type CategoriesResponse struct {
	Categories []stats.CategoryCount `json:"categories"`
	ComputedAt time.Time             `json:"computed_at"`
}

type InvalidateResponse struct {
	Keys []string `json:"keys"`
}

type ApplicationService struct {
	reader stats.Reader
	cache  *cache.StatsCache
	ttl    TTLFunc
}

func NewApplicationService(reader stats.Reader, c *cache.StatsCache, ttl TTLFunc) *ApplicationService {
	return &ApplicationService{reader: reader, cache: c, ttl: ttl}
}

// Landing 缓存未命中或过期时重新汇总；汇总失败不会写入缓存
func (s *ApplicationService) Landing(ctx context.Context) (*LandingResponse, error) {
	snap, err := cache.GetOrCompute(ctx, s.cache, cache.KeyLandingStats, s.ttl(cache.KeyLandingStats),
		func(ctx context.Context) (stats.LandingStats, error) {
			return stats.ComputeLanding(ctx, s.reader)
		})
	if err != nil {
		return nil, err
	}
	return &LandingResponse{LandingStats: snap.Value, ComputedAt: snap.ComputedAt}, nil
}

func (s *ApplicationService) Categories(ctx context.Context) (*CategoriesResponse, error) {
	snap, err := cache.GetOrCompute(ctx, s.cache, cache.KeyCountByCategories, s.ttl(cache.KeyCountByCategories),
		func(ctx context.Context) ([]stats.CategoryCount, error) {
			counts, err := s.reader.CountByCategories(ctx)
			if err != nil {
				return nil, err
			}
			if counts == nil {
				counts = []stats.CategoryCount{}
			}
			return counts, nil
		})
	if err != nil {
		return nil, err
	}
	return &CategoriesResponse{Categories: snap.Value, ComputedAt: snap.ComputedAt}, nil
}

// Invalidate 清除指定键；keys 为空时清除全部统计
func (s *ApplicationService) Invalidate(ctx context.Context, keys ...string) (*InvalidateResponse, error) {
	if len(keys) == 0 {
		keys = []string{cache.KeyLandingStats, cache.KeyCountByCategories}
	}
	for _, k := range keys {
		if k != cache.KeyLandingStats && k != cache.KeyCountByCategories {
			return nil, shared.NewValidationError("stats", "keys", "unknown stats key "+k)
		}
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		return nil, err
	}
	return &InvalidateResponse{Keys: keys}, nil
}
