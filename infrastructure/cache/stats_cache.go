/*
Package cache 统计快照缓存

- GetOrCompute: 命中直接返回；未命中或过期时计算并写回，TTL 由调用方按 key 注入
- 同一 key 的并发未命中通过 singleflight 合并为一次计算
- 计算失败不写缓存（无负缓存），错误以 ComputeError 返回
- Invalidate: 显式失效，下一次读取重新计算

后端读写失败只记录日志并按未命中处理，缓存不可用不影响统计结果的正确性。
*/
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"carmarket/domain/shared"
	"carmarket/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	KeyLandingStats      = "landing_stats"
	KeyCountByCategories = "count_by_categories"
)

// envelope 存储格式
type envelope struct {
	Value      json.RawMessage `json:"value"`
	ComputedAt time.Time       `json:"computed_at"`
}

// Snapshot 读取结果
type Snapshot[T any] struct {
	Value      T
	ComputedAt time.Time
	Hit        bool
}

// StatsCache 每个进程构造一次，注入到统计应用服务
type StatsCache struct {
	backend   Backend
	namespace string
	group     singleflight.Group
	now       func() time.Time
}

// Option StatsCache 可选项
type Option func(*StatsCache)

// WithClock 注入时钟（computed_at）
func WithClock(now func() time.Time) Option {
	return func(c *StatsCache) { c.now = now }
}

func NewStatsCache(backend Backend, namespace string, opts ...Option) *StatsCache {
	if namespace == "" {
		namespace = "stats"
	}
	c := &StatsCache{backend: backend, namespace: namespace, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key 返回带命名空间的完整 key，如 stats:landing_stats
func (c *StatsCache) Key(key string) string {
	return c.namespace + ":" + key
}

// GetOrCompute 读取快照，未命中时调用 compute 并以 ttl 写回
func GetOrCompute[T any](ctx context.Context, c *StatsCache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (Snapshot[T], error) {
	fullKey := c.Key(key)

	if snap, ok := lookup[T](ctx, c, fullKey); ok {
		return snap, nil
	}

	v, err, _ := c.group.Do(fullKey, func() (any, error) {
		// 共享计算与回写不随发起者断开而取消，等待同一 key 的请求仍能拿到结果
		detached := context.WithoutCancel(ctx)

		// 等待期间可能已被其它实例写入
		if snap, ok := lookup[T](detached, c, fullKey); ok {
			return snap, nil
		}

		value, err := compute(detached)
		if err != nil {
			if errors.Is(err, shared.ErrCompute) {
				return nil, err
			}
			return nil, shared.NewComputeError("stats", "compute "+key, err)
		}

		snap := Snapshot[T]{Value: value, ComputedAt: c.now()}
		store(detached, c, fullKey, snap, ttl)
		return snap, nil
	})
	if err != nil {
		var zero Snapshot[T]
		return zero, err
	}
	return v.(Snapshot[T]), nil
}

func lookup[T any](ctx context.Context, c *StatsCache, fullKey string) (Snapshot[T], bool) {
	var zero Snapshot[T]
	raw, ok, err := c.backend.Get(ctx, fullKey)
	if err != nil {
		logger.FromContext(ctx).Warn("stats cache read failed, recomputing",
			zap.String("key", fullKey), zap.Error(err))
		return zero, false
	}
	if !ok {
		return zero, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.FromContext(ctx).Warn("stats cache entry is corrupt, recomputing",
			zap.String("key", fullKey), zap.Error(err))
		return zero, false
	}
	var value T
	if err := json.Unmarshal(env.Value, &value); err != nil {
		logger.FromContext(ctx).Warn("stats cache value does not decode, recomputing",
			zap.String("key", fullKey), zap.Error(err))
		return zero, false
	}
	return Snapshot[T]{Value: value, ComputedAt: env.ComputedAt, Hit: true}, true
}

func store[T any](ctx context.Context, c *StatsCache, fullKey string, snap Snapshot[T], ttl time.Duration) {
	raw, err := json.Marshal(snap.Value)
	if err != nil {
		logger.FromContext(ctx).Warn("stats snapshot is not serializable", zap.String("key", fullKey), zap.Error(err))
		return
	}
	payload, err := json.Marshal(envelope{Value: raw, ComputedAt: snap.ComputedAt})
	if err != nil {
		return
	}
	if err := c.backend.Set(ctx, fullKey, payload, ttl); err != nil {
		logger.FromContext(ctx).Warn("stats cache write failed", zap.String("key", fullKey), zap.Error(err))
	}
}

// Invalidate 删除指定短 key 的快照
func (c *StatsCache) Invalidate(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.Key(k)
	}
	if err := c.backend.Delete(ctx, full...); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("stats cache invalidated", zap.Strings("keys", full))
	return nil
}
