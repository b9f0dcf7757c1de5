/*
Package aggregation 派生统计聚合引擎（领域服务）

维护车辆信息上的派生计数器，使其与底层记录保持一致:
- average_rating / reviews_count: 仅统计已审核评价，平均分保留一位小数
- favorites_count: 收藏记录的实时计数
- views_count: 每次浏览事件 +1

每次重算都先锁定信息行，同一信息上的并发重算被串行化；
调用方必须在触发变更的同一个 UnitOfWork 事务内调用，
重算失败时返回 ComputeError，整个事务（包括触发变更）一起回滚。
*/
package aggregation

import (
	"context"
	"errors"
	"math"
	"time"

	"carmarket/domain/shared"
)

// ListingCounters 信息计数器写入端口（listing.CounterStore 实现）
type ListingCounters interface {
	LockForUpdate(ctx context.Context, id string) error
	UpdateRatingStats(ctx context.Context, id string, averageRating float64, reviewsCount int) error
	UpdateFavoritesCount(ctx context.Context, id string, favoritesCount int) error
	IncrementViews(ctx context.Context, id string) error
}

// ReviewStats 已审核评价统计端口
type ReviewStats interface {
	VerifiedStats(ctx context.Context, listingID string) (sum int, count int, err error)
}

// FavoriteCounter 收藏计数端口
type FavoriteCounter interface {
	CountByListing(ctx context.Context, listingID string) (int, error)
}

// ViewTracker 最近浏览写入端口
type ViewTracker interface {
	Touch(ctx context.Context, userID, listingID string, at time.Time) (bool, error)
}

// RatingStats 重算后的评分统计
type RatingStats struct {
	AverageRating float64
	ReviewsCount  int
}

// Engine 聚合引擎
type Engine struct {
	listings  ListingCounters
	reviews   ReviewStats
	favorites FavoriteCounter
	views     ViewTracker
	now       func() time.Time
}

// NewEngine 创建聚合引擎
func NewEngine(listings ListingCounters, reviews ReviewStats, favorites FavoriteCounter, views ViewTracker) *Engine {
	return &Engine{
		listings:  listings,
		reviews:   reviews,
		favorites: favorites,
		views:     views,
		now:       time.Now,
	}
}

// RecomputeRating 全量重算已审核评价的平均分与数量
func (e *Engine) RecomputeRating(ctx context.Context, listingID string) (RatingStats, error) {
	if err := e.lock(ctx, listingID, "recompute rating"); err != nil {
		return RatingStats{}, err
	}

	sum, count, err := e.reviews.VerifiedStats(ctx, listingID)
	if err != nil {
		return RatingStats{}, wrap("recompute rating", err)
	}

	stats := RatingStats{ReviewsCount: count}
	if count > 0 {
		stats.AverageRating = Round1(float64(sum) / float64(count))
	}

	if err := e.listings.UpdateRatingStats(ctx, listingID, stats.AverageRating, stats.ReviewsCount); err != nil {
		return RatingStats{}, wrap("recompute rating", err)
	}
	return stats, nil
}

// RecomputeFavorites 以收藏记录数覆盖 favorites_count
func (e *Engine) RecomputeFavorites(ctx context.Context, listingID string) (int, error) {
	if err := e.lock(ctx, listingID, "recompute favorites"); err != nil {
		return 0, err
	}

	count, err := e.favorites.CountByListing(ctx, listingID)
	if err != nil {
		return 0, wrap("recompute favorites", err)
	}
	if err := e.listings.UpdateFavoritesCount(ctx, listingID, count); err != nil {
		return 0, wrap("recompute favorites", err)
	}
	return count, nil
}

// RecordView 记录一次浏览
// userID 为空表示匿名访问：计入浏览数，但不写最近浏览
func (e *Engine) RecordView(ctx context.Context, listingID, userID string) error {
	if err := e.lock(ctx, listingID, "record view"); err != nil {
		return err
	}

	if userID != "" {
		if _, err := e.views.Touch(ctx, userID, listingID, e.now()); err != nil {
			return wrap("record view", err)
		}
	}
	if err := e.listings.IncrementViews(ctx, listingID); err != nil {
		return wrap("record view", err)
	}
	return nil
}

func (e *Engine) lock(ctx context.Context, listingID, operation string) error {
	if err := e.listings.LockForUpdate(ctx, listingID); err != nil {
		return wrap(operation, err)
	}
	return nil
}

// wrap NotFound 原样返回（fail closed），其余存储错误包装为 ComputeError
func wrap(operation string, err error) error {
	if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrCompute) {
		return err
	}
	return shared.NewComputeError("listing", operation, err)
}

// Round1 四舍五入保留一位小数
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
