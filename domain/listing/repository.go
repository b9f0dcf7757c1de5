package listing

import (
	"context"

	"carmarket/domain/shared"
)

// Repository 车辆信息仓储接口
type Repository interface {
	// Save 新建或更新（基于 version 的乐观锁）；不写入派生计数器
	Save(ctx context.Context, l *Listing) error

	// FindByID 不存在时返回 shared.ErrNotFound
	FindByID(ctx context.Context, id string) (*Listing, error)

	// Search 过滤 → 排序 → 分页；total 基于同一过滤条件计算
	Search(ctx context.Context, filter Filter) (shared.Page[*Listing], error)

	// FeaturedByCondition 某一车况下的精选信息，最多 limit 条
	FeaturedByCondition(ctx context.Context, condition Condition, limit int) ([]*Listing, error)

	// Remove 物理删除（关联行由应用服务在同一事务内级联删除）
	Remove(ctx context.Context, id string) error
}

// CounterStore 派生计数器的专用写入口，仅供聚合引擎使用
type CounterStore interface {
	// LockForUpdate 锁定信息行（SELECT ... FOR UPDATE），串行化同一信息的重算
	LockForUpdate(ctx context.Context, id string) error
	UpdateRatingStats(ctx context.Context, id string, averageRating float64, reviewsCount int) error
	UpdateFavoritesCount(ctx context.Context, id string, favoritesCount int) error
	IncrementViews(ctx context.Context, id string) error
}
