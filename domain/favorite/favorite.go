// Package favorite 收藏子域：(user_id, listing_id) 唯一的事实记录
package favorite

import (
	"context"
	"time"

	"carmarket/domain/shared"
)

// Favorite 收藏记录
type Favorite struct {
	UserID    string
	ListingID string
	CreatedAt time.Time
}

// Repository 收藏仓储接口
type Repository interface {
	Exists(ctx context.Context, userID, listingID string) (bool, error)

	// Add 重复收藏返回 shared.ErrConflict
	Add(ctx context.Context, f Favorite) error

	// Remove 返回是否删除了记录
	Remove(ctx context.Context, userID, listingID string) (bool, error)

	CountByListing(ctx context.Context, listingID string) (int, error)

	// ListByUser 按收藏时间倒序
	ListByUser(ctx context.Context, userID string, p shared.Pagination) (shared.Page[Favorite], error)

	RemoveByListing(ctx context.Context, listingID string) error
}
