// Package viewing 最近浏览子域
//
// 每个 (user_id, listing_id) 只保留一行；重复浏览只刷新 viewed_at。
// 浏览次数计数由聚合引擎负责，与该行是新增还是刷新无关。
package viewing

import (
	"context"
	"time"

	"carmarket/domain/shared"
)

// Entry 最近浏览记录
type Entry struct {
	UserID    string
	ListingID string
	ViewedAt  time.Time
}

// Repository 最近浏览仓储接口
type Repository interface {
	// Touch 插入或刷新 viewed_at，inserted 表示是否新增
	Touch(ctx context.Context, userID, listingID string, at time.Time) (inserted bool, err error)

	// ListByUser 按 viewed_at DESC
	ListByUser(ctx context.Context, userID string, p shared.Pagination) (shared.Page[Entry], error)

	// ClearByUser 返回删除的行数
	ClearByUser(ctx context.Context, userID string) (int64, error)

	RemoveByListing(ctx context.Context, listingID string) error
}
