package review

import (
	"context"

	"carmarket/domain/shared"
)

// Repository 评价仓储接口
type Repository interface {
	// Save 新建或更新；新建时 (reviewer, listing) 重复返回 shared.ErrConflict
	Save(ctx context.Context, r *Review) error

	FindByID(ctx context.Context, id string) (*Review, error)
	FindByReviewerAndListing(ctx context.Context, reviewerID, listingID string) (*Review, error)

	// ListByListing 按 created_at DESC 分页；verifiedOnly 为 true 时只返回已审核评价
	ListByListing(ctx context.Context, listingID string, verifiedOnly bool, p shared.Pagination) (shared.Page[*Review], error)

	// VerifiedStats 已审核评价的评分总和与数量
	VerifiedStats(ctx context.Context, listingID string) (sum int, count int, err error)

	Remove(ctx context.Context, id string) error

	// RemoveByListing 车辆信息删除时级联删除
	RemoveByListing(ctx context.Context, listingID string) error
}
