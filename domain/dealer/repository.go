package dealer

import (
	"context"

	"carmarket/domain/shared"
)

// Repository 经销商仓储接口
type Repository interface {
	// Save 新建时同一用户已有档案返回 shared.ErrConflict
	Save(ctx context.Context, d *Dealer) error
	FindByID(ctx context.Context, id string) (*Dealer, error)
	FindByUserID(ctx context.Context, userID string) (*Dealer, error)

	// List 精选优先，其次 created_at DESC
	List(ctx context.Context, p shared.Pagination) (shared.Page[*Dealer], error)
	Remove(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
