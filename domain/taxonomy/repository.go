package taxonomy

import "context"

// Repository 分类层级仓储接口
// Find* 在记录不存在时返回 shared.ErrNotFound
type Repository interface {
	FindCategory(ctx context.Context, id string) (*Category, error)
	FindMake(ctx context.Context, id string) (*Make, error)
	FindModel(ctx context.Context, id string) (*VehicleModel, error)

	// FindMakeByName 在分类内按名称查找品牌（大小写不敏感），categoryID 为空时不限分类
	FindMakeByName(ctx context.Context, categoryID, name string) (*Make, error)
	// FindModelByName 在品牌内按名称查找车型（大小写不敏感），makeID 为空时不限品牌
	FindModelByName(ctx context.Context, makeID, name string) (*VehicleModel, error)

	// MatchMakeIDs 名称包含 term 的品牌 ID（大小写不敏感子串）
	MatchMakeIDs(ctx context.Context, term string) ([]string, error)
	// MatchModelIDs 名称包含 term 的车型 ID（大小写不敏感子串）
	MatchModelIDs(ctx context.Context, term string) ([]string, error)

	ListCategories(ctx context.Context) ([]*Category, error)
	ListMakes(ctx context.Context, categoryID string) ([]*Make, error)
	ListModels(ctx context.Context, makeID string) ([]*VehicleModel, error)

	SaveCategory(ctx context.Context, c *Category) error
	SaveMake(ctx context.Context, m *Make) error
	SaveModel(ctx context.Context, m *VehicleModel) error
}
