/*
Package listing 车辆信息用例编排

变更与派生计数器的重算在同一个 UnitOfWork 内完成:
- 浏览详情: RecordView（views_count +1，登录用户刷新最近浏览）
- 删除: 级联删除评价、收藏、浏览记录后删除信息本身

领域事件由 UoW 收集并写入 outbox，应用服务不直接发布。
*/
package listing

import (
	"context"

	"carmarket/domain/aggregation"
	"carmarket/domain/favorite"
	"carmarket/domain/listing"
	"carmarket/domain/review"
	"carmarket/domain/shared"
	"carmarket/domain/taxonomy"
	"carmarket/domain/viewing"
	"carmarket/infrastructure/storage"
)

// ImageStore 图片对象存储端口，返回可访问的引用路径
type ImageStore interface {
	Save(ctx context.Context, upload storage.Upload) (string, error)
}

// Limits 各端点的分页默认值
type Limits struct {
	SearchPerPage  int
	DefaultPerPage int
	FeaturedLimit  int
	SimilarLimit   int
}

// Dependencies 应用服务依赖
type Dependencies struct {
	Listings   listing.Repository
	Reviews    review.Repository
	Favorites  favorite.Repository
	Views      viewing.Repository
	Resolver   *taxonomy.Resolver
	Builder    *listing.FilterBuilder
	Engine     *aggregation.Engine
	Images     ImageStore
	UowFactory shared.UnitOfWorkFactory
	Limits     Limits
}

// ApplicationService 车辆信息应用服务
type ApplicationService struct {
	listings   listing.Repository
	reviews    review.Repository
	favorites  favorite.Repository
	views      viewing.Repository
	resolver   *taxonomy.Resolver
	builder    *listing.FilterBuilder
	engine     *aggregation.Engine
	images     ImageStore
	uowFactory shared.UnitOfWorkFactory
	limits     Limits
}

// NewApplicationService 创建车辆信息应用服务
func NewApplicationService(deps Dependencies) *ApplicationService {
	return &ApplicationService{
		listings:   deps.Listings,
		reviews:    deps.Reviews,
		favorites:  deps.Favorites,
		views:      deps.Views,
		resolver:   deps.Resolver,
		builder:    deps.Builder,
		engine:     deps.Engine,
		images:     deps.Images,
		uowFactory: deps.UowFactory,
		limits:     deps.Limits,
	}
}

// Create 发布车辆信息；分类层级不一致时不写入任何数据
func (s *ApplicationService) Create(ctx context.Context, ownerID string, req CreateListingRequest) (*ListingResponse, error) {
	attrs, err := toAttributes(req)
	if err != nil {
		return nil, err
	}

	var l *listing.Listing
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := s.resolver.ResolveChain(ctx, attrs.CategoryID, attrs.MakeID, attrs.ModelID); err != nil {
			return err
		}
		var err error
		if l, err = listing.NewListing(ownerID, attrs); err != nil {
			return err
		}
		if err := s.listings.Save(ctx, l); err != nil {
			return err
		}
		uow.RegisterNew(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToResponse(l)
	return &resp, nil
}

// Update 局部更新，仅发布者可操作
func (s *ApplicationService) Update(ctx context.Context, userID, id string, req UpdateListingRequest) (*ListingResponse, error) {
	var l *listing.Listing
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		if l, err = s.listings.FindByID(ctx, id); err != nil {
			return err
		}
		if err := l.EnsureOwnedBy(userID); err != nil {
			return err
		}

		attrs, taxonomyChanged, err := mergePatch(l.Attributes(), req)
		if err != nil {
			return err
		}
		if taxonomyChanged {
			if _, err := s.resolver.ResolveChain(ctx, attrs.CategoryID, attrs.MakeID, attrs.ModelID); err != nil {
				return err
			}
		}
		if err := l.Update(attrs); err != nil {
			return err
		}
		if err := s.listings.Save(ctx, l); err != nil {
			return err
		}
		uow.RegisterDirty(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToResponse(l)
	return &resp, nil
}

// Delete 删除信息及其评价、收藏、浏览记录
func (s *ApplicationService) Delete(ctx context.Context, userID, id string) error {
	uow := s.uowFactory.New()
	return uow.Execute(ctx, func(ctx context.Context) error {
		l, err := s.listings.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := l.EnsureOwnedBy(userID); err != nil {
			return err
		}

		if err := s.reviews.RemoveByListing(ctx, id); err != nil {
			return err
		}
		if err := s.favorites.RemoveByListing(ctx, id); err != nil {
			return err
		}
		if err := s.views.RemoveByListing(ctx, id); err != nil {
			return err
		}
		if err := s.listings.Remove(ctx, id); err != nil {
			return err
		}

		l.MarkRemoved()
		uow.RegisterRemoved(l)
		return nil
	})
}

// Get 查看详情并记录一次浏览；viewerID 为空表示匿名访问
func (s *ApplicationService) Get(ctx context.Context, id, viewerID string) (*ListingResponse, error) {
	var l *listing.Listing
	err := s.uowFactory.New().Execute(ctx, func(ctx context.Context) error {
		if err := s.engine.RecordView(ctx, id, viewerID); err != nil {
			return err
		}
		var err error
		l, err = s.listings.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := ToResponse(l)
	return &resp, nil
}

// Search 结构化过滤或文本搜索
func (s *ApplicationService) Search(ctx context.Context, params listing.FilterParams) (shared.Page[ListingResponse], error) {
	filter, err := s.builder.Build(ctx, params, s.limits.SearchPerPage)
	if err != nil {
		return shared.Page[ListingResponse]{}, err
	}
	page, err := s.listings.Search(ctx, filter)
	if err != nil {
		return shared.Page[ListingResponse]{}, err
	}
	return shared.MapPage(page, ToResponse), nil
}

// MyListings 当前用户发布的信息，支持同样的过滤参数
func (s *ApplicationService) MyListings(ctx context.Context, ownerID string, params listing.FilterParams) (shared.Page[ListingResponse], error) {
	filter, err := s.builder.Build(ctx, params, s.limits.DefaultPerPage)
	if err != nil {
		return shared.Page[ListingResponse]{}, err
	}
	page, err := s.listings.Search(ctx, filter.With(listing.OwnerEquals{OwnerID: ownerID}))
	if err != nil {
		return shared.Page[ListingResponse]{}, err
	}
	return shared.MapPage(page, ToResponse), nil
}

// Similar 同品牌的其它在售信息；同品牌没有时退回到同分类
func (s *ApplicationService) Similar(ctx context.Context, id string) ([]ListingResponse, error) {
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	base := listing.Filter{
		Mode:       listing.ModeStructured,
		Sort:       listing.SortNewest,
		Pagination: shared.Pagination{Page: 1, PerPage: s.limits.SimilarLimit},
	}
	common := []listing.Predicate{listing.ExcludeID{ID: l.ID()}, listing.SoldEquals{Sold: false}}

	page, err := s.listings.Search(ctx, base.With(append(common, listing.MakeEquals{MakeID: l.MakeID()})...))
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		page, err = s.listings.Search(ctx, base.With(append(common, listing.CategoryEquals{CategoryID: l.CategoryID()})...))
		if err != nil {
			return nil, err
		}
	}
	return toResponses(page.Items), nil
}

// Featured 按车况分组的精选信息，每组最多 FeaturedLimit 条
func (s *ApplicationService) Featured(ctx context.Context) ([]FeaturedGroup, error) {
	groups := make([]FeaturedGroup, 0, len(listing.Conditions))
	for _, condition := range listing.Conditions {
		items, err := s.listings.FeaturedByCondition(ctx, condition, s.limits.FeaturedLimit)
		if err != nil {
			return nil, err
		}
		groups = append(groups, FeaturedGroup{Condition: string(condition), Listings: toResponses(items)})
	}
	return groups, nil
}

// MarkSold 标记成交，重复标记返回 Conflict
func (s *ApplicationService) MarkSold(ctx context.Context, userID, id string) (*ListingResponse, error) {
	var l *listing.Listing
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		if l, err = s.listings.FindByID(ctx, id); err != nil {
			return err
		}
		if err := l.EnsureOwnedBy(userID); err != nil {
			return err
		}
		if err := l.MarkSold(); err != nil {
			return err
		}
		if err := s.listings.Save(ctx, l); err != nil {
			return err
		}
		uow.RegisterDirty(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToResponse(l)
	return &resp, nil
}

// AddImage 上传图片并追加到信息的图片列表
// 上传在事务外完成，事务内重新加载信息再追加引用
func (s *ApplicationService) AddImage(ctx context.Context, userID, id string, upload storage.Upload) (*ListingResponse, error) {
	current, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.EnsureOwnedBy(userID); err != nil {
		return nil, err
	}

	upload.ListingID = id
	path, err := s.images.Save(ctx, upload)
	if err != nil {
		return nil, err
	}

	var l *listing.Listing
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		if l, err = s.listings.FindByID(ctx, id); err != nil {
			return err
		}
		l.AddImage(path)
		if err := s.listings.Save(ctx, l); err != nil {
			return err
		}
		uow.RegisterDirty(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToResponse(l)
	return &resp, nil
}
