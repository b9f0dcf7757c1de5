package memory

import (
	"context"
	"slices"
	"time"

	"carmarket/domain/listing"
	"carmarket/domain/shared"
)

// ListingRepository 同时实现 listing.Repository 与 listing.CounterStore
type ListingRepository struct {
	store *Store
}

func NewListingRepository(store *Store) *ListingRepository {
	return &ListingRepository{store: store}
}

// Save 新建或按 version 更新；更新时保留存储中的派生计数器
func (r *ListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	return r.store.write(ctx, func(d *dataset) error {
		dto := l.ToDTO()
		if l.IsNew() {
			if _, exists := d.listings[dto.ID]; exists {
				return shared.NewConflictError("listing", "listing already exists")
			}
			d.listings[dto.ID] = dto
			l.ClearNewFlag()
			return nil
		}

		existing, ok := d.listings[dto.ID]
		if !ok {
			return shared.NewNotFoundError("listing")
		}
		if existing.Version != dto.Version {
			return shared.NewConcurrentModificationError("listing", dto.ID)
		}
		dto.ViewsCount = existing.ViewsCount
		dto.FavoritesCount = existing.FavoritesCount
		dto.AverageRating = existing.AverageRating
		dto.ReviewsCount = existing.ReviewsCount
		dto.CreatedAt = existing.CreatedAt
		dto.Version = existing.Version + 1
		d.listings[dto.ID] = dto
		l.IncrementVersionForSave()
		l.ClearNewFlag()
		return nil
	})
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*listing.Listing, error) {
	var out *listing.Listing
	err := r.store.read(ctx, func(d *dataset) error {
		dto, ok := d.listings[id]
		if !ok {
			return shared.NewNotFoundError("listing")
		}
		out = listing.RebuildFromDTO(dto)
		return nil
	})
	return out, err
}

// Search 过滤 → 排序 → 分页，total 基于过滤后的集合
func (r *ListingRepository) Search(ctx context.Context, filter listing.Filter) (shared.Page[*listing.Listing], error) {
	var matched []*listing.Listing
	err := r.store.read(ctx, func(d *dataset) error {
		spec := filter.Specification()
		for _, dto := range d.listings {
			l := listing.RebuildFromDTO(dto)
			if spec == nil || spec.IsSatisfiedBy(ctx, l) {
				matched = append(matched, l)
			}
		}
		return nil
	})
	if err != nil {
		return shared.Page[*listing.Listing]{}, err
	}

	slices.SortFunc(matched, func(a, b *listing.Listing) int {
		switch {
		case filter.Sort.Less(a, b):
			return -1
		case filter.Sort.Less(b, a):
			return 1
		default:
			return 0
		}
	})
	return paginate(matched, filter.Pagination), nil
}

// FeaturedByCondition 未售出的精选信息，按 newest 排序
func (r *ListingRepository) FeaturedByCondition(ctx context.Context, condition listing.Condition, limit int) ([]*listing.Listing, error) {
	page, err := r.Search(ctx, listing.Filter{
		Predicates: []listing.Predicate{
			listing.ConditionEquals{Condition: condition},
			listing.FeaturedOnly{},
			listing.SoldEquals{Sold: false},
		},
		Sort:       listing.SortNewest,
		Pagination: shared.Pagination{Page: 1, PerPage: limit},
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *ListingRepository) Remove(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.listings[id]; !ok {
			return shared.NewNotFoundError("listing")
		}
		delete(d.listings, id)
		return nil
	})
}

// LockForUpdate 存储级锁已由 UnitOfWork 持有，这里只校验存在性
func (r *ListingRepository) LockForUpdate(ctx context.Context, id string) error {
	return r.store.read(ctx, func(d *dataset) error {
		if _, ok := d.listings[id]; !ok {
			return shared.NewNotFoundError("listing")
		}
		return nil
	})
}

func (r *ListingRepository) UpdateRatingStats(ctx context.Context, id string, averageRating float64, reviewsCount int) error {
	return r.updateCounters(ctx, id, func(dto *listing.ReconstructionDTO) {
		dto.AverageRating = averageRating
		dto.ReviewsCount = reviewsCount
	})
}

func (r *ListingRepository) UpdateFavoritesCount(ctx context.Context, id string, favoritesCount int) error {
	return r.updateCounters(ctx, id, func(dto *listing.ReconstructionDTO) {
		dto.FavoritesCount = favoritesCount
	})
}

func (r *ListingRepository) IncrementViews(ctx context.Context, id string) error {
	return r.updateCounters(ctx, id, func(dto *listing.ReconstructionDTO) {
		dto.ViewsCount++
	})
}

// updateCounters 计数器写入不修改 version，与属性更新互不冲突
func (r *ListingRepository) updateCounters(ctx context.Context, id string, mutate func(*listing.ReconstructionDTO)) error {
	return r.store.write(ctx, func(d *dataset) error {
		dto, ok := d.listings[id]
		if !ok {
			return shared.NewNotFoundError("listing")
		}
		mutate(&dto)
		dto.UpdatedAt = time.Now()
		d.listings[id] = dto
		return nil
	})
}

var (
	_ listing.Repository   = (*ListingRepository)(nil)
	_ listing.CounterStore = (*ListingRepository)(nil)
)
