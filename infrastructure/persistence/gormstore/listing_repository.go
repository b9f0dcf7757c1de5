package gormstore

import (
	"context"
	"errors"
	"time"

	"carmarket/domain/listing"
	"carmarket/domain/shared"
	"carmarket/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListingRepository GORM implementation of listing.Repository and listing.CounterStore
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Save 新建或按 version 更新；更新只写属性列，派生计数器保持存储中的值
func (r *ListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		return r.saveWithTx(tx, l)
	})
}

func (r *ListingRepository) saveWithTx(tx *gorm.DB, l *listing.Listing) error {
	listingPO := po.FromListingDomain(l)

	if l.IsNew() {
		if err := tx.Create(listingPO).Error; err != nil {
			if isDuplicateKeyError(err) {
				return shared.NewConflictError("listing", "listing already exists")
			}
			return err
		}
		l.ClearNewFlag()
		return nil
	}

	expectedVersion := l.Version()
	columns := listingPO.AttributeColumns()
	columns["version"] = expectedVersion + 1
	columns["updated_at"] = time.Now()

	result := tx.Model(&po.ListingPO{}).
		Where("id = ? AND version = ?", l.ID(), expectedVersion).
		Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&po.ListingPO{}).Where("id = ?", l.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.NewNotFoundError("listing")
		}
		return shared.NewConcurrentModificationError("listing", l.ID())
	}

	l.IncrementVersionForSave()
	l.ClearNewFlag()
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*listing.Listing, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var listingPO po.ListingPO
	result := getDB(ctx, r.db).First(&listingPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("listing")
		}
		return nil, result.Error
	}
	return listingPO.ToDomain(), nil
}

// Search 过滤 → 排序 → 分页，COUNT 与分页查询使用同一组 WHERE 条件
func (r *ListingRepository) Search(ctx context.Context, filter listing.Filter) (shared.Page[*listing.Listing], error) {
	base := applySpecification(getDB(ctx, r.db).Model(&po.ListingPO{}), filter.Specification())
	if base.Error != nil {
		return shared.Page[*listing.Listing]{}, base.Error
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Page[*listing.Listing]{}, err
	}

	var listingPOs []po.ListingPO
	if total > int64(filter.Pagination.Offset()) {
		if err := applySort(base, filter.Sort).
			Offset(filter.Pagination.Offset()).
			Limit(filter.Pagination.PerPage).
			Find(&listingPOs).Error; err != nil {
			return shared.Page[*listing.Listing]{}, err
		}
	}

	items := make([]*listing.Listing, len(listingPOs))
	for i := range listingPOs {
		items[i] = listingPOs[i].ToDomain()
	}
	return shared.NewPage(items, filter.Pagination, total), nil
}

// FeaturedByCondition 未售出的精选信息，按 newest 排序
func (r *ListingRepository) FeaturedByCondition(ctx context.Context, condition listing.Condition, limit int) ([]*listing.Listing, error) {
	var listingPOs []po.ListingPO
	err := applySort(getDB(ctx, r.db), listing.SortNewest).
		Where("vehicle_condition = ? AND is_featured = ? AND is_sold = ?", string(condition), true, false).
		Limit(limit).
		Find(&listingPOs).Error
	if err != nil {
		return nil, err
	}

	items := make([]*listing.Listing, len(listingPOs))
	for i := range listingPOs {
		items[i] = listingPOs[i].ToDomain()
	}
	return items, nil
}

// Remove 物理删除；关联的评价、收藏、浏览记录由应用服务在同一事务内删除
func (r *ListingRepository) Remove(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Where("id = ?", id).Delete(&po.ListingPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("listing")
	}
	return nil
}

// LockForUpdate SELECT ... FOR UPDATE，需在 UoW 事务内调用
func (r *ListingRepository) LockForUpdate(ctx context.Context, id string) error {
	var row po.ListingPO
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError("listing")
	}
	return err
}

// 计数器写入不修改 version；行存在性已由 LockForUpdate 保证
func (r *ListingRepository) UpdateRatingStats(ctx context.Context, id string, averageRating float64, reviewsCount int) error {
	return r.updateCounters(ctx, id, map[string]interface{}{
		"average_rating": averageRating,
		"reviews_count":  reviewsCount,
	})
}

func (r *ListingRepository) UpdateFavoritesCount(ctx context.Context, id string, favoritesCount int) error {
	return r.updateCounters(ctx, id, map[string]interface{}{"favorites_count": favoritesCount})
}

func (r *ListingRepository) IncrementViews(ctx context.Context, id string) error {
	return r.updateCounters(ctx, id, map[string]interface{}{"views_count": gorm.Expr("views_count + ?", 1)})
}

func (r *ListingRepository) updateCounters(ctx context.Context, id string, columns map[string]interface{}) error {
	columns["updated_at"] = time.Now()
	return getDB(ctx, r.db).Model(&po.ListingPO{}).Where("id = ?", id).Updates(columns).Error
}

// Compile-time interface implementation check
var (
	_ listing.Repository   = (*ListingRepository)(nil)
	_ listing.CounterStore = (*ListingRepository)(nil)
)
