package gormstore

import (
	"context"
	"time"

	"carmarket/domain/shared"
	"carmarket/domain/viewing"
	"carmarket/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

type ViewingRepository struct {
	db *gorm.DB
}

func NewViewingRepository(db *gorm.DB) *ViewingRepository {
	return &ViewingRepository{db: db}
}

// Touch 先查后写；同一信息的浏览已被聚合引擎的行锁串行化
// 不依赖 RowsAffected（MySQL 在值未变化时返回 0）
func (r *ViewingRepository) Touch(ctx context.Context, userID, listingID string, at time.Time) (bool, error) {
	db := getDB(ctx, r.db)
	var count int64
	if err := db.Model(&po.RecentlyViewedPO{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error; err != nil {
		return false, err
	}

	if count > 0 {
		err := db.Model(&po.RecentlyViewedPO{}).
			Where("user_id = ? AND listing_id = ?", userID, listingID).
			Update("viewed_at", at).Error
		return false, err
	}

	if err := db.Create(&po.RecentlyViewedPO{UserID: userID, ListingID: listingID, ViewedAt: at}).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *ViewingRepository) ListByUser(ctx context.Context, userID string, p shared.Pagination) (shared.Page[viewing.Entry], error) {
	base := getDB(ctx, r.db).Model(&po.RecentlyViewedPO{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Page[viewing.Entry]{}, err
	}

	var rows []po.RecentlyViewedPO
	if err := base.Order("viewed_at DESC").Order("listing_id DESC").
		Offset(p.Offset()).Limit(p.PerPage).
		Find(&rows).Error; err != nil {
		return shared.Page[viewing.Entry]{}, err
	}

	items := make([]viewing.Entry, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPage(items, p, total), nil
}

func (r *ViewingRepository) ClearByUser(ctx context.Context, userID string) (int64, error) {
	result := getDB(ctx, r.db).Where("user_id = ?", userID).Delete(&po.RecentlyViewedPO{})
	return result.RowsAffected, result.Error
}

func (r *ViewingRepository) RemoveByListing(ctx context.Context, listingID string) error {
	return getDB(ctx, r.db).Where("listing_id = ?", listingID).Delete(&po.RecentlyViewedPO{}).Error
}

var _ viewing.Repository = (*ViewingRepository)(nil)
