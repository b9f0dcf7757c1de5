package gormstore

import (
	"context"
	"time"

	"carmarket/domain/favorite"
	"carmarket/domain/shared"
	"carmarket/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, listingID string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&po.FavoritePO{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error
	return count > 0, err
}

func (r *FavoriteRepository) Add(ctx context.Context, f favorite.Favorite) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	return create(getDB(ctx, r.db), po.FromFavorite(f),
		shared.NewConflictError("favorite", "listing is already in favorites"))
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, listingID string) (bool, error) {
	result := getDB(ctx, r.db).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&po.FavoritePO{})
	return result.RowsAffected > 0, result.Error
}

func (r *FavoriteRepository) CountByListing(ctx context.Context, listingID string) (int, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&po.FavoritePO{}).Where("listing_id = ?", listingID).Count(&count).Error
	return int(count), err
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string, p shared.Pagination) (shared.Page[favorite.Favorite], error) {
	base := getDB(ctx, r.db).Model(&po.FavoritePO{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Page[favorite.Favorite]{}, err
	}

	var rows []po.FavoritePO
	if err := base.Order("created_at DESC").Order("listing_id DESC").
		Offset(p.Offset()).Limit(p.PerPage).
		Find(&rows).Error; err != nil {
		return shared.Page[favorite.Favorite]{}, err
	}

	items := make([]favorite.Favorite, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPage(items, p, total), nil
}

func (r *FavoriteRepository) RemoveByListing(ctx context.Context, listingID string) error {
	return getDB(ctx, r.db).Where("listing_id = ?", listingID).Delete(&po.FavoritePO{}).Error
}

var _ favorite.Repository = (*FavoriteRepository)(nil)
