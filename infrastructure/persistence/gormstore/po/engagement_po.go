package po

import (
	"time"

	"carmarket/domain/favorite"
	"carmarket/domain/viewing"
)

// FavoritePO 复合主键 (user_id, listing_id)
type FavoritePO struct {
	UserID    string    `gorm:"primaryKey;size:64"`
	ListingID string    `gorm:"primaryKey;size:64;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FavoritePO) TableName() string {
	return "favorites"
}

func FromFavorite(f favorite.Favorite) *FavoritePO {
	return &FavoritePO{UserID: f.UserID, ListingID: f.ListingID, CreatedAt: f.CreatedAt}
}

func (po *FavoritePO) ToDomain() favorite.Favorite {
	return favorite.Favorite{UserID: po.UserID, ListingID: po.ListingID, CreatedAt: po.CreatedAt}
}

// RecentlyViewedPO 复合主键 (user_id, listing_id)，重复浏览只刷新 viewed_at
type RecentlyViewedPO struct {
	UserID    string    `gorm:"primaryKey;size:64"`
	ListingID string    `gorm:"primaryKey;size:64;index"`
	ViewedAt  time.Time `gorm:"not null;index"`
}

func (RecentlyViewedPO) TableName() string {
	return "recently_viewed"
}

func (po *RecentlyViewedPO) ToDomain() viewing.Entry {
	return viewing.Entry{UserID: po.UserID, ListingID: po.ListingID, ViewedAt: po.ViewedAt}
}
