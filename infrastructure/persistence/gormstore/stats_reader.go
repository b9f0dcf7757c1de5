package gormstore

import (
	"context"
	"database/sql"

	"carmarket/domain/stats"
	"carmarket/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

// StatsReader 首页与分类汇总查询
type StatsReader struct {
	db *gorm.DB
}

func NewStatsReader(db *gorm.DB) *StatsReader {
	return &StatsReader{db: db}
}

func (r *StatsReader) CountListings(ctx context.Context) (int64, error) {
	var n int64
	err := getDB(ctx, r.db).Model(&po.ListingPO{}).Count(&n).Error
	return n, err
}

func (r *StatsReader) CountSold(ctx context.Context) (int64, error) {
	var n int64
	err := getDB(ctx, r.db).Model(&po.ListingPO{}).Where("is_sold = ?", true).Count(&n).Error
	return n, err
}

func (r *StatsReader) CountDealers(ctx context.Context) (int64, error) {
	var n int64
	err := getDB(ctx, r.db).Model(&po.DealerPO{}).Count(&n).Error
	return n, err
}

const distinctUsersSQL = `SELECT COUNT(*) FROM (
	SELECT owner_id AS user_id FROM listings
	UNION SELECT reviewer_id FROM reviews
	UNION SELECT user_id FROM favorites
	UNION SELECT user_id FROM recently_viewed
	UNION SELECT user_id FROM dealers
) AS catalog_users`

func (r *StatsReader) CountDistinctUsers(ctx context.Context) (int64, error) {
	var n int64
	err := getDB(ctx, r.db).Raw(distinctUsersSQL).Scan(&n).Error
	return n, err
}

func (r *StatsReader) AverageVerifiedRating(ctx context.Context) (float64, int64, error) {
	var row struct {
		AvgRating   sql.NullFloat64
		RatingCount int64
	}
	err := getDB(ctx, r.db).Model(&po.ReviewPO{}).
		Select("AVG(rating) AS avg_rating, COUNT(*) AS rating_count").
		Where("is_verified = ?", true).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.AvgRating.Float64, row.RatingCount, nil
}

// CountByCategories LEFT JOIN 保留没有信息的分类
func (r *StatsReader) CountByCategories(ctx context.Context) ([]stats.CategoryCount, error) {
	var rows []stats.CategoryCount
	err := getDB(ctx, r.db).
		Table("categories AS c").
		Select("c.id AS category_id, c.name AS name, COUNT(l.id) AS listings_count").
		Joins("LEFT JOIN listings AS l ON l.category_id = c.id").
		Group("c.id, c.name").
		Order("c.name ASC").Order("c.id ASC").
		Scan(&rows).Error
	return rows, err
}

var _ stats.Reader = (*StatsReader)(nil)
