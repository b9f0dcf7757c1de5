package gormstore

import (
	"context"
	"time"

	"carmarket/domain/review"
	"carmarket/domain/shared"
	"carmarket/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		reviewPO := po.FromReviewDomain(rv)

		if rv.IsNew() {
			if err := create(tx, reviewPO,
				shared.NewConflictError("review", "you have already reviewed this listing")); err != nil {
				return err
			}
			rv.ClearNewFlag()
			return nil
		}

		expectedVersion := rv.Version()
		result := tx.Model(&po.ReviewPO{}).
			Where("id = ? AND version = ?", rv.ID(), expectedVersion).
			Updates(map[string]interface{}{
				"rating":      reviewPO.Rating,
				"title":       reviewPO.Title,
				"comment":     reviewPO.Comment,
				"is_verified": reviewPO.IsVerified,
				"version":     expectedVersion + 1,
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.ReviewPO{}).Where("id = ?", rv.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.NewNotFoundError("review")
			}
			return shared.NewConcurrentModificationError("review", rv.ID())
		}

		rv.IncrementVersionForSave()
		rv.ClearNewFlag()
		return nil
	})
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*review.Review, error) {
	var row po.ReviewPO
	if err := first(getDB(ctx, r.db), &row, "review", "id = ?", id); err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *ReviewRepository) FindByReviewerAndListing(ctx context.Context, reviewerID, listingID string) (*review.Review, error) {
	var row po.ReviewPO
	if err := first(getDB(ctx, r.db), &row, "review", "reviewer_id = ? AND listing_id = ?", reviewerID, listingID); err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID string, verifiedOnly bool, p shared.Pagination) (shared.Page[*review.Review], error) {
	base := getDB(ctx, r.db).Model(&po.ReviewPO{}).Where("listing_id = ?", listingID)
	if verifiedOnly {
		base = base.Where("is_verified = ?", true)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Page[*review.Review]{}, err
	}

	var rows []po.ReviewPO
	if err := base.Order("created_at DESC").Order("id DESC").
		Offset(p.Offset()).Limit(p.PerPage).
		Find(&rows).Error; err != nil {
		return shared.Page[*review.Review]{}, err
	}

	items := make([]*review.Review, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPage(items, p, total), nil
}

// VerifiedStats 在同一事务内读取，聚合引擎已持有信息行锁
func (r *ReviewRepository) VerifiedStats(ctx context.Context, listingID string) (int, int, error) {
	var row struct {
		RatingSum   int
		RatingCount int
	}
	err := getDB(ctx, r.db).Model(&po.ReviewPO{}).
		Select("COALESCE(SUM(rating), 0) AS rating_sum, COUNT(*) AS rating_count").
		Where("listing_id = ? AND is_verified = ?", listingID, true).
		Scan(&row).Error
	return row.RatingSum, row.RatingCount, err
}

func (r *ReviewRepository) Remove(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Where("id = ?", id).Delete(&po.ReviewPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("review")
	}
	return nil
}

func (r *ReviewRepository) RemoveByListing(ctx context.Context, listingID string) error {
	return getDB(ctx, r.db).Where("listing_id = ?", listingID).Delete(&po.ReviewPO{}).Error
}

var _ review.Repository = (*ReviewRepository)(nil)
