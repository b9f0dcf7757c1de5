package po

import (
	"time"

	"carmarket/domain/review"
)

// ReviewPO 评价持久化对象；(listing_id, reviewer_id) 唯一
type ReviewPO struct {
	ID         string    `gorm:"primaryKey;size:64"`
	ListingID  string    `gorm:"size:64;not null;uniqueIndex:idx_reviews_listing_reviewer;index:idx_reviews_listing_verified,priority:1"`
	ReviewerID string    `gorm:"size:64;not null;uniqueIndex:idx_reviews_listing_reviewer"`
	Rating     int       `gorm:"not null"`
	Title      string    `gorm:"size:255"`
	Comment    string    `gorm:"type:text"`
	IsVerified bool      `gorm:"not null;default:false;index:idx_reviews_listing_verified,priority:2"`
	Version    int       `gorm:"default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (ReviewPO) TableName() string {
	return "reviews"
}

func FromReviewDomain(r *review.Review) *ReviewPO {
	dto := r.ToDTO()
	return &ReviewPO{
		ID:         dto.ID,
		ListingID:  dto.ListingID,
		ReviewerID: dto.ReviewerID,
		Rating:     dto.Rating,
		Title:      dto.Title,
		Comment:    dto.Comment,
		IsVerified: dto.Verified,
		Version:    dto.Version,
		CreatedAt:  dto.CreatedAt,
		UpdatedAt:  dto.UpdatedAt,
	}
}

func (po *ReviewPO) ToDomain() *review.Review {
	return review.RebuildFromDTO(review.ReconstructionDTO{
		ID:         po.ID,
		ListingID:  po.ListingID,
		ReviewerID: po.ReviewerID,
		Rating:     po.Rating,
		Title:      po.Title,
		Comment:    po.Comment,
		Verified:   po.IsVerified,
		Version:    po.Version,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	})
}
