/*
Package review 车辆评价子域

规则:
1. 每个用户对同一车辆信息最多一条评价 (reviewer_user_id, listing_id) 唯一
2. 评分为 1-5 的整数
3. 只有经过审核 (is_verified) 的评价计入车辆的平均评分与评价数

评价的创建、修改、删除、审核都会触发聚合引擎重算所属车辆的派生统计。
*/
package review

import (
	"fmt"
	"strings"
	"time"

	"carmarket/domain/shared"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review 评价聚合根
type Review struct {
	shared.EventRecorder

	id         string
	listingID  string
	reviewerID string
	rating     int
	title      string
	comment    string
	verified   bool
	version    int
	createdAt  time.Time
	updatedAt  time.Time
	isNew      bool
}

// Content 评价内容
type Content struct {
	Rating  int
	Title   string
	Comment string
}

// NewReview 创建评价，新评价默认未审核
func NewReview(listingID, reviewerID string, content Content) (*Review, error) {
	if listingID == "" {
		return nil, shared.NewValidationError("review", "listing_id", "listing is required")
	}
	if reviewerID == "" {
		return nil, shared.NewValidationError("review", "reviewer_id", "reviewer is required")
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate review ID: %w", err)
	}

	now := time.Now()
	r := &Review{
		id:         id.String(),
		listingID:  listingID,
		reviewerID: reviewerID,
		createdAt:  now,
		updatedAt:  now,
		isNew:      true,
	}
	r.apply(content)
	r.Record(NewChangedEvent(EventCreated, r))
	return r, nil
}

func validateContent(c Content) error {
	if c.Rating < MinRating || c.Rating > MaxRating {
		return shared.NewValidationError("review", "rating", fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	return nil
}

func (r *Review) apply(c Content) {
	r.rating = c.Rating
	r.title = strings.TrimSpace(c.Title)
	r.comment = strings.TrimSpace(c.Comment)
}

// EnsureAuthoredBy 只有评价作者可以修改或删除
func (r *Review) EnsureAuthoredBy(userID string) error {
	if r.reviewerID != userID {
		return shared.NewForbiddenError("review", "only the author can modify this review")
	}
	return nil
}

// Update 修改评价内容，审核状态保持不变
func (r *Review) Update(c Content) error {
	if err := validateContent(c); err != nil {
		return err
	}
	r.apply(c)
	r.updatedAt = time.Now()
	r.Record(NewChangedEvent(EventUpdated, r))
	return nil
}

// Verify 审核通过
func (r *Review) Verify() {
	if r.verified {
		return
	}
	r.verified = true
	r.updatedAt = time.Now()
	r.Record(NewChangedEvent(EventVerified, r))
}

// Unverify 撤销审核
func (r *Review) Unverify() {
	if !r.verified {
		return
	}
	r.verified = false
	r.updatedAt = time.Now()
	r.Record(NewChangedEvent(EventUnverified, r))
}

// MarkRemoved 记录删除事件
func (r *Review) MarkRemoved() {
	r.Record(NewChangedEvent(EventDeleted, r))
}

func (r *Review) IncrementVersionForSave() { r.version++ }
func (r *Review) ClearNewFlag()            { r.isNew = false }

// ReconstructionDTO 仅供仓储层使用
type ReconstructionDTO struct {
	ID         string
	ListingID  string
	ReviewerID string
	Rating     int
	Title      string
	Comment    string
	Verified   bool
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RebuildFromDTO 重建聚合根（不记录事件）
func RebuildFromDTO(dto ReconstructionDTO) *Review {
	return &Review{
		id:         dto.ID,
		listingID:  dto.ListingID,
		reviewerID: dto.ReviewerID,
		rating:     dto.Rating,
		title:      dto.Title,
		comment:    dto.Comment,
		verified:   dto.Verified,
		version:    dto.Version,
		createdAt:  dto.CreatedAt,
		updatedAt:  dto.UpdatedAt,
	}
}

// ToDTO 导出完整状态
func (r *Review) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:         r.id,
		ListingID:  r.listingID,
		ReviewerID: r.reviewerID,
		Rating:     r.rating,
		Title:      r.title,
		Comment:    r.comment,
		Verified:   r.verified,
		Version:    r.version,
		CreatedAt:  r.createdAt,
		UpdatedAt:  r.updatedAt,
	}
}

func (r *Review) ID() string           { return r.id }
func (r *Review) ListingID() string    { return r.listingID }
func (r *Review) ReviewerID() string   { return r.reviewerID }
func (r *Review) Rating() int          { return r.rating }
func (r *Review) Title() string        { return r.title }
func (r *Review) Comment() string      { return r.comment }
func (r *Review) IsVerified() bool     { return r.verified }
func (r *Review) Version() int         { return r.version }
func (r *Review) CreatedAt() time.Time { return r.createdAt }
func (r *Review) UpdatedAt() time.Time { return r.updatedAt }
func (r *Review) IsNew() bool          { return r.isNew }

var _ shared.AggregateRoot = (*Review)(nil)
