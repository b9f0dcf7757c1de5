/*
Package dealer 经销商档案子域

每个用户最多一个经销商档案（user_id 唯一）。
rating/reviews_count 为运营维护字段，聚合引擎不会修改。
*/
package dealer

import (
	"fmt"
	"strings"
	"time"

	"carmarket/domain/shared"

	"github.com/google/uuid"
)

// Dealer 经销商聚合根
type Dealer struct {
	shared.EventRecorder

	id           string
	userID       string
	name         string
	description  string
	phone        string
	cityID       string
	rating       float64
	reviewsCount int
	verified     bool
	featured     bool
	version      int
	createdAt    time.Time
	updatedAt    time.Time
	isNew        bool
}

// Profile 经销商可编辑资料
type Profile struct {
	Name        string
	Description string
	Phone       string
	CityID      string
}

// NewDealer 创建经销商档案
func NewDealer(userID string, p Profile) (*Dealer, error) {
	if userID == "" {
		return nil, shared.NewValidationError("dealer", "user_id", "user is required")
	}
	if err := validateProfile(p); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate dealer ID: %w", err)
	}

	now := time.Now()
	d := &Dealer{id: id.String(), userID: userID, createdAt: now, updatedAt: now, isNew: true}
	d.apply(p)
	d.Record(NewChangedEvent(EventCreated, d))
	return d, nil
}

func validateProfile(p Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewValidationError("dealer", "name", "name is required")
	}
	return nil
}

func (d *Dealer) apply(p Profile) {
	d.name = strings.TrimSpace(p.Name)
	d.description = strings.TrimSpace(p.Description)
	d.phone = strings.TrimSpace(p.Phone)
	d.cityID = p.CityID
}

// EnsureOwnedBy 只有档案所属用户可以修改或删除
func (d *Dealer) EnsureOwnedBy(userID string) error {
	if d.userID != userID {
		return shared.NewForbiddenError("dealer", "only the owner can modify this dealer profile")
	}
	return nil
}

// Update 修改资料
func (d *Dealer) Update(p Profile) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	d.apply(p)
	d.updatedAt = time.Now()
	d.Record(NewChangedEvent(EventUpdated, d))
	return nil
}

// MarkRemoved 记录删除事件
func (d *Dealer) MarkRemoved() {
	d.Record(NewChangedEvent(EventDeleted, d))
}

// Profile 当前资料快照
func (d *Dealer) Profile() Profile {
	return Profile{Name: d.name, Description: d.description, Phone: d.phone, CityID: d.cityID}
}

func (d *Dealer) IncrementVersionForSave() { d.version++ }
func (d *Dealer) ClearNewFlag()            { d.isNew = false }

// ReconstructionDTO 仅供仓储层使用
type ReconstructionDTO struct {
	ID           string
	UserID       string
	Profile      Profile
	Rating       float64
	ReviewsCount int
	Verified     bool
	Featured     bool
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Dealer {
	d := &Dealer{
		id:           dto.ID,
		userID:       dto.UserID,
		rating:       dto.Rating,
		reviewsCount: dto.ReviewsCount,
		verified:     dto.Verified,
		featured:     dto.Featured,
		version:      dto.Version,
		createdAt:    dto.CreatedAt,
		updatedAt:    dto.UpdatedAt,
	}
	d.apply(dto.Profile)
	return d
}

func (d *Dealer) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:           d.id,
		UserID:       d.userID,
		Profile:      d.Profile(),
		Rating:       d.rating,
		ReviewsCount: d.reviewsCount,
		Verified:     d.verified,
		Featured:     d.featured,
		Version:      d.version,
		CreatedAt:    d.createdAt,
		UpdatedAt:    d.updatedAt,
	}
}

func (d *Dealer) ID() string           { return d.id }
func (d *Dealer) UserID() string       { return d.userID }
func (d *Dealer) Name() string         { return d.name }
func (d *Dealer) Description() string  { return d.description }
func (d *Dealer) Phone() string        { return d.phone }
func (d *Dealer) CityID() string       { return d.cityID }
func (d *Dealer) Rating() float64      { return d.rating }
func (d *Dealer) ReviewsCount() int    { return d.reviewsCount }
func (d *Dealer) IsVerified() bool     { return d.verified }
func (d *Dealer) IsFeatured() bool     { return d.featured }
func (d *Dealer) Version() int         { return d.version }
func (d *Dealer) CreatedAt() time.Time { return d.createdAt }
func (d *Dealer) UpdatedAt() time.Time { return d.updatedAt }
func (d *Dealer) IsNew() bool          { return d.isNew }

var _ shared.AggregateRoot = (*Dealer)(nil)
