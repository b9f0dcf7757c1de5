/*
Package listing 车辆信息发布子域

聚合根 Listing 维护:
1. 分类层级引用（category/make/model，由 taxonomy.Resolver 在持久化前校验）
2. 车辆属性与图片
3. 派生计数器（浏览数、收藏数、平均评分、评价数）

派生计数器只允许聚合引擎通过仓储的专用方法写入，Patch/Update 不会触碰这些字段。
*/
package listing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"carmarket/domain/shared"

	"github.com/google/uuid"
)

const minYear = 1886

// Listing 车辆信息聚合根
type Listing struct {
	shared.EventRecorder

	id             string
	ownerID        string
	categoryID     string
	makeID         string
	modelID        string
	title          string
	description    string
	price          shared.Price
	year           int
	mileage        int
	color          string
	transmission   Transmission
	fuelType       FuelType
	bodyType       BodyType
	condition      Condition
	location       string
	cityID         string
	registrationID string
	features       []string
	images         []string
	certified      bool
	featured       bool
	sold           bool
	viewsCount     int
	favoritesCount int
	averageRating  float64
	reviewsCount   int
	version        int
	createdAt      time.Time
	updatedAt      time.Time
	isNew          bool
}

// Attributes 发布/更新时的车辆属性（分类 ID 已由调用方解析校验）
type Attributes struct {
	CategoryID     string
	MakeID         string
	ModelID        string
	Title          string
	Description    string
	Price          shared.Price
	Year           int
	Mileage        int
	Color          string
	Transmission   Transmission
	FuelType       FuelType
	BodyType       BodyType
	Condition      Condition
	Location       string
	CityID         string
	RegistrationID string
	Features       []string
	Images         []string
	Certified      bool
	Featured       bool
}

// NewListing 创建车辆信息聚合根
func NewListing(ownerID string, attrs Attributes) (*Listing, error) {
	if ownerID == "" {
		return nil, shared.NewValidationError("listing", "owner_id", "owner is required")
	}
	if err := validateAttributes(attrs); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate listing ID: %w", err)
	}

	now := time.Now()
	l := &Listing{
		id:        id.String(),
		ownerID:   ownerID,
		createdAt: now,
		updatedAt: now,
		isNew:     true,
	}
	l.apply(attrs)
	l.Record(NewCreatedEvent(l))
	return l, nil
}

func validateAttributes(a Attributes) error {
	if a.CategoryID == "" || a.MakeID == "" || a.ModelID == "" {
		return shared.NewValidationError("listing", "model_id", "category, make and model are required")
	}
	if strings.TrimSpace(a.Title) == "" {
		return shared.NewValidationError("listing", "title", "title is required")
	}
	if !a.Price.IsPositive() {
		return shared.NewValidationError("listing", "price", "price must be positive")
	}
	if a.Year < minYear || a.Year > time.Now().Year()+1 {
		return shared.NewValidationError("listing", "year", fmt.Sprintf("year must be between %d and %d", minYear, time.Now().Year()+1))
	}
	if a.Mileage < 0 {
		return shared.NewValidationError("listing", "mileage", "mileage must not be negative")
	}
	if _, ok := ParseCondition(string(a.Condition)); !ok {
		return shared.NewValidationError("listing", "condition", "unknown condition "+string(a.Condition))
	}
	if a.Transmission != "" {
		if _, ok := ParseTransmission(string(a.Transmission)); !ok {
			return shared.NewValidationError("listing", "transmission", "unknown transmission "+string(a.Transmission))
		}
	}
	if a.FuelType != "" {
		if _, ok := ParseFuelType(string(a.FuelType)); !ok {
			return shared.NewValidationError("listing", "fuel_type", "unknown fuel type "+string(a.FuelType))
		}
	}
	if a.BodyType != "" {
		if _, ok := ParseBodyType(string(a.BodyType)); !ok {
			return shared.NewValidationError("listing", "body_type", "unknown body type "+string(a.BodyType))
		}
	}
	return nil
}

func (l *Listing) apply(a Attributes) {
	l.categoryID = a.CategoryID
	l.makeID = a.MakeID
	l.modelID = a.ModelID
	l.title = strings.TrimSpace(a.Title)
	l.description = strings.TrimSpace(a.Description)
	l.price = a.Price
	l.year = a.Year
	l.mileage = a.Mileage
	l.color = a.Color
	l.transmission = a.Transmission
	l.fuelType = a.FuelType
	l.bodyType = a.BodyType
	l.condition = a.Condition
	l.location = a.Location
	l.cityID = a.CityID
	l.registrationID = a.RegistrationID
	l.features = NormalizeFeatures(a.Features)
	l.images = append([]string(nil), a.Images...)
	l.certified = a.Certified
	l.featured = a.Featured
}

// NormalizeFeatures 去重、去空白并排序
func NormalizeFeatures(features []string) []string {
	seen := make(map[string]struct{}, len(features))
	out := make([]string, 0, len(features))
	for _, f := range features {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Attributes 返回当前属性快照，供局部更新合并使用
func (l *Listing) Attributes() Attributes {
	return Attributes{
		CategoryID:     l.categoryID,
		MakeID:         l.makeID,
		ModelID:        l.modelID,
		Title:          l.title,
		Description:    l.description,
		Price:          l.price,
		Year:           l.year,
		Mileage:        l.mileage,
		Color:          l.color,
		Transmission:   l.transmission,
		FuelType:       l.fuelType,
		BodyType:       l.bodyType,
		Condition:      l.condition,
		Location:       l.location,
		CityID:         l.cityID,
		RegistrationID: l.registrationID,
		Features:       l.Features(),
		Images:         l.Images(),
		Certified:      l.certified,
		Featured:       l.featured,
	}
}

// ============================================================================
// 行为方法
// ============================================================================

// EnsureOwnedBy 只有发布者可以修改或删除
func (l *Listing) EnsureOwnedBy(userID string) error {
	if l.ownerID != userID {
		return shared.NewForbiddenError("listing", "only the owner can modify this listing")
	}
	return nil
}

// Update 替换车辆属性，计数器不受影响
func (l *Listing) Update(attrs Attributes) error {
	if err := validateAttributes(attrs); err != nil {
		return err
	}
	l.apply(attrs)
	l.updatedAt = time.Now()
	l.Record(NewUpdatedEvent(l))
	return nil
}

// MarkSold 标记为已售出（计入成交数统计）
func (l *Listing) MarkSold() error {
	if l.sold {
		return shared.NewConflictError("listing", "listing is already sold")
	}
	l.sold = true
	l.updatedAt = time.Now()
	l.Record(NewSoldEvent(l.id, l.ownerID))
	return nil
}

// AddImage 追加图片引用
func (l *Listing) AddImage(path string) {
	l.images = append(l.images, path)
	l.updatedAt = time.Now()
}

// MarkRemoved 记录删除事件
func (l *Listing) MarkRemoved() {
	l.Record(NewDeletedEvent(l.id, l.ownerID))
}

// IncrementVersionForSave 持久化成功后调用
func (l *Listing) IncrementVersionForSave() {
	l.version++
}

// ClearNewFlag 首次保存后清除新建标记
func (l *Listing) ClearNewFlag() {
	l.isNew = false
}

// ============================================================================
// ReconstructionDTO - 仅供仓储层使用
// ============================================================================

// ReconstructionDTO 从存储重建聚合根的数据传输对象
type ReconstructionDTO struct {
	ID             string
	OwnerID        string
	Attributes     Attributes
	Sold           bool
	ViewsCount     int
	FavoritesCount int
	AverageRating  float64
	ReviewsCount   int
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RebuildFromDTO 重建聚合根（不记录事件）
func RebuildFromDTO(dto ReconstructionDTO) *Listing {
	l := &Listing{
		id:             dto.ID,
		ownerID:        dto.OwnerID,
		sold:           dto.Sold,
		viewsCount:     dto.ViewsCount,
		favoritesCount: dto.FavoritesCount,
		averageRating:  dto.AverageRating,
		reviewsCount:   dto.ReviewsCount,
		version:        dto.Version,
		createdAt:      dto.CreatedAt,
		updatedAt:      dto.UpdatedAt,
	}
	l.apply(dto.Attributes)
	// 重建时保留存储中的原始顺序
	l.features = append([]string(nil), dto.Attributes.Features...)
	return l
}

// ToDTO 导出完整状态，供仓储层持久化
func (l *Listing) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:             l.id,
		OwnerID:        l.ownerID,
		Attributes:     l.Attributes(),
		Sold:           l.sold,
		ViewsCount:     l.viewsCount,
		FavoritesCount: l.favoritesCount,
		AverageRating:  l.averageRating,
		ReviewsCount:   l.reviewsCount,
		Version:        l.version,
		CreatedAt:      l.createdAt,
		UpdatedAt:      l.updatedAt,
	}
}

// ============================================================================
// Getters
// ============================================================================

func (l *Listing) ID() string                 { return l.id }
func (l *Listing) OwnerID() string            { return l.ownerID }
func (l *Listing) CategoryID() string         { return l.categoryID }
func (l *Listing) MakeID() string             { return l.makeID }
func (l *Listing) ModelID() string            { return l.modelID }
func (l *Listing) Title() string              { return l.title }
func (l *Listing) Description() string        { return l.description }
func (l *Listing) Price() shared.Price        { return l.price }
func (l *Listing) Year() int                  { return l.year }
func (l *Listing) Mileage() int               { return l.mileage }
func (l *Listing) Color() string              { return l.color }
func (l *Listing) Transmission() Transmission { return l.transmission }
func (l *Listing) FuelType() FuelType         { return l.fuelType }
func (l *Listing) BodyType() BodyType         { return l.bodyType }
func (l *Listing) Condition() Condition       { return l.condition }
func (l *Listing) Location() string           { return l.location }
func (l *Listing) CityID() string             { return l.cityID }
func (l *Listing) RegistrationID() string     { return l.registrationID }
func (l *Listing) Certified() bool            { return l.certified }
func (l *Listing) IsFeatured() bool           { return l.featured }
func (l *Listing) IsSold() bool               { return l.sold }
func (l *Listing) ViewsCount() int            { return l.viewsCount }
func (l *Listing) FavoritesCount() int        { return l.favoritesCount }
func (l *Listing) AverageRating() float64     { return l.averageRating }
func (l *Listing) ReviewsCount() int          { return l.reviewsCount }
func (l *Listing) Version() int               { return l.version }
func (l *Listing) CreatedAt() time.Time       { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time       { return l.updatedAt }
func (l *Listing) IsNew() bool                { return l.isNew }

// Features 返回副本
func (l *Listing) Features() []string { return append([]string(nil), l.features...) }

// Images 返回副本
func (l *Listing) Images() []string { return append([]string(nil), l.images...) }

var _ shared.AggregateRoot = (*Listing)(nil)
