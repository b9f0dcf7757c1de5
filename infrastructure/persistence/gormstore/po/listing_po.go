package po

import (
	"time"

	"carmarket/domain/listing"
	"carmarket/domain/shared"

	"gorm.io/datatypes"
)

// ListingPO 车辆信息持久化对象
// 注意：仅用于数据库映射，不含业务逻辑，禁止定义 GORM 关联
type ListingPO struct {
	ID             string                      `gorm:"primaryKey;size:64"`
	OwnerID        string                      `gorm:"size:64;index;not null"`
	CategoryID     string                      `gorm:"size:64;index;not null"`
	MakeID         string                      `gorm:"size:64;index;not null"`
	ModelID        string                      `gorm:"size:64;index;not null"`
	Title          string                      `gorm:"size:255;not null"`
	Description    string                      `gorm:"type:text"`
	PriceCents     int64                       `gorm:"index;not null"`
	Year           int                         `gorm:"index;not null"`
	Mileage        int                         `gorm:"not null"`
	Color          string                      `gorm:"size:50"`
	Transmission   string                      `gorm:"size:20"`
	FuelType       string                      `gorm:"size:20"`
	BodyType       string                      `gorm:"size:20"`
	Condition      string                      `gorm:"column:vehicle_condition;size:32;index;not null"` // condition 是 MySQL 保留字
	Location       string                      `gorm:"size:255"`
	CityID         string                      `gorm:"size:64"`
	RegistrationID string                      `gorm:"size:64"`
	Features       datatypes.JSONSlice[string] `gorm:"type:json"`
	Images         datatypes.JSONSlice[string] `gorm:"type:json"`
	Certified      bool                        `gorm:"not null;default:false"`
	IsFeatured     bool                        `gorm:"index;not null;default:false"`
	IsSold         bool                        `gorm:"index;not null;default:false"`
	ViewsCount     int                         `gorm:"not null;default:0"`
	FavoritesCount int                         `gorm:"not null;default:0"`
	AverageRating  float64                     `gorm:"not null;default:0"`
	ReviewsCount   int                         `gorm:"not null;default:0"`
	Version        int                         `gorm:"default:0"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time                   `gorm:"autoUpdateTime"`
}

func (ListingPO) TableName() string {
	return "listings"
}

// FromListingDomain 领域模型 → 持久化对象
func FromListingDomain(l *listing.Listing) *ListingPO {
	dto := l.ToDTO()
	a := dto.Attributes
	return &ListingPO{
		ID:             dto.ID,
		OwnerID:        dto.OwnerID,
		CategoryID:     a.CategoryID,
		MakeID:         a.MakeID,
		ModelID:        a.ModelID,
		Title:          a.Title,
		Description:    a.Description,
		PriceCents:     a.Price.Cents(),
		Year:           a.Year,
		Mileage:        a.Mileage,
		Color:          a.Color,
		Transmission:   string(a.Transmission),
		FuelType:       string(a.FuelType),
		BodyType:       string(a.BodyType),
		Condition:      string(a.Condition),
		Location:       a.Location,
		CityID:         a.CityID,
		RegistrationID: a.RegistrationID,
		Features:       datatypes.NewJSONSlice(nonNil(a.Features)),
		Images:         datatypes.NewJSONSlice(nonNil(a.Images)),
		Certified:      a.Certified,
		IsFeatured:     a.Featured,
		IsSold:         dto.Sold,
		ViewsCount:     dto.ViewsCount,
		FavoritesCount: dto.FavoritesCount,
		AverageRating:  dto.AverageRating,
		ReviewsCount:   dto.ReviewsCount,
		Version:        dto.Version,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	}
}

// AttributeColumns 属性更新写入的列（不含派生计数器）
func (po *ListingPO) AttributeColumns() map[string]interface{} {
	return map[string]interface{}{
		"category_id":       po.CategoryID,
		"make_id":           po.MakeID,
		"model_id":          po.ModelID,
		"title":             po.Title,
		"description":       po.Description,
		"price_cents":       po.PriceCents,
		"year":              po.Year,
		"mileage":           po.Mileage,
		"color":             po.Color,
		"transmission":      po.Transmission,
		"fuel_type":         po.FuelType,
		"body_type":         po.BodyType,
		"vehicle_condition": po.Condition,
		"location":          po.Location,
		"city_id":           po.CityID,
		"registration_id":   po.RegistrationID,
		"features":          po.Features,
		"images":            po.Images,
		"certified":         po.Certified,
		"is_featured":       po.IsFeatured,
		"is_sold":           po.IsSold,
		"updated_at":        po.UpdatedAt,
	}
}

// ToDomain 持久化对象 → 领域模型
func (po *ListingPO) ToDomain() *listing.Listing {
	return listing.RebuildFromDTO(listing.ReconstructionDTO{
		ID:      po.ID,
		OwnerID: po.OwnerID,
		Attributes: listing.Attributes{
			CategoryID:     po.CategoryID,
			MakeID:         po.MakeID,
			ModelID:        po.ModelID,
			Title:          po.Title,
			Description:    po.Description,
			Price:          shared.NewPrice(po.PriceCents),
			Year:           po.Year,
			Mileage:        po.Mileage,
			Color:          po.Color,
			Transmission:   listing.Transmission(po.Transmission),
			FuelType:       listing.FuelType(po.FuelType),
			BodyType:       listing.BodyType(po.BodyType),
			Condition:      listing.Condition(po.Condition),
			Location:       po.Location,
			CityID:         po.CityID,
			RegistrationID: po.RegistrationID,
			Features:       []string(po.Features),
			Images:         []string(po.Images),
			Certified:      po.Certified,
			Featured:       po.IsFeatured,
		},
		Sold:           po.IsSold,
		ViewsCount:     po.ViewsCount,
		FavoritesCount: po.FavoritesCount,
		AverageRating:  po.AverageRating,
		ReviewsCount:   po.ReviewsCount,
		Version:        po.Version,
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
