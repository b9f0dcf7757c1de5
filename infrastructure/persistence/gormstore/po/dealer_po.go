package po

import (
	"time"

	"carmarket/domain/dealer"
)

// DealerPO 经销商持久化对象；user_id 唯一（一个用户一个档案）
type DealerPO struct {
	ID           string    `gorm:"primaryKey;size:64"`
	UserID       string    `gorm:"size:64;uniqueIndex;not null"`
	Name         string    `gorm:"size:255;not null"`
	Description  string    `gorm:"type:text"`
	Phone        string    `gorm:"size:32"`
	CityID       string    `gorm:"size:64"`
	Rating       float64   `gorm:"not null;default:0"`
	ReviewsCount int       `gorm:"not null;default:0"`
	IsVerified   bool      `gorm:"not null;default:false"`
	IsFeatured   bool      `gorm:"not null;default:false;index"`
	Version      int       `gorm:"default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (DealerPO) TableName() string {
	return "dealers"
}

func FromDealerDomain(d *dealer.Dealer) *DealerPO {
	dto := d.ToDTO()
	return &DealerPO{
		ID:           dto.ID,
		UserID:       dto.UserID,
		Name:         dto.Profile.Name,
		Description:  dto.Profile.Description,
		Phone:        dto.Profile.Phone,
		CityID:       dto.Profile.CityID,
		Rating:       dto.Rating,
		ReviewsCount: dto.ReviewsCount,
		IsVerified:   dto.Verified,
		IsFeatured:   dto.Featured,
		Version:      dto.Version,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
	}
}

func (po *DealerPO) ToDomain() *dealer.Dealer {
	return dealer.RebuildFromDTO(dealer.ReconstructionDTO{
		ID:     po.ID,
		UserID: po.UserID,
		Profile: dealer.Profile{
			Name:        po.Name,
			Description: po.Description,
			Phone:       po.Phone,
			CityID:      po.CityID,
		},
		Rating:       po.Rating,
		ReviewsCount: po.ReviewsCount,
		Verified:     po.IsVerified,
		Featured:     po.IsFeatured,
		Version:      po.Version,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	})
}
