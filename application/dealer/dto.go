package dealer

import "time"

type CreateDealerRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=5000"`
	Phone       string `json:"phone" binding:"max=50"`
	CityID      string `json:"city_id"`
}

// UpdateDealerRequest nil 字段保持原值
type UpdateDealerRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	CityID      *string `json:"city_id"`
}

type DealerResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Phone        string    `json:"phone"`
	CityID       string    `json:"city_id"`
	Rating       float64   `json:"rating"`
	ReviewsCount int       `json:"reviews_count"`
	Verified     bool      `json:"is_verified"`
	Featured     bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
