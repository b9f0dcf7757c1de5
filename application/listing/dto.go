package listing

import (
	"encoding/json"
	"time"
)

// CreateListingRequest 发布车辆信息；price 为十进制数（最多两位小数）
type CreateListingRequest struct {
	CategoryID     string      `json:"category_id" binding:"required"`
	MakeID         string      `json:"make_id" binding:"required"`
	ModelID        string      `json:"model_id" binding:"required"`
	Title          string      `json:"title" binding:"required,max=255"`
	Description    string      `json:"description" binding:"max=5000"`
	Price          json.Number `json:"price" binding:"required"`
	Year           int         `json:"year" binding:"required"`
	Mileage        int         `json:"mileage" binding:"min=0"`
	Color          string      `json:"color" binding:"max=50"`
	Transmission   string      `json:"transmission_type" binding:"omitempty,transmission"`
	FuelType       string      `json:"fuel_type" binding:"omitempty,fuel_type"`
	BodyType       string      `json:"body_type" binding:"omitempty,body_type"`
	Condition      string      `json:"condition" binding:"required,condition"`
	Location       string      `json:"location" binding:"max=255"`
	CityID         string      `json:"city_id"`
	RegistrationID string      `json:"vehicle_registration_id"`
	Features       []string    `json:"features"`
	Certified      bool        `json:"certified"`
	Featured       bool        `json:"is_featured"`
}

// UpdateListingRequest 局部更新，nil 字段保持原值；计数器不可通过更新修改
type UpdateListingRequest struct {
	CategoryID     *string      `json:"category_id"`
	MakeID         *string      `json:"make_id"`
	ModelID        *string      `json:"model_id"`
	Title          *string      `json:"title" binding:"omitempty,max=255"`
	Description    *string      `json:"description" binding:"omitempty,max=5000"`
	Price          *json.Number `json:"price"`
	Year           *int         `json:"year"`
	Mileage        *int         `json:"mileage" binding:"omitempty,min=0"`
	Color          *string      `json:"color" binding:"omitempty,max=50"`
	Transmission   *string      `json:"transmission_type" binding:"omitempty,transmission"`
	FuelType       *string      `json:"fuel_type" binding:"omitempty,fuel_type"`
	BodyType       *string      `json:"body_type" binding:"omitempty,body_type"`
	Condition      *string      `json:"condition" binding:"omitempty,condition"`
	Location       *string      `json:"location" binding:"omitempty,max=255"`
	CityID         *string      `json:"city_id"`
	RegistrationID *string      `json:"vehicle_registration_id"`
	Features       *[]string    `json:"features"`
	Certified      *bool        `json:"certified"`
	Featured       *bool        `json:"is_featured"`
}

// ListingResponse 车辆信息返回模型
type ListingResponse struct {
	ID             string      `json:"id"`
	OwnerID        string      `json:"owner_user_id"`
	CategoryID     string      `json:"category_id"`
	MakeID         string      `json:"make_id"`
	ModelID        string      `json:"model_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Price          json.Number `json:"price"`
	Year           int         `json:"year"`
	Mileage        int         `json:"mileage"`
	Color          string      `json:"color"`
	Transmission   string      `json:"transmission_type"`
	FuelType       string      `json:"fuel_type"`
	BodyType       string      `json:"body_type"`
	Condition      string      `json:"condition"`
	Location       string      `json:"location"`
	CityID         string      `json:"city_id"`
	RegistrationID string      `json:"vehicle_registration_id"`
	Features       []string    `json:"features"`
	Images         []string    `json:"images"`
	Certified      bool        `json:"certified"`
	Featured       bool        `json:"is_featured"`
	Sold           bool        `json:"is_sold"`
	ViewsCount     int         `json:"views_count"`
	FavoritesCount int         `json:"favorites_count"`
	AverageRating  float64     `json:"average_rating"`
	ReviewsCount   int         `json:"reviews_count"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// FeaturedGroup 某一车况下的精选信息
type FeaturedGroup struct {
	Condition string            `json:"condition"`
	Listings  []ListingResponse `json:"listings"`
}
