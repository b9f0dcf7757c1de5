package review

import "time"

// CreateReviewRequest 创建评价请求
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"max=255"`
	Comment string `json:"comment" binding:"max=5000"`
}

// UpdateReviewRequest 修改评价请求
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"max=255"`
	Comment string `json:"comment" binding:"max=5000"`
}

// ReviewResponse 评价返回模型
type ReviewResponse struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listing_id"`
	ReviewerID string    `json:"reviewer_user_id"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title"`
	Comment    string    `json:"comment"`
	Verified   bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListingRating 重算后的信息评分
type ListingRating struct {
	ListingID     string  `json:"listing_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewsCount  int     `json:"reviews_count"`
}

// MutationResponse 评价变更结果，附带信息的最新评分
type MutationResponse struct {
	Review  *ReviewResponse `json:"review,omitempty"`
	Listing ListingRating   `json:"listing"`
}
