package taxonomy

// CreateCategoryRequest 创建分类；slug 为空时由名称生成
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Slug string `json:"slug" binding:"omitempty,max=100"`
}

// CreateMakeRequest 在分类下创建品牌
type CreateMakeRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CreateModelRequest 在品牌下创建车型
type CreateModelRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type MakeResponse struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

type ModelResponse struct {
	ID     string `json:"id"`
	MakeID string `json:"make_id"`
	Name   string `json:"name"`
}
