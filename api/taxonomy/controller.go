package taxonomy

import (
	"net/http"

	"carmarket/api/middleware"
	"carmarket/api/response"
	taxonomyapp "carmarket/application/taxonomy"

	"github.com/gin-gonic/gin"
)

// Controller 分类、品牌、车型
type Controller struct {
	service *taxonomyapp.ApplicationService
	auth    *middleware.Authenticator
}

func NewController(service *taxonomyapp.ApplicationService, auth *middleware.Authenticator) *Controller {
	return &Controller{service: service, auth: auth}
}

// RegisterRoutes 浏览公开，创建需要管理员
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/categories", c.ListCategories)
	router.GET("/categories/:id/makes", c.ListMakes)
	router.GET("/makes/:id/models", c.ListModels)

	admin := router.Group("", c.auth.Admin())
	{
		admin.POST("/categories", c.CreateCategory)
		admin.POST("/categories/:id/makes", c.CreateMake)
		admin.POST("/makes/:id/models", c.CreateModel)
	}
}

func (c *Controller) ListCategories(ctx *gin.Context) {
	categories, err := c.service.ListCategories(ctx.Request.Context())
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, categories, "Categories retrieved successfully")
}

func (c *Controller) ListMakes(ctx *gin.Context) {
	makes, err := c.service.ListMakes(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, makes, "Makes retrieved successfully")
}

func (c *Controller) ListModels(ctx *gin.Context) {
	models, err := c.service.ListModels(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, models, "Models retrieved successfully")
}

func (c *Controller) CreateCategory(ctx *gin.Context) {
	var req taxonomyapp.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "Invalid request parameters", http.StatusBadRequest)
		return
	}
	category, err := c.service.CreateCategory(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, category, "Category created successfully")
}

func (c *Controller) CreateMake(ctx *gin.Context) {
	var req taxonomyapp.CreateMakeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "Invalid request parameters", http.StatusBadRequest)
		return
	}
	mk, err := c.service.CreateMake(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, mk, "Make created successfully")
}

func (c *Controller) CreateModel(ctx *gin.Context) {
	var req taxonomyapp.CreateModelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "Invalid request parameters", http.StatusBadRequest)
		return
	}
	model, err := c.service.CreateModel(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, model, "Model created successfully")
}
