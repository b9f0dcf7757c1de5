package stats

import (
	"net/http"

	"carmarket/api/middleware"
	"carmarket/api/response"
	statsapp "carmarket/application/stats"

	"github.com/gin-gonic/gin"
)

// InvalidateRequest keys 为空时清除全部统计缓存
type InvalidateRequest struct {
	Keys []string `json:"keys"`
}

type Controller struct {
	service *statsapp.ApplicationService
	auth    *middleware.Authenticator
}

func NewController(service *statsapp.ApplicationService, auth *middleware.Authenticator) *Controller {
	return &Controller{service: service, auth: auth}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/stats")
	{
		stats.GET("/landing", c.Landing)
		stats.GET("/categories", c.Categories)
		stats.POST("/invalidate", c.auth.Admin(), c.Invalidate)
	}
}

func (c *Controller) Landing(ctx *gin.Context) {
	result, err := c.service.Landing(ctx.Request.Context())
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, "Landing stats retrieved successfully")
}

func (c *Controller) Categories(ctx *gin.Context) {
	result, err := c.service.Categories(ctx.Request.Context())
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, "Category stats retrieved successfully")
}

// Invalidate 请求体可省略
func (c *Controller) Invalidate(ctx *gin.Context) {
	var req InvalidateRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.HandleError(ctx, err, "Invalid request parameters", http.StatusBadRequest)
			return
		}
	}
	result, err := c.service.Invalidate(ctx.Request.Context(), req.Keys...)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, "Stats cache invalidated")
}
