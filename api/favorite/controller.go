package favorite

import (
	"carmarket/api/ctxutil"
	"carmarket/api/middleware"
	"carmarket/api/response"
	favoriteapp "carmarket/application/favorite"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service *favoriteapp.ApplicationService
	auth    *middleware.Authenticator
}

func NewController(service *favoriteapp.ApplicationService, auth *middleware.Authenticator) *Controller {
	return &Controller{service: service, auth: auth}
}

// RegisterRoutes 收藏端点均需登录
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	authed := router.Group("", c.auth.Required())
	{
		authed.POST("/listings/:id/favorite", c.Toggle)
		authed.GET("/me/favorites", c.ListMine)
	}
}

// Toggle 同一请求重复提交会在收藏与取消之间切换
func (c *Controller) Toggle(ctx *gin.Context) {
	result, err := c.service.Toggle(ctx.Request.Context(), ctxutil.UserID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, "Favorite toggled")
}

func (c *Controller) ListMine(ctx *gin.Context) {
	page, err := ctxutil.QueryInt(ctx, "page")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	perPage, err := ctxutil.QueryInt(ctx, "per_page")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	result, err := c.service.ListMine(ctx.Request.Context(), ctxutil.UserID(ctx), page, perPage)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandlePage(ctx, result, "Favorites retrieved successfully")
}
