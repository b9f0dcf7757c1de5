package viewing

import (
	"carmarket/api/ctxutil"
	"carmarket/api/middleware"
	"carmarket/api/response"
	viewingapp "carmarket/application/viewing"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service *viewingapp.ApplicationService
	auth    *middleware.Authenticator
}

func NewController(service *viewingapp.ApplicationService, auth *middleware.Authenticator) *Controller {
	return &Controller{service: service, auth: auth}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	me := router.Group("/me/recently-viewed", c.auth.Required())
	{
		me.GET("", c.List)
		me.DELETE("", c.Clear)
	}
}

func (c *Controller) List(ctx *gin.Context) {
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
	result, err := c.service.List(ctx.Request.Context(), ctxutil.UserID(ctx), page, perPage)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandlePage(ctx, result, "Recently viewed retrieved successfully")
}

func (c *Controller) Clear(ctx *gin.Context) {
	result, err := c.service.Clear(ctx.Request.Context(), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, "Recently viewed cleared")
}
