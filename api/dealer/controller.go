package dealer

import (
	"net/http"

	"carmarket/api/ctxutil"
	"carmarket/api/middleware"
	"carmarket/api/response"
	dealerapp "carmarket/application/dealer"

	"github.com/gin-gonic/gin"
)

// Controller 经销商资料
type Controller struct {
	service *dealerapp.ApplicationService
	auth    *middleware.Authenticator
}

func NewController(service *dealerapp.ApplicationService, auth *middleware.Authenticator) *Controller {
	return &Controller{service: service, auth: auth}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	dealers := router.Group("/dealers")
	{
		dealers.GET("", c.List)
		dealers.GET("/:id", c.Get)
		dealers.POST("", c.auth.Required(), c.Create)
		dealers.PATCH("/:id", c.auth.Required(), c.Update)
		dealers.DELETE("/:id", c.auth.Required(), c.Delete)
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
	result, err := c.service.List(ctx.Request.Context(), page, perPage)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandlePage(ctx, result, "Dealers retrieved successfully")
}

func (c *Controller) Get(ctx *gin.Context) {
	d, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, d, "Dealer retrieved successfully")
}

func (c *Controller) Create(ctx *gin.Context) {
	var req dealerapp.CreateDealerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "Invalid request parameters", http.StatusBadRequest)
		return
	}
	d, err := c.service.Create(ctx.Request.Context(), ctxutil.UserID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, d, "Dealer created successfully")
}

func (c *Controller) Update(ctx *gin.Context) {
	var req dealerapp.UpdateDealerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "Invalid request parameters", http.StatusBadRequest)
		return
	}
	d, err := c.service.Update(ctx.Request.Context(), ctxutil.UserID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, d, "Dealer updated successfully")
}

func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.service.Delete(ctx.Request.Context(), ctxutil.UserID(ctx), ctxutil.IsAdmin(ctx), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, nil, "Dealer deleted successfully")
}
