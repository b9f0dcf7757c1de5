package review

import (
	"net/http"

	"carmarket/api/ctxutil"
	"carmarket/api/middleware"
	"carmarket/api/response"
	reviewapp "carmarket/application/review"

	"github.com/gin-gonic/gin"
)

// Controller 评价；每次变更都会返回信息的最新评分
type Controller struct {
	service *reviewapp.ApplicationService
	auth    *middleware.Authenticator
}

func NewController(service *reviewapp.ApplicationService, auth *middleware.Authenticator) *Controller {
	return &Controller{service: service, auth: auth}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/listings/:id/reviews", c.List)
	router.POST("/listings/:id/reviews", c.auth.Required(), c.Create)

	reviews := router.Group("/reviews")
	{
		reviews.PATCH("/:id", c.auth.Required(), c.Update)
		reviews.DELETE("/:id", c.auth.Required(), c.Delete)
		reviews.POST("/:id/verify", c.auth.Admin(), c.Verify)
		reviews.POST("/:id/unverify", c.auth.Admin(), c.Unverify)
	}
}

// List ?verified_only=true 只返回已审核评价
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

	result, err := c.service.ListByListing(ctx.Request.Context(), ctx.Param("id"), ctxutil.QueryBool(ctx, "verified_only"), page, perPage)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandlePage(ctx, result, "Reviews retrieved successfully")
}

func (c *Controller) Create(ctx *gin.Context) {
	var req reviewapp.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "Invalid request parameters", http.StatusBadRequest)
		return
	}
	result, err := c.service.Create(ctx.Request.Context(), ctxutil.UserID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, result, "Review submitted successfully")
}

func (c *Controller) Update(ctx *gin.Context) {
	var req reviewapp.UpdateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "Invalid request parameters", http.StatusBadRequest)
		return
	}
	result, err := c.service.Update(ctx.Request.Context(), ctxutil.UserID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, "Review updated successfully")
}

// Delete 作者本人或管理员
func (c *Controller) Delete(ctx *gin.Context) {
	result, err := c.service.Delete(ctx.Request.Context(), ctxutil.UserID(ctx), ctxutil.IsAdmin(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, "Review deleted successfully")
}

func (c *Controller) Verify(ctx *gin.Context) {
	result, err := c.service.Verify(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, "Review verified")
}

func (c *Controller) Unverify(ctx *gin.Context) {
	result, err := c.service.Unverify(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, "Review unverified")
}
