package listing

import (
	"net/http"

	"carmarket/api/ctxutil"
	"carmarket/api/middleware"
	"carmarket/api/response"
	listingapp "carmarket/application/listing"
	"carmarket/domain/listing"
	"carmarket/infrastructure/storage"
	apperrors "carmarket/pkg/errors"

	"github.com/gin-gonic/gin"
)

// imageField multipart 表单中的图片字段
const imageField = "image"

// Controller 车辆信息
type Controller struct {
	service *listingapp.ApplicationService
	auth    *middleware.Authenticator
}

func NewController(service *listingapp.ApplicationService, auth *middleware.Authenticator) *Controller {
	return &Controller{service: service, auth: auth}
}

// RegisterRoutes Register listing routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	listings := router.Group("/listings")
	{
		listings.GET("", c.Search)
		listings.GET("/featured", c.Featured)
		listings.GET("/:id", c.auth.Optional(), c.Get)
		listings.GET("/:id/similar", c.Similar)

		owner := listings.Group("", c.auth.Required())
		owner.POST("", c.Create)
		owner.PATCH("/:id", c.Update)
		owner.DELETE("/:id", c.Delete)
		owner.POST("/:id/sold", c.MarkSold)
		owner.POST("/:id/images", c.AddImage)
	}

	router.GET("/me/listings", c.auth.Required(), c.MyListings)
}

// Search 查询参数原样交给过滤构建器
func (c *Controller) Search(ctx *gin.Context) {
	page, err := c.service.Search(ctx.Request.Context(), listing.FilterParams(ctxutil.QueryParams(ctx)))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandlePage(ctx, page, "Listings retrieved successfully")
}

func (c *Controller) Featured(ctx *gin.Context) {
	groups, err := c.service.Featured(ctx.Request.Context())
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, groups, "Featured listings retrieved successfully")
}

// Get 每次访问都计一次浏览
func (c *Controller) Get(ctx *gin.Context) {
	l, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, l, "Listing retrieved successfully")
}

func (c *Controller) Similar(ctx *gin.Context) {
	items, err := c.service.Similar(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, items, "Similar listings retrieved successfully")
}

func (c *Controller) MyListings(ctx *gin.Context) {
	page, err := c.service.MyListings(ctx.Request.Context(), ctxutil.UserID(ctx), listing.FilterParams(ctxutil.QueryParams(ctx)))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandlePage(ctx, page, "Listings retrieved successfully")
}

func (c *Controller) Create(ctx *gin.Context) {
	var req listingapp.CreateListingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "Invalid request parameters", http.StatusBadRequest)
		return
	}
	l, err := c.service.Create(ctx.Request.Context(), ctxutil.UserID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, l, "Listing created successfully")
}

func (c *Controller) Update(ctx *gin.Context) {
	var req listingapp.UpdateListingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "Invalid request parameters", http.StatusBadRequest)
		return
	}
	l, err := c.service.Update(ctx.Request.Context(), ctxutil.UserID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, l, "Listing updated successfully")
}

func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.service.Delete(ctx.Request.Context(), ctxutil.UserID(ctx), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, nil, "Listing deleted successfully")
}

func (c *Controller) MarkSold(ctx *gin.Context) {
	l, err := c.service.MarkSold(ctx.Request.Context(), ctxutil.UserID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, l, "Listing marked as sold")
}

// AddImage multipart 上传，字段名 image
func (c *Controller) AddImage(ctx *gin.Context) {
	header, err := ctx.FormFile(imageField)
	if err != nil {
		response.HandleError(ctx, err, "image file is required", http.StatusBadRequest)
		return
	}
	file, err := header.Open()
	if err != nil {
		response.HandleAppError(ctx, apperrors.Wrap(err, apperrors.CodeBadRequest, "failed to read uploaded file"))
		return
	}
	defer file.Close()

	l, err := c.service.AddImage(ctx.Request.Context(), ctxutil.UserID(ctx), ctx.Param("id"), storage.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, l, "Image uploaded successfully")
}
