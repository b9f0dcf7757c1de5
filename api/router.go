package api

import (
	"net/http"

	"carmarket/api/middleware"
	"carmarket/config"

	"github.com/gin-gonic/gin"
)

// ControllerRegister 控制器在 /api/v1 分组下注册自己的路由
type ControllerRegister interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// MiddlewareRegister 额外的全局中间件，挂在默认中间件之后
type MiddlewareRegister interface {
	Handler() gin.HandlerFunc
}

// MiddlewareFunc 把普通 gin.HandlerFunc 适配为 MiddlewareRegister
type MiddlewareFunc gin.HandlerFunc

// Handler implements MiddlewareRegister
func (f MiddlewareFunc) Handler() gin.HandlerFunc {
	return gin.HandlerFunc(f)
}

// Route 挂在根路径上的自定义路由
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// Router Route configuration
type Router struct {
	engine       *gin.Engine
	config       *config.Config
	controllers  []ControllerRegister
	customRoutes []Route
}

// NewRouter Create route configuration
func NewRouter(cfg *config.Config, controllers []ControllerRegister, middlewares []MiddlewareRegister, routes []Route) *Router {
	// Set Gin mode based on environment
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Add middleware (order is important)
	engine.Use(middleware.RequestIDMiddleware())                      // 1. Generate request ID first
	engine.Use(middleware.RecoveryMiddleware())                       // 2. Recovery middleware
	engine.Use(middleware.LoggingMiddleware())                        // 3. Logging middleware
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))                  // 4. CORS
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 5. Rate limiting
	for _, m := range middlewares {
		engine.Use(m.Handler())
	}

	return &Router{
		engine:       engine,
		config:       cfg,
		controllers:  controllers,
		customRoutes: routes,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	for _, c := range r.controllers {
		c.RegisterRoutes(apiGroup)
	}

	for _, route := range r.customRoutes {
		r.engine.Handle(route.Method, route.Path, route.Handler)
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
