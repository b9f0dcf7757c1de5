package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"carmarket/api/middleware"
	"carmarket/config"

	"github.com/gin-gonic/gin"
)

type pingController struct{}

func (pingController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

func TestRouterWiring(t *testing.T) {
	cfg := &config.Config{
		App:  config.AppConfig{Name: "catalog", Version: "1.2.3", Env: "test"},
		CORS: config.CORSConfig{AllowOrigins: []string{"*"}},
	}
	tagged := MiddlewareFunc(func(c *gin.Context) {
		c.Header("X-Extra", "yes")
		c.Next()
	})
	r := NewRouter(cfg,
		[]ControllerRegister{pingController{}},
		[]MiddlewareRegister{tagged},
		[]Route{{Method: http.MethodGet, Path: "/custom", Handler: func(c *gin.Context) { c.Status(http.StatusAccepted) }}},
	)
	r.SetupRoutes()
	engine := r.GetEngine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Errorf("controller route: %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Extra") != "yes" {
		t.Error("extra middleware not applied")
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("request id middleware not applied")
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/custom", nil))
	if w.Code != http.StatusAccepted {
		t.Errorf("custom route: %d", w.Code)
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	var info map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info["name"] != "catalog" || info["version"] != "1.2.3" {
		t.Errorf("root info = %v", info)
	}
}
