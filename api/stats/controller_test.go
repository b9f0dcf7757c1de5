package stats

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carmarket/api/ctxutil"
	"carmarket/api/middleware"
	statsapp "carmarket/application/stats"
	"carmarket/config"
	"carmarket/infrastructure/cache"
	"carmarket/infrastructure/persistence/memory"

	"github.com/gin-gonic/gin"
)

func TestStatsEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	statsCache := cache.NewStatsCache(cache.NewMemoryBackend(time.Now), "stats")
	svc := statsapp.NewApplicationService(memory.NewStatsReader(store), statsCache, func(string) time.Duration { return time.Hour })
	auth := middleware.NewAuthenticator(config.AuthConfig{JWTSecret: "test-secret"})
	router := gin.New()
	NewController(svc, auth).RegisterRoutes(router.Group("/api/v1"))

	call := func(method, path, role string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if role != "" {
			token, _ := auth.Issue("u-1", role, time.Hour)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := call(http.MethodGet, "/api/v1/stats/landing", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("landing: status %d", w.Code)
	}
	var landing struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &landing); err != nil {
		t.Fatal(err)
	}
	if _, ok := landing.Data["computed_at"]; !ok {
		t.Errorf("landing payload missing computed_at: %v", landing.Data)
	}

	if w := call(http.MethodGet, "/api/v1/stats/categories", "", nil); w.Code != http.StatusOK {
		t.Errorf("categories: status %d", w.Code)
	}
	if w := call(http.MethodPost, "/api/v1/stats/invalidate", "user", nil); w.Code != http.StatusForbidden {
		t.Errorf("non-admin invalidate: status %d", w.Code)
	}
	if w := call(http.MethodPost, "/api/v1/stats/invalidate", ctxutil.RoleAdmin, nil); w.Code != http.StatusOK {
		t.Errorf("invalidate all: status %d", w.Code)
	}
	if w := call(http.MethodPost, "/api/v1/stats/invalidate", ctxutil.RoleAdmin, []byte(`{"keys":["landing_stats"]}`)); w.Code != http.StatusOK {
		t.Errorf("invalidate one: status %d", w.Code)
	}
	if w := call(http.MethodPost, "/api/v1/stats/invalidate", ctxutil.RoleAdmin, []byte(`{"keys":["bogus"]}`)); w.Code != http.StatusBadRequest {
		t.Errorf("unknown key: status %d", w.Code)
	}
}
