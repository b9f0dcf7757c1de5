package viewing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carmarket/api/middleware"
	viewingapp "carmarket/application/viewing"
	"carmarket/config"
	"carmarket/infrastructure/persistence/memory"

	"github.com/gin-gonic/gin"
)

func TestRecentlyViewedEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	views := memory.NewViewingRepository(store)
	ctx := context.Background()
	now := time.Now()
	for i, id := range []string{"l-1", "l-2"} {
		if _, err := views.Touch(ctx, "u-1", id, now.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatal(err)
		}
	}

	auth := middleware.NewAuthenticator(config.AuthConfig{JWTSecret: "test-secret"})
	svc := viewingapp.NewApplicationService(views, memory.NewListingRepository(store), 10, 50)
	router := gin.New()
	NewController(svc, auth).RegisterRoutes(router.Group("/api/v1"))
	token, _ := auth.Issue("u-1", "user", time.Hour)

	call := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/v1/me/recently-viewed", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	var page struct {
		Data struct {
			Items []viewingapp.EntryResponse `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(call(http.MethodGet).Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if len(page.Data.Items) != 2 || page.Data.Items[0].ListingID != "l-2" {
		t.Errorf("expected newest first, got %+v", page.Data.Items)
	}

	var cleared struct {
		Data viewingapp.ClearResponse `json:"data"`
	}
	if err := json.Unmarshal(call(http.MethodDelete).Body.Bytes(), &cleared); err != nil {
		t.Fatal(err)
	}
	if cleared.Data.Removed != 2 {
		t.Errorf("removed = %d", cleared.Data.Removed)
	}
}
