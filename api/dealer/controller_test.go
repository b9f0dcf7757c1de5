package dealer

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carmarket/api/ctxutil"
	"carmarket/api/middleware"
	dealerapp "carmarket/application/dealer"
	"carmarket/config"
	"carmarket/infrastructure/persistence/memory"
	"carmarket/infrastructure/persistence/retry"

	"github.com/gin-gonic/gin"
)

func TestDealerEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	svc := dealerapp.NewApplicationService(memory.NewDealerRepository(store), memory.NewUnitOfWorkFactory(store, retry.DefaultConfig), 10, 50)
	auth := middleware.NewAuthenticator(config.AuthConfig{JWTSecret: "test-secret"})
	router := gin.New()
	NewController(svc, auth).RegisterRoutes(router.Group("/api/v1"))

	call := func(method, path, userID, role string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			_ = json.NewEncoder(&buf).Encode(body)
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if userID != "" {
			token, _ := auth.Issue(userID, role, time.Hour)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := call(http.MethodPost, "/api/v1/dealers", "u-1", "user", map[string]string{"name": "Best Motors"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	var created struct {
		Data dealerapp.DealerResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	path := "/api/v1/dealers/" + created.Data.ID

	if w := call(http.MethodPost, "/api/v1/dealers", "u-1", "user", map[string]string{"name": "Again"}); w.Code != http.StatusConflict {
		t.Errorf("second profile: status %d", w.Code)
	}
	if w := call(http.MethodPatch, path, "u-2", "user", map[string]string{"phone": "555"}); w.Code != http.StatusForbidden {
		t.Errorf("foreign update: status %d", w.Code)
	}
	if w := call(http.MethodGet, "/api/v1/dealers?per_page=5", "", "", nil); w.Code != http.StatusOK {
		t.Errorf("list: status %d", w.Code)
	}
	if w := call(http.MethodDelete, path, "moderator", ctxutil.RoleAdmin, nil); w.Code != http.StatusOK {
		t.Errorf("admin delete: status %d", w.Code)
	}
	if w := call(http.MethodGet, path, "", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d", w.Code)
	}
}
