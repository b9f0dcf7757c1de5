package listing

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carmarket/api/middleware"
	"carmarket/api/validation"
	listingapp "carmarket/application/listing"
	"carmarket/config"
	"carmarket/domain/aggregation"
	"carmarket/domain/listing"
	"carmarket/domain/taxonomy"
	"carmarket/infrastructure/persistence/memory"
	"carmarket/infrastructure/persistence/retry"
	"carmarket/infrastructure/storage"

	"github.com/gin-gonic/gin"
)

type testEnv struct {
	engine  *gin.Engine
	auth    *middleware.Authenticator
	cars    *taxonomy.Category
	toyota  *taxonomy.Make
	corolla *taxonomy.VehicleModel
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	store := memory.NewStore()

	taxRepo := memory.NewTaxonomyRepository(store)
	env := &testEnv{auth: middleware.NewAuthenticator(config.AuthConfig{JWTSecret: "test-secret"})}
	env.cars, _ = taxonomy.NewCategory("Cars", "")
	env.toyota, _ = taxonomy.NewMake(env.cars.ID(), "Toyota")
	env.corolla, _ = taxonomy.NewVehicleModel(env.toyota.ID(), "Corolla")
	for _, err := range []error{
		taxRepo.SaveCategory(ctx, env.cars),
		taxRepo.SaveMake(ctx, env.toyota),
		taxRepo.SaveModel(ctx, env.corolla),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}

	listings := memory.NewListingRepository(store)
	reviews := memory.NewReviewRepository(store)
	favorites := memory.NewFavoriteRepository(store)
	views := memory.NewViewingRepository(store)
	resolver := taxonomy.NewResolver(taxRepo)
	svc := listingapp.NewApplicationService(listingapp.Dependencies{
		Listings:   listings,
		Reviews:    reviews,
		Favorites:  favorites,
		Views:      views,
		Resolver:   resolver,
		Builder:    listing.NewFilterBuilder(resolver, 50),
		Engine:     aggregation.NewEngine(listings, reviews, favorites, views),
		Images:     storage.NewMemoryStore(1 << 20),
		UowFactory: memory.NewUnitOfWorkFactory(store, retry.DefaultConfig),
		Limits:     listingapp.Limits{SearchPerPage: 12, DefaultPerPage: 10, FeaturedLimit: 8, SimilarLimit: 4},
	})

	env.engine = gin.New()
	NewController(svc, env.auth).RegisterRoutes(env.engine.Group("/api/v1"))
	return env
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.auth.Issue(userID, "user", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) payload() map[string]any {
	return map[string]any{
		"category_id":       e.cars.ID(),
		"make_id":           e.toyota.ID(),
		"model_id":          e.corolla.ID(),
		"title":             "2020 Corolla",
		"price":             15000.50,
		"year":              2020,
		"mileage":           30000,
		"transmission_type": "automatic",
		"condition":         "used",
	}
}

type listingEnvelope struct {
	Success bool                       `json:"success"`
	Error   string                     `json:"error"`
	Data    listingapp.ListingResponse `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func (e *testEnv) create(t *testing.T, owner string) listingapp.ListingResponse {
	t.Helper()
	w := e.do(http.MethodPost, "/api/v1/listings", e.token(t, owner), e.payload())
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	var env listingEnvelope
	decode(t, w, &env)
	return env.Data
}

func TestCreateValidation(t *testing.T) {
	e := setup(t)

	if w := e.do(http.MethodPost, "/api/v1/listings", "", e.payload()); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create: status %d", w.Code)
	}

	bad := e.payload()
	bad["transmission_type"] = "pedal"
	if w := e.do(http.MethodPost, "/api/v1/listings", e.token(t, "owner-1"), bad); w.Code != http.StatusBadRequest {
		t.Errorf("unknown transmission: status %d", w.Code)
	}

	mismatch := e.payload()
	mismatch["model_id"] = "missing-model"
	if w := e.do(http.MethodPost, "/api/v1/listings", e.token(t, "owner-1"), mismatch); w.Code != http.StatusNotFound {
		t.Errorf("unknown model: status %d", w.Code)
	}

	created := e.create(t, "owner-1")
	if created.Price.String() != "15000.50" || created.OwnerID != "owner-1" {
		t.Errorf("unexpected listing %+v", created)
	}
}

func TestUpdateOwnership(t *testing.T) {
	e := setup(t)
	created := e.create(t, "owner-1")
	path := "/api/v1/listings/" + created.ID

	patch := map[string]any{"title": "Updated"}
	if w := e.do(http.MethodPatch, path, e.token(t, "owner-2"), patch); w.Code != http.StatusForbidden {
		t.Errorf("foreign update: status %d", w.Code)
	}
	w := e.do(http.MethodPatch, path, e.token(t, "owner-1"), patch)
	if w.Code != http.StatusOK {
		t.Fatalf("owner update: status %d", w.Code)
	}
	var env listingEnvelope
	decode(t, w, &env)
	if env.Data.Title != "Updated" {
		t.Errorf("title = %q", env.Data.Title)
	}

	if w := e.do(http.MethodPost, path+"/sold", e.token(t, "owner-1"), nil); w.Code != http.StatusOK {
		t.Errorf("mark sold: status %d", w.Code)
	}
	if w := e.do(http.MethodPost, path+"/sold", e.token(t, "owner-1"), nil); w.Code != http.StatusConflict {
		t.Errorf("second mark sold: status %d", w.Code)
	}
	if w := e.do(http.MethodDelete, path, e.token(t, "owner-1"), nil); w.Code != http.StatusOK {
		t.Errorf("delete: status %d", w.Code)
	}
	if w := e.do(http.MethodGet, path, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d", w.Code)
	}
}

func TestGetCountsViews(t *testing.T) {
	e := setup(t)
	created := e.create(t, "owner-1")
	path := "/api/v1/listings/" + created.ID

	e.do(http.MethodGet, path, "", nil)
	w := e.do(http.MethodGet, path, e.token(t, "viewer-1"), nil)
	var env listingEnvelope
	decode(t, w, &env)
	if env.Data.ViewsCount != 2 {
		t.Errorf("views_count = %d, want 2", env.Data.ViewsCount)
	}

	if w := e.do(http.MethodGet, path, "not-a-jwt", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("invalid token on public route: status %d", w.Code)
	}
}

func TestSearchQuery(t *testing.T) {
	e := setup(t)
	e.create(t, "owner-1")
	e.create(t, "owner-2")

	w := e.do(http.MethodGet, "/api/v1/listings?make=Toyota&per_page=1&page=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search: status %d", w.Code)
	}
	var env struct {
		Data struct {
			Items    []listingapp.ListingResponse `json:"items"`
			Total    int64                        `json:"total"`
			LastPage int                          `json:"last_page"`
		} `json:"data"`
	}
	decode(t, w, &env)
	if env.Data.Total != 2 || len(env.Data.Items) != 1 || env.Data.LastPage != 2 {
		t.Errorf("unexpected page %+v", env.Data)
	}

	if w := e.do(http.MethodGet, "/api/v1/listings?min_price=500&max_price=100", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("inverted price range: status %d", w.Code)
	}
	if w := e.do(http.MethodGet, "/api/v1/listings?sort=random", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown sort: status %d", w.Code)
	}

	w = e.do(http.MethodGet, "/api/v1/me/listings", e.token(t, "owner-2"), nil)
	decode(t, w, &env)
	if env.Data.Total != 1 {
		t.Errorf("my listings total = %d", env.Data.Total)
	}
}

func TestUploadImage(t *testing.T) {
	e := setup(t)
	created := e.create(t, "owner-1")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(imageField, "front.jpg")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte("jpeg-bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/"+created.ID+"/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.token(t, "owner-1"))
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: status %d body %s", w.Code, w.Body.String())
	}
	var env listingEnvelope
	decode(t, w, &env)
	if len(env.Data.Images) != 1 {
		t.Errorf("images = %v", env.Data.Images)
	}

	noFile := e.do(http.MethodPost, "/api/v1/listings/"+created.ID+"/images", e.token(t, "owner-1"), nil)
	if noFile.Code != http.StatusBadRequest {
		t.Errorf("missing file: status %d", noFile.Code)
	}
}
