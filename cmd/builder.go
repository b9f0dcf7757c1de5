package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"carmarket/api"
	"carmarket/api/health"
	apidealer "carmarket/api/dealer"
	apifavorite "carmarket/api/favorite"
	apilisting "carmarket/api/listing"
	"carmarket/api/middleware"
	apireview "carmarket/api/review"
	apistats "carmarket/api/stats"
	apitaxonomy "carmarket/api/taxonomy"
	"carmarket/api/validation"
	apiviewing "carmarket/api/viewing"
	dealerapp "carmarket/application/dealer"
	favoriteapp "carmarket/application/favorite"
	listingapp "carmarket/application/listing"
	reviewapp "carmarket/application/review"
	statsapp "carmarket/application/stats"
	taxonomyapp "carmarket/application/taxonomy"
	viewingapp "carmarket/application/viewing"
	"carmarket/config"
	"carmarket/domain/aggregation"
	"carmarket/domain/dealer"
	"carmarket/domain/favorite"
	"carmarket/domain/listing"
	"carmarket/domain/review"
	"carmarket/domain/shared"
	"carmarket/domain/stats"
	"carmarket/domain/taxonomy"
	"carmarket/domain/viewing"
	"carmarket/infrastructure/cache"
	"carmarket/infrastructure/persistence/gormstore"
	"carmarket/infrastructure/persistence/memory"
	"carmarket/infrastructure/persistence/retry"
	"carmarket/infrastructure/storage"
	"carmarket/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// startupTimeout 连接数据库、Redis、MinIO 的总时限
const startupTimeout = 15 * time.Second

// listingStore 仓储与计数器写入口由同一实现提供
type listingStore interface {
	listing.Repository
	listing.CounterStore
}

// repositories 一套持久化实现（memory 或 gorm）
type repositories struct {
	taxonomy   taxonomy.Repository
	listings   listingStore
	reviews    review.Repository
	favorites  favorite.Repository
	views      viewing.Repository
	dealers    dealer.Repository
	stats      stats.Reader
	uowFactory shared.UnitOfWorkFactory
}

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg          *config.Config
	controllers  []api.ControllerRegister
	middlewares  []api.MiddlewareRegister
	customRoutes []api.Route
	imageStore   listingapp.ImageStore

	checks  map[string]health.CheckFunc
	closers []func() error
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:          cfg,
		controllers:  []api.ControllerRegister{},
		middlewares:  []api.MiddlewareRegister{},
		customRoutes: []api.Route{},
		checks:       map[string]health.CheckFunc{},
	}
}

// WithController adds a controller to the app
func (b *AppBuilder) WithController(c api.ControllerRegister) *AppBuilder {
	b.controllers = append(b.controllers, c)
	return b
}

// WithMiddleware adds a middleware to the app
func (b *AppBuilder) WithMiddleware(m api.MiddlewareRegister) *AppBuilder {
	b.middlewares = append(b.middlewares, m)
	return b
}

// WithRoute adds a custom route
func (b *AppBuilder) WithRoute(method, path string, handler gin.HandlerFunc) *AppBuilder {
	b.customRoutes = append(b.customRoutes, api.Route{
		Method:  method,
		Path:    path,
		Handler: handler,
	})
	return b
}

// WithImageStore overrides the configured image storage
func (b *AppBuilder) WithImageStore(s listingapp.ImageStore) *AppBuilder {
	b.imageStore = s
	return b
}

// Build creates the App instance
func (b *AppBuilder) Build() *App {
	// Initialize logger
	if err := logger.Init(&b.cfg.Log, b.cfg.App); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("database", b.cfg.Database.Type),
		zap.String("cache", b.cfg.Cache.Backend))

	if err := validation.Register(); err != nil {
		logger.Fatal("Failed to register request validators", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	repos := b.initRepositories(ctx)
	statsCache := b.initStatsCache(ctx)
	images := b.initImageStore(ctx)
	auth := middleware.NewAuthenticator(b.cfg.Auth)
	pg := b.cfg.Pagination

	// 领域服务
	resolver := taxonomy.NewResolver(repos.taxonomy)
	builder := listing.NewFilterBuilder(resolver, pg.MaxPerPage)
	engine := aggregation.NewEngine(repos.listings, repos.reviews, repos.favorites, repos.views)

	// 应用服务
	taxonomyService := taxonomyapp.NewApplicationService(repos.taxonomy, repos.uowFactory)
	listingService := listingapp.NewApplicationService(listingapp.Dependencies{
		Listings:   repos.listings,
		Reviews:    repos.reviews,
		Favorites:  repos.favorites,
		Views:      repos.views,
		Resolver:   resolver,
		Builder:    builder,
		Engine:     engine,
		Images:     images,
		UowFactory: repos.uowFactory,
		Limits: listingapp.Limits{
			SearchPerPage:  pg.SearchPerPage,
			DefaultPerPage: pg.DefaultPerPage,
			FeaturedLimit:  pg.FeaturedLimit,
			SimilarLimit:   pg.SimilarLimit,
		},
	})
	reviewService := reviewapp.NewApplicationService(repos.reviews, repos.listings, engine, repos.uowFactory, pg.DefaultPerPage, pg.MaxPerPage)
	favoriteService := favoriteapp.NewApplicationService(repos.favorites, repos.listings, engine, repos.uowFactory, pg.DefaultPerPage, pg.MaxPerPage)
	viewingService := viewingapp.NewApplicationService(repos.views, repos.listings, pg.DefaultPerPage, pg.MaxPerPage)
	dealerService := dealerapp.NewApplicationService(repos.dealers, repos.uowFactory, pg.DefaultPerPage, pg.MaxPerPage)
	statsService := statsapp.NewApplicationService(repos.stats, statsCache, b.cfg.Cache.TTLFor)

	controllers := []api.ControllerRegister{
		health.NewController(b.cfg, b.checks),
		apitaxonomy.NewController(taxonomyService, auth),
		apilisting.NewController(listingService, auth),
		apireview.NewController(reviewService, auth),
		apifavorite.NewController(favoriteService, auth),
		apiviewing.NewController(viewingService, auth),
		apidealer.NewController(dealerService, auth),
		apistats.NewController(statsService, auth),
	}
	controllers = append(controllers, b.controllers...)

	// Create router with controllers and middleware
	router := api.NewRouter(b.cfg, controllers, b.middlewares, b.customRoutes)
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config:  b.cfg,
		router:  router,
		server:  server,
		closers: b.closers,
	}
}

func (b *AppBuilder) initRepositories(ctx context.Context) repositories {
	retryCfg := retry.FromAppConfig(b.cfg)

	if b.cfg.Database.Type == "memory" {
		logger.Warn("Using in-memory persistence; data is lost on restart")
		store := memory.NewStore()
		return repositories{
			taxonomy:   memory.NewTaxonomyRepository(store),
			listings:   memory.NewListingRepository(store),
			reviews:    memory.NewReviewRepository(store),
			favorites:  memory.NewFavoriteRepository(store),
			views:      memory.NewViewingRepository(store),
			dealers:    memory.NewDealerRepository(store),
			stats:      memory.NewStatsReader(store),
			uowFactory: memory.NewUnitOfWorkFactory(store, retryCfg),
		}
	}

	db, err := gormstore.Open(ctx, b.cfg.Database, b.cfg.Log.Level)
	if err != nil {
		logger.Fatal("Failed to open database", zap.String("type", b.cfg.Database.Type), zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	b.checks["database"] = sqlDB.PingContext
	b.closers = append(b.closers, sqlDB.Close)

	return repositories{
		taxonomy:   gormstore.NewTaxonomyRepository(db),
		listings:   gormstore.NewListingRepository(db),
		reviews:    gormstore.NewReviewRepository(db),
		favorites:  gormstore.NewFavoriteRepository(db),
		views:      gormstore.NewViewingRepository(db),
		dealers:    gormstore.NewDealerRepository(db),
		stats:      gormstore.NewStatsReader(db),
		uowFactory: gormstore.NewUnitOfWorkFactory(db, retryCfg),
	}
}

func (b *AppBuilder) initStatsCache(ctx context.Context) *cache.StatsCache {
	var backend cache.Backend
	switch b.cfg.Cache.Backend {
	case "redis":
		client, err := cache.NewRedisClient(ctx, b.cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		b.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		b.closers = append(b.closers, client.Close)
		backend = cache.NewRedisBackend(client)
	default:
		backend = cache.NewMemoryBackend(time.Now)
	}
	return cache.NewStatsCache(backend, b.cfg.Cache.Namespace)
}

func (b *AppBuilder) initImageStore(ctx context.Context) listingapp.ImageStore {
	if b.imageStore != nil {
		return b.imageStore
	}
	maxBytes := b.cfg.Storage.MaxSizeMB << 20
	if !b.cfg.Storage.Enabled {
		logger.Warn("Object storage disabled; uploaded images are kept in memory")
		return storage.NewMemoryStore(maxBytes)
	}
	store, err := storage.NewMinioStore(ctx, b.cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", zap.String("endpoint", b.cfg.Storage.Endpoint), zap.Error(err))
	}
	return store
}

