package routes

import (
	"strings"
	"time"

	"desaku-api/internal/adapters/cache"
	"desaku-api/internal/adapters/http/handlers"
	"desaku-api/internal/adapters/http/middleware"
	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/adapters/persistence/repositories"
	"desaku-api/internal/adapters/storage"
	"desaku-api/internal/config"
	"desaku-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Deps carries everything the router wires together
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Pinger  handlers.Pinger
	Store   storage.Store
	Cache   cache.Cache
	Metrics *middleware.Metrics
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Deps) {
	cfg := deps.Config
	db := deps.DB

	store := deps.Cache
	if store == nil {
		store = cache.Noop{}
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	letterTypeRepo := repositories.NewCRUDRepository[models.JenisSurat](db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)
	uploadService := services.NewUploadService(deps.Store, cfg.Storage.MaxWidth)
	applicationService := services.NewApplicationService(applicationRepo, letterTypeRepo, userService, uploadService)
	dashboardService := services.NewDashboardService(db)

	guard := middleware.NewGuard(authService, cfg.Cookie.Name, cfg.LoginPath)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.Pinger, cfg.AppMode)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Locally stored assets
	if cfg.Storage.Driver != "oss" && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		app.Static(cfg.Storage.BaseURL, cfg.Storage.Dir, fiber.Static{MaxAge: 86400})
	}

	// Admin pages
	adminPages := app.Group("/admin", guard.RequireAdminPage())
	adminPages.Get("/dashboard", dashboardHandler.GetAdminDashboard)

	api := app.Group("/api")

	// Auth routes
	authRoutes := api.Group("/auth", middleware.NoCacheHeaders())
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", guard.RequireSession(), authHandler.Me)

	// User management routes (Admin only)
	userRoutes := api.Group("/users", guard.RequireAdmin())
	userRoutes.Get("/", userHandler.ListUsers)
	userRoutes.Post("/", userHandler.CreateUser)
	userRoutes.Get("/:id", userHandler.GetUser)
	userRoutes.Put("/:id", userHandler.UpdateUser)
	userRoutes.Delete("/:id", userHandler.DeleteUser)
	userRoutes.Put("/:id/reset-password", userHandler.ResetPassword)

	// Citizen routes (any session)
	api.Get("/user/pengajuan", guard.RequireSession(), middleware.NoCacheHeaders(), applicationHandler.ListMine)

	// Asset routes
	api.Post("/upload", middleware.PublicWriteLimiter(), uploadHandler.Upload)
	api.Delete("/upload/delete", guard.RequireAdmin(), uploadHandler.Delete)

	// Public content, cached and admin-written
	content := contentRouter{api: api, guard: guard, cache: store, ttl: cfg.Redis.TTL, db: db, assets: uploadService}
	mountContent(content, services.BeritaResource())
	mountContent(content, services.AgendaResource())
	mountContent(content, services.FasilitasResource())
	mountContent(content, services.KontakResource())
	mountContent(content, services.LokasiResource())
	mountContent(content, services.ProfilResource())
	mountContent(content, services.PrestasiResource())
	mountContent(content, services.PerangkatDesaResource())
	mountContent(content, services.PengumumanResource())
	mountContent(content, services.SejarahResource())
	mountContent(content, services.JenisSuratResource(letterTypeRepo))

	// Letter applications: public submit, admin everything else
	applications := handlers.NewResourceHandler[models.PengajuanSurat](applicationService)
	applicationRoutes := api.Group("/pengajuan-surat")
	applicationRoutes.Post("/", middleware.PublicWriteLimiter(), applicationHandler.Submit)
	applicationRoutes.Get("/", guard.RequireAdmin(), applications.List)
	applicationRoutes.Get("/:id", guard.RequireAdmin(), applications.Get)
	applicationRoutes.Put("/:id", guard.RequireAdmin(), applications.Update)
	applicationRoutes.Delete("/:id", guard.RequireAdmin(), applications.Delete)
}

type contentRouter struct {
	api    fiber.Router
	guard  *middleware.Guard
	cache  cache.Cache
	ttl    time.Duration
	db     *gorm.DB
	assets services.AssetRemover
}

// mountContent registers public reads and admin writes for one record kind
// under /api/<name>. Reads go through the response cache; writes bump it.
func mountContent[T any, P services.Record[T]](r contentRouter, res services.Resource[T]) {
	svc := services.NewContentService[T, P](repositories.NewCRUDRepository[T](r.db), res, r.assets)
	h := handlers.NewResourceHandler[T](svc)

	group := r.api.Group("/"+res.Name, middleware.ResponseCache(r.cache, res.Name, r.ttl))
	group.Get("/", h.List)
	group.Get("/:id", h.Get)
	group.Post("/", r.guard.RequireAdmin(), h.Create)
	group.Put("/:id", r.guard.RequireAdmin(), h.Update)
	group.Delete("/:id", r.guard.RequireAdmin(), h.Delete)
}
