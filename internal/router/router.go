package router

import (
	"time"

	"github.com/shemaparfait19/centurysoapv2/internal/config"
	"github.com/shemaparfait19/centurysoapv2/internal/handler"
	"github.com/shemaparfait19/centurysoapv2/internal/middleware"
	"github.com/shemaparfait19/centurysoapv2/internal/repository"
	"github.com/shemaparfait19/centurysoapv2/internal/service"
	"github.com/shemaparfait19/centurysoapv2/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	productSvc := service.NewProductService(productRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	workerSvc := service.NewWorkerService(workerRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, customerSvc, dispatcher, cfg.LowStockThreshold)
	reportSvc := service.NewReportService(saleRepo, productRepo, rdb, cfg.LowStockThreshold)
	migrationSvc := service.NewMigrationService(saleRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(productSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	workersH := handler.NewWorkersHandler(workerSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	migrateH := handler.NewMigrateHandler(migrationSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", productsH.List)
			products.GET("/:id", productsH.Get)
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
			products.POST("/seed", productsH.Seed)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("", customersH.Search)
			customers.POST("", customersH.Upsert)
		}

		workers := v1.Group("/workers")
		{
			workers.GET("", workersH.List)
			workers.POST("", workersH.Create)
			workers.PUT("/:id", workersH.Update)
			workers.DELETE("/:id", workersH.Delete)
		}

		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
			sales.DELETE("/:id", salesH.Delete)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/dashboard", reportsH.Dashboard)
			reports.GET("/daily", reportsH.Daily)
			reports.GET("/custom", reportsH.Custom)
		}

		v1.POST("/migrate/legacy-sales", migrateH.Run)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
