package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sekolahku/penilaian-api/api/swagger"
	"github.com/sekolahku/penilaian-api/internal/handler"
	"github.com/sekolahku/penilaian-api/internal/middleware"
	"github.com/sekolahku/penilaian-api/internal/models"
	"github.com/sekolahku/penilaian-api/internal/prediction"
	"github.com/sekolahku/penilaian-api/internal/repository"
	"github.com/sekolahku/penilaian-api/internal/service"
	"github.com/sekolahku/penilaian-api/pkg/cache"
	"github.com/sekolahku/penilaian-api/pkg/config"
	"github.com/sekolahku/penilaian-api/pkg/database"
	"github.com/sekolahku/penilaian-api/pkg/logger"
	corsmiddleware "github.com/sekolahku/penilaian-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sekolahku/penilaian-api/pkg/middleware/requestid"
)

// @title Penilaian Siswa API
// @version 1.0.0
// @description Backend for student grading, bulk import, and score forecasting
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, dashboard caching disabled", zap.Error(err))
		redisClient = nil
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	waliKelasRepo := repository.NewWaliKelasRepository(db)
	siswaRepo := repository.NewSiswaRepository(db)
	penilaianRepo := repository.NewPenilaianRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)
	predictor := prediction.NewClient(cfg.Prediction, logr)

	authSvc := service.NewAuthService(userRepo, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, userRepo, logr)
	siswaSvc := service.NewSiswaService(service.SiswaServiceParams{
		Repo:     siswaRepo,
		Profiles: waliKelasRepo,
		Cache:    cacheSvc,
		Logger:   logr,
	})
	penilaianSvc := service.NewPenilaianService(service.PenilaianServiceParams{
		Repo:      penilaianRepo,
		Siswa:     siswaRepo,
		Profiles:  waliKelasRepo,
		Predictor: predictor,
		Cache:     cacheSvc,
		Metrics:   metricsSvc,
		Logger:    logr,
	})
	importSvc := service.NewImportService(service.ImportServiceParams{
		Siswa:     siswaRepo,
		Penilaian: penilaianRepo,
		Profiles:  waliKelasRepo,
		Predictor: predictor,
		Cache:     cacheSvc,
		Metrics:   metricsSvc,
		Logger:    logr,
		MaxErrors: cfg.Import.MaxErrorMessages,
	})
	exportSvc := service.NewExportService(service.ExportServiceParams{
		Penilaian: penilaianRepo,
		Siswa:     siswaRepo,
		Profiles:  waliKelasRepo,
		Logger:    logr,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Repo:     dashboardRepo,
		Profiles: waliKelasRepo,
		Cache:    cacheSvc,
		Logger:   logr,
	})

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	siswaHandler := handler.NewSiswaHandler(siswaSvc, importSvc, cfg.Import.MaxFileSizeBytes)
	penilaianHandler := handler.NewPenilaianHandler(penilaianSvc, importSvc, exportSvc, cfg.Import.MaxFileSizeBytes)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/profile", middleware.JWT(authSvc), authHandler.Profile)
		auth.PUT("/password", middleware.JWT(authSvc), authHandler.ChangePassword)
	}

	users := api.Group("/users", middleware.JWT(authSvc))
	{
		users.GET("", middleware.RequireRoles(models.RoleOperator), userHandler.List)
		users.GET("/:id", middleware.RequireRoles(models.RoleOperator, "SELF"), userHandler.Get)
		users.PUT("/:id", middleware.RequireRoles(models.RoleOperator, "SELF"), userHandler.Update)
		users.DELETE("/:id", middleware.RequireRoles(models.RoleOperator), userHandler.Delete)
	}

	siswa := api.Group("/siswa", middleware.JWT(authSvc))
	{
		siswa.POST("/create", middleware.RequireRoles(models.RoleWaliKelas, models.RoleOperator), siswaHandler.Create)
		siswa.POST("/import", middleware.RequireRoles(models.RoleWaliKelas), siswaHandler.Import)
		siswa.GET("/list", siswaHandler.List)
		siswa.GET("/:id", siswaHandler.Get)
		siswa.PUT("/:id", middleware.RequireRoles(models.RoleWaliKelas, models.RoleOperator), siswaHandler.Update)
		siswa.DELETE("/:id", middleware.RequireRoles(models.RoleWaliKelas, models.RoleOperator), siswaHandler.Delete)
	}

	penilaian := api.Group("/penilaian", middleware.JWT(authSvc))
	{
		penilaian.POST("/create", middleware.RequireRoles(models.RoleWaliKelas, models.RoleOperator), penilaianHandler.Create)
		penilaian.POST("/import", middleware.RequireRoles(models.RoleWaliKelas), penilaianHandler.Import)
		penilaian.GET("/template", penilaianHandler.Template)
		penilaian.GET("/list", penilaianHandler.List)
		penilaian.GET("/export", penilaianHandler.Export)
		penilaian.GET("/export/simple", penilaianHandler.ExportSimple)
		penilaian.GET("/siswa/:id", penilaianHandler.BySiswa)
		penilaian.GET("/siswa/:id/rapor", penilaianHandler.ReportCard)
		penilaian.GET("/:id", penilaianHandler.Get)
		penilaian.PUT("/:id", middleware.RequireRoles(models.RoleWaliKelas, models.RoleOperator), penilaianHandler.Update)
		penilaian.DELETE("/:id", middleware.RequireRoles(models.RoleWaliKelas, models.RoleOperator), penilaianHandler.Delete)
	}

	dashboard := api.Group("/dashboard", middleware.JWT(authSvc))
	{
		dashboard.GET("/statistics", dashboardHandler.Statistics)
		dashboard.GET("/walikelas/:id", middleware.RequireRoles(models.RoleOperator), dashboardHandler.WaliKelas)
		dashboard.GET("/filters", dashboardHandler.Filters)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
