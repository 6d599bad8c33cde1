package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillup_backend/internal/config"
	"skillup_backend/internal/controller"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/service"
	"skillup_backend/pkg/database"
	"skillup_backend/pkg/logger"
	"skillup_backend/pkg/monitoring"
	"skillup_backend/pkg/security"
	"skillup_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	course    *repository.CourseRepository
	jobSearch *repository.JobSearchRepository
	user      *repository.UserRepository
}

type services struct {
	storage   *service.StorageService
	insight   *service.InsightService
	course    *service.CourseService
	jobSearch *service.JobSearchService
	user      *service.UserService
}

type controllers struct {
	course    *controller.CourseController
	jobSearch *controller.JobSearchController
	user      *controller.UserController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 热更新入口，配置文件变更后由watcher调用
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		course:    repository.NewCourseRepository(db),
		jobSearch: repository.NewJobSearchRepository(db),
		user:      repository.NewUserRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.insight = service.NewInsightService(cfg.Insights)
	s.course = service.NewCourseService(repos.course)
	s.jobSearch = service.NewJobSearchService(repos.jobSearch, s.insight, rdb, cfg.Insights.CacheTTL)
	s.user = service.NewUserService(repos.user)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		course:    controller.NewCourseController(s.course, s.storage),
		jobSearch: controller.NewJobSearchController(s.jobSearch),
		user:      controller.NewUserController(s.user),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.ShouldAutoMigrate() {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
			log.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Log.Info("Database migration completed")
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// redis只做洞察缓存，连不上时降级为直连上游
		logger.Log.Warn("Failed to initialize redis, insight caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.insight.ApplyConfig(newCfg.Insights)
	})

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("skillup-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
