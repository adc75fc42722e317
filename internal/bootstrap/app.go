package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	httpHandler "github.com/Ijadele/Blog/internal/handler/http"
	"github.com/Ijadele/Blog/internal/infra/imagehost"
	gormpersistence "github.com/Ijadele/Blog/internal/infra/persistence/gorm"
	"github.com/Ijadele/Blog/internal/infra/setup"
	redisstate "github.com/Ijadele/Blog/internal/infra/state/redis"
	"github.com/Ijadele/Blog/internal/middleware"
	"github.com/Ijadele/Blog/internal/service"
	"github.com/Ijadele/Blog/internal/tasks"
	"github.com/Ijadele/Blog/internal/worker"
)

// App 结构体包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	AsynqServer *worker.WorkerServer
	HttpServer  *http.Server
}

// NewLogger 按配置创建 logger，并同步到 logrus 的全局 logger (service 层使用全局 logger)
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)

	logrus.SetFormatter(log.Formatter)
	logrus.SetLevel(logLevel)
	logrus.SetOutput(os.Stdout)
	return log
}

// NewApp 创建并初始化应用的所有组件
func NewApp() (*App, error) {
	// 1. 加载配置
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	// 2. 初始化 Logger
	log := NewLogger(cfg)
	log.Infof("Logger initialized (Level: %s)", log.GetLevel())

	// 3. 初始化基础设施
	log.Info("Initializing infrastructure...")
	db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database initialized and migrated")

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	log.Info("Redis client initialized")

	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(redisClientOpt)

	imageHost, err := imagehost.NewCloudinaryHost(cfg.CloudinaryURL, cfg.UploadFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to init image host: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	log.Info("Infrastructure initialized successfully")

	// 4. 初始化 Repositories
	userRepo := gormpersistence.NewGormUserRepository(db)
	postRepo := gormpersistence.NewGormPostRepository(db)
	commentRepo := gormpersistence.NewGormCommentRepository(db)
	rateLimitRepo := redisstate.NewRedisRateLimitRepository(redisClient, cfg.KeyPrefix)

	// 5. 初始化 Services
	credentials, err := service.NewCredentialService(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour, bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to create CredentialService: %w", err)
	}
	userService := service.NewUserService(userRepo, credentials)
	postService := service.NewPostService(postRepo, imageHost, tasks.NewEnqueuer(asynqClient))
	commentService := service.NewCommentService(commentRepo, postRepo, cfg.CommentEditRequiresOwner)
	log.Info("Services initialized")

	// 6. 初始化 Worker Server
	workerServer := worker.NewWorkerServer(redisClientOpt, imageHost, log)

	// 7. 初始化 Gin Engine 和路由
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := NewRouter(RouterDeps{
		Log:             log,
		AllowedOrigin:   cfg.CORSAllowedOrigin,
		Verifier:        credentials,
		Limiter:         rateLimitRepo,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
		Metrics:         middleware.NewMetrics(),
		AuthHandler:     httpHandler.NewAuthHandler(userService, credentials, httpHandler.NewCookieHelper(cfg.CookieSecure)),
		PostHandler:     httpHandler.NewPostHandler(postService, cfg.UploadDir, cfg.MaxUploadImages),
		CommentHandler:  httpHandler.NewCommentHandler(commentService),
	})
	log.Info("Router setup complete")

	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		RedisClient: redisClient,
		AsynqClient: asynqClient,
		AsynqServer: workerServer,
		HttpServer:  httpServer,
	}, nil
}

// Start 启动 Worker 和 HTTP 服务器
func (a *App) Start() {
	go a.AsynqServer.Start()
	a.Log.Info("Asynq worker server routine started")

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	// 1. 先停止接收新请求
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	// 2. 等待正在执行的后台任务
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}

	// 3. 关闭 Asynq Client 和 Redis 连接
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}

	// 4. 关闭数据库连接池
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Log.Errorf("Error closing database connection: %v", err)
		}
	}

	a.Log.Info("Application shutdown complete.")
}
