package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config 结构体用于存储从环境变量或文件加载的配置
type Config struct {
	DBUser          string
	DBPassword      string
	DBHost          string
	DBPort          string
	DBName          string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	KeyPrefix       string // Redis Key 前缀
	JWTSecret       string
	JWTExpiryHours  int
	ServerPort      string
	LogLevel        string
	AppEnv          string // development/production
	RateLimitMax    int
	RateLimitWindow time.Duration

	CloudinaryURL   string
	UploadFolder    string // 图床上的目录
	UploadDir       string // 本地临时目录
	MaxUploadImages int

	CookieSecure             bool
	CORSAllowedOrigin        string
	CommentEditRequiresOwner bool
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	// 优先加载 .env 文件 (如果存在)
	_ = godotenv.Load()

	cfg := &Config{
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBHost:            envOr("DB_HOST", "127.0.0.1"),
		DBPort:            envOr("DB_PORT", "3306"),
		DBName:            envOr("DB_NAME", "blog"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		KeyPrefix:         envOr("REDIS_KEY_PREFIX", "blog:"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		ServerPort:        envOr("SERVER_PORT", "5000"),
		LogLevel:          envOr("LOG_LEVEL", "info"),
		AppEnv:            envOr("APP_ENV", "development"),
		CloudinaryURL:     os.Getenv("CLOUDINARY_URL"),
		UploadFolder:      envOr("UPLOAD_FOLDER", "blog_posts"),
		UploadDir:         envOr("UPLOAD_DIR", filepath.Join(os.TempDir(), "blog-uploads")),
		CORSAllowedOrigin: envOr("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
	}

	var err error
	if cfg.RedisDB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.JWTExpiryHours, err = envInt("JWT_EXPIRY_HOURS", 24); err != nil {
		return nil, err
	}
	if cfg.RateLimitMax, err = envInt("RATE_LIMIT_MAX", 20); err != nil {
		return nil, err
	}
	if cfg.MaxUploadImages, err = envInt("MAX_UPLOAD_IMAGES", 5); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = time.ParseDuration(envOr("RATE_LIMIT_WINDOW", "1m")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	if cfg.CookieSecure, err = envBool("COOKIE_SECURE", true); err != nil {
		return nil, err
	}
	if cfg.CommentEditRequiresOwner, err = envBool("COMMENT_EDIT_REQUIRES_OWNER", false); err != nil {
		return nil, err
	}

	// 必填项
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}
	if cfg.CloudinaryURL == "" {
		return nil, fmt.Errorf("environment variable CLOUDINARY_URL must be set")
	}
	if cfg.RateLimitMax <= 0 || cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	if cfg.MaxUploadImages <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_IMAGES must be positive")
	}

	// 验证日志级别
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func envBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
