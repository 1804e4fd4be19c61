package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	QueueBackendStream   = "stream"
	QueueBackendRabbitMQ = "rabbitmq"

	StorageBackendWebDAV = "webdav"
	StorageBackendS3     = "s3"
)

type Config struct {
	AppName  string
	LogLevel string
	HTTPAddr string

	PostgresDSN string

	RedisAddr     string
	RedisDB       int
	RedisPassword string

	QueueBackend     string
	RedisStream      string
	RabbitMQURL      string
	RabbitExchange   string
	RabbitRoutingKey string

	StorageBackend string
	WebDAVURL      string
	WebDAVRoot     string
	WebDAVUsername string
	WebDAVPassword string
	S3Endpoint     string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string

	JWTSecret string

	TempDir          string
	FFProbePath      string
	VideoMinDuration time.Duration
	VideoMaxDuration time.Duration
	UploadTimeout    time.Duration

	CacheRankingsTTL time.Duration
	CacheTopTTL      time.Duration
	CacheStatsTTL    time.Duration

	RateLimit       int
	RateLimitWindow time.Duration

	ShutdownGrace time.Duration
}

// Load reads configuration from the environment (optionally seeded from .env
// files) and validates it once. Business logic never reads the environment.
func Load(envPaths ...string) (*Config, error) {
	paths := envPaths
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := loadIfExists(p); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		AppName:  getEnv("APP_NAME", "anb-showcase-api"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		QueueBackend:     getEnv("QUEUE_BACKEND", QueueBackendStream),
		RedisStream:      getEnv("REDIS_STREAM", "video_tasks"),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitExchange:   getEnv("RABBITMQ_EXCHANGE", "video_tasks"),
		RabbitRoutingKey: getEnv("RABBITMQ_ROUTING_KEY", "video.process"),

		StorageBackend: getEnv("STORAGE_BACKEND", StorageBackendWebDAV),
		WebDAVURL:      os.Getenv("WEBDAV_URL"),
		WebDAVRoot:     getEnv("WEBDAV_ROOT", "/remote.php/dav/files/worker"),
		WebDAVUsername: os.Getenv("WEBDAV_USERNAME"),
		WebDAVPassword: os.Getenv("WEBDAV_PASSWORD"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Bucket:       getEnv("S3_BUCKET", "anb-rising-stars"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		TempDir:          getEnv("VIDEO_TEMP_DIR", os.TempDir()),
		FFProbePath:      getEnv("FFPROBE_PATH", "ffprobe"),
		VideoMinDuration: getDurationEnv("VIDEO_MIN_DURATION", 20*time.Second),
		VideoMaxDuration: getDurationEnv("VIDEO_MAX_DURATION", 60*time.Second),
		UploadTimeout:    getDurationEnv("VIDEO_UPLOAD_TIMEOUT", 5*time.Minute),

		CacheRankingsTTL: getDurationEnv("CACHE_RANKINGS_TTL", 5*time.Minute),
		CacheTopTTL:      getDurationEnv("CACHE_TOP_TTL", time.Minute),
		CacheStatsTTL:    getDurationEnv("CACHE_STATS_TTL", 30*time.Second),

		RateLimit:       getIntEnv("RATE_LIMIT", 50),
		RateLimitWindow: getDurationEnv("RATE_LIMIT_WINDOW", time.Second),

		ShutdownGrace: getDurationEnv("SHUTDOWN_GRACE", 30*time.Second),
	}

	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.VideoMinDuration >= cfg.VideoMaxDuration {
		return nil, fmt.Errorf("VIDEO_MIN_DURATION must be less than VIDEO_MAX_DURATION")
	}

	switch cfg.QueueBackend {
	case QueueBackendStream:
	case QueueBackendRabbitMQ:
		if cfg.RabbitMQURL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL is required for the rabbitmq queue backend")
		}
	default:
		return nil, fmt.Errorf("unknown QUEUE_BACKEND %q", cfg.QueueBackend)
	}

	switch cfg.StorageBackend {
	case StorageBackendWebDAV:
		if cfg.WebDAVURL == "" {
			return nil, fmt.Errorf("WEBDAV_URL is required for the webdav storage backend")
		}
		if cfg.WebDAVUsername == "" || cfg.WebDAVPassword == "" {
			return nil, fmt.Errorf("WEBDAV credentials are required for the webdav storage backend")
		}
	case StorageBackendS3:
		if cfg.S3Endpoint == "" {
			return nil, fmt.Errorf("S3_ENDPOINT is required for the s3 storage backend")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

func loadIfExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
