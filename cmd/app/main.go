package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/config"
	v1 "github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/controller/http/v1"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/usecase"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/ffprobe"
	psqlRepo "github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/repository/psql"
	redisRepo "github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/repository/redis"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/repository/rabbitmq"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/repository/redisstream"
	s3Repo "github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/repository/s3"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/repository/webdav"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/pkg/client/psql"
	redisClient "github.com/stivencardonauniandes/anb-rising-stars-showcase/pkg/client/redis"
	s3Client "github.com/stivencardonauniandes/anb-rising-stars-showcase/pkg/client/s3"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/pkg/metrics"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := psql.NewPostgresDB(cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	if err := db.AutoMigrate(&entity.User{}, &entity.Video{}, &entity.Vote{}); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	// The cache degrades to always-miss without redis; the stream queue
	// backend cannot run without it.
	rdb, err := redisClient.NewRedisClient(ctx, redisClient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		if cfg.QueueBackend == config.QueueBackendStream {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		logger.Warn("redis unavailable, ranking cache disabled", zap.Error(err))
		rdb = nil
	}

	var storage usecase.Storage
	switch cfg.StorageBackend {
	case config.StorageBackendS3:
		client, err := s3Client.NewS3Client(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		if err != nil {
			logger.Fatal("s3 client init failed", zap.Error(err))
		}
		storage = s3Repo.NewS3Repo(client)
	default:
		storage, err = webdav.NewWebDAVStorage(cfg.WebDAVURL, cfg.WebDAVRoot, cfg.WebDAVUsername, cfg.WebDAVPassword, cfg.UploadTimeout, logger)
		if err != nil {
			logger.Fatal("webdav client init failed", zap.Error(err))
		}
	}

	var publisher usecase.TaskPublisher
	switch cfg.QueueBackend {
	case config.QueueBackendRabbitMQ:
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatal("rabbitmq connection failed", zap.Error(err))
		}
		defer conn.Close()
		publisher, err = rabbitmq.NewTaskPublisher(conn, cfg.RabbitExchange, cfg.RabbitRoutingKey)
		if err != nil {
			logger.Fatal("rabbitmq publisher init failed", zap.Error(err))
		}
	default:
		publisher = redisstream.NewTaskPublisher(rdb, cfg.RedisStream)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	recorder := metrics.NewRecorder(registry)

	videoRepo := psqlRepo.NewGormVideoRepo(db)
	voteRepo := psqlRepo.NewGormVoteRepo(db)
	rankingRepo := psqlRepo.NewGormRankingRepo(db)
	cache := redisRepo.NewCacheRepo(rdb, logger)
	prober := ffprobe.New(cfg.FFProbePath)

	uploadUC := usecase.NewUploadUseCase(videoRepo, storage, publisher, prober, recorder, logger, usecase.UploadConfig{
		TempDir:       cfg.TempDir,
		MinDuration:   cfg.VideoMinDuration,
		MaxDuration:   cfg.VideoMaxDuration,
		UploadTimeout: cfg.UploadTimeout,
	})
	videoUC := usecase.NewVideoUseCase(videoRepo, logger)
	voteUC := usecase.NewVoteUseCase(videoRepo, voteRepo, cache, recorder, logger)
	rankingUC := usecase.NewRankingUseCase(rankingRepo, cache, recorder, logger, usecase.RankingTTLs{
		Rankings: cfg.CacheRankingsTTL,
		Top:      cfg.CacheTopTTL,
		Stats:    cfg.CacheStatsTTL,
	})

	r := gin.New()
	r.Use(gin.Recovery())

	var rateLimiter gin.HandlerFunc
	if rdb != nil {
		rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RedisClient: rdb,
			Limit:       cfg.RateLimit,
			Window:      cfg.RateLimitWindow,
			KeyPrefix:   "rl:",
		})
	}

	v1.RegisterRoutes(r,
		v1.NewVideoHandler(uploadUC, videoUC),
		v1.NewPublicHandler(voteUC, rankingUC),
		middleware.JWTAuth(cfg.JWTSecret),
		rateLimiter,
	)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down", zap.Duration("grace_period", cfg.ShutdownGrace))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
