package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pulsebrief/newsletter-api/internal/config"
	"github.com/pulsebrief/newsletter-api/internal/es"
	"github.com/pulsebrief/newsletter-api/internal/events"
	"github.com/pulsebrief/newsletter-api/internal/httpserver"
	"github.com/pulsebrief/newsletter-api/internal/llm"
	"github.com/pulsebrief/newsletter-api/internal/logging"
	"github.com/pulsebrief/newsletter-api/internal/ratelimit"
	"github.com/pulsebrief/newsletter-api/internal/repo"
	"github.com/pulsebrief/newsletter-api/internal/service"
	"github.com/pulsebrief/newsletter-api/internal/service/search"
	"github.com/pulsebrief/newsletter-api/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		redisLimiter, err := ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			logger.Error("redis unavailable, rate limiting is per-instance only", "error", err)
			limiter = ratelimit.NewMemoryLimiter()
		} else {
			limiter = redisLimiter
		}
	} else {
		logger.Warn("REDIS_ADDR not set, rate limiting is per-instance only")
		limiter = ratelimit.NewMemoryLimiter()
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer(cfg.KafkaAddress)
	}

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Error("elasticsearch unavailable, content search disabled", "error", err)
		}
	}

	repository := repo.New(db)
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTTTL)
	authService := &service.AuthService{Repo: repository, Tokens: tokens, Producer: producer}
	interestService := &service.InterestService{
		Repo: repository,
		LLM:  llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL),
	}
	contentService := &service.ContentService{Repo: repository, ES: esClient, Index: search.ContentIndex}

	deps := &httpserver.Deps{
		AuthHandler:       &httpserver.AuthHandler{Auth: authService},
		InterestHandler:   &httpserver.InterestHandler{Interests: interestService},
		NewsletterHandler: &httpserver.NewsletterHandler{Content: contentService},
		SearchHandler:     &httpserver.SearchHandler{ES: esClient, Index: search.ContentIndex},
		Limiter:           limiter,
		Tokens:            tokens,
		Auth:              authService,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), logging.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "addr", srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	limiter.Close()

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
