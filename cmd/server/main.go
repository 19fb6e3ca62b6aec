package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/mailpulse/internal/analytics"
	"github.com/ignite/mailpulse/internal/api"
	"github.com/ignite/mailpulse/internal/cache"
	"github.com/ignite/mailpulse/internal/config"
	"github.com/ignite/mailpulse/internal/pkg/logger"
	"github.com/ignite/mailpulse/internal/repository/postgres"
)

func main() {
	log.Println("[server] mailpulse analytics service starting")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	if cfg.Logging.RedactPII != nil {
		logger.SetRedactPII(*cfg.Logging.RedactPII)
	}

	if cfg.Database.URL == "" {
		log.Fatal("database.url (or DATABASE_URL) is required")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		log.Fatalf("Database unreachable: %v", err)
	}
	cancel()
	log.Println("[server] database connected")

	// The cache is an optimization: run on Redis when configured, fall
	// back to an in-process store otherwise. Redis being down at startup
	// is not fatal either; the query cache degrades per call.
	var redisClient *redis.Client
	var store cache.Store
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("[server] Redis ping failed (%v), continuing — cache degrades to pass-through", err)
		} else {
			log.Printf("[server] Redis connected at %s", cfg.Redis.Addr)
		}
		store = cache.NewRedisStore(redisClient)
	} else {
		log.Println("[server] no Redis configured, using in-process cache")
		store = cache.NewMemoryStore()
	}
	qc := cache.New(store, cache.TTLConfig{
		Recent:     cfg.Cache.RecentTTL(),
		Historical: cfg.Cache.HistoricalTTL(),
	})

	repo := postgres.NewMetricsRepo(db)
	svc := analytics.NewService(repo, qc,
		analytics.WithWarmupSource(repo),
		analytics.WithScoreConfig(scoreConfig(cfg)),
	)

	health := api.NewHealthChecker(db, redisClient)
	server := api.NewServer(cfg.Server, api.NewHandlers(svc), health)

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", addr)
		errCh <- server.ListenAndServe(addr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Printf("[server] received %v, shutting down", sig)
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] shutdown error: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	_ = db.Close()
	log.Println("[server] stopped")
}

func scoreConfig(cfg *config.Config) analytics.ScoreConfig {
	return analytics.ScoreConfig{
		Weights: analytics.ScoreWeights{
			Deliverability: cfg.Score.Weights.Deliverability,
			Engagement:     cfg.Score.Weights.Engagement,
			AntiSpam:       cfg.Score.Weights.AntiSpam,
			Warmup:         cfg.Score.Weights.Warmup,
			Reputation:     cfg.Score.Weights.Reputation,
		},
		NeutralReputation: analytics.ReputationScores{
			Deliverability: cfg.Score.NeutralReputation.Deliverability,
			Spam:           cfg.Score.NeutralReputation.Spam,
			Bounce:         cfg.Score.NeutralReputation.Bounce,
			Engagement:     cfg.Score.NeutralReputation.Engagement,
			Warmup:         cfg.Score.NeutralReputation.Warmup,
		},
		WarmupBoost: cfg.Score.WarmupBoost,
	}
}
