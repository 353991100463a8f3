package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/audience-simulator/internal/api"
	"github.com/ignite/audience-simulator/internal/config"
	"github.com/ignite/audience-simulator/internal/oracle"
	"github.com/ignite/audience-simulator/internal/pkg/logger"
	"github.com/ignite/audience-simulator/internal/repository/postgres"
	"github.com/ignite/audience-simulator/internal/service/runs"
	"github.com/ignite/audience-simulator/internal/similarity"
	"github.com/ignite/audience-simulator/internal/simulation"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		logger.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	ctx := context.Background()

	// Oracle: Bedrock when enabled, deterministic mock otherwise.
	var o oracle.Oracle
	if cfg.Bedrock.Enabled {
		bo, err := oracle.NewBedrockOracle(ctx, cfg.Bedrock.Region, cfg.Bedrock.ModelID,
			cfg.Simulation.Temperature, cfg.Simulation.MaxTokens)
		if err != nil {
			logger.Warn("bedrock unavailable, using mock oracle", "error", err.Error())
			o = oracle.NewMock(time.Now().UnixNano())
		} else {
			o = bo
			logger.Info("bedrock oracle ready", "model", cfg.Bedrock.ModelID)
		}
	} else {
		o = oracle.NewMock(time.Now().UnixNano())
		logger.Info("running offline with mock oracle")
	}

	// Similarity: Bedrock embeddings with an optional Redis cache, lexical
	// overlap otherwise.
	var scorer similarity.Scorer = similarity.Lexical{}
	if cfg.Bedrock.Enabled {
		embedder, err := similarity.NewBedrockEmbedder(ctx, cfg.Bedrock.Region, cfg.Bedrock.EmbedModelID)
		if err != nil {
			logger.Warn("bedrock embeddings unavailable, using lexical similarity", "error", err.Error())
		} else {
			var cache *similarity.VectorCache
			if cfg.Redis.Addr != "" {
				rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
				cache = similarity.NewVectorCache(rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
				logger.Info("embedding cache enabled", "addr", cfg.Redis.Addr)
			}
			scorer = similarity.NewEmbeddingScorer(embedder, cache)
		}
	}

	// Run history: optional Postgres.
	var repo runs.Repository
	if cfg.Storage.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.Storage.DatabaseURL)
		if err != nil {
			logger.Warn("failed to open database, history disabled", "error", err.Error())
		} else if err := db.PingContext(ctx); err != nil {
			logger.Warn("database unreachable, history disabled", "error", err.Error())
			db.Close()
		} else {
			db.SetMaxOpenConns(10)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)
			repo = postgres.NewRunRepo(db)
			defer db.Close()
			logger.Info("run history enabled")
		}
	}

	svc := runs.NewService(simulation.New(o, scorer), repo)
	server := api.NewServer(cfg.Server, svc)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err.Error())
	}
}
