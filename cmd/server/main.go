package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"shopifyfeed/internal/config"
	"shopifyfeed/internal/db"
	"shopifyfeed/internal/logging"
	"shopifyfeed/internal/repository"
	"shopifyfeed/internal/server"
	"shopifyfeed/internal/upload"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, true)
	ctx := context.Background()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	var store upload.Store
	if cfg.RedisURL != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatalf("Erro ao conectar no Redis: %v", err)
		}
		defer client.Close()
		store = &upload.RedisStore{Client: client, TTL: cfg.UploadTTL}
	} else {
		logger.Warn("REDIS_URL não definido, uploads ficam em memória")
		store = upload.NewMemoryStore(cfg.UploadTTL)
	}

	var runs server.RunStore
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("Erro ao conectar no Postgres (pgxpool): %v", err)
		}
		defer pool.Close()

		repo := &repository.RunRepository{DB: pool}
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatalf("Erro ao criar tabela feed_runs: %v", err)
		}
		runs = repo
	}

	router := server.NewRouter(server.NewHandler(cfg, store, runs, logger))

	logger.Infof("Conversor Shopify -> Merchant Center rodando %s", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logger.Fatalf("Erro no servidor HTTP: %v", err)
	}
}
