package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"topjob-gateway/config"
	v1 "topjob-gateway/internal/delivery/http/v1"
	"topjob-gateway/internal/domain"
	"topjob-gateway/internal/events"
	"topjob-gateway/internal/repository/memory"
	"topjob-gateway/internal/repository/postgres"
	"topjob-gateway/internal/repository/redisstore"
	"topjob-gateway/internal/usecase"
	"topjob-gateway/pkg/auth"
	"topjob-gateway/pkg/database"
	"topjob-gateway/pkg/logger"
	"topjob-gateway/pkg/redis"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting session gateway", "port", cfg.Port)

	// 3. Setup Redis (optional; in-memory fallback when absent)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory credential store", "error", err)
	}
	defer redis.Close()

	// Each client session gets its own store namespace; Redis keeps them
	// across restarts, the in-memory fallback only for the process lifetime.
	var stores usecase.StoreFactory
	if client := redis.Client(); client != nil {
		ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
		stores = func(namespace string) domain.CredentialStore {
			return redisstore.NewCredentialStore(client, namespace, ttl)
		}
	} else {
		stores = func(string) domain.CredentialStore {
			return memory.NewCredentialStore()
		}
	}

	// 4. Setup Session Audit Log (optional)
	var audit domain.SessionEventRepository
	if cfg.DBUrl != "" && cfg.AuditToDB {
		dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		audit = postgres.NewSessionEventRepository(dbPool)
	} else {
		logger.Log.Warn("Session audit log disabled")
	}

	// 5. Setup Core
	dispatcher := events.NewInMemoryDispatcher()
	decoder := auth.NewDecoder(cfg.TokenSecret)
	sessions := usecase.NewSessionRegistry(stores, decoder, dispatcher, audit)
	avatars := usecase.NewAvatarCache(usecase.NewHTTPAvatarSource(cfg.BackendURL), dispatcher)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		Sessions: sessions,
		Avatars:  avatars,
		Audit:    audit,
		Config:   cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
