package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hourlog/internal/httpapi"
	"hourlog/pkg/config"
	"hourlog/pkg/db"
	"hourlog/pkg/logger"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		zlog.Fatal("db open", zap.Error(err))
	}
	defer conn.Close()

	if cfg.MigrationsPath != "" {
		if err := db.MigrateConfig(cfg.MigrationsPath, cfg); err != nil {
			zlog.Fatal("migrate", zap.Error(err))
		}
	}

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:    cfg,
		DB:     conn,
		Logger: zlog,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("http serve", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}
