package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"Gin_postgres_redis_division_inventory/app"
	"Gin_postgres_redis_division_inventory/config"
	"Gin_postgres_redis_division_inventory/realtime"
	"Gin_postgres_redis_division_inventory/routes"

	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()
	logger := application.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Bootstrap(ctx, application.Config, application.Repo, logger); err != nil {
		logger.Fatal("bootstrap", zap.Error(err))
	}

	// Postgres NOTIFY → Redis pub/sub，所有实例的 SSE 都能收到
	listener := realtime.NewListener(application.Config.DatabaseURL, application.Notifier, logger.Named("listener"))
	go func() {
		if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("change listener stopped", zap.Error(err))
		}
	}()

	routes.RegisterRoutes(application.Router, application)

	srv := &http.Server{
		Addr:              ":" + application.Config.Port,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
		// 信号到来时取消请求 context，SSE 连接随之退出
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
}
