package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/light-bringer/adpricing-service/internal/pkg/config"
	"github.com/light-bringer/adpricing-service/internal/pkg/logger"
	"github.com/light-bringer/adpricing-service/internal/services"
	"github.com/light-bringer/adpricing-service/internal/transport/grpc/pricing"
	httphandler "github.com/light-bringer/adpricing-service/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Load configuration
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	zl.Info("Starting Pricing Service",
		zap.String("store", cfg.Store),
		zap.String("spanner_database", cfg.Spanner.Database),
		zap.String("grpc_port", cfg.GRPC.Port),
		zap.String("http_port", cfg.HTTP.Port),
	)

	// 2. Initialize service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, zl)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 3. Create gRPC server and register services
	grpcServer := grpc.NewServer()
	pricing.RegisterPricingServiceServer(grpcServer, serviceOpts.PricingHandler)

	// 4. Enable reflection (for grpcurl and debugging)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}

	// 5. Start gRPC server in background
	go func() {
		zl.Info("gRPC server listening", zap.String("port", cfg.GRPC.Port))
		if err := grpcServer.Serve(lis); err != nil {
			zl.Error("gRPC server error", zap.Error(err))
		}
	}()

	// 6. Create HTTP server
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           httphandler.NewRouter(serviceOpts.QuotesHandler, zl),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 7. Start HTTP server in background
	go func() {
		zl.Info("HTTP server listening", zap.String("port", cfg.HTTP.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("HTTP server error", zap.Error(err))
		}
	}()

	// 8. Graceful shutdown handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zl.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("HTTP server shutdown error", zap.Error(err))
	}

	grpcServer.GracefulStop()

	return nil
}
