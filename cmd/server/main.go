package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/tododash/internal/api/grpc/context"
	"github.com/dtroode/tododash/internal/api/grpc/router"
	grpcServer "github.com/dtroode/tododash/internal/api/grpc/server"
	"github.com/dtroode/tododash/internal/config"
	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
	"github.com/dtroode/tododash/internal/repository/postgres"
	"github.com/dtroode/tododash/internal/server"
	"github.com/dtroode/tododash/internal/service"
	storage "github.com/dtroode/tododash/internal/storage/minio"
	"github.com/dtroode/tododash/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewServer()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	todoRepo := postgres.NewTodoRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL)

	authService := service.NewAuth(userRepo, refreshTokenRepo, tokenManager, logger)

	// A nil interface disables Export.
	var exports model.Storage
	if cfg.Storage.Enabled {
		storageClient, err := storage.New(ctx, storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
		exports = storageClient
	}
	tablesService := service.NewTables(todoRepo, exports, logger)

	r := router.New(authService, tablesService, authService.TokenService(), grpcctx.NewManager(), cfg.APIKey, logger)
	s := r.Register()
	reflection.Register(s)
	srv := grpcServer.NewGRPCServer(s, cfg.GRPC.Address)

	var certFile, keyFile string
	if cfg.GRPC.EnableTLS {
		certFile, keyFile = cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName
	}
	sl := server.NewSecurityLayer(certFile, keyFile)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
