package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcrobot/admin_backend/internal/application"
	"github.com/arcrobot/admin_backend/internal/config"
	"github.com/arcrobot/admin_backend/internal/email"
	"github.com/arcrobot/admin_backend/internal/infrastructure/repository"
	handlers "github.com/arcrobot/admin_backend/internal/interfaces/http"
	"github.com/arcrobot/admin_backend/internal/scheduler"
	services "github.com/arcrobot/admin_backend/internal/service"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *configPath)
		},
	}
}

func newUploader(ctx context.Context, cfg *config.Config) (services.Uploader, string, error) {
	if cfg.Storage.Driver == config.StorageS3 {
		s3, err := services.NewS3Service(ctx, cfg.Storage.Bucket, cfg.Storage.Region)
		return s3, "", err
	}
	disk, err := services.NewDiskStorage(cfg.Storage.UploadDir, cfg.BackendURL)
	if err != nil {
		return nil, "", err
	}
	return disk, disk.Dir(), nil
}

func newNotifier(cfg *config.Config, logger *zap.Logger) application.ConsultNotifier {
	if !cfg.SMTP.Enabled() {
		logger.Info("smtp not configured, consult notifications disabled")
		return nil
	}
	client, err := email.NewClient(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.FromName,
		cfg.SMTP.FromEmail,
		logger.Named("email"),
	)
	if err != nil {
		// keep serving without mail
		logger.Warn("email client initialization failed", zap.Error(err))
		return nil
	}
	return email.NewConsultNotifier(client, cfg.SMTP.NotifyTo)
}

func serve(ctx context.Context, configPath string) error {
	rt, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg, logger, db := rt.cfg, rt.logger, rt.db

	uploader, staticDir, err := newUploader(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}

	tx := repository.NewTxManager(db)
	ranker := rt.ranker(tx)

	blogRepo := repository.NewBlogRepository(db)
	blogService := application.NewBlogService(blogRepo, ranker, uploader, logger.Named("blog"))

	catalogRepo := repository.NewCatalogRepository(db)
	catalogService := application.NewCatalogService(catalogRepo, ranker, uploader, logger.Named("catalog"))

	siteService := application.NewSiteService(repository.NewSiteRepository(db))

	consultService := application.NewConsultService(repository.NewConsultRepository(db), newNotifier(cfg, logger), logger.Named("consult"))
	limiter := application.NewRateLimiter(time.Minute, 5)
	go limiter.Run(ctx, time.Minute)

	workerService := application.NewWorkerService(repository.NewWorkerRepository(db), uploader, logger.Named("worker"))
	positionService := application.NewImagePositionService(repository.NewImagePositionRepository(db), catalogRepo, uploader)

	app := handlers.NewApp(handlers.AppConfig{
		AllowOrigins: cfg.AllowedOrigins(),
		StaticDir:    staticDir,
	}, handlers.Handlers{
		Blog:          handlers.NewBlogHandler(blogService),
		Catalog:       handlers.NewCatalogHandler(catalogService),
		Site:          handlers.NewSiteHandler(siteService),
		Consult:       handlers.NewConsultHandler(consultService, limiter),
		Worker:        handlers.NewWorkerHandler(workerService),
		ImagePosition: handlers.NewImagePositionHandler(positionService),
		Upload:        handlers.NewUploadHandler(uploader),
	}, logger.Named("http"))

	audit := scheduler.NewRankAuditScheduler(ranker, repository.RankedScopes(), cfg.AuditInterval, logger.Named("audit"))
	audit.Start(ctx)
	defer audit.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.ServerPort), zap.String("rank_policy", string(cfg.Policy())))
		errCh <- app.Listen(":" + cfg.ServerPort)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("error starting server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("error shutting down: %w", err)
	}
	return nil
}
