package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arcrobot/admin_backend/internal/config"
	"github.com/arcrobot/admin_backend/internal/infrastructure/repository"
	"github.com/arcrobot/admin_backend/internal/ranking"
)

// runtime holds what every subcommand needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadConfig()
	}
	return config.Load(path)
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if level == "debug" {
		zcfg = zap.NewDevelopmentConfig()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// bootstrap loads config, builds the logger and opens the database.
func bootstrap(ctx context.Context, configPath string) (*runtime, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", cfg.GetDBConnString())
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name))
	return &runtime{cfg: cfg, logger: logger, db: db}, nil
}

func (rt *runtime) Close() {
	rt.db.Close()
	_ = rt.logger.Sync()
}

func (rt *runtime) ranker(tx *repository.TxManager) *ranking.Ranker {
	return ranking.NewRanker(repository.NewRankStore(rt.db), tx, rt.cfg.Policy(), rt.logger.Named("ranking"))
}
