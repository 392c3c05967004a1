//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Plaqueminier/m3u8-viewer/internal/config"
	domain "github.com/Plaqueminier/m3u8-viewer/internal/domain/video"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/auth"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/database"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/logger"
	repo "github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/repository/video"
	"github.com/Plaqueminier/m3u8-viewer/internal/interfaces/httpserver"
)

var gallerySet = wire.NewSet(
	repo.NewRepository,
	wire.Bind(new(domain.Repository), new(*repo.Repository)),
	provideStorage,
	auth.NewAuthenticator,
	domain.NewService,
)

// BuildApplication assembles the gallery service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		gallerySet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Path:            cfg.DatabasePath,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}
