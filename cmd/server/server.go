package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Plaqueminier/m3u8-viewer/internal/config"
	domain "github.com/Plaqueminier/m3u8-viewer/internal/domain/video"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/auth"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/database"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/logger"
	repo "github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/repository/video"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/storage"
	"github.com/Plaqueminier/m3u8-viewer/internal/interfaces/httpserver"
)

// @title m3u8-viewer API
// @version 1.0
// @description Password-gated personal media gallery
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(database.Config{
		Path:            cfg.DatabasePath,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	storageClient, err := provideStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	videoRepository := repo.NewRepository(db)
	videoService := domain.NewService(cfg, videoRepository, storageClient, log)
	authenticator := auth.NewAuthenticator(cfg, log)

	httpServer := httpserver.New(cfg, log, videoService, authenticator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// provideStorage creates the appropriate storage backend based on configuration.
func provideStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (domain.Storage, error) {
	if cfg.IsLocalStorage() {
		return storage.NewLocalStorage(cfg, log)
	}
	return storage.NewS3Storage(ctx, cfg, log)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
