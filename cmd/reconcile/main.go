// Command reconcile pages through the object store and inserts metadata rows
// for objects missing from the videos table. Insert-only: it never deletes
// stale rows, so a row may outlive its object until an explicit delete.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Plaqueminier/m3u8-viewer/internal/config"
	domain "github.com/Plaqueminier/m3u8-viewer/internal/domain/video"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/database"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/logger"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/metrics"
	repo "github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/repository/video"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/storage"
)

// Lister is the storage paging surface the reconcile loop needs.
type Lister interface {
	ListPage(ctx context.Context, token string) ([]domain.ObjectInfo, string, error)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg).With().Str("component", "reconcile").Logger()

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

	var lister Lister
	if cfg.IsLocalStorage() {
		lister, err = storage.NewLocalStorage(cfg, log)
	} else {
		lister, err = storage.NewS3Storage(ctx, cfg, log)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	repository := repo.NewRepository(db)
	total, inserted, err := reconcile(ctx, lister, repository, log)
	if err != nil {
		log.Fatal().Err(err).Msg("reconcile failed")
	}

	log.Info().
		Int("total_objects", total).
		Int("inserted_rows", inserted).
		Msg("scan complete")
}

func reconcile(ctx context.Context, lister Lister, repository *repo.Repository, log zerolog.Logger) (total, inserted int, err error) {
	token := ""
	for {
		objects, next, err := lister.ListPage(ctx, token)
		if err != nil {
			return total, inserted, err
		}

		for _, object := range objects {
			if !isVideoObject(object.Key) {
				continue
			}
			total++

			exists, err := repository.Exists(ctx, object.Key)
			if err != nil {
				return total, inserted, err
			}
			if exists {
				continue
			}

			row := domain.Video{
				Name:         groupingPrefix(object.Key),
				Key:          object.Key,
				Size:         object.Size,
				LastModified: object.LastModified.UnixMilli(),
			}
			if err := repository.Create(ctx, &row); err != nil {
				return total, inserted, err
			}
			inserted++
			metrics.ReconciledRowsTotal.Inc()
			log.Info().Str("key", object.Key).Msg("added missing video")
		}

		if next == "" {
			return total, inserted, nil
		}
		token = next
	}
}

// isVideoObject filters to originals: .mp4 keys outside the previews tree.
func isVideoObject(key string) bool {
	return strings.HasSuffix(key, ".mp4") && !strings.HasPrefix(key, "previews/")
}

// groupingPrefix derives the model name: the text before the first slash.
func groupingPrefix(key string) string {
	if i := strings.Index(key, "/"); i >= 0 {
		return key[:i]
	}
	return key
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
