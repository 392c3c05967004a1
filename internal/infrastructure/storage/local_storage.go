package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Plaqueminier/m3u8-viewer/internal/config"
	domain "github.com/Plaqueminier/m3u8-viewer/internal/domain/video"
)

// LocalStorage implements the object store contract on a local directory.
// URLs are plain file-serving links with no expiry; meant for development.
type LocalStorage struct {
	basePath string
	baseURL  string
	log      zerolog.Logger
}

func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath := strings.TrimSpace(cfg.LocalStoragePath)
	if basePath == "" {
		return nil, fmt.Errorf("local storage path is empty")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create local storage directory: %w", err)
	}

	logger.Info().Str("path", basePath).Msg("local storage initialized")
	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(strings.TrimSpace(cfg.LocalStorageBaseURL), "/"),
		log:      logger,
	}, nil
}

// PresignGet returns a direct file-serving URL; local files need no signing.
func (l *LocalStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return l.baseURL + "/" + key, nil
}

func (l *LocalStorage) Head(_ context.Context, key string) (*domain.ObjectInfo, error) {
	info, err := os.Stat(filepath.Join(l.basePath, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	return &domain.ObjectInfo{
		Key:          key,
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}, nil
}

func (l *LocalStorage) ListPrefixes(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, fmt.Errorf("read storage directory: %w", err)
	}
	prefixes := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			prefixes = append(prefixes, entry.Name()+"/")
		}
	}
	return prefixes, nil
}

// ListPage walks the whole tree in one page; local trees are small.
func (l *LocalStorage) ListPage(_ context.Context, token string) ([]domain.ObjectInfo, string, error) {
	if token != "" {
		return nil, "", nil
	}
	var infos []domain.ObjectInfo
	err := filepath.WalkDir(l.basePath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(l.basePath, path)
		if err != nil {
			return err
		}
		infos = append(infos, domain.ObjectInfo{
			Key:          filepath.ToSlash(rel),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("walk storage directory: %w", err)
	}
	return infos, "", nil
}

// Delete removes one file; a missing file is a no-op.
func (l *LocalStorage) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(l.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes the directory behind a prefix.
func (l *LocalStorage) DeletePrefix(_ context.Context, prefix string) (int, error) {
	dir := filepath.Join(l.basePath, filepath.FromSlash(strings.TrimSuffix(prefix, "/")))
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read prefix %s: %w", prefix, err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return 0, fmt.Errorf("remove prefix %s: %w", prefix, err)
	}
	return len(entries), nil
}
