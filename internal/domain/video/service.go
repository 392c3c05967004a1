package video

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Plaqueminier/m3u8-viewer/internal/config"
)

const previewSegmentCount = 10

// Repository defines persistence operations needed by the service.
type Repository interface {
	List(ctx context.Context, q ListQuery) ([]Video, int64, error)
	GetByKey(ctx context.Context, key string) (*Video, error)
	SetFavorite(ctx context.Context, key string, favorite bool) error
	MarkSeen(ctx context.Context, key string, at time.Time) error
	DeleteByKey(ctx context.Context, key string) error
}

// ObjectInfo is the storage-side view of one object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage defines the object store operations needed by the service.
type Storage interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Head(ctx context.Context, key string) (*ObjectInfo, error)
	ListPrefixes(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Service serves listing, detail and mutation operations for the gallery.
type Service struct {
	cfg     *config.Config
	repo    Repository
	storage Storage
	log     zerolog.Logger
}

func NewService(cfg *config.Config, repo Repository, storage Storage, log zerolog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		repo:    repo,
		storage: storage,
		log:     log.With().Str("component", "video-service").Logger(),
	}
}

// List returns one page of video summaries with freshly signed URLs.
// Read-only: it never touches the favorite or seen flags.
func (s *Service) List(ctx context.Context, q ListQuery) (*Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = s.cfg.PageSize
	}
	if q.SortBy == "" {
		q.SortBy = SortByDate
	}
	if q.SortOrder == "" {
		q.SortOrder = SortDesc
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	summaries := make([]Summary, len(rows))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, row := range rows {
		i, row := i, row
		group.Go(func() error {
			summary, err := s.summarize(groupCtx, row)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("sign video urls: %w", err)
	}

	return &Page{
		Videos:      summaries,
		CurrentPage: q.Page,
		TotalPages:  int(math.Ceil(float64(total) / float64(q.PageSize))),
		TotalVideos: total,
	}, nil
}

func (s *Service) summarize(ctx context.Context, row Video) (Summary, error) {
	previewURL, err := s.storage.PresignGet(ctx, PreviewPrefix(row.Key)+"/segment_01.mp4", s.cfg.PresignTTL)
	if err != nil {
		return Summary{}, err
	}
	fullURL, err := s.storage.PresignGet(ctx, row.Key, s.cfg.PresignTTL)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		ID:                    row.ID,
		Name:                  row.Name,
		Key:                   row.Key,
		Date:                  DisplayDate(row.Key, row.LastModified),
		Size:                  row.Size,
		SizeLabel:             FormatSize(row.Size),
		Favorite:              row.Favorite,
		Prediction:            row.Prediction,
		Seen:                  row.Seen != nil,
		PreviewPresignedURL:   previewURL,
		FullVideoPresignedURL: fullURL,
	}, nil
}

// Get returns the detail view for one key, sized and dated from a live
// HeadObject call against the bucket.
func (s *Service) Get(ctx context.Context, key string) (*Detail, error) {
	info, err := s.storage.Head(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("head object: %w", err)
	}

	playbackURL, err := s.storage.PresignGet(ctx, key, s.cfg.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign playback url: %w", err)
	}

	favorite := false
	prediction := ""
	row, err := s.repo.GetByKey(ctx, key)
	switch {
	case err == nil:
		favorite = row.Favorite
		prediction = row.Prediction
	case errors.Is(err, ErrNotFound):
		// Object exists but has not been reconciled yet; serve it anyway.
	default:
		return nil, fmt.Errorf("load metadata: %w", err)
	}

	return &Detail{
		Key:          key,
		Title:        Title(key),
		Date:         info.LastModified.UTC().Format("2006-01-02"),
		FileSize:     FormatSize(info.Size),
		PresignedURL: playbackURL,
		Favorite:     favorite,
		Prediction:   prediction,
	}, nil
}

// Previews signs URLs for the fixed-named preview segments of a key.
func (s *Service) Previews(ctx context.Context, key string) ([]string, error) {
	prefix := PreviewPrefix(key)
	urls := make([]string, 0, previewSegmentCount)
	for i := 1; i <= previewSegmentCount; i++ {
		segmentKey := fmt.Sprintf("%s/segment_%02d.mp4", prefix, i)
		url, err := s.storage.PresignGet(ctx, segmentKey, s.cfg.PresignTTL)
		if err != nil {
			return nil, fmt.Errorf("presign preview segment: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Models lists the grouping prefixes present in the bucket, excluding the
// derived previews tree.
func (s *Service) Models(ctx context.Context) ([]Model, error) {
	prefixes, err := s.storage.ListPrefixes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prefixes: %w", err)
	}
	models := make([]Model, 0, len(prefixes))
	for _, prefix := range prefixes {
		name := strings.TrimSuffix(prefix, "/")
		if name == "" || name == "previews" {
			continue
		}
		models = append(models, Model{Name: name, Key: name})
	}
	return models, nil
}

// ToggleFavorite flips the favorite flag for a key and returns the new value.
func (s *Service) ToggleFavorite(ctx context.Context, key string) (bool, error) {
	row, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return false, err
	}
	next := !row.Favorite
	if err := s.repo.SetFavorite(ctx, key, next); err != nil {
		return false, fmt.Errorf("update favorite: %w", err)
	}
	return next, nil
}

// MarkSeen stamps the seen time for a key. Unknown keys are a no-op.
func (s *Service) MarkSeen(ctx context.Context, key string) error {
	if err := s.repo.MarkSeen(ctx, key, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// Delete removes the object, its preview segments, and the metadata row, in
// that order. Storage goes first so a crash mid-way leaves at worst an
// orphaned row; every step tolerates an already-deleted target, so retrying
// the whole operation is safe.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	removed, err := s.storage.DeletePrefix(ctx, PreviewPrefix(key)+"/")
	if err != nil {
		return fmt.Errorf("delete preview segments: %w", err)
	}

	if err := s.repo.DeleteByKey(ctx, key); err != nil {
		return fmt.Errorf("delete metadata row: %w", err)
	}

	s.log.Info().Str("key", key).Int("preview_segments", removed).Msg("video deleted")
	return nil
}
