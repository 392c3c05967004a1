package video_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Plaqueminier/m3u8-viewer/internal/config"
	video "github.com/Plaqueminier/m3u8-viewer/internal/domain/video"
)

// MockRepository implements video.Repository for testing.
type MockRepository struct {
	ListFunc        func(ctx context.Context, q video.ListQuery) ([]video.Video, int64, error)
	GetByKeyFunc    func(ctx context.Context, key string) (*video.Video, error)
	SetFavoriteFunc func(ctx context.Context, key string, favorite bool) error
	MarkSeenFunc    func(ctx context.Context, key string, at time.Time) error
	DeleteByKeyFunc func(ctx context.Context, key string) error
}

func (m *MockRepository) List(ctx context.Context, q video.ListQuery) ([]video.Video, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return nil, 0, nil
}

func (m *MockRepository) GetByKey(ctx context.Context, key string) (*video.Video, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(ctx, key)
	}
	return nil, video.ErrNotFound
}

func (m *MockRepository) SetFavorite(ctx context.Context, key string, favorite bool) error {
	if m.SetFavoriteFunc != nil {
		return m.SetFavoriteFunc(ctx, key, favorite)
	}
	return nil
}

func (m *MockRepository) MarkSeen(ctx context.Context, key string, at time.Time) error {
	if m.MarkSeenFunc != nil {
		return m.MarkSeenFunc(ctx, key, at)
	}
	return nil
}

func (m *MockRepository) DeleteByKey(ctx context.Context, key string) error {
	if m.DeleteByKeyFunc != nil {
		return m.DeleteByKeyFunc(ctx, key)
	}
	return nil
}

// MockStorage implements video.Storage for testing.
type MockStorage struct {
	PresignGetFunc   func(ctx context.Context, key string, ttl time.Duration) (string, error)
	HeadFunc         func(ctx context.Context, key string) (*video.ObjectInfo, error)
	ListPrefixesFunc func(ctx context.Context) ([]string, error)
	DeleteFunc       func(ctx context.Context, key string) error
	DeletePrefixFunc func(ctx context.Context, prefix string) (int, error)
}

func (m *MockStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.PresignGetFunc != nil {
		return m.PresignGetFunc(ctx, key, ttl)
	}
	return "https://signed.example/" + key, nil
}

func (m *MockStorage) Head(ctx context.Context, key string) (*video.ObjectInfo, error) {
	if m.HeadFunc != nil {
		return m.HeadFunc(ctx, key)
	}
	return &video.ObjectInfo{Key: key}, nil
}

func (m *MockStorage) ListPrefixes(ctx context.Context) ([]string, error) {
	if m.ListPrefixesFunc != nil {
		return m.ListPrefixesFunc(ctx)
	}
	return nil, nil
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *MockStorage) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if m.DeletePrefixFunc != nil {
		return m.DeletePrefixFunc(ctx, prefix)
	}
	return 0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		PageSize:   12,
		PresignTTL: time.Hour,
	}
}

func newTestService(repo *MockRepository, store *MockStorage) *video.Service {
	return video.NewService(testConfig(), repo, store, zerolog.Nop())
}

func TestList_EndToEnd(t *testing.T) {
	repo := &MockRepository{
		ListFunc: func(ctx context.Context, q video.ListQuery) ([]video.Video, int64, error) {
			return []video.Video{{
				ID:           1,
				Name:         "alice",
				Key:          "alice/alice-2024-01-02_03-04-05-xyz.mp4",
				Size:         2048,
				LastModified: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli(),
				Favorite:     false,
				Prediction:   "11110000",
			}}, 1, nil
		},
	}
	store := &MockStorage{}

	page, err := newTestService(repo, store).List(context.Background(), video.ListQuery{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(page.Videos) != 1 {
		t.Fatalf("got %d videos, want 1", len(page.Videos))
	}
	entry := page.Videos[0]
	if entry.SizeLabel != "2 KB" {
		t.Errorf("SizeLabel = %q, want %q", entry.SizeLabel, "2 KB")
	}
	if entry.Favorite {
		t.Error("Favorite = true, want false")
	}
	if q := (video.Video{Prediction: entry.Prediction}).Quality(); q != 0.5 {
		t.Errorf("quality = %v, want 0.5", q)
	}
	if entry.Date != "2024-01-02 03:04:05" {
		t.Errorf("Date = %q", entry.Date)
	}
	wantPreview := "https://signed.example/previews/alice-2024-01-02_03-04-05-xyz/segment_01.mp4"
	if entry.PreviewPresignedURL != wantPreview {
		t.Errorf("PreviewPresignedURL = %q, want %q", entry.PreviewPresignedURL, wantPreview)
	}
	wantFull := "https://signed.example/alice/alice-2024-01-02_03-04-05-xyz.mp4"
	if entry.FullVideoPresignedURL != wantFull {
		t.Errorf("FullVideoPresignedURL = %q, want %q", entry.FullVideoPresignedURL, wantFull)
	}
	if page.TotalVideos != 1 || page.TotalPages != 1 || page.CurrentPage != 1 {
		t.Errorf("pagination = %+v", page)
	}
}

func TestList_EmptyResult(t *testing.T) {
	repo := &MockRepository{
		ListFunc: func(ctx context.Context, q video.ListQuery) ([]video.Video, int64, error) {
			return nil, 0, nil
		},
	}

	page, err := newTestService(repo, &MockStorage{}).List(context.Background(), video.ListQuery{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page.Videos) != 0 {
		t.Errorf("got %d videos, want 0", len(page.Videos))
	}
	if page.TotalVideos != 0 || page.TotalPages != 0 {
		t.Errorf("pagination = %+v, want zero totals", page)
	}
}

func TestList_PageBeyondLast(t *testing.T) {
	repo := &MockRepository{
		ListFunc: func(ctx context.Context, q video.ListQuery) ([]video.Video, int64, error) {
			if q.Page != 9 {
				t.Errorf("page = %d, want 9", q.Page)
			}
			return nil, 25, nil
		},
	}

	page, err := newTestService(repo, &MockStorage{}).List(context.Background(), video.ListQuery{Page: 9})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page.Videos) != 0 {
		t.Errorf("got %d videos, want 0", len(page.Videos))
	}
	if page.TotalVideos != 25 || page.TotalPages != 3 {
		t.Errorf("TotalVideos = %d TotalPages = %d, want 25 and 3", page.TotalVideos, page.TotalPages)
	}
}

func TestList_DefaultsApplied(t *testing.T) {
	repo := &MockRepository{
		ListFunc: func(ctx context.Context, q video.ListQuery) ([]video.Video, int64, error) {
			if q.Page != 1 || q.PageSize != 12 {
				t.Errorf("page/pageSize = %d/%d, want 1/12", q.Page, q.PageSize)
			}
			if q.SortBy != video.SortByDate || q.SortOrder != video.SortDesc {
				t.Errorf("sort = %s %s, want date desc", q.SortBy, q.SortOrder)
			}
			return nil, 0, nil
		},
	}

	if _, err := newTestService(repo, &MockStorage{}).List(context.Background(), video.ListQuery{}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
}

func TestList_PresignFailureIsTotal(t *testing.T) {
	repo := &MockRepository{
		ListFunc: func(ctx context.Context, q video.ListQuery) ([]video.Video, int64, error) {
			return []video.Video{{Key: "a/a.mp4"}, {Key: "b/b.mp4"}}, 2, nil
		},
	}
	store := &MockStorage{
		PresignGetFunc: func(ctx context.Context, key string, ttl time.Duration) (string, error) {
			return "", errors.New("storage down")
		},
	}

	if _, err := newTestService(repo, store).List(context.Background(), video.ListQuery{}); err == nil {
		t.Fatal("List() expected error, got nil")
	}
}

func TestToggleFavorite(t *testing.T) {
	state := false
	repo := &MockRepository{
		GetByKeyFunc: func(ctx context.Context, key string) (*video.Video, error) {
			return &video.Video{Key: key, Favorite: state}, nil
		},
		SetFavoriteFunc: func(ctx context.Context, key string, favorite bool) error {
			state = favorite
			return nil
		},
	}
	service := newTestService(repo, &MockStorage{})

	first, err := service.ToggleFavorite(context.Background(), "alice/a.mp4")
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if !first {
		t.Error("first toggle = false, want true")
	}

	second, err := service.ToggleFavorite(context.Background(), "alice/a.mp4")
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if second {
		t.Error("second toggle = true, want false (toggle is its own inverse)")
	}
}

func TestToggleFavorite_NotFound(t *testing.T) {
	service := newTestService(&MockRepository{}, &MockStorage{})

	_, err := service.ToggleFavorite(context.Background(), "missing/key.mp4")
	if !errors.Is(err, video.ErrNotFound) {
		t.Errorf("ToggleFavorite() error = %v, want ErrNotFound", err)
	}
}

func TestDelete_OrderAndIdempotence(t *testing.T) {
	var calls []string
	store := &MockStorage{
		DeleteFunc: func(ctx context.Context, key string) error {
			calls = append(calls, "storage:"+key)
			return nil
		},
		DeletePrefixFunc: func(ctx context.Context, prefix string) (int, error) {
			calls = append(calls, "previews:"+prefix)
			return 3, nil
		},
	}
	repo := &MockRepository{
		DeleteByKeyFunc: func(ctx context.Context, key string) error {
			calls = append(calls, "db:"+key)
			return nil
		},
	}
	service := newTestService(repo, store)

	key := "alice/alice-2024-01-02_03-04-05-xyz.mp4"
	if err := service.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	want := []string{
		"storage:" + key,
		"previews:previews/alice-2024-01-02_03-04-05-xyz/",
		"db:" + key,
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}

	// Second delete of the same key must also succeed.
	if err := service.Delete(context.Background(), key); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}
}

func TestDelete_StorageFailureKeepsRow(t *testing.T) {
	dbDeleted := false
	store := &MockStorage{
		DeleteFunc: func(ctx context.Context, key string) error {
			return errors.New("storage down")
		},
	}
	repo := &MockRepository{
		DeleteByKeyFunc: func(ctx context.Context, key string) error {
			dbDeleted = true
			return nil
		},
	}

	err := newTestService(repo, store).Delete(context.Background(), "alice/a.mp4")
	if err == nil {
		t.Fatal("Delete() expected error, got nil")
	}
	if dbDeleted {
		t.Error("metadata row deleted despite storage failure")
	}
}

func TestPreviews(t *testing.T) {
	service := newTestService(&MockRepository{}, &MockStorage{})

	urls, err := service.Previews(context.Background(), "alice/clip.mp4")
	if err != nil {
		t.Fatalf("Previews() error = %v", err)
	}
	if len(urls) != 10 {
		t.Fatalf("got %d urls, want 10", len(urls))
	}
	if urls[0] != "https://signed.example/previews/clip/segment_01.mp4" {
		t.Errorf("urls[0] = %q", urls[0])
	}
	if urls[9] != "https://signed.example/previews/clip/segment_10.mp4" {
		t.Errorf("urls[9] = %q", urls[9])
	}
}

func TestModels_ExcludesPreviews(t *testing.T) {
	store := &MockStorage{
		ListPrefixesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"alice/", "bob/", "previews/"}, nil
		},
	}

	models, err := newTestService(&MockRepository{}, store).Models(context.Background())
	if err != nil {
		t.Fatalf("Models() error = %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("got %d models, want 2", len(models))
	}
	if models[0].Name != "alice" || models[1].Name != "bob" {
		t.Errorf("models = %+v", models)
	}
}

func TestGet_UnreconciledKeyStillServed(t *testing.T) {
	store := &MockStorage{
		HeadFunc: func(ctx context.Context, key string) (*video.ObjectInfo, error) {
			return &video.ObjectInfo{
				Key:          key,
				Size:         1048576,
				LastModified: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			}, nil
		},
	}

	detail, err := newTestService(&MockRepository{}, store).Get(context.Background(), "alice/alice-2024-01-02_03-04-05-xyz.mp4")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail.FileSize != "1 MB" {
		t.Errorf("FileSize = %q, want %q", detail.FileSize, "1 MB")
	}
	if detail.Title != "alice 2024-01-02_03-04-05" {
		t.Errorf("Title = %q", detail.Title)
	}
	if detail.Date != "2024-01-02" {
		t.Errorf("Date = %q, want %q", detail.Date, "2024-01-02")
	}
	if detail.Favorite || detail.Prediction != "" {
		t.Errorf("metadata defaults: favorite=%v prediction=%q", detail.Favorite, detail.Prediction)
	}
}

func TestMarkSeen(t *testing.T) {
	var stamped time.Time
	repo := &MockRepository{
		MarkSeenFunc: func(ctx context.Context, key string, at time.Time) error {
			stamped = at
			return nil
		},
	}
	service := newTestService(repo, &MockStorage{})

	if err := service.MarkSeen(context.Background(), "alice/a.mp4"); err != nil {
		t.Fatalf("MarkSeen() error = %v", err)
	}
	if stamped.IsZero() {
		t.Error("seen timestamp was not set")
	}

	// Second stamp must also succeed; exact equality is not required.
	if err := service.MarkSeen(context.Background(), "alice/a.mp4"); err != nil {
		t.Errorf("second MarkSeen() error = %v", err)
	}
}
