package video

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/Plaqueminier/m3u8-viewer/internal/domain/video"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/database/entities"
)

// qualityExpr computes the fraction of '1' characters in the prediction
// string. NULLIF turns an empty prediction into NULL so those rows can be
// pushed last regardless of direction.
const qualityExpr = "(CAST(LENGTH(REPLACE(prediction, '0', '')) AS REAL) / CAST(NULLIF(LENGTH(prediction), 0) AS REAL))"

// Repository handles video metadata persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of rows matching the query filters plus the total
// count of matching rows ignoring pagination.
func (r *Repository) List(ctx context.Context, q domain.ListQuery) ([]domain.Video, int64, error) {
	tx := r.db.WithContext(ctx).Model(&entities.Video{})
	tx = applyFilters(tx, q)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	var rows []entities.Video
	err := tx.Order(orderClause(q)).
		Limit(q.PageSize).
		Offset((q.Page - 1) * q.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("select videos: %w", err)
	}

	videos := make([]domain.Video, len(rows))
	for i, row := range rows {
		videos[i] = mapEntity(row)
	}
	return videos, total, nil
}

func applyFilters(tx *gorm.DB, q domain.ListQuery) *gorm.DB {
	if q.Model != "" {
		tx = tx.Where("key LIKE ?", q.Model+"/%")
	}
	if q.FavoritesOnly {
		tx = tx.Where("favorite = ?", true)
	}
	if q.UnseenOnly {
		tx = tx.Where("seen IS NULL")
	}
	return tx
}

func orderClause(q domain.ListQuery) string {
	direction := "DESC"
	if q.SortOrder == domain.SortAsc {
		direction = "ASC"
	}
	switch q.SortBy {
	case domain.SortByQuality:
		return qualityExpr + " " + direction + " NULLS LAST, lastModified DESC"
	case domain.SortBySize:
		return "size " + direction + ", lastModified DESC"
	default:
		return "lastModified " + direction
	}
}

// GetByKey loads one row by its object key.
func (r *Repository) GetByKey(ctx context.Context, key string) (*domain.Video, error) {
	var entity entities.Video
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get video by key: %w", err)
	}
	video := mapEntity(entity)
	return &video, nil
}

// SetFavorite writes the favorite flag for a key.
func (r *Repository) SetFavorite(ctx context.Context, key string, favorite bool) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Video{}).
		Where("key = ?", key).
		Update("favorite", favorite)
	if result.Error != nil {
		return fmt.Errorf("set favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkSeen stamps the seen time for a key. Zero rows affected is success:
// the update runs regardless of whether the key exists.
func (r *Repository) MarkSeen(ctx context.Context, key string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Video{}).
		Where("key = ?", key).
		Update("seen", at).Error
	if err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// DeleteByKey removes the row for a key. Deleting an absent row is a no-op.
func (r *Repository) DeleteByKey(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).Where("key = ?", key).Delete(&entities.Video{}).Error
	if err != nil {
		return fmt.Errorf("delete video row: %w", err)
	}
	return nil
}

// Exists reports whether a row for the key is already present.
func (r *Repository) Exists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Video{}).
		Where("key = ?", key).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check video exists: %w", err)
	}
	return count > 0, nil
}

// Create inserts a newly discovered row. Used by the reconcile job only.
func (r *Repository) Create(ctx context.Context, v *domain.Video) error {
	entity := entities.Video{
		Name:         v.Name,
		Key:          v.Key,
		Size:         v.Size,
		LastModified: v.LastModified,
		Favorite:     v.Favorite,
		Prediction:   v.Prediction,
		Seen:         v.Seen,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return fmt.Errorf("create video row: %w", err)
	}
	v.ID = entity.ID
	return nil
}

func mapEntity(entity entities.Video) domain.Video {
	return domain.Video{
		ID:           entity.ID,
		Name:         entity.Name,
		Key:          entity.Key,
		Size:         entity.Size,
		LastModified: entity.LastModified,
		Favorite:     entity.Favorite,
		Prediction:   entity.Prediction,
		Seen:         entity.Seen,
	}
}
