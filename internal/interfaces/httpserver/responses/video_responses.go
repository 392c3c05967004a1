package responses

import domain "github.com/Plaqueminier/m3u8-viewer/internal/domain/video"

// Pagination describes the page window of a listing response.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalVideos int64 `json:"totalVideos"`
}

// VideoListResponse is the /api/videos payload.
type VideoListResponse struct {
	Videos     []domain.Summary `json:"videos"`
	Pagination Pagination       `json:"pagination"`
}

// PreviewsResponse carries signed URLs for the preview segments of a key.
type PreviewsResponse struct {
	URLs []string `json:"urls"`
}

// ModelsResponse lists the grouping prefixes.
type ModelsResponse struct {
	Models []domain.Model `json:"models"`
}

// FavoriteResponse returns the flag value after a toggle.
type FavoriteResponse struct {
	Favorite bool `json:"favorite"`
}

// SuccessResponse acknowledges a mutation with no other payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}
