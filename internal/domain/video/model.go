package video

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when no metadata row matches the requested key.
var ErrNotFound = errors.New("video not found")

// Video is the domain view of one metadata row.
type Video struct {
	ID           int64
	Name         string
	Key          string
	Size         int64
	LastModified int64 // epoch millis
	Favorite     bool
	Prediction   string
	Seen         *time.Time
}

// Quality returns the fraction of '1' characters in the prediction string,
// or -1 when the prediction is empty.
func (v Video) Quality() float64 {
	if len(v.Prediction) == 0 {
		return -1
	}
	ones := strings.Count(v.Prediction, "1")
	return float64(ones) / float64(len(v.Prediction))
}

// SortKey selects the primary listing order.
type SortKey string

const (
	SortByDate    SortKey = "date"
	SortByQuality SortKey = "quality"
	SortBySize    SortKey = "size"
)

// SortOrder selects ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortKey maps a query parameter onto a SortKey, defaulting to date.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortByQuality:
		return SortByQuality
	case SortBySize:
		return SortBySize
	default:
		return SortByDate
	}
}

// ParseSortOrder maps a query parameter onto a SortOrder, defaulting to desc.
func ParseSortOrder(raw string) SortOrder {
	if SortOrder(raw) == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// ListQuery describes one page request against the metadata store.
type ListQuery struct {
	Model         string
	FavoritesOnly bool
	UnseenOnly    bool
	SortBy        SortKey
	SortOrder     SortOrder
	Page          int
	PageSize      int
}

// Summary is one listing entry with freshly signed playback URLs.
type Summary struct {
	ID                    int64  `json:"id"`
	Name                  string `json:"name"`
	Key                   string `json:"key"`
	Date                  string `json:"date"`
	Size                  int64  `json:"size"`
	SizeLabel             string `json:"fileSize"`
	Favorite              bool   `json:"favorite"`
	Prediction            string `json:"prediction"`
	Seen                  bool   `json:"seen"`
	PreviewPresignedURL   string `json:"previewPresignedUrl"`
	FullVideoPresignedURL string `json:"fullVideoPresignedUrl"`
}

// Page is the result of a listing request.
type Page struct {
	Videos      []Summary
	CurrentPage int
	TotalPages  int
	TotalVideos int64
}

// Detail is the single-video view backed by a live HeadObject call.
type Detail struct {
	Key          string `json:"key"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	FileSize     string `json:"fileSize"`
	PresignedURL string `json:"presignedUrl"`
	Favorite     bool   `json:"favorite"`
	Prediction   string `json:"prediction"`
}

// Model is one grouping prefix in the bucket.
type Model struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}
