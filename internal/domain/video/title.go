package video

import (
	"path"
	"regexp"
	"strings"
	"time"
)

// Recording keys embed a capture timestamp in the filename:
// <model>/<user>-YYYY-MM-DD_HH-MM-SS-<suffix>.mp4
var timestampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}`)

// DisplayDate extracts the capture timestamp from the key as
// "YYYY-MM-DD HH:MM:SS". When the key carries no timestamp it falls back to
// the stored modification time.
func DisplayDate(key string, lastModifiedMillis int64) string {
	if match := timestampPattern.FindString(key); match != "" {
		date := match[:10]
		clock := strings.ReplaceAll(match[11:], "-", ":")
		return date + " " + clock
	}
	return time.UnixMilli(lastModifiedMillis).UTC().Format("2006-01-02 15:04:05")
}

// Title derives a display title from the key basename. The expected shape is
// <user>-YYYY-MM-DD_HH-MM-SS-<suffix>: the leading token becomes the user
// label (underscores read as spaces) and the timestamp is appended. Keys that
// do not match fall back to the extension-less basename.
func Title(key string) string {
	base := path.Base(key)
	user, rest, found := strings.Cut(base, "-")
	if found {
		if ts := timestampPattern.FindString(rest); ts != "" {
			return strings.ReplaceAll(user, "_", " ") + " " + ts
		}
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// PreviewPrefix derives the preview segment directory for a key: the key
// without its grouping prefix and extension, under "previews/".
func PreviewPrefix(key string) string {
	rel := key
	if i := strings.Index(rel, "/"); i >= 0 {
		rel = rel[i+1:]
	}
	if j := strings.LastIndex(rel, "."); j >= 0 {
		rel = rel[:j]
	}
	return "previews/" + rel
}
