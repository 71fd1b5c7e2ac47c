package storage

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// GenerateReportFolderPath generates a consistent folder path for reports
// Format: YYYY/MM/DD/SeaStateReport-YYYY-MM-DD-HH-MM-SS
func GenerateReportFolderPath(timestamp time.Time) string {
	t := timestamp.UTC()
	return fmt.Sprintf("%04d/%02d/%02d/SeaStateReport-%s",
		t.Year(), t.Month(), t.Day(), t.Format("2006-01-02-15-04-05"))
}

var contentTypes = map[string]string{
	".json":    "application/json",
	".txt":     "text/plain",
	".html":    "text/html",
	".css":     "text/css",
	".md":      "text/markdown",
	".csv":     "text/csv",
	".yaml":    "application/yaml",
	".yml":     "application/yaml",
	".parquet": "application/vnd.apache.parquet",
	".png":     "image/png",
	".jpg":     "image/jpeg",
	".jpeg":    "image/jpeg",
	".gif":     "image/gif",
	".svg":     "image/svg+xml",
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// cleanObjectPath normalizes a slash separated path and rejects paths that
// escape the storage root.
func cleanObjectPath(p string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("invalid path %q", p)
	}
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return "", fmt.Errorf("path %q escapes storage root", p)
		}
	}
	return cleaned, nil
}

// newestFirst sorts report folders descending and applies limit.
func newestFirst(folders []string, limit int) []string {
	sort.Sort(sort.Reverse(sort.StringSlice(folders)))
	if limit > 0 && limit < len(folders) {
		folders = folders[:limit]
	}
	return folders
}
