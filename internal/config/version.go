package config

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// DefaultVersion is reported when no other version source is available.
const DefaultVersion = "0.1.0"

// GetVersion returns the version from APP_VERSION, a VERSION file, or the
// module build info, in that order.
func GetVersion() string {
	if envVersion := strings.TrimSpace(os.Getenv("APP_VERSION")); envVersion != "" {
		return envVersion
	}

	if v := readVersionFile(); v != "" {
		return v
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return strings.TrimPrefix(v, "v")
		}
	}

	return DefaultVersion
}

// readVersionFile looks for VERSION in the working directory and its parents
// up to two levels up.
func readVersionFile() string {
	for _, dir := range []string{".", "..", filepath.Join("..", "..")} {
		content, err := os.ReadFile(filepath.Join(dir, "VERSION"))
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(string(content)); v != "" {
			return v
		}
	}
	return ""
}
