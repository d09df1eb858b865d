package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// DataDir returns ~/.prompt-enhancer.
func DataDir() string {
	return filepath.Join(UserHomeDir(), ".prompt-enhancer")
}

// ExpandPath resolves a leading "~/" against the home directory and cleans
// everything else.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return ""
	case path == "~":
		return UserHomeDir()
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(UserHomeDir(), path[2:])
	case filepath.IsAbs(path):
		return path
	default:
		return filepath.Clean(path)
	}
}
