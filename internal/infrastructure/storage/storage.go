// Package storage provides the single key/value store behind settings and
// history. SQLite is the primary backend; a YAML file is used when SQLite is
// not selected or cannot be opened.
package storage

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/pkg/filesystem"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

// Open selects the backend described by cfg. A SQLite failure falls back to
// the file backend in the same directory.
func Open(fs afero.Fs, cfg domain.AppConfig, logger ports.Logger) ports.KeyValueStore {
	dir := ResolveDataDir(cfg)
	filePath := filepath.Join(dir, FileStoreName)

	if cfg.IsFileStorage() {
		return NewFileStore(fs, filePath)
	}

	store, err := OpenSQLite(filepath.Join(dir, SQLiteFileName))
	if err != nil {
		logger.Warn("sqlite store unavailable, using file store", map[string]interface{}{
			"error": err.Error(),
			"path":  filePath,
		})
		return NewFileStore(fs, filePath)
	}
	return store
}

// ResolveDataDir returns the expanded data directory from cfg.
func ResolveDataDir(cfg domain.AppConfig) string {
	if cfg.Storage.DataDir == "" {
		return filesystem.DataDir()
	}
	return filesystem.ExpandPath(cfg.Storage.DataDir)
}

// Close releases backend resources when the store holds any.
func Close(store ports.KeyValueStore) error {
	if closer, ok := store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
