package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/prompt-enhancer/assets"
	appconfig "github.com/doeshing/prompt-enhancer/internal/application/config"
	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/pkg/filesystem"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "PROMPT_ENHANCER_CONFIG"

// FileLoader loads YAML configuration from ~/.prompt-enhancer/config.yaml
// (overridable via PROMPT_ENHANCER_CONFIG).
type FileLoader struct {
	fs           afero.Fs
	overridePath string
}

// NewFileLoader builds a loader on the OS filesystem.
func NewFileLoader(path string) *FileLoader {
	return NewFileLoaderWithFs(afero.NewOsFs(), path)
}

// NewFileLoaderWithFs builds a loader on fs.
func NewFileLoaderWithFs(fs afero.Fs, path string) *FileLoader {
	return &FileLoader{fs: fs, overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded default.
func (l *FileLoader) Load(context.Context) (domain.AppConfig, error) {
	path := l.Path()

	exists, err := afero.Exists(l.fs, path)
	if err != nil {
		return domain.AppConfig{}, fmt.Errorf("stat config: %w", err)
	}
	if !exists {
		if err := l.writeRaw(path, assets.DefaultConfigYAML); err != nil {
			return domain.AppConfig{}, err
		}
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return domain.AppConfig{}, fmt.Errorf("read config: %w", err)
	}

	var cfg domain.AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.AppConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg = HydrateDefaults(cfg)

	if err := appconfig.Validate(cfg); err != nil {
		return domain.AppConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg back to the config file.
func (l *FileLoader) Save(cfg domain.AppConfig) error {
	if err := appconfig.Validate(cfg); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return l.writeRaw(l.Path(), raw)
}

// Path returns the resolved config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.DataDir(), "config.yaml")
}

func (l *FileLoader) writeRaw(path string, raw []byte) error {
	if err := l.fs.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := afero.WriteFile(l.fs, path, raw, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultConfig parses the embedded default configuration.
func DefaultConfig() domain.AppConfig {
	var cfg domain.AppConfig
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return HydrateDefaults(domain.AppConfig{})
	}
	return HydrateDefaults(cfg)
}

// HydrateDefaults fills fields an older or hand-edited file may omit.
func HydrateDefaults(cfg domain.AppConfig) domain.AppConfig {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = domain.StorageBackendSQLite
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "~/.prompt-enhancer"
	}
	if cfg.Network.EnhanceTimeout == "" {
		cfg.Network.EnhanceTimeout = domain.DefaultEnhanceTimeout.String()
	}
	if cfg.Network.ModelsTimeout == "" {
		cfg.Network.ModelsTimeout = domain.DefaultModelsTimeout.String()
	}
	if cfg.Network.ConnectionTimeout == "" {
		cfg.Network.ConnectionTimeout = domain.DefaultConnectionTimeout.String()
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = cfg.GetListenAddress()
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
