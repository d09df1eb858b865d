package domain

// AppConfig mirrors ~/.prompt-enhancer/config.yaml.
type AppConfig struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Storage             StorageSettings `yaml:"storage"`
	Network             NetworkSettings `yaml:"network"`
	Server              ServerSettings  `yaml:"server"`
}

// StorageSettings selects where settings and history live.
type StorageSettings struct {
	Backend string `yaml:"backend" validate:"omitempty,oneof=sqlite file"`
	DataDir string `yaml:"data_dir"`
}

// NetworkSettings bounds outbound provider calls.
type NetworkSettings struct {
	EnhanceTimeout    string `yaml:"enhance_timeout"`
	ModelsTimeout     string `yaml:"models_timeout"`
	ConnectionTimeout string `yaml:"connection_timeout"`
}

// ServerSettings configures the local HTTP bridge.
type ServerSettings struct {
	Listen string `yaml:"listen" validate:"omitempty,hostname_port"`
}

// Storage backends
const (
	StorageBackendSQLite = "sqlite"
	StorageBackendFile   = "file"
)
