package config_test

import (
	"strings"
	"testing"

	"github.com/doeshing/prompt-enhancer/internal/application/config"
	"github.com/doeshing/prompt-enhancer/internal/domain"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     domain.AppConfig
		wantErr string
	}{
		{name: "empty config", cfg: domain.AppConfig{}},
		{
			name: "full config",
			cfg: domain.AppConfig{
				Storage: domain.StorageSettings{Backend: "file", DataDir: "~/.prompt-enhancer"},
				Network: domain.NetworkSettings{EnhanceTimeout: "90s", ModelsTimeout: "1m", ConnectionTimeout: "5s"},
				Server:  domain.ServerSettings{Listen: "127.0.0.1:7878"},
			},
		},
		{
			name:    "unknown backend",
			cfg:     domain.AppConfig{Storage: domain.StorageSettings{Backend: "postgres"}},
			wantErr: "storage.backend must be one of [sqlite file]",
		},
		{
			name:    "listen without port",
			cfg:     domain.AppConfig{Server: domain.ServerSettings{Listen: "localhost"}},
			wantErr: "server.listen must be host:port",
		},
		{
			name:    "bad duration",
			cfg:     domain.AppConfig{Network: domain.NetworkSettings{EnhanceTimeout: "soon"}},
			wantErr: "network.enhance_timeout must be a duration",
		},
		{
			name:    "negative duration",
			cfg:     domain.AppConfig{Network: domain.NetworkSettings{ModelsTimeout: "-5s"}},
			wantErr: "network.models_timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.Validate(tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
