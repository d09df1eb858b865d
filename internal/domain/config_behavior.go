package domain

import "time"

// GetStorageBackend returns the configured storage backend, defaulting to SQLite.
func (c *AppConfig) GetStorageBackend() string {
	if c.Storage.Backend == "" {
		return StorageBackendSQLite
	}
	return c.Storage.Backend
}

// GetEnhanceTimeout returns the timeout for an enhancement call.
func (c *AppConfig) GetEnhanceTimeout() time.Duration {
	return parseDurationOr(c.Network.EnhanceTimeout, DefaultEnhanceTimeout)
}

// GetModelsTimeout returns the timeout for a model listing call.
func (c *AppConfig) GetModelsTimeout() time.Duration {
	return parseDurationOr(c.Network.ModelsTimeout, DefaultModelsTimeout)
}

// GetConnectionTimeout returns the timeout for a connectivity probe.
func (c *AppConfig) GetConnectionTimeout() time.Duration {
	return parseDurationOr(c.Network.ConnectionTimeout, DefaultConnectionTimeout)
}

// GetListenAddress returns the bridge listen address, loopback by default.
func (c *AppConfig) GetListenAddress() string {
	const defaultListen = "127.0.0.1:7878"

	if c.Server.Listen == "" {
		return defaultListen
	}
	return c.Server.Listen
}

// IsFileStorage reports whether the plain-file backend was selected.
func (c *AppConfig) IsFileStorage() bool {
	return c.GetStorageBackend() == StorageBackendFile
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
