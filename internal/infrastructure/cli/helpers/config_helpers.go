package helpers

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/prompt-enhancer/internal/app"
	"github.com/doeshing/prompt-enhancer/internal/domain"
	configinfra "github.com/doeshing/prompt-enhancer/internal/infrastructure/config"
)

// ====================================================================================
// Config Helpers
// ====================================================================================

// GetConfigLoader extracts the config loader from container with error handling
func GetConfigLoader(container *app.Container) (*configinfra.FileLoader, error) {
	if container.ConfigLoader == nil {
		return nil, fmt.Errorf("config loader unavailable")
	}
	return container.ConfigLoader, nil
}

// ParseYAMLValue parses a string value as YAML, falling back to literal string
func ParseYAMLValue(input string) interface{} {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil {
		return input
	}
	return parsed
}

// SetConfigValue updates one dotted key path (e.g. network.enhance_timeout)
// by round-tripping the config through a generic YAML map.
func SetConfigValue(cfg domain.AppConfig, keyPath []string, value interface{}) (domain.AppConfig, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to marshal config: %w", err)
	}
	root := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	if _, found := TraverseNestedMap(root, keyPath); !found {
		return cfg, fmt.Errorf("unknown config key %s", strings.Join(keyPath, "."))
	}
	SetNestedMapValue(root, keyPath, value)

	raw, err = yaml.Marshal(root)
	if err != nil {
		return cfg, fmt.Errorf("failed to encode config: %w", err)
	}
	var updated domain.AppConfig
	if err := yaml.Unmarshal(raw, &updated); err != nil {
		return cfg, fmt.Errorf("value does not fit %s: %w", strings.Join(keyPath, "."), err)
	}
	return updated, nil
}

// SetNestedMapValue sets a value in a nested map using a key path
// Returns true if successful, false otherwise
func SetNestedMapValue(root map[string]interface{}, keyPath []string, value interface{}) bool {
	if len(keyPath) == 0 {
		return false
	}

	current := root
	for i := 0; i < len(keyPath)-1; i++ {
		key := keyPath[i]
		next, exists := current[key]

		if !exists {
			newChild := map[string]interface{}{}
			current[key] = newChild
			current = newChild
			continue
		}

		child, isMap := next.(map[string]interface{})
		if !isMap {
			child = map[string]interface{}{}
			current[key] = child
		}
		current = child
	}

	current[keyPath[len(keyPath)-1]] = value
	return true
}

// TraverseNestedMap retrieves a value from a nested map using a key path
// Returns the value and true if found, nil and false otherwise
func TraverseNestedMap(data interface{}, keyPath []string) (interface{}, bool) {
	if len(keyPath) == 0 {
		return data, true
	}

	switch node := data.(type) {
	case map[string]interface{}:
		next, exists := node[keyPath[0]]
		if !exists {
			return nil, false
		}
		return TraverseNestedMap(next, keyPath[1:])
	default:
		return nil, false
	}
}
