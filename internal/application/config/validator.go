package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/doeshing/prompt-enhancer/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate ensures the application config is consistent.
func Validate(cfg domain.AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return describe(err)
	}
	return validateNetwork(cfg.Network)
}

func validateNetwork(network domain.NetworkSettings) error {
	fields := []struct {
		name  string
		value string
	}{
		{"network.enhance_timeout", network.EnhanceTimeout},
		{"network.models_timeout", network.ModelsTimeout},
		{"network.connection_timeout", network.ConnectionTimeout},
	}
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		d, err := time.ParseDuration(field.value)
		if err != nil {
			return fmt.Errorf("%s must be a duration like 30s, got %q", field.name, field.value)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", field.name, field.value)
		}
	}
	return nil
}

func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s], got %q", yamlPath(fe.Namespace()), fe.Param(), fe.Value()))
		case "hostname_port":
			messages = append(messages, fmt.Sprintf("%s must be host:port, got %q", yamlPath(fe.Namespace()), fe.Value()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", yamlPath(fe.Namespace()), fe.Tag()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}

// yamlPath turns "AppConfig.Storage.Backend" into "storage.backend".
func yamlPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = toSnake(part)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
