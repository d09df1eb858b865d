// Package enhance dispatches enhancement, model listing and connectivity
// calls to the configured provider.
package enhance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/ai"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

// Validation messages shown before any network call is attempted.
const (
	MessageSelectModel = "Please select a model in Settings first."
	MessageSetAPIKey   = "Please set your API key in Settings first."
	MessageEmptyPrompt = "Please enter a prompt to enhance."
)

const maxResponseBytes = 8 << 20

// Timeouts bounds each kind of call. Zero values fall back to the defaults.
type Timeouts struct {
	Enhance    time.Duration
	Models     time.Duration
	Connection time.Duration
}

// TimeoutsFromConfig reads the network section of the app config.
func TimeoutsFromConfig(cfg domain.AppConfig) Timeouts {
	return Timeouts{
		Enhance:    cfg.GetEnhanceTimeout(),
		Models:     cfg.GetModelsTimeout(),
		Connection: cfg.GetConnectionTimeout(),
	}
}

// Service is the request dispatcher. Every call is one HTTP round trip.
type Service struct {
	Adapters   ports.AdapterFactory
	HTTPClient ports.HTTPDoer
	Logger     ports.Logger
	Timeouts   Timeouts
}

// Enhance validates settings, sends the prompt and returns the enhanced text.
func (s *Service) Enhance(ctx context.Context, settings domain.Settings, prompt string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	callID := uuid.NewString()

	kind, err := validateForCall(settings)
	if err != nil {
		s.logState(callID, "enhance", "rejected", map[string]interface{}{"reason": err.Error()})
		return "", err
	}
	if strings.TrimSpace(prompt) == "" {
		s.logState(callID, "enhance", "rejected", map[string]interface{}{"reason": MessageEmptyPrompt})
		return "", domain.NewValidationError(MessageEmptyPrompt)
	}
	settings.Provider = kind

	adapter, err := s.Adapters.ForProvider(kind)
	if err != nil {
		return "", err
	}
	req, err := adapter.BuildEnhanceRequest(settings, prompt)
	if err != nil {
		return "", fmt.Errorf("build enhance request: %w", err)
	}

	body, err := s.roundTrip(ctx, callID, "enhance", s.timeout(s.Timeouts.Enhance, domain.DefaultEnhanceTimeout), req)
	if err != nil {
		return "", err
	}

	text, err := adapter.ExtractText(body)
	if err != nil {
		s.logState(callID, "enhance", "failed", map[string]interface{}{"reason": err.Error()})
		return "", malformed(err)
	}
	s.logState(callID, "enhance", "succeeded", map[string]interface{}{
		"provider": kind.String(),
		"model":    settings.Model,
		"chars":    len(text),
	})
	return text, nil
}

// ListModels returns the models the provider offers. OpenRouter listings are
// limited to free models.
func (s *Service) ListModels(ctx context.Context, settings domain.Settings) ([]domain.ModelDescriptor, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	callID := uuid.NewString()

	kind, err := domain.ParseProvider(string(settings.Provider))
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if kind == domain.ProviderOpenRouter && strings.TrimSpace(settings.APIKey) == "" {
		s.logState(callID, "models", "rejected", map[string]interface{}{"reason": MessageSetAPIKey})
		return nil, domain.NewValidationError(MessageSetAPIKey)
	}
	settings.Provider = kind

	adapter, err := s.Adapters.ForProvider(kind)
	if err != nil {
		return nil, err
	}
	req, err := adapter.BuildModelsRequest(settings)
	if err != nil {
		return nil, fmt.Errorf("build models request: %w", err)
	}

	body, err := s.roundTrip(ctx, callID, "models", s.timeout(s.Timeouts.Models, domain.DefaultModelsTimeout), req)
	if err != nil {
		return nil, err
	}

	models, err := adapter.ParseModels(body)
	if err != nil {
		s.logState(callID, "models", "failed", map[string]interface{}{"reason": err.Error()})
		return nil, malformed(err)
	}
	s.logState(callID, "models", "succeeded", map[string]interface{}{"provider": kind.String(), "count": len(models)})
	return models, nil
}

// TestConnection probes an Ollama server. Any 2xx answer is a success.
func (s *Service) TestConnection(ctx context.Context, ollamaURL string) error {
	if err := s.ready(); err != nil {
		return err
	}
	callID := uuid.NewString()

	req := ports.OutboundRequest{Method: http.MethodGet, URL: ai.OllamaTagsURL(ollamaURL)}
	ctx, cancel := context.WithTimeout(ctx, s.timeout(s.Timeouts.Connection, domain.DefaultConnectionTimeout))
	defer cancel()

	s.logState(callID, "test-connection", "in-flight", map[string]interface{}{"url": req.URL})
	resp, err := s.send(ctx, req)
	if err != nil {
		s.logState(callID, "test-connection", "failed", map[string]interface{}{"reason": err.Error()})
		return domain.NewNetworkError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if !isSuccess(resp.StatusCode) {
		s.logState(callID, "test-connection", "failed", map[string]interface{}{"status": resp.StatusCode})
		return domain.NewHTTPError(resp.StatusCode, fmt.Sprintf("Connection failed: %d", resp.StatusCode))
	}
	s.logState(callID, "test-connection", "succeeded", nil)
	return nil
}

func (s *Service) ready() error {
	if s.Adapters == nil || s.HTTPClient == nil || s.Logger == nil {
		return errors.New("enhance.Service dependencies not satisfied")
	}
	return nil
}

// validateForCall mirrors the checks the settings screen enforces before a
// call: a known provider, a model, and an API key for OpenRouter.
func validateForCall(settings domain.Settings) (domain.ProviderKind, error) {
	kind, err := domain.ParseProvider(string(settings.Provider))
	if err != nil {
		return "", domain.NewValidationError(err.Error())
	}
	if strings.TrimSpace(settings.Model) == "" {
		return "", domain.NewValidationError(MessageSelectModel)
	}
	if kind == domain.ProviderOpenRouter && strings.TrimSpace(settings.APIKey) == "" {
		return "", domain.NewValidationError(MessageSetAPIKey)
	}
	return kind, nil
}

// roundTrip performs the single HTTP call of an operation and returns the
// body of a 2xx response.
func (s *Service) roundTrip(ctx context.Context, callID, op string, timeout time.Duration, req ports.OutboundRequest) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logState(callID, op, "in-flight", map[string]interface{}{"method": req.Method, "url": req.URL})
	resp, err := s.send(ctx, req)
	if err != nil {
		s.logState(callID, op, "failed", map[string]interface{}{"reason": err.Error()})
		return nil, domain.NewNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		s.logState(callID, op, "failed", map[string]interface{}{"reason": err.Error()})
		return nil, domain.NewNetworkError(err)
	}

	if !isSuccess(resp.StatusCode) {
		message := ai.APIErrorMessage(resp.StatusCode, body)
		s.logState(callID, op, "failed", map[string]interface{}{"status": resp.StatusCode, "message": message})
		return nil, domain.NewHTTPError(resp.StatusCode, message)
	}
	return body, nil
}

func (s *Service) send(ctx context.Context, req ports.OutboundRequest) (*http.Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	return s.HTTPClient.Do(httpReq)
}

func (s *Service) logState(callID, op, state string, fields map[string]interface{}) {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["call_id"] = callID
	fields["op"] = op
	s.Logger.Debug("dispatch "+state, fields)
}

func (s *Service) timeout(configured, fallback time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}
	return fallback
}

// malformed reports a 2xx body that could not be decoded. It is classified
// with HTTP errors since the server did answer.
func malformed(err error) error {
	return &domain.Error{
		Kind:    domain.ErrorKindHTTP,
		Message: "Received an unreadable response from the provider.",
		Status:  http.StatusOK,
		Err:     err,
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

var _ ports.Dispatcher = (*Service)(nil)
