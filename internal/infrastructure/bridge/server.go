package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/ports"
	"github.com/doeshing/prompt-enhancer/internal/version"
)

const maxRequestBytes = 256 * 1024

// Server serves the boundary operations plus settings and history over HTTP.
type Server struct {
	bridge   *Bridge
	settings ports.SettingsStore
	history  ports.HistoryRepository
	logger   ports.Logger
	metrics  *metrics
}

// NewServer builds the HTTP transport around b.
func NewServer(b *Bridge, settings ports.SettingsStore, history ports.HistoryRepository, logger ports.Logger) *Server {
	return &Server{
		bridge:   b,
		settings: settings,
		history:  history,
		logger:   logger,
		metrics:  newMetrics(),
	}
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/enhance", s.handleEnhance)
	mux.HandleFunc("POST /api/models", s.handleModels)
	mux.HandleFunc("POST /api/test-connection", s.handleTestConnection)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)
	mux.HandleFunc("GET /api/history", s.handleListHistory)
	mux.HandleFunc("DELETE /api/history", s.handleClearHistory)
	mux.HandleFunc("GET /api/history/{id}", s.handleGetHistory)
	mux.HandleFunc("DELETE /api/history/{id}", s.handleDeleteHistory)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())

	return withRequestID(withLogging(s.logger, s.metrics, withMaxBytes(maxRequestBytes, mux)))
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// IsLoopback reports whether addr only binds a loopback interface.
func IsLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	var req EnhanceRequest
	if !decode(w, r, &req) {
		return
	}
	req = s.withStoredSettings(req)

	start := time.Now()
	result := s.bridge.EnhancePrompt(r.Context(), req)
	s.metrics.observe("enhance", start, result.Success)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	var req ModelsRequest
	if !decode(w, r, &req) {
		return
	}
	stored := s.settings.Load()
	if req.Provider == "" {
		req.Provider = stored.ProviderKind().String()
	}
	if req.APIKey == "" {
		req.APIKey = stored.APIKey
	}
	if req.OllamaURL == "" {
		req.OllamaURL = stored.OllamaURL
	}

	start := time.Now()
	result := s.bridge.GetModels(r.Context(), req)
	s.metrics.observe("models", start, result.Success)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	var req ConnectionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.OllamaURL == "" {
		req.OllamaURL = s.settings.Load().OllamaURL
	}

	start := time.Now()
	result := s.bridge.TestConnection(r.Context(), req)
	s.metrics.observe("test-connection", start, result.Success)
	writeJSON(w, http.StatusOK, result)
}

// settingsView is the settings payload served to front ends. The API key
// itself never leaves the process.
type settingsView struct {
	Provider  domain.ProviderKind `json:"provider"`
	Model     string              `json:"model"`
	Language  string              `json:"language"`
	OllamaURL string              `json:"ollamaUrl"`
	APIKeySet bool                `json:"apiKeySet"`
}

func newSettingsView(settings domain.Settings) settingsView {
	return settingsView{
		Provider:  settings.ProviderKind(),
		Model:     settings.Model,
		Language:  settings.Language(),
		OllamaURL: settings.BaseOllamaURL(),
		APIKeySet: settings.RequiresAPIKey() && settings.APIKey != "",
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSettingsView(s.settings.Load()))
}

// handlePutSettings validates and saves settings. An omitted or masked API
// key keeps the stored one.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var next domain.Settings
	if !decode(w, r, &next) {
		return
	}
	kind, err := domain.ParseProvider(string(next.Provider))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, SimpleResult{Error: err.Error()})
		return
	}
	next.Provider = kind
	if kind == domain.ProviderOpenRouter {
		stored := s.settings.Load().APIKey
		if next.APIKey == "" || (stored != "" && next.APIKey == domain.MaskSecret(stored)) {
			next.APIKey = stored
		}
	}
	if err := next.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, SimpleResult{Error: err.Error()})
		return
	}
	s.settings.Save(next)
	writeJSON(w, http.StatusOK, newSettingsView(s.settings.Load()))
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.history.List())
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := historyID(w, r)
	if !ok {
		return
	}
	record, found := s.history.Get(id)
	if !found {
		writeJSON(w, http.StatusNotFound, SimpleResult{Error: "history record not found"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := historyID(w, r)
	if !ok {
		return
	}
	s.history.Remove(id)
	writeJSON(w, http.StatusOK, SimpleResult{Success: true})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !confirmed {
		writeJSON(w, http.StatusBadRequest, SimpleResult{Error: "clearing history requires confirm=true"})
		return
	}
	s.history.Clear()
	writeJSON(w, http.StatusOK, SimpleResult{Success: true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) withStoredSettings(req EnhanceRequest) EnhanceRequest {
	stored := s.settings.Load()
	if req.Provider == "" {
		req.Provider = stored.ProviderKind().String()
	}
	if req.APIKey == "" {
		req.APIKey = stored.APIKey
	}
	if req.Model == "" {
		req.Model = stored.Model
	}
	if req.Language == "" {
		req.Language = stored.Language()
	}
	if req.OllamaURL == "" {
		req.OllamaURL = stored.OllamaURL
	}
	return req
}

func historyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, SimpleResult{Error: "invalid history id"})
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		msg := "invalid JSON body"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			msg = "request body too large"
		}
		writeJSON(w, http.StatusBadRequest, SimpleResult{Error: msg})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
