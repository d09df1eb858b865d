package bridge_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/bridge"
	"github.com/doeshing/prompt-enhancer/internal/pkg/logger"
)

type fixture struct {
	srv        *httptest.Server
	dispatcher *stubDispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	settingsStore, hist := memoryStores()
	settingsStore.Save(domain.Settings{
		Provider:       domain.ProviderOpenRouter,
		APIKey:         "sk-or-v1-stored-key",
		Model:          "stored:free",
		OutputLanguage: "Korean",
	})
	dispatcher := &stubDispatcher{text: "enhanced", models: []domain.ModelDescriptor{{ID: "x:free", Name: "X"}}}
	server := bridge.NewServer(bridge.New(dispatcher, hist, logger.Nop()), settingsStore, hist, logger.Nop())

	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, dispatcher: dispatcher}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := f.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var payload map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func TestServerEnhanceUsesStoredSettings(t *testing.T) {
	f := newFixture(t)

	resp, payload := f.do(t, http.MethodPost, "/api/enhance", `{"prompt":"refactor"}`)

	if resp.StatusCode != http.StatusOK || payload["success"] != true || payload["enhancedPrompt"] != "enhanced" {
		t.Fatalf("unexpected response %d %v", resp.StatusCode, payload)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID")
	}
	got := f.dispatcher.settings
	if got.APIKey != "sk-or-v1-stored-key" || got.Model != "stored:free" || got.OutputLanguage != "Korean" {
		t.Fatalf("stored settings not applied: %+v", got)
	}

}

func TestServerHistoryLifecycle(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/enhance", `{"prompt":"one"}`)

	resp, err := f.srv.Client().Get(f.srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("GET history: %v", err)
	}
	var records []domain.HistoryRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	resp.Body.Close()
	if len(records) != 1 || records[0].Input != "one" {
		t.Fatalf("unexpected history %+v", records)
	}

	path := "/api/history/" + strconv.FormatInt(records[0].ID, 10)
	if resp, payload := f.do(t, http.MethodGet, path, ""); resp.StatusCode != http.StatusOK || payload["output"] != "enhanced" {
		t.Fatalf("GET %s = %d %v", path, resp.StatusCode, payload)
	}

	if resp, _ := f.do(t, http.MethodDelete, "/api/history", ""); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("clear without confirm should be rejected, got %d", resp.StatusCode)
	}

	if resp, _ := f.do(t, http.MethodDelete, path, ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE %s = %d", path, resp.StatusCode)
	}
	if resp, _ := f.do(t, http.MethodGet, path, ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted record still served: %d", resp.StatusCode)
	}

	f.do(t, http.MethodPost, "/api/enhance", `{"prompt":"two"}`)
	if resp, _ := f.do(t, http.MethodDelete, "/api/history?confirm=true", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("confirmed clear failed: %d", resp.StatusCode)
	}
}

func TestServerSettings(t *testing.T) {
	f := newFixture(t)

	_, payload := f.do(t, http.MethodGet, "/api/settings", "")
	if _, ok := payload["apiKey"]; ok || payload["apiKeySet"] != true {
		t.Fatalf("api key should be hidden behind apiKeySet, got %v", payload)
	}

	resp, payload := f.do(t, http.MethodPut, "/api/settings", `{"provider":"ollama","model":"llama3","language":"English","ollamaUrl":"http://box:11434"}`)
	if resp.StatusCode != http.StatusOK || payload["provider"] != "ollama" {
		t.Fatalf("PUT settings = %d %v", resp.StatusCode, payload)
	}
	if payload["apiKeySet"] != false {
		t.Fatalf("api key should be dropped for ollama: %v", payload)
	}

	resp, payload = f.do(t, http.MethodPut, "/api/settings", `{"provider":"openrouter","apiKey":"bad","model":"m"}`)
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(payload["error"].(string), "sk-") {
		t.Fatalf("invalid key should be rejected, got %d %v", resp.StatusCode, payload)
	}
}

func TestServerSettingsRoundTripKeepsAPIKey(t *testing.T) {
	f := newFixture(t)

	_, payload := f.do(t, http.MethodGet, "/api/settings", "")
	payload["language"] = "French"
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encode settings: %v", err)
	}
	if resp, got := f.do(t, http.MethodPut, "/api/settings", string(body)); resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT settings = %d %v", resp.StatusCode, got)
	}

	masked := domain.MaskSecret("sk-or-v1-stored-key")
	if resp, got := f.do(t, http.MethodPut, "/api/settings", `{"provider":"openrouter","apiKey":"`+masked+`","model":"stored:free","language":"French"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT masked settings = %d %v", resp.StatusCode, got)
	}

	f.do(t, http.MethodPost, "/api/enhance", `{"prompt":"refactor"}`)
	got := f.dispatcher.settings
	if got.APIKey != "sk-or-v1-stored-key" || got.OutputLanguage != "French" {
		t.Fatalf("stored key lost after settings round trip: %+v", got)
	}
}

func TestServerModelsAndConnection(t *testing.T) {
	f := newFixture(t)

	_, payload := f.do(t, http.MethodPost, "/api/models", `{}`)
	models, ok := payload["models"].([]interface{})
	if payload["success"] != true || !ok || len(models) != 1 {
		t.Fatalf("unexpected models payload %v", payload)
	}

	_, payload = f.do(t, http.MethodPost, "/api/test-connection", `{"ollamaUrl":"http://localhost:11434"}`)
	if payload["success"] != true {
		t.Fatalf("unexpected connection payload %v", payload)
	}
}

func TestServerRejectsBadJSON(t *testing.T) {
	f := newFixture(t)

	resp, payload := f.do(t, http.MethodPost, "/api/enhance", `{"prompt":`)
	if resp.StatusCode != http.StatusBadRequest || payload["success"] != false {
		t.Fatalf("unexpected response %d %v", resp.StatusCode, payload)
	}
}

func TestServerHealthAndMetrics(t *testing.T) {
	f := newFixture(t)

	if _, payload := f.do(t, http.MethodGet, "/healthz", ""); payload["status"] != "ok" {
		t.Fatalf("unexpected health payload %v", payload)
	}

	f.do(t, http.MethodPost, "/api/enhance", `{"prompt":"count me"}`)
	resp, err := f.srv.Client().Get(f.srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(buf.String(), `prompt_enhancer_operation_results_total{op="enhance",success="true"} 1`) {
		t.Fatalf("enhance outcome not counted:\n%s", buf.String())
	}
}

func TestIsLoopback(t *testing.T) {
	tests := map[string]bool{
		"127.0.0.1:7878": true,
		"localhost:7878": true,
		"[::1]:7878":     true,
		"0.0.0.0:7878":   false,
		":7878":          false,
		"10.0.0.4:7878":  false,
	}
	for addr, want := range tests {
		if got := bridge.IsLoopback(addr); got != want {
			t.Errorf("IsLoopback(%q) = %v, want %v", addr, got, want)
		}
	}
}
