package httpserver

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/image-generation-api/internal/config"
	"github.com/janhq/image-generation-api/internal/infrastructure/fal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(providerURL string) *config.Config {
	return &config.Config{
		ServiceName:        "image-generation-api",
		Environment:        "test",
		HTTPPort:           8080,
		LogPromptMode:      "hashed",
		ShutdownTimeout:    time.Second,
		CORSAllowedOrigins: []string{"*"},
		EnableSwagger:      true,
		FalAPIURL:          providerURL,
		FalAPIKey:          "test-key",
		FalModelID:         "fal-ai/flux-pro/v1.1-ultra",
		FalTimeout:         5 * time.Second,
	}
}

// newTestServer wires the full stack against a provider stub.
func newTestServer(t *testing.T, providerStatus int, providerBody string) *gin.Engine {
	t.Helper()
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(providerStatus)
		_, _ = w.Write([]byte(providerBody))
	}))
	t.Cleanup(provider.Close)

	cfg := testConfig(provider.URL)
	client, err := fal.NewClient(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return New(cfg, zerolog.Nop(), client).Engine()
}

func post(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate-image", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestGenerateImage_EndToEndSuccess(t *testing.T) {
	engine := newTestServer(t, http.StatusOK, `{
		"images": [{"url": "https://x/img.jpg", "width": 1920, "height": 1080, "content_type": "image/jpeg"}],
		"seed": 1234567890,
		"has_nsfw_concepts": [false],
		"prompt": "A beautiful sunset"
	}`)

	rec := post(engine, `{"prompt": "A beautiful sunset", "num_images": 1}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.JSONEq(t, `{
		"status": "success",
		"images": [{"url": "https://x/img.jpg", "width": 1920, "height": 1080, "content_type": "image/jpeg"}],
		"seed": 1234567890,
		"has_nsfw_concepts": [false],
		"prompt": "A beautiful sunset"
	}`, rec.Body.String())
}

func TestGenerateImage_EndToEndProviderError(t *testing.T) {
	engine := newTestServer(t, http.StatusTooManyRequests, "Rate limit exceeded")

	rec := post(engine, `{"prompt": "A beautiful sunset", "num_images": 1}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"FAL.ai API error (HTTP 429): Rate limit exceeded"}`, rec.Body.String())
}

func TestGenerateImage_EndToEndValidation(t *testing.T) {
	engine := newTestServer(t, http.StatusOK, `{"images": []}`)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty prompt", `{"prompt": "", "num_images": 1}`, "Validation failed: {prompt=Prompt is required}"},
		{"too many", `{"prompt": "p", "num_images": 5}`, "Validation failed: {num_images=Number of images cannot exceed 4}"},
		{"zero", `{"prompt": "p", "num_images": 0}`, "Validation failed: {num_images=Number of images must be at least 1}"},
		{"bad enum", `{"prompt": "p", "num_images": 1, "output_format": "webp"}`, "Validation failed: {output_format=Output format must be one of: jpeg, png}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(engine, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestGenerateImage_MalformedBody(t *testing.T) {
	engine := newTestServer(t, http.StatusOK, `{"images": []}`)

	for _, body := range []string{`{"prompt": `, `{"prompt": "p", "num_images": "two"}`} {
		rec := post(engine, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp["status"])
		assert.True(t, strings.HasPrefix(resp["error"], "Invalid request body: "), resp["error"])
	}
}

func TestHealth_IndependentOfProvider(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	client, err := fal.NewClient(cfg, zerolog.Nop())
	require.NoError(t, err)
	engine := New(cfg, zerolog.Nop(), client).Engine()

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/generate-image/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status    string    `json:"status"`
		Service   string    `json:"service"`
		Timestamp time.Time `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UP", body.Status)
	assert.Equal(t, "image-generation", body.Service)
	assert.WithinDuration(t, time.Now(), body.Timestamp, time.Minute)
}

func TestRequestSchemaRoute(t *testing.T) {
	engine := newTestServer(t, http.StatusOK, `{}`)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/generate-image/schema", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var schema struct {
		Required   []string                   `json:"required"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	assert.ElementsMatch(t, []string{"prompt", "num_images"}, schema.Required)
	assert.Len(t, schema.Properties, 6)
	assert.Contains(t, string(schema.Properties["aspect_ratio"]), "16:9")
}

func TestCoreRoutes(t *testing.T) {
	engine := newTestServer(t, http.StatusOK, `{}`)

	for _, path := range []string{"/", "/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestGenerateImage_AccessLogCarriesOutcome(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"images": [{"url": "https://x/1.jpg"}, {"url": "https://x/2.jpg"}]}`))
	}))
	t.Cleanup(provider.Close)

	cfg := testConfig(provider.URL)
	client, err := fal.NewClient(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	var buf bytes.Buffer
	engine := New(cfg, zerolog.New(&buf), client).Engine()

	rec := post(engine, `{"prompt": "A beautiful sunset", "num_images": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var access map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		if entry["message"] == "generate-image completed" {
			access = entry
		}
	}
	require.NotNil(t, access)
	assert.Equal(t, "success", access["generation_result"])
	assert.Equal(t, float64(2), access["image_count"])
	assert.Equal(t, "/api/generate-image", access["route"])
	assert.NotEmpty(t, access["prompt_hash"])
}
