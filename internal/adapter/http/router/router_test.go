package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/adapter/http/handler"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/infrastructure/config"
)

func newFakeLanguageService(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"401","message":"Access denied"}}`))
			return
		}

		var req struct {
			Kind string `json:"kind"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		switch req.Kind {
		case "SentimentAnalysis":
			_, _ = w.Write([]byte(`{"kind":"SentimentAnalysisResults","results":{"documents":[{"id":"1","sentiment":"negative","confidenceScores":{"positive":0.01,"neutral":0.04,"negative":0.95}}],"errors":[],"modelVersion":"2022-11-01"}}`))
		default:
			_, _ = w.Write([]byte(`{"kind":"LanguageDetectionResults","results":{"documents":[{"id":"1","detectedLanguage":{"name":"French","iso6391Name":"fr","confidenceScore":0.99}}],"errors":[],"modelVersion":"2022-10-01"}}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestConfig(endpoint string) *config.Config {
	return &config.Config{
		Language: config.LanguageConfig{
			EndpointURL:     endpoint,
			APIKey:          "test-key",
			Timeout:         5 * time.Second,
			NetworkDomains:  []string{"127.0.0.1"},
			CellConcurrency: 2,
		},
		Credential: config.CredentialConfig{
			Store:      config.CredentialStoreMemory,
			SessionTTL: time.Minute,
		},
	}
}

func setupTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return Setup(cfg, nil, nil, zap.NewNop(), prometheus.NewRegistry())
}

func post(t *testing.T, router *gin.Engine, path, body string, headers map[string]string) (*httptest.ResponseRecorder, handler.Response) {
	t.Helper()

	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response handler.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestSetup_Formulas(t *testing.T) {
	server := newFakeLanguageService(t)
	router := setupTestRouter(t, newTestConfig(server.URL))

	t.Run("analyze sentiment", func(t *testing.T) {
		w, response := post(t, router, "/api/v1/formulas/AnalyzeSentiment", `{"text": "This is terrible"}`, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result := response.Data.(map[string]any)["result"].(map[string]any)
		assert.Equal(t, "negative", result["sentiment"])
		assert.Equal(t, 0.95, result["negativeScore"])
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("detect language", func(t *testing.T) {
		w, response := post(t, router, "/api/v1/formulas/DetectLanguage", `{"text": "Bonjour tout le monde"}`, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result := response.Data.(map[string]any)["result"].(map[string]any)
		assert.Equal(t, "French", result["name"])
		assert.Equal(t, "fr", result["isoName"])
	})

	t.Run("short text skips the service", func(t *testing.T) {
		w, response := post(t, router, "/api/v1/formulas/DetectLanguage", `{"text": "hi"}`, map[string]string{
			handler.EndpointURLHeader: "https://unreachable.cognitiveservices.azure.com/",
			handler.APIKeyHeader:      "unused",
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result := response.Data.(map[string]any)["result"].(map[string]any)
		assert.Equal(t, "Unknown", result["name"])
	})

	t.Run("column format", func(t *testing.T) {
		w, response := post(t, router, "/api/v1/column-formats/Sentiment", `{"cells": ["Awful service", "ok", "Never again"]}`, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		results := response.Data.(map[string]any)["results"].([]any)
		require.Len(t, results, 3)
		assert.Equal(t, "negative", results[0].(map[string]any)["sentiment"])
		assert.Equal(t, "unknown", results[1].(map[string]any)["sentiment"])
		assert.Equal(t, "negative", results[2].(map[string]any)["sentiment"])
	})

	t.Run("rejected key surfaces upstream error", func(t *testing.T) {
		w, response := post(t, router, "/api/v1/formulas/AnalyzeSentiment", `{"text": "hello there"}`, map[string]string{
			handler.EndpointURLHeader: server.URL,
			handler.APIKeyHeader:      "wrong-key",
		})

		assert.Equal(t, http.StatusBadGateway, w.Code)
		require.NotNil(t, response.Error)
		assert.Equal(t, "UPSTREAM_ERROR", response.Error.Code)
		assert.Contains(t, response.Error.Detail, "Access denied")
		assert.NotContains(t, w.Body.String(), "wrong-key")
	})

	t.Run("endpoint outside network domains", func(t *testing.T) {
		w, response := post(t, router, "/api/v1/formulas/AnalyzeSentiment", `{"text": "hello there"}`, map[string]string{
			handler.EndpointURLHeader: "https://attacker.example.com/",
			handler.APIKeyHeader:      "stolen",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "DOMAIN_NOT_ALLOWED", response.Error.Code)
	})

	t.Run("unknown formula", func(t *testing.T) {
		w, _ := post(t, router, "/api/v1/formulas/Translate", `{"text": "hello there"}`, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSetup_NoDefaultCredentials(t *testing.T) {
	cfg := newTestConfig("")
	cfg.Language.APIKey = ""
	router := setupTestRouter(t, cfg)

	w, response := post(t, router, "/api/v1/formulas/AnalyzeSentiment", `{"text": "hello there"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", response.Error.Code)
}

func TestSetup_Endpoints(t *testing.T) {
	router := setupTestRouter(t, newTestConfig(""))

	t.Run("pack", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/pack", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "AnalyzeSentiment")
	})

	t.Run("history without database", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/invocations", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		_, _ = post(t, router, "/api/v1/formulas/DetectLanguage", `{"text": "?"}`, map[string]string{
			handler.EndpointURLHeader: "https://x.cognitiveservices.azure.com/",
			handler.APIKeyHeader:      "k",
		})

		req, _ := http.NewRequest("GET", "/metrics", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "formula_invocations_total")
	})

	t.Run("health", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/health", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
