package aiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(nil)
	assert.Equal(t, "http://localhost:8000", client.config.BaseURL)
	assert.Equal(t, http.DefaultClient, client.client)

	client = NewClient(&Config{BaseURL: "http://ai:8000/"})
	assert.Equal(t, "http://ai:8000", client.config.BaseURL)
	assert.Equal(t, http.DefaultClient, client.client)
}

func TestGenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate-text", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Vary gasy", req["prompt"])
		assert.Equal(t, float64(200), req["max_tokens"])
		assert.Equal(t, 0.7, req["temperature"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(GenerateTextResponse{GeneratedText: "Hello", ModelUsed: "gemini-2.5-flash-lite"})
	}))
	defer server.Close()

	temp := 0.7
	client := NewClient(&Config{BaseURL: server.URL, Timeout: time.Second})
	resp, err := client.GenerateText(context.Background(), GenerateTextRequest{Prompt: "Vary gasy", MaxTokens: 200, Temperature: &temp})
	require.NoError(t, err)
	assert.Equal(t, "Hello", resp.GeneratedText)
	assert.Equal(t, "gemini-2.5-flash-lite", resp.ModelUsed)
}

func TestUpstreamErrorMapsToAIServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"quota exceeded"}`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL})
	_, err := client.Forward(context.Background(), "/embed", json.RawMessage(`{"texts":["a"]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAIService)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "quota exceeded", apiErr.Message)
}

func TestTransportErrorMapsToUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(&Config{BaseURL: url})
	_, err := client.Health(context.Background())
	assert.ErrorIs(t, err, domain.ErrAIUnreachable)
}

func TestForwardPassesBodyThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/semantic-search", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "rice", body["query"])
		w.Write([]byte(`{"query":"rice","results":[]}`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL})
	raw, err := client.Forward(context.Background(), "/semantic-search", json.RawMessage(`{"query":"rice","topK":2}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"rice","results":[]}`, string(raw))
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status":"healthy","service":"ai"}`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL, HealthTimeout: time.Second})
	body, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", body["status"])
}
