// Package aiclient is the HTTP client the API gateway uses to reach the AI service.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/metrics"
)

// Config represents the configuration for the AI service client
type Config struct {
	// BaseURL is the base URL of the AI service
	BaseURL string
	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
	// Timeout bounds generation, embedding and search calls
	Timeout time.Duration
	// HealthTimeout bounds the /health probe
	HealthTimeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "http://localhost:8000",
		HTTPClient:    http.DefaultClient,
		Timeout:       30 * time.Second,
		HealthTimeout: 5 * time.Second,
	}
}

// Client is the AI service client
type Client struct {
	config *Config
	client *http.Client
}

// NewClient creates a new AI service client with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config: config,
		client: client,
	}
}

// GenerateTextRequest is the body of POST /generate-text
type GenerateTextRequest struct {
	Prompt      string   `json:"prompt"`
	Template    string   `json:"template,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// GenerateTextResponse is the answer of POST /generate-text
type GenerateTextResponse struct {
	GeneratedText string `json:"generated_text"`
	ModelUsed     string `json:"model_used"`
}

// GenerateText asks the AI service for a completion
func (c *Client) GenerateText(ctx context.Context, req GenerateTextRequest) (*GenerateTextResponse, error) {
	var resp GenerateTextResponse
	if err := c.post(ctx, "generate_text", "/generate-text", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Forward posts a raw JSON body to path and returns the raw JSON answer
func (c *Client) Forward(ctx context.Context, path string, body json.RawMessage) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.post(ctx, strings.Trim(strings.ReplaceAll(path, "-", "_"), "/"), path, body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Health probes GET /health and returns the decoded body
func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	if c.config.HealthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.HealthTimeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	var resp map[string]interface{}
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// APIError is a non-2xx answer of the AI service. It matches
// domain.ErrAIService with errors.Is.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("AI service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("AI service returned status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == domain.ErrAIService
}

func (c *Client) post(ctx context.Context, operation, path string, req interface{}, resp interface{}) error {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	err = c.do(httpReq, resp)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ObserveAICall(operation, result, time.Since(start))

	return err
}

func (c *Client) do(httpReq *http.Request, resp interface{}) error {
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAIUnreachable, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: httpResp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 64<<10))
		if json.Unmarshal(body, apiErr) != nil {
			apiErr.Message = ""
		}
		return apiErr
	}

	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrAIService, err)
	}

	return nil
}
