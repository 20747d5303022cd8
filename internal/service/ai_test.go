package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ai4local/ai4local/internal/aiclient"
	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/mocks"
	"github.com/ai4local/ai4local/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAIForwarding(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func(*service.AIService, json.RawMessage) (json.RawMessage, error)
		path    string
		valid   string
		invalid []string
		message string
	}{
		{
			name:    "generate text",
			call:    func(s *service.AIService, b json.RawMessage) (json.RawMessage, error) { return s.ForwardGenerateText(ctx, b) },
			path:    "/generate-text",
			valid:   `{"prompt":"hello","max_tokens":50}`,
			invalid: []string{`{}`, `{"prompt":""}`, `not json`},
			message: "prompt is required",
		},
		{
			name:    "embed",
			call:    func(s *service.AIService, b json.RawMessage) (json.RawMessage, error) { return s.ForwardEmbed(ctx, b) },
			path:    "/embed",
			valid:   `{"texts":["a","b"]}`,
			invalid: []string{`{}`, `{"texts":[]}`, `{"texts":"a"}`},
			message: "a list of texts is required",
		},
		{
			name:    "semantic search",
			call:    func(s *service.AIService, b json.RawMessage) (json.RawMessage, error) { return s.ForwardSemanticSearch(ctx, b) },
			path:    "/semantic-search",
			valid:   `{"query":"vanilla","topK":2}`,
			invalid: []string{`{}`, `{"query":null}`},
			message: "query is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockAIClient(gomock.NewController(t))
			s := service.NewAIService(client, nil)

			client.EXPECT().
				Forward(gomock.Any(), tt.path, json.RawMessage(tt.valid)).
				Return(json.RawMessage(`{"ok":true}`), nil)

			out, err := tt.call(s, json.RawMessage(tt.valid))
			require.NoError(t, err)
			assert.JSONEq(t, `{"ok":true}`, string(out))

			for _, body := range tt.invalid {
				_, err := tt.call(s, json.RawMessage(body))
				assert.ErrorIs(t, err, domain.ErrInvalidInput, body)
				assert.EqualError(t, err, tt.message, body)
			}
		})
	}
}

func TestContentSuggestions(t *testing.T) {
	s := service.NewAIService(nil, nil)

	out, err := s.ContentSuggestions(service.SuggestionsInput{BusinessType: "bakery"})
	require.NoError(t, err)
	assert.Equal(t, "local customers", out.Context.TargetAudience)
	assert.Equal(t, "facebook", out.Context.CampaignType)
	require.Len(t, out.Suggestions, 3)
	for _, text := range out.Suggestions {
		assert.Contains(t, text, "bakery")
		assert.Contains(t, text, "local customers")
	}

	out, err = s.ContentSuggestions(service.SuggestionsInput{BusinessType: "bakery", CampaignType: "sms", TargetAudience: "students"})
	require.NoError(t, err)
	assert.Len(t, out.Suggestions, 3)
	assert.Contains(t, out.Suggestions[1], "-20%")

	out, err = s.ContentSuggestions(service.SuggestionsInput{BusinessType: "bakery", CampaignType: "whatsapp"})
	require.NoError(t, err)
	assert.NotNil(t, out.Suggestions)
	assert.Empty(t, out.Suggestions)

	_, err = s.ContentSuggestions(service.SuggestionsInput{})
	assert.EqualError(t, err, "business_type is required")
}

func TestOptimizeContent(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to engagement", func(t *testing.T) {
		client := mocks.NewMockAIClient(gomock.NewController(t))
		s := service.NewAIService(client, nil)

		client.EXPECT().
			GenerateText(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req aiclient.GenerateTextRequest) (*aiclient.GenerateTextResponse, error) {
				assert.Equal(t, "Buy now", req.Prompt)
				assert.Contains(t, req.Template, "engagement")
				assert.Contains(t, req.Template, "facebook")
				assert.Equal(t, 200, req.MaxTokens)
				assert.InDelta(t, 0.6, *req.Temperature, 1e-9)
				return &aiclient.GenerateTextResponse{GeneratedText: "Buy now! 🎉"}, nil
			})

		out, err := s.OptimizeContent(ctx, service.OptimizeInput{Content: "Buy now"})
		require.NoError(t, err)
		assert.Equal(t, "engagement", out.OptimizationGoal)
		assert.Equal(t, "Buy now! 🎉", out.OptimizedContent)
		assert.Len(t, out.Suggestions, 4)
	})

	t.Run("conversion goal", func(t *testing.T) {
		client := mocks.NewMockAIClient(gomock.NewController(t))
		s := service.NewAIService(client, nil)

		client.EXPECT().
			GenerateText(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req aiclient.GenerateTextRequest) (*aiclient.GenerateTextResponse, error) {
				assert.Contains(t, req.Template, "conversions")
				assert.Contains(t, req.Template, "sms")
				return &aiclient.GenerateTextResponse{GeneratedText: "x"}, nil
			})

		_, err := s.OptimizeContent(ctx, service.OptimizeInput{Content: "c", Goal: "conversion", CampaignType: "sms"})
		require.NoError(t, err)
	})

	t.Run("content is required", func(t *testing.T) {
		s := service.NewAIService(nil, nil)
		_, err := s.OptimizeContent(ctx, service.OptimizeInput{})
		assert.EqualError(t, err, "content is required")
	})

	t.Run("AI errors propagate", func(t *testing.T) {
		client := mocks.NewMockAIClient(gomock.NewController(t))
		s := service.NewAIService(client, nil)
		client.EXPECT().
			GenerateText(gomock.Any(), gomock.Any()).
			Return(nil, &aiclient.APIError{StatusCode: 502})

		_, err := s.OptimizeContent(ctx, service.OptimizeInput{Content: "c"})
		assert.ErrorIs(t, err, domain.ErrAIService)
	})
}

func TestAIStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("healthy", func(t *testing.T) {
		client := mocks.NewMockAIClient(gomock.NewController(t))
		client.EXPECT().Health(gomock.Any()).Return(map[string]interface{}{"status": "healthy"}, nil)

		status := service.NewAIService(client, nil).Status(ctx)
		assert.True(t, status.Healthy())
		require.NotNil(t, status.Features)
		assert.True(t, status.Features.SemanticSearch)
		assert.Equal(t, "healthy", status.AIService["status"])
	})

	t.Run("unhealthy on error status", func(t *testing.T) {
		client := mocks.NewMockAIClient(gomock.NewController(t))
		client.EXPECT().Health(gomock.Any()).Return(nil, &aiclient.APIError{StatusCode: 500})

		status := service.NewAIService(client, nil).Status(ctx)
		assert.Equal(t, service.AIUnhealthy, status.Status)
		assert.False(t, status.Healthy())
	})

	t.Run("unreachable on transport error", func(t *testing.T) {
		client := mocks.NewMockAIClient(gomock.NewController(t))
		client.EXPECT().
			Health(gomock.Any()).
			Return(nil, fmt.Errorf("%w: %v", domain.ErrAIUnreachable, errors.New("dial tcp: refused")))

		status := service.NewAIService(client, nil).Status(ctx)
		assert.Equal(t, service.AIUnreachable, status.Status)
		assert.Contains(t, status.Error, "refused")
	})

	t.Run("probe result is cached", func(t *testing.T) {
		cache := service.NewCacheService(service.CacheConfig{TTL: time.Minute, CleanupFreq: time.Minute})
		defer cache.Close()

		client := mocks.NewMockAIClient(gomock.NewController(t))
		client.EXPECT().Health(gomock.Any()).Return(map[string]interface{}{"status": "healthy"}, nil).Times(1)

		s := service.NewAIService(client, cache)
		first := s.Status(ctx)
		second := s.Status(ctx)
		assert.Equal(t, first, second)
	})
}
