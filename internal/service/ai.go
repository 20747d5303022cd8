package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ai4local/ai4local/internal/aiclient"
	"github.com/ai4local/ai4local/internal/domain"
)

const (
	aiStatusCacheKey = "ai:status"

	optimizeMaxTokens   = 200
	optimizeTemperature = 0.6

	defaultTargetAudience = "local customers"
)

// AIClient is the part of the AI service used by the gateway.
type AIClient interface {
	TextGenerator
	Forward(ctx context.Context, path string, body json.RawMessage) (json.RawMessage, error)
	Health(ctx context.Context) (map[string]interface{}, error)
}

type AIService struct {
	client AIClient
	cache  *CacheService
}

// NewAIService creates the service. A nil cache disables caching of the
// health probe.
func NewAIService(client AIClient, cache *CacheService) *AIService {
	return &AIService{client: client, cache: cache}
}

// ForwardGenerateText checks that a prompt is present and relays the body
// to the AI service unchanged.
func (s *AIService) ForwardGenerateText(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	var req struct {
		Prompt interface{} `json:"prompt"`
	}
	if err := json.Unmarshal(body, &req); err != nil || isBlank(req.Prompt) {
		return nil, domain.NewValidationError("prompt", "prompt is required")
	}
	return s.client.Forward(ctx, "/generate-text", body)
}

func (s *AIService) ForwardEmbed(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	var req struct {
		Texts interface{} `json:"texts"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, domain.NewValidationError("texts", "a list of texts is required")
	}
	if texts, ok := req.Texts.([]interface{}); !ok || len(texts) == 0 {
		return nil, domain.NewValidationError("texts", "a list of texts is required")
	}
	return s.client.Forward(ctx, "/embed", body)
}

func (s *AIService) ForwardSemanticSearch(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	var req struct {
		Query interface{} `json:"query"`
	}
	if err := json.Unmarshal(body, &req); err != nil || isBlank(req.Query) {
		return nil, domain.NewValidationError("query", "query is required")
	}
	return s.client.Forward(ctx, "/semantic-search", body)
}

// isBlank treats missing, null, false, zero and empty values as absent.
func isBlank(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}
	return false
}

type SuggestionsInput struct {
	BusinessType   string `json:"business_type" validate:"required"`
	TargetAudience string `json:"target_audience"`
	CampaignType   string `json:"campaign_type"`
}

type SuggestionContext struct {
	BusinessType   string `json:"business_type"`
	TargetAudience string `json:"target_audience"`
	CampaignType   string `json:"campaign_type"`
}

type SuggestionsOutput struct {
	Suggestions []string          `json:"suggestions"`
	Context     SuggestionContext `json:"context"`
}

// ContentSuggestions returns canned copy for the business. Campaign types
// without a catalogue yield an empty list.
func (s *AIService) ContentSuggestions(input SuggestionsInput) (*SuggestionsOutput, error) {
	input.BusinessType = strings.TrimSpace(input.BusinessType)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.TargetAudience) == "" {
		input.TargetAudience = defaultTargetAudience
	}
	if strings.TrimSpace(input.CampaignType) == "" {
		input.CampaignType = "facebook"
	}

	b, a := input.BusinessType, input.TargetAudience
	var suggestions []string
	switch input.CampaignType {
	case "facebook":
		suggestions = []string{
			fmt.Sprintf("🌟 Discover our %s! Outstanding quality for %s. Visit us today! #LocalBusiness #Madagascar", b, a),
			fmt.Sprintf("📍 Your trusted %s in Madagascar! Personal service for %s. Get in touch! 📞", b, a),
			fmt.Sprintf("💫 New in store! A %s built around the needs of %s. Come and see our special offers! 🎉", b, a),
		}
	case "sms":
		suggestions = []string{
			fmt.Sprintf("NEW: %s for %s. Special offer this month! Info: 034 XX XXX XX", b, a),
			fmt.Sprintf("%s promo: -20%% for %s. Valid until 31/12. Call now!", b, a),
			fmt.Sprintf("Your %s is waiting! Quality service for %s. Booking: 034 XX XXX XX", b, a),
		}
	case "email":
		suggestions = []string{
			fmt.Sprintf("Subject: Discover our outstanding %s\n\nHello,\n\nWe are delighted to introduce our %s, designed especially for %s...", b, b, a),
			fmt.Sprintf("Subject: An exclusive offer for %s\n\nDear customer,\n\nEnjoy our %s with a special discount...", a, b),
			fmt.Sprintf("Subject: What's new in %s - don't miss it!\n\nHello,\n\nDiscover our latest %s innovations...", b, b),
		}
	default:
		suggestions = []string{}
	}

	return &SuggestionsOutput{
		Suggestions: suggestions,
		Context: SuggestionContext{
			BusinessType:   b,
			TargetAudience: a,
			CampaignType:   input.CampaignType,
		},
	}, nil
}

type OptimizeInput struct {
	Content      string `json:"content" validate:"required"`
	CampaignType string `json:"campaign_type"`
	Goal         string `json:"goal"`
}

type OptimizeOutput struct {
	OriginalContent  string   `json:"original_content"`
	OptimizedContent string   `json:"optimized_content"`
	OptimizationGoal string   `json:"optimization_goal"`
	CampaignType     string   `json:"campaign_type"`
	Suggestions      []string `json:"suggestions"`
}

var optimizeTips = []string{
	"Add emojis for more engagement",
	"Include a clear call to action",
	"Mention your location (Madagascar)",
	"Use relevant hashtags",
}

func optimizeTemplate(goal, campaignType string) string {
	switch goal {
	case "conversion":
		return fmt.Sprintf("Rewrite this %s content to drive action and improve conversions: {prompt}", campaignType)
	case "awareness":
		return fmt.Sprintf("Adapt this %s content to improve brand awareness: {prompt}", campaignType)
	default:
		return fmt.Sprintf("Optimize this %s content to maximize engagement (likes, comments, shares): {prompt}", campaignType)
	}
}

// OptimizeContent rewrites content for a goal. Unknown goals fall back to
// the engagement prompt but are echoed as given.
func (s *AIService) OptimizeContent(ctx context.Context, input OptimizeInput) (*OptimizeOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.CampaignType) == "" {
		input.CampaignType = "facebook"
	}
	if strings.TrimSpace(input.Goal) == "" {
		input.Goal = "engagement"
	}

	temperature := optimizeTemperature
	resp, err := s.client.GenerateText(ctx, aiclient.GenerateTextRequest{
		Prompt:      input.Content,
		Template:    optimizeTemplate(input.Goal, input.CampaignType),
		MaxTokens:   optimizeMaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, err
	}

	return &OptimizeOutput{
		OriginalContent:  input.Content,
		OptimizedContent: resp.GeneratedText,
		OptimizationGoal: input.Goal,
		CampaignType:     input.CampaignType,
		Suggestions:      optimizeTips,
	}, nil
}

const (
	AIHealthy     = "healthy"
	AIUnhealthy   = "unhealthy"
	AIUnreachable = "unreachable"
)

type AIFeatures struct {
	TextGeneration      bool `json:"text_generation"`
	Embeddings          bool `json:"embeddings"`
	SemanticSearch      bool `json:"semantic_search"`
	ContentOptimization bool `json:"content_optimization"`
}

type AIStatus struct {
	Status    string                 `json:"status"`
	AIService map[string]interface{} `json:"ai_service,omitempty"`
	Features  *AIFeatures            `json:"features,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Healthy reports whether the last probe succeeded.
func (st *AIStatus) Healthy() bool {
	return st.Status == AIHealthy
}

// Status probes the AI service health endpoint. Failures are reported in
// the returned status, never as an error. Results are cached when the
// service has a cache.
func (s *AIService) Status(ctx context.Context) *AIStatus {
	if s.cache == nil {
		return s.probe(ctx)
	}

	var status AIStatus
	err := s.cache.GetOrSet(ctx, aiStatusCacheKey, &status, func() (interface{}, error) {
		return s.probe(ctx), nil
	})
	if err != nil {
		return s.probe(ctx)
	}
	return &status
}

func (s *AIService) probe(ctx context.Context) *AIStatus {
	health, err := s.client.Health(ctx)
	if err == nil {
		return &AIStatus{
			Status:    AIHealthy,
			AIService: health,
			Features: &AIFeatures{
				TextGeneration:      true,
				Embeddings:          true,
				SemanticSearch:      true,
				ContentOptimization: true,
			},
		}
	}

	if errors.Is(err, domain.ErrAIService) {
		return &AIStatus{Status: AIUnhealthy, Error: "AI service unavailable"}
	}
	return &AIStatus{Status: AIUnreachable, Error: fmt.Sprintf("cannot reach the AI service: %v", err)}
}
