package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/metrics"
)

const (
	DefaultMaxTokens   = 150
	DefaultTemperature = 0.7
	DefaultTopK        = 5
)

type GenerateTextRequest struct {
	Prompt      string   `json:"prompt" validate:"required"`
	Template    string   `json:"template"`
	MaxTokens   *int     `json:"max_tokens" validate:"omitempty,gt=0"`
	Temperature *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
}

type GenerateTextResponse struct {
	GeneratedText string `json:"generated_text"`
	ModelUsed     string `json:"model_used"`
}

type EmbedRequest struct {
	Texts []string `json:"texts" validate:"required,min=1"`
}

type EmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	ModelUsed  string      `json:"model_used"`
}

type SemanticSearchRequest struct {
	Query string `json:"query" validate:"required"`
	TopK  *int   `json:"topK" validate:"omitempty,gte=0"`
}

type SearchResult struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}

type SemanticSearchResponse struct {
	Results []SearchResult `json:"results"`
	Query   string         `json:"query"`
}

// Service implements the generation, embedding and search operations.
type Service struct {
	model Model
}

func NewService(model Model) *Service {
	return &Service{model: model}
}

func (s *Service) observe(operation string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ObserveAICall(operation, result, time.Since(start))
}

// GenerateText substitutes {prompt} in the template, when one is given,
// and asks the model for a completion.
func (s *Service) GenerateText(ctx context.Context, req GenerateTextRequest) (resp *GenerateTextResponse, err error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	defer func(start time.Time) { s.observe("gemini_generate", start, err) }(time.Now())

	prompt := req.Prompt
	if req.Template != "" {
		prompt = strings.ReplaceAll(req.Template, "{prompt}", req.Prompt)
	}

	maxTokens := DefaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	temperature := DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	text, err := s.model.GenerateText(ctx, prompt, maxTokens, temperature)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	return &GenerateTextResponse{GeneratedText: text, ModelUsed: s.model.TextModel()}, nil
}

func (s *Service) Embed(ctx context.Context, req EmbedRequest) (resp *EmbedResponse, err error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	defer func(start time.Time) { s.observe("gemini_embed", start, err) }(time.Now())

	vectors, err := s.model.Embed(ctx, req.Texts, TaskRetrievalDocument)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}

	return &EmbedResponse{Embeddings: vectors, ModelUsed: s.model.EmbeddingModel()}, nil
}

// SemanticSearch embeds the query and answers with canned results until a
// vector store backs the search.
func (s *Service) SemanticSearch(ctx context.Context, req SemanticSearchRequest) (resp *SemanticSearchResponse, err error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	defer func(start time.Time) { s.observe("gemini_search", start, err) }(time.Now())

	if _, err := s.model.Embed(ctx, []string{req.Query}, TaskRetrievalQuery); err != nil {
		return nil, fmt.Errorf("semantic search failed: %w", err)
	}

	topK := DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	results := mockResults(req.Query)
	if topK < len(results) {
		results = results[:topK]
	}

	return &SemanticSearchResponse{Results: results, Query: req.Query}, nil
}

func mockResults(query string) []SearchResult {
	return []SearchResult{
		{
			ID:       "doc_1",
			Content:  fmt.Sprintf("Relevant document for '%s' - Result 1", query),
			Score:    0.95,
			Metadata: map[string]string{"source": "knowledge_base", "category": "marketing"},
		},
		{
			ID:       "doc_2",
			Content:  fmt.Sprintf("Information related to '%s' - Result 2", query),
			Score:    0.87,
			Metadata: map[string]string{"source": "templates", "category": "content"},
		},
		{
			ID:       "doc_3",
			Content:  fmt.Sprintf("Content associated with '%s' - Result 3", query),
			Score:    0.76,
			Metadata: map[string]string{"source": "examples", "category": "campaigns"},
		},
	}
}
