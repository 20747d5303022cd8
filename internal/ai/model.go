// Package ai is the text generation and embedding service backed by Gemini.
package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Model is the language model provider.
type Model interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
	Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error)
	TextModel() string
	EmbeddingModel() string
}

// GeminiConfig selects the API key and model names.
type GeminiConfig struct {
	APIKey         string
	TextModel      string
	EmbeddingModel string
}

// GeminiModel calls the Gemini API.
type GeminiModel struct {
	client         *genai.Client
	textModel      string
	embeddingModel string
}

var ErrMissingAPIKey = errors.New("GEMINI_API_KEY environment variable not set")

func NewGeminiModel(ctx context.Context, cfg GeminiConfig) (*GeminiModel, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiModel{
		client:         client,
		textModel:      cfg.TextModel,
		embeddingModel: cfg.EmbeddingModel,
	}, nil
}

func (m *GeminiModel) TextModel() string      { return m.textModel }
func (m *GeminiModel) EmbeddingModel() string { return m.embeddingModel }

func (m *GeminiModel) GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Temperature:     genai.Ptr(float32(temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	return resp.Text(), nil
}

// Embed embeds each text in its own request so one vector maps to one text.
func (m *GeminiModel) Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		resp, err := m.client.Models.EmbedContent(ctx, m.embeddingModel, genai.Text(text), &genai.EmbedContentConfig{
			TaskType: taskType,
		})
		if err != nil {
			return nil, fmt.Errorf("embedding content: %w", err)
		}
		if len(resp.Embeddings) == 0 {
			return nil, errors.New("embedding content: empty response")
		}
		out = append(out, resp.Embeddings[0].Values)
	}
	return out, nil
}
