package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	prompt      string
	maxTokens   int
	temperature float64
	tasks       []string
	err         error
}

func (m *fakeModel) TextModel() string      { return "text-test" }
func (m *fakeModel) EmbeddingModel() string { return "embed-test" }

func (m *fakeModel) GenerateText(_ context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	m.prompt, m.maxTokens, m.temperature = prompt, maxTokens, temperature
	if m.err != nil {
		return "", m.err
	}
	return "generated: " + prompt, nil
}

func (m *fakeModel) Embed(_ context.Context, texts []string, taskType string) ([][]float32, error) {
	m.tasks = append(m.tasks, taskType)
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 0.5}
	}
	return out, nil
}

func intPtr(v int) *int { return &v }

func TestGenerateText(t *testing.T) {
	t.Run("applies template and defaults", func(t *testing.T) {
		m := &fakeModel{}
		resp, err := NewService(m).GenerateText(context.Background(), GenerateTextRequest{
			Prompt:   "shoes",
			Template: "Write an ad about {prompt}. Mention {prompt} twice.",
		})
		require.NoError(t, err)
		assert.Equal(t, "Write an ad about shoes. Mention shoes twice.", m.prompt)
		assert.Equal(t, DefaultMaxTokens, m.maxTokens)
		assert.InDelta(t, DefaultTemperature, m.temperature, 1e-9)
		assert.Equal(t, "text-test", resp.ModelUsed)
		assert.Equal(t, "generated: "+m.prompt, resp.GeneratedText)
	})

	t.Run("honours explicit settings", func(t *testing.T) {
		m := &fakeModel{}
		temp := 0.2
		_, err := NewService(m).GenerateText(context.Background(), GenerateTextRequest{
			Prompt:      "hello",
			MaxTokens:   intPtr(20),
			Temperature: &temp,
		})
		require.NoError(t, err)
		assert.Equal(t, "hello", m.prompt)
		assert.Equal(t, 20, m.maxTokens)
		assert.InDelta(t, 0.2, m.temperature, 1e-9)
	})

	t.Run("rejects empty prompt", func(t *testing.T) {
		_, err := NewService(&fakeModel{}).GenerateText(context.Background(), GenerateTextRequest{})
		assert.EqualError(t, err, "prompt is required")
	})
}

func TestEmbedAndSearch(t *testing.T) {
	m := &fakeModel{}
	s := NewService(m)

	emb, err := s.Embed(context.Background(), EmbedRequest{Texts: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Len(t, emb.Embeddings, 2)
	assert.Equal(t, "embed-test", emb.ModelUsed)

	res, err := s.SemanticSearch(context.Background(), SemanticSearchRequest{Query: "rice"})
	require.NoError(t, err)
	assert.Len(t, res.Results, 3)
	assert.Equal(t, "rice", res.Query)
	assert.Equal(t, "doc_1", res.Results[0].ID)
	assert.Contains(t, res.Results[0].Content, "'rice'")

	res, err = s.SemanticSearch(context.Background(), SemanticSearchRequest{Query: "rice", TopK: intPtr(2)})
	require.NoError(t, err)
	assert.Len(t, res.Results, 2)

	assert.Equal(t, []string{TaskRetrievalDocument, TaskRetrievalQuery, TaskRetrievalQuery}, m.tasks)

	_, err = s.Embed(context.Background(), EmbedRequest{Texts: []string{}})
	assert.EqualError(t, err, "texts must contain at least 1 item(s)")
}

func TestHandlers(t *testing.T) {
	m := &fakeModel{}
	router := NewRouter(NewService(m), slog.New(slog.NewTextHandler(io.Discard, nil)))

	call := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := call(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"ai"}`, rec.Body.String())

	rec = call(http.MethodGet, "/", "")
	assert.JSONEq(t, `{"message":"AI4Local AI Service","status":"running"}`, rec.Body.String())

	rec = call(http.MethodPost, "/generate-text", `{"prompt":"hi"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"generated_text":"generated: hi","model_used":"text-test"}`, rec.Body.String())

	rec = call(http.MethodPost, "/generate-text", `{"prompt":`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = call(http.MethodPost, "/semantic-search", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"query is required"}`, rec.Body.String())

	m.err = errors.New("quota exceeded")
	rec = call(http.MethodPost, "/embed", `{"texts":["a"]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"embedding failed: quota exceeded"}`, rec.Body.String())
}
