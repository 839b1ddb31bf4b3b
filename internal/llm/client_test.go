package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("defaults to gemini", func(t *testing.T) {
		c, err := NewClient(Config{APIKey: "test-key"})
		require.NoError(t, err)
		_, ok := c.(*GeminiClient)
		assert.True(t, ok)
	})

	t.Run("openai provider", func(t *testing.T) {
		c, err := NewClient(Config{Provider: "openai", APIKey: "test-key"})
		require.NoError(t, err)
		_, ok := c.(*OpenAIClient)
		assert.True(t, ok)
	})

	t.Run("missing api key", func(t *testing.T) {
		_, err := NewClient(Config{Provider: "gemini"})
		assert.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewClient(Config{Provider: "llama-on-a-floppy", APIKey: "k"})
		assert.Error(t, err)
	})
}

func TestCleanSQL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare statement", "SELECT COUNT(*) FROM sales", "SELECT COUNT(*) FROM sales"},
		{"fenced", "```sql\nSELECT 1\n```", "SELECT 1"},
		{"fenced uppercase", "```SQL\nSELECT 1\n```", "SELECT 1"},
		{"plain fence", "```\nSELECT 1\n```", "SELECT 1"},
		{"surrounding whitespace", "  SELECT 1  \n", "SELECT 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanSQL(tt.raw))
		})
	}
}

func TestGeminiCompleteWithSystem(t *testing.T) {
	var gotReq geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"parts": []map[string]any{{"text": "SELECT COUNT(*) FROM sales"}},
				}},
			},
		})
	}))
	defer srv.Close()

	c := NewGeminiClientWithConfig(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gemini-2.5-flash",
	})

	out, err := c.CompleteWithSystem(context.Background(), "system text", "How many orders?")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM sales", out)

	require.NotNil(t, gotReq.SystemInstruction)
	assert.Equal(t, "system text", gotReq.SystemInstruction.Parts[0].Text)
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "How many orders?", gotReq.Contents[0].Parts[0].Text)
}

func TestGeminiAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	c := NewGeminiClientWithConfig(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "FACT_SQL"}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClientWithConfig(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
	out, err := c.Complete(context.Background(), "classify this")
	require.NoError(t, err)
	assert.Equal(t, "FACT_SQL", out)
}

func TestOpenAINoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClientWithConfig(OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), "hi")
	assert.Error(t, err)
}
