package vision

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VantageDataChat/ShotDeck/internal/screenshots"
)

const deckJSON = `{"presentation":{"title":"T","slides":[{"type":"text","title":"a","content":["b"]}]}}`

func testImage() *screenshots.Image {
	return &screenshots.Image{Path: "shot.png", Data: []byte("\x89PNG fake"), Width: 1, Height: 1}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", deckJSON, deckJSON},
		{"json fence", "```json\n" + deckJSON + "\n```", deckJSON},
		{"plain fence", "```\n" + deckJSON + "\n```\n", deckJSON},
		{"single line fence", "```" + deckJSON + "```", "```" + deckJSON + "```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(context.Background(), Options{Provider: "openai"})
	assert.ErrorContains(t, err, "API key")

	_, err = New(context.Background(), Options{Provider: "claude", APIKey: "k"})
	assert.ErrorContains(t, err, "unknown provider")

	d, err := New(context.Background(), Options{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, d)
}

func TestOpenAIDescribe(t *testing.T) {
	var got struct {
		Model          string `json:"model"`
		ResponseFormat struct {
			Type string `json:"type"`
		} `json:"response_format"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": "```json\n" + deckJSON + "\n```"},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewOpenAIClient(Options{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	text, err := c.Describe(context.Background(), testImage())
	require.NoError(t, err)
	assert.Equal(t, deckJSON, text)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, defaultOpenAIModel, got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Contains(t, string(got.Messages[1].Content), `"type":"image_url"`)
	assert.Contains(t, string(got.Messages[1].Content), "data:image/png;base64,")
}

func TestOpenAIDescribeErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
		}))
		defer srv.Close()

		c := NewOpenAIClient(Options{APIKey: "k", BaseURL: srv.URL})
		_, err := c.Describe(context.Background(), testImage())
		assert.ErrorContains(t, err, "openai API error")
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[]}`)
		}))
		defer srv.Close()

		c := NewOpenAIClient(Options{APIKey: "k", BaseURL: srv.URL})
		_, err := c.Describe(context.Background(), testImage())
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := NewOpenAIClient(Options{APIKey: "k", BaseURL: srv.URL})
		_, err := c.Describe(ctx, testImage())
		assert.Error(t, err)
	})
}

func TestGeminiDescribe(t *testing.T) {
	var path string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"finishReason": "STOP",
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": deckJSON}},
				},
			}},
		})
	}))
	defer srv.Close()

	c, err := NewGeminiClient(context.Background(), Options{APIKey: "g-key", BaseURL: srv.URL, Model: "gemini-test"})
	require.NoError(t, err)

	text, err := c.Describe(context.Background(), testImage())
	require.NoError(t, err)
	assert.Equal(t, deckJSON, text)
	assert.Contains(t, path, "models/gemini-test:generateContent")

	cfg, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok, "request lacks generationConfig: %v", body)
	assert.Equal(t, "application/json", cfg["responseMimeType"])
}
