// Package vision sends screenshots to a vision-capable model and returns
// the model's JSON slide description.
package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/VantageDataChat/ShotDeck/internal/screenshots"
)

// ErrEmptyResponse is returned when the model answers with no content.
var ErrEmptyResponse = errors.New("vision: empty response")

// Describer turns one screenshot into the raw text of a presentation
// description. Implementations must be safe for concurrent use.
type Describer interface {
	Describe(ctx context.Context, img *screenshots.Image) (string, error)
}

// DescriberFunc adapts a function to the Describer interface.
type DescriberFunc func(ctx context.Context, img *screenshots.Image) (string, error)

func (f DescriberFunc) Describe(ctx context.Context, img *screenshots.Image) (string, error) {
	return f(ctx, img)
}

// Options selects and configures a vision client.
type Options struct {
	Provider string // "openai" or "gemini"
	APIKey   string
	BaseURL  string
	Model    string
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// New returns the client for opts.Provider.
func New(ctx context.Context, opts Options) (Describer, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("vision: API key is required for provider %q", opts.Provider)
	}
	switch opts.Provider {
	case "openai", "":
		return NewOpenAIClient(opts), nil
	case "gemini":
		return NewGeminiClient(ctx, opts)
	default:
		return nil, fmt.Errorf("vision: unknown provider %q", opts.Provider)
	}
}

// StripCodeFence removes a surrounding Markdown code fence, which some
// models add even when asked for bare JSON.
func StripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		return s
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}
