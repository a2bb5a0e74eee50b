package vision

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/VantageDataChat/ShotDeck/internal/screenshots"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient describes screenshots with Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini client from opts.
func NewGeminiClient(ctx context.Context, opts Options) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	model := opts.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Describe sends one screenshot as inline PNG data and asks for a JSON reply.
func (c *GeminiClient) Describe(ctx context.Context, img *screenshots.Image) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(Instruction),
			genai.NewPartFromText(FormatExample),
			genai.NewPartFromBytes(img.Data, img.MIMEType()),
		}, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return StripCodeFence(text), nil
}
