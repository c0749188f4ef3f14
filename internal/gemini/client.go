// Package gemini wraps the official Gemini SDK as the remote model client.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Config holds generation settings for the remote model.
type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultConfig returns the fixed generation parameters used for chart
// analysis: a vision-capable model, low temperature so the reply sticks to
// the requested schema, and JSON forced as the response content type.
func DefaultConfig() Config {
	return Config{
		Model:           "gemini-1.5-flash",
		Temperature:     0.3,
		MaxOutputTokens: 2048,
	}
}

// Client is an authenticated channel to the Gemini service, bound to one
// API key and one generative model.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewClient constructs a client from an API key. The key's well-formedness is
// only partially checked here; the service itself is the ultimate validator.
func NewClient(ctx context.Context, apiKey string, cfg Config) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if cfg.Model == "" {
		cfg = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	if cfg.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(cfg.MaxOutputTokens)
	}
	model.ResponseMIMEType = "application/json"

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// GenerateAnalysis issues one content-generation round trip: an inline image
// part plus the instruction prompt. It returns the raw reply text; an empty
// string means the service produced no usable content.
func (c *Client) GenerateAnalysis(ctx context.Context, mediaType string, data []byte, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx,
		genai.Blob{MIMEType: mediaType, Data: data},
		genai.Text(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return sb.String(), nil
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.client.Close()
}
