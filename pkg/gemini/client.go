package gemini

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Config holds model selection for the shared Gemini client.
type Config struct {
	APIKey     string
	OCRModel   string
	TextModel  string
	EmbedModel string
	Logger     zerolog.Logger
}

// Client wraps the generative model endpoint for the three capabilities the
// service consumes: OCR over document bytes, free-text generation, and text
// embeddings.
type Client struct {
	client *genai.Client
	cfg    Config
	logger zerolog.Logger
}

// New constructs a Gemini client. The underlying connection is created once
// and is safe for concurrent use.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.OCRModel == "" {
		cfg.OCRModel = "gemini-2.5-flash"
	}
	if cfg.TextModel == "" {
		cfg.TextModel = cfg.OCRModel
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "gemini-embedding-001"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client: client,
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "gemini_client").Logger(),
	}, nil
}

// Recognize submits document bytes to the multimodal model and returns the
// transcribed text. An empty string means the model found no text.
func (c *Client) Recognize(ctx context.Context, data []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromBytes(data, mimeType, genai.RoleUser),
		genai.NewContentFromText("Transcribe all text in this document exactly as written. Return only the text.", genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.cfg.OCRModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini recognize: %w", err)
	}

	return result.Text(), nil
}

// GenerateText runs a plain text prompt and returns the raw model reply.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.cfg.TextModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty reply")
	}

	return text, nil
}

// Embed encodes a text into a fixed-dimension vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := c.client.Models.EmbedContent(ctx, c.cfg.EmbedModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}

	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini returned an empty embedding")
	}

	return result.Embeddings[0].Values, nil
}
