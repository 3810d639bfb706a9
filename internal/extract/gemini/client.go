package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client implements extract.TextGenerator using Google Gemini.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *slog.Logger
}

// NewClient creates a Gemini-backed text generator.
func NewClient(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  client.GenerativeModel(modelName),
		log:    logger,
	}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	return c.client.Close()
}

// GenerateText sends the prompt and concatenates the text parts of the first
// candidate.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.log.Error("gemini.generate.error", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	c.log.Info("gemini.generate.ok",
		"reply_len", b.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(b.String()), nil
}
