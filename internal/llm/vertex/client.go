package vertex

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"

	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/llm"
)

// Config for the Vertex AI Gemini client.
type Config struct {
	ProjectID   string
	Region      string
	Model       string // e.g., "gemini-1.5-pro"
	Temperature float32
}

// Client implements llm.Generator with a Gemini model forced to JSON output.
type Client struct {
	cfg        Config
	baseClient *genai.Client
	log        *slog.Logger
}

// NewClient creates the underlying genai client. Missing project/region or a
// failed credentials lookup is reported as AI unavailability.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, common.NewAIUnavailableError("vertex projectID and region cannot be empty", nil)
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-pro"
	}
	if logger == nil {
		logger = slog.Default()
	}

	baseClient, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, common.NewAIUnavailableError("genai.NewClient", err)
	}
	return &Client{cfg: cfg, baseClient: baseClient, log: logger}, nil
}

func (c *Client) model(p llm.Prompt) *genai.GenerativeModel {
	model := c.baseClient.GenerativeModel(c.cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(p.System)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](c.cfg.Temperature),
	}
	return model
}

func (c *Client) Generate(ctx context.Context, p llm.Prompt) (string, error) {
	start := time.Now()
	c.log.Info("llm.vertex.request", "model", c.cfg.Model, "prompt_len", len(p.System)+len(p.User))

	resp, err := c.model(p).GenerateContent(ctx, genai.Text(p.User))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", common.NewAIUnavailableError("vertex generate content", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", common.NewAIResponseParseError("no candidates in vertex response", nil)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", common.NewAIResponseParseError(fmt.Sprintf("vertex candidate has no text (finish reason %v)", resp.Candidates[0].FinishReason), nil)
	}

	c.log.Info("llm.vertex.response",
		"bytes", b.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b.String(), nil
}

func (c *Client) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
