package openai

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/llm"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	maxReplyBytes  = 4 << 20
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration // per request
}

// Client is an llm.Generator backed by the chat completions endpoint in JSON
// mode.
type Client struct {
	cfg      Config
	endpoint string
	http     *http.Client
	log      *slog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Temperature    float32       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewClient fails with an AI-unavailable error when no API key is configured.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, common.NewAIUnavailableError("OPENAI_API_KEY is not set", nil)
	}
	cfg.BaseURL = cmp.Or(cfg.BaseURL, defaultBaseURL)
	cfg.Model = cmp.Or(cfg.Model, defaultModel)
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:      cfg,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		http:     &http.Client{Timeout: cfg.Timeout},
		log:      logger,
	}, nil
}

func (c *Client) Generate(ctx context.Context, p llm.Prompt) (string, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	req := chatRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
	}
	req.ResponseFormat.Type = "json_object"

	c.log.Info("llm.openai.request",
		"req_id", rid,
		"model", c.cfg.Model,
		"prompt_len", len(p.System)+len(p.User),
	)
	raw, err := c.do(ctx, req)
	if err != nil {
		c.log.Error("llm.openai.failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", common.NewAIResponseParseError("decode openai response", err)
	}
	if len(resp.Choices) == 0 {
		return "", common.NewAIResponseParseError("no choices in openai response", nil)
	}

	c.log.Info("llm.openai.response",
		"req_id", rid,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) do(ctx context.Context, body chatRequest) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, common.NewUnexpectedError("marshal request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, common.NewUnexpectedError("build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, common.NewAIUnavailableError("openai unreachable", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("llm.openai.body_close", "error", err)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, common.NewAIUnavailableError("read openai response", err)
	}
	if err := statusError(resp.StatusCode, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// statusError maps a non-2xx reply. Auth, quota and server errors mean the
// tier is down; any other 4xx is a bad exchange for this one document.
func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	msg := fmt.Sprintf("openai status %d", status)
	cause := errors.New(strings.TrimSpace(string(body)))
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden,
		status == http.StatusTooManyRequests, status >= 500:
		return common.NewAIUnavailableError(msg, cause)
	default:
		return common.NewAIResponseParseError(msg, cause)
	}
}
