package common

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderOpenAI = "openai"
	ProviderVertex = "vertex"
	ProviderNone   = "none"
)

// Config holds all application configuration
type Config struct {
	Log   LogConfig
	LLM   LLMConfig
	OCR   OCRConfig
	Batch BatchConfig
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Format string `envconfig:"LOG_FORMAT" default:"text"`
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
}

// LLMConfig holds configuration for the generative extraction tier
type LLMConfig struct {
	Provider      string        `envconfig:"LLM_PROVIDER" default:"openai"`
	APIKey        string        `envconfig:"OPENAI_API_KEY"`
	BaseURL       string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model         string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	Temperature   float32       `envconfig:"LLM_TEMPERATURE" default:"0"`
	Timeout       time.Duration `envconfig:"LLM_TIMEOUT" default:"45s"`
	VertexProject string        `envconfig:"VERTEX_PROJECT"`
	VertexRegion  string        `envconfig:"VERTEX_REGION" default:"asia-southeast2"`
	VertexModel   string        `envconfig:"VERTEX_MODEL" default:"gemini-1.5-pro"`
}

// OCRConfig holds text-acquisition configuration
type OCRConfig struct {
	Enabled       bool   `envconfig:"OCR_ENABLED" default:"true"`
	Pdftotext     string `envconfig:"PDFTOTEXT_BIN" default:"pdftotext"`
	Pdftoppm      string `envconfig:"PDFTOPPM_BIN" default:"pdftoppm"`
	Tesseract     string `envconfig:"TESSERACT_BIN" default:"tesseract"`
	TesseractLang string `envconfig:"TESSERACT_LANG" default:"ind+eng"`
	TessdataDir   string `envconfig:"TESSDATA_PREFIX"`
	DPI           int    `envconfig:"OCR_DPI" default:"300"`
}

// BatchConfig holds batch upload configuration
type BatchConfig struct {
	Workers int `envconfig:"BATCH_WORKERS" default:"1"`
}

// LoadConfig loads an optional .env file then reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("config.dotenv.load_failed", "error", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, NewAppError(CodeConfig, "process environment", ErrInvalidInput, err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	return &cfg, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderVertex, ProviderNone:
	default:
		return NewAppError(CodeConfig, "LLM_PROVIDER must be one of openai, vertex, none", ErrInvalidInput, nil)
	}
	if c.LLM.Timeout <= 0 {
		return NewAppError(CodeConfig, "LLM_TIMEOUT must be positive", ErrInvalidInput, nil)
	}
	if c.Batch.Workers <= 0 {
		return NewAppError(CodeConfig, "BATCH_WORKERS must be positive", ErrInvalidInput, nil)
	}
	return nil
}

// LogLevel parses Log.Level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NewLogger returns a configured slog.Logger based on configuration.
func NewLogger(c *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
