package ocr

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	// EnableOCR rasterizes and OCRs PDFs that have no text layer.
	EnableOCR     bool
	TesseractLang string // default "ind+eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit
}

// ConfigFromCommon maps the environment configuration onto the extractor config.
func ConfigFromCommon(c common.OCRConfig) Config {
	return Config{
		Pdftotext:     c.Pdftotext,
		Pdftoppm:      c.Pdftoppm,
		Tesseract:     c.Tesseract,
		EnableOCR:     c.Enabled,
		TesseractLang: c.TesseractLang,
		TessdataDir:   c.TessdataDir,
		DPI:           c.DPI,
	}
}

type Result struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr"
	Language string
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg       Config
	runner    Runner
	inspector Inspector
	logger    *slog.Logger
}

type Option func(*Extractor)

// WithRunner replaces the exec-based command runner.
func WithRunner(r Runner) Option { return func(e *Extractor) { e.runner = r } }

// WithInspector replaces the pdfcpu-based document inspector.
func WithInspector(i Inspector) Option { return func(e *Extractor) { e.inspector = i } }

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "ind+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	e := &Extractor{cfg: cfg, runner: execRunner{logger: logger}, inspector: pdfcpuInspector{}, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the normalized text of a PDF. Unreadable files and documents
// that yield no text fail with an extraction error.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("ocr.extract.start", "path", path, "ext", ext)

	if !constants.IsAllowedExt(ext) {
		return Result{}, common.NewValidationError("unsupported extension: "+ext, nil)
	}
	if _, err := os.Stat(path); err != nil {
		return Result{}, common.NewExtractionError("open document", err)
	}

	res := Result{Method: "pdf-text", Language: e.cfg.TesseractLang}
	pages, err := e.inspector.PageCount(path)
	if err != nil {
		res.Warnings = append(res.Warnings, "page count: "+err.Error())
	}

	text, ffPages, warns, err := e.pdfToText(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		e.logger.Warn("ocr.extract.pdftotext_failed", "path", path, "error", err)
	}
	text = Normalize(text)

	if text == "" && e.cfg.EnableOCR {
		e.logger.Info("ocr.extract.fallback_ocr", "path", path)
		ocrText, ocrPages, ocrWarns, ocrErr := e.pdfToOCR(ctx, path)
		res.Warnings = append(res.Warnings, ocrWarns...)
		if ocrErr != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.Duration = time.Since(start)
			return res, common.NewExtractionError("ocr failed", ocrErr)
		}
		text = Normalize(ocrText)
		ffPages = ocrPages
		res.Method = "pdf-ocr"
	}

	if pages <= 0 {
		pages = ffPages
	}
	res.Text = text
	res.Pages = pages
	res.Duration = time.Since(start)

	if strings.TrimSpace(text) == "" {
		return res, common.NewExtractionError("no text extracted from "+filepath.Base(path), nil)
	}
	e.logger.Info("ocr.extract.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"text_len", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
