package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/ocr"
)

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := common.NewLogger(cfg)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "pdftext <file.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	x := ocr.NewExtractor(ocr.ConfigFromCommon(cfg.OCR), logger)
	start := time.Now()
	res, err := x.Extract(ctx, path)
	dur := time.Since(start)
	if err != nil {
		logger.Error("text extraction failed",
			"path", path, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"detected_type", constants.DetectType(res.Text),
		"warnings", len(res.Warnings),
		"duration_ms", dur.Milliseconds(),
	)
	fmt.Println(res.Text)
}
