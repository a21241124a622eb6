package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/pipeline"
)

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned      uint32
	Matched      uint32 // files passed on as uploads
	Skipped      uint32 // hidden files
	Deduplicated uint32 // identical content already collected
	Failed       uint32
}

type Options struct {
	SkipHidden bool
	// PDFOnly drops other extensions here instead of letting the pipeline reject them.
	PDFOnly bool
	// Type forces the document type of every upload.
	Type constants.DocumentType
}

// CollectDirectory walks root in lexical order and returns one upload per
// distinct file. Files with identical content are collected once.
func CollectDirectory(ctx context.Context, root string, opts Options, logger *slog.Logger) ([]pipeline.Upload, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var uploads []pipeline.Upload
	var stats DirStats
	seen := map[string]string{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			logger.Warn("ingest.walk.error", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		if opts.SkipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			stats.Skipped++
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if opts.PDFOnly && !constants.IsAllowedExt(filepath.Ext(path)) {
			stats.Skipped++
			return nil
		}

		sum, err := hashFile(path)
		if err != nil {
			logger.Warn("ingest.hash.error", "path", path, "error", err)
			stats.Failed++
			return nil
		}
		if first, dup := seen[sum]; dup {
			logger.Info("ingest.deduplicated", "path", path, "same_as", first)
			stats.Deduplicated++
			return nil
		}
		seen[sum] = path

		info, err := d.Info()
		uploadedAt := time.Now()
		if err == nil {
			uploadedAt = info.ModTime()
		}
		uploads = append(uploads, pipeline.Upload{
			Path:       path,
			FileName:   filepath.Base(path),
			Type:       opts.Type,
			UploadedAt: uploadedAt,
		})
		stats.Matched++
		return nil
	})
	if err != nil {
		return uploads, stats, fmt.Errorf("walk: %w", err)
	}
	return uploads, stats, nil
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
