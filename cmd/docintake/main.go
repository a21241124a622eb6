package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/app"
	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/ingest"
	"github.com/joseph-ayodele/document-intake/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred teardown completes first.
func run(args []string) int {
	fs := flag.NewFlagSet("docintake", flag.ContinueOnError)
	var (
		dir        = fs.String("dir", "", "directory of documents to process")
		out        = fs.String("out", "", "output XLSX file path (optional, defaults to <dir>/../documents.xlsx)")
		docType    = fs.String("type", "", "force the document type (lpb, po, faktur, ttf); detected when empty")
		workers    = fs.Int("workers", 0, "concurrent extractions (overrides BATCH_WORKERS)")
		skipHidden = fs.Bool("skip-hidden", true, "skip hidden files and directories")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	files := fs.Args()
	if *dir == "" && len(files) == 0 {
		printError("Error: --dir or at least one file is required\n")
		return 2
	}

	var forced constants.DocumentType
	if *docType != "" {
		t, ok := constants.ParseDocumentType(*docType)
		if !ok {
			printError("Error: unknown --type %q\n", *docType)
			return 2
		}
		forced = t
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		printError("Error: %v\n", err)
		return 1
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		return 1
	}

	logger := common.NewLogger(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		return 1
	}
	defer a.Close()

	var uploads []pipeline.Upload
	if *dir != "" {
		found, stats, err := ingest.CollectDirectory(ctx, *dir, ingest.Options{SkipHidden: *skipHidden, Type: forced}, logger)
		if err != nil {
			logger.Error("failed to scan directory", "dir", *dir, "error", err)
			return 1
		}
		logger.Info("directory scanned",
			"dir", *dir,
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"skipped", stats.Skipped,
			"deduplicated", stats.Deduplicated,
			"failed", stats.Failed,
		)
		uploads = append(uploads, found...)
	}
	for _, f := range files {
		uploads = append(uploads, pipeline.Upload{Path: f, Type: forced})
	}

	res, err := a.Processor.ProcessBatch(ctx, uploads)
	if err != nil {
		logger.Warn("batch interrupted", "error", err)
	}

	if *out == "" {
		base := "."
		if *dir != "" {
			base = filepath.Dir(filepath.Clean(*dir))
		}
		*out = filepath.Join(base, "documents.xlsx")
	}
	if len(res.Succeeded) > 0 {
		xlsxBytes, err := a.Export.ExportXLSX(context.WithoutCancel(ctx))
		if err != nil {
			logger.Error("failed to export documents", "error", err)
			return 1
		}
		if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
			logger.Error("failed to write output file", "error", err)
			return 1
		}
	}

	printSummary(res, *out)
	if len(res.Succeeded) == 0 && len(res.Failed) > 0 {
		return 1
	}
	return 0
}

func printSummary(res pipeline.BatchResult, out string) {
	p := message.NewPrinter(language.Indonesian)

	items := 0
	total := decimal.Zero
	review := 0
	for _, d := range res.Succeeded {
		items += len(d.Items)
		for _, it := range d.Items {
			total = total.Add(it.Total)
		}
		if d.NeedsReview {
			review++
		}
	}

	p.Printf("Pemrosesan selesai: %d dari %d dokumen berhasil\n", len(res.Succeeded), res.Total())
	p.Printf("- Item: %d\n", items)
	p.Printf("- Nilai total: Rp %d\n", total.Round(0).IntPart())
	p.Printf("- Perlu ditinjau: %d\n", review)
	for _, f := range res.Failed {
		p.Printf("- Gagal: %s (%s)\n", filepath.Base(f.Upload.Path), f.Reason)
	}
	if len(res.Succeeded) > 0 {
		p.Printf("- Output: %s\n", out)
	}
}
