package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LLM_PROVIDER", "none")
	t.Setenv("OCR_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("BATCH_WORKERS", "2")
}

func TestRun_Usage(t *testing.T) {
	setTestEnv(t)
	assert.Equal(t, 2, run(nil))
	assert.Equal(t, 2, run([]string{"-type", "receipt", "a.pdf"}))
	assert.Equal(t, 2, run([]string{"-no-such-flag"}))
}

func TestRun_InvalidConfig(t *testing.T) {
	setTestEnv(t)
	t.Setenv("BATCH_WORKERS", "0")
	assert.Equal(t, 1, run([]string{"-dir", t.TempDir()}))
}

func TestRun_EmptyDirectory(t *testing.T) {
	setTestEnv(t)
	out := filepath.Join(t.TempDir(), "documents.xlsx")
	assert.Equal(t, 0, run([]string{"-dir", t.TempDir(), "-out", out}))
	assert.NoFileExists(t, out)
}

func TestRun_AllFailed(t *testing.T) {
	setTestEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("LPB Number: LPB-2024-001"), 0o644))
	out := filepath.Join(t.TempDir(), "documents.xlsx")

	assert.Equal(t, 1, run([]string{"-dir", dir, "-out", out}))
	assert.NoFileExists(t, out)
}
