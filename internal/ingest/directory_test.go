package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/document-intake/constants"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollectDirectory(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "b.pdf"), "second")
	write(t, filepath.Join(root, "a.pdf"), "first")
	write(t, filepath.Join(root, "copy-of-a.pdf"), "first")
	write(t, filepath.Join(root, "notes.txt"), "text")
	write(t, filepath.Join(root, ".hidden.pdf"), "hidden")
	write(t, filepath.Join(root, ".cache", "c.pdf"), "cached")
	write(t, filepath.Join(root, "sub", "d.PDF"), "fourth")

	ups, stats, err := CollectDirectory(context.Background(), root, Options{SkipHidden: true, PDFOnly: true, Type: constants.PurchaseOrder}, nil)
	require.NoError(t, err)

	names := make([]string, 0, len(ups))
	for _, u := range ups {
		names = append(names, u.FileName)
		assert.Equal(t, constants.PurchaseOrder, u.Type)
		assert.False(t, u.UploadedAt.IsZero())
	}
	assert.Equal(t, []string{"a.pdf", "b.pdf", "d.PDF"}, names)
	assert.Equal(t, uint32(5), stats.Scanned)
	assert.Equal(t, uint32(3), stats.Matched)
	assert.Equal(t, uint32(1), stats.Deduplicated)
	assert.Equal(t, uint32(2), stats.Skipped)
}

func TestCollectDirectory_KeepsOtherExtensions(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a.pdf"), "pdf")
	write(t, filepath.Join(root, "notes.txt"), "text")

	ups, _, err := CollectDirectory(context.Background(), root, Options{}, nil)
	require.NoError(t, err)
	assert.Len(t, ups, 2)
}

func TestCollectDirectory_Errors(t *testing.T) {
	_, _, err := CollectDirectory(context.Background(), " ", Options{}, nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = CollectDirectory(ctx, t.TempDir(), Options{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/x/.git"))
	assert.False(t, IsHidden("/x/a.pdf"))
}
