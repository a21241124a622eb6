package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, FileNameFromContext(ctx))
	assert.Empty(t, LogAttrs(ctx))

	ctx = WithFileName(ctx, "lpb.pdf")
	assert.Equal(t, []any{"file", "lpb.pdf"}, LogAttrs(ctx))

	ctx = WithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, []any{"req_id", "req-1", "file", "lpb.pdf"}, LogAttrs(ctx))
}
