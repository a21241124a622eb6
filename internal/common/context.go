package common

import "context"

type (
	requestIDKey struct{}
	fileNameKey  struct{}
)

// WithRequestID tags ctx with the id of the upload being processed.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithFileName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, fileNameKey{}, name)
}

func FileNameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(fileNameKey{}).(string)
	return name
}

// LogAttrs returns the request id and file name set on ctx as slog key/value
// pairs. Unset values are omitted.
func LogAttrs(ctx context.Context) []any {
	var attrs []any
	if id := RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, "req_id", id)
	}
	if name := FileNameFromContext(ctx); name != "" {
		attrs = append(attrs, "file", name)
	}
	return attrs
}
