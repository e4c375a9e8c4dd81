package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header carries the request ID between client and backend.
const Header = "X-Request-ID"

type ctxKey struct{}

// maxLen bounds IDs accepted from callers; they end up in every log line.
const maxLen = 128

// Valid reports whether an ID supplied by a caller is safe to adopt:
// non-empty, bounded and printable ASCII without spaces.
func Valid(id string) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

// New generates a random UUID v4 request ID.
func New() string {
	return uuid.NewString()
}

// WithRequestID returns a copy of ctx with the request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the request ID from ctx. Returns "" if absent.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Ensure returns ctx unchanged if it already carries an ID, otherwise a
// copy with a fresh one. The ID in effect is returned alongside.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := FromContext(ctx); id != "" {
		return ctx, id
	}
	id := New()
	return WithRequestID(ctx, id), id
}
