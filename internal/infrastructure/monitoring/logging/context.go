package logging

import (
	"context"

	"github.com/x-ordo/evidentia/pkg/types/common"
)

// WithRequestID returns a child context carrying the request id used by
// Logger.WithContext and the HTTP middleware.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, common.ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request id, "" when absent.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(common.ContextKeyRequestID).(string); ok {
		return rid
	}
	return ""
}
