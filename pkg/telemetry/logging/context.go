package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// ResourceKey is the context key for resource names.
	ResourceKey contextKey = "resource"

	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"
)

// WithResource adds a resource name to the context.
func WithResource(ctx context.Context, resource string) context.Context {
	return context.WithValue(ctx, ResourceKey, resource)
}

// ResourceFrom retrieves the resource name from the context.
func ResourceFrom(ctx context.Context) string {
	if resource, ok := ctx.Value(ResourceKey).(string); ok {
		return resource
	}
	return ""
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestIDFrom retrieves the request ID from the context.
func RequestIDFrom(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// Fields extracts the known context fields as key-value pairs suitable
// for Logger.With. Fields that are absent from the context are omitted.
func Fields(ctx context.Context) []any {
	var fields []any

	if resource := ResourceFrom(ctx); resource != "" {
		fields = append(fields, "resource", resource)
	}
	if requestID := RequestIDFrom(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	return fields
}
