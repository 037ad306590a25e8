package logging

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"
	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// TraceContext holds tracing information for one CLI run or embedder call.
type TraceContext struct {
	RequestID string
	TraceID   string
}

// NewTraceContext creates a new TraceContext with generated IDs.
func NewTraceContext() TraceContext {
	requestID := uuid.New().String()
	return TraceContext{
		RequestID: requestID,
		TraceID:   requestID,
	}
}

// WithTraceID sets the trace ID.
func (tc TraceContext) WithTraceID(id string) TraceContext {
	if id != "" {
		tc.TraceID = id
	}
	return tc
}

// ToContext adds the trace context to a context.Context.
func (tc TraceContext) ToContext(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, RequestIDKey, tc.RequestID)
	return context.WithValue(ctx, TraceIDKey, tc.TraceID)
}

// FromContext extracts the trace context from a context.Context.
func FromContext(ctx context.Context) TraceContext {
	tc := TraceContext{}
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		tc.RequestID = id
	}
	if id, ok := ctx.Value(TraceIDKey).(string); ok {
		tc.TraceID = id
	}
	return tc
}

// GetRequestID returns the request ID from a context, if present.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
