package client

import "context"

type requestIDKey struct{}

// WithRequestID returns a context carrying the inbound request ID. Calls
// made with it propagate the ID to peers as X-Request-ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFrom extracts the inbound request ID, if any.
func RequestIDFrom(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey{}).(string)
	return requestID, ok && requestID != ""
}
