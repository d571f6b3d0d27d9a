package instrumentation

import "context"

// Transport names used in audit records and logs.
const (
	TransportHTTP = "http"
	TransportMCP  = "mcp"
	TransportCLI  = "cli"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	transportKey
)

// WithRequestID returns a context carrying the inbound request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithTransport returns a context naming the transport serving the call.
func WithTransport(ctx context.Context, transport string) context.Context {
	return context.WithValue(ctx, transportKey, transport)
}

// TransportFromContext returns the transport stored by WithTransport.
func TransportFromContext(ctx context.Context) string {
	t, _ := ctx.Value(transportKey).(string)
	return t
}
