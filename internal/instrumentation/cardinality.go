package instrumentation

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with request-derived values.

// RouteOther is the label used for paths that are not known routes.
const RouteOther = "other"

// knownRoutes are the HTTP paths recorded verbatim.
var knownRoutes = map[string]bool{
	"/api/instant-meeting":  true,
	"/api/schedule-meeting": true,
	"/api/time-slots":       true,
	"/healthz":              true,
	"/readyz":               true,
	"/healthz/detailed":     true,
	"/metrics":              true,
}

// NormalizeRoute returns path when it is a known route and RouteOther
// otherwise, so scanners probing random URLs cannot grow the label set.
//
// Example:
//
//	NormalizeRoute("/api/time-slots")  // "/api/time-slots"
//	NormalizeRoute("/wp-login.php")    // "other"
func NormalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return RouteOther
}

// Operation types for Google API metrics.
// Status and service constants are defined in config.go.
const (
	OperationCreate = "create"
	OperationDelete = "delete"
)

// Failure reasons for meeting metrics. They mirror meeting error kinds.
const (
	ReasonUnauthorized    = "unauthorized"
	ReasonInvalidInput    = "invalid_input"
	ReasonProviderFailure = "provider_failure"
)
