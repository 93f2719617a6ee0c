package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MaxTraceRequestIDLength caps request ids copied into span attributes so an
// oversized header cannot bloat the trace.
const MaxTraceRequestIDLength = 128

// personIDRegex validates the person id header before it lands in a span.
var personIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "ejournal-backend",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns the otelgin middleware opening a span per
// request. Span names follow "METHOD route_pattern" (e.g.
// "POST /api/v1/presence/claims").
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector enriches the current span with the request id and
// the acting person. Place it after Tracing, RequestID and PersonMiddleware
// in the chain so those values exist when the span is tagged.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpanWithAttributes(c, span)
		}
		c.Next()
	}
}

func enrichSpanWithAttributes(c *gin.Context, span trace.Span) {
	if requestID := traceRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if personID := tracePersonID(c); personID != "" {
		span.SetAttributes(attribute.String("person_id", personID))
	}
}

// traceRequestID reads the request id set by the RequestID middleware, with
// a length-capped header fallback.
func traceRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok && id != "" {
			return id
		}
	}

	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxTraceRequestIDLength {
		return headerID[:MaxTraceRequestIDLength]
	}
	return headerID
}

// tracePersonID reads the acting person from the context, falling back to
// the header. Header values must be well-formed UUIDs before they are
// attached to the span.
func tracePersonID(c *gin.Context) string {
	if personID := GetPersonID(c); personID != "" {
		return personID
	}

	headerPersonID := c.GetHeader(PersonHeaderKey)
	if headerPersonID != "" && personIDRegex.MatchString(headerPersonID) {
		return headerPersonID
	}
	return ""
}
