package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for the request ID
	RequestIDKey contextKey = "request_id"
	// PersonIDKey is the context key for the acting person's ID
	PersonIDKey contextKey = "person_id"
	// SiteIDKey is the context key for the site being operated on
	SiteIDKey contextKey = "site_id"
)

// WithContext stores a logger in the context
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context, falling back to the
// global logger when none is stored
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.L()
}

// WithRequestID stores a request ID in the context and enriches the
// context logger with it
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	logger := FromContext(ctx).With(zap.String("request_id", requestID))
	return WithContext(ctx, logger)
}

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithPersonID stores the acting person's ID in the context and enriches
// the context logger with it
func WithPersonID(ctx context.Context, personID string) context.Context {
	ctx = context.WithValue(ctx, PersonIDKey, personID)
	logger := FromContext(ctx).With(zap.String("person_id", personID))
	return WithContext(ctx, logger)
}

// GetPersonID retrieves the acting person's ID from the context
func GetPersonID(ctx context.Context) string {
	if id, ok := ctx.Value(PersonIDKey).(string); ok {
		return id
	}
	return ""
}

// WithSiteID stores a site ID in the context and enriches the context
// logger with it
func WithSiteID(ctx context.Context, siteID string) context.Context {
	ctx = context.WithValue(ctx, SiteIDKey, siteID)
	logger := FromContext(ctx).With(zap.String("site_id", siteID))
	return WithContext(ctx, logger)
}

// GetSiteID retrieves the site ID from the context
func GetSiteID(ctx context.Context) string {
	if id, ok := ctx.Value(SiteIDKey).(string); ok {
		return id
	}
	return ""
}
