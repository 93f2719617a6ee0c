package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWithContext_RoundTrip(t *testing.T) {
	base := zap.NewNop()
	ctx := WithContext(context.Background(), base)

	assert.Same(t, base, FromContext(ctx))
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	logger := FromContext(context.Background())

	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	ctx := WithContext(context.Background(), zap.NewNop())
	ctx = WithRequestID(ctx, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.NotNil(t, FromContext(ctx))
}

func TestWithPersonID(t *testing.T) {
	ctx := WithPersonID(context.Background(), "person-1")

	assert.Equal(t, "person-1", GetPersonID(ctx))
}

func TestWithSiteID(t *testing.T) {
	ctx := WithSiteID(context.Background(), "site-1")

	assert.Equal(t, "site-1", GetSiteID(ctx))
}

func TestGetters_EmptyWhenUnset(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetPersonID(ctx))
	assert.Empty(t, GetSiteID(ctx))
}
