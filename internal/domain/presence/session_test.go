package presence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejournal/backend/internal/domain/geo"
)

func testProof(t *testing.T, now time.Time) geo.LocationProof {
	t.Helper()
	proof, err := geo.NewLocationProof(geo.Coordinate{Lat: 55.75, Lon: 37.62}, 5, now, geo.MethodGPS)
	require.NoError(t, err)
	return proof
}

func TestNewSession(t *testing.T) {
	now := time.Now()
	proof := testProof(t, now)

	t.Run("valid session", func(t *testing.T) {
		session, err := NewSession(uuid.New(), uuid.New(), proof, now)
		require.NoError(t, err)
		assert.True(t, session.IsOpen())
		assert.Equal(t, geo.MethodGPS, session.Method)
		assert.Equal(t, now, session.LastSeenAt)
		assert.Len(t, session.GetDomainEvents(), 1)
	})

	t.Run("missing person", func(t *testing.T) {
		_, err := NewSession(uuid.Nil, uuid.New(), proof, now)
		assert.Error(t, err)
	})

	t.Run("missing site", func(t *testing.T) {
		_, err := NewSession(uuid.New(), uuid.Nil, proof, now)
		assert.Error(t, err)
	})
}

func TestSession_Refresh(t *testing.T) {
	now := time.Now()
	session, err := NewSession(uuid.New(), uuid.New(), testProof(t, now), now)
	require.NoError(t, err)

	later := now.Add(10 * time.Minute)
	require.NoError(t, session.Refresh(later))
	assert.Equal(t, later, session.LastSeenAt)
	assert.Equal(t, time.Duration(0), session.IdleFor(later))

	require.NoError(t, session.Close(CloseReasonCheckout, later))
	assert.Error(t, session.Refresh(later.Add(time.Minute)))
}

func TestSession_Close(t *testing.T) {
	now := time.Now()
	session, err := NewSession(uuid.New(), uuid.New(), testProof(t, now), now)
	require.NoError(t, err)
	session.ClearDomainEvents()

	closedAt := now.Add(time.Hour)
	require.NoError(t, session.Close(CloseReasonSuperseded, closedAt))
	assert.False(t, session.IsOpen())
	assert.Equal(t, CloseReasonSuperseded, session.CloseReason)
	require.NotNil(t, session.ClosedAt)
	assert.Equal(t, closedAt, *session.ClosedAt)
	assert.Len(t, session.GetDomainEvents(), 1)

	// idempotent on an already-closed session
	session.ClearDomainEvents()
	require.NoError(t, session.Close(CloseReasonCheckout, closedAt.Add(time.Minute)))
	assert.Equal(t, CloseReasonSuperseded, session.CloseReason)
	assert.Equal(t, closedAt, *session.ClosedAt)
	assert.Empty(t, session.GetDomainEvents())
}

func TestSession_IdleFor(t *testing.T) {
	now := time.Now()
	session, err := NewSession(uuid.New(), uuid.New(), testProof(t, now), now)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Minute, session.IdleFor(now.Add(20*time.Minute)))
}

func TestCloseReason_IsValid(t *testing.T) {
	assert.True(t, CloseReasonCheckout.IsValid())
	assert.True(t, CloseReasonTimeout.IsValid())
	assert.True(t, CloseReasonSuperseded.IsValid())
	assert.False(t, CloseReason("evicted").IsValid())
}
