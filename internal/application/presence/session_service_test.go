package presence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ejournal/backend/internal/domain/geo"
	"github.com/ejournal/backend/internal/domain/presence"
	"github.com/ejournal/backend/internal/domain/shared"
)

// MockSessionRepository is a mock implementation of presence.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*presence.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*presence.Session), args.Error(1)
}

func (m *MockSessionRepository) FindOpenByPerson(ctx context.Context, personID uuid.UUID) (*presence.Session, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*presence.Session), args.Error(1)
}

func (m *MockSessionRepository) FindOpenBySite(ctx context.Context, siteID uuid.UUID) ([]*presence.Session, error) {
	args := m.Called(ctx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*presence.Session), args.Error(1)
}

func (m *MockSessionRepository) CountOpenBySite(ctx context.Context, siteID uuid.UUID) (int64, error) {
	args := m.Called(ctx, siteID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) FindOpenIdleSince(ctx context.Context, lastSeenBefore time.Time) ([]*presence.Session, error) {
	args := m.Called(ctx, lastSeenBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*presence.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *presence.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// MockSiteRepository is a mock implementation of geo.SiteRepository
type MockSiteRepository struct {
	mock.Mock
}

func (m *MockSiteRepository) FindByID(ctx context.Context, id uuid.UUID) (*geo.Site, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.Site), args.Error(1)
}

func (m *MockSiteRepository) FindByCode(ctx context.Context, code string) (*geo.Site, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.Site), args.Error(1)
}

func (m *MockSiteRepository) FindActive(ctx context.Context) ([]geo.Site, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]geo.Site), args.Error(1)
}

func (m *MockSiteRepository) Save(ctx context.Context, site *geo.Site) error {
	args := m.Called(ctx, site)
	return args.Error(0)
}

func (m *MockSiteRepository) GenerateCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func newTestSite(t *testing.T) *geo.Site {
	t.Helper()
	boundary, err := geo.NewPolygon([]geo.Coordinate{
		{Lat: 55.749, Lon: 37.6184},
		{Lat: 55.749, Lon: 37.6216},
		{Lat: 55.751, Lon: 37.6216},
		{Lat: 55.751, Lon: 37.6184},
	})
	require.NoError(t, err)
	site, err := geo.NewSite("001", "Embankment reconstruction", "Moscow", boundary, 0, 24*60-1)
	require.NoError(t, err)
	return site
}

func insideProof(t *testing.T, now time.Time) geo.LocationProof {
	t.Helper()
	proof, err := geo.NewLocationProof(geo.Coordinate{Lat: 55.750, Lon: 37.6200}, 5, now, geo.MethodGPS)
	require.NoError(t, err)
	return proof
}

func newService(sessionRepo *MockSessionRepository, siteRepo *MockSiteRepository) *SessionService {
	return NewSessionService(
		sessionRepo, siteRepo,
		geo.NewFenceIndex(),
		geo.NewValidator(geo.DefaultValidatorConfig()),
		DefaultSessionServiceConfig(),
		zap.NewNop(),
	)
}

func TestSessionService_Claim_OpensNewSession(t *testing.T) {
	ctx := context.Background()
	sessionRepo := new(MockSessionRepository)
	siteRepo := new(MockSiteRepository)
	svc := newService(sessionRepo, siteRepo)

	site := newTestSite(t)
	personID := uuid.New()

	siteRepo.On("FindByID", ctx, site.ID).Return(site, nil)
	sessionRepo.On("FindOpenByPerson", ctx, personID).Return(nil, shared.ErrNotFound)
	sessionRepo.On("Save", ctx, mock.AnythingOfType("*presence.Session")).Return(nil)

	resp, err := svc.Claim(ctx, personID, site.ID, insideProof(t, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, personID, resp.PersonID)
	assert.Equal(t, site.ID, resp.SiteID)
	assert.Nil(t, resp.ClosedAt)
	sessionRepo.AssertExpectations(t)
}

func TestSessionService_Claim_IdempotentReentry(t *testing.T) {
	ctx := context.Background()
	sessionRepo := new(MockSessionRepository)
	siteRepo := new(MockSiteRepository)
	svc := newService(sessionRepo, siteRepo)

	site := newTestSite(t)
	personID := uuid.New()
	opened := time.Now().Add(-30 * time.Minute)
	existing, err := presence.NewSession(personID, site.ID, insideProof(t, opened), opened)
	require.NoError(t, err)

	siteRepo.On("FindByID", ctx, site.ID).Return(site, nil)
	sessionRepo.On("FindOpenByPerson", ctx, personID).Return(existing, nil)
	sessionRepo.On("Save", ctx, existing).Return(nil)

	resp, err := svc.Claim(ctx, personID, site.ID, insideProof(t, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, resp.ID)
	assert.True(t, resp.LastSeenAt.After(opened))
}

func TestSessionService_Claim_ConflictWithinGrace(t *testing.T) {
	// Open session at site X, claim at site Y two minutes later
	ctx := context.Background()
	sessionRepo := new(MockSessionRepository)
	siteRepo := new(MockSiteRepository)
	svc := newService(sessionRepo, siteRepo)

	siteX := newTestSite(t)
	siteY := newTestSite(t)
	personID := uuid.New()
	opened := time.Now().Add(-2 * time.Minute)
	existing, err := presence.NewSession(personID, siteX.ID, insideProof(t, opened), opened)
	require.NoError(t, err)

	siteRepo.On("FindByID", ctx, siteY.ID).Return(siteY, nil)
	sessionRepo.On("FindOpenByPerson", ctx, personID).Return(existing, nil)

	_, err = svc.Claim(ctx, personID, siteY.ID, insideProof(t, time.Now()))
	require.ErrorIs(t, err, shared.ErrConcurrentPresenceConflict)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, siteX.ID, conflict.OpenSiteID)
	assert.Equal(t, siteY.ID, conflict.ClaimedSiteID)
	sessionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSessionService_Claim_SupersedesAbandonedSession(t *testing.T) {
	// Same claim but the open session's last-seen is 20 minutes old
	ctx := context.Background()
	sessionRepo := new(MockSessionRepository)
	siteRepo := new(MockSiteRepository)
	svc := newService(sessionRepo, siteRepo)

	siteX := newTestSite(t)
	siteY := newTestSite(t)
	personID := uuid.New()
	opened := time.Now().Add(-20 * time.Minute)
	existing, err := presence.NewSession(personID, siteX.ID, insideProof(t, opened), opened)
	require.NoError(t, err)

	siteRepo.On("FindByID", ctx, siteY.ID).Return(siteY, nil)
	sessionRepo.On("FindOpenByPerson", ctx, personID).Return(existing, nil)
	sessionRepo.On("Save", ctx, mock.AnythingOfType("*presence.Session")).Return(nil)

	resp, err := svc.Claim(ctx, personID, siteY.ID, insideProof(t, time.Now()))
	require.NoError(t, err)

	assert.False(t, existing.IsOpen())
	assert.Equal(t, presence.CloseReasonSuperseded, existing.CloseReason)
	assert.Equal(t, siteY.ID, resp.SiteID)
}

func TestSessionService_Claim_ExpiredProof(t *testing.T) {
	ctx := context.Background()
	sessionRepo := new(MockSessionRepository)
	siteRepo := new(MockSiteRepository)
	svc := newService(sessionRepo, siteRepo)

	site := newTestSite(t)
	siteRepo.On("FindByID", ctx, site.ID).Return(site, nil)

	staleProof, err := geo.NewLocationProof(geo.Coordinate{Lat: 55.750, Lon: 37.6200}, 5, time.Now().Add(-10*time.Minute), geo.MethodGPS)
	require.NoError(t, err)

	_, err = svc.Claim(ctx, uuid.New(), site.ID, staleProof)
	assert.ErrorIs(t, err, shared.ErrProofExpired)
}

func TestSessionService_Claim_InconclusiveGPSRejected(t *testing.T) {
	ctx := context.Background()
	sessionRepo := new(MockSessionRepository)
	siteRepo := new(MockSiteRepository)
	svc := newService(sessionRepo, siteRepo)

	site := newTestSite(t)
	personID := uuid.New()
	siteRepo.On("FindByID", ctx, site.ID).Return(site, nil)
	sessionRepo.On("FindOpenByPerson", ctx, personID).Return(nil, shared.ErrNotFound)
	sessionRepo.On("Save", ctx, mock.AnythingOfType("*presence.Session")).Return(nil)

	wideGPS, err := geo.NewLocationProof(geo.Coordinate{Lat: 55.750, Lon: 37.6200}, 60, time.Now(), geo.MethodGPS)
	require.NoError(t, err)
	_, err = svc.Claim(ctx, personID, site.ID, wideGPS)
	assert.ErrorIs(t, err, shared.ErrLocationUnverifiable)

	// Alternate method attests presence despite the wide radius
	wideQR, err := geo.NewLocationProof(geo.Coordinate{Lat: 55.750, Lon: 37.6200}, 60, time.Now(), geo.MethodQR)
	require.NoError(t, err)
	_, err = svc.Claim(ctx, personID, site.ID, wideQR)
	assert.NoError(t, err)
}

func TestSessionService_Claim_LockBusy(t *testing.T) {
	ctx := context.Background()
	sessionRepo := new(MockSessionRepository)
	siteRepo := new(MockSiteRepository)
	svc := newService(sessionRepo, siteRepo)

	site := newTestSite(t)
	personID := uuid.New()
	siteRepo.On("FindByID", ctx, site.ID).Return(site, nil)

	blocked := make(chan struct{})
	release := make(chan struct{})
	sessionRepo.On("FindOpenByPerson", ctx, personID).Return(nil, shared.ErrNotFound).Run(func(mock.Arguments) {
		close(blocked)
		<-release
	}).Once()
	sessionRepo.On("FindOpenByPerson", ctx, personID).Return(nil, shared.ErrNotFound)
	sessionRepo.On("Save", ctx, mock.AnythingOfType("*presence.Session")).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Claim(ctx, personID, site.ID, insideProof(t, time.Now()))
		done <- err
	}()
	<-blocked

	// Second claim for the same person cannot take the lock in time
	_, err := svc.Claim(ctx, personID, site.ID, insideProof(t, time.Now()))
	assert.ErrorIs(t, err, shared.ErrPresenceLockBusy)

	close(release)
	require.NoError(t, <-done)
}

func TestSessionService_Release(t *testing.T) {
	ctx := context.Background()
	sessionRepo := new(MockSessionRepository)
	siteRepo := new(MockSiteRepository)
	svc := newService(sessionRepo, siteRepo)

	now := time.Now()
	session, err := presence.NewSession(uuid.New(), uuid.New(), insideProof(t, now), now)
	require.NoError(t, err)

	sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
	sessionRepo.On("Save", ctx, session).Return(nil).Once()

	resp, err := svc.Release(ctx, session.ID)
	require.NoError(t, err)
	assert.NotNil(t, resp.ClosedAt)

	// idempotent second release does not save again
	resp, err = svc.Release(ctx, session.ID)
	require.NoError(t, err)
	assert.NotNil(t, resp.ClosedAt)
	sessionRepo.AssertExpectations(t)
}

func TestSessionService_ReapStale(t *testing.T) {
	ctx := context.Background()
	sessionRepo := new(MockSessionRepository)
	siteRepo := new(MockSiteRepository)
	svc := newService(sessionRepo, siteRepo)

	now := time.Now()
	opened := now.Add(-5 * time.Hour)
	stale, err := presence.NewSession(uuid.New(), uuid.New(), insideProof(t, opened), opened)
	require.NoError(t, err)

	sessionRepo.On("FindOpenIdleSince", ctx, mock.AnythingOfType("time.Time")).Return([]*presence.Session{stale}, nil)
	sessionRepo.On("Save", ctx, stale).Return(nil)

	closed, err := svc.ReapStale(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.Equal(t, presence.CloseReasonTimeout, stale.CloseReason)
}

func TestSessionService_VerifyOpenSession(t *testing.T) {
	ctx := context.Background()
	sessionRepo := new(MockSessionRepository)
	siteRepo := new(MockSiteRepository)
	svc := newService(sessionRepo, siteRepo)

	now := time.Now()
	personID := uuid.New()
	siteID := uuid.New()
	session, err := presence.NewSession(personID, siteID, insideProof(t, now), now)
	require.NoError(t, err)

	sessionRepo.On("FindOpenByPerson", ctx, personID).Return(session, nil)

	got, err := svc.VerifyOpenSession(ctx, personID, siteID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	_, err = svc.VerifyOpenSession(ctx, personID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNoVerifiedPresence)

	nobody := uuid.New()
	sessionRepo.On("FindOpenByPerson", ctx, nobody).Return(nil, shared.ErrNotFound)
	_, err = svc.VerifyOpenSession(ctx, nobody, siteID)
	assert.ErrorIs(t, err, shared.ErrNoVerifiedPresence)
}
