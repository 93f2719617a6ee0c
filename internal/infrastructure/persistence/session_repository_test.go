package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ejournal/backend/internal/domain/geo"
	"github.com/ejournal/backend/internal/domain/presence"
	"github.com/ejournal/backend/internal/domain/shared"
	"github.com/ejournal/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSessionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.SessionModel{})
	require.NoError(t, err)

	return db
}

func testProof(capturedAt time.Time) geo.LocationProof {
	return geo.LocationProof{
		Coordinate: geo.Coordinate{Lat: 55.750, Lon: 37.620},
		AccuracyM:  5,
		CapturedAt: capturedAt,
		Method:     geo.MethodGPS,
	}
}

func newTestSession(t *testing.T, personID, siteID uuid.UUID, openedAt time.Time) *presence.Session {
	t.Helper()
	session, err := presence.NewSession(personID, siteID, testProof(openedAt), openedAt)
	require.NoError(t, err)
	return session
}

func TestGormSessionRepository_SaveAndFindByID(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	session := newTestSession(t, uuid.New(), uuid.New(), now)
	require.NoError(t, repo.Save(ctx, session))

	found, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.PersonID, found.PersonID)
	assert.Equal(t, session.SiteID, found.SiteID)
	assert.Equal(t, geo.MethodGPS, found.Method)
	assert.Equal(t, 5.0, found.OpeningProof.AccuracyM)
	assert.True(t, found.IsOpen())
}

func TestGormSessionRepository_FindOpenByPerson(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()
	now := time.Now()
	personID := uuid.New()

	closed := newTestSession(t, personID, uuid.New(), now.Add(-2*time.Hour))
	require.NoError(t, closed.Close(presence.CloseReasonCheckout, now.Add(-time.Hour)))
	require.NoError(t, repo.Save(ctx, closed))

	open := newTestSession(t, personID, uuid.New(), now)
	require.NoError(t, repo.Save(ctx, open))

	found, err := repo.FindOpenByPerson(ctx, personID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, found.ID)
}

func TestGormSessionRepository_FindOpenByPerson_NoneOpen(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()
	personID := uuid.New()

	session := newTestSession(t, personID, uuid.New(), time.Now())
	require.NoError(t, session.Close(presence.CloseReasonCheckout, time.Now()))
	require.NoError(t, repo.Save(ctx, session))

	_, err := repo.FindOpenByPerson(ctx, personID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormSessionRepository_CountOpenBySite(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()
	siteID := uuid.New()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, newTestSession(t, uuid.New(), siteID, now)))
	require.NoError(t, repo.Save(ctx, newTestSession(t, uuid.New(), siteID, now)))

	closed := newTestSession(t, uuid.New(), siteID, now)
	require.NoError(t, closed.Close(presence.CloseReasonTimeout, now))
	require.NoError(t, repo.Save(ctx, closed))

	require.NoError(t, repo.Save(ctx, newTestSession(t, uuid.New(), uuid.New(), now)))

	count, err := repo.CountOpenBySite(ctx, siteID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormSessionRepository_FindOpenBySite(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()
	siteID := uuid.New()
	now := time.Now()

	first := newTestSession(t, uuid.New(), siteID, now.Add(-time.Hour))
	second := newTestSession(t, uuid.New(), siteID, now)
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, first))

	sessions, err := repo.FindOpenBySite(ctx, siteID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID)
	assert.Equal(t, second.ID, sessions[1].ID)
}

func TestGormSessionRepository_FindOpenIdleSince(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	stale := newTestSession(t, uuid.New(), uuid.New(), now.Add(-5*time.Hour))
	require.NoError(t, repo.Save(ctx, stale))

	fresh := newTestSession(t, uuid.New(), uuid.New(), now.Add(-5*time.Hour))
	require.NoError(t, fresh.Refresh(now))
	require.NoError(t, repo.Save(ctx, fresh))

	closedStale := newTestSession(t, uuid.New(), uuid.New(), now.Add(-5*time.Hour))
	require.NoError(t, closedStale.Close(presence.CloseReasonCheckout, now.Add(-4*time.Hour)))
	require.NoError(t, repo.Save(ctx, closedStale))

	sessions, err := repo.FindOpenIdleSince(ctx, now.Add(-4*time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, stale.ID, sessions[0].ID)
}

func TestGormSessionRepository_Save_PersistsClose(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	session := newTestSession(t, uuid.New(), uuid.New(), now)
	require.NoError(t, repo.Save(ctx, session))

	require.NoError(t, session.Close(presence.CloseReasonSuperseded, now.Add(time.Minute)))
	require.NoError(t, repo.Save(ctx, session))

	found, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, found.IsOpen())
	assert.Equal(t, presence.CloseReasonSuperseded, found.CloseReason)
	assert.NotNil(t, found.ClosedAt)

	var count int64
	require.NoError(t, db.Model(&models.SessionModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
