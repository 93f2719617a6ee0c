package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ejournal/backend/internal/domain/quality"
	"github.com/ejournal/backend/internal/domain/shared"
	"github.com/ejournal/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupViolationTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ViolationModel{})
	require.NoError(t, err)

	return db
}

func newTestViolation(t *testing.T, siteID uuid.UUID, deadline, now time.Time) *quality.Violation {
	t.Helper()
	violation, err := quality.NewViolation(uuid.New(), siteID, "CONCRETE_CURING", quality.SeverityHigh, deadline, now)
	require.NoError(t, err)
	return violation
}

func TestGormViolationRepository_SaveAndFindByID(t *testing.T) {
	db := setupViolationTestDB(t)
	repo := NewGormViolationRepository(db)
	ctx := context.Background()
	now := time.Now()

	violation := newTestViolation(t, uuid.New(), now.Add(72*time.Hour), now)
	require.NoError(t, repo.Save(ctx, violation))

	found, err := repo.FindByID(ctx, violation.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONCRETE_CURING", found.Code)
	assert.Equal(t, quality.SeverityHigh, found.Severity)
	assert.Equal(t, quality.ViolationStatusOpen, found.Status)
}

func TestGormViolationRepository_FindByID_NotFound(t *testing.T) {
	db := setupViolationTestDB(t)
	repo := NewGormViolationRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())

	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormViolationRepository_FindOpenPastDeadline(t *testing.T) {
	db := setupViolationTestDB(t)
	repo := NewGormViolationRepository(db)
	ctx := context.Background()
	now := time.Now()

	overdue := newTestViolation(t, uuid.New(), now.Add(time.Hour), now)
	require.NoError(t, repo.Save(ctx, overdue))

	withinDeadline := newTestViolation(t, uuid.New(), now.Add(96*time.Hour), now)
	require.NoError(t, repo.Save(ctx, withinDeadline))

	resolvedLate := newTestViolation(t, uuid.New(), now.Add(time.Hour), now)
	require.NoError(t, resolvedLate.Resolve("patched", now))
	require.NoError(t, repo.Save(ctx, resolvedLate))

	found, err := repo.FindOpenPastDeadline(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, overdue.ID, found[0].ID)
}

func TestGormViolationRepository_CountOutstandingBySite(t *testing.T) {
	db := setupViolationTestDB(t)
	repo := NewGormViolationRepository(db)
	ctx := context.Background()
	siteID := uuid.New()
	now := time.Now()

	open := newTestViolation(t, siteID, now.Add(72*time.Hour), now)
	require.NoError(t, repo.Save(ctx, open))

	overdue := newTestViolation(t, siteID, now.Add(time.Hour), now)
	changed, err := overdue.MarkOverdue(now.Add(2 * time.Hour))
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, repo.Save(ctx, overdue))

	resolved := newTestViolation(t, siteID, now.Add(72*time.Hour), now)
	require.NoError(t, resolved.Resolve("re-poured", now))
	require.NoError(t, repo.Save(ctx, resolved))

	require.NoError(t, repo.Save(ctx, newTestViolation(t, uuid.New(), now.Add(72*time.Hour), now)))

	count, err := repo.CountOutstandingBySite(ctx, siteID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormViolationRepository_FindByEntry(t *testing.T) {
	db := setupViolationTestDB(t)
	repo := NewGormViolationRepository(db)
	ctx := context.Background()
	now := time.Now()
	entryID := uuid.New()

	violation, err := quality.NewViolation(entryID, uuid.New(), "REBAR_SPACING", quality.SeverityCritical, now.Add(24*time.Hour), now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, violation))
	require.NoError(t, repo.Save(ctx, newTestViolation(t, uuid.New(), now.Add(24*time.Hour), now)))

	found, err := repo.FindByEntry(ctx, entryID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, violation.ID, found[0].ID)
}

func TestGormViolationRepository_FindBySite_StatusFilter(t *testing.T) {
	db := setupViolationTestDB(t)
	repo := NewGormViolationRepository(db)
	ctx := context.Background()
	siteID := uuid.New()
	now := time.Now()

	open := newTestViolation(t, siteID, now.Add(72*time.Hour), now)
	require.NoError(t, repo.Save(ctx, open))

	resolved := newTestViolation(t, siteID, now.Add(72*time.Hour), now)
	require.NoError(t, resolved.Resolve("fixed", now))
	require.NoError(t, repo.Save(ctx, resolved))

	filter := shared.DefaultFilter()
	filter.Filters["status"] = quality.ViolationStatusOpen

	page, err := repo.FindBySite(ctx, siteID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, open.ID, page.Items[0].ID)
}

func TestGormViolationRepository_SaveWithLock(t *testing.T) {
	db := setupViolationTestDB(t)
	repo := NewGormViolationRepository(db)
	ctx := context.Background()
	now := time.Now()

	violation := newTestViolation(t, uuid.New(), now.Add(time.Hour), now)
	require.NoError(t, repo.Save(ctx, violation))

	changed, err := violation.MarkOverdue(now.Add(2 * time.Hour))
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, repo.SaveWithLock(ctx, violation))

	found, err := repo.FindByID(ctx, violation.ID)
	require.NoError(t, err)
	assert.Equal(t, quality.ViolationStatusOverdue, found.Status)
	assert.Equal(t, violation.Version, found.Version)
}

func TestGormViolationRepository_SaveWithLock_ResolveWinsOverSweep(t *testing.T) {
	db := setupViolationTestDB(t)
	repo := NewGormViolationRepository(db)
	ctx := context.Background()
	now := time.Now()

	violation := newTestViolation(t, uuid.New(), now.Add(time.Hour), now)
	require.NoError(t, repo.Save(ctx, violation))

	// the deadline sweep and a resolving inspector read the same open state
	sweepCopy, err := repo.FindByID(ctx, violation.ID)
	require.NoError(t, err)
	resolveCopy, err := repo.FindByID(ctx, violation.ID)
	require.NoError(t, err)

	require.NoError(t, resolveCopy.Resolve("rework accepted by inspector", now))
	require.NoError(t, repo.SaveWithLock(ctx, resolveCopy))

	changed, err := sweepCopy.MarkOverdue(now.Add(2 * time.Hour))
	require.NoError(t, err)
	require.True(t, changed)

	// the sweep's stale write must not clobber the resolve
	err = repo.SaveWithLock(ctx, sweepCopy)
	assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))

	found, err := repo.FindByID(ctx, violation.ID)
	require.NoError(t, err)
	assert.Equal(t, quality.ViolationStatusResolved, found.Status)
	assert.Equal(t, "rework accepted by inspector", found.ResolutionNote)
}
