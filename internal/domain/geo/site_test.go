package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejournal/backend/internal/domain/shared"
)

func TestNewSite(t *testing.T) {
	boundary := testSquare(t)

	t.Run("valid site", func(t *testing.T) {
		site, err := NewSite("001", "Embankment reconstruction", "Moscow", boundary, 8*60, 18*60)
		require.NoError(t, err)
		assert.Equal(t, SiteStatusActive, site.Status)
		assert.Equal(t, 1, site.BoundaryVersion)
		assert.Len(t, site.GetDomainEvents(), 1)
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := NewSite("", "Site", "", boundary, 8*60, 18*60)
		assert.Error(t, err)
	})

	t.Run("inverted workday", func(t *testing.T) {
		_, err := NewSite("001", "Site", "", boundary, 18*60, 8*60)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_SCHEDULE", derr.Code)
	})
}

func TestSite_WithinWorkingHours(t *testing.T) {
	site := testSite(t) // 08:00 to 18:00

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time {
		return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"fully inside window", at(9, 0), at(12, 30), true},
		{"boundary exact", at(8, 0), at(18, 0), true},
		{"starts before window", at(7, 30), at(12, 0), false},
		{"ends after window", at(16, 0), at(18, 30), false},
		{"end before start", at(12, 0), at(11, 0), false},
		{"spans midnight", at(17, 0), at(17, 0).Add(24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, site.WithinWorkingHours(tt.start, tt.end))
		})
	}
}

func TestSite_PublishBoundary(t *testing.T) {
	site := testSite(t)
	site.ClearDomainEvents()

	err := site.PublishBoundary(site.Boundary, []WorkZone{{Name: "sector-a", Polygon: site.Boundary}})
	require.NoError(t, err)
	assert.Equal(t, 2, site.BoundaryVersion)
	assert.True(t, site.HasWorkZones())
	assert.Len(t, site.GetDomainEvents(), 1)

	t.Run("unnamed zone rejected", func(t *testing.T) {
		err := site.PublishBoundary(site.Boundary, []WorkZone{{Polygon: site.Boundary}})
		assert.Error(t, err)
	})

	t.Run("rejected after completion", func(t *testing.T) {
		require.NoError(t, site.Complete())
		err := site.PublishBoundary(site.Boundary, nil)
		assert.Error(t, err)
	})
}

func TestSite_Lifecycle(t *testing.T) {
	site := testSite(t)

	require.NoError(t, site.Complete())
	assert.Equal(t, SiteStatusCompleted, site.Status)
	assert.NotNil(t, site.CompletedAt)
	assert.False(t, site.IsActive())

	assert.Error(t, site.Complete())

	require.NoError(t, site.Retire())
	assert.Equal(t, SiteStatusRetired, site.Status)

	assert.Error(t, site.Retire())
}
