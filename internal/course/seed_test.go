package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifecourse/api/internal/models"
)

func TestDefaultCatalogShape(t *testing.T) {
	catalog := DefaultCatalog()
	require.Len(t, catalog, 15)

	seenDays := make(map[int]bool)
	seenTitles := make(map[string]bool)
	for _, s := range catalog {
		assert.False(t, seenDays[s.DayNumber], "duplicate day %d", s.DayNumber)
		assert.False(t, seenTitles[s.Title], "duplicate title %q", s.Title)
		seenDays[s.DayNumber] = true
		seenTitles[s.Title] = true

		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.ContextPoints, "day %d has no context points", s.DayNumber)

		switch s.Type {
		case models.SessionTypeRecorded:
			assert.NotEmpty(t, s.MediaURL, "recorded day %d needs media", s.DayNumber)
		case models.SessionTypeOneOnOne:
			assert.Empty(t, s.MediaURL, "live day %d should have no media", s.DayNumber)
		default:
			t.Fatalf("day %d has unknown type %q", s.DayNumber, s.Type)
		}
	}

	for day := 1; day <= 15; day++ {
		assert.True(t, seenDays[day], "day %d missing", day)
	}
}
