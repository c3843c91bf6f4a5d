package course

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifecourse/api/internal/models"
)

// reverseTransform makes obfuscation visible in assertions.
type reverseTransform struct{}

func (reverseTransform) Obfuscate(raw string) string { return "enc:" + raw }

func catalog(n int) []models.Session {
	sessions := make([]models.Session, 0, n)
	for i := 1; i <= n; i++ {
		sessions = append(sessions, models.Session{
			ID:            fmt.Sprintf("sess-%02d", i),
			DayNumber:     i,
			Title:         fmt.Sprintf("Day %d", i),
			Type:          models.SessionTypeRecorded,
			ContextPoints: []string{"point one", "point two"},
			MediaURL:      fmt.Sprintf("https://cdn.example.com/day-%02d.mp3", i),
		})
	}
	return sessions
}

func TestBuildViewsDayOneForFreshPaidUser(t *testing.T) {
	user := paidUser()
	views := BuildViews(day(1), user, catalog(15), reverseTransform{})
	require.Len(t, views, 15)

	first := views[0]
	assert.False(t, first.IsLocked)
	require.NotNil(t, first.MediaURL)
	assert.Equal(t, "enc:https://cdn.example.com/day-01.mp3", *first.MediaURL)
	assert.Equal(t, []string{"point one", "point two"}, first.ContextPoints)

	// Every later day is redacted down to the unlock teaser.
	for _, v := range views[1:] {
		assert.True(t, v.IsLocked)
		assert.Nil(t, v.MediaURL)
		require.Len(t, v.ContextPoints, 1)
		assert.Equal(t,
			fmt.Sprintf("This content unlocks on Day %d of your journey.", v.DayNumber),
			v.ContextPoints[0])
	}
}

func TestBuildViewsUnpaidPlaceholder(t *testing.T) {
	user := paidUser()
	user.HasPaid = false

	views := BuildViews(day(1), user, catalog(3), reverseTransform{})

	assert.False(t, views[0].IsLocked)
	for _, v := range views[1:] {
		require.Len(t, v.ContextPoints, 1)
		assert.Equal(t, "Locked Content. Please register to access.", v.ContextPoints[0])
	}
}

func TestBuildViewsExpiredDayKeepsContextLosesMedia(t *testing.T) {
	user := paidUser()
	views := BuildViews(day(3), user, catalog(5), reverseTransform{})

	// Day 2 arrived and lapsed: still shows its context points, but the
	// media link is withheld.
	expired := views[1]
	assert.True(t, expired.IsLocked)
	assert.Nil(t, expired.MediaURL)
	assert.Equal(t, []string{"point one", "point two"}, expired.ContextPoints)

	// Day 3 is the live day.
	live := views[2]
	assert.False(t, live.IsLocked)
	require.NotNil(t, live.MediaURL)
}

func TestBuildViewsCompletedFlag(t *testing.T) {
	user := paidUser()
	user.CompletedSessions = []string{"sess-01"}

	views := BuildViews(day(2), user, catalog(3), reverseTransform{})
	assert.True(t, views[0].IsCompleted)
	require.NotNil(t, views[0].MediaURL, "completed day 1 stays watchable after expiry")
	assert.False(t, views[1].IsCompleted)
}

func TestBuildViewsSpecialAccessFlag(t *testing.T) {
	user := paidUser()
	now := day(1)
	user.SpecialAccess = []models.SpecialAccessGrant{{
		SessionID: "sess-05",
		GrantedAt: now,
		ExpiresAt: now.Add(2 * time.Hour),
	}}

	views := BuildViews(now, user, catalog(5), reverseTransform{})

	granted := views[4]
	assert.True(t, granted.HasSpecialAccess)
	assert.False(t, granted.IsLocked)
	require.NotNil(t, granted.MediaURL)
	assert.Equal(t, "enc:https://cdn.example.com/day-05.mp3", *granted.MediaURL)
	assert.Equal(t, []string{"point one", "point two"}, granted.ContextPoints)
}

func TestBuildViewsOneOnOneSessionHasNoMedia(t *testing.T) {
	user := paidUser()
	sessions := []models.Session{{
		ID:        "sess-01",
		DayNumber: 1,
		Title:     "Kickoff",
		Type:      models.SessionTypeOneOnOne,
	}}

	views := BuildViews(day(1), user, sessions, reverseTransform{})
	assert.False(t, views[0].IsLocked)
	assert.Nil(t, views[0].MediaURL)
}
