package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifecourse/api/internal/models"
)

func day(n int) time.Time {
	// Day 1 of the timeline; n is 1-based.
	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, n-1)
}

func paidUser() models.User {
	return models.User{
		ID:        "u1",
		Role:      models.UserRoleUser,
		HasPaid:   true,
		CreatedAt: day(1),
	}
}

func session(n int) models.Session {
	return models.Session{ID: "s" + string(rune('0'+n)), DayNumber: n}
}

func TestDaysSinceEnrollment(t *testing.T) {
	enrolled := time.Date(2026, time.March, 1, 23, 50, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"same instant", enrolled, 1},
		{"later same calendar day", time.Date(2026, time.March, 1, 23, 59, 0, 0, time.UTC), 1},
		{"just after midnight", time.Date(2026, time.March, 2, 0, 10, 0, 0, time.UTC), 2},
		{"a week in", time.Date(2026, time.March, 8, 6, 0, 0, 0, time.UTC), 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysSinceEnrollment(tt.now, enrolled))
		})
	}
}

func TestDaysSinceEnrollmentAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// DST starts 2026-03-29 in Berlin: that calendar day is 23 hours.
	enrolled := time.Date(2026, time.March, 28, 12, 0, 0, 0, loc)
	now := time.Date(2026, time.March, 30, 12, 0, 0, 0, loc)

	assert.Equal(t, 3, DaysSinceEnrollment(now, enrolled))
}

func TestEvaluateAdminSeesEverything(t *testing.T) {
	admin := paidUser()
	admin.Role = models.UserRoleAdmin
	admin.HasPaid = false

	for _, n := range []int{1, 8, 15} {
		d := Evaluate(day(1), admin, session(n))
		assert.True(t, d.Arrived, "day %d should be visible to admin", n)
		assert.True(t, d.MediaAccessible, "day %d media should be open to admin", n)
		assert.False(t, d.ContentExpired)
	}
}

func TestEvaluateUnpaidUserGetsOnlyDayOne(t *testing.T) {
	user := paidUser()
	user.HasPaid = false

	d := Evaluate(day(10), user, session(1))
	assert.True(t, d.Arrived)

	d = Evaluate(day(10), user, session(2))
	assert.False(t, d.Arrived)
	assert.False(t, d.MediaAccessible)
}

func TestEvaluatePaidDrip(t *testing.T) {
	user := paidUser()

	// On enrollment day 3, days 1-3 have arrived and day 4 has not.
	now := day(3)
	assert.True(t, Evaluate(now, user, session(3)).Arrived)
	assert.False(t, Evaluate(now, user, session(4)).Arrived)
}

func TestEvaluateContentExpiry(t *testing.T) {
	user := paidUser()
	now := day(3)

	// Day 2 arrived yesterday and has lapsed.
	d := Evaluate(now, user, session(2))
	assert.True(t, d.Arrived)
	assert.True(t, d.ContentExpired)
	assert.False(t, d.MediaAccessible)

	// The current day is still open.
	d = Evaluate(now, user, session(3))
	assert.False(t, d.ContentExpired)
	assert.True(t, d.MediaAccessible)
}

func TestEvaluateCompletionSurvivesExpiry(t *testing.T) {
	user := paidUser()
	user.CompletedSessions = []string{session(2).ID}

	d := Evaluate(day(5), user, session(2))
	assert.True(t, d.ContentExpired)
	assert.True(t, d.MediaAccessible, "completed sessions stay watchable")
}

func TestEvaluateSpecialAccessOverridesDrip(t *testing.T) {
	user := paidUser()
	target := session(10)
	now := day(2)

	user.SpecialAccess = []models.SpecialAccessGrant{{
		SessionID: target.ID,
		GrantedAt: now,
		ExpiresAt: now.Add(2 * time.Hour),
	}}

	d := Evaluate(now, user, target)
	assert.True(t, d.SpecialAccessActive)
	assert.True(t, d.Arrived, "an active grant surfaces the session early")
	assert.True(t, d.MediaAccessible)
}

func TestEvaluateSpecialAccessExpires(t *testing.T) {
	user := paidUser()
	target := session(10)
	grantedAt := day(2)

	user.SpecialAccess = []models.SpecialAccessGrant{{
		SessionID: target.ID,
		GrantedAt: grantedAt,
		ExpiresAt: grantedAt.Add(2 * time.Hour),
	}}

	// One minute before expiry: open. One minute after: locked again.
	d := Evaluate(grantedAt.Add(119*time.Minute), user, target)
	assert.True(t, d.MediaAccessible)

	d = Evaluate(grantedAt.Add(121*time.Minute), user, target)
	assert.False(t, d.SpecialAccessActive)
	assert.False(t, d.Arrived)
	assert.False(t, d.MediaAccessible)
}

func TestEvaluateExpiredGrantDoesNotRevokeNormalAccess(t *testing.T) {
	user := paidUser()
	target := session(3)
	now := day(3)

	user.SpecialAccess = []models.SpecialAccessGrant{{
		SessionID: target.ID,
		GrantedAt: day(2),
		ExpiresAt: day(2).Add(2 * time.Hour),
	}}

	// The grant lapsed, but day 3 has arrived on its own.
	d := Evaluate(now, user, target)
	assert.False(t, d.SpecialAccessActive)
	assert.True(t, d.Arrived)
	assert.True(t, d.MediaAccessible)
}
