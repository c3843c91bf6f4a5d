package course

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifecourse/api/internal/models"
)

func TestSubmitAccessRequest(t *testing.T) {
	user := paidUser()
	now := day(2)

	require.NoError(t, SubmitAccessRequest(&user, "sess-10", now, 3))
	require.Len(t, user.AccessRequests, 1)
	assert.Equal(t, models.RequestStatusPending, user.AccessRequests[0].Status)
	assert.Equal(t, now, user.AccessRequests[0].RequestedAt)
	assert.Nil(t, user.AccessRequests[0].ResolvedAt)
}

func TestSubmitAccessRequestRejectsDuplicatePending(t *testing.T) {
	user := paidUser()
	require.NoError(t, SubmitAccessRequest(&user, "sess-10", day(2), 3))

	err := SubmitAccessRequest(&user, "sess-10", day(2), 3)
	assert.ErrorIs(t, err, ErrPendingRequestExists)
	assert.Len(t, user.AccessRequests, 1, "failed submit must not mutate")
}

func TestSubmitAccessRequestLifetimeCap(t *testing.T) {
	user := paidUser()
	session := models.Session{ID: "sess-10", Title: "Day 10"}

	// Three request/deny cycles exhaust the cap.
	for i := 0; i < 3; i++ {
		now := day(2 + i)
		require.NoError(t, SubmitAccessRequest(&user, session.ID, now, 3))
		ResolveAccess(&user, session, false, now, 2*time.Hour)
	}

	err := SubmitAccessRequest(&user, session.ID, day(6), 3)
	assert.ErrorIs(t, err, ErrRequestLimitReached)

	// The cap is per session: another session is unaffected.
	assert.NoError(t, SubmitAccessRequest(&user, "sess-11", day(6), 3))
}

func TestResolveAccessGrant(t *testing.T) {
	user := paidUser()
	session := models.Session{ID: "sess-10", Title: "Breakthrough"}
	now := day(2)

	require.NoError(t, SubmitAccessRequest(&user, session.ID, now, 3))
	ResolveAccess(&user, session, true, now, 2*time.Hour)

	require.Len(t, user.SpecialAccess, 1)
	grant := user.SpecialAccess[0]
	assert.Equal(t, session.ID, grant.SessionID)
	assert.Equal(t, now, grant.GrantedAt)
	assert.Equal(t, now.Add(2*time.Hour), grant.ExpiresAt)

	require.Len(t, user.AccessRequests, 1)
	assert.Equal(t, models.RequestStatusApproved, user.AccessRequests[0].Status)
	require.NotNil(t, user.AccessRequests[0].ResolvedAt)
	assert.Equal(t, now, *user.AccessRequests[0].ResolvedAt)

	require.Len(t, user.Notifications, 1)
	note := user.Notifications[0]
	assert.Equal(t, models.SeveritySuccess, note.Severity)
	assert.Equal(t, fmt.Sprintf("Your request for %q has been approved. You have access for 2 hours.", session.Title), note.Message)
	assert.False(t, note.Read)
}

func TestResolveAccessRegrantReplacesExpiry(t *testing.T) {
	user := paidUser()
	session := models.Session{ID: "sess-10", Title: "Breakthrough"}

	first := day(2)
	ResolveAccess(&user, session, true, first, 2*time.Hour)

	second := first.Add(90 * time.Minute)
	ResolveAccess(&user, session, true, second, 2*time.Hour)

	require.Len(t, user.SpecialAccess, 1, "re-grant must not duplicate")
	assert.Equal(t, second.Add(2*time.Hour), user.SpecialAccess[0].ExpiresAt)
	assert.Equal(t, first, user.SpecialAccess[0].GrantedAt, "original grant time is kept")
}

func TestResolveAccessDeny(t *testing.T) {
	user := paidUser()
	session := models.Session{ID: "sess-10", Title: "Breakthrough"}
	now := day(2)

	require.NoError(t, SubmitAccessRequest(&user, session.ID, now, 3))
	ResolveAccess(&user, session, false, now, 2*time.Hour)

	assert.Empty(t, user.SpecialAccess)
	assert.Equal(t, models.RequestStatusRejected, user.AccessRequests[0].Status)

	require.Len(t, user.Notifications, 1)
	assert.Equal(t, models.SeverityError, user.Notifications[0].Severity)
	assert.Equal(t, fmt.Sprintf("Your access to %q has been revoked or denied.", session.Title), user.Notifications[0].Message)
}

func TestResolveAccessRevokeStandingGrant(t *testing.T) {
	user := paidUser()
	session := models.Session{ID: "sess-10", Title: "Breakthrough"}
	now := day(2)

	ResolveAccess(&user, session, true, now, 2*time.Hour)
	require.Len(t, user.SpecialAccess, 1)

	ResolveAccess(&user, session, false, now.Add(time.Hour), 2*time.Hour)
	assert.Empty(t, user.SpecialAccess)
}

func TestPruneExpiredSpecialAccess(t *testing.T) {
	user := paidUser()
	now := day(2)
	user.SpecialAccess = []models.SpecialAccessGrant{
		{SessionID: "a", ExpiresAt: now.Add(-time.Minute)},
		{SessionID: "b", ExpiresAt: now.Add(time.Hour)},
		{SessionID: "c", ExpiresAt: now.Add(-time.Hour)},
	}

	changed := PruneExpiredSpecialAccess(&user, now)
	assert.True(t, changed)
	require.Len(t, user.SpecialAccess, 1)
	assert.Equal(t, "b", user.SpecialAccess[0].SessionID)

	assert.False(t, PruneExpiredSpecialAccess(&user, now), "second sweep is a no-op")
}

func TestAccessRequestThenGrantEndToEnd(t *testing.T) {
	user := paidUser()
	target := models.Session{ID: "sess-10", DayNumber: 10, Title: "Day 10"}
	now := day(2)

	// Locked before the grant.
	assert.False(t, Evaluate(now, user, target).MediaAccessible)

	require.NoError(t, SubmitAccessRequest(&user, target.ID, now, 3))
	ResolveAccess(&user, target, true, now, 2*time.Hour)

	// Open during the window, locked again after it lapses.
	assert.True(t, Evaluate(now.Add(time.Hour), user, target).MediaAccessible)
	assert.False(t, Evaluate(now.Add(3*time.Hour), user, target).MediaAccessible)
}
