package course

import (
	"errors"
	"fmt"
	"time"

	"lifecourse/api/internal/models"
)

const (
	// DefaultRequestLimit caps how many times a user may ever request
	// access to one session, counting resolved requests.
	DefaultRequestLimit = 3

	// DefaultSpecialAccessTTL is how long an admin grant stays live.
	DefaultSpecialAccessTTL = 2 * time.Hour
)

var (
	ErrPendingRequestExists = errors.New("pending access request already exists for this session")
	ErrRequestLimitReached  = errors.New("access request limit reached for this session")
)

// SubmitAccessRequest appends a fresh pending request to the user's
// history. It fails without mutating the user when a pending request
// for the session already exists, or when the lifetime cap is hit.
func SubmitAccessRequest(user *models.User, sessionID string, now time.Time, limit int) error {
	if limit <= 0 {
		limit = DefaultRequestLimit
	}

	if user.PendingRequestIndex(sessionID) >= 0 {
		return ErrPendingRequestExists
	}
	if user.RequestCountFor(sessionID) >= limit {
		return ErrRequestLimitReached
	}

	user.AccessRequests = append(user.AccessRequests, models.AccessRequest{
		SessionID:   sessionID,
		Status:      models.RequestStatusPending,
		RequestedAt: now,
	})
	return nil
}

// ResolveAccess applies an admin grant or revoke to the user in memory.
// Granting upserts the special-access entry (a re-grant replaces the
// expiry, it never duplicates); revoking removes it. Any pending request
// for the session is resolved and a notification is appended. The caller
// persists the whole user in one write so the three mutations land
// together.
func ResolveAccess(user *models.User, session models.Session, grant bool, now time.Time, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultSpecialAccessTTL
	}

	grantIndex := -1
	for i, sa := range user.SpecialAccess {
		if sa.SessionID == session.ID {
			grantIndex = i
			break
		}
	}

	if grant {
		expiresAt := now.Add(ttl)
		if grantIndex >= 0 {
			user.SpecialAccess[grantIndex].ExpiresAt = expiresAt
		} else {
			user.SpecialAccess = append(user.SpecialAccess, models.SpecialAccessGrant{
				SessionID: session.ID,
				GrantedAt: now,
				ExpiresAt: expiresAt,
			})
		}
	} else if grantIndex >= 0 {
		user.SpecialAccess = append(user.SpecialAccess[:grantIndex], user.SpecialAccess[grantIndex+1:]...)
	}

	if i := user.PendingRequestIndex(session.ID); i >= 0 {
		resolvedAt := now
		if grant {
			user.AccessRequests[i].Status = models.RequestStatusApproved
		} else {
			user.AccessRequests[i].Status = models.RequestStatusRejected
		}
		user.AccessRequests[i].ResolvedAt = &resolvedAt
	}

	hours := int(ttl.Hours())
	var message string
	severity := models.SeverityError
	if grant {
		message = fmt.Sprintf("Your request for %q has been approved. You have access for %d hours.", session.Title, hours)
		severity = models.SeveritySuccess
	} else {
		message = fmt.Sprintf("Your access to %q has been revoked or denied.", session.Title)
	}

	user.Notifications = append(user.Notifications, models.Notification{
		Message:   message,
		Severity:  severity,
		Read:      false,
		CreatedAt: now,
	})
}

// PruneExpiredSpecialAccess drops every grant whose expiry has passed
// and reports whether anything changed.
func PruneExpiredSpecialAccess(user *models.User, now time.Time) bool {
	kept := user.SpecialAccess[:0]
	for _, grant := range user.SpecialAccess {
		if now.Before(grant.ExpiresAt) {
			kept = append(kept, grant)
		}
	}
	changed := len(kept) != len(user.SpecialAccess)
	user.SpecialAccess = kept
	return changed
}
