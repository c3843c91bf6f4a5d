package course

import (
	"time"

	"lifecourse/api/internal/models"
)

// Decision is the visibility verdict for one user and one session at a
// given instant. All fields are derived; nothing here touches storage.
type Decision struct {
	Arrived             bool
	MediaAccessible     bool
	ContentExpired      bool
	SpecialAccessActive bool
}

func midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DaysSinceEnrollment counts the enrollment day as day 1, regardless of
// time of day: both instants are truncated to midnight in now's location
// before subtraction. The Round absorbs the hour of drift a DST
// transition introduces between two midnights.
func DaysSinceEnrollment(now, enrolledAt time.Time) int {
	elapsed := midnight(now).Sub(midnight(enrolledAt.In(now.Location())))
	return int(elapsed.Round(24*time.Hour)/(24*time.Hour)) + 1
}

// Evaluate computes the drip-feed visibility of session for user at now.
//
// Admins see everything, always. For everyone else, day 1 is a free
// preview; later days arrive one per elapsed enrollment day once the
// user has paid. An arrived day stays watchable through the following
// day transition only, unless the user already completed it. An active
// special-access grant overrides both the drip gate and the expiry
// window until it lapses.
func Evaluate(now time.Time, user models.User, session models.Session) Decision {
	var d Decision

	if grant, ok := user.SpecialAccessFor(session.ID); ok {
		d.SpecialAccessActive = now.Before(grant.ExpiresAt)
	}

	isAdmin := user.IsAdmin()
	days := DaysSinceEnrollment(now, user.CreatedAt)

	switch {
	case isAdmin:
		d.Arrived = true
	case session.DayNumber == 1:
		d.Arrived = true
	case user.HasPaid:
		d.Arrived = session.DayNumber <= days
	}

	if !isAdmin {
		d.ContentExpired = session.DayNumber < days
	}

	switch {
	case isAdmin:
		d.MediaAccessible = true
	case d.SpecialAccessActive:
		d.MediaAccessible = true
		// Special access must surface the content even when its day
		// has not arrived yet.
		d.Arrived = true
	case d.Arrived:
		d.MediaAccessible = !d.ContentExpired || user.HasCompleted(session.ID)
	}

	return d
}
