package course

import (
	"fmt"
	"time"

	"lifecourse/api/internal/models"
)

// LinkTransform obfuscates a media reference before it leaves the
// server. Implemented by security.MediaCipher.
type LinkTransform interface {
	Obfuscate(raw string) string
}

// SessionView is the redacted, per-user rendering of one catalog entry.
type SessionView struct {
	ID               string             `json:"id"`
	DayNumber        int                `json:"dayNumber"`
	Title            string             `json:"title"`
	Type             models.SessionType `json:"type"`
	ContextPoints    []string           `json:"contextPoints"`
	MediaURL         *string            `json:"mediaUrl"`
	IsLocked         bool               `json:"isLocked"`
	IsCompleted      bool               `json:"isCompleted"`
	HasSpecialAccess bool               `json:"hasSpecialAccess"`
}

// BuildViews evaluates every session in catalog order for one user and
// redacts what the user may not see. Sessions that have not arrived lose
// both media and context points; arrived-but-inaccessible sessions lose
// only the media link. Accessible media passes through transform.
func BuildViews(now time.Time, user models.User, sessions []models.Session, transform LinkTransform) []SessionView {
	views := make([]SessionView, 0, len(sessions))

	for _, session := range sessions {
		d := Evaluate(now, user, session)

		view := SessionView{
			ID:               session.ID,
			DayNumber:        session.DayNumber,
			Title:            session.Title,
			Type:             session.Type,
			ContextPoints:    session.ContextPoints,
			IsLocked:         !d.MediaAccessible,
			IsCompleted:      user.HasCompleted(session.ID),
			HasSpecialAccess: d.SpecialAccessActive,
		}

		switch {
		case !d.Arrived:
			if user.HasPaid {
				view.ContextPoints = []string{fmt.Sprintf("This content unlocks on Day %d of your journey.", session.DayNumber)}
			} else {
				view.ContextPoints = []string{"Locked Content. Please register to access."}
			}
		case d.MediaAccessible && session.MediaURL != "":
			token := transform.Obfuscate(session.MediaURL)
			view.MediaURL = &token
		}

		views = append(views, view)
	}

	return views
}
