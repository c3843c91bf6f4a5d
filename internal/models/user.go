package models

import "time"

type UserRole string

const (
	UserRoleUser       UserRole = "user"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "superadmin"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "info"
	SeveritySuccess NotificationSeverity = "success"
	SeverityWarning NotificationSeverity = "warning"
	SeverityError   NotificationSeverity = "error"
)

// SpecialAccessGrant is a time-boxed admin override for one session.
// A user holds at most one grant per session; re-granting replaces the expiry.
type SpecialAccessGrant struct {
	SessionID string    `json:"sessionId"`
	GrantedAt time.Time `json:"grantedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AccessRequest is one entry in the per-user request history. Resolved
// entries are retained so the lifetime attempt cap can be enforced.
type AccessRequest struct {
	SessionID   string        `json:"sessionId"`
	Status      RequestStatus `json:"status"`
	RequestedAt time.Time     `json:"requestedAt"`
	ResolvedAt  *time.Time    `json:"resolvedAt,omitempty"`
}

type Notification struct {
	Message   string               `json:"message"`
	Severity  NotificationSeverity `json:"severity"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"createdAt"`
}

type User struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	PasswordHash   []byte
	ProfilePicture string
	Role           UserRole
	HasPaid        bool

	CompletedSessions []string
	SpecialAccess     []SpecialAccessGrant
	AccessRequests    []AccessRequest
	Notifications     []Notification

	// Version guards read-modify-write cycles on the access-control
	// sub-collections; the repository rejects saves made against a
	// stale copy of the row.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin || u.Role == UserRoleSuperAdmin
}

func (u User) HasCompleted(sessionID string) bool {
	for _, id := range u.CompletedSessions {
		if id == sessionID {
			return true
		}
	}
	return false
}

// SpecialAccessFor returns the grant for sessionID, if any.
func (u User) SpecialAccessFor(sessionID string) (SpecialAccessGrant, bool) {
	for _, grant := range u.SpecialAccess {
		if grant.SessionID == sessionID {
			return grant, true
		}
	}
	return SpecialAccessGrant{}, false
}

// PendingRequestIndex returns the index of the pending request for
// sessionID, or -1 when none exists.
func (u User) PendingRequestIndex(sessionID string) int {
	for i, req := range u.AccessRequests {
		if req.SessionID == sessionID && req.Status == RequestStatusPending {
			return i
		}
	}
	return -1
}

// RequestCountFor counts every historical request for sessionID,
// whatever its status.
func (u User) RequestCountFor(sessionID string) int {
	count := 0
	for _, req := range u.AccessRequests {
		if req.SessionID == sessionID {
			count++
		}
	}
	return count
}
