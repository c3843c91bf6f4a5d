package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lifecourse/api/internal/config"
	"lifecourse/api/internal/course"
	"lifecourse/api/internal/ids"
	"lifecourse/api/internal/models"
	"lifecourse/api/internal/repository"
	"lifecourse/api/internal/security"
)

// AdminService covers the dashboard operations: user administration,
// catalog management, and access-request resolution.
type AdminService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	cfg      *config.AppConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewAdminService(
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// ResolveAccess grants or denies a user's access to one session. A
// grant opens a time-boxed window; either outcome closes the pending
// request and notifies the user.
func (s *AdminService) ResolveAccess(ctx context.Context, userID string, sessionID string, grant bool) (models.User, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			return models.User{}, err
		}
		// A grant can reference a session deleted since the request
		// was filed; the notification falls back to a generic title.
		session = models.Session{ID: sessionID, Title: "Session"}
	}

	var updated models.User
	err = withUserRetry(ctx, s.users, userID, func(user *models.User) error {
		course.ResolveAccess(user, session, grant, s.now(), s.cfg.Course.SpecialAccessTTL)
		updated = *user
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	s.log.Info().
		Str("user_id", userID).
		Str("session_id", sessionID).
		Bool("granted", grant).
		Msg("access request resolved")
	return updated, nil
}

// RevokeAccess removes a standing special-access grant ahead of its
// expiry. It is ResolveAccess with a deny outcome.
func (s *AdminService) RevokeAccess(ctx context.Context, userID string, sessionID string) (models.User, error) {
	return s.ResolveAccess(ctx, userID, sessionID, false)
}

// ListUsers returns every account except the caller's own.
func (s *AdminService) ListUsers(ctx context.Context, callerID string) ([]models.User, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.users.List(ctx, callerID)
}

// PendingRequestEntry is one open access request joined with the
// requesting user, for the dashboard queue.
type PendingRequestEntry struct {
	UserID    string
	UserName  string
	UserEmail string
	Request   models.AccessRequest
}

// ListPendingRequests collects every unresolved access request.
func (s *AdminService) ListPendingRequests(ctx context.Context) ([]PendingRequestEntry, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	users, err := s.users.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var entries []PendingRequestEntry
	for _, user := range users {
		for _, req := range user.AccessRequests {
			if req.Status != models.RequestStatusPending {
				continue
			}
			entries = append(entries, PendingRequestEntry{
				UserID:    user.ID,
				UserName:  user.Name,
				UserEmail: user.Email,
				Request:   req,
			})
		}
	}
	return entries, nil
}

// CreateAdmin provisions a new admin account. Only the super admin may
// mint admins; the account is created pre-paid since admins bypass the
// payment gate anyway.
func (s *AdminService) CreateAdmin(ctx context.Context, caller models.User, name, email, password string) (models.User, error) {
	if caller.Role != models.UserRoleSuperAdmin {
		return models.User{}, ErrSuperAdminOnly
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	normalized := strings.TrimSpace(strings.ToLower(email))
	if _, err := s.users.FindByEmail(ctx, normalized); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Name:         strings.TrimSpace(name),
		Email:        normalized,
		PasswordHash: passwordHash,
		Role:         models.UserRoleAdmin,
		HasPaid:      true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateRole changes an account's role. The configured super-admin
// account cannot be demoted, and only the super admin may touch roles.
func (s *AdminService) UpdateRole(ctx context.Context, caller models.User, userID string, role models.UserRole) error {
	if caller.Role != models.UserRoleSuperAdmin {
		return ErrSuperAdminOnly
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if s.isProtectedSuperAdmin(target) {
		return ErrSuperAdminProtected
	}
	return s.users.UpdateRole(ctx, userID, role)
}

// DeleteUser removes an account. Admin accounts can only be deleted by
// the super admin, and the configured super-admin account never.
func (s *AdminService) DeleteUser(ctx context.Context, caller models.User, userID string) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if s.isProtectedSuperAdmin(target) || target.Role == models.UserRoleSuperAdmin {
		return ErrSuperAdminProtected
	}
	if target.IsAdmin() && caller.Role != models.UserRoleSuperAdmin {
		return ErrAdminProtected
	}
	return s.users.Delete(ctx, userID)
}

func (s *AdminService) isProtectedSuperAdmin(user models.User) bool {
	configured := strings.TrimSpace(strings.ToLower(s.cfg.Course.SuperAdminEmail))
	return configured != "" && user.Email == configured
}

type SessionInput struct {
	DayNumber     int
	Title         string
	Type          models.SessionType
	ContextPoints []string
	MediaURL      string
}

// CreateSession adds a day to the catalog.
func (s *AdminService) CreateSession(ctx context.Context, input SessionInput) (models.Session, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	session := models.Session{
		ID:            ids.New(),
		DayNumber:     input.DayNumber,
		Title:         strings.TrimSpace(input.Title),
		Type:          input.Type,
		ContextPoints: input.ContextPoints,
		MediaURL:      input.MediaURL,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (s *AdminService) UpdateSession(ctx context.Context, id string, input SessionInput) (models.Session, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return models.Session{}, err
	}

	session.DayNumber = input.DayNumber
	session.Title = strings.TrimSpace(input.Title)
	session.Type = input.Type
	session.ContextPoints = input.ContextPoints
	if input.MediaURL != "" {
		session.MediaURL = input.MediaURL
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (s *AdminService) DeleteSession(ctx context.Context, id string) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.sessions.Delete(ctx, id)
}

// PruneExpiredSpecialAccess drops every lapsed grant across all users
// holding one. Run nightly; lapsed grants are also ignored at read time
// so the sweep is hygiene, not correctness.
func (s *AdminService) PruneExpiredSpecialAccess(ctx context.Context) (int, error) {
	users, err := s.users.ListWithSpecialAccess(ctx)
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, u := range users {
		changed := false
		err := withUserRetry(ctx, s.users, u.ID, func(user *models.User) error {
			changed = course.PruneExpiredSpecialAccess(user, s.now())
			return nil
		})
		if err != nil {
			s.log.Error().Err(err).Str("user_id", u.ID).Msg("special access prune failed for user")
			continue
		}
		if changed {
			pruned++
		}
	}
	return pruned, nil
}

func (s *AdminService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.Course.StoreTimeout)
}
