package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"lifecourse/api/internal/config"
	"lifecourse/api/internal/course"
	"lifecourse/api/internal/ids"
	"lifecourse/api/internal/models"
	"lifecourse/api/internal/repository"
	"lifecourse/api/internal/security"
)

// CourseService serves the drip-feed session timeline and the per-user
// progress and access-request operations around it.
type CourseService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	cipher   *security.MediaCipher
	cfg      *config.AppConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewCourseService(
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	cipher *security.MediaCipher,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		users:    users,
		sessions: sessions,
		cipher:   cipher,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// GetSessionsView returns the full catalog rendered for one user, with
// locked media redacted and unlocked media links obfuscated.
func (s *CourseService) GetSessionsView(ctx context.Context, userID string) ([]course.SessionView, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		if err := s.EnsureCatalog(ctx); err != nil {
			return nil, err
		}
		if sessions, err = s.sessions.List(ctx); err != nil {
			return nil, err
		}
	}

	return course.BuildViews(s.now(), user, sessions, s.cipher), nil
}

// EnsureCatalog seeds the built-in 15-day catalog when the sessions
// table is empty. Days already present are left untouched.
func (s *CourseService) EnsureCatalog(ctx context.Context) error {
	count, err := s.sessions.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	catalog := course.DefaultCatalog()
	for i := range catalog {
		catalog[i].ID = ids.New()
	}

	s.log.Info().Int("sessions", len(catalog)).Msg("seeding default session catalog")
	return s.sessions.BulkInsert(ctx, catalog)
}

// MarkCompleted records that the user finished a session. Completion is
// idempotent and survives content expiry.
func (s *CourseService) MarkCompleted(ctx context.Context, userID string, sessionID string) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return err
	}

	repaired, err := s.users.MarkSessionCompleted(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if repaired {
		s.log.Warn().Str("user_id", userID).Msg("completed_sessions column was malformed and has been rebuilt")
	}
	return nil
}

// RequestAccess files an access request for a locked session. Saves are
// retried when a concurrent writer bumps the user row version.
func (s *CourseService) RequestAccess(ctx context.Context, userID string, sessionID string) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return err
	}

	return withUserRetry(ctx, s.users, userID, func(user *models.User) error {
		return course.SubmitAccessRequest(user, sessionID, s.now(), s.cfg.Course.RequestLimit)
	})
}

// MarkPaid flips the premium flag after a settled intro-to-full upgrade.
func (s *CourseService) MarkPaid(ctx context.Context, userID string) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.users.SetHasPaid(ctx, userID)
}

// Notifications returns the user's notification feed, newest first.
func (s *CourseService) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	notifications := make([]models.Notification, len(user.Notifications))
	copy(notifications, user.Notifications)
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

// MarkNotificationsRead marks the entire feed as read.
func (s *CourseService) MarkNotificationsRead(ctx context.Context, userID string) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	return withUserRetry(ctx, s.users, userID, func(user *models.User) error {
		for i := range user.Notifications {
			user.Notifications[i].Read = true
		}
		return nil
	})
}

// withUserRetry runs a read-modify-write cycle on one user row,
// retrying with backoff when the optimistic version check fails.
func withUserRetry(ctx context.Context, users *repository.UserRepository, userID string, mutate func(*models.User) error) error {
	backoff := retry.WithMaxRetries(5, retry.NewExponential(25*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := mutate(&user); err != nil {
			return err
		}
		if err := users.Save(ctx, &user); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}

func (s *CourseService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.Course.StoreTimeout)
}
