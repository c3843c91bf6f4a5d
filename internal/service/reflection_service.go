package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lifecourse/api/internal/ids"
	"lifecourse/api/internal/models"
	"lifecourse/api/internal/repository"
)

var ErrEmptyReflection = errors.New("reflection text is empty")

// ReflectionService manages the per-session journaling thread between a
// premium user and the coaching team.
type ReflectionService struct {
	reflections *repository.ReflectionRepository
	users       *repository.UserRepository
	sessions    *repository.SessionRepository
	log         zerolog.Logger
	now         func() time.Time
}

func NewReflectionService(
	reflections *repository.ReflectionRepository,
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	log zerolog.Logger,
) *ReflectionService {
	return &ReflectionService{
		reflections: reflections,
		users:       users,
		sessions:    sessions,
		log:         log,
		now:         time.Now,
	}
}

// Submit appends a journal entry to the user's thread for one session,
// creating the thread on first write. Journaling is a premium feature;
// admins pass the gate implicitly.
func (s *ReflectionService) Submit(ctx context.Context, userID string, sessionID string, text string) (models.Reflection, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Reflection{}, ErrEmptyReflection
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.Reflection{}, err
	}
	if !user.HasPaid && !user.IsAdmin() {
		return models.Reflection{}, ErrPremiumOnly
	}

	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return models.Reflection{}, err
	}

	entry := models.ReflectionMessage{Text: text, Date: s.now()}

	reflection, err := s.reflections.GetByUserAndSession(ctx, userID, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrReflectionNotFound) {
			return models.Reflection{}, err
		}
		reflection = models.Reflection{
			ID:          ids.New(),
			UserID:      userID,
			SessionID:   sessionID,
			Entries:     []models.ReflectionMessage{entry},
			Status:      models.ReflectionStatusPending,
			LastUpdated: s.now(),
		}
		if err := s.reflections.Create(ctx, reflection); err != nil {
			return models.Reflection{}, err
		}
		return reflection, nil
	}

	reflection.Entries = append(reflection.Entries, entry)
	reflection.Status = models.ReflectionStatusPending
	reflection.LastUpdated = s.now()
	if err := s.reflections.Save(ctx, reflection); err != nil {
		return models.Reflection{}, err
	}
	return reflection, nil
}

// ListForUser returns the user's threads, most recently active first.
func (s *ReflectionService) ListForUser(ctx context.Context, userID string) ([]models.Reflection, error) {
	return s.reflections.ListByUser(ctx, userID)
}

// ListAll returns every thread joined with user and session detail.
func (s *ReflectionService) ListAll(ctx context.Context) ([]repository.ReflectionOverview, error) {
	return s.reflections.ListAll(ctx)
}

// Reply appends a coaching reply to a thread and flips it to replied.
func (s *ReflectionService) Reply(ctx context.Context, reflectionID string, text string) (models.Reflection, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Reflection{}, ErrEmptyReflection
	}

	reflection, err := s.reflections.GetByID(ctx, reflectionID)
	if err != nil {
		return models.Reflection{}, err
	}

	reflection.Replies = append(reflection.Replies, models.ReflectionMessage{Text: text, Date: s.now()})
	reflection.Status = models.ReflectionStatusReplied
	reflection.LastUpdated = s.now()

	if err := s.reflections.Save(ctx, reflection); err != nil {
		return models.Reflection{}, err
	}
	return reflection, nil
}

// MarkViewed flips a replied thread to viewed once the user opens it.
func (s *ReflectionService) MarkViewed(ctx context.Context, userID string, reflectionID string) error {
	reflection, err := s.reflections.GetByID(ctx, reflectionID)
	if err != nil {
		return err
	}
	if reflection.UserID != userID {
		return repository.ErrReflectionNotFound
	}
	if reflection.Status != models.ReflectionStatusReplied {
		return nil
	}

	reflection.Status = models.ReflectionStatusViewed
	reflection.LastUpdated = s.now()
	return s.reflections.Save(ctx, reflection)
}
