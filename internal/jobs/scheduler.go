package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"lifecourse/api/internal/service"
)

type Scheduler struct {
	cron  *cron.Cron
	admin *service.AdminService
	log   zerolog.Logger
}

func NewScheduler(admin *service.AdminService, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:  c,
		admin: admin,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.pruneSpecialAccess); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish, up to 5 seconds.
func (s *Scheduler) Stop() {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

// pruneSpecialAccess sweeps lapsed grants nightly. Reads already ignore
// expired grants, so this only keeps the rows tidy.
func (s *Scheduler) pruneSpecialAccess() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pruned, err := s.admin.PruneExpiredSpecialAccess(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("special access prune failed")
		return
	}
	if pruned > 0 {
		s.log.Info().Int("users", pruned).Msg("expired special access pruned")
	}
}
