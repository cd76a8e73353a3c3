// Package scheduler runs the periodic background jobs of the server:
// pulling the remote sheet and evicting expired report cache entries.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"gastos/internal/cache"
	applog "gastos/internal/log"
	"gastos/internal/services"
)

// JanitorSchedule evicts expired cache entries every five minutes.
const JanitorSchedule = "*/5 * * * *"

// Syncer is the part of the ledger the sync job needs.
type Syncer interface {
	SyncDown(ctx context.Context) services.SyncOutcome
}

type Scheduler struct {
	cron         *cron.Cron
	syncer       Syncer
	syncSchedule string
	cleaner      cache.Cleaner
	timeout      time.Duration
	logger       *slog.Logger
}

// New creates a scheduler. An empty syncSchedule disables the sync job and
// a nil cleaner disables the janitor.
func New(syncer Syncer, syncSchedule string, cleaner cache.Cleaner, timeout time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:         c,
		syncer:       syncer,
		syncSchedule: syncSchedule,
		cleaner:      cleaner,
		timeout:      timeout,
		logger:       logger,
	}
}

// Start registers the enabled jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.syncSchedule != "" && s.syncer != nil {
		if _, err := s.cron.AddFunc(s.syncSchedule, s.syncDown); err != nil {
			return err
		}
	}
	if s.cleaner != nil {
		if _, err := s.cron.AddFunc(JanitorSchedule, s.cleanCache); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop stops scheduling; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// RunNow triggers a sync down outside the schedule.
func (s *Scheduler) RunNow() {
	go s.syncDown()
}

func (s *Scheduler) syncDown() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	out := s.syncer.SyncDown(ctx)
	if out.Err != nil {
		s.logger.Warn("scheduled sync down failed",
			slog.String(applog.FieldOperation, applog.OpSync),
			slog.String(applog.FieldSyncStatus, string(out.Status)),
			slog.Any(applog.FieldError, out.Err),
		)
		return
	}
	s.logger.Info("scheduled sync down completed",
		slog.String(applog.FieldOperation, applog.OpSync),
		slog.String(applog.FieldSyncStatus, string(out.Status)),
		slog.Int(applog.FieldRecords, out.Records),
	)
}

func (s *Scheduler) cleanCache() {
	if n := s.cleaner.CleanExpired(); n > 0 {
		s.logger.Debug("evicted expired report cache entries", slog.Int("evicted", n))
	}
}
