package reminder

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"medilingo/internal/observability/metrics"
	"medilingo/pkg/logging"
)

// Notifier delivers a text message to a mobile number.
type Notifier interface {
	Send(ctx context.Context, to, message string) error
}

// Scheduler sends medicine and routine reminders whose time of day matches
// the current minute, at most once per reminder per day.
type Scheduler struct {
	repo     Repository
	store    SentStore
	notifier Notifier
	logger   *logging.Logger
	metrics  *metrics.Metrics
	interval time.Duration
	now      func() time.Time
}

func NewScheduler(repo Repository, store SentStore, notifier Notifier, interval time.Duration, logger *logging.Logger, m *metrics.Metrics) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil {
		store = NewMemorySentStore()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		repo:     repo,
		store:    store,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		interval: interval,
		now:      time.Now,
	}
}

// Run ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("reminder scheduler started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			if err := s.Tick(ctx, s.now()); err != nil {
				s.logger.Error("reminder tick failed", "error", err)
			}
		}
	}
}

// Tick checks medicines and routines concurrently against now.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) error {
	var g errgroup.Group
	g.Go(func() error { return s.checkMedicines(ctx, now) })
	g.Go(func() error { return s.checkRoutines(ctx, now) })
	return g.Wait()
}

func (s *Scheduler) checkMedicines(ctx context.Context, now time.Time) error {
	medicines, err := s.repo.ListActiveMedicines(ctx)
	if err != nil {
		return err
	}
	current := now.Format("15:04")
	for _, m := range medicines {
		if clock(m.Time) != current {
			continue
		}
		s.deliver(ctx, KindMedicine, Key(KindMedicine, m.ID, now), m.MobileNumber, MedicineMessage(m), m.Username)
	}
	return nil
}

func (s *Scheduler) checkRoutines(ctx context.Context, now time.Time) error {
	routines, err := s.repo.ListActiveRoutines(ctx)
	if err != nil {
		return err
	}
	current := now.Format("15:04")
	for _, r := range routines {
		if clock(r.Time) != current {
			continue
		}
		s.deliver(ctx, KindRoutine, Key(KindRoutine, r.ID, now), r.MobileNumber, RoutineMessage(r), r.Username)
	}
	return nil
}

func (s *Scheduler) deliver(ctx context.Context, kind Kind, key, to, message, username string) {
	claimed, err := s.store.Claim(ctx, key)
	if err != nil {
		s.logger.Warn("reminder claim failed", "key", key, "error", err)
		return
	}
	if !claimed {
		return
	}

	if err := s.notifier.Send(ctx, to, message); err != nil {
		s.metrics.ObserveReminder(string(kind), false)
		s.logger.Warn("reminder send failed", "kind", kind, "key", key, "user", username, "error", err)
		// Released so the next tick within the same minute retries.
		if err := s.store.Release(ctx, key); err != nil {
			s.logger.Warn("reminder release failed", "key", key, "error", err)
		}
		return
	}
	s.metrics.ObserveReminder(string(kind), true)
	s.logger.Info("reminder sent", "kind", kind, "key", key, "user", username)
}
