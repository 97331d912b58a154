package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/ecoquest/quest-engine/internal/domain/environment"
	"github.com/ecoquest/quest-engine/internal/domain/quest"
	"github.com/ecoquest/quest-engine/internal/infra/config"
)

// Scheduler periodically runs quest generation for subscribed users and
// sweeps expired quests.
type Scheduler struct {
	scheduler *gocron.Scheduler
	quests    quest.Service
	cfg       config.SchedulerConfig
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(cfg config.SchedulerConfig, quests quest.Service, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		quests:    quests,
		cfg:       cfg,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start schedules the periodic jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return nil
	}

	if len(s.cfg.Subscriptions) > 0 {
		if _, err := s.scheduler.Every(s.cfg.Interval).Do(s.runGeneration); err != nil {
			return err
		}
	} else {
		s.logger.Info("no subscriptions configured; skipping generation job")
	}

	if s.cfg.SweepInterval > 0 {
		if _, err := s.scheduler.Every(s.cfg.SweepInterval).Do(s.runSweep); err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) runGeneration() {
	s.logger.Info("running scheduled quest generation", "subscriptions", len(s.cfg.Subscriptions))

	var wg sync.WaitGroup
	for _, sub := range s.cfg.Subscriptions {
		wg.Add(1)
		go func(sub config.Subscription) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			loc := environment.Location{City: sub.City, Country: sub.Country, Lat: sub.Lat, Lon: sub.Lon}
			if _, err := s.quests.Generate(ctx, sub.UserID, loc); err != nil {
				s.logger.Warn("scheduled generation failed", "userId", sub.UserID, "location", loc.Key(), "error", err)
			}
		}(sub)
	}
	wg.Wait()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.quests.SweepExpired(ctx); err != nil {
		s.logger.Warn("expiry sweep failed", "error", err)
	}
}
