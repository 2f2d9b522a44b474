package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/weatherdesk/weatherdesk/internal/dashboard"
)

// Scheduler optionally reruns the analysis cycle for a fixed set of cities.
// Cities are processed serially inside one job, preserving the
// one-cycle-at-a-time model.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *dashboard.Service
	cities    []string
	interval  time.Duration
	timeout   time.Duration
}

// New creates a Scheduler. timeout bounds each per-city cycle.
func New(cities []string, interval, timeout time.Duration, service *dashboard.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		cities:    cities,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the periodic refresh job. With no cities or a zero
// interval there is nothing to do.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 || s.interval <= 0 {
		log.Println("INFO: scheduler: auto-refresh not configured; skipping")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		log.Println("INFO: scheduler: running refresh job")

		for _, city := range s.cities {
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			if _, err := s.service.Analyze(ctx, city); err != nil {
				log.Printf("ERROR: scheduler: refresh failed for %q: %v", city, err)
			}
			cancel()
		}

		log.Println("INFO: scheduler: refresh job complete")
	})
	if err != nil {
		return err
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
