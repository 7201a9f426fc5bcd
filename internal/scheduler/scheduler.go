// Package scheduler wires up the cron job that periodically runs the scrape
// pipeline in daemon mode.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// RunFunc executes one scrape cycle.
type RunFunc func(ctx context.Context) error

// Scheduler wraps robfig/cron and manages the scrape loop.
type Scheduler struct {
	cron *cron.Cron
	run  RunFunc
	spec string //cron spec, e.g. "@every 6h"

	mu      sync.Mutex
	running bool
}

// New creates a Scheduler that fires every intervalHours hours.
func New(run RunFunc, intervalHours int) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		run:  run,
		spec: fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so fresh results do not wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("⏰ Scheduler started, spec: %s", s.spec)

	//run immediately on startup (non-blocking)
	go s.runCycle(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("⏰ Scheduler stopped")
}

// runCycle executes one run, skipping the tick if the previous run is still
// going. A slow careers scrape must not stack cycles.
func (s *Scheduler) runCycle(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("⏭️ Previous cycle still running, skipping this tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Println("🔄 Scrape cycle started")
	if err := s.run(ctx); err != nil {
		log.Printf("❌ Scrape cycle error: %v", err)
		return
	}
	log.Println("🔄 Scrape cycle complete")
}
