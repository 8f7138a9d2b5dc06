package services

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically rejects expired pending events. It is an explicit
// component with its own start/stop lifecycle so tests can trigger a sweep
// directly instead of waiting on the timer.
type Sweeper struct {
	events   *EventService
	interval time.Duration
}

// NewSweeper creates a sweeper with the given interval. Intervals below one
// second fall back to the ten-minute default.
func NewSweeper(events *EventService, interval time.Duration) *Sweeper {
	if interval < time.Second {
		interval = 10 * time.Minute
	}
	return &Sweeper{events: events, interval: interval}
}

// Start runs one sweep immediately, then sweeps on every tick until the
// context is cancelled. A failed tick is logged and does not stop the loop:
// un-swept events remain pending, so the next tick retries them naturally.
func (s *Sweeper) Start(ctx context.Context) {
	log.Printf("Auto-reject sweeper started (interval %s)", s.interval)

	s.runOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Auto-reject sweeper stopped")
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Sweeper) runOnce() {
	count, err := s.events.SweepExpired(time.Now())
	if err != nil {
		log.Printf("Auto-reject sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Auto-reject: rejected %d pending event(s) past their date", count)
	}
}
