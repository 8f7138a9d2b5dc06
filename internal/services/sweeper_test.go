package services

import (
	"context"
	"testing"
	"time"

	"eventflow/internal/models"
)

func TestNewSweeperDefaultsTinyIntervals(t *testing.T) {
	service := newTestEventService(newMockEventRepository())

	sweeper := NewSweeper(service, 0)
	if sweeper.interval != 10*time.Minute {
		t.Errorf("Expected 10m default interval, got %s", sweeper.interval)
	}

	sweeper = NewSweeper(service, 5*time.Second)
	if sweeper.interval != 5*time.Second {
		t.Errorf("Expected configured interval to be kept, got %s", sweeper.interval)
	}
}

func TestSweeperRunsOnceOnStart(t *testing.T) {
	repo := newMockEventRepository()
	service := newTestEventService(repo)

	expired, err := repo.Create(&models.Event{
		Title: "Stale", Date: time.Now().AddDate(0, 0, -2),
		OrganizerID: 7, Status: models.StatusPending,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A pre-cancelled context still gets the immediate sweep; Start returns
	// as soon as it reaches the ticker loop.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		NewSweeper(service, time.Hour).Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Sweeper did not stop after context cancellation")
	}

	if repo.events[expired.ID].Status != models.StatusRejected {
		t.Errorf("Expected expired event to be rejected on startup sweep, got %s", repo.events[expired.ID].Status)
	}
}
