package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunOnceCountsFailures(t *testing.T) {
	s := NewScheduler(nil)
	var ran atomic.Int32

	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})
	s.AddJob("broken", time.Hour, func(ctx context.Context) error {
		ran.Add(1)
		return errors.New("boom")
	})

	failed := s.RunOnce(context.Background())
	assert.Equal(t, 1, failed)
	assert.Equal(t, int32(2), ran.Load())
}

func TestStartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(nil)
	done := make(chan struct{}, 1)

	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	s := NewScheduler(nil)
	assert.NotPanics(t, s.Stop)
}
