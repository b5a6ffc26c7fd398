package scheduler

import (
	"context"
	"testing"
	"time"

	"devscout_backend/platform/logger"
)

type schedulerConfig struct {
	send time.Duration
}

func (c schedulerConfig) GetRedisURL() string               { return "" }
func (c schedulerConfig) GetRedisTLSInsecure() bool         { return false }
func (c schedulerConfig) GetAsynqQueueName() string         { return "default" }
func (c schedulerConfig) GetAsynqConcurrency() int          { return 1 }
func (c schedulerConfig) GetAcquireInterval() time.Duration { return 0 }
func (c schedulerConfig) GetQualifyInterval() time.Duration { return 0 }
func (c schedulerConfig) GetSendInterval() time.Duration    { return c.send }
func (c schedulerConfig) GetInboxInterval() time.Duration   { return 0 }
func (c schedulerConfig) GetAcquireStartPage() int          { return 1 }
func (c schedulerConfig) GetAcquirePageCount() int          { return 1 }

// The send ticker is opt-in; when enabled it must keep firing through the
// nil-safe client and stop cleanly on cancellation.
func TestRunPeriodicSendJobStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunPeriodic(ctx, nil, schedulerConfig{send: 5 * time.Millisecond}, logger.New("development"))
		close(done)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunPeriodic did not stop after cancellation")
	}
}
