package scheduler

import (
	"context"
	"time"

	"devscout_backend/platform/config"
	"devscout_backend/platform/logger"
)

// RunPeriodic enqueues the recurring pipeline tasks on their configured
// intervals until the context is cancelled. Intervals of zero disable the
// corresponding task.
func RunPeriodic(ctx context.Context, client *Client, cfg config.SchedulerConfig, log *logger.Logger) {
	type job struct {
		name     string
		interval time.Duration
		enqueue  func(context.Context) error
	}

	jobs := []job{
		{
			name:     TaskAcquisitionRun,
			interval: cfg.GetAcquireInterval(),
			enqueue: func(ctx context.Context) error {
				return client.EnqueueAcquisitionRun(ctx, AcquisitionRunPayload{
					StartPage: cfg.GetAcquireStartPage(),
					PageCount: cfg.GetAcquirePageCount(),
				})
			},
		},
		{
			name:     TaskQualificationRun,
			interval: cfg.GetQualifyInterval(),
			enqueue: func(ctx context.Context) error {
				return client.EnqueueQualificationRun(ctx, QualificationRunPayload{})
			},
		},
		{
			// off unless SEND_INTERVAL is set; leads still need approval
			// before anything actually goes out
			name:     TaskOutreachSend,
			interval: cfg.GetSendInterval(),
			enqueue: func(ctx context.Context) error {
				return client.EnqueueOutreachSend(ctx, OutreachSendPayload{})
			},
		},
		{
			name:     TaskInboxPoll,
			interval: cfg.GetInboxInterval(),
			enqueue:  client.EnqueueInboxPoll,
		},
	}

	for _, j := range jobs {
		if j.interval <= 0 {
			continue
		}
		go func(j job) {
			ticker := time.NewTicker(j.interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := j.enqueue(ctx); err != nil {
						log.Error("periodic enqueue failed", "task", j.name, "error", err)
					}
				}
			}
		}(j)
	}

	<-ctx.Done()
}
