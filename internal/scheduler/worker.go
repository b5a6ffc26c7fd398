package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"devscout_backend/internal/inbox"
	"devscout_backend/internal/leads/acquisition"
	"devscout_backend/internal/leads/outreach"
	"devscout_backend/internal/leads/qualification"
	"devscout_backend/platform/config"
	"devscout_backend/platform/logger"
)

type Worker struct {
	server        *asynq.Server
	mux           *asynq.ServeMux
	acquisition   *acquisition.Service
	qualification *qualification.Service
	outreach      *outreach.Service
	watcher       *inbox.Watcher
	log           *logger.Logger
}

// NewWorker builds the asynq worker. qualification and watcher may be nil
// when scoring or IMAP are not configured; their tasks then no-op.
func NewWorker(cfg config.SchedulerConfig, acq *acquisition.Service, qual *qualification.Service,
	out *outreach.Service, watcher *inbox.Watcher, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:        server,
		mux:           mux,
		acquisition:   acq,
		qualification: qual,
		outreach:      out,
		watcher:       watcher,
		log:           log,
	}

	mux.HandleFunc(TaskAcquisitionRun, w.handleAcquisitionRun)
	mux.HandleFunc(TaskQualificationRun, w.handleQualificationRun)
	mux.HandleFunc(TaskOutreachSend, w.handleOutreachSend)
	mux.HandleFunc(TaskInboxPoll, w.handleInboxPoll)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleAcquisitionRun(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAcquisitionRunPayload(task)
	if err != nil {
		return err
	}
	if payload.StartPage < 1 {
		payload.StartPage = 1
	}
	if payload.PageCount < 1 {
		payload.PageCount = 1
	}

	result, err := w.acquisition.Run(ctx, payload.StartPage, payload.PageCount)
	if err != nil {
		return err
	}
	w.log.Info("scheduled acquisition run",
		"pages", result.PagesFetched, "found", result.LeadsFound, "added", result.LeadsAdded)
	return nil
}

func (w *Worker) handleQualificationRun(ctx context.Context, task *asynq.Task) error {
	if w.qualification == nil {
		return nil
	}

	payload, err := ParseQualificationRunPayload(task)
	if err != nil {
		return err
	}
	if payload.Limit < 1 {
		payload.Limit = 20
	}

	result, err := w.qualification.ScoreBatch(ctx, payload.Limit)
	if err != nil {
		return err
	}
	w.log.Info("scheduled qualification run",
		"analyzed", result.AnalyzedCount, "auto_approved", result.AutoApprovedCount)
	return nil
}

func (w *Worker) handleOutreachSend(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseOutreachSendPayload(task)
	if err != nil {
		return err
	}
	if payload.Limit < 1 {
		payload.Limit = 25
	}

	result, err := w.outreach.SendBatch(ctx, payload.Limit, payload.DryRun)
	if err != nil {
		return err
	}
	w.log.Info("scheduled outreach run",
		"dry_run", result.DryRun, "sent", result.SentCount, "skipped", result.SkippedCount)
	return nil
}

func (w *Worker) handleInboxPoll(ctx context.Context, _ *asynq.Task) error {
	if w.watcher == nil {
		return nil
	}

	result, err := w.watcher.Poll(ctx)
	if err != nil {
		return err
	}
	if result.LeadsMatched > 0 {
		w.log.Info("inbox poll matched replies", "matched", result.LeadsMatched)
	}
	return nil
}
