package queue

import (
	"context"
	"encoding/json"
	"time"

	"realite-api/core/config"
	"realite-api/core/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names. Handlers are registered by the owning modules through
// RegisterHandler.
const (
	TaskSmartMeetingAdvance = "smartmeeting:advance"
	TaskSmartMeetingSweep   = "smartmeeting:sweep"
	TaskCalendarSync        = "calendar:sync"
)

type AdvancePayload struct {
	PlanID uuid.UUID `json:"plan_id"`
}

type SyncPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Force  bool      `json:"force"`
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Client enqueues background tasks.
type Client struct {
	inner *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{inner: asynq.NewClient(redisOpt(cfg))}
}

func (c *Client) Close() error {
	return c.inner.Close()
}

// EnqueueAdvance schedules a negotiation step for the plan. A zero delay runs
// it as soon as a worker is free. Redundant enqueues are safe: Advance is
// idempotent per observed plan state.
func (c *Client) EnqueueAdvance(ctx context.Context, planID uuid.UUID, delay time.Duration) error {
	payload, err := json.Marshal(AdvancePayload{PlanID: planID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskSmartMeetingAdvance, payload)
	_, err = c.inner.EnqueueContext(ctx, task, asynq.ProcessIn(delay), asynq.MaxRetry(3))
	if err != nil {
		logger.Error("Queue:EnqueueAdvance:Error", "plan_id", planID, "error", err)
		return err
	}

	logger.Info("Queue:EnqueueAdvance:Success", "plan_id", planID, "delay", delay)
	return nil
}

// EnqueueSync schedules a background calendar refresh for the user.
func (c *Client) EnqueueSync(ctx context.Context, userID uuid.UUID, force bool) error {
	payload, err := json.Marshal(SyncPayload{UserID: userID, Force: force})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskCalendarSync, payload)
	_, err = c.inner.EnqueueContext(ctx, task, asynq.MaxRetry(1))
	if err != nil {
		logger.Error("Queue:EnqueueSync:Error", "user_id", userID, "error", err)
		return err
	}
	return nil
}

// Worker runs the asynq server plus the periodic scheduler entries.
type Worker struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

func NewWorker(cfg config.RedisConfig) *Worker {
	opt := redisOpt(cfg)

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{})

	return &Worker{
		srv:       srv,
		scheduler: scheduler,
		mux:       asynq.NewServeMux(),
	}
}

// RegisterHandler binds a task type to its handler.
func (w *Worker) RegisterHandler(taskType string, handler func(context.Context, *asynq.Task) error) {
	w.mux.HandleFunc(taskType, handler)
}

// RegisterPeriodic adds a cron-spec scheduler entry emitting the given task.
func (w *Worker) RegisterPeriodic(cronSpec, taskType string) error {
	_, err := w.scheduler.Register(cronSpec, asynq.NewTask(taskType, nil))
	if err != nil {
		logger.Error("Queue:RegisterPeriodic:Error", "task", taskType, "cron", cronSpec, "error", err)
	}
	return err
}

// Start runs worker and scheduler in background goroutines.
func (w *Worker) Start() {
	go func() {
		if err := w.srv.Run(w.mux); err != nil {
			logger.Error("Queue:Worker:Run:Error", err)
		}
	}()
	go func() {
		if err := w.scheduler.Run(); err != nil {
			logger.Error("Queue:Scheduler:Run:Error", err)
		}
	}()
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.srv.Shutdown()
}
