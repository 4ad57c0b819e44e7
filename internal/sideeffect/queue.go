package sideeffect

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TaskType  = "side_effect:run"
	QueueName = "side_effects"
	maxRetry  = 3
)

// Queue hands jobs to asynq so they are retried off the request path. If a
// job cannot be enqueued it runs inline instead.
type Queue struct {
	client   *asynq.Client
	fallback *Inline
	timeout  time.Duration
	log      *zap.Logger
}

func NewQueue(client *asynq.Client, fallback *Inline, timeout time.Duration, log *zap.Logger) *Queue {
	return &Queue{client: client, fallback: fallback, timeout: timeout, log: log}
}

func (q *Queue) Dispatch(ctx context.Context, jobs ...Job) {
	for _, job := range jobs {
		task, err := NewTask(job)
		if err == nil {
			_, err = q.client.EnqueueContext(ctx, task,
				asynq.Queue(QueueName),
				asynq.MaxRetry(maxRetry),
				asynq.Timeout(q.timeout),
			)
		}
		if err != nil {
			q.log.Warn("side effect enqueue failed, running inline",
				zap.String("kind", string(job.Kind)),
				zap.Error(err),
			)
			q.fallback.run(ctx, job)
		}
	}
}

func NewTask(job Job) (*asynq.Task, error) {
	b, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskType, b), nil
}

// HandleTask runs a queued job. Undecodable payloads are not retried.
func HandleTask(runner *Runner, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var job Job
		if err := json.Unmarshal(t.Payload(), &job); err != nil {
			log.Error("invalid side effect payload", zap.Error(err))
			return fmt.Errorf("decode side effect: %v: %w", err, asynq.SkipRetry)
		}
		if err := runner.Run(ctx, job); err != nil {
			log.Warn("queued side effect failed",
				zap.String("kind", string(job.Kind)),
				zap.Int64("booking_id", job.BookingID),
				zap.Error(err),
			)
			return err
		}
		return nil
	}
}

type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewWorker(redis asynq.RedisConnOpt, runner *Runner, concurrency int, log *zap.Logger) *Worker {
	srv := asynq.NewServer(redis, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueName: 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskType, HandleTask(runner, log))
	return &Worker{srv: srv, mux: mux}
}

// Run blocks until the process receives a termination signal.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}
