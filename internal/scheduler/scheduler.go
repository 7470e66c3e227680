// Package scheduler runs periodic background jobs bound to a parent context.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a unit of periodic work. The context is cancelled when the job stops.
type Task func(ctx context.Context)

// Job is a running periodic task
type Job struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	runs   int64
	mu     sync.Mutex
	logger *zap.Logger
}

// Start runs task once right away and then on every interval tick until parent is
// cancelled or Stop is called. A panicking run is logged and does not end the job.
func Start(parent context.Context, name string, interval time.Duration, task Task, logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(parent)
	j := &Job{
		name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
		logger: logger.With(zap.String("job", name)),
	}

	go j.loop(ctx, interval, task)
	return j
}

func (j *Job) loop(ctx context.Context, interval time.Duration, task Task) {
	defer close(j.done)

	j.runOnce(ctx, task)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Debug("Scheduled job stopped", zap.Int64("runs", j.Runs()))
			return
		case <-ticker.C:
			j.runOnce(ctx, task)
		}
	}
}

func (j *Job) runOnce(ctx context.Context, task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			j.logger.Error("Scheduled job panicked", zap.Any("panic", rec))
		}
	}()

	j.mu.Lock()
	j.runs++
	j.mu.Unlock()

	task(ctx)
}

// Runs reports how many times the task has been started
func (j *Job) Runs() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

// Done is closed once the job loop has exited
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Running reports whether the job loop is still active
func (j *Job) Running() bool {
	select {
	case <-j.done:
		return false
	default:
		return true
	}
}

// Stop cancels the job and waits for an in-flight run to finish. It is safe to call
// more than once.
func (j *Job) Stop() {
	j.once.Do(j.cancel)
	<-j.done
}
