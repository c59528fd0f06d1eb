package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Task is one recurring background job. Run is invoked on every tick of
// the task's interval; a returned error is logged and the schedule keeps
// going.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner drives registered tasks on fixed tickers. When a redis client is
// available each run takes a short-lived SETNX lock, so multiple worker
// processes never execute the same task concurrently. Without redis the
// runner still works, it just offers no cross-process exclusion.
type Runner struct {
	rdb     *redis.Client
	logger  *zap.Logger
	lockTTL time.Duration

	tasks []Task
	wg    sync.WaitGroup
}

func NewRunner(rdb *redis.Client, lockTTL time.Duration, logger *zap.Logger) *Runner {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Minute
	}
	return &Runner{
		rdb:     rdb,
		logger:  logger,
		lockTTL: lockTTL,
	}
}

func (r *Runner) Register(task Task) {
	r.tasks = append(r.tasks, task)
}

// Start launches one goroutine per registered task and returns. Tasks run
// until ctx is cancelled; Wait blocks until they have all drained.
func (r *Runner) Start(ctx context.Context) {
	for _, task := range r.tasks {
		r.wg.Add(1)
		go r.loop(ctx, task)
	}
	r.logger.Info("Job runner started", zap.Int("tasks", len(r.tasks)))
}

func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, task Task) {
	defer r.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Task loop stopped", zap.String("task", task.Name))
			return
		case <-ticker.C:
			r.runOnce(ctx, task)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, task Task) {
	acquired, release := r.acquireLock(ctx, task.Name)
	if !acquired {
		r.logger.Debug("Task lock held elsewhere, skipping run", zap.String("task", task.Name))
		return
	}
	defer release()

	start := time.Now()
	if err := task.Run(ctx); err != nil {
		r.logger.Error("Task run failed",
			zap.String("task", task.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	r.logger.Info("Task run finished",
		zap.String("task", task.Name),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// acquireLock takes the per-task redis lock. The TTL covers crashed
// holders; a successful run deletes the key so the next tick is free to
// fire on any worker.
func (r *Runner) acquireLock(ctx context.Context, name string) (bool, func()) {
	if r.rdb == nil {
		return true, func() {}
	}

	key := "jobs:lock:" + name
	ok, err := r.rdb.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), r.lockTTL).Result()
	if err != nil {
		// A broken lock store should not stall the schedule.
		r.logger.Warn("Task lock check failed, running unlocked",
			zap.String("task", name),
			zap.Error(err),
		)
		return true, func() {}
	}
	if !ok {
		return false, func() {}
	}
	return true, func() {
		r.rdb.Del(context.Background(), key)
	}
}
