// internal/app/system/tasks/runner.go
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrUnknownJob is returned by RunOnce for a name that was never registered.
var ErrUnknownJob = errors.New("tasks: unknown job")

// Job is a periodic maintenance task.
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout bounds one run. Zero means the run is bounded only by Stop.
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Runner runs registered jobs on their intervals until Stop is called.
// Every job runs once right after Start.
type Runner struct {
	logger *zap.Logger
	jobs   []Job

	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu     sync.Mutex
	active map[string]time.Time // job name -> start of the run in progress
}

// New returns a Runner with no jobs.
func New(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, active: make(map[string]time.Time)}
}

// Register adds a job. Jobs registered after Start are not run.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
}

// Start launches one goroutine per registered job.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}

	r.logger.Info("maintenance jobs scheduled", zap.Int("jobs", len(r.jobs)))
}

// Stop cancels all jobs and waits for in-flight runs to return. If ctx ends
// first, the names of the runs still in progress are logged and ctx.Err()
// is returned.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	idle := make(chan struct{})
	go func() { r.wg.Wait(); close(idle) }()

	select {
	case <-idle:
		r.logger.Info("maintenance jobs stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("maintenance jobs still running at shutdown", zap.Strings("jobs", r.Running()))
		return ctx.Err()
	}
}

// Running returns the names of jobs with a run in progress, sorted.
func (r *Runner) Running() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.active))
	for name := range r.active {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunOnce executes the named job immediately, outside its schedule.
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			return r.execute(ctx, job)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownJob, name)
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	tick := time.NewTicker(job.Interval)
	defer tick.Stop()

	for {
		r.runLogged(ctx, job)
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

func (r *Runner) runLogged(ctx context.Context, job Job) {
	start := time.Now()
	err := r.execute(ctx, job)
	fields := []zap.Field{zap.String("job", job.Name), zap.Duration("took", time.Since(start))}
	switch {
	case err == nil:
		r.logger.Debug("job done", fields...)
	case ctx.Err() != nil:
		r.logger.Debug("job interrupted by shutdown", fields...)
	default:
		r.logger.Error("job failed", append(fields, zap.Error(err))...)
	}
}

func (r *Runner) execute(ctx context.Context, job Job) error {
	r.mark(job.Name, true)
	defer r.mark(job.Name, false)

	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}
	return job.Run(ctx)
}

func (r *Runner) mark(name string, running bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if running {
		r.active[name] = time.Now()
	} else {
		delete(r.active, name)
	}
}
