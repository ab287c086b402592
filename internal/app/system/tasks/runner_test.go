package tasks_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/stratahandbook/internal/app/system/tasks"
	"go.uber.org/zap"
)

func TestRunner_RunsOnStartAndOnInterval(t *testing.T) {
	runner := tasks.New(zap.NewNop())

	var a, b atomic.Int32
	runner.Register(tasks.Job{Name: "a", Interval: 20 * time.Millisecond, Run: func(context.Context) error { a.Add(1); return nil }})
	runner.Register(tasks.Job{Name: "b", Interval: time.Hour, Run: func(context.Context) error { b.Add(1); return nil }})

	runner.Start()
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := runner.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if a.Load() < 2 {
		t.Errorf("job a ran %d times, want at least 2", a.Load())
	}
	if b.Load() != 1 {
		t.Errorf("job b ran %d times, want exactly 1 (start only)", b.Load())
	}
}

func TestRunner_StopCancelsJobContext(t *testing.T) {
	runner := tasks.New(zap.NewNop())

	waiting := make(chan struct{})
	cancelled := make(chan struct{})
	runner.Register(tasks.Job{
		Name:     "waits",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			close(waiting)
			<-ctx.Done()
			close(cancelled)
			return ctx.Err()
		},
	})

	runner.Start()
	<-waiting

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := runner.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Error("job context was not cancelled")
	}
}

func TestRunner_StopTimesOut(t *testing.T) {
	runner := tasks.New(zap.NewNop())

	inRun := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	runner.Register(tasks.Job{
		Name:     "stubborn",
		Interval: time.Hour,
		Run: func(context.Context) error {
			close(inRun)
			<-release // ignores ctx
			return nil
		},
	})

	runner.Start()
	<-inRun

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := runner.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Stop() error = %v, want DeadlineExceeded", err)
	}
	if got := runner.Running(); len(got) != 1 || got[0] != "stubborn" {
		t.Errorf("Running() = %v, want [stubborn]", got)
	}
}

func TestRunner_JobTimeout(t *testing.T) {
	runner := tasks.New(zap.NewNop())
	runner.Register(tasks.Job{
		Name:     "slow",
		Interval: time.Hour,
		Timeout:  10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	})

	err := runner.RunOnce(context.Background(), "slow")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("RunOnce() error = %v, want DeadlineExceeded", err)
	}
}

func TestRunner_RunOnce(t *testing.T) {
	runner := tasks.New(zap.NewNop())

	var n atomic.Int32
	runner.Register(tasks.Job{Name: "manual", Interval: time.Hour, Run: func(context.Context) error { n.Add(1); return nil }})

	if err := runner.RunOnce(context.Background(), "manual"); err != nil {
		t.Errorf("RunOnce() error = %v", err)
	}
	if n.Load() != 1 {
		t.Errorf("ran %d times, want 1", n.Load())
	}

	if err := runner.RunOnce(context.Background(), "missing"); !errors.Is(err, tasks.ErrUnknownJob) {
		t.Errorf("RunOnce(missing) error = %v, want ErrUnknownJob", err)
	}
}
