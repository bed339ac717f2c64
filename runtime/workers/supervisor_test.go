package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// countingWorker panics a configured number of times, then runs until its
// context is canceled.
type countingWorker struct {
	runs   atomic.Int32
	panics int32
	done   chan struct{}
}

func (w *countingWorker) Run(ctx context.Context) error {
	run := w.runs.Add(1)
	if run <= w.panics {
		panic("worker blew up")
	}
	select {
	case w.done <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return ctx.Err()
}

// oneShotWorker terminates successfully on its first run.
type oneShotWorker struct {
	runs atomic.Int32
}

func (w *oneShotWorker) Run(context.Context) error {
	w.runs.Add(1)
	return nil
}

func TestSupervisor_RestartsPanickingWorker(t *testing.T) {
	req := require.New(t)

	// Given a worker that panics twice before settling
	worker := &countingWorker{panics: 2, done: make(chan struct{}, 1)}
	sup := NewSupervisor(slog.Default(), time.Millisecond)
	sup.Add(worker)

	finished := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(finished)
	}()

	// Then it is restarted until it reaches a healthy run
	select {
	case <-worker.done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never reached a healthy run")
	}
	req.Equal(int32(3), worker.runs.Load())

	sup.Stop()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not shut down")
	}
}

func TestSupervisor_DoesNotRestartCleanTermination(t *testing.T) {
	req := require.New(t)

	worker := &oneShotWorker{}
	sup := NewSupervisor(slog.Default(), time.Millisecond)
	sup.Add(worker)

	finished := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(finished)
	}()

	// A nil error means done for good: Run returns once the worker is gone
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor kept running after a clean termination")
	}
	req.Equal(int32(1), worker.runs.Load())
}

func TestSupervisor_StopCancelsRunningWorkers(t *testing.T) {
	req := require.New(t)

	worker := &countingWorker{done: make(chan struct{}, 1)}
	sup := NewSupervisor(slog.Default(), time.Millisecond)
	sup.Add(worker)

	finished := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(finished)
	}()
	<-worker.done

	sup.Stop()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not release its workers")
	}
	req.Equal(int32(1), worker.runs.Load())
}
