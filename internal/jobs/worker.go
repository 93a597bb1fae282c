// Package jobs runs periodic background tasks owned by the process
// lifecycle, currently just session eviction.
package jobs

import (
	"context"
	"log"
	"time"
)

// Task is a unit of periodic background work.
type Task interface {
	Run(ctx context.Context) error
}

// Runner executes a Task on a fixed interval until stopped. Task
// errors are logged, never fatal; the next tick runs regardless.
type Runner struct {
	task     Task
	interval time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewRunner creates a Runner for the given task and interval.
func NewRunner(task Task, interval time.Duration) *Runner {
	return &Runner{
		task:     task,
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start blocks, ticking the task until the context is cancelled or
// Stop is called. Run it on its own goroutine.
func (r *Runner) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneChan)

	log.Printf("jobs: runner started, interval %v", r.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("jobs: runner stopped, context cancelled")
			return
		case <-r.stopChan:
			log.Println("jobs: runner stopped, stop signal received")
			return
		case <-ticker.C:
			if err := r.task.Run(ctx); err != nil {
				log.Printf("jobs: task error: %v", err)
			}
		}
	}
}

// Stop signals the runner and waits for the loop to exit.
func (r *Runner) Stop() {
	close(r.stopChan)
	<-r.doneChan
	log.Println("jobs: runner shutdown complete")
}
