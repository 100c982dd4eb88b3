package syncer

import (
	"context"
	"log"
	"sync"
	"time"
)

// Runner invokes the reconciler on a fixed interval in the background
type Runner struct {
	reconciler *Reconciler
	interval   time.Duration
	stopChan   chan struct{}
	wg         sync.WaitGroup
}

// NewRunner creates a background sync runner
func NewRunner(reconciler *Reconciler, interval time.Duration) *Runner {
	return &Runner{
		reconciler: reconciler,
		interval:   interval,
		stopChan:   make(chan struct{}),
	}
}

// Start launches the sync loop in a goroutine
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.run(ctx)
}

// Stop stops the sync loop gracefully
func (r *Runner) Stop() {
	close(r.stopChan)
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context) {
	defer r.wg.Done()

	log.Printf("Sync runner starting (interval: %s)", r.interval)
	defer log.Printf("Sync runner stopped")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case <-ticker.C:
			if _, err := r.reconciler.Run(ctx); err != nil {
				log.Printf("[ERROR] Sync run failed: %v", err)
			}
		}
	}
}
