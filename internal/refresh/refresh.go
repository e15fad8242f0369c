package refresh

import (
	"context"
	"sync"
	"time"
)

// Job refetches one cache entry. Key is used only for in-flight dedup, so
// enqueueing the same entry twice while a refetch is running is a no-op.
type Job struct {
	Key     string
	Refetch func(ctx context.Context)
}

// Refresher runs background refetches of near-expiry cache entries. It never
// blocks callers: jobs are dropped when the queue is saturated.
type Refresher struct {
	ch    chan Job
	inFly sync.Map // key -> struct{}
}

func New(capacity int, workerCount int) *Refresher {
	if capacity <= 0 {
		capacity = 256
	}
	if workerCount <= 0 {
		workerCount = 2
	}
	r := &Refresher{ch: make(chan Job, capacity)}
	for i := 0; i < workerCount; i++ {
		go r.worker()
	}
	return r
}

func (r *Refresher) Enqueue(j Job) {
	if j.Refetch == nil || j.Key == "" {
		return
	}
	if _, exists := r.inFly.LoadOrStore(j.Key, struct{}{}); exists {
		return
	}
	select {
	case r.ch <- j:
	default:
		// drop if saturated
		r.inFly.Delete(j.Key)
	}
}

func (r *Refresher) worker() {
	for j := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		func() {
			defer func() {
				r.inFly.Delete(j.Key)
				cancel()
			}()
			j.Refetch(ctx)
		}()
	}
}
