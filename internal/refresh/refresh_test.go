package refresh

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestEnqueueRunsJob(t *testing.T) {
	r := New(4, 1)
	done := make(chan struct{})
	r.Enqueue(Job{Key: "walkability:town:fairfield:v1", Refetch: func(ctx context.Context) {
		close(done)
	}})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
}

func TestEnqueueDedupsInFlightKey(t *testing.T) {
	r := New(8, 1)

	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	r.Enqueue(Job{Key: "poi:town:fairfield:v1", Refetch: func(ctx context.Context) {
		calls.Add(1)
		close(started)
		<-release
	}})
	<-started

	// same key while the first refetch is still running
	for i := 0; i < 5; i++ {
		r.Enqueue(Job{Key: "poi:town:fairfield:v1", Refetch: func(ctx context.Context) {
			calls.Add(1)
		}})
	}
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, busy := r.inFly.Load("poi:town:fairfield:v1"); !busy {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("refetch never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}

	// the key is usable again once the first refetch finishes
	again := make(chan struct{})
	r.Enqueue(Job{Key: "poi:town:fairfield:v1", Refetch: func(ctx context.Context) {
		close(again)
	}})
	select {
	case <-again:
	case <-time.After(2 * time.Second):
		t.Fatal("key never re-enqueued after completion")
	}
}

func TestEnqueueIgnoresInvalidJobs(t *testing.T) {
	r := New(1, 1)
	r.Enqueue(Job{Key: "", Refetch: func(ctx context.Context) { t.Error("ran job with empty key") }})
	r.Enqueue(Job{Key: "census:town:fairfield:v1"})
	time.Sleep(50 * time.Millisecond)
}
