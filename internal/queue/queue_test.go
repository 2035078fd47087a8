package queue

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestQueueRunsJobsInOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string

	q := &Queue{}
	record := func(name string, d time.Duration) func() error {
		return func() error {
			time.Sleep(d)
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	a := q.Push(record("a", 100*time.Millisecond))
	b := q.Push(record("b", 10*time.Millisecond))
	c := q.Push(record("c", 10*time.Millisecond))

	<-a
	<-b
	<-c

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("expected completion order a, b, c, got %v", order)
	}
}

func TestQueueJobStartsAfterPredecessor(t *testing.T) {
	q := &Queue{}
	release := make(chan struct{})
	started := make(chan struct{}, 1)

	q.Push(func() error {
		<-release
		return nil
	})
	second := q.Push(func() error {
		started <- struct{}{}
		return nil
	})

	select {
	case <-started:
		t.Fatalf("second job ran before first completed")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-second
	select {
	case <-started:
	default:
		t.Fatalf("second job never ran")
	}
}

func TestQueueFailingJobDoesNotStallChain(t *testing.T) {
	q := &Queue{}
	boom := errors.New("boom")

	first := q.Push(func() error { return boom })
	second := q.Push(func() error { return nil })

	if err := <-first; !errors.Is(err, boom) {
		t.Fatalf("expected boom from first job, got %v", err)
	}
	if err := <-second; err != nil {
		t.Fatalf("second job failed: %v", err)
	}
}

func TestQueueRecoversPanickingJob(t *testing.T) {
	q := &Queue{}

	first := q.Push(func() error { panic("kaboom") })
	second := q.Push(func() error { return nil })

	if err := <-first; err == nil {
		t.Fatalf("expected error from panicking job")
	}
	if err := <-second; err != nil {
		t.Fatalf("second job failed: %v", err)
	}
}

func TestGroupSeparatesKeys(t *testing.T) {
	g := NewGroup()
	if g.For("g1") != g.For("g1") {
		t.Fatalf("expected same queue for same key")
	}
	if g.For("g1") == g.For("g2") {
		t.Fatalf("expected distinct queues for distinct keys")
	}
}
