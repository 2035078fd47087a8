package queue

import (
	"fmt"
	"sync"
)

// Queue runs jobs strictly one at a time in submission order. A job's
// completion triggers the next queued job; a failing job reports its error
// to its own pusher and does not stall the chain.
type Queue struct {
	mu      sync.Mutex
	jobs    []job
	running bool
}

type job struct {
	fn   func() error
	done chan error
}

// Push enqueues fn and returns a channel that receives exactly one value,
// fn's result, once fn has run to completion.
func (q *Queue) Push(fn func() error) <-chan error {
	done := make(chan error, 1)

	q.mu.Lock()
	q.jobs = append(q.jobs, job{fn: fn, done: done})
	if !q.running {
		q.running = true
		go q.drain()
	}
	q.mu.Unlock()

	return done
}

// Do enqueues fn and blocks until it has run.
func (q *Queue) Do(fn func() error) error {
	return <-q.Push(fn)
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		next := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		next.done <- run(next.fn)
	}
}

func run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queued job panicked: %v", r)
		}
	}()
	return fn()
}

// Group hands out one Queue per resource key.
type Group struct {
	mu     sync.Mutex
	queues map[string]*Queue
}

func NewGroup() *Group {
	return &Group{queues: make(map[string]*Queue)}
}

// For returns the queue for key, creating it on first use.
func (g *Group) For(key string) *Queue {
	g.mu.Lock()
	defer g.mu.Unlock()
	queue := g.queues[key]
	if queue == nil {
		queue = &Queue{}
		g.queues[key] = queue
	}
	return queue
}
