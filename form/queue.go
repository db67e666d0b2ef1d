package form

import "sync"

// Scheduler runs tasks after the event currently being handled has completed.
type Scheduler interface {
	Defer(task func())
}

// SchedulerFunc adapts a function into a Scheduler.
type SchedulerFunc func(task func())

// Defer implements Scheduler.
func (f SchedulerFunc) Defer(task func()) {
	f(task)
}

// Queue is a FIFO of deferred tasks. Defer may be called from any goroutine;
// Drain must only be called from the goroutine that owns the form.
type Queue struct {
	mu     sync.Mutex
	tasks  []func()
	ready  chan struct{}
	done   chan struct{}
	closed bool
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Defer appends task to the queue. Tasks deferred after Close are dropped.
func (q *Queue) Defer(task func()) {
	if task == nil {
		return
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled whenever tasks are waiting to be drained.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Done is closed once the queue has been closed.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// RunPending runs the tasks that were queued before the call and returns how many ran.
// Tasks deferred by those tasks stay queued for the next round.
func (q *Queue) RunPending() int {
	q.mu.Lock()
	batch := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, task := range batch {
		task()
	}
	return len(batch)
}

// Drain runs rounds of pending tasks until the queue is empty.
func (q *Queue) Drain() int {
	total := 0
	for {
		n := q.RunPending()
		if n == 0 {
			return total
		}
		total += n
	}
}

// Close drops pending tasks and releases waiters on Done.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.tasks = nil
	close(q.done)
}
