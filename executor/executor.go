package executor

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Task is a submitted unit of work. It returns no result and carries no
// context; the pool is fire-and-forget.
type Task func()

// Logger is the external logging collaborator a task-execution failure is
// reported through. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

type poolState int32

const (
	stateRunning poolState = iota
	stateStopping
	stateStopped
)

// Options configures an Executor. All fields are immutable once passed to
// New.
type Options struct {
	// Low is the floor worker count: these workers never retire on idle.
	Low int
	// High is the ceiling worker count.
	High int
	// MaxQueue is the maximum number of pending tasks once the pool is
	// saturated at High workers.
	MaxQueue int
	// IdleTimeout is how long a worker above Low waits on an empty queue
	// before retiring.
	IdleTimeout time.Duration
	// Logger receives a line when a task panics. Defaults to log.Default().
	Logger Logger
}

// Executor is a bounded, elastic worker pool. See the package doc for the
// concurrency design.
type Executor struct {
	mu      sync.Mutex
	work    *sync.Cond // signaled: task enqueued, or state changed
	drained *sync.Cond // signaled: workersTotal reached 0

	queue []Task

	low, high, maxQueue int
	idle                time.Duration
	logger              Logger

	workersTotal int
	workersBusy  int
	state        poolState
}

// New constructs an Executor and starts Low workers before returning;
// WorkersTotal counts them as soon as New returns. New does not wait for
// those workers to reach their first wait. Returns an error for invalid watermarks (0 < Low <= High) or a
// negative MaxQueue.
func New(opt Options) (*Executor, error) {
	if opt.Low <= 0 {
		return nil, fmt.Errorf("executor: low watermark must be > 0, got %d", opt.Low)
	}
	if opt.High < opt.Low {
		return nil, fmt.Errorf("executor: high watermark (%d) must be >= low (%d)", opt.High, opt.Low)
	}
	if opt.MaxQueue < 0 {
		return nil, fmt.Errorf("executor: max queue size must be >= 0, got %d", opt.MaxQueue)
	}
	if opt.Logger == nil {
		opt.Logger = log.Default()
	}

	e := &Executor{
		low:      opt.Low,
		high:     opt.High,
		maxQueue: opt.MaxQueue,
		idle:     opt.IdleTimeout,
		logger:   opt.Logger,
	}
	e.work = sync.NewCond(&e.mu)
	e.drained = sync.NewCond(&e.mu)

	e.mu.Lock()
	for i := 0; i < opt.Low; i++ {
		e.spawnLocked()
	}
	e.mu.Unlock()

	return e, nil
}

// Submit enqueues task if the pool can accept it. It never blocks on
// anything but the pool mutex.
//
// Rejected (false) when the pool is not Running, or when it is saturated:
// workers_total == high AND the queue is already at max_queue. Otherwise
// task is enqueued at the tail; if every existing worker is currently busy
// and the pool is below High, one additional worker is spawned before
// returning, and one waiter is woken.
func (e *Executor) Submit(task Task) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateRunning {
		return false
	}
	if e.workersTotal == e.high && len(e.queue) == e.maxQueue {
		return false
	}

	e.queue = append(e.queue, task)

	if e.workersBusy == e.workersTotal && e.workersTotal < e.high {
		e.spawnLocked()
	}
	e.work.Signal()
	return true
}

// Stop transitions the pool from Running to Stopping: no further Submit
// will be accepted, but tasks already queued are drained by the remaining
// workers. If await is true, Stop blocks until every worker has exited and
// only then marks the pool Stopped. If await is false, Stop returns
// immediately and the pool finishes stopping in the background — callers
// that intend to tear the pool down must eventually call Stop(true) (or
// Close), never rely on an unawaited Stop to have fully drained.
func (e *Executor) Stop(await bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == stateRunning {
		e.state = stateStopping
		e.work.Broadcast()
	}

	if await {
		for e.workersTotal > 0 {
			e.drained.Wait()
		}
		e.state = stateStopped
	}
}

// Close is the pool's destructor: it performs Stop(await=true). Safe to
// call on an already-stopped pool.
func (e *Executor) Close() error {
	e.Stop(true)
	return nil
}

// spawnLocked starts one worker goroutine. Caller must hold e.mu.
func (e *Executor) spawnLocked() {
	e.workersTotal++
	go e.worker()
}

// worker is the body every pool goroutine runs: wait for work or a state
// change, execute at most one task per wakeup, and retire once idle past
// the timeout or once there's nothing left to drain.
func (e *Executor) worker() {
	e.mu.Lock()
	for {
		e.waitForWorkLocked()

		if len(e.queue) == 0 {
			// Either genuinely idle past the timeout (only possible for a
			// worker above low) or the pool is no longer Running and there
			// is nothing left to drain. Either way, this worker retires.
			e.retireLocked()
			e.mu.Unlock()
			return
		}

		task := e.queue[0]
		e.queue = e.queue[1:]
		e.workersBusy++
		e.mu.Unlock()

		e.runTask(task)

		e.mu.Lock()
		e.workersBusy--
	}
}

// waitForWorkLocked blocks (mu held) until the queue is non-empty or the
// pool's state leaves Running. Workers above low wait with an idle
// deadline; if it elapses with nothing to do, the loop exits with the
// queue still empty and state still Running, and the caller retires this
// worker. Workers at or below low wait indefinitely and never time out.
// Caller must hold e.mu; it is held again on return.
func (e *Executor) waitForWorkLocked() {
	for len(e.queue) == 0 && e.state == stateRunning {
		if e.workersTotal <= e.low {
			e.work.Wait()
			continue
		}

		deadline := time.Now().Add(e.idle)
		timer := time.AfterFunc(e.idle, func() {
			e.mu.Lock()
			e.work.Broadcast()
			e.mu.Unlock()
		})
		e.work.Wait()
		timer.Stop()

		// Recheck workersTotal > low here, not just on entry: concurrent
		// retirements of other surplus workers may have already brought
		// the pool back down to low while this worker was waiting, in
		// which case it must not also retire (that would undershoot low).
		if len(e.queue) == 0 && e.state == stateRunning &&
			e.workersTotal > e.low && !time.Now().Before(deadline) {
			return
		}
	}
}

// retireLocked decrements workersTotal and, if this was the last worker,
// wakes anyone blocked in Stop(await=true). Caller must hold e.mu.
func (e *Executor) retireLocked() {
	e.workersTotal--
	if e.workersTotal == 0 {
		e.drained.Broadcast()
	}
}

// runTask executes task with panic isolation: a task that fails must not
// take its worker down with it.
func (e *Executor) runTask(task Task) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Printf("executor: task panicked: %v", r)
		}
	}()
	task()
}

// WorkersTotal returns the current worker population. Intended for tests
// and diagnostics.
func (e *Executor) WorkersTotal() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workersTotal
}

// WorkersBusy returns the count of workers currently executing a task.
// Intended for tests and diagnostics.
func (e *Executor) WorkersBusy() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workersBusy
}

// QueueLen returns the number of pending tasks. Intended for tests and
// diagnostics.
func (e *Executor) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}
