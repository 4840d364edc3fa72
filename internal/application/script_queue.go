package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/ht101996/tomahawk/internal/ports"
)

const DefaultCommandTimeout = 5 * time.Second

var errQueueRunning = errors.New("script command queue is already running")

// ScriptCommandQueue runs script commands one at a time in FIFO order.
// Each command gets a deadline measured from its activation; a command
// that misses it is failed and dropped so the next one can start.
type ScriptCommandQueue struct {
	clock   ports.Clock
	logger  *log.Logger
	timeout time.Duration

	events  *mailbox[func()]
	running atomic.Bool
	length  atomic.Int64

	stopMu  sync.Mutex
	stopped bool

	observerMu sync.Mutex
	observer   func(ScriptCommand, domain.CommandState)

	// owned by Run
	ctx        context.Context
	commands   []ScriptCommand
	active     ScriptCommand
	cancel     context.CancelFunc
	timer      ports.Timer
	generation uint64
	closing    bool
}

func NewScriptCommandQueue(clock ports.Clock, logger *log.Logger, timeout time.Duration) *ScriptCommandQueue {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	return &ScriptCommandQueue{
		clock:   clock,
		logger:  logger,
		timeout: timeout,
		events:  newMailbox[func()](),
		ctx:     context.Background(),
	}
}

// Enqueue appends cmd to the queue. A queue that has stopped fails the
// command straight away with ErrQueueStopped.
func (q *ScriptCommandQueue) Enqueue(cmd ScriptCommand) {
	q.stopMu.Lock()
	defer q.stopMu.Unlock()

	if q.stopped {
		cmd.ReportFailure(domain.ErrQueueStopped)
		return
	}
	q.events.post(func() { q.enqueue(cmd) })
}

// Len is the number of commands waiting or running, as last seen by the
// owner loop.
func (q *ScriptCommandQueue) Len() int {
	return int(q.length.Load())
}

// OnStateChange sets fn to be told about every command state change. fn
// runs on the owner loop and must not block.
func (q *ScriptCommandQueue) OnStateChange(fn func(ScriptCommand, domain.CommandState)) {
	q.observerMu.Lock()
	defer q.observerMu.Unlock()
	q.observer = fn
}

// Run processes commands until ctx is done. Commands still queued at that
// point are failed with ErrQueueStopped.
func (q *ScriptCommandQueue) Run(ctx context.Context) error {
	if !q.running.CompareAndSwap(false, true) {
		return errQueueRunning
	}

	q.ctx = ctx
	for {
		select {
		case <-ctx.Done():
			q.shutdown()
			return nil
		case <-q.events.ready():
			q.drain()
		}
	}
}

func (q *ScriptCommandQueue) drain() {
	for _, event := range q.events.take() {
		event()
	}
}

func (q *ScriptCommandQueue) enqueue(cmd ScriptCommand) {
	q.commands = append(q.commands, cmd)
	q.length.Store(int64(len(q.commands)))
	q.setState(cmd, domain.CommandEnqueued)

	if len(q.commands) == 1 {
		q.activate()
	}
}

func (q *ScriptCommandQueue) activate() {
	if q.closing || q.active != nil || len(q.commands) == 0 {
		return
	}

	cmd := q.commands[0]
	q.generation++
	generation := q.generation

	ctx, cancel := context.WithCancel(q.ctx)
	q.active = cmd
	q.cancel = cancel
	q.timer = q.clock.AfterFunc(q.timeout, func() {
		q.events.post(func() { q.timedOut(generation) })
	})

	q.logger.Debug("activating script command", "command", cmd.Name(), "queued", len(q.commands)-1)
	q.setState(cmd, domain.CommandRunning)

	var once sync.Once
	cmd.Exec(ctx, func(err error) {
		once.Do(func() {
			q.events.post(func() { q.completed(generation, err) })
		})
	})
}

func (q *ScriptCommandQueue) completed(generation uint64, err error) {
	cmd := q.finish(generation)
	if cmd == nil {
		q.logger.Debug("ignoring late script command completion", "generation", generation)
		return
	}

	if err != nil {
		q.logger.Warn("script command failed", "command", cmd.Name(), "err", err)
		cmd.ReportFailure(err)
		q.setState(cmd, domain.CommandFailed)
	} else {
		q.logger.Debug("script command completed", "command", cmd.Name())
		q.setState(cmd, domain.CommandCompleted)
	}

	q.activate()
}

func (q *ScriptCommandQueue) timedOut(generation uint64) {
	cmd := q.finish(generation)
	if cmd == nil {
		return
	}

	q.logger.Warn("script command timed out", "command", cmd.Name(), "timeout", q.timeout)
	cmd.ReportFailure(domain.ErrCommandTimedOut)
	q.setState(cmd, domain.CommandTimedOut)

	q.activate()
}

// finish detaches the active command when generation still names it and
// removes every queued reference to it.
func (q *ScriptCommandQueue) finish(generation uint64) ScriptCommand {
	if q.active == nil || generation != q.generation {
		return nil
	}

	cmd := q.active
	q.release()
	q.removeAll(cmd)
	return cmd
}

func (q *ScriptCommandQueue) release() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.active = nil
}

func (q *ScriptCommandQueue) removeAll(cmd ScriptCommand) {
	kept := q.commands[:0]
	for _, queued := range q.commands {
		if queued != cmd {
			kept = append(kept, queued)
		}
	}
	for i := len(kept); i < len(q.commands); i++ {
		q.commands[i] = nil
	}

	q.commands = kept
	q.length.Store(int64(len(q.commands)))
}

func (q *ScriptCommandQueue) shutdown() {
	q.stopMu.Lock()
	q.stopped = true
	q.stopMu.Unlock()

	q.closing = true
	q.drain()
	q.release()

	remaining := q.commands
	q.commands = nil
	q.length.Store(0)
	for _, cmd := range remaining {
		cmd.ReportFailure(domain.ErrQueueStopped)
		q.setState(cmd, domain.CommandFailed)
	}
}

func (q *ScriptCommandQueue) setState(cmd ScriptCommand, state domain.CommandState) {
	q.observerMu.Lock()
	observer := q.observer
	q.observerMu.Unlock()

	if observer != nil {
		observer(cmd, state)
	}
}
