package core

import (
	"sync"

	"github.com/jangala-dev/i2ccore/errcode"
	"github.com/jangala-dev/i2ccore/x/timex"
)

// ManagerConfig configures a ResourceManager. Scheduler is required;
// Logger and Sink are optional ambient collaborators.
type ManagerConfig struct {
	Scheduler Scheduler
	Logger    Logger
	Sink      EventSink
}

// ResourceManager owns a single physical controller's transaction queue. It
// drives ControllerOps through PostTransaction (enqueue, possibly start
// immediately) and ProcessEvent (the interrupt-delivered state machine),
// and hands finished transactions back to their Issuer.
type ResourceManager struct {
	mu     sync.Mutex
	head   *Transaction
	inited bool

	ops   ControllerOps
	sched Scheduler
	log   Logger
	sink  EventSink
}

// NewResourceManager wires a ControllerOps implementation into a running
// manager. Scheduler is mandatory: task-level handler dispatch has nowhere
// else to run.
func NewResourceManager(ops ControllerOps, cfg ManagerConfig) *ResourceManager {
	if cfg.Scheduler == nil {
		panic("core: ResourceManager requires a Scheduler")
	}
	return &ResourceManager{ops: ops, sched: cfg.Scheduler, log: cfg.Logger, sink: cfg.Sink}
}

// Init binds the manager to a pin pair. Calling it again with the same pins
// is a no-op; calling it with different pins fails with PinMismatch,
// matching a client façade that discovers it is pointed at an
// already-claimed controller.
func (r *ResourceManager) Init(sda, scl string) errcode.Code {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inited {
		// ops compares the pins against the ones it was first bound to.
		return r.ops.Init(sda, scl)
	}
	rc := r.ops.Init(sda, scl)
	if rc == errcode.None {
		r.inited = true
	}
	return rc
}

// PostTransaction validates t, then either starts it immediately (queue was
// empty) or appends it behind whatever is already running. The
// decide-and-append step runs under the same r.mu critical section
// ProcessEvent uses to dequeue r.head, so a completion racing in on
// another goroutine can never detach a transaction out from under an
// append landing on it — the two operations never interleave.
func (r *ResourceManager) PostTransaction(t *Transaction) errcode.Code {
	if t == nil {
		return errcode.NullTransaction
	}
	if rc := r.ops.ValidateTransaction(t); rc != errcode.None {
		return rc
	}

	r.mu.Lock()
	if r.head == nil {
		r.head = t
		r.mu.Unlock()
		r.debugf("starting transaction addr=%#x hz=%d", t.Address, t.Hz)
		if rc := r.ops.PowerUp(); rc != errcode.None {
			return rc
		}
		return r.ops.StartTransaction(t)
	}
	tail := r.head
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = t
	r.mu.Unlock()
	r.debugf("queued transaction addr=%#x behind addr=%#x", t.Address, tail.Address)
	return errcode.None
}

// ProcessEvent is the interrupt-delivered half of the state machine. It
// calls the current segment's IRQ hook synchronously, then decides whether
// the transaction is done, needs its next segment started, or needs to
// hand the controller to the next queued transaction.
func (r *ResourceManager) ProcessEvent(event EventMask) {
	r.mu.Lock()
	t := r.head
	r.mu.Unlock()
	if t == nil {
		r.errorf("process_event with empty queue, event=%s", event)
		return
	}

	t.CallIRQCB(event)

	r.mu.Lock()
	hasMore := t.AdvanceSegment()
	done := event.HasError() || !hasMore
	var next *Transaction
	if done {
		next = t.next
		r.head = next
	}
	r.mu.Unlock()

	if !done {
		if rc := r.ops.StartSegment(t); rc != errcode.None {
			r.errorf("start_segment addr=%#x: %v", t.Address, rc)
		}
		return
	}

	r.publish(t, event)
	r.sched.PostCallback(func() { r.handleEvent(t, event) })

	if next != nil {
		r.debugf("starting next queued transaction addr=%#x", next.Address)
		if rc := r.ops.StartTransaction(next); rc != errcode.None {
			r.errorf("start_transaction addr=%#x: %v", next.Address, rc)
		}
		return
	}
	if rc := r.ops.PowerDown(); rc != errcode.None {
		r.errorf("power_down: %v", rc)
	}
}

// handleEvent runs the transaction's task-level handlers, then returns it
// (and its segments) to its Issuer. Always runs on the scheduler's
// goroutine, strictly after the IRQ hook for the same event already ran.
func (r *ResourceManager) handleEvent(t *Transaction, event EventMask) {
	t.ProcessEvent(event)
	t.Issuer.FreeTransaction(t)
}

// Close drains any queued transactions without starting them, returning
// each to its Issuer. Used during shutdown.
func (r *ResourceManager) Close() {
	r.mu.Lock()
	t := r.head
	r.head = nil
	r.mu.Unlock()
	for t != nil {
		next := t.next
		t.Issuer.FreeTransaction(t)
		t = next
	}
}

func (r *ResourceManager) publish(t *Transaction, event EventMask) {
	if r.sink == nil {
		return
	}
	segs := 0
	for s := t.Root(); s != nil; s = s.Next() {
		segs++
	}
	r.sink.Publish(TxEvent{
		Address:  t.Address,
		Event:    event,
		Segments: segs,
		DoneMs:   timex.NowMs(),
	})
}

func (r *ResourceManager) debugf(format string, args ...interface{}) {
	if r.log != nil {
		r.log.Debugf(format, args...)
	}
}

func (r *ResourceManager) errorf(format string, args ...interface{}) {
	if r.log != nil {
		r.log.Errorf(format, args...)
	}
}
