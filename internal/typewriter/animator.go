package typewriter

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime timer heap.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Frame is published after every tick.
type Frame struct {
	Text  string `json:"text"`
	Phase string `json:"phase"`
	Index int    `json:"index"`
	Role  string `json:"role"`
}

// Animator drives a State forward with a single owned timer. Ticks are
// strictly sequential: the next tick is scheduled only after the current
// tick's frame has been delivered.
type Animator struct {
	roles  RoleSequence
	timing Timing
	sched  Scheduler
	logger *zap.Logger

	mu      sync.Mutex
	state   State
	pending Timer
	gen     uint64
	started bool
	stopped bool
	onFrame func(Frame)
}

type Option func(*Animator)

func WithTiming(t Timing) Option {
	return func(a *Animator) { a.timing = t }
}

func WithScheduler(s Scheduler) Option {
	return func(a *Animator) { a.sched = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Animator) { a.logger = l }
}

// OnFrame registers the observer that receives each new frame. It is called
// from the scheduler's goroutine and never concurrently with itself.
func OnFrame(f func(Frame)) Option {
	return func(a *Animator) { a.onFrame = f }
}

// New builds an animator positioned at Initial.
func New(roles RoleSequence, opts ...Option) (*Animator, error) {
	if roles.Len() == 0 {
		return nil, ErrEmptySequence
	}
	a := &Animator{
		roles:  roles,
		timing: DefaultTiming(),
		sched:  RealScheduler{},
		logger: zap.NewNop(),
		state:  Initial(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.timing.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Start schedules the first tick. Calling Start more than once, or after
// Stop, does nothing.
func (a *Animator) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started || a.stopped {
		return
	}
	a.started = true
	a.logger.Debug("typewriter started", zap.Int("roles", a.roles.Len()))
	a.scheduleLocked(a.timing.Delay(a.roles, a.state))
}

// Stop cancels the pending tick. Once Stop returns the state is frozen and
// no further tick runs.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	a.stopped = true
	a.gen++
	if a.pending != nil {
		a.pending.Stop()
		a.pending = nil
	}
	a.logger.Debug("typewriter stopped",
		zap.Int("index", a.state.Index),
		zap.String("phase", a.state.Phase.String()))
}

// State returns the current snapshot.
func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Snapshot renders the current state as a frame.
func (a *Animator) Snapshot() Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frameLocked()
}

func (a *Animator) frameLocked() Frame {
	return Frame{
		Text:  a.state.Text,
		Phase: a.state.Phase.String(),
		Index: a.state.Index,
		Role:  a.roles.Role(a.state.Index),
	}
}

func (a *Animator) scheduleLocked(d time.Duration) {
	gen := a.gen
	a.pending = a.sched.AfterFunc(d, func() { a.tick(gen) })
}

func (a *Animator) tick(gen uint64) {
	a.mu.Lock()
	if a.stopped || gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.pending = nil
	a.state = Step(a.roles, a.state)
	frame := a.frameLocked()
	observer := a.onFrame
	a.mu.Unlock()

	if observer != nil {
		observer(frame)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped || gen != a.gen {
		return
	}
	a.gen++
	a.scheduleLocked(a.timing.Delay(a.roles, a.state))
}
