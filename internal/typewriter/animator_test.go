package typewriter

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// manualScheduler fires callbacks synchronously when the clock is advanced.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward, firing due timers in order. Timers
// scheduled by a callback fire in the same call if they fall due.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var due []*manualTimer
		for _, t := range s.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			s.now = target
			s.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
		next := due[0]
		next.fired = true
		s.now = next.at
		s.mu.Unlock()
		next.f()
	}
}

func newTestAnimator(t *testing.T, sched Scheduler, frames *[]Frame, roles ...string) *Animator {
	t.Helper()
	a, err := New(mustRoles(t, roles...),
		WithScheduler(sched),
		OnFrame(func(f Frame) { *frames = append(*frames, f) }),
	)
	require.NoError(t, err)
	return a
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(RoleSequence{})
	assert.ErrorIs(t, err, ErrEmptySequence)

	_, err = New(mustRoles(t, "x"), WithTiming(Timing{Type: time.Millisecond, Delete: time.Second}))
	assert.ErrorIs(t, err, ErrInvalidTiming)
}

func TestAnimator_TicksOnCadence(t *testing.T) {
	sched := &manualScheduler{}
	var frames []Frame
	a := newTestAnimator(t, sched, &frames, "AB")
	a.Start()

	sched.Advance(149 * time.Millisecond)
	assert.Equal(t, Initial(), a.State())

	sched.Advance(time.Millisecond)
	assert.Equal(t, State{Text: "A", Phase: Typing}, a.State())

	sched.Advance(150 * time.Millisecond)
	assert.Equal(t, State{Text: "AB", Phase: Typing}, a.State())

	// pause before deleting starts
	sched.Advance(499 * time.Millisecond)
	assert.Equal(t, State{Text: "AB", Phase: Typing}, a.State())
	sched.Advance(time.Millisecond)
	assert.Equal(t, State{Text: "AB", Phase: Deleting}, a.State())

	sched.Advance(30 * time.Millisecond)
	assert.Equal(t, State{Text: "A", Phase: Deleting}, a.State())
	sched.Advance(30 * time.Millisecond)
	assert.Equal(t, State{Text: "", Phase: Typing}, a.State())

	texts := make([]string, len(frames))
	for i, f := range frames {
		texts[i] = f.Text
	}
	assert.Equal(t, []string{"A", "AB", "AB", "A", ""}, texts)
	assert.Equal(t, "deleting", frames[2].Phase)
}

func TestAnimator_SinglePendingTick(t *testing.T) {
	sched := &manualScheduler{}
	var frames []Frame
	a := newTestAnimator(t, sched, &frames, "Full Stack Developer", "Problem Solver")
	a.Start()
	a.Start()
	assert.Equal(t, 1, sched.pending())

	for i := 0; i < 200; i++ {
		sched.Advance(10 * time.Millisecond)
		require.LessOrEqual(t, sched.pending(), 1)
	}
	assert.Equal(t, 1, sched.pending())
}

func TestAnimator_StopFreezesState(t *testing.T) {
	sched := &manualScheduler{}
	var frames []Frame
	a := newTestAnimator(t, sched, &frames, "Tech Enthusiast")
	a.Start()
	sched.Advance(450 * time.Millisecond)
	before := a.State()
	seen := len(frames)
	require.Equal(t, "Tec", before.Text)

	a.Stop()
	sched.Advance(time.Hour)

	assert.Equal(t, before, a.State())
	assert.Len(t, frames, seen)
	assert.Zero(t, sched.pending())

	a.Start()
	sched.Advance(time.Hour)
	assert.Equal(t, before, a.State())
}

func TestAnimator_StaleCallbackIgnored(t *testing.T) {
	sched := &manualScheduler{}
	var frames []Frame
	a := newTestAnimator(t, sched, &frames, "AB")
	a.Start()

	// grab the pending callback before it is cancelled, then fire it late
	sched.mu.Lock()
	stale := sched.timers[0].f
	sched.mu.Unlock()

	a.Stop()
	stale()

	assert.Equal(t, Initial(), a.State())
	assert.Empty(t, frames)
}

func TestAnimator_StopFromObserver(t *testing.T) {
	sched := &manualScheduler{}
	var a *Animator
	count := 0
	a, err := New(mustRoles(t, "ABC"),
		WithScheduler(sched),
		OnFrame(func(Frame) {
			count++
			if count == 2 {
				a.Stop()
			}
		}),
	)
	require.NoError(t, err)
	a.Start()

	sched.Advance(time.Minute)
	assert.Equal(t, 2, count)
	assert.Equal(t, "AB", a.State().Text)
	assert.Zero(t, sched.pending())
}

func TestAnimator_Snapshot(t *testing.T) {
	a, err := New(mustRoles(t, "Problem Solver", "Tech Enthusiast"), WithScheduler(&manualScheduler{}))
	require.NoError(t, err)
	assert.Equal(t, Frame{Text: "", Phase: "typing", Index: 0, Role: "Problem Solver"}, a.Snapshot())
}

func TestAnimator_RealSchedulerTeardown(t *testing.T) {
	defer goleak.VerifyNone(t)

	frames := make(chan Frame, 64)
	a, err := New(mustRoles(t, "Go"),
		WithTiming(Timing{Type: 2 * time.Millisecond, Delete: time.Millisecond, Pause: time.Millisecond}),
		OnFrame(func(f Frame) {
			select {
			case frames <- f:
			default:
			}
		}),
	)
	require.NoError(t, err)
	a.Start()

	select {
	case f := <-frames:
		assert.Equal(t, "G", f.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame from real scheduler")
	}

	a.Stop()
	frozen := a.State()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frozen, a.State())
}
