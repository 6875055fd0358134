// Package typewriter animates a headline that types and erases each role
// string of a cyclic sequence, one character per tick.
package typewriter

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptySequence = errors.New("typewriter: role sequence is empty")
	ErrInvalidTiming = errors.New("typewriter: invalid timing")
)

// Phase is the direction the headline is moving in.
type Phase int

const (
	Typing Phase = iota
	Deleting
)

func (p Phase) String() string {
	switch p {
	case Typing:
		return "typing"
	case Deleting:
		return "deleting"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// RoleSequence is an immutable, non-empty, cyclic list of role strings.
type RoleSequence struct {
	roles [][]rune
}

// NewRoleSequence copies roles into a sequence. At least one role is required.
func NewRoleSequence(roles ...string) (RoleSequence, error) {
	if len(roles) == 0 {
		return RoleSequence{}, ErrEmptySequence
	}
	rs := RoleSequence{roles: make([][]rune, len(roles))}
	for i, r := range roles {
		rs.roles[i] = []rune(r)
	}
	return rs, nil
}

// Len returns the number of roles.
func (rs RoleSequence) Len() int { return len(rs.roles) }

// Role returns the role at i, wrapping around the sequence.
func (rs RoleSequence) Role(i int) string {
	return string(rs.role(i))
}

func (rs RoleSequence) role(i int) []rune {
	n := len(rs.roles)
	return rs.roles[((i%n)+n)%n]
}

// State is a snapshot of the animation. Text is always a prefix of the
// active role.
type State struct {
	Index int
	Text  string
	Phase Phase
}

// Initial is the state a freshly mounted headline starts in.
func Initial() State {
	return State{Index: 0, Text: "", Phase: Typing}
}

// Step advances s by one tick.
func Step(rs RoleSequence, s State) State {
	full := rs.role(s.Index)
	n := len([]rune(s.Text))

	switch s.Phase {
	case Typing:
		if n < len(full) {
			return State{Index: s.Index, Text: string(full[:n+1]), Phase: Typing}
		}
		return State{Index: s.Index, Text: s.Text, Phase: Deleting}
	default:
		if n > 1 {
			return State{Index: s.Index, Text: string(full[:n-1]), Phase: Deleting}
		}
		return State{Index: (s.Index + 1) % rs.Len(), Text: "", Phase: Typing}
	}
}

// Complete reports whether s shows the whole active role while still typing,
// i.e. the next tick flips to Deleting after a pause.
func Complete(rs RoleSequence, s State) bool {
	return s.Phase == Typing && len([]rune(s.Text)) == len(rs.role(s.Index))
}

// Timing holds the tick cadence. Deleting is always faster than typing.
type Timing struct {
	Type   time.Duration
	Delete time.Duration
	Pause  time.Duration
}

// DefaultTiming mirrors a comfortable human typing pace.
func DefaultTiming() Timing {
	return Timing{
		Type:   150 * time.Millisecond,
		Delete: 30 * time.Millisecond,
		Pause:  500 * time.Millisecond,
	}
}

func (t Timing) Validate() error {
	if t.Type <= 0 || t.Delete <= 0 || t.Pause < 0 {
		return fmt.Errorf("%w: durations must be positive (type=%s delete=%s pause=%s)",
			ErrInvalidTiming, t.Type, t.Delete, t.Pause)
	}
	if t.Delete >= t.Type {
		return fmt.Errorf("%w: delete interval %s must be shorter than type interval %s",
			ErrInvalidTiming, t.Delete, t.Type)
	}
	return nil
}

// Delay returns how long to wait before the tick that follows s.
func (t Timing) Delay(rs RoleSequence, s State) time.Duration {
	if Complete(rs, s) {
		return t.Pause
	}
	if s.Phase == Deleting {
		return t.Delete
	}
	return t.Type
}
