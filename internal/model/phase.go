package model

import (
	"fmt"
	"time"
)

// Phase is a contest's temporal state, derived from its timing and the current time
type Phase int

const (
	// PhaseNone is used when no contest is in scope
	PhaseNone Phase = iota
	PhasePending
	PhaseRunning
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return ""
	case PhasePending:
		return "Pending"
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for _, candidate := range []Phase{PhaseNone, PhasePending, PhaseRunning, PhaseEnded} {
		if candidate.String() == string(b) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("%w: unknown phase %q", ErrValidationFailed, b)
}

// PhaseAt computes the phase of a contest running over [begin, end) at now
func PhaseAt(begin, end, now time.Time) Phase {
	switch {
	case now.Before(begin):
		return PhasePending
	case now.Before(end):
		return PhaseRunning
	default:
		return PhaseEnded
	}
}
