package motor

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

const (
	MinSpeed = 1
	MaxSpeed = 100
)

// Direction is the sign applied to every step.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

func (d Direction) Valid() bool { return d == Forward || d == Backward }

func (d Direction) Reverse() Direction { return -d }

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection accepts "forward"/"fwd"/"cw" and "backward"/"back"/"ccw".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "fwd", "cw", "+1", "1":
		return Forward, nil
	case "backward", "back", "ccw", "-1":
		return Backward, nil
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown direction %q", s)
}

// Resolution is the fraction of a full step covered by one step.
type Resolution float64

const (
	Full    Resolution = 1
	Half    Resolution = 0.5
	Quarter Resolution = 0.25
	Eighth  Resolution = 0.125
)

// Resolutions lists the supported resolutions from coarsest to finest.
var Resolutions = []Resolution{Full, Half, Quarter, Eighth}

func (r Resolution) Valid() bool {
	for _, v := range Resolutions {
		if r == v {
			return true
		}
	}
	return false
}

// Next returns the next finer resolution, wrapping back to Full.
func (r Resolution) Next() Resolution {
	for i, v := range Resolutions {
		if r == v {
			return Resolutions[(i+1)%len(Resolutions)]
		}
	}
	return Full
}

func (r Resolution) String() string {
	switch r {
	case Full:
		return "full step (1)"
	case Half:
		return "half step (1/2)"
	case Quarter:
		return "quarter step (1/4)"
	case Eighth:
		return "eighth step (1/8)"
	}
	return fmt.Sprintf("resolution(%g)", float64(r))
}

// ParseResolution accepts names ("full", "half", "quarter", "eighth"),
// fractions ("1/8") and decimals ("0.125").
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "1", "1/1", "1.0":
		return Full, nil
	case "half", "1/2", "0.5", ".5":
		return Half, nil
	case "quarter", "1/4", "0.25", ".25":
		return Quarter, nil
	case "eighth", "1/8", "0.125", ".125":
		return Eighth, nil
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown step resolution %q", s)
}

// State is the authoritative record of the simulated motor. Only the
// simulation loop mutates it; everyone else reads snapshots.
type State struct {
	Position   float64
	Target     int
	Speed      int
	Direction  Direction
	Resolution Resolution
	Running    bool

	// HaltAtTarget turns Target into a stopping condition.
	HaltAtTarget bool
}

// NewState returns a stopped motor at the origin.
func NewState(speed int, dir Direction, res Resolution) (*State, error) {
	if speed < MinSpeed || speed > MaxSpeed {
		return nil, errors.Wrapf(ErrConfiguration, "speed must be in [%d, %d], got %d", MinSpeed, MaxSpeed, speed)
	}
	if !dir.Valid() {
		return nil, errors.Wrapf(ErrConfiguration, "unknown direction %d", int(dir))
	}
	if !res.Valid() {
		return nil, errors.Wrapf(ErrConfiguration, "unknown step resolution %g", float64(res))
	}
	return &State{Speed: speed, Direction: dir, Resolution: res}, nil
}

// StepDelta is the signed distance covered by a single step.
func (s *State) StepDelta() float64 {
	return float64(s.Resolution) * float64(s.Direction)
}

// Step advances the position by one step and reports whether it halted the
// motor. With HaltAtTarget set, a step toward the target that reaches or
// crosses it lands on the target and stops the motor. A motor on its target
// or heading away from it always steps.
func (s *State) Step() (halted bool) {
	delta := s.StepDelta()
	if !s.HaltAtTarget {
		s.Position += delta
		return false
	}

	remaining := float64(s.Target) - s.Position
	towards := remaining != 0 && (remaining > 0) == (delta > 0)
	if towards && math.Abs(remaining) <= math.Abs(delta) {
		s.Position = float64(s.Target)
		s.Running = false
		return true
	}
	s.Position += delta
	return false
}

// Reset clears spatial state only; speed, direction, resolution and the
// running flag are kept.
func (s *State) Reset() {
	s.Position = 0
	s.Target = 0
}
