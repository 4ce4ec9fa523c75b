package motor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CommandType enumerates the supported control commands.
type CommandType string

const (
	CommandStart         CommandType = "start"
	CommandStop          CommandType = "stop"
	CommandMoveTo        CommandType = "move_to"
	CommandSetSpeed      CommandType = "set_speed"
	CommandSetDirection  CommandType = "set_direction"
	CommandSetResolution CommandType = "set_resolution"
	CommandReset         CommandType = "reset"
)

const (
	MinTarget = math.MinInt32
	MaxTarget = math.MaxInt32
)

// Command is an immutable control request. Only the field matching Type is
// meaningful.
type Command struct {
	Type       CommandType
	Target     int
	Speed      int
	Direction  Direction
	Resolution Resolution
}

func Start() Command { return Command{Type: CommandStart} }
func Stop() Command  { return Command{Type: CommandStop} }
func Reset() Command { return Command{Type: CommandReset} }

func MoveTo(target int) Command { return Command{Type: CommandMoveTo, Target: target} }

func SetSpeed(speed int) Command { return Command{Type: CommandSetSpeed, Speed: speed} }

func SetDirection(d Direction) Command { return Command{Type: CommandSetDirection, Direction: d} }

func SetResolution(r Resolution) Command {
	return Command{Type: CommandSetResolution, Resolution: r}
}

// Validate reports whether the command may be queued. Failures wrap
// ErrInvalidArgument.
func (c Command) Validate() error {
	switch c.Type {
	case CommandStart, CommandStop, CommandReset:
		return nil
	case CommandMoveTo:
		if c.Target < MinTarget || c.Target > MaxTarget {
			return errors.Wrapf(ErrInvalidArgument, "target %d out of range", c.Target)
		}
	case CommandSetSpeed:
		if c.Speed < MinSpeed || c.Speed > MaxSpeed {
			return errors.Wrapf(ErrInvalidArgument, "speed must be in [%d, %d], got %d", MinSpeed, MaxSpeed, c.Speed)
		}
	case CommandSetDirection:
		if !c.Direction.Valid() {
			return errors.Wrapf(ErrInvalidArgument, "unknown direction %d", int(c.Direction))
		}
	case CommandSetResolution:
		if !c.Resolution.Valid() {
			return errors.Wrapf(ErrInvalidArgument, "unknown step resolution %g", float64(c.Resolution))
		}
	default:
		return errors.Wrapf(ErrInvalidArgument, "unknown command %q", string(c.Type))
	}
	return nil
}

func (c Command) String() string {
	switch c.Type {
	case CommandMoveTo:
		return fmt.Sprintf("move_to(%d)", c.Target)
	case CommandSetSpeed:
		return fmt.Sprintf("set_speed(%d)", c.Speed)
	case CommandSetDirection:
		return fmt.Sprintf("set_direction(%s)", c.Direction)
	case CommandSetResolution:
		return fmt.Sprintf("set_resolution(%g)", float64(c.Resolution))
	}
	return string(c.Type)
}

// ParseTarget converts user input into a MoveTo target.
func ParseTarget(s string) (int, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidArgument, "target %q is not an integer", s)
	}
	if v < MinTarget || v > MaxTarget {
		return 0, errors.Wrapf(ErrInvalidArgument, "target %d out of range", v)
	}
	return int(v), nil
}

// Apply runs cmds against s in order. Commands are assumed validated.
func (s *State) Apply(cmds ...Command) {
	for _, c := range cmds {
		switch c.Type {
		case CommandStart:
			s.Running = true
		case CommandStop:
			s.Running = false
		case CommandMoveTo:
			// advisory unless HaltAtTarget is set
			s.Target = c.Target
		case CommandSetSpeed:
			s.Speed = c.Speed
		case CommandSetDirection:
			s.Direction = c.Direction
		case CommandSetResolution:
			s.Resolution = c.Resolution
		case CommandReset:
			s.Reset()
		}
	}
}
