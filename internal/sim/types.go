package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/stepsim/internal/history"
	"github.com/san-kum/stepsim/internal/motor"
)

const (
	DefaultSpeed      = 10
	DefaultTick       = 10 * time.Millisecond
	DefaultDrainEvery = 100 * time.Millisecond
)

// Config holds the constructor-time parameters of a Simulator.
type Config struct {
	Speed           int
	Resolution      motor.Resolution
	Direction       motor.Direction
	HistoryCapacity int
	// Tick is the fixed sleep between loop iterations.
	Tick time.Duration
	// DrainEvery is the cadence at which queued commands are applied.
	DrainEvery   time.Duration
	HaltAtTarget bool
}

func DefaultConfig() Config {
	return Config{
		Speed:           DefaultSpeed,
		Resolution:      motor.Full,
		Direction:       motor.Forward,
		HistoryCapacity: history.DefaultCapacity,
		Tick:            DefaultTick,
		DrainEvery:      DefaultDrainEvery,
	}
}

// Validate reports every problem with the configuration at once. The result
// wraps motor.ErrConfiguration.
func (c Config) Validate() error {
	var err error
	if c.Speed < motor.MinSpeed || c.Speed > motor.MaxSpeed {
		err = multierr.Append(err, fmt.Errorf("speed must be in [%d, %d], got %d", motor.MinSpeed, motor.MaxSpeed, c.Speed))
	}
	if !c.Resolution.Valid() {
		err = multierr.Append(err, fmt.Errorf("unknown step resolution %g", float64(c.Resolution)))
	}
	if !c.Direction.Valid() {
		err = multierr.Append(err, fmt.Errorf("unknown direction %d", int(c.Direction)))
	}
	if c.HistoryCapacity < 1 {
		err = multierr.Append(err, fmt.Errorf("history capacity must be positive, got %d", c.HistoryCapacity))
	}
	if c.Tick <= 0 {
		err = multierr.Append(err, fmt.Errorf("tick must be positive, got %s", c.Tick))
	}
	if c.DrainEvery <= 0 {
		err = multierr.Append(err, fmt.Errorf("drain cadence must be positive, got %s", c.DrainEvery))
	}
	if err != nil {
		return errors.Wrap(motor.ErrConfiguration, err.Error())
	}
	return nil
}

// Snapshot is an immutable copy of the motor state handed to presenters.
type Snapshot struct {
	Position   float64
	Target     int
	Speed      int
	Direction  motor.Direction
	Resolution motor.Resolution
	Running    bool
	// Steps counts steps applied since start or the last reset.
	Steps   uint64
	History []float64
	Time    time.Time
}

// Angle is the rotor angle in degrees, in [0, 360).
func (s Snapshot) Angle() float64 {
	a := math.Mod(s.Position, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func (s Snapshot) SpeedLabel() string { return fmt.Sprintf("%d steps/s", s.Speed) }

func (s Snapshot) StepLabel() string { return s.Resolution.String() }

func (s Snapshot) RunningLabel() string {
	if s.Running {
		return "running"
	}
	return "stopped"
}

// Observer receives every published snapshot on the loop goroutine. It must
// not block.
type Observer interface {
	OnSnapshot(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnSnapshot(s Snapshot) { f(s) }
