// Package automation replays scripted command sequences against a running
// simulator.
package automation

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/stepsim/internal/motor"
	"github.com/san-kum/stepsim/internal/sim"
)

// Scenario is a scripted sequence of timed commands.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
	// Until is the total run time. Zero means one drain window after the
	// last step.
	Until time.Duration `yaml:"until"`
}

// ScenarioStep sends Command at offset At from the start of playback.
type ScenarioStep struct {
	At      time.Duration `yaml:"at"`
	Command string        `yaml:"command"`
	Value   string        `yaml:"value"`
}

// Sender accepts commands for the simulation loop.
type Sender interface {
	Send(motor.Command) error
}

// LoadScenario reads a scenario from a YAML file and validates it.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario %s", path)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, errors.Wrap(err, "parse scenario")
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(scenario.Steps, func(i, j int) bool {
		return scenario.Steps[i].At < scenario.Steps[j].At
	})
	return &scenario, nil
}

// Validate reports every malformed step at once.
func (s *Scenario) Validate() error {
	var err error
	if len(s.Steps) == 0 {
		err = multierr.Append(err, errors.New("scenario has no steps"))
	}
	if s.Until < 0 {
		err = multierr.Append(err, fmt.Errorf("until must not be negative, got %s", s.Until))
	}
	for i, step := range s.Steps {
		if step.At < 0 {
			err = multierr.Append(err, fmt.Errorf("step %d: negative offset %s", i+1, step.At))
		}
		if _, cerr := step.Parse(); cerr != nil {
			err = multierr.Append(err, errors.Wrapf(cerr, "step %d", i+1))
		}
	}
	return err
}

// Length is the playback time: Until if set, otherwise the last offset
// plus one drain window so the final command is applied.
func (s *Scenario) Length(drainEvery time.Duration) time.Duration {
	if s.Until > 0 {
		return s.Until
	}
	var last time.Duration
	for _, step := range s.Steps {
		if step.At > last {
			last = step.At
		}
	}
	return last + drainEvery
}

// Parse converts the step into a validated motor command.
func (st ScenarioStep) Parse() (motor.Command, error) {
	var c motor.Command
	switch motor.CommandType(st.Command) {
	case motor.CommandStart:
		c = motor.Start()
	case motor.CommandStop:
		c = motor.Stop()
	case motor.CommandReset:
		c = motor.Reset()
	case motor.CommandMoveTo:
		target, err := motor.ParseTarget(st.Value)
		if err != nil {
			return c, err
		}
		c = motor.MoveTo(target)
	case motor.CommandSetSpeed:
		speed, err := strconv.Atoi(st.Value)
		if err != nil {
			return c, errors.Wrapf(motor.ErrInvalidArgument, "speed %q is not an integer", st.Value)
		}
		c = motor.SetSpeed(speed)
	case motor.CommandSetDirection:
		d, err := motor.ParseDirection(st.Value)
		if err != nil {
			return c, err
		}
		c = motor.SetDirection(d)
	case motor.CommandSetResolution:
		r, err := motor.ParseResolution(st.Value)
		if err != nil {
			return c, err
		}
		c = motor.SetResolution(r)
	default:
		return c, errors.Wrapf(motor.ErrInvalidArgument, "unknown command %q", st.Command)
	}
	return c, c.Validate()
}

// Play sends each step once its offset has elapsed on clock. It returns
// ctx.Err() if playback is cut short.
func Play(ctx context.Context, scenario *Scenario, to Sender, clock sim.Clock, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := clock.Now()
	logger.Info("scenario started", zap.String("name", scenario.Name), zap.Int("steps", len(scenario.Steps)))

	for i, step := range scenario.Steps {
		if wait := start.Add(step.At).Sub(clock.Now()); wait > 0 {
			if err := clock.Sleep(ctx, wait); err != nil {
				return err
			}
		}
		c, err := step.Parse()
		if err != nil {
			return errors.Wrapf(err, "step %d", i+1)
		}
		if err := to.Send(c); err != nil {
			return errors.Wrapf(err, "step %d", i+1)
		}
		logger.Debug("scenario step sent", zap.Int("step", i+1), zap.Duration("at", step.At), zap.Stringer("command", c))
	}
	return nil
}
