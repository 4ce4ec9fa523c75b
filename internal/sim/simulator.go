package sim

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/stepsim/internal/history"
	"github.com/san-kum/stepsim/internal/motor"
)

// ErrAlreadyRunning is returned by Run when the loop is already active.
var ErrAlreadyRunning = errors.New("sim: simulator already running")

// Simulator owns the motor state and the loop that advances it. The loop
// goroutine is the only writer of state and history; producers talk to it
// through Send and read it through snapshots.
type Simulator struct {
	cfg       Config
	clock     Clock
	logger    *zap.Logger
	queue     *Queue
	state     *motor.State
	history   *history.Buffer
	observers []Observer

	latest  atomic.Pointer[Snapshot]
	snapCh  chan Snapshot
	started atomic.Bool

	lastStep  time.Time
	lastDrain time.Time
	steps     uint64
}

type Option func(*Simulator)

func WithClock(c Clock) Option { return func(s *Simulator) { s.clock = c } }

func WithLogger(l *zap.Logger) Option { return func(s *Simulator) { s.logger = l } }

func WithObserver(o Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, o) }
}

// New validates cfg and builds a stopped simulator.
func New(cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	state, err := motor.NewState(cfg.Speed, cfg.Direction, cfg.Resolution)
	if err != nil {
		return nil, err
	}
	state.HaltAtTarget = cfg.HaltAtTarget

	s := &Simulator{
		cfg:       cfg,
		clock:     WallClock(),
		logger:    zap.NewNop(),
		queue:     NewQueue(),
		state:     state,
		history:   history.New(cfg.HistoryCapacity),
		observers: make([]Observer, 0),
		snapCh:    make(chan Snapshot, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	snap := s.snapshot(s.clock.Now())
	s.latest.Store(&snap)
	return s, nil
}

func (s *Simulator) Config() Config { return s.cfg }

// Send validates c and queues it for the next drain. Rejected commands are
// not queued.
func (s *Simulator) Send(c motor.Command) error {
	if err := c.Validate(); err != nil {
		s.logger.Warn("command rejected", zap.Stringer("command", c), zap.Error(err))
		return err
	}
	s.queue.Enqueue(c)
	return nil
}

// Reset queues a reset of position, target and history.
func (s *Simulator) Reset() { s.queue.Enqueue(motor.Reset()) }

// Latest returns the most recently published snapshot.
func (s *Simulator) Latest() Snapshot { return *s.latest.Load() }

// Snapshots delivers published snapshots. Slow readers only ever see the
// newest one.
func (s *Simulator) Snapshots() <-chan Snapshot { return s.snapCh }

// Run drives the loop until ctx is done and returns ctx.Err().
func (s *Simulator) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.started.Store(false)

	s.begin(s.clock.Now())
	s.logger.Info("simulation loop started",
		zap.Int("speed", s.state.Speed),
		zap.Float64("resolution", float64(s.state.Resolution)),
		zap.Duration("tick", s.cfg.Tick),
		zap.Duration("drain_every", s.cfg.DrainEvery),
	)

	// iterations run on a fixed deadline grid so sleep overshoot does not
	// stretch the tick
	next := s.clock.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulation loop stopped", zap.Float64("position", s.state.Position), zap.Uint64("steps", s.steps))
			return ctx.Err()
		default:
		}

		s.tick(s.clock.Now())

		next = next.Add(s.cfg.Tick)
		wait := next.Sub(s.clock.Now())
		if wait <= 0 {
			// more than a tick behind: skip the missed iterations
			next = s.clock.Now()
			continue
		}
		if err := s.clock.Sleep(ctx, wait); err != nil {
			s.logger.Info("simulation loop stopped", zap.Float64("position", s.state.Position), zap.Uint64("steps", s.steps))
			return err
		}
	}
}

// begin anchors the step clock at now and makes the first tick drain.
func (s *Simulator) begin(now time.Time) {
	s.lastStep = now
	s.lastDrain = now.Add(-s.cfg.DrainEvery)
}

// tick is one loop iteration without the trailing sleep.
func (s *Simulator) tick(now time.Time) {
	if now.Sub(s.lastDrain) >= s.cfg.DrainEvery {
		s.drain(now)
	}

	if !s.state.Running {
		return
	}
	interval := s.interval()
	elapsed := now.Sub(s.lastStep)
	if elapsed < interval {
		return
	}

	halted := s.state.Step()
	s.history.Push(s.state.Position)
	s.steps++
	if halted {
		s.logger.Debug("target reached", zap.Int("target", s.state.Target), zap.Uint64("steps", s.steps))
	}
	// Stay on the step grid while keeping up; after a stall (or a start
	// from idle) re-anchor at now instead of bursting.
	if elapsed < 2*interval {
		s.lastStep = s.lastStep.Add(interval)
	} else {
		s.lastStep = now
	}
	s.publish(now)
}

// interval is recomputed from the current speed on every call.
func (s *Simulator) interval() time.Duration {
	return time.Second / time.Duration(s.state.Speed)
}

func (s *Simulator) drain(now time.Time) {
	s.lastDrain = now
	cmds := s.queue.DrainAll()
	for _, c := range cmds {
		s.state.Apply(c)
		if c.Type == motor.CommandReset {
			s.history.Reset()
			s.steps = 0
		}
		s.logger.Debug("command applied", zap.Stringer("command", c), zap.Bool("running", s.state.Running))
	}
	s.publish(now)
}

func (s *Simulator) snapshot(now time.Time) Snapshot {
	return Snapshot{
		Position:   s.state.Position,
		Target:     s.state.Target,
		Speed:      s.state.Speed,
		Direction:  s.state.Direction,
		Resolution: s.state.Resolution,
		Running:    s.state.Running,
		Steps:      s.steps,
		History:    s.history.Values(),
		Time:       now,
	}
}

func (s *Simulator) publish(now time.Time) {
	snap := s.snapshot(now)
	s.latest.Store(&snap)

	for _, o := range s.observers {
		o.OnSnapshot(snap)
	}

	select {
	case s.snapCh <- snap:
	default:
		select {
		case <-s.snapCh:
		default:
		}
		select {
		case s.snapCh <- snap:
		default:
		}
	}
}
