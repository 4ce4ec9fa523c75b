// Package tui is the terminal presenter for the stepper simulator. It reads
// snapshots and sends commands; it never touches motor state directly.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/stepsim/internal/motor"
	"github.com/san-kum/stepsim/internal/sim"
)

const (
	angleSeries = "angle"
	chartWidth  = 60
	chartHeight = 8
	plotHeight  = 8
)

// Controller is the presenter's view of the simulator.
type Controller interface {
	Send(motor.Command) error
	Reset()
	Latest() sim.Snapshot
	Snapshots() <-chan sim.Snapshot
}

type snapshotMsg sim.Snapshot

// waitForSnapshot delivers the next snapshot, or nothing once done is
// closed.
func waitForSnapshot(ctrl Controller, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-ctrl.Snapshots():
			return snapshotMsg(s)
		case <-done:
			return nil
		}
	}
}

type Model struct {
	ctrl  Controller
	done  <-chan struct{}
	snap  sim.Snapshot
	theme Theme

	rotor     *Canvas
	angle     *streamlinechart.Model
	lastSteps uint64

	input    textinput.Model
	entering bool

	status    string
	statusErr bool

	width, height int
	quitting      bool
}

// NewModel builds the presenter. It stops waiting for snapshots once done
// is closed; a nil done waits for as long as the program runs.
func NewModel(ctrl Controller, theme Theme, done <-chan struct{}) Model {
	ti := textinput.New()
	ti.Placeholder = "target position (steps)"
	ti.CharLimit = 12
	ti.Width = 24

	m := Model{
		ctrl:  ctrl,
		done:  done,
		snap:  ctrl.Latest(),
		theme: theme,
		rotor: NewCanvas(rotorCols, rotorRows),
		input: ti,
	}
	m.angle = m.newAngleChart()
	drawRotor(m.rotor, m.snap.Angle())
	return m
}

func (m Model) newAngleChart() *streamlinechart.Model {
	chart := streamlinechart.New(chartWidth, chartHeight, streamlinechart.WithYRange(0, 360))
	chart.SetDataSetStyles(angleSeries, runes.ThinLineStyle, lipgloss.NewStyle().Foreground(m.theme.Motor))
	return &chart
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.ctrl, m.done), textinput.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.entering {
			return m.targetKey(msg)
		}
		return m.controlKey(msg)

	case snapshotMsg:
		m.applySnapshot(sim.Snapshot(msg))
		return m, waitForSnapshot(m.ctrl, m.done)
	}

	return m, nil
}

func (m *Model) applySnapshot(s sim.Snapshot) {
	if s.Steps < m.lastSteps {
		// reset
		m.angle = m.newAngleChart()
	}
	if s.Steps != m.lastSteps {
		m.angle.PushDataSet(angleSeries, s.Angle())
		m.angle.DrawAll()
	}
	m.lastSteps = s.Steps
	m.snap = s
	drawRotor(m.rotor, s.Angle())
}

func (m Model) controlKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "s":
		m.send(motor.Start(), "start")
	case "x":
		m.send(motor.Stop(), "stop")
	case "r":
		m.ctrl.Reset()
		m.setStatus("reset", false)
	case "d":
		d := m.snap.Direction.Reverse()
		m.send(motor.SetDirection(d), "direction "+d.String())
	case "m":
		r := m.snap.Resolution.Next()
		m.send(motor.SetResolution(r), r.String())
	case "+", "=":
		m.send(motor.SetSpeed(m.snap.Speed+1), fmt.Sprintf("speed %d", m.snap.Speed+1))
	case "-", "_":
		m.send(motor.SetSpeed(m.snap.Speed-1), fmt.Sprintf("speed %d", m.snap.Speed-1))
	case "g":
		m.entering = true
		m.input.SetValue(fmt.Sprint(m.snap.Target))
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "t":
		m.theme = nextTheme(m.theme)
		m.angle.SetDataSetStyles(angleSeries, runes.ThinLineStyle, lipgloss.NewStyle().Foreground(m.theme.Motor))
		m.setStatus("theme "+m.theme.Name, false)
	}
	return m, nil
}

func (m Model) targetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.entering = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		target, err := motor.ParseTarget(m.input.Value())
		if err != nil {
			m.setStatus("enter a valid integer position", true)
			return m, nil
		}
		m.entering = false
		m.input.Blur()
		m.send(motor.MoveTo(target), fmt.Sprintf("move to %d", target))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) send(c motor.Command, label string) {
	if err := m.ctrl.Send(c); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(label, false)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m Model) View() string {
	if m.quitting {
		return "Simulation stopped.\n"
	}
	st := m.theme.styles()

	var sb strings.Builder
	sb.WriteString(st.title.Render("STEPPER MOTOR"))
	sb.WriteString("\n\n")

	rotor := st.panel.Render(st.chart.Render(m.rotor.String()) + "\n" +
		st.muted.Render(fmt.Sprintf("angle: %.1f°", m.snap.Angle())))
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, st.panel.Render(m.infoView(st)), " ", rotor))
	sb.WriteString("\n")

	if len(m.snap.History) > 1 {
		plot := asciigraph.Plot(m.snap.History,
			asciigraph.Height(plotHeight),
			asciigraph.Width(chartWidth),
			asciigraph.Caption("position history (steps)"),
		)
		sb.WriteString(st.panel.Render(st.chart.Render(plot)))
	} else {
		sb.WriteString(st.panel.Render(st.muted.Render("no steps yet")))
	}
	sb.WriteString("\n")
	sb.WriteString(st.panel.Render(m.angle.View() + "\n" + st.muted.Render("rotor angle (deg)")))
	sb.WriteString("\n")

	if m.entering {
		sb.WriteString("target: " + m.input.View() + st.muted.Render("  enter to move, esc to cancel"))
		sb.WriteString("\n")
	}
	if m.status != "" {
		if m.statusErr {
			sb.WriteString(st.err.Render("error: " + m.status))
		} else {
			sb.WriteString(st.muted.Render(m.status))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(st.muted.Render("s start  x stop  r reset  d direction  m step mode  +/- speed  g target  t theme  q quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) infoView(st styles) string {
	s := m.snap
	lamp := lipgloss.NewStyle().Foreground(m.theme.indicatorColor(s.Running, s.Direction == motor.Forward)).Render("●")

	rows := [][2]string{
		{"position", fmt.Sprintf("%g steps", s.Position)},
		{"target", fmt.Sprintf("%d steps", s.Target)},
		{"speed", s.SpeedLabel()},
		{"step mode", s.StepLabel()},
		{"direction", lamp + " " + s.Direction.String()},
		{"status", s.RunningLabel()},
		{"steps", fmt.Sprint(s.Steps)},
	}

	var b strings.Builder
	for i, r := range rows {
		b.WriteString(st.label.Render(r[0]) + st.value.Render(r[1]))
		if i < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Run shows the presenter until the user quits or ctx is cancelled.
func Run(ctx context.Context, ctrl Controller, theme string) error {
	p := tea.NewProgram(NewModel(ctrl, GetTheme(theme), ctx.Done()), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
