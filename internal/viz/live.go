package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/argonbench/internal/dynamo"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 600
	errorFloor      = 1e-16
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// LiveSystem is a particle system in a periodic cube that the live view can
// integrate and draw.
type LiveSystem interface {
	dynamo.System
	dynamo.Hamiltonian
	Temperature(x dynamo.State) float64
}

// Model steps one integrator at a fixed dt and charts the energy error as
// it evolves.
type Model struct {
	sys        LiveSystem
	box        float64
	integrator dynamo.Integrator

	state, initial dynamo.State
	t, dt, tEnd    float64
	steps          int
	e0             float64
	errHistory     []float64
	temperature    float64

	stepsPerFrame int
	running       bool
	done          bool
	err           error

	canvas *Canvas
	camera *Camera
}

func NewModel(sys LiveSystem, box float64, integ dynamo.Integrator, x0 dynamo.State, dt, tEnd float64) Model {
	return Model{
		sys:           sys,
		box:           box,
		integrator:    integ,
		state:         x0.Clone(),
		initial:       x0.Clone(),
		dt:            dt,
		tEnd:          tEnd,
		e0:            sys.Energy(x0),
		temperature:   sys.Temperature(x0),
		errHistory:    make([]float64, 0, historyCapacity),
		stepsPerFrame: 1,
		running:       true,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the integrator.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			if !m.done && m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "t":
			NextTheme()
		case ">", ".":
			m.stepsPerFrame = min(m.stepsPerFrame*2, 256)
		case "<", ",":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance takes up to stepsPerFrame steps, stopping at tEnd.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame && !m.done; i++ {
		h := math.Min(m.dt, m.tEnd-m.t)
		next := m.integrator.Step(m.sys, m.state, m.t, h)
		if !next.IsValid() {
			m.err = &dynamo.SimulationError{Integrator: m.integrator.Name(), Step: m.steps, Time: m.t, Dt: h, Wrapped: dynamo.ErrInvalidState}
			m.running = false
			return
		}
		m.state = next
		m.steps++
		if m.tEnd-(m.t+h) <= 1e-12*m.tEnd {
			m.t = m.tEnd
			m.done = true
			m.running = false
		} else {
			m.t += h
		}
	}

	drift := math.Abs(m.sys.Energy(m.state) - m.e0)
	m.errHistory = append(m.errHistory, math.Log10(math.Max(drift, errorFloor)))
	if len(m.errHistory) > historyCapacity {
		m.errHistory = m.errHistory[1:]
	}
	m.temperature = m.sys.Temperature(m.state)
}

// reset restores the initial state.
func (m *Model) reset() {
	m.state = m.initial.Clone()
	m.t = 0
	m.steps = 0
	m.errHistory = m.errHistory[:0]
	m.temperature = m.sys.Temperature(m.state)
	m.err = nil
	m.done = false
	m.running = true
	if r, ok := m.integrator.(dynamo.Resetter); ok {
		r.Reset()
	}
}

// draw projects the cell and the particles, wrapped into the cell, onto the
// canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	scene := BoxWireframe(2, 1)
	q := m.state.Positions()
	for i := 0; i+2 < len(q); i += 3 {
		p := r3.Vec{X: wrap(q[i], m.box), Y: wrap(q[i+1], m.box), Z: wrap(q[i+2], m.box)}
		scene.AddPoint(r3.Sub(r3.Scale(2/m.box, p), r3.Vec{X: 1, Y: 1, Z: 1}), 0)
	}
	Render3D(m.canvas, scene, m.camera)
}

func wrap(x, box float64) float64 {
	x = math.Mod(x, box)
	if x < 0 {
		x += box
	}
	return x
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(CurrentTheme.Palette))

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.integrator.Name())) + "\n\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusFailed.Render("FAILED") + "\n" + m.err.Error() + "\n\n")
	case m.done:
		s.WriteString(StatusPaused.Render("DONE") + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}
	s.WriteString(ProgressBar(m.t/m.tEnd, 30) + "\n")

	if len(m.errHistory) > 1 {
		chart := asciigraph.Plot(m.errHistory, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("log10 |E(t)-E(0)|"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	drift := math.Abs(m.sys.Energy(m.state) - m.e0)
	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.3f / %.3f", m.t, m.tEnd)) + "\n")
	s.WriteString(MetricLabel.Render("Steps") + MetricValue.Render(fmt.Sprintf("%d (x%d/frame)", m.steps, m.stepsPerFrame)) + "\n")
	s.WriteString(MetricLabel.Render("dt") + MetricValue.Render(fmt.Sprintf("%g", m.dt)) + "\n")
	s.WriteString(MetricLabel.Render("Energy err") + MetricValue.Render(fmt.Sprintf("%.3e", drift)) + "\n")
	s.WriteString(MetricLabel.Render("Temp") + MetricValue.Render(fmt.Sprintf("%.4f", m.temperature)) + "\n")

	s.WriteString(helpStyle.Render(Separator(30)) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Reset Q:Quit T:Theme") + "\n")
	s.WriteString(KeyHint.Render("xyz:Rotate +-:Zoom <>:Speed"))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run starts the live view and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Time() float64       { return m.t }
func (m Model) Steps() int          { return m.steps }
func (m Model) Running() bool       { return m.running }
func (m Model) Done() bool          { return m.done }
func (m Model) State() dynamo.State { return m.state }
