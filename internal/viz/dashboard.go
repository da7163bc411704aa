package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 300
)

var (
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives the simulation tick-by-tick and renders a live dashboard:
// a braille-dot floe map plus a stats panel (floe count, mean stress,
// energy drift, boundary occupancy).
type Model struct {
	driver  *sim.Driver
	canvas  *Canvas
	running bool

	initialEnergy float64
	energyHistory []float64
	quit          bool
}

// NewModel wraps an already-wired Driver for live display.
func NewModel(d *sim.Driver) Model {
	return Model{
		driver:        d,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		running:       true,
		initialEnergy: totalEnergy(d.Floes),
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running {
			m.driver.StepOnce()
			energy := totalEnergy(m.driver.Floes)
			m.energyHistory = append(m.energyHistory, energy)
			if len(m.energyHistory) > historyCapacity {
				m.energyHistory = m.energyHistory[1:]
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m Model) View() string {
	if m.quit {
		return ""
	}
	m.canvas.Clear()
	m.drawFloes()

	canvasView := m.canvas.String()
	stats := m.renderStats()

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(stats))
	help := helpStyle.Render("space: pause/resume   q: quit")
	return body + "\n" + help
}

func (m Model) drawFloes() {
	dom := m.driver.Domain
	w, h := dom.Width(), dom.Height()
	if w <= 0 || h <= 0 {
		return
	}
	subW := float64(canvasWidth * 2)
	subH := float64(canvasHeight * 4)
	for _, f := range m.driver.Floes {
		if f.IsGhost() {
			continue
		}
		x := int((f.Centroid.X - dom.West.Val) / w * subW)
		y := int((dom.North.Val - f.Centroid.Y) / h * subH)
		m.canvas.Set(x, y)
	}
}

func (m Model) renderStats() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("subzero — live run") + "\n\n")

	real := 0
	for _, f := range m.driver.Floes {
		if !f.IsGhost() {
			real++
		}
	}

	row := func(label string, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("step", fmt.Sprintf("%d", m.driver.Step))
	row("t", fmt.Sprintf("%.1f s", m.driver.T))
	row("floes", fmt.Sprintf("%d", real))

	energy := totalEnergy(m.driver.Floes)
	drift := 0.0
	if m.initialEnergy != 0 {
		drift = (energy - m.initialEnergy) / m.initialEnergy * 100
	}
	row("energy", fmt.Sprintf("%.3e", energy))
	row("energy drift", fmt.Sprintf("%.2f%%", drift))
	row("mean stress", fmt.Sprintf("%.3e", meanStressMagnitude(m.driver.Floes)))
	row("edge occupancy", fmt.Sprintf("%.1f%%", boundaryOccupancy(m.driver)*100))

	status := "running"
	if !m.running {
		status = "paused"
	}
	row("status", status)
	return b.String()
}

func totalEnergy(floes []*floe.Floe) float64 {
	var e float64
	for _, f := range floes {
		if f.IsGhost() {
			continue
		}
		e += 0.5 * f.Mass * (f.U*f.U + f.V*f.V)
		e += 0.5 * f.Moment * f.Xi * f.Xi
	}
	return e
}

func meanStressMagnitude(floes []*floe.Floe) float64 {
	var sum float64
	n := 0
	for _, f := range floes {
		if f.IsGhost() {
			continue
		}
		s1, s2 := f.StressAccum.Eigenvalues()
		sum += (abs(s1) + abs(s2)) / 2
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// boundaryOccupancy is the fraction of real floes whose centroid lies
// within 10% of the domain extent from any wall.
func boundaryOccupancy(d *sim.Driver) float64 {
	dom := d.Domain
	w, h := dom.Width(), dom.Height()
	marginX, marginY := 0.1*w, 0.1*h
	total, near := 0, 0
	for _, f := range d.Floes {
		if f.IsGhost() {
			continue
		}
		total++
		if f.Centroid.X-dom.West.Val < marginX || dom.East.Val-f.Centroid.X < marginX ||
			f.Centroid.Y-dom.South.Val < marginY || dom.North.Val-f.Centroid.Y < marginY {
			near++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(near) / float64(total)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
