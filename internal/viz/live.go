// Package viz renders the controller live in the terminal: the output
// membership curves with the current aggregation overlaid, the
// temperature history against the target, and the per-step telemetry.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fuzzytherm/internal/fuzzy"
	"github.com/san-kum/fuzzytherm/internal/loop"
)

const (
	graphWidth    = 70
	graphHeight   = 10
	historyHeight = 8
)

type TickMsg time.Time

// Model contains the control loop, the cached diagnostic curves, and
// the UI state.
type Model struct {
	loop   *loop.Loop
	engine *fuzzy.Engine
	skew   time.Duration

	cooler   []float64
	noChange []float64
	heater   []float64

	last    loop.Telemetry
	stepped bool
	paused  bool

	entering bool
	input    string
	status   string
}

// NewModel initializes the live view. The skew rate paces the
// simulation ticks.
func NewModel(l *loop.Loop, engine *fuzzy.Engine, skew time.Duration) Model {
	if skew <= 0 {
		skew = 100 * time.Millisecond
	}
	return Model{
		loop:     l,
		engine:   engine,
		skew:     skew,
		cooler:   engine.Curve(fuzzy.Cooler),
		noChange: engine.Curve(fuzzy.NoChange),
		heater:   engine.Curve(fuzzy.Heater),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.skew, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation on each tick.
// Target changes are applied between steps, never mid-step.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.entering {
			return m.updateTargetEntry(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "c":
			m.entering = true
			m.input = ""
			m.status = ""
		case "r":
			m.loop.Reset()
			m.stepped = false
			m.status = ""
		}
	case TickMsg:
		if !m.paused {
			m.last = m.loop.Step()
			m.stepped = true
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) updateTargetEntry(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		cmd, err := loop.ParseTarget(m.input)
		if err != nil {
			m.status = fmt.Sprintf("invalid target %q, keeping %.2f", m.input, m.snapshotTarget())
		} else {
			m.loop.SetTarget(cmd.Target)
			m.status = fmt.Sprintf("target set to %.2f", cmd.Target)
		}
		m.entering = false
		m.input = ""
	case "esc":
		m.entering = false
		m.input = ""
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		s := msg.String()
		if len(s) == 1 && (s[0] == '-' || s[0] == '.' || (s[0] >= '0' && s[0] <= '9')) {
			m.input += s
		}
	}
	return m
}

func (m Model) snapshotTarget() float64 {
	return m.loop.Snapshot().Target
}

// View renders the two plot panels and the stats sidebar.
func (m Model) View() string {
	s := m.loop.Snapshot()

	agg := m.loop.Aggregation()
	if agg == nil {
		agg = make([]float64, len(m.cooler))
	}

	curves := asciigraph.PlotMany(
		[][]float64{m.cooler, m.noChange, m.heater, agg},
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Yellow, asciigraph.Red, asciigraph.White),
		asciigraph.SeriesLegends("cooler", "no_change", "heater", "aggregation"),
		asciigraph.Caption("output universe"),
	)

	history := asciigraph.Plot(s.History,
		asciigraph.Height(historyHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption(fmt.Sprintf("environment temperature (target %.2f)", s.Target)),
	)

	graphs := lipgloss.JoinVertical(lipgloss.Left,
		graphStyle.Render(curves),
		graphStyle.Render(history),
	)

	header := headerStyle.Render(
		fmt.Sprintf("fuzzytherm  target %.2f°C  current %.2f°C", s.Target, s.Environment))

	main := lipgloss.JoinHorizontal(lipgloss.Top, graphs, m.statsPanel(s))

	help := "space pause · c change target · r reset · q quit"
	if m.paused {
		help = "paused · " + help
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(main)
	b.WriteString("\n")
	if m.entering {
		b.WriteString(promptStyle.Render(fmt.Sprintf("new target: %s_", m.input)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (m Model) statsPanel(s loop.State) string {
	action := "—"
	if m.stepped {
		action = m.last.Action.String()
	}

	rows := []struct {
		label string
		value string
	}{
		{"step", fmt.Sprintf("%d", m.loop.Steps())},
		{"target", fmt.Sprintf("%.2f °C", s.Target)},
		{"current", fmt.Sprintf("%.2f °C", s.Environment)},
		{"error", fmt.Sprintf("%.2f", s.CurrentError)},
		{"error-dot", fmt.Sprintf("%.2f", s.ChangeInError)},
		{"cog", fmt.Sprintf("%.2f", s.Crisp)},
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row.label))
		b.WriteString(valueStyle.Render(row.value))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("action"))
	b.WriteString(actionStyle.Render(action))
	return statsStyle.Render(b.String())
}
