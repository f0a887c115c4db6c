// Package ui renders the batch progress display: one line per module,
// advancing through the emitter's stages, with an overall completion
// bar. Adapted from a bubbletea progress model re-staged for this
// pipeline.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Stage is one step of a module's emission pipeline.
type Stage uint8

const (
	StageQueued Stage = iota
	StageLowering
	StageReloping
	StageEmitting
	StageDone
	StageError
)

// Event reports one module's stage transition, sent on the channel passed
// to NewProgressModel.
type Event struct {
	Module string
	Stage Stage
}

type progressModel struct {
	title string
	events <-chan Event
	spinner spinner.Model
	prog progress.Model
	items []moduleItem
	index map[string]int
	width int
	done bool
}

type moduleItem struct {
	name string
	stage Stage
}

type eventMsg Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model rendering the emission
// progress of modules, one row each, reading transitions from events.
func NewProgressModel(title string, modules []string, events <-chan Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]moduleItem, 0, len(modules))
	index := make(map[string]int, len(modules))
	for i, name := range modules {
		items = append(items, moduleItem{name: name, stage: StageQueued})
		index[name] = i
	}
	return &progressModel{
		title: title,
		events: events,
		spinner: sp,
		prog: prog,
		items: items,
		index: index,
		width: 80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		name := truncate(item.name, nameWidth)
		status := stageLabel(item.stage)
		statusStyled := styleStatus(item.stage).Render(fmt.Sprintf("%12s", status))
		b.WriteString(fmt.Sprintf(" %s %s", statusStyled, name))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev Event) tea.Cmd {
	idx, ok := m.index[ev.Module]
	if !ok {
		return nil
	}
	m.items[idx].stage = ev.Stage

	total := 0.0
	for _, item := range m.items {
		total += progressFromStage(item.stage)
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func progressFromStage(stage Stage) float64 {
	switch stage {
	case StageQueued:
		return 0.0
	case StageLowering:
		return 0.3
	case StageReloping:
		return 0.6
	case StageEmitting:
		return 0.85
	case StageDone, StageError:
		return 1.0
	default:
		return 0.0
	}
}

func stageLabel(stage Stage) string {
	switch stage {
	case StageQueued:
		return "queued"
	case StageLowering:
		return "lowering"
	case StageReloping:
		return "relooping"
	case StageEmitting:
		return "emitting"
	case StageDone:
		return "done"
	case StageError:
		return "error"
	default:
		return ""
	}
}

func styleStatus(stage Stage) lipgloss.Style {
	switch stage {
	case StageDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case StageError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case StageLowering, StageReloping, StageEmitting:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
