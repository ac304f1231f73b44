// Package ui renders the interactive workspace: a tabbed editor, a
// transpiler preview pane and a player pane, driven by coordinator events.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sandpad/internal/coordinator"
)

// maxPlayerLines bounds the retained program output.
const maxPlayerLines = 200

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("6"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	detailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type eventMsg coordinator.Event
type outputMsg string
type streamClosedMsg struct{}

// Model is the Bubble Tea model for the workspace.
type Model struct {
	coord  *coordinator.Coordinator
	events <-chan coordinator.Event
	output <-chan string

	files    []string
	active   int
	pane     PaneKind
	editor   textarea.Model
	spinner  spinner.Model
	lastSent string

	pending   int
	lastEvent string
	outLines  []string

	width  int
	height int
}

// NewModel builds the workspace model around a started coordinator.
func NewModel(coord *coordinator.Coordinator, events <-chan coordinator.Event, output <-chan string) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Focus()

	m := &Model{
		coord:   coord,
		events:  events,
		output:  output,
		files:   coord.Files(),
		pane:    PaneEditor,
		editor:  ta,
		spinner: sp,
		width:   80,
		height:  24,
	}
	m.loadActiveFile()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent(), m.listenForOutput())
}

func (m *Model) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *Model) listenForOutput() tea.Cmd {
	return func() tea.Msg {
		line, ok := <-m.output
		if !ok {
			return streamClosedMsg{}
		}
		return outputMsg(line)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.switchFile(1)
			return m, nil
		case "shift+tab":
			m.switchFile(-1)
			return m, nil
		case "ctrl+p":
			m.pane = m.pane.next()
			return m, nil
		case "ctrl+r":
			m.coord.OnRunRequested()
			return m, nil
		case "ctrl+e":
			m.coord.ToggleDetails(!m.coord.Errors().ShowDetails)
			return m, nil
		}
		if m.pane == PaneEditor {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			m.submitIfEdited()
			return m, cmd
		}
		return m, nil

	case eventMsg:
		m.applyEvent(coordinator.Event(msg))
		return m, m.listenForEvent()

	case outputMsg:
		m.outLines = append(m.outLines, string(msg))
		if len(m.outLines) > maxPlayerLines {
			m.outLines = m.outLines[len(m.outLines)-maxPlayerLines:]
		}
		return m, m.listenForOutput()

	case streamClosedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.editor.SetWidth(msg.Width - 4)
		}
		if msg.Height > 0 {
			m.height = msg.Height
			m.editor.SetHeight(max(msg.Height-6, 3))
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	render, ok := paneRenderers[m.pane]
	if !ok {
		render = (*Model).renderEditor
	}
	b.WriteString(render(m))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m *Model) renderTabs() string {
	var tabs []string
	for i, name := range m.files {
		label := runewidth.Truncate(name, 24, "…")
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	pane := headerStyle.Render(fmt.Sprintf("[%s]", m.pane.Label()))
	return lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", pane)
}

func (m *Model) renderEditor() string {
	return m.editor.View()
}

func (m *Model) renderPreview() string {
	code, ok := m.coord.PreviewCode(m.activeFile())
	if !ok {
		return statusStyle.Render("(no preview output yet)")
	}
	return code
}

func (m *Model) renderPlayer() string {
	if len(m.outLines) == 0 {
		return statusStyle.Render("(no program output yet)")
	}
	return strings.Join(m.outLines, "\n")
}

func (m *Model) renderStatus() string {
	errs := m.coord.Errors()
	if errs.Compiler != nil {
		line := errorStyle.Render("compile error: " + errs.Compiler.Summary)
		if errs.ShowDetails {
			detail := errs.Compiler.Description
			if errs.Compiler.Line > 0 {
				detail = fmt.Sprintf("%s (line %d)", detail, errs.Compiler.Line)
			}
			line += "\n" + detailStyle.Render(detail)
		}
		return line
	}
	if errs.Runtime != nil {
		return errorStyle.Render("runtime error: " + errs.Runtime.Summary)
	}

	status := m.lastEvent
	if m.pending > 0 {
		status = fmt.Sprintf("%s compiling (%d pending)", m.spinner.View(), m.pending)
	} else if status == "" {
		status = "ready"
	}
	keys := "tab: file  ctrl+p: pane  ctrl+r: run  ctrl+e: details  ctrl+c: quit"
	return statusStyle.Render(runewidth.Truncate(status+"  │  "+keys, max(m.width-2, 20), "…"))
}

func (m *Model) applyEvent(ev coordinator.Event) {
	switch ev.Kind {
	case coordinator.EventSubmitted:
		m.pending++
	case coordinator.EventCompiled, coordinator.EventCompileFailed:
		if m.pending > 0 {
			m.pending--
		}
	case coordinator.EventRunTriggered:
		m.outLines = m.outLines[:0]
	}
	m.lastEvent = fmt.Sprintf("%s %s", ev.Kind, ev.Filename)
}

func (m *Model) activeFile() string {
	if len(m.files) == 0 {
		return ""
	}
	return m.files[m.active]
}

func (m *Model) switchFile(delta int) {
	if len(m.files) == 0 {
		return
	}
	m.active = (m.active + delta + len(m.files)) % len(m.files)
	m.loadActiveFile()
}

func (m *Model) loadActiveFile() {
	text, _ := m.coord.SourceText(m.activeFile())
	m.editor.SetValue(text)
	m.lastSent = text
}

// submitIfEdited ships the editor content to the coordinator when it changed.
func (m *Model) submitIfEdited() {
	v := m.editor.Value()
	if v == m.lastSent {
		return
	}
	m.lastSent = v
	m.coord.OnEdit(m.activeFile(), v)
}
