package bubble_adapter

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/ionut-t/gocommand/core"
)

// Theme bundles the palette styles so hosts can restyle the component
// wholesale.
type Theme struct {
	TitleStyle      lipgloss.Style
	PromptStyle     lipgloss.Style
	LogStyle        lipgloss.Style
	MessageStyle    lipgloss.Style
	ErrorStyle      lipgloss.Style
	StatusLineStyle lipgloss.Style
	HintStyle       lipgloss.Style
}

var DefaultTheme = Theme{
	TitleStyle:      lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("255")).Padding(0, 1),
	PromptStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
	LogStyle:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	MessageStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	ErrorStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	StatusLineStyle: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("255")),
	HintStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

// ExecutedMsg is emitted to the host after each execution attempt.
type ExecutedMsg struct {
	ID  string
	Err error
}

// UndoneMsg is emitted after an undo driven by the palette.
type UndoneMsg struct {
	Label  string
	Status core.Status
}

// RedoneMsg is emitted after a redo driven by the palette.
type RedoneMsg struct {
	Label  string
	Status core.Status
}

type messageMsg string

type errMsg error

type clearMsg struct{}

type managerSignalMsg struct {
	signal core.Signal
}

type historySignalMsg struct {
	signal core.Signal
}

// Model is a Bubble Tea command palette over a command manager and an
// operation history. The input line accepts serialized parameterized
// commands ("save", "insert(text=hello %,world)"); undo and redo are
// bound to ctrl+z and ctrl+y, scoped to the model's undo context.
type Model struct {
	manager *core.Manager
	history *core.OperationHistory
	context core.UndoContext

	input    textinput.Model
	viewport viewport.Model
	log      []string

	width   int
	height  int
	theme   Theme
	message string
	err     error
	focused bool
}

// New creates a palette over manager and history. Undo and redo are
// scoped to ctx; pass core.GlobalContext for an unscoped palette.
func New(manager *core.Manager, history *core.OperationHistory, ctx core.UndoContext, width, height int) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "command"

	m := Model{
		manager:  manager,
		history:  history,
		context:  ctx,
		input:    input,
		viewport: viewport.New(width, max(1, height-3)),
		theme:    DefaultTheme,
	}
	m.SetSize(width, height)

	return m
}

// WithTheme allows setting a custom theme for the palette.
func (m *Model) WithTheme(theme Theme) {
	m.theme = theme
}

// SetSize resizes the palette.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(1, height-3)
	m.input.Width = max(1, width-len(m.input.Prompt)-1)
}

// Focus directs key input to the palette.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.input.Focus()
}

// Blur stops the palette from handling keys.
func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
}

// IsFocused reports whether the palette is handling keys.
func (m *Model) IsFocused() bool {
	return m.focused
}

// DispatchMessage shows a transient message in the palette.
func (m *Model) DispatchMessage(message string, duration time.Duration) tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return messageMsg(message) },
		dispatchClear(duration),
	)
}

// DispatchError shows a transient error in the palette.
func (m *Model) DispatchError(err error, duration time.Duration) tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return errMsg(err) },
		dispatchClear(duration),
	)
}

func dispatchClear(duration time.Duration) tea.Cmd {
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return clearMsg{}
	})
}

func (m Model) listenForManagerSignal() tea.Cmd {
	return func() tea.Msg {
		return managerSignalMsg{signal: <-m.manager.GetUpdateSignalChan()}
	}
}

func (m Model) listenForHistorySignal() tea.Cmd {
	return func() tea.Msg {
		return historySignalMsg{signal: <-m.history.GetUpdateSignalChan()}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listenForManagerSignal(), m.listenForHistorySignal())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			break
		}
		switch msg.String() {
		case "enter":
			if cmd := m.submit(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		case "tab":
			m.complete()
		case "ctrl+z":
			status, err := m.history.Undo(m.context, core.NopProgress, nil)
			cmds = append(cmds, m.reportOutcome("undo", status, err))
		case "ctrl+y":
			status, err := m.history.Redo(m.context, core.NopProgress, nil)
			cmds = append(cmds, m.reportOutcome("redo", status, err))
		}

	case managerSignalMsg:
		if cmd := m.handleManagerSignal(msg.signal); cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.listenForManagerSignal())

	case historySignalMsg:
		if cmd := m.handleHistorySignal(msg.signal); cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.listenForHistorySignal())

	case messageMsg:
		m.message = string(msg)
		m.err = nil

	case errMsg:
		m.message = ""
		m.err = msg

	case clearMsg:
		m.message = ""
		m.err = nil
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	m.viewport.SetContent(strings.Join(m.log, "\n"))
	m.viewport.GotoBottom()

	return m, tea.Batch(cmds...)
}

// submit deserializes and executes the typed command.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	m.input.Reset()

	pc, err := m.manager.Deserialize(text)
	if err != nil {
		return func() tea.Msg { return errMsg(err) }
	}
	// The outcome reaches the host through the manager's ExecutedSignal.
	if _, err := m.manager.Execute(pc, m); err == nil {
		m.appendLog("executed " + text)
	}
	return nil
}

// complete fills the input with the first defined command id matching
// the typed prefix.
func (m *Model) complete() {
	prefix := m.input.Value()
	for _, id := range m.manager.DefinedCommandIDs() {
		if strings.HasPrefix(id, prefix) {
			m.input.SetValue(id)
			m.input.CursorEnd()
			return
		}
	}
}

func (m *Model) reportOutcome(kind string, status core.Status, err error) tea.Cmd {
	if err != nil {
		return func() tea.Msg { return errMsg(err) }
	}
	if !status.IsOK() {
		m.appendLog(kind + " failed: " + status.Message)
		return nil
	}
	return nil
}

func (m *Model) handleManagerSignal(signal core.Signal) tea.Cmd {
	switch signal := signal.(type) {
	case core.CommandDefinedSignal:
		m.appendLog("command defined: " + signal.Value())
	case core.CommandUndefinedSignal:
		m.appendLog("command undefined: " + signal.Value())
	case core.ExecutedSignal:
		id, err := signal.Value()
		return func() tea.Msg { return ExecutedMsg{ID: id, Err: err} }
	}
	return nil
}

func (m *Model) handleHistorySignal(signal core.Signal) tea.Cmd {
	switch signal := signal.(type) {
	case core.OperationAddedSignal:
		m.appendLog("recorded: " + signal.Value())
	case core.UndoneSignal:
		label, status := signal.Value()
		m.appendLog("undone: " + label)
		return func() tea.Msg { return UndoneMsg{Label: label, Status: status} }
	case core.RedoneSignal:
		label, status := signal.Value()
		m.appendLog("redone: " + label)
		return func() tea.Msg { return RedoneMsg{Label: label, Status: status} }
	}
	return nil
}

func (m *Model) appendLog(line string) {
	m.log = append(m.log, m.theme.LogStyle.Render(truncate(line, m.width)))
	const maxLog = 200
	if len(m.log) > maxLog {
		m.log = m.log[len(m.log)-maxLog:]
	}
}

func (m Model) View() string {
	title := m.theme.TitleStyle.Render("commands")

	statusLine := m.statusLine()
	commandLine := m.input.View()

	if m.message != "" {
		commandLine = m.theme.MessageStyle.Render(m.message)
	}
	if m.err != nil {
		commandLine = m.theme.ErrorStyle.Render(m.err.Error())
	}

	return strings.Join([]string{
		title,
		m.viewport.View(),
		statusLine,
		commandLine,
	}, "\n")
}

func (m Model) statusLine() string {
	var parts []string
	if op := m.history.UndoOperation(m.context); op != nil {
		parts = append(parts, "undo: "+op.Label())
	}
	if op := m.history.RedoOperation(m.context); op != nil {
		parts = append(parts, "redo: "+op.Label())
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing to undo")
	}

	status := m.theme.StatusLineStyle.Render(truncate(strings.Join(parts, " | "), m.width))
	padding := m.width - lipgloss.Width(status)
	if padding > 0 {
		status += m.theme.StatusLineStyle.Render(strings.Repeat(" ", padding))
	}
	return status
}

// truncate cuts text to width grapheme clusters, appending an ellipsis
// when anything was dropped.
func truncate(text string, width int) string {
	if width <= 0 || uniseg.GraphemeClusterCount(text) <= width {
		return text
	}
	var b strings.Builder
	clusters := uniseg.NewGraphemes(text)
	count := 0
	for clusters.Next() && count < width-1 {
		b.WriteString(clusters.Str())
		count++
	}
	b.WriteString("…")
	return b.String()
}
