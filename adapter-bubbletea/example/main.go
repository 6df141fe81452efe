package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	palette "github.com/ionut-t/gocommand/adapter-bubbletea"
	"github.com/ionut-t/gocommand/core"
)

const messageDuration = 3 * time.Second

// document is the editing domain the demo commands operate on.
type document struct {
	content string
}

// insertOperation appends text to the document and knows how to take it
// back out again.
type insertOperation struct {
	core.Operation
	doc  *document
	text string
}

func newInsertOperation(doc *document, ctx core.UndoContext, text string) *insertOperation {
	op := &insertOperation{
		Operation: core.NewOperation(fmt.Sprintf("insert %q", text)),
		doc:       doc,
		text:      text,
	}
	op.AddContext(ctx)
	return op
}

func (op *insertOperation) Execute(progress core.Progress, info any) (core.Status, error) {
	op.doc.content += op.text
	return core.OKStatus, nil
}

func (op *insertOperation) Undo(progress core.Progress, info any) (core.Status, error) {
	if !strings.HasSuffix(op.doc.content, op.text) {
		return core.NewErrorStatus("document changed since insert", nil), nil
	}
	op.doc.content = strings.TrimSuffix(op.doc.content, op.text)
	return core.OKStatus, nil
}

func (op *insertOperation) Redo(progress core.Progress, info any) (core.Status, error) {
	return op.Execute(progress, info)
}

// clearOperation empties the document, restoring the old content on
// undo.
type clearOperation struct {
	core.Operation
	doc      *document
	previous string
}

func newClearOperation(doc *document, ctx core.UndoContext) *clearOperation {
	op := &clearOperation{Operation: core.NewOperation("clear document"), doc: doc}
	op.AddContext(ctx)
	return op
}

func (op *clearOperation) Execute(progress core.Progress, info any) (core.Status, error) {
	op.previous = op.doc.content
	op.doc.content = ""
	return core.OKStatus, nil
}

func (op *clearOperation) Undo(progress core.Progress, info any) (core.Status, error) {
	op.doc.content = op.previous
	return core.OKStatus, nil
}

func (op *clearOperation) Redo(progress core.Progress, info any) (core.Status, error) {
	return op.Execute(progress, info)
}

// operationHandler adapts an operation-producing function into a
// command handler that runs the operation through the history.
type operationHandler struct {
	history *core.OperationHistory
	build   func(event core.ExecutionEvent) (core.UndoableOperation, error)
}

func (h *operationHandler) Execute(event core.ExecutionEvent) (any, error) {
	op, err := h.build(event)
	if err != nil {
		return nil, err
	}
	status, err := h.history.Execute(op, core.NopProgress, nil)
	if err != nil {
		return nil, err
	}
	if !status.IsOK() {
		return nil, errors.New(status.Message)
	}
	return nil, nil
}

func (h *operationHandler) IsEnabled() bool { return true }

func (h *operationHandler) IsHandled() bool { return true }

// copyHandler writes the document to the system clipboard. Copying
// mutates nothing, so it bypasses the history.
type copyHandler struct {
	doc *document
}

func (h *copyHandler) Execute(event core.ExecutionEvent) (any, error) {
	if err := clipboard.WriteAll(h.doc.content); err != nil {
		return nil, err
	}
	return len(h.doc.content), nil
}

func (h *copyHandler) IsEnabled() bool { return true }

func (h *copyHandler) IsHandled() bool { return true }

type textValues struct{}

func (textValues) ParameterValues() (map[string]string, error) {
	return map[string]string{
		"greeting": "hello, world\n",
		"shrug":    "¯\\_(ツ)_/¯\n",
	}, nil
}

func setup(doc *document, history *core.OperationHistory, ctx core.UndoContext) *core.Manager {
	manager := core.NewManager()

	category := manager.Category("document")
	category.Define("Document", "Commands operating on the demo document")

	insert := manager.Command("insert")
	insert.Define("Insert Text", "Appends text to the document", category, []core.Parameter{
		{ID: "text", Name: "Text", Values: textValues{}},
	})
	insert.SetHandler(&operationHandler{
		history: history,
		build: func(event core.ExecutionEvent) (core.UndoableOperation, error) {
			text, ok := event.Parameters["text"]
			if !ok {
				return nil, errors.New("missing text parameter")
			}
			return newInsertOperation(doc, ctx, text), nil
		},
	})

	clear := manager.Command("clear")
	clear.Define("Clear Document", "Empties the document", category, nil)
	clear.SetHandler(&operationHandler{
		history: history,
		build: func(event core.ExecutionEvent) (core.UndoableOperation, error) {
			return newClearOperation(doc, ctx), nil
		},
	})

	copyCmd := manager.Command("copy")
	copyCmd.Define("Copy Document", "Copies the document to the clipboard", category, nil)
	copyCmd.SetHandler(&copyHandler{doc: doc})

	return manager
}

type model struct {
	palette palette.Model
	doc     *document
}

func (m model) Init() tea.Cmd {
	return m.palette.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.palette.SetSize(msg.Width-4, (msg.Height-4)/2)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case palette.ExecutedMsg:
		if msg.Err != nil {
			return m, m.palette.DispatchError(msg.Err, messageDuration)
		}

	case palette.UndoneMsg:
		return m, m.palette.DispatchMessage("undone: "+msg.Label, messageDuration)

	case palette.RedoneMsg:
		return m, m.palette.DispatchMessage("redone: "+msg.Label, messageDuration)
	}

	var cmd tea.Cmd
	m.palette, cmd = m.palette.Update(msg)
	return m, cmd
}

func (m model) View() string {
	border := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return border.Render(m.palette.View()) + "\n" +
		border.Render("document:\n"+m.doc.content)
}

func main() {
	doc := &document{}
	ctx := core.NewObjectUndoContext(doc, "demo document")
	history := core.NewOperationHistory()
	manager := setup(doc, history, ctx)

	p := palette.New(manager, history, ctx, 80, 12)
	p.Focus()

	m := model{palette: p, doc: doc}

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("Error running Bubble Tea program: %v", err)
		os.Exit(1)
	}
}
