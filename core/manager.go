package core

import (
	"fmt"
	"log"
	"sort"
)

// Manager is the keyed registry of commands and categories. The first
// reference to an id creates an undefined handle; every later reference
// returns the same pointer, so handle equality is pointer identity
// within one manager.
//
// The manager also owns deserialization of parameterized commands, since
// only it can resolve command ids back to handles.
type Manager struct {
	commands   map[string]*Command
	categories map[string]*Category

	updateSignal chan Signal

	traceExecution bool
	logger         *log.Logger
}

// NewManager creates an empty registry.
func NewManager() *Manager {
	return &Manager{
		commands:     make(map[string]*Command),
		categories:   make(map[string]*Category),
		updateSignal: make(chan Signal, 100),
		logger:       log.Default(),
	}
}

// TraceExecution toggles logging of every command execution through the
// manager's logger.
func (m *Manager) TraceExecution(trace bool) {
	m.traceExecution = trace
}

// SetLogger replaces the logger used for execution tracing and dropped
// signal diagnostics. A nil logger restores the default.
func (m *Manager) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	m.logger = logger
}

// GetUpdateSignalChan returns the channel carrying registry and
// execution signals for host consumption.
func (m *Manager) GetUpdateSignalChan() <-chan Signal {
	return m.updateSignal
}

// Command returns the command registered under id, creating an undefined
// one on first reference. The id must be non-empty.
func (m *Manager) Command(id string) *Command {
	if id == "" {
		panic("core: command id must not be empty")
	}
	if command, ok := m.commands[id]; ok {
		return command
	}
	command := newCommand(id, m)
	m.commands[id] = command
	return command
}

// Category returns the category registered under id, creating an
// undefined one on first reference.
func (m *Manager) Category(id string) *Category {
	if id == "" {
		panic("core: category id must not be empty")
	}
	if category, ok := m.categories[id]; ok {
		return category
	}
	category := newCategory(id)
	m.categories[id] = category
	return category
}

// DefinedCommandIDs returns the sorted ids of all defined commands.
func (m *Manager) DefinedCommandIDs() []string {
	ids := make([]string, 0, len(m.commands))
	for id, command := range m.commands {
		if command.IsDefined() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// DefinedCategoryIDs returns the sorted ids of all defined categories.
func (m *Manager) DefinedCategoryIDs() []string {
	ids := make([]string, 0, len(m.categories))
	for id, category := range m.categories {
		if category.IsDefined() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) commandDefined(c *Command) {
	dispatch(m.updateSignal, CommandDefinedSignal{id: c.ID()})
}

func (m *Manager) commandUndefined(c *Command) {
	dispatch(m.updateSignal, CommandUndefinedSignal{id: c.ID()})
}

// Execute runs a parameterized command through its handler and
// dispatches an ExecutedSignal with the outcome. All precondition and
// handler failures are forwarded to the caller.
func (m *Manager) Execute(pc *ParameterizedCommand, trigger any) (any, error) {
	command := pc.Command()
	if m.traceExecution {
		m.logger.Printf("executing command %q", pc.Serialize())
	}
	result, err := command.Execute(ExecutionEvent{
		Parameters: pc.ParameterMap(),
		Trigger:    trigger,
	})
	dispatch(m.updateSignal, ExecutedSignal{id: command.ID(), err: err})
	if m.traceExecution && err != nil {
		m.logger.Printf("command %q failed: %v", command.ID(), err)
	}
	return result, err
}

// Deserialize parses the escape grammar back into a parameterized
// command:
//
//	escapedCommandId ['(' param (',' param)* ')']
//	param := escapedParamId ['=' escapedParamValue]
//
// The command id is resolved against this registry; parameter ids the
// command does not declare are dropped silently, a deliberate tolerance
// for serializations written by newer definitions. Unbalanced
// parentheses and bad escapes fail with ErrSerialization.
func (m *Manager) Deserialize(serialization string) (*ParameterizedCommand, error) {
	start := unescapedIndexOf(serialization, parameterStartChar)
	if start < 0 {
		id, err := Unescape(serialization)
		if err != nil {
			return nil, err
		}
		if id == "" {
			return nil, fmt.Errorf("%w: empty command id", ErrSerialization)
		}
		return NewParameterizedCommand(m.Command(id), nil)
	}

	if unescapedLastChar(serialization) != parameterEndChar {
		return nil, fmt.Errorf("%w: unbalanced parentheses in %q", ErrSerialization, serialization)
	}

	id, err := Unescape(serialization[:start])
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("%w: empty command id", ErrSerialization)
	}
	command := m.Command(id)

	body := serialization[start+1 : len(serialization)-1]
	var parameterizations []Parameterization
	if body != "" {
		for _, part := range splitUnescaped(body, parameterSeparator) {
			parameterization, ok, err := m.deserializeParameterization(command, part)
			if err != nil {
				return nil, err
			}
			if ok {
				parameterizations = append(parameterizations, parameterization)
			}
		}
	}
	return NewParameterizedCommand(command, parameterizations)
}

func (m *Manager) deserializeParameterization(command *Command, part string) (Parameterization, bool, error) {
	var rawID, rawValue string
	hasValue := false
	if i := unescapedIndexOf(part, idValueChar); i >= 0 {
		rawID, rawValue = part[:i], part[i+1:]
		hasValue = true
	} else {
		rawID = part
	}

	id, err := Unescape(rawID)
	if err != nil {
		return Parameterization{}, false, err
	}
	parameter, err := command.Parameter(id)
	if err != nil {
		return Parameterization{}, false, err
	}
	if parameter == nil {
		// Unknown parameter ids are tolerated, not an error.
		return Parameterization{}, false, nil
	}

	if !hasValue {
		return Parameterization{Parameter: *parameter}, true, nil
	}
	value, err := Unescape(rawValue)
	if err != nil {
		return Parameterization{}, false, err
	}
	return NewParameterization(*parameter, value), true, nil
}

// unescapedLastChar returns the final character of text unless it is
// escaped, in which case it returns 0.
func unescapedLastChar(text string) byte {
	if text == "" {
		return 0
	}
	// Count the run of escape markers before the last character; an odd
	// run means the last character is escaped.
	escapes := 0
	for i := len(text) - 2; i >= 0 && text[i] == escapeChar; i-- {
		escapes++
	}
	if escapes%2 == 1 {
		return 0
	}
	return text[len(text)-1]
}
