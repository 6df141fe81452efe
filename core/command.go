package core

import "fmt"

// Handler is the polymorphic behaviour attached to a command. The
// framework owns command identity and life cycle; handlers own what a
// command actually does in the host application.
type Handler interface {
	// Execute performs the command. Failures are returned, never
	// panicked; the framework wraps them as execution failures.
	Execute(event ExecutionEvent) (any, error)

	// IsEnabled reports whether the handler can run right now.
	IsEnabled() bool

	// IsHandled reports whether the handler is a real implementation or
	// a placeholder.
	IsHandled() bool
}

// ExecutionEvent carries everything a handler receives when its command
// is executed.
type ExecutionEvent struct {
	// Command is the command being executed.
	Command *Command

	// Parameters maps parameter ids to the values of the triggering
	// parameterization. Parameters without a value are absent.
	Parameters map[string]string

	// Trigger is the host-supplied object that caused the execution
	// (a key event, a menu item), if any.
	Trigger any
}

// Command is a named, identifiable, potentially parameterized action.
// Commands are obtained from a Manager, which creates them undefined on
// first reference; Define supplies the actual definition.
type Command struct {
	Handle
	name        string
	description string
	category    *Category
	parameters  []Parameter
	handler     Handler

	manager *Manager
}

func newCommand(id string, manager *Manager) *Command {
	return &Command{Handle: newHandle(id), manager: manager}
}

// Define supplies the command's definition. A command may be re-defined
// repeatedly; each call replaces the previous definition wholesale.
func (c *Command) Define(name, description string, category *Category, parameters []Parameter) {
	c.name = name
	c.description = description
	c.category = category
	c.parameters = parameters
	c.defined = true
	if c.manager != nil {
		c.manager.commandDefined(c)
	}
}

// Undefine clears all defined-only state. The command (and its id)
// persists in the registry and can be defined again later. The attached
// handler is released.
func (c *Command) Undefine() {
	c.name = ""
	c.description = ""
	c.category = nil
	c.parameters = nil
	c.handler = nil
	c.defined = false
	if c.manager != nil {
		c.manager.commandUndefined(c)
	}
}

// SetHandler attaches the handler invoked by Execute. A nil handler
// makes the command unhandled.
func (c *Command) SetHandler(handler Handler) {
	c.handler = handler
}

// Handler returns the currently attached handler, if any.
func (c *Command) Handler() Handler {
	return c.handler
}

func (c *Command) Name() (string, error) {
	if err := c.checkDefined("command"); err != nil {
		return "", err
	}
	return c.name, nil
}

func (c *Command) Description() (string, error) {
	if err := c.checkDefined("command"); err != nil {
		return "", err
	}
	return c.description, nil
}

func (c *Command) Category() (*Category, error) {
	if err := c.checkDefined("command"); err != nil {
		return nil, err
	}
	return c.category, nil
}

// Parameters returns the declared parameters in declaration order. The
// returned slice is shared; callers must not mutate it.
func (c *Command) Parameters() ([]Parameter, error) {
	if err := c.checkDefined("command"); err != nil {
		return nil, err
	}
	return c.parameters, nil
}

// Parameter looks up a declared parameter by id. A nil result with nil
// error means the id is unknown to this command.
func (c *Command) Parameter(id string) (*Parameter, error) {
	parameters, err := c.Parameters()
	if err != nil {
		return nil, err
	}
	for i := range parameters {
		if parameters[i].ID == id {
			return &parameters[i], nil
		}
	}
	return nil, nil
}

// IsHandled reports whether the command currently has a real handler.
func (c *Command) IsHandled() bool {
	return c.handler != nil && c.handler.IsHandled()
}

// IsEnabled reports whether the command's handler would accept an
// execution right now. Unhandled commands are never enabled.
func (c *Command) IsEnabled() bool {
	return c.handler != nil && c.handler.IsEnabled()
}

// Execute runs the command through its handler after checking the
// execution preconditions: the command must be defined, handled and
// enabled. Handler failures are wrapped as ErrExecution and forwarded,
// never swallowed.
func (c *Command) Execute(event ExecutionEvent) (any, error) {
	if err := c.checkDefined("command"); err != nil {
		return nil, err
	}
	if c.handler == nil || !c.handler.IsHandled() {
		return nil, fmt.Errorf("%w: command %q has no handler", ErrNotHandled, c.id)
	}
	if !c.handler.IsEnabled() {
		return nil, fmt.Errorf("%w: command %q", ErrNotEnabled, c.id)
	}
	event.Command = c
	result, err := c.handler.Execute(event)
	if err != nil {
		return result, fmt.Errorf("%w: command %q: %v", ErrExecution, c.id, err)
	}
	return result, nil
}
