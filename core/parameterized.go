package core

import (
	"fmt"
	"strings"
)

// ParameterizedCommand is a command bound to concrete parameter values.
// The parameterizations are filtered and reordered at construction time
// to match the command's declared parameter order, so two commands built
// from the same bindings in different order compare equal.
type ParameterizedCommand struct {
	command           *Command
	parameterizations []Parameterization
}

// NewParameterizedCommand binds a command to the given parameterizations.
// Bindings for parameters the command does not declare are dropped. The
// command must be defined when any parameterizations are supplied.
func NewParameterizedCommand(command *Command, parameterizations []Parameterization) (*ParameterizedCommand, error) {
	pc := &ParameterizedCommand{command: command}
	if len(parameterizations) == 0 {
		return pc, nil
	}
	declared, err := command.Parameters()
	if err != nil {
		return nil, err
	}
	for _, parameter := range declared {
		for _, p := range parameterizations {
			if p.Parameter.ID == parameter.ID {
				pc.parameterizations = append(pc.parameterizations, p)
				break
			}
		}
	}
	return pc, nil
}

// Command returns the underlying command.
func (pc *ParameterizedCommand) Command() *Command {
	return pc.command
}

// Parameterizations returns the bindings in declared parameter order.
func (pc *ParameterizedCommand) Parameterizations() []Parameterization {
	return pc.parameterizations
}

// ParameterMap flattens the bindings into an id→value map, as handed to
// handlers through the ExecutionEvent. Value-less bindings are skipped.
func (pc *ParameterizedCommand) ParameterMap() map[string]string {
	values := make(map[string]string, len(pc.parameterizations))
	for _, p := range pc.parameterizations {
		if p.Value != nil {
			values[p.Parameter.ID] = *p.Value
		}
	}
	return values
}

// Name returns a display name: the command name followed by the bound
// parameter names and values.
func (pc *ParameterizedCommand) Name() (string, error) {
	name, err := pc.command.Name()
	if err != nil {
		return "", err
	}
	if len(pc.parameterizations) == 0 {
		return name, nil
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(" (")
	for i, p := range pc.parameterizations {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Parameter.Name)
		if p.Value != nil {
			b.WriteString(": ")
			b.WriteString(*p.Value)
		}
	}
	b.WriteString(")")
	return b.String(), nil
}

// Equal reports whether two parameterized commands reference the same
// command with equal bindings.
func (pc *ParameterizedCommand) Equal(other *ParameterizedCommand) bool {
	if other == nil {
		return false
	}
	if pc.command != other.command {
		return false
	}
	if len(pc.parameterizations) != len(other.parameterizations) {
		return false
	}
	for i := range pc.parameterizations {
		if !pc.parameterizations[i].Equal(other.parameterizations[i]) {
			return false
		}
	}
	return true
}

// Serialize renders the command and its bindings in the escape grammar.
// The result survives reserved characters anywhere in ids and values and
// round-trips through Manager.Deserialize as long as every referenced
// parameter id is still declared on the command.
//
// A nil value serializes without an "=", an empty value with a trailing
// "=": the two are distinct on the wire.
func (pc *ParameterizedCommand) Serialize() string {
	escapedID := Escape(pc.command.ID())
	if len(pc.parameterizations) == 0 {
		return escapedID
	}
	var b strings.Builder
	b.WriteString(escapedID)
	b.WriteByte(parameterStartChar)
	for i, p := range pc.parameterizations {
		if i > 0 {
			b.WriteByte(parameterSeparator)
		}
		b.WriteString(Escape(p.Parameter.ID))
		if p.Value != nil {
			b.WriteByte(idValueChar)
			b.WriteString(Escape(*p.Value))
		}
	}
	b.WriteByte(parameterEndChar)
	return b.String()
}

// GenerateCombinations expands a command into every parameterized
// command representing a legal assignment of enumerable values to its
// parameters. Optional parameters additionally contribute an implicit
// absent choice. A parameter whose values provider fails is skipped
// entirely rather than aborting the expansion. A command with no
// parameters yields exactly one unparameterized result.
//
// The expansion is combinatorial in parameters × values; it is meant for
// small parameter spaces such as populating pickers.
func GenerateCombinations(command *Command) ([]*ParameterizedCommand, error) {
	parameters, err := command.Parameters()
	if err != nil {
		return nil, err
	}

	// Per-parameter choice lists; a nil entry inside a list is the
	// absent choice.
	choices := make([][]*Parameterization, 0, len(parameters))
	for i := range parameters {
		parameter := parameters[i]
		values, err := parameter.ParameterValues()
		if err != nil {
			// Values unavailable: this parameter contributes nothing.
			choices = append(choices, []*Parameterization{nil})
			continue
		}
		list := make([]*Parameterization, 0, len(values)+1)
		for _, value := range values {
			p := NewParameterization(parameter, value)
			list = append(list, &p)
		}
		if parameter.Optional {
			list = append(list, nil)
		}
		choices = append(choices, list)
	}

	assignments := [][]Parameterization{nil}
	for _, list := range choices {
		next := make([][]Parameterization, 0, len(assignments)*len(list))
		for _, assignment := range assignments {
			for _, choice := range list {
				if choice == nil {
					next = append(next, assignment)
					continue
				}
				extended := make([]Parameterization, len(assignment), len(assignment)+1)
				copy(extended, assignment)
				next = append(next, append(extended, *choice))
			}
		}
		assignments = next
	}

	results := make([]*ParameterizedCommand, 0, len(assignments))
	for _, assignment := range assignments {
		pc, err := NewParameterizedCommand(command, assignment)
		if err != nil {
			return nil, err
		}
		if !containsEqual(results, pc) {
			results = append(results, pc)
		}
	}
	return results, nil
}

func containsEqual(list []*ParameterizedCommand, pc *ParameterizedCommand) bool {
	for _, existing := range list {
		if existing.Equal(pc) {
			return true
		}
	}
	return false
}

// MakeParameterizations is a convenience for building bindings from an
// id→value map against a command's declared parameters. Unknown ids are
// reported as errors since the caller named them explicitly.
func MakeParameterizations(command *Command, values map[string]string) ([]Parameterization, error) {
	var parameterizations []Parameterization
	for id, value := range values {
		parameter, err := command.Parameter(id)
		if err != nil {
			return nil, err
		}
		if parameter == nil {
			return nil, fmt.Errorf("command %q has no parameter %q", command.ID(), id)
		}
		parameterizations = append(parameterizations, NewParameterization(*parameter, value))
	}
	return parameterizations, nil
}
