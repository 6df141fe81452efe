package core

import "fmt"

// ValuesProvider supplies the legal values of a command parameter as a
// display-name to value mapping. Implementations may fail if the values
// cannot be computed; such failures are reported as ErrValuesUnavailable.
type ValuesProvider interface {
	ParameterValues() (map[string]string, error)
}

// Parameter describes one declared parameter of a command.
type Parameter struct {
	// ID identifies the parameter within its command. Used as the key in
	// the serialization grammar.
	ID string

	// Name is the human-readable name shown in pickers and palettes.
	Name string

	// Optional marks parameters that may be omitted from a
	// parameterization.
	Optional bool

	// Values provides the enumerable values of the parameter, if any.
	Values ValuesProvider
}

// ParameterValues resolves the parameter's value provider. A missing or
// failing provider yields ErrValuesUnavailable.
func (p Parameter) ParameterValues() (map[string]string, error) {
	if p.Values == nil {
		return nil, fmt.Errorf("%w: parameter %q has no values provider", ErrValuesUnavailable, p.ID)
	}
	values, err := p.Values.ParameterValues()
	if err != nil {
		return nil, fmt.Errorf("%w: parameter %q: %v", ErrValuesUnavailable, p.ID, err)
	}
	return values, nil
}

// Parameterization binds one declared parameter to a concrete value. A
// nil value is distinct from an empty string: nil means the parameter
// carries no value at all, which the serialization grammar renders
// without an "=" sign.
type Parameterization struct {
	Parameter Parameter
	Value     *string
}

// NewParameterization binds a parameter to a value.
func NewParameterization(parameter Parameter, value string) Parameterization {
	return Parameterization{Parameter: parameter, Value: &value}
}

// Equal reports whether two parameterizations bind the same parameter id
// to the same value.
func (p Parameterization) Equal(other Parameterization) bool {
	if p.Parameter.ID != other.Parameter.ID {
		return false
	}
	if p.Value == nil || other.Value == nil {
		return p.Value == other.Value
	}
	return *p.Value == *other.Value
}
