package core

// UndoContext scopes operations to a logical editing domain. Matching is
// directional: a.Matches(b) need not imply b.Matches(a). Callers that
// want symmetric behaviour test both directions, as
// Operation.HasContext does.
type UndoContext interface {
	Label() string
	Matches(other UndoContext) bool
}

type undoContext struct {
	label string
}

// NewUndoContext creates a context that matches only itself.
func NewUndoContext(label string) UndoContext {
	return &undoContext{label: label}
}

func (c *undoContext) Label() string {
	return c.label
}

func (c *undoContext) Matches(other UndoContext) bool {
	return UndoContext(c) == other
}

type globalContext struct{}

func (globalContext) Label() string { return "global" }

func (globalContext) Matches(UndoContext) bool { return true }

// GlobalContext matches every context; operations carrying it belong to
// every editing domain.
var GlobalContext UndoContext = globalContext{}

// ObjectUndoContext scopes operations to a specific host object (a
// document, a buffer) and optionally to an explicit set of further
// contexts it agrees to match. The match set is one-directional: adding
// b to a's match set does not make b match a.
type ObjectUndoContext struct {
	object  any
	label   string
	matches []UndoContext
}

// NewObjectUndoContext creates a context representing object.
func NewObjectUndoContext(object any, label string) *ObjectUndoContext {
	return &ObjectUndoContext{object: object, label: label}
}

func (c *ObjectUndoContext) Label() string {
	return c.label
}

// Object returns the represented host object.
func (c *ObjectUndoContext) Object() any {
	return c.object
}

// AddMatch declares that this context matches other. The relation is
// not reflected onto other.
func (c *ObjectUndoContext) AddMatch(other UndoContext) {
	for _, existing := range c.matches {
		if existing == other {
			return
		}
	}
	c.matches = append(c.matches, other)
}

// RemoveMatch withdraws a previously declared match.
func (c *ObjectUndoContext) RemoveMatch(other UndoContext) {
	for i, existing := range c.matches {
		if existing == other {
			c.matches = append(c.matches[:i], c.matches[i+1:]...)
			return
		}
	}
}

// Matches checks the explicit match set first, then whether other
// represents the same object, before falling back to identity.
func (c *ObjectUndoContext) Matches(other UndoContext) bool {
	for _, existing := range c.matches {
		if existing == other {
			return true
		}
	}
	if oc, ok := other.(*ObjectUndoContext); ok && oc.object == c.object {
		return true
	}
	return UndoContext(c) == other
}
