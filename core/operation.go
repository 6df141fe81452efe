package core

// UndoableOperation is the unit of undo/redo work: a labelled action
// scoped to a set of undo contexts, executed and reversed through an
// operation history.
type UndoableOperation interface {
	Label() string

	// Contexts returns the contexts the operation belongs to, in
	// insertion order without duplicates.
	Contexts() []UndoContext
	AddContext(ctx UndoContext)
	RemoveContext(ctx UndoContext)

	// HasContext reports whether the operation belongs to ctx, testing
	// the match predicate in both directions.
	HasContext(ctx UndoContext) bool

	CanExecute() bool
	CanUndo() bool
	CanRedo() bool

	Execute(progress Progress, info any) (Status, error)
	Undo(progress Progress, info any) (Status, error)
	Redo(progress Progress, info any) (Status, error)

	// Dispose releases resources when the operation leaves its history.
	Dispose()
}

// ContextReplacer is an optional capability: operations that can swap
// one context for another in a single step implement it, and composites
// delegate to it instead of doing remove+add.
type ContextReplacer interface {
	ReplaceContext(original, replacement UndoContext)
}

// Operation is the embeddable base for undoable operations. It carries
// the label and context set and answers the capability queries
// permissively; concrete operations override what they need.
type Operation struct {
	label    string
	contexts []UndoContext
}

// NewOperation creates a base operation with the given label.
func NewOperation(label string) Operation {
	return Operation{label: label}
}

func (o *Operation) Label() string {
	return o.label
}

// SetLabel replaces the display label.
func (o *Operation) SetLabel(label string) {
	o.label = label
}

func (o *Operation) Contexts() []UndoContext {
	return o.contexts
}

func (o *Operation) AddContext(ctx UndoContext) {
	for _, existing := range o.contexts {
		if existing == ctx {
			return
		}
	}
	o.contexts = append(o.contexts, ctx)
}

func (o *Operation) RemoveContext(ctx UndoContext) {
	for i, existing := range o.contexts {
		if existing == ctx {
			o.contexts = append(o.contexts[:i], o.contexts[i+1:]...)
			return
		}
	}
}

// HasContext matches in both directions: one side's rule may be coarser
// than the other's (a context matching everything tied to an object),
// and either direction is enough to claim membership.
func (o *Operation) HasContext(ctx UndoContext) bool {
	for _, existing := range o.contexts {
		if ctx.Matches(existing) || existing.Matches(ctx) {
			return true
		}
	}
	return false
}

func (o *Operation) CanExecute() bool { return true }

func (o *Operation) CanUndo() bool { return true }

func (o *Operation) CanRedo() bool { return true }

func (o *Operation) Dispose() {}
