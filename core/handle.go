package core

import "fmt"

// Handle is the base for identifiable framework objects (commands and
// categories). A handle is created undefined by the Manager on first
// reference; it becomes defined when its owning registry receives the
// full definition, and may be undefined again without losing its id.
type Handle struct {
	id      string
	defined bool
}

func newHandle(id string) Handle {
	return Handle{id: id}
}

// ID returns the identifier of the handle. The id never changes after
// construction.
func (h *Handle) ID() string {
	return h.id
}

// IsDefined reports whether the handle currently carries a definition.
func (h *Handle) IsDefined() bool {
	return h.defined
}

// checkDefined guards accessors that only make sense on a defined handle.
// kind names the concrete type for the error message.
func (h *Handle) checkDefined(kind string) error {
	if !h.defined {
		return fmt.Errorf("%w: %s %q", ErrNotDefined, kind, h.id)
	}
	return nil
}
