package core

// HistoryMode identifies which life-cycle call a history transaction
// brackets.
type HistoryMode int

const (
	ModeExecute HistoryMode = iota
	ModeUndo
	ModeRedo
)

func (m HistoryMode) String() string {
	switch m {
	case ModeExecute:
		return "execute"
	case ModeUndo:
		return "undo"
	case ModeRedo:
		return "redo"
	}
	return "unknown"
}

// History is the collaborator a composite operation reports to. Open and
// close calls are strictly paired per execute/undo/redo invocation; the
// API is sequential and not reentrancy-safe across concurrent calls on
// the same composite.
type History interface {
	OpenOperation(op UndoableOperation, mode HistoryMode)
	CloseOperation(ok, canceled bool, mode HistoryMode)

	// ReplaceOperation substitutes op wherever it is held with the given
	// replacements, transferring ownership of the replacements to the
	// history.
	ReplaceOperation(op UndoableOperation, replacements []UndoableOperation)
}

// TriggeredOperations is a composite operation binding one triggering
// operation to the side-effect operations recorded while it ran. The
// children are historical record only: execute, undo and redo delegate
// solely to the trigger, which is expected to reproduce the side effects
// itself.
//
// The composite is active while it has a trigger. Removing the trigger
// replaces the composite: the children are handed to the history as
// independent operations and the instance becomes inert.
type TriggeredOperations struct {
	Operation
	trigger  UndoableOperation
	children []UndoableOperation
	history  History
}

// NewTriggeredOperations wraps trigger into a composite reporting to
// history.
func NewTriggeredOperations(trigger UndoableOperation, history History) *TriggeredOperations {
	t := &TriggeredOperations{
		Operation: NewOperation(trigger.Label()),
		trigger:   trigger,
		history:   history,
	}
	t.recomputeContexts()
	return t
}

// Trigger returns the triggering operation, or nil once the composite
// has been replaced.
func (t *TriggeredOperations) Trigger() UndoableOperation {
	return t.trigger
}

// Children returns the recorded side-effect operations.
func (t *TriggeredOperations) Children() []UndoableOperation {
	return t.children
}

// recomputeContexts rebuilds the aggregate context set as the union of
// the trigger's and all children's contexts, preserving insertion order.
// The set is recomputed from scratch on every structural change rather
// than maintained incrementally.
func (t *TriggeredOperations) recomputeContexts() {
	t.contexts = nil
	if t.trigger != nil {
		for _, ctx := range t.trigger.Contexts() {
			t.AddContext(ctx)
		}
	}
	for _, child := range t.children {
		for _, ctx := range child.Contexts() {
			t.AddContext(ctx)
		}
	}
}

// Add appends a side-effect operation to the composite.
func (t *TriggeredOperations) Add(op UndoableOperation) {
	t.children = append(t.children, op)
	t.recomputeContexts()
}

// Remove detaches op from the composite. Removing the triggering
// operation dissolves the composite: the children are snapshotted before
// any disposal, the composite empties itself, the old trigger is
// disposed, and the history is asked to replace the composite with the
// snapshotted children as independent top-level operations. Removing a
// child disposes that child only.
func (t *TriggeredOperations) Remove(op UndoableOperation) {
	if op == t.trigger {
		children := t.children
		t.trigger = nil
		t.children = nil
		t.recomputeContexts()
		op.Dispose()
		t.history.ReplaceOperation(t, children)
		return
	}
	for i, child := range t.children {
		if child == op {
			t.children = append(t.children[:i], t.children[i+1:]...)
			child.Dispose()
			t.recomputeContexts()
			return
		}
	}
}

// RemoveContext strips ctx from the composite. If ctx is the trigger's
// only context the whole composite dissolves, since it cannot exist
// without at least one context tying it to its trigger. Children whose
// only context is ctx are removed and disposed rather than left
// context-less; children with further contexts just lose ctx.
func (t *TriggeredOperations) RemoveContext(ctx UndoContext) {
	recompute := false
	removeTrigger := false
	if t.trigger != nil && t.trigger.HasContext(ctx) {
		if len(t.trigger.Contexts()) == 1 {
			// The context removal still has to reach the children before
			// the composite dissolves.
			removeTrigger = true
		} else {
			t.trigger.RemoveContext(ctx)
			recompute = true
		}
	}
	for _, child := range append([]UndoableOperation(nil), t.children...) {
		if !child.HasContext(ctx) {
			continue
		}
		if len(child.Contexts()) == 1 {
			t.Remove(child)
		} else {
			child.RemoveContext(ctx)
			recompute = true
		}
	}
	if removeTrigger {
		// Terminal: Remove performs the final recompute as part of the
		// replacement transition.
		t.Remove(t.trigger)
		return
	}
	if recompute {
		t.recomputeContexts()
	}
}

// ReplaceContext swaps original for replacement on the trigger and every
// child that has it, delegating to the operation's own ContextReplacer
// capability when it implements one.
func (t *TriggeredOperations) ReplaceContext(original, replacement UndoContext) {
	if t.trigger != nil && t.trigger.HasContext(original) {
		replaceContext(t.trigger, original, replacement)
	}
	for _, child := range t.children {
		if child.HasContext(original) {
			replaceContext(child, original, replacement)
		}
	}
	t.recomputeContexts()
}

func replaceContext(op UndoableOperation, original, replacement UndoContext) {
	if replacer, ok := op.(ContextReplacer); ok {
		replacer.ReplaceContext(original, replacement)
		return
	}
	op.RemoveContext(original)
	op.AddContext(replacement)
}

func (t *TriggeredOperations) CanExecute() bool {
	return t.trigger != nil && t.trigger.CanExecute()
}

func (t *TriggeredOperations) CanUndo() bool {
	return t.trigger != nil && t.trigger.CanUndo()
}

func (t *TriggeredOperations) CanRedo() bool {
	return t.trigger != nil && t.trigger.CanRedo()
}

// Execute delegates to the triggering operation inside an open/close
// history bracket. The bracket is closed as failed on every error or
// panic exit before the failure propagates. A replaced composite
// reports the invalid status instead of raising.
func (t *TriggeredOperations) Execute(progress Progress, info any) (Status, error) {
	if t.trigger == nil {
		return invalidStatus, nil
	}
	t.history.OpenOperation(t, ModeExecute)
	closed := false
	defer func() {
		if !closed {
			t.history.CloseOperation(false, false, ModeExecute)
		}
	}()
	status, err := t.trigger.Execute(progress, info)
	if err != nil {
		return status, err
	}
	closed = true
	t.history.CloseOperation(status.IsOK(), false, ModeExecute)
	return status, nil
}

// Undo delegates to the triggering operation inside an open/close
// history bracket. The children are snapshotted beforehand and restored
// when the underlying call fails: they record operations that happened
// as a consequence of the trigger and must not silently vanish on a
// failed undo.
func (t *TriggeredOperations) Undo(progress Progress, info any) (Status, error) {
	return t.delegate(ModeUndo, progress, info)
}

// Redo mirrors Undo for the redo direction.
func (t *TriggeredOperations) Redo(progress Progress, info any) (Status, error) {
	return t.delegate(ModeRedo, progress, info)
}

func (t *TriggeredOperations) delegate(mode HistoryMode, progress Progress, info any) (Status, error) {
	if t.trigger == nil {
		return invalidStatus, nil
	}
	t.history.OpenOperation(t, mode)
	snapshot := append([]UndoableOperation(nil), t.children...)
	closed := false
	keepChildren := false
	defer func() {
		if !keepChildren {
			t.children = snapshot
			t.recomputeContexts()
		}
		if !closed {
			t.history.CloseOperation(false, false, mode)
		}
	}()
	var status Status
	var err error
	if mode == ModeUndo {
		status, err = t.trigger.Undo(progress, info)
	} else {
		status, err = t.trigger.Redo(progress, info)
	}
	if err != nil {
		return status, err
	}
	if status.IsOK() {
		keepChildren = true
	}
	closed = true
	t.history.CloseOperation(status.IsOK(), status.Severity == StatusCancel, mode)
	return status, nil
}

// Dispose releases the trigger and children still owned by the
// composite. Children promoted out via Remove(trigger) are not touched;
// ownership of those transferred to the history.
func (t *TriggeredOperations) Dispose() {
	if t.trigger != nil {
		t.trigger.Dispose()
	}
	for _, child := range t.children {
		child.Dispose()
	}
}
