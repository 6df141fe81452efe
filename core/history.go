package core

import "fmt"

const defaultHistoryLimit = 20

// OperationHistory is the default History implementation: undo and redo
// stacks of undoable operations, filtered by undo context. It also acts
// as the open/close collaborator for composite operations, folding
// operations added while a composite is open into that composite as
// children.
//
// Single-threaded like the rest of the framework; all calls are expected
// on one logical host thread.
type OperationHistory struct {
	undoStack []UndoableOperation
	redoStack []UndoableOperation
	limit     int

	// open operations, innermost last; only the outermost one collects.
	openOperations []UndoableOperation

	updateSignal chan Signal
}

// NewOperationHistory creates an empty history with the default limit.
func NewOperationHistory() *OperationHistory {
	return &OperationHistory{
		limit:        defaultHistoryLimit,
		updateSignal: make(chan Signal, 100),
	}
}

// SetLimit caps how many operations the undo stack retains. The oldest
// operations beyond the limit are disposed.
func (h *OperationHistory) SetLimit(limit int) {
	if limit < 1 {
		limit = 1
	}
	h.limit = limit
	h.enforceLimit()
}

// GetUpdateSignalChan returns the channel carrying history signals for
// host consumption.
func (h *OperationHistory) GetUpdateSignalChan() <-chan Signal {
	return h.updateSignal
}

// Add records an executed operation as undoable. While a composite
// operation is open, the operation is folded into it as a child instead
// of landing on the stack. Adding flushes the redo stack for the
// operation's contexts, matching branching-history semantics.
func (h *OperationHistory) Add(op UndoableOperation) {
	if open := h.openComposite(); open != nil && open != op {
		open.Add(op)
		return
	}
	h.flushRedo(op)
	h.undoStack = append(h.undoStack, op)
	h.enforceLimit()
	dispatch(h.updateSignal, OperationAddedSignal{label: op.Label()})
}

func (h *OperationHistory) openComposite() *TriggeredOperations {
	if len(h.openOperations) == 0 {
		return nil
	}
	if t, ok := h.openOperations[0].(*TriggeredOperations); ok {
		return t
	}
	return nil
}

func (h *OperationHistory) flushRedo(op UndoableOperation) {
	kept := h.redoStack[:0]
	for _, redo := range h.redoStack {
		matched := false
		for _, ctx := range op.Contexts() {
			if redo.HasContext(ctx) {
				matched = true
				break
			}
		}
		if matched {
			redo.Dispose()
		} else {
			kept = append(kept, redo)
		}
	}
	h.redoStack = kept
}

func (h *OperationHistory) enforceLimit() {
	for len(h.undoStack) > h.limit {
		h.undoStack[0].Dispose()
		h.undoStack = h.undoStack[1:]
	}
}

// Execute runs op through the history: on success the operation is
// recorded as undoable, otherwise it is disposed. Errors are forwarded.
func (h *OperationHistory) Execute(op UndoableOperation, progress Progress, info any) (Status, error) {
	if !op.CanExecute() {
		return NewErrorStatus(fmt.Sprintf("operation %q cannot execute", op.Label()), nil), nil
	}
	status, err := op.Execute(progress, info)
	if err != nil || !status.IsOK() {
		op.Dispose()
		return status, err
	}
	h.Add(op)
	return status, nil
}

// UndoOperation returns the operation that would be undone for ctx, or
// nil.
func (h *OperationHistory) UndoOperation(ctx UndoContext) UndoableOperation {
	return topMatch(h.undoStack, ctx)
}

// RedoOperation returns the operation that would be redone for ctx, or
// nil.
func (h *OperationHistory) RedoOperation(ctx UndoContext) UndoableOperation {
	return topMatch(h.redoStack, ctx)
}

func topMatch(stack []UndoableOperation, ctx UndoContext) UndoableOperation {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].HasContext(ctx) {
			return stack[i]
		}
	}
	return nil
}

// CanUndo reports whether an undoable operation exists for ctx.
func (h *OperationHistory) CanUndo(ctx UndoContext) bool {
	op := h.UndoOperation(ctx)
	return op != nil && op.CanUndo()
}

// CanRedo reports whether a redoable operation exists for ctx.
func (h *OperationHistory) CanRedo(ctx UndoContext) bool {
	op := h.RedoOperation(ctx)
	return op != nil && op.CanRedo()
}

// Undo reverses the most recent operation matching ctx. On success the
// operation moves to the redo stack; on failure it stays put and the
// failure is forwarded.
func (h *OperationHistory) Undo(ctx UndoContext, progress Progress, info any) (Status, error) {
	op := h.UndoOperation(ctx)
	if op == nil {
		return NewErrorStatus("nothing to undo", nil), nil
	}
	status, err := op.Undo(progress, info)
	if err == nil && status.IsOK() {
		h.removeFrom(&h.undoStack, op)
		h.redoStack = append(h.redoStack, op)
	}
	dispatch(h.updateSignal, UndoneSignal{label: op.Label(), status: status})
	return status, err
}

// Redo re-applies the most recent undone operation matching ctx.
func (h *OperationHistory) Redo(ctx UndoContext, progress Progress, info any) (Status, error) {
	op := h.RedoOperation(ctx)
	if op == nil {
		return NewErrorStatus("nothing to redo", nil), nil
	}
	status, err := op.Redo(progress, info)
	if err == nil && status.IsOK() {
		h.removeFrom(&h.redoStack, op)
		h.undoStack = append(h.undoStack, op)
	}
	dispatch(h.updateSignal, RedoneSignal{label: op.Label(), status: status})
	return status, err
}

func (h *OperationHistory) removeFrom(stack *[]UndoableOperation, op UndoableOperation) {
	for i, existing := range *stack {
		if existing == op {
			*stack = append((*stack)[:i], (*stack)[i+1:]...)
			return
		}
	}
}

// OpenOperation begins a composite transaction. Only the outermost open
// operation collects additions.
func (h *OperationHistory) OpenOperation(op UndoableOperation, mode HistoryMode) {
	h.openOperations = append(h.openOperations, op)
}

// CloseOperation ends the innermost composite transaction.
func (h *OperationHistory) CloseOperation(ok, canceled bool, mode HistoryMode) {
	if len(h.openOperations) == 0 {
		return
	}
	h.openOperations = h.openOperations[:len(h.openOperations)-1]
}

// ReplaceOperation substitutes op on whichever stack holds it with the
// given replacements, preserving position and order, then disposes op.
// Operations not present anywhere are simply disposed.
func (h *OperationHistory) ReplaceOperation(op UndoableOperation, replacements []UndoableOperation) {
	if !h.spliceInto(&h.undoStack, op, replacements) &&
		!h.spliceInto(&h.redoStack, op, replacements) {
		op.Dispose()
	}
	h.enforceLimit()
}

func (h *OperationHistory) spliceInto(stack *[]UndoableOperation, op UndoableOperation, replacements []UndoableOperation) bool {
	for i, existing := range *stack {
		if existing == op {
			next := make([]UndoableOperation, 0, len(*stack)-1+len(replacements))
			next = append(next, (*stack)[:i]...)
			next = append(next, replacements...)
			next = append(next, (*stack)[i+1:]...)
			*stack = next
			op.Dispose()
			return true
		}
	}
	return false
}

// Flush drops every operation matching ctx from both stacks, disposing
// them.
func (h *OperationHistory) Flush(ctx UndoContext) {
	h.undoStack = flushMatching(h.undoStack, ctx)
	h.redoStack = flushMatching(h.redoStack, ctx)
}

func flushMatching(stack []UndoableOperation, ctx UndoContext) []UndoableOperation {
	kept := stack[:0]
	for _, op := range stack {
		if !op.HasContext(ctx) {
			kept = append(kept, op)
			continue
		}
		if len(op.Contexts()) > 1 {
			// Operations tied to further domains lose the flushed
			// context but stay in the history.
			op.RemoveContext(ctx)
			kept = append(kept, op)
			continue
		}
		op.Dispose()
	}
	return kept
}
