package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOperation struct {
	Operation

	executeStatus Status
	executeErr    error
	undoStatus    Status
	undoErr       error
	redoStatus    Status
	redoErr       error

	onUndo func()

	executions int
	undos      int
	redos      int
	disposals  int
}

func newFakeOperation(label string, contexts ...UndoContext) *fakeOperation {
	op := &fakeOperation{Operation: NewOperation(label)}
	for _, ctx := range contexts {
		op.AddContext(ctx)
	}
	op.executeStatus = OKStatus
	op.undoStatus = OKStatus
	op.redoStatus = OKStatus
	return op
}

func (f *fakeOperation) Execute(progress Progress, info any) (Status, error) {
	f.executions++
	return f.executeStatus, f.executeErr
}

func (f *fakeOperation) Undo(progress Progress, info any) (Status, error) {
	f.undos++
	if f.onUndo != nil {
		f.onUndo()
	}
	return f.undoStatus, f.undoErr
}

func (f *fakeOperation) Redo(progress Progress, info any) (Status, error) {
	f.redos++
	return f.redoStatus, f.redoErr
}

func (f *fakeOperation) Dispose() {
	f.disposals++
}

type replacingOperation struct {
	fakeOperation
	replaced [][2]UndoContext
}

func (r *replacingOperation) ReplaceContext(original, replacement UndoContext) {
	r.replaced = append(r.replaced, [2]UndoContext{original, replacement})
	r.RemoveContext(original)
	r.AddContext(replacement)
}

type closeCall struct {
	ok       bool
	canceled bool
	mode     HistoryMode
}

type replaceCall struct {
	op           UndoableOperation
	replacements []UndoableOperation
}

type recordingHistory struct {
	opens    []HistoryMode
	closes   []closeCall
	replaces []replaceCall
}

func (h *recordingHistory) OpenOperation(op UndoableOperation, mode HistoryMode) {
	h.opens = append(h.opens, mode)
}

func (h *recordingHistory) CloseOperation(ok, canceled bool, mode HistoryMode) {
	h.closes = append(h.closes, closeCall{ok: ok, canceled: canceled, mode: mode})
}

func (h *recordingHistory) ReplaceOperation(op UndoableOperation, replacements []UndoableOperation) {
	h.replaces = append(h.replaces, replaceCall{op: op, replacements: replacements})
}

func TestTriggeredOperationsAggregatesContexts(t *testing.T) {
	ctxA := NewUndoContext("a")
	ctxB := NewUndoContext("b")
	ctxC := NewUndoContext("c")

	trigger := newFakeOperation("trigger", ctxA)
	composite := NewTriggeredOperations(trigger, &recordingHistory{})
	assert.Equal(t, []UndoContext{ctxA}, composite.Contexts())
	assert.Equal(t, "trigger", composite.Label())

	composite.Add(newFakeOperation("c1", ctxB, ctxA))
	composite.Add(newFakeOperation("c2", ctxC))

	// Union, insertion order, no duplicates.
	assert.Equal(t, []UndoContext{ctxA, ctxB, ctxC}, composite.Contexts())
}

func TestRemoveTriggerReplacesComposite(t *testing.T) {
	ctx := NewUndoContext("ctx")
	trigger := newFakeOperation("trigger", ctx)
	child1 := newFakeOperation("c1", ctx)
	child2 := newFakeOperation("c2", ctx)

	history := &recordingHistory{}
	composite := NewTriggeredOperations(trigger, history)
	composite.Add(child1)
	composite.Add(child2)

	composite.Remove(trigger)

	require.Len(t, history.replaces, 1)
	assert.Same(t, composite, history.replaces[0].op.(*TriggeredOperations))
	assert.Equal(t, []UndoableOperation{child1, child2}, history.replaces[0].replacements)

	// The promoted children are handed over intact; only the trigger is
	// disposed.
	assert.Equal(t, 0, child1.disposals)
	assert.Equal(t, 0, child2.disposals)
	assert.Equal(t, 1, trigger.disposals)

	assert.Nil(t, composite.Trigger())
	assert.Empty(t, composite.Children())
	assert.Empty(t, composite.Contexts())
}

func TestRemoveChildDisposesIt(t *testing.T) {
	ctxA := NewUndoContext("a")
	ctxB := NewUndoContext("b")
	trigger := newFakeOperation("trigger", ctxA)
	child := newFakeOperation("child", ctxB)

	history := &recordingHistory{}
	composite := NewTriggeredOperations(trigger, history)
	composite.Add(child)
	require.Equal(t, []UndoContext{ctxA, ctxB}, composite.Contexts())

	composite.Remove(child)

	assert.Equal(t, 1, child.disposals)
	assert.Empty(t, history.replaces)
	assert.Empty(t, composite.Children())
	assert.Equal(t, []UndoContext{ctxA}, composite.Contexts())
}

func TestExecuteDelegatesToTriggerOnly(t *testing.T) {
	ctx := NewUndoContext("ctx")
	trigger := newFakeOperation("trigger", ctx)
	child := newFakeOperation("child", ctx)

	history := &recordingHistory{}
	composite := NewTriggeredOperations(trigger, history)
	composite.Add(child)

	status, err := composite.Execute(NopProgress, nil)
	require.NoError(t, err)
	assert.True(t, status.IsOK())

	// Children are historical record, never replayed.
	assert.Equal(t, 1, trigger.executions)
	assert.Equal(t, 0, child.executions)

	assert.Equal(t, []HistoryMode{ModeExecute}, history.opens)
	assert.Equal(t, []closeCall{{ok: true, mode: ModeExecute}}, history.closes)
}

func TestExecuteClosesAsFailedBeforePropagating(t *testing.T) {
	ctx := NewUndoContext("ctx")
	trigger := newFakeOperation("trigger", ctx)
	trigger.executeErr = errors.New("handler blew up")
	trigger.executeStatus = NewErrorStatus("failed", trigger.executeErr)

	history := &recordingHistory{}
	composite := NewTriggeredOperations(trigger, history)

	_, err := composite.Execute(NopProgress, nil)
	require.Error(t, err)

	require.Len(t, history.closes, 1)
	assert.Equal(t, closeCall{ok: false, canceled: false, mode: ModeExecute}, history.closes[0])
}

func TestUndoRestoresChildrenOnFailure(t *testing.T) {
	ctx := NewUndoContext("ctx")
	trigger := newFakeOperation("trigger", ctx)
	child := newFakeOperation("child", ctx)

	history := &recordingHistory{}
	composite := NewTriggeredOperations(trigger, history)
	composite.Add(child)

	// A reentrant undo drops the child before reporting failure; the
	// composite puts it back.
	trigger.onUndo = func() {
		composite.children = nil
	}
	trigger.undoStatus = NewErrorStatus("undo failed", nil)

	status, err := composite.Undo(NopProgress, nil)
	require.NoError(t, err)
	assert.False(t, status.IsOK())

	assert.Equal(t, []UndoableOperation{child}, composite.Children())
	assert.Equal(t, []closeCall{{ok: false, mode: ModeUndo}}, history.closes)
}

func TestUndoKeepsMutationsOnSuccess(t *testing.T) {
	ctx := NewUndoContext("ctx")
	trigger := newFakeOperation("trigger", ctx)
	child := newFakeOperation("child", ctx)
	replacementChild := newFakeOperation("replacement", ctx)

	history := &recordingHistory{}
	composite := NewTriggeredOperations(trigger, history)
	composite.Add(child)

	trigger.onUndo = func() {
		composite.children = []UndoableOperation{replacementChild}
	}

	status, err := composite.Undo(NopProgress, nil)
	require.NoError(t, err)
	assert.True(t, status.IsOK())
	assert.Equal(t, []UndoableOperation{replacementChild}, composite.Children())
	assert.Equal(t, []closeCall{{ok: true, mode: ModeUndo}}, history.closes)
}

func TestRedoDelegatesAndBrackets(t *testing.T) {
	ctx := NewUndoContext("ctx")
	trigger := newFakeOperation("trigger", ctx)

	history := &recordingHistory{}
	composite := NewTriggeredOperations(trigger, history)

	status, err := composite.Redo(NopProgress, nil)
	require.NoError(t, err)
	assert.True(t, status.IsOK())
	assert.Equal(t, 1, trigger.redos)
	assert.Equal(t, []HistoryMode{ModeRedo}, history.opens)
	assert.Equal(t, []closeCall{{ok: true, mode: ModeRedo}}, history.closes)
}

func TestReplacedCompositeFailsSoft(t *testing.T) {
	ctx := NewUndoContext("ctx")
	trigger := newFakeOperation("trigger", ctx)

	history := &recordingHistory{}
	composite := NewTriggeredOperations(trigger, history)
	composite.Remove(trigger)

	for _, call := range []func(Progress, any) (Status, error){
		composite.Execute, composite.Undo, composite.Redo,
	} {
		status, err := call(NopProgress, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusError, status.Severity)
		assert.Equal(t, "operation invalid", status.Message)
	}

	// No further history traffic after the terminal state.
	assert.Empty(t, history.opens)
	assert.Empty(t, history.closes)
	assert.False(t, composite.CanExecute())
	assert.False(t, composite.CanUndo())
	assert.False(t, composite.CanRedo())
}

func TestRemoveContextStripsAndPrunes(t *testing.T) {
	ctxA := NewUndoContext("a")
	ctxB := NewUndoContext("b")

	trigger := newFakeOperation("trigger", ctxA, ctxB)
	orphan := newFakeOperation("orphan", ctxA)
	survivor := newFakeOperation("survivor", ctxA, ctxB)

	history := &recordingHistory{}
	composite := NewTriggeredOperations(trigger, history)
	composite.Add(orphan)
	composite.Add(survivor)

	composite.RemoveContext(ctxA)

	// The orphan's only context was stripped, so it left the composite.
	assert.Equal(t, 1, orphan.disposals)
	assert.Equal(t, []UndoableOperation{survivor}, composite.Children())
	assert.Equal(t, []UndoContext{ctxB}, trigger.Contexts())
	assert.Equal(t, []UndoContext{ctxB}, survivor.Contexts())
	assert.Equal(t, []UndoContext{ctxB}, composite.Contexts())
	assert.Empty(t, history.replaces)
}

func TestRemoveContextPromotesTrigger(t *testing.T) {
	ctxA := NewUndoContext("a")
	ctxB := NewUndoContext("b")

	trigger := newFakeOperation("trigger", ctxA)
	orphan := newFakeOperation("orphan", ctxA)
	survivor := newFakeOperation("survivor", ctxA, ctxB)

	history := &recordingHistory{}
	composite := NewTriggeredOperations(trigger, history)
	composite.Add(orphan)
	composite.Add(survivor)

	composite.RemoveContext(ctxA)

	// The orphaned child is removed and disposed in the same call, then
	// the trigger promotion dissolves the composite around the
	// remaining children.
	assert.Equal(t, 1, orphan.disposals)
	assert.Equal(t, 1, trigger.disposals)
	require.Len(t, history.replaces, 1)
	assert.Equal(t, []UndoableOperation{survivor}, history.replaces[0].replacements)
	assert.Equal(t, 0, survivor.disposals)
	assert.Nil(t, composite.Trigger())
}

func TestReplaceContext(t *testing.T) {
	original := NewUndoContext("original")
	replacement := NewUndoContext("replacement")

	trigger := newFakeOperation("trigger", original)
	plain := newFakeOperation("plain", original)
	capable := &replacingOperation{fakeOperation: *newFakeOperation("capable", original)}

	history := &recordingHistory{}
	composite := NewTriggeredOperations(trigger, history)
	composite.Add(plain)
	composite.Add(capable)

	composite.ReplaceContext(original, replacement)

	assert.Equal(t, []UndoContext{replacement}, trigger.Contexts())
	assert.Equal(t, []UndoContext{replacement}, plain.Contexts())
	assert.Equal(t, []UndoContext{replacement}, capable.Contexts())

	// The capability was used instead of remove+add.
	require.Len(t, capable.replaced, 1)
	assert.Equal(t, original, capable.replaced[0][0])
	assert.Equal(t, replacement, capable.replaced[0][1])

	assert.Equal(t, []UndoContext{replacement}, composite.Contexts())
}
