package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUndoContextMatchesItselfOnly(t *testing.T) {
	a := NewUndoContext("a")
	b := NewUndoContext("b")

	assert.True(t, a.Matches(a))
	assert.False(t, a.Matches(b))
	assert.Equal(t, "a", a.Label())
}

func TestGlobalContextMatchesEverything(t *testing.T) {
	assert.True(t, GlobalContext.Matches(NewUndoContext("anything")))
	assert.True(t, GlobalContext.Matches(GlobalContext))
}

func TestObjectUndoContextMatchSet(t *testing.T) {
	doc := &struct{ name string }{"doc"}
	object := NewObjectUndoContext(doc, "document")
	other := NewUndoContext("other")

	assert.False(t, object.Matches(other))

	// The match set is one-directional.
	object.AddMatch(other)
	assert.True(t, object.Matches(other))
	assert.False(t, other.Matches(object))

	object.RemoveMatch(other)
	assert.False(t, object.Matches(other))
}

func TestObjectUndoContextSameObject(t *testing.T) {
	doc := &struct{ name string }{"doc"}
	first := NewObjectUndoContext(doc, "first")
	second := NewObjectUndoContext(doc, "second")
	unrelated := NewObjectUndoContext(&struct{ name string }{"other"}, "third")

	assert.True(t, first.Matches(second))
	assert.True(t, second.Matches(first))
	assert.False(t, first.Matches(unrelated))

	assert.Equal(t, doc, first.Object())
}

func TestHasContextCompensatesForAsymmetry(t *testing.T) {
	plain := NewUndoContext("plain")
	object := NewObjectUndoContext(&struct{}{}, "object")
	object.AddMatch(plain)

	op := NewOperation("op")
	op.AddContext(plain)

	// plain.Matches(object) is false, but object.Matches(plain) holds,
	// and HasContext tests both directions.
	assert.False(t, plain.Matches(object))
	assert.True(t, op.HasContext(object))
	assert.False(t, op.HasContext(NewUndoContext("unrelated")))
}

func TestOperationContextSet(t *testing.T) {
	a := NewUndoContext("a")
	b := NewUndoContext("b")

	op := NewOperation("op")
	op.AddContext(a)
	op.AddContext(b)
	op.AddContext(a) // duplicate, ignored

	assert.Equal(t, []UndoContext{a, b}, op.Contexts())

	op.RemoveContext(a)
	assert.Equal(t, []UndoContext{b}, op.Contexts())
}
