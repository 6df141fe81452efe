package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "plain", Escape("plain"))
	assert.Equal(t, "a%(b", Escape("a(b"))
	assert.Equal(t, "%(%)%=%,%%", Escape("()=,%"))
	assert.Equal(t, "%%%%", Escape("%%"))
}

func TestUnescapeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"a(b",
		"()=,%",
		"%%",
		"value with spaces, and (parens) = stuff % done",
		"%(",
	}
	for _, input := range inputs {
		escaped := Escape(input)
		unescaped, err := Unescape(escaped)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, input, unescaped)
	}
}

func TestUnescapeErrors(t *testing.T) {
	// Dangling escape at the end.
	_, err := Unescape("abc%")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialization)

	// Escape followed by a character outside the reserved set.
	_, err = Unescape("a%xb")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestUnescapedIndexOf(t *testing.T) {
	// Position 0 can never be escaped.
	assert.Equal(t, 0, unescapedIndexOf("(abc", '('))

	assert.Equal(t, 4, unescapedIndexOf("a%(b(c", '('))
	assert.Equal(t, -1, unescapedIndexOf("a%(b", '('))
	assert.Equal(t, -1, unescapedIndexOf("abc", '('))
}

func TestSerializeEscapesReservedCharacters(t *testing.T) {
	manager := NewManager()
	command := manager.Command("a(b")
	command.Define("Test", "", nil, []Parameter{{ID: "p1", Name: "P1"}})

	pc, err := NewParameterizedCommand(command, []Parameterization{
		NewParameterization(Parameter{ID: "p1"}, "x,y"),
	})
	require.NoError(t, err)

	// The separator is escaped with the marker, never percent-encoded.
	assert.Equal(t, "a%(b(p1=x%,y)", pc.Serialize())
}

func TestSerializeNilVersusEmptyValue(t *testing.T) {
	manager := NewManager()
	command := manager.Command("cmd")
	command.Define("Test", "", nil, []Parameter{{ID: "p1", Name: "P1"}})

	noValue, err := NewParameterizedCommand(command, []Parameterization{
		{Parameter: Parameter{ID: "p1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "cmd(p1)", noValue.Serialize())

	emptyValue, err := NewParameterizedCommand(command, []Parameterization{
		NewParameterization(Parameter{ID: "p1"}, ""),
	})
	require.NoError(t, err)
	assert.Equal(t, "cmd(p1=)", emptyValue.Serialize())
}

func TestDeserializeRoundTrip(t *testing.T) {
	manager := NewManager()
	command := manager.Command("a(b")
	command.Define("Test", "", nil, []Parameter{
		{ID: "p1", Name: "P1"},
		{ID: "p,2", Name: "P2"},
	})

	pc, err := NewParameterizedCommand(command, []Parameterization{
		NewParameterization(Parameter{ID: "p1"}, "x,y"),
		NewParameterization(Parameter{ID: "p,2"}, "100%"),
	})
	require.NoError(t, err)

	parsed, err := manager.Deserialize(pc.Serialize())
	require.NoError(t, err)
	assert.True(t, pc.Equal(parsed))
	assert.Same(t, command, parsed.Command())
}

func TestDeserializeWithoutParameters(t *testing.T) {
	manager := NewManager()
	pc, err := manager.Deserialize("some%(id")
	require.NoError(t, err)
	assert.Equal(t, "some(id", pc.Command().ID())
	assert.Empty(t, pc.Parameterizations())
}

func TestDeserializeUnbalancedParentheses(t *testing.T) {
	manager := NewManager()

	_, err := manager.Deserialize("cmd(p1=x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialization)

	// A trailing escaped parenthesis does not close the list.
	_, err = manager.Deserialize("cmd(p1=x%)")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestDeserializeEmptyCommandID(t *testing.T) {
	manager := NewManager()

	_, err := manager.Deserialize("")
	assert.ErrorIs(t, err, ErrSerialization)

	_, err = manager.Deserialize("(p1)")
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestDeserializeDropsUnknownParameters(t *testing.T) {
	manager := NewManager()
	command := manager.Command("cmd")
	command.Define("Test", "", nil, []Parameter{{ID: "known", Name: "Known"}})

	pc, err := manager.Deserialize("cmd(unknown=1,known=2)")
	require.NoError(t, err)
	require.Len(t, pc.Parameterizations(), 1)
	assert.Equal(t, "known", pc.Parameterizations()[0].Parameter.ID)
	assert.Equal(t, map[string]string{"known": "2"}, pc.ParameterMap())
}

func TestDeserializeValuelessAndEmptyParameters(t *testing.T) {
	manager := NewManager()
	command := manager.Command("cmd")
	command.Define("Test", "", nil, []Parameter{
		{ID: "p1", Name: "P1"},
		{ID: "p2", Name: "P2"},
	})

	pc, err := manager.Deserialize("cmd(p1,p2=)")
	require.NoError(t, err)
	require.Len(t, pc.Parameterizations(), 2)
	assert.Nil(t, pc.Parameterizations()[0].Value)
	require.NotNil(t, pc.Parameterizations()[1].Value)
	assert.Equal(t, "", *pc.Parameterizations()[1].Value)

	assert.Equal(t, "cmd(p1,p2=)", pc.Serialize())
}
