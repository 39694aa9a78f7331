package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupSetAndUnset(t *testing.T) {
	t.Setenv("XISH_TEST_VAR", "hello")
	value, ok := Lookup("XISH_TEST_VAR")
	require.True(t, ok)
	require.Equal(t, "hello", value)

	_, ok = Lookup("XISH_TEST_VAR_DEFINITELY_UNSET")
	require.False(t, ok)
}

func TestIsNameRune(t *testing.T) {
	require.True(t, IsNameRune('a'))
	require.True(t, IsNameRune('Z'))
	require.True(t, IsNameRune('9'))
	require.False(t, IsNameRune('_'))
	require.False(t, IsNameRune(' '))
	require.False(t, IsNameRune('$'))
}

func TestExpandSubstitutesSetVariable(t *testing.T) {
	t.Setenv("XISHTESTHOME", "/home/xish")
	require.Equal(t, "/home/xish/bin", Expand("$XISHTESTHOME/bin"))
}

func TestExpandUnsetVariableBecomesEmpty(t *testing.T) {
	require.Equal(t, "/bin", Expand("$XISHTESTDEFINITELYUNSET/bin"))
}

func TestExpandDollarWithNoNameIsLiteral(t *testing.T) {
	require.Equal(t, "$", Expand("$"))
	require.Equal(t, "$ ", Expand("$ "))
	// The first '$' is followed by another '$' and stays literal; the second
	// starts a reference to the unset variable "b", which expands to empty.
	require.Equal(t, "a$", Expand("a$$b"))
}

func TestExpandPlainTextUnchanged(t *testing.T) {
	require.Equal(t, "hello world", Expand("hello world"))
}

func TestExpandMultipleReferences(t *testing.T) {
	t.Setenv("XISHTESTA", "foo")
	t.Setenv("XISHTESTB", "bar")
	require.Equal(t, "foo-bar", Expand("$XISHTESTA-$XISHTESTB"))
}

// Name scanning stops at the first non-alphanumeric rune, matching the
// reference implementation's isalnum-based name scan — an underscore ends
// the name rather than extending it.
func TestExpandNameStopsAtUnderscore(t *testing.T) {
	t.Setenv("XISHTESTUNDERSCORE", "ignored")
	require.Equal(t, "ignored_WORLD", Expand("$XISHTESTUNDERSCORE_WORLD"))
}
