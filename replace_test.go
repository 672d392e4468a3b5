package ahocorasick

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplacer_ReplaceAll(t *testing.T) {
	opts := DefaultOptions()
	opts.MatchKind = LeftMostLongestMatch
	ac, err := NewBuilder(opts).Build([]string{"apple", "maple", "snapple"})
	require.NoError(t, err)

	r := NewReplacer(ac)
	got, err := r.ReplaceAll("Nobody likes maple in their apple flavored Snapple.", []string{"mango", "orange", "grape"})
	require.NoError(t, err)
	assert.Equal(t, "Nobody likes orange in their mango flavored Snmango.", got)

	got, err = r.ReplaceAll("snapple", []string{"1", "2", "3"})
	require.NoError(t, err)
	assert.Equal(t, "3", got)

	got, err = r.ReplaceAll("nothing to do", []string{"1", "2", "3"})
	require.NoError(t, err)
	assert.Equal(t, "nothing to do", got)
}

func TestReplacer_ReplaceAllCountMismatch(t *testing.T) {
	ac, err := New([]string{"a", "b"})
	require.NoError(t, err)

	_, err = NewReplacer(ac).ReplaceAll("ab", []string{"x"})
	assert.ErrorIs(t, err, ErrReplacementCount)
}

func TestReplacer_ReplaceAllFuncStops(t *testing.T) {
	ac, err := New([]string{"a"})
	require.NoError(t, err)

	n := 0
	got := NewReplacer(ac).ReplaceAllFunc("a-a-a-a", func(m Match) (string, bool) {
		n++
		if n > 2 {
			return "", false
		}
		return strings.Repeat("b", m.Pattern()+2), true
	})
	assert.Equal(t, "bb-bb-a-a", got)
}
