package ahocorasick

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var implementations = []Implementation{SparseNFA, DenseNFA, DFA}

func mk(pattern, start, end int) Match {
	return Match{pattern: pattern, len: end - start, end: end}
}

type variant struct {
	name string
	ac   *AhoCorasick
}

// buildVariants builds patterns with every representation, with and without
// the prefilter, plus a DFA over the full 256-byte alphabet.
func buildVariants(t testing.TB, kind MatchKind, patterns []string) []variant {
	t.Helper()
	var out []variant
	for _, impl := range implementations {
		for _, noPrefilter := range []bool{false, true} {
			opts := DefaultOptions()
			opts.MatchKind = kind
			opts.Implementation = impl
			opts.disablePrefilter = noPrefilter
			ac, err := NewBuilder(opts).Build(patterns)
			require.NoError(t, err)
			out = append(out, variant{
				name: fmt.Sprintf("%s/prefilter=%t", impl, !noPrefilter),
				ac:   ac,
			})
		}
	}

	opts := DefaultOptions()
	opts.MatchKind = kind
	opts.Implementation = DFA
	opts.disableByteClasses = true
	ac, err := NewBuilder(opts).Build(patterns)
	require.NoError(t, err)
	return append(out, variant{name: "dfa/byteclasses=false", ac: ac})
}

func TestSearch_Examples(t *testing.T) {
	tests := []struct {
		name     string
		kind     MatchKind
		patterns []string
		haystack string
		want     []Match
	}{
		{
			name:     "standard reports the first match to complete",
			kind:     StandardMatch,
			patterns: []string{"b", "abcd"},
			haystack: "abcdef",
			want:     []Match{mk(0, 1, 2)},
		},
		{
			name:     "leftmost-first prefers earlier pattern",
			kind:     LeftMostFirstMatch,
			patterns: []string{"disco", "disc"},
			haystack: "discontent",
			want:     []Match{mk(0, 0, 5)},
		},
		{
			name:     "leftmost-first order matters",
			kind:     LeftMostFirstMatch,
			patterns: []string{"disc", "disco"},
			haystack: "discontent",
			want:     []Match{mk(0, 0, 4)},
		},
		{
			name:     "leftmost-longest prefers longest",
			kind:     LeftMostLongestMatch,
			patterns: []string{"disco", "disc", "discontent"},
			haystack: "discontent",
			want:     []Match{mk(2, 0, 10)},
		},
		{
			name:     "leftmost-longest falls back to a later start",
			kind:     LeftMostLongestMatch,
			patterns: []string{"abcd", "bc"},
			haystack: "abce",
			want:     []Match{mk(1, 1, 3)},
		},
		{
			name:     "standard own pattern before inherited",
			kind:     StandardMatch,
			patterns: []string{"bcd", "abcd"},
			haystack: "abcd",
			want:     []Match{mk(1, 0, 4)},
		},
		{
			name:     "adjacent matches",
			kind:     StandardMatch,
			patterns: []string{"ab", "cd"},
			haystack: "abcdab",
			want:     []Match{mk(0, 0, 2), mk(1, 2, 4), mk(0, 4, 6)},
		},
		{
			name:     "duplicates keep the lowest index",
			kind:     LeftMostFirstMatch,
			patterns: []string{"foo", "foo"},
			haystack: "foofoo",
			want:     []Match{mk(0, 0, 3), mk(0, 3, 6)},
		},
		{
			name:     "empty haystack",
			kind:     StandardMatch,
			patterns: []string{"a"},
			haystack: "",
			want:     []Match{},
		},
		{
			name:     "haystack shorter than every pattern",
			kind:     LeftMostLongestMatch,
			patterns: []string{"abcdef", "xyz123"},
			haystack: "ab",
			want:     []Match{},
		},
		{
			name:     "pattern equal to the haystack",
			kind:     LeftMostFirstMatch,
			patterns: []string{"haystack"},
			haystack: "haystack",
			want:     []Match{mk(0, 0, 8)},
		},
		{
			name:     "non ascii bytes",
			kind:     StandardMatch,
			patterns: []string{"ü", "\xff\x00"},
			haystack: "aü\xff\x00ü",
			want:     []Match{mk(0, 1, 3), mk(1, 3, 5), mk(0, 5, 7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range buildVariants(t, tt.kind, tt.patterns) {
				got, err := v.ac.Search([]byte(tt.haystack), false)
				require.NoError(t, err, v.name)
				assert.Equal(t, tt.want, got, v.name)
			}
		})
	}
}

func TestSearch_Overlapping(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		haystack string
		want     []Match
	}{
		{
			name:     "contained and partial overlaps",
			patterns: []string{"winter", "onte", "disco", "discontent"},
			haystack: "discontent",
			want:     []Match{mk(2, 0, 5), mk(1, 4, 8), mk(3, 0, 10)},
		},
		{
			name:     "output order at one position",
			patterns: []string{"content", "disco", "disc", "discontent", "winter"},
			haystack: "winterdiscontent",
			want:     []Match{mk(4, 0, 6), mk(2, 6, 10), mk(1, 6, 11), mk(3, 6, 16), mk(0, 9, 16)},
		},
		{
			name:     "repeated byte",
			patterns: []string{"a", "aa"},
			haystack: "aaa",
			want:     []Match{mk(0, 0, 1), mk(1, 0, 2), mk(0, 1, 2), mk(1, 1, 3), mk(0, 2, 3)},
		},
		{
			name:     "standard tie break",
			patterns: []string{"bcd", "abcd", "cd"},
			haystack: "abcd",
			want:     []Match{mk(1, 0, 4), mk(0, 1, 4), mk(2, 2, 4)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range buildVariants(t, StandardMatch, tt.patterns) {
				got, err := v.ac.Search([]byte(tt.haystack), true)
				require.NoError(t, err, v.name)
				assert.Equal(t, tt.want, got, v.name)
			}
		})
	}
}

func TestSearch_OverlappingLeftmostFails(t *testing.T) {
	for _, kind := range []MatchKind{LeftMostFirstMatch, LeftMostLongestMatch} {
		for _, v := range buildVariants(t, kind, []string{"a", "ab"}) {
			got, err := v.ac.Search([]byte("abab"), true)
			require.Error(t, err, v.name)
			assert.Nil(t, got)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, kind, cfgErr.MatchKind)
			assert.ErrorIs(t, err, ErrOverlappingUnsupported)

			_, err = v.ac.IterOverlapping("abab")
			assert.ErrorIs(t, err, ErrOverlappingUnsupported)
			_, err = v.ac.FindAllOverlapping("abab")
			assert.ErrorIs(t, err, ErrOverlappingUnsupported)
			_, err = v.ac.SearchStrings("abab", true)
			assert.ErrorIs(t, err, ErrOverlappingUnsupported)
		}
	}
}

func TestBuild_EmptyPattern(t *testing.T) {
	tests := []struct {
		patterns []string
		index    int
	}{
		{[]string{""}, 0},
		{[]string{"", "a"}, 0},
		{[]string{"a", "b", ""}, 2},
		{[]string{"a", "", "b", ""}, 1},
	}

	for _, tt := range tests {
		for _, impl := range append([]Implementation{AutoImplementation}, implementations...) {
			opts := DefaultOptions()
			opts.Implementation = impl
			ac, err := NewBuilder(opts).Build(tt.patterns)
			require.Error(t, err)
			assert.Nil(t, ac)

			var patErr *InvalidPatternError
			require.True(t, errors.As(err, &patErr))
			assert.Equal(t, tt.index, patErr.Index)
			assert.ErrorIs(t, err, ErrEmptyPattern)
			assert.Contains(t, err.Error(), "empty pattern")
		}
	}

	_, err := NewByte([][]byte{[]byte("x"), nil})
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestBuild_NoPatterns(t *testing.T) {
	for _, impl := range implementations {
		opts := DefaultOptions()
		opts.Implementation = impl
		ac, err := NewBuilder(opts).Build(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, ac.PatternCount())
		assert.Empty(t, ac.FindAll("anything"))
		assert.False(t, ac.IsMatch([]byte("anything")))
	}
}

func TestBuild_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.MatchKind = MatchKind(42)
	_, err := NewBuilder(opts).Build([]string{"a"})
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.Implementation = Implementation(42)
	_, err = NewBuilder(opts).Build([]string{"a"})
	assert.Error(t, err)
}

func TestSearchStrings(t *testing.T) {
	for _, store := range []StoreMode{StoreAlways, StoreNever, StoreAuto} {
		opts := DefaultOptions()
		opts.StorePatterns = store
		ac, err := NewBuilder(opts).Build([]string{"winter", "onte", "disco", "discontent"})
		require.NoError(t, err)

		got, err := ac.SearchStrings("discontent in winter", true)
		require.NoError(t, err)
		assert.Equal(t, []string{"disco", "onte", "discontent", "winter"}, got, store.String())

		gotBytes, err := ac.SearchBytes([]byte("a disco"), false)
		require.NoError(t, err)
		assert.Equal(t, [][]byte{[]byte("disco")}, gotBytes, store.String())
	}
}

func TestPatternStore_RoundTrip(t *testing.T) {
	patterns := []string{"he", "she", "his", "hers", "\x00\x01"}
	haystack := []byte("ushers say his name is \x00\x01 hers")

	opts := DefaultOptions()
	opts.StorePatterns = StoreAlways
	ac, err := NewBuilder(opts).Build(patterns)
	require.NoError(t, err)
	require.True(t, ac.StoresPatterns())

	matches, err := ac.Search(haystack, true)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, haystack[m.Start():m.End()], ac.MatchBytes(m, haystack))
		assert.Equal(t, patterns[m.Pattern()], string(ac.MatchBytes(m, haystack)))
	}
}

func TestPatternStore_Decision(t *testing.T) {
	small := []string{"a", "b"}
	large := []string{string(make([]byte, storeMaxBytes))}

	tests := []struct {
		name     string
		mode     StoreMode
		patterns []string
		want     bool
	}{
		{"auto small", StoreAuto, small, true},
		{"auto large", StoreAuto, large, false},
		{"always large", StoreAlways, large, true},
		{"never small", StoreNever, small, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.StorePatterns = tt.mode
			ac, err := NewBuilder(opts).Build(tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ac.StoresPatterns())
		})
	}
}

func TestPatternStore_OwnsCopies(t *testing.T) {
	pat := []byte("needle")
	opts := DefaultOptions()
	opts.StorePatterns = StoreAlways
	ac, err := NewBuilder(opts).BuildByte([][]byte{pat})
	require.NoError(t, err)

	copy(pat, "xxxxxx")
	got, err := ac.SearchBytes([]byte("a needle"), false)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("needle")}, got)
}

func TestSearch_Idempotent(t *testing.T) {
	ac, err := New([]string{"abc", "bcd", "c", "abcd"})
	require.NoError(t, err)
	haystack := []byte("xabcdabcdx")

	first, err := ac.Search(haystack, true)
	require.NoError(t, err)
	second, err := ac.Search(haystack, true)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, ac.FindAllByte(haystack), ac.FindAllByte(haystack))
}

func TestWholeWords(t *testing.T) {
	for _, impl := range implementations {
		opts := DefaultOptions()
		opts.Implementation = impl
		opts.MatchOnlyWholeWords = true
		ac, err := NewBuilder(opts).Build([]string{"foo", "bar"})
		require.NoError(t, err)

		assert.Equal(t, []Match{mk(0, 0, 3), mk(1, 14, 17), mk(0, 18, 21)}, ac.FindAll("foo food 1foo bar,foo"))

		got, err := ac.FindAllOverlapping("foobar foo")
		require.NoError(t, err)
		assert.Equal(t, []Match{mk(0, 7, 10)}, got)
	}
}

func TestWholeWords_InsideRejectedMatch(t *testing.T) {
	for _, kind := range []MatchKind{StandardMatch, LeftMostFirstMatch, LeftMostLongestMatch} {
		for _, impl := range implementations {
			opts := DefaultOptions()
			opts.MatchKind = kind
			opts.Implementation = impl
			opts.MatchOnlyWholeWords = true
			ac, err := NewBuilder(opts).Build([]string{"a b", "b"})
			require.NoError(t, err)

			assert.Equal(t, []Match{mk(1, 3, 4)}, ac.FindAll("xa b"), "%s/%s", kind, impl)
			assert.Equal(t, []Match{mk(0, 0, 3)}, ac.FindAll("a b"), "%s/%s", kind, impl)
		}
	}
}

func TestIter(t *testing.T) {
	ac, err := New([]string{"a", "b"})
	require.NoError(t, err)

	it := ac.Iter("xaxbx")
	m := it.Next()
	require.NotNil(t, m)
	assert.Equal(t, mk(0, 1, 2), *m)
	m = it.Next()
	require.NotNil(t, m)
	assert.Equal(t, mk(1, 3, 4), *m)
	assert.Nil(t, it.Next())
	assert.Nil(t, it.Next())

	oit, err := ac.IterOverlapping("ab")
	require.NoError(t, err)
	assert.Equal(t, mk(0, 0, 1), *oit.Next())
	assert.Equal(t, mk(1, 1, 2), *oit.Next())
	assert.Nil(t, oit.Next())
}

func TestMatches_EarlyTermination(t *testing.T) {
	ac, err := New([]string{"a"})
	require.NoError(t, err)

	var got []Match
	for m := range ac.Matches([]byte("aaaaaaaa")) {
		got = append(got, m)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []Match{mk(0, 0, 1), mk(0, 1, 2), mk(0, 2, 3)}, got)
}

func TestFind(t *testing.T) {
	opts := DefaultOptions()
	opts.MatchKind = LeftMostLongestMatch
	ac, err := NewBuilder(opts).Build([]string{"sam", "samwise"})
	require.NoError(t, err)

	m, ok := ac.Find([]byte("hello samwise"))
	require.True(t, ok)
	assert.Equal(t, 1, m.Pattern())
	assert.Equal(t, 6, m.Start())
	assert.Equal(t, 13, m.End())
	assert.Equal(t, 7, m.Len())

	_, ok = ac.Find([]byte("frodo"))
	assert.False(t, ok)
	assert.True(t, ac.IsMatch([]byte("xsamx")))
	assert.False(t, ac.IsMatch([]byte("sa")))
}

func TestAccessors(t *testing.T) {
	for _, impl := range implementations {
		opts := DefaultOptions()
		opts.MatchKind = LeftMostFirstMatch
		opts.Implementation = impl
		ac, err := NewBuilder(opts).Build([]string{"x", "y", "z"})
		require.NoError(t, err)

		assert.Equal(t, 3, ac.PatternCount())
		assert.Equal(t, LeftMostFirstMatch, ac.MatchKind())
		assert.Equal(t, impl, ac.Implementation())
		assert.Positive(t, ac.MemoryUsage())
	}
}

func TestMatchKind_Parse(t *testing.T) {
	for _, kind := range []MatchKind{StandardMatch, LeftMostFirstMatch, LeftMostLongestMatch} {
		got, err := ParseMatchKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}
	got, err := ParseMatchKind("")
	require.NoError(t, err)
	assert.Equal(t, StandardMatch, got)

	_, err = ParseMatchKind("longest")
	assert.Error(t, err)
}
