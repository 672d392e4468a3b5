// Package ahocorasick implements multi-pattern substring search with the
// Aho-Corasick algorithm.
//
// An automaton is built once from an ordered set of non-empty patterns and
// can then be searched any number of times, from any number of goroutines.
// Matches are reported as (pattern index, start, end) byte offsets under one
// of three match kinds: standard, leftmost-first and leftmost-longest.
package ahocorasick

// AhoCorasick is the main data structure that does most of the work. It is
// immutable once built and safe for concurrent use.
type AhoCorasick struct {
	a          automaton
	store      *patternStore
	wholeWords bool
}

// PatternCount returns the number of patterns the automaton was built with.
func (ac *AhoCorasick) PatternCount() int {
	return ac.a.PatternCount()
}

// MatchKind returns the match kind the automaton was built with.
func (ac *AhoCorasick) MatchKind() MatchKind {
	return ac.a.MatchKind()
}

// Implementation returns the representation that was built. It is never
// AutoImplementation.
func (ac *AhoCorasick) Implementation() Implementation {
	return ac.a.Implementation()
}

// StoresPatterns reports whether the automaton kept a copy of its patterns.
func (ac *AhoCorasick) StoresPatterns() bool {
	return ac.store != nil
}

// MemoryUsage approximates the heap bytes held by the automaton.
func (ac *AhoCorasick) MemoryUsage() int {
	size := ac.a.MemoryUsage()
	if pre := ac.a.Prefilter(); pre != nil {
		size += pre.MemoryUsage()
	}
	if ac.store != nil {
		size += ac.store.memoryUsage()
	}
	return size
}

func (ac *AhoCorasick) checkOverlapping() error {
	if kind := ac.a.MatchKind(); !kind.supportsOverlapping() {
		return &ConfigurationError{MatchKind: kind}
	}
	return nil
}

// Search returns every match in haystack in the order they are found. With
// overlapping set every pattern occurrence is reported, which requires
// StandardMatch.
func (ac *AhoCorasick) Search(haystack []byte, overlapping bool) ([]Match, error) {
	var it Iter
	if overlapping {
		var err error
		if it, err = ac.IterOverlappingByte(haystack); err != nil {
			return nil, err
		}
	} else {
		it = ac.IterByte(haystack)
	}
	return collect(it), nil
}

// SearchStrings is Search, returning the matched text instead of offsets.
func (ac *AhoCorasick) SearchStrings(haystack string, overlapping bool) ([]string, error) {
	matches, err := ac.Search(unsafeBytes(haystack), overlapping)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		if ac.store != nil {
			out[i] = ac.store.string(m.pattern)
		} else {
			out[i] = haystack[m.Start():m.End()]
		}
	}
	return out, nil
}

// SearchBytes is Search, returning the matched bytes instead of offsets. The
// returned slices alias either the haystack or the pattern store and must not
// be modified.
func (ac *AhoCorasick) SearchBytes(haystack []byte, overlapping bool) ([][]byte, error) {
	matches, err := ac.Search(haystack, overlapping)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(matches))
	for i, m := range matches {
		out[i] = ac.MatchBytes(m, haystack)
	}
	return out, nil
}

// MatchBytes returns the text of m, which must have been found in haystack.
func (ac *AhoCorasick) MatchBytes(m Match, haystack []byte) []byte {
	if ac.store != nil {
		return ac.store.bytes(m.pattern)
	}
	return haystack[m.Start():m.End():m.End()]
}

// FindAll returns the non-overlapping matches found in the haystack
func (ac *AhoCorasick) FindAll(haystack string) []Match {
	return ac.FindAllByte(unsafeBytes(haystack))
}

// FindAllByte returns the non-overlapping matches found in the haystack
func (ac *AhoCorasick) FindAllByte(haystack []byte) []Match {
	return collect(ac.IterByte(haystack))
}

// FindAllOverlapping returns every match found in the haystack, including
// matches that overlap.
func (ac *AhoCorasick) FindAllOverlapping(haystack string) ([]Match, error) {
	return ac.Search(unsafeBytes(haystack), true)
}

// Find returns the first match in haystack.
func (ac *AhoCorasick) Find(haystack []byte) (Match, bool) {
	m := ac.IterByte(haystack).Next()
	if m == nil {
		return Match{}, false
	}
	return *m, true
}

// IsMatch reports whether any pattern occurs in haystack.
func (ac *AhoCorasick) IsMatch(haystack []byte) bool {
	_, ok := ac.Find(haystack)
	return ok
}

func collect(it Iter) []Match {
	matches := make([]Match, 0)
	for {
		next := it.Next()
		if next == nil {
			return matches
		}
		matches = append(matches, *next)
	}
}
