package ahocorasick

import "fmt"

// MatchKind selects which match is reported when several patterns could match
// at the same place in a haystack.
type MatchKind int

const (
	// Use standard match semantics, which support overlapping matches. When
	// used with non-overlapping matches, matches are reported as they are seen.
	StandardMatch MatchKind = iota
	// Use leftmost-first match semantics, which reports leftmost matches.
	// When there are multiple possible leftmost matches, the match
	// corresponding to the pattern that appeared earlier when constructing
	// the automaton is reported.
	// This does **not** support overlapping matches.
	LeftMostFirstMatch
	// Use leftmost-longest match semantics, which reports leftmost matches.
	// When there are multiple possible leftmost matches, the longest match is chosen.
	LeftMostLongestMatch
)

func (m MatchKind) String() string {
	switch m {
	case StandardMatch:
		return "standard"
	case LeftMostFirstMatch:
		return "leftmost-first"
	case LeftMostLongestMatch:
		return "leftmost-longest"
	}
	return fmt.Sprintf("MatchKind(%d)", int(m))
}

// ParseMatchKind accepts the names printed by MatchKind.String.
func ParseMatchKind(s string) (MatchKind, error) {
	switch s {
	case "", "standard":
		return StandardMatch, nil
	case "leftmost-first":
		return LeftMostFirstMatch, nil
	case "leftmost-longest":
		return LeftMostLongestMatch, nil
	}
	return 0, fmt.Errorf("unknown match kind %q", s)
}

func (m MatchKind) supportsOverlapping() bool {
	return m.isStandard()
}

func (m MatchKind) isStandard() bool {
	return m == StandardMatch
}

func (m MatchKind) isLeftmost() bool {
	return m == LeftMostFirstMatch || m == LeftMostLongestMatch
}

func (m MatchKind) isLeftmostFirst() bool {
	return m == LeftMostFirstMatch
}

func (m MatchKind) valid() bool {
	return m >= StandardMatch && m <= LeftMostLongestMatch
}
