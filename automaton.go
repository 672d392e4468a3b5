package ahocorasick

// automaton is the transition lookup every representation provides. The scan
// loops below are written once against it.
type automaton interface {
	MatchKind() MatchKind
	Implementation() Implementation
	StartState() stateID
	// NextState follows failure transitions as needed and never returns
	// failedStateID.
	NextState(stateID, byte) stateID
	IsDeadState(stateID) bool
	IsMatchOrDeadState(stateID) bool
	MatchCount(stateID) int
	GetMatch(id stateID, matchIndex int, end int) Match
	Prefilter() prefilter
	MaxPatternLen() int
	PatternCount() int
	StateCount() int
	MemoryUsage() int
}

type stateID uint32

const (
	failedStateID stateID = 0
	deadStateID   stateID = 1
)

func nextStateNoFail(a automaton, id stateID, b byte) stateID {
	next := a.NextState(id, b)
	if next == failedStateID {
		panic("automaton should never return fail_id for next state")
	}
	return next
}

// standardFindAt advances *id from at until a match or dead state is reached.
// The first match of the state's output list is reported.
func standardFindAt(a automaton, prestate *prefilterState, haystack []byte, at int, id *stateID) (Match, bool) {
	pre := a.Prefilter()
	start := a.StartState()

	for at < len(haystack) {
		if pre != nil && *id == start && prestate.IsEffective(at) {
			c, ok := nextCandidate(prestate, pre, haystack, at)
			if !ok {
				return Match{}, false
			}
			at = c
		}
		*id = nextStateNoFail(a, *id, haystack[at])
		at++

		if a.IsMatchOrDeadState(*id) {
			if a.IsDeadState(*id) {
				return Match{}, false
			}
			return a.GetMatch(*id, 0, at), true
		}
	}
	return Match{}, false
}

// leftmostFindAt keeps the last match seen and stops at the dead state, which
// the leftmost failure transitions lead to once no longer match is possible.
func leftmostFindAt(a automaton, prestate *prefilterState, haystack []byte, at int) (Match, bool) {
	pre := a.Prefilter()
	start := a.StartState()
	id := start

	var lastMatch Match
	found := false

	for at < len(haystack) {
		if pre != nil && id == start && prestate.IsEffective(at) {
			c, ok := nextCandidate(prestate, pre, haystack, at)
			if !ok {
				return lastMatch, found
			}
			at = c
		}

		id = nextStateNoFail(a, id, haystack[at])
		at++

		if a.IsMatchOrDeadState(id) {
			if a.IsDeadState(id) {
				return lastMatch, found
			}
			lastMatch = a.GetMatch(id, 0, at)
			found = true
		}
	}

	return lastMatch, found
}

// overlappingFindAt drains the output list of *id before moving on.
func overlappingFindAt(a automaton, prestate *prefilterState, haystack []byte, at int, id *stateID, matchIndex *int) (Match, bool) {
	if *matchIndex < a.MatchCount(*id) {
		m := a.GetMatch(*id, *matchIndex, at)
		*matchIndex++
		return m, true
	}

	*matchIndex = 0
	m, ok := standardFindAt(a, prestate, haystack, at, id)
	if !ok {
		return Match{}, false
	}

	*matchIndex = 1
	return m, true
}

func findAt(a automaton, prestate *prefilterState, haystack []byte, at int) (Match, bool) {
	switch a.MatchKind() {
	case LeftMostFirstMatch, LeftMostLongestMatch:
		return leftmostFindAt(a, prestate, haystack, at)
	default:
		id := a.StartState()
		return standardFindAt(a, prestate, haystack, at, &id)
	}
}
