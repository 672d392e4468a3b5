package ahocorasick

import "iter"

// Iter is an iterator over matches found on the current haystack
// it gives the user more granular control. You can chose how many and what kind of matches you need.
type Iter interface {
	// Next gives a pointer to the next match yielded by the iterator or nil, if there is none
	Next() *Match
}

type findIter struct {
	a          automaton
	prestate   prefilterState
	haystack   []byte
	pos        int
	wholeWords bool
}

func (f *findIter) Next() *Match {
	for f.pos <= len(f.haystack) {
		m, ok := findAt(f.a, &f.prestate, f.haystack, f.pos)
		if !ok {
			f.pos = len(f.haystack) + 1
			return nil
		}

		// A rejected match may hide a whole word inside it, so the scan
		// resumes one byte past its start.
		if f.wholeWords && !isWholeWord(f.haystack, m) {
			f.pos = m.Start() + 1
			continue
		}

		if m.end == f.pos {
			f.pos++
		} else {
			f.pos = m.end
		}
		return &m
	}
	return nil
}

type overlappingIter struct {
	a          automaton
	prestate   prefilterState
	haystack   []byte
	pos        int
	stateID    stateID
	matchIndex int
	wholeWords bool
}

func (f *overlappingIter) Next() *Match {
	for f.pos <= len(f.haystack) {
		m, ok := overlappingFindAt(f.a, &f.prestate, f.haystack, f.pos, &f.stateID, &f.matchIndex)
		if !ok {
			f.pos = len(f.haystack) + 1
			return nil
		}
		f.pos = m.end

		if f.wholeWords && !isWholeWord(f.haystack, m) {
			continue
		}
		return &m
	}
	return nil
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func isWholeWord(haystack []byte, m Match) bool {
	if start := m.Start(); start > 0 && isWordByte(haystack[start-1]) {
		return false
	}
	if m.end < len(haystack) && isWordByte(haystack[m.end]) {
		return false
	}
	return true
}

// Iter gives an iterator over the non-overlapping matches in haystack
func (ac *AhoCorasick) Iter(haystack string) Iter {
	return ac.IterByte(unsafeBytes(haystack))
}

// IterByte gives an iterator over the non-overlapping matches in haystack
func (ac *AhoCorasick) IterByte(haystack []byte) Iter {
	return &findIter{
		a:          ac.a,
		prestate:   newPrefilterState(ac.a.MaxPatternLen()),
		haystack:   haystack,
		wholeWords: ac.wholeWords,
	}
}

// IterOverlapping gives an iterator over every match in haystack, including
// overlapping ones. It fails with a *ConfigurationError unless the automaton
// uses StandardMatch.
func (ac *AhoCorasick) IterOverlapping(haystack string) (Iter, error) {
	return ac.IterOverlappingByte(unsafeBytes(haystack))
}

// IterOverlappingByte is IterOverlapping for a byte haystack.
func (ac *AhoCorasick) IterOverlappingByte(haystack []byte) (Iter, error) {
	if err := ac.checkOverlapping(); err != nil {
		return nil, err
	}
	return &overlappingIter{
		a:          ac.a,
		prestate:   newPrefilterState(ac.a.MaxPatternLen()),
		haystack:   haystack,
		stateID:    ac.a.StartState(),
		wholeWords: ac.wholeWords,
	}, nil
}

// Matches returns the non-overlapping matches in haystack as a sequence for
// use with range. Breaking out of the loop stops the scan.
func (ac *AhoCorasick) Matches(haystack []byte) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		it := ac.IterByte(haystack)
		for m := it.Next(); m != nil; m = it.Next() {
			if !yield(*m) {
				return
			}
		}
	}
}
