package ahocorasick

import (
	"unsafe"
)

// dfa stores one resolved transition per (state, byte class). State ids are
// premultiplied by the stride, so a transition is a single index operation.
// Match states are shuffled to the front, right after the fail and dead
// states, which makes "is this a match or dead state" one comparison.
type dfa struct {
	matchKind     MatchKind
	startID       stateID
	deadID        stateID
	maxMatch      stateID
	maxPatternLen int
	patternCount  int
	stateCount    int
	stride        int
	prefil        prefilter
	byteClasses   byteClasses
	singleton     bool
	trans         []stateID
	matches       [][]patternEntry
}

func (d *dfa) MatchKind() MatchKind {
	return d.matchKind
}

func (d *dfa) Implementation() Implementation {
	return DFA
}

func (d *dfa) StartState() stateID {
	return d.startID
}

func (d *dfa) NextState(id stateID, b byte) stateID {
	if d.singleton {
		return d.trans[int(id)+int(b)]
	}
	return d.trans[int(id)+int(d.byteClasses.get(b))]
}

func (d *dfa) IsDeadState(id stateID) bool {
	return id == d.deadID
}

func (d *dfa) IsMatchOrDeadState(id stateID) bool {
	return id != failedStateID && id <= d.maxMatch
}

func (d *dfa) MatchCount(id stateID) int {
	return len(d.matches[int(id)/d.stride])
}

func (d *dfa) GetMatch(id stateID, matchIndex int, end int) Match {
	pat := d.matches[int(id)/d.stride][matchIndex]
	return Match{
		pattern: pat.id,
		len:     pat.length,
		end:     end,
	}
}

func (d *dfa) Prefilter() prefilter {
	return d.prefil
}

func (d *dfa) MaxPatternLen() int {
	return d.maxPatternLen
}

func (d *dfa) PatternCount() int {
	return d.patternCount
}

func (d *dfa) StateCount() int {
	return d.stateCount
}

func (d *dfa) MemoryUsage() int {
	size := len(d.trans)*int(unsafe.Sizeof(stateID(0))) + len(d.matches)*int(unsafe.Sizeof([]patternEntry(nil)))
	for _, m := range d.matches {
		size += len(m) * int(unsafe.Sizeof(patternEntry{}))
	}
	return size
}

type dfaBuilder struct {
	byteClasses bool
}

func newDFABuilder() dfaBuilder {
	return dfaBuilder{byteClasses: true}
}

// tableBytes estimates the transition table size for n without building it.
func (b dfaBuilder) tableBytes(n *nfa) int {
	alphabetLen := 256
	if b.byteClasses {
		alphabetLen = n.byteClasses.alphabetLen()
	}
	return len(n.states) * alphabetLen * int(unsafe.Sizeof(stateID(0)))
}

func (b dfaBuilder) build(n *nfa) *dfa {
	classes := singletons()
	if b.byteClasses {
		classes = n.byteClasses
	}
	stride := classes.alphabetLen()
	reps := classes.representatives()

	d := &dfa{
		matchKind:     n.matchKind,
		startID:       n.startID,
		deadID:        deadStateID,
		maxPatternLen: n.maxPatternLen,
		patternCount:  n.patternCount,
		stateCount:    len(n.states),
		stride:        stride,
		prefil:        n.prefil,
		byteClasses:   classes,
		singleton:     classes.isSingleton(),
		trans:         make([]stateID, stride*len(n.states)),
		matches:       make([][]patternEntry, len(n.states)),
	}

	// A rare-byte candidate only backs up a few bytes that the table would
	// scan just as fast, so the DFA keeps start-of-match prefilters only.
	if d.prefil != nil && d.prefil.LooksForNonStartOfMatch() {
		d.prefil = nil
	}

	for id := range n.states {
		d.matches[id] = n.states[id].matches
		fail := n.states[id].fail
		row := d.trans[id*stride : (id+1)*stride]
		for class, rep := range reps {
			next := n.states[id].nextState(rep)
			if next == failedStateID {
				next = nfaNextStateMemoized(n, d, stateID(id), fail, rep)
			}
			row[class] = next
		}
	}

	d.shuffleMatchStates()
	d.premultiply()
	return d
}

// nfaNextStateMemoized walks failure links in n until it reaches a state whose
// row in d is already resolved.
func nfaNextStateMemoized(n *nfa, d *dfa, populating stateID, current stateID, input byte) stateID {
	for {
		if current < populating {
			return d.trans[int(current)*d.stride+int(d.byteClasses.get(input))]
		}
		next := n.states[current].nextState(input)
		if next != failedStateID {
			return next
		}
		current = n.states[current].fail
	}
}

func (d *dfa) swapStates(id1 stateID, id2 stateID) {
	o1 := int(id1) * d.stride
	o2 := int(id2) * d.stride
	for b := 0; b < d.stride; b++ {
		d.trans[o1+b], d.trans[o2+b] = d.trans[o2+b], d.trans[o1+b]
	}
	d.matches[id1], d.matches[id2] = d.matches[id2], d.matches[id1]
}

// shuffleMatchStates moves every match state into the id range right after
// the dead state and records the last of them in maxMatch.
func (d *dfa) shuffleMatchStates() {
	firstNonMatch := int(deadStateID) + 1
	for firstNonMatch < d.stateCount && len(d.matches[firstNonMatch]) > 0 {
		firstNonMatch++
	}

	swaps := make([]stateID, d.stateCount)
	for i := range swaps {
		swaps[i] = stateID(i)
	}

	for cur := d.stateCount - 1; cur > firstNonMatch; cur-- {
		if len(d.matches[cur]) == 0 {
			continue
		}
		d.swapStates(stateID(cur), stateID(firstNonMatch))
		swaps[cur], swaps[firstNonMatch] = swaps[firstNonMatch], swaps[cur]

		firstNonMatch++
		for firstNonMatch < cur && len(d.matches[firstNonMatch]) > 0 {
			firstNonMatch++
		}
	}

	// swaps[new] = old; invert it so transitions can be remapped.
	remap := make([]stateID, d.stateCount)
	for newID, oldID := range swaps {
		remap[oldID] = stateID(newID)
	}
	for i := range d.trans {
		d.trans[i] = remap[d.trans[i]]
	}
	d.startID = remap[d.startID]
	d.maxMatch = stateID(firstNonMatch - 1)
}

func (d *dfa) premultiply() {
	for i := range d.trans {
		d.trans[i] = stateID(int(d.trans[i]) * d.stride)
	}
	d.startID = stateID(int(d.startID) * d.stride)
	d.deadID = stateID(int(d.deadID) * d.stride)
	d.maxMatch = stateID(int(d.maxMatch) * d.stride)
}
