package ahocorasick

import (
	"slices"
	"unsafe"
)

// nfa is the noncontiguous automaton: a trie whose states keep only their
// explicit edges plus one failure link. Shallow states keep a full 256-entry
// row because they are visited the most.
//
// State 0 is the fail sentinel, 1 the dead state and 2 the start state.
type nfa struct {
	matchKind     MatchKind
	startID       stateID
	maxPatternLen int
	patternCount  int
	heapBytes     int
	prefil        prefilter
	byteClasses   byteClasses
	states        []state
}

func (n *nfa) MatchKind() MatchKind {
	return n.matchKind
}

func (n *nfa) Implementation() Implementation {
	return SparseNFA
}

func (n *nfa) StartState() stateID {
	return n.startID
}

func (n *nfa) NextState(id stateID, b byte) stateID {
	for {
		s := &n.states[id]
		next := s.nextState(b)
		if next != failedStateID {
			return next
		}
		id = s.fail
	}
}

func (n *nfa) IsDeadState(id stateID) bool {
	return id == deadStateID
}

func (n *nfa) IsMatchOrDeadState(id stateID) bool {
	return id == deadStateID || n.states[id].isMatch()
}

func (n *nfa) MatchCount(id stateID) int {
	return len(n.states[id].matches)
}

func (n *nfa) GetMatch(id stateID, matchIndex int, end int) Match {
	pat := n.states[id].matches[matchIndex]
	return Match{
		pattern: pat.id,
		len:     pat.length,
		end:     end,
	}
}

func (n *nfa) Prefilter() prefilter {
	return n.prefil
}

func (n *nfa) MaxPatternLen() int {
	return n.maxPatternLen
}

func (n *nfa) PatternCount() int {
	return n.patternCount
}

func (n *nfa) StateCount() int {
	return len(n.states)
}

func (n *nfa) MemoryUsage() int {
	return n.heapBytes
}

func (n *nfa) state(id stateID) *state {
	return &n.states[int(id)]
}

func (n *nfa) addState(depth int, dense bool) stateID {
	id := stateID(len(n.states))
	s := state{
		fail:  n.startID,
		depth: depth,
	}
	if dense {
		s.trans.dense = make([]stateID, 256)
	}
	n.states = append(n.states, s)
	return id
}

// copyMatches appends the outputs of src to dst. src always has a smaller
// depth than dst, so its own list is final by the time this runs.
func (n *nfa) copyMatches(src stateID, dst stateID) {
	if src == dst {
		panic("src and dst should not be equal")
	}
	n.states[dst].matches = append(n.states[dst].matches, n.states[src].matches...)
}

type nfaBuilder struct {
	denseDepth int
	matchKind  MatchKind
	prefilter  bool
}

func newNFABuilder(kind MatchKind) nfaBuilder {
	return nfaBuilder{
		denseDepth: 2,
		matchKind:  kind,
		prefilter:  true,
	}
}

func (b nfaBuilder) build(patterns [][]byte) *nfa {
	c := compiler{
		builder: b,
		pre:     newPrefilterBuilder(),
		nfa: &nfa{
			matchKind:   b.matchKind,
			startID:     2,
			byteClasses: singletons(),
		},
		byteClassBuilder: newByteClassBuilder(),
	}
	return c.compile(patterns)
}

type compiler struct {
	builder          nfaBuilder
	pre              prefilterBuilder
	nfa              *nfa
	byteClassBuilder byteClassBuilder
}

func (c *compiler) compile(patterns [][]byte) *nfa {
	c.addState(0) // fail
	c.addState(0) // dead
	c.addState(0) // start

	c.buildTrie(patterns)

	c.addStartStateLoop()
	c.addDeadStateLoop()

	if c.builder.matchKind.isLeftmost() {
		c.fillFailureTransitionsLeftmost()
	} else {
		c.fillFailureTransitionsStandard()
	}

	c.nfa.byteClasses = c.byteClassBuilder.build()
	if c.builder.prefilter {
		c.nfa.prefil = c.pre.build()
	}
	c.calculateSize()

	return c.nfa
}

func (c *compiler) addState(depth int) stateID {
	return c.nfa.addState(depth, depth < c.builder.denseDepth)
}

func (c *compiler) buildTrie(patterns [][]byte) {
Patterns:
	for pati, pat := range patterns {
		c.nfa.maxPatternLen = max(c.nfa.maxPatternLen, len(pat))
		c.nfa.patternCount++

		prev := c.nfa.startID
		sawMatch := false

		for depth, b := range pat {
			// Under leftmost-first a pattern that extends an earlier,
			// complete pattern can never be reported.
			sawMatch = sawMatch || c.nfa.state(prev).isMatch()
			if c.builder.matchKind.isLeftmostFirst() && sawMatch {
				continue Patterns
			}

			c.byteClassBuilder.setRange(b, b)

			next := c.nfa.state(prev).nextState(b)
			if next == failedStateID {
				next = c.addState(depth + 1)
				c.nfa.state(prev).setNextState(b, next)
			}
			prev = next
		}
		c.nfa.state(prev).addMatch(pati, len(pat))

		if c.builder.prefilter {
			c.pre.add(pat)
		}
	}
}

func (c *compiler) addStartStateLoop() {
	start := c.nfa.state(c.nfa.startID)
	for b := 0; b < 256; b++ {
		if start.nextState(byte(b)) == failedStateID {
			start.setNextState(byte(b), c.nfa.startID)
		}
	}
}

func (c *compiler) addDeadStateLoop() {
	dead := c.nfa.state(deadStateID)
	for b := 0; b < 256; b++ {
		dead.setNextState(byte(b), deadStateID)
	}
}

// failTarget computes the failure state of the child reached from parent on b:
// the longest proper suffix of the child's prefix that is also in the trie.
func (c *compiler) failTarget(parent stateID, b byte) stateID {
	fail := c.nfa.state(parent).fail
	for c.nfa.state(fail).nextState(b) == failedStateID {
		fail = c.nfa.state(fail).fail
	}
	return c.nfa.state(fail).nextState(b)
}

// fillFailureTransitionsStandard resolves failure links breadth first and
// appends the outputs of each failure state to the state that falls back to
// it, so shorter suffix patterns are reported together with longer ones.
func (c *compiler) fillFailureTransitionsStandard() {
	queue := make([]stateID, 0)
	start := c.nfa.startID

	c.nfa.state(start).eachTransition(func(_ byte, next stateID) {
		if next != start {
			queue = append(queue, next)
		}
	})

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		c.nfa.state(id).eachTransition(func(b byte, next stateID) {
			queue = append(queue, next)
			fail := c.failTarget(id, b)
			c.nfa.state(next).fail = fail
			c.nfa.copyMatches(fail, next)
		})
	}
}

type queuedState struct {
	id           stateID
	matchAtDepth int // -1 when no match has been seen on the path
}

func (q queuedState) next(n *nfa, id stateID) queuedState {
	if q.matchAtDepth >= 0 {
		return queuedState{id: id, matchAtDepth: q.matchAtDepth}
	}
	s := n.state(id)
	if !s.isMatch() {
		return queuedState{id: id, matchAtDepth: -1}
	}
	return queuedState{id: id, matchAtDepth: s.depth - s.longestMatchLen() + 1}
}

// fillFailureTransitionsLeftmost is the standard construction with one
// change: once a match has been seen on the path to a state, failing to a
// state that would start a match further to the right goes to the dead
// state instead, which ends the leftmost search with the last match seen.
func (c *compiler) fillFailureTransitionsLeftmost() {
	queue := make([]queuedState, 0)
	start := queuedState{id: c.nfa.startID, matchAtDepth: -1}

	c.nfa.state(start.id).eachTransition(func(_ byte, nextID stateID) {
		if nextID == start.id {
			return
		}
		queue = append(queue, start.next(c.nfa, nextID))
		if c.nfa.state(nextID).isMatch() {
			c.nfa.state(nextID).fail = deadStateID
		}
	})

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		anyTrans := false
		c.nfa.state(item.id).eachTransition(func(b byte, nextID stateID) {
			anyTrans = true
			next := item.next(c.nfa, nextID)
			queue = append(queue, next)

			fail := c.failTarget(item.id, b)
			if next.matchAtDepth >= 0 {
				failDepth := c.nfa.state(fail).depth
				nextDepth := c.nfa.state(next.id).depth
				if nextDepth-next.matchAtDepth+1 > failDepth {
					c.nfa.state(next.id).fail = deadStateID
					return
				}
				if fail == c.nfa.startID {
					panic("states that are match states or follow match states should never have a failure transition back to the start state in leftmost searching")
				}
			}
			c.nfa.state(next.id).fail = fail
			c.nfa.copyMatches(fail, next.id)
		})

		if !anyTrans && c.nfa.state(item.id).isMatch() {
			c.nfa.state(item.id).fail = deadStateID
		}
	}
}

func (c *compiler) calculateSize() {
	var size int
	for i := range c.nfa.states {
		size += c.nfa.states[i].heapBytes()
	}
	c.nfa.heapBytes = size
}

type patternEntry struct {
	id     int
	length int
}

type state struct {
	trans   transitions
	fail    stateID
	matches []patternEntry
	depth   int
}

func (s *state) heapBytes() int {
	return s.trans.heapBytes() + len(s.matches)*int(unsafe.Sizeof(patternEntry{}))
}

func (s *state) addMatch(patternID, patternLength int) {
	s.matches = append(s.matches, patternEntry{id: patternID, length: patternLength})
}

func (s *state) isMatch() bool {
	return len(s.matches) > 0
}

// longestMatchLen is the length of the first output, which is the state's
// own pattern while the trie is being built.
func (s *state) longestMatchLen() int {
	return s.matches[0].length
}

func (s *state) nextState(input byte) stateID {
	return s.trans.nextState(input)
}

func (s *state) setNextState(input byte, next stateID) {
	s.trans.setNextState(input, next)
}

// eachTransition calls f for every explicit edge in byte order.
func (s *state) eachTransition(f func(b byte, next stateID)) {
	s.trans.each(f)
}

type sparseTransition struct {
	b byte
	s stateID
}

// transitions is either a sorted edge list or a full 256-entry row.
type transitions struct {
	sparse []sparseTransition
	dense  []stateID
}

func (t *transitions) heapBytes() int {
	if t.dense != nil {
		return len(t.dense) * int(unsafe.Sizeof(stateID(0)))
	}
	return len(t.sparse) * int(unsafe.Sizeof(sparseTransition{}))
}

func (t *transitions) nextState(input byte) stateID {
	if t.dense != nil {
		return t.dense[input]
	}
	for _, tr := range t.sparse {
		if tr.b == input {
			return tr.s
		}
		if tr.b > input {
			break
		}
	}
	return failedStateID
}

func (t *transitions) setNextState(input byte, next stateID) {
	if t.dense != nil {
		t.dense[input] = next
		return
	}
	idx, found := slices.BinarySearchFunc(t.sparse, input, func(tr sparseTransition, b byte) int {
		return int(tr.b) - int(b)
	})
	if found {
		t.sparse[idx].s = next
		return
	}
	t.sparse = slices.Insert(t.sparse, idx, sparseTransition{b: input, s: next})
}

func (t *transitions) each(f func(b byte, next stateID)) {
	if t.dense != nil {
		for b, next := range t.dense {
			if next != failedStateID {
				f(byte(b), next)
			}
		}
		return
	}
	for _, tr := range t.sparse {
		f(tr.b, tr.s)
	}
}
