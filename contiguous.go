package ahocorasick

import (
	"math"
	"unsafe"
)

// contiguousNFA packs every state into one []stateID slab. State ids are
// offsets into the slab. Each state starts with a three word header:
//
//	header  denseState, or the number of explicit edges
//	fail    offset of the failure state
//	matches index into the matches table, 0 when the state has no output
//
// Dense states (the start state, its children and the dead state) follow
// with one fully resolved transition per byte class, so no failure link is
// ever walked from them. Sparse states follow with their edge classes packed
// four to a word and then one target per edge.
type contiguousNFA struct {
	matchKind     MatchKind
	startID       stateID
	deadID        stateID
	maxPatternLen int
	patternCount  int
	stateCount    int
	prefil        prefilter
	byteClasses   byteClasses
	alphabetLen   int
	repr          []stateID
	matches       [][]patternEntry
}

const (
	denseState      stateID = math.MaxUint32
	stateHeaderLen          = 3
	stateFailOffset         = 1
	stateMatchIndex         = 2
)

func packedLen(edges int) int {
	return (edges + 3) / 4
}

func (c *contiguousNFA) MatchKind() MatchKind {
	return c.matchKind
}

func (c *contiguousNFA) Implementation() Implementation {
	return DenseNFA
}

func (c *contiguousNFA) StartState() stateID {
	return c.startID
}

func (c *contiguousNFA) NextState(id stateID, b byte) stateID {
	class := c.byteClasses.get(b)
	for {
		off := int(id)
		header := c.repr[off]
		if header == denseState {
			return c.repr[off+stateHeaderLen+int(class)]
		}

		n := int(header)
		keys := c.repr[off+stateHeaderLen : off+stateHeaderLen+packedLen(n)]
		for i := 0; i < n; i++ {
			if byte(keys[i/4]>>(8*(i%4))) == class {
				return c.repr[off+stateHeaderLen+len(keys)+i]
			}
		}
		id = c.repr[off+stateFailOffset]
	}
}

func (c *contiguousNFA) IsDeadState(id stateID) bool {
	return id == c.deadID
}

func (c *contiguousNFA) IsMatchOrDeadState(id stateID) bool {
	return id == c.deadID || c.repr[int(id)+stateMatchIndex] != 0
}

func (c *contiguousNFA) MatchCount(id stateID) int {
	return len(c.matches[c.repr[int(id)+stateMatchIndex]])
}

func (c *contiguousNFA) GetMatch(id stateID, matchIndex int, end int) Match {
	pat := c.matches[c.repr[int(id)+stateMatchIndex]][matchIndex]
	return Match{
		pattern: pat.id,
		len:     pat.length,
		end:     end,
	}
}

func (c *contiguousNFA) Prefilter() prefilter {
	return c.prefil
}

func (c *contiguousNFA) MaxPatternLen() int {
	return c.maxPatternLen
}

func (c *contiguousNFA) PatternCount() int {
	return c.patternCount
}

func (c *contiguousNFA) StateCount() int {
	return c.stateCount
}

func (c *contiguousNFA) MemoryUsage() int {
	size := len(c.repr) * int(unsafe.Sizeof(stateID(0)))
	for _, m := range c.matches {
		size += len(m) * int(unsafe.Sizeof(patternEntry{}))
	}
	return size
}

type contiguousBuilder struct {
	denseDepth int
}

func newContiguousBuilder() contiguousBuilder {
	return contiguousBuilder{denseDepth: 2}
}

// build returns false when the slab would not be addressable by a stateID.
func (cb contiguousBuilder) build(n *nfa) (*contiguousNFA, bool) {
	classes := n.byteClasses
	alphabetLen := classes.alphabetLen()
	reps := classes.representatives()

	isDense := func(id int) bool {
		return stateID(id) == deadStateID || (id > int(deadStateID) && n.states[id].depth < cb.denseDepth)
	}
	edgeCount := func(id int) int {
		count := 0
		n.states[id].eachTransition(func(byte, stateID) { count++ })
		return count
	}

	offsets := make([]stateID, len(n.states))
	size := 0
	for id := range n.states {
		offsets[id] = stateID(size)
		size += stateHeaderLen
		if isDense(id) {
			size += alphabetLen
		} else {
			edges := edgeCount(id)
			size += packedLen(edges) + edges
		}
		if size >= math.MaxUint32 {
			return nil, false
		}
	}

	c := &contiguousNFA{
		matchKind:     n.matchKind,
		startID:       offsets[n.startID],
		deadID:        offsets[deadStateID],
		maxPatternLen: n.maxPatternLen,
		patternCount:  n.patternCount,
		stateCount:    len(n.states),
		prefil:        n.prefil,
		byteClasses:   classes,
		alphabetLen:   alphabetLen,
		repr:          make([]stateID, size),
		matches:       [][]patternEntry{nil},
	}

	for id := range n.states {
		s := &n.states[id]
		off := int(offsets[id])
		c.repr[off+stateFailOffset] = offsets[s.fail]
		if s.isMatch() {
			c.repr[off+stateMatchIndex] = stateID(len(c.matches))
			c.matches = append(c.matches, s.matches)
		}

		if isDense(id) {
			c.repr[off] = denseState
			row := c.repr[off+stateHeaderLen : off+stateHeaderLen+alphabetLen]
			for class, b := range reps {
				row[class] = offsets[n.NextState(stateID(id), b)]
			}
			continue
		}

		edges := edgeCount(id)
		c.repr[off] = stateID(edges)
		keys := c.repr[off+stateHeaderLen : off+stateHeaderLen+packedLen(edges)]
		targets := c.repr[off+stateHeaderLen+len(keys) : off+stateHeaderLen+len(keys)+edges]
		i := 0
		s.eachTransition(func(b byte, next stateID) {
			keys[i/4] |= stateID(classes.get(b)) << (8 * (i % 4))
			targets[i] = offsets[next]
			i++
		})
	}

	return c, true
}
