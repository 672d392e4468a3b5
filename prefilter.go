package ahocorasick

import (
	"math"

	"github.com/coregx/coregex/simd"
)

// prefilter finds positions in a haystack at which a match may start. It is
// only consulted while the scan sits in the start state, so it may report
// false positives but never skip a real match start.
type prefilter interface {
	NextCandidate(state *prefilterState, haystack []byte, at int) (int, bool)
	MemoryUsage() int
	LooksForNonStartOfMatch() bool
	Name() string
}

// memchrN returns the first index of any of the count bytes in haystack, or -1.
func memchrN(haystack []byte, bytes [3]byte, count int) int {
	switch count {
	case 1:
		return simd.Memchr(haystack, bytes[0])
	case 2:
		return simd.Memchr2(haystack, bytes[0], bytes[1])
	default:
		return simd.Memchr3(haystack, bytes[0], bytes[1], bytes[2])
	}
}

// startBytes looks for the first byte of any pattern.
type startBytes struct {
	bytes [3]byte
	count int
}

func (s *startBytes) NextCandidate(_ *prefilterState, haystack []byte, at int) (int, bool) {
	i := memchrN(haystack[at:], s.bytes, s.count)
	if i < 0 {
		return 0, false
	}
	return at + i, true
}

func (s *startBytes) MemoryUsage() int {
	return 0
}

func (s *startBytes) LooksForNonStartOfMatch() bool {
	return false
}

func (s *startBytes) Name() string {
	return "start-bytes"
}

// rareBytes looks for a rare byte that every pattern contains and backs up by
// the largest offset at which that byte occurs in any pattern.
type rareBytes struct {
	offsets rareByteOffsets
	bytes   [3]byte
	count   int
}

func (r *rareBytes) NextCandidate(state *prefilterState, haystack []byte, at int) (int, bool) {
	i := memchrN(haystack[at:], r.bytes, r.count)
	if i < 0 {
		return 0, false
	}
	pos := at + i
	state.updateAt(pos)
	c := pos - int(r.offsets.rbo[haystack[pos]].max)
	if c < at {
		c = at
	}
	return c, true
}

func (r *rareBytes) MemoryUsage() int {
	return 0
}

func (r *rareBytes) LooksForNonStartOfMatch() bool {
	return true
}

func (r *rareBytes) Name() string {
	return "rare-bytes"
}

type byteSet [256]bool

func (b *byteSet) contains(bb byte) bool {
	return b[int(bb)]
}

func (b *byteSet) insert(bb byte) bool {
	n := !b.contains(bb)
	b[int(bb)] = true
	return n
}

type rareByteOffset struct {
	max byte
}

type rareByteOffsets struct {
	rbo [256]rareByteOffset
}

func (r *rareByteOffsets) set(b byte, off rareByteOffset) {
	if off.max > r.rbo[int(b)].max {
		r.rbo[int(b)].max = off.max
	}
}

func newRareByteOffset(i int) rareByteOffset {
	if i > math.MaxUint8 {
		return rareByteOffset{max: 0}
	}
	return rareByteOffset{max: byte(i)}
}

type prefilterBuilder struct {
	count      int
	startBytes startBytesBuilder
	rareBytes  rareBytesBuilder
}

func newPrefilterBuilder() prefilterBuilder {
	return prefilterBuilder{
		startBytes: startBytesBuilder{},
		rareBytes:  rareBytesBuilder{available: true},
	}
}

func (p *prefilterBuilder) add(bytes []byte) {
	p.count++
	p.startBytes.add(bytes)
	p.rareBytes.add(bytes)
}

func (p *prefilterBuilder) build() prefilter {
	if p.count == 0 {
		return nil
	}
	start := p.startBytes.build()
	rare := p.rareBytes.build()

	switch {
	case start != nil && rare != nil:
		hasFewerBytes := p.startBytes.count < p.rareBytes.count
		hasRarerBytes := int(p.startBytes.rankSum) <= int(p.rareBytes.rankSum)+50
		if hasFewerBytes || hasRarerBytes {
			return start
		}
		return rare
	case start != nil:
		return start
	case rare != nil:
		return rare
	}
	return nil
}

type rareBytesBuilder struct {
	rareSet     byteSet
	byteOffsets rareByteOffsets
	available   bool
	count       int
	rankSum     uint16
}

func (r *rareBytesBuilder) add(bytes []byte) {
	if !r.available {
		return
	}
	if r.count > 3 || len(bytes) >= 256 {
		r.available = false
		return
	}
	if len(bytes) == 0 {
		return
	}

	rarest, rarestRank := bytes[0], simd.ByteRank(bytes[0])
	found := false
	for pos, b := range bytes {
		r.byteOffsets.set(b, newRareByteOffset(pos))
		if found {
			continue
		}
		if r.rareSet.contains(b) {
			found = true
			continue
		}
		if rank := simd.ByteRank(b); rank < rarestRank {
			rarest, rarestRank = b, rank
		}
	}
	if !found {
		if r.rareSet.insert(rarest) {
			r.count++
			r.rankSum += uint16(rarestRank)
		}
	}
}

func (r *rareBytesBuilder) build() prefilter {
	if !r.available || r.count > 3 {
		return nil
	}
	out := &rareBytes{offsets: r.byteOffsets}
	for b := 0; b < 256; b++ {
		if r.rareSet.contains(byte(b)) {
			out.bytes[out.count] = byte(b)
			out.count++
		}
	}
	if out.count == 0 {
		return nil
	}
	return out
}

type startBytesBuilder struct {
	byteset byteSet
	count   int
	rankSum uint16
}

func (s *startBytesBuilder) add(bytes []byte) {
	if s.count > 3 || len(bytes) == 0 {
		return
	}
	if b := bytes[0]; s.byteset.insert(b) {
		s.count++
		s.rankSum += uint16(simd.ByteRank(b))
	}
}

func (s *startBytesBuilder) build() prefilter {
	if s.count > 3 {
		return nil
	}
	out := &startBytes{}
	for b := 0; b < 256; b++ {
		if !s.byteset.contains(byte(b)) {
			continue
		}
		// Non-ASCII lead bytes are too common in UTF-8 text to be worth it.
		if b > 0x7F {
			return nil
		}
		out.bytes[out.count] = byte(b)
		out.count++
	}
	if out.count == 0 {
		return nil
	}
	return out
}

const minSkips int = 40
const minAvgFactor int = 2

// prefilterState tracks how well the prefilter is doing during one scan and
// turns it off once it stops paying for itself.
type prefilterState struct {
	skips       int
	skipped     int
	maxMatchLen int
	inert       bool
	lastScanAt  int
}

func newPrefilterState(maxMatchLen int) prefilterState {
	return prefilterState{maxMatchLen: maxMatchLen}
}

func (p *prefilterState) updateAt(at int) {
	if at > p.lastScanAt {
		p.lastScanAt = at
	}
}

func (p *prefilterState) IsEffective(at int) bool {
	if p.inert || at < p.lastScanAt {
		return false
	}

	if p.skips < minSkips {
		return true
	}

	minAvg := minAvgFactor * p.maxMatchLen
	if p.skipped >= minAvg*p.skips {
		return true
	}

	p.inert = true
	return false
}

func (p *prefilterState) updateSkippedBytes(skipped int) {
	p.skips++
	p.skipped += skipped
}

func nextCandidate(state *prefilterState, pre prefilter, haystack []byte, at int) (int, bool) {
	c, ok := pre.NextCandidate(state, haystack, at)
	if !ok {
		state.updateSkippedBytes(len(haystack) - at)
		return 0, false
	}
	state.updateSkippedBytes(c - at)
	return c, true
}
