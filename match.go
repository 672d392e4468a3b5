package ahocorasick

// A representation of a match reported by an Aho-Corasick automaton.
//
// A match has two essential pieces of information: the identifier of the
// pattern that matched, along with the start and end offsets of the match
// in the haystack. Offsets are byte offsets.
type Match struct {
	pattern int
	len     int
	end     int
}

// Pattern returns the index of the pattern in the slice of the patterns provided by the user that
// was matched
func (m Match) Pattern() int {
	return m.pattern
}

// End gives the offset one past the last byte of this match inside the haystack
func (m Match) End() int {
	return m.end
}

// Start gives the offset of the first byte of this match inside the haystack
func (m Match) Start() int {
	return m.end - m.len
}

// Len is the length of the matched pattern in bytes.
func (m Match) Len() int {
	return m.len
}
