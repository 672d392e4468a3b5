package ahocorasick

import (
	"strings"
	"sync"
)

var builderPool = sync.Pool{
	New: func() any {
		return new(strings.Builder)
	},
}

// Replacer rewrites the non-overlapping matches of an automaton in a haystack.
type Replacer struct {
	ac *AhoCorasick
}

// NewReplacer returns a Replacer that uses ac to find what to replace.
func NewReplacer(ac *AhoCorasick) Replacer {
	return Replacer{ac: ac}
}

// ReplaceAllFunc replaces the matches found in the haystack according to the user provided function
// it gives fine grained control over what is replaced.
// A user can chose to stop the replacing process early by returning false in the lambda
// In that case, everything from that point will be kept as the original haystack
func (r Replacer) ReplaceAllFunc(haystack string, f func(match Match) (string, bool)) string {
	it := r.ac.Iter(haystack)
	m := it.Next()
	if m == nil {
		return haystack
	}

	str := builderPool.Get().(*strings.Builder)
	defer func() {
		str.Reset()
		builderPool.Put(str)
	}()
	str.Grow(len(haystack))

	start := 0
	for ; m != nil; m = it.Next() {
		rw, ok := f(*m)
		if !ok {
			break
		}
		str.WriteString(haystack[start:m.Start()])
		str.WriteString(rw)
		start = m.End()
	}
	str.WriteString(haystack[start:])

	return str.String()
}

// ReplaceAll replaces every match of pattern i with replaceWith[i]. It fails
// with ErrReplacementCount if replaceWith does not have one entry per pattern.
func (r Replacer) ReplaceAll(haystack string, replaceWith []string) (string, error) {
	if len(replaceWith) != r.ac.PatternCount() {
		return "", ErrReplacementCount
	}

	return r.ReplaceAllFunc(haystack, func(match Match) (string, bool) {
		return replaceWith[match.pattern], true
	}), nil
}
