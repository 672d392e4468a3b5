package ahocorasick

import "unsafe"

// storeMaxBytes is the total pattern size under which StoreAuto keeps a copy.
const storeMaxBytes = 4096

func shouldStore(mode StoreMode, stats patternStats) bool {
	switch mode {
	case StoreAlways:
		return true
	case StoreNever:
		return false
	}
	return stats.totalBytes < storeMaxBytes
}

// patternStore owns a copy of every pattern. All copies share one backing
// array.
type patternStore struct {
	patterns [][]byte
	strs     []string
}

func newPatternStore(patterns [][]byte) *patternStore {
	total := 0
	for _, p := range patterns {
		total += len(p)
	}
	buf := make([]byte, 0, total)
	s := &patternStore{
		patterns: make([][]byte, len(patterns)),
		strs:     make([]string, len(patterns)),
	}
	for i, p := range patterns {
		start := len(buf)
		buf = append(buf, p...)
		s.patterns[i] = buf[start:len(buf):len(buf)]
		s.strs[i] = string(p)
	}
	return s
}

func (s *patternStore) bytes(pattern int) []byte {
	return s.patterns[pattern]
}

func (s *patternStore) string(pattern int) string {
	return s.strs[pattern]
}

func (s *patternStore) memoryUsage() int {
	size := len(s.patterns) * int(unsafe.Sizeof([]byte(nil))+unsafe.Sizeof(""))
	for _, p := range s.patterns {
		size += 2 * len(p)
	}
	return size
}
