package ahocorasick

type patternStats struct {
	count      int
	totalBytes int
	maxLen     int
}

// validatePatterns rejects empty patterns and sums up the pattern set.
func validatePatterns(patterns [][]byte) (patternStats, error) {
	stats := patternStats{count: len(patterns)}
	for i, pat := range patterns {
		if len(pat) == 0 {
			return patternStats{}, &InvalidPatternError{Index: i}
		}
		stats.totalBytes += len(pat)
		stats.maxLen = max(stats.maxLen, len(pat))
	}
	return stats, nil
}
