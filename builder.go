package ahocorasick

import (
	"fmt"
	"log/slog"
)

// Implementation selects the automaton representation.
type Implementation int

const (
	// AutoImplementation picks a representation from the size of the pattern set.
	AutoImplementation Implementation = iota
	// SparseNFA keeps only explicit trie edges and walks failure links while
	// searching. Cheapest to build, slowest to search.
	SparseNFA
	// DenseNFA packs states into one contiguous table and resolves every
	// transition of the states closest to the root.
	DenseNFA
	// DFA resolves every transition up front. Most expensive to build,
	// fastest to search.
	DFA
)

func (i Implementation) String() string {
	switch i {
	case AutoImplementation:
		return "auto"
	case SparseNFA:
		return "sparse"
	case DenseNFA:
		return "dense"
	case DFA:
		return "dfa"
	}
	return fmt.Sprintf("Implementation(%d)", int(i))
}

// ParseImplementation accepts the names printed by Implementation.String.
func ParseImplementation(s string) (Implementation, error) {
	switch s {
	case "", "auto":
		return AutoImplementation, nil
	case "sparse":
		return SparseNFA, nil
	case "dense":
		return DenseNFA, nil
	case "dfa":
		return DFA, nil
	}
	return 0, fmt.Errorf("unknown implementation %q", s)
}

// StoreMode decides whether the automaton keeps its own copy of the patterns.
type StoreMode int

const (
	// StoreAuto keeps a copy when the patterns are small in total.
	StoreAuto StoreMode = iota
	StoreAlways
	StoreNever
)

func (s StoreMode) String() string {
	switch s {
	case StoreAuto:
		return "auto"
	case StoreAlways:
		return "always"
	case StoreNever:
		return "never"
	}
	return fmt.Sprintf("StoreMode(%d)", int(s))
}

// ParseStoreMode accepts the names printed by StoreMode.String.
func ParseStoreMode(s string) (StoreMode, error) {
	switch s {
	case "", "auto":
		return StoreAuto, nil
	case "always":
		return StoreAlways, nil
	case "never":
		return StoreNever, nil
	}
	return 0, fmt.Errorf("unknown store mode %q", s)
}

const (
	// dfaMaxPatterns and dfaMaxTableBytes bound the auto choice of a DFA.
	dfaMaxPatterns   = 100
	dfaMaxTableBytes = 16 << 20
	// denseMaxPatternBytes bounds the auto choice of a DenseNFA.
	denseMaxPatternBytes = 1 << 20
)

// Options defines a set of options applied before the patterns are built
type Options struct {
	MatchKind      MatchKind
	StorePatterns  StoreMode
	Implementation Implementation
	// MatchOnlyWholeWords drops matches that touch an ASCII letter or digit
	// on either side. After a dropped match the search resumes one byte past
	// its start, so a whole word inside it is still found.
	MatchOnlyWholeWords bool
	// Logger receives one debug record per build. If nil, slog.Default() is used.
	Logger *slog.Logger

	// disablePrefilter and disableByteClasses are set only by tests.
	disablePrefilter   bool
	disableByteClasses bool
}

// DefaultOptions returns standard matching with automatic representation and
// pattern storage.
func DefaultOptions() Options {
	return Options{
		MatchKind:      StandardMatch,
		StorePatterns:  StoreAuto,
		Implementation: AutoImplementation,
	}
}

// Builder builds automata from pattern sets. A Builder may be reused.
type Builder struct {
	opts   Options
	logger *slog.Logger
}

// NewBuilder creates a new Builder based on Options
func NewBuilder(o Options) *Builder {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{opts: o, logger: logger}
}

// New builds an automaton over patterns with DefaultOptions.
func New(patterns []string) (*AhoCorasick, error) {
	return NewBuilder(DefaultOptions()).Build(patterns)
}

// NewByte builds an automaton over patterns with DefaultOptions.
func NewByte(patterns [][]byte) (*AhoCorasick, error) {
	return NewBuilder(DefaultOptions()).BuildByte(patterns)
}

// Build builds an automaton from the user provided patterns
func (b *Builder) Build(patterns []string) (*AhoCorasick, error) {
	bytePatterns := make([][]byte, len(patterns))
	for pati, pat := range patterns {
		bytePatterns[pati] = unsafeBytes(pat)
	}
	return b.BuildByte(bytePatterns)
}

// BuildByte builds an automaton from the user provided patterns. It fails with
// an *InvalidPatternError if any pattern is empty.
func (b *Builder) BuildByte(patterns [][]byte) (*AhoCorasick, error) {
	if !b.opts.MatchKind.valid() {
		return nil, fmt.Errorf("build automaton: invalid match kind %d", int(b.opts.MatchKind))
	}
	stats, err := validatePatterns(patterns)
	if err != nil {
		return nil, err
	}

	nb := newNFABuilder(b.opts.MatchKind)
	nb.prefilter = !b.opts.disablePrefilter
	n := nb.build(patterns)

	a, err := b.selectAutomaton(n, stats)
	if err != nil {
		return nil, err
	}

	ac := &AhoCorasick{
		a:          a,
		wholeWords: b.opts.MatchOnlyWholeWords,
	}
	if shouldStore(b.opts.StorePatterns, stats) {
		ac.store = newPatternStore(patterns)
	}

	prefilterName := "none"
	if pre := a.Prefilter(); pre != nil {
		prefilterName = pre.Name()
	}
	b.logger.Debug("built automaton",
		"patterns", stats.count,
		"pattern_bytes", stats.totalBytes,
		"max_pattern_len", stats.maxLen,
		"match_kind", b.opts.MatchKind.String(),
		"implementation", a.Implementation().String(),
		"states", a.StateCount(),
		"memory_bytes", ac.MemoryUsage(),
		"stored", ac.store != nil,
		"prefilter", prefilterName,
	)

	return ac, nil
}

func (b *Builder) selectAutomaton(n *nfa, stats patternStats) (automaton, error) {
	switch b.opts.Implementation {
	case SparseNFA:
		return n, nil
	case DenseNFA:
		c, ok := newContiguousBuilder().build(n)
		if !ok {
			return nil, fmt.Errorf("build dense automaton: %d states do not fit in a contiguous table", len(n.states))
		}
		return c, nil
	case DFA:
		return b.dfaBuilder().build(n), nil
	case AutoImplementation:
		return b.autoAutomaton(n, stats), nil
	}
	return nil, fmt.Errorf("build automaton: invalid implementation %d", int(b.opts.Implementation))
}

func (b *Builder) dfaBuilder() dfaBuilder {
	db := newDFABuilder()
	db.byteClasses = !b.opts.disableByteClasses
	return db
}

func (b *Builder) autoAutomaton(n *nfa, stats patternStats) automaton {
	db := b.dfaBuilder()
	if stats.count <= dfaMaxPatterns && db.tableBytes(n) <= dfaMaxTableBytes {
		return db.build(n)
	}
	if stats.totalBytes <= denseMaxPatternBytes {
		if c, ok := newContiguousBuilder().build(n); ok {
			return c
		}
		b.logger.Debug("dense automaton too large, using sparse", "states", len(n.states))
	}
	return n
}
