package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/acsearch/ahocorasick"
	"github.com/acsearch/ahocorasick/internal/patternfile"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	searchPatternsPath string
	searchMatchKind    string
	searchOverlapping  bool
	searchWholeWords   bool
	searchImpl         string
	searchStore        string
	searchFormat       string
	searchColor        string
)

var searchCmd = &cobra.Command{
	Use:   "search [FILE...]",
	Short: "Search files for patterns",
	Long: `Search each FILE, or standard input when no file is given, for the patterns
in the pattern file. Settings given as flags override the pattern file.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchPatternsPath, "patterns", "p", "", "Path to a pattern file (.txt, .yaml, .yml)")
	searchCmd.Flags().StringVar(&searchMatchKind, "match-kind", "", "Match kind: standard, leftmost-first, leftmost-longest")
	searchCmd.Flags().BoolVar(&searchOverlapping, "overlapping", false, "Report overlapping matches (standard match kind only)")
	searchCmd.Flags().BoolVar(&searchWholeWords, "whole-words", false, "Only report matches that are whole words")
	searchCmd.Flags().StringVar(&searchImpl, "impl", "", "Automaton: auto, sparse, dense, dfa")
	searchCmd.Flags().StringVar(&searchStore, "store", "", "Keep a copy of the patterns: auto, always, never")
	searchCmd.Flags().StringVar(&searchFormat, "format", "text", "Output format: text, json")
	searchCmd.Flags().StringVar(&searchColor, "color", "auto", "Color output: auto, always, never")
}

// matchRecord is one match in JSON output.
type matchRecord struct {
	File    string `json:"file"`
	Pattern int    `json:"pattern"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Text    string `json:"text"`
}

type input struct {
	name string
	data []byte
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchPatternsPath == "" {
		return fmt.Errorf("--patterns is required")
	}
	if searchFormat != "text" && searchFormat != "json" {
		return fmt.Errorf("unknown output format: %s", searchFormat)
	}

	ac, err := buildAutomaton(cmd)
	if err != nil {
		return err
	}

	inputs, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	haystacks := make([][]byte, len(inputs))
	for i, in := range inputs {
		haystacks[i] = in.data
	}
	results, err := ac.SearchBatch(ctx, haystacks, searchOverlapping)
	if err != nil {
		return err
	}

	var records []matchRecord
	for i, matches := range results {
		slog.Debug("searched input", "file", inputs[i].name, "bytes", len(inputs[i].data), "matches", len(matches))
		for _, m := range matches {
			records = append(records, matchRecord{
				File:    inputs[i].name,
				Pattern: m.Pattern(),
				Start:   m.Start(),
				End:     m.End(),
				Text:    string(ac.MatchBytes(m, inputs[i].data)),
			})
		}
	}

	out := cmd.OutOrStdout()
	if searchFormat == "json" {
		return outputJSON(out, records)
	}
	return outputText(out, records, colorEnabled(searchColor))
}

func buildAutomaton(cmd *cobra.Command) (*ahocorasick.AhoCorasick, error) {
	f, err := patternfile.Load(searchPatternsPath)
	if err != nil {
		return nil, err
	}
	opts, err := f.Options()
	if err != nil {
		return nil, fmt.Errorf("pattern file %s: %w", searchPatternsPath, err)
	}

	if searchMatchKind != "" {
		if opts.MatchKind, err = ahocorasick.ParseMatchKind(searchMatchKind); err != nil {
			return nil, err
		}
	}
	if searchImpl != "" {
		if opts.Implementation, err = ahocorasick.ParseImplementation(searchImpl); err != nil {
			return nil, err
		}
	}
	if searchStore != "" {
		if opts.StorePatterns, err = ahocorasick.ParseStoreMode(searchStore); err != nil {
			return nil, err
		}
	}
	if searchWholeWords || cmd.Flags().Changed("whole-words") {
		opts.MatchOnlyWholeWords = searchWholeWords
	}
	opts.Logger = slog.Default()

	ac, err := ahocorasick.NewBuilder(opts).BuildByte(f.Patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to build automaton from %s: %w", searchPatternsPath, err)
	}
	return ac, nil
}

func readInputs(stdin io.Reader, paths []string) ([]input, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []input{{name: "-", data: data}}, nil
	}

	inputs := make([]input, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		inputs = append(inputs, input{name: path, data: data})
	}
	return inputs, nil
}

// colorEnabled resolves --color the way NO_COLOR aware tools do.
func colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
}

func outputText(w io.Writer, records []matchRecord, colored bool) error {
	file := color.New(color.FgHiBlue)
	match := color.New(color.FgYellow)
	if colored {
		file.EnableColor()
		match.EnableColor()
	} else {
		file.DisableColor()
		match.DisableColor()
	}

	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s:%d:%d:%d:%s\n", file.Sprint(r.File), r.Start, r.End, r.Pattern, match.Sprint(r.Text)); err != nil {
			return err
		}
	}
	return nil
}

func outputJSON(w io.Writer, records []matchRecord) error {
	if records == nil {
		records = []matchRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
