// Package patternfile loads search patterns from plain text or YAML files.
package patternfile

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/acsearch/ahocorasick"
	"gopkg.in/yaml.v3"
)

// File is a loaded pattern file. The settings are empty when the file did not
// set them.
type File struct {
	Patterns       [][]byte
	MatchKind      string
	Implementation string
	StorePatterns  string
	WholeWords     bool
}

type yamlFile struct {
	Patterns       []yamlPattern `yaml:"patterns"`
	MatchKind      string        `yaml:"match_kind"`
	Implementation string        `yaml:"implementation"`
	StorePatterns  string        `yaml:"store_patterns"`
	WholeWords     bool          `yaml:"whole_words"`
}

// yamlPattern is either a plain scalar or a mapping with one of text or hex.
type yamlPattern []byte

func (p *yamlPattern) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*p = []byte(node.Value)
		return nil
	case yaml.MappingNode:
		var entry struct {
			Text *string `yaml:"text"`
			Hex  *string `yaml:"hex"`
		}
		if err := node.Decode(&entry); err != nil {
			return err
		}
		switch {
		case entry.Text != nil && entry.Hex != nil:
			return fmt.Errorf("line %d: pattern has both text and hex", node.Line)
		case entry.Text != nil:
			*p = []byte(*entry.Text)
		case entry.Hex != nil:
			b, err := hex.DecodeString(strings.ReplaceAll(*entry.Hex, " ", ""))
			if err != nil {
				return fmt.Errorf("line %d: invalid hex pattern: %w", node.Line, err)
			}
			*p = b
		default:
			return fmt.Errorf("line %d: pattern needs text or hex", node.Line)
		}
		return nil
	}
	return fmt.Errorf("line %d: pattern must be a string or a mapping", node.Line)
}

// Load reads path as YAML when it ends in .yaml or .yml and as plain text
// otherwise.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file %s: %w", path, err)
	}

	var f *File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err = ParseYAML(data)
	default:
		f, err = ParseText(data)
	}
	if err != nil {
		return nil, fmt.Errorf("pattern file %s: %w", path, err)
	}
	return f, nil
}

// ParseText reads one pattern per line. Blank lines and lines starting with
// # are skipped and a trailing \r is dropped.
func ParseText(data []byte) (*File, error) {
	f := &File{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		line := bytes.TrimSuffix(sc.Bytes(), []byte("\r"))
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		f.Patterns = append(f.Patterns, bytes.Clone(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read patterns: %w", err)
	}
	return f, nil
}

// ParseYAML reads a YAML pattern file.
func ParseYAML(data []byte) (*File, error) {
	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	f := &File{
		Patterns:       make([][]byte, len(yf.Patterns)),
		MatchKind:      yf.MatchKind,
		Implementation: yf.Implementation,
		StorePatterns:  yf.StorePatterns,
		WholeWords:     yf.WholeWords,
	}
	for i, p := range yf.Patterns {
		f.Patterns[i] = p
	}
	return f, nil
}

// Options converts the file settings into builder options, starting from
// ahocorasick.DefaultOptions.
func (f *File) Options() (ahocorasick.Options, error) {
	opts := ahocorasick.DefaultOptions()

	kind, err := ahocorasick.ParseMatchKind(f.MatchKind)
	if err != nil {
		return opts, err
	}
	impl, err := ahocorasick.ParseImplementation(f.Implementation)
	if err != nil {
		return opts, err
	}
	store, err := ahocorasick.ParseStoreMode(f.StorePatterns)
	if err != nil {
		return opts, err
	}

	opts.MatchKind = kind
	opts.Implementation = impl
	opts.StorePatterns = store
	opts.MatchOnlyWholeWords = f.WholeWords
	return opts, nil
}
