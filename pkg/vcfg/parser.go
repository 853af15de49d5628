package vcfg

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

var ruleParser = participle.MustBuild[File](
	participle.Lexer(RuleLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(3),
)

// Parse reads rule entries from r. source names the input in errors and
// entry origins.
func Parse(source string, r io.Reader) ([]Entry, error) {
	file, err := ruleParser.Parse(source, r)
	if err != nil {
		return nil, toParseError(source, err)
	}
	return file.entries(source), nil
}

// ParseString reads rule entries from a string.
func ParseString(source, input string) ([]Entry, error) {
	file, err := ruleParser.ParseString(source, input)
	if err != nil {
		return nil, toParseError(source, err)
	}
	return file.entries(source), nil
}

func (f *File) entries(source string) []Entry {
	entries := make([]Entry, 0, len(f.Entries))
	for _, d := range f.Entries {
		entries = append(entries, d.toEntry(source))
	}
	return entries
}

func toParseError(source string, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		return &ParseError{Source: source, Line: pos.Line, Column: pos.Column, Msg: perr.Message()}
	}
	return fmt.Errorf("%s: %w", source, err)
}

// Load parses rules from r and appends them. On any error the set is left
// unchanged.
func (rs *RuleSet) Load(source string, r io.Reader) error {
	entries, err := Parse(source, r)
	if err != nil {
		return err
	}
	return rs.Append(entries)
}

// LoadString is Load for in-memory input.
func (rs *RuleSet) LoadString(source, input string) error {
	entries, err := ParseString(source, input)
	if err != nil {
		return err
	}
	return rs.Append(entries)
}

// LoadFile parses and appends a rule file.
func (rs *RuleSet) LoadFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open rule file: %w", err)
	}
	defer file.Close()

	return rs.Load(filename, file)
}

// LoadFiles loads rule files in order. Rules from earlier files match
// first. Nothing is added unless every file loads cleanly.
func LoadFiles(filenames ...string) (*RuleSet, error) {
	rs := NewRuleSet()
	for _, name := range filenames {
		if err := rs.LoadFile(name); err != nil {
			return nil, err
		}
	}
	return rs, nil
}
