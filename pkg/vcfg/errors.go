package vcfg

import "fmt"

// ParseError reports a malformed rule file.
type ParseError struct {
	Source string
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Column, e.Msg)
}

// DuplicateRuleError reports a pattern defined twice.
type DuplicateRuleError struct {
	Pattern  PartPattern
	At       Origin
	Previous Origin
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("%s: duplicate rule for %s (first defined at %s)", e.At, e.Pattern, e.Previous)
}
