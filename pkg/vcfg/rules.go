// Package vcfg holds the component rules that drive netlist conversion:
// which components to drop, which form the module boundary, and which
// become primitive instances.
//
// Rules are kept in load order and matched first-match-wins, so a
// per-designator rule loaded early shadows a per-part rule loaded later.
package vcfg

import (
	"fmt"
	"strings"
)

// PatternKind says what a PartPattern is compared against.
type PatternKind int

const (
	ByRefDes PatternKind = iota
	ByPart
)

// PartPattern selects components by exact reference designator or by
// exact part name.
type PartPattern struct {
	Kind  PatternKind
	Value string
}

// RefDes returns a pattern matching one reference designator.
func RefDes(ref string) PartPattern {
	return PartPattern{Kind: ByRefDes, Value: ref}
}

// Part returns a pattern matching every component of a part type.
func Part(part string) PartPattern {
	return PartPattern{Kind: ByPart, Value: part}
}

// Matches reports whether a component with the given designator and part
// name is selected by the pattern.
func (p PartPattern) Matches(refDes, part string) bool {
	switch p.Kind {
	case ByRefDes:
		return p.Value == refDes
	case ByPart:
		return p.Value == part
	}
	return false
}

// String renders the pattern in rule file syntax.
func (p PartPattern) String() string {
	if p.Kind == ByRefDes {
		return "[" + p.Value + "]"
	}
	return p.Value
}

// PartRule is one of Skip, External or Module.
type PartRule interface {
	isPartRule()
	String() string
}

// Skip drops the component from the netlist.
type Skip struct{}

// External makes the component the module boundary; each listed pin
// becomes a port.
type External struct {
	Pins []string
}

// Module instantiates primitive Name with the listed pins as connections,
// in order.
type Module struct {
	Name string
	Pins []string
}

func (Skip) isPartRule()     {}
func (External) isPartRule() {}
func (Module) isPartRule()   {}

func (Skip) String() string { return "skip" }

func (r External) String() string {
	return "module[" + pinList(r.Pins) + "]"
}

func (r Module) String() string {
	return r.Name + "(" + pinList(r.Pins) + ")"
}

func pinList(pins []string) string {
	refs := make([]string, len(pins))
	for i, p := range pins {
		refs[i] = "#" + p
	}
	return strings.Join(refs, ",")
}

// Origin records where a rule came from.
type Origin struct {
	Source string // File name, or InferredSource for synthesized rules
	Line   int
}

// InferredSource is the Origin source of rules added by Add.
const InferredSource = "<inferred>"

func (o Origin) String() string {
	if o.Line > 0 {
		return fmt.Sprintf("%s:%d", o.Source, o.Line)
	}
	return o.Source
}

// Entry is one pattern/rule pair.
type Entry struct {
	Pattern PartPattern
	Rule    PartRule
	Origin  Origin
}

// RuleSet is an ordered list of rules with unique patterns. The zero value
// is an empty set ready to use; a nil *RuleSet reads as empty.
type RuleSet struct {
	entries []Entry
	index   map[PartPattern]int
}

// NewRuleSet returns an empty rule set.
func NewRuleSet() *RuleSet {
	return &RuleSet{index: make(map[PartPattern]int)}
}

// Lookup returns the first rule whose pattern matches the component.
func (rs *RuleSet) Lookup(refDes, part string) (PartRule, bool) {
	e, ok := rs.Match(refDes, part)
	if !ok {
		return nil, false
	}
	return e.Rule, true
}

// Match is Lookup returning the whole entry, origin included.
func (rs *RuleSet) Match(refDes, part string) (Entry, bool) {
	if rs == nil {
		return Entry{}, false
	}
	for _, e := range rs.entries {
		if e.Pattern.Matches(refDes, part) {
			return e, true
		}
	}
	return Entry{}, false
}

// Add appends a synthesized rule. It fails if the pattern is already used.
func (rs *RuleSet) Add(pattern PartPattern, rule PartRule) error {
	return rs.Append([]Entry{{
		Pattern: pattern,
		Rule:    rule,
		Origin:  Origin{Source: InferredSource},
	}})
}

// Append adds a batch of entries after the existing ones. Either every
// entry is added or, when any pattern repeats (within the batch or against
// the set), none is.
func (rs *RuleSet) Append(entries []Entry) error {
	if rs.index == nil {
		rs.index = make(map[PartPattern]int, len(entries))
	}

	batch := make(map[PartPattern]int, len(entries))
	for i, e := range entries {
		if j, ok := rs.index[e.Pattern]; ok {
			return &DuplicateRuleError{Pattern: e.Pattern, At: e.Origin, Previous: rs.entries[j].Origin}
		}
		if j, ok := batch[e.Pattern]; ok {
			return &DuplicateRuleError{Pattern: e.Pattern, At: e.Origin, Previous: entries[j].Origin}
		}
		batch[e.Pattern] = i
	}

	for _, e := range entries {
		rs.index[e.Pattern] = len(rs.entries)
		rs.entries = append(rs.entries, e)
	}
	return nil
}

// Entries returns the rules in match order.
func (rs *RuleSet) Entries() []Entry {
	if rs == nil {
		return nil
	}
	out := make([]Entry, len(rs.entries))
	copy(out, rs.entries)
	return out
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.entries)
}

// Clone returns an independent copy. Rule values are immutable and shared.
func (rs *RuleSet) Clone() *RuleSet {
	clone := NewRuleSet()
	if rs == nil {
		return clone
	}
	clone.entries = rs.Entries()
	for k, v := range rs.index {
		clone.index[k] = v
	}
	return clone
}
