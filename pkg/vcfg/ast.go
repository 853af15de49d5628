package vcfg

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed rule file: a sequence of pattern => rule entries.
type File struct {
	Entries []*EntryDecl `@@*`
}

// EntryDecl is one "pattern => rule" line.
// Example: [U3] => buf(#2,#1)
type EntryDecl struct {
	Pos     lexer.Position
	Pattern *PatternDecl `@@ Arrow`
	Rule    *RuleDecl    `@@`
}

// PatternDecl selects components by reference designator ([R1]) or by
// part name (R).
type PatternDecl struct {
	RefDes *string `  @RefDes`
	Part   *string `| @Word`
}

// RuleDecl is one of: skip, module[#..] or name(#..).
type RuleDecl struct {
	Skip     bool          `  @Skip`
	External *ExternalDecl `| @@`
	Module   *ModuleDecl   `| @@`
}

// ExternalDecl marks a component as the module boundary.
// Example: module[#1,#2,#3]
type ExternalDecl struct {
	Pins []string `External ( @PinNum ( Comma @PinNum )* )? "]"`
}

// ModuleDecl instantiates a primitive with pins connected in list order.
// The name is kept as written, trailing blanks included.
// Example: nand(#3,#1,#2), nand #5 (#3,#1,#2)
type ModuleDecl struct {
	Name string   `@Name`
	Pins []string `Open ( @PinNum ( Comma @PinNum )* )? ")"`
}

func pinNumbers(raw []string) []string {
	pins := make([]string, len(raw))
	for i, p := range raw {
		pins[i] = strings.TrimPrefix(p, "#")
	}
	return pins
}

// toEntry converts the syntax tree node into a RuleSet entry.
func (d *EntryDecl) toEntry(source string) Entry {
	var e Entry
	switch {
	case d.Pattern.RefDes != nil:
		ref := strings.TrimSuffix(strings.TrimPrefix(*d.Pattern.RefDes, "["), "]")
		e.Pattern = RefDes(ref)
	default:
		e.Pattern = Part(*d.Pattern.Part)
	}

	switch {
	case d.Rule.Skip:
		e.Rule = Skip{}
	case d.Rule.External != nil:
		e.Rule = External{Pins: pinNumbers(d.Rule.External.Pins)}
	default:
		e.Rule = Module{Name: d.Rule.Module.Name, Pins: pinNumbers(d.Rule.Module.Pins)}
	}

	e.Origin = Origin{Source: source, Line: d.Pos.Line}
	return e
}
