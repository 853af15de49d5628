package vcfg

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// RuleLexer defines the lexical structure of .vcfg rule files.
//
// Patterns and rules use different character sets, so the lexer switches
// state at "=>" and returns to the pattern state once the rule is closed.
// Whitespace, including newlines, is insignificant between tokens.
var RuleLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Arrow", Pattern: `=>`, Action: lexer.Push("Rule")},

		// [R1], [#PWR01]
		{Name: "RefDes", Pattern: `\[[^\[\]=\s]+\]`},

		// Part names
		{Name: "Word", Pattern: `[^=\s]+`},
	},
	"Rule": {
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Skip", Pattern: `skip\b`, Action: lexer.Pop()},
		{Name: "External", Pattern: `module\[`},

		// Pin references: #1, #A3
		{Name: "PinNum", Pattern: `#[A-Za-z0-9]+`},

		{Name: "Comma", Pattern: `,`},
		{Name: "Open", Pattern: `\(`},
		{Name: "Close", Pattern: `[)\]]`, Action: lexer.Pop()},

		// Primitive names run up to the pin list and keep trailing blanks,
		// so delays and parameters ("nand #5 ") pass through verbatim.
		{Name: "Name", Pattern: `[^()\r\n]+`},
	},
})
