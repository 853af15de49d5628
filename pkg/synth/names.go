package synth

import "regexp"

var simpleIdent = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9$_]*$`)

// VerilogName returns name as a Verilog identifier. Simple identifiers
// pass through; anything else becomes an escaped identifier: a leading
// backslash and a terminating space.
func VerilogName(name string) string {
	if simpleIdent.MatchString(name) {
		return name
	}
	return `\` + name + " "
}
