package main

import "github.com/OpenTraceLab/OpenTraceVerilog/cmd/otv/cmd"

func main() {
	cmd.Execute()
}
