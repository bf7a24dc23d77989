// main.go - patch bank authoring tool: runs a Lua script that calls
// patch(index, fields) for each of the 32 slots and writes the resulting
// 4096-byte sysex bulk-dump payload to disk.
package main

import (
	"flag"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

func main() {
	scriptPath := flag.String("script", "", "Lua script that builds the bank")
	outPath := flag.String("out", "bank.syx", "output path for the 4096-byte bank payload")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Fprintln(os.Stderr, "dx7bankgen: -script is required")
		os.Exit(1)
	}

	b := newBankBuilder()

	L := lua.NewState()
	defer L.Close()
	L.SetGlobal("patch", L.NewFunction(b.luaPatch))

	if err := L.DoFile(*scriptPath); err != nil {
		fmt.Fprintf(os.Stderr, "dx7bankgen: script error: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outPath, b.bytes(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "dx7bankgen: writing %s: %v\n", *outPath, err)
		os.Exit(1)
	}
	fmt.Printf("dx7bankgen: wrote %s (%d bytes)\n", *outPath, len(b.bytes()))
}
