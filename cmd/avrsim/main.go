// Command avrsim builds a CPU core, loads a program, ticks it, and dumps
// status — the concrete driver loop the simulator's core packages are
// named as needing but don't specify. Grounded on the teacher's main.go
// entry-point shape (memory/bus wiring, then run), without its GUI/audio
// backend selection or its ASCII-art banner: this driver has nothing to
// display or play, just a CPU core to advance.
package main

import (
	"flag"
	"fmt"
	"os"

	"avrsim/internal/asm"
	"avrsim/internal/cpu"
	"avrsim/internal/datamem"
	"avrsim/internal/debugview"
	"avrsim/internal/progmem"
)

// sample runs when -program is not given: load two immediates, add them,
// then spin comparing against the sum so a -ticks run has something
// observable to print.
var sample = []asm.Line{
	{Op: "LDI", A1: "R16", A2: "5"},
	{Op: "LDI", A1: "R17", A2: "7"},
	{Op: "ADD", A1: "R16", A2: "R17"},
	{Label: "spin", Op: "CPI", A1: "R16", A2: "12"},
	{Op: "BREQ", A1: "spin"},
	{Op: "NOP"},
}

func main() {
	programPath := flag.String("program", "", "path to a Lua script that builds a \"program\" table (defaults to a small built-in sample)")
	ticks := flag.Int("ticks", 10, "number of instructions to execute")
	everyTick := flag.Bool("status", false, "print status after every instruction instead of just the final one")
	flag.Parse()

	mem := datamem.New()
	prog := progmem.New()
	c := cpu.New(mem, prog)

	// Assembled through cpu.CPU.LoadProgram, not asm.Load, so the words are
	// cached on c and survive a later Reset (e.g. from an unknown-opcode
	// fault) instead of being wiped by Reset's unconditional prog.Reset().
	if *programPath == "" {
		c.LoadProgram(asm.Assemble(sample))
	} else {
		script, err := os.ReadFile(*programPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "avrsim: reading %s: %v\n", *programPath, err)
			os.Exit(1)
		}
		lines, err := asm.EvalLuaLines(string(script))
		if err != nil {
			fmt.Fprintf(os.Stderr, "avrsim: assembling %s: %v\n", *programPath, err)
			os.Exit(1)
		}
		if err := loadAssembled(c, lines); err != nil {
			fmt.Fprintf(os.Stderr, "avrsim: assembling %s: %v\n", *programPath, err)
			os.Exit(1)
		}
	}

	printer := debugview.NewPrinter(os.Stdout)
	for i := 0; i < *ticks; i++ {
		c.AdvanceInstruction()
		if *everyTick {
			printer.Print(debugview.Snapshot(c))
		}
	}
	if !*everyTick {
		printer.Print(debugview.Snapshot(c))
	}
}

// loadAssembled recovers asm.Assemble's panic into an error: a Lua-built
// line listing is external input, the same as the script it came from, so
// a bad mnemonic here should report cleanly rather than crash the driver.
func loadAssembled(c *cpu.CPU, lines []asm.Line) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	c.LoadProgram(asm.Assemble(lines))
	return nil
}
