// Package asm is the simulator's external assembler collaborator: it turns
// a list of mnemonic lines into encoded 32-bit instruction words and writes
// them into program memory at boot. spec.md names this collaborator
// without specifying it; this package gives it the teacher's own
// table-driven, two-pass shape (assembler/ie32asm.go), generalized from a
// text source file to an in-memory line listing.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"avrsim/internal/cpu"
	"avrsim/internal/progmem"
)

// Line is one assembled instruction: an optional label definition and a
// mnemonic with up to two operand tokens. A Line's address is its index in
// the slice passed to Assemble, matching program memory's word-indexed
// addressing — there is no .org directive, since nothing here supports
// relocation.
type Line struct {
	Label string
	Op    string
	A1    string
	A2    string
}

var mnemonics = map[string]cpu.Opcode{
	"NOP":  cpu.OpNOP,
	"LDI":  cpu.OpLDI,
	"MOV":  cpu.OpMOV,
	"OUT":  cpu.OpOUT,
	"IN":   cpu.OpIN,
	"STS":  cpu.OpSTS,
	"LDS":  cpu.OpLDS,
	"CLR":  cpu.OpCLR,
	"ORI":  cpu.OpORI,
	"ANDI": cpu.OpANDI,
	"XORI": cpu.OpXORI,
	"OR":   cpu.OpOR,
	"AND":  cpu.OpAND,
	"XOR":  cpu.OpXOR,
	"ADDI": cpu.OpADDI,
	"SUBI": cpu.OpSUBI,
	"ADD":  cpu.OpADD,
	"SUB":  cpu.OpSUB,
	"INC":  cpu.OpINC,
	"DEC":  cpu.OpDEC,
	"LSL":  cpu.OpLSL,
	"LSR":  cpu.OpLSR,
	"CPI":  cpu.OpCPI,
	"CP":   cpu.OpCP,
	"JMP":  cpu.OpJMP,
	"BREQ": cpu.OpBREQ,
	"BRNE": cpu.OpBRNE,
	"BRGE": cpu.OpBRGE,
	"BRGT": cpu.OpBRGT,
	"BRLE": cpu.OpBRLE,
	"BRLT": cpu.OpBRLT,
	"CALL": cpu.OpCALL,
	"RET":  cpu.OpRET,
	"RETI": cpu.OpRETI,
	"PUSH": cpu.OpPUSH,
	"POP":  cpu.OpPOP,
	"SEI":  cpu.OpSEI,
	"CLI":  cpu.OpCLI,
}

// jumpOps take a program-memory address (a label or a literal) in A1,
// rather than a register number or an immediate byte.
var jumpOps = map[string]bool{
	"JMP": true, "CALL": true,
	"BREQ": true, "BRNE": true, "BRGE": true, "BRGT": true, "BRLE": true, "BRLT": true,
}

// Assemble resolves labels and encodes lines into instruction words, one
// word per line, in declaration order. An unknown mnemonic, an undefined
// label, or a malformed operand is a programmer error in the line listing
// itself, not a recoverable runtime condition, so Assemble panics rather
// than returning an error, the same as a hand-built []asm.Line is expected
// to be correct before it is ever handed to the simulator.
func Assemble(lines []Line) []uint32 {
	labels := make(map[string]byte, len(lines))
	for i, ln := range lines {
		if ln.Label == "" {
			continue
		}
		if i >= progmem.AddressWidth {
			panic(fmt.Sprintf("asm: label %q at out-of-range address %d", ln.Label, i))
		}
		labels[ln.Label] = byte(i)
	}

	words := make([]uint32, len(lines))
	for i, ln := range lines {
		mnemonic := strings.ToUpper(ln.Op)
		op, ok := mnemonics[mnemonic]
		if !ok {
			panic(fmt.Sprintf("asm: line %d: unknown mnemonic %q", i+1, ln.Op))
		}

		var a1 byte
		if jumpOps[mnemonic] {
			a1 = resolveTarget(i, ln.A1, labels)
		} else {
			a1 = resolveOperand(i, ln.A1, labels)
		}
		a2 := resolveOperand(i, ln.A2, labels)

		words[i] = uint32(op)<<16 | uint32(a1)<<8 | uint32(a2)
	}
	return words
}

func resolveTarget(line int, token string, labels map[string]byte) byte {
	if addr, ok := labels[token]; ok {
		return addr
	}
	return resolveOperand(line, token, labels)
}

// resolveOperand accepts a register token ("R16"), a label reference, or a
// decimal/hex literal accepted by strconv.ParseUint's base-0 form (e.g.
// "42" or "0x2A"), mirroring the teacher's own parseOperand literal
// handling.
func resolveOperand(line int, token string, labels map[string]byte) byte {
	if token == "" {
		return 0
	}
	if len(token) > 1 && (token[0] == 'R' || token[0] == 'r') {
		if n, err := strconv.ParseUint(token[1:], 10, 8); err == nil {
			return byte(n)
		}
	}
	if addr, ok := labels[token]; ok {
		return addr
	}
	v, err := strconv.ParseUint(token, 0, 8)
	if err != nil {
		panic(fmt.Sprintf("asm: line %d: invalid operand %q: %v", line+1, token, err))
	}
	return byte(v)
}

// Load clears prog and writes already-assembled words into it, starting at
// address 0 — the same write sequence cpu.CPU.LoadProgram performs, without
// caching the words for a later Reset.
func Load(prog *progmem.Memory, words []uint32) {
	prog.Reset()
	for i, w := range words {
		if i >= progmem.AddressWidth {
			break
		}
		prog.Write(byte(i), w)
	}
}
