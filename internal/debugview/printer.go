package debugview

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// Printer renders successive Status snapshots to a writer, highlighting
// registers that changed since the previous Print call when the writer is
// a real terminal. This is the same "terminal-aware diagnostic output"
// concern the teacher's own debug overlay paths serve, reused here for a
// plain status dump instead of a GUI overlay.
type Printer struct {
	w        io.Writer
	colorize bool
	have     bool
	prev     Status
}

// NewPrinter returns a Printer writing to w. If w is an *os.File connected
// to a terminal, changed registers are highlighted; otherwise output is
// plain text in Status.Fprint's layout, with SRBits appended to the
// header line.
func NewPrinter(w io.Writer) *Printer {
	colorize := false
	if f, ok := w.(*os.File); ok {
		colorize = term.IsTerminal(int(f.Fd()))
	}
	return &Printer{w: w, colorize: colorize}
}

// Print writes s, highlighting any register that differs from the Status
// passed to the previous Print call. The first call has nothing to diff
// against and highlights nothing.
func (p *Printer) Print(s Status) {
	fmt.Fprintf(p.w, "state=%-7s pc=0x%02X mar=0x%02X ir=0x%06X op=%v op1=0x%02X op2=0x%02X sr=0x%02X (%s)\n",
		s.State, s.PC, s.MAR, s.IR, s.OpCode, s.Op1, s.Op2, s.SR, s.SRBits())

	for i, v := range s.Registers {
		changed := p.have && p.prev.Registers[i] != v
		if changed && p.colorize {
			fmt.Fprintf(p.w, "%sr%-2d=0x%02X%s ", ansiYellow, i, v, ansiReset)
		} else {
			fmt.Fprintf(p.w, "r%-2d=0x%02X ", i, v)
		}
		if i%8 == 7 {
			fmt.Fprintln(p.w)
		}
	}

	p.prev = s
	p.have = true
}
