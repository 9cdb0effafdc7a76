// Package pcint implements the simulator's pin-change interrupt monitor: a
// stateful per-port observer that compares the live PIN register against a
// cached last-known value and synthesizes interrupts through a capability
// interface rather than calling back into the control unit directly.
package pcint

import "avrsim/internal/datamem"

// Predefined program-memory vectors. The reset vector must be 0; the three
// pin-change vectors are otherwise arbitrary small fixed addresses chosen
// to sit right after it.
const (
	ResetVect  = 0
	PCINT0Vect = 1
	PCINT1Vect = 2
	PCINT2Vect = 3
)

// InterruptSink is implemented by whatever owns interrupt dispatch (the
// control unit). A Monitor holds one and calls it instead of reaching back
// into CPU internals, mirroring the source's port-to-core callback with an
// explicit capability rather than a hand-rolled vtable.
type InterruptSink interface {
	InterruptEnabled() bool
	Fire(vector byte, flagBit uint)
}

// Port describes one of the three monitored I/O ports (B, C, D). Everything
// but LastValue is fixed at construction time.
type Port struct {
	PinReg          uint16
	MaskReg         uint16
	FlagBit         uint
	InterruptVector byte
	LastValue       byte
}

// Monitor owns the three port descriptors and runs one sampling pass per
// CPU state advance.
type Monitor struct {
	ports [3]Port
}

// New returns a monitor configured with the simulator's standard B/C/D port
// wiring and predefined pin-change vectors.
func New() *Monitor {
	return &Monitor{
		ports: [3]Port{
			{PinReg: datamem.PINB, MaskReg: datamem.PCMSK0, FlagBit: datamem.PCIF0, InterruptVector: PCINT0Vect},
			{PinReg: datamem.PINC, MaskReg: datamem.PCMSK1, FlagBit: datamem.PCIF1, InterruptVector: PCINT1Vect},
			{PinReg: datamem.PIND, MaskReg: datamem.PCMSK2, FlagBit: datamem.PCIF2, InterruptVector: PCINT2Vect},
		},
	}
}

// Reset clears every port's cached last-sampled value.
func (m *Monitor) Reset() {
	for i := range m.ports {
		m.ports[i].LastValue = 0
	}
}

// Ports returns the monitor's three port descriptors, read-only snapshot.
func (m *Monitor) Ports() [3]Port {
	return m.ports
}

// Sample runs one monitoring pass over all three ports against mem, firing
// through sink when a masked pin changes and the global interrupt enable
// (as reported by sink) is set. PCIFR is updated regardless of whether the
// interrupt actually fires.
func (m *Monitor) Sample(mem *datamem.Memory, sink InterruptSink) {
	for i := range m.ports {
		m.sampleOne(&m.ports[i], mem, sink)
	}
}

func (m *Monitor) sampleOne(p *Port, mem *datamem.Memory, sink InterruptSink) {
	current := mem.Read(p.PinReg)
	if current == p.LastValue {
		return
	}

	changed := current ^ p.LastValue
	mask := mem.Read(p.MaskReg)

	for bit := uint(0); bit < 8; bit++ {
		if changed&(1<<bit) == 0 {
			continue
		}
		if mask&(1<<bit) == 0 {
			continue
		}

		pcifr := mem.Read(datamem.PCIFR)
		pcifr |= 1 << p.FlagBit
		mem.Write(datamem.PCIFR, pcifr)

		if sink.InterruptEnabled() {
			sink.Fire(p.InterruptVector, p.FlagBit)
		}
	}

	p.LastValue = current
}
