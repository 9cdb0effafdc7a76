// Package datamem implements the simulator's data memory, which doubles as
// the memory-mapped I/O space for the three monitored pin-change ports
// (B, C, D). This mirrors the AVR convention the CORE is modeled on: PIN/
// PORT/DDR triplets per port, plus the shared pin-change control registers
// PCICR/PCMSK0..2/PCIFR.
package datamem

import "errors"

// AddressWidth is the total number of addressable bytes.
const AddressWidth = 2000

// ErrOutOfRange is returned by Write when address is outside [0, AddressWidth).
var ErrOutOfRange = errors.New("datamem: address out of range")

// Named I/O register addresses. Values are arbitrary but fixed and distinct,
// matching the layout the pin-change monitor and sample programs expect.
const (
	PINB = 0x00
	PINC = 0x01
	PIND = 0x02

	PORTB = 0x03
	PORTC = 0x04
	PORTD = 0x05

	DDRB = 0x06
	DDRC = 0x07
	DDRD = 0x08

	PCICR  = 0x09
	PCMSK0 = 0x0A
	PCMSK1 = 0x0B
	PCMSK2 = 0x0C
	PCIFR  = 0x0D
)

// Pin-change enable bits within PCICR, and flag bits within PCIFR.
const (
	PCIE0 = 0
	PCIE1 = 1
	PCIE2 = 2

	PCIF0 = 0
	PCIF1 = 1
	PCIF2 = 2
)

// Memory is a fixed-size byte array aliasing the I/O register space in its
// low addresses, with the remainder available as plain RAM.
type Memory struct {
	data [AddressWidth]byte
}

// New returns a zeroed data memory bank.
func New() *Memory {
	return &Memory{}
}

// Read returns the byte at address, or 0 if address is out of range.
func (m *Memory) Read(address uint16) byte {
	if int(address) >= AddressWidth {
		return 0
	}
	return m.data[address]
}

// Write stores value at address. Out-of-range writes are rejected and
// ErrOutOfRange is returned; the memory is left unchanged.
func (m *Memory) Write(address uint16, value byte) error {
	if int(address) >= AddressWidth {
		return ErrOutOfRange
	}
	m.data[address] = value
	return nil
}

// Reset zeroes every byte of data memory.
func (m *Memory) Reset() {
	for i := range m.data {
		m.data[i] = 0
	}
}
