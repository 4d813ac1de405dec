/*
Copyright (C) 2025-2026 I. Yamazaki

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package processor

import (
	"errors"

	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/memory"
)

const (
	// StatesPerSec is the TeC7 clock rate, 2.4576 MHz.
	StatesPerSec = 2_457_600

	// SIOBitsPerSec is the serial line rate, 9600 bit/s.
	SIOBitsPerSec = 9_600

	// SerialUnitStates is the number of states the SIO needs to move
	// one byte. It is the natural quantum for driving the machine.
	SerialUnitStates = StatesPerSec / (SIOBitsPerSec * 8)
)

// Interrupt lines, in priority order. The vector for line n lives in
// RAM at Int0Vec+n.
const (
	IntTimer = iota
	IntSIORx
	IntSIOTx
	IntConsole
	NumInterrupts
)

// Interrupt vector addresses.
const (
	Int0Vec memory.Pointer = 0xDC
	Int1Vec memory.Pointer = 0xDD
	Int2Vec memory.Pointer = 0xDE
	Int3Vec memory.Pointer = 0xDF
)

var (
	ErrInvalidInstruction = errors.New("INVALID INSTRUCTION")
	ErrNoInterrupts       = errors.New("no interrupts")
)

// InterruptLine is one input of the interrupt controller. Asserted
// reports whether the line wants service right now; Acknowledge clears
// an edge latch and is a no-op for level-triggered lines.
type InterruptLine interface {
	Asserted() bool
	Acknowledge()
}

// InterruptController arbitrates the four interrupt lines.
type InterruptController interface {
	// GetInterrupt returns the highest-priority line that wants
	// service, acknowledging it, or ErrNoInterrupts.
	GetInterrupt() (int, error)
	InstallLine(n int, line InterruptLine) error
}

// Processor is the surface peripherals see when they are installed.
type Processor interface {
	ReadByte(addr memory.Pointer) byte
	WriteByte(addr memory.Pointer, data byte)

	GetRegisters() *Registers

	InstallMemoryDevice(device memory.Memory, from, to memory.Pointer) error
	InstallIODevice(device memory.IO, from, to byte) error

	GetInterruptController() InterruptController
}
