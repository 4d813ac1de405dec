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

package memory

import "fmt"

// Pointer is a TeC7 main-memory address. The whole address space is
// 256 bytes; all address arithmetic wraps modulo 256.
type Pointer uint8

func (p Pointer) String() string {
	return fmt.Sprintf("%03XH", uint8(p))
}

// AddInt offsets the pointer, wrapping around the 256 byte space.
func (p Pointer) AddInt(i int) Pointer {
	return Pointer(uint8(p) + uint8(i))
}

const (
	// Size of the address space.
	Size = 0x100

	// ROMStart is the first address of the IPL ROM. Everything below
	// it is RAM, everything from it up is read-only.
	ROMStart Pointer = 0xE0

	// NumPorts is the number of valid I/O port addresses. Accessing a
	// port at or above this is a CPU fault.
	NumPorts = 0x10
)

type Memory interface {
	ReadByte(addr Pointer) byte
	WriteByte(addr Pointer, data byte)
}

type IO interface {
	In(port byte) byte
	Out(port byte, data byte)
}

// DummyIO backs every port no peripheral claimed. Unclaimed ports read
// zero and swallow writes; that is ordinary machine behavior, not a
// fault, so nothing is logged.
type DummyIO struct{}

func (m *DummyIO) In(port byte) byte {
	return 0
}

func (m *DummyIO) Out(port byte, data byte) {
}

// DummyMemory backs unmapped memory. A correctly assembled machine maps
// the full 256 bytes, so a read landing here indicates a wiring bug.
type DummyMemory struct{}

func (m *DummyMemory) ReadByte(addr Pointer) byte {
	return 0
}

func (m *DummyMemory) WriteByte(addr Pointer, data byte) {
}
