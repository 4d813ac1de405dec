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
	"log"
)

// Flag bits, laid out exactly as the status byte pushed on interrupt
// entry and popped by RETI: IE<<7 | C<<2 | S<<1 | Z.
const (
	Zero            Flags = 0x01
	Sign            Flags = 0x02
	Carry           Flags = 0x04
	InterruptEnable Flags = 0x80
)

const AllFlags = Zero | Sign | Carry | InterruptEnable

type Flags byte

func (r *Flags) Get(f Flags) Flags {
	return *r & f
}

func (r *Flags) GetBool(f Flags) bool {
	return r.Get(f) != 0
}

func (r *Flags) Set(f Flags) {
	*r |= f
}

func (r *Flags) SetBool(f Flags, b bool) {
	if b {
		r.Set(f)
		return
	}
	r.Clear(f)
}

func (r *Flags) Clear(f Flags) {
	*r &= ^f
}

// Store replaces the flags with a status byte from the stack.
func (r *Flags) Store(b byte) {
	*r = Flags(b) & AllFlags
}

// Load packs the flags into a status byte for the stack.
func (r *Flags) Load() byte {
	return byte(*r & AllFlags)
}

// GR field encodings in the instruction byte.
const (
	RegG0 = 0b00
	RegG1 = 0b01
	RegG2 = 0b10
	RegSP = 0b11
)

type Registers struct {
	G0, G1, G2, SP, PC byte

	Flags

	// Run is the RUN lamp; Err latches a fault. Run and Err are never
	// both set.
	Run, Err bool
}

func (r *Registers) Reset() {
	r.G0, r.G1, r.G2, r.SP, r.PC = 0, 0, 0, 0, 0
	r.Run = false
	r.Err = false
}

// ReadGR reads a general register by its GR field encoding.
func (r *Registers) ReadGR(gr byte) byte {
	switch gr {
	case RegG0:
		return r.G0
	case RegG1:
		return r.G1
	case RegG2:
		return r.G2
	case RegSP:
		return r.SP
	default:
		log.Panicf("invalid GR field: %d", gr)
		return 0
	}
}

// WriteGR writes a general register by its GR field encoding.
func (r *Registers) WriteGR(gr, val byte) {
	switch gr {
	case RegG0:
		r.G0 = val
	case RegG1:
		r.G1 = val
	case RegG2:
		r.G2 = val
	case RegSP:
		r.SP = val
	default:
		log.Panicf("invalid GR field: %d", gr)
	}
}
