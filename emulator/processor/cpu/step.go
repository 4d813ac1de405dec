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

package cpu

import (
	"log"

	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/memory"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

// Opcode classes, the top nibble of the instruction byte.
const (
	opNO = iota
	opLD
	opST
	opADD
	opSUB
	opCMP
	opAND
	opOR
	opXOR
	opShift
	opJump1
	opJump2
	opInOut
	opStack
	opEIDIRet
	opHALT
)

// XR field encodings.
const (
	xrDirect = 0b00
	xrG1     = 0b01
	xrG2     = 0b10
	xrImm    = 0b11
)

func (p *CPU) fetch() byte {
	v := p.ReadByte(memory.Pointer(p.PC))
	p.PC++
	return v
}

// readOperand fetches the operand byte and resolves it through the
// addressing mode.
func (p *CPU) readOperand(xr byte) byte {
	next := p.fetch()
	switch xr {
	case xrDirect:
		return p.ReadByte(memory.Pointer(next))
	case xrG1:
		return p.ReadByte(memory.Pointer(next + p.G1))
	case xrG2:
		return p.ReadByte(memory.Pointer(next + p.G2))
	default: // immediate
		return next
	}
}

// effectiveAddr fetches the operand byte and resolves the target
// address without dereferencing it. Immediate mode has no address.
func (p *CPU) effectiveAddr(xr byte) (memory.Pointer, error) {
	next := p.fetch()
	switch xr {
	case xrDirect:
		return memory.Pointer(next), nil
	case xrG1:
		return memory.Pointer(next + p.G1), nil
	case xrG2:
		return memory.Pointer(next + p.G2), nil
	default:
		return 0, processor.ErrInvalidInstruction
	}
}

// interrupt pushes PC and the status byte, loads PC from the vector and
// masks further interrupts until RETI.
func (p *CPU) interrupt(vec memory.Pointer) {
	p.SP--
	p.WriteByte(memory.Pointer(p.SP), p.PC)
	p.SP--
	p.WriteByte(memory.Pointer(p.SP), p.Flags.Load())
	p.PC = p.ReadByte(vec)
	p.Clear(processor.InterruptEnable)
}

// Step services at most one pending interrupt, then fetches and
// executes one instruction. It returns the states the instruction
// consumed. An invalid encoding latches ERR, drops RUN and returns
// processor.ErrInvalidInstruction with zero states.
func (p *CPU) Step() (int, error) {
	if p.GetBool(processor.InterruptEnable) && p.pic != nil {
		if n, err := p.pic.GetInterrupt(); err == nil {
			p.interrupt(processor.Int0Vec.AddInt(n))
		}
	}

	startPC := p.PC
	states, err := p.execute(p.fetch())
	if err != nil {
		// Point the dump at the faulting instruction, not past it.
		p.PC = startPC
		p.Err = true
		p.Run = false
		return 0, err
	}

	// The timer's subcycle accumulator advances after the instruction,
	// so an instruction never sees a tick it caused itself.
	for _, d := range p.peripherals {
		if err := d.Step(states); err != nil {
			log.Print("peripheral step: ", err)
		}
	}
	return states, nil
}

func (p *CPU) execute(inst byte) (int, error) {
	op := (inst >> 4) & 0x0F
	gr := (inst >> 2) & 0x03
	xr := inst & 0x03

	switch op {
	case opNO:
		if gr != 0 || xr != 0 {
			return 0, processor.ErrInvalidInstruction
		}
		return 2, nil

	case opLD:
		p.WriteGR(gr, p.readOperand(xr))
		return 4, nil

	case opST:
		addr, err := p.effectiveAddr(xr)
		if err != nil {
			return 0, err
		}
		p.WriteByte(addr, p.ReadGR(gr))
		return 3, nil

	case opADD:
		val := uint16(p.ReadGR(gr)) + uint16(p.readOperand(xr))
		p.setArithFlags(val)
		p.WriteGR(gr, byte(val))
		return 4, nil

	case opSUB:
		val := uint16(p.ReadGR(gr)) - uint16(p.readOperand(xr))
		p.setArithFlags(val)
		p.WriteGR(gr, byte(val))
		return 4, nil

	case opCMP:
		val := uint16(p.ReadGR(gr)) - uint16(p.readOperand(xr))
		p.setArithFlags(val)
		return 4, nil

	case opAND:
		val := p.ReadGR(gr) & p.readOperand(xr)
		p.setLogicFlags(val)
		p.WriteGR(gr, val)
		return 4, nil

	case opOR:
		val := p.ReadGR(gr) | p.readOperand(xr)
		p.setLogicFlags(val)
		p.WriteGR(gr, val)
		return 4, nil

	case opXOR:
		val := p.ReadGR(gr) ^ p.readOperand(xr)
		p.setLogicFlags(val)
		p.WriteGR(gr, val)
		return 4, nil

	case opShift:
		val := p.ReadGR(gr)
		switch xr {
		case 0b00, 0b01: // SHLA, SHLL
			p.SetBool(processor.Carry, val&0x80 != 0)
			val <<= 1
		case 0b10: // SHRA keeps the sign bit
			p.SetBool(processor.Carry, val&0x01 != 0)
			val = val&0x80 | val>>1
		case 0b11: // SHRL
			p.SetBool(processor.Carry, val&0x01 != 0)
			val = val >> 1 &^ 0x80
		}
		p.SetBool(processor.Sign, val&0x80 != 0)
		p.SetBool(processor.Zero, val == 0)
		p.WriteGR(gr, val)
		return 3, nil

	case opJump1: // JMP, JZ, JC, JM
		if xr == xrImm {
			return 0, processor.ErrInvalidInstruction
		}
		var jmp bool
		switch gr {
		case 0b00:
			jmp = true
		case 0b01:
			jmp = p.GetBool(processor.Zero)
		case 0b10:
			jmp = p.GetBool(processor.Carry)
		case 0b11:
			jmp = p.GetBool(processor.Sign)
		}
		addr, err := p.effectiveAddr(xr)
		if err != nil {
			return 0, err
		}
		if jmp {
			p.PC = byte(addr)
		}
		return 3, nil

	case opJump2: // CALL, JNZ, JNC, JNM
		if xr == xrImm {
			return 0, processor.ErrInvalidInstruction
		}
		addr, err := p.effectiveAddr(xr)
		if err != nil {
			return 0, err
		}
		states := 3
		var jmp bool
		switch gr {
		case 0b00: // CALL
			jmp = true
			p.SP--
			p.WriteByte(memory.Pointer(p.SP), p.PC)
			states++
		case 0b01:
			jmp = !p.GetBool(processor.Zero)
		case 0b10:
			jmp = !p.GetBool(processor.Carry)
		case 0b11:
			jmp = !p.GetBool(processor.Sign)
		}
		if jmp {
			p.PC = byte(addr)
		}
		return states, nil

	case opInOut:
		switch xr {
		case 0b00: // IN
			port := p.fetch()
			if port >= memory.NumPorts {
				return 0, processor.ErrInvalidInstruction
			}
			p.WriteGR(gr, p.InByte(port))
			return 4, nil
		case 0b11: // OUT
			port := p.fetch()
			if port >= memory.NumPorts {
				return 0, processor.ErrInvalidInstruction
			}
			p.OutByte(port, p.ReadGR(gr))
			return 3, nil
		default:
			return 0, processor.ErrInvalidInstruction
		}

	case opStack:
		switch xr {
		case 0b00: // PUSH
			p.WriteByte(memory.Pointer(p.SP-1), p.ReadGR(gr))
			p.SP--
			return 3, nil
		case 0b10: // POP
			p.WriteGR(gr, p.ReadByte(memory.Pointer(p.SP)))
			p.SP++
			return 4, nil
		default:
			return 0, processor.ErrInvalidInstruction
		}

	case opEIDIRet:
		switch {
		case gr == 0b00 && xr == 0b00: // EI
			p.Set(processor.InterruptEnable)
			return 3, nil
		case gr == 0b00 && xr == 0b11: // DI
			p.Clear(processor.InterruptEnable)
			return 3, nil
		case gr == 0b11 && xr == 0b00: // RET
			p.PC = p.ReadByte(memory.Pointer(p.SP))
			p.SP++
			return 3, nil
		case gr == 0b11 && xr == 0b11: // RETI
			p.Flags.Store(p.ReadByte(memory.Pointer(p.SP)))
			p.SP++
			p.PC = p.ReadByte(memory.Pointer(p.SP))
			p.SP++
			return 4, nil
		default:
			return 0, processor.ErrInvalidInstruction
		}

	case opHALT:
		if gr != 0b11 || xr != 0b11 {
			return 0, processor.ErrInvalidInstruction
		}
		p.Run = false
		return 0, nil
	}

	log.Panicf("unreachable opcode: %#x", op)
	return 0, nil
}

// setArithFlags sets C, S and Z from a 9-bit add/subtract result.
func (p *CPU) setArithFlags(val uint16) {
	p.SetBool(processor.Carry, val&0x100 != 0)
	p.SetBool(processor.Sign, val&0x080 != 0)
	p.SetBool(processor.Zero, val&0x0FF == 0)
}

// setLogicFlags sets S and Z and always clears C.
func (p *CPU) setLogicFlags(val byte) {
	p.Clear(processor.Carry)
	p.SetBool(processor.Sign, val&0x80 != 0)
	p.SetBool(processor.Zero, val == 0)
}
