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

package assembler

import (
	"fmt"
	"log"

	"github.com/i21yamazaki/TeCSimulatorForTCL/objfile"
)

// romStartAddr is where the IPL ROM begins; code reaching it cannot be
// loaded.
const romStartAddr = 0xE0

// pass2 walks the source again with the label table complete and emits
// machine code. The address counter is kept wider than a byte so a
// program that wraps past the end of memory is still caught by the
// size check; emitted bytes land at the address modulo 256 either way.
func (a *Assembler) pass2() *objfile.Binary {
	start := 0
	curAddr := 0
	bin := &objfile.Binary{}
	a.rewind()
	for a.nextLine() {
		a.pass2Line(&start, &curAddr, &bin.Code)
	}
	if romStartAddr < curAddr {
		a.warn(WarnBinaryTooLarge, fmt.Sprintf(
			"プログラムは、%03XH番地まで使用しています。\n"+
				"%03XH番地以降はROM領域のため、プログラムを書き込めません。",
			(curAddr-1)&0xFF, romStartAddr))
	}
	bin.Start = uint8(start)
	bin.Size = uint8(curAddr - start)
	return bin
}

func (a *Assembler) emitByte(code *[0x100]byte, curAddr *int, b byte) {
	code[*curAddr&0xFF] = b
	(*curAddr)++
}

func (a *Assembler) pass2Line(start, curAddr *int, code *[0x100]byte) {
	if a.isNameStart() {
		a.parseName() // the label was handled in pass 1
	}
	a.skipSpace()
	if a.isNameStart() {
		inst := a.getName()
		switch {
		case inst == "EQU":
			// Evaluated in pass 1; only validated here.
			if !a.parseAdd() {
				return
			}

		case inst == "ORG":
			var val int32
			addrBeg := a.idx
			if !a.getAdd(&val) {
				return
			}
			if *curAddr == 0 {
				// Nothing emitted yet: relocate the start.
				*start = int(uint8(val))
				*curAddr = int(uint8(val))
			} else if int(val) < *curAddr {
				// Pass 1 already rejected this; keep both passes
				// agreeing instead of silently emitting nothing.
				a.errorAt(ErrInvalidOrg, addrBeg, a.idx-addrBeg,
					fmt.Sprintf("（現在のアドレス: %03XH, 指定されたアドレス: %03XH）",
						*curAddr&0xFF, val&0xFF))
				return
			} else {
				for *curAddr < int(val) {
					a.emitByte(code, curAddr, 0x00)
				}
			}

		case inst == "DS":
			var val int32
			if !a.getAdd(&val) {
				return
			}
			for ; 0 < val; val-- {
				a.emitByte(code, curAddr, 0x00)
			}

		case inst == "DC":
			if !a.getExprList(code, curAddr) {
				return
			}

		default:
			d, ok := instTable[inst]
			if !ok {
				// Pass 1 aborts on unknown mnemonics before pass 2
				// can run.
				log.Panicf("unknown instruction in pass 2: %s", inst)
			}
			a.encode(d, inst, curAddr, code)
		}
	}
	a.skipSpaceOrComment()
	if !a.eol() {
		a.errorAt(ErrInvalidOperand, a.idx, toEOL, "")
	}
}

func (a *Assembler) encode(d instDesc, inst string, curAddr *int, code *[0x100]byte) {
	switch d.class {
	case classSimple:
		a.emitByte(code, curAddr, d.opcode)

	case classReg:
		a.skipSpace()
		gr, ok := a.getReg()
		if !ok {
			return
		}
		a.emitByte(code, curAddr, d.opcode|gr)

	case classPort:
		a.skipSpace()
		gr, ok := a.getReg()
		if !ok {
			return
		}
		a.skipSpace()
		if !a.isCh(',') {
			suggestion := ""
			if a.eol() {
				suggestion = fmt.Sprintf("%s命令は、IOアドレスを指定する必要があります。", inst)
			}
			a.errorAt(ErrCommaExpected, a.idx, toEOL, suggestion)
			return
		}
		var addr int32
		addrBeg := a.idx
		if !a.getAdd(&addr) {
			return
		}
		if addr < 0 || 0x10 <= addr {
			a.warnAt(WarnIOAddressOutOfRange, addrBeg, a.idx-addrBeg,
				fmt.Sprintf("範囲外のIOアドレス: %03XH", addr&0xFF))
		}
		a.emitByte(code, curAddr, d.opcode|gr)
		a.emitByte(code, curAddr, byte(addr))

	case classRegAddr:
		a.skipSpace()
		gr, ok := a.getReg()
		if !ok {
			return
		}
		a.skipSpace()
		if !a.isCh(',') {
			a.errorAt(ErrCommaExpected, a.idx, toEOL, "")
			return
		}
		a.skipSpace()
		xr := byte(xrDirect)
		var addr byte
		if a.isCh('#') {
			xr = xrImm
			if addr, ok = a.getAddress(); !ok {
				return
			}
		} else {
			if addr, ok = a.getAddress(); !ok {
				return
			}
			a.skipSpace()
			if a.isCh(',') {
				a.skipSpace()
				if xr, ok = a.getIdxReg(); !ok {
					return
				}
			}
		}
		a.emitByte(code, curAddr, d.opcode|gr|xr)
		a.emitByte(code, curAddr, addr)

	case classStore:
		a.skipSpace()
		gr, ok := a.getReg()
		if !ok {
			return
		}
		a.skipSpace()
		if !a.isCh(',') {
			a.errorAt(ErrCommaExpected, a.idx, toEOL, "")
			return
		}
		a.skipSpace()
		if a.isCh('#') {
			a.errorAt(ErrInvalidImmediate, a.idx-1, toEOL, "")
			return
		}
		addrBeg := a.idx
		addr, ok := a.getAddress()
		if !ok {
			return
		}
		addrN := a.idx - addrBeg
		a.skipSpace()
		xr := byte(xrDirect)
		if a.isCh(',') {
			a.skipSpace()
			if xr, ok = a.getIdxReg(); !ok {
				return
			}
		} else if romStartAddr <= addr {
			a.warnAt(WarnWritingToTheRomArea, addrBeg, addrN, fmt.Sprintf(
				"書き込み先アドレスとして、%03XH番地が指定されています。\n"+
					"%03XH番地以降はROM領域のため、"+
					"この命令を実行しても主記憶上の値は変更されません。",
				addr, romStartAddr))
		}
		a.emitByte(code, curAddr, d.opcode|gr|xr)
		a.emitByte(code, curAddr, addr)

	case classJump:
		addr, ok := a.getAddress()
		if !ok {
			return
		}
		a.skipSpace()
		xr := byte(xrDirect)
		if a.isCh(',') {
			a.skipSpace()
			if xr, ok = a.getIdxReg(); !ok {
				return
			}
		}
		a.emitByte(code, curAddr, d.opcode|xr)
		a.emitByte(code, curAddr, addr)

	default:
		log.Panicf("unknown instruction class: %d", d.class)
	}
}

// getReg reads a general register name, returning its pre-shifted GR
// field.
func (a *Assembler) getReg() (byte, bool) {
	if !a.isNameStart() {
		a.errorAt(ErrRegisterExpected, a.idx, toEOL, "")
		return 0, false
	}
	regBeg := a.idx
	reg := a.getName()
	switch reg {
	case "G0":
		return grG0, true
	case "G1":
		return grG1, true
	case "G2":
		return grG2, true
	case "SP":
		return grSP, true
	}
	a.errorAt(ErrInvalidRegister, regBeg, a.idx-regBeg,
		fmt.Sprintf("存在しないレジスタ名: %q", reg))
	return 0, false
}

// getIdxReg reads an index register name, returning its XR field.
func (a *Assembler) getIdxReg() (byte, bool) {
	if !a.isNameStart() {
		a.errorAt(ErrIndexRegisterExpected, a.idx, toEOL, "")
		return 0, false
	}
	regBeg := a.idx
	reg := a.getName()
	switch reg {
	case "G1":
		return xrG1Idx, true
	case "G2":
		return xrG2Idx, true
	}
	msg := fmt.Sprintf("存在しないインデクスレジスタ名: %q", reg)
	if reg == "G0" || reg == "SP" {
		msg += "\nインデクスレジスタとして使用できるのは、G1・G2のみです。"
	}
	a.errorAt(ErrInvalidIndexRegister, regBeg, a.idx-regBeg, msg)
	return 0, false
}

// getAddress evaluates an address expression, warning when it cannot
// fit the 8-bit address space.
func (a *Assembler) getAddress() (byte, bool) {
	addrBeg := a.idx
	var addr int32
	if !a.getAdd(&addr) {
		return 0, false
	}
	if addr < -128 || 0xFF < addr {
		a.warnAt(WarnAddressOutOfRange, addrBeg, a.idx-addrBeg,
			fmt.Sprintf("範囲外のアドレス: %d", addr))
	}
	return byte(addr), true
}
