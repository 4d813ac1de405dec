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
)

// pass1 walks the source once, assigning an address (or EQU value) to
// every label. Instruction and DC operands are only validated and
// sized here, never evaluated, which is what makes forward references
// legal; EQU, ORG and DS operands are needed for the address counter
// itself, so their labels must already be defined.
func (a *Assembler) pass1() {
	curAddr := 0
	a.rewind()
	for a.nextLine() {
		a.pass1Line(&curAddr)
	}
}

func (a *Assembler) pass1Line(curAddr *int) {
	// A label must start in column 0.
	var label string
	if a.isNameStart() {
		label = a.getName()
		if prev, ok := a.labels[label]; ok {
			a.errorAt(ErrDuplicatedLabel, 0, a.idx, a.duplicateNote(label, prev.lineNum))
		}
	} else if !a.isSpaceOrComment() {
		suggestion := ""
		if !a.eol() && isPrint(a.line[a.idx]) {
			suggestion = "ラベルは、英字または、'_'（アンダースコア）で始まる必要があります。"
		}
		a.errorAt(ErrInvalidLabel, 0, toEOL, suggestion)
		return
	}

	labelNum := uint8(*curAddr)
	a.skipSpace()
	if a.isNameStart() {
		nameBeg := a.idx
		inst := a.getName()
		switch {
		case inst == "EQU":
			var val int32
			valueBeg := a.idx
			if !a.getAdd(&val) {
				return
			}
			if val < -256 || 0xFF < val {
				a.warnAt(WarnValueOutOfRange, valueBeg, a.idx-valueBeg,
					fmt.Sprintf("範囲外の値: %d", val))
			}
			labelNum = uint8(val)

		case inst == "ORG":
			var val int32
			addrBeg := a.idx
			if !a.getAdd(&val) {
				return
			}
			if int(val) < *curAddr {
				a.errorAt(ErrInvalidOrg, addrBeg, a.idx-addrBeg,
					fmt.Sprintf("（現在のアドレス: %03XH, 指定されたアドレス: %03XH）",
						*curAddr&0xFF, val&0xFF))
				return
			}
			labelNum = uint8(val)
			*curAddr = int(uint8(val))

		case inst == "DS":
			var val int32
			if !a.getAdd(&val) {
				return
			}
			*curAddr += int(val)

		case inst == "DC":
			count := 0
			if !a.parseExprList(&count) {
				return
			}
			*curAddr += count

		default:
			if d, ok := instTable[inst]; ok {
				*curAddr += d.size()
				// Operands are checked in pass 2.
				a.idx = len(a.line)
			} else {
				suggestion := fmt.Sprintf("オペコード: %s", inst)
				if _, isInst := instTable[label]; isInst {
					suggestion += fmt.Sprintf("\n"+
						"ラベル（%q）がオペコードと一致しています。\n"+
						"ラベルのない行には、行頭に空白またはタブが必要です。", label)
				}
				a.errorAt(ErrUnknownInstruction, nameBeg, a.idx-nameBeg, suggestion)
				return
			}
		}
	}

	// The first definition of a label wins; a duplicate was already
	// reported above.
	if label != "" {
		if _, ok := a.labels[label]; !ok {
			a.labels[label] = labelDef{value: labelNum, lineNum: a.lineNum}
		}
	}
}

// duplicateNote renders the earlier definition of label for the
// duplicated-label diagnostic, with the label highlighted.
func (a *Assembler) duplicateNote(label string, lineNum int) string {
	msg := fmt.Sprintf("重複したラベル: %q\n以前の定義\n", label)
	if lineNum != 1 {
		msg += fmt.Sprintf("%3d| %s\n", lineNum-1, a.lines[lineNum-2])
	}
	defLine := a.lines[lineNum-1]
	n := 0
	for n < len(defLine) && (isAlpha(defLine[n]) || isDigit(defLine[n]) || defLine[n] == '_') {
		n++
	}
	msg += fmt.Sprintf("%3d| %s%s%s%s", lineNum, ansiYellow, defLine[:n], ansiReset, defLine[n:])
	if lineNum != len(a.lines) {
		msg += fmt.Sprintf("\n%3d| %s", lineNum+1, a.lines[lineNum])
	}
	return msg
}
