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

// ErrorCode identifies an assembly error. The numeric values are part
// of the diagnostic output.
type ErrorCode uint8

const (
	ErrBug ErrorCode = iota
	ErrHExpected
	ErrRPExpected
	ErrRegisterExpected
	ErrInvalidCharLit
	ErrSingleQuotationExpected
	ErrDoubleQuotationExpected
	ErrExpressionExpected
	ErrUndefinedLabel
	ErrZeroDivision
	ErrUnknownInstruction
	ErrInvalidRegister
	ErrCommaExpected
	ErrIndexRegisterExpected
	ErrInvalidIndexRegister
	ErrInvalidImmediate
	ErrInvalidOperand
	ErrInvalidLabel
	ErrDuplicatedLabel
	ErrInvalidOrg
)

// WarningCode identifies an assembly warning. Warnings never stop the
// assembly.
type WarningCode uint8

const (
	WarnAddressOutOfRange WarningCode = iota
	WarnValueOutOfRange
	WarnIOAddressOutOfRange
	WarnWritingToTheRomArea
	WarnBinaryTooLarge
	WarnNumberTooBig
)

var errorMessages = map[ErrorCode]string{
	ErrRegisterExpected:        "レジスタ名が必要です。",
	ErrInvalidRegister:         "レジスタ名が不正です。",
	ErrHExpected:               "16進数リテラルには、末尾に 'H' が必要です。",
	ErrRPExpected:              "')' （閉じ括弧） が必要です。",
	ErrInvalidCharLit:          "文字定数が不正です。",
	ErrSingleQuotationExpected: "'\\'' （シングルクォーテーション） が必要です。",
	ErrExpressionExpected:      "数式が必要です。",
	ErrDoubleQuotationExpected: "'\\\"' （ダブルクォーテーション）が必要です。",
	ErrUndefinedLabel:          "ラベルが定義されていません。",
	ErrZeroDivision:            "ゼロ除算が検出されました。",
	ErrUnknownInstruction:      "オペコードが不正です。",
	ErrCommaExpected:           "',' （コンマ）が必要です。",
	ErrIndexRegisterExpected:   "インデクスレジスタが必要です。",
	ErrInvalidIndexRegister:    "インデクスレジスタ名が不正です。",
	ErrInvalidImmediate:        "即値は使用できません。",
	ErrInvalidOperand:          "オペランドが不正です。",
	ErrInvalidLabel:            "ラベルが不正です。",
	ErrDuplicatedLabel:         "ラベルが重複しています。",
	ErrInvalidOrg:              "ORG命令で、遡るアドレスを指定することはできません。",
}

var warningMessages = map[WarningCode]string{
	WarnIOAddressOutOfRange: "IOアドレスが範囲外です。",
	WarnAddressOutOfRange:   "アドレスが範囲外です。",
	WarnValueOutOfRange:     "値が範囲外です。",
	WarnWritingToTheRomArea: "ROM領域に書き込むことはできません。",
	WarnBinaryTooLarge:      "バイナリサイズが大きすぎます。",
	WarnNumberTooBig:        "数値が大きすぎます。",
}

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// toEOL marks a span running to the end of the line.
const toEOL = -1

// emit writes one diagnostic, separating it from the previous one with
// a blank line so a burst stays readable.
func (a *Assembler) emit(msg string) {
	if a.anyDiag {
		fmt.Fprintln(a.stderr)
	}
	a.anyDiag = true
	fmt.Fprintln(a.stderr, msg)
}

// cite renders the current line with its neighbors and the offending
// span highlighted. n is the span length in bytes, or toEOL.
func (a *Assembler) cite(begin, n int) string {
	var msg string
	if a.lineNum != 1 {
		msg += fmt.Sprintf("%3d| %s\n", a.lineNum-1, a.lines[a.lineNum-2])
	}
	if begin > len(a.line) {
		begin = len(a.line)
	}
	span := a.line[begin:]
	var tail string
	if n >= 0 && begin+n <= len(a.line) {
		span = a.line[begin : begin+n]
		tail = a.line[begin+n:]
	}
	msg += fmt.Sprintf("%3d| %s%s%s%s%s", a.lineNum, a.line[:begin], ansiRed, span, ansiReset, tail)
	if a.lineNum != len(a.lines) {
		msg += fmt.Sprintf("\n%3d| %s", a.lineNum+1, a.lines[a.lineNum])
	}
	return msg
}

// errorAt reports an assembly error with a source citation. The
// assembly keeps going so later errors surface too, but no output is
// produced once any error has been seen.
func (a *Assembler) errorAt(code ErrorCode, begin, n int, suggestion string) {
	a.errorOccurred = true
	msg := fmt.Sprintf("%d行目:%sエラー%s: %s （エラーコード: %d）\n",
		a.lineNum, ansiRed, ansiReset, errorMessages[code], code)
	msg += a.cite(begin, n)
	if suggestion != "" {
		msg += "\n" + suggestion
	}
	a.emit(msg)
}

// warnAt reports a warning with a source citation.
func (a *Assembler) warnAt(code WarningCode, begin, n int, suggestion string) {
	msg := fmt.Sprintf("%d行目:%s警告%s: %s （警告コード: %d）\n",
		a.lineNum, ansiYellow, ansiReset, warningMessages[code], code)
	msg += a.cite(begin, n)
	if suggestion != "" {
		msg += "\n" + suggestion
	}
	a.emit(msg)
}

// warn reports a warning with no source location, used for whole-
// program conditions found after the last line.
func (a *Assembler) warn(code WarningCode, suggestion string) {
	msg := fmt.Sprintf("%s警告%s: %s （警告コード: %d）",
		ansiYellow, ansiReset, warningMessages[code], code)
	if suggestion != "" {
		msg += "\n" + suggestion
	}
	a.emit(msg)
}
