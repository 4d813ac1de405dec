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

// Package objfile reads and writes the two artifacts the assembler
// produces: the machine-code binary (*.bin) and the name table (*.nt).
package objfile

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// File extensions of the toolchain.
const (
	ExtSource    = "t7"
	ExtBinary    = "bin"
	ExtNameTable = "nt"
)

// Binary is an assembled program: start address, length, and the code
// image indexed by memory address. Only the Size bytes from Start
// (wrapping) are meaningful; the file format stores exactly those
// bytes after the two header bytes. Both header fields are 8-bit: a
// 256 byte image wraps to Size 0, which is written and read back as an
// empty image.
type Binary struct {
	Start, Size uint8
	Code        [0x100]byte
}

// NameTable maps label names (uppercase) to their 8-bit values.
type NameTable map[string]uint8

// WriteBinary writes [start, size, code...] with length size+2.
func WriteBinary(fs afero.Fs, path string, b *Binary) error {
	var buf bytes.Buffer
	buf.WriteByte(b.Start)
	buf.WriteByte(b.Size)
	end := int(b.Start) + int(b.Size)
	for i := int(b.Start); i < end; i++ {
		buf.WriteByte(b.Code[i&0xFF])
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("機械語: ファイルが開けませんでした。 (パス: %q): %w", path, err)
	}
	return nil
}

// ReadBinary reads a binary back. The file must hold exactly size+2
// bytes; anything shorter or longer is a format error.
func ReadBinary(fs afero.Fs, path string) (*Binary, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("機械語: ファイルが開けませんでした。 （ファイルのパス: %q）: %w", path, err)
	}
	if len(data) < 2 {
		return nil, fmt.Errorf("機械語: 機械語ファイルの形式が不正です。")
	}
	b := &Binary{Start: data[0], Size: data[1]}
	code := data[2:]
	if len(code) != int(b.Size) {
		return nil, fmt.Errorf("機械語: 機械語ファイルの形式が不正です。")
	}
	for i, c := range code {
		b.Code[(int(b.Start)+i)&0xFF] = c
	}
	return b, nil
}

// WriteNameTable writes one label per line, NAME: padded to eight
// columns then the value as 0XXH. Order is unspecified by the format;
// sorting keeps the output reproducible.
func WriteNameTable(fs afero.Fs, path string, nt NameTable) error {
	labels := make([]string, 0, len(nt))
	for label := range nt {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var buf bytes.Buffer
	for _, label := range labels {
		fmt.Fprintf(&buf, "%-8s 0%02XH\n", label+":", nt[label])
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("名前表: ファイルが開けませんでした。 (パス: %q): %w", path, err)
	}
	return nil
}

// ReadNameTable parses a name table. Blank lines are fine; malformed
// lines are reported with the file and line number.
func ReadNameTable(fs afero.Fs, path string) (NameTable, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("名前表: ファイルが開けませんでした。 （ファイルのパス: %q）: %w", path, err)
	}

	table := NameTable{}
	lines := strings.Split(string(data), "\n")
	for lineNum, line := range lines {
		if err := parseNameTableLine(line, table); err != nil {
			return nil, fmt.Errorf("名前表: %s:%d: %w", path, lineNum+1, err)
		}
	}
	return table, nil
}

func parseNameTableLine(line string, table NameTable) error {
	idx := 0
	skipSpace := func() {
		for idx < len(line) && isSpace(line[idx]) {
			idx++
		}
	}

	skipSpace()
	if idx >= len(line) {
		return nil
	}
	if !isLabelStart(line[idx]) {
		return fmt.Errorf("ラベルが必要です。")
	}
	var label strings.Builder
	for idx < len(line) && isLabelCh(line[idx]) {
		label.WriteByte(upper(line[idx]))
		idx++
	}
	skipSpace()
	if idx >= len(line) || line[idx] != ':' {
		return fmt.Errorf("':' が必要です。")
	}
	idx++
	skipSpace()
	if idx >= len(line) || !isDigit(line[idx]) {
		return fmt.Errorf("値が必要です。")
	}
	var num strings.Builder
	hex := false
	for idx < len(line) && isXDigit(line[idx]) {
		if !isDigit(line[idx]) {
			hex = true
		}
		num.WriteByte(line[idx])
		idx++
	}
	if idx < len(line) && upper(line[idx]) == 'H' {
		hex = true
		idx++
	} else if hex {
		return fmt.Errorf("'H' が必要です。")
	}
	base := 10
	if hex {
		base = 16
	}
	var val uint64
	for _, ch := range num.String() {
		d := uint64(digitVal(byte(ch)))
		val = val*uint64(base) + d
		if val > 1<<32 {
			return fmt.Errorf("値が大きすぎます。 （値: %s）", num.String())
		}
	}
	table[label.String()] = uint8(val)
	skipSpace()
	if idx < len(line) {
		return fmt.Errorf("名前表の形式が不正です。（行: %q）", line)
	}
	return nil
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\v' || ch == '\f'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isXDigit(ch byte) bool {
	return isDigit(ch) || ('A' <= ch && ch <= 'F') || ('a' <= ch && ch <= 'f')
}

func isLabelStart(ch byte) bool {
	return ch == '_' || ('A' <= ch && ch <= 'Z') || ('a' <= ch && ch <= 'z')
}

func isLabelCh(ch byte) bool {
	return isLabelStart(ch) || isDigit(ch)
}

func upper(ch byte) byte {
	if 'a' <= ch && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	return ch
}

func digitVal(ch byte) int {
	switch {
	case isDigit(ch):
		return int(ch - '0')
	case 'A' <= ch && ch <= 'F':
		return int(ch-'A') + 0xA
	default:
		return int(ch-'a') + 0xA
	}
}
