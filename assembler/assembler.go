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

// Package assembler is a two-pass assembler for the TeC7 dialect.
// Pass 1 assigns every label an address or EQU value, pass 2 emits the
// machine code. Errors accumulate so one run surfaces as many of them
// as possible; pass 2 never runs when pass 1 saw an error.
package assembler

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/i21yamazaki/TeCSimulatorForTCL/objfile"
)

// ErrAssembly is returned after diagnostics have been written.
var ErrAssembly = errors.New("assembly failed")

type labelDef struct {
	value   uint8
	lineNum int // defining line, 1-based
}

// Assembler assembles one source file. It carries the full source so
// diagnostics can cite neighboring lines.
type Assembler struct {
	lines  []string
	labels map[string]labelDef

	// Cursor over the current line.
	lineNum int // 1-based; 0 before the first line
	line    string
	idx     int

	stderr        io.Writer
	errorOccurred bool
	anyDiag       bool
}

// New reads the whole source up front.
func New(src io.Reader, stderr io.Writer) (*Assembler, error) {
	a := &Assembler{
		labels: map[string]labelDef{},
		stderr: stderr,
	}
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		a.lines = append(a.lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ファイルが読み取れませんでした。: %w", err)
	}
	return a, nil
}

func (a *Assembler) rewind() {
	a.lineNum = 0
	a.line = ""
	a.idx = 0
}

func (a *Assembler) nextLine() bool {
	if a.lineNum >= len(a.lines) {
		return false
	}
	a.line = a.lines[a.lineNum]
	a.lineNum++
	a.idx = 0
	return true
}

// Assemble runs both passes and returns the binary and the label table
// for the name-table file. On error the diagnostics have already been
// written to the writer given to New.
func (a *Assembler) Assemble() (*objfile.Binary, objfile.NameTable, error) {
	a.pass1()
	if a.errorOccurred {
		return nil, nil, ErrAssembly
	}
	bin := a.pass2()
	if a.errorOccurred {
		return nil, nil, ErrAssembly
	}
	nt := objfile.NameTable{}
	for name, l := range a.labels {
		nt[name] = l.value
	}
	return bin, nt, nil
}
