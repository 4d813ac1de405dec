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

package objfile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestBinaryRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := &Binary{Start: 0x10, Size: 3}
	b.Code[0x10] = 0x13
	b.Code[0x11] = 0x2A
	b.Code[0x12] = 0xFF

	assert.NoError(t, WriteBinary(fs, "prog.bin", b))

	data, err := afero.ReadFile(fs, "prog.bin")
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x03, 0x13, 0x2A, 0xFF}, data)

	got, err := ReadBinary(fs, "prog.bin")
	assert.NoError(t, err)
	assert.Equal(t, b.Start, got.Start)
	assert.Equal(t, b.Size, got.Size)
	// The image stays address indexed on the way back in.
	assert.Equal(t, []byte{0x13, 0x2A, 0xFF}, got.Code[0x10:0x13])
}

func TestBinaryFormatErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	afero.WriteFile(fs, "short.bin", []byte{0x00}, 0644)
	_, err := ReadBinary(fs, "short.bin")
	assert.Error(t, err)

	afero.WriteFile(fs, "trunc.bin", []byte{0x00, 0x03, 0x01}, 0644)
	_, err = ReadBinary(fs, "trunc.bin")
	assert.Error(t, err)

	afero.WriteFile(fs, "long.bin", []byte{0x00, 0x01, 0x01, 0x02}, 0644)
	_, err = ReadBinary(fs, "long.bin")
	assert.Error(t, err, "a trailing byte is a format error")

	afero.WriteFile(fs, "empty.bin", []byte{0x00, 0x00}, 0644)
	b, err := ReadBinary(fs, "empty.bin")
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), b.Size)

	_, err = ReadBinary(fs, "missing.bin")
	assert.Error(t, err)
}

func TestNameTableRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	nt := NameTable{"LOOP": 0x0A, "COUNT": 0xDB, "_X1": 3}

	assert.NoError(t, WriteNameTable(fs, "prog.nt", nt))

	data, err := afero.ReadFile(fs, "prog.nt")
	assert.NoError(t, err)
	assert.Equal(t, "COUNT:   0DBH\nLOOP:    00AH\n_X1:     003H\n", string(data))

	got, err := ReadNameTable(fs, "prog.nt")
	assert.NoError(t, err)
	assert.Equal(t, nt, got)
}

func TestNameTableToleratesSpacingAndCase(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "a.nt", []byte("  loop :  0aH\n\nX: 12\n"), 0644)

	nt, err := ReadNameTable(fs, "a.nt")
	assert.NoError(t, err)
	assert.Equal(t, NameTable{"LOOP": 0x0A, "X": 12}, nt)
}

func TestNameTableErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	for name, content := range map[string]string{
		"nolabel.nt":  "1X: 00H\n",
		"nocolon.nt":  "LOOP 00H\n",
		"novalue.nt":  "LOOP: ZZ\n",
		"nosuffix.nt": "LOOP: 0A\n",
		"tail.nt":     "LOOP: 00H garbage\n",
	} {
		afero.WriteFile(fs, name, []byte(content), 0644)
		_, err := ReadNameTable(fs, name)
		assert.Error(t, err, name)
	}
}
