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

package rom

import (
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/memory"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

// ipl is the 32 byte initial program loader burned into 0xE0..0xFF.
// It is part of the machine, not a file.
var ipl = [0x20]byte{
	0x1F, 0xDC, 0xB0, 0xF6, 0xD0, 0xD6, 0xB0, 0xF6, // 0xE0
	0xD0, 0xDA, 0xA4, 0xFF, 0xB0, 0xF6, 0x21, 0x00, // 0xE8
	0x37, 0x01, 0x4B, 0x01, 0xA0, 0xEA, 0xC0, 0x03, // 0xF0
	0x63, 0x40, 0xA4, 0xF6, 0xC0, 0x02, 0xEC, 0xFF, // 0xF8
}

// Device is the IPL ROM at 0xE0..0xFF. Writes are dropped without
// complaint; programs legitimately run stores through index registers
// that happen to land here.
type Device struct {
	mem [len(ipl)]byte
}

func (m *Device) Install(p processor.Processor) error {
	m.mem = ipl
	return p.InstallMemoryDevice(m, memory.ROMStart, 0xFF)
}

func (m *Device) Name() string {
	return "IPL ROM"
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) ReadByte(addr memory.Pointer) byte {
	return m.mem[addr-memory.ROMStart]
}

func (m *Device) WriteByte(addr memory.Pointer, data byte) {
}
