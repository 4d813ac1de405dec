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

package ram

import (
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/memory"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

// Size of the RAM, 0x00 up to the IPL ROM.
const Size = int(memory.ROMStart)

// Device is the 224 byte main RAM. The console RESET button does not
// clear memory, so Reset leaves the contents alone.
type Device struct {
	mem [Size]byte
}

func (m *Device) Install(p processor.Processor) error {
	return p.InstallMemoryDevice(m, 0x0, memory.ROMStart-1)
}

func (m *Device) Name() string {
	return "RAM"
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) ReadByte(addr memory.Pointer) byte {
	return m.mem[addr]
}

func (m *Device) WriteByte(addr memory.Pointer, data byte) {
	m.mem[addr] = data
}
