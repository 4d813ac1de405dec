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

package peripheral

import (
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

// Peripheral is one device of the machine. Install is called once with
// the processor so the device can claim ports, memory ranges and
// interrupt lines. Step is called after every executed instruction with
// the number of states it consumed. Reset implements the console RESET
// button, which on the TeC7 touches only some of the hardware.
type Peripheral interface {
	Name() string
	Reset()
	Step(states int) error
	Install(p processor.Processor) error
}

type NullDevice struct {
}

func (*NullDevice) Install(processor.Processor) error {
	return nil
}

func (*NullDevice) Name() string {
	return "Null Device"
}

func (*NullDevice) Reset() {
}

func (*NullDevice) Step(int) error {
	return nil
}
