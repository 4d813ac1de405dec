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

package pic

import (
	"errors"

	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

// Device is the TeC7 interrupt controller. It owns no state of its own;
// it walks the four lines in priority order (INT0 timer, INT1 SIO RX,
// INT2 SIO TX, INT3 console) and acknowledges the winner. INT0 and INT3
// are edge latches owned by their devices, INT1 and INT2 are level
// lines following the SIO buffer flags.
type Device struct {
	lines [processor.NumInterrupts]processor.InterruptLine
}

func (m *Device) Install(p processor.Processor) error {
	return nil
}

func (m *Device) Name() string {
	return "Interrupt Controller"
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) InstallLine(n int, line processor.InterruptLine) error {
	if n < 0 || n >= len(m.lines) {
		return errors.New("invalid interrupt line")
	}
	m.lines[n] = line
	return nil
}

func (m *Device) GetInterrupt() (int, error) {
	for n, line := range m.lines {
		if line != nil && line.Asserted() {
			line.Acknowledge()
			return n, nil
		}
	}
	return 0, processor.ErrNoInterrupts
}
