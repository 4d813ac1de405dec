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

package console

import (
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

// Port addresses. 0x0 and 0x1 both read the data switches; writes drive
// the buzzer and the speaker. 0x6 is the console interrupt enable.
const (
	PortDataSwitch = 0x0
	PortSpeaker    = 0x1
	PortIntEnable  = 0x6
)

// Device is the operator console: the eight data switches, the buzzer
// and speaker bits, and the WRITE button's INT3 edge latch.
type Device struct {
	dataSwitch byte
	buzzer     bool
	speaker    bool
	intEnabled bool
	irq        bool
}

func (m *Device) Install(p processor.Processor) error {
	ic := p.GetInterruptController()
	if err := ic.InstallLine(processor.IntConsole, line{m}); err != nil {
		return err
	}
	if err := p.InstallIODevice(m, PortDataSwitch, PortSpeaker); err != nil {
		return err
	}
	return p.InstallIODevice(m, PortIntEnable, PortIntEnable)
}

func (m *Device) Name() string {
	return "Console"
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) In(port byte) byte {
	switch port {
	case PortDataSwitch, PortSpeaker:
		return m.dataSwitch
	}
	return 0
}

func (m *Device) Out(port byte, data byte) {
	switch port {
	case PortDataSwitch:
		m.buzzer = data&0x01 != 0
	case PortSpeaker:
		m.speaker = data&0x01 != 0
	case PortIntEnable:
		m.intEnabled = data&0x01 != 0
	}
}

// SetDataSwitch sets the eight data switches.
func (m *Device) SetDataSwitch(val byte) {
	m.dataSwitch = val
}

func (m *Device) DataSwitch() byte {
	return m.dataSwitch
}

func (m *Device) Buzzer() bool {
	return m.buzzer
}

func (m *Device) Speaker() bool {
	return m.speaker
}

// RaiseInterrupt latches INT3, the console WRITE button.
func (m *Device) RaiseInterrupt() {
	m.irq = true
}

type line struct{ d *Device }

func (l line) Asserted() bool {
	return l.d.intEnabled && l.d.irq
}

func (l line) Acknowledge() {
	l.d.irq = false
}
