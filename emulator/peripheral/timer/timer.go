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

package timer

import (
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

// Port addresses.
const (
	PortCount = 0x4
	PortStat  = 0x5
)

// Status/control bits.
const (
	StatElapsed   = 0x80
	CtrlIntEnable = 0x80
	CtrlEnable    = 0x01
)

// TickStates is the number of CPU states per counter increment.
const TickStates = uint16(processor.StatesPerSec / 75)

// DefaultPeriod is the period register's power-on value.
const DefaultPeriod = 74

// Device is the interval timer. A subcycle accumulator counts executed
// states; every TickStates of them the 8-bit counter advances, and when
// it reaches the period register it wraps, latches "elapsed" and, with
// interrupts enabled, raises INT0. The accumulator keeps running while
// the timer is disabled, exactly like the hardware prescaler.
type Device struct {
	counter, period byte
	enabled         bool
	intEnabled      bool
	elapsed         bool
	irq             bool
	clkCount        uint16
}

func (m *Device) Install(p processor.Processor) error {
	m.period = DefaultPeriod
	if err := p.GetInterruptController().InstallLine(processor.IntTimer, line{m}); err != nil {
		return err
	}
	return p.InstallIODevice(m, PortCount, PortStat)
}

func (m *Device) Name() string {
	return "Interval Timer"
}

// Reset is a no-op: the console RESET button leaves the timer running
// with its configuration intact.
func (m *Device) Reset() {
}

func (m *Device) Step(states int) error {
	m.clkCount += uint16(states)
	if m.enabled && TickStates <= m.clkCount {
		m.clkCount = 0
		if m.counter == m.period {
			m.counter = 0
			m.elapsed = true
			if m.intEnabled {
				m.irq = true
			}
		} else {
			m.counter++
		}
	}
	return nil
}

func (m *Device) In(port byte) byte {
	switch port {
	case PortCount:
		return m.counter
	case PortStat:
		var v byte
		if m.elapsed {
			v = StatElapsed
		}
		m.elapsed = false
		return v
	}
	return 0
}

func (m *Device) Out(port byte, data byte) {
	switch port {
	case PortCount:
		m.period = data
	case PortStat:
		m.intEnabled = data&CtrlIntEnable != 0
		if m.enabled = data&CtrlEnable != 0; m.enabled {
			m.elapsed = false
			m.counter = 0
		}
	}
}

// line is the INT0 input: an edge latch gated by the interrupt enable.

type line struct{ d *Device }

func (l line) Asserted() bool {
	return l.d.intEnabled && l.d.irq
}

func (l line) Acknowledge() {
	l.d.irq = false
}
