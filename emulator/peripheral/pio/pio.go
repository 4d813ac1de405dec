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

package pio

import (
	"log"
	"math"

	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

// Port addresses. 0x8..0xB are the four ADC channels.
const (
	PortData = 0x7
	PortADC0 = 0x8
	PortADC3 = 0xB
	PortCtrl = 0xC
)

// PIO-Ctrl bit: enables the extended 4-bit output, driven from the
// written value's low nibble.
const CtrlExtEnable = 0x80

// Analog levels on the 3.3 V range.
var (
	// HighLevel is the ADC reading of a digital HIGH pin (3.0 V).
	HighLevel = byte(math.Floor(255 * 3.0 / 3.3))

	// Threshold is the ADC reading above which an analog input reads
	// back as a HIGH parallel-input bit (1.6 V).
	Threshold = byte(math.Floor(255 * 1.6 / 3.3))
)

// Device is the parallel port plus the 4-channel ADC. The low four
// parallel-input pins are shared with the ADC: driving a pin digitally
// forces its channel to 3.0 V or 0 V, and driving a channel with an
// analog value above 1.6 V reads back as a HIGH pin.
type Device struct {
	in, out    byte
	ext        byte
	extEnabled bool
	adc        [4]byte
}

func (m *Device) Install(p processor.Processor) error {
	return p.InstallIODevice(m, PortData, PortCtrl)
}

func (m *Device) Name() string {
	return "PIO/ADC"
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) In(port byte) byte {
	switch {
	case port == PortData:
		return m.in
	case PortADC0 <= port && port <= PortADC3:
		return m.adc[port-PortADC0]
	}
	return 0
}

func (m *Device) Out(port byte, data byte) {
	switch {
	case port == PortData:
		m.out = data
	case port == PortCtrl:
		if m.extEnabled = data&CtrlExtEnable != 0; m.extEnabled {
			m.ext = data & 0x0F
		}
	}
}

// ReadOutput returns the parallel output register.
func (m *Device) ReadOutput() byte {
	return m.out
}

// ReadExtOutput returns the extended 4-bit output.
func (m *Device) ReadExtOutput() byte {
	return m.ext
}

// WriteInput drives the parallel input pins digitally, which also
// forces the four ADC channels to the matching rail.
func (m *Device) WriteInput(val byte) {
	m.in = val
	for pin := range m.adc {
		if val&(1<<pin) != 0 {
			m.adc[pin] = HighLevel
		} else {
			m.adc[pin] = 0
		}
	}
}

// WriteAnalog drives one ADC channel and updates the shared
// parallel-input pin from the 1.6 V threshold.
func (m *Device) WriteAnalog(pin int, val byte) {
	if pin < 0 || pin >= len(m.adc) {
		log.Panicf("invalid ADC channel: %d", pin)
	}
	m.adc[pin] = val
	var bit byte
	if Threshold < val {
		bit = 1
	}
	m.in = m.in&^(1<<pin) | bit<<pin
}
