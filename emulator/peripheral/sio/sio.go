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

package sio

import (
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

// Port addresses.
const (
	PortData = 0x2
	PortStat = 0x3
)

// SIO-STAT bits.
const (
	StatTxEmpty = 0x80
	StatRxFull  = 0x40
)

// SIO-CTRL bits.
const (
	CtrlTxIntEnable = 0x80
	CtrlRxIntEnable = 0x40
)

// Device is the 9600 bps serial port. One byte of buffering in each
// direction: RX_FULL flips false when the program reads SIO-DATA,
// TX_EMPTY flips false when it writes SIO-DATA. The far end of the
// line is whoever calls TryWriteIn and TryReadOut.
type Device struct {
	rx, tx       byte
	rxFull       bool
	txEmpty      bool
	rxIntEnabled bool
	txIntEnabled bool
}

func (m *Device) Install(p processor.Processor) error {
	m.txEmpty = true
	ic := p.GetInterruptController()
	if err := ic.InstallLine(processor.IntSIORx, rxLine{m}); err != nil {
		return err
	}
	if err := ic.InstallLine(processor.IntSIOTx, txLine{m}); err != nil {
		return err
	}
	return p.InstallIODevice(m, PortData, PortStat)
}

func (m *Device) Name() string {
	return "SIO"
}

// Reset implements the console RESET button, which drops both buffers
// and the interrupt enables.
func (m *Device) Reset() {
	m.txEmpty = true
	m.rxFull = false
	m.txIntEnabled = false
	m.rxIntEnabled = false
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) In(port byte) byte {
	switch port {
	case PortData:
		m.rxFull = false
		return m.rx
	case PortStat:
		var v byte
		if m.txEmpty {
			v |= StatTxEmpty
		}
		if m.rxFull {
			v |= StatRxFull
		}
		return v
	}
	return 0
}

func (m *Device) Out(port byte, data byte) {
	switch port {
	case PortData:
		m.tx = data
		m.txEmpty = false
	case PortStat:
		m.txIntEnabled = data&CtrlTxIntEnable != 0
		m.rxIntEnabled = data&CtrlRxIntEnable != 0
	}
}

// RxFull reports whether the receive buffer still holds an unread byte.
func (m *Device) RxFull() bool {
	return m.rxFull
}

// TryWriteIn offers one byte from the line to the receive buffer.
// It fails while the previous byte is still unread.
func (m *Device) TryWriteIn(val byte) bool {
	if m.rxFull {
		return false
	}
	m.rx = val
	m.rxFull = true
	return true
}

// TryReadOut drains the transmit buffer, completing the send.
func (m *Device) TryReadOut() (byte, bool) {
	if m.txEmpty {
		return 0, false
	}
	m.txEmpty = true
	return m.tx, true
}

// rxLine and txLine are the level-triggered INT1/INT2 inputs of the
// interrupt controller. There is no latch to acknowledge; the line
// drops when the program services the buffer.

type rxLine struct{ d *Device }

func (l rxLine) Asserted() bool {
	return l.d.rxIntEnabled && l.d.rxFull
}

func (l rxLine) Acknowledge() {
}

type txLine struct{ d *Device }

func (l txLine) Asserted() bool {
	return l.d.txIntEnabled && l.d.txEmpty
}

func (l txLine) Acknowledge() {
}
