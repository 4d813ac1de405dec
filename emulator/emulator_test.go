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

package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/memory"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

func load(m *Machine, prog ...byte) {
	var code [memory.Size]byte
	copy(code[:], prog)
	m.LoadProgram(0, byte(len(prog)), code)
}

func TestLoadProgramRespectsROM(t *testing.T) {
	m := New()
	var code [memory.Size]byte
	for i := range code {
		code[i] = 0x55
	}
	romByte := m.GetMem(byte(memory.ROMStart))
	m.LoadProgram(0xD0, 0x40, code) // crosses into ROM and wraps

	assert.Equal(t, byte(0x55), m.GetMem(0xD0))
	assert.Equal(t, romByte, m.GetMem(byte(memory.ROMStart)))
	// The wrapped tail landed back at 0x00.
	assert.Equal(t, byte(0x55), m.GetMem(0x00))
}

func TestConsoleInterrupt(t *testing.T) {
	m := New()
	load(m,
		0x13, 0x10, // LD G0,#10H    handler address
		0x20, 0xDF, // ST G0,0DFH    INT3 vector
		0x13, 0x01, // LD G0,#1
		0xC3, 0x06, // OUT G0,6      console interrupt enable
		0xE0, // EI
		0xA0, 0x09, // 09H: JMP 09H  wait for the interrupt
	)
	m.SetMem(0x10, 0x13) // 10H: LD G0,#0AAH
	m.SetMem(0x11, 0xAA)
	m.SetMem(0x12, 0xFF) // HALT

	m.SetReg(SP, 0x80)
	m.Run()
	m.Clock(64) // reach the wait loop
	assert.True(t, m.Running())

	m.RaiseConsoleInterrupt()
	for i := 0; i < 100 && m.Running(); i++ {
		m.ClockUnit()
	}

	assert.False(t, m.Running())
	assert.False(t, m.Error())
	assert.Equal(t, byte(0xAA), m.GetReg(G0))
	// PC and the status byte were pushed and never popped.
	assert.Equal(t, byte(0x7E), m.GetReg(SP))
}

func TestInterruptPushesStatusByte(t *testing.T) {
	m := New()
	load(m,
		0x13, 0x10, // LD G0,#10H
		0x20, 0xDF, // ST G0,0DFH
		0x13, 0x01, // LD G0,#1
		0xC3, 0x06, // OUT G0,6
		0xE0, // EI
		0x00, // NO (the interrupt lands before the next fetch)
		0xFF,
	)
	m.SetMem(0x10, 0xFF) // handler halts immediately

	m.SetReg(SP, 0x80)
	m.SetFlg(FlgC, true)
	m.Run()
	m.RaiseConsoleInterrupt()
	for i := 0; i < 100 && m.Running(); i++ {
		m.ClockUnit()
	}

	assert.Equal(t, byte(0x7E), m.GetReg(SP))
	status := m.GetMem(0x7E)
	assert.Equal(t, byte(0x80), status&0x80, "IE was set before service")
	assert.Equal(t, byte(0x04), status&0x04, "C was set before service")
	// IE is masked during the handler.
	assert.False(t, m.CPU.GetBool(processor.InterruptEnable))
}

func TestTimerInterrupt(t *testing.T) {
	m := New()
	load(m,
		0x13, 0x20, // LD G0,#20H    handler address
		0x20, 0xDC, // ST G0,0DCH    INT0 vector
		0x13, 0x01, // LD G0,#1
		0xC3, 0x04, // OUT G0,4      period = 1
		0x13, 0x81, // LD G0,#81H
		0xC3, 0x05, // OUT G0,5      timer interrupt enable + start
		0xE0, // EI
		0xA0, 0x0D, // 0DH: JMP 0DH
	)
	// Handler: increment [0x40] and return.
	m.SetMem(0x20, 0x14) // LD G1,40H
	m.SetMem(0x21, 0x40)
	m.SetMem(0x22, 0x37) // ADD G1,#1
	m.SetMem(0x23, 0x01)
	m.SetMem(0x24, 0x24) // ST G1,40H
	m.SetMem(0x25, 0x40)
	m.SetMem(0x26, 0xEF) // RETI

	m.SetReg(SP, 0x80)
	m.Run()
	// 100 ms of virtual time: the period-1 timer elapses every
	// 2 * 32768 states.
	var states uint64
	for states < processor.StatesPerSec/10 && m.Running() {
		states += m.ClockUnit()
	}

	assert.False(t, m.Error())
	assert.GreaterOrEqual(t, m.GetMem(0x40), byte(1))
}

func TestSerialRoundTripThroughMachine(t *testing.T) {
	m := New()
	// Poll RX_FULL, read the byte, echo it, halt.
	load(m,
		0xC0, 0x03, // 00H: IN G0,3
		0x63, 0x40, // AND G0,#40H
		0xA4, 0x00, // JZ 00H
		0xC0, 0x02, // IN G0,2
		0xC3, 0x02, // OUT G0,2
		0xFF,
	)
	m.Run()
	assert.True(t, m.TryWriteSerialIn('Q'))
	assert.False(t, m.TryWriteSerialIn('R'), "single byte buffer")

	for i := 0; i < 100 && m.Running(); i++ {
		m.ClockUnit()
	}
	b, ok := m.TryReadSerialOut()
	assert.True(t, ok)
	assert.Equal(t, byte('Q'), b)
	_, ok = m.TryReadSerialOut()
	assert.False(t, ok)
}

func TestResetKeepsMemoryAndClearsSIO(t *testing.T) {
	m := New()
	m.SetMem(0x10, 0x42)
	m.SetReg(G0, 9)
	m.SetReg(PC, 0x30)
	m.TryWriteSerialIn('x')
	m.Run()

	m.Reset()

	assert.False(t, m.Running())
	assert.Equal(t, byte(0), m.GetReg(G0))
	assert.Equal(t, byte(0), m.GetReg(PC))
	assert.Equal(t, byte(0x42), m.GetMem(0x10), "RESET does not clear memory")
	assert.False(t, m.SerialInFull())
}

func TestDataSwitchReadableOnTwoPorts(t *testing.T) {
	m := New()
	m.SetDataSwitch(0x5A)
	load(m,
		0xC0, 0x00, // IN G0,0
		0xC4, 0x01, // IN G1,1
		0xFF,
	)
	m.Run()
	m.Clock(16)
	assert.Equal(t, byte(0x5A), m.GetReg(G0))
	assert.Equal(t, byte(0x5A), m.GetReg(G1))
}

func TestBuzzerSpeakerBits(t *testing.T) {
	m := New()
	load(m,
		0x13, 0x01, // LD G0,#1
		0xC3, 0x00, // OUT G0,0  buzzer
		0xC3, 0x01, // OUT G0,1  speaker
		0xFF,
	)
	m.Run()
	m.Clock(64)
	assert.True(t, m.Buzzer())
	assert.True(t, m.Speaker())
}
