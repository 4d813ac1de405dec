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

package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/memory"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral/pic"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral/ram"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral/rom"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

func testCPU(t *testing.T, prog ...byte) *CPU {
	t.Helper()
	p := NewCPU([]peripheral.Peripheral{
		&pic.Device{},
		&ram.Device{},
		&rom.Device{},
	})
	for i, b := range prog {
		p.WriteByte(memory.Pointer(i), b)
	}
	return p
}

// run steps until HALT or fault and returns the total states.
func run(t *testing.T, p *CPU) int {
	t.Helper()
	total := 0
	p.Run = true
	for i := 0; i < 10000; i++ {
		n, err := p.Step()
		total += n
		if err != nil || !p.Run {
			return total
		}
	}
	t.Fatal("program did not stop")
	return total
}

func TestLoadImmediateAndHalt(t *testing.T) {
	p := testCPU(t,
		0x13, 0x2A, // LD G0,#42
		0xFF, // HALT
	)
	states := run(t, p)

	assert.Equal(t, byte(42), p.G0)
	assert.Equal(t, 4, states)
	assert.False(t, p.Run)
	assert.False(t, p.Err)
}

func TestAddressingModes(t *testing.T) {
	p := testCPU(t,
		0x10, 0x20, // LD G0,20H      (direct)
		0x15, 0x0F, // LD G1,0FH,G1   (G1 indexed; G1 is 0 -> M[0x0F])
		0x1A, 0x1E, // LD G2,1EH,G2   (G2 indexed; G2 is 2 -> M[0x20])
		0xFF,
	)
	p.WriteByte(0x0F, 0x11)
	p.WriteByte(0x20, 0x99)
	p.G2 = 2
	run(t, p)

	assert.Equal(t, byte(0x99), p.G0)
	assert.Equal(t, byte(0x11), p.G1)
	assert.Equal(t, byte(0x99), p.G2)
}

func TestIndexedAddressWraps(t *testing.T) {
	p := testCPU(t,
		0x15, 0xF0, // LD G1,0F0H,G1
		0xFF,
	)
	p.G1 = 0x20 // 0xF0+0x20 wraps to 0x10
	p.WriteByte(0x10, 0x5A)
	run(t, p)
	assert.Equal(t, byte(0x5A), p.G1)
}

func TestAddCarry(t *testing.T) {
	p := testCPU(t,
		0x13, 200, // LD G0,#200
		0x33, 100, // ADD G0,#100
		0xFF,
	)
	run(t, p)

	assert.Equal(t, byte(44), p.G0)
	assert.True(t, p.GetBool(processor.Carry))
	assert.False(t, p.GetBool(processor.Zero))
	assert.False(t, p.GetBool(processor.Sign))
}

func TestAddZero(t *testing.T) {
	p := testCPU(t,
		0x13, 0x80, // LD G0,#80H
		0x33, 0x80, // ADD G0,#80H
		0xFF,
	)
	run(t, p)

	assert.Equal(t, byte(0), p.G0)
	assert.True(t, p.GetBool(processor.Carry))
	assert.True(t, p.GetBool(processor.Zero))
	assert.False(t, p.GetBool(processor.Sign))
}

func TestSubBorrow(t *testing.T) {
	p := testCPU(t,
		0x13, 5, // LD G0,#5
		0x43, 10, // SUB G0,#10
		0xFF,
	)
	run(t, p)

	assert.Equal(t, byte(251), p.G0)
	assert.True(t, p.GetBool(processor.Carry))
	assert.True(t, p.GetBool(processor.Sign))
	assert.False(t, p.GetBool(processor.Zero))
}

func TestCmpLeavesRegister(t *testing.T) {
	p := testCPU(t,
		0x13, 7, // LD G0,#7
		0x53, 7, // CMP G0,#7
		0xFF,
	)
	run(t, p)

	assert.Equal(t, byte(7), p.G0)
	assert.True(t, p.GetBool(processor.Zero))
	assert.False(t, p.GetBool(processor.Carry))
}

func TestLogicOpsClearCarry(t *testing.T) {
	p := testCPU(t,
		0x13, 0xF0, // LD G0,#0F0H
		0x33, 0x20, // ADD G0,#20H (sets C)
		0x63, 0x81, // AND G0,#81H
		0xFF,
	)
	run(t, p)

	assert.Equal(t, byte(0x00), p.G0)
	assert.False(t, p.GetBool(processor.Carry))
	assert.True(t, p.GetBool(processor.Zero))
}

func TestXor(t *testing.T) {
	p := testCPU(t,
		0x13, 0xAA, // LD G0,#0AAH
		0x83, 0xFF, // XOR G0,#0FFH
		0xFF,
	)
	run(t, p)

	assert.Equal(t, byte(0x55), p.G0)
	assert.False(t, p.GetBool(processor.Sign))
}

func TestShifts(t *testing.T) {
	tests := []struct {
		name  string
		inst  byte
		in    byte
		out   byte
		carry bool
	}{
		{"SHLL carries bit7", 0x91, 0xFF, 0xFE, true},
		{"SHLA same as SHLL", 0x90, 0x41, 0x82, false},
		{"SHRA keeps sign", 0x92, 0x81, 0xC0, true},
		{"SHRL clears bit7", 0x93, 0x81, 0x40, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testCPU(t, tt.inst, 0xFF)
			p.G0 = tt.in
			states := run(t, p)

			assert.Equal(t, tt.out, p.G0)
			assert.Equal(t, tt.carry, p.GetBool(processor.Carry))
			assert.Equal(t, 3, states)
		})
	}
}

func TestConditionalJumps(t *testing.T) {
	// JZ is taken after a zero result, skipping the load of 1.
	p := testCPU(t,
		0x13, 0x00, // LD G0,#0
		0x33, 0x00, // ADD G0,#0 (Z=1)
		0xA4, 0x08, // JZ 08H
		0x13, 0x01, // LD G0,#1
		0xFF, // 08H: HALT
	)
	run(t, p)
	assert.Equal(t, byte(0), p.G0)

	// JNZ is not taken after a zero result.
	p = testCPU(t,
		0x13, 0x00,
		0x33, 0x00,
		0xB4, 0x08, // JNZ 08H
		0x13, 0x01,
		0xFF, // falls through HALT at 8 either way
	)
	run(t, p)
	assert.Equal(t, byte(1), p.G0)
}

func TestCallPushesReturnAddress(t *testing.T) {
	p := testCPU(t,
		0xB0, 0x10, // CALL 10H
		0xFF, // 02H: HALT
	)
	p.WriteByte(0x10, 0xEC) // RET
	p.SP = 0x80
	states := run(t, p)

	assert.Equal(t, byte(0x80), p.SP)
	assert.False(t, p.Err)
	// CALL 4 + RET 3 + HALT 0
	assert.Equal(t, 7, states)
}

func TestPushPopRoundTrip(t *testing.T) {
	p := testCPU(t,
		0x13, 42, // LD G0,#42
		0xD0, // PUSH G0
		0x13, 0, // LD G0,#0
		0xD2, // POP G0
		0xFF,
	)
	p.SP = 0x80
	run(t, p)
	assert.Equal(t, byte(42), p.G0)
	assert.Equal(t, byte(0x80), p.SP)
}

func TestPushPreDecrementsStack(t *testing.T) {
	p := testCPU(t,
		0x13, 0x77, // LD G0,#77H
		0xD0, // PUSH G0
		0xFF,
	)
	p.SP = 0x40
	run(t, p)
	assert.Equal(t, byte(0x3F), p.SP)
	assert.Equal(t, byte(0x77), p.ReadByte(0x3F))
}

func TestRetiRestoresFlags(t *testing.T) {
	p := testCPU(t,
		0xEF, // RETI
		0xFF,
	)
	p.SP = 0x40
	p.WriteByte(0x40, 0x85) // IE | C | Z
	p.WriteByte(0x41, 0x01) // PC -> 01H (HALT)
	states := run(t, p)

	assert.True(t, p.GetBool(processor.InterruptEnable))
	assert.True(t, p.GetBool(processor.Carry))
	assert.True(t, p.GetBool(processor.Zero))
	assert.False(t, p.GetBool(processor.Sign))
	assert.Equal(t, byte(0x42), p.SP)
	assert.Equal(t, 4, states)
}

func TestInvalidEncodings(t *testing.T) {
	tests := []struct {
		name string
		inst []byte
	}{
		{"NO with GR set", []byte{0x04}},
		{"ST immediate", []byte{0x23, 0x00}},
		{"JMP immediate", []byte{0xA3, 0x00}},
		{"CALL immediate", []byte{0xB3, 0x00}},
		{"IN bad XR", []byte{0xC1, 0x00}},
		{"PUSH bad XR", []byte{0xD1}},
		{"EI bad XR", []byte{0xE1}},
		{"HALT bad fields", []byte{0xF0}},
		{"IN port out of range", []byte{0xC0, 0x10}},
		{"OUT port out of range", []byte{0xC3, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testCPU(t, tt.inst...)
			p.Run = true
			n, err := p.Step()

			assert.ErrorIs(t, err, processor.ErrInvalidInstruction)
			assert.Equal(t, 0, n)
			assert.True(t, p.Err)
			assert.False(t, p.Run)
			// The dump wants to see the faulting instruction.
			assert.Equal(t, byte(0), p.PC)
		})
	}
}

func TestRomIsImmutable(t *testing.T) {
	p := testCPU(t)
	before := p.ReadByte(memory.ROMStart)
	p.WriteByte(memory.ROMStart, ^before)
	assert.Equal(t, before, p.ReadByte(memory.ROMStart))

	// A store through the instruction path is dropped the same way.
	p = testCPU(t,
		0x13, 0x55, // LD G0,#55H
		0x20, 0xF0, // ST G0,0F0H
		0xFF,
	)
	want := p.ReadByte(0xF0)
	run(t, p)
	assert.Equal(t, want, p.ReadByte(0xF0))
}

func TestIPLPresentAfterReset(t *testing.T) {
	p := testCPU(t)
	p.Reset()
	want := []byte{0x1F, 0xDC, 0xB0, 0xF6}
	for i, b := range want {
		assert.Equal(t, b, p.ReadByte(memory.ROMStart.AddInt(i)))
	}
	assert.Equal(t, byte(0xFF), p.ReadByte(0xFF))
}

func TestStateAccounting(t *testing.T) {
	tests := []struct {
		name   string
		prog   []byte
		states int
	}{
		{"NO", []byte{0x00}, 2},
		{"LD", []byte{0x10, 0x00}, 4},
		{"ST", []byte{0x20, 0x00}, 3},
		{"ADD", []byte{0x30, 0x00}, 4},
		{"CMP", []byte{0x50, 0x00}, 4},
		{"OR", []byte{0x70, 0x00}, 4},
		{"SHLL", []byte{0x91}, 3},
		{"JMP", []byte{0xA0, 0x05}, 3},
		{"JNZ not taken", []byte{0xB4, 0x05}, 3},
		{"CALL", []byte{0xB0, 0x05}, 4},
		{"IN", []byte{0xC0, 0x00}, 4},
		{"OUT", []byte{0xC3, 0x00}, 3},
		{"PUSH", []byte{0xD0}, 3},
		{"POP", []byte{0xD2}, 4},
		{"EI", []byte{0xE0}, 3},
		{"DI", []byte{0xE3}, 3},
		{"RET", []byte{0xEC}, 3},
		{"RETI", []byte{0xEF}, 4},
		{"HALT", []byte{0xFF}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testCPU(t, tt.prog...)
			p.Run = true
			// Z held high keeps the JNZ row on its not-taken path.
			p.Set(processor.Zero)
			n, err := p.Step()
			assert.NoError(t, err)
			assert.Equal(t, tt.states, n)
		})
	}
}

func TestRunErrNeverBothSet(t *testing.T) {
	p := testCPU(t, 0x04) // invalid
	p.Clock(100)
	assert.True(t, p.Err)
	assert.False(t, p.Run)
}

func TestClockStopsAtBudget(t *testing.T) {
	// An endless NO/JMP loop: 5 states per pass.
	p := testCPU(t, 0x00, 0xA0, 0x00)
	states := p.Clock(10)
	// NO(2) JMP(3) NO(2) JMP(3) = 10
	assert.Equal(t, uint64(10), states)
	assert.True(t, p.Run)
}
