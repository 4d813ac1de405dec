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
	"log"

	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/memory"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral/console"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral/pic"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral/pio"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral/ram"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral/rom"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral/sio"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral/timer"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor/cpu"
)

// Reg names a register for the outside world (the scenario driver and
// the front panel).
type Reg int

const (
	G0 Reg = iota
	G1
	G2
	SP
	PC
)

// Flg names a condition flag for the outside world.
type Flg int

const (
	FlgC Flg = iota
	FlgS
	FlgZ
)

var flgBits = map[Flg]processor.Flags{
	FlgC: processor.Carry,
	FlgS: processor.Sign,
	FlgZ: processor.Zero,
}

// Machine is a complete TeC7: the CPU with RAM, IPL ROM, interrupt
// controller, SIO, timer, PIO/ADC and the operator console installed.
// Everything outside the machine mutates it only through this surface.
type Machine struct {
	CPU     *cpu.CPU
	SIO     *sio.Device
	Timer   *timer.Device
	PIO     *pio.Device
	Console *console.Device
}

func New() *Machine {
	m := &Machine{
		SIO:     &sio.Device{},
		Timer:   &timer.Device{},
		PIO:     &pio.Device{},
		Console: &console.Device{},
	}
	m.CPU = cpu.NewCPU([]peripheral.Peripheral{
		&pic.Device{},
		&ram.Device{},
		&rom.Device{},
		m.SIO,
		m.Timer,
		m.PIO,
		m.Console,
	})
	return m
}

// LoadProgram copies an assembled image into main memory. The image is
// indexed by address like objfile.Binary.Code; bytes that land in the
// ROM area are dropped like any other write.
func (m *Machine) LoadProgram(start, size byte, code [memory.Size]byte) {
	for i := 0; i < int(size); i++ {
		addr := memory.Pointer(start).AddInt(i)
		m.CPU.WriteByte(addr, code[addr])
	}
}

func (m *Machine) Run() {
	m.CPU.Run = true
}

func (m *Machine) Stop() {
	m.CPU.Run = false
}

func (m *Machine) Reset() {
	m.CPU.Reset()
}

// Clock advances the machine by at least maxStates states, stopping
// early when the machine halts or faults, and returns the states
// actually consumed.
func (m *Machine) Clock(maxStates uint64) uint64 {
	return m.CPU.Clock(maxStates)
}

// ClockUnit advances the machine by one SIO byte time, the quantum at
// which the serial ports want to be polled.
func (m *Machine) ClockUnit() uint64 {
	return m.CPU.Clock(processor.SerialUnitStates)
}

func (m *Machine) Running() bool {
	return m.CPU.Run
}

func (m *Machine) Error() bool {
	return m.CPU.Err
}

func (m *Machine) SetReg(reg Reg, val byte) {
	r := m.CPU.GetRegisters()
	switch reg {
	case G0:
		r.G0 = val
	case G1:
		r.G1 = val
	case G2:
		r.G2 = val
	case SP:
		r.SP = val
	case PC:
		r.PC = val
	default:
		log.Panicf("invalid register: %d", reg)
	}
}

func (m *Machine) GetReg(reg Reg) byte {
	r := m.CPU.GetRegisters()
	switch reg {
	case G0:
		return r.G0
	case G1:
		return r.G1
	case G2:
		return r.G2
	case SP:
		return r.SP
	case PC:
		return r.PC
	default:
		log.Panicf("invalid register: %d", reg)
		return 0
	}
}

func (m *Machine) SetFlg(flg Flg, val bool) {
	bit, ok := flgBits[flg]
	if !ok {
		log.Panicf("invalid flag: %d", flg)
	}
	m.CPU.GetRegisters().SetBool(bit, val)
}

func (m *Machine) GetFlg(flg Flg) bool {
	bit, ok := flgBits[flg]
	if !ok {
		log.Panicf("invalid flag: %d", flg)
	}
	return m.CPU.GetRegisters().GetBool(bit)
}

// SetMem pokes main memory. ROM stays read-only.
func (m *Machine) SetMem(addr, val byte) {
	m.CPU.WriteByte(memory.Pointer(addr), val)
}

func (m *Machine) GetMem(addr byte) byte {
	return m.CPU.ReadByte(memory.Pointer(addr))
}

func (m *Machine) SetDataSwitch(val byte) {
	m.Console.SetDataSwitch(val)
}

func (m *Machine) Buzzer() bool {
	return m.Console.Buzzer()
}

func (m *Machine) Speaker() bool {
	return m.Console.Speaker()
}

// RaiseConsoleInterrupt latches INT3, the console WRITE button.
func (m *Machine) RaiseConsoleInterrupt() {
	m.Console.RaiseInterrupt()
}

func (m *Machine) ReadParallel() byte {
	return m.PIO.ReadOutput()
}

func (m *Machine) ReadExtParallel() byte {
	return m.PIO.ReadExtOutput()
}

func (m *Machine) WriteParallel(val byte) {
	m.PIO.WriteInput(val)
}

func (m *Machine) WriteAnalog(pin int, val byte) {
	m.PIO.WriteAnalog(pin, val)
}

// SerialInFull reports whether the SIO receive buffer is occupied.
func (m *Machine) SerialInFull() bool {
	return m.SIO.RxFull()
}

func (m *Machine) TryWriteSerialIn(val byte) bool {
	return m.SIO.TryWriteIn(val)
}

func (m *Machine) TryReadSerialOut() (byte, bool) {
	return m.SIO.TryReadOut()
}
