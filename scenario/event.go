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

package scenario

import (
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator"
	"github.com/i21yamazaki/TeCSimulatorForTCL/printer"
)

// Event is one step of a test scenario. Events carry data only; the
// Driver interprets them strictly in order.
type Event interface {
	event()
}

// Machine control.

type RunEvent struct{}

type StopEvent struct{}

type ResetEvent struct{}

// Waits. WaitStates covers $WAIT STATES/MS/SEC, already converted to
// states by the parser.

type WaitStopEvent struct{}

type WaitStatesEvent struct {
	States uint64
}

type WaitSerialEvent struct{}

// External inputs.

type SetRegEvent struct {
	Reg   emulator.Reg
	Value byte
}

type SetFlgEvent struct {
	Flg   emulator.Flg
	Value bool
}

type SetMemEvent struct {
	Addr, Value byte
}

type SetDataSwitchEvent struct {
	Value byte
}

type SerialEvent struct {
	Data []byte
}

// WriteEvent is the console WRITE button: it raises INT3.
type WriteEvent struct{}

type AnalogEvent struct {
	Pin   int
	Value byte
}

type ParallelEvent struct {
	Value byte
}

// Output control and sampling.

type SetSerialModeEvent struct {
	Mode printer.Mode
}

type SetPrintModeEvent struct {
	Mode printer.Mode
}

type PrintRegEvent struct {
	Reg emulator.Reg
}

type PrintFlgEvent struct {
	Flg emulator.Flg
}

type PrintMemEvent struct {
	Addr byte
}

type PrintParallelEvent struct{}

type PrintExtParallelEvent struct{}

type PrintBuzEvent struct{}

type PrintSpkEvent struct{}

type PrintRunEvent struct{}

func (RunEvent) event()           {}
func (StopEvent) event()          {}
func (ResetEvent) event()         {}
func (WaitStopEvent) event()      {}
func (WaitStatesEvent) event()    {}
func (WaitSerialEvent) event()    {}
func (SetRegEvent) event()        {}
func (SetFlgEvent) event()        {}
func (SetMemEvent) event()        {}
func (SetDataSwitchEvent) event() {}
func (SerialEvent) event()        {}
func (WriteEvent) event()         {}
func (AnalogEvent) event()        {}
func (ParallelEvent) event()      {}
func (SetSerialModeEvent) event() {}
func (SetPrintModeEvent) event()  {}
func (PrintRegEvent) event()      {}
func (PrintFlgEvent) event()      {}
func (PrintMemEvent) event()      {}
func (PrintParallelEvent) event() {}
func (PrintExtParallelEvent) event() {}
func (PrintBuzEvent) event()      {}
func (PrintSpkEvent) event()      {}
func (PrintRunEvent) event()      {}
