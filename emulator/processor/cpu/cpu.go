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
	"errors"
	"log"

	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/memory"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/peripheral"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

const MaxPeripherals = 16

type CPU struct {
	processor.Registers

	peripherals []peripheral.Peripheral
	pic         processor.InterruptController

	iomap         [memory.NumPorts]byte
	ioPeripherals [MaxPeripherals]memory.IO

	mmap           [memory.Size]byte
	memPeripherals [MaxPeripherals]memory.Memory
}

func NewCPU(peripherals []peripheral.Peripheral) *CPU {
	p := &CPU{peripherals: peripherals}

	dummyIO := &memory.DummyIO{}
	for i := range p.ioPeripherals[:] {
		p.ioPeripherals[i] = dummyIO
	}

	dummyMem := &memory.DummyMemory{}
	for i := range p.memPeripherals[:] {
		p.memPeripherals[i] = dummyMem
	}

	for i := 1; i <= len(peripherals); i++ {
		if dev, ok := peripherals[i-1].(memory.IO); ok {
			p.ioPeripherals[i] = dev
		}
		if dev, ok := peripherals[i-1].(memory.Memory); ok {
			p.memPeripherals[i] = dev
		}
	}

	p.installPeripherals()
	return p
}

func (p *CPU) installPeripherals() {
	for _, d := range p.peripherals {
		if pic, ok := d.(processor.InterruptController); ok {
			p.pic = pic
		}
	}
	if p.pic == nil {
		log.Print("No interrupt controller detected!")
	}
	for _, d := range p.peripherals {
		if err := d.Install(p); err != nil {
			log.Print("Failed to install peripheral: ", err)
		}
	}
}

func (p *CPU) GetInterruptController() processor.InterruptController {
	return p.pic
}

// Reset implements the console RESET button: registers, RUN and ERR go
// back to zero and each peripheral gets its own say. Main memory and
// the condition flags are left alone, like the hardware.
func (p *CPU) Reset() {
	p.Registers.Reset()
	for _, d := range p.peripherals {
		d.Reset()
	}
}

func (p *CPU) GetMappedMemoryDevice(addr memory.Pointer) memory.Memory {
	return p.memPeripherals[p.mmap[addr]]
}

func (p *CPU) GetMappedIODevice(port byte) memory.IO {
	return p.ioPeripherals[p.iomap[port]]
}

func (p *CPU) GetRegisters() *processor.Registers {
	return &p.Registers
}

func (p *CPU) ReadByte(addr memory.Pointer) byte {
	return p.GetMappedMemoryDevice(addr).ReadByte(addr)
}

func (p *CPU) WriteByte(addr memory.Pointer, data byte) {
	p.GetMappedMemoryDevice(addr).WriteByte(addr, data)
}

func (p *CPU) InByte(port byte) byte {
	return p.GetMappedIODevice(port).In(port)
}

func (p *CPU) OutByte(port byte, data byte) {
	p.GetMappedIODevice(port).Out(port, data)
}

func (p *CPU) InstallMemoryDevice(device memory.Memory, from, to memory.Pointer) error {
	for i, d := range p.memPeripherals[:] {
		if d == device {
			for {
				p.mmap[from] = byte(i)
				if from == to {
					return nil
				}
				from++
			}
		}
	}
	return errors.New("could not find peripheral")
}

func (p *CPU) InstallIODevice(device memory.IO, from, to byte) error {
	if int(to) >= memory.NumPorts {
		return errors.New("port out of range")
	}
	for i, d := range p.ioPeripherals[:] {
		if d == device {
			for ; from <= to; from++ {
				p.iomap[from] = byte(i)
			}
			return nil
		}
	}
	return errors.New("could not find peripheral")
}

// Clock raises RUN and executes instructions until at least maxStates
// states have elapsed or the machine stops. The last instruction runs
// to completion, so the budget can be exceeded by a few states.
func (p *CPU) Clock(maxStates uint64) uint64 {
	var states uint64
	p.Run = true
	for {
		n, err := p.Step()
		if err != nil {
			return states
		}
		states += uint64(n)
		if states >= maxStates || !p.Run {
			return states
		}
	}
}
