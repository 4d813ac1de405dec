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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelOutput(t *testing.T) {
	d := &Device{}
	d.Out(PortData, 0xA5)
	assert.Equal(t, byte(0xA5), d.ReadOutput())
}

func TestExtendedOutputNeedsEnableBit(t *testing.T) {
	d := &Device{}
	d.Out(PortCtrl, 0x0F) // enable bit clear: ignored
	assert.Equal(t, byte(0), d.ReadExtOutput())

	d.Out(PortCtrl, CtrlExtEnable|0x3C)
	assert.Equal(t, byte(0x0C), d.ReadExtOutput())
}

func TestDigitalInputDrivesADC(t *testing.T) {
	d := &Device{}
	d.WriteInput(0b0101)

	assert.Equal(t, byte(0b0101), d.In(PortData))
	assert.Equal(t, HighLevel, d.In(PortADC0))
	assert.Equal(t, byte(0), d.In(PortADC0+1))
	assert.Equal(t, HighLevel, d.In(PortADC0+2))
	assert.Equal(t, byte(0), d.In(PortADC3))
}

func TestAnalogInputDrivesParallelBit(t *testing.T) {
	d := &Device{}

	// Exactly at the threshold reads LOW; one above reads HIGH.
	d.WriteAnalog(1, Threshold)
	assert.Equal(t, byte(0), d.In(PortData)&0b0010)
	assert.Equal(t, Threshold, d.In(PortADC0+1))

	d.WriteAnalog(1, Threshold+1)
	assert.Equal(t, byte(0b0010), d.In(PortData)&0b0010)

	// Dropping the channel clears the bit again.
	d.WriteAnalog(1, 0)
	assert.Equal(t, byte(0), d.In(PortData)&0b0010)
}

func TestADCWritesIgnored(t *testing.T) {
	d := &Device{}
	d.Out(PortADC0, 0x55)
	assert.Equal(t, byte(0), d.In(PortADC0))
}
