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

// Package panel is a terminal rendering of the TeC7 front panel:
// registers, flags, lamps and the data switches, with the serial
// output scrolling underneath. It drives the same Machine surface the
// scenario judge uses.
package panel

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell"

	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator"
	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator/processor"
)

const (
	frameInterval = time.Second / 60

	// statesPerFrame keeps the panel's virtual clock at roughly the
	// hardware rate.
	statesPerFrame = processor.StatesPerSec / 60

	serialTail = 72
)

// Run opens the panel and drives the machine until q or escape.
func Run(m *emulator.Machine) error {
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.HideCursor()

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	var serial []byte
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventKey:
				if e.Key() == tcell.KeyEscape {
					return nil
				}
				if e.Key() == tcell.KeyRune && !handleKey(m, e.Rune()) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			serial = clockFrame(m, serial)
			draw(screen, m, serial)
		}
	}
}

// handleKey applies one key press; it reports false on quit.
func handleKey(m *emulator.Machine, r rune) bool {
	switch r {
	case 'q', 'Q':
		return false
	case 'r', 'R':
		m.Run()
	case 's', 'S':
		m.Stop()
	case 't', 'T':
		m.Reset()
	case 'w', 'W':
		m.RaiseConsoleInterrupt()
	default:
		if '0' <= r && r <= '7' {
			bit := byte(1) << (r - '0')
			m.SetDataSwitch(m.Console.DataSwitch() ^ bit)
		}
	}
	return true
}

// clockFrame advances the machine one frame's worth of states in
// serial-byte quanta, draining the transmit buffer at the hardware's
// own byte rate.
func clockFrame(m *emulator.Machine, serial []byte) []byte {
	for q := 0; q < statesPerFrame/processor.SerialUnitStates; q++ {
		if !m.Running() {
			break
		}
		m.ClockUnit()
		if b, ok := m.TryReadSerialOut(); ok {
			serial = append(serial, b)
		}
	}
	if len(serial) > serialTail {
		serial = serial[len(serial)-serialTail:]
	}
	return serial
}

func draw(s tcell.Screen, m *emulator.Machine, serial []byte) {
	s.Clear()

	title := tcell.StyleDefault.Bold(true)
	plain := tcell.StyleDefault
	lampOn := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	lampOff := tcell.StyleDefault.Foreground(tcell.ColorGray)

	drawText(s, 1, 0, title, "TeC7 front panel")

	drawText(s, 1, 2, plain, fmt.Sprintf("G0: %03XH  G1: %03XH  G2: %03XH  SP: %03XH  PC: %03XH",
		m.GetReg(emulator.G0), m.GetReg(emulator.G1), m.GetReg(emulator.G2),
		m.GetReg(emulator.SP), m.GetReg(emulator.PC)))

	drawText(s, 1, 3, plain, fmt.Sprintf("C: %d  S: %d  Z: %d",
		lampBit(m.GetFlg(emulator.FlgC)), lampBit(m.GetFlg(emulator.FlgS)),
		lampBit(m.GetFlg(emulator.FlgZ))))

	drawLamp(s, 1, 5, lampOn, lampOff, "RUN", m.Running())
	drawLamp(s, 9, 5, lampOn, lampOff, "ERR", m.Error())
	drawLamp(s, 17, 5, lampOn, lampOff, "BUZ", m.Buzzer())
	drawLamp(s, 25, 5, lampOn, lampOff, "SPK", m.Speaker())

	drawText(s, 1, 7, plain, fmt.Sprintf("DATA-SW:  %08b", m.Console.DataSwitch()))
	drawText(s, 1, 8, plain, fmt.Sprintf("PARALLEL: %08b  EXT: %04b",
		m.ReadParallel(), m.ReadExtParallel()))

	drawText(s, 1, 10, plain, "SERIAL: "+printable(serial))

	drawText(s, 1, 12, lampOff, "keys: 0-7 toggle switches  r run  s stop  t reset  w write  q quit")

	s.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func drawLamp(s tcell.Screen, x, y int, on, off tcell.Style, name string, lit bool) {
	style := off
	if lit {
		style = on
	}
	drawText(s, x, y, style, "("+name+")")
}

func lampBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func printable(serial []byte) string {
	out := make([]rune, 0, len(serial))
	for _, b := range serial {
		if 0x20 <= b && b < 0x7F {
			out = append(out, rune(b))
		} else {
			out = append(out, '.')
		}
	}
	return string(out)
}
