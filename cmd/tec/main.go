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

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/i21yamazaki/TeCSimulatorForTCL/emulator"
	"github.com/i21yamazaki/TeCSimulatorForTCL/objfile"
	"github.com/i21yamazaki/TeCSimulatorForTCL/panel"
	"github.com/i21yamazaki/TeCSimulatorForTCL/printer"
	"github.com/i21yamazaki/TeCSimulatorForTCL/scenario"
	"github.com/i21yamazaki/TeCSimulatorForTCL/version"
)

var cli struct {
	Version   kong.VersionFlag `short:"v" help:"Print version information."`
	Panel     bool             `help:"Open the interactive front panel instead of reading a scenario."`
	Binary    string           `arg:"" help:"Machine code (<program>.bin)."`
	NameTable string           `arg:"" optional:"" help:"Name table (<program>.nt)."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("tec"),
		kong.Description("Event-driven TeC7 emulator and judge."),
		kong.Vars{"version": version.Current.FullString()},
	)

	fs := afero.NewOsFs()
	bin, err := objfile.ReadBinary(fs, cli.Binary)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	nt := objfile.NameTable{}
	if cli.NameTable != "" {
		if nt, err = objfile.ReadNameTable(fs, cli.NameTable); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	m := emulator.New()
	m.LoadProgram(bin.Start, bin.Size, bin.Code)

	if cli.Panel {
		if err := panel.Run(m); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// The whole scenario is parsed before anything runs, so a
	// malformed script never leaves the machine half-driven.
	events, err := scenario.NewParser(nt, os.Stderr).Parse(os.Stdin)
	if err != nil {
		os.Exit(1)
	}
	d := scenario.NewDriver(m, printer.New(os.Stdout), os.Stderr)
	if err := d.Execute(events); err != nil {
		os.Exit(1)
	}
}
