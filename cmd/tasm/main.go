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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/i21yamazaki/TeCSimulatorForTCL/assembler"
	"github.com/i21yamazaki/TeCSimulatorForTCL/objfile"
	"github.com/i21yamazaki/TeCSimulatorForTCL/version"
)

var cli struct {
	Version kong.VersionFlag `short:"v" help:"Print version information."`
	Source  string           `arg:"" help:"Assembly source (<program>.t7)."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("tasm"),
		kong.Description("Two-pass assembler for the TeC7."),
		kong.Vars{"version": version.Current.FullString()},
	)
	if err := run(afero.NewOsFs(), cli.Source, os.Stderr); err != nil {
		// Assembly diagnostics are already on stderr.
		if !errors.Is(err, assembler.ErrAssembly) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(fs afero.Fs, path string, stderr io.Writer) error {
	suffix := "." + objfile.ExtSource
	if !strings.HasSuffix(path, suffix) {
		return fmt.Errorf("拡張子は、%q である必要があります。", objfile.ExtSource)
	}
	stem := strings.TrimSuffix(path, suffix)

	src, err := fs.Open(path)
	if err != nil {
		return fmt.Errorf("ファイルが開けませんでした。(パス: %q)", path)
	}
	defer src.Close()

	a, err := assembler.New(src, stderr)
	if err != nil {
		return err
	}
	bin, nt, err := a.Assemble()
	if err != nil {
		return err
	}
	if err := objfile.WriteBinary(fs, stem+"."+objfile.ExtBinary, bin); err != nil {
		return err
	}
	return objfile.WriteNameTable(fs, stem+"."+objfile.ExtNameTable, nt)
}
