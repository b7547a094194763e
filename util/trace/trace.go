/*
 * SPIMaster - Bus trace export.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Export recorded bus-line activity as Saleae Logic 2 binary digital
// capture files, one file per line, readable by Logic 2 itself and by
// the github.com/soypat/saleae package.
package trace

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/rcornwell/spimaster/emu/bus"
)

// Saleae binary export layout constants.
const (
	identifier  = "<SALEAE>"
	version     = 0
	typeDigital = 0
)

// Write one digital channel in Saleae binary export form: identifier,
// version, type, initial state, begin and end times in seconds, then the
// transition times.
func WriteDigital(w io.Writer, initial bool, begin, end float64, transitions []float64) error {
	if _, err := w.Write([]byte(identifier)); err != nil {
		return err
	}
	var initialState uint32
	if initial {
		initialState = 1
	}
	fields := []any{
		int32(version),
		int32(typeDigital),
		initialState,
		begin,
		end,
		uint64(len(transitions)),
	}
	for _, field := range fields {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, transitions)
}

// Nanoseconds of simulated time to capture seconds.
func seconds(ns uint64) float64 {
	return float64(ns) * 1e-9
}

// Write one bus line to a capture file.
func exportLine(name string, b *bus.Bus, line bus.Line, end uint64) error {
	fp, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("unable to create trace file %s: %w", name, err)
	}
	defer fp.Close()

	trans := b.Transitions(line)
	times := make([]float64, len(trans))
	for i, tr := range trans {
		times[i] = seconds(tr.Time)
	}
	return WriteDigital(fp, b.InitialLevel(line), seconds(b.RecordStart()), seconds(end), times)
}

// Export the recorded SCLK, CSEL and PICO activity to
// <prefix>_sclk.bin, <prefix>_csel.bin and <prefix>_pico.bin. end is
// the simulated time the capture finished.
func Export(prefix string, b *bus.Bus, end uint64) error {
	lines := []struct {
		suffix string
		line   bus.Line
	}{
		{"_sclk.bin", bus.SCLK},
		{"_csel.bin", bus.CSEL},
		{"_pico.bin", bus.PICO},
	}
	for _, l := range lines {
		if err := exportLine(prefix+l.suffix, b, l.line, end); err != nil {
			return err
		}
	}
	return nil
}
