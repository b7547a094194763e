/*
 * SPIMaster - Bus trace export test cases.
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

package trace

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcornwell/spimaster/emu/bus"
)

func TestWriteDigital(t *testing.T) {
	var buf bytes.Buffer
	trans := []float64{1e-6, 2e-6, 3e-6}
	if err := WriteDigital(&buf, true, 0, 5e-6, trans); err != nil {
		t.Fatal(err)
	}

	raw := buf.Bytes()
	if string(raw[:8]) != "<SALEAE>" {
		t.Fatalf("Bad identifier %q", raw[:8])
	}
	if v := int32(binary.LittleEndian.Uint32(raw[8:])); v != 0 {
		t.Errorf("Version expected 0 got %d", v)
	}
	if ty := int32(binary.LittleEndian.Uint32(raw[12:])); ty != 0 {
		t.Errorf("Type expected digital (0) got %d", ty)
	}
	if st := binary.LittleEndian.Uint32(raw[16:]); st != 1 {
		t.Errorf("Initial state expected 1 got %d", st)
	}
	end := math.Float64frombits(binary.LittleEndian.Uint64(raw[28:]))
	if end != 5e-6 {
		t.Errorf("End time expected 5e-6 got %g", end)
	}
	if n := binary.LittleEndian.Uint64(raw[36:]); n != 3 {
		t.Errorf("Transition count expected 3 got %d", n)
	}
	first := math.Float64frombits(binary.LittleEndian.Uint64(raw[44:]))
	if first != 1e-6 {
		t.Errorf("First transition expected 1e-6 got %g", first)
	}
	if len(raw) != 44+3*8 {
		t.Errorf("File length expected %d got %d", 44+3*8, len(raw))
	}
}

func TestExport(t *testing.T) {
	now := uint64(0)
	b := bus.New(func() uint64 { return now })
	b.StartRecording()
	now = 1000
	b.Set(bus.SCLK, true)
	now = 1500
	b.Set(bus.SCLK, false)
	now = 2000
	b.Set(bus.PICO, true)

	prefix := filepath.Join(t.TempDir(), "capture")
	if err := Export(prefix, b, 3000); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"_sclk.bin", "_csel.bin", "_pico.bin"} {
		raw, err := os.ReadFile(prefix + name)
		if err != nil {
			t.Fatal(err)
		}
		if string(raw[:8]) != "<SALEAE>" {
			t.Errorf("%s: bad identifier", name)
		}
	}

	raw, _ := os.ReadFile(prefix + "_sclk.bin")
	if n := binary.LittleEndian.Uint64(raw[36:]); n != 2 {
		t.Errorf("SCLK transition count expected 2 got %d", n)
	}
	raw, _ = os.ReadFile(prefix + "_csel.bin")
	if n := binary.LittleEndian.Uint64(raw[36:]); n != 0 {
		t.Errorf("CSEL transition count expected 0 got %d", n)
	}
	if st := binary.LittleEndian.Uint32(raw[16:]); st != 1 {
		t.Errorf("CSEL initial state expected high got %d", st)
	}
}
