/*
 * SPIMaster - Bus line test cases.
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

package bus

import (
	"testing"
)

func TestInitialLevels(t *testing.T) {
	b := New(func() uint64 { return 0 })
	if !b.Level(CSEL) {
		t.Error("CSEL should idle de-asserted (high)")
	}
	if b.Level(SCLK) || b.Level(PICO) || b.Level(POCI) {
		t.Error("SCLK, PICO and POCI should idle low")
	}
}

func TestSetRecordsTransitions(t *testing.T) {
	now := uint64(0)
	b := New(func() uint64 { return now })
	b.StartRecording()

	now = 100
	b.Set(SCLK, true)
	now = 150
	b.Set(SCLK, true) // Same level, must not record.
	now = 200
	b.Set(SCLK, false)

	trans := b.Transitions(SCLK)
	if len(trans) != 2 {
		t.Fatalf("Expected 2 transitions got %d", len(trans))
	}
	if trans[0].Time != 100 || !trans[0].Level {
		t.Errorf("First transition wrong: %+v", trans[0])
	}
	if trans[1].Time != 200 || trans[1].Level {
		t.Errorf("Second transition wrong: %+v", trans[1])
	}
}

func TestRecordingInitialState(t *testing.T) {
	now := uint64(500)
	b := New(func() uint64 { return now })
	b.Set(PICO, true)
	b.StartRecording()
	if !b.InitialLevel(PICO) {
		t.Error("Initial PICO level not captured")
	}
	if b.RecordStart() != 500 {
		t.Errorf("Record start wrong, expected 500 got %d", b.RecordStart())
	}
	if len(b.Transitions(PICO)) != 0 {
		t.Error("Transitions before recording should be dropped")
	}
	b.StopRecording()
	now = 600
	b.Set(PICO, false)
	if len(b.Transitions(PICO)) != 0 {
		t.Error("Transitions after StopRecording should not record")
	}
}
