/*
 * SPIMaster - Bus line signals.
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

// Logical bus lines driven or sampled by the controller.
type Line int

const (
	SCLK Line = iota // Bus clock, output.
	CSEL             // Chip select, output, active low.
	PICO             // Data out, output.
	POCI             // Data in, input, driven by the peer side.

	numLines
)

func (l Line) String() string {
	switch l {
	case SCLK:
		return "SCLK"
	case CSEL:
		return "CSEL"
	case PICO:
		return "PICO"
	case POCI:
		return "POCI"
	}
	return "?"
}

// One recorded level change on a line.
type Transition struct {
	Time  uint64 // Simulated time in nanoseconds.
	Level bool
}

// Bus holds the current level of each line and, when recording, the
// transition history used for trace export. All access happens on the
// simulation routine.
type Bus struct {
	now       func() uint64
	level     [numLines]bool
	recording bool
	start     uint64
	initial   [numLines]bool
	trans     [numLines][]Transition
}

// Create bus with all lines at their idle levels. now supplies the
// current simulated time for transition timestamps.
func New(now func() uint64) *Bus {
	b := &Bus{now: now}
	b.level[CSEL] = true // De-asserted, active low.
	return b
}

// Current level of a line.
func (b *Bus) Level(l Line) bool {
	return b.level[l]
}

// Commit a new level to a line. Writing the current level is a no-op so
// the transition history never holds duplicates.
func (b *Bus) Set(l Line, v bool) {
	if b.level[l] == v {
		return
	}
	b.level[l] = v
	if b.recording {
		b.trans[l] = append(b.trans[l], Transition{Time: b.now(), Level: v})
	}
}

// Begin recording transitions. Current levels become the initial state of
// the capture.
func (b *Bus) StartRecording() {
	b.recording = true
	b.start = b.now()
	b.initial = b.level
	for l := range b.trans {
		b.trans[l] = nil
	}
}

// Stop recording transitions.
func (b *Bus) StopRecording() {
	b.recording = false
}

// Time recording began, in nanoseconds.
func (b *Bus) RecordStart() uint64 {
	return b.start
}

// Level of line when recording began.
func (b *Bus) InitialLevel(l Line) bool {
	return b.initial[l]
}

// Recorded transitions for a line.
func (b *Bus) Transitions(l Line) []Transition {
	return b.trans[l]
}
