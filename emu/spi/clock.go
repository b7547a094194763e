/*
 * SPIMaster - Bus clock generator.
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

package spi

// Arm the free-running clock. The internal clock toggles every half
// period from controller start until shutdown.
func (ctl *Controller) startClock() {
	ctl.sched.AddEvent(ctl, ctl.clockToggle, int(ctl.sclkPeriod/2), evClock)
}

// One clock half edge. The period is read again at each re-arm, so a
// period change takes effect on the next half-cycle boundary, never on an
// in-flight half cycle.
func (ctl *Controller) clockToggle(_ int) {
	if ctl.stopped {
		return
	}
	ctl.busClock = !ctl.busClock
	ctl.onClockEdge()
	ctl.notifyEdge()
	ctl.sched.AddEvent(ctl, ctl.clockToggle, int(ctl.sclkPeriod/2), evClock)
}

// Wake clock-cycle waiters. Each toggle counts as one edge event.
func (ctl *Controller) notifyEdge() {
	kept := ctl.edgeWaiters[:0]
	for i := range ctl.edgeWaiters {
		w := ctl.edgeWaiters[i]
		w.remaining--
		if w.remaining <= 0 {
			ctl.reply(w.reply, Response{Count: ctl.doneCount})
		} else {
			kept = append(kept, w)
		}
	}
	ctl.edgeWaiters = kept
}
