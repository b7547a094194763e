/*
 * SPIMaster - Transfer engine.
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

import (
	"github.com/rcornwell/spimaster/emu/bus"
)

// Start the next queued byte when the engine is idle. Called by the
// dispatcher on enqueue and by the engine after the inter-byte gap.
func (ctl *Controller) kick() {
	if ctl.state != stateIdle || len(ctl.queue) == 0 {
		return
	}
	ctl.dequeue()
	ctl.bus.Set(bus.CSEL, false)
	ctl.state = stateSelect
}

// Take the next byte off the queue head.
func (ctl *Controller) dequeue() {
	ctl.shift = ctl.queue[0]
	ctl.queue = ctl.queue[1:]
	ctl.bitIndex = 7
}

// Advance the transfer state machine on a clock half edge. The SCLK
// output mirrors the internal clock only while a byte is shifting; at all
// other times it holds the idle polarity.
func (ctl *Controller) onClockEdge() {
	switch ctl.state {
	case stateIdle, stateHold:
		// Lines hold steady.

	case stateSelect:
		// CSEL is asserted; the first bit cell begins on the next
		// leading edge, the transition away from the idle level.
		if ctl.busClock != ctl.cpol {
			if ctl.leadingEdge {
				ctl.driveBit()
			}
			ctl.bus.Set(bus.SCLK, ctl.busClock)
			ctl.state = stateShift
		}

	case stateShift:
		ctl.bus.Set(bus.SCLK, ctl.busClock)
		if ctl.busClock != ctl.cpol {
			// Leading half edge of a bit cell.
			if ctl.leadingEdge {
				ctl.driveBit()
			}
		} else {
			// Trailing half edge closes the bit cell.
			if !ctl.leadingEdge {
				ctl.driveBit()
			}
			ctl.bitIndex--
			if ctl.bitIndex < 0 {
				ctl.complete()
			}
		}
	}
}

// Put the current bit, MSB first, on the data-out line.
func (ctl *Controller) driveBit() {
	ctl.bus.Set(bus.PICO, ctl.shift&(1<<uint(ctl.bitIndex)) != 0)
}

// Byte finished: advance the done counter and decide how to continue.
// With burst mode on and more bytes queued, CSEL stays asserted and the
// next byte aligns to the next leading edge. Otherwise every byte is
// independently idled; a queued successor restarts after a half-period
// gap so the CSEL de-assertion is visible on the wire.
func (ctl *Controller) complete() {
	ctl.doneCount++
	ctl.notifyDone()

	if ctl.burst && len(ctl.queue) > 0 {
		ctl.dequeue()
		ctl.state = stateSelect
		return
	}

	if ctl.leadingEdge {
		ctl.finishByte()
		return
	}
	// Trailing-edge modes drive the last bit on the edge that closes
	// the byte; hold it half a period before releasing the lines.
	ctl.state = stateHold
	ctl.sched.AddEvent(ctl, func(_ int) { ctl.finishByte() }, int(ctl.sclkPeriod/2), evKick)
}

// Release the lines to idle and arm the restart when bytes are queued.
func (ctl *Controller) finishByte() {
	ctl.idle()
	if len(ctl.queue) > 0 {
		ctl.sched.AddEvent(ctl, func(_ int) { ctl.kick() }, int(ctl.sclkPeriod/2), evKick)
	}
}

// Wake blocking senders and transaction waiters whose target the done
// counter has reached.
func (ctl *Controller) notifyDone() {
	kept := ctl.doneWaiters[:0]
	for _, w := range ctl.doneWaiters {
		if ctl.doneCount >= w.target {
			ctl.reply(w.reply, Response{Count: ctl.doneCount})
		} else {
			kept = append(kept, w)
		}
	}
	ctl.doneWaiters = kept
}
