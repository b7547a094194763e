/*
 * SPIMaster - SPI bus-master controller.
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
	"errors"
	"time"

	"github.com/rcornwell/spimaster/emu/bus"
	"github.com/rcornwell/spimaster/emu/event"
)

// SCLK period limits of the supported frequency band.
const (
	MinClockPeriod     = 40 * time.Nanosecond
	MaxClockPeriod     = time.Millisecond
	DefaultClockPeriod = time.Microsecond
)

// Unrecoverable controller error. The simulation core reports it and
// halts the run; nothing below the core attempts recovery.
var ErrFatal = errors.New("controller fatal")

// Transfer engine states.
type xferState int

const (
	stateIdle   xferState = iota // No transfer, lines at idle levels.
	stateSelect                  // CSEL asserted, aligning to a leading edge.
	stateShift                   // Shifting bits 7 down to 0.
	stateHold                    // Last bit held before lines release.
)

// Event arguments used to identify scheduler entries for cancellation.
const (
	evClock = iota // Free running clock toggle.
	evKick         // Restart after the inter-byte gap.
)

// Waiter for the done counter to reach a target.
type doneWaiter struct {
	target uint64
	reply  chan Response
}

// Waiter for a number of clock edge events.
type edgeWaiter struct {
	remaining int
	reply     chan Response
}

// Controller is the bus-master engine. The dispatcher half consumes
// commands and owns the queue tail and configuration; the transfer half
// consumes the queue head and owns the bus outputs and the done counter.
// Both halves run on the single simulation routine, so the split needs
// no locks, only the single-writer convention.
type Controller struct {
	id    uint16
	sched *event.Scheduler
	bus   *bus.Bus

	// Configuration, written only by the dispatcher.
	sclkPeriod  time.Duration
	mode        uint8
	cpol        bool
	leadingEdge bool
	burst       bool

	// Transmit queue, strictly FIFO.
	queue []byte

	// Monotonic counters. doneCount <= requestCount always; equality
	// means the bus is idle. receiveCount belongs to the peer side and
	// is never written here.
	requestCount uint64
	doneCount    uint64
	receiveCount uint64

	doneWaiters []doneWaiter
	edgeWaiters []edgeWaiter

	// Transfer engine state.
	busClock bool // Internal free-running clock level.
	state    xferState
	shift    byte
	bitIndex int

	stopped bool
}

// Create a controller on the given scheduler and bus. The identity is
// fixed for the life of the engine.
func NewController(id uint16, sched *event.Scheduler, b *bus.Bus) *Controller {
	ctl := &Controller{
		id:         id,
		sched:      sched,
		bus:        b,
		sclkPeriod: DefaultClockPeriod,
	}
	ctl.cpol, ctl.leadingEdge = modeParams(ctl.mode)
	return ctl
}

// Start the controller: force idle line levels and arm the clock.
func (ctl *Controller) InitDev() error {
	ctl.stopped = false
	ctl.idle()
	ctl.startClock()
	return nil
}

// Stop the controller. Pending scheduler entries are cancelled; queued
// bytes are kept so a restart resumes where it left off.
func (ctl *Controller) Shutdown() {
	ctl.stopped = true
	ctl.sched.CancelEvent(ctl, evClock)
	ctl.sched.CancelEvent(ctl, evKick)
}

// Controller identity, assigned once at creation.
func (ctl *Controller) ID() uint16 {
	return ctl.id
}

// Number of completed transfers.
func (ctl *Controller) TransactionCount() uint64 {
	return ctl.doneCount
}

// Number of requested transfers.
func (ctl *Controller) RequestCount() uint64 {
	return ctl.requestCount
}

// Bytes queued but not yet started.
func (ctl *Controller) QueueDepth() int {
	return len(ctl.queue)
}

// Current SCLK period.
func (ctl *Controller) ClockPeriod() time.Duration {
	return ctl.sclkPeriod
}

// Current SPI mode.
func (ctl *Controller) Mode() uint8 {
	return ctl.mode
}

// Burst mode enabled.
func (ctl *Controller) BurstEnabled() bool {
	return ctl.burst
}

// Drive all output lines to their idle levels.
func (ctl *Controller) idle() {
	ctl.state = stateIdle
	ctl.bus.Set(bus.CSEL, true)
	ctl.bus.Set(bus.SCLK, ctl.cpol)
	ctl.bus.Set(bus.PICO, false)
}

// Deliver a response without blocking the simulation routine. Reply
// channels are buffered by the command source.
func (ctl *Controller) reply(ch chan Response, r Response) {
	if ch != nil {
		r.ID = ctl.id
		ch <- r
	}
}
