package event

/*
 * SPIMaster - Event scheduler
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

import (
	D "github.com/rcornwell/spimaster/emu/device"
)

type Callback = func(iarg int)

type Event struct {
	time int      // Nanoseconds until event, relative to previous entry
	dev  D.Device // Device event is registered to
	cb   Callback // Function to callback
	iarg int      // Integer argument
	prev *Event
	next *Event
}

// Scheduler holds pending events as a relative-delta list. Simulated time
// advances only inside Advance; all callbacks run on the caller's routine.
type Scheduler struct {
	head *Event
	tail *Event
	now  uint64 // Absolute simulated time in nanoseconds
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Current simulated time in nanoseconds.
func (sched *Scheduler) Time() uint64 {
	return sched.now
}

// Any events pending.
func (sched *Scheduler) AnyEvent() bool {
	return sched.head != nil
}

// Add an event
func (sched *Scheduler) AddEvent(dev D.Device, cb Callback, time int, iarg int) bool {
	// If time is 0 process event immediately
	if time == 0 {
		cb(iarg)
		return false
	}

	ev := &Event{dev: dev, cb: cb, time: time, iarg: iarg, next: nil, prev: nil}

	evptr := sched.head
	// If empty put on head
	if evptr == nil {
		sched.head = ev
		sched.tail = ev
		return false
	}

	// Scan for place to install it
	for evptr != nil {
		// Event before next event
		if ev.time <= evptr.time {
			// Remove current time from next time
			evptr.time -= ev.time
			ev.prev = evptr.prev
			ev.next = evptr
			evptr.prev = ev
			if ev.prev != nil {
				ev.prev.next = ev
			} else {
				sched.head = ev
			}
			// All done
			return false
		}
		// Make new event relative to head of list
		ev.time -= evptr.time
		evptr = evptr.next
	}

	// Get here, put it on tail of list
	ev.prev = sched.tail
	sched.tail.next = ev
	sched.tail = ev
	return false
}

func (sched *Scheduler) CancelEvent(dev D.Device, iarg int) {
	evptr := sched.head

	// Nothing in list, return
	if evptr == nil {
		return
	}

	// Scan list
	for evptr != nil {
		if evptr.dev == dev && evptr.iarg == iarg {
			nxt := evptr.next
			// If next event give time to next event
			if nxt != nil {
				nxt.time += evptr.time
				// Point next event to previous to current previous
				nxt.prev = evptr.prev
			} else {
				// No next event, point tail to prev
				sched.tail = evptr.prev
			}

			// Point previous event next to next
			if evptr.prev != nil {
				evptr.prev.next = evptr.next
			} else {
				// No previous, at head of list
				sched.head = evptr.next
			}
			evptr = nil
			return
		}
		evptr = evptr.next
	}
}

// Advance time by t nanoseconds. Events fire at their exact simulated
// time, so Time() is correct inside callbacks no matter how large t is.
func (sched *Scheduler) Advance(t int) {
	for {
		evptr := sched.head
		if evptr == nil {
			sched.now += uint64(t)
			return
		}
		if evptr.time > t {
			evptr.time -= t
			sched.now += uint64(t)
			return
		}
		// Step up to the head event and fire it.
		t -= evptr.time
		sched.now += uint64(evptr.time)
		evptr.time = 0
		sched.head = evptr.next
		if sched.head != nil {
			sched.head.prev = nil
		} else {
			sched.tail = nil
		}
		evptr.cb(evptr.iarg)
	}
}
