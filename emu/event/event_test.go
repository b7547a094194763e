/*
 * SPIMaster - Event scheduler test cases.
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

package event

import (
	"testing"
)

type device struct {
	sched *Scheduler
	chain *device
	iarg  int
	time  uint64
}

// Callbacks, save simulated time and set argument to iarg.
func (d *device) callback(iarg int) {
	d.iarg = iarg
	d.time = d.sched.Time()
}

// Callback that schedules a followup event of the same delay on chain.
func (d *device) chainCallback(iarg int) {
	d.iarg = iarg
	d.time = d.sched.Time()
	d.sched.AddEvent(d.chain, d.chain.callback, iarg, iarg)
}

func (d *device) InitDev() error {
	return nil
}

func (d *device) Shutdown() {
}

// Initialize for each test.
func initTest() (*Scheduler, *device, *device, *device) {
	sched := NewScheduler()
	devA := &device{sched: sched}
	devB := &device{sched: sched}
	devC := &device{sched: sched}
	return sched, devA, devB, devC
}

func TestAddEvent1(t *testing.T) {
	sched, devA, _, _ := initTest()
	sched.AddEvent(devA, devA.callback, 10, 1)
	for n := 0; n < 20; n++ {
		sched.Advance(1)
	}
	if devA.time != 10 {
		t.Errorf("Event did not fire at correct time %d got %d", 10, devA.time)
	}
	if devA.iarg != 1 {
		t.Errorf("Event did not set data correct %d got %d", 1, devA.iarg)
	}
}

// Add two events.
func TestAddEvent2(t *testing.T) {
	sched, devA, devB, _ := initTest()
	sched.AddEvent(devA, devA.callback, 10, 1)
	sched.AddEvent(devB, devB.callback, 5, 2)
	for n := 0; n < 20; n++ {
		sched.Advance(1)
	}
	if devA.time != 10 {
		t.Errorf("Event A did not fire at correct time %d got %d", 10, devA.time)
	}
	if devA.iarg != 1 {
		t.Errorf("Event A did not set data correct %d got %d", 1, devA.iarg)
	}
	if devB.time != 5 {
		t.Errorf("Event B did not fire at correct time %d got %d", 5, devB.time)
	}
	if devB.iarg != 2 {
		t.Errorf("Event B did not set data correct %d got %d", 2, devB.iarg)
	}
}

// Add event with same time.
func TestAddEvent3(t *testing.T) {
	sched, devA, devB, _ := initTest()
	sched.AddEvent(devA, devA.callback, 10, 1)
	sched.AddEvent(devB, devB.callback, 10, 2)
	for n := 0; n < 20; n++ {
		sched.Advance(1)
	}
	if devA.time != 10 {
		t.Errorf("Event A did not fire at correct time %d got %d", 10, devA.time)
	}
	if devB.time != 10 {
		t.Errorf("Event B did not fire at correct time %d got %d", 10, devB.time)
	}
}

// Add event during event.
func TestAddEvent4(t *testing.T) {
	sched, devA, devB, devC := initTest()
	devC.chain = devB
	sched.AddEvent(devA, devA.callback, 30, 5)
	sched.AddEvent(devC, devC.chainCallback, 10, 10)
	for n := 0; n < 40; n++ {
		sched.Advance(1)
	}
	if devC.time != 10 {
		t.Errorf("Event C did not fire at correct time %d got %d", 10, devC.time)
	}
	// Chained event fires 10 after the first.
	if devB.time != 20 {
		t.Errorf("Chained event did not fire at correct time %d got %d", 20, devB.time)
	}
	if devA.time != 30 {
		t.Errorf("Event A did not fire at correct time %d got %d", 30, devA.time)
	}
}

// Events fire at exact time even when advancing in large steps.
func TestAdvanceCoarse(t *testing.T) {
	sched, devA, devB, _ := initTest()
	sched.AddEvent(devA, devA.callback, 7, 1)
	sched.AddEvent(devB, devB.callback, 19, 2)
	sched.Advance(100)
	if devA.time != 7 {
		t.Errorf("Event A did not fire at correct time %d got %d", 7, devA.time)
	}
	if devB.time != 19 {
		t.Errorf("Event B did not fire at correct time %d got %d", 19, devB.time)
	}
	if sched.Time() != 100 {
		t.Errorf("Scheduler time incorrect %d got %d", 100, sched.Time())
	}
}

// Cancel an event before it fires.
func TestCancelEvent(t *testing.T) {
	sched, devA, devB, _ := initTest()
	sched.AddEvent(devA, devA.callback, 10, 1)
	sched.AddEvent(devB, devB.callback, 15, 2)
	sched.CancelEvent(devA, 1)
	for n := 0; n < 20; n++ {
		sched.Advance(1)
	}
	if devA.iarg != 0 {
		t.Errorf("Cancelled event fired %d", devA.iarg)
	}
	if devB.time != 15 {
		t.Errorf("Event B did not fire at correct time %d got %d", 15, devB.time)
	}
}

// Zero delay events process immediately.
func TestImmediateEvent(t *testing.T) {
	sched, devA, _, _ := initTest()
	sched.AddEvent(devA, devA.callback, 0, 7)
	if devA.iarg != 7 {
		t.Errorf("Immediate event did not fire, got %d", devA.iarg)
	}
	if sched.AnyEvent() {
		t.Error("Immediate event left entry on queue")
	}
}
