/*
   Core simulation loop for the SPI bus-master controller.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/spimaster/emu/bus"
	"github.com/rcornwell/spimaster/emu/event"
	"github.com/rcornwell/spimaster/emu/master"
	"github.com/rcornwell/spimaster/emu/spi"
)

// Simulated nanoseconds advanced per loop iteration while running.
const advanceStep = 1000

type Core struct {
	wg       sync.WaitGroup
	done     chan struct{} // Signal to shutdown simulator.
	halted   chan struct{} // Closed when the run ends for any reason.
	running  bool          // Indicate when simulator should run or not.
	sessions int           // Active remote control sessions.
	trace    string        // Capture file prefix, empty when not tracing.
	err      error         // Fatal error that ended the run, if any.

	Master chan master.Packet
	sched  *event.Scheduler
	bus    *bus.Bus
	ctl    *spi.Controller
}

// Create simulation core around a controller.
func New(masterChannel chan master.Packet, sched *event.Scheduler, b *bus.Bus, ctl *spi.Controller) *Core {
	return &Core{
		Master: masterChannel,
		sched:  sched,
		bus:    b,
		ctl:    ctl,
		done:   make(chan struct{}),
		halted: make(chan struct{}),
	}
}

// Run the simulation. Advances the scheduler while running and drains
// the master channel between steps. Returns when shut down or on a
// fatal dispatcher error.
func (core *Core) Start() {
	core.wg.Add(1)
	defer core.wg.Done()
	defer close(core.halted)

	if err := core.ctl.InitDev(); err != nil {
		core.err = err
		slog.Error(err.Error())
		return
	}

	for {
		if core.running {
			core.sched.Advance(advanceStep)
		}
		select {
		case <-core.done:
			core.ctl.Shutdown()
			return
		case packet := <-core.Master:
			if err := core.processPacket(packet); err != nil {
				core.err = err
				slog.Error(err.Error())
				core.ctl.Shutdown()
				return
			}
		default:
		}
	}
}

// Stop a running simulation.
func (core *Core) Stop() {
	slog.Info("Shutting down controller")
	close(core.done)
	done := make(chan struct{})
	go func() {
		core.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for controller to finish.")
		return
	}
}

// Closed once the run has ended, whether by Stop or a fatal error.
func (core *Core) Halted() <-chan struct{} {
	return core.halted
}

// Fatal error that ended the run, nil after an orderly stop.
func (core *Core) Err() error {
	return core.err
}

// Send a command to the controller and wait for its reply. This is the
// caller side of the command port: the reply channel is the acknowledge.
func (core *Core) SendCommand(cmd spi.Command) spi.Response {
	cmd.Reply = make(chan spi.Response, 1)
	select {
	case core.Master <- master.Packet{Msg: master.Cmd, Cmd: cmd}:
	case <-core.halted:
		return spi.Response{Err: core.err}
	}
	select {
	case resp := <-cmd.Reply:
		return resp
	case <-core.halted:
		return spi.Response{Err: core.err}
	}
}

// Begin advancing simulated time.
func (core *Core) SendStart() {
	core.Master <- master.Packet{Msg: master.Start}
}

// Pause simulated time.
func (core *Core) SendStop() {
	core.Master <- master.Packet{Msg: master.Stop}
}

// Register a remote control session.
func (core *Core) SendConnect(session int) {
	select {
	case core.Master <- master.Packet{Msg: master.CtlConnect, Session: session}:
	case <-core.halted:
	}
}

// Release a remote control session.
func (core *Core) SendDisconnect(session int) {
	select {
	case core.Master <- master.Packet{Msg: master.CtlDisconnect, Session: session}:
	case <-core.halted:
	}
}

// Begin recording bus activity for export under the given file prefix.
func (core *Core) SendTrace(prefix string) {
	select {
	case core.Master <- master.Packet{Msg: master.Trace, Prefix: prefix}:
	case <-core.halted:
	}
}

// Capture file prefix, empty when tracing was never enabled. Only
// meaningful once the run has halted.
func (core *Core) TracePrefix() string {
	return core.trace
}

// Current simulated time in nanoseconds. Only meaningful once the run
// has halted.
func (core *Core) Now() uint64 {
	return core.sched.Time()
}

// Process a packet sent to the simulation.
func (core *Core) processPacket(packet master.Packet) error {
	switch packet.Msg {
	case master.Cmd:
		return core.ctl.Dispatch(packet.Cmd)
	case master.CtlConnect:
		core.sessions++
		if core.sessions > 1 {
			// Two concurrent command streams: the single-writer
			// invariant is the caller's to keep, not ours to fix.
			return core.ctl.Dispatch(spi.Command{Type: spi.CmdMultipleDriver, Seq: packet.Session})
		}
	case master.CtlDisconnect:
		if core.sessions > 0 {
			core.sessions--
		}
	case master.Trace:
		core.trace = packet.Prefix
		core.bus.StartRecording()
		slog.Info("Recording bus activity to " + packet.Prefix)
	case master.Start:
		core.running = true
	case master.Stop:
		core.running = false
	}
	return nil
}
