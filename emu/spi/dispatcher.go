/*
 * SPIMaster - Command dispatcher.
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
	"fmt"
	"log/slog"
	"time"

	"github.com/rcornwell/spimaster/emu/bus"
)

// Dispatch consumes one command. Queries and configuration changes are
// handled within the current scheduler step; wait conditions register a
// waiter that replies when satisfied. A non-nil error is fatal: the
// caller is expected to report it and halt the run. The failed command's
// reply carries the same error so its sender is never left hanging.
func (ctl *Controller) Dispatch(cmd Command) error {
	switch cmd.Type {
	case CmdSend:
		ctl.send(cmd)

	case CmdWaitTransaction:
		if ctl.doneCount == ctl.requestCount {
			ctl.reply(cmd.Reply, Response{Count: ctl.doneCount})
			break
		}
		ctl.doneWaiters = append(ctl.doneWaiters, doneWaiter{target: ctl.requestCount, reply: cmd.Reply})

	case CmdWaitClockCycles:
		if cmd.Cycles <= 0 {
			ctl.reply(cmd.Reply, Response{Count: ctl.doneCount})
			break
		}
		// Contract is 3 edge events per requested cycle.
		ctl.edgeWaiters = append(ctl.edgeWaiters, edgeWaiter{remaining: 3 * cmd.Cycles, reply: cmd.Reply})

	case CmdGetControllerID:
		ctl.reply(cmd.Reply, Response{})

	case CmdGetTransactionCount:
		ctl.reply(cmd.Reply, Response{Count: ctl.doneCount})

	case CmdGetConfig:
		ctl.reply(cmd.Reply, Response{
			Count:  ctl.doneCount,
			Mode:   ctl.mode,
			Period: int64(ctl.sclkPeriod),
			Burst:  ctl.burst,
		})

	case CmdSetOption:
		err := ctl.setOption(cmd)
		ctl.reply(cmd.Reply, Response{Count: ctl.doneCount, Err: err})
		return err

	case CmdMultipleDriver:
		err := fmt.Errorf("%w: multiple drivers on controller %03x, sequence %d",
			ErrFatal, ctl.id, cmd.Seq)
		ctl.reply(cmd.Reply, Response{Err: err})
		return err

	default:
		label := cmd.Label
		if label == "" {
			label = fmt.Sprintf("command %d", int(cmd.Type))
		}
		err := fmt.Errorf("%w: controller %03x: unimplemented %s", ErrFatal, ctl.id, label)
		ctl.reply(cmd.Reply, Response{Err: err})
		return err
	}
	return nil
}

// Append a byte to the transmit queue. A blocking send replies once the
// done counter reaches this byte's own sequence position; a non-blocking
// send replies at once with the position assigned.
func (ctl *Controller) send(cmd Command) {
	ctl.queue = append(ctl.queue, cmd.Data)
	ctl.requestCount++
	slog.Debug(fmt.Sprintf("controller %03x: queued byte %02x, request %d",
		ctl.id, cmd.Data, ctl.requestCount))

	if cmd.Blocking {
		ctl.doneWaiters = append(ctl.doneWaiters, doneWaiter{target: ctl.requestCount, reply: cmd.Reply})
	} else {
		ctl.reply(cmd.Reply, Response{Count: ctl.requestCount})
	}
	ctl.kick()
}

// Commit one configuration option. All writes to configuration happen
// here, on the dispatcher's routine; the transfer engine only reads.
func (ctl *Controller) setOption(cmd Command) error {
	switch cmd.Option {
	case OptClockPeriod:
		period := time.Duration(cmd.Value)
		if period < MinClockPeriod || period > MaxClockPeriod {
			return fmt.Errorf("%w: controller %03x: clock period %v outside [%v, %v]",
				ErrFatal, ctl.id, period, MinClockPeriod, MaxClockPeriod)
		}
		ctl.sclkPeriod = period
		slog.Info(fmt.Sprintf("controller %03x: sclk period set to %v", ctl.id, period))

	case OptMode:
		if cmd.Value < 0 || cmd.Value > 3 {
			return fmt.Errorf("%w: controller %03x: spi mode %d outside [0, 3]",
				ErrFatal, ctl.id, cmd.Value)
		}
		ctl.mode = uint8(cmd.Value)
		// Polarity and phase always derive from the committed mode;
		// both change in the same step so no reader sees them torn.
		ctl.cpol, ctl.leadingEdge = modeParams(ctl.mode)
		if ctl.state == stateIdle {
			ctl.bus.Set(bus.SCLK, ctl.cpol)
		}
		slog.Info(fmt.Sprintf("controller %03x: spi mode set to %d", ctl.id, ctl.mode))

	case OptBurstEnable:
		ctl.burst = cmd.Value != 0

	default:
		return fmt.Errorf("%w: controller %03x: unrecognized option %d",
			ErrFatal, ctl.id, int(cmd.Option))
	}
	return nil
}
