/*
 * SPIMaster - Command executer.
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

package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	core "github.com/rcornwell/spimaster/emu/core"
	"github.com/rcornwell/spimaster/emu/spi"
)

var cmdList = []cmd{
	{Name: "send", Min: 3, Process: send},
	{Name: "set", Min: 3, Process: set, Complete: setComplete},
	{Name: "show", Min: 2, Process: show, Complete: showComplete},
	{Name: "wait", Min: 1, Process: wait},
	{Name: "cycles", Min: 2, Process: cycles},
	{Name: "trace", Min: 2, Process: traceCmd},
	{Name: "start", Min: 3, Process: start},
	{Name: "stop", Min: 3, Process: stop},
	{Name: "quit", Min: 4, Process: quit},
}

// Queue bytes for transfer: send <hex byte>... [wait].
func send(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Send")

	var data []byte
	blocking := false
	for {
		line.skipSpace()
		if line.isEOL() {
			break
		}
		value, err := line.getHex()
		if err != nil {
			word := line.getWord(false)
			if word != "wait" {
				return false, errors.New("send expects hex bytes: " + word)
			}
			blocking = true
			break
		}
		if value > 0xff {
			return false, fmt.Errorf("byte value %x too large", value)
		}
		data = append(data, byte(value))
	}

	if len(data) == 0 {
		return false, errors.New("no bytes given to send command")
	}

	for i, by := range data {
		cmd := spi.Command{Type: spi.CmdSend, Data: by}
		if blocking && i == len(data)-1 {
			cmd.Blocking = true
		}
		resp := core.SendCommand(cmd)
		if resp.Err != nil {
			return false, resp.Err
		}
		if cmd.Blocking {
			fmt.Fprintf(line.out, "transactions complete: %d\n", resp.Count)
		}
	}
	return false, nil
}

// Handle set commands: set mode=<0-3> period=<duration> burst=<on|off>.
func set(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Set")

	count := 0
	for {
		line.skipSpace()
		if line.isEOL() {
			break
		}
		name := line.getWord(true)
		value := line.getWord(false)
		cmd := spi.Command{Type: spi.CmdSetOption}
		switch name {
		case "mode":
			mode, err := line.parseMode(value)
			if err != nil {
				return false, err
			}
			cmd.Option = spi.OptMode
			cmd.Value = mode

		case "period":
			period, err := time.ParseDuration(value)
			if err != nil {
				return false, errors.New("invalid period: " + value)
			}
			cmd.Option = spi.OptClockPeriod
			cmd.Value = int64(period)

		case "burst":
			switch value {
			case "on":
				cmd.Value = 1
			case "off":
				cmd.Value = 0
			default:
				return false, errors.New("burst must be on or off")
			}
			cmd.Option = spi.OptBurstEnable

		default:
			return false, errors.New("unknown option: " + name)
		}

		resp := core.SendCommand(cmd)
		if resp.Err != nil {
			return false, resp.Err
		}
		count++
	}

	if count == 0 {
		return false, errors.New("no options give to set command")
	}
	return false, nil
}

// Validate a mode argument.
func (line *cmdLine) parseMode(value string) (int64, error) {
	if len(value) != 1 || value[0] < '0' || value[0] > '3' {
		return 0, errors.New("mode must be 0 to 3")
	}
	return int64(value[0] - '0'), nil
}

// Process the show command: show id|count|config.
func show(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Show")

	switch name := line.getWord(false); name {
	case "id":
		resp := core.SendCommand(spi.Command{Type: spi.CmdGetControllerID})
		if resp.Err != nil {
			return false, resp.Err
		}
		fmt.Fprintf(line.out, "controller id: %03x\n", resp.ID)

	case "count":
		resp := core.SendCommand(spi.Command{Type: spi.CmdGetTransactionCount})
		if resp.Err != nil {
			return false, resp.Err
		}
		fmt.Fprintf(line.out, "transactions complete: %d\n", resp.Count)

	case "config":
		resp := core.SendCommand(spi.Command{Type: spi.CmdGetConfig})
		if resp.Err != nil {
			return false, resp.Err
		}
		burst := "off"
		if resp.Burst {
			burst = "on"
		}
		fmt.Fprintf(line.out, "controller %03x mode=%d period=%v burst=%s\n",
			resp.ID, resp.Mode, time.Duration(resp.Period), burst)

	default:
		return false, errors.New("show must be id, count or config")
	}
	return false, nil
}

// Wait for all queued transactions to finish.
func wait(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Wait")
	resp := core.SendCommand(spi.Command{Type: spi.CmdWaitTransaction})
	if resp.Err != nil {
		return false, resp.Err
	}
	fmt.Fprintf(line.out, "transactions complete: %d\n", resp.Count)
	return false, nil
}

// Wait a number of controller clock cycles.
func cycles(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Cycles")
	count, err := line.getNumber()
	if err != nil {
		return false, errors.New("cycles expects a count")
	}
	resp := core.SendCommand(spi.Command{Type: spi.CmdWaitClockCycles, Cycles: int(count)})
	return false, resp.Err
}

// Begin recording bus activity.
func traceCmd(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Trace")
	prefix := line.getWord(false)
	if prefix == "" {
		return false, errors.New("trace requires a file prefix")
	}
	core.SendTrace(prefix)
	return false, nil
}

// Start advancing simulated time.
func start(_ *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Start")
	core.SendStart()
	return false, nil
}

// Pause simulated time.
func stop(_ *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Stop")
	core.SendStop()
	return false, nil
}

// Handle commands that quit simulation.
func quit(_ *cmdLine, _ *core.Core) (bool, error) {
	slog.Debug("Command Quit")
	return true, nil
}
