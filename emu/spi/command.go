/*
 * SPIMaster - Controller command set.
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

type CmdType int

const (
	CmdSend                CmdType = iota // Queue one byte for transfer.
	CmdWaitTransaction                    // Wait for the queue to drain.
	CmdWaitClockCycles                    // Wait a number of clock cycles.
	CmdGetControllerID                    // Read controller identity.
	CmdGetTransactionCount                // Read completed transfer count.
	CmdGetConfig                          // Read current configuration.
	CmdSetOption                          // Change configuration.
	CmdMultipleDriver                     // Concurrent command streams detected.
)

func (t CmdType) String() string {
	switch t {
	case CmdSend:
		return "send"
	case CmdWaitTransaction:
		return "wait transaction"
	case CmdWaitClockCycles:
		return "wait clock cycles"
	case CmdGetControllerID:
		return "get controller id"
	case CmdGetTransactionCount:
		return "get transaction count"
	case CmdGetConfig:
		return "get configuration"
	case CmdSetOption:
		return "set option"
	case CmdMultipleDriver:
		return "multiple driver detected"
	}
	return "unknown"
}

// Configuration options accepted by CmdSetOption.
type Option int

const (
	OptClockPeriod Option = 0 // Value is the SCLK period in nanoseconds.
	OptMode        Option = 1 // Value is the SPI mode, 0 to 3.
	OptBurstEnable Option = 2 // Value nonzero holds CSEL across queued bytes.
)

// Command is consumed exactly once by the dispatcher. The reply, when the
// caller wants one, is delivered on Reply either immediately or once the
// command's wait condition is satisfied. Reply channels must have capacity
// for one response; the dispatcher never blocks on them being read.
type Command struct {
	Type     CmdType
	Data     byte   // CmdSend payload.
	Blocking bool   // CmdSend waits for its own transfer to finish.
	Cycles   int    // CmdWaitClockCycles count, waits 3n edge events.
	Option   Option // CmdSetOption selector.
	Value    int64  // CmdSetOption value.
	Seq      int    // CmdMultipleDriver sequence number.
	Label    string // Label cited for unrecognized commands.
	Reply    chan Response
}

// Response to a command.
type Response struct {
	ID     uint16 // Controller identity.
	Count  uint64 // Completed transfer count.
	Mode   uint8  // CmdGetConfig: current SPI mode.
	Period int64  // CmdGetConfig: SCLK period in nanoseconds.
	Burst  bool   // CmdGetConfig: burst enable.
	Err    error  // Set when the command failed.
}
