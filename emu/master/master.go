/*
 * SPIMaster - Master channel packet definitions.
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

package master

import (
	"github.com/rcornwell/spimaster/emu/spi"
)

type Message int

const (
	Start         Message = iota // Begin advancing simulated time.
	Stop                         // Pause simulated time.
	Cmd                          // Controller command, reply on Cmd.Reply.
	CtlConnect                   // A control session opened.
	CtlDisconnect                // A control session closed.
	Trace                        // Begin recording bus activity.
)

// Packet carried on the master channel. This is the command port: one
// packet at a time, callers block on the command's reply channel.
type Packet struct {
	Msg     Message
	Cmd     spi.Command
	Session int    // Control session sequence number.
	Prefix  string // Capture file prefix for Trace.
}
