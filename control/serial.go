/*
 * SPIMaster - Serial control port.
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

package control

import (
	"bufio"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/rcornwell/spimaster/command/parser"
	"github.com/rcornwell/spimaster/emu/core"
)

// Control session sequence number used for the serial port. TCP
// sessions count up from one.
const serialSequence = 0

type SerialPort struct {
	wg   sync.WaitGroup
	port *serial.Port
	core *core.Core
}

// Open the serial control device.
func NewSerial(device string, baud int, core *core.Core) (*SerialPort, error) {
	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial device %s: %w", device, err)
	}
	return &SerialPort{port: port, core: core}, nil
}

// Start running the command language over the serial device.
func (sp *SerialPort) Start() {
	slog.Info("Serial control port started")
	sp.wg.Add(1)
	go sp.run()
}

// Stop the serial control port.
func (sp *SerialPort) Stop() {
	sp.port.Close()

	done := make(chan struct{})
	go func() {
		sp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for serial port to finish.")
		return
	}
}

func (sp *SerialPort) run() {
	defer sp.wg.Done()

	sp.core.SendConnect(serialSequence)
	defer sp.core.SendDisconnect(serialSequence)

	scanner := bufio.NewScanner(sp.port)
	for scanner.Scan() {
		select {
		case <-sp.core.Halted():
			return
		default:
		}

		quit, err := parser.ProcessCommandTo(sp.port, scanner.Text(), sp.core)
		if err != nil {
			fmt.Fprintln(sp.port, "Error: "+err.Error())
		}
		if quit {
			return
		}
	}
}
