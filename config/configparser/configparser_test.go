/*
 * SPIMaster - Configuration file parser test cases.
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

package configparser

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty config returned error: %v", err)
	}
	if cfg.ControllerID != 1 {
		t.Errorf("default controller id got %d expected 1", cfg.ControllerID)
	}
	if cfg.Period != time.Microsecond {
		t.Errorf("default period got %v expected 1us", cfg.Period)
	}
	if cfg.Mode != 0 || cfg.Burst {
		t.Errorf("default mode/burst got %d/%v expected 0/false", cfg.Mode, cfg.Burst)
	}
	if cfg.ControlPort != 0 || cfg.SerialDevice != "" || cfg.TracePrefix != "" {
		t.Errorf("front ends should default off: %+v", cfg)
	}
}

func TestControllerLine(t *testing.T) {
	input := "# test configuration\n" +
		"controller 0x2c mode=3 period=500ns burst=on\n"
	cfg, err := ParseConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if cfg.ControllerID != 0x2c {
		t.Errorf("controller id got %#x expected 0x2c", cfg.ControllerID)
	}
	if cfg.Mode != 3 {
		t.Errorf("mode got %d expected 3", cfg.Mode)
	}
	if cfg.Period != 500*time.Nanosecond {
		t.Errorf("period got %v expected 500ns", cfg.Period)
	}
	if !cfg.Burst {
		t.Errorf("burst not enabled")
	}
}

func TestFrontEndLines(t *testing.T) {
	input := "control 8090\n" +
		"serial /dev/ttyUSB0 115200\n" +
		"trace capture\n" +
		"logfile \"spi master.log\"\n" +
		"log DEBUG\n"
	cfg, err := ParseConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if cfg.ControlPort != 8090 {
		t.Errorf("control port got %d expected 8090", cfg.ControlPort)
	}
	if cfg.SerialDevice != "/dev/ttyUSB0" || cfg.SerialBaud != 115200 {
		t.Errorf("serial got %s %d", cfg.SerialDevice, cfg.SerialBaud)
	}
	if cfg.TracePrefix != "capture" {
		t.Errorf("trace prefix got %s", cfg.TracePrefix)
	}
	if cfg.LogFile != "spi master.log" {
		t.Errorf("logfile got %q", cfg.LogFile)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log level got %v expected DEBUG", cfg.LogLevel)
	}
}

func TestCommentsAndBlanks(t *testing.T) {
	input := "\n# nothing here\n   \ncontrol 9000  # control port\n"
	cfg, err := ParseConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if cfg.ControlPort != 9000 {
		t.Errorf("control port got %d expected 9000", cfg.ControlPort)
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"frobnicate 1\n",
		"controller zz\n",
		"controller 0x1 mode=7\n",
		"controller 0x1 burst=maybe\n",
		"controller 0x1 period=fast\n",
		"control notaport\n",
		"serial /dev/ttyUSB0\n",
		"log LOUD\n",
		"control 8090 extra\n",
	}
	for _, input := range bad {
		_, err := ParseConfig(strings.NewReader(input))
		if err == nil {
			t.Errorf("input %q should have failed", input)
		}
	}
}
