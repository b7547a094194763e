/*
 * SPIMaster - Configuration file parser.
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rcornwell/spimaster/util/logger"
)

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := 'controller' <address> *(<option>) |
 *           'control' <number> |
 *           'serial' <word> <number> |
 *           'trace' <word> |
 *           'logfile' <quoteopt> |
 *           'log' <word>
 * <address> ::= <hexnumber>
 * <option> ::= <word> '=' <word>
 *
 * controller options: mode=<0-3> period=<duration> burst=<on|off>
 */

// Parsed simulator configuration with defaults applied.
type Config struct {
	ControllerID uint16        // Controller identity.
	Mode         uint8         // Initial SPI mode.
	Period       time.Duration // Initial SCLK period.
	Burst        bool          // Initial burst enable.
	ControlPort  int           // TCP control port, 0 disables.
	SerialDevice string        // Serial control device, empty disables.
	SerialBaud   int
	TracePrefix  string // Capture file prefix, empty disables.
	LogFile      string
	LogLevel     slog.Level
}

// Current option line being parsed.
type optionLine struct {
	line   string // Current option line.
	pos    int    // Current position in line.
	number int    // Line number for diagnostics.
}

// Configuration defaults.
func defaultConfig() *Config {
	return &Config{
		ControllerID: 1,
		Period:       time.Microsecond,
		LogLevel:     slog.LevelInfo,
	}
}

// Load in a configuration file.
func LoadConfigFile(name string) (*Config, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseConfig(file)
}

// Parse a configuration stream.
func ParseConfig(rdr io.Reader) (*Config, error) {
	cfg := defaultConfig()
	reader := bufio.NewReader(rdr)
	lineNumber := 0
	for {
		var err error

		line := optionLine{}
		line.line, err = reader.ReadString('\n')
		lineNumber++
		line.number = lineNumber
		if len(line.line) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		err = line.parseLine(cfg)
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Parse one line from file.
func (line *optionLine) parseLine(cfg *Config) error {
	keyword := line.getWord()
	if keyword == "" {
		return nil
	}
	switch strings.ToUpper(keyword) {
	case "CONTROLLER":
		return line.parseController(cfg)

	case "CONTROL":
		port, err := line.getNumber()
		if err != nil {
			return fmt.Errorf("control port, line %d: %w", line.number, err)
		}
		cfg.ControlPort = port

	case "SERIAL":
		device := line.getWord()
		if device == "" {
			return fmt.Errorf("serial requires a device, line %d", line.number)
		}
		baud, err := line.getNumber()
		if err != nil {
			return fmt.Errorf("serial baud, line %d: %w", line.number, err)
		}
		cfg.SerialDevice = device
		cfg.SerialBaud = baud

	case "TRACE":
		prefix := line.getWord()
		if prefix == "" {
			return fmt.Errorf("trace requires a file prefix, line %d", line.number)
		}
		cfg.TracePrefix = prefix

	case "LOGFILE":
		name, ok := line.parseQuoteString()
		if !ok {
			return fmt.Errorf("logfile requires a file name, line %d", line.number)
		}
		cfg.LogFile = name

	case "LOG":
		level, err := logger.ParseLevel(line.getWord())
		if err != nil {
			return fmt.Errorf("line %d: %w", line.number, err)
		}
		cfg.LogLevel = level

	default:
		return fmt.Errorf("unknown keyword %s, line %d", keyword, line.number)
	}

	line.skipSpace()
	if !line.isEOL() {
		return fmt.Errorf("trailing text after %s, line %d", keyword, line.number)
	}
	return nil
}

// Parse the controller line: hex address followed by options.
func (line *optionLine) parseController(cfg *Config) error {
	addr, err := line.getHex()
	if err != nil {
		return fmt.Errorf("controller address, line %d: %w", line.number, err)
	}
	cfg.ControllerID = uint16(addr)

	for {
		line.skipSpace()
		if line.isEOL() {
			return nil
		}
		name := line.getWord()
		value := ""
		if !line.isEOL() && line.line[line.pos] == '=' {
			line.pos++
			value = line.getWord()
		}
		if err := setControllerOption(cfg, name, value, line.number); err != nil {
			return err
		}
	}
}

// Commit one controller option.
func setControllerOption(cfg *Config, name string, value string, number int) error {
	switch strings.ToUpper(name) {
	case "MODE":
		mode, err := strconv.ParseUint(value, 10, 8)
		if err != nil || mode > 3 {
			return fmt.Errorf("mode must be 0 to 3, line %d", number)
		}
		cfg.Mode = uint8(mode)

	case "PERIOD":
		period, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("period, line %d: %w", number, err)
		}
		cfg.Period = period

	case "BURST":
		switch strings.ToUpper(value) {
		case "ON":
			cfg.Burst = true
		case "OFF":
			cfg.Burst = false
		default:
			return fmt.Errorf("burst must be on or off, line %d", number)
		}

	default:
		return fmt.Errorf("unknown controller option %s, line %d", name, number)
	}
	return nil
}

// Skip forward over line until none whitespace character found.
func (line *optionLine) skipSpace() {
	for {
		if line.pos >= len(line.line) {
			return
		}
		if unicode.IsSpace(rune(line.line[line.pos])) {
			line.pos++
			continue
		}
		return
	}
}

// Check if at end of line.
func (line *optionLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}

	if line.line[line.pos] == '#' {
		return true
	}
	return false
}

// Collect the next word, stopping at space, '=' or comment.
func (line *optionLine) getWord() string {
	line.skipSpace()
	word := ""
	for !line.isEOL() {
		by := line.line[line.pos]
		if unicode.IsSpace(rune(by)) || by == '=' {
			break
		}
		word += string([]byte{by})
		line.pos++
	}
	return word
}

// Collect a decimal number.
func (line *optionLine) getNumber() (int, error) {
	word := line.getWord()
	if word == "" {
		return 0, errors.New("number expected")
	}
	value, err := strconv.ParseInt(word, 10, 32)
	if err != nil {
		return 0, errors.New("not a number: " + word)
	}
	return int(value), nil
}

// Collect a hex number, with or without 0x prefix.
func (line *optionLine) getHex() (uint32, error) {
	word := line.getWord()
	word = strings.TrimPrefix(strings.ToLower(word), "0x")
	if word == "" {
		return 0, errors.New("address expected")
	}
	value, err := strconv.ParseUint(word, 16, 16)
	if err != nil {
		return 0, errors.New("not a hex number: " + word)
	}
	return uint32(value), nil
}

// Collect a possibly quoted string.
func (line *optionLine) parseQuoteString() (string, bool) {
	line.skipSpace()
	if line.isEOL() {
		return "", false
	}
	if line.line[line.pos] != '"' {
		word := line.getWord()
		return word, word != ""
	}
	line.pos++
	value := ""
	for line.pos < len(line.line) {
		by := line.line[line.pos]
		if by == '"' {
			line.pos++
			return value, true
		}
		value += string([]byte{by})
		line.pos++
	}
	return "", false
}
