/*
 * SPIMaster - Command parser.
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
	"io"
	"os"
	"strings"
	"unicode"

	core "github.com/rcornwell/spimaster/emu/core"
)

type cmd struct {
	Name     string // Command name.
	Min      int    // Minimum match size.
	Process  func(*cmdLine, *core.Core) (bool, error)
	Complete func(*cmdLine) []string
}

type cmdLine struct {
	line string    // Current command.
	pos  int       // Position in line.
	out  io.Writer // Where command output goes.
}

// Execute the command line given, output to standard out. Returns true
// when the command ends the session.
func ProcessCommand(commandLine string, core *core.Core) (bool, error) {
	return ProcessCommandTo(os.Stdout, commandLine, core)
}

// Execute the command line given, output to the given writer. Used by
// the control ports to run the same command language over a connection.
func ProcessCommandTo(out io.Writer, commandLine string, core *core.Core) (bool, error) {
	line := cmdLine{line: commandLine, out: out}
	command := line.getWord(false)
	if command == "" {
		return false, nil
	}

	match := matchList(command)
	if len(match) == 0 {
		return false, errors.New("command not found: " + command)
	}

	if len(match) > 1 {
		return false, errors.New("unique command not found: " + command)
	}

	return match[0].Process(&line, core)
}

// Check if command matches at least to minimum length.
func matchCommand(match cmd, command string) bool {
	if len(command) > len(match.Name) {
		return false
	}
	l := 0
	for l = 0; l < len(command); l++ {
		if match.Name[l] != command[l] {
			return false
		}
	}
	return l >= match.Min
}

// Check if command matches one of the commands.
func matchList(command string) []cmd {
	// If command empty just return.
	if command == "" {
		return []cmd{}
	}

	// Try and match one command.
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, command) {
			match = append(match, m)
		}
	}
	return match
}

// Skip forward over line until none whitespace character found.
func (line *cmdLine) skipSpace() {
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
func (line *cmdLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}

	if line.line[line.pos] == '#' {
		return true
	}
	return false
}

// Return current character and advance to next.
func (line *cmdLine) getCurrent() byte {
	if line.isEOL() {
		return 0
	}
	by := line.line[line.pos]
	line.pos++
	return by
}

// Parse a decimal number.
func (line *cmdLine) getNumber() (uint32, error) {
	line.skipSpace()

	// Check if end of line.
	if line.isEOL() {
		return 0, errors.New("not a number")
	}

	value := uint32(0)
	by := line.getCurrent()
	for by != 0 {
		if !unicode.IsDigit(rune(by)) {
			return 0, errors.New("not a number")
		}
		value = (value * 10) + uint32(by-'0')
		by = line.getCurrent()
		if by != 0 && unicode.IsSpace(rune(by)) {
			break
		}
	}

	return value, nil
}

const hex = "0123456789abcdef"

// Parse hex number.
func (line *cmdLine) getHex() (uint32, error) {
	line.skipSpace()

	if line.isEOL() {
		return 0, errors.New("not a number")
	}

	pos := line.pos
	value := uint32(0)
	by := line.getCurrent()
	for by != 0 {
		digit := strings.Index(hex, strings.ToLower(string(by)))
		if digit == -1 {
			line.pos = pos
			return 0, errors.New("not a number")
		}
		value = (value << 4) + uint32(digit)
		by = line.getCurrent()
		if by != 0 && unicode.IsSpace(rune(by)) {
			break
		}
	}

	return value, nil
}

// Parse a word. When equal is set, stop at '=' as well as space.
func (line *cmdLine) getWord(equal bool) string {
	line.skipSpace()

	value := ""
	by := line.getCurrent()
	for by != 0 {
		if unicode.IsSpace(rune(by)) {
			break
		}
		if by == '=' && equal {
			return strings.ToLower(value)
		}
		value += string([]byte{by})
		by = line.getCurrent()
	}

	return strings.ToLower(value)
}
