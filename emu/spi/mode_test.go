/*
 * SPIMaster - Mode table test cases.
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
	"testing"
)

func TestModeParams(t *testing.T) {
	tests := []struct {
		mode    uint8
		cpol    bool
		leading bool
	}{
		{0, false, true},
		{1, false, false},
		{2, true, true},
		{3, true, false},
	}
	for _, test := range tests {
		cpol, leading := modeParams(test.mode)
		if cpol != test.cpol {
			t.Errorf("Mode %d polarity expected %v got %v", test.mode, test.cpol, cpol)
		}
		if leading != test.leading {
			t.Errorf("Mode %d phase expected leading=%v got %v", test.mode, test.leading, leading)
		}
	}
}
