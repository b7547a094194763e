/*
 * SPIMaster - Offline SPI capture decoder.
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

// busanalyze decodes Saleae Logic 2 binary digital captures of an SPI
// bus back into byte transactions. It reads the three per-line files
// written by the simulator's trace export, or real captures of the same
// format.
package main

import (
	"fmt"
	"os"

	getopt "github.com/pborman/getopt/v2"
	"github.com/soypat/saleae"
	"github.com/soypat/saleae/analyzers"
)

func main() {
	optClk := getopt.StringLong("clk", 'k', "capture_sclk.bin", "Input filename: SCLK data")
	optEnable := getopt.StringLong("cs", 's', "capture_csel.bin", "Input filename: chip select data")
	optData := getopt.StringLong("data", 'f', "capture_pico.bin", "Input filename: PICO data")
	optOutput := getopt.StringLong("out", 'o', "", "Output filename, default standard out")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	out := os.Stdout
	if *optOutput != "" {
		fp, err := os.Create(*optOutput)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		defer fp.Close()
		out = fp
	}

	if err := run(out, *optClk, *optEnable, *optData); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(out *os.File, fclk, fenable, fdata string) error {
	clk, err := opendigital(fclk)
	if err != nil {
		return err
	}
	enable, err := opendigital(fenable)
	if err != nil {
		return err
	}
	data, err := opendigital(fdata)
	if err != nil {
		return err
	}

	// The simulator records only the controller-driven data line, so
	// the same file serves both data arguments of the scanner.
	spi := analyzers.SPI{}
	txs, err := spi.Scan(clk, enable, data, data)
	if err != nil && len(txs) == 0 {
		return err
	}

	for num, tx := range txs {
		fmt.Fprintf(out, "tx%4d t=%f data=%#x\n", num, tx.StartTime(), tx.SDO)
	}
	return nil
}

func opendigital(filename string) (*saleae.DigitalFile, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return saleae.ReadDigitalFile(fp)
}
