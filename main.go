/*
 * SPIMaster - Simulated SPI bus master controller.
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

package main

import (
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	reader "github.com/rcornwell/spimaster/command/reader"
	config "github.com/rcornwell/spimaster/config/configparser"
	control "github.com/rcornwell/spimaster/control"
	bus "github.com/rcornwell/spimaster/emu/bus"
	core "github.com/rcornwell/spimaster/emu/core"
	event "github.com/rcornwell/spimaster/emu/event"
	master "github.com/rcornwell/spimaster/emu/master"
	spi "github.com/rcornwell/spimaster/emu/spi"
	logger "github.com/rcornwell/spimaster/util/logger"
	trace "github.com/rcornwell/spimaster/util/trace"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "spimaster.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug to console")
	optPort := getopt.IntLong("port", 'p', 0, "Control port, overrides configuration")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	if *optDebug {
		programLevel.Set(slog.LevelDebug)
	}
	opts := &slog.HandlerOptions{Level: programLevel, AddSource: false}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	Logger := slog.New(logger.NewHandler(file, opts, optDebug))
	slog.SetDefault(Logger)

	Logger.Info("SPI master started")

	_, err := os.Stat(*optConfig)
	if os.IsNotExist(err) {
		Logger.Error("Configuration file " + *optConfig + " can't be found")
		os.Exit(1)
	}

	cfg, err := config.LoadConfigFile(*optConfig)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	// Flags win over the configuration file.
	if !*optDebug {
		programLevel.Set(cfg.LogLevel)
	}
	if *optLogFile == "" && cfg.LogFile != "" {
		file, _ = os.Create(cfg.LogFile)
		Logger = slog.New(logger.NewHandler(file, opts, optDebug))
		slog.SetDefault(Logger)
	}
	if *optPort != 0 {
		cfg.ControlPort = *optPort
	}

	sched := event.NewScheduler()
	spiBus := bus.New(sched.Time)
	ctl := spi.NewController(cfg.ControllerID, sched, spiBus)

	masterChannel := make(chan master.Packet)
	sim := core.New(masterChannel, sched, spiBus, ctl)
	go sim.Start()

	// Apply the configured controller options through the command port
	// so they follow the same path as runtime changes.
	options := []spi.Command{
		{Type: spi.CmdSetOption, Option: spi.OptMode, Value: int64(cfg.Mode)},
		{Type: spi.CmdSetOption, Option: spi.OptClockPeriod, Value: int64(cfg.Period)},
	}
	if cfg.Burst {
		options = append(options, spi.Command{Type: spi.CmdSetOption, Option: spi.OptBurstEnable, Value: 1})
	}
	for _, cmd := range options {
		if resp := sim.SendCommand(cmd); resp.Err != nil {
			Logger.Error(resp.Err.Error())
			os.Exit(1)
		}
	}
	if cfg.TracePrefix != "" {
		sim.SendTrace(cfg.TracePrefix)
	}

	var server *control.Server
	if cfg.ControlPort != 0 {
		server, err = control.NewServer(cfg.ControlPort, sim)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		server.Start()
	}

	var serialPort *control.SerialPort
	if cfg.SerialDevice != "" {
		serialPort, err = control.NewSerial(cfg.SerialDevice, cfg.SerialBaud, sim)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		serialPort.Start()
	}

	sim.SendStart()

	msg := make(chan string, 1)
	go func() {
		reader.ConsoleReader(sim)
		msg <- ""
	}()

	// Wait for the console to quit or the run to halt on its own.
	select {
	case <-msg:
	case <-sim.Halted():
	}

	sim.Stop()
	if server != nil {
		server.Stop()
	}
	if serialPort != nil {
		serialPort.Stop()
	}

	if prefix := sim.TracePrefix(); prefix != "" {
		if err := trace.Export(prefix, spiBus, sim.Now()); err != nil {
			Logger.Error(err.Error())
		}
	}

	if err := sim.Err(); err != nil {
		Logger.Error("Run ended: " + err.Error())
		os.Exit(1)
	}
	Logger.Info("Servers stopped.")
}
