/*
 * SPIMaster - TCP control port.
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

// Package control exposes the command language over remote transports.
// Each connection is registered with the core as a control session; the
// controller treats a second concurrent session as a fatal condition, so
// remote drivers must take turns.
package control

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rcornwell/spimaster/command/parser"
	"github.com/rcornwell/spimaster/emu/core"
)

type Server struct {
	wg         sync.WaitGroup
	listener   net.Listener
	shutdown   chan struct{}
	connection chan net.Conn
	core       *core.Core
	sequence   int // Next control session sequence number.
}

// Open new control port listener.
func NewServer(port int, core *core.Core) (*Server, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	return &Server{
		listener:   listener,
		shutdown:   make(chan struct{}),
		connection: make(chan net.Conn),
		core:       core,
	}, nil
}

// Start accepting control connections.
func (s *Server) Start() {
	slog.Info("Control port listening on " + s.listener.Addr().String())
	s.wg.Add(2)
	go s.acceptConnections()
	go s.handleConnections()
}

// Stop the control port and wait for connections to finish.
func (s *Server) Stop() {
	close(s.shutdown)
	s.listener.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for control connections to finish.")
		return
	}
}

// Accept a connection.
func (s *Server) acceptConnections() {
	defer s.wg.Done()

	for {
		select {
		case <-s.shutdown:
			return
		default:
			conn, err := s.listener.Accept()
			if err != nil {
				continue
			}
			s.connection <- conn
		}
	}
}

// Start processing for a new connection.
func (s *Server) handleConnections() {
	defer s.wg.Done()

	for {
		select {
		case <-s.shutdown:
			return
		case conn := <-s.connection:
			s.sequence++
			slog.Info(fmt.Sprintf("Control connection %d from %s",
				s.sequence, conn.RemoteAddr().String()))
			s.wg.Add(1)
			go s.handleClient(conn, s.sequence)
		}
	}
}

// Run the command language over one connection.
func (s *Server) handleClient(conn net.Conn, sequence int) {
	defer s.wg.Done()
	defer conn.Close()

	s.core.SendConnect(sequence)
	defer s.core.SendDisconnect(sequence)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		select {
		case <-s.shutdown:
			return
		case <-s.core.Halted():
			return
		default:
		}

		quit, err := parser.ProcessCommandTo(conn, scanner.Text(), s.core)
		if err != nil {
			fmt.Fprintln(conn, "Error: "+err.Error())
		}
		if quit {
			return
		}
	}
}
