//go:build !tinygo && (linux || darwin)
// +build !tinygo
// +build linux darwin

/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package platform

import (
	"os"

	"github.com/pkg/term"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// SerialPort runs the bridge over a serial adapter. Frames go out on TX,
// REQUEST is wired to RTS and BUSY to CTS.
type SerialPort struct {
	name  string
	tty   *term.Term
	lines *os.File
}

func OpenSerial(name string, baud int) (*SerialPort, error) {
	tty, err := term.Open(name, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, err
	}

	// The modem status ioctl needs a descriptor of its own.
	lines, err := os.OpenFile(name, os.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		tty.Close()
		return nil, err
	}

	p := &SerialPort{name: name, tty: tty, lines: lines}
	if err := p.SetPending(false); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *SerialPort) String() string {
	return p.name
}

// Write returns once the frame has left the UART.
func (p *SerialPort) Write(b []byte) (int, error) {
	n, err := p.tty.Write(b)
	if err != nil {
		return n, err
	}
	return n, termios.Tcdrain(p.lines.Fd())
}

func (p *SerialPort) SetPending(asserted bool) error {
	return p.tty.SetRTS(asserted)
}

func (p *SerialPort) Done() (bool, error) {
	status, err := termios.Tiocmget(p.lines.Fd())
	return status&unix.TIOCM_CTS != 0, err
}

func (p *SerialPort) Close() error {
	p.tty.SetRTS(false)
	p.lines.Close()
	return p.tty.Close()
}
