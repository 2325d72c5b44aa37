//go:build tinygo && rp2040
// +build tinygo,rp2040

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
	"machine"
	"time"
)

const (
	pendingPin = machine.GPIO6
	donePin    = machine.GPIO7

	sckPin = machine.GPIO2
	txPin  = machine.GPIO3
	rxPin  = machine.GPIO4
	csnPin = machine.GPIO5
)

// PicoPort drives the bridge directly from RP2040 pins.
type PicoPort struct {
	spi *machine.SPI
}

func OpenPico() (*PicoPort, error) {
	pendingPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pendingPin.High()
	time.Sleep(time.Millisecond)

	donePin.Configure(machine.PinConfig{Mode: machine.PinInput})

	csnPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	csnPin.High()

	p := &PicoPort{spi: machine.SPI0}
	err := p.spi.Configure(machine.SPIConfig{
		Frequency: 1000 * 1000,
		SCK:       sckPin,
		SDO:       txPin,
		SDI:       rxPin,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PicoPort) Write(b []byte) (int, error) {
	csnPin.Low()
	err := p.spi.Tx(b, nil)
	csnPin.High()
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

func (p *PicoPort) SetPending(asserted bool) error {
	pendingPin.Set(!asserted)
	return nil
}

func (p *PicoPort) Done() (bool, error) {
	return donePin.Get(), nil
}
