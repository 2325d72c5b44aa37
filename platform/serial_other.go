//go:build !tinygo && !linux && !darwin
// +build !tinygo,!linux,!darwin

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
	"errors"
	"runtime"
)

type SerialPort struct{}

func OpenSerial(name string, baud int) (*SerialPort, error) {
	return nil, errors.New("serial ports are not supported on " + runtime.GOOS)
}

func (p *SerialPort) Write(b []byte) (int, error) {
	return 0, errors.New("not supported")
}

func (p *SerialPort) SetPending(asserted bool) error {
	return errors.New("not supported")
}

func (p *SerialPort) Done() (bool, error) {
	return false, errors.New("not supported")
}

func (p *SerialPort) Close() error {
	return nil
}
