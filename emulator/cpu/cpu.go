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

// Package cpu controls reset and run state of the target processor.
package cpu

import (
	"time"

	"github.com/andreas-jonsson/petbridge/emulator/bus"
	"github.com/andreas-jonsson/petbridge/emulator/memory"
)

// Settle is how long the peer needs after a control register write.
const Settle = time.Millisecond

type Controller struct {
	Bus   bus.Writer
	Sleep func(time.Duration) // Defaults to time.Sleep.
}

func NewController(w bus.Writer) *Controller {
	return &Controller{Bus: w}
}

// Encode returns the control register value for the requested state.
func Encode(reset, run bool) byte {
	var v byte
	if !reset {
		v |= memory.ResetBit
	}
	if run {
		v |= memory.RunBit
	}
	return v
}

// Set writes the control register and waits for the peer to settle,
// no matter how long the bus write took.
func (c *Controller) Set(reset, run bool) error {
	if err := c.Bus.Write(memory.CPUControl, Encode(reset, run)); err != nil {
		return err
	}

	sleep := c.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(Settle)
	return nil
}

func (c *Controller) Halt() error {
	return c.Set(true, false)
}

func (c *Controller) Release() error {
	return c.Set(false, true)
}

// Cycle puts the CPU through a full reset so it fetches the reset vector again.
func (c *Controller) Cycle() error {
	if err := c.Halt(); err != nil {
		return err
	}
	return c.Release()
}
