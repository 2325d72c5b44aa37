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

//go:generate go run ../tools/romgen -roms ../roms -out roms_generated.go

package main

import (
	"github.com/andreas-jonsson/petbridge/emulator"
	"github.com/andreas-jonsson/petbridge/emulator/bus"
	"github.com/andreas-jonsson/petbridge/emulator/keyboard"
	"github.com/andreas-jonsson/petbridge/emulator/rom"
	"github.com/andreas-jonsson/petbridge/platform"
)

// Set by roms_generated.go.
var images []rom.Image

func main() {
	port, err := platform.OpenPico()
	if err != nil {
		fail(err)
	}

	if err := rom.Match(images, rom.Standard); err != nil {
		fail(err)
	}

	// TODO: replace NullHost with a HID keyboard driver once TinyGo's rp2040 USB stack supports host mode.
	s := emulator.NewScheduler(bus.New(port), images, keyboard.NullHost{}, keyboard.NewMatrix())
	fail(s.Run(nil))
}

func fail(err error) {
	println(err.Error())
	for {
	}
}
