//go:build !tinygo
// +build !tinygo

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
	"log"
	"os"

	"github.com/gdamore/tcell"
	"golang.org/x/term"
)

type options struct {
	headless bool
}

type Config func(*options) error

func ConfigWithHeadless(o *options) error {
	o.headless = true
	return nil
}

// Status is what the bridge reports to the user.
type Status struct {
	Port      string
	State     string
	Writes    uint64
	Refreshes uint64
	Keys      []byte
}

type Platform interface {
	// Screen is nil when running headless.
	Screen() tcell.Screen
	RenderStatus(st Status)
}

// Start runs mainLoop on the terminal UI if stdout is a terminal, otherwise headless.
func Start(mainLoop func(Platform) error, configs ...Config) error {
	var opt options
	for _, cfg := range configs {
		if err := cfg(&opt); err != nil {
			log.Fatal(err)
		}
	}

	if opt.headless || !term.IsTerminal(int(os.Stdout.Fd())) {
		return mainLoop(&headlessPlatform{})
	}
	return tcellStart(mainLoop)
}

type headlessPlatform struct{}

func (*headlessPlatform) Screen() tcell.Screen {
	return nil
}

func (*headlessPlatform) RenderStatus(Status) {
}
