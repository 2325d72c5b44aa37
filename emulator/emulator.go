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

package emulator

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/andreas-jonsson/petbridge/emulator/bus"
	"github.com/andreas-jonsson/petbridge/emulator/debug"
	"github.com/andreas-jonsson/petbridge/emulator/keyboard"
	"github.com/andreas-jonsson/petbridge/emulator/memory"
	"github.com/andreas-jonsson/petbridge/emulator/peer"
	"github.com/andreas-jonsson/petbridge/emulator/rom"
	"github.com/andreas-jonsson/petbridge/platform"
	"github.com/spf13/afero"
)

const renderInterval = 50 * time.Millisecond

var (
	romPath  = "roms"
	portName = "/dev/ttyUSB0"
	baudRate = 1000000
)

var (
	simulate      bool
	timeout       time.Duration
	watchInterval = 5 * time.Second
	holdTime      = keyboard.DefaultHoldTime
	scriptFile    string
)

func init() {
	if p, ok := os.LookupEnv("PETBRIDGE_ROM_PATH"); ok {
		romPath = p
	}

	if p, ok := os.LookupEnv("PETBRIDGE_PORT"); ok {
		portName = p
	}

	flag.StringVar(&romPath, "roms", romPath, "Directory containing the ROM images")
	flag.StringVar(&portName, "port", portName, "Serial device connected to the peer")
	flag.IntVar(&baudRate, "baud", baudRate, "Serial link speed")
	flag.BoolVar(&simulate, "sim", false, "Run against a simulated peer")
	flag.DurationVar(&timeout, "timeout", 0, "Give up on a silent peer after this long (0 waits forever)")
	flag.DurationVar(&watchInterval, "watch", watchInterval, "Interval between bus activity reports")
	flag.DurationVar(&holdTime, "hold", holdTime, "How long a terminal key press is held")
	flag.StringVar(&scriptFile, "script", "", "Lua script driving the keyboard")
}

func openPort() (bus.Port, string, error) {
	if simulate {
		return peer.New(&memory.Space{}), "simulated peer", nil
	}

	p, err := platform.OpenSerial(portName, baudRate)
	if err != nil {
		return nil, "", err
	}
	return p, portName, nil
}

// Start connects to the peer, boots the target and keeps it fed with keyboard state.
func Start(p platform.Platform) error {
	fs := afero.NewOsFs()

	images, err := rom.Load(fs, romPath, rom.Standard)
	if err != nil {
		return err
	}

	port, name, err := openPort()
	if err != nil {
		return err
	}
	if c, ok := port.(io.Closer); ok {
		defer c.Close()
	}
	log.Print("connected to: ", name)

	b := bus.New(port)
	if b.Timeout = timeout; timeout > 0 {
		log.Printf("peer timeout is %v, a stalled peer will stop the bridge", timeout)
	}

	keys := keyboard.NewMatrix()
	var hosts keyboard.Hosts

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	var terminal *keyboard.TerminalHost
	if scr := p.Screen(); scr != nil {
		terminal = keyboard.NewTerminalHost(scr, keys)
		terminal.HoldTime = holdTime
		terminal.OnResize = scr.Sync
		hosts = append(hosts, terminal)
	}

	if scriptFile != "" {
		script, err := keyboard.LoadScript(fs, scriptFile, keys)
		if err != nil {
			return err
		}
		defer script.Close()
		hosts = append(hosts, script)
	}

	if debug.EnableDebug {
		if err := debug.Listen(); err != nil {
			return err
		}
	}

	watchdog := &debug.Watchdog{Count: b.Count, Interval: watchInterval}
	watchdog.Start()
	defer watchdog.Stop()

	shutdown := func() bool {
		select {
		case <-interrupt:
			return true
		default:
		}
		return terminal != nil && terminal.ShutdownRequested()
	}

	s := NewScheduler(b, images, hosts, keys)
	var lastRender time.Time

	for !shutdown() {
		if err := s.Step(); err != nil {
			return err
		}

		if t := time.Now(); t.Sub(lastRender) >= renderInterval {
			lastRender = t
			p.RenderStatus(platform.Status{
				Port:      name,
				State:     s.State().String(),
				Writes:    b.Count(),
				Refreshes: s.Iterations(),
				Keys:      append([]byte(nil), keys[:]...),
			})
		}
	}

	log.Printf("shutting down after %d writes", b.Count())
	return nil
}
