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
	"errors"
	"fmt"
	"log"

	"github.com/andreas-jonsson/petbridge/emulator/bus"
	"github.com/andreas-jonsson/petbridge/emulator/cpu"
	"github.com/andreas-jonsson/petbridge/emulator/keyboard"
	"github.com/andreas-jonsson/petbridge/emulator/memory"
	"github.com/andreas-jonsson/petbridge/emulator/rom"
)

var ErrHalted = errors.New("scheduler halted")

type State int

const (
	Booting State = iota
	Running
	Halted // A bus write failed. Only reachable when the port can report errors.
)

func (s State) String() string {
	switch s {
	case Booting:
		return "BOOTING"
	case Running:
		return "RUNNING"
	case Halted:
		return "HALTED"
	}
	return "UNKNOWN"
}

// Scheduler boots the target once and then keeps the keyboard state
// published. Everything runs on the caller's goroutine; the bus is
// never shared.
type Scheduler struct {
	Bus  bus.Writer
	CPU  *cpu.Controller
	ROMs []rom.Image
	Host keyboard.Host
	Keys *keyboard.Matrix

	state      State
	iterations uint64
}

func NewScheduler(w bus.Writer, roms []rom.Image, host keyboard.Host, keys *keyboard.Matrix) *Scheduler {
	if host == nil {
		host = keyboard.NullHost{}
	}
	if keys == nil {
		keys = keyboard.NewMatrix()
	}
	return &Scheduler{
		Bus:  w,
		CPU:  cpu.NewController(w),
		ROMs: roms,
		Host: host,
		Keys: keys,
	}
}

func (s *Scheduler) State() State {
	return s.state
}

// Iterations returns the number of completed keyboard refreshes.
func (s *Scheduler) Iterations() uint64 {
	return s.iterations
}

// Step boots the target on the first call and runs one refresh on every call after that.
func (s *Scheduler) Step() error {
	var err error
	switch s.state {
	case Booting:
		if err = s.boot(); err == nil {
			s.state = Running
		}
	case Running:
		err = s.refresh()
	default:
		return ErrHalted
	}

	if err != nil {
		s.state = Halted
	}
	return err
}

// Run steps until shutdown returns true. A nil shutdown runs forever.
func (s *Scheduler) Run(shutdown func() bool) error {
	for shutdown == nil || !shutdown() {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) boot() error {
	log.Print("holding CPU in reset")
	if err := s.CPU.Cycle(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	n, err := rom.UploadAll(s.Bus, s.ROMs)
	if err != nil {
		return err
	}
	log.Printf("uploaded %d ROM bytes", n)

	if err := s.CPU.Cycle(); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	log.Print("CPU running")
	return nil
}

func (s *Scheduler) refresh() error {
	s.Host.Task()

	for row := 0; row < keyboard.Rows; row++ {
		addr := memory.KeyboardBase.AddInt(row)
		if err := s.Bus.Write(addr, s.Keys[row]); err != nil {
			return fmt.Errorf("keyboard row %d: %w", row, err)
		}
	}
	s.iterations++
	return nil
}
