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

package keyboard

import (
	"log"
	"time"

	"github.com/gdamore/tcell"
)

// DefaultHoldTime is how long a terminal key stays down. Terminals only
// report presses so releases are synthesized.
const DefaultHoldTime = 60 * time.Millisecond

// TerminalHost feeds the matrix from terminal key events.
type TerminalHost struct {
	Keys     *Matrix
	HoldTime time.Duration
	OnResize func()

	events chan tcell.Event
	held   map[Key]time.Time
	quit   bool
	now    func() time.Time
}

func NewTerminalHost(s tcell.Screen, keys *Matrix) *TerminalHost {
	h := &TerminalHost{
		Keys:     keys,
		HoldTime: DefaultHoldTime,
		events:   make(chan tcell.Event, MaxEvents),
		held:     make(map[Key]time.Time),
		now:      time.Now,
	}
	go h.pump(s)
	return h
}

func (h *TerminalHost) pump(s tcell.Screen) {
	for {
		ev := s.PollEvent()
		if ev == nil {
			close(h.events)
			return
		}
		select {
		case h.events <- ev:
		default:
			log.Print("terminal event queue is full")
		}
	}
}

// ShutdownRequested reports if the user asked to quit.
func (h *TerminalHost) ShutdownRequested() bool {
	return h.quit
}

func (h *TerminalHost) Task() {
	now := h.now()
	for k, t := range h.held {
		if !now.Before(t) {
			h.Keys.Release(k)
			delete(h.held, k)
		}
	}

	for {
		select {
		case ev, ok := <-h.events:
			if !ok {
				h.events = nil
				h.quit = true
				return
			}
			h.handleEvent(ev, now)
		default:
			return
		}
	}
}

func (h *TerminalHost) handleEvent(ev tcell.Event, now time.Time) {
	switch t := ev.(type) {
	case *tcell.EventKey:
		if t.Key() == tcell.KeyCtrlC {
			h.quit = true
			return
		}
		s, ok := createStrokeFromTCELL(t)
		if !ok {
			return
		}
		if s.Shift {
			h.hold(KeyLShift, now)
		} else if _, ok := h.held[KeyLShift]; ok {
			h.Keys.Release(KeyLShift)
			delete(h.held, KeyLShift)
		}
		h.hold(s.Key, now)
	case *tcell.EventResize:
		if h.OnResize != nil {
			h.OnResize()
		}
	}
}

func (h *TerminalHost) hold(k Key, now time.Time) {
	h.Keys.Press(k)
	h.held[k] = now.Add(h.HoldTime)
}

func createStrokeFromTCELL(ev *tcell.EventKey) (Stroke, bool) {
	switch ev.Key() {
	case tcell.KeyEscape: // Ctrl-C quits, Escape is the STOP key.
		return Stroke{Key: KeyStop}, true
	case tcell.KeyEnter:
		return Stroke{Key: KeyReturn}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		return Stroke{Key: KeyDelete}, true
	case tcell.KeyInsert:
		return Stroke{Key: KeyDelete, Shift: true}, true
	case tcell.KeyDown:
		return Stroke{Key: KeyDown}, true
	case tcell.KeyUp:
		return Stroke{Key: KeyDown, Shift: true}, true
	case tcell.KeyRight:
		return Stroke{Key: KeyRight}, true
	case tcell.KeyLeft:
		return Stroke{Key: KeyRight, Shift: true}, true
	case tcell.KeyHome:
		return Stroke{Key: KeyHome}, true
	case tcell.KeyEnd:
		return Stroke{Key: KeyHome, Shift: true}, true
	case tcell.KeyTab:
		return Stroke{Key: KeyRVS}, true
	case tcell.KeyRune:
		// The terminal has already applied shift to the rune. Alt stands in
		// for the PET shift key to reach the shifted graphics characters.
		if k, ok := Lookup(ev.Rune()); ok {
			return Stroke{Key: k, Shift: ev.Modifiers()&tcell.ModAlt != 0}, true
		}
	}
	return Stroke{}, false
}
