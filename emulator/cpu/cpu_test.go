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

package cpu

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/andreas-jonsson/petbridge/emulator/memory"
)

type write struct {
	addr memory.Address
	data byte
}

type logWriter struct {
	log []interface{}
	err error
}

func (w *logWriter) Write(addr memory.Address, data byte) error {
	if w.err != nil {
		return w.err
	}
	w.log = append(w.log, write{addr, data})
	return nil
}

func (w *logWriter) sleep(d time.Duration) {
	w.log = append(w.log, d)
}

func TestEncode(t *testing.T) {
	cases := []struct {
		reset, run bool
		value      byte
	}{
		{true, false, 0x0},
		{false, true, 0x3},
		{true, true, 0x2},
		{false, false, 0x1},
	}
	for _, c := range cases {
		if v := Encode(c.reset, c.run); v != c.value {
			t.Errorf("Encode(%v, %v) = 0x%X, expected 0x%X", c.reset, c.run, v, c.value)
		}
	}
}

func TestSet(t *testing.T) {
	w := &logWriter{}
	c := &Controller{Bus: w, Sleep: w.sleep}

	if err := c.Set(true, false); err != nil {
		t.Fatal(err)
	}
	expected := []interface{}{write{memory.CPUControl, 0x0}, Settle}
	if fmt.Sprint(w.log) != fmt.Sprint(expected) {
		t.Errorf("log %v, expected %v", w.log, expected)
	}
}

func TestCycle(t *testing.T) {
	w := &logWriter{}
	c := &Controller{Bus: w, Sleep: w.sleep}

	if err := c.Cycle(); err != nil {
		t.Fatal(err)
	}
	expected := []interface{}{
		write{memory.CPUControl, 0x0}, Settle,
		write{memory.CPUControl, 0x3}, Settle,
	}
	if fmt.Sprint(w.log) != fmt.Sprint(expected) {
		t.Errorf("log %v, expected %v", w.log, expected)
	}
}

func TestSettleDelay(t *testing.T) {
	c := NewController(&logWriter{})

	start := time.Now()
	if err := c.Release(); err != nil {
		t.Fatal(err)
	}
	if d := time.Since(start); d < Settle {
		t.Errorf("returned after %v", d)
	}
}

func TestBusError(t *testing.T) {
	w := &logWriter{err: errors.New("stalled")}
	c := &Controller{Bus: w, Sleep: w.sleep}

	if err := c.Cycle(); err == nil {
		t.Fatal("expected an error")
	}
	if len(w.log) != 0 {
		t.Errorf("nothing should happen after a failed write: %v", w.log)
	}
}
