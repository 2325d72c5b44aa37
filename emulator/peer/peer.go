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

// Package peer simulates the device on the other end of the bus bridge.
// It accepts frames exactly like the real peer and applies them to a
// memory space, which makes it possible to run the bridge without hardware.
package peer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/andreas-jonsson/petbridge/emulator/bus"
	"github.com/andreas-jonsson/petbridge/emulator/memory"
)

var ErrProtocol = errors.New("protocol violation")

type Write struct {
	Addr memory.Address
	Data byte
}

func (w Write) String() string {
	return fmt.Sprintf("%v <- 0x%X", w.Addr, w.Data)
}

type Device struct {
	sync.Mutex

	Mem memory.Memory

	// Latency is the number of Done polls the peer takes to react
	// to each phase of the handshake, including releasing done after a frame.
	Latency int

	// Stalled peers never answer a request.
	Stalled bool

	pending, done, accepted bool
	processed               bool
	wait                    int

	buffer []byte
	writes []Write
	err    error
}

func New(mem memory.Memory) *Device {
	if mem == nil {
		mem = &memory.DummyMemory{}
	}
	return &Device{Mem: mem, buffer: make([]byte, 0, bus.FrameSize)}
}

func (m *Device) fail(err error) error {
	if m.err == nil {
		m.err = err
	}
	return err
}

func (m *Device) SetPending(asserted bool) error {
	m.Lock()
	defer m.Unlock()

	if !asserted && len(m.buffer) != 0 {
		m.buffer = m.buffer[:0]
		m.fail(fmt.Errorf("request released with a partial frame: %w", ErrProtocol))
	}
	if !asserted {
		m.accepted = false
		m.processed = false
		m.done = false
	}
	m.pending = asserted
	m.wait = m.Latency
	return nil
}

func (m *Device) Done() (bool, error) {
	m.Lock()
	defer m.Unlock()

	if m.Stalled {
		return false, nil
	}
	if m.wait > 0 {
		m.wait--
		return m.done, nil
	}
	switch {
	case m.pending && !m.accepted:
		m.accepted = true
		m.done = true
	case m.processed:
		m.processed = false
		m.done = false
	}
	return m.done, nil
}

func (m *Device) Write(p []byte) (int, error) {
	m.Lock()
	defer m.Unlock()

	if !m.pending || !m.done {
		return 0, m.fail(fmt.Errorf("frame sent outside of handshake: %w", ErrProtocol))
	}
	if m.processed {
		return 0, m.fail(fmt.Errorf("frame sent before done was released: %w", ErrProtocol))
	}
	if len(m.buffer)+len(p) > bus.FrameSize {
		return 0, m.fail(fmt.Errorf("frame too long (%d bytes): %w", len(m.buffer)+len(p), ErrProtocol))
	}

	m.buffer = append(m.buffer, p...)
	if len(m.buffer) < bus.FrameSize {
		return len(p), nil
	}

	frame := m.buffer
	m.buffer = m.buffer[:0]
	if frame[0] != bus.OpWrite {
		return 0, m.fail(fmt.Errorf("unknown opcode 0x%X: %w", frame[0], ErrProtocol))
	}

	w := Write{Addr: memory.Address(frame[1])<<8 | memory.Address(frame[2]), Data: frame[3]}
	m.Mem.WriteByte(w.Addr, w.Data)
	m.writes = append(m.writes, w)

	m.processed = true
	m.wait = m.Latency
	return len(p), nil
}

// Writes returns a copy of every write received so far.
func (m *Device) Writes() []Write {
	m.Lock()
	defer m.Unlock()
	return append([]Write(nil), m.writes...)
}

// Err returns the first protocol violation seen.
func (m *Device) Err() error {
	m.Lock()
	defer m.Unlock()
	return m.err
}
