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

// Package bus implements the host side of the bus write handshake.
//
// A write is a four phase exchange with the peer:
//
//	pending asserted -> done asserted -> frame sent -> done released -> pending released
//
// Only one write can be in flight at any time.
package bus

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/andreas-jonsson/petbridge/emulator/memory"
)

// OpWrite is the only opcode understood by the peer.
const OpWrite byte = 0x84

const FrameSize = 4

var ErrPeerTimeout = errors.New("peer did not respond")

// Port is the serial link plus the two handshake lines.
type Port interface {
	io.Writer

	// SetPending drives the REQUEST line. The line is active low so
	// asserted means the pin is pulled low.
	SetPending(asserted bool) error

	// Done samples the BUSY line driven by the peer.
	Done() (bool, error)
}

// Writer is anything that can put a byte on the target bus.
type Writer interface {
	Write(addr memory.Address, data byte) error
}

type Phase int

const (
	PhaseReady  Phase = iota // Waiting for the peer to accept the request.
	PhaseFinish              // Waiting for the peer to process the frame.
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseFinish:
		return "finish"
	}
	return "unknown"
}

// PeerTimeout is only ever returned when Bridge.Timeout is set.
type PeerTimeout struct {
	Phase Phase
	Addr  memory.Address
	Count uint64
}

func (e *PeerTimeout) Error() string {
	return fmt.Sprintf("peer did not respond (%v) writing %v after %d writes", e.Phase, e.Addr, e.Count)
}

func (e *PeerTimeout) Is(target error) bool {
	return target == ErrPeerTimeout
}

// Frame encodes a write request as it goes on the wire.
func Frame(addr memory.Address, data byte) [FrameSize]byte {
	return [FrameSize]byte{OpWrite, addr.Hi(), addr.Lo(), data}
}

type Bridge struct {
	count uint64
	port  Port
	frame [FrameSize]byte

	// Timeout bounds each wait for the peer. Zero waits forever, which
	// is the normal mode of operation. A stalled peer then hangs the
	// bridge and the frozen write count is the only diagnostic.
	Timeout time.Duration
}

func New(p Port) *Bridge {
	return &Bridge{port: p}
}

// Count returns the number of completed writes. Safe to call from any goroutine.
func (b *Bridge) Count() uint64 {
	return atomic.LoadUint64(&b.count)
}

// Write blocks until the peer has processed the write.
func (b *Bridge) Write(addr memory.Address, data byte) error {
	b.frame = Frame(addr, data)

	if err := b.port.SetPending(true); err != nil {
		return err
	}
	if err := b.waitDone(true, PhaseReady, addr); err != nil {
		return b.abort(err)
	}
	if _, err := b.port.Write(b.frame[:]); err != nil {
		return b.abort(err)
	}
	if err := b.waitDone(false, PhaseFinish, addr); err != nil {
		return b.abort(err)
	}
	if err := b.port.SetPending(false); err != nil {
		return err
	}

	atomic.AddUint64(&b.count, 1)
	return nil
}

func (b *Bridge) abort(err error) error {
	b.port.SetPending(false)
	return err
}

func (b *Bridge) waitDone(want bool, phase Phase, addr memory.Address) error {
	var deadline time.Time
	if b.Timeout > 0 {
		deadline = time.Now().Add(b.Timeout)
	}

	for {
		done, err := b.port.Done()
		if err != nil {
			return err
		}
		if done == want {
			return nil
		}
		if b.Timeout > 0 && time.Now().After(deadline) {
			return &PeerTimeout{Phase: phase, Addr: addr, Count: b.Count()}
		}
	}
}
