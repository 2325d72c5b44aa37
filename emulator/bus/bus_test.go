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

package bus

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/andreas-jonsson/petbridge/emulator/memory"
)

// recordingPort answers the handshake after a configurable number of
// polls and logs every line change and transfer.
type recordingPort struct {
	polls   int
	pending bool
	done    bool
	wait    int
	stall   bool

	wire   bytes.Buffer
	events []string
}

func (p *recordingPort) SetPending(asserted bool) error {
	if asserted {
		p.events = append(p.events, "pending+")
	} else {
		p.events = append(p.events, "pending-")
	}
	p.pending = asserted
	p.wait = p.polls
	return nil
}

func (p *recordingPort) Done() (bool, error) {
	if p.stall {
		return false, nil
	}
	if p.wait > 0 {
		p.wait--
		return p.done, nil
	}
	if p.pending && !p.done && p.wire.Len()%FrameSize == 0 && !p.sentSinceAccept() {
		p.done = true
		p.events = append(p.events, "done+")
	}
	return p.done, nil
}

func (p *recordingPort) sentSinceAccept() bool {
	for i := len(p.events) - 1; i >= 0; i-- {
		switch p.events[i] {
		case "frame":
			return true
		case "pending+":
			return false
		}
	}
	return false
}

func (p *recordingPort) Write(b []byte) (int, error) {
	p.events = append(p.events, "frame")
	p.wire.Write(b)
	p.done = false
	p.events = append(p.events, "done-")
	p.wait = p.polls
	return len(b), nil
}

func TestFrame(t *testing.T) {
	p := &recordingPort{}
	b := New(p)

	for addr := 0; addr <= 0xFFFF; addr += 0x101 {
		for _, data := range []byte{0x00, 0x5A, 0xFF} {
			p.wire.Reset()
			if err := b.Write(memory.Address(addr), data); err != nil {
				t.Fatal(err)
			}
			expected := []byte{0x84, byte(addr >> 8), byte(addr), data}
			if !bytes.Equal(p.wire.Bytes(), expected) {
				t.Fatalf("write(0x%X, 0x%X) sent %X, expected %X", addr, data, p.wire.Bytes(), expected)
			}
		}
	}

	if f := Frame(0xE80F, 0x03); f != [FrameSize]byte{0x84, 0xE8, 0x0F, 0x03} {
		t.Errorf("unexpected frame: %X", f)
	}
}

func TestHandshakeOrder(t *testing.T) {
	for _, polls := range []int{0, 1, 10} {
		t.Run(fmt.Sprintf("Latency%d", polls), func(t *testing.T) {
			p := &recordingPort{polls: polls}
			b := New(p)

			if err := b.Write(0x1234, 0x56); err != nil {
				t.Fatal(err)
			}

			expected := []string{"pending+", "done+", "frame", "done-", "pending-"}
			if fmt.Sprint(p.events) != fmt.Sprint(expected) {
				t.Errorf("events %v, expected %v", p.events, expected)
			}
			if b.Count() != 1 {
				t.Errorf("count is %d", b.Count())
			}
		})
	}
}

func TestCount(t *testing.T) {
	b := New(&recordingPort{polls: 2})
	for i := 0; i < 100; i++ {
		if err := b.Write(memory.KeyboardBase, byte(i)); err != nil {
			t.Fatal(err)
		}
	}
	if b.Count() != 100 {
		t.Errorf("count is %d", b.Count())
	}
}

func TestTimeout(t *testing.T) {
	p := &recordingPort{stall: true}
	b := New(p)
	b.Timeout = 5 * time.Millisecond

	err := b.Write(0xC000, 0x01)
	if !errors.Is(err, ErrPeerTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}

	var pt *PeerTimeout
	if !errors.As(err, &pt) || pt.Phase != PhaseReady || pt.Addr != 0xC000 {
		t.Errorf("unexpected timeout details: %+v", pt)
	}
	if p.pending {
		t.Error("pending must be released after a timeout")
	}
	if p.wire.Len() != 0 {
		t.Error("no frame should be sent to a stalled peer")
	}
	if b.Count() != 0 {
		t.Error("a failed write must not be counted")
	}
}

type failingPort struct {
	recordingPort
}

func (p *failingPort) Write(b []byte) (int, error) {
	return 0, errors.New("link down")
}

func TestTransportError(t *testing.T) {
	p := &failingPort{}
	b := New(p)

	if err := b.Write(0x8000, 0x20); err == nil {
		t.Fatal("expected an error")
	}
	if p.pending {
		t.Error("pending must be released after a transport error")
	}
	if b.Count() != 0 {
		t.Error("a failed write must not be counted")
	}
}
