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

package memory

import (
	"fmt"
	"log"
)

// Address is a location in the target's 16-bit address space.
type Address uint16

const (
	KeyboardBase Address = 0xE800 // Keyboard matrix, one byte per row.
	CPUControl   Address = 0xE80F // Write only.
)

// Bits in the CPU control register.
const (
	ResetBit byte = 1 << 0 // res_b, zero holds the CPU in reset
	RunBit   byte = 1 << 1 // rdy
)

func (a Address) String() string {
	return fmt.Sprintf("0x%X", uint16(a))
}

func (a Address) Hi() byte {
	return byte(a >> 8)
}

func (a Address) Lo() byte {
	return byte(a & 0xFF)
}

func (a Address) AddInt(i int) Address {
	return Address(int(a) + i)
}

// Window is a contiguous range of the address space.
type Window struct {
	Base Address
	Size int
}

// End returns the last address inside the window.
func (w Window) End() Address {
	return w.Base.AddInt(w.Size - 1)
}

func (w Window) String() string {
	return fmt.Sprintf("%v-%v", w.Base, w.End())
}

// Valid reports if the window is non-empty and does not wrap around the top of memory.
func (w Window) Valid() bool {
	return w.Size > 0 && int(w.Base)+w.Size <= 0x10000
}

func (w Window) Contains(addr Address) bool {
	return addr >= w.Base && int(addr) < int(w.Base)+w.Size
}

func (w Window) Overlaps(o Window) bool {
	return int(w.Base) < int(o.Base)+o.Size && int(o.Base) < int(w.Base)+w.Size
}

type Memory interface {
	ReadByte(addr Address) byte
	WriteByte(addr Address, data byte)
}

// Space is a flat 64KB address space.
type Space [0x10000]byte

func (m *Space) ReadByte(addr Address) byte {
	return m[addr]
}

func (m *Space) WriteByte(addr Address, data byte) {
	m[addr] = data
}

type DummyMemory struct{}

func (m *DummyMemory) ReadByte(addr Address) byte {
	log.Printf("reading unmapped memory: %v", addr)
	return 0xFF
}

func (m *DummyMemory) WriteByte(addr Address, data byte) {
	log.Printf("writing unmapped memory: %v", addr)
}
