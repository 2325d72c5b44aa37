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
	"fmt"
	"unicode"
)

// Rows in the PET keyboard matrix. Each row is published to the peer
// at memory.KeyboardBase + row.
const Rows = 10

const Columns = 8

// MaxEvents is the size of the input event queue.
const MaxEvents = 64

// Host is the input stack. Task advances it one step and must never block.
type Host interface {
	Task()
}

type NullHost struct{}

func (NullHost) Task() {}

// Hosts advances several hosts in order.
type Hosts []Host

func (h Hosts) Task() {
	for _, host := range h {
		host.Task()
	}
}

// Matrix is the current state of the keyboard, one byte per row.
// Bits are active low so an idle row reads 0xFF.
type Matrix [Rows]byte

func NewMatrix() *Matrix {
	m := &Matrix{}
	m.Clear()
	return m
}

func (m *Matrix) Clear() {
	for i := range m {
		m[i] = 0xFF
	}
}

func (m *Matrix) Press(k Key) {
	m[k.Row] &^= 1 << k.Col
}

func (m *Matrix) Release(k Key) {
	m[k.Row] |= 1 << k.Col
}

func (m *Matrix) Pressed(k Key) bool {
	return m[k.Row]&(1<<k.Col) == 0
}

// Key is a position in the matrix.
type Key struct {
	Row, Col uint8
}

func (k Key) Valid() bool {
	return k.Row < Rows && k.Col < Columns
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.Row, k.Col)
}

// Stroke is a key and whether it is typed with shift held.
type Stroke struct {
	Key
	Shift bool
}

var (
	KeyLShift = Key{8, 0}
	KeyRShift = Key{8, 5}
	KeyHome   = Key{0, 6}
	KeyRight  = Key{0, 7}
	KeyDown   = Key{1, 6}
	KeyDelete = Key{1, 7}
	KeyReturn = Key{6, 5}
	KeyRVS    = Key{9, 0}
	KeySpace  = Key{9, 2}
	KeyStop   = Key{9, 4}
)

// Graphics keyboard layout.
var layout = [Rows][Columns]rune{
	{'!', '#', '%', '&', '(', '_', 0, 0},
	{'"', '$', '\'', '\\', ')', 0, 0, 0},
	{'q', 'e', 't', 'u', 'o', '^', '7', '9'},
	{'w', 'r', 'y', 'i', 'p', 0, '8', '/'},
	{'a', 'd', 'g', 'j', 'l', 0, '4', '6'},
	{'s', 'f', 'h', 'k', ':', 0, '5', '*'},
	{'z', 'c', 'b', 'm', ';', 0, '1', '3'},
	{'x', 'v', 'n', ',', '?', 0, '2', '+'},
	{0, '@', ']', 0, '>', 0, '0', '-'},
	{0, '[', ' ', '<', 0, 0, '.', '='},
}

var runeToKey = map[rune]Key{}

func init() {
	for r, row := range layout {
		for c, ch := range row {
			if ch != 0 {
				runeToKey[ch] = Key{uint8(r), uint8(c)}
			}
		}
	}
}

// Lookup finds the key for a printable character. Letters map to the
// same key regardless of case since the PET types upper case by default.
func Lookup(ch rune) (Key, bool) {
	k, ok := runeToKey[unicode.ToLower(ch)]
	return k, ok
}
