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

package rom

import (
	"errors"
	"fmt"
	"log"

	"github.com/andreas-jonsson/petbridge/emulator/bus"
	"github.com/andreas-jonsson/petbridge/emulator/memory"
)

var (
	ErrSize    = errors.New("image does not fit its window")
	ErrOverlap = errors.New("overlapping ROM windows")
	ErrMissing = errors.New("ROM image missing")
)

type Image struct {
	Name string
	Base memory.Address
	Data []byte
}

func (m Image) Len() int {
	return len(m.Data)
}

func (m Image) Window() memory.Window {
	return memory.Window{Base: m.Base, Size: len(m.Data)}
}

func (m Image) String() string {
	return fmt.Sprintf("%s (%v)", m.Name, m.Window())
}

// Slot describes where a ROM lives and which file provides it.
type Slot struct {
	Name string
	File string
	Base memory.Address
	Size int
}

func (s Slot) Window() memory.Window {
	return memory.Window{Base: s.Base, Size: s.Size}
}

// Standard is the BASIC 4 ROM set in boot order.
var Standard = []Slot{
	{Name: "Characters", File: "characters-2.901447-10.bin", Base: 0x8800, Size: 0x800},
	{Name: "BASIC 4 (B000)", File: "basic-4-b000.901465-23.bin", Base: 0xB000, Size: 0x1000},
	{Name: "BASIC 4 (C000)", File: "basic-4-c000.901465-20.bin", Base: 0xC000, Size: 0x1000},
	{Name: "BASIC 4 (D000)", File: "basic-4-d000.901465-21.bin", Base: 0xD000, Size: 0x1000},
	{Name: "Editor", File: "edit-4-40-n-60Hz.901499-01.bin", Base: 0xE000, Size: 0x800},
	{Name: "Kernal", File: "kernal-4.901465-22.bin", Base: 0xF000, Size: 0x1000},
}

// Validate checks that every window is inside the address space and that no two overlap.
func Validate(slots []Slot) error {
	for i, a := range slots {
		if !a.Window().Valid() {
			return fmt.Errorf("%s %v: %w", a.Name, a.Window(), ErrSize)
		}
		for _, b := range slots[i+1:] {
			if a.Window().Overlaps(b.Window()) {
				return fmt.Errorf("%s %v and %s %v: %w", a.Name, a.Window(), b.Name, b.Window(), ErrOverlap)
			}
		}
	}
	return nil
}

// Match checks that images holds one non-empty image per slot, in slot order.
func Match(images []Image, slots []Slot) error {
	if len(images) != len(slots) {
		return fmt.Errorf("%d of %d images present: %w", len(images), len(slots), ErrMissing)
	}
	for i, s := range slots {
		img := images[i]
		if img.Len() == 0 || img.Base != s.Base {
			return fmt.Errorf("%s: %w", s.Name, ErrMissing)
		}
		if img.Len() > s.Size {
			return fmt.Errorf("%s %v: %w", s.Name, img.Window(), ErrSize)
		}
	}
	return nil
}

// Upload writes the image one byte at a time, lowest address first.
// Images that would wrap past the top of memory are rejected before anything is written.
func Upload(w bus.Writer, img Image) error {
	if img.Len() > 0 && !img.Window().Valid() {
		return fmt.Errorf("uploading %s %v: %w", img.Name, img.Window(), ErrSize)
	}

	addr := img.Base
	for _, data := range img.Data {
		if err := w.Write(addr, data); err != nil {
			return fmt.Errorf("uploading %s at %v: %w", img.Name, addr, err)
		}
		addr++
	}
	return nil
}

// UploadAll uploads the images in order and returns the number of bytes written.
func UploadAll(w bus.Writer, images []Image) (int, error) {
	var n int
	for _, img := range images {
		log.Print("uploading ROM: ", img)
		if err := Upload(w, img); err != nil {
			return n, err
		}
		n += img.Len()
	}
	return n, nil
}
