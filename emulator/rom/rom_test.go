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
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/andreas-jonsson/petbridge/emulator/memory"
	"github.com/spf13/afero"
)

type write struct {
	addr memory.Address
	data byte
}

type logWriter struct {
	writes []write
	failAt int
}

func (w *logWriter) Write(addr memory.Address, data byte) error {
	if w.failAt > 0 && len(w.writes) == w.failAt {
		return errors.New("stalled")
	}
	w.writes = append(w.writes, write{addr, data})
	return nil
}

func TestUpload(t *testing.T) {
	img := Image{Name: "TEST", Base: 0x1000, Data: []byte{0xAA, 0xBB, 0xCC, 0xDD}}
	w := &logWriter{}

	if err := Upload(w, img); err != nil {
		t.Fatal(err)
	}

	expected := []write{{0x1000, 0xAA}, {0x1001, 0xBB}, {0x1002, 0xCC}, {0x1003, 0xDD}}
	if len(w.writes) != len(expected) {
		t.Fatalf("%d writes, expected %d", len(w.writes), len(expected))
	}
	for i, wr := range w.writes {
		if wr != expected[i] {
			t.Errorf("write %d is (%v, 0x%X), expected (%v, 0x%X)", i, wr.addr, wr.data, expected[i].addr, expected[i].data)
		}
	}
}

func TestUploadTopOfMemory(t *testing.T) {
	data := make([]byte, 0x1000)
	for i := range data {
		data[i] = byte(i * 3)
	}
	w := &logWriter{}

	if err := Upload(w, Image{Name: "Kernal", Base: 0xF000, Data: data}); err != nil {
		t.Fatal(err)
	}
	if len(w.writes) != len(data) {
		t.Fatalf("%d writes", len(w.writes))
	}
	for i, wr := range w.writes {
		if wr.addr != memory.Address(0xF000+i) || wr.data != data[i] {
			t.Fatalf("write %d is (%v, 0x%X)", i, wr.addr, wr.data)
		}
	}
}

func TestUploadError(t *testing.T) {
	w := &logWriter{failAt: 2}
	img := Image{Name: "TEST", Base: 0x2000, Data: []byte{1, 2, 3, 4}}

	if err := Upload(w, img); err == nil {
		t.Fatal("expected an error")
	}
	if len(w.writes) != 2 {
		t.Errorf("upload continued after an error: %d writes", len(w.writes))
	}
}

func TestUploadWrap(t *testing.T) {
	w := &logWriter{}
	img := Image{Name: "TEST", Base: 0xFFFF, Data: []byte{1, 2}}

	if err := Upload(w, img); !errors.Is(err, ErrSize) {
		t.Errorf("expected ErrSize, got %v", err)
	}
	if len(w.writes) != 0 {
		t.Errorf("wrapping image was written: %v", w.writes)
	}

	if _, err := UploadAll(w, []Image{{Name: "A", Base: 0x1000, Data: []byte{1}}, img}); !errors.Is(err, ErrSize) {
		t.Errorf("expected ErrSize from UploadAll, got %v", err)
	}
	if len(w.writes) != 1 {
		t.Errorf("%d writes, expected only the first image", len(w.writes))
	}
}

func TestUploadAll(t *testing.T) {
	w := &logWriter{}
	images := []Image{
		{Name: "A", Base: 0x9000, Data: []byte{1, 2}},
		{Name: "B", Base: 0x8000, Data: []byte{3}},
	}

	n, err := UploadAll(w, images)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("reported %d writes", n)
	}
	expected := []write{{0x9000, 1}, {0x9001, 2}, {0x8000, 3}}
	for i, wr := range w.writes {
		if wr != expected[i] {
			t.Errorf("write %d is %v, expected %v", i, wr, expected[i])
		}
	}
}

func writeStandard(t *testing.T, fs afero.Fs, dir string) {
	for i, s := range Standard {
		data := bytes.Repeat([]byte{byte(i)}, s.Size)
		if err := afero.WriteFile(fs, filepath.Join(dir, s.File), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("Standard", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeStandard(t, fs, "roms")

		images, err := Load(fs, "roms", Standard)
		if err != nil {
			t.Fatal(err)
		}
		if len(images) != len(Standard) {
			t.Fatalf("loaded %d images", len(images))
		}
		for i, img := range images {
			if img.Base != Standard[i].Base || img.Len() != Standard[i].Size || img.Data[0] != byte(i) {
				t.Errorf("image %d loaded as %v", i, img)
			}
		}
	})

	t.Run("Missing", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeStandard(t, fs, "roms")
		fs.Remove(filepath.Join("roms", Standard[3].File))

		if _, err := Load(fs, "roms", Standard); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("Oversized", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeStandard(t, fs, "roms")
		afero.WriteFile(fs, filepath.Join("roms", Standard[4].File), make([]byte, 0x801), 0644)

		if _, err := Load(fs, "roms", Standard); !errors.Is(err, ErrSize) {
			t.Errorf("expected ErrSize, got %v", err)
		}
	})

	t.Run("Short", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeStandard(t, fs, "roms")
		afero.WriteFile(fs, filepath.Join("roms", Standard[0].File), []byte{1, 2, 3}, 0644)

		images, err := Load(fs, "roms", Standard)
		if err != nil {
			t.Fatal(err)
		}
		if images[0].Len() != 3 {
			t.Errorf("short image loaded with %d bytes", images[0].Len())
		}
	})
}

func TestMatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeStandard(t, fs, "roms")
	images, err := Load(fs, "roms", Standard)
	if err != nil {
		t.Fatal(err)
	}

	if err := Match(images, Standard); err != nil {
		t.Errorf("loaded set does not match: %v", err)
	}
	if err := Match(nil, Standard); !errors.Is(err, ErrMissing) {
		t.Errorf("expected ErrMissing for an empty set, got %v", err)
	}
	if err := Match(images[:5], Standard); !errors.Is(err, ErrMissing) {
		t.Errorf("expected ErrMissing for a short set, got %v", err)
	}

	swapped := append([]Image(nil), images...)
	swapped[0], swapped[1] = swapped[1], swapped[0]
	if err := Match(swapped, Standard); !errors.Is(err, ErrMissing) {
		t.Errorf("expected ErrMissing for images out of order, got %v", err)
	}

	big := append([]Image(nil), images...)
	big[4] = Image{Name: "Editor", Base: 0xE000, Data: make([]byte, 0x1000)}
	if err := Match(big, Standard); !errors.Is(err, ErrSize) {
		t.Errorf("expected ErrSize, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(Standard); err != nil {
		t.Errorf("standard set is invalid: %v", err)
	}

	overlapping := []Slot{
		{Name: "A", Base: 0xB000, Size: 0x1000},
		{Name: "B", Base: 0xBFFF, Size: 0x10},
	}
	if err := Validate(overlapping); !errors.Is(err, ErrOverlap) {
		t.Errorf("expected ErrOverlap, got %v", err)
	}

	wrapping := []Slot{{Name: "A", Base: 0xF800, Size: 0x1000}}
	if err := Validate(wrapping); !errors.Is(err, ErrSize) {
		t.Errorf("expected ErrSize, got %v", err)
	}

	for _, s := range Standard {
		if s.Window().Contains(memory.CPUControl) || s.Window().Contains(memory.KeyboardBase) {
			t.Errorf("%s covers the I/O area", s.Name)
		}
	}
}
