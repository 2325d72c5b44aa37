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

package rom

import (
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Load reads every slot from dir. Images may be shorter than their
// window but never longer.
func Load(fs afero.Fs, dir string, slots []Slot) ([]Image, error) {
	if err := Validate(slots); err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(slots))
	for _, s := range slots {
		fp, err := fs.Open(filepath.Join(dir, s.File))
		if err != nil {
			return nil, err
		}
		data, err := ioutil.ReadAll(fp)
		fp.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.File, err)
		}

		if len(data) == 0 || len(data) > s.Size {
			return nil, fmt.Errorf("%s is %d bytes, window is %v: %w", s.File, len(data), s.Window(), ErrSize)
		}
		if len(data) < s.Size {
			log.Printf("%s is short: %d of %d bytes", s.File, len(data), s.Size)
		}
		images = append(images, Image{Name: s.Name, Base: s.Base, Data: data})
	}
	return images, nil
}
