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

package platform

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/andreas-jonsson/petbridge/emulator/debug"
	"github.com/andreas-jonsson/petbridge/version"
	"github.com/gdamore/tcell"
)

const maxLogLines = 64

type tcellPlatform struct {
	sync.Mutex

	screen tcell.Screen
	status Status
	lines  []string
	tail   string
}

func tcellStart(mainLoop func(Platform) error) error {
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err = s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	s.HideCursor()
	s.DisableMouse()
	s.Clear()

	p := newTcellPlatform(s)
	debug.SetOutput(p)
	defer debug.SetOutput(os.Stderr)

	return mainLoop(p)
}

func newTcellPlatform(s tcell.Screen) *tcellPlatform {
	return &tcellPlatform{screen: s}
}

func (p *tcellPlatform) Screen() tcell.Screen {
	return p.screen
}

func (p *tcellPlatform) RenderStatus(st Status) {
	p.Lock()
	p.status = st
	p.draw()
	p.Unlock()
}

// Write collects log output so it can be shown below the status.
func (p *tcellPlatform) Write(b []byte) (int, error) {
	p.Lock()
	defer p.Unlock()

	text := p.tail + string(b)
	parts := strings.Split(text, "\n")
	p.tail = parts[len(parts)-1]

	p.lines = append(p.lines, parts[:len(parts)-1]...)
	if n := len(p.lines); n > maxLogLines {
		p.lines = p.lines[n-maxLogLines:]
	}

	p.draw()
	return len(b), nil
}

func (p *tcellPlatform) draw() {
	s := p.screen
	st := p.status
	s.Clear()

	title := tcell.StyleDefault.Bold(true)
	label := tcell.StyleDefault.Foreground(tcell.ColorTeal)

	emitStr(s, 0, 0, title, "petbridge v"+version.Current.String())
	emitStr(s, 0, 2, label, "port")
	emitStr(s, 12, 2, tcell.StyleDefault, st.Port)
	emitStr(s, 0, 3, label, "state")
	emitStr(s, 12, 3, tcell.StyleDefault, st.State)
	emitStr(s, 0, 4, label, "writes")
	emitStr(s, 12, 4, tcell.StyleDefault, fmt.Sprint(st.Writes))
	emitStr(s, 0, 5, label, "refreshes")
	emitStr(s, 12, 5, tcell.StyleDefault, fmt.Sprint(st.Refreshes))
	emitStr(s, 0, 6, label, "keyboard")
	emitStr(s, 12, 6, tcell.StyleDefault, fmt.Sprintf("% X", st.Keys))

	_, h := s.Size()
	y := 8
	emitStr(s, 0, y, label, strings.Repeat("─", 40))

	lines := p.lines
	if free := h - y - 1; free < len(lines) {
		if free < 0 {
			free = 0
		}
		lines = lines[len(lines)-free:]
	}
	for i, ln := range lines {
		emitStr(s, 0, y+1+i, tcell.StyleDefault, ln)
	}
	s.Show()
}

func emitStr(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, c := range str {
		s.SetContent(x, y, c, nil, style)
		x++
	}
}
