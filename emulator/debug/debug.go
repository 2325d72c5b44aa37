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

package debug

import (
	"bytes"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"
)

var (
	EnableDebug bool
	debugAddr   = ":2323"
	tcpDebug    net.Conn
)

var (
	internalLogger = &Logger{out: os.Stderr}
	Log            = log.New(internalLogger, "", 0)
)

type Logger struct {
	sync.RWMutex

	out io.Writer
}

// Write sends p to the telnet client if one is connected. A lost
// client falls back to local output.
func (l *Logger) Write(p []byte) (int, error) {
	l.Lock()
	defer l.Unlock()

	if tcpDebug != nil {
		if _, err := tcpDebug.Write(bytes.ReplaceAll(p, []byte{0xA}, []byte{0xA, 0xD})); err == nil {
			return len(p), nil
		}
		tcpDebug.Close()
		tcpDebug = nil
	}
	return l.out.Write(p)
}

func init() {
	flag.BoolVar(&EnableDebug, "debug", false, "stream log output to a telnet client")
	flag.StringVar(&debugAddr, "debug-addr", debugAddr, "address of the telnet log stream")

	log.SetOutput(internalLogger)
}

// SetOutput changes where local log output goes.
func SetOutput(w io.Writer) {
	internalLogger.Lock()
	internalLogger.out = w
	internalLogger.Unlock()
}

// Listen accepts telnet clients and redirects the log to the latest one.
func Listen() error {
	ln, err := net.Listen("tcp", debugAddr)
	if err != nil {
		return err
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				log.Print(err)
				return
			}
			internalLogger.Lock()
			if tcpDebug != nil {
				tcpDebug.Close()
			}
			tcpDebug = conn
			internalLogger.Unlock()

			name, _ := os.Hostname()
			log.Print("Connected to: ", name)
		}
	}()
	return nil
}

// Watchdog reports bus activity. A peer that stops answering freezes
// the write count, so a count that stays put for a whole interval is
// reported as a stall. It only ever observes.
type Watchdog struct {
	Count    func() uint64
	Interval time.Duration

	last    uint64
	stalled bool
	quit    chan struct{}
}

func (w *Watchdog) Start() {
	if w.Interval <= 0 {
		w.Interval = 5 * time.Second
	}
	quit := make(chan struct{})
	w.quit = quit
	w.last = w.Count()

	go func() {
		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.check()
			case <-quit:
				return
			}
		}
	}()
}

func (w *Watchdog) Stop() {
	if w.quit != nil {
		close(w.quit)
		w.quit = nil
	}
}

func (w *Watchdog) check() bool {
	n := w.Count()
	if n == w.last {
		if !w.stalled {
			log.Printf("bus stalled at %d writes", n)
		}
		w.stalled = true
		return false
	}

	if w.stalled {
		log.Printf("bus resumed at %d writes", n)
	}
	rate := float64(n-w.last) / w.Interval.Seconds()
	log.Printf("%d writes (%.0f/s)", n, rate)

	w.stalled = false
	w.last = n
	return true
}
