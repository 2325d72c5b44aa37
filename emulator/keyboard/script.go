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

package keyboard

import (
	"log"

	"github.com/spf13/afero"
	lua "github.com/yuin/gopher-lua"
)

// ScriptHost drives the matrix from a Lua script. The script gets
// press(row, col), release(row, col), key(str) and clear(), and its
// global tick(n) function is called once per Task.
type ScriptHost struct {
	Keys *Matrix

	state  *lua.LState
	ticks  int
	failed bool
}

func LoadScript(fs afero.Fs, name string, keys *Matrix) (*ScriptHost, error) {
	src, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, err
	}
	return NewScriptHost(string(src), keys)
}

func NewScriptHost(src string, keys *Matrix) (*ScriptHost, error) {
	h := &ScriptHost{Keys: keys, state: lua.NewState()}

	L := h.state
	L.SetGlobal("ROWS", lua.LNumber(Rows))
	L.SetGlobal("press", L.NewFunction(h.luaPress))
	L.SetGlobal("release", L.NewFunction(h.luaRelease))
	L.SetGlobal("key", L.NewFunction(h.luaKey))
	L.SetGlobal("clear", L.NewFunction(h.luaClear))

	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, err
	}
	return h, nil
}

func (h *ScriptHost) Task() {
	if h.failed {
		return
	}

	fn := h.state.GetGlobal("tick")
	if fn == lua.LNil {
		return
	}

	err := h.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(h.ticks))
	h.ticks++
	if err != nil {
		log.Print("keyboard script stopped: ", err)
		h.failed = true
	}
}

func (h *ScriptHost) Close() error {
	h.state.Close()
	return nil
}

func checkKey(L *lua.LState) Key {
	row, col := L.CheckInt(1), L.CheckInt(2)
	if row < 0 || row >= Rows || col < 0 || col >= Columns {
		L.ArgError(1, "key outside of matrix")
	}
	return Key{Row: uint8(row), Col: uint8(col)}
}

func (h *ScriptHost) luaPress(L *lua.LState) int {
	h.Keys.Press(checkKey(L))
	return 0
}

func (h *ScriptHost) luaRelease(L *lua.LState) int {
	h.Keys.Release(checkKey(L))
	return 0
}

func (h *ScriptHost) luaKey(L *lua.LState) int {
	for _, ch := range L.CheckString(1) {
		k, ok := Lookup(ch)
		if !ok {
			L.ArgError(1, "no key for "+string(ch))
		}
		h.Keys.Press(k)
	}
	return 0
}

func (h *ScriptHost) luaClear(L *lua.LState) int {
	h.Keys.Clear()
	return 0
}
