package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// stringsFromTable reads the array part of t. Every element must be a
// string.
func stringsFromTable(t *lua.LTable) ([]string, error) {
	n := t.Len()
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		v := t.RawGetInt(i)
		s, ok := v.(lua.LString)
		if !ok {
			return nil, fmt.Errorf("element %d is %s, not a string", i, v.Type())
		}
		out = append(out, string(s))
	}
	return out, nil
}

// stringsToTable builds an array table from ss.
func stringsToTable(L *lua.LState, ss []string) *lua.LTable {
	t := L.CreateTable(len(ss), 0)
	for _, s := range ss {
		t.Append(lua.LString(s))
	}
	return t
}
