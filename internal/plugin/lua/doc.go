// Package lua runs alignment scripts with gopher-lua.
//
// A State is a Lua runtime with only the base, table, string and math
// libraries. The loaders (dofile, loadfile, load, loadstring, require) are
// removed, print writes to a configurable writer, and each call runs under a
// timeout enforced through the state's context.
//
// A Module binds a buffer, its cursors and a dispatcher to the global
// tabalign table:
//
//	state := lua.NewState(lua.WithExecutionTimeout(2 * time.Second))
//	defer state.Close()
//
//	mod := lua.NewModule(buf, nil, d)
//	mod.Register(state)
//	err := state.DoString(`
//	    tabalign.add_cursor(1, 2)
//	    local ok, msg = tabalign.align()
//	    print(msg)
//	`)
package lua
