package asm

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"avrsim/internal/progmem"
)

// LoadLuaProgram runs script in a fresh Lua state and assembles the global
// table it leaves behind in "program" — an array of tables with string
// fields op, a1, a2, and optionally label — the same mnemonic shape as
// Line, but built programmatically (loops, computed jump targets, table
// generation) rather than hand-written as a Go literal. This is the
// scripting hook the engine's own Lua integration is grounded on: a second
// input path into the assembler collaborator, not a new instruction format.
func LoadLuaProgram(prog *progmem.Memory, script string) (err error) {
	lines, err := EvalLuaLines(script)
	if err != nil {
		return err
	}

	// A Lua script is external input, unlike a hand-written []Line literal,
	// so a malformed mnemonic or operand here is recoverable rather than a
	// programmer bug — recover Assemble's panic into a plain error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("asm: %v", r)
		}
	}()
	Load(prog, Assemble(lines))
	return nil
}

// EvalLuaLines runs script and returns the Lines its "program" table
// describes, without assembling or writing them anywhere. Callers that
// need the resulting words cached for a later cpu.CPU.Reset (rather than
// written straight into a progmem.Memory) should assemble and load this
// result through cpu.CPU.LoadProgram instead of calling LoadLuaProgram.
func EvalLuaLines(script string) ([]Line, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(script); err != nil {
		return nil, fmt.Errorf("asm: lua script failed: %w", err)
	}

	raw := L.GetGlobal("program")
	tbl, ok := raw.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("asm: lua script did not set a \"program\" table")
	}

	var lines []Line
	var rangeErr error
	tbl.ForEach(func(_, value lua.LValue) {
		if rangeErr != nil {
			return
		}
		row, ok := value.(*lua.LTable)
		if !ok {
			rangeErr = fmt.Errorf("asm: lua program entry is not a table")
			return
		}
		lines = append(lines, Line{
			Label: luaStringField(row, "label"),
			Op:    luaStringField(row, "op"),
			A1:    luaStringField(row, "a1"),
			A2:    luaStringField(row, "a2"),
		})
	})
	if rangeErr != nil {
		return nil, rangeErr
	}
	return lines, nil
}

func luaStringField(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return ""
	}
	return v.String()
}
