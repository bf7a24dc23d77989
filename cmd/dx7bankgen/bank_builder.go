// bank_builder.go - Lua-callable bank assembly, writing patches into the
// same 128-byte layout the engine's patch decoder expects (six 17-byte
// operator blocks, a 26-byte common block, name in the last 10 bytes).
package main

import (
	lua "github.com/yuin/gopher-lua"
)

const (
	patchSize      = 128
	patchesPerBank = 32
	bankSize       = patchesPerBank * patchSize
	opBlockSize    = 17
	commonOffset   = 102
	nameOffset     = 118
)

const (
	opEGRate1 = iota
	opEGRate2
	opEGRate3
	opEGRate4
	opEGLevel1
	opEGLevel2
	opEGLevel3
	opEGLevel4
	opLevelScaleBreakpoint
	opRateScaling
	opVelocitySensitivity
	opOutputLevel
	opFreqModeCoarse
	opFreqFine
	opDetune
)

const (
	commonAlgorithm = iota
	commonFeedback
)

type bankBuilder struct {
	data [bankSize]byte
}

func newBankBuilder() *bankBuilder {
	return &bankBuilder{}
}

func (b *bankBuilder) bytes() []byte {
	return b.data[:]
}

// luaPatch implements the Lua-visible patch(index, fields) call. fields
// is a table with an optional "name" string, "algorithm" and "feedback"
// integers, and an "operators" array of up to 6 tables, each with
// "attack", "decay", "sustain", "release" (0-99 EG rates), "sustainLevel"
// (0-99), "level" (0-99 output level), "ratio" (coarse multiple, 0 means
// 0.5x) and "fine" (0-99) fields. Missing fields default to silence-safe
// values (zero output level) so a partially-specified patch never comes
// out louder than intended.
func (b *bankBuilder) luaPatch(L *lua.LState) int {
	index := L.CheckInt(1)
	fields := L.CheckTable(2)
	if index < 0 || index >= patchesPerBank {
		L.RaiseError("patch index %d out of range 0-%d", index, patchesPerBank-1)
		return 0
	}

	patch := b.data[index*patchSize : (index+1)*patchSize]
	for i := range patch {
		patch[i] = 0
	}

	if name, ok := fields.RawGetString("name").(lua.LString); ok {
		copy(patch[nameOffset:nameOffset+10], []byte(name))
	}
	patch[commonOffset+commonAlgorithm] = byte(fieldInt(fields, "algorithm", 0))
	patch[commonOffset+commonFeedback] = byte(fieldInt(fields, "feedback", 0))

	ops, ok := fields.RawGetString("operators").(*lua.LTable)
	if !ok {
		return 0
	}
	ops.ForEach(func(k, v lua.LValue) {
		idx, ok := k.(lua.LNumber)
		opTable, ok2 := v.(*lua.LTable)
		if !ok || !ok2 {
			return
		}
		op := int(idx) - 1 // Lua arrays are 1-indexed
		if op < 0 || op >= 6 {
			return
		}
		writeOperator(patch[op*opBlockSize:op*opBlockSize+opBlockSize], opTable)
	})
	return 0
}

func writeOperator(opBytes []byte, fields *lua.LTable) {
	opBytes[opEGRate1] = byte(fieldInt(fields, "attack", 99))
	opBytes[opEGRate2] = byte(fieldInt(fields, "decay", 99))
	opBytes[opEGRate3] = byte(fieldInt(fields, "sustain", 99))
	opBytes[opEGRate4] = byte(fieldInt(fields, "release", 99))
	opBytes[opEGLevel1] = byte(fieldInt(fields, "level", 0))
	opBytes[opEGLevel2] = byte(fieldInt(fields, "sustainLevel", 0))
	opBytes[opEGLevel3] = byte(fieldInt(fields, "sustainLevel", 0))
	opBytes[opEGLevel4] = 0
	opBytes[opOutputLevel] = byte(fieldInt(fields, "level", 0))
	opBytes[opFreqModeCoarse] = byte(fieldInt(fields, "ratio", 1) << 1)
	opBytes[opFreqFine] = byte(fieldInt(fields, "fine", 0))
	opBytes[opDetune] = 7
}

func fieldInt(t *lua.LTable, key string, def int) int {
	v := t.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return def
}
