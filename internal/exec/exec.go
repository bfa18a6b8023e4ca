// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package exec implements the per-opcode semantic actions, split by
// family (int.go, mext.go, aext.go, fdext.go, system.go) and
// parameterized by the Machine's XLEN and enabled-extension bitmask,
// which are decided once at construction rather than dispatched on per
// instruction.
package exec

import (
	"fmt"

	"riscv-emu/internal/cpu"
	"riscv-emu/internal/isa"
)

// Exec runs one decoded instruction against m. It returns true when the
// opcode was handled here, in which case PC has already been advanced
// (by length for straight-line instructions, to the branch/jump target
// for control flow). It returns false for ecall and for an illegal
// opcode, leaving PC untouched; the stepper decides what to do next.
func Exec(m *cpu.Machine, rec *isa.Record, length int) bool {
	switch rec.Op {
	case isa.OpECALL, isa.OpIllegal:
		return false
	}

	if pcSet := dispatch(m, rec, length); !pcSet {
		m.PC += uint64(length)
	}
	return true
}

// dispatch calls the family handler that owns rec.Op and reports whether
// that handler already set PC itself.
func dispatch(m *cpu.Machine, rec *isa.Record, length int) (pcSet bool) {
	if ok, pcSet := execInt(m, rec, length); ok {
		return pcSet
	}
	if ok, pcSet := execM(m, rec); ok {
		return pcSet
	}
	if ok, pcSet := execA(m, rec); ok {
		return pcSet
	}
	if ok, pcSet := execFD(m, rec); ok {
		return pcSet
	}
	if ok, pcSet := execSystem(m, rec); ok {
		return pcSet
	}
	panic(fmt.Sprintf("exec: no handler registered for op %v", rec.Op))
}

// signedXLEN reinterprets v (already masked to m.WordMask by whatever
// stored it) as a signed value of the Machine's word width.
func signedXLEN(m *cpu.Machine, v uint64) int64 {
	if m.XLEN == 32 {
		return int64(int32(uint32(v)))
	}
	return int64(v)
}

// effAddr computes rs1 + sign_extend(imm), masked to the address width,
// per spec.md §4.2's load/store contract.
func effAddr(m *cpu.Machine, rec *isa.Record) uint64 {
	return (m.Reg[rec.Rs1] + uint64(rec.Imm)) & m.WordMask
}
