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

package exec

import (
	"riscv-emu/internal/cpu"
	"riscv-emu/internal/isa"
)

// execSystem handles everything left over once int/M/A/F/D have had their
// turn: FENCE and FENCE.I (no-ops on a single in-order hart), EBREAK (a
// no-op trap placeholder, since there is no debugger to hand control to),
// and the CSR instructions, restricted to the three read-only performance
// counters spec.md §6 names; any other CSR address behaves as inert
// per-hart storage, matching the teacher's csr* helpers in rvi.go.
func execSystem(m *cpu.Machine, rec *isa.Record) (handled, pcSet bool) {
	switch rec.Op {
	case isa.OpFENCE, isa.OpFENCEI, isa.OpEBREAK:
		return true, false

	case isa.OpCSRRW, isa.OpCSRRS, isa.OpCSRRC, isa.OpCSRRWI, isa.OpCSRRSI, isa.OpCSRRCI:
		csrOp(m, rec)
		return true, false

	default:
		return false, false
	}
}

// csrOp implements the read-then-modify-write contract common to all six
// CSR opcodes: the CSR address is in Imm, and rd always receives the
// pre-modification value (x0 reads are still performed for their side
// effects, but the result is discarded by Store). csrrw and csrrwi always
// write; csrrs, csrrc, csrrsi and csrrci leave the CSR untouched when Rs1
// is zero (for the *I forms Rs1 holds the 5-bit immediate).
func csrOp(m *cpu.Machine, rec *isa.Record) {
	addr := rec.Imm
	old := readCSR(m, uint16(addr))
	m.Store(rec.Rd, old)

	var operand uint64
	var write bool
	switch rec.Op {
	case isa.OpCSRRW:
		operand, write = m.Reg[rec.Rs1], true
	case isa.OpCSRRS:
		operand, write = old|m.Reg[rec.Rs1], rec.Rs1 != 0
	case isa.OpCSRRC:
		operand, write = old&^m.Reg[rec.Rs1], rec.Rs1 != 0
	case isa.OpCSRRWI:
		operand, write = uint64(rec.Rs1), true
	case isa.OpCSRRSI:
		operand, write = old|uint64(rec.Rs1), rec.Rs1 != 0
	case isa.OpCSRRCI:
		operand, write = old&^uint64(rec.Rs1), rec.Rs1 != 0
	}
	if write {
		writeCSR(m, uint16(addr), operand)
	}
}

// RDCYCLE/RDTIME/RDINSTRET are read-only and mirror m.Steps; every other
// CSR address is plain per-hart storage in m.CSR.
func readCSR(m *cpu.Machine, addr uint16) uint64 {
	switch addr {
	case cpu.RDCYCLE, cpu.RDTIME, cpu.RDINSTRET:
		return uint64(m.Steps)
	default:
		return m.CSR[addr]
	}
}

func writeCSR(m *cpu.Machine, addr uint16, v uint64) {
	switch addr {
	case cpu.RDCYCLE, cpu.RDTIME, cpu.RDINSTRET:
		return
	default:
		m.CSR[addr] = v
	}
}
