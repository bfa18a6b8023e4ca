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
	"encoding/binary"

	"riscv-emu/internal/cpu"
	"riscv-emu/internal/guest"
	"riscv-emu/internal/isa"
)

// execA handles the A extension: lr/sc and the nine amo*.w/d
// read-modify-write opcodes. Because there is exactly one hart, every
// read-modify-store here is already atomic; aq/rl are accepted (decoded
// into rec.Aq/rec.Rl) and otherwise unused. The reservation itself lives
// on cpu.Machine so any store clears it uniformly, per spec.md §4.2.
func execA(m *cpu.Machine, rec *isa.Record) (handled, pcSet bool) {
	switch rec.Op {
	case isa.OpLRW:
		addr := m.Reg[rec.Rs1] & m.WordMask
		v := int64(int32(binary.LittleEndian.Uint32(guest.At(addr, 4))))
		m.Store(rec.Rd, uint64(v))
		r := addr
		m.Reservation = &r
		return true, false
	case isa.OpLRD:
		addr := m.Reg[rec.Rs1] & m.WordMask
		v := binary.LittleEndian.Uint64(guest.At(addr, 8))
		m.Store(rec.Rd, v)
		r := addr
		m.Reservation = &r
		return true, false

	case isa.OpSCW, isa.OpSCD:
		width := 4
		if rec.Op == isa.OpSCD {
			width = 8
		}
		addr := m.Reg[rec.Rs1] & m.WordMask
		if m.Reservation != nil && *m.Reservation == addr {
			if width == 4 {
				binary.LittleEndian.PutUint32(guest.At(addr, 4), uint32(m.Reg[rec.Rs2]))
			} else {
				binary.LittleEndian.PutUint64(guest.At(addr, 8), m.Reg[rec.Rs2])
			}
			m.Store(rec.Rd, 0)
		} else {
			m.Store(rec.Rd, 1)
		}
		m.ClearReservation()
		return true, false

	default:
		return amoRMW(m, rec)
	}
}

// amoRMW performs the load-modify-store for the nine amo*.w/d opcodes.
// Operands and the previous value are sign-extended to 64 bits for the
// .w forms so both the signed comparisons (min/max) and the value
// written back to rd behave exactly like the D-width path.
func amoRMW(m *cpu.Machine, rec *isa.Record) (handled, pcSet bool) {
	is64, ok := amoWidth(rec.Op)
	if !ok {
		return false, false
	}
	addr := m.Reg[rec.Rs1] & m.WordMask

	var old, rs2 uint64
	if is64 {
		old = binary.LittleEndian.Uint64(guest.At(addr, 8))
		rs2 = m.Reg[rec.Rs2]
	} else {
		old = uint64(int64(int32(binary.LittleEndian.Uint32(guest.At(addr, 4)))))
		rs2 = uint64(int64(int32(m.Reg[rec.Rs2])))
	}

	result := amoCombine(rec.Op, old, rs2)
	if is64 {
		binary.LittleEndian.PutUint64(guest.At(addr, 8), result)
	} else {
		binary.LittleEndian.PutUint32(guest.At(addr, 4), uint32(result))
	}
	m.ClearReservation()
	m.Store(rec.Rd, old)
	return true, false
}

func amoWidth(op isa.Op) (is64, ok bool) {
	switch op {
	case isa.OpAMOSWAPD, isa.OpAMOADDD, isa.OpAMOXORD, isa.OpAMOANDD, isa.OpAMOORD,
		isa.OpAMOMIND, isa.OpAMOMAXD, isa.OpAMOMINUD, isa.OpAMOMAXUD:
		return true, true
	case isa.OpAMOSWAPW, isa.OpAMOADDW, isa.OpAMOXORW, isa.OpAMOANDW, isa.OpAMOORW,
		isa.OpAMOMINW, isa.OpAMOMAXW, isa.OpAMOMINUW, isa.OpAMOMAXUW:
		return false, true
	default:
		return false, false
	}
}

func amoCombine(op isa.Op, old, rs2 uint64) uint64 {
	switch op {
	case isa.OpAMOSWAPW, isa.OpAMOSWAPD:
		return rs2
	case isa.OpAMOADDW, isa.OpAMOADDD:
		return old + rs2
	case isa.OpAMOXORW, isa.OpAMOXORD:
		return old ^ rs2
	case isa.OpAMOANDW, isa.OpAMOANDD:
		return old & rs2
	case isa.OpAMOORW, isa.OpAMOORD:
		return old | rs2
	case isa.OpAMOMINW, isa.OpAMOMIND:
		if int64(old) < int64(rs2) {
			return old
		}
		return rs2
	case isa.OpAMOMAXW, isa.OpAMOMAXD:
		if int64(old) > int64(rs2) {
			return old
		}
		return rs2
	case isa.OpAMOMINUW, isa.OpAMOMINUD:
		if old < rs2 {
			return old
		}
		return rs2
	case isa.OpAMOMAXUW, isa.OpAMOMAXUD:
		if old > rs2 {
			return old
		}
		return rs2
	default:
		return old
	}
}
