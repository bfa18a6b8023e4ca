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
	"math"
	"math/bits"

	"riscv-emu/internal/cpu"
	"riscv-emu/internal/isa"
)

// execM handles the M extension: multiply/divide/remainder, including the
// RV64-only *w 32-bit forms. Division by zero and the INT_MIN/-1 overflow
// case follow spec.md §4.2/§8 exactly; Go's own division semantics already
// give INT_MIN/-1 == INT_MIN and the matching remainder, so only the
// zero-divisor case needs an explicit guard.
func execM(m *cpu.Machine, rec *isa.Record) (handled, pcSet bool) {
	a, b := m.Reg[rec.Rs1], m.Reg[rec.Rs2]
	switch rec.Op {
	case isa.OpMUL:
		m.Store(rec.Rd, a*b)
	case isa.OpMULH:
		m.Store(rec.Rd, mulhWide(m, a, b))
	case isa.OpMULHSU:
		m.Store(rec.Rd, mulhsuWide(m, a, b))
	case isa.OpMULHU:
		m.Store(rec.Rd, mulhuWide(m, a, b))
	case isa.OpDIV:
		as, bs := signedXLEN(m, a), signedXLEN(m, b)
		if bs == 0 {
			m.Store(rec.Rd, math.MaxUint64)
		} else {
			m.Store(rec.Rd, uint64(as/bs))
		}
	case isa.OpDIVU:
		if b == 0 {
			m.Store(rec.Rd, math.MaxUint64)
		} else {
			m.Store(rec.Rd, a/b)
		}
	case isa.OpREM:
		as, bs := signedXLEN(m, a), signedXLEN(m, b)
		if bs == 0 {
			m.Store(rec.Rd, a)
		} else {
			m.Store(rec.Rd, uint64(as%bs))
		}
	case isa.OpREMU:
		if b == 0 {
			m.Store(rec.Rd, a)
		} else {
			m.Store(rec.Rd, a%b)
		}

	case isa.OpMULW:
		m.Store(rec.Rd, uint64(int32(a)*int32(b)))
	case isa.OpDIVW:
		if int32(b) == 0 {
			m.Store(rec.Rd, math.MaxUint64)
		} else {
			m.Store(rec.Rd, uint64(int32(a)/int32(b)))
		}
	case isa.OpDIVUW:
		if uint32(b) == 0 {
			m.Store(rec.Rd, math.MaxUint64)
		} else {
			m.Store(rec.Rd, uint64(int32(uint32(a)/uint32(b))))
		}
	case isa.OpREMW:
		if int32(b) == 0 {
			m.Store(rec.Rd, uint64(int32(a)))
		} else {
			m.Store(rec.Rd, uint64(int32(a)%int32(b)))
		}
	case isa.OpREMUW:
		if uint32(b) == 0 {
			m.Store(rec.Rd, uint64(int32(a)))
		} else {
			m.Store(rec.Rd, uint64(int32(uint32(a)%uint32(b))))
		}
	default:
		return false, false
	}
	return true, false
}

// mulhuWide/mulhWide/mulhsuWide return the high half of a full-width
// product, where "full width" is the Machine's XLEN: for RV64 that needs
// a genuine 128-bit product (math/bits.Mul64 plus the standard signed-
// correction trick); for RV32 the 64-bit product of two 32-bit operands
// never overflows 64 bits, so a plain widen-multiply-shift suffices.
func mulhuWide(m *cpu.Machine, a, b uint64) uint64 {
	if m.XLEN == 64 {
		hi, _ := bits.Mul64(a, b)
		return hi
	}
	return (uint64(uint32(a)) * uint64(uint32(b))) >> 32
}

func mulhWide(m *cpu.Machine, a, b uint64) uint64 {
	if m.XLEN == 64 {
		hi, _ := bits.Mul64(a, b)
		if int64(a) < 0 {
			hi -= b
		}
		if int64(b) < 0 {
			hi -= a
		}
		return hi
	}
	return uint64((int64(int32(a)) * int64(int32(b))) >> 32)
}

func mulhsuWide(m *cpu.Machine, a, b uint64) uint64 {
	if m.XLEN == 64 {
		hi, _ := bits.Mul64(a, b)
		if int64(a) < 0 {
			hi -= b
		}
		return hi
	}
	return uint64((int64(int32(a)) * int64(uint32(b))) >> 32)
}
