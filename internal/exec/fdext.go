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
	"math"

	"riscv-emu/internal/cpu"
	"riscv-emu/internal/guest"
	"riscv-emu/internal/isa"
)

// execFD handles the F and D extensions. Arithmetic uses Go's native
// float32/float64 operators (round-to-nearest-even, matching spec.md
// §4.2's fallback for rm==0b111); fused multiply-add goes through
// math.FMA for a single rounding step. NaN-boxing is enforced by
// cpu.Machine.ReadF32/WriteF32, not here.
func execFD(m *cpu.Machine, rec *isa.Record) (handled, pcSet bool) {
	switch rec.Op {
	case isa.OpFLW:
		m.WriteF32(rec.Rd, math.Float32frombits(binary.LittleEndian.Uint32(guest.At(effAddr(m, rec), 4))))
	case isa.OpFLD:
		m.WriteF64(rec.Rd, math.Float64frombits(binary.LittleEndian.Uint64(guest.At(effAddr(m, rec), 8))))
	case isa.OpFSW:
		binary.LittleEndian.PutUint32(guest.At(effAddr(m, rec), 4), math.Float32bits(m.ReadF32(rec.Rs2)))
		m.ClearReservation()
	case isa.OpFSD:
		binary.LittleEndian.PutUint64(guest.At(effAddr(m, rec), 8), math.Float64bits(m.ReadF64(rec.Rs2)))
		m.ClearReservation()

	case isa.OpFMADDS:
		m.WriteF32(rec.Rd, float32(math.FMA(float64(m.ReadF32(rec.Rs1)), float64(m.ReadF32(rec.Rs2)), float64(m.ReadF32(rec.Rs3)))))
	case isa.OpFMSUBS:
		m.WriteF32(rec.Rd, float32(math.FMA(float64(m.ReadF32(rec.Rs1)), float64(m.ReadF32(rec.Rs2)), -float64(m.ReadF32(rec.Rs3)))))
	case isa.OpFNMSUBS:
		m.WriteF32(rec.Rd, float32(math.FMA(-float64(m.ReadF32(rec.Rs1)), float64(m.ReadF32(rec.Rs2)), float64(m.ReadF32(rec.Rs3)))))
	case isa.OpFNMADDS:
		m.WriteF32(rec.Rd, float32(math.FMA(-float64(m.ReadF32(rec.Rs1)), float64(m.ReadF32(rec.Rs2)), -float64(m.ReadF32(rec.Rs3)))))
	case isa.OpFMADDD:
		m.WriteF64(rec.Rd, math.FMA(m.ReadF64(rec.Rs1), m.ReadF64(rec.Rs2), m.ReadF64(rec.Rs3)))
	case isa.OpFMSUBD:
		m.WriteF64(rec.Rd, math.FMA(m.ReadF64(rec.Rs1), m.ReadF64(rec.Rs2), -m.ReadF64(rec.Rs3)))
	case isa.OpFNMSUBD:
		m.WriteF64(rec.Rd, math.FMA(-m.ReadF64(rec.Rs1), m.ReadF64(rec.Rs2), m.ReadF64(rec.Rs3)))
	case isa.OpFNMADDD:
		m.WriteF64(rec.Rd, math.FMA(-m.ReadF64(rec.Rs1), m.ReadF64(rec.Rs2), -m.ReadF64(rec.Rs3)))

	case isa.OpFADDS:
		m.WriteF32(rec.Rd, m.ReadF32(rec.Rs1)+m.ReadF32(rec.Rs2))
	case isa.OpFSUBS:
		m.WriteF32(rec.Rd, m.ReadF32(rec.Rs1)-m.ReadF32(rec.Rs2))
	case isa.OpFMULS:
		m.WriteF32(rec.Rd, m.ReadF32(rec.Rs1)*m.ReadF32(rec.Rs2))
	case isa.OpFDIVS:
		m.WriteF32(rec.Rd, m.ReadF32(rec.Rs1)/m.ReadF32(rec.Rs2))
	case isa.OpFSQRTS:
		m.WriteF32(rec.Rd, float32(math.Sqrt(float64(m.ReadF32(rec.Rs1)))))
	case isa.OpFADDD:
		m.WriteF64(rec.Rd, m.ReadF64(rec.Rs1)+m.ReadF64(rec.Rs2))
	case isa.OpFSUBD:
		m.WriteF64(rec.Rd, m.ReadF64(rec.Rs1)-m.ReadF64(rec.Rs2))
	case isa.OpFMULD:
		m.WriteF64(rec.Rd, m.ReadF64(rec.Rs1)*m.ReadF64(rec.Rs2))
	case isa.OpFDIVD:
		m.WriteF64(rec.Rd, m.ReadF64(rec.Rs1)/m.ReadF64(rec.Rs2))
	case isa.OpFSQRTD:
		m.WriteF64(rec.Rd, math.Sqrt(m.ReadF64(rec.Rs1)))

	case isa.OpFSGNJS:
		m.WriteF32(rec.Rd, float32(sgnj(float64(m.ReadF32(rec.Rs1)), float64(m.ReadF32(rec.Rs2)), false, false)))
	case isa.OpFSGNJNS:
		m.WriteF32(rec.Rd, float32(sgnj(float64(m.ReadF32(rec.Rs1)), float64(m.ReadF32(rec.Rs2)), true, false)))
	case isa.OpFSGNJXS:
		m.WriteF32(rec.Rd, float32(sgnj(float64(m.ReadF32(rec.Rs1)), float64(m.ReadF32(rec.Rs2)), false, true)))
	case isa.OpFSGNJD:
		m.WriteF64(rec.Rd, sgnj(m.ReadF64(rec.Rs1), m.ReadF64(rec.Rs2), false, false))
	case isa.OpFSGNJND:
		m.WriteF64(rec.Rd, sgnj(m.ReadF64(rec.Rs1), m.ReadF64(rec.Rs2), true, false))
	case isa.OpFSGNJXD:
		m.WriteF64(rec.Rd, sgnj(m.ReadF64(rec.Rs1), m.ReadF64(rec.Rs2), false, true))

	case isa.OpFMINS:
		m.WriteF32(rec.Rd, float32(fminmax(float64(m.ReadF32(rec.Rs1)), float64(m.ReadF32(rec.Rs2)), false)))
	case isa.OpFMAXS:
		m.WriteF32(rec.Rd, float32(fminmax(float64(m.ReadF32(rec.Rs1)), float64(m.ReadF32(rec.Rs2)), true)))
	case isa.OpFMIND:
		m.WriteF64(rec.Rd, fminmax(m.ReadF64(rec.Rs1), m.ReadF64(rec.Rs2), false))
	case isa.OpFMAXD:
		m.WriteF64(rec.Rd, fminmax(m.ReadF64(rec.Rs1), m.ReadF64(rec.Rs2), true))

	case isa.OpFCVTSD:
		m.WriteF32(rec.Rd, float32(m.ReadF64(rec.Rs1)))
	case isa.OpFCVTDS:
		m.WriteF64(rec.Rd, float64(m.ReadF32(rec.Rs1)))

	case isa.OpFEQS:
		m.Store(rec.Rd, boolU64(m.ReadF32(rec.Rs1) == m.ReadF32(rec.Rs2)))
	case isa.OpFLTS:
		m.Store(rec.Rd, boolU64(m.ReadF32(rec.Rs1) < m.ReadF32(rec.Rs2)))
	case isa.OpFLES:
		m.Store(rec.Rd, boolU64(m.ReadF32(rec.Rs1) <= m.ReadF32(rec.Rs2)))
	case isa.OpFEQD:
		m.Store(rec.Rd, boolU64(m.ReadF64(rec.Rs1) == m.ReadF64(rec.Rs2)))
	case isa.OpFLTD:
		m.Store(rec.Rd, boolU64(m.ReadF64(rec.Rs1) < m.ReadF64(rec.Rs2)))
	case isa.OpFLED:
		m.Store(rec.Rd, boolU64(m.ReadF64(rec.Rs1) <= m.ReadF64(rec.Rs2)))

	case isa.OpFCLASSS:
		m.Store(rec.Rd, fclass32(m.ReadF32(rec.Rs1)))
	case isa.OpFCLASSD:
		m.Store(rec.Rd, fclass64(m.ReadF64(rec.Rs1)))

	case isa.OpFCVTWS:
		m.Store(rec.Rd, uint64(f64ToI32(rint(float64(m.ReadF32(rec.Rs1)), rec.RM))))
	case isa.OpFCVTWUS:
		m.Store(rec.Rd, uint64(int32(f64ToU32(rint(float64(m.ReadF32(rec.Rs1)), rec.RM)))))
	case isa.OpFCVTLS:
		m.Store(rec.Rd, uint64(f64ToI64(rint(float64(m.ReadF32(rec.Rs1)), rec.RM))))
	case isa.OpFCVTLUS:
		m.Store(rec.Rd, f64ToU64(rint(float64(m.ReadF32(rec.Rs1)), rec.RM)))
	case isa.OpFCVTWD:
		m.Store(rec.Rd, uint64(f64ToI32(rint(m.ReadF64(rec.Rs1), rec.RM))))
	case isa.OpFCVTWUD:
		m.Store(rec.Rd, uint64(int32(f64ToU32(rint(m.ReadF64(rec.Rs1), rec.RM)))))
	case isa.OpFCVTLD:
		m.Store(rec.Rd, uint64(f64ToI64(rint(m.ReadF64(rec.Rs1), rec.RM))))
	case isa.OpFCVTLUD:
		m.Store(rec.Rd, f64ToU64(rint(m.ReadF64(rec.Rs1), rec.RM)))

	case isa.OpFCVTSW:
		m.WriteF32(rec.Rd, float32(int32(m.Reg[rec.Rs1])))
	case isa.OpFCVTSWU:
		m.WriteF32(rec.Rd, float32(uint32(m.Reg[rec.Rs1])))
	case isa.OpFCVTSL:
		m.WriteF32(rec.Rd, float32(signedXLEN(m, m.Reg[rec.Rs1])))
	case isa.OpFCVTSLU:
		m.WriteF32(rec.Rd, float32(m.Reg[rec.Rs1]))
	case isa.OpFCVTDW:
		m.WriteF64(rec.Rd, float64(int32(m.Reg[rec.Rs1])))
	case isa.OpFCVTDWU:
		m.WriteF64(rec.Rd, float64(uint32(m.Reg[rec.Rs1])))
	case isa.OpFCVTDL:
		m.WriteF64(rec.Rd, float64(signedXLEN(m, m.Reg[rec.Rs1])))
	case isa.OpFCVTDLU:
		m.WriteF64(rec.Rd, float64(m.Reg[rec.Rs1]))

	case isa.OpFMVXW:
		m.Store(rec.Rd, uint64(int64(int32(math.Float32bits(m.ReadF32(rec.Rs1))))))
	case isa.OpFMVWX:
		m.WriteF32(rec.Rd, math.Float32frombits(uint32(m.Reg[rec.Rs1])))
	case isa.OpFMVXD:
		m.Store(rec.Rd, math.Float64bits(m.ReadF64(rec.Rs1)))
	case isa.OpFMVDX:
		m.WriteF64(rec.Rd, math.Float64frombits(m.Reg[rec.Rs1]))

	default:
		return false, false
	}
	return true, false
}

func sgnj(a, b float64, negate, xor bool) float64 {
	sign := math.Signbit(b)
	switch {
	case xor:
		sign = math.Signbit(a) != math.Signbit(b)
	case negate:
		sign = !sign
	}
	if sign {
		return math.Copysign(a, -1)
	}
	return math.Copysign(a, 1)
}

// fminmax implements fmin/fmax's NaN-propagation rule: if exactly one
// operand is NaN, the other is returned; if both are NaN, the result is
// Go's math.NaN(), which is not rewritten to the canonical NaN here (cpu's
// NaN-boxing check only replaces values that are not properly boxed).
func fminmax(a, b float64, max bool) float64 {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return math.NaN()
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	}
	if max {
		return math.Max(a, b)
	}
	return math.Min(a, b)
}

// rint rounds v per the instruction's rm field; 0b111 ("dynamic") falls
// back to round-to-nearest-even, per spec.md §4.2.
func rint(v float64, rm uint8) float64 {
	switch rm {
	case 1:
		return math.Trunc(v)
	case 2:
		return math.Floor(v)
	case 3:
		return math.Ceil(v)
	case 4:
		return math.Round(v)
	default:
		return math.RoundToEven(v)
	}
}

func f64ToI64(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return math.MaxInt64
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v < math.MinInt64:
		return math.MinInt64
	default:
		return int64(v)
	}
}

func f64ToU64(v float64) uint64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v >= math.MaxUint64:
		return math.MaxUint64
	default:
		return uint64(v)
	}
}

func f64ToI32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return math.MaxInt32
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

func f64ToU32(v float64) uint32 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v >= math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}

// fclass32/fclass64 compute the RISC-V fclass bit pattern (bit 0 = -inf
// through bit 9 = quiet NaN), per the F/D chapters of the riscv-spec.
func fclass32(v float32) uint64 {
	switch {
	case math.IsNaN(float64(v)):
		if math.Float32bits(v)&(1<<22) != 0 {
			return 1 << 9
		}
		return 1 << 8
	case math.IsInf(float64(v), -1):
		return 1 << 0
	case math.IsInf(float64(v), 1):
		return 1 << 7
	case v == 0:
		if math.Signbit(float64(v)) {
			return 1 << 3
		}
		return 1 << 4
	default:
		const smallestNormal32 = 1.1754943508222875e-38
		abs := math.Abs(float64(v))
		neg := math.Signbit(float64(v))
		sub := abs < smallestNormal32
		switch {
		case neg && sub:
			return 1 << 2
		case neg:
			return 1 << 1
		case sub:
			return 1 << 5
		default:
			return 1 << 6
		}
	}
}

func fclass64(v float64) uint64 {
	switch {
	case math.IsNaN(v):
		if math.Float64bits(v)&(1<<51) != 0 {
			return 1 << 9
		}
		return 1 << 8
	case math.IsInf(v, -1):
		return 1 << 0
	case math.IsInf(v, 1):
		return 1 << 7
	case v == 0:
		if math.Signbit(v) {
			return 1 << 3
		}
		return 1 << 4
	default:
		const smallestNormal64 = 2.2250738585072014e-308
		abs := math.Abs(v)
		neg := math.Signbit(v)
		sub := abs < smallestNormal64
		switch {
		case neg && sub:
			return 1 << 2
		case neg:
			return 1 << 1
		case sub:
			return 1 << 5
		default:
			return 1 << 6
		}
	}
}
