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

package isa

// Register numbers used while building RVC records; mirrors cpu.SP/RA/Zero
// but kept local so isa doesn't depend on cpu.
const (
	rvcZero = 0
	rvcRA   = 1
	rvcSP   = 2
)

// rvcRegOffset maps RVC's 3-bit compressed register fields (x8-x15) to
// their 5-bit register numbers.
const rvcRegOffset = 8

// decodeRVC decodes a single 16-bit compressed instruction into its
// canonical 32-bit-equivalent Record (spec.md §4.1, "Decompression"). The
// register-field mapping for a handful of opcodes (c.jal, c.addiw, c.flw,
// c.ld, and their *sp forms) differs between RV32C and RV64C.
func decodeRVC(in uint16, xlen int, ext Ext) *Record {
	if in == 0 {
		return &Record{Op: OpIllegal, Raw: uint64(in), Compressed: true}
	}

	rec := func(op Op, codec Codec, rd, rs1, rs2 uint64, imm uint64, signBit int) *Record {
		r := &Record{Op: op, Codec: codec, Raw: uint64(in), Compressed: true,
			Rd: uint8(rd), Rs1: uint8(rs1), Rs2: uint8(rs2)}
		if signBit >= 0 {
			r.Imm = int64(signExtend(imm, signBit))
		} else {
			r.Imm = int64(imm)
		}
		return r
	}
	illegalC := func() *Record { return &Record{Op: OpIllegal, Raw: uint64(in), Compressed: true} }
	hasF := ext&ExtF != 0
	hasD := ext&ExtD != 0

	switch in>>11&0x1c | in&0x3 {
	case 0x00: // C.ADDI4SPN
		imm, r := decodeCIW(in)
		imm = imm&0xc0>>2 | imm&0x3c<<4 | imm&0x2<<1 | imm&0x1<<3
		if imm == 0 {
			return illegalC()
		}
		return rec(OpADDI, CodecI, r, rvcSP, 0, imm, -1)
	case 0x04: // C.FLD (RV32/64)
		if !hasD {
			return illegalC()
		}
		imm, r1, r2 := decodeCL(in)
		imm = (imm<<6 | imm<<1) & 0xf8
		return rec(OpFLD, CodecIF, r2, r1, 0, imm, -1)
	case 0x08: // C.LW
		imm, r1, r2 := decodeCL(in)
		imm = (imm<<5 | imm) & 0x3e << 1
		return rec(OpLW, CodecI, r2, r1, 0, imm, -1)
	case 0x0C: // C.FLW (RV32) / C.LD (RV64)
		if xlen == 64 {
			imm, r1, r2 := decodeCL(in)
			imm = (imm<<6 | imm<<1) & 0xf8
			return rec(OpLD, CodecI, r2, r1, 0, imm, -1)
		}
		if !hasF {
			return illegalC()
		}
		imm, r1, r2 := decodeCL(in)
		imm = (imm<<5 | imm) & 0x3e << 1
		return rec(OpFLW, CodecIF, r2, r1, 0, imm, -1)
	case 0x10:
		return illegalC() // reserved
	case 0x14: // C.FSD (RV32/64)
		if !hasD {
			return illegalC()
		}
		imm, r1, r2 := decodeCS(in)
		imm = (imm<<5 | imm) << 1 & 0xf8
		return rec(OpFSD, CodecSF, 0, r1, r2, imm, -1)
	case 0x18: // C.SW
		imm, r1, r2 := decodeCS(in)
		imm = (imm<<5 | imm) << 1 & 0x7c
		return rec(OpSW, CodecS, 0, r1, r2, imm, -1)
	case 0x1C: // C.FSW (RV32) / C.SD (RV64)
		if xlen == 64 {
			imm, r1, r2 := decodeCS(in)
			imm = (imm<<5 | imm) << 1 & 0xf8
			return rec(OpSD, CodecS, 0, r1, r2, imm, -1)
		}
		if !hasF {
			return illegalC()
		}
		imm, r1, r2 := decodeCS(in)
		imm = (imm<<5 | imm) << 1 & 0x7c
		return rec(OpFSW, CodecSF, 0, r1, r2, imm, -1)
	case 0x01: // C.NOP / C.ADDI
		imm, r := decodeCI(in)
		return rec(OpADDI, CodecI, r, r, 0, imm, 5)
	case 0x05: // C.JAL (RV32) / C.ADDIW (RV64)
		if xlen == 32 {
			imm := decodeCJ(in)
			imm = imm&0x200>>5 | imm&0x40<<4 | imm&0x5a0<<1 | imm&0x10<<3 | imm&0xe | imm&1<<5
			return rec(OpJAL, CodecJ, rvcRA, 0, 0, imm, 11)
		}
		imm, r := decodeCI(in)
		if r == 0 {
			return illegalC()
		}
		return rec(OpADDIW, CodecI, r, r, 0, imm, 5)
	case 0x09: // C.LI
		imm, r := decodeCI(in)
		return rec(OpADDI, CodecI, r, rvcZero, 0, imm, 5)
	case 0x0D: // C.ADDI16SP / C.LUI
		imm, r := decodeCI(in)
		if r != rvcSP {
			if r == 0 {
				return illegalC()
			}
			return rec(OpLUI, CodecU, r, 0, 0, imm<<12, 17)
		}
		imm = imm&0x20<<4 | imm&0x10 | imm&0x8<<3 | imm&0x6<<6 | imm&0x1<<5
		if imm == 0 {
			return illegalC()
		}
		return rec(OpADDI, CodecI, rvcSP, rvcSP, 0, imm, 9)
	case 0x11:
		switch in >> 10 & 0x3 {
		case 0x00: // C.SRLI
			imm, r := decodeShiftCB(in)
			return rec(OpSRLI, CodecI, r, r, 0, imm, -1)
		case 0x01: // C.SRAI
			imm, r := decodeShiftCB(in)
			return rec(OpSRAI, CodecI, r, r, 0, imm, -1)
		case 0x02: // C.ANDI
			imm, r := decodeShiftCB(in)
			return rec(OpANDI, CodecI, r, r, 0, signExtend(imm, 5), -1)
		}
		_, r1, r2 := decodeCS(in)
		switch in>>8&0x1c | in>>5&0x3 {
		case 0xc:
			return rec(OpSUB, CodecR, r1, r1, r2, 0, -1)
		case 0xd:
			return rec(OpXOR, CodecR, r1, r1, r2, 0, -1)
		case 0xe:
			return rec(OpOR, CodecR, r1, r1, r2, 0, -1)
		case 0xf:
			return rec(OpAND, CodecR, r1, r1, r2, 0, -1)
		case 0x1c:
			if xlen != 64 {
				return illegalC()
			}
			return rec(OpSUBW, CodecR, r1, r1, r2, 0, -1)
		case 0x1d:
			if xlen != 64 {
				return illegalC()
			}
			return rec(OpADDW, CodecR, r1, r1, r2, 0, -1)
		}
		return illegalC()
	case 0x15: // C.J
		imm := decodeCJ(in)
		imm = imm&0x200>>5 | imm&0x40<<4 | imm&0x5a0<<1 | imm&0x10<<3 | imm&0xe | imm&1<<5
		return rec(OpJAL, CodecJ, rvcZero, 0, 0, imm, 11)
	case 0x19: // C.BEQZ
		imm, r := decodeCB(in)
		imm = imm&0x80<<1 | imm&0x60>>2 | imm&0x18<<3 | imm&0x6 | imm&0x1<<5
		return rec(OpBEQ, CodecB, 0, r, rvcZero, imm, 8)
	case 0x1D: // C.BNEZ
		imm, r := decodeCB(in)
		imm = imm&0x80<<1 | imm&0x60>>2 | imm&0x18<<3 | imm&0x6 | imm&0x1<<5
		return rec(OpBNE, CodecB, 0, r, rvcZero, imm, 8)
	case 0x02: // C.SLLI
		imm, r := decodeCI(in)
		shamtBits := 5
		if xlen == 64 {
			shamtBits = 6
		}
		if imm>>uint(shamtBits) != 0 {
			return illegalC()
		}
		return rec(OpSLLI, CodecI, r, r, 0, imm, -1)
	case 0x06: // C.FLDSP (RV32/64)
		if !hasD {
			return illegalC()
		}
		imm, r := decodeCI(in)
		imm = (imm<<6 | imm) & 0x1f8
		return rec(OpFLD, CodecIF, r, rvcSP, 0, imm, -1)
	case 0x0A: // C.LWSP
		imm, r := decodeCI(in)
		imm = (imm<<6 | imm) & 0xfc
		if r == 0 {
			return illegalC()
		}
		return rec(OpLW, CodecI, r, rvcSP, 0, imm, -1)
	case 0x0E: // C.FLWSP (RV32) / C.LDSP (RV64)
		imm, r := decodeCI(in)
		if xlen == 64 {
			imm = (imm<<6 | imm) & 0x1f8
			if r == 0 {
				return illegalC()
			}
			return rec(OpLD, CodecI, r, rvcSP, 0, imm, -1)
		}
		if !hasF {
			return illegalC()
		}
		imm = (imm<<6 | imm) & 0xfc
		return rec(OpFLW, CodecIF, r, rvcSP, 0, imm, -1)
	case 0x12:
		r1, r2 := decodeCR(in)
		b := in & 0x1000
		switch {
		case b == 0 && r2 == 0: // C.JR
			if r1 == 0 {
				return illegalC()
			}
			return rec(OpJALR, CodecI, rvcZero, r1, 0, 0, -1)
		case b == 0: // C.MV
			return rec(OpADD, CodecR, r1, rvcZero, r2, 0, -1)
		case b == 0x1000 && r1 == 0 && r2 == 0: // C.EBREAK
			return &Record{Op: OpEBREAK, Codec: CodecNone, Raw: uint64(in), Compressed: true}
		case b == 0x1000 && r2 == 0: // C.JALR
			if r1 == 0 {
				return illegalC()
			}
			return rec(OpJALR, CodecI, rvcRA, r1, 0, 0, -1)
		default: // C.ADD
			return rec(OpADD, CodecR, r1, r1, r2, 0, -1)
		}
	case 0x16: // C.FSDSP (RV32/64)
		if !hasD {
			return illegalC()
		}
		imm, r := decodeCSS(in)
		imm = (imm<<6 | imm) & 0x1f8
		return rec(OpFSD, CodecSF, 0, rvcSP, r, imm, -1)
	case 0x1A: // C.SWSP
		imm, r := decodeCSS(in)
		imm = (imm<<6 | imm) & 0xfc
		return rec(OpSW, CodecS, 0, rvcSP, r, imm, -1)
	case 0x1E: // C.FSWSP (RV32) / C.SDSP (RV64)
		imm, r := decodeCSS(in)
		if xlen == 64 {
			imm = (imm<<6 | imm) & 0x1f8
			return rec(OpSD, CodecS, 0, rvcSP, r, imm, -1)
		}
		if !hasF {
			return illegalC()
		}
		imm = (imm<<6 | imm) & 0xfc
		return rec(OpFSW, CodecSF, 0, rvcSP, r, imm, -1)
	}
	return illegalC()
}

func decodeCR(in uint16) (r1, r2 uint64) {
	return uint64(in >> 7 & 0x1f), uint64(in >> 2 & 0x1f)
}

func decodeCI(in uint16) (imm, r uint64) {
	return uint64(in>>7&0x20 | in>>2&0x1f), uint64(in >> 7 & 0x1f)
}

func decodeCSS(in uint16) (imm, r uint64) {
	return uint64(in >> 7 & 0x3f), uint64(in >> 2 & 0x1f)
}

func decodeCIW(in uint16) (imm, r uint64) {
	return uint64(in >> 5 & 0xff), uint64(in>>2&0x7) + rvcRegOffset
}

func decodeCL(in uint16) (imm, r1, r2 uint64) {
	return uint64(in>>8&0x1c | in>>5&0x3), uint64(in>>7&0x7) + rvcRegOffset, uint64(in>>2&0x7) + rvcRegOffset
}

func decodeCS(in uint16) (imm, r1, r2 uint64) {
	return uint64(in>>8&0x1c | in>>5&0x3), uint64(in>>7&0x7) + rvcRegOffset, uint64(in>>2&0x7) + rvcRegOffset
}

func decodeCB(in uint16) (imm, r uint64) {
	return uint64(in>>5&0xe0 | in>>2&0x1f), uint64(in>>7&0x7) + rvcRegOffset
}

func decodeShiftCB(in uint16) (offset, r uint64) {
	return uint64(in&0x1000>>7 | in>>2&0x1f), uint64(in>>7&0x7) + rvcRegOffset
}

func decodeCJ(in uint16) (offset uint64) {
	return uint64((in >> 2) & 0x7ff)
}
