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

// baseOpcode is the 5-bit opcode field (inst[6:2]); riscv-spec-v2.2 Table 19.1.
type baseOpcode uint32

const (
	boLoad    = baseOpcode(0x00)
	boLoadFP  = baseOpcode(0x01)
	boMiscMem = baseOpcode(0x03)
	boOpImm   = baseOpcode(0x04)
	boAUIPC   = baseOpcode(0x05)
	boOpImm32 = baseOpcode(0x06)
	boStore   = baseOpcode(0x08)
	boStoreFP = baseOpcode(0x09)
	boAMO     = baseOpcode(0x0b)
	boOp      = baseOpcode(0x0c)
	boLUI     = baseOpcode(0x0d)
	boOp32    = baseOpcode(0x0e)
	boMadd    = baseOpcode(0x10)
	boMsub    = baseOpcode(0x11)
	boNmsub   = baseOpcode(0x12)
	boNmadd   = baseOpcode(0x13)
	boOpFP    = baseOpcode(0x14)
	boBranch  = baseOpcode(0x18)
	boJALR    = baseOpcode(0x19)
	boJAL     = baseOpcode(0x1b)
	boSystem  = baseOpcode(0x1c)
)

// Fetch extracts a little-endian instruction word of the given length out
// of an 8-byte fetch window, masking to that length per spec.md's fetch
// contract.
func Fetch(window [8]byte, length int) uint64 {
	w := uint64(window[0]) | uint64(window[1])<<8 | uint64(window[2])<<16 | uint64(window[3])<<24 |
		uint64(window[4])<<32 | uint64(window[5])<<40 | uint64(window[6])<<48 | uint64(window[7])<<56
	if length >= 8 {
		return w
	}
	return w & (uint64(1)<<(uint(length)*8) - 1)
}

// Decode decodes a single instruction word of the given length (2, 4, 6 or
// 8, as classified by ClassifyLength) into a normalized Record.
func Decode(word uint64, length int, xlen int, ext Ext) *Record {
	switch length {
	case 2:
		return decodeRVC(uint16(word), xlen, ext)
	case 4:
		return decode32(uint32(word), xlen, ext)
	default:
		return &Record{Op: OpIllegal, Raw: word}
	}
}

func illegal(raw uint32) *Record {
	return &Record{Op: OpIllegal, Raw: uint64(raw), Codec: CodecNone}
}

// decode32 decodes a canonical 32-bit instruction word.
func decode32(raw uint32, xlen int, ext Ext) *Record {
	r := uint64(raw)
	rec := &Record{Raw: r}

	bop := baseOpcode(raw >> 2 & 0x1f)
	funct3 := raw >> 12 & 0x7

	rd, rs1, rs2 := uint8(raw>>7&0x1f), uint8(raw>>15&0x1f), uint8(raw>>20&0x1f)
	switch bop {
	case boLUI, boAUIPC, boJAL:
		rec.Rd = rd
	case boJALR, boLoad, boOpImm, boOpImm32, boSystem:
		rec.Rd, rec.Rs1 = rd, rs1
	case boBranch, boStore:
		rec.Rs1, rec.Rs2 = rs1, rs2
	case boOp, boOp32:
		rec.Rd, rec.Rs1, rec.Rs2 = rd, rs1, rs2
	}

	switch bop {
	case boLUI:
		rec.Op = OpLUI
		rec.Codec = CodecU
		rec.Imm = int64(signExtend(uint64(raw)&0xfffff000, 31))
		return rec
	case boAUIPC:
		rec.Op = OpAUIPC
		rec.Codec = CodecU
		rec.Imm = int64(signExtend(uint64(raw)&0xfffff000, 31))
		return rec
	case boJAL:
		rec.Op = OpJAL
		rec.Codec = CodecJ
		imm := r>>11&0x100000 | r&0xff000 | r>>9&0x800 | r>>20&0x7fe
		rec.Imm = int64(signExtend(imm, 19))
		return rec
	case boJALR:
		if funct3 != 0 {
			return illegal(raw)
		}
		rec.Op = OpJALR
		rec.Codec = CodecI
		rec.Imm = int64(signExtend(r>>20&0xfff, 11))
		return rec
	case boBranch:
		imm := r>>19&0x1000 | r<<4&0x800 | r>>20&0x7e0 | r>>7&0x1e
		rec.Imm = int64(signExtend(imm, 12))
		rec.Codec = CodecB
		switch funct3 {
		case 0x0:
			rec.Op = OpBEQ
		case 0x1:
			rec.Op = OpBNE
		case 0x4:
			rec.Op = OpBLT
		case 0x5:
			rec.Op = OpBGE
		case 0x6:
			rec.Op = OpBLTU
		case 0x7:
			rec.Op = OpBGEU
		default:
			return illegal(raw)
		}
		return rec
	case boLoad:
		rec.Codec = CodecI
		rec.Imm = int64(signExtend(r>>20&0xfff, 11))
		switch funct3 {
		case 0x0:
			rec.Op = OpLB
		case 0x1:
			rec.Op = OpLH
		case 0x2:
			rec.Op = OpLW
		case 0x3:
			if xlen != 64 {
				return illegal(raw)
			}
			rec.Op = OpLD
		case 0x4:
			rec.Op = OpLBU
		case 0x5:
			rec.Op = OpLHU
		case 0x6:
			if xlen != 64 {
				return illegal(raw)
			}
			rec.Op = OpLWU
		default:
			return illegal(raw)
		}
		return rec
	case boStore:
		imm := r>>20&0xfe0 | r>>7&0x1f
		rec.Imm = int64(signExtend(imm, 11))
		rec.Codec = CodecS
		switch funct3 {
		case 0x0:
			rec.Op = OpSB
		case 0x1:
			rec.Op = OpSH
		case 0x2:
			rec.Op = OpSW
		case 0x3:
			if xlen != 64 {
				return illegal(raw)
			}
			rec.Op = OpSD
		default:
			return illegal(raw)
		}
		return rec
	case boOpImm:
		rec.Codec = CodecI
		imm12 := r >> 20 & 0xfff
		switch funct3 {
		case 0x0:
			rec.Op = OpADDI
			rec.Imm = int64(signExtend(imm12, 11))
		case 0x1:
			shamtBits := 5
			if xlen == 64 {
				shamtBits = 6
			}
			if raw>>30&1 != 0 {
				return illegal(raw)
			}
			rec.Op = OpSLLI
			rec.Imm = int64(r >> 20 & uint64(1<<shamtBits-1))
		case 0x2:
			rec.Op = OpSLTI
			rec.Imm = int64(signExtend(imm12, 11))
		case 0x3:
			rec.Op = OpSLTIU
			rec.Imm = int64(imm12)
		case 0x4:
			rec.Op = OpXORI
			rec.Imm = int64(signExtend(imm12, 11))
		case 0x5:
			shamtBits := 5
			if xlen == 64 {
				shamtBits = 6
			}
			rec.Imm = int64(r >> 20 & uint64(1<<shamtBits-1))
			if raw>>30&1 != 0 {
				rec.Op = OpSRAI
			} else {
				rec.Op = OpSRLI
			}
		case 0x6:
			rec.Op = OpORI
			rec.Imm = int64(signExtend(imm12, 11))
		case 0x7:
			rec.Op = OpANDI
			rec.Imm = int64(signExtend(imm12, 11))
		}
		return rec
	case boOpImm32:
		if xlen != 64 {
			return illegal(raw)
		}
		rec.Codec = CodecI
		imm12 := r >> 20 & 0xfff
		switch funct3 {
		case 0x0:
			rec.Op = OpADDIW
			rec.Imm = int64(signExtend(imm12, 11))
		case 0x1:
			if raw>>25&0x7f != 0 {
				return illegal(raw)
			}
			rec.Op = OpSLLIW
			rec.Imm = int64(r >> 20 & 0x1f)
		case 0x5:
			switch raw >> 25 & 0x7f {
			case 0x00:
				rec.Op = OpSRLIW
			case 0x20:
				rec.Op = OpSRAIW
			default:
				return illegal(raw)
			}
			rec.Imm = int64(r >> 20 & 0x1f)
		default:
			return illegal(raw)
		}
		return rec
	case boOp, boOp32:
		rec.Codec = CodecR
		funct7 := raw >> 25 & 0x7f
		is32 := bop == boOp32
		if is32 && xlen != 64 {
			return illegal(raw)
		}
		op, ok := rTypeOp(funct3, funct7, is32)
		if !ok {
			return illegal(raw)
		}
		if (op == OpMUL || op == OpMULH || op == OpMULHSU || op == OpMULHU ||
			op == OpDIV || op == OpDIVU || op == OpREM || op == OpREMU ||
			op == OpMULW || op == OpDIVW || op == OpDIVUW || op == OpREMW || op == OpREMUW) &&
			ext&ExtM == 0 {
			return illegal(raw)
		}
		rec.Op = op
		return rec
	case boMiscMem:
		switch funct3 {
		case 0x0:
			rec.Op = OpFENCE
			rec.Codec = CodecFence
			rec.Pred = uint8(raw >> 24 & 0xf)
			rec.Succ = uint8(raw >> 20 & 0xf)
		case 0x1:
			rec.Op = OpFENCEI
			rec.Codec = CodecFence
		default:
			return illegal(raw)
		}
		return rec
	case boSystem:
		imm12 := r >> 20 & 0xfff
		switch funct3 {
		case 0x0:
			if rec.Rd != 0 || rec.Rs1 != 0 {
				return illegal(raw)
			}
			switch imm12 {
			case 0x0:
				rec.Op = OpECALL
			case 0x1:
				rec.Op = OpEBREAK
			default:
				return illegal(raw)
			}
			rec.Codec = CodecNone
		case 0x1, 0x2, 0x3:
			rec.Codec = CodecCSR
			rec.Imm = int64(imm12)
			switch funct3 {
			case 0x1:
				rec.Op = OpCSRRW
			case 0x2:
				rec.Op = OpCSRRS
			case 0x3:
				rec.Op = OpCSRRC
			}
		case 0x5, 0x6, 0x7:
			rec.Codec = CodecCSR
			rec.Imm = int64(imm12)
			switch funct3 {
			case 0x5:
				rec.Op = OpCSRRWI
			case 0x6:
				rec.Op = OpCSRRSI
			case 0x7:
				rec.Op = OpCSRRCI
			}
		default:
			return illegal(raw)
		}
		return rec
	case boAMO:
		if ext&ExtA == 0 {
			return illegal(raw)
		}
		return decodeAMO(raw, xlen)
	case boLoadFP, boStoreFP, boOpFP, boMadd, boMsub, boNmsub, boNmadd:
		if ext&(ExtF|ExtD) == 0 {
			return illegal(raw)
		}
		return decodeFP(raw, bop, xlen, ext)
	default:
		return illegal(raw)
	}
}

// rTypeOp resolves the OP/OP-32 (funct3,funct7) pair to an Op. is32
// selects the OP-32 (RV64 *W) table.
func rTypeOp(funct3, funct7 uint32, is32 bool) (Op, bool) {
	if !is32 {
		switch funct7 {
		case 0x00:
			switch funct3 {
			case 0x0:
				return OpADD, true
			case 0x1:
				return OpSLL, true
			case 0x2:
				return OpSLT, true
			case 0x3:
				return OpSLTU, true
			case 0x4:
				return OpXOR, true
			case 0x5:
				return OpSRL, true
			case 0x6:
				return OpOR, true
			case 0x7:
				return OpAND, true
			}
		case 0x20:
			switch funct3 {
			case 0x0:
				return OpSUB, true
			case 0x5:
				return OpSRA, true
			}
		case 0x01:
			switch funct3 {
			case 0x0:
				return OpMUL, true
			case 0x1:
				return OpMULH, true
			case 0x2:
				return OpMULHSU, true
			case 0x3:
				return OpMULHU, true
			case 0x4:
				return OpDIV, true
			case 0x5:
				return OpDIVU, true
			case 0x6:
				return OpREM, true
			case 0x7:
				return OpREMU, true
			}
		}
		return OpIllegal, false
	}
	switch funct7 {
	case 0x00:
		switch funct3 {
		case 0x0:
			return OpADDW, true
		case 0x1:
			return OpSLLW, true
		case 0x5:
			return OpSRLW, true
		}
	case 0x20:
		switch funct3 {
		case 0x0:
			return OpSUBW, true
		case 0x5:
			return OpSRAW, true
		}
	case 0x01:
		switch funct3 {
		case 0x0:
			return OpMULW, true
		case 0x4:
			return OpDIVW, true
		case 0x5:
			return OpDIVUW, true
		case 0x6:
			return OpREMW, true
		case 0x7:
			return OpREMUW, true
		}
	}
	return OpIllegal, false
}

// decodeAMO decodes the A-extension AMO/LR/SC opcode space (base opcode
// boAMO, funct3 010 for .W or 011 for .D, funct5 inst[31:27], aq/rl
// inst[26]/inst[25]).
func decodeAMO(raw uint32, xlen int) *Record {
	r := uint64(raw)
	rec := &Record{Raw: r, Codec: CodecAMO}
	rec.Rs1 = uint8(raw >> 15 & 0x1f)
	rec.Rs2 = uint8(raw >> 20 & 0x1f)
	rec.Rd = uint8(raw >> 7 & 0x1f)
	rec.Aq = raw>>26&1 != 0
	rec.Rl = raw>>25&1 != 0
	funct3 := raw >> 12 & 0x7
	funct5 := raw >> 27 & 0x1f

	var isD bool
	switch funct3 {
	case 0x2:
		isD = false
	case 0x3:
		if xlen != 64 {
			return illegal(raw)
		}
		isD = true
	default:
		return illegal(raw)
	}

	type amoOp struct{ w, d Op }
	table := map[uint32]amoOp{
		0x02: {OpLRW, OpLRD},
		0x03: {OpSCW, OpSCD},
		0x01: {OpAMOSWAPW, OpAMOSWAPD},
		0x00: {OpAMOADDW, OpAMOADDD},
		0x04: {OpAMOXORW, OpAMOXORD},
		0x0c: {OpAMOANDW, OpAMOANDD},
		0x08: {OpAMOORW, OpAMOORD},
		0x10: {OpAMOMINW, OpAMOMIND},
		0x14: {OpAMOMAXW, OpAMOMAXD},
		0x18: {OpAMOMINUW, OpAMOMINUD},
		0x1c: {OpAMOMAXUW, OpAMOMAXUD},
	}
	ops, ok := table[funct5]
	if !ok {
		return illegal(raw)
	}
	if funct5 == 0x02 && rec.Rs2 != 0 {
		return illegal(raw) // LR.W/D require rs2=0
	}
	if isD {
		rec.Op = ops.d
	} else {
		rec.Op = ops.w
	}
	return rec
}
