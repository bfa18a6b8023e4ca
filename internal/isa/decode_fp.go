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

// decodeFP decodes the F/D-extension opcode space: LOAD-FP, STORE-FP,
// OP-FP and the four fused multiply-add base opcodes. fmt (inst[26:25])
// selects single (0) or double (1) precision throughout.
func decodeFP(raw uint32, bop baseOpcode, xlen int, ext Ext) *Record {
	r := uint64(raw)
	rec := &Record{Raw: r}
	rec.Rs1 = uint8(raw >> 15 & 0x1f)
	rec.Rs2 = uint8(raw >> 20 & 0x1f)
	rec.Rd = uint8(raw >> 7 & 0x1f)
	rec.RM = uint8(raw >> 12 & 0x7)
	funct3 := raw >> 12 & 0x7

	switch bop {
	case boLoadFP:
		rec.Codec = CodecIF
		rec.Imm = int64(signExtend(r>>20&0xfff, 11))
		switch funct3 {
		case 0x2:
			rec.Op = OpFLW
		case 0x3:
			if ext&ExtD == 0 {
				return illegal(raw)
			}
			rec.Op = OpFLD
		default:
			return illegal(raw)
		}
		return rec
	case boStoreFP:
		rec.Codec = CodecSF
		imm := r>>20&0xfe0 | r>>7&0x1f
		rec.Imm = int64(signExtend(imm, 11))
		switch funct3 {
		case 0x2:
			rec.Op = OpFSW
		case 0x3:
			if ext&ExtD == 0 {
				return illegal(raw)
			}
			rec.Op = OpFSD
		default:
			return illegal(raw)
		}
		return rec
	case boMadd, boMsub, boNmsub, boNmadd:
		rec.Rs3 = uint8(raw >> 27 & 0x1f)
		rec.Codec = CodecR4
		fmt := raw >> 25 & 0x3
		isD := fmt == 1
		if isD && ext&ExtD == 0 {
			return illegal(raw)
		}
		if fmt > 1 {
			return illegal(raw)
		}
		switch bop {
		case boMadd:
			rec.Op = pick(isD, OpFMADDS, OpFMADDD)
		case boMsub:
			rec.Op = pick(isD, OpFMSUBS, OpFMSUBD)
		case boNmsub:
			rec.Op = pick(isD, OpFNMSUBS, OpFNMSUBD)
		case boNmadd:
			rec.Op = pick(isD, OpFNMADDS, OpFNMADDD)
		}
		return rec
	case boOpFP:
		return decodeOpFP(raw, xlen, ext)
	}
	return illegal(raw)
}

func pick(isD bool, s, d Op) Op {
	if isD {
		return d
	}
	return s
}

// decodeOpFP decodes the OP-FP opcode space: funct7[6:2] (funct5) selects
// the operation family, funct7[1:0] (fmt) selects single/double precision
// for most of them; the rs2 field selects the integer width for the
// FCVT.{W,WU,L,LU} <-> {S,D} families and the source/dest precision for the
// S<->D cross-precision convert.
func decodeOpFP(raw uint32, xlen int, ext Ext) *Record {
	r := uint64(raw)
	rec := &Record{Raw: r}
	rec.Rs1 = uint8(raw >> 15 & 0x1f)
	rec.Rs2 = uint8(raw >> 20 & 0x1f)
	rec.Rd = uint8(raw >> 7 & 0x1f)
	rec.RM = uint8(raw >> 12 & 0x7)
	funct3 := raw >> 12 & 0x7
	funct7 := raw >> 25 & 0x7f
	funct5 := funct7 >> 2
	fmt := funct7 & 0x3
	isD := fmt == 1
	if fmt > 1 || (isD && ext&ExtD == 0) {
		return illegal(raw)
	}

	switch funct5 {
	case 0x00:
		rec.Codec = CodecR
		rec.Op = pick(isD, OpFADDS, OpFADDD)
	case 0x01:
		rec.Codec = CodecR
		rec.Op = pick(isD, OpFSUBS, OpFSUBD)
	case 0x02:
		rec.Codec = CodecR
		rec.Op = pick(isD, OpFMULS, OpFMULD)
	case 0x03:
		rec.Codec = CodecR
		rec.Op = pick(isD, OpFDIVS, OpFDIVD)
	case 0x0b: // FSQRT
		if rec.Rs2 != 0 {
			return illegal(raw)
		}
		rec.Codec = CodecRF
		rec.Op = pick(isD, OpFSQRTS, OpFSQRTD)
	case 0x04: // FSGNJ/FSGNJN/FSGNJX
		rec.Codec = CodecR
		switch funct3 {
		case 0x0:
			rec.Op = pick(isD, OpFSGNJS, OpFSGNJD)
		case 0x1:
			rec.Op = pick(isD, OpFSGNJNS, OpFSGNJND)
		case 0x2:
			rec.Op = pick(isD, OpFSGNJXS, OpFSGNJXD)
		default:
			return illegal(raw)
		}
	case 0x05: // FMIN/FMAX
		rec.Codec = CodecR
		switch funct3 {
		case 0x0:
			rec.Op = pick(isD, OpFMINS, OpFMIND)
		case 0x1:
			rec.Op = pick(isD, OpFMAXS, OpFMAXD)
		default:
			return illegal(raw)
		}
	case 0x08: // cross-precision FCVT.S.D / FCVT.D.S; rs2 names the source fmt
		rec.Codec = CodecRF
		switch {
		case fmt == 0 && rec.Rs2 == 1:
			rec.Op = OpFCVTSD
		case fmt == 1 && rec.Rs2 == 0:
			rec.Op = OpFCVTDS
		default:
			return illegal(raw)
		}
	case 0x14: // FEQ/FLT/FLE
		rec.Codec = CodecRFcmp
		switch funct3 {
		case 0x2:
			rec.Op = pick(isD, OpFEQS, OpFEQD)
		case 0x1:
			rec.Op = pick(isD, OpFLTS, OpFLTD)
		case 0x0:
			rec.Op = pick(isD, OpFLES, OpFLED)
		default:
			return illegal(raw)
		}
	case 0x18: // FCVT.{W,WU,L,LU}.[S/D]: float -> int, rd is an integer register
		rec.Codec = CodecRF
		switch rec.Rs2 {
		case 0:
			rec.Op = pick(isD, OpFCVTWS, OpFCVTWD)
		case 1:
			rec.Op = pick(isD, OpFCVTWUS, OpFCVTWUD)
		case 2:
			if xlen != 64 {
				return illegal(raw)
			}
			rec.Op = pick(isD, OpFCVTLS, OpFCVTLD)
		case 3:
			if xlen != 64 {
				return illegal(raw)
			}
			rec.Op = pick(isD, OpFCVTLUS, OpFCVTLUD)
		default:
			return illegal(raw)
		}
	case 0x1a: // FCVT.[S/D].{W,WU,L,LU}: int -> float, rs1 is an integer register
		rec.Codec = CodecRF
		switch rec.Rs2 {
		case 0:
			rec.Op = pick(isD, OpFCVTSW, OpFCVTDW)
		case 1:
			rec.Op = pick(isD, OpFCVTSWU, OpFCVTDWU)
		case 2:
			if xlen != 64 {
				return illegal(raw)
			}
			rec.Op = pick(isD, OpFCVTSL, OpFCVTDL)
		case 3:
			if xlen != 64 {
				return illegal(raw)
			}
			rec.Op = pick(isD, OpFCVTSLU, OpFCVTDLU)
		default:
			return illegal(raw)
		}
	case 0x1c: // FMV.X.W / FCLASS.S (and the RV64 FMV.X.D)
		if rec.Rs2 != 0 {
			return illegal(raw)
		}
		rec.Codec = CodecRF
		switch funct3 {
		case 0x0:
			if isD && xlen != 64 {
				return illegal(raw)
			}
			rec.Op = pick(isD, OpFMVXW, OpFMVXD)
		case 0x1:
			rec.Codec = CodecRFcmp
			rec.Op = pick(isD, OpFCLASSS, OpFCLASSD)
		default:
			return illegal(raw)
		}
	case 0x1e: // FMV.W.X (and the RV64 FMV.D.X)
		if rec.Rs2 != 0 || funct3 != 0 {
			return illegal(raw)
		}
		if isD && xlen != 64 {
			return illegal(raw)
		}
		rec.Codec = CodecRF
		rec.Op = pick(isD, OpFMVWX, OpFMVDX)
	default:
		return illegal(raw)
	}
	return rec
}
