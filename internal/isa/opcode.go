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

// Package isa implements the RISC-V instruction codec: length
// classification, canonical 32-bit decode and RVC (compressed) decode and
// decompression.
package isa

// Op is a closed enumeration of every mnemonic the decoder can produce.
// Every Op has exactly one Codec (see codecOf).
type Op int

const (
	OpIllegal Op = iota

	// RV32I base.
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpFENCE
	OpFENCEI
	OpECALL
	OpEBREAK
	OpCSRRW
	OpCSRRS
	OpCSRRC
	OpCSRRWI
	OpCSRRSI
	OpCSRRCI

	// RV64I additions.
	OpLWU
	OpLD
	OpSD
	OpADDIW
	OpSLLIW
	OpSRLIW
	OpSRAIW
	OpADDW
	OpSUBW
	OpSLLW
	OpSRLW
	OpSRAW

	// M extension.
	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU
	OpMULW
	OpDIVW
	OpDIVUW
	OpREMW
	OpREMUW

	// A extension.
	OpLRW
	OpSCW
	OpAMOSWAPW
	OpAMOADDW
	OpAMOXORW
	OpAMOANDW
	OpAMOORW
	OpAMOMINW
	OpAMOMAXW
	OpAMOMINUW
	OpAMOMAXUW
	OpLRD
	OpSCD
	OpAMOSWAPD
	OpAMOADDD
	OpAMOXORD
	OpAMOANDD
	OpAMOORD
	OpAMOMIND
	OpAMOMAXD
	OpAMOMINUD
	OpAMOMAXUD

	// F extension.
	OpFLW
	OpFSW
	OpFMADDS
	OpFMSUBS
	OpFNMSUBS
	OpFNMADDS
	OpFADDS
	OpFSUBS
	OpFMULS
	OpFDIVS
	OpFSQRTS
	OpFSGNJS
	OpFSGNJNS
	OpFSGNJXS
	OpFMINS
	OpFMAXS
	OpFCVTWS
	OpFCVTWUS
	OpFMVXW
	OpFEQS
	OpFLTS
	OpFLES
	OpFCLASSS
	OpFCVTSW
	OpFCVTSWU
	OpFMVWX
	OpFCVTLS
	OpFCVTLUS
	OpFCVTSL
	OpFCVTSLU

	// D extension.
	OpFLD
	OpFSD
	OpFMADDD
	OpFMSUBD
	OpFNMSUBD
	OpFNMADDD
	OpFADDD
	OpFSUBD
	OpFMULD
	OpFDIVD
	OpFSQRTD
	OpFSGNJD
	OpFSGNJND
	OpFSGNJXD
	OpFMIND
	OpFMAXD
	OpFCVTSD
	OpFCVTDS
	OpFEQD
	OpFLTD
	OpFLED
	OpFCLASSD
	OpFCVTWD
	OpFCVTWUD
	OpFCVTDW
	OpFCVTDWU
	OpFCVTLD
	OpFCVTLUD
	OpFCVTDL
	OpFCVTDLU
	OpFMVXD
	OpFMVDX
)

// Codec names the operand-slot shape of a decoded instruction. Operand
// fields not named by an Op's Codec must never be read by the executor;
// Record documents which decoders leave them at their zero value.
type Codec int

const (
	CodecNone Codec = iota
	CodecR          // rd, rs1, rs2
	CodecR4         // rd, rs1, rs2, rs3, rm (fused multiply-add)
	CodecRFcmp      // rd, rs1, rs2 (float compare, integer rd)
	CodecRF         // rd, rs1, rm (single source float op)
	CodecI          // rd, rs1, imm
	CodecIF         // rd, rs1, imm (float load)
	CodecS          // rs1, rs2, imm
	CodecSF         // rs1, rs2, imm (float store)
	CodecB          // rs1, rs2, imm
	CodecU          // rd, imm
	CodecJ          // rd, imm
	CodecCSR        // rd, rs1, imm (csr address)
	CodecAMO        // rd, rs1, rs2, aq, rl
	CodecFence      // pred, succ
)

// codecOf returns the unique Codec for op. Every Op must appear here.
func codecOf(op Op) Codec {
	switch op {
	case OpLUI, OpAUIPC:
		return CodecU
	case OpJAL:
		return CodecJ
	case OpJALR, OpADDI, OpSLTI, OpSLTIU, OpXORI, OpORI, OpANDI,
		OpSLLI, OpSRLI, OpSRAI, OpLB, OpLH, OpLW, OpLBU, OpLHU,
		OpLWU, OpLD, OpADDIW, OpSLLIW, OpSRLIW, OpSRAIW:
		return CodecI
	case OpCSRRW, OpCSRRS, OpCSRRC, OpCSRRWI, OpCSRRSI, OpCSRRCI:
		return CodecCSR
	case OpSB, OpSH, OpSW, OpSD:
		return CodecS
	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		return CodecB
	case OpADD, OpSUB, OpSLL, OpSLT, OpSLTU, OpXOR, OpSRL, OpSRA,
		OpOR, OpAND, OpADDW, OpSUBW, OpSLLW, OpSRLW, OpSRAW,
		OpMUL, OpMULH, OpMULHSU, OpMULHU, OpDIV, OpDIVU, OpREM, OpREMU,
		OpMULW, OpDIVW, OpDIVUW, OpREMW, OpREMUW:
		return CodecR
	case OpFENCE, OpFENCEI:
		return CodecFence
	case OpECALL, OpEBREAK, OpIllegal:
		return CodecNone
	case OpLRW, OpLRD:
		return CodecAMO
	case OpSCW, OpSCD, OpAMOSWAPW, OpAMOADDW, OpAMOXORW, OpAMOANDW,
		OpAMOORW, OpAMOMINW, OpAMOMAXW, OpAMOMINUW, OpAMOMAXUW,
		OpAMOSWAPD, OpAMOADDD, OpAMOXORD, OpAMOANDD, OpAMOORD,
		OpAMOMIND, OpAMOMAXD, OpAMOMINUD, OpAMOMAXUD:
		return CodecAMO
	case OpFLW, OpFLD:
		return CodecIF
	case OpFSW, OpFSD:
		return CodecSF
	case OpFMADDS, OpFMSUBS, OpFNMSUBS, OpFNMADDS,
		OpFMADDD, OpFMSUBD, OpFNMSUBD, OpFNMADDD:
		return CodecR4
	case OpFADDS, OpFSUBS, OpFMULS, OpFDIVS, OpFSGNJS, OpFSGNJNS, OpFSGNJXS,
		OpFMINS, OpFMAXS, OpFADDD, OpFSUBD, OpFMULD, OpFDIVD,
		OpFSGNJD, OpFSGNJND, OpFSGNJXD, OpFMIND, OpFMAXD:
		return CodecR
	case OpFSQRTS, OpFCVTWS, OpFCVTWUS, OpFMVXW, OpFCVTSW, OpFCVTSWU, OpFMVWX,
		OpFCVTLS, OpFCVTLUS, OpFCVTSL, OpFCVTSLU,
		OpFSQRTD, OpFCVTSD, OpFCVTDS, OpFCVTWD, OpFCVTWUD, OpFCVTDW, OpFCVTDWU,
		OpFCVTLD, OpFCVTLUD, OpFCVTDL, OpFCVTDLU, OpFMVXD, OpFMVDX:
		return CodecRF
	case OpFEQS, OpFLTS, OpFLES, OpFCLASSS, OpFEQD, OpFLTD, OpFLED, OpFCLASSD:
		return CodecRFcmp
	default:
		return CodecNone
	}
}
