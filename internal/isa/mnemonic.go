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

import "strconv"

// mnemonics maps an Op to the assembly mnemonic disassembly output uses.
// Indexed like cpu.RegNames: by the Op's own numeric value, so a missing
// entry (the zero value, "") is easy to spot as a gap rather than a typo.
var mnemonics = [...]string{
	OpIllegal: "illegal",

	OpLUI:   "lui",
	OpAUIPC: "auipc",
	OpJAL:   "jal",
	OpJALR:  "jalr",
	OpBEQ:   "beq",
	OpBNE:   "bne",
	OpBLT:   "blt",
	OpBGE:   "bge",
	OpBLTU:  "bltu",
	OpBGEU:  "bgeu",
	OpLB:    "lb",
	OpLH:    "lh",
	OpLW:    "lw",
	OpLBU:   "lbu",
	OpLHU:   "lhu",
	OpSB:    "sb",
	OpSH:    "sh",
	OpSW:    "sw",
	OpADDI:  "addi",
	OpSLTI:  "slti",
	OpSLTIU: "sltiu",
	OpXORI:  "xori",
	OpORI:   "ori",
	OpANDI:  "andi",
	OpSLLI:  "slli",
	OpSRLI:  "srli",
	OpSRAI:  "srai",
	OpADD:   "add",
	OpSUB:   "sub",
	OpSLL:   "sll",
	OpSLT:   "slt",
	OpSLTU:  "sltu",
	OpXOR:   "xor",
	OpSRL:   "srl",
	OpSRA:   "sra",
	OpOR:    "or",
	OpAND:   "and",

	OpFENCE:  "fence",
	OpFENCEI: "fence.i",
	OpECALL:  "ecall",
	OpEBREAK: "ebreak",
	OpCSRRW:  "csrrw",
	OpCSRRS:  "csrrs",
	OpCSRRC:  "csrrc",
	OpCSRRWI: "csrrwi",
	OpCSRRSI: "csrrsi",
	OpCSRRCI: "csrrci",

	OpLWU:    "lwu",
	OpLD:     "ld",
	OpSD:     "sd",
	OpADDIW:  "addiw",
	OpSLLIW:  "slliw",
	OpSRLIW:  "srliw",
	OpSRAIW:  "sraiw",
	OpADDW:   "addw",
	OpSUBW:   "subw",
	OpSLLW:   "sllw",
	OpSRLW:   "srlw",
	OpSRAW:   "sraw",

	OpMUL:    "mul",
	OpMULH:   "mulh",
	OpMULHSU: "mulhsu",
	OpMULHU:  "mulhu",
	OpDIV:    "div",
	OpDIVU:   "divu",
	OpREM:    "rem",
	OpREMU:   "remu",
	OpMULW:   "mulw",
	OpDIVW:   "divw",
	OpDIVUW:  "divuw",
	OpREMW:   "remw",
	OpREMUW:  "remuw",

	OpLRW:       "lr.w",
	OpSCW:       "sc.w",
	OpAMOSWAPW:  "amoswap.w",
	OpAMOADDW:   "amoadd.w",
	OpAMOXORW:   "amoxor.w",
	OpAMOANDW:   "amoand.w",
	OpAMOORW:    "amoor.w",
	OpAMOMINW:   "amomin.w",
	OpAMOMAXW:   "amomax.w",
	OpAMOMINUW:  "amominu.w",
	OpAMOMAXUW:  "amomaxu.w",
	OpLRD:       "lr.d",
	OpSCD:       "sc.d",
	OpAMOSWAPD:  "amoswap.d",
	OpAMOADDD:   "amoadd.d",
	OpAMOXORD:   "amoxor.d",
	OpAMOANDD:   "amoand.d",
	OpAMOORD:    "amoor.d",
	OpAMOMIND:   "amomin.d",
	OpAMOMAXD:   "amomax.d",
	OpAMOMINUD:  "amominu.d",
	OpAMOMAXUD:  "amomaxu.d",

	OpFLW:     "flw",
	OpFSW:     "fsw",
	OpFMADDS:  "fmadd.s",
	OpFMSUBS:  "fmsub.s",
	OpFNMSUBS: "fnmsub.s",
	OpFNMADDS: "fnmadd.s",
	OpFADDS:   "fadd.s",
	OpFSUBS:   "fsub.s",
	OpFMULS:   "fmul.s",
	OpFDIVS:   "fdiv.s",
	OpFSQRTS:  "fsqrt.s",
	OpFSGNJS:  "fsgnj.s",
	OpFSGNJNS: "fsgnjn.s",
	OpFSGNJXS: "fsgnjx.s",
	OpFMINS:   "fmin.s",
	OpFMAXS:   "fmax.s",
	OpFCVTWS:  "fcvt.w.s",
	OpFCVTWUS: "fcvt.wu.s",
	OpFMVXW:   "fmv.x.w",
	OpFEQS:    "feq.s",
	OpFLTS:    "flt.s",
	OpFLES:    "fle.s",
	OpFCLASSS: "fclass.s",
	OpFCVTSW:  "fcvt.s.w",
	OpFCVTSWU: "fcvt.s.wu",
	OpFMVWX:   "fmv.w.x",
	OpFCVTLS:  "fcvt.l.s",
	OpFCVTLUS: "fcvt.lu.s",
	OpFCVTSL:  "fcvt.s.l",
	OpFCVTSLU: "fcvt.s.lu",

	OpFLD:     "fld",
	OpFSD:     "fsd",
	OpFMADDD:  "fmadd.d",
	OpFMSUBD:  "fmsub.d",
	OpFNMSUBD: "fnmsub.d",
	OpFNMADDD: "fnmadd.d",
	OpFADDD:   "fadd.d",
	OpFSUBD:   "fsub.d",
	OpFMULD:   "fmul.d",
	OpFDIVD:   "fdiv.d",
	OpFSQRTD:  "fsqrt.d",
	OpFSGNJD:  "fsgnj.d",
	OpFSGNJND: "fsgnjn.d",
	OpFSGNJXD: "fsgnjx.d",
	OpFMIND:   "fmin.d",
	OpFMAXD:   "fmax.d",
	OpFCVTSD:  "fcvt.s.d",
	OpFCVTDS:  "fcvt.d.s",
	OpFEQD:    "feq.d",
	OpFLTD:    "flt.d",
	OpFLED:    "fle.d",
	OpFCLASSD: "fclass.d",
	OpFCVTWD:  "fcvt.w.d",
	OpFCVTWUD: "fcvt.wu.d",
	OpFCVTDW:  "fcvt.d.w",
	OpFCVTDWU: "fcvt.d.wu",
	OpFCVTLD:  "fcvt.l.d",
	OpFCVTLUD: "fcvt.lu.d",
	OpFCVTDL:  "fcvt.d.l",
	OpFCVTDLU: "fcvt.d.lu",
	OpFMVXD:   "fmv.x.d",
	OpFMVDX:   "fmv.d.x",
}

// String returns op's assembly mnemonic, or a numeric fallback for a value
// outside the enumeration (which should never happen for a decoded Record).
func (op Op) String() string {
	if int(op) < 0 || int(op) >= len(mnemonics) || mnemonics[op] == "" {
		return "op(" + strconv.Itoa(int(op)) + ")"
	}
	return mnemonics[op]
}
