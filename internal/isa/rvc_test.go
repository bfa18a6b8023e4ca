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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRVCFormatHelpers(t *testing.T) {
	imm, r := decodeCI(0x0f80)
	assert.Equal(t, uint64(0), imm)
	assert.Equal(t, uint64(0x1f), r)

	imm, r = decodeCI(0x107c)
	assert.Equal(t, uint64(0x3f), imm)
	assert.Equal(t, uint64(0), r)

	imm, r1, r2 := decodeCL(0x0380)
	assert.Equal(t, uint64(0), imm)
	assert.Equal(t, uint64(0x7+rvcRegOffset), r1)
	assert.Equal(t, uint64(0+rvcRegOffset), r2)

	off := decodeCJ(0x1ffc)
	assert.Equal(t, uint64(0x7ff), off)
}

func TestDecodeRVCIntegerOps(t *testing.T) {
	for _, tt := range []struct {
		desc string
		in   uint16
		xlen int
		ext  Ext
		op   Op
		imm  int64
		rd   uint8
		rs1  uint8
		rs2  uint8
	}{
		{desc: "c.addi4spn", in: 0x000c | 0x0020, xlen: 64, op: OpADDI, imm: 1 << 3, rd: 3 + rvcRegOffset, rs1: rvcSP},
		{desc: "c.lw", in: 0x410C, xlen: 64, op: OpLW, rd: 3 + rvcRegOffset, rs1: 2 + rvcRegOffset},
		{desc: "c.sw", in: 0xC10C, xlen: 64, op: OpSW, rs1: 2 + rvcRegOffset, rs2: 3 + rvcRegOffset},
		{desc: "c.addi", in: 0x0f81 | 0x0004, xlen: 64, op: OpADDI, imm: 1, rd: 0x1f, rs1: 0x1f},
		{desc: "c.nop", in: 0x0001, xlen: 64, op: OpADDI, imm: 0, rd: 0, rs1: 0},
		{desc: "c.li", in: 0x4f81 | 0x0008, xlen: 64, op: OpADDI, imm: 1 << 1, rd: 0x1f, rs1: rvcZero},
		{desc: "c.lui", in: 0x6181 | 0x0004, xlen: 64, op: OpLUI, imm: 1 << 12, rd: 3},
		{desc: "c.addi16sp", in: 0x6101 | 0x0020, xlen: 64, op: OpADDI, imm: 1 << 6, rd: rvcSP, rs1: rvcSP},
		{desc: "c.srli", in: 0x8381 | 0x0008, xlen: 64, op: OpSRLI, imm: 1 << 1, rd: 0x7 + rvcRegOffset, rs1: 0x7 + rvcRegOffset},
		{desc: "c.srai", in: 0x8781 | 0x0008, xlen: 64, op: OpSRAI, imm: 1 << 1, rd: 0x7 + rvcRegOffset, rs1: 0x7 + rvcRegOffset},
		{desc: "c.andi", in: 0x8B81 | 0x0010, xlen: 64, op: OpANDI, imm: 1 << 2, rd: 0x7 + rvcRegOffset, rs1: 0x7 + rvcRegOffset},
		{desc: "c.sub", in: 0x8C01 | 0x0180 | 0x0018, xlen: 64, op: OpSUB, rd: 0x3 + rvcRegOffset, rs1: 0x3 + rvcRegOffset, rs2: 0x6 + rvcRegOffset},
		{desc: "c.xor", in: 0x8C21 | 0x0180 | 0x0018, xlen: 64, op: OpXOR, rd: 0x3 + rvcRegOffset, rs1: 0x3 + rvcRegOffset, rs2: 0x6 + rvcRegOffset},
		{desc: "c.or", in: 0x8C41 | 0x0180 | 0x0018, xlen: 64, op: OpOR, rd: 0x3 + rvcRegOffset, rs1: 0x3 + rvcRegOffset, rs2: 0x6 + rvcRegOffset},
		{desc: "c.and", in: 0x8C61 | 0x0180 | 0x0018, xlen: 64, op: OpAND, rd: 0x3 + rvcRegOffset, rs1: 0x3 + rvcRegOffset, rs2: 0x6 + rvcRegOffset},
		{desc: "c.subw", in: 0x9C01 | 0x0180 | 0x0018, xlen: 64, op: OpSUBW, rd: 0x3 + rvcRegOffset, rs1: 0x3 + rvcRegOffset, rs2: 0x6 + rvcRegOffset},
		{desc: "c.addw", in: 0x9C21 | 0x0180 | 0x0018, xlen: 64, op: OpADDW, rd: 0x3 + rvcRegOffset, rs1: 0x3 + rvcRegOffset, rs2: 0x6 + rvcRegOffset},
		{desc: "c.j", in: 0xa001 | 0x0010, xlen: 64, op: OpJAL, imm: 1 << 2, rd: rvcZero},
		{desc: "c.beqz", in: 0xc001 | 0x0010, xlen: 64, op: OpBEQ, imm: 1 << 2, rs1: rvcRegOffset, rs2: rvcZero},
		{desc: "c.bnez", in: 0xe001 | 0x0010, xlen: 64, op: OpBNE, imm: 1 << 2, rs1: rvcRegOffset, rs2: rvcZero},
		{desc: "c.slli", in: 0x0002 | 0x1f<<7 | 0x0008, xlen: 64, op: OpSLLI, imm: 1 << 1, rd: 0x1f, rs1: 0x1f},
		{desc: "c.lwsp", in: 0x4002 | 0x1f<<7 | 0x0010, xlen: 64, op: OpLW, imm: 1 << 2, rd: 0x1f, rs1: rvcSP},
		{desc: "c.ldsp", in: 0x6002 | 0x1f<<7 | 0x0020, xlen: 64, op: OpLD, imm: 1 << 3, rd: 0x1f, rs1: rvcSP},
		{desc: "c.jr", in: 0x8002 | 0x1f<<7, xlen: 64, op: OpJALR, rd: rvcZero, rs1: 0x1f},
		{desc: "c.mv", in: 0x8002 | 0x15<<7 | 0xa<<2, xlen: 64, op: OpADD, rd: 0x15, rs1: rvcZero, rs2: 0xa},
		{desc: "c.ebreak", in: 0x9002, xlen: 64, op: OpEBREAK},
		{desc: "c.jalr", in: 0x9002 | 0x1f<<7, xlen: 64, op: OpJALR, rd: rvcRA, rs1: 0x1f},
		{desc: "c.add", in: 0x9002 | 0x15<<7 | 0xa<<2, xlen: 64, op: OpADD, rd: 0x15, rs1: 0x15, rs2: 0xa},
		{desc: "c.swsp", in: 0xC002 | 0x1f<<2 | 0x0100, xlen: 64, op: OpSW, imm: 1 << 7, rs1: rvcSP, rs2: 0x1f},
		{desc: "c.sdsp", in: 0xE002 | 0x1f<<2 | 0x0200, xlen: 64, op: OpSD, imm: 1 << 8, rs1: rvcSP, rs2: 0x1f},
	} {
		t.Run(tt.desc, func(t *testing.T) {
			rec := decodeRVC(tt.in, tt.xlen, ExtI|ExtM|ExtA|ExtF|ExtD|ExtC)
			assert.Equal(t, tt.op, rec.Op, "op")
			assert.True(t, rec.Compressed)
			if tt.op != OpIllegal {
				assert.Equal(t, tt.imm, rec.Imm, "imm")
				assert.Equal(t, tt.rd, rec.Rd, "rd")
				assert.Equal(t, tt.rs1, rec.Rs1, "rs1")
				assert.Equal(t, tt.rs2, rec.Rs2, "rs2")
			}
		})
	}
}

func TestDecodeRVCXLenSplit(t *testing.T) {
	// bit pattern 0x610C is quadrant 0, funct3=3: c.flw on RV32 (with F),
	// c.ld on RV64.
	word := uint16(0x610C)

	rv64 := decodeRVC(word, 64, ExtI|ExtF)
	assert.Equal(t, OpLD, rv64.Op)

	rv32NoF := decodeRVC(word, 32, ExtI)
	assert.Equal(t, OpIllegal, rv32NoF.Op)

	rv32F := decodeRVC(word, 32, ExtI|ExtF)
	assert.Equal(t, OpFLW, rv32F.Op)

	// quadrant 1, funct3=1: c.jal on RV32, c.addiw on RV64.
	jalOrAddiw := uint16(0x2005 | 0x1<<7) // rd/rs1 = 1 for the RV64 reading

	rv32 := decodeRVC(uint16(0x2001), 32, ExtI)
	assert.Equal(t, OpJAL, rv32.Op)

	rv64Addiw := decodeRVC(jalOrAddiw, 64, ExtI)
	assert.Equal(t, OpADDIW, rv64Addiw.Op)
}

func TestDecodeRVCFloatForms(t *testing.T) {
	fld := decodeRVC(0x2000, 64, ExtI|ExtD)
	assert.Equal(t, OpFLD, fld.Op)

	fldNoD := decodeRVC(0x2000, 64, ExtI)
	assert.Equal(t, OpIllegal, fldNoD.Op)
}

func TestDecodeRVCZeroIsIllegal(t *testing.T) {
	rec := decodeRVC(0, 64, ExtI)
	assert.Equal(t, OpIllegal, rec.Op)
}
