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

func TestClassifyLength(t *testing.T) {
	for _, tt := range []struct {
		b0     byte
		length int
		bad    bool
	}{
		{b0: 0x01, length: 2},
		{b0: 0x02, length: 2},
		{b0: 0x13, length: 4}, // addi
		{b0: 0x6f, length: 4}, // jal
		{b0: 0x1f, length: 6},
		{b0: 0x3f, length: 8},
		{b0: 0x5f, length: 6},
		{b0: 0x7f, length: 8, bad: true},
	} {
		length, illegal := ClassifyLength(tt.b0)
		assert.Equal(t, tt.length, length, "byte %#x", tt.b0)
		assert.Equal(t, tt.bad, illegal, "byte %#x", tt.b0)
	}
}

func TestFetch(t *testing.T) {
	w := [8]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	assert.Equal(t, uint64(0x0201), Fetch(w, 2))
	assert.Equal(t, uint64(0x04030201), Fetch(w, 4))
	assert.Equal(t, uint64(0x0807060504030201), Fetch(w, 8))
}

func rvWord(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return opcode&0x7f | rd&0x1f<<7 | funct3&0x7<<12 | rs1&0x1f<<15 | rs2&0x1f<<20 | funct7&0x7f<<25
}

func TestDecode32Canonical(t *testing.T) {
	for _, tt := range []struct {
		desc string
		raw  uint32
		xlen int
		ext  Ext
		op   Op
		imm  int64
		rd   uint8
		rs1  uint8
		rs2  uint8
	}{
		{
			desc: "lui",
			raw:  0x000010b7, // lui x1, 1
			xlen: 64, ext: ExtI,
			op: OpLUI, imm: 1 << 12, rd: 1,
		},
		{
			desc: "jal",
			raw:  0x008000ef, // jal x1, 8
			xlen: 64, ext: ExtI,
			op: OpJAL, imm: 8, rd: 1,
		},
		{
			desc: "addi",
			raw:  rvWord(0x13, 5, 0, 6, 0, 0) | 3<<20, // addi x5, x6, 3
			xlen: 64, ext: ExtI,
			op: OpADDI, imm: 3, rd: 5, rs1: 6,
		},
		{
			desc: "beq",
			raw:  rvWord(0x63, 0, 0, 1, 2, 0), // beq x1, x2, 0
			xlen: 64, ext: ExtI,
			op: OpBEQ, rs1: 1, rs2: 2,
		},
		{
			desc: "lw",
			raw:  rvWord(0x03, 5, 2, 6, 0, 0),
			xlen: 64, ext: ExtI,
			op: OpLW, rd: 5, rs1: 6,
		},
		{
			desc: "ld requires rv64",
			raw:  rvWord(0x03, 5, 3, 6, 0, 0),
			xlen: 32, ext: ExtI,
			op: OpIllegal,
		},
		{
			desc: "ld on rv64",
			raw:  rvWord(0x03, 5, 3, 6, 0, 0),
			xlen: 64, ext: ExtI,
			op: OpLD, rd: 5, rs1: 6,
		},
		{
			desc: "add",
			raw:  rvWord(0x33, 1, 0, 2, 3, 0x00),
			xlen: 64, ext: ExtI,
			op: OpADD, rd: 1, rs1: 2, rs2: 3,
		},
		{
			desc: "sub",
			raw:  rvWord(0x33, 1, 0, 2, 3, 0x20),
			xlen: 64, ext: ExtI,
			op: OpSUB, rd: 1, rs1: 2, rs2: 3,
		},
		{
			desc: "mul requires m extension",
			raw:  rvWord(0x33, 1, 0, 2, 3, 0x01),
			xlen: 64, ext: ExtI,
			op: OpIllegal,
		},
		{
			desc: "mul with m extension",
			raw:  rvWord(0x33, 1, 0, 2, 3, 0x01),
			xlen: 64, ext: ExtI | ExtM,
			op: OpMUL, rd: 1, rs1: 2, rs2: 3,
		},
		{
			desc: "addw requires rv64",
			raw:  rvWord(0x3b, 1, 0, 2, 3, 0x00),
			xlen: 32, ext: ExtI,
			op: OpIllegal,
		},
		{
			desc: "ecall",
			raw:  0x00000073,
			xlen: 64, ext: ExtI,
			op: OpECALL,
		},
		{
			desc: "ebreak",
			raw:  0x00100073,
			xlen: 64, ext: ExtI,
			op: OpEBREAK,
		},
		{
			desc: "csrrw",
			raw:  rvWord(0x73, 5, 1, 6, 0, 0),
			xlen: 64, ext: ExtI,
			op: OpCSRRW, rd: 5, rs1: 6,
		},
	} {
		t.Run(tt.desc, func(t *testing.T) {
			rec := decode32(tt.raw, tt.xlen, tt.ext)
			assert.Equal(t, tt.op, rec.Op, "op")
			if tt.op != OpIllegal {
				assert.Equal(t, tt.imm, rec.Imm, "imm")
				assert.Equal(t, tt.rd, rec.Rd, "rd")
				assert.Equal(t, tt.rs1, rec.Rs1, "rs1")
				assert.Equal(t, tt.rs2, rec.Rs2, "rs2")
				assert.Equal(t, codecOf(tt.op), rec.Codec, "codec")
			}
		})
	}
}

func TestDecodeAMO(t *testing.T) {
	lrw := rvWord(0x2f, 1, 2, 2, 0, 0x02<<2)
	rec := Decode(uint64(lrw), 4, 64, ExtI|ExtA)
	assert.Equal(t, OpLRW, rec.Op)
	assert.Equal(t, CodecAMO, rec.Codec)

	// Without the A extension enabled, the same bit pattern is illegal.
	rec = Decode(uint64(lrw), 4, 64, ExtI)
	assert.Equal(t, OpIllegal, rec.Op)

	amoaddw := rvWord(0x2f, 1, 2, 2, 3, 0x00<<2)
	rec = Decode(uint64(amoaddw), 4, 64, ExtI|ExtA)
	assert.Equal(t, OpAMOADDW, rec.Op)
	assert.Equal(t, uint8(1), rec.Rd)
	assert.Equal(t, uint8(2), rec.Rs1)
	assert.Equal(t, uint8(3), rec.Rs2)
}

func TestDecodeFPGate(t *testing.T) {
	flw := rvWord(0x07, 1, 2, 2, 0, 0) // funct3=2 -> flw
	rec := Decode(uint64(flw), 4, 64, ExtI)
	assert.Equal(t, OpIllegal, rec.Op, "F instructions are illegal without ExtF")

	rec = Decode(uint64(flw), 4, 64, ExtI|ExtF)
	assert.Equal(t, OpFLW, rec.Op)
}

func TestParseISA(t *testing.T) {
	for _, tt := range []struct {
		s    string
		want Ext
		ok   bool
	}{
		{s: "IMA", want: ExtI | ExtM | ExtA, ok: true},
		{s: "IMAC", want: ExtI | ExtM | ExtA | ExtC, ok: true},
		{s: "IMAFD", want: ExtI | ExtM | ExtA | ExtF | ExtD, ok: true},
		{s: "IMAFDC", want: ExtI | ExtM | ExtA | ExtF | ExtD | ExtC, ok: true},
		{s: "bogus", ok: false},
	} {
		ext, ok := ParseISA(tt.s)
		assert.Equal(t, tt.ok, ok, tt.s)
		if tt.ok {
			assert.Equal(t, tt.want, ext, tt.s)
		}
	}
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, uint64(0), signExtend(0, 11))
	assert.Equal(t, uint64(0xfffffffffffff800), signExtend(0x800, 11))
	assert.Equal(t, uint64(0x7ff), signExtend(0x7ff, 11))
}

func TestCodecOfIsExhaustive(t *testing.T) {
	for op := OpLUI; op <= OpFMVDX; op++ {
		if op != OpECALL && op != OpEBREAK {
			assert.NotEqual(t, CodecNone, codecOf(op), "op %d", op)
		}
	}
}
