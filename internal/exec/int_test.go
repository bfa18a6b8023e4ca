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
	"testing"

	"github.com/stretchr/testify/assert"

	"riscv-emu/internal/isa"
)

func TestIntALU(t *testing.T) {
	tests := []struct {
		desc string
		op   isa.Op
		a, b uint64
		imm  int64
		want uint64
	}{
		{desc: "addi", op: isa.OpADDI, a: 5, imm: 3, want: 8},
		{desc: "addi negative imm", op: isa.OpADDI, a: 5, imm: -3, want: 2},
		{desc: "add", op: isa.OpADD, a: 5, b: 3, want: 8},
		{desc: "sub", op: isa.OpSUB, a: 5, b: 3, want: 2},
		{desc: "sub underflow", op: isa.OpSUB, a: 0, b: 1, want: ^uint64(0)},
		{desc: "and", op: isa.OpAND, a: 0xff, b: 0x0f, want: 0x0f},
		{desc: "or", op: isa.OpOR, a: 0xf0, b: 0x0f, want: 0xff},
		{desc: "xor", op: isa.OpXOR, a: 0xff, b: 0x0f, want: 0xf0},
		{desc: "sll", op: isa.OpSLL, a: 1, b: 4, want: 16},
		{desc: "srl", op: isa.OpSRL, a: 16, b: 4, want: 1},
		{desc: "sra negative", op: isa.OpSRA, a: ^uint64(0), b: 4, want: ^uint64(0)},
		{desc: "slt true", op: isa.OpSLT, a: ^uint64(0), b: 1, want: 1},
		{desc: "slt false", op: isa.OpSLT, a: 1, b: ^uint64(0), want: 0},
		{desc: "sltu true", op: isa.OpSLTU, a: 1, b: 2, want: 1},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			m := newMachine(64)
			m.Reg[1] = tc.a
			m.Reg[2] = tc.b
			rec := &isa.Record{Op: tc.op, Rd: 3, Rs1: 1, Rs2: 2, Imm: tc.imm}
			handled, pcSet := execInt(m, rec, 4)
			assert.True(t, handled)
			assert.False(t, pcSet)
			assert.Equal(t, tc.want, m.Reg[3])
		})
	}
}

func TestIntBranch(t *testing.T) {
	m := newMachine(64)
	m.PC = 0x1000
	m.Reg[1] = 5
	m.Reg[2] = 5
	rec := &isa.Record{Op: isa.OpBEQ, Rs1: 1, Rs2: 2, Imm: 0x10}
	handled, pcSet := execInt(m, rec, 4)
	assert.True(t, handled)
	assert.True(t, pcSet)
	assert.Equal(t, uint64(0x1010), m.PC)
}

func TestIntBranchNotTaken(t *testing.T) {
	m := newMachine(64)
	m.PC = 0x1000
	m.Reg[1] = 5
	m.Reg[2] = 6
	rec := &isa.Record{Op: isa.OpBEQ, Rs1: 1, Rs2: 2, Imm: 0x10}
	handled, pcSet := execInt(m, rec, 4)
	assert.True(t, handled)
	assert.False(t, pcSet)
	assert.Equal(t, uint64(0x1000), m.PC)
}

func TestIntJAL(t *testing.T) {
	m := newMachine(64)
	m.PC = 0x2000
	rec := &isa.Record{Op: isa.OpJAL, Rd: 1, Imm: 0x100}
	handled, pcSet := execInt(m, rec, 4)
	assert.True(t, handled)
	assert.True(t, pcSet)
	assert.Equal(t, uint64(0x2100), m.PC)
	assert.Equal(t, uint64(0x2004), m.Reg[1])
}

func TestIntJALRClearsLowBit(t *testing.T) {
	m := newMachine(64)
	m.PC = 0x2000
	m.Reg[2] = 0x3001
	rec := &isa.Record{Op: isa.OpJALR, Rd: 1, Rs1: 2, Imm: 0}
	_, pcSet := execInt(m, rec, 4)
	assert.True(t, pcSet)
	assert.Equal(t, uint64(0x3000), m.PC)
}

func TestIntLoadStoreRoundTrip(t *testing.T) {
	addr := testMem(t)
	m := newMachine(64)
	m.Reg[1] = addr

	store := &isa.Record{Op: isa.OpSD, Rs1: 1, Rs2: 2, Imm: 0}
	m.Reg[2] = 0xdeadbeefcafebabe
	_, _ = execInt(m, store, 4)

	load := &isa.Record{Op: isa.OpLD, Rd: 3, Rs1: 1, Imm: 0}
	_, _ = execInt(m, load, 4)
	assert.Equal(t, uint64(0xdeadbeefcafebabe), m.Reg[3])
}

func TestIntLBSignExtends(t *testing.T) {
	addr := testMem(t)
	m := newMachine(64)
	m.Reg[1] = addr
	sb := &isa.Record{Op: isa.OpSB, Rs1: 1, Rs2: 2, Imm: 0}
	m.Reg[2] = 0xff
	_, _ = execInt(m, sb, 4)

	lb := &isa.Record{Op: isa.OpLB, Rd: 3, Rs1: 1, Imm: 0}
	_, _ = execInt(m, lb, 4)
	assert.Equal(t, ^uint64(0), m.Reg[3])

	lbu := &isa.Record{Op: isa.OpLBU, Rd: 4, Rs1: 1, Imm: 0}
	_, _ = execInt(m, lbu, 4)
	assert.Equal(t, uint64(0xff), m.Reg[4])
}

func TestIntRV32ShiftAmountMasked(t *testing.T) {
	m := newMachine(32)
	m.Reg[1] = 1
	rec := &isa.Record{Op: isa.OpSLLI, Rd: 2, Rs1: 1, Imm: 33} // masked to 1 on rv32
	_, _ = execInt(m, rec, 4)
	assert.Equal(t, uint64(2), m.Reg[2])
}

func TestIntAddwTruncatesToRV64Word(t *testing.T) {
	m := newMachine(64)
	m.Reg[1] = 0x7fffffff
	m.Reg[2] = 1
	rec := &isa.Record{Op: isa.OpADDW, Rd: 3, Rs1: 1, Rs2: 2}
	_, _ = execInt(m, rec, 4)
	assert.Equal(t, uint64(0xffffffff80000000), m.Reg[3])
}
