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

	"riscv-emu/internal/cpu"
	"riscv-emu/internal/isa"
)

func TestFenceAndEbreakAreNoOps(t *testing.T) {
	m := newMachine(64)
	m.PC = 0x1000
	for _, op := range []isa.Op{isa.OpFENCE, isa.OpFENCEI, isa.OpEBREAK} {
		handled, pcSet := execSystem(m, &isa.Record{Op: op})
		assert.True(t, handled)
		assert.False(t, pcSet)
	}
	assert.Equal(t, uint64(0x1000), m.PC)
}

func TestCSRRWWritesAndReturnsOld(t *testing.T) {
	m := newMachine(64)
	m.CSR[0x100] = 0xaa
	m.Reg[1] = 0xbb
	rec := &isa.Record{Op: isa.OpCSRRW, Rd: 2, Rs1: 1, Imm: 0x100}
	handled, _ := execSystem(m, rec)
	assert.True(t, handled)
	assert.Equal(t, uint64(0xaa), m.Reg[2])
	assert.Equal(t, uint64(0xbb), m.CSR[0x100])
}

func TestCSRRSWithZeroRs1IsReadOnly(t *testing.T) {
	m := newMachine(64)
	m.CSR[0x100] = 0xaa
	rec := &isa.Record{Op: isa.OpCSRRS, Rd: 2, Rs1: 0, Imm: 0x100}
	_, _ = execSystem(m, rec)
	assert.Equal(t, uint64(0xaa), m.Reg[2])
	assert.Equal(t, uint64(0xaa), m.CSR[0x100])
}

func TestCSRPerfCountersAreReadOnly(t *testing.T) {
	m := newMachine(64)
	m.Steps = 42
	rec := &isa.Record{Op: isa.OpCSRRW, Rd: 1, Rs1: 0, Imm: cpu.RDINSTRET}
	_, _ = execSystem(m, rec)
	assert.Equal(t, uint64(42), m.Reg[1])
	assert.Equal(t, uint64(0), m.CSR[cpu.RDINSTRET])
}

func TestCSRRWIUsesUimmField(t *testing.T) {
	m := newMachine(64)
	rec := &isa.Record{Op: isa.OpCSRRWI, Rd: 1, Rs1: 5, Imm: 0x100}
	_, _ = execSystem(m, rec)
	assert.Equal(t, uint64(5), m.CSR[0x100])
}
