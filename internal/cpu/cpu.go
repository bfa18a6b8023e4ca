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

// Package cpu holds the architectural state of a single RISC-V hart: its
// register files, program counter, CSR file, owned memory regions and the
// LR/SC reservation, with XLEN and the enabled extension set fixed once at
// construction.
package cpu

import (
	"riscv-emu/internal/isa"
)

const (
	// riscv-spec-v2.2.pdf; Table 20.1; page 109
	SP   = 2 // Stack pointer.
	RA   = 1 // Return address.
	Zero = 0 // Hard-wired zero register.
)

const (
	RDCYCLE   = 0xC00
	RDTIME    = 0xC01
	RDINSTRET = 0xC02
)

// Debug is a set of flags controlling what the stepper logs and when.
type Debug uint32

const (
	DebugInstr   Debug = 1 << iota // log disassembly before each instruction
	DebugRegs                      // log the integer register file before each instruction
	DebugRegions                   // verbose region-mapping logs
)

// Region names one owned guest memory range by its host/guest address
// (identity-mapped, so the two coincide) and length.
type Region struct {
	Addr   uint64
	Length uint64
	Prot   int // host mmap protection bits this region was mapped with
	Name   string
}

// Machine is a single RISC-V hart: its XLEN and extension set are fixed for
// the machine's whole lifetime (spec.md §9's "decided once at start").
type Machine struct {
	XLEN int // 32 or 64
	Ext  isa.Ext

	// WordMask/ShiftMask are derived once from XLEN so the executor never
	// branches on XLEN for the common ALU/shift path.
	WordMask  uint64
	ShiftMask uint64

	Reg [32]uint64   // integer register file; x0 is read-as-zero, write-ignored
	F   [32]uint64   // float register file, NaN-boxed per isa NaN-boxing convention
	CSR [1 << 12]uint64

	PC     uint64
	HartID uint64
	Debug  Debug

	Regions   []Region
	HeapBegin uint64
	HeapEnd   uint64

	// Reservation is the address LR last marked, or nil when no reservation
	// is outstanding. SC checks and clears it; any store to guest memory
	// clears it unconditionally (spec.md §4.2, "A extension").
	Reservation *uint64

	Steps int
}

// New constructs a Machine with the given XLEN and enabled extension set.
// PC and the register file are left zeroed; callers set up the stack and PC
// via the guest/loader packages before starting the stepper.
func New(xlen int, ext isa.Ext) *Machine {
	m := &Machine{XLEN: xlen, Ext: ext}
	if xlen == 64 {
		m.WordMask = ^uint64(0)
		m.ShiftMask = 0x3f
	} else {
		m.WordMask = 0xffffffff
		m.ShiftMask = 0x1f
	}
	return m
}

// Store writes val to integer register rd, silently discarding writes to x0.
func (m *Machine) Store(rd uint8, val uint64) {
	if rd == Zero {
		return
	}
	m.Reg[rd] = val & m.WordMask
}

// ClearReservation drops any outstanding LR reservation; called by every
// store to guest memory, per spec.md's "any intervening store... clears the
// reservation."
func (m *Machine) ClearReservation() {
	m.Reservation = nil
}

// AddRegion records a newly mapped guest memory region for later teardown
// and for the -d/--emulator-debug mapping log.
func (m *Machine) AddRegion(r Region) {
	m.Regions = append(m.Regions, r)
}

// RegNames maps register numbers to their RISC-V ABI names.
//
// riscv-spec-v2.2; Table 20.1; Page 109
var RegNames = [32]string{
	0:  "zero",
	1:  "ra",
	2:  "sp",
	3:  "gp",
	4:  "tp",
	5:  "t0",
	6:  "t1",
	7:  "t2",
	8:  "s0",
	9:  "s1",
	10: "a0",
	11: "a1",
	12: "a2",
	13: "a3",
	14: "a4",
	15: "a5",
	16: "a6",
	17: "a7",
	18: "s2",
	19: "s3",
	20: "s4",
	21: "s5",
	22: "s6",
	23: "s7",
	24: "s8",
	25: "s9",
	26: "s10",
	27: "s11",
	28: "t3",
	29: "t4",
	30: "t5",
	31: "t6",
}
