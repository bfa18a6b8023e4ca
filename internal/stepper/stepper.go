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

// Package stepper runs the fetch/decode/execute/proxy loop: a direct-
// mapped decode cache in front of isa.Decode, exec.Exec for everything
// that's a plain instruction, and abiproxy for ecall.
package stepper

import (
	"fmt"
	"os"

	"riscv-emu/internal/abiproxy"
	"riscv-emu/internal/cpu"
	"riscv-emu/internal/exec"
	"riscv-emu/internal/guest"
	"riscv-emu/internal/isa"
)

// cacheSize is prime, per spec.md §3's decode cache contract.
const cacheSize = 8191

// quantum is the instruction count RunToExit passes to each Run call,
// mirroring original_source/app/riscv-test-emulate.cc's
// step(1024) call.
const quantum = 1024

type cacheEntry struct {
	valid bool
	raw   uint64
	rec   *isa.Record
	size  int
}

// Stepper owns the decode cache and drives one hart through its fetch/
// decode/execute/proxy cycle.
type Stepper struct {
	m     *cpu.Machine
	proxy *abiproxy.Proxy
	cache [cacheSize]cacheEntry
}

func New(m *cpu.Machine, mem *guest.Memory) *Stepper {
	return &Stepper{m: m, proxy: abiproxy.New(m, mem)}
}

// Run executes up to n instructions, or until the guest calls exit or the
// stepper hits a fatal condition (illegal instruction, unrecognized
// ecall). Run returns *abiproxy.ExitError on a guest exit, so callers can
// distinguish a clean guest-requested stop from a fatal halt.
func (s *Stepper) Run(n int) error {
	for i := 0; i < n; i++ {
		rec, size := s.fetch()
		if rec.Op == isa.OpIllegal {
			return &cpu.FatalError{PC: s.m.PC, Instruction: fmt.Sprintf("illegal instruction %#x", rec.Raw)}
		}

		if s.m.Debug&cpu.DebugInstr != 0 {
			fmt.Fprintln(os.Stderr, s.m.Snapshot(s.m.PC, fmt.Sprintf("%v", rec.Op)))
		}
		if s.m.Debug&cpu.DebugRegs != 0 {
			fmt.Fprint(os.Stderr, s.m.RegisterReport())
		}

		if exec.Exec(s.m, rec, size) {
			s.m.Steps++
			continue
		}

		// exec.Exec returns false only for ecall now that illegal
		// decodes are filtered above.
		if err := s.proxy.Dispatch(); err != nil {
			return err
		}
		s.m.PC += uint64(size)
		s.m.Steps++
	}
	return nil
}

// RunToExit calls Run in quantum-sized bursts until the guest exits or a
// fatal error occurs, returning the *abiproxy.ExitError in the former
// case.
func (s *Stepper) RunToExit() error {
	for {
		if err := s.Run(quantum); err != nil {
			return err
		}
	}
}

// fetch reads an 8-byte window at PC, classifies and decodes it, and
// serves the result from the decode cache when the raw word matches.
func (s *Stepper) fetch() (*isa.Record, int) {
	var window [8]byte
	copy(window[:], guest.At(s.m.PC, 8))

	length, illegal := isa.ClassifyLength(window[0])
	if illegal {
		return &isa.Record{Op: isa.OpIllegal, Raw: isa.Fetch(window, length)}, length
	}
	raw := isa.Fetch(window, length)

	idx := raw % cacheSize
	e := &s.cache[idx]
	if e.valid && e.raw == raw {
		return e.rec, e.size
	}

	rec := isa.Decode(raw, length, s.m.XLEN, s.m.Ext)
	*e = cacheEntry{valid: true, raw: raw, rec: rec, size: length}
	return rec, length
}
