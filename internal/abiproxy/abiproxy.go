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

// Package abiproxy implements the five-entry host syscall table spec.md
// names: close, write, fstat, exit and brk, dispatched on a7 the way
// riscv-tools/riscv-pk's syscall.h does, and the ABI stat layout fstat
// converts into.
package abiproxy

import (
	"fmt"

	"golang.org/x/sys/unix"

	"riscv-emu/internal/cpu"
	"riscv-emu/internal/guest"
)

// Syscall numbers, per riscv-tools/riscv-pk/pk/syscall.h.
const (
	SysClose = 57
	SysWrite = 64
	SysFstat = 80
	SysExit  = 93
	SysBrk   = 214
)

// ExitError is returned by Dispatch when the guest called exit; the CLI
// layer unwraps it to decide the host process's exit status.
type ExitError struct {
	Code int64
}

func (e *ExitError) Error() string { return "guest exited" }

// Proxy dispatches ecall traps against a Machine's register file, a
// Memory for brk, and the real host syscalls for close/write/fstat.
type Proxy struct {
	m   *cpu.Machine
	mem *guest.Memory
}

func New(m *cpu.Machine, mem *guest.Memory) *Proxy {
	return &Proxy{m: m, mem: mem}
}

// Dispatch handles one ecall trap. a0 receives the syscall's return value
// (or -errno) except for exit, which returns an *ExitError instead of
// writing to a0. An unrecognized a7 returns a *cpu.FatalError, the same
// typed halt the stepper uses for an illegal instruction.
func (p *Proxy) Dispatch() error {
	a0, a1, a2 := p.m.Reg[10], p.m.Reg[11], p.m.Reg[12]
	switch call := p.m.Reg[17]; call {
	case SysClose:
		p.m.Store(10, errnoResult(unix.Close(int(a0))))

	case SysWrite:
		buf := guest.At(a1, int(a2))
		n, err := unix.Write(int(a0), buf)
		if err != nil {
			p.m.Store(10, uint64(errno(err)))
		} else {
			p.m.Store(10, uint64(n))
		}

	case SysFstat:
		var st unix.Stat_t
		if err := unix.Fstat(int(a0), &st); err != nil {
			p.m.Store(10, uint64(errno(err)))
		} else {
			encodeStat(p.m.XLEN, &st, guest.At(a1, statSize(p.m.XLEN)))
			p.m.Store(10, 0)
		}

	case SysExit:
		return &ExitError{Code: int64(int32(a0))}

	case SysBrk:
		p.m.Store(10, p.mem.Brk(a0))

	default:
		return &cpu.FatalError{PC: p.m.PC, Instruction: fmt.Sprintf("unrecognized ecall a7=%#x (%d)", call, call)}
	}
	return nil
}

func errnoResult(err error) uint64 {
	if err != nil {
		return uint64(errno(err))
	}
	return 0
}

func errno(err error) int64 {
	if e, ok := err.(unix.Errno); ok {
		return -int64(e)
	}
	return -int64(unix.EIO)
}
