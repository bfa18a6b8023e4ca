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

package guest

import (
	"debug/elf"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"riscv-emu/internal/cpu"
)

// ENOMEM is the errno value brk() reports to the guest on mapping failure.
const ENOMEM = 12

// Memory owns the guest address space belonging to m: its ELF load
// segments, its stack, and its brk heap. Every mapping lands at its exact
// guest address (MAP_FIXED), so the owned regions recorded on m double as
// the teardown list.
type Memory struct {
	m *cpu.Machine
}

// New returns a Memory that maps regions into m's address space and keeps
// m's region list and heap cursors up to date as it does so.
func New(m *cpu.Machine) *Memory {
	return &Memory{m: m}
}

func elfProt(flags elf.ProgFlag) int {
	prot := 0
	if flags&elf.PF_X != 0 {
		prot |= unix.PROT_EXEC
	}
	if flags&elf.PF_W != 0 {
		prot |= unix.PROT_WRITE
	}
	if flags&elf.PF_R != 0 {
		prot |= unix.PROT_READ
	}
	return prot
}

// MapSegment maps one ELF PT_LOAD program header: a fixed-address,
// private, file-backed region at vaddr of length memsz, backed by fd at
// offset, protected per the header's p_flags. heap_begin/heap_end are
// advanced to the end of the segment if it extends past the current one
// (spec.md §4.3).
func (g *Memory) MapSegment(fd int, vaddr, memsz uint64, offset int64, flags elf.ProgFlag) error {
	prot := elfProt(flags)
	if err := mapFixed(vaddr, memsz, prot, unix.MAP_PRIVATE, fd, offset); err != nil {
		return fmt.Errorf("map segment at %#x: %w", vaddr, err)
	}
	r := cpu.Region{Addr: vaddr, Length: memsz, Prot: prot, Name: "elf"}
	g.m.AddRegion(r)
	if end := vaddr + memsz; end > g.m.HeapEnd {
		g.m.HeapBegin, g.m.HeapEnd = end, end
	}
	g.log(r)
	return nil
}

// MapStack maps the fixed-size, anonymous, read-write stack region
// ending at stackTop and sets sp to stackTop-8, per spec.md §3/§4.3.
func (g *Memory) MapStack(stackTop, stackSize uint64) error {
	base := stackTop - stackSize
	prot := unix.PROT_READ | unix.PROT_WRITE
	if err := mapFixed(base, stackSize, prot, unix.MAP_PRIVATE|unix.MAP_ANON, -1, 0); err != nil {
		return fmt.Errorf("map stack: %w", err)
	}
	r := cpu.Region{Addr: base, Length: stackSize, Prot: prot, Name: "sp"}
	g.m.AddRegion(r)
	g.m.Reg[cpu.SP] = stackTop - 8
	g.log(r)
	return nil
}

func pageRound(v uint64) uint64 {
	ps := uint64(os.Getpagesize())
	return (v + ps - 1) &^ (ps - 1)
}

// Brk implements the brk(2) growth contract of spec.md §4.3: both cursors
// are rounded to the host page size; a request that still fits inside the
// current rounded break returns newAddr unchanged; otherwise a fixed-
// address, private, anonymous region covering the gap is mapped and
// appended to the region list. Mapping failure returns -ENOMEM rather
// than growing heap_end.
func (g *Memory) Brk(newAddr uint64) uint64 {
	curRounded := pageRound(g.m.HeapEnd)
	newRounded := pageRound(newAddr)
	if newRounded <= curRounded {
		return newAddr
	}
	prot := unix.PROT_READ | unix.PROT_WRITE
	if err := mapFixed(curRounded, newRounded-curRounded, prot, unix.MAP_PRIVATE|unix.MAP_ANON, -1, 0); err != nil {
		neg := -int64(ENOMEM)
		return uint64(neg)
	}
	r := cpu.Region{Addr: curRounded, Length: newRounded - curRounded, Prot: prot, Name: "heap"}
	g.m.AddRegion(r)
	g.m.HeapEnd = newRounded
	g.log(r)
	return newAddr
}

// Unmap releases every region this Memory mapped, in the insertion order
// spec.md §5 requires ("all regions are unmapped in insertion order").
func (g *Memory) Unmap() error {
	for _, r := range g.m.Regions {
		if _, _, errno := unix.Syscall(unix.SYS_MUNMAP, uintptr(r.Addr), uintptr(r.Length), 0); errno != 0 {
			return fmt.Errorf("munmap %s at %#x: %w", r.Name, r.Addr, errno)
		}
	}
	g.m.Regions = nil
	return nil
}

func (g *Memory) log(r cpu.Region) {
	if g.m.Debug&cpu.DebugRegions == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: mmap: %#x - %#x %s\n", r.Name, r.Addr, r.Addr+r.Length, protString(r.Prot))
}

func protString(prot int) string {
	s := ""
	if prot&unix.PROT_READ != 0 {
		s += "+R"
	}
	if prot&unix.PROT_WRITE != 0 {
		s += "+W"
	}
	if prot&unix.PROT_EXEC != 0 {
		s += "+X"
	}
	if s == "" {
		return "+NONE"
	}
	return s
}
