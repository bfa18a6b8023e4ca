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
	"unsafe"

	"golang.org/x/sys/unix"

	"riscv-emu/internal/cpu"
	"riscv-emu/internal/isa"
)

// testMem maps one page of anonymous, read-write memory and returns its
// guest address, so load/store tests can exercise guest.At against real
// host memory without going through the loader.
func testMem(t *testing.T) uint64 {
	t.Helper()
	b, err := unix.Mmap(-1, 0, unix.Getpagesize(), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		t.Fatalf("mmap: %v", err)
	}
	t.Cleanup(func() { unix.Munmap(b) })
	return uint64(uintptr(unsafe.Pointer(&b[0])))
}

func newMachine(xlen int) *cpu.Machine {
	return cpu.New(xlen, isa.ExtI|isa.ExtM|isa.ExtA|isa.ExtF|isa.ExtD|isa.ExtC)
}
