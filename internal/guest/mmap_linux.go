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

//go:build linux

// Package guest owns the flat, identity-mapped guest address space: ELF
// load segments, the stack and the brk heap are all placed at their exact
// guest virtual address via a fixed-address host mmap, so a guest address
// and its host address are the same number.
package guest

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// At reinterprets length bytes starting at a mapped guest address as a
// plain Go byte slice. The executor uses this to treat guest loads and
// stores as ordinary host memory accesses; it is only valid for addresses
// inside a region this package has mapped.
func At(addr uint64, length int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), length)
}

// mapFixed places a MAP_FIXED mapping at addr. unix.Mmap's wrapper has no
// address parameter, so a fixed-address mapping has to go through the raw
// syscall directly.
func mapFixed(addr, length uint64, prot, flags, fd int, offset int64) error {
	_, _, errno := unix.Syscall6(unix.SYS_MMAP, uintptr(addr), uintptr(length),
		uintptr(prot), uintptr(flags|unix.MAP_FIXED), uintptr(fd), uintptr(offset))
	if errno != 0 {
		return fmt.Errorf("mmap %#x+%#x: %w", addr, length, errno)
	}
	return nil
}
