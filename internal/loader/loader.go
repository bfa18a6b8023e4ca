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

// Package loader parses a RISC-V ELF executable into what the guest
// memory setup needs: the entry point, the register width class, and the
// list of PT_LOAD program headers. It deliberately uses the standard
// library's debug/elf rather than hand-rolling ELF parsing.
package loader

import (
	"debug/elf"
	"fmt"
	"os"
)

// Segment is one PT_LOAD program header, trimmed to the fields the flat
// memory model needs to map it.
type Segment struct {
	Vaddr  uint64
	Memsz  uint64
	Offset int64
	Flags  elf.ProgFlag
}

// Image is a parsed ELF executable, ready for guest.Memory to map.
type Image struct {
	Entry    uint64
	Class    int // 32 or 64
	Segments []Segment

	file *os.File
}

// Open parses the ELF headers at path without mapping anything. The
// caller maps each Segment (in order) and must call Close once every
// segment's fixed-address mmap has been issued; Fd stays valid until then.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	ef, err := elf.NewFile(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer ef.Close()

	var class int
	switch ef.Class {
	case elf.ELFCLASS32:
		class = 32
	case elf.ELFCLASS64:
		class = 64
	default:
		f.Close()
		return nil, fmt.Errorf("%s: unsupported ELF class %v", path, ef.Class)
	}
	if ef.ByteOrder.String() != "LittleEndian" {
		f.Close()
		return nil, fmt.Errorf("%s: unsupported byte order %v", path, ef.ByteOrder)
	}

	img := &Image{Entry: ef.Entry, Class: class, file: f}
	for _, p := range ef.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		img.Segments = append(img.Segments, Segment{
			Vaddr:  p.Vaddr,
			Memsz:  p.Memsz,
			Offset: int64(p.Off),
			Flags:  p.Flags,
		})
	}
	return img, nil
}

// Fd is the file descriptor PT_LOAD segments should be mapped from.
func (img *Image) Fd() int {
	return int(img.file.Fd())
}

// Close releases the underlying file. Safe to call once every segment has
// been mapped; MAP_PRIVATE mappings keep their own reference to the pages.
func (img *Image) Close() error {
	return img.file.Close()
}
