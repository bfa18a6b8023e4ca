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

package abiproxy

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// statField describes one member of the ABI unknown_stat<P> template:
// wide fields (ulong_t/long_t) scale with XLEN, narrow fields (uint_t/
// int_t) are always 32 bits. Order matches
// original_source/src/abi/riscv-unknown-abi.h exactly, including its
// explicit padding members.
type statField int

const (
	fDev statField = iota
	fIno
	fMode
	fNlink
	fUid
	fGid
	fRdev
	fPad1
	fSize
	fBlksize
	fPad2
	fBlocks
	fAtime
	fAtimeNsec
	fMtime
	fMtimeNsec
	fCtime
	fCtimeNsec
	fUnused4
	fUnused5
)

var narrowFields = map[statField]bool{
	fMode: true, fNlink: true, fUid: true, fGid: true,
	fBlksize: true, fPad2: true, fUnused4: true, fUnused5: true,
}

var fieldOrder = []statField{
	fDev, fIno, fMode, fNlink, fUid, fGid, fRdev, fPad1, fSize, fBlksize,
	fPad2, fBlocks, fAtime, fAtimeNsec, fMtime, fMtimeNsec, fCtime, fCtimeNsec,
	fUnused4, fUnused5,
}

func fieldWidth(xlen int, f statField) int {
	if narrowFields[f] {
		return 4
	}
	return xlen / 8
}

// layout returns each field's byte offset, in declaration order, honoring
// natural alignment the way the C++ template's compiler-assigned layout
// does (no explicit packing attribute in the original header).
func layout(xlen int) (offsets map[statField]int, size int) {
	offsets = make(map[statField]int, len(fieldOrder))
	off := 0
	for _, f := range fieldOrder {
		w := fieldWidth(xlen, f)
		off = (off + w - 1) &^ (w - 1)
		offsets[f] = off
		off += w
	}
	return offsets, off
}

func statSize(xlen int) int {
	_, size := layout(xlen)
	return size
}

// encodeStat packs st into buf at the documented offsets for the given
// XLEN, per spec.md §6 and the original ABI header's field order. Time
// fields are split into seconds and nanoseconds, matching the non-Darwin
// branch of cvt_unknown_stat (this proxy only ever runs on Linux).
func encodeStat(xlen int, st *unix.Stat_t, buf []byte) {
	offsets, _ := layout(xlen)
	put := func(f statField, v uint64) {
		off := offsets[f]
		if fieldWidth(xlen, f) == 4 {
			binary.LittleEndian.PutUint32(buf[off:], uint32(v))
		} else {
			binary.LittleEndian.PutUint64(buf[off:], v)
		}
	}

	put(fDev, uint64(st.Dev))
	put(fIno, uint64(st.Ino))
	put(fMode, uint64(st.Mode))
	put(fNlink, uint64(st.Nlink))
	put(fUid, uint64(st.Uid))
	put(fGid, uint64(st.Gid))
	put(fRdev, uint64(st.Rdev))
	put(fSize, uint64(st.Size))
	put(fBlksize, uint64(st.Blksize))
	put(fBlocks, uint64(st.Blocks))
	put(fAtime, uint64(st.Atim.Sec))
	put(fAtimeNsec, uint64(st.Atim.Nsec))
	put(fMtime, uint64(st.Mtim.Sec))
	put(fMtimeNsec, uint64(st.Mtim.Nsec))
	put(fCtime, uint64(st.Ctim.Sec))
	put(fCtimeNsec, uint64(st.Ctim.Nsec))
}
