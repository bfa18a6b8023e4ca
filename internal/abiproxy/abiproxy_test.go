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
	"os"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"riscv-emu/internal/cpu"
	"riscv-emu/internal/guest"
	"riscv-emu/internal/isa"
)

func testMachineWithMem(t *testing.T, xlen int) (*cpu.Machine, uint64) {
	t.Helper()
	m := cpu.New(xlen, isa.ExtI|isa.ExtM|isa.ExtA)
	b, err := unix.Mmap(-1, 0, unix.Getpagesize(), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	require.NoError(t, err)
	t.Cleanup(func() { unix.Munmap(b) })
	return m, uint64(uintptr(unsafe.Pointer(&b[0])))
}

func TestDispatchExitReturnsExitError(t *testing.T) {
	m, _ := testMachineWithMem(t, 64)
	m.Reg[17] = SysExit
	m.Reg[10] = 7
	p := New(m, guest.New(m))
	err := p.Dispatch()
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, int64(7), exitErr.Code)
}

func TestDispatchWriteToPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	m, addr := testMachineWithMem(t, 64)
	copy(guest.At(addr, 5), []byte("hello"))
	m.Reg[17] = SysWrite
	m.Reg[10] = uint64(w.Fd())
	m.Reg[11] = addr
	m.Reg[12] = 5
	p := New(m, guest.New(m))
	require.NoError(t, p.Dispatch())
	assert.Equal(t, uint64(5), m.Reg[10])

	got := make([]byte, 5)
	_, err = r.Read(got)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestDispatchUnknownSyscallErrors(t *testing.T) {
	m, _ := testMachineWithMem(t, 64)
	m.Reg[17] = 0xdead
	p := New(m, guest.New(m))
	err := p.Dispatch()
	var fatalErr *cpu.FatalError
	require.ErrorAs(t, err, &fatalErr)
	assert.Equal(t, m.PC, fatalErr.PC)
}

func TestStatSizeMatchesNativeLayout(t *testing.T) {
	assert.Equal(t, 128, statSize(64))
	assert.Equal(t, 80, statSize(32))
}

func TestEncodeStatWritesSizeField(t *testing.T) {
	var st unix.Stat_t
	st.Size = 0x1234
	st.Mode = 0o100644
	buf := make([]byte, statSize(64))
	encodeStat(64, &st, buf)

	offsets, _ := layout(64)
	got := int64(0)
	for i := 0; i < 8; i++ {
		got |= int64(buf[offsets[fSize]+i]) << (8 * i)
	}
	assert.Equal(t, int64(0x1234), got)
}
