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
	"encoding/binary"

	"riscv-emu/internal/cpu"
	"riscv-emu/internal/guest"
	"riscv-emu/internal/isa"
)

// execInt handles the RV32I/RV64I base: ALU, loads/stores, control flow.
// Shift amounts are masked by m.ShiftMask (XLEN-1); *w variants compute
// in 32 bits and sign-extend, as spec.md §4.2 requires.
func execInt(m *cpu.Machine, rec *isa.Record, length int) (handled, pcSet bool) {
	switch rec.Op {
	case isa.OpLUI:
		m.Store(rec.Rd, uint64(rec.Imm))
	case isa.OpAUIPC:
		m.Store(rec.Rd, m.PC+uint64(rec.Imm))

	case isa.OpJAL:
		m.Store(rec.Rd, m.PC+uint64(length))
		m.PC = (m.PC + uint64(rec.Imm)) & m.WordMask
		return true, true
	case isa.OpJALR:
		target := (m.Reg[rec.Rs1] + uint64(rec.Imm)) &^ 1 & m.WordMask
		m.Store(rec.Rd, m.PC+uint64(length))
		m.PC = target
		return true, true

	case isa.OpBEQ:
		return true, branch(m, rec, m.Reg[rec.Rs1] == m.Reg[rec.Rs2])
	case isa.OpBNE:
		return true, branch(m, rec, m.Reg[rec.Rs1] != m.Reg[rec.Rs2])
	case isa.OpBLT:
		return true, branch(m, rec, signedXLEN(m, m.Reg[rec.Rs1]) < signedXLEN(m, m.Reg[rec.Rs2]))
	case isa.OpBGE:
		return true, branch(m, rec, signedXLEN(m, m.Reg[rec.Rs1]) >= signedXLEN(m, m.Reg[rec.Rs2]))
	case isa.OpBLTU:
		return true, branch(m, rec, m.Reg[rec.Rs1] < m.Reg[rec.Rs2])
	case isa.OpBGEU:
		return true, branch(m, rec, m.Reg[rec.Rs1] >= m.Reg[rec.Rs2])

	case isa.OpLB:
		m.Store(rec.Rd, uint64(int64(int8(guest.At(effAddr(m, rec), 1)[0]))))
	case isa.OpLBU:
		m.Store(rec.Rd, uint64(guest.At(effAddr(m, rec), 1)[0]))
	case isa.OpLH:
		m.Store(rec.Rd, uint64(int64(int16(binary.LittleEndian.Uint16(guest.At(effAddr(m, rec), 2))))))
	case isa.OpLHU:
		m.Store(rec.Rd, uint64(binary.LittleEndian.Uint16(guest.At(effAddr(m, rec), 2))))
	case isa.OpLW:
		m.Store(rec.Rd, uint64(int64(int32(binary.LittleEndian.Uint32(guest.At(effAddr(m, rec), 4))))))
	case isa.OpLWU:
		m.Store(rec.Rd, uint64(binary.LittleEndian.Uint32(guest.At(effAddr(m, rec), 4))))
	case isa.OpLD:
		m.Store(rec.Rd, binary.LittleEndian.Uint64(guest.At(effAddr(m, rec), 8)))

	case isa.OpSB:
		guest.At(effAddr(m, rec), 1)[0] = byte(m.Reg[rec.Rs2])
		m.ClearReservation()
	case isa.OpSH:
		binary.LittleEndian.PutUint16(guest.At(effAddr(m, rec), 2), uint16(m.Reg[rec.Rs2]))
		m.ClearReservation()
	case isa.OpSW:
		binary.LittleEndian.PutUint32(guest.At(effAddr(m, rec), 4), uint32(m.Reg[rec.Rs2]))
		m.ClearReservation()
	case isa.OpSD:
		binary.LittleEndian.PutUint64(guest.At(effAddr(m, rec), 8), m.Reg[rec.Rs2])
		m.ClearReservation()

	case isa.OpADDI:
		m.Store(rec.Rd, uint64(signedXLEN(m, m.Reg[rec.Rs1])+rec.Imm))
	case isa.OpSLTI:
		m.Store(rec.Rd, boolU64(signedXLEN(m, m.Reg[rec.Rs1]) < rec.Imm))
	case isa.OpSLTIU:
		m.Store(rec.Rd, boolU64(m.Reg[rec.Rs1] < uint64(rec.Imm)))
	case isa.OpXORI:
		m.Store(rec.Rd, m.Reg[rec.Rs1]^uint64(rec.Imm))
	case isa.OpORI:
		m.Store(rec.Rd, m.Reg[rec.Rs1]|uint64(rec.Imm))
	case isa.OpANDI:
		m.Store(rec.Rd, m.Reg[rec.Rs1]&uint64(rec.Imm))
	case isa.OpSLLI:
		m.Store(rec.Rd, m.Reg[rec.Rs1]<<(uint64(rec.Imm)&m.ShiftMask))
	case isa.OpSRLI:
		m.Store(rec.Rd, m.Reg[rec.Rs1]>>(uint64(rec.Imm)&m.ShiftMask))
	case isa.OpSRAI:
		m.Store(rec.Rd, uint64(signedXLEN(m, m.Reg[rec.Rs1])>>(uint64(rec.Imm)&m.ShiftMask)))

	case isa.OpADD:
		m.Store(rec.Rd, m.Reg[rec.Rs1]+m.Reg[rec.Rs2])
	case isa.OpSUB:
		m.Store(rec.Rd, m.Reg[rec.Rs1]-m.Reg[rec.Rs2])
	case isa.OpSLL:
		m.Store(rec.Rd, m.Reg[rec.Rs1]<<(m.Reg[rec.Rs2]&m.ShiftMask))
	case isa.OpSLT:
		m.Store(rec.Rd, boolU64(signedXLEN(m, m.Reg[rec.Rs1]) < signedXLEN(m, m.Reg[rec.Rs2])))
	case isa.OpSLTU:
		m.Store(rec.Rd, boolU64(m.Reg[rec.Rs1] < m.Reg[rec.Rs2]))
	case isa.OpXOR:
		m.Store(rec.Rd, m.Reg[rec.Rs1]^m.Reg[rec.Rs2])
	case isa.OpSRL:
		m.Store(rec.Rd, m.Reg[rec.Rs1]>>(m.Reg[rec.Rs2]&m.ShiftMask))
	case isa.OpSRA:
		m.Store(rec.Rd, uint64(signedXLEN(m, m.Reg[rec.Rs1])>>(m.Reg[rec.Rs2]&m.ShiftMask)))
	case isa.OpOR:
		m.Store(rec.Rd, m.Reg[rec.Rs1]|m.Reg[rec.Rs2])
	case isa.OpAND:
		m.Store(rec.Rd, m.Reg[rec.Rs1]&m.Reg[rec.Rs2])

	case isa.OpADDIW:
		m.Store(rec.Rd, uint64(int32(m.Reg[rec.Rs1])+int32(rec.Imm)))
	case isa.OpSLLIW:
		m.Store(rec.Rd, uint64(int32(uint32(m.Reg[rec.Rs1])<<(uint64(rec.Imm)&0x1f))))
	case isa.OpSRLIW:
		m.Store(rec.Rd, uint64(int32(uint32(m.Reg[rec.Rs1])>>(uint64(rec.Imm)&0x1f))))
	case isa.OpSRAIW:
		m.Store(rec.Rd, uint64(int32(m.Reg[rec.Rs1])>>(uint64(rec.Imm)&0x1f)))
	case isa.OpADDW:
		m.Store(rec.Rd, uint64(int32(m.Reg[rec.Rs1])+int32(m.Reg[rec.Rs2])))
	case isa.OpSUBW:
		m.Store(rec.Rd, uint64(int32(m.Reg[rec.Rs1])-int32(m.Reg[rec.Rs2])))
	case isa.OpSLLW:
		m.Store(rec.Rd, uint64(int32(uint32(m.Reg[rec.Rs1])<<(m.Reg[rec.Rs2]&0x1f))))
	case isa.OpSRLW:
		m.Store(rec.Rd, uint64(int32(uint32(m.Reg[rec.Rs1])>>(m.Reg[rec.Rs2]&0x1f))))
	case isa.OpSRAW:
		m.Store(rec.Rd, uint64(int32(m.Reg[rec.Rs1])>>(m.Reg[rec.Rs2]&0x1f)))

	default:
		return false, false
	}
	return true, false
}

func branch(m *cpu.Machine, rec *isa.Record, taken bool) (pcSet bool) {
	if !taken {
		return false
	}
	m.PC = (m.PC + uint64(rec.Imm)) & m.WordMask
	return true
}

func boolU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
