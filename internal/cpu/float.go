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

package cpu

import "math"

// canonicalNaN32 is the canonical quiet NaN bit pattern for binary32
// (riscv-spec, "NaN Boxing of Narrower Values").
const canonicalNaN32 = 0x7fc00000

// ReadF32 reads float register i as a NaN-boxed single-precision value: the
// upper 32 bits of the 64-bit container must be all ones, else the read
// delivers the canonical quiet NaN regardless of what's stored below.
func (m *Machine) ReadF32(i uint8) float32 {
	v := m.F[i]
	if v>>32 != 0xffffffff {
		return math.Float32frombits(canonicalNaN32)
	}
	return math.Float32frombits(uint32(v))
}

// WriteF32 stores a single-precision result into float register i, NaN-
// boxing it by setting the upper 32 bits to all ones.
func (m *Machine) WriteF32(i uint8, v float32) {
	m.F[i] = 0xffffffff00000000 | uint64(math.Float32bits(v))
}

// ReadF64 reads float register i as a double-precision value. NaN-boxing
// only constrains narrower (single-precision) values, so the full 64 bits
// are used as-is.
func (m *Machine) ReadF64(i uint8) float64 {
	return math.Float64frombits(m.F[i])
}

// WriteF64 stores a double-precision result into float register i.
func (m *Machine) WriteF64(i uint8, v float64) {
	m.F[i] = math.Float64bits(v)
}
