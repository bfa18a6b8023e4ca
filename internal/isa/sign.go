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

package isa

import "math"

// signExtend extends bit (counting from 0, the sign bit of an N-bit field)
// in v to fill a 64-bit value. It lets us build signed immediates from an
// N-bit (N<64) field directly out of the raw instruction bits.
func signExtend(v uint64, bit int) uint64 {
	b := signBits[bit]
	if v&b.signBit != 0 {
		return v | b.ones
	}
	return v
}

var signBits [64]struct {
	signBit uint64
	ones    uint64
}

func init() {
	b := uint64(1)
	ones := uint64(math.MaxUint64)
	for i := range signBits {
		signBits[i].signBit = b
		signBits[i].ones = ones
		b <<= 1
		ones <<= 1
	}
}
