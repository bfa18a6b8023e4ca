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

// ClassifyLength inspects the low byte of a fetch window and returns the
// instruction length in bytes (2, 4, 6 or 8) per the riscv-spec encoding
// table. illegal is true for the "none of the above" case; the fetcher
// still consumes 8 bytes in that case, but the returned record is OpIllegal.
func ClassifyLength(b0 byte) (length int, illegal bool) {
	switch {
	case b0&0x3 != 0x3:
		return 2, false
	case b0&0x1f != 0x1f:
		return 4, false
	case b0&0x3f == 0x1f:
		return 6, false
	case b0&0x7f == 0x3f:
		return 8, false
	default:
		return 8, true
	}
}
