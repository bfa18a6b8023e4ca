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

import "fmt"

// FatalError is returned by the stepper and the syscall proxy for the two
// conditions execution cannot continue past: an illegal instruction and an
// unrecognized ecall. The CLI layer unwraps it with errors.As, the same way
// it does for the proxy's own ExitError, to report a halt instead of a
// guest-requested exit status.
type FatalError struct {
	PC          uint64
	Instruction string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal halt at pc %#x: %s", e.PC, e.Instruction)
}

func (e *FatalError) halt() {}

// haltError is implemented by every error that represents a fatal halt, so
// code that only cares about "can this hart keep running" doesn't need to
// know the concrete type.
type haltError interface {
	error
	halt()
}

var _ haltError = (*FatalError)(nil)
