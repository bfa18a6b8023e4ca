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

// rvemu is a user-mode RISC-V emulator: it maps an ELF binary's PT_LOAD
// segments and a stack into identity-mapped guest memory, then runs the
// fetch/decode/execute/proxy loop until the guest calls exit or hits a
// fatal condition.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"riscv-emu/internal/abiproxy"
	"riscv-emu/internal/cpu"
	"riscv-emu/internal/guest"
	"riscv-emu/internal/isa"
	"riscv-emu/internal/loader"
	"riscv-emu/internal/stepper"
)

const (
	stackTop  = 0x78000000
	stackSize = 0x01000000
)

// exitFatal is the status code for a fatal run halt (illegal instruction
// or an unrecognized ecall); it is distinct from exitUsage (wrong
// arguments or -h/--help) and from the guest's own exit(a0) status.
const (
	exitUsage = 9
	exitFatal = 1
)

func main() {
	var (
		memoryDebug     bool
		emulatorDebug   bool
		isaName         string
		logRegisters    bool
		logInstructions bool
	)

	var (
		runErr  error
		runCode int
	)
	root := &cobra.Command{
		Use:          "rvemu <elf-file>",
		Short:        "run a RISC-V ELF binary under emulation",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, ok := isa.ParseISA(isaName)
			if !ok {
				runCode = exitFatal
				runErr = fmt.Errorf("unknown isa %q (want IMA, IMAC, IMAFD or IMAFDC)", isaName)
				return nil
			}
			runCode, runErr = run(args[0], ext, memoryDebug, emulatorDebug, logRegisters, logInstructions)
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().BoolVarP(&memoryDebug, "memory-debug", "m", false, "print approximate host text/heap/stack addresses at startup")
	root.Flags().BoolVarP(&emulatorDebug, "emulator-debug", "d", false, "verbose region-mapping logs")
	root.Flags().StringVarP(&isaName, "isa", "i", "IMAFDC", "extension set: IMA, IMAC, IMAFD or IMAFDC")
	root.Flags().BoolVarP(&logRegisters, "log-registers", "r", false, "log the integer register file before each instruction")
	root.Flags().BoolVarP(&logInstructions, "log-instructions", "l", false, "log disassembly before each instruction")

	helpRequested := false
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpRequested = true
		fmt.Fprint(os.Stdout, cmd.UsageString())
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
	if helpRequested {
		os.Exit(exitUsage)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
	}
	os.Exit(runCode)
}

func memoryInfo() {
	var heapProbe [8]byte
	fmt.Fprintf(os.Stderr, "text : ~%p\n", main)
	fmt.Fprintf(os.Stderr, "heap : ~%p\n", &heapProbe)
	fmt.Fprintf(os.Stderr, "stack: ~%p\n", &heapProbe)
}

// run loads and executes path, returning the host exit status the guest
// requested (or exitFatal on a halt) and an error describing why, if any.
func run(path string, ext isa.Ext, memoryDebug, emulatorDebug, logRegisters, logInstructions bool) (int, error) {
	if memoryDebug {
		memoryInfo()
	}

	img, err := loader.Open(path)
	if err != nil {
		return exitFatal, fmt.Errorf("rvemu: %w", err)
	}
	defer img.Close()

	m := cpu.New(img.Class, ext)
	m.PC = img.Entry
	if emulatorDebug {
		m.Debug |= cpu.DebugRegions
	}
	if logRegisters {
		m.Debug |= cpu.DebugRegs
	}
	if logInstructions {
		m.Debug |= cpu.DebugInstr
	}

	mem := guest.New(m)
	for _, seg := range img.Segments {
		if err := mem.MapSegment(img.Fd(), seg.Vaddr, seg.Memsz, seg.Offset, seg.Flags); err != nil {
			return exitFatal, fmt.Errorf("rvemu: %w", err)
		}
	}
	if err := mem.MapStack(stackTop, stackSize); err != nil {
		return exitFatal, fmt.Errorf("rvemu: %w", err)
	}
	defer mem.Unmap()

	s := stepper.New(m, mem)
	runErr := s.RunToExit()

	var exitErr *abiproxy.ExitError
	if errors.As(runErr, &exitErr) {
		return int(exitErr.Code), nil
	}
	var fatalErr *cpu.FatalError
	if errors.As(runErr, &fatalErr) {
		return exitFatal, fmt.Errorf("rvemu: %s", fatalErr)
	}
	return exitFatal, fmt.Errorf("rvemu: halted: %w", runErr)
}
