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

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"text/template"
)

// RegisterReport renders the integer register file as a 4-column table, the
// same tabwriter layout the teacher repo uses for its VM dump.
func (m *Machine) RegisterReport() string {
	buf := &strings.Builder{}
	w := tabwriter.NewWriter(buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	const cols = 4
	for i := 0; i < len(m.Reg); {
		for j := 0; i < len(m.Reg) && j < cols; i, j = i+1, j+1 {
			fmt.Fprintf(w, "%s(%d):\t%#x\t\t\t", RegNames[i], i, m.Reg[i])
		}
		fmt.Fprintln(w, "")
	}
	w.Flush()
	return buf.String()
}

// RegionReport lists owned memory regions in insertion order, used by the
// -d/--emulator-debug mapping log supplemented from riscv-test-emulate.cc.
func (m *Machine) RegionReport() string {
	buf := &strings.Builder{}
	for _, r := range m.Regions {
		fmt.Fprintf(buf, "%s: mmap: %#x - %#x %s\n", r.Name, r.Addr, r.Addr+r.Length, protString(r.Prot))
	}
	return buf.String()
}

func protString(prot int) string {
	const (
		protRead  = 0x1
		protWrite = 0x2
		protExec  = 0x4
	)
	s := ""
	if prot&protRead != 0 {
		s += "+R"
	}
	if prot&protWrite != 0 {
		s += "+W"
	}
	if prot&protExec != 0 {
		s += "+X"
	}
	if s == "" {
		return "+NONE"
	}
	return s
}

// Snapshot renders debugTmpl, filling in only the sections requested by
// Debug flags.
func (m *Machine) Snapshot(lastPC uint64, disasm string) string {
	data := map[string]interface{}{
		"Steps": m.Steps,
		"PC":    lastPC,
	}
	if m.Debug&DebugInstr != 0 && disasm != "" {
		data["Instr"] = disasm
	}
	if m.Debug&DebugRegs != 0 {
		data["Regs"] = m.RegisterReport()
	}

	buf := new(strings.Builder)
	if err := debugTmpl.Execute(buf, data); err != nil {
		panic(fmt.Sprintf("can't render machine snapshot: %v", err))
	}
	return buf.String()
}

var debugTmpl = template.Must(template.New("").Parse(`=========== RVEMU ============
Steps: {{.Steps}}
PC:    {{printf "%#x" .PC}} ({{.PC}})
{{with .Instr}}INSTR: {{.}}
{{end}}{{with .Regs}}
[ REGISTERS ]
{{.}}
{{end}}`))
