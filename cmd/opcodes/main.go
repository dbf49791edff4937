// Command opcodes prints the registered opcode table, one row per spec with
// its capabilities. Handy when diffing the table against capture logs.
package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/arkfall/nexus-server/internal/server/packet"
)

func main() {
	reg, err := packet.BuildRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build opcode registry: %v\n", err)
		os.Exit(1)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Opcode", "Name", "Decode", "Encode"})
	table.SetBorder(false)
	table.SetColumnSeparator(" ")

	for _, sp := range reg.Specs() {
		name := sp.Name
		if name == "" {
			name = "(unmapped)"
		}
		table.Append([]string{
			sp.Op.String(),
			name,
			mark(sp.Decode != nil),
			mark(sp.Encodable),
		})
	}
	table.Render()
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
