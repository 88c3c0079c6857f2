package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/apparentlymart/sm83-meta/isa"
)

// writeListing prints one row per declared instruction, with the
// identifier the generated code will give it. Terminals get box drawing;
// anything else gets plain ASCII.
func writeListing(w io.Writer, t *isa.Table, names *isa.Names, styled bool) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if styled {
		tw.SetStyle(table.StyleLight)
	}
	tw.SetTitle("%d unprefixed, %d prefixed", t.Len(isa.Unprefixed), t.Len(isa.Prefixed))
	tw.AppendHeader(table.Row{"Addr", "Name", "Instruction", "Len", "Cycles", "ZNHC", "Group"})

	for _, d := range t.All() {
		addr := fmt.Sprintf("%02X", d.Opcode)
		if d.Plane == isa.Prefixed {
			addr = fmt.Sprintf("CB %02X", d.Opcode)
		}
		tw.AppendRow(table.Row{
			addr,
			names.Name(d.Plane, d.Opcode),
			assembly(d),
			d.Size,
			d.CyclesText(),
			d.Flags.String(),
			d.Group,
		})
	}
	tw.Render()
}

// assembly renders d the way it is usually written, like "LD (HL-),A".
func assembly(d isa.Descriptor) string {
	ret := d.Mnemonic
	for i, op := range d.Operands() {
		if i == 0 {
			ret += " "
		} else {
			ret += ","
		}
		ret += op.Text()
	}
	return ret
}
