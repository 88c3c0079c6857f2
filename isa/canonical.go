package isa

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes the table as a description in the format of
// FlagListSchema, counting the lead byte in prefixed costs as descriptions
// do. Parsing the result with that schema produces a table with identical
// descriptors.
func (t *Table) WriteJSON(w io.Writer) error {
	doc := make(map[string]map[string]flagListRecord, len(planes))
	for _, p := range planes {
		recs := make(map[string]flagListRecord, t.Len(p))
		for _, d := range t.Descriptors(p) {
			key := fmt.Sprintf("0x%02X", d.Opcode)
			recs[key] = canonicalRecord(key, d)
		}
		doc[p.String()] = recs
	}

	src, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	src = append(src, '\n')
	_, err = w.Write(src)
	return err
}

func canonicalRecord(key string, d Descriptor) flagListRecord {
	size, base := d.Size, d.Cycles
	if d.Plane == Prefixed {
		size += prefixFetchBytes
		base += prefixFetchCycles
	}
	cycles := []int{base}
	if d.Conditional() {
		cycles = append(cycles, d.BranchCycles)
	}
	flags := make([]string, len(d.Flags))
	for i := range d.Flags {
		flags[i] = d.Flags.Token(Flag(i))
	}
	return flagListRecord{
		Mnemonic: d.Mnemonic,
		Length:   &size,
		Cycles:   cycles,
		Flags:    flags,
		Addr:     key,
		Group:    d.Group,
		Operand1: d.Operand1.Text(),
		Operand2: d.Operand2.Text(),
	}
}
