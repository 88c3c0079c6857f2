package isa

import (
	"fmt"
	"io"
)

// Decode decodes the instruction at the start of code, following the lead
// byte into the Prefixed plane. n is the encoded length of the
// instruction, including the lead byte if there is one.
func (t *Table) Decode(code []byte) (d Descriptor, n int, err error) {
	if len(code) == 0 {
		return Descriptor{}, 0, io.ErrUnexpectedEOF
	}
	p, at := Unprefixed, 0
	if code[0] == PrefixByte {
		if len(code) < 2 {
			return Descriptor{}, 0, io.ErrUnexpectedEOF
		}
		p, at = Prefixed, 1
	}
	d, err = t.Lookup(p, code[at])
	if err != nil {
		return Descriptor{}, 0, err
	}
	n = at + d.Size
	if n > len(code) {
		return Descriptor{}, 0, io.ErrUnexpectedEOF
	}
	return d, n, nil
}

// Line is one instruction found by Sweep.
type Line struct {
	Addr  uint16
	Bytes []byte
	Desc  Descriptor
}

func (l Line) String() string {
	return fmt.Sprintf("%04x  % -8x  %s", l.Addr, l.Bytes, l.Desc)
}

// Sweep disassembles mem from start to end, as if loaded at base, one
// instruction after another. It stops at the first byte that isn't a
// defined opcode or the first instruction that runs past the end of mem,
// returning the lines decoded so far along with the error.
func (t *Table) Sweep(mem []byte, base uint16) ([]Line, error) {
	var lines []Line
	for off := 0; off < len(mem); {
		addr := base + uint16(off)
		d, n, err := t.Decode(mem[off:])
		if err != nil {
			return lines, fmt.Errorf("at 0x%04x: %w", addr, err)
		}
		lines = append(lines, Line{
			Addr:  addr,
			Bytes: mem[off : off+n],
			Desc:  d,
		})
		off += n
	}
	return lines, nil
}
