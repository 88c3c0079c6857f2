// Package isa is a normalized model of the SM83 instruction set, built from
// one of the JSON opcode descriptions commonly published for it.
//
// A description is normalized into Descriptor values, which are collected
// into a Table that maps each of the two 256-entry opcode planes to its
// declared instructions. Addresses the description doesn't declare are
// undefined, and looking them up is always an error.
package isa

import (
	"fmt"
)

// Plane selects one of the two opcode address spaces.
type Plane uint8

const (
	Unprefixed Plane = 0
	Prefixed   Plane = 1
)

// PrefixByte is the lead byte that selects the Prefixed plane for the byte
// that follows it.
const PrefixByte = 0xCB

// The cost of fetching PrefixByte. Descriptors in the Prefixed plane never
// include it.
const (
	prefixFetchBytes  = 1
	prefixFetchCycles = 4
)

var planes = [...]Plane{Unprefixed, Prefixed}

func (p Plane) String() string {
	switch p {
	case Unprefixed:
		return "unprefixed"
	case Prefixed:
		return "cbprefixed"
	default:
		return fmt.Sprintf("Plane(%d)", uint8(p))
	}
}

// ParsePlane accepts the member names used by the known opcode
// descriptions, returning false for anything else.
func ParsePlane(s string) (Plane, bool) {
	switch s {
	case "unprefixed", "plain":
		return Unprefixed, true
	case "cbprefixed", "prefixed":
		return Prefixed, true
	}
	return 0, false
}

// Descriptor is the normalized description of one instruction variant.
//
// Size counts bytes from the start of the instruction. For the Prefixed
// plane both Size and Cycles leave out the lead byte, which belongs to the
// instruction that selected the plane.
type Descriptor struct {
	Plane    Plane
	Opcode   byte
	Mnemonic string
	Size     int

	// Cycles is the cost when no branch is taken. BranchCycles is the cost
	// when a conditional branch is taken, or zero for unconditional
	// instructions.
	Cycles       int
	BranchCycles int

	Flags Flags

	// Group is the optional instruction family label, such as "x8/alu".
	Group string

	Operand1 Operand
	Operand2 Operand
}

// Conditional returns true if the descriptor declares a separate cost for
// a taken branch.
func (d Descriptor) Conditional() bool {
	return d.BranchCycles != 0
}

// CyclesText renders the cycle costs as "4", or "12/8" for a conditional
// instruction.
func (d Descriptor) CyclesText() string {
	if d.Conditional() {
		return fmt.Sprintf("%d/%d", d.Cycles, d.BranchCycles)
	}
	return fmt.Sprintf("%d", d.Cycles)
}

// Operands returns the present operands in order.
func (d Descriptor) Operands() []Operand {
	var ret []Operand
	for _, op := range [...]Operand{d.Operand1, d.Operand2} {
		if op.IsZero() {
			continue
		}
		ret = append(ret, op)
	}
	return ret
}

// String is the diagnostic rendering of a descriptor, with absent operands
// rendered as empty text:
//
//	NOP   (A: 0x00 L: 1)
//	LD (HL-) A (A: 0x32 L: 1)
func (d Descriptor) String() string {
	return fmt.Sprintf("%s %s %s (A: 0x%02x L: %d)",
		d.Mnemonic, d.Operand1.Text(), d.Operand2.Text(), d.Opcode, d.Size)
}
