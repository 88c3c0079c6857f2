package isa

import (
	"fmt"
)

// Table maps each plane's 256 opcode addresses to their descriptors.
//
// A Table never changes after NewTable returns it, so any number of
// goroutines may use it at once.
type Table struct {
	// A nil slot marks an address the description didn't declare.
	slots [len(planes)][256]*Descriptor
}

// NewTable collects descriptors into a table. It fails if two descriptors
// claim the same address in the same plane.
func NewTable(ds []Descriptor) (*Table, error) {
	t := &Table{}
	for i := range ds {
		d := ds[i]
		if int(d.Plane) >= len(planes) {
			return nil, &Error{
				Plane: d.Plane,
				Addr:  int(d.Opcode),
				Field: "plane",
				Err:   ErrMalformedSource,
				Msg:   fmt.Sprintf("invalid plane %d for 0x%02x", uint8(d.Plane), d.Opcode),
			}
		}
		if prev := t.slots[d.Plane][d.Opcode]; prev != nil {
			return nil, &Error{
				Plane: d.Plane,
				Addr:  int(d.Opcode),
				Err:   ErrDuplicateOpcode,
				Msg:   fmt.Sprintf("%s and %s", prev.Mnemonic, d.Mnemonic),
			}
		}
		t.slots[d.Plane][d.Opcode] = &d
	}
	return t, nil
}

// MustNewTable is like NewTable but panics on failure. It is intended for
// initializing package-level tables.
func MustNewTable(ds []Descriptor) *Table {
	t, err := NewTable(ds)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the descriptor for an address. Looking up an undefined
// address returns an error wrapping ErrUndefinedOpcode, never a
// placeholder descriptor.
func (t *Table) Lookup(p Plane, code byte) (Descriptor, error) {
	if int(p) >= len(planes) {
		return Descriptor{}, undefinedOpcode(p, code)
	}
	d := t.slots[p][code]
	if d == nil {
		return Descriptor{}, undefinedOpcode(p, code)
	}
	return *d, nil
}

// MustLookup is like Lookup but treats an undefined address as fatal,
// panicking with the *Error that Lookup would have returned.
func (t *Table) MustLookup(p Plane, code byte) Descriptor {
	d, err := t.Lookup(p, code)
	if err != nil {
		panic(err)
	}
	return d
}

// Defined returns true if the description declares the address.
func (t *Table) Defined(p Plane, code byte) bool {
	return int(p) < len(planes) && t.slots[p][code] != nil
}

// Len returns the number of defined addresses in a plane.
func (t *Table) Len(p Plane) int {
	if int(p) >= len(planes) {
		return 0
	}
	n := 0
	for _, d := range t.slots[p] {
		if d != nil {
			n++
		}
	}
	return n
}

// Descriptors returns copies of the descriptors of a plane in address
// order.
func (t *Table) Descriptors(p Plane) []Descriptor {
	ret := make([]Descriptor, 0, t.Len(p))
	if int(p) >= len(planes) {
		return ret
	}
	for _, d := range t.slots[p] {
		if d != nil {
			ret = append(ret, *d)
		}
	}
	return ret
}

// All returns the descriptors of both planes, unprefixed first.
func (t *Table) All() []Descriptor {
	var ret []Descriptor
	for _, p := range planes {
		ret = append(ret, t.Descriptors(p)...)
	}
	return ret
}
