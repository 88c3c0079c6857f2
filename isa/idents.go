package isa

import (
	"fmt"
	"strings"
)

// Identifier synthesizes a symbol-safe name for a descriptor from its
// mnemonic and operand texts, like "LD__HLminus__A" for "LD (HL-),A".
//
// Identifiers are only unique within a plane; AssignNames checks that.
func Identifier(d Descriptor) string {
	parts := []string{d.Mnemonic}
	for _, op := range d.Operands() {
		parts = append(parts, op.Text())
	}
	return makeIdent(strings.Join(parts, "_"))
}

func makeIdent(inp string) string {
	var b strings.Builder
	for i, r := range inp {
		switch {
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_':
			b.WriteRune(r)
		case r == '+':
			b.WriteString("plus")
		case r == '-':
			b.WriteString("minus")
		default:
			// includes the parentheses of indirect operands
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ValidIdentifier returns true if s is non-empty, starts with a letter or
// underscore and otherwise holds only ASCII letters, digits and
// underscores.
func ValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Names is the set of synthesized identifiers for every defined address
// of a table.
type Names struct {
	names [len(planes)][256]string
}

// AssignNames synthesizes an identifier for every descriptor in t and
// verifies that no two descriptors in the same plane share one.
func AssignNames(t *Table) (*Names, error) {
	ret := &Names{}
	for _, p := range planes {
		owners := make(map[string]byte)
		for _, d := range t.Descriptors(p) {
			name := Identifier(d)
			if !ValidIdentifier(name) {
				// only an empty mnemonic in a hand-built table
				return nil, &Error{
					Plane: p,
					Addr:  int(d.Opcode),
					Field: "mnemonic",
					Err:   ErrMalformedSource,
					Msg:   fmt.Sprintf("cannot form an identifier from %q", d.Mnemonic),
				}
			}
			if prev, exists := owners[name]; exists {
				return nil, &Error{
					Plane: p,
					Addr:  int(d.Opcode),
					Err:   ErrIdentifierCollision,
					Msg:   fmt.Sprintf("%s is also the name of 0x%02x", name, prev),
				}
			}
			owners[name] = d.Opcode
			ret.names[p][d.Opcode] = name
		}
	}
	return ret, nil
}

// Name returns the identifier for an address, or "" if the address is
// undefined.
func (n *Names) Name(p Plane, code byte) string {
	return n.names[p][code]
}

// Each calls fn for every named address of a plane, in address order.
func (n *Names) Each(p Plane, fn func(code byte, name string)) {
	for i, name := range n.names[p] {
		if name == "" {
			continue
		}
		fn(byte(i), name)
	}
}
