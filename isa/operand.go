package isa

import (
	"fmt"
	"strings"
)

// Step is the pointer adjustment an operand applies after use.
type Step uint8

const (
	NoStep    Step = 0
	Increment Step = 1
	Decrement Step = 2
)

func (s Step) sign() string {
	switch s {
	case Increment:
		return "+"
	case Decrement:
		return "-"
	}
	return ""
}

// Operand is one operand of an instruction, as written in its assembly
// syntax.
//
// The zero value means "no operand".
type Operand struct {
	// Name is the register, condition or placeholder name, without any
	// hex sigil or suffix.
	Name string

	// Indirect operands refer to memory at the address Name holds.
	Indirect bool

	// Step is the adjustment applied to Name after use. With a non-empty
	// Offset it is instead the sign of the offset, as in "SP+e8".
	Step   Step
	Offset string

	// Hex marks Name as a hexadecimal constant, such as a restart vector.
	Hex bool
}

func (o Operand) IsZero() bool {
	return o.Name == ""
}

// Text renders the operand the way it is written in assembly, like "A",
// "(HL-)", "SP+e8" or "38h". The zero operand renders as "".
func (o Operand) Text() string {
	if o.IsZero() {
		return ""
	}
	var buf strings.Builder
	if o.Indirect {
		buf.WriteByte('(')
	}
	buf.WriteString(o.Name)
	if o.Hex {
		buf.WriteByte('h')
	}
	buf.WriteString(o.Step.sign())
	buf.WriteString(o.Offset)
	if o.Indirect {
		buf.WriteByte(')')
	}
	return buf.String()
}

// ParseOperand is the inverse of Operand.Text, also accepting the "$38"
// and "38H" spellings of hex constants. An empty string parses as the zero
// operand.
func ParseOperand(text string) (Operand, error) {
	var ret Operand
	s := strings.TrimSpace(text)
	if s == "" {
		return ret, nil
	}

	if strings.HasPrefix(s, "(") || strings.HasSuffix(s, ")") {
		if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") || len(s) < 2 {
			return ret, fmt.Errorf("unbalanced parentheses in operand %q", text)
		}
		ret.Indirect = true
		s = s[1 : len(s)-1]
		if s == "" {
			return Operand{}, fmt.Errorf("empty name in operand %q", text)
		}
	}

	switch {
	case strings.HasSuffix(s, "+"):
		ret.Step = Increment
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "-"):
		ret.Step = Decrement
		s = s[:len(s)-1]
	default:
		// An offset such as "SP+e8" splits at its sign. A leading sign
		// is part of the name.
		if i := strings.IndexAny(s[1:], "+-"); i >= 0 {
			i++
			if s[i] == '+' {
				ret.Step = Increment
			} else {
				ret.Step = Decrement
			}
			ret.Offset = s[i+1:]
			s = s[:i]
			if ret.Offset == "" {
				return Operand{}, fmt.Errorf("empty offset in operand %q", text)
			}
		}
	}

	ret.Name, ret.Hex = parseOperandName(s)
	if ret.Name == "" {
		return Operand{}, fmt.Errorf("empty name in operand %q", text)
	}
	return ret, nil
}

// parseOperandName strips the "$" sigil or "H" suffix from a hex constant.
func parseOperandName(s string) (name string, hex bool) {
	if strings.HasPrefix(s, "$") {
		return s[1:], true
	}
	if len(s) >= 2 && isDigit(s[0]) && (s[len(s)-1] == 'h' || s[len(s)-1] == 'H') {
		digits := s[:len(s)-1]
		for i := 0; i < len(digits); i++ {
			if !isHexDigit(digits[i]) {
				return s, false
			}
		}
		return digits, true
	}
	return s, false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
