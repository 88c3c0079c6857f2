package isa

import (
	"fmt"
	"strings"
)

// Flag identifies one of the status flag slots.
type Flag uint8

const (
	FlagZ Flag = 0 // zero
	FlagN Flag = 1 // subtract
	FlagH Flag = 2 // half carry
	FlagC Flag = 3 // carry
)

var flagLetters = [...]byte{'Z', 'N', 'H', 'C'}

func (f Flag) String() string {
	if int(f) < len(flagLetters) {
		return string(flagLetters[f])
	}
	return fmt.Sprintf("Flag(%d)", uint8(f))
}

// ParseFlag returns the slot for a flag letter.
func ParseFlag(s string) (Flag, bool) {
	if len(s) != 1 {
		return 0, false
	}
	for i, l := range flagLetters {
		if s[0] == l {
			return Flag(i), true
		}
	}
	return 0, false
}

// FlagEffect is the declared effect of an instruction on one flag.
//
// Computed only marks that the flag follows the instruction's usual rule
// for it; nothing here knows what that rule is.
type FlagEffect uint8

const (
	Unaffected FlagEffect = 0
	Cleared    FlagEffect = 1
	Set        FlagEffect = 2
	Computed   FlagEffect = 3
)

func (e FlagEffect) String() string {
	switch e {
	case Unaffected:
		return "Unaffected"
	case Cleared:
		return "Cleared"
	case Set:
		return "Set"
	case Computed:
		return "Computed"
	default:
		return fmt.Sprintf("FlagEffect(%d)", uint8(e))
	}
}

// ParseFlagEffect interprets one flag token from an opcode description.
// The letters Z, N, H and C all mean Computed, whichever slot they
// appear in.
func ParseFlagEffect(tok string) (FlagEffect, bool) {
	switch tok {
	case "-":
		return Unaffected, true
	case "0":
		return Cleared, true
	case "1":
		return Set, true
	case "Z", "N", "H", "C":
		return Computed, true
	}
	return 0, false
}

// Flags holds one effect per flag, indexed by Flag.
type Flags [4]FlagEffect

// Token returns the single-character source token for the effect in slot
// f, using the slot's own letter for Computed.
func (fs Flags) Token(f Flag) string {
	switch fs[f] {
	case Cleared:
		return "0"
	case Set:
		return "1"
	case Computed:
		return f.String()
	default:
		return "-"
	}
}

// String renders the flags in slot order, like "Z0H-".
func (fs Flags) String() string {
	var buf strings.Builder
	for i := range fs {
		buf.WriteString(fs.Token(Flag(i)))
	}
	return buf.String()
}
