package isa

import (
	"fmt"
	"sort"
)

// FlagMapSchema reads descriptions whose flags are an object keyed by flag
// letter and whose operands are structured records:
//
//	"0x32": {
//	  "mnemonic": "LD", "bytes": 1, "cycles": [8],
//	  "operands": [
//	    {"name": "HL", "immediate": false, "decrement": true},
//	    {"name": "A", "immediate": true}
//	  ],
//	  "flags": {"Z": "-", "N": "-", "H": "-", "C": "-"}
//	}
//
// Byte counts and cycles in the prefixed member include the lead byte,
// which normalization removes.
type FlagMapSchema struct{}

type flagMapRecord struct {
	Mnemonic string            `json:"mnemonic"`
	Bytes    *int              `json:"bytes"`
	Cycles   []int             `json:"cycles"`
	Operands []flagMapOperand  `json:"operands"`
	Flags    map[string]string `json:"flags"`
}

type flagMapOperand struct {
	Name      string `json:"name"`
	Immediate *bool  `json:"immediate"`
	Increment bool   `json:"increment"`
	Decrement bool   `json:"decrement"`
}

func (FlagMapSchema) Name() string {
	return "flagmap"
}

func (FlagMapSchema) Normalize(rec RawRecord) (Descriptor, error) {
	addr, ok := parseAddr(rec.Key)
	if !ok {
		return Descriptor{}, malformed(rec, -1, "", "invalid opcode key %q", rec.Key)
	}

	var raw flagMapRecord
	if err := decodeRecord(rec, addr, &raw); err != nil {
		return Descriptor{}, err
	}
	if raw.Mnemonic == "" {
		return Descriptor{}, malformed(rec, int(addr), "mnemonic", "missing")
	}

	size, cycles, branch, err := normalizeCosts(rec, addr, rawCosts{
		field:  "bytes",
		length: raw.Bytes,
		cycles: raw.Cycles,
	})
	if err != nil {
		return Descriptor{}, err
	}

	flags, err := normalizeFlagMap(rec, addr, raw.Flags)
	if err != nil {
		return Descriptor{}, err
	}

	ops := make([]Operand, len(raw.Operands))
	for i, rawOp := range raw.Operands {
		field := fmt.Sprintf("operands[%d]", i)
		if rawOp.Name == "" {
			return Descriptor{}, malformed(rec, int(addr), field+".name", "missing")
		}
		if rawOp.Immediate == nil {
			return Descriptor{}, malformed(rec, int(addr), field+".immediate", "missing")
		}
		if rawOp.Increment && rawOp.Decrement {
			return Descriptor{}, malformed(rec, int(addr), field, "both increment and decrement")
		}
		op := Operand{Indirect: !*rawOp.Immediate}
		op.Name, op.Hex = parseOperandName(rawOp.Name)
		switch {
		case rawOp.Increment:
			op.Step = Increment
		case rawOp.Decrement:
			op.Step = Decrement
		}
		ops[i] = op
	}

	if len(ops) > 3 {
		return Descriptor{}, malformed(rec, int(addr), "operands", "too many operands (%d)", len(ops))
	}

	// "LD HL,SP+e8" is described as three operands, the middle one marked
	// as incremented. The offset belongs to the second operand.
	if len(ops) == 3 {
		if ops[1].Step == NoStep || ops[1].Indirect || ops[2].Indirect {
			return Descriptor{}, malformed(rec, int(addr), "operands[2]", "a third operand must be an offset to the second")
		}
		ops[1].Offset = ops[2].Text()
		ops = ops[:2]
	}

	d := Descriptor{
		Plane:        rec.Plane,
		Opcode:       addr,
		Mnemonic:     raw.Mnemonic,
		Size:         size,
		Cycles:       cycles,
		BranchCycles: branch,
		Flags:        flags,
	}
	if len(ops) > 0 {
		d.Operand1 = ops[0]
	}
	if len(ops) > 1 {
		d.Operand2 = ops[1]
	}
	return d, nil
}

func normalizeFlagMap(rec RawRecord, addr byte, raw map[string]string) (Flags, error) {
	var flags Flags
	if raw == nil {
		return flags, malformed(rec, int(addr), "flags", "missing")
	}

	// Visit keys in order so the first error reported is always the same.
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := 0
	for _, k := range keys {
		f, ok := ParseFlag(k)
		if !ok {
			return flags, malformed(rec, int(addr), "flags."+k, "unknown flag")
		}
		effect, ok := ParseFlagEffect(raw[k])
		if !ok {
			return flags, flagError(rec, addr, "flags."+k, raw[k])
		}
		flags[f] = effect
		seen++
	}
	if seen != len(flags) {
		for i := range flags {
			f := Flag(i)
			if _, ok := raw[f.String()]; !ok {
				return flags, malformed(rec, int(addr), "flags."+f.String(), "missing")
			}
		}
	}
	return flags, nil
}
