package isa

import (
	"fmt"
)

// FlagListSchema reads descriptions whose flags are an array of four
// tokens in Z, N, H, C order and whose operands are given as assembly
// text:
//
//	"0x32": {
//	  "mnemonic": "LD", "length": 1, "cycles": [8],
//	  "flags": ["-", "-", "-", "-"],
//	  "addr": "0x32", "group": "x8/lsm",
//	  "operand1": "(HL-)", "operand2": "A"
//	}
//
// This is also the format Table.WriteJSON produces.
type FlagListSchema struct{}

type flagListRecord struct {
	Mnemonic string   `json:"mnemonic"`
	Length   *int     `json:"length"`
	Cycles   []int    `json:"cycles"`
	Flags    []string `json:"flags"`
	Addr     string   `json:"addr,omitempty"`
	Group    string   `json:"group,omitempty"`
	Operand1 string   `json:"operand1,omitempty"`
	Operand2 string   `json:"operand2,omitempty"`
}

func (FlagListSchema) Name() string {
	return "flaglist"
}

func (FlagListSchema) Normalize(rec RawRecord) (Descriptor, error) {
	addr, ok := parseAddr(rec.Key)
	if !ok {
		return Descriptor{}, malformed(rec, -1, "", "invalid opcode key %q", rec.Key)
	}

	var raw flagListRecord
	if err := decodeRecord(rec, addr, &raw); err != nil {
		return Descriptor{}, err
	}
	if raw.Mnemonic == "" {
		return Descriptor{}, malformed(rec, int(addr), "mnemonic", "missing")
	}
	if raw.Addr != "" {
		declared, ok := parseAddr(raw.Addr)
		if !ok || declared != addr {
			return Descriptor{}, malformed(rec, int(addr), "addr", "%q disagrees with key %q", raw.Addr, rec.Key)
		}
	}

	size, cycles, branch, err := normalizeCosts(rec, addr, rawCosts{
		field:  "length",
		length: raw.Length,
		cycles: raw.Cycles,
	})
	if err != nil {
		return Descriptor{}, err
	}

	if len(raw.Flags) != len(Flags{}) {
		return Descriptor{}, malformed(rec, int(addr), "flags", "want %d tokens, got %d", len(Flags{}), len(raw.Flags))
	}
	var flags Flags
	for i, tok := range raw.Flags {
		effect, ok := ParseFlagEffect(tok)
		if !ok {
			return Descriptor{}, flagError(rec, addr, fmt.Sprintf("flags[%d]", i), tok)
		}
		flags[i] = effect
	}

	op1, err := ParseOperand(raw.Operand1)
	if err != nil {
		return Descriptor{}, malformed(rec, int(addr), "operand1", "%s", err)
	}
	op2, err := ParseOperand(raw.Operand2)
	if err != nil {
		return Descriptor{}, malformed(rec, int(addr), "operand2", "%s", err)
	}
	if op1.IsZero() && !op2.IsZero() {
		return Descriptor{}, malformed(rec, int(addr), "operand1", "missing while operand2 is %q", raw.Operand2)
	}

	return Descriptor{
		Plane:        rec.Plane,
		Opcode:       addr,
		Mnemonic:     raw.Mnemonic,
		Size:         size,
		Cycles:       cycles,
		BranchCycles: branch,
		Flags:        flags,
		Group:        raw.Group,
		Operand1:     op1,
		Operand2:     op2,
	}, nil
}
