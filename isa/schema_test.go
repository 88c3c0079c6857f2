package isa_test

import (
	"encoding/json"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/apparentlymart/sm83-meta/isa"
)

const noFlags = `{"Z": "-", "N": "-", "H": "-", "C": "-"}`

var _ = Describe("FlagMapSchema", func() {
	var schema isa.FlagMapSchema

	normalize := func(p isa.Plane, key, data string) (isa.Descriptor, error) {
		return schema.Normalize(isa.RawRecord{Plane: p, Key: key, Data: json.RawMessage(data)})
	}

	It("should normalize an instruction without operands", func() {
		d, err := normalize(isa.Unprefixed, "0x00",
			`{"mnemonic": "NOP", "bytes": 1, "cycles": [4], "operands": [], "flags": `+noFlags+`}`)

		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(Equal(isa.Descriptor{
			Plane:    isa.Unprefixed,
			Opcode:   0x00,
			Mnemonic: "NOP",
			Size:     1,
			Cycles:   4,
		}))
		Expect(d.Conditional()).To(BeFalse())
		Expect(d.String()).To(Equal("NOP   (A: 0x00 L: 1)"))
	})

	It("should remove the lead byte from prefixed costs", func() {
		rec := `{"mnemonic": "RL", "bytes": 2, "cycles": [8],
			"operands": [{"name": "C", "immediate": true}],
			"flags": {"Z": "Z", "N": "0", "H": "0", "C": "C"}}`

		prefixed, err := normalize(isa.Prefixed, "0x11", rec)
		Expect(err).NotTo(HaveOccurred())
		Expect(prefixed.Size).To(Equal(1))
		Expect(prefixed.Cycles).To(Equal(4))

		plain, err := normalize(isa.Unprefixed, "0x11", rec)
		Expect(err).NotTo(HaveOccurred())
		Expect(plain.Size).To(Equal(2))
		Expect(plain.Cycles).To(Equal(8))
	})

	It("should keep the cost of a taken branch", func() {
		d, err := normalize(isa.Unprefixed, "0x20", `{"mnemonic": "JR", "bytes": 2, "cycles": [12, 8],
			"operands": [{"name": "NZ", "immediate": true}, {"name": "e8", "bytes": 1, "immediate": true}],
			"flags": `+noFlags+`}`)

		Expect(err).NotTo(HaveOccurred())
		Expect(d.Cycles).To(Equal(12))
		Expect(d.BranchCycles).To(Equal(8))
		Expect(d.Conditional()).To(BeTrue())
		Expect(d.CyclesText()).To(Equal("12/8"))
	})

	It("should render indirect and stepped operands", func() {
		d, err := normalize(isa.Unprefixed, "0x32", `{"mnemonic": "LD", "bytes": 1, "cycles": [8],
			"operands": [{"name": "HL", "decrement": true, "immediate": false}, {"name": "A", "immediate": true}],
			"flags": `+noFlags+`}`)

		Expect(err).NotTo(HaveOccurred())
		Expect(d.Operand1).To(Equal(isa.Operand{Name: "HL", Indirect: true, Step: isa.Decrement}))
		Expect(d.Operand1.Text()).To(Equal("(HL-)"))
		Expect(d.String()).To(Equal("LD (HL-) A (A: 0x32 L: 1)"))
	})

	It("should fold an offset operand into the one before it", func() {
		d, err := normalize(isa.Unprefixed, "0xF8", `{"mnemonic": "LD", "bytes": 2, "cycles": [12],
			"operands": [{"name": "HL", "immediate": true}, {"name": "SP", "increment": true, "immediate": true},
				{"name": "e8", "bytes": 1, "immediate": true}],
			"flags": {"Z": "0", "N": "0", "H": "H", "C": "C"}}`)

		Expect(err).NotTo(HaveOccurred())
		Expect(d.Operands()).To(HaveLen(2))
		Expect(d.Operand2.Text()).To(Equal("SP+e8"))
	})

	It("should turn a hex sigil into a suffix", func() {
		d, err := normalize(isa.Unprefixed, "0xFF", `{"mnemonic": "RST", "bytes": 1, "cycles": [16],
			"operands": [{"name": "$38", "immediate": true}], "flags": `+noFlags+`}`)

		Expect(err).NotTo(HaveOccurred())
		Expect(d.Operand1.Text()).To(Equal("38h"))
	})

	It("should place flags by letter", func() {
		d, err := normalize(isa.Unprefixed, "0x46", `{"mnemonic": "BIT", "bytes": 2, "cycles": [12],
			"operands": [{"name": "0", "immediate": true}, {"name": "HL", "immediate": false}],
			"flags": {"C": "-", "H": "1", "N": "0", "Z": "Z"}}`)

		Expect(err).NotTo(HaveOccurred())
		Expect(d.Flags).To(Equal(isa.Flags{isa.Computed, isa.Cleared, isa.Set, isa.Unaffected}))
		Expect(d.Flags.String()).To(Equal("Z01-"))
	})

	It("should reject an unrecognized flag token", func() {
		_, err := normalize(isa.Unprefixed, "0x80", `{"mnemonic": "ADD", "bytes": 1, "cycles": [4],
			"operands": [{"name": "A", "immediate": true}, {"name": "B", "immediate": true}],
			"flags": {"Z": "Z", "N": "0", "H": "x", "C": "C"}}`)

		Expect(err).To(MatchError(isa.ErrUnrecognizedFlag))
		var e *isa.Error
		Expect(errors.As(err, &e)).To(BeTrue())
		Expect(e.Plane).To(Equal(isa.Unprefixed))
		Expect(e.Addr).To(Equal(0x80))
		Expect(e.Field).To(Equal("flags.H"))
	})

	It("should reject more than three operands", func() {
		_, err := normalize(isa.Unprefixed, "0x00", `{"mnemonic": "X", "bytes": 1, "cycles": [4],
			"operands": [{"name": "A", "immediate": true}, {"name": "B", "immediate": true},
				{"name": "C", "immediate": true}, {"name": "D", "immediate": true}],
			"flags": `+noFlags+`}`)

		Expect(err).To(MatchError(isa.ErrMalformedSource))
	})

	It("should produce identical descriptors every time", func() {
		rec := `{"mnemonic": "LD", "bytes": 2, "cycles": [12],
			"operands": [{"name": "HL", "immediate": true}, {"name": "SP", "increment": true, "immediate": true},
				{"name": "e8", "bytes": 1, "immediate": true}],
			"flags": {"Z": "0", "N": "0", "H": "H", "C": "C"}}`

		first, err := normalize(isa.Unprefixed, "0xF8", rec)
		Expect(err).NotTo(HaveOccurred())
		second, err := normalize(isa.Unprefixed, "0xF8", rec)
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
		Expect(fmt.Sprintf("%#v", second)).To(Equal(fmt.Sprintf("%#v", first)))
	})
})

var _ = Describe("FlagListSchema", func() {
	var schema isa.FlagListSchema

	normalize := func(p isa.Plane, key, data string) (isa.Descriptor, error) {
		return schema.Normalize(isa.RawRecord{Plane: p, Key: key, Data: json.RawMessage(data)})
	}

	It("should remove the lead byte from prefixed costs", func() {
		d, err := normalize(isa.Prefixed, "0x11", `{"mnemonic": "RL", "length": 2, "cycles": [8],
			"flags": ["Z", "0", "0", "C"], "addr": "0x11", "group": "x8/rsb", "operand1": "C"}`)

		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(Equal(isa.Descriptor{
			Plane:    isa.Prefixed,
			Opcode:   0x11,
			Mnemonic: "RL",
			Size:     1,
			Cycles:   4,
			Flags:    isa.Flags{isa.Computed, isa.Cleared, isa.Cleared, isa.Computed},
			Group:    "x8/rsb",
			Operand1: isa.Operand{Name: "C"},
		}))
	})

	It("should parse operand text", func() {
		d, err := normalize(isa.Unprefixed, "0x3A", `{"mnemonic": "LD", "length": 1, "cycles": [8],
			"flags": ["-", "-", "-", "-"], "operand1": "A", "operand2": "(HL-)"}`)

		Expect(err).NotTo(HaveOccurred())
		Expect(d.Operand2).To(Equal(isa.Operand{Name: "HL", Indirect: true, Step: isa.Decrement}))
	})

	It("should read an H-suffixed restart vector as hex", func() {
		d, err := normalize(isa.Unprefixed, "0xFF", `{"mnemonic": "RST", "length": 1, "cycles": [16],
			"flags": ["-", "-", "-", "-"], "operand1": "38H"}`)

		Expect(err).NotTo(HaveOccurred())
		Expect(d.Operand1).To(Equal(isa.Operand{Name: "38", Hex: true}))
	})

	It("should reject an unrecognized flag token", func() {
		_, err := normalize(isa.Unprefixed, "0x80", `{"mnemonic": "ADD", "length": 1, "cycles": [4],
			"flags": ["Z", "0", "H", "c"], "operand1": "A", "operand2": "B"}`)

		Expect(err).To(MatchError(isa.ErrUnrecognizedFlag))
		Expect(err.Error()).To(ContainSubstring("flags[3]"))
	})

	It("should reject a second operand without a first", func() {
		_, err := normalize(isa.Unprefixed, "0x80", `{"mnemonic": "ADD", "length": 1, "cycles": [4],
			"flags": ["Z", "0", "H", "C"], "operand2": "B"}`)

		Expect(err).To(MatchError(isa.ErrMalformedSource))
	})
})

var _ = Describe("DetectSchema", func() {
	It("should choose by the shape of the flags", func() {
		schema, err := isa.DetectSchema([]byte(`{"unprefixed": {"0x00": {"flags": ["-", "-", "-", "-"]}}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(schema).To(Equal(isa.FlagListSchema{}))

		schema, err = isa.DetectSchema([]byte(`{"cbprefixed": {"0x00": {"flags": ` + noFlags + `}}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(schema).To(Equal(isa.FlagMapSchema{}))
	})

	It("should fail without any records", func() {
		_, err := isa.DetectSchema([]byte(`{"unprefixed": {}, "cbprefixed": {}}`))
		Expect(err).To(MatchError(isa.ErrMalformedSource))
	})
})
