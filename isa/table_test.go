package isa_test

import (
	"errors"
	"io"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/apparentlymart/sm83-meta/isa"
)

var _ = Describe("Table", func() {
	var table *isa.Table

	BeforeEach(func() {
		table = mustLoad("testdata/gbdev.json", nil)
	})

	It("should return the descriptor of every declared address", func() {
		for _, p := range []isa.Plane{isa.Unprefixed, isa.Prefixed} {
			for _, want := range table.Descriptors(p) {
				d, err := table.Lookup(p, want.Opcode)
				Expect(err).NotTo(HaveOccurred())
				Expect(d.Plane).To(Equal(p))
				Expect(d.Opcode).To(Equal(want.Opcode))
				Expect(d).To(Equal(want))
			}
		}
		Expect(table.Len(isa.Unprefixed)).To(Equal(17))
		Expect(table.Len(isa.Prefixed)).To(Equal(7))
	})

	It("should fail for every undeclared address", func() {
		for _, p := range []isa.Plane{isa.Unprefixed, isa.Prefixed} {
			for code := 0; code < 256; code++ {
				if table.Defined(p, byte(code)) {
					continue
				}
				_, err := table.Lookup(p, byte(code))
				Expect(err).To(MatchError(isa.ErrUndefinedOpcode))

				var e *isa.Error
				Expect(errors.As(err, &e)).To(BeTrue())
				Expect(e.Plane).To(Equal(p))
				Expect(e.Addr).To(Equal(code))
			}
		}
	})

	It("should panic when a required lookup fails", func() {
		Expect(func() { table.MustLookup(isa.Prefixed, 0x01) }).
			To(PanicWith(MatchError(isa.ErrUndefinedOpcode)))
		Expect(table.MustLookup(isa.Prefixed, 0x7C).Mnemonic).To(Equal("BIT"))
	})

	It("should not let callers change its descriptors", func() {
		d := table.MustLookup(isa.Unprefixed, 0x00)
		d.Mnemonic = "CHANGED"
		Expect(table.MustLookup(isa.Unprefixed, 0x00).Mnemonic).To(Equal("NOP"))
	})

	It("should reject two descriptors for one address", func() {
		_, err := isa.NewTable([]isa.Descriptor{
			{Plane: isa.Prefixed, Opcode: 0x37, Mnemonic: "SWAP", Size: 1, Cycles: 4},
			{Plane: isa.Unprefixed, Opcode: 0x37, Mnemonic: "SCF", Size: 1, Cycles: 4},
			{Plane: isa.Prefixed, Opcode: 0x37, Mnemonic: "SWAP", Size: 1, Cycles: 4},
		})
		Expect(err).To(MatchError(isa.ErrDuplicateOpcode))
		Expect(err.Error()).To(HavePrefix("cbprefixed 0x37"))
	})

	It("should serve concurrent lookups", func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				for code := 0; code < 256; code++ {
					d, err := table.Lookup(isa.Unprefixed, byte(code))
					if err == nil {
						Expect(d.Opcode).To(Equal(byte(code)))
					}
				}
			}()
		}
		wg.Wait()
	})

	Context("when decoding", func() {
		It("should follow the lead byte", func() {
			d, n, err := table.Decode([]byte{0xCB, 0x7C, 0x00})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Plane).To(Equal(isa.Prefixed))
			Expect(d.String()).To(Equal("BIT 7 H (A: 0x7c L: 1)"))
			Expect(n).To(Equal(2))
		})

		It("should count immediate bytes", func() {
			d, n, err := table.Decode([]byte{0x01, 0x34, 0x12})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Mnemonic).To(Equal("LD"))
			Expect(n).To(Equal(3))
		})

		It("should fail on a truncated instruction", func() {
			_, _, err := table.Decode([]byte{0xC3, 0x00})
			Expect(err).To(MatchError(io.ErrUnexpectedEOF))

			_, _, err = table.Decode([]byte{0xCB})
			Expect(err).To(MatchError(io.ErrUnexpectedEOF))
		})
	})

	Context("when sweeping", func() {
		It("should disassemble one instruction after another", func() {
			mem := []byte{
				0x00,       // NOP
				0x3E, 0x42, // LD A,n8
				0xCB, 0x37, // SWAP A
				0x20, 0xFE, // JR NZ,e8
				0x76,       // HALT
			}
			lines, err := table.Sweep(mem, 0x0150)
			Expect(err).NotTo(HaveOccurred())

			var addrs []uint16
			var mnems []string
			for _, l := range lines {
				addrs = append(addrs, l.Addr)
				mnems = append(mnems, l.Desc.Mnemonic)
			}
			Expect(addrs).To(Equal([]uint16{0x0150, 0x0151, 0x0153, 0x0155, 0x0157}))
			Expect(mnems).To(Equal([]string{"NOP", "LD", "SWAP", "JR", "HALT"}))
			Expect(lines[2].Bytes).To(Equal([]byte{0xCB, 0x37}))
		})

		It("should stop at an undefined opcode", func() {
			lines, err := table.Sweep([]byte{0x00, 0x00, 0x10}, 0)
			Expect(lines).To(HaveLen(2))
			Expect(err).To(MatchError(isa.ErrUndefinedOpcode))
			Expect(err.Error()).To(HavePrefix("at 0x0002: "))
		})
	})
})
