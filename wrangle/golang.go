package main

import (
	"bytes"
	"fmt"
	"go/token"
	"io"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/apparentlymart/sm83-meta/isa"
)

const isaImportPath = "github.com/apparentlymart/sm83-meta/isa"

// Ways of embedding the table in generated Go source.
const (
	// modeStatic writes each descriptor as a Go literal.
	modeStatic = "static"

	// modeEmbedded writes the canonical JSON form of the table, which the
	// generated package parses when it is initialized.
	modeEmbedded = "embedded"
)

// planeConstPrefix is prepended to the identifiers of each plane to form
// the names of the generated constants.
var planeConstPrefix = map[isa.Plane]string{
	isa.Unprefixed: "",
	isa.Prefixed:   "CB_",
}

// Names the generated file declares besides the opcode constants.
var reservedNames = map[string]bool{
	"Table":          true,
	"Lookup":         true,
	"LookupPrefixed": true,
	"tableJSON":      true,
}

type goConfig struct {
	Package string
	Mode    string
	Source  string // base name of the description, for the header
}

func generateGo(w io.Writer, t *isa.Table, names *isa.Names, cfg goConfig) error {
	if !token.IsIdentifier(cfg.Package) {
		return fmt.Errorf("invalid package name %q", cfg.Package)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by wrangle from %s; DO NOT EDIT.\n\n", cfg.Source)
	fmt.Fprintf(&buf, "package %s\n\n", cfg.Package)
	fmt.Fprintf(&buf, "import %q\n", isaImportPath)

	err := generateGoConsts(&buf, names)
	if err != nil {
		return err
	}

	switch cfg.Mode {
	case modeStatic, "":
		generateGoStaticTable(&buf, t)
	case modeEmbedded:
		err = generateGoEmbeddedTable(&buf, t)
	default:
		err = fmt.Errorf("unsupported mode %q", cfg.Mode)
	}
	if err != nil {
		return err
	}

	buf.WriteString("\n// Lookup returns the unprefixed instruction with opcode code. It panics\n")
	buf.WriteString("// if the opcode is undefined.\n")
	buf.WriteString("func Lookup(code byte) isa.Descriptor {\n")
	buf.WriteString("\treturn Table.MustLookup(isa.Unprefixed, code)\n")
	buf.WriteString("}\n")
	buf.WriteString("\n// LookupPrefixed returns the instruction with opcode code following the\n")
	buf.WriteString("// 0xCB lead byte. It panics if the opcode is undefined.\n")
	buf.WriteString("func LookupPrefixed(code byte) isa.Descriptor {\n")
	buf.WriteString("\treturn Table.MustLookup(isa.Prefixed, code)\n")
	buf.WriteString("}\n")

	src, err := imports.Process(cfg.Source+".go", buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		// Show what we generated, since that's what is broken.
		return fmt.Errorf("failed to format generated source: %s\n%s", err, buf.Bytes())
	}
	_, err = w.Write(src)
	return err
}

func generateGoConsts(buf *bytes.Buffer, names *isa.Names) error {
	owners := make(map[string]string)
	for _, p := range []isa.Plane{isa.Unprefixed, isa.Prefixed} {
		var err error
		var lines []string
		names.Each(p, func(code byte, name string) {
			constName := planeConstPrefix[p] + name
			where := fmt.Sprintf("%s 0x%02x", p, code)
			switch {
			case err != nil:
				return
			case reservedNames[constName] || token.IsKeyword(constName):
				err = fmt.Errorf("%s: %s is reserved in generated source", where, constName)
			case owners[constName] != "":
				err = fmt.Errorf("%s: %s is also the name of %s", where, constName, owners[constName])
			}
			owners[constName] = where
			lines = append(lines, fmt.Sprintf("\t%s = 0x%02X\n", constName, code))
		})
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			continue
		}

		if p == isa.Prefixed {
			buf.WriteString("\n// Opcodes of the instructions that follow the 0xCB lead byte.\n")
		} else {
			buf.WriteString("\n// Opcodes of the unprefixed instructions.\n")
		}
		buf.WriteString("const (\n")
		for _, line := range lines {
			buf.WriteString(line)
		}
		buf.WriteString(")\n")
	}
	return nil
}

func generateGoStaticTable(buf *bytes.Buffer, t *isa.Table) {
	buf.WriteString("\n// Table holds every declared instruction.\n")
	buf.WriteString("var Table = isa.MustNewTable([]isa.Descriptor{\n")
	for _, d := range t.All() {
		fmt.Fprintf(buf, "\t%s,\n", goDescriptorLiteral(d))
	}
	buf.WriteString("})\n")
}

func generateGoEmbeddedTable(buf *bytes.Buffer, t *isa.Table) error {
	var js bytes.Buffer
	err := t.WriteJSON(&js)
	if err != nil {
		return err
	}

	buf.WriteString("\n// Table holds every declared instruction.\n")
	buf.WriteString("var Table = isa.MustParse([]byte(tableJSON), isa.FlagListSchema{})\n")
	buf.WriteString("\nconst tableJSON = ")
	if !strings.Contains(js.String(), "`") {
		buf.WriteString("`" + js.String() + "`")
	} else {
		buf.WriteString(strconv.Quote(js.String()))
	}
	buf.WriteString("\n")
	return nil
}

// goDescriptorLiteral renders d as an untyped composite literal, leaving
// out zero fields.
func goDescriptorLiteral(d isa.Descriptor) string {
	fields := []string{
		"Plane: " + goPlane(d.Plane),
		fmt.Sprintf("Opcode: 0x%02X", d.Opcode),
		"Mnemonic: " + strconv.Quote(d.Mnemonic),
		fmt.Sprintf("Size: %d", d.Size),
		fmt.Sprintf("Cycles: %d", d.Cycles),
	}
	if d.BranchCycles != 0 {
		fields = append(fields, fmt.Sprintf("BranchCycles: %d", d.BranchCycles))
	}
	if d.Flags != (isa.Flags{}) {
		effects := make([]string, len(d.Flags))
		for i, e := range d.Flags {
			effects[i] = "isa." + e.String()
		}
		fields = append(fields, "Flags: isa.Flags{"+strings.Join(effects, ", ")+"}")
	}
	if d.Group != "" {
		fields = append(fields, "Group: "+strconv.Quote(d.Group))
	}
	if !d.Operand1.IsZero() {
		fields = append(fields, "Operand1: "+goOperandLiteral(d.Operand1))
	}
	if !d.Operand2.IsZero() {
		fields = append(fields, "Operand2: "+goOperandLiteral(d.Operand2))
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

func goOperandLiteral(op isa.Operand) string {
	fields := []string{"Name: " + strconv.Quote(op.Name)}
	if op.Indirect {
		fields = append(fields, "Indirect: true")
	}
	switch op.Step {
	case isa.Increment:
		fields = append(fields, "Step: isa.Increment")
	case isa.Decrement:
		fields = append(fields, "Step: isa.Decrement")
	}
	if op.Offset != "" {
		fields = append(fields, "Offset: "+strconv.Quote(op.Offset))
	}
	if op.Hex {
		fields = append(fields, "Hex: true")
	}
	return "isa.Operand{" + strings.Join(fields, ", ") + "}"
}

func goPlane(p isa.Plane) string {
	if p == isa.Prefixed {
		return "isa.Prefixed"
	}
	return "isa.Unprefixed"
}
