package isa

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadFile reads and normalizes an opcode description file. A nil schema
// is chosen by DetectSchema.
func LoadFile(filename string, schema Schema) (*Table, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return t, nil
}

// Load is like LoadFile but reads the description from r.
func Load(r io.Reader, schema Schema) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data, schema)
}

// MustParse is like Parse but panics on failure. It is intended for
// building a package-level table from a description embedded in a program.
func MustParse(data []byte, schema Schema) *Table {
	t, err := Parse(data, schema)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse normalizes every record of an opcode description and builds the
// table of the result.
//
// The description is an object with a member for each plane, each mapping
// hex opcode keys like "0x3E" to records in the format of schema. Records
// are normalized in key order, so any error reported is always the same
// one for the same input.
func Parse(data []byte, schema Schema) (*Table, error) {
	if schema == nil {
		var err error
		schema, err = DetectSchema(data)
		if err != nil {
			return nil, fmt.Errorf("failed to detect schema: %w", err)
		}
	}

	members, err := splitPlanes(data)
	if err != nil {
		return nil, err
	}

	var ds []Descriptor
	for _, p := range planes {
		recs := members[p]
		keys := make(map[byte]string, len(recs))
		for _, key := range sortedKeys(recs) {
			d, err := schema.Normalize(RawRecord{Plane: p, Key: key, Data: recs[key]})
			if err != nil {
				return nil, fmt.Errorf("failed to normalize %s record %q: %w", schema.Name(), key, err)
			}
			if d.Plane != p || !sameAddr(key, d.Opcode) {
				return nil, &Error{
					Plane: p,
					Addr:  int(d.Opcode),
					Err:   ErrMalformedSource,
					Msg:   fmt.Sprintf("%s schema normalized record %q to %s 0x%02x", schema.Name(), key, d.Plane, d.Opcode),
				}
			}
			if prev, exists := keys[d.Opcode]; exists {
				return nil, &Error{
					Plane: p,
					Addr:  int(d.Opcode),
					Err:   ErrDuplicateOpcode,
					Msg:   fmt.Sprintf("keys %q and %q", prev, key),
				}
			}
			keys[d.Opcode] = key
			ds = append(ds, d)
		}
	}

	return NewTable(ds)
}

func sameAddr(key string, code byte) bool {
	addr, ok := parseAddr(key)
	return ok && addr == code
}

// splitPlanes separates the records of each plane member of a description.
func splitPlanes(data []byte) (map[Plane]map[string]json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &Error{Plane: noPlane, Addr: -1, Err: ErrMalformedSource, Msg: err.Error()}
	}

	ret := make(map[Plane]map[string]json.RawMessage)
	names := make(map[Plane]string)
	for _, name := range sortedKeys(top) {
		p, ok := ParsePlane(name)
		if !ok {
			// Descriptions may carry other members, such as metadata.
			continue
		}
		if prev, exists := names[p]; exists {
			return nil, &Error{
				Plane: p,
				Addr:  -1,
				Field: name,
				Err:   ErrMalformedSource,
				Msg:   fmt.Sprintf("%q and %q both describe this plane", prev, name),
			}
		}
		var recs map[string]json.RawMessage
		if err := json.Unmarshal(top[name], &recs); err != nil {
			return nil, &Error{Plane: p, Addr: -1, Field: name, Err: ErrMalformedSource, Msg: err.Error()}
		}
		names[p] = name
		ret[p] = recs
	}
	if len(ret) == 0 {
		return nil, &Error{
			Plane: noPlane,
			Addr:  -1,
			Err:   ErrMalformedSource,
			Msg:   `no "unprefixed" or "cbprefixed" member`,
		}
	}
	return ret, nil
}
