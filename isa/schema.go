package isa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RawRecord is one undecoded instruction record, as found under Key in the
// member of the description for Plane.
type RawRecord struct {
	Plane Plane
	Key   string
	Data  json.RawMessage
}

// Schema normalizes the records of one opcode description format.
//
// Normalize must be a pure function of its argument: the same record
// always produces the same descriptor.
type Schema interface {
	Name() string
	Normalize(rec RawRecord) (Descriptor, error)
}

// Schemas lists the known schemas, by name.
var Schemas = map[string]Schema{
	FlagListSchema{}.Name(): FlagListSchema{},
	FlagMapSchema{}.Name():  FlagMapSchema{},
}

// DetectSchema chooses a schema for an opcode description by the shape of
// the flags in its first record.
func DetectSchema(data []byte) (Schema, error) {
	members, err := splitPlanes(data)
	if err != nil {
		return nil, err
	}
	for _, p := range planes {
		recs := members[p]
		if len(recs) == 0 {
			continue
		}
		keys := sortedKeys(recs)
		var probe struct {
			Flags json.RawMessage `json:"flags"`
		}
		rec := RawRecord{Plane: p, Key: keys[0], Data: recs[keys[0]]}
		if err := json.Unmarshal(rec.Data, &probe); err != nil {
			return nil, malformed(rec, -1, "", "record %q: %s", rec.Key, err)
		}
		switch firstByte(probe.Flags) {
		case '[':
			return FlagListSchema{}, nil
		case '{':
			return FlagMapSchema{}, nil
		default:
			return nil, malformed(rec, -1, "flags", "record %q: flags must be an array or an object", rec.Key)
		}
	}
	return nil, &Error{Plane: noPlane, Addr: -1, Err: ErrMalformedSource, Msg: "no instruction records"}
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// parseAddr parses a record key like "0x3E".
func parseAddr(key string) (byte, bool) {
	s := strings.TrimPrefix(strings.TrimPrefix(key, "0x"), "0X")
	if s == "" || len(s) == len(key) {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeRecord unmarshals a record, reporting type errors against the
// offending field.
func decodeRecord(rec RawRecord, addr byte, into interface{}) error {
	err := json.Unmarshal(rec.Data, into)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return malformed(rec, int(addr), typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
	}
	return malformed(rec, int(addr), "", "%s", err)
}

// rawCosts are the length and cycle values exactly as a record declares
// them.
type rawCosts struct {
	field  string // name of the length field, for errors
	length *int
	cycles []int
}

// normalizeCosts validates the declared costs and removes the lead byte
// fetch from Prefixed plane instructions. Descriptions always count it.
func normalizeCosts(rec RawRecord, addr byte, raw rawCosts) (size, cycles, branch int, err error) {
	if raw.length == nil {
		return 0, 0, 0, malformed(rec, int(addr), raw.field, "missing")
	}
	size = *raw.length
	if len(raw.cycles) > 0 && raw.cycles[0] < 0 {
		return 0, 0, 0, malformed(rec, int(addr), "cycles", "cost %d is negative", raw.cycles[0])
	}
	switch len(raw.cycles) {
	case 1:
		cycles = raw.cycles[0]
	case 2:
		cycles, branch = raw.cycles[0], raw.cycles[1]
		if branch <= 0 {
			return 0, 0, 0, malformed(rec, int(addr), "cycles", "branch cost %d is not positive", branch)
		}
	default:
		return 0, 0, 0, malformed(rec, int(addr), "cycles", "want 1 or 2 values, got %d", len(raw.cycles))
	}

	if rec.Plane == Prefixed {
		size -= prefixFetchBytes
		cycles -= prefixFetchCycles
	}
	if size < 1 {
		return 0, 0, 0, malformed(rec, int(addr), raw.field, "length %d leaves no opcode byte", *raw.length)
	}
	if cycles < 0 {
		return 0, 0, 0, malformed(rec, int(addr), "cycles", "cost %d leaves no cycles for the opcode", raw.cycles[0])
	}
	return size, cycles, branch, nil
}

func flagError(rec RawRecord, addr byte, field string, tok string) *Error {
	return &Error{
		Plane: rec.Plane,
		Addr:  int(addr),
		Field: field,
		Err:   ErrUnrecognizedFlag,
		Msg:   fmt.Sprintf("%q", tok),
	}
}
