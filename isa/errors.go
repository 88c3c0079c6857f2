package isa

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedSource reports a description that is structurally
	// invalid or missing a required field.
	ErrMalformedSource = errors.New("malformed source")

	// ErrUnrecognizedFlag reports a flag token outside "-01ZNHC".
	ErrUnrecognizedFlag = errors.New("unrecognized flag token")

	// ErrDuplicateOpcode reports two records for one address in one plane.
	ErrDuplicateOpcode = errors.New("duplicate opcode")

	// ErrIdentifierCollision reports two instructions in one plane that
	// synthesize the same identifier.
	ErrIdentifierCollision = errors.New("identifier collision")

	// ErrUndefinedOpcode reports a lookup of an address that the
	// description doesn't declare.
	ErrUndefinedOpcode = errors.New("undefined opcode")
)

// noPlane marks an Error that isn't about either plane.
const noPlane Plane = 0xff

// Error describes a failure concerning one address in one plane. Err is
// always one of the sentinel errors of this package.
type Error struct {
	Plane Plane
	Addr  int // -1 when the failure isn't about one address
	Field string
	Err   error
	Msg   string
}

func (e *Error) Error() string {
	var parts []string
	if int(e.Plane) < len(planes) {
		loc := e.Plane.String()
		if e.Addr >= 0 {
			loc += fmt.Sprintf(" 0x%02x", e.Addr)
		}
		parts = append(parts, loc)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Err.Error())
	var buf strings.Builder
	buf.WriteString(strings.Join(parts, ": "))
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
	}
	return buf.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func malformed(rec RawRecord, addr int, field string, format string, args ...interface{}) *Error {
	return &Error{
		Plane: rec.Plane,
		Addr:  addr,
		Field: field,
		Err:   ErrMalformedSource,
		Msg:   fmt.Sprintf(format, args...),
	}
}

func undefinedOpcode(p Plane, code byte) *Error {
	return &Error{
		Plane: p,
		Addr:  int(code),
		Err:   ErrUndefinedOpcode,
	}
}
