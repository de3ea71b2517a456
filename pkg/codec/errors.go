package codec

import (
	"fmt"
	"strings"
)

// ErrorKind classifies decode failures.
type ErrorKind int

const (
	MissingDiscriminant ErrorKind = iota // no "type" field
	UnknownVariant                       // "type" names no known variant
	MissingField                         // a required field is absent
	InvalidField                         // a field is present with the wrong shape
	InvalidSolid                         // the values violate a solid invariant
)

func (k ErrorKind) String() string {
	switch k {
	case MissingDiscriminant:
		return "missing discriminant"
	case UnknownVariant:
		return "unknown variant"
	case MissingField:
		return "missing field"
	case InvalidField:
		return "invalid field"
	case InvalidSolid:
		return "invalid solid"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// DecodeError reports why a document could not be turned into a solid.
type DecodeError struct {
	Kind    ErrorKind
	Variant string // discriminant of the failing document, if known
	Field   string // offending field for MissingField and InvalidField
	Path    string // location of the failing document below the root
	Err     error  // underlying cause, if any
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("codec: decode")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	switch e.Kind {
	case MissingDiscriminant:
		b.WriteString(`missing "type" field`)
	case UnknownVariant:
		fmt.Fprintf(&b, "unknown variant %q", e.Variant)
	case MissingField:
		fmt.Fprintf(&b, "%s: missing field %q", e.Variant, e.Field)
	case InvalidField:
		fmt.Fprintf(&b, "%s: invalid field %q", e.Variant, e.Field)
	case InvalidSolid:
		fmt.Fprintf(&b, "%s: invalid solid", e.Variant)
	default:
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }
