package parser

import "fmt"

// FormatError reports a file that is not a replay at all.
type FormatError struct {
	Magic string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid replay format: magic %q, want %q", e.Magic, Magic)
}

// TruncatedInputError reports a read past the end of the buffer.
type TruncatedInputError struct {
	Field  string
	Offset int
	Want   int
	Have   int
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("truncated input reading %s at offset %d: need %d bytes, have %d", e.Field, e.Offset, e.Want, e.Have)
}

// UnknownArgumentTypeError stops the message stream at an argument code
// missing from the argument table.
type UnknownArgumentTypeError struct {
	ArgType uint8
	Offset  int
	Frame   uint32
}

func (e *UnknownArgumentTypeError) Error() string {
	return fmt.Sprintf("unknown argument type %d in message at offset %d (frame %d)", e.ArgType, e.Offset, e.Frame)
}
