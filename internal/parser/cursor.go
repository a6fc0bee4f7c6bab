package parser

import (
	"bytes"
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Cursor reads little-endian values from a byte buffer.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current offset.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Rest returns the unread bytes without advancing.
func (c *Cursor) Rest() []byte { return c.buf[c.pos:] }

func (c *Cursor) take(n int, field string) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, &TruncatedInputError{Field: field, Offset: c.pos, Want: n, Have: c.Remaining()}
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8(field string) (uint8, error) {
	b, err := c.take(1, field)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (c *Cursor) ReadU16(field string) (uint16, error) {
	b, err := c.take(2, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32(field string) (uint32, error) {
	b, err := c.take(4, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI32 reads a little-endian int32.
func (c *Cursor) ReadI32(field string) (int32, error) {
	v, err := c.ReadU32(field)
	return int32(v), err
}

// ReadBytes reads n bytes into a fresh slice.
func (c *Cursor) ReadBytes(n int, field string) ([]byte, error) {
	b, err := c.take(n, field)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

// ReadCString reads code units of width 1 or 2 until a zero unit or the end
// of the buffer and decodes them. A trailing partial unit is dropped.
// The bool result is true when the primary encoding failed and a fallback
// produced the string.
func (c *Cursor) ReadCString(width int) (string, bool) {
	start := c.pos
	end := start
	for end+width <= len(c.buf) {
		if isZeroUnit(c.buf[end : end+width]) {
			break
		}
		end += width
	}
	raw := c.buf[start:end]
	c.pos = end
	if end+width <= len(c.buf) {
		c.pos += width
	} else {
		c.pos = len(c.buf)
	}
	return decodeString(raw, width)
}

func isZeroUnit(u []byte) bool {
	for _, b := range u {
		if b != 0 {
			return false
		}
	}
	return true
}

// legacyEncodings are tried in order when the primary decode fails.
var legacyEncodings = []encoding.Encoding{
	charmap.Windows1252,
	charmap.ISO8859_1,
}

func decodeString(raw []byte, width int) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	if s, ok := decodePrimary(raw, width); ok {
		return s, false
	}
	for _, enc := range legacyEncodings {
		s, err := enc.NewDecoder().Bytes(raw)
		if err == nil && !bytes.ContainsRune(s, utf8.RuneError) {
			return string(s), true
		}
	}
	return strings.ToValidUTF8(string(raw), ""), true
}

func decodePrimary(raw []byte, width int) (string, bool) {
	if width == 1 {
		if utf8.Valid(raw) {
			return string(raw), true
		}
		return "", false
	}
	s, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	// The decoder substitutes U+FFFD for unpaired surrogates; count it as
	// a failure unless the source itself carried U+FFFD.
	if bytes.ContainsRune(s, utf8.RuneError) && !containsUnit(raw, 0xFFFD) {
		return "", false
	}
	return string(s), true
}

func containsUnit(raw []byte, unit uint16) bool {
	for i := 0; i+1 < len(raw); i += 2 {
		if binary.LittleEndian.Uint16(raw[i:]) == unit {
			return true
		}
	}
	return false
}
