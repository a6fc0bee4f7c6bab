package parser

import (
	"encoding/binary"
	"math"

	"github.com/zhstats/genrep/pkg/core"
)

// messageHeaderSize is frame + type + player + group count.
const messageHeaderSize = 13

type argShape struct {
	size   int
	decode func(b []byte) any
}

func le32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func f32(b []byte) float32 { return math.Float32frombits(le32(b)) }

var argShapes = map[core.ArgType]argShape{
	core.ArgInt:        {4, func(b []byte) any { return int32(le32(b)) }},
	core.ArgFloat:      {4, func(b []byte) any { return f32(b) }},
	core.ArgBool:       {1, func(b []byte) any { return b[0] != 0 }},
	core.ArgObjectID:   {4, func(b []byte) any { return le32(b) }},
	core.ArgDrawableID: {4, func(b []byte) any { return le32(b) }},
	core.ArgTeamID:     {4, func(b []byte) any { return le32(b) }},
	core.ArgLocation: {12, func(b []byte) any {
		return [3]float32{f32(b), f32(b[4:]), f32(b[8:])}
	}},
	core.ArgPixel: {8, func(b []byte) any {
		return [2]int32{int32(le32(b)), int32(le32(b[4:]))}
	}},
	core.ArgPixelRegion: {16, func(b []byte) any {
		return [4]int32{int32(le32(b)), int32(le32(b[4:])), int32(le32(b[8:])), int32(le32(b[12:]))}
	}},
	core.ArgTimestamp: {4, func(b []byte) any { return le32(b) }},
	core.ArgWideChar:  {2, func(b []byte) any { return binary.LittleEndian.Uint16(b) }},
}

type argGroup struct {
	typ   uint8
	count uint8
}

// DecodeMessages decodes the message stream. Decoding stops when fewer bytes
// remain than a message header needs. On an unknown argument type or a
// message cut short, the messages decoded so far are returned together with
// the error.
func DecodeMessages(body []byte) ([]core.Message, error) {
	c := NewCursor(body)
	var msgs []core.Message
	for c.Remaining() >= messageHeaderSize {
		msg, err := decodeMessage(c)
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func decodeMessage(c *Cursor) (core.Message, error) {
	msg := core.Message{Offset: c.Pos()}
	var err error
	if msg.Frame, err = c.ReadU32("message frame"); err != nil {
		return msg, err
	}
	if msg.Type, err = c.ReadI32("message type"); err != nil {
		return msg, err
	}
	if msg.Player, err = c.ReadI32("message player"); err != nil {
		return msg, err
	}
	msg.TypeName = MessageTypeName(msg.Type)

	n, err := c.ReadU8("argument group count")
	if err != nil {
		return msg, err
	}
	groups := make([]argGroup, n)
	for i := range groups {
		if groups[i].typ, err = c.ReadU8("argument type"); err != nil {
			return msg, err
		}
		if groups[i].count, err = c.ReadU8("argument count"); err != nil {
			return msg, err
		}
	}

	for _, g := range groups {
		shape, ok := argShapes[core.ArgType(g.typ)]
		if !ok {
			return msg, &UnknownArgumentTypeError{ArgType: g.typ, Offset: msg.Offset, Frame: msg.Frame}
		}
		for range int(g.count) {
			b, err := c.take(shape.size, "argument data")
			if err != nil {
				return msg, err
			}
			msg.Args = append(msg.Args, core.Argument{Type: core.ArgType(g.typ), Value: shape.decode(b)})
		}
	}
	return msg, nil
}
