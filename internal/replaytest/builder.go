// Package replaytest builds synthetic replay files for tests.
package replaytest

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"

	"golang.org/x/text/encoding/unicode"

	"github.com/zhstats/genrep/pkg/core"
)

// Arg is one encoded argument.
type Arg struct {
	Type core.ArgType
	Data []byte
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// Int encodes an int argument.
func Int(v int32) Arg { return Arg{core.ArgInt, u32(uint32(v))} }

// Bool encodes a bool argument.
func Bool(v bool) Arg {
	if v {
		return Arg{core.ArgBool, []byte{1}}
	}
	return Arg{core.ArgBool, []byte{0}}
}

// ObjectID encodes an object id argument.
func ObjectID(v uint32) Arg { return Arg{core.ArgObjectID, u32(v)} }

// Location encodes a location argument.
func Location(x, y, z float32) Arg {
	var b []byte
	for _, f := range []float32{x, y, z} {
		b = append(b, u32(math.Float32bits(f))...)
	}
	return Arg{core.ArgLocation, b}
}

// Builder assembles a replay file.
type Builder struct {
	Begin, End, Duration uint32
	Desync, QuitEarly    uint8
	Disconnects          [core.MaxSlots]uint8
	Name                 string
	Version              string
	BuildDate            string
	ExeCRC, IniCRC       uint32
	Options              string
	LocalSlot            string

	body bytes.Buffer
}

// New returns a builder for a 1.04 replay.
func New() *Builder {
	return &Builder{
		Begin:     1700000000,
		End:       1700003600,
		Duration:  9000,
		Name:      "Last Replay",
		Version:   "Version 1.04",
		BuildDate: "Oct  4 2005 12:34:56",
		ExeCRC:    core.ExeCRC104,
		IniCRC:    core.IniCRC104,
		LocalSlot: "0",
	}
}

// Message appends a message. Consecutive arguments of one type share a group.
func (b *Builder) Message(frame uint32, typ int32, player int32, args ...Arg) *Builder {
	b.body.Write(u32(frame))
	b.body.Write(u32(uint32(typ)))
	b.body.Write(u32(uint32(player)))

	type group struct {
		typ   core.ArgType
		count int
	}
	var groups []group
	for _, a := range args {
		if n := len(groups); n > 0 && groups[n-1].typ == a.Type {
			groups[n-1].count++
			continue
		}
		groups = append(groups, group{a.Type, 1})
	}
	b.body.WriteByte(byte(len(groups)))
	for _, g := range groups {
		b.body.WriteByte(byte(g.typ))
		b.body.WriteByte(byte(g.count))
	}
	for _, a := range args {
		b.body.Write(a.Data)
	}
	return b
}

// Quit appends a self-destruct message as recorded when a player leaves.
func (b *Builder) Quit(frame uint32, player int32) *Builder {
	return b.Message(frame, core.MsgSelfDestruct, player, Bool(true))
}

// CRC appends a logic checksum message.
func (b *Builder) CRC(frame uint32, player int32, crc int32) *Builder {
	return b.Message(frame, core.MsgLogicCRC, player, Int(crc), Bool(false))
}

// Move appends a move order.
func (b *Builder) Move(frame uint32, player int32, x, y float32) *Builder {
	return b.Message(frame, core.MsgDoMoveTo, player, Location(x, y, 0))
}

// EndOfStream appends the trailing sentinel written when the owner leaves.
func (b *Builder) EndOfStream(frame uint32, player int32) *Builder {
	return b.Message(frame, core.MsgEndOfStream, player)
}

// Raw appends bytes to the body verbatim.
func (b *Builder) Raw(p []byte) *Builder {
	b.body.Write(p)
	return b
}

// Bytes renders the file.
func (b *Builder) Bytes() []byte {
	var out bytes.Buffer
	out.WriteString("GENREP")
	out.Write(u32(b.Begin))
	out.Write(u32(b.End))
	out.Write(u32(b.Duration))
	out.WriteByte(b.Desync)
	out.WriteByte(b.QuitEarly)
	out.Write(b.Disconnects[:])
	writeWide(&out, b.Name)
	out.Write(make([]byte, 16))
	writeWide(&out, b.Version)
	writeWide(&out, b.BuildDate)
	out.Write([]byte{4, 0, 1, 0}) // 1.04
	out.Write(u32(b.ExeCRC))
	out.Write(u32(b.IniCRC))
	out.WriteString(b.Options)
	out.WriteByte(0)
	out.WriteString(b.LocalSlot)
	out.WriteByte(0)
	for range 4 {
		out.Write(u32(0))
	}
	out.Write(b.body.Bytes())
	return out.Bytes()
}

func writeWide(out *bytes.Buffer, s string) {
	enc, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	out.Write(enc)
	out.Write([]byte{0, 0})
}

// Options renders a match-options string for the given slot descriptors.
func Options(seed int, mapPath string, slots ...string) string {
	var b bytes.Buffer
	b.WriteString("US=1;M=")
	b.WriteString(mapPath)
	b.WriteString(";MC=1A2B3C4D;MS=0;SD=")
	b.WriteString(strconv.Itoa(seed))
	b.WriteString(";C=100;SR=0;SC=10000;O=N;S=")
	for i, s := range slots {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(s)
	}
	b.WriteString(":;")
	return b.String()
}

// Human renders a human slot descriptor.
func Human(name, ip string, color, faction, pos, team int) string {
	return "H" + name + "," + ip + ",8094,TT," + strconv.Itoa(color) + "," + strconv.Itoa(faction) + "," + strconv.Itoa(pos) + "," + strconv.Itoa(team) + ",1"
}

// Computer renders a computer slot descriptor.
func Computer(difficulty string, color, faction, pos, team int) string {
	return "C" + difficulty + "," + strconv.Itoa(color) + "," + strconv.Itoa(faction) + "," + strconv.Itoa(pos) + "," + strconv.Itoa(team)
}
