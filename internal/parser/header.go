package parser

import (
	"strconv"
	"strings"

	"github.com/zhstats/genrep/pkg/core"
)

// Magic opens every replay file.
const Magic = "GENREP"

// DecodeHeader consumes the fixed header from c. On success c is positioned
// at the first byte of the message stream.
func DecodeHeader(c *Cursor) (core.Header, error) {
	var h core.Header

	magic, err := c.ReadBytes(len(Magic), "magic")
	if err != nil {
		return h, err
	}
	if string(magic) != Magic {
		return h, &FormatError{Magic: string(magic)}
	}
	h.Magic = Magic

	if h.BeginTimestamp, err = c.ReadU32("begin timestamp"); err != nil {
		return h, err
	}
	if h.EndTimestamp, err = c.ReadU32("end timestamp"); err != nil {
		return h, err
	}
	if h.Duration, err = c.ReadU32("duration"); err != nil {
		return h, err
	}
	if h.Desync, err = c.ReadU8("desync"); err != nil {
		return h, err
	}
	if h.QuitEarly, err = c.ReadU8("quit early"); err != nil {
		return h, err
	}
	for i := range h.Disconnects {
		if h.Disconnects[i], err = c.ReadU8("disconnect flags"); err != nil {
			return h, err
		}
	}

	var corrupt bool
	h.ReplayName, corrupt = c.ReadCString(2)
	h.NameCorrupt = h.NameCorrupt || corrupt

	st, err := c.ReadBytes(len(h.SystemTime), "system time")
	if err != nil {
		return h, err
	}
	copy(h.SystemTime[:], st)

	h.Version, corrupt = c.ReadCString(2)
	h.NameCorrupt = h.NameCorrupt || corrupt
	h.BuildDate, corrupt = c.ReadCString(2)
	h.NameCorrupt = h.NameCorrupt || corrupt

	if h.VersionMinor, err = c.ReadU16("version minor"); err != nil {
		return h, err
	}
	if h.VersionMajor, err = c.ReadU16("version major"); err != nil {
		return h, err
	}
	if h.ExeCRC, err = c.ReadU32("exe crc"); err != nil {
		return h, err
	}
	if h.IniCRC, err = c.ReadU32("ini crc"); err != nil {
		return h, err
	}

	h.MatchOptions, h.OptionsCorrupt = c.ReadCString(1)
	local, _ := c.ReadCString(1)
	h.LocalSlot = parseLocalSlot(local)

	if h.Difficulty, err = c.ReadI32("difficulty"); err != nil {
		return h, err
	}
	if h.OriginalMode, err = c.ReadI32("original game mode"); err != nil {
		return h, err
	}
	if h.RankPoints, err = c.ReadI32("rank points"); err != nil {
		return h, err
	}
	if h.MaxFPS, err = c.ReadI32("max fps"); err != nil {
		return h, err
	}
	return h, nil
}

func parseLocalSlot(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return -1
	}
	return n
}
