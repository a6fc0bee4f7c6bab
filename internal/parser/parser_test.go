package parser

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhstats/genrep/internal/replaytest"
	"github.com/zhstats/genrep/pkg/core"
)

func newTestParser() *Parser {
	return NewParser(slog.Default())
}

func TestNewParser(t *testing.T) {
	p := newTestParser()
	require.NotNil(t, p)
	assert.NotNil(t, NewParser(nil).logger)
}

func TestParse_FullReplay(t *testing.T) {
	b := replaytest.New()
	b.Options = replaytest.Options(42, "maps/tournament desert",
		replaytest.Human("alpha", "C0A80002", 1, 0, 0, -1),
		replaytest.Human("bravo", "C0A80003", 2, 2, 1, -1),
	)
	b.LocalSlot = "1"
	b.Disconnects[1] = 1
	b.CRC(30, 2, 111).
		Move(40, 3, 100, 200).
		Quit(500, 2)

	r, err := newTestParser().Parse(b.Bytes())
	require.NoError(t, err)

	assert.Equal(t, Magic, r.Header.Magic)
	assert.Equal(t, uint32(9000), r.Header.Duration)
	assert.Equal(t, "Last Replay", r.Header.ReplayName)
	assert.Equal(t, "Version 1.04", r.Header.Version)
	assert.Equal(t, uint16(4), r.Header.VersionMinor)
	assert.Equal(t, uint16(1), r.Header.VersionMajor)
	assert.True(t, r.Header.ExeCheck())
	assert.True(t, r.Header.IniCheck())
	assert.True(t, r.Header.SupportedVersion())
	assert.Equal(t, 1, r.Header.LocalSlot)

	assert.Equal(t, "tournament desert", r.Options.MapName)
	assert.Equal(t, uint32(42), r.Options.Seed)
	require.Len(t, r.Options.Slots, 2)
	assert.Equal(t, "alpha", r.Options.Slots[0].Name)
	assert.Equal(t, 2, r.Options.Slots[0].PlayerNum)
	assert.Equal(t, 3, r.Options.Slots[1].PlayerNum)
	assert.True(t, r.Options.Slots[1].Disconnected)

	require.Len(t, r.Messages, 3)
	assert.False(t, r.Truncated())
	assert.Equal(t, "MSG_LOGIC_CRC", r.Messages[0].TypeName)
	assert.Equal(t, "MSG_DO_MOVETO", r.Messages[1].TypeName)
	assert.True(t, r.Messages[2].IsQuit())
}

func TestParse_BadMagic(t *testing.T) {
	data := replaytest.New().Bytes()
	copy(data, "BADREP")

	r, err := newTestParser().Parse(data)
	require.Error(t, err)
	assert.Nil(t, r)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "BADREP", fe.Magic)
}

func TestParse_TruncatedHeader(t *testing.T) {
	data := replaytest.New().Bytes()

	_, err := newTestParser().Parse(data[:20])
	var te *TruncatedInputError
	require.True(t, errors.As(err, &te))
}

func TestParse_UnknownArgumentKeepsPrefix(t *testing.T) {
	b := replaytest.New()
	b.Options = replaytest.Options(1, "maps/x", replaytest.Human("a", "0", 0, 0, 0, -1))
	b.Move(10, 2, 1, 1).
		Message(20, 1068, 2, replaytest.Arg{Type: core.ArgType(42), Data: []byte{1, 2, 3, 4}}).
		Move(30, 2, 2, 2)

	r, err := newTestParser().Parse(b.Bytes())
	require.NoError(t, err)
	require.Len(t, r.Messages, 1)
	assert.True(t, r.Truncated())

	var ue *UnknownArgumentTypeError
	require.True(t, errors.As(r.StreamErr, &ue))
	assert.Equal(t, uint8(42), ue.ArgType)
	assert.Equal(t, uint32(20), ue.Frame)
}

func TestParseHeader_LeavesBody(t *testing.T) {
	b := replaytest.New()
	b.Move(10, 2, 1, 1)

	r, err := newTestParser().ParseHeader(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(9000), r.Header.Duration)
	assert.Len(t, r.Body, 13+2+12)
	assert.Empty(t, r.Messages)
}
