package outcome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhstats/genrep/pkg/core"
)

func msg(frame uint32, typ int32, player int, args ...core.Argument) core.Message {
	return core.Message{Frame: frame, Type: typ, Player: int32(player), Args: args}
}

func quitMsg(frame uint32, player int) core.Message {
	return msg(frame, core.MsgSelfDestruct, player, core.Argument{Type: core.ArgBool, Value: true})
}

func crcMsg(frame uint32, player int, value int32) core.Message {
	return msg(frame, core.MsgLogicCRC, player,
		core.Argument{Type: core.ArgInt, Value: value},
		core.Argument{Type: core.ArgBool, Value: false})
}

func moveMsg(frame uint32, player int) core.Message {
	return msg(frame, core.MsgDoMoveTo, player, core.Argument{Type: core.ArgLocation, Value: [3]float32{10, 20, 0}})
}

// human seats slot index at player number index+2 with the stored team code.
func human(index, team int) core.Slot {
	return core.Slot{Index: index, Kind: core.SlotHuman, Name: "p", PlayerNum: index + 2, Team: team, Color: index}
}

func header(local int) core.Header {
	return core.Header{BeginTimestamp: 1700000000, Duration: 9000, LocalSlot: local}
}

func TestStep(t *testing.T) {
	tests := []struct {
		name       string
		events     []Event
		wantStatus core.Status
		wantFrame  uint32
	}{
		{"no events", nil, core.StatusActive, 0},
		{"surrender", []Event{{EventSurrender, 10}}, core.StatusSurrendered, 10},
		{"surrender then exit", []Event{{EventSurrender, 10}, {EventExit, 20}}, core.StatusExited, 20},
		{"ambiguous", []Event{{EventAmbiguous, 30}}, core.StatusAmbiguous, 30},
		{"ambiguous resolves to surrender", []Event{{EventAmbiguous, 30}, {EventSurrender, 40}}, core.StatusSurrendered, 40},
		{"exit is not demoted to ambiguous", []Event{{EventExit, 5}, {EventAmbiguous, 9}}, core.StatusExited, 5},
		{"idle kick sticks", []Event{{EventIdleKick, 7}, {EventSurrender, 7}, {EventExit, 8}}, core.StatusIdleKicked, 7},
		{"surrendered is never idle", []Event{{EventSurrender, 3}, {EventIdleKick, 9}}, core.StatusSurrendered, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Replay(2, 1, tt.events...)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantFrame, got.StatusFrame)
		})
	}
}

func TestStep_RecordsEveryFrame(t *testing.T) {
	got := Replay(4, 2, Event{EventIdleKick, 100}, Event{EventSurrender, 100}, Event{EventExit, 250})
	assert.Equal(t, uint32(100), got.IdleFrame)
	assert.Equal(t, uint32(100), got.SurrenderFrame)
	assert.Equal(t, uint32(250), got.ExitFrame)
	assert.Equal(t, uint32(250), got.LastActivity())
}

func TestTeams(t *testing.T) {
	obs := human(3, 0)
	obs.Faction = core.FactionObserver
	slots := []core.Slot{
		human(0, 0),
		human(1, 2),
		human(2, 2),
		obs,
		{Index: 4, Kind: core.SlotOpen, PlayerNum: core.NoPlayer},
		human(5, 0),
	}
	// human(5, 0) keeps number 7 in this fixture.
	teams := Teams(slots)
	require.Len(t, teams, 3)
	assert.Equal(t, core.Team{ID: 2, Players: []int{3, 4}}, teams[0])
	assert.Equal(t, core.Team{ID: 3, Players: []int{2}}, teams[1])
	assert.Equal(t, core.Team{ID: 4, Players: []int{7}}, teams[2])

	assert.Equal(t, 2, TeamOf(teams, 4))
	assert.Equal(t, core.NoTeam, TeamOf(teams, 5), "observers have no team")
	assert.Equal(t, "1v1v2", MatchType(teams))
}

func TestMatchType(t *testing.T) {
	tests := []struct {
		name     string
		teams    []core.Team
		expected string
	}{
		{"none", nil, "Unknown"},
		{"empty teams", []core.Team{{ID: 1}}, "Empty"},
		{"duel", []core.Team{{ID: 1, Players: []int{2}}, {ID: 2, Players: []int{3}}}, "1v1"},
		{"sorted sizes", []core.Team{{ID: 1, Players: []int{2, 3}}, {ID: 2, Players: []int{4}}}, "1v2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchType(tt.teams))
		})
	}
}

func TestRenumber(t *testing.T) {
	slots := []core.Slot{human(0, 1), {Index: 1, Kind: core.SlotClosed, PlayerNum: core.NoPlayer}, human(2, 2)}
	slots[2].PlayerNum = 3

	got := Renumber(slots, 4)
	assert.Equal(t, 4, got[0].PlayerNum)
	assert.Equal(t, core.NoPlayer, got[1].PlayerNum)
	assert.Equal(t, 5, got[2].PlayerNum)
	assert.Equal(t, 2, slots[0].PlayerNum, "input must not be mutated")
}

func TestResolveOwner(t *testing.T) {
	two := []core.Slot{human(0, 1), human(1, 2)}

	tests := []struct {
		name  string
		local int
		slots []core.Slot
		msgs  []core.Message
		want  Owner
	}{
		{"default offset", 1, two, []core.Message{moveMsg(10, 2)}, Owner{Num: 3, Offset: 2}},
		{"first checksum frame", 0, two,
			[]core.Message{crcMsg(100, 4, 1), crcMsg(100, 3, 1), crcMsg(200, 3, 1)},
			Owner{Num: 3, Offset: 3}},
		{"incomplete checksum frame", 1, two,
			[]core.Message{crcMsg(100, 5, 1), crcMsg(200, 6, 1)},
			Owner{Num: 3, Offset: 2}},
		{"end of stream", 1, two,
			[]core.Message{crcMsg(100, 2, 1), crcMsg(100, 3, 1), msg(900, core.MsgEndOfStream, 5)},
			Owner{Num: 5, Offset: 4, Confident: true}},
		{"unknown local slot falls back to host", 6, two, nil, Owner{Num: 2, Offset: 2}},
		{"no seats", 0, []core.Slot{{Index: 0, Kind: core.SlotOpen, PlayerNum: core.NoPlayer}}, nil, Owner{Num: 2, Offset: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveOwner(tt.local, tt.slots, tt.msgs))
		})
	}
}

func TestSelect(t *testing.T) {
	withCRC := []core.Message{moveMsg(1, 2), crcMsg(2, 2, 5)}
	without := []core.Message{moveMsg(1, 2)}

	auto := New(Config{})
	assert.Equal(t, StrategyQuitCRC, auto.Select(withCRC).Name())
	assert.Equal(t, StrategyActivity, auto.Select(without).Name())

	forced := New(Config{Strategy: StrategyActivity})
	assert.Equal(t, StrategyActivity, forced.Select(withCRC).Name())
	forced = New(Config{Strategy: StrategyQuitCRC})
	assert.Equal(t, StrategyQuitCRC, forced.Select(without).Name())
}

func TestEngine_SelfDestructLoses(t *testing.T) {
	in := Input{
		Header: header(1),
		Slots:  []core.Slot{human(0, 0), human(1, 0)},
		Messages: []core.Message{
			quitMsg(500, 2),
			moveMsg(600, 3),
		},
	}

	out := New(DefaultConfig()).Infer(in)
	assert.Equal(t, StrategyActivity, out.Strategy)
	assert.Equal(t, []int{3}, out.Winners)
	assert.True(t, out.Valid)
	assert.Equal(t, 3, out.OwnerNum)
	assert.Equal(t, core.CategoryWin, out.Category)

	loser, ok := out.Player(2)
	require.True(t, ok)
	assert.Equal(t, uint32(500), loser.SurrenderFrame)
	assert.Equal(t, "2nd", loser.Placement)
	winner, _ := out.Player(3)
	assert.Equal(t, core.StatusActive, winner.Status)
	assert.Equal(t, "1st", winner.Placement)
	assert.Equal(t, []core.TeamPlacement{{Team: out.WinningTeam, Rank: 1}, {Team: loser.Team, Rank: 2}}, out.Placement)

	in.Header.LocalSlot = 0
	assert.Equal(t, core.CategoryLoss, New(DefaultConfig()).Infer(in).Category)
}

func TestEngine_Idempotent(t *testing.T) {
	in := Input{
		Header: header(0),
		Slots:  []core.Slot{human(0, 1), human(1, 2), human(2, 3)},
		Messages: []core.Message{
			crcMsg(100, 2, 11), crcMsg(100, 3, 12), crcMsg(100, 4, 13),
			moveMsg(150, 3),
			quitMsg(250, 3),
			crcMsg(300, 2, 21), crcMsg(300, 4, 22),
			moveMsg(7000, 4),
			quitMsg(7100, 2),
		},
	}
	e := New(DefaultConfig())
	first := e.Infer(in)
	second := e.Infer(in)
	assert.Equal(t, first, second)
}
