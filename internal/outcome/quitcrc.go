package outcome

import (
	"fmt"
	"slices"

	"github.com/zhstats/genrep/pkg/core"
)

// Idle detection thresholds in frames.
const (
	idleMinEnd = 5400 // matches shorter than this are never checked
	idleMinGap = 900
	kickMinGap = 1800
)

const noPosition = -1

// boilerplateTypes are sent by the client without player input and do not
// count as activity for the idle check.
var boilerplateTypes = map[int32]bool{
	core.MsgEndOfStream:        true,
	core.MsgLogicCRC:           true,
	core.MsgRetaliationMode:    true,
	core.MsgDestroySelectGroup: true,
	core.MsgCreateSelectGroup:  true,
	core.MsgAreaSelection:      true,
	core.MsgSelfDestruct:       true,
}

func isBoilerplate(t int32) bool {
	return boilerplateTypes[t] || (t >= core.MsgSelectTeam0 && t <= core.MsgSelectTeam9)
}

// QuitCRC correlates quit messages with logic checksums. Positions below are
// message indices in stream order.
type QuitCRC struct {
	idleCheck bool
}

// NewQuitCRC returns the quit/checksum strategy.
func NewQuitCRC(idleCheck bool) *QuitCRC {
	return &QuitCRC{idleCheck: idleCheck}
}

func (q *QuitCRC) Name() string { return StrategyQuitCRC }

// quitScan holds everything derived from the stream for one inference.
type quitScan struct {
	m     *Match
	quits map[int][]int
	idle  map[int]uint32

	// owner's last checksum and the checksums sent in the same frame
	lastCRC      int
	lastCRCFrame uint32
	lastCRCAt    map[int]int
}

func newQuitScan(m *Match) *quitScan {
	s := &quitScan{
		m:         m,
		quits:     map[int][]int{},
		idle:      map[int]uint32{},
		lastCRC:   noPosition,
		lastCRCAt: map[int]int{},
	}
	for i, msg := range m.Messages {
		num := int(msg.Player)
		if msg.IsQuit() {
			if _, ok := m.Seat(num); ok {
				s.quits[num] = append(s.quits[num], i)
			}
		}
		if msg.Type == core.MsgLogicCRC && num == m.Owner.Num {
			s.lastCRC = i
		}
	}
	if s.lastCRC != noPosition {
		s.lastCRCFrame = m.Messages[s.lastCRC].Frame
		for i, msg := range m.Messages {
			if msg.Type != core.MsgLogicCRC || msg.Frame != s.lastCRCFrame {
				continue
			}
			if _, ok := m.Seat(int(msg.Player)); ok {
				s.lastCRCAt[int(msg.Player)] = i
			}
		}
	}
	return s
}

func (s *quitScan) frame(pos int) uint32 { return s.m.Messages[pos].Frame }

func (s *quitScan) firstQuit(num int) int {
	if q := s.quits[num]; len(q) > 0 {
		return q[0]
	}
	return noPosition
}

func (s *quitScan) lastQuit(num int) int {
	if q := s.quits[num]; len(q) > 0 {
		return q[len(q)-1]
	}
	return noPosition
}

// winningTeam returns the only team with a member that never quit. When
// every team quit, the team whose last member quit latest wins.
func (s *quitScan) winningTeam() (int, bool) {
	var remaining []int
	best, bestAt := core.NoTeam, noPosition
	for _, t := range s.m.Teams {
		if len(t.Players) == 0 {
			continue
		}
		stayed := false
		latest := noPosition
		for _, num := range t.Players {
			q := s.firstQuit(num)
			if q == noPosition {
				stayed = true
			}
			latest = max(latest, q)
		}
		if stayed {
			remaining = append(remaining, t.ID)
			continue
		}
		if latest > bestAt {
			best, bestAt = t.ID, latest
		}
	}
	switch {
	case len(remaining) == 1:
		return remaining[0], true
	case len(remaining) > 1:
		return core.NoTeam, false
	case bestAt != noPosition:
		return best, true
	}
	return core.NoTeam, false
}

// latestLoserQuit is the latest first quit among losing teams.
func (s *quitScan) latestLoserQuit(winner int) int {
	latest := noPosition
	for _, t := range s.m.Teams {
		if t.ID == winner {
			continue
		}
		for _, num := range t.Players {
			latest = max(latest, s.firstQuit(num))
		}
	}
	return latest
}

// ownerCRCBetween reports whether the owner sent a checksum at a position in
// (from, to).
func (s *quitScan) ownerCRCBetween(from, to int) bool {
	for i := from + 1; i < to && i < len(s.m.Messages); i++ {
		msg := s.m.Messages[i]
		if msg.Type == core.MsgLogicCRC && int(msg.Player) == s.m.Owner.Num {
			return true
		}
	}
	return false
}

// events classifies the quits of one seat.
func (s *quitScan) events(seat core.Slot, winner int, found bool) []Event {
	var events []Event
	num := seat.PlayerNum
	if at, ok := s.idle[num]; ok {
		events = append(events, Event{EventIdleKick, at})
	}
	q := s.quits[num]
	if len(q) == 0 {
		return events
	}
	first := s.frame(q[0])

	if len(q) > 1 {
		return append(events, Event{EventSurrender, first}, Event{EventExit, s.frame(q[1])})
	}
	if seat.Observer() {
		return append(events, Event{EventExit, first})
	}
	// Still checksumming after the quit: the engine kept the player in.
	if _, ok := s.lastCRCAt[num]; ok && s.lastCRC > q[0] {
		return append(events, Event{EventSurrender, first})
	}
	if found && len(s.m.Teams) > 1 && TeamOf(s.m.Teams, num) == winner {
		if lq := s.latestLoserQuit(winner); lq != noPosition && q[0] > lq {
			return append(events, Event{EventExit, first})
		}
	}
	if ownerLast := s.lastQuit(s.m.Owner.Num); ownerLast != noPosition {
		if q[0] < ownerLast {
			if s.ownerCRCBetween(q[0], ownerLast) {
				return append(events, Event{EventSurrender, first})
			}
			return append(events, Event{EventAmbiguous, first})
		}
		return append(events, Event{EventExit, first})
	}
	return append(events, Event{EventExit, first})
}

func (s *quitScan) statuses(winner int, found bool) []core.PlayerStatus {
	out := make([]core.PlayerStatus, 0, len(s.m.Seats))
	for _, seat := range s.m.Seats {
		st := Replay(seat.PlayerNum, TeamOf(s.m.Teams, seat.PlayerNum), s.events(seat, winner, found)...)
		if pos, ok := s.lastCRCAt[seat.PlayerNum]; ok && s.lastCRC != noPosition {
			q := s.firstQuit(seat.PlayerNum)
			if q == noPosition || s.lastCRC < q {
				if v, ok := s.m.Messages[pos].IntArg(); ok && v != 0 {
					st.LastCRC = uint32(v)
				}
			}
		}
		out = append(out, st)
	}
	return out
}

// endFrame is the frame the match effectively ended at, capped at the
// header duration.
func (s *quitScan) endFrame(winner int, found bool) uint32 {
	end := s.m.Header.Duration
	switch ownerLast := s.lastQuit(s.m.Owner.Num); {
	case found && len(s.m.Teams) > 1:
		latest := noPosition
		for _, t := range s.m.Teams {
			if t.ID == winner {
				continue
			}
			for _, num := range t.Players {
				latest = max(latest, s.lastQuit(num))
			}
		}
		if latest != noPosition {
			end = s.frame(latest)
		}
	case ownerLast != noPosition:
		end = s.frame(ownerLast)
	case s.lastCRC != noPosition:
		end = s.lastCRCFrame
	}
	if d := s.m.Header.Duration; d > 0 && end > d {
		end = d
	}
	return end
}

// lastCommand returns the position of the player's last non-boilerplate
// message.
func (s *quitScan) lastCommand(num int) int {
	for i := len(s.m.Messages) - 1; i >= 0; i-- {
		msg := s.m.Messages[i]
		if int(msg.Player) == num && !isBoilerplate(msg.Type) {
			return i
		}
	}
	return noPosition
}

// kickIdle marks players whose last real command lies far before the end
// and inserts a synthetic quit at that command. It reports whether any
// player was marked.
func (s *quitScan) kickIdle(end uint32, players []core.PlayerStatus) bool {
	if end < idleMinEnd {
		return false
	}
	kicked := false
	for i, seat := range s.m.Seats {
		st := players[i]
		if seat.Observer() || st.SurrenderFrame != 0 {
			continue
		}
		pos := s.lastCommand(seat.PlayerNum)
		if pos == noPosition {
			continue
		}
		at := s.frame(pos)
		gap := int64(end) - int64(at)
		if gap < idleMinGap {
			continue
		}
		kick := (st.ExitFrame != 0 && int64(st.ExitFrame)-int64(at) >= kickMinGap) ||
			(st.AmbiguousFrame != 0 && int64(st.AmbiguousFrame)-int64(at) >= kickMinGap) ||
			(len(s.quits[seat.PlayerNum]) == 0 && gap >= kickMinGap)
		if !kick {
			continue
		}
		s.idle[seat.PlayerNum] = at
		q := append(slices.Clone(s.quits[seat.PlayerNum]), pos)
		slices.Sort(q)
		s.quits[seat.PlayerNum] = q
		kicked = true
	}
	return kicked
}

func (q *QuitCRC) Infer(m *Match) core.MatchOutcome {
	s := newQuitScan(m)
	winner, found := s.winningTeam()
	players := s.statuses(winner, found)
	end := s.endFrame(winner, found)

	if q.idleCheck && s.kickIdle(end, players) {
		winner, found = s.winningTeam()
		players = s.statuses(winner, found)
	}

	out := core.MatchOutcome{
		Players:  players,
		EndFrame: end,
		Valid:    found,
	}
	if !found {
		out.Reason = "No single team outlasted the others."
		return out
	}
	out.WinningTeam = winner
	for _, t := range m.Teams {
		if t.ID == winner {
			out.Winners = slices.Sorted(slices.Values(t.Players))
		}
	}
	out.Reason = fmt.Sprintf("Team %d outlasted the other teams.", winner)
	return out
}
