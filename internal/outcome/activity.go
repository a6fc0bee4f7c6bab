package outcome

import (
	"fmt"
	"slices"

	"github.com/zhstats/genrep/pkg/core"
)

// idleTypes are commands a defeated or spectating player still sends.
var idleTypes = map[int32]bool{
	core.MsgDestroySelectGroup: true,
	core.MsgLogicCRC:           true,
	core.MsgAreaSelection:      true,
	core.MsgEndOfStream:        true,
}

// Activity decides the winner from what players did in the tail of the
// match and from their self-destruct messages.
type Activity struct {
	tail float64
}

// NewActivity returns the activity strategy. tail is the share of the frame
// range, counted back from the last message, that is inspected.
func NewActivity(tail float64) *Activity {
	return &Activity{tail: tail}
}

func (a *Activity) Name() string { return StrategyActivity }

type activityFacts struct {
	tailStart    float64
	lastFrame    map[int]uint32
	destructAt   map[int]uint32
	activeInTail map[int]bool
}

func (a *Activity) scan(msgs []core.Message) activityFacts {
	f := activityFacts{
		lastFrame:    map[int]uint32{},
		destructAt:   map[int]uint32{},
		activeInTail: map[int]bool{},
	}
	if len(msgs) == 0 {
		return f
	}

	lo, hi := msgs[0].Frame, msgs[0].Frame
	for _, m := range msgs {
		lo, hi = min(lo, m.Frame), max(hi, m.Frame)
	}
	f.tailStart = float64(hi) - float64(hi-lo)*a.tail

	for _, m := range msgs {
		num := int(m.Player)
		f.lastFrame[num] = max(f.lastFrame[num], m.Frame)
		if m.Type == core.MsgSelfDestruct {
			f.destructAt[num] = max(f.destructAt[num], m.Frame)
		}
		if float64(m.Frame) >= f.tailStart && !idleTypes[m.Type] {
			f.activeInTail[num] = true
		}
	}
	return f
}

func (a *Activity) Infer(m *Match) core.MatchOutcome {
	f := a.scan(m.Messages)
	out := core.MatchOutcome{}

	var players []core.Slot
	for _, s := range m.Seats {
		var events []Event
		if !s.Observer() {
			players = append(players, s)
			if at, ok := f.destructAt[s.PlayerNum]; ok {
				events = append(events, Event{EventSurrender, at})
			}
			if !f.activeInTail[s.PlayerNum] {
				events = append(events, Event{EventExit, f.lastFrame[s.PlayerNum]})
			}
		}
		out.Players = append(out.Players, Replay(s.PlayerNum, TeamOf(m.Teams, s.PlayerNum), events...))
	}
	out.EndFrame = endFrame(m)

	kind := gameKind(players)
	var candidates []core.Slot
	for _, s := range players {
		if f.activeInTail[s.PlayerNum] {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		out.Reason = "No active (non-defeated) candidates found."
		return out
	}

	var stayed []core.Slot
	for _, s := range candidates {
		if _, ok := f.destructAt[s.PlayerNum]; !ok {
			stayed = append(stayed, s)
		}
	}
	if len(stayed) > 0 {
		return a.decide(m, out, stayed, "none sent MSG_SELF_DESTRUCT", "Winner did not send MSG_SELF_DESTRUCT", kind)
	}

	var latest uint32
	for _, s := range candidates {
		latest = max(latest, f.destructAt[s.PlayerNum])
	}
	var last []core.Slot
	for _, s := range candidates {
		if f.destructAt[s.PlayerNum] == latest {
			last = append(last, s)
		}
	}
	return a.decide(m, out, last,
		fmt.Sprintf("last frame %d", latest),
		fmt.Sprintf("Winner sent MSG_SELF_DESTRUCT at the last frame %d", latest), kind)
}

// decide applies the tie rule: several winners are only valid when they all
// share one real team.
func (a *Activity) decide(m *Match, out core.MatchOutcome, winners []core.Slot, tieWhy, soleWhy, kind string) core.MatchOutcome {
	for _, s := range winners {
		out.Winners = append(out.Winners, s.PlayerNum)
	}
	slices.Sort(out.Winners)

	if len(winners) == 1 {
		w := winners[0]
		out.Valid = true
		out.WinningTeam = TeamOf(m.Teams, w.PlayerNum)
		out.Reason = fmt.Sprintf("%s. Game Type: %s. Team: %s", soleWhy, kind, rawTeam(w.Team))
		return out
	}

	team := winners[0].Team
	shared := team != core.NoTeam
	for _, s := range winners[1:] {
		if s.Team != team {
			shared = false
		}
	}
	if shared {
		out.Valid = true
		out.WinningTeam = TeamOf(m.Teams, winners[0].PlayerNum)
		out.Reason = fmt.Sprintf("Tie among candidates (%s) but all are on team %d. Valid team win. Game Type: %s.", tieWhy, team-1, kind)
		return out
	}
	out.Reason = fmt.Sprintf("Tie among candidates (%s) but they are in different teams or free-for-all. Invalid result. Game Type: %s.", tieWhy, kind)
	return out
}

func gameKind(players []core.Slot) string {
	if len(players) == 0 {
		return "Unknown"
	}
	for _, s := range players {
		if s.Team != core.NoTeam {
			return "Team vs Team"
		}
	}
	return "Free For All"
}

func rawTeam(team int) string {
	if team == core.NoTeam {
		return "None"
	}
	return fmt.Sprint(team - 1)
}

// endFrame is the last frame of the stream capped at the header duration.
func endFrame(m *Match) uint32 {
	var end uint32
	for _, msg := range m.Messages {
		end = max(end, msg.Frame)
	}
	if d := m.Header.Duration; d > 0 && end > d {
		end = d
	}
	return end
}
