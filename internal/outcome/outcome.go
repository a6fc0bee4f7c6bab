// Package outcome infers match results from the decoded message stream.
//
// Replays carry no winner record. Two strategies reconstruct one: an
// activity strategy that looks at what each player still did near the end
// of the match, and a quit/checksum strategy that correlates quit messages
// with the periodic logic checksums every client broadcasts. Both report
// per-player statuses through the same state machine (Step).
package outcome

import (
	"cmp"
	"slices"

	"github.com/zhstats/genrep/internal/util"
	"github.com/zhstats/genrep/pkg/core"
)

// Strategy names accepted by Config.Strategy.
const (
	StrategyAuto     = "auto"
	StrategyActivity = "activity"
	StrategyQuitCRC  = "quitcrc"
)

// DefaultTailFraction is the share of the frame range, counted back from the
// last message, in which the activity strategy looks for real commands.
const DefaultTailFraction = 0.60

// Config selects and tunes the strategies.
type Config struct {
	Strategy     string  `json:"strategy" mapstructure:"strategy"`
	TailFraction float64 `json:"tailFraction" mapstructure:"tailFraction"`
	IdleCheck    bool    `json:"idleCheck" mapstructure:"idleCheck"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{Strategy: StrategyAuto, TailFraction: DefaultTailFraction, IdleCheck: true}
}

// Input is the decoded replay the engine works on. Slots are numbered from
// core.FirstPlayerNum as the options parser leaves them.
type Input struct {
	Header   core.Header
	Slots    []core.Slot
	Messages []core.Message
}

// Match is the normalized view handed to a strategy. Seats are renumbered
// with the recovered offset.
type Match struct {
	Header   core.Header
	Seats    []core.Slot
	Teams    []core.Team
	Messages []core.Message
	Owner    Owner
}

// Seat returns the occupied seat of player num.
func (m *Match) Seat(num int) (core.Slot, bool) {
	for _, s := range m.Seats {
		if s.PlayerNum == num {
			return s, true
		}
	}
	return core.Slot{}, false
}

// Strategy infers winners and per-player statuses. Implementations must not
// modify the match.
type Strategy interface {
	Name() string
	Infer(m *Match) core.MatchOutcome
}

// Engine runs the configured strategy and derives the category and placement.
type Engine struct {
	cfg      Config
	activity Strategy
	quitCRC  Strategy
}

// New returns an engine for cfg. An empty Strategy and an out-of-range
// TailFraction fall back to their DefaultConfig values. IdleCheck is taken
// as given, so start from DefaultConfig to keep the idle pass on.
func New(cfg Config) *Engine {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyAuto
	}
	if cfg.TailFraction <= 0 || cfg.TailFraction > 1 {
		cfg.TailFraction = DefaultTailFraction
	}
	return &Engine{
		cfg:      cfg,
		activity: NewActivity(cfg.TailFraction),
		quitCRC:  NewQuitCRC(cfg.IdleCheck),
	}
}

// Select returns the strategy that will run for msgs.
func (e *Engine) Select(msgs []core.Message) Strategy {
	switch e.cfg.Strategy {
	case StrategyActivity:
		return e.activity
	case StrategyQuitCRC:
		return e.quitCRC
	}
	for _, m := range msgs {
		if m.Type == core.MsgLogicCRC {
			return e.quitCRC
		}
	}
	return e.activity
}

// Prepare recovers the owner and builds the normalized match.
func Prepare(in Input) *Match {
	owner := ResolveOwner(in.Header.LocalSlot, in.Slots, in.Messages)
	var seats []core.Slot
	for _, s := range Renumber(in.Slots, owner.Offset) {
		if s.Occupied() {
			seats = append(seats, s)
		}
	}
	return &Match{
		Header:   in.Header,
		Seats:    seats,
		Teams:    Teams(seats),
		Messages: in.Messages,
		Owner:    owner,
	}
}

// Infer returns the outcome of the match. It is a pure function of in.
func (e *Engine) Infer(in Input) core.MatchOutcome {
	m := Prepare(in)
	s := e.Select(in.Messages)

	out := s.Infer(m)
	out.Strategy = s.Name()
	out.OwnerNum = m.Owner.Num
	out.OwnerOffset = m.Owner.Offset
	out.OffsetConfident = m.Owner.Confident
	out.Category = Categorize(m, out)
	if out.Category.HasWinner() && len(m.Teams) > 1 {
		out.Placement = Place(m.Teams, out)
		for i, p := range out.Players {
			out.Players[i].Placement = util.Ordinal(out.Rank(p.Team))
		}
	}
	return out
}

// Categorize classifies the result. Earlier rules win:
// desync, AI present, no opponents, a winner, then the no-winner cases.
// The no-winner cases read the owner's checksums and quits, so an activity
// result without a winner is always inconclusive.
func Categorize(m *Match, o core.MatchOutcome) core.Category {
	switch {
	case m.Header.Desynced():
		return core.CategoryDesync
	case hasComputer(m.Seats):
		return core.CategoryAIPresent
	case len(m.Teams) <= 1:
		return core.CategoryNoOpponents
	}

	if o.Valid && o.WinningTeam != core.NoTeam {
		owner, ok := m.Seat(m.Owner.Num)
		switch {
		case !ok:
			return core.CategoryTeamWon
		case owner.Observer():
			return core.CategoryObserved
		case TeamOf(m.Teams, owner.PlayerNum) == o.WinningTeam:
			return core.CategoryWin
		}
		return core.CategoryLoss
	}

	switch {
	case o.Strategy == StrategyActivity:
		return core.CategoryInconclusive
	case !sentType(m.Messages, m.Owner.Num, core.MsgLogicCRC) && m.Header.BeginTimestamp > 0:
		return core.CategoryDCAtStart
	case sentQuit(m.Messages, m.Owner.Num):
		return core.CategoryQuitNoWinner
	}
	return core.CategoryInconclusive
}

// Place ranks the winning team first and the rest by their latest activity,
// most recent first.
func Place(teams []core.Team, o core.MatchOutcome) []core.TeamPlacement {
	type lastSeen struct {
		team  int
		frame uint32
	}
	var others []lastSeen
	for _, t := range teams {
		if t.ID == o.WinningTeam {
			continue
		}
		var frame uint32
		for _, num := range t.Players {
			if p, ok := o.Player(num); ok {
				frame = max(frame, p.LastActivity())
			}
		}
		others = append(others, lastSeen{t.ID, frame})
	}
	slices.SortStableFunc(others, func(a, b lastSeen) int { return cmp.Compare(b.frame, a.frame) })

	out := []core.TeamPlacement{{Team: o.WinningTeam, Rank: 1}}
	for i, ls := range others {
		out = append(out, core.TeamPlacement{Team: ls.team, Rank: i + 2})
	}
	return out
}

func hasComputer(seats []core.Slot) bool {
	for _, s := range seats {
		if s.Kind == core.SlotComputer {
			return true
		}
	}
	return false
}

func sentType(msgs []core.Message, num int, typ int32) bool {
	for _, m := range msgs {
		if m.Type == typ && int(m.Player) == num {
			return true
		}
	}
	return false
}

func sentQuit(msgs []core.Message, num int) bool {
	for _, m := range msgs {
		if m.IsQuit() && int(m.Player) == num {
			return true
		}
	}
	return false
}
