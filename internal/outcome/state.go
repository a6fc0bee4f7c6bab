package outcome

import "github.com/zhstats/genrep/pkg/core"

// EventKind is an observed player transition.
type EventKind uint8

const (
	EventSurrender EventKind = iota + 1
	EventExit
	EventAmbiguous
	EventIdleKick
)

// Event is one transition input for Step.
type Event struct {
	Kind  EventKind
	Frame uint32
}

// Step applies ev to s and returns the new status. Every event records its
// frame; the status only moves along
//
//	Active -> Surrendered | Ambiguous -> Exited
//
// with IdleKicked reachable from any state but Surrendered and sticky once
// entered.
func Step(s core.PlayerStatus, ev Event) core.PlayerStatus {
	switch ev.Kind {
	case EventSurrender:
		s.SurrenderFrame = ev.Frame
		if s.Status == core.StatusActive || s.Status == core.StatusAmbiguous {
			s.Status, s.StatusFrame = core.StatusSurrendered, ev.Frame
		}
	case EventAmbiguous:
		s.AmbiguousFrame = ev.Frame
		if s.Status == core.StatusActive {
			s.Status, s.StatusFrame = core.StatusAmbiguous, ev.Frame
		}
	case EventExit:
		s.ExitFrame = ev.Frame
		if s.Status != core.StatusIdleKicked {
			s.Status, s.StatusFrame = core.StatusExited, ev.Frame
		}
	case EventIdleKick:
		s.IdleFrame = ev.Frame
		if s.Status != core.StatusSurrendered {
			s.Status, s.StatusFrame = core.StatusIdleKicked, ev.Frame
		}
	}
	return s
}

// Replay folds events over a fresh Active status.
func Replay(num, team int, events ...Event) core.PlayerStatus {
	s := core.PlayerStatus{PlayerNum: num, Team: team}
	for _, ev := range events {
		s = Step(s, ev)
	}
	return s
}
