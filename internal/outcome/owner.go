package outcome

import "github.com/zhstats/genrep/pkg/core"

// defaultOffset is the engine's usual number for the first occupied seat.
const defaultOffset = core.FirstPlayerNum

// Owner is the recovered identity of the player who recorded the replay.
type Owner struct {
	Num       int
	Offset    int
	Confident bool
}

// ResolveOwner recovers the owner's player number and the numbering offset
// of the occupied seats. The seat list must be numbered from
// core.FirstPlayerNum.
//
// The offset is the lowest player number among the checksums of the first
// checksum frame, when every occupied seat is present there. A trailing
// end-of-stream message overrides it and is the only confident source.
// Without either the default offset is used.
func ResolveOwner(local int, slots []core.Slot, msgs []core.Message) Owner {
	ord, ok := seatOrdinal(slots, local)
	if !ok {
		ord, ok = seatOrdinal(slots, 0)
	}
	if !ok {
		return Owner{Num: defaultOffset, Offset: defaultOffset}
	}

	offset := defaultOffset
	if low, ok := firstChecksumFloor(msgs, seatCount(slots)); ok {
		offset = low
	}
	if n := len(msgs); n > 0 {
		if last := msgs[n-1]; last.Type == core.MsgEndOfStream && len(last.Args) == 0 {
			num := int(last.Player)
			return Owner{Num: num, Offset: num - ord, Confident: true}
		}
	}
	return Owner{Num: offset + ord, Offset: offset}
}

// seatOrdinal returns the position of the seat at slot index among the
// occupied seats.
func seatOrdinal(slots []core.Slot, index int) (int, bool) {
	for _, s := range slots {
		if s.Index == index && s.Occupied() {
			return s.PlayerNum - core.FirstPlayerNum, true
		}
	}
	return 0, false
}

// seatCount counts occupied seats, including malformed ones that kept a number.
func seatCount(slots []core.Slot) int {
	n := 0
	for _, s := range slots {
		if s.PlayerNum != core.NoPlayer {
			n = max(n, s.PlayerNum-core.FirstPlayerNum+1)
		}
	}
	return n
}

func firstChecksumFloor(msgs []core.Message, seats int) (int, bool) {
	first := -1
	for i, m := range msgs {
		if m.Type == core.MsgLogicCRC {
			first = i
			break
		}
	}
	if first < 0 {
		return 0, false
	}

	frame := msgs[first].Frame
	seen := map[int32]struct{}{}
	low := int32(-1)
	for _, m := range msgs[first:] {
		if m.Frame != frame {
			continue
		}
		if m.Type != core.MsgLogicCRC {
			continue
		}
		seen[m.Player] = struct{}{}
		if low < 0 || m.Player < low {
			low = m.Player
		}
	}
	if len(seen) < seats {
		return 0, false
	}
	return int(low), true
}
