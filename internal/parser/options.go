package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zhstats/genrep/pkg/core"
)

// Option keys of the match-options string.
const (
	KeyMap           = "M"
	KeyMapCRC        = "MC"
	KeySeed          = "SD"
	KeyStartCash     = "SC"
	KeySWRestriction = "SR"
	KeySlots         = "S"

	defaultStartCash = 10000
)

// SlotError describes a slot descriptor that could not be parsed.
type SlotError struct {
	Index      int
	Descriptor string
	Err        error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %d (%q): %v", e.Index, e.Descriptor, e.Err)
}

func (e *SlotError) Unwrap() error { return e.Err }

// SplitOptions splits a match-options string into its key/value pairs.
// Segments without a key continue the value of the previous key, so a slot
// list carrying ';' inside player names survives intact. Empty segments
// continue it too, except for the terminating ";;".
func SplitOptions(raw string) map[string]string {
	raw = strings.TrimSuffix(raw, ";;")
	out := make(map[string]string)
	if raw == "" {
		return out
	}

	var key string
	var val strings.Builder
	haveKey := false
	for _, part := range strings.Split(raw, ";") {
		if k, v, ok := splitKey(part); ok {
			if haveKey {
				out[key] = val.String()
			}
			key, haveKey = k, true
			val.Reset()
			val.WriteString(v)
			continue
		}
		if haveKey {
			val.WriteByte(';')
			val.WriteString(part)
		}
	}
	if haveKey {
		out[key] = val.String()
	}
	return out
}

func splitKey(part string) (string, string, bool) {
	k, v, ok := strings.Cut(part, "=")
	if !ok || k == "" {
		return "", "", false
	}
	for _, r := range k {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return "", "", false
		}
	}
	return k, v, true
}

// SplitSlots splits a slot list at every ':' that is directly followed by a
// slot-kind marker. Other colons belong to player names.
func SplitSlots(list string) []string {
	if list == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(list); i++ {
		if list[i] != ':' || i+1 >= len(list) {
			continue
		}
		switch list[i+1] {
		case 'H', 'C', 'X', 'O':
			out = append(out, list[start:i])
			start = i + 1
		}
	}
	return append(out, list[start:])
}

// ParseMatchOptions parses the match-options string. Malformed slot
// descriptors are dropped and reported in the returned errors.
func ParseMatchOptions(raw string, disconnects [core.MaxSlots]uint8) (core.MatchOptions, []error) {
	kv := SplitOptions(raw)
	opts := core.MatchOptions{
		MapPath:   kv[KeyMap],
		MapCRC:    kv[KeyMapCRC],
		StartCash: defaultStartCash,
		Raw:       kv,
	}
	opts.MapName = MapName(opts.MapPath)
	if sd, err := strconv.ParseUint(kv[KeySeed], 10, 32); err == nil {
		opts.Seed = uint32(sd)
	}
	if sc, err := strconv.Atoi(kv[KeyStartCash]); err == nil {
		opts.StartCash = sc
	}
	opts.SWRestriction = kv[KeySWRestriction] == "1"

	var errs []error
	next := core.FirstPlayerNum
	for i, desc := range SplitSlots(slotList(kv[KeySlots])) {
		slot, err := parseSlot(i, desc)
		if slot.Occupied() || (err != nil && occupiedMarker(desc)) {
			// A seat the engine counts keeps its number even when the
			// descriptor cannot be read.
			slot.PlayerNum = next
			next++
		}
		if err != nil {
			errs = append(errs, &SlotError{Index: i, Descriptor: desc, Err: err})
			continue
		}
		if i < len(disconnects) {
			slot.Disconnected = disconnects[i] != 0
		}
		opts.Slots = append(opts.Slots, slot)
	}
	return opts, errs
}

// slotList drops the list terminator, ":" optionally followed by the ';'
// closing the options string.
func slotList(s string) string {
	return strings.TrimSuffix(strings.TrimSuffix(s, ";"), ":")
}

// MapName returns the map name from a map path.
func MapName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func occupiedMarker(desc string) bool {
	return desc != "" && (desc[0] == 'H' || desc[0] == 'C')
}

func parseSlot(index int, desc string) (core.Slot, error) {
	slot := core.Slot{Index: index, PlayerNum: core.NoPlayer}
	if desc == "" {
		return slot, fmt.Errorf("empty descriptor")
	}
	switch desc[0] {
	case 'O':
		slot.Kind = core.SlotOpen
		return slot, nil
	case 'X':
		slot.Kind = core.SlotClosed
		return slot, nil
	case 'H':
		return parseHuman(slot, desc)
	case 'C':
		return parseComputer(slot, desc)
	}
	return slot, fmt.Errorf("unknown slot kind %q", desc[0])
}

// Human descriptors are read from the end so commas inside names do not
// shift the fields: name,ip,port,accepted,color,faction,pos,team,nat.
func parseHuman(slot core.Slot, desc string) (core.Slot, error) {
	tokens := strings.Split(desc, ",")
	n := len(tokens)
	if n < 9 {
		return slot, fmt.Errorf("human descriptor has %d fields, want at least 9", n)
	}
	ints, err := atois(tokens[n-5], tokens[n-4], tokens[n-3], tokens[n-2])
	if err != nil {
		return slot, err
	}
	slot.Kind = core.SlotHuman
	slot.Name = strings.Join(tokens[:n-8], ",")[1:]
	slot.IP = tokens[n-8]
	slot.Port = tokens[n-7]
	slot.Color, slot.Faction, slot.StartPos = ints[0], ints[1], ints[2]
	slot.Team = ints[3] + 1
	return slot, nil
}

// Computer descriptors have fixed forward fields: C<difficulty>,color,faction,pos,team.
func parseComputer(slot core.Slot, desc string) (core.Slot, error) {
	tokens := strings.Split(desc, ",")
	if len(tokens) < 5 {
		return slot, fmt.Errorf("computer descriptor has %d fields, want at least 5", len(tokens))
	}
	ints, err := atois(tokens[1], tokens[2], tokens[3], tokens[4])
	if err != nil {
		return slot, err
	}
	slot.Kind = core.SlotComputer
	slot.Difficulty = tokens[0][1:]
	slot.Name = ComputerName(slot.Difficulty)
	slot.Color, slot.Faction, slot.StartPos = ints[0], ints[1], ints[2]
	slot.Team = ints[3] + 1
	return slot, nil
}

// ComputerName labels an AI seat by its difficulty letter.
func ComputerName(difficulty string) string {
	switch difficulty {
	case "E":
		return "Easy AI"
	case "M":
		return "Medium AI"
	case "H":
		return "Brutal AI"
	}
	return "Unknown AI"
}

func atois(fields ...string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("parse field %q: %w", f, err)
		}
		out[i] = n
	}
	return out, nil
}
