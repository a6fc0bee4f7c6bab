// pkg/core/message.go
package core

// Message type codes the outcome heuristics depend on.
const (
	MsgEndOfStream        int32 = 27
	MsgCreateSelectGroup  int32 = 1001
	MsgDestroySelectGroup int32 = 1003
	MsgSelectTeam0        int32 = 1016
	MsgSelectTeam9        int32 = 1025
	MsgAreaSelection      int32 = 1058
	MsgDoMoveTo           int32 = 1068
	MsgSelfDestruct       int32 = 1093
	MsgLogicCRC           int32 = 1095
	MsgRetaliationMode    int32 = 1097
)

// ArgType is the wire code of a message argument.
type ArgType uint8

const (
	ArgInt ArgType = iota
	ArgFloat
	ArgBool
	ArgObjectID
	ArgDrawableID
	ArgTeamID
	ArgLocation
	ArgPixel
	ArgPixelRegion
	ArgTimestamp
	ArgWideChar
)

// Argument is one decoded argument value.
//
// Value holds int32, float32, bool, uint32 or uint16 for scalar shapes and
// [3]float32, [2]int32 or [4]int32 for tuples.
type Argument struct {
	Type  ArgType `json:"type"`
	Value any     `json:"value"`
}

// Message is one game-logic command from the replay body.
type Message struct {
	Offset   int        `json:"offset"` // byte offset inside the body
	Frame    uint32     `json:"frame"`
	Type     int32      `json:"type"`
	TypeName string     `json:"typeName"`
	Player   int32      `json:"player"`
	Args     []Argument `json:"args,omitempty"`
}

// IntArg returns the first int argument.
func (m Message) IntArg() (int32, bool) {
	for _, a := range m.Args {
		if v, ok := a.Value.(int32); ok && a.Type == ArgInt {
			return v, true
		}
	}
	return 0, false
}

// Location returns the first location argument.
func (m Message) Location() ([3]float32, bool) {
	for _, a := range m.Args {
		if v, ok := a.Value.([3]float32); ok {
			return v, true
		}
	}
	return [3]float32{}, false
}

// IsQuit reports whether m is a self-destruct carrying its single bool flag,
// which is how a player leaving the match is recorded.
func (m Message) IsQuit() bool {
	return m.Type == MsgSelfDestruct && len(m.Args) == 1 && m.Args[0].Type == ArgBool
}
