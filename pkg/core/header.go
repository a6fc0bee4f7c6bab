// pkg/core/header.go
package core

import "strings"

// MaxSlots is the number of seats a match can configure.
const MaxSlots = 8

// Build checksums of the 1.04 executable and INI data.
const (
	ExeCRC104 uint32 = 3660270360
	IniCRC104 uint32 = 4272612339
)

// SupportedVersions lists the localized version strings of the 1.04 patch.
var SupportedVersions = []string{
	"Version 1.04",
	"버전 1.04",
	"版本 1.04",
	"Версия 1.04",
	"Versión 1.04",
	"Versione 1.04",
}

// Header is the fixed-layout preamble of a replay file.
type Header struct {
	Magic          string          `json:"magic"`
	BeginTimestamp uint32          `json:"beginTimestamp"`
	EndTimestamp   uint32          `json:"endTimestamp"`
	Duration       uint32          `json:"duration"` // frames
	Desync         uint8           `json:"desync"`
	QuitEarly      uint8           `json:"quitEarly"`
	Disconnects    [MaxSlots]uint8 `json:"disconnects"`
	ReplayName     string          `json:"replayName"`
	SystemTime     [16]byte        `json:"systemTime"`
	Version        string          `json:"version"`
	BuildDate      string          `json:"buildDate"`
	VersionMinor   uint16          `json:"versionMinor"`
	VersionMajor   uint16          `json:"versionMajor"`
	ExeCRC         uint32          `json:"exeCrc"`
	IniCRC         uint32          `json:"iniCrc"`
	MatchOptions   string          `json:"matchOptions"`
	OptionsCorrupt bool            `json:"optionsCorrupt"`
	LocalSlot      int             `json:"localSlot"` // -1 when unknown
	Difficulty     int32           `json:"difficulty"`
	OriginalMode   int32           `json:"originalMode"`
	RankPoints     int32           `json:"rankPoints"`
	MaxFPS         int32           `json:"maxFps"`
	// NameCorrupt is set when any UTF-16 header string needed a fallback decode.
	NameCorrupt bool `json:"nameCorrupt"`
}

// Desynced reports whether the engine flagged a state divergence.
func (h Header) Desynced() bool {
	return h.Desync == 1
}

// ExeCheck reports whether the recording executable matches the 1.04 build.
func (h Header) ExeCheck() bool {
	return h.ExeCRC == ExeCRC104
}

// IniCheck reports whether the recording INI data matches the 1.04 build.
func (h Header) IniCheck() bool {
	return h.IniCRC == IniCRC104
}

// SupportedVersion reports whether the version string is a known 1.04 label.
func (h Header) SupportedVersion() bool {
	for _, v := range SupportedVersions {
		if strings.EqualFold(v, h.Version) {
			return true
		}
	}
	return false
}
