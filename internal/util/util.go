// Package util provides common formatting helpers used across genrep.
package util

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FramesPerSecond is the logic frame rate of the engine.
const FramesPerSecond = 30

// Ordinal returns the English ordinal of n ("1st", "2nd", "11th").
// Non-positive values return an empty string.
func Ordinal(n int) string {
	if n <= 0 {
		return ""
	}
	if r := n % 100; r >= 11 && r <= 13 {
		return strconv.Itoa(n) + "th"
	}
	switch n % 10 {
	case 1:
		return strconv.Itoa(n) + "st"
	case 2:
		return strconv.Itoa(n) + "nd"
	case 3:
		return strconv.Itoa(n) + "rd"
	}
	return strconv.Itoa(n) + "th"
}

// DDHHMMSS formats a duration in seconds. Sub-second precision is shown in
// frames. Longer durations switch to the clock form:
//
//	"07s 15f", "02m 07s 15f", "01:02:07.15", "01:01:02:07.15"
func DDHHMMSS(seconds float64) string {
	if !(seconds > 0) {
		return "00s 00f"
	}
	days, rem := divmod(seconds, 86400)
	hours, rem := divmod(rem, 3600)
	mins, secs := divmod(rem, 60)
	intSecs := math.Floor(secs)
	frames := int(math.RoundToEven((secs - intSecs) * FramesPerSecond))
	s := int(intSecs)
	d, h, m := int(days), int(hours), int(mins)

	if frames >= FramesPerSecond {
		s++
		frames = 0
	}
	if s >= 60 {
		m++
		s = 0
	}
	if m >= 60 {
		h++
		m = 0
	}
	if h >= 24 {
		d++
		h = 0
	}

	switch {
	case d > 0:
		return fmt.Sprintf("%02d:%02d:%02d:%02d.%02d", d, h, m, s, frames)
	case h > 0:
		return fmt.Sprintf("%02d:%02d:%02d.%02d", h, m, s, frames)
	case m > 0:
		return fmt.Sprintf("%02dm %02ds %02df", m, s, frames)
	}
	return fmt.Sprintf("%02ds %02df", s, frames)
}

// FrameDuration formats a frame count with DDHHMMSS.
func FrameDuration(frames uint32) string {
	return DDHHMMSS(float64(frames) / FramesPerSecond)
}

func divmod(x, y float64) (float64, float64) {
	q := math.Floor(x / y)
	return q, x - q*y
}

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	repeatedReplacement  = regexp.MustCompile(`_+`)
)

const maxFilenameLen = 200

// SanitizeFilename replaces characters that are not allowed in file names,
// collapses runs of replacements and limits the length to 200 bytes while
// keeping a short extension.
func SanitizeFilename(name string) string {
	cleaned := invalidFilenameChars.ReplaceAllString(name, "_")
	cleaned = strings.Trim(cleaned, " .")
	cleaned = repeatedReplacement.ReplaceAllString(cleaned, "_")
	if cleaned == "" {
		return "sanitized_filename"
	}
	if len(cleaned) <= maxFilenameLen {
		return cleaned
	}
	if dot := strings.LastIndexByte(cleaned, '.'); dot >= 0 && len(cleaned)-dot-1 < 10 {
		ext := cleaned[dot:]
		return cleaned[:maxFilenameLen-len(ext)] + ext
	}
	return cleaned[:maxFilenameLen]
}

// Match modes derived from the host seat.
const (
	ModeSkirmish   = "Skirmish/Offline"
	ModeLAN        = "LAN"
	ModeLANPort    = "LAN (VPN/GR? Port 8088)"
	ModeGameRanger = "GameRanger"
	ModeOnline     = "Online"
	ModeUnknown    = "Unknown (Invalid Host Info)"
	ModeInvalidIP  = "Unknown (Invalid IP Format)"
)

// gameRangerPort is the port GameRanger tunnels hosts through.
const gameRangerPort = "8088"

var lanRanges = [][2]uint32{
	{0x0A000000, 0x0AFFFFFF},
	{0xAC100000, 0xAC1FFFFF},
	{0xC0A80000, 0xC0A8FFFF},
	{0xA9FE0000, 0xA9FEFFFF},
	{0x1A000000, 0x1AFFFFFF},
	{0x19000000, 0x19FFFFFF},
}

// MatchMode classifies how a match was hosted from the host's hex IP and
// port as written in the slot list.
func MatchMode(hexIP, port string) string {
	if hexIP == "" || port == "" {
		return ModeUnknown
	}
	ip, err := strconv.ParseUint(hexIP, 16, 32)
	if err != nil {
		return ModeInvalidIP
	}
	if ip == 0 && port == "0" {
		return ModeSkirmish
	}

	lan := false
	for _, r := range lanRanges {
		if uint32(ip) >= r[0] && uint32(ip) <= r[1] {
			lan = true
			break
		}
	}
	switch {
	case port == gameRangerPort && lan:
		return ModeLANPort
	case port == gameRangerPort:
		return ModeGameRanger
	case lan:
		return ModeLAN
	}
	return ModeOnline
}
