package feedmix

import (
	"fmt"
	"strings"
)

type Mode string

const (
	ModeNormal Mode = "normal"
	ModeSoft   Mode = "soft"
	ModeFocus  Mode = "focus"
)

// ModeMinConfidence is the confidence a vibe attachment needs before it
// counts towards a mode.
const ModeMinConfidence = 0.5

var modeVibeSlugs = map[Mode][]string{
	ModeSoft:  {"positive", "inspiring", "fun"},
	ModeFocus: {"informative", "thoughtful"},
}

// ParseMode accepts the mode names case-insensitively; empty means normal.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeNormal:
		return ModeNormal, nil
	case ModeSoft:
		return ModeSoft, nil
	case ModeFocus:
		return ModeFocus, nil
	default:
		return "", fmt.Errorf("unknown feed mode %q", raw)
	}
}

// VibeSlugs lists the vibes that admit a post under m; nil for normal.
func (m Mode) VibeSlugs() []string {
	slugs, ok := modeVibeSlugs[m]
	if !ok {
		return nil
	}
	out := make([]string, len(slugs))
	copy(out, slugs)
	return out
}

func (m Mode) Restricts() bool {
	_, ok := modeVibeSlugs[m]
	return ok
}
