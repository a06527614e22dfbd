package gamification

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type BadgeID string

const (
	BadgeRookie     BadgeID = "rookie"
	BadgeEnthusiast BadgeID = "enthusiast"
	BadgeMaster     BadgeID = "master"
)

type BadgeDefinition struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	MinVotes    int     `json:"min_votes"`
}

// Definitions are ordered by threshold.
var Definitions = []BadgeDefinition{
	{ID: BadgeRookie, Name: "Acemi Kategorizör", Description: "İlk 50 oyu tamamla", Icon: "🥉", MinVotes: 50},
	{ID: BadgeEnthusiast, Name: "Kategori Meraklısı", Description: "200 oy tamamla", Icon: "🥈", MinVotes: 200},
	{ID: BadgeMaster, Name: "Kategori Ustası", Description: "1000 oy tamamla", Icon: "🥇", MinVotes: 1000},
}

// EarnedBadge is the stored form of a badge a voter holds.
type EarnedBadge struct {
	ID       BadgeID   `json:"id"`
	EarnedAt time.Time `json:"earned_at"`
}

type Badge struct {
	BadgeDefinition
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

func ParseEarned(raw datatypes.JSON) []EarnedBadge {
	var out []EarnedBadge
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// Award adds every badge whose threshold totalVotes has reached and that is
// not stored yet. Earned badges are never revoked. changed is false when
// nothing new was earned.
func Award(stored datatypes.JSON, totalVotes int, now time.Time) (datatypes.JSON, bool) {
	earned := ParseEarned(stored)
	have := make(map[BadgeID]bool, len(earned))
	for _, b := range earned {
		have[b.ID] = true
	}
	changed := false
	for _, def := range Definitions {
		if totalVotes >= def.MinVotes && !have[def.ID] {
			earned = append(earned, EarnedBadge{ID: def.ID, EarnedAt: now.UTC()})
			changed = true
		}
	}
	if !changed {
		return stored, false
	}
	raw, err := json.Marshal(earned)
	if err != nil {
		return stored, false
	}
	return datatypes.JSON(raw), true
}

// View lists every definition with its earned state.
func View(stored datatypes.JSON, totalVotes int) []Badge {
	earnedAt := map[BadgeID]time.Time{}
	for _, b := range ParseEarned(stored) {
		earnedAt[b.ID] = b.EarnedAt
	}
	out := make([]Badge, 0, len(Definitions))
	for _, def := range Definitions {
		b := Badge{BadgeDefinition: def, Earned: totalVotes >= def.MinVotes}
		if at, ok := earnedAt[def.ID]; ok {
			at := at
			b.EarnedAt = &at
			b.Earned = true
		}
		out = append(out, b)
	}
	return out
}

// Next is the lowest badge not yet reached at totalVotes, or nil once every
// badge is reached.
func Next(totalVotes int) *BadgeDefinition {
	for _, def := range Definitions {
		if totalVotes < def.MinVotes {
			d := def
			return &d
		}
	}
	return nil
}
