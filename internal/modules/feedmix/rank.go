package feedmix

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vibemix-backend/internal/domain/taxonomy"
)

// Attachment is the slice of a post's tag state the ranker reads.
type Attachment struct {
	TagID      uuid.UUID
	Kind       taxonomy.TagKind
	Slug       string
	Confidence float64
	Weight     float64
}

type Candidate struct {
	PostID      uuid.UUID
	CreatedAt   time.Time
	Likes       int
	Comments    int
	Shares      int
	Attachments []Attachment
}

// Preferences are one user's stored tag preferences. Weights holds
// preference weights in [0, 100] keyed by tag id.
type Preferences struct {
	Weights map[uuid.UUID]float64
	Blocked map[uuid.UUID]bool
}

// Empty reports whether the user has stored no preference rows at all,
// blocked or weighted.
func (p Preferences) Empty() bool {
	return len(p.Weights) == 0 && len(p.Blocked) == 0
}

// Scorer computes the ranking score of one eligible candidate.
type Scorer func(c Candidate, prefs Preferences, now time.Time) float64

type Options struct {
	Mode        Mode
	CategoryIDs []uuid.UUID
	VibeIDs     []uuid.UUID
	Limit       int
	Now         time.Time
	Scorer      Scorer
}

type Ranked struct {
	Candidate
	Score float64
}

// Rank filters candidates by mode, explicit filters and the blocklist, scores
// the survivors, and returns at most Limit of them ordered by score desc,
// then CreatedAt desc, then post id asc.
func Rank(candidates []Candidate, prefs Preferences, opts Options) []Ranked {
	scorer := opts.Scorer
	if scorer == nil {
		scorer = Score
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	categorySet := toSet(opts.CategoryIDs)
	vibeSet := toSet(opts.VibeIDs)

	out := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		if !eligible(c, prefs, opts.Mode, categorySet, vibeSet) {
			continue
		}
		out = append(out, Ranked{Candidate: c, Score: scorer(c, prefs, now)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].PostID.String() < out[j].PostID.String()
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

func eligible(c Candidate, prefs Preferences, mode Mode, categories, vibes map[uuid.UUID]struct{}) bool {
	if mode.Restricts() && !matchesMode(c, mode) {
		return false
	}
	if len(categories) > 0 && !hasAttachment(c, taxonomy.KindCategory, categories) {
		return false
	}
	if len(vibes) > 0 && !hasAttachment(c, taxonomy.KindVibe, vibes) {
		return false
	}
	for _, a := range c.Attachments {
		if prefs.Blocked[a.TagID] {
			return false
		}
	}
	return true
}

func matchesMode(c Candidate, mode Mode) bool {
	allowed := modeVibeSlugs[mode]
	for _, a := range c.Attachments {
		if a.Kind != taxonomy.KindVibe || a.Confidence < ModeMinConfidence {
			continue
		}
		for _, slug := range allowed {
			if a.Slug == slug {
				return true
			}
		}
	}
	return false
}

func hasAttachment(c Candidate, kind taxonomy.TagKind, ids map[uuid.UUID]struct{}) bool {
	for _, a := range c.Attachments {
		if a.Kind != kind {
			continue
		}
		if _, ok := ids[a.TagID]; ok {
			return true
		}
	}
	return false
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	if len(ids) == 0 {
		return nil
	}
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// Score is the default scorer: category preference match plus recency plus
// engagement. Vibe preferences do not contribute.
func Score(c Candidate, prefs Preferences, now time.Time) float64 {
	return PreferenceScore(c, prefs) + RecencyScore(c.CreatedAt, now) + EngagementScore(c.Likes, c.Comments, c.Shares)
}

// PreferenceScore sums prefWeight * confidence * weight / 10000 over the
// candidate's category attachments. Tags without a preference contribute 0.
func PreferenceScore(c Candidate, prefs Preferences) float64 {
	score := 0.0
	for _, a := range c.Attachments {
		if a.Kind != taxonomy.KindCategory {
			continue
		}
		w, ok := prefs.Weights[a.TagID]
		if !ok {
			continue
		}
		score += w * a.Confidence * a.Weight / 10000
	}
	return score
}

// RecencyScore decays from 10 to 0 over ten days. Posts dated in the future
// count as brand new.
func RecencyScore(createdAt, now time.Time) float64 {
	hours := now.Sub(createdAt).Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Max(0, 10-hours/24)
}

func EngagementScore(likes, comments, shares int) float64 {
	raw := 0.5*float64(nonNegative(likes)) + float64(nonNegative(comments)) + 2*float64(nonNegative(shares))
	return math.Log(1+raw) * 2
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
