package realtime

import (
	"time"

	"github.com/google/uuid"
)

type EventName string

const (
	EventPostTagsUpdated EventName = "post_tags_updated"
)

// Event is what the bus carries. Channel scopes delivery; subscribers that
// follow a single post listen on PostChannel(postID).
type Event struct {
	Channel string    `json:"channel"`
	Name    EventName `json:"event"`
	Data    any       `json:"data,omitempty"`
	At      time.Time `json:"at"`
}

func PostChannel(postID uuid.UUID) string {
	return "post:" + postID.String()
}

// PostTagsUpdated is the payload of EventPostTagsUpdated.
type PostTagsUpdated struct {
	PostID  uuid.UUID      `json:"post_id"`
	Kind    string         `json:"kind"`
	Reason  string         `json:"reason"`
	Weights []TagWeightRef `json:"weights"`
}

type TagWeightRef struct {
	PostTagID  uuid.UUID `json:"post_tag_id"`
	TagID      uuid.UUID `json:"tag_id"`
	Confidence float64   `json:"confidence"`
	Weight     float64   `json:"weight"`
}
