package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/observability"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
	"github.com/yungbote/vibemix-backend/internal/realtime"
	"github.com/yungbote/vibemix-backend/internal/realtime/bus"
)

// TagEventNotifier announces committed tag state changes. Delivery is best
// effort; failures are logged and never reach the caller.
type TagEventNotifier interface {
	PostTagsUpdated(ctx context.Context, postID uuid.UUID, kind types.TagKind, reason string, siblings []types.PostTag)
}

type tagEventNotifier struct {
	bus     bus.Bus
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewTagEventNotifier(b bus.Bus, log *logger.Logger, metrics *observability.Metrics) TagEventNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &tagEventNotifier{bus: b, log: log.With("service", "TagEventNotifier"), metrics: metrics}
}

func (n *tagEventNotifier) PostTagsUpdated(ctx context.Context, postID uuid.UUID, kind types.TagKind, reason string, siblings []types.PostTag) {
	if n == nil || n.bus == nil || postID == uuid.Nil {
		return
	}
	payload := realtime.PostTagsUpdated{
		PostID:  postID,
		Kind:    string(kind),
		Reason:  reason,
		Weights: make([]realtime.TagWeightRef, 0, len(siblings)),
	}
	for _, s := range siblings {
		payload.Weights = append(payload.Weights, realtime.TagWeightRef{
			PostTagID:  s.ID,
			TagID:      s.TagID,
			Confidence: s.Confidence,
			Weight:     s.Weight,
		})
	}
	ev := realtime.Event{
		Channel: realtime.PostChannel(postID),
		Name:    realtime.EventPostTagsUpdated,
		Data:    payload,
		At:      time.Now().UTC(),
	}

	// The write already committed; a cancelled request must not drop the event.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := n.bus.Publish(pubCtx, ev); err != nil {
		n.metrics.IncRealtimeEvent(string(ev.Name), "error")
		n.log.Warn("publish post_tags_updated failed", "post_id", postID, "error", err)
		return
	}
	n.metrics.IncRealtimeEvent(string(ev.Name), "ok")
}
