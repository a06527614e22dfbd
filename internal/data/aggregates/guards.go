package aggregates

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/vibemix-backend/internal/domain"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
)

func requireVisiblePost(op string, post *types.Post, id uuid.UUID) error {
	if post == nil || !post.Visible() {
		return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("post not found: %s", id), nil)
	}
	return nil
}

func requireActiveTag(op string, tag *types.Tag, id uuid.UUID, at time.Time) error {
	if tag == nil {
		return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("tag not found: %s", id), nil)
	}
	if !tag.ActiveAt(at) {
		return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("tag not active: %s", tag.Slug), nil)
	}
	return nil
}

func requireAuthor(op string, post *types.Post, requesterID uuid.UUID) error {
	if requesterID == uuid.Nil || post.UserID != requesterID {
		return domainagg.NewError(domainagg.CodeForbidden, op, "only the post author can do this", nil)
	}
	return nil
}

func requireID(op, name string, id uuid.UUID) error {
	if id == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing "+name, nil)
	}
	return nil
}
