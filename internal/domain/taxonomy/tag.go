package taxonomy

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TagKind string

const (
	KindCategory TagKind = "category"
	KindVibe     TagKind = "vibe"
)

func ParseKind(raw string) (TagKind, error) {
	switch TagKind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindCategory:
		return KindCategory, nil
	case KindVibe:
		return KindVibe, nil
	default:
		return "", fmt.Errorf("unknown tag kind %q", raw)
	}
}

type CategoryType string

const (
	CategoryStandard CategoryType = "STANDARD"
	CategoryTemporal CategoryType = "TEMPORAL"
	CategoryTrending CategoryType = "TRENDING"
	CategoryEvent    CategoryType = "EVENT"
)

// Tag is a category or a vibe. Definitions are managed by an admin
// collaborator; this service reads them and keeps the counters.
type Tag struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Kind        TagKind      `gorm:"column:kind;not null;uniqueIndex:idx_tag_kind_slug;index" json:"kind"`
	Name        string       `gorm:"column:name;not null" json:"name"`
	Slug        string       `gorm:"column:slug;not null;uniqueIndex:idx_tag_kind_slug" json:"slug"`
	Icon        string       `gorm:"column:icon" json:"icon"`
	Color       string       `gorm:"column:color" json:"color"`
	Description *string      `gorm:"column:description" json:"description"`
	Type        CategoryType `gorm:"column:type;not null;default:'STANDARD'" json:"type"`
	IsActive    bool         `gorm:"column:is_active;not null" json:"is_active"`
	StartDate   *time.Time   `gorm:"column:start_date" json:"start_date"`
	EndDate     *time.Time   `gorm:"column:end_date" json:"end_date"`
	PostsCount  int          `gorm:"column:posts_count;not null;default:0" json:"posts_count"`
	VotesCount  int          `gorm:"column:votes_count;not null;default:0" json:"votes_count"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (Tag) TableName() string { return "tag" }

// ActiveAt resolves the effective activity at now. Temporal tags follow their
// window: ended tags are inactive, tags inside a fully bounded window are
// active, anything else keeps the stored flag.
func (t *Tag) ActiveAt(now time.Time) bool {
	if t == nil {
		return false
	}
	if t.Type != CategoryTemporal {
		return t.IsActive
	}
	if t.EndDate != nil && t.EndDate.Before(now) {
		return false
	}
	if t.StartDate != nil && t.EndDate != nil && !t.StartDate.After(now) && !t.EndDate.Before(now) {
		return true
	}
	return t.IsActive
}

// TagRef is the display subset embedded in attachment and preference views.
type TagRef struct {
	ID    uuid.UUID `json:"id"`
	Kind  TagKind   `json:"kind"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Icon  string    `json:"icon"`
	Color string    `json:"color"`
}

func (t *Tag) Ref() TagRef {
	if t == nil {
		return TagRef{}
	}
	return TagRef{ID: t.ID, Kind: t.Kind, Name: t.Name, Slug: t.Slug, Icon: t.Icon, Color: t.Color}
}
