package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/vibemix-backend/internal/data/repos"
	types "github.com/yungbote/vibemix-backend/internal/domain"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
	"github.com/yungbote/vibemix-backend/internal/domain/taxonomy"
	"github.com/yungbote/vibemix-backend/internal/platform/clock"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

// SetPreferenceInput updates only the fields that are set. A new row starts
// at weight 0, not blocked.
type SetPreferenceInput struct {
	TagID     uuid.UUID `json:"tag_id"`
	Weight    *float64  `json:"weight"`
	IsBlocked *bool     `json:"is_blocked"`
}

type PreferenceService interface {
	List(ctx context.Context, userID uuid.UUID, kind *types.TagKind) ([]*types.UserTagPreference, error)
	Set(ctx context.Context, userID uuid.UUID, in SetPreferenceInput) (*types.UserTagPreference, error)
	SetBulk(ctx context.Context, userID uuid.UUID, in []SetPreferenceInput) ([]*types.UserTagPreference, error)
	Block(ctx context.Context, userID, tagID uuid.UUID) (*types.UserTagPreference, error)
	Unblock(ctx context.Context, userID, tagID uuid.UUID) (*types.UserTagPreference, error)
}

type preferenceService struct {
	db    *gorm.DB
	log   *logger.Logger
	tags  repos.TagRepo
	prefs repos.UserTagPreferenceRepo
	clock clock.Clock
}

func NewPreferenceService(db *gorm.DB, log *logger.Logger, tags repos.TagRepo, prefs repos.UserTagPreferenceRepo, clk clock.Clock) PreferenceService {
	if clk == nil {
		clk = clock.Real()
	}
	return &preferenceService{
		db:    db,
		log:   log.With("service", "PreferenceService"),
		tags:  tags,
		prefs: prefs,
		clock: clk,
	}
}

func (s *preferenceService) List(ctx context.Context, userID uuid.UUID, kind *types.TagKind) ([]*types.UserTagPreference, error) {
	const op = "Preferences.List"
	if userID == uuid.Nil {
		return nil, domainagg.Validation(op, "missing user_id")
	}
	var k types.TagKind
	if kind != nil {
		k = *kind
	}
	rows, err := s.prefs.ListByUser(dbctx.Context{Ctx: ctx}, userID, k)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return rows, nil
}

func (s *preferenceService) Set(ctx context.Context, userID uuid.UUID, in SetPreferenceInput) (*types.UserTagPreference, error) {
	const op = "Preferences.Set"
	if err := validatePreference(op, userID, in); err != nil {
		return nil, err
	}
	var out *types.UserTagPreference
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.apply(dbctx.Context{Ctx: ctx, Tx: tx}, op, userID, in)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return out, nil
}

// SetBulk validates every entry before touching the store and applies them
// in one transaction.
func (s *preferenceService) SetBulk(ctx context.Context, userID uuid.UUID, in []SetPreferenceInput) ([]*types.UserTagPreference, error) {
	const op = "Preferences.SetBulk"
	if len(in) == 0 {
		return nil, domainagg.Validation(op, "no preferences given")
	}
	seen := make(map[uuid.UUID]struct{}, len(in))
	for i, p := range in {
		if err := validatePreference(op, userID, p); err != nil {
			return nil, domainagg.Validation(op, fmt.Sprintf("preferences[%d]: %s", i, messageOf(err)))
		}
		if _, dup := seen[p.TagID]; dup {
			return nil, domainagg.Validation(op, fmt.Sprintf("preferences[%d]: duplicate tag_id %s", i, p.TagID))
		}
		seen[p.TagID] = struct{}{}
	}

	out := make([]*types.UserTagPreference, 0, len(in))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		for _, p := range in {
			row, err := s.apply(inner, op, userID, p)
			if err != nil {
				return err
			}
			out = append(out, row)
		}
		return nil
	})
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return out, nil
}

func (s *preferenceService) Block(ctx context.Context, userID, tagID uuid.UUID) (*types.UserTagPreference, error) {
	blocked := true
	return s.Set(ctx, userID, SetPreferenceInput{TagID: tagID, IsBlocked: &blocked})
}

func (s *preferenceService) Unblock(ctx context.Context, userID, tagID uuid.UUID) (*types.UserTagPreference, error) {
	blocked := false
	return s.Set(ctx, userID, SetPreferenceInput{TagID: tagID, IsBlocked: &blocked})
}

func (s *preferenceService) apply(dbc dbctx.Context, op string, userID uuid.UUID, in SetPreferenceInput) (*types.UserTagPreference, error) {
	tag, err := s.tags.GetByID(dbc, in.TagID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, domainagg.NotFound(op, fmt.Sprintf("tag not found: %s", in.TagID))
	}
	return s.prefs.Upsert(dbc, repos.PreferencePatch{
		UserID:    userID,
		TagID:     tag.ID,
		Kind:      tag.Kind,
		Weight:    in.Weight,
		IsBlocked: in.IsBlocked,
		At:        s.clock.Now(),
	})
}

func validatePreference(op string, userID uuid.UUID, in SetPreferenceInput) error {
	if userID == uuid.Nil {
		return domainagg.Validation(op, "missing user_id")
	}
	if in.TagID == uuid.Nil {
		return domainagg.Validation(op, "missing tag_id")
	}
	if in.Weight != nil && (math.IsNaN(*in.Weight) || *in.Weight < taxonomy.MinPreferenceWeight || *in.Weight > taxonomy.MaxPreferenceWeight) {
		return domainagg.Validation(op, fmt.Sprintf("weight must be between %d and %d", taxonomy.MinPreferenceWeight, taxonomy.MaxPreferenceWeight))
	}
	if in.Weight == nil && in.IsBlocked == nil {
		return domainagg.Validation(op, "nothing to update")
	}
	return nil
}

func messageOf(err error) string {
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return aggErr.Message
	}
	return err.Error()
}
