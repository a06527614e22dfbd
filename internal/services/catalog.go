package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/vibemix-backend/internal/data/repos"
	types "github.com/yungbote/vibemix-backend/internal/domain"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
	"github.com/yungbote/vibemix-backend/internal/platform/clock"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

const (
	DefaultTrendingLimit = 10
	MaxTrendingLimit     = 50
)

type CategoryFilter struct {
	Type     *types.CategoryType
	IsActive *bool
}

type CatalogService interface {
	ListCategories(ctx context.Context, f CategoryFilter) ([]*types.Tag, error)
	TrendingCategories(ctx context.Context, limit int) ([]*types.Tag, error)
	TemporalCategories(ctx context.Context) ([]*types.Tag, error)
	ListVibes(ctx context.Context, isActive *bool) ([]*types.Tag, error)
	GetTagBySlug(ctx context.Context, kind types.TagKind, slug string) (*types.Tag, error)
}

type catalogService struct {
	db    *gorm.DB
	log   *logger.Logger
	tags  repos.TagRepo
	clock clock.Clock
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, tags repos.TagRepo, clk clock.Clock) CatalogService {
	if clk == nil {
		clk = clock.Real()
	}
	return &catalogService{
		db:    db,
		log:   log.With("service", "CatalogService"),
		tags:  tags,
		clock: clk,
	}
}

// ListCategories stores the current temporal activation before listing, so
// the is_active filter sees up-to-date flags.
func (s *catalogService) ListCategories(ctx context.Context, f CategoryFilter) ([]*types.Tag, error) {
	const op = "Catalog.ListCategories"
	dbc := dbctx.Context{Ctx: ctx}
	deactivated, activated, err := s.tags.SyncTemporal(dbc, s.clock.Now())
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if deactivated > 0 || activated > 0 {
		s.log.Info("temporal categories synced", "deactivated", deactivated, "activated", activated)
	}
	rows, err := s.tags.List(dbc, repos.TagFilter{Kind: types.KindCategory, Type: f.Type, IsActive: f.IsActive})
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return rows, nil
}

func (s *catalogService) TrendingCategories(ctx context.Context, limit int) ([]*types.Tag, error) {
	const op = "Catalog.TrendingCategories"
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	if limit > MaxTrendingLimit {
		limit = MaxTrendingLimit
	}
	rows, err := s.tags.ListTrending(dbctx.Context{Ctx: ctx}, limit)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return rows, nil
}

func (s *catalogService) TemporalCategories(ctx context.Context) ([]*types.Tag, error) {
	const op = "Catalog.TemporalCategories"
	rows, err := s.tags.ListTemporal(dbctx.Context{Ctx: ctx}, s.clock.Now())
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return rows, nil
}

func (s *catalogService) ListVibes(ctx context.Context, isActive *bool) ([]*types.Tag, error) {
	const op = "Catalog.ListVibes"
	rows, err := s.tags.List(dbctx.Context{Ctx: ctx}, repos.TagFilter{Kind: types.KindVibe, IsActive: isActive})
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return rows, nil
}

func (s *catalogService) GetTagBySlug(ctx context.Context, kind types.TagKind, slug string) (*types.Tag, error) {
	const op = "Catalog.GetTagBySlug"
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domainagg.Validation(op, "missing slug")
	}
	tag, err := s.tags.GetBySlug(dbctx.Context{Ctx: ctx}, kind, slug)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if tag == nil {
		return nil, domainagg.NotFound(op, fmt.Sprintf("%s not found: %s", kind, slug))
	}
	return tag, nil
}
