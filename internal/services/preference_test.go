package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/vibemix-backend/internal/data/repos/testutil"
	types "github.com/yungbote/vibemix-backend/internal/domain"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
)

func floatPtr(v float64) *float64 { return &v }

func TestPreferenceValidationHappensBeforeStore(t *testing.T) {
	// Nil repos: any store access would panic.
	svc := NewPreferenceService(nil, testutil.Logger(t), nil, nil, nil)
	user := uuid.New()

	cases := []struct {
		name string
		in   SetPreferenceInput
	}{
		{"weight_above_range", SetPreferenceInput{TagID: uuid.New(), Weight: floatPtr(100.5)}},
		{"weight_below_range", SetPreferenceInput{TagID: uuid.New(), Weight: floatPtr(-1)}},
		{"missing_tag", SetPreferenceInput{Weight: floatPtr(10)}},
		{"nothing_to_update", SetPreferenceInput{TagID: uuid.New()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Set(t.Context(), user, tc.in); !domainagg.IsCode(err, domainagg.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestPreferenceSetKeepsUnsetFields(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewPreferenceService(env.db, env.log, env.tags, env.prefs, env.clock)
	user := uuid.New()
	cat := testutil.SeedCategory(t, env.ctx, env.db, "gezi")

	row, err := svc.Set(env.ctx, user, SetPreferenceInput{TagID: cat.ID, Weight: floatPtr(75)})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if row.Weight != 75 || row.IsBlocked || row.Kind != types.KindCategory {
		t.Fatalf("created row: %+v", row)
	}
	if !row.UpdatedAt.Equal(env.clock.Now()) {
		t.Fatalf("updated_at should come from the service clock: %v", row.UpdatedAt)
	}

	row, err = svc.Block(env.ctx, user, cat.ID)
	if err != nil {
		t.Fatalf("Block: %v", err)
	}
	if !row.IsBlocked || row.Weight != 75 {
		t.Fatalf("block must keep the weight: %+v", row)
	}

	row, err = svc.Unblock(env.ctx, user, cat.ID)
	if err != nil {
		t.Fatalf("Unblock: %v", err)
	}
	if row.IsBlocked || row.Weight != 75 {
		t.Fatalf("unblocked row: %+v", row)
	}

	if _, err := svc.Set(env.ctx, user, SetPreferenceInput{TagID: uuid.New(), Weight: floatPtr(1)}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown tag: %v", err)
	}
}

func TestPreferenceSetBulkIsAllOrNothing(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewPreferenceService(env.db, env.log, env.tags, env.prefs, env.clock)
	user := uuid.New()
	a := testutil.SeedCategory(t, env.ctx, env.db, "spor")
	b := testutil.SeedVibe(t, env.ctx, env.db, "fun")

	_, err := svc.SetBulk(env.ctx, user, []SetPreferenceInput{
		{TagID: a.ID, Weight: floatPtr(40)},
		{TagID: uuid.New(), Weight: floatPtr(40)},
	})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("bulk with unknown tag: %v", err)
	}
	rows, err := svc.List(env.ctx, user, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("failed bulk must not persist anything: %d rows", len(rows))
	}

	if _, err := svc.SetBulk(env.ctx, user, []SetPreferenceInput{
		{TagID: a.ID, Weight: floatPtr(40)},
		{TagID: a.ID, Weight: floatPtr(50)},
	}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("duplicate tag in bulk: %v", err)
	}

	blocked := true
	out, err := svc.SetBulk(env.ctx, user, []SetPreferenceInput{
		{TagID: a.ID, Weight: floatPtr(40)},
		{TagID: b.ID, IsBlocked: &blocked},
	})
	if err != nil {
		t.Fatalf("SetBulk: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("bulk result: %d", len(out))
	}

	vibe := types.KindVibe
	rows, err = svc.List(env.ctx, user, &vibe)
	if err != nil {
		t.Fatalf("List vibes: %v", err)
	}
	if len(rows) != 1 || rows[0].TagID != b.ID || !rows[0].IsBlocked {
		t.Fatalf("vibe prefs: %+v", rows)
	}
}
