package persist

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/project-nvt/posting-engine/internal/domain"
)

func sampleState() domain.WizardState {
	return domain.WizardState{
		Draft: domain.JobDraft{
			Title:        "Nail Tech",
			Location:     "Westminster, CA",
			ContactEmail: "owner@salon.com",
			Description:  "Full-time position, busy shop",
			Requirements: []string{"2 years experience"},
			Specialties:  []string{"acrylic", "dip powder"},
		},
		Pricing: domain.PricingOptions{
			SelectedTier:   domain.TierGold,
			DurationMonths: 6,
			AutoRenew:      true,
		},
		Price: domain.CalculatedPrice{
			OriginalPrice:   2700000,
			FinalPrice:      2160000,
			DiscountPercent: 20,
			CurrencyCode:    "VND",
		},
		PhotoUploads: []domain.PhotoUpload{
			{FileName: "salon.jpg", Size: 1024, Data: []byte{0xff, 0xd8}},
		},
		CurrentStep: domain.StepPricing,
		UI: domain.UIFlags{
			Submitting:     true,
			NavigatingBack: true,
		},
		Analytics: domain.Analytics{
			StartedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			StepCheckpoint: time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC),
			StepElapsedMS:  map[domain.Step]int64{domain.StepDetails: 90000},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	state := sampleState()

	data, err := Encode(state)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	fresh := domain.WizardState{
		Pricing:   domain.PricingOptions{SelectedTier: domain.TierPremium, DurationMonths: 1},
		Analytics: domain.Analytics{StepElapsedMS: map[domain.Step]int64{}},
	}
	got, err := Decode(data, fresh)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !reflect.DeepEqual(got.Draft, state.Draft) {
		t.Errorf("draft changed across round trip:\ngot  %+v\nwant %+v", got.Draft, state.Draft)
	}
	if got.Pricing != state.Pricing {
		t.Errorf("pricing changed across round trip: got %+v, want %+v", got.Pricing, state.Pricing)
	}
	if got.Price != state.Price {
		t.Errorf("price changed across round trip: got %+v, want %+v", got.Price, state.Price)
	}
	if got.CurrentStep != state.CurrentStep {
		t.Errorf("step = %q, want %q", got.CurrentStep, state.CurrentStep)
	}
}

func TestUploadsNeverSurviveRehydration(t *testing.T) {
	data, err := Encode(sampleState())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data, domain.WizardState{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.PhotoUploads) != 0 {
		t.Errorf("photo uploads must be empty after rehydration, got %d", len(got.PhotoUploads))
	}
}

func TestTransientFlagsResetOnRehydration(t *testing.T) {
	data, err := Encode(sampleState())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	fresh := domain.WizardState{UI: domain.UIFlags{DebugPanelVisible: true}}
	got, err := Decode(data, fresh)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.UI.Submitting {
		t.Error("submitting flag must reset to false")
	}
	if got.UI.NavigatingBack {
		t.Error("navigating-back flag must reset to false")
	}
	if !got.UI.DebugPanelVisible {
		t.Error("debug-panel flag must come from the fresh state, not the snapshot")
	}
}

func TestCorruptSnapshotFallsBackToFresh(t *testing.T) {
	fresh := domain.WizardState{
		Pricing:     domain.PricingOptions{SelectedTier: domain.TierPremium, DurationMonths: 1},
		CurrentStep: domain.StepDetails,
	}

	for _, data := range [][]byte{
		[]byte("not json at all"),
		[]byte(`{"draft": {"title": "truncat`),
		[]byte(`[1, 2, 3]`),
	} {
		got, err := Decode(data, fresh)
		if err == nil {
			t.Errorf("Decode(%q) should report an error", data)
		}
		if !reflect.DeepEqual(got, fresh) {
			t.Errorf("corrupt snapshot should yield the fresh state, got %+v", got)
		}
	}
}

func TestTypeErrorSnapshotLeavesFreshStateUntouched(t *testing.T) {
	// json.Unmarshal fills sibling fields before it reports a type error;
	// neither the fallback nor the caller's fresh value may carry that
	// partial data.
	data := []byte(`{"analytics":{"step_elapsed_ms":{"pricing":99999}},"draft":[1,2]}`)

	fresh := domain.WizardState{
		Pricing:   domain.PricingOptions{SelectedTier: domain.TierPremium, DurationMonths: 1},
		Analytics: domain.Analytics{StepElapsedMS: map[domain.Step]int64{}},
	}

	got, err := Decode(data, fresh)
	if err == nil {
		t.Fatal("wrong-type snapshot should report an error")
	}
	if ms := got.Analytics.StepElapsedMS[domain.StepPricing]; ms != 0 {
		t.Errorf("fallback state carries %dms from the bad snapshot, want 0", ms)
	}
	if ms := fresh.Analytics.StepElapsedMS[domain.StepPricing]; ms != 0 {
		t.Errorf("caller's fresh state carries %dms from the bad snapshot, want 0", ms)
	}
	if got.Draft.Title != "" || got.Pricing != fresh.Pricing {
		t.Errorf("fallback state is not fresh: %+v", got)
	}
}

func TestOlderSnapshotKeepsNewDefaults(t *testing.T) {
	// A snapshot from before a field existed leaves the fresh state's value
	// in place for that field.
	old := []byte(`{"draft": {"title": "Nail Tech"}}`)

	fresh := domain.WizardState{
		Pricing: domain.PricingOptions{SelectedTier: domain.TierPremium, DurationMonths: 1, AutoRenew: true},
	}
	got, err := Decode(old, fresh)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.Draft.Title != "Nail Tech" {
		t.Errorf("title = %q, want %q", got.Draft.Title, "Nail Tech")
	}
	if got.Pricing != fresh.Pricing {
		t.Errorf("pricing should keep fresh defaults, got %+v", got.Pricing)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read empty: %v", err)
	}
	if data != nil {
		t.Errorf("empty store should read nil, got %q", data)
	}

	if err := store.Write(ctx, []byte("snapshot")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err = store.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "snapshot" {
		t.Errorf("Read = %q, want %q", data, "snapshot")
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	data, err = store.Read(ctx)
	if err != nil {
		t.Fatalf("Read after clear: %v", err)
	}
	if data != nil {
		t.Errorf("cleared store should read nil, got %q", data)
	}
}
