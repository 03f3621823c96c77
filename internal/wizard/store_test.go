package wizard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/project-nvt/posting-engine/internal/domain"
	"github.com/project-nvt/posting-engine/internal/flags"
	"github.com/project-nvt/posting-engine/internal/persist"
	"github.com/project-nvt/posting-engine/internal/pricing"
)

type recordedEvent struct {
	eventType string
	name      string
}

type recordingSink struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingSink) Record(eventType, name string, payload map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{eventType, name})
}

func (r *recordingSink) byType(eventType string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.eventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (r *recordingSink) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type recordingErrorSink struct {
	mu      sync.Mutex
	reports []string
}

func (r *recordingErrorSink) Report(context string, err error, metadata map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, context)
}

func (r *recordingErrorSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestDispatchPersistsSnapshot(t *testing.T) {
	mem := persist.NewMemoryStore()
	store := NewStore(context.Background(), Options{
		Snapshots: mem,
		Clock:     fixedClock(t0),
	})

	store.Dispatch(UpdateJobData{Patch: JobDraftPatch{Title: strp("Nail Tech")}})
	store.Flush()

	data, err := mem.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if data == nil {
		t.Fatal("dispatch should mirror the state to the snapshot port")
	}

	got, err := persist.Decode(data, NewInitialState(pricing.NewCalculator(nil), t0, false))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Draft.Title != "Nail Tech" {
		t.Errorf("persisted title = %q, want %q", got.Draft.Title, "Nail Tech")
	}
}

func TestRehydrationRestoresDraft(t *testing.T) {
	mem := persist.NewMemoryStore()
	ctx := context.Background()

	first := NewStore(ctx, Options{Snapshots: mem, Clock: fixedClock(t0)})
	first.Dispatch(UpdateJobData{Patch: JobDraftPatch{
		Title:        strp("Nail Tech"),
		Location:     strp("Garden Grove, CA"),
		ContactEmail: strp("owner@salon.com"),
		Description:  strp("Busy salon"),
	}})
	first.Dispatch(UpdatePricingOptions{Patch: PricingPatch{SelectedTier: tierp(domain.TierGold)}})
	first.Flush()

	second := NewStore(ctx, Options{Snapshots: mem, Clock: fixedClock(t0.Add(time.Hour))})
	state := second.State()

	if state.Draft.Title != "Nail Tech" {
		t.Errorf("rehydrated title = %q, want %q", state.Draft.Title, "Nail Tech")
	}
	if state.Pricing.SelectedTier != domain.TierGold {
		t.Errorf("rehydrated tier = %q, want gold", state.Pricing.SelectedTier)
	}
	if second.LastRehydrationError() != nil {
		t.Errorf("unexpected rehydration error: %v", second.LastRehydrationError())
	}
}

func TestCorruptSnapshotYieldsFreshStateAndOneReport(t *testing.T) {
	mem := persist.NewMemoryStore()
	mem.Seed([]byte(`{"draft": {"title": "trunc`))
	errs := &recordingErrorSink{}

	store := NewStore(context.Background(), Options{
		Snapshots: mem,
		Errors:    errs,
		Clock:     fixedClock(t0),
	})

	if store.LastRehydrationError() == nil {
		t.Error("corrupt snapshot should surface a rehydration error")
	}
	if errs.count() != 1 {
		t.Errorf("error reports = %d, want 1", errs.count())
	}

	state := store.State()
	if state.Draft.Title != "" {
		t.Errorf("corrupt snapshot should yield a fresh state, got title %q", state.Draft.Title)
	}
	if state.Pricing != DefaultPricingOptions() {
		t.Errorf("fresh state should carry default pricing, got %+v", state.Pricing)
	}
}

func TestDispatchNeverPanics(t *testing.T) {
	errs := &recordingErrorSink{}
	store := NewStore(context.Background(), Options{
		Errors: errs,
		Clock:  fixedClock(t0),
	})
	// A nil calculator makes the pricing branch panic inside the reducer.
	store.calc = nil

	before := store.State()
	after := store.Dispatch(UpdatePricingOptions{Patch: PricingPatch{SelectedTier: tierp(domain.TierGold)}})

	if after.Pricing != before.Pricing {
		t.Errorf("failed transition should be a no-op, pricing changed to %+v", after.Pricing)
	}
	if errs.count() != 1 {
		t.Errorf("error reports = %d, want 1", errs.count())
	}
}

func TestResetClearsSnapshotAndReloadsFlag(t *testing.T) {
	mem := persist.NewMemoryStore()
	ctx := context.Background()

	store := NewStore(ctx, Options{
		Snapshots: mem,
		Flags:     flags.Static{DebugPanel: true},
		Clock:     fixedClock(t0),
	})
	store.Dispatch(UpdateJobData{Patch: JobDraftPatch{Title: strp("Nail Tech")}})
	store.Flush()

	state := store.Dispatch(ResetForm{})
	store.Flush()

	data, err := mem.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if data != nil {
		t.Error("reset should delete the persisted snapshot")
	}
	if state.Draft.Title != "" {
		t.Errorf("reset should clear the draft, got title %q", state.Draft.Title)
	}
	if !state.UI.DebugPanelVisible {
		t.Error("reset should re-derive the debug flag from the provider")
	}
}

func TestSubmissionSuccessClearsSnapshot(t *testing.T) {
	mem := persist.NewMemoryStore()
	ctx := context.Background()

	store := NewStore(ctx, Options{Snapshots: mem, Clock: fixedClock(t0)})
	store.Dispatch(UpdateJobData{Patch: JobDraftPatch{Title: strp("Nail Tech")}})
	store.Flush()

	store.Dispatch(StartSubmission{})
	store.Flush()
	store.Dispatch(SubmissionSuccess{})
	store.Flush()

	data, err := mem.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if data != nil {
		t.Error("successful submission should delete the persisted snapshot")
	}
}

func TestDispatchEmitsTelemetry(t *testing.T) {
	sink := &recordingSink{}
	store := NewStore(context.Background(), Options{
		Events: sink,
		Clock:  fixedClock(t0),
	})

	store.Dispatch(UpdatePricingOptions{Patch: PricingPatch{SelectedTier: tierp(domain.TierGold)}})

	actions := sink.byType(EventAction)
	if len(actions) != 1 || actions[0].name != "update_pricing_options" {
		t.Errorf("action events = %+v, want one update_pricing_options", actions)
	}

	changes := sink.byType(EventFieldChange)
	changed := map[string]bool{}
	for _, e := range changes {
		changed[e.name] = true
	}
	if !changed["pricing"] || !changed["price"] {
		t.Errorf("field-change events %v should include pricing and price", changed)
	}
	if !changed["analytics"] {
		t.Errorf("field-change events %v should include analytics, pricing change count moved", changed)
	}
}

func TestReplacingUploadsEmitsFieldChange(t *testing.T) {
	sink := &recordingSink{}
	store := NewStore(context.Background(), Options{
		Events: sink,
		Clock:  fixedClock(t0),
	})

	store.Dispatch(SetPhotoUploads{Uploads: []domain.PhotoUpload{
		{FileName: "salon.jpg", Size: 1024},
	}})
	sink.reset()

	// Same count, different file: a length compare would miss this.
	store.Dispatch(SetPhotoUploads{Uploads: []domain.PhotoUpload{
		{FileName: "chair.jpg", Size: 2048},
	}})

	changed := map[string]bool{}
	for _, e := range sink.byType(EventFieldChange) {
		changed[e.name] = true
	}
	if !changed["photo_uploads"] {
		t.Errorf("field-change events %v should include photo_uploads", changed)
	}
}

func TestSubscribersSeeEveryDispatch(t *testing.T) {
	store := NewStore(context.Background(), Options{Clock: fixedClock(t0)})

	var seen []domain.Step
	store.Subscribe(func(s domain.WizardState) {
		seen = append(seen, s.CurrentStep)
	})

	store.Dispatch(SetStep{Step: domain.StepPhotos})
	store.Dispatch(SetStep{Step: domain.StepPricing})

	if len(seen) != 2 || seen[0] != domain.StepPhotos || seen[1] != domain.StepPricing {
		t.Errorf("subscriber saw %v, want [photos pricing]", seen)
	}
}
