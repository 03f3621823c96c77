package wizard

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"sync"
	"time"

	"github.com/project-nvt/posting-engine/internal/domain"
	"github.com/project-nvt/posting-engine/internal/flags"
	"github.com/project-nvt/posting-engine/internal/persist"
	"github.com/project-nvt/posting-engine/internal/pricing"
	"github.com/project-nvt/posting-engine/internal/telemetry"
)

// Event types reported to the telemetry sink
const (
	EventAction      = "wizard_action"
	EventFieldChange = "wizard_field_change"
)

// Store owns one wizard session. All transitions go through Dispatch, which
// wraps the pure reducer with panic recovery, telemetry, subscriber
// notification and fire-and-forget snapshot mirroring.
type Store struct {
	mu          sync.Mutex
	calc        *pricing.Calculator
	state       domain.WizardState
	snapshots   persist.Port
	events      telemetry.Sink
	errors      telemetry.ErrorSink
	flags       flags.Provider
	clock       func() time.Time
	subscribers []func(domain.WizardState)

	rehydrationErr error

	// Snapshot writes happen off the dispatch goroutine; the sequence guard
	// keeps a slow stale write from clobbering a newer one.
	persistWG   sync.WaitGroup
	persistMu   sync.Mutex
	persistSeq  uint64
	persistDone uint64
}

// Options configures a Store. Nil fields get working defaults so tests can
// set only what they exercise.
type Options struct {
	Calculator *pricing.Calculator
	Snapshots  persist.Port
	Events     telemetry.Sink
	Errors     telemetry.ErrorSink
	Flags      flags.Provider
	Clock      func() time.Time
}

// NewStore builds a session, rehydrating from the snapshot port when a
// prior snapshot exists. A corrupt or unreadable snapshot is reported and
// replaced with a fresh initial state; it never fails construction.
func NewStore(ctx context.Context, opts Options) *Store {
	if opts.Calculator == nil {
		opts.Calculator = pricing.NewCalculator(nil)
	}
	if opts.Snapshots == nil {
		opts.Snapshots = persist.NewMemoryStore()
	}
	if opts.Events == nil {
		opts.Events = telemetry.NopSink{}
	}
	if opts.Errors == nil {
		opts.Errors = telemetry.NopErrorSink{}
	}
	if opts.Flags == nil {
		opts.Flags = flags.EnvProvider{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	s := &Store{
		calc:      opts.Calculator,
		snapshots: opts.Snapshots,
		events:    opts.Events,
		errors:    opts.Errors,
		flags:     opts.Flags,
		clock:     opts.Clock,
	}

	fresh := NewInitialState(s.calc, s.clock(), s.flags.DebugPanelVisible())
	s.state = fresh

	data, err := s.snapshots.Read(ctx)
	if err != nil {
		s.rehydrationErr = err
		s.errors.Report("wizard.rehydrate", err, nil)
		return s
	}
	if data == nil {
		return s
	}

	state, err := persist.Decode(data, fresh)
	if err != nil {
		s.rehydrationErr = err
		s.errors.Report("wizard.rehydrate", err, map[string]any{"snapshot_bytes": len(data)})
		return s
	}
	s.state = state
	return s
}

// State returns the current snapshot of the session
func (s *Store) State() domain.WizardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastRehydrationError reports whether session start had to fall back to a
// fresh state, so callers can surface a non-blocking notice
func (s *Store) LastRehydrationError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rehydrationErr
}

// Subscribe registers a callback invoked with the new state after every
// dispatch. Callbacks run synchronously on the dispatching goroutine.
func (s *Store) Subscribe(fn func(domain.WizardState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Dispatch applies one action and returns the resulting state. It never
// panics: a transition failure is reported and treated as a no-op.
func (s *Store) Dispatch(action Action) domain.WizardState {
	if action == nil {
		log.Printf("wizard: nil action dispatched, ignoring")
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.state
	}

	// Reset re-derives the debug flag from the provider rather than
	// preserving whatever the session had.
	if _, ok := action.(ResetForm); ok {
		action = ResetForm{DebugPanelVisible: s.flags.DebugPanelVisible()}
	}

	s.mu.Lock()
	old := s.state
	next := s.safeTransition(old, action, s.clock())
	s.state = next
	if _, ok := action.(ResetForm); ok {
		s.rehydrationErr = nil
	}
	subscribers := s.subscribers
	s.persistSeq++
	seq := s.persistSeq
	s.mu.Unlock()

	s.events.Record(EventAction, action.Name(), map[string]any{"step": string(next.CurrentStep)})
	for _, name := range diffState(old, next) {
		s.events.Record(EventFieldChange, name, nil)
	}

	for _, fn := range subscribers {
		fn(next)
	}

	// The persisted copy is destroyed once the posting is created or the
	// session is explicitly reset; everything else mirrors the new state.
	switch action.(type) {
	case ResetForm, SubmissionSuccess:
		s.clearSnapshot(seq)
	default:
		s.writeSnapshot(next, seq)
	}

	return next
}

// Flush blocks until all in-flight snapshot writes have finished. Test and
// shutdown hook; normal dispatch never waits on storage.
func (s *Store) Flush() {
	s.persistWG.Wait()
}

// safeTransition runs the pure reducer under a recover so an unexpected
// panic degrades to a no-op instead of crashing the session
func (s *Store) safeTransition(state domain.WizardState, action Action, now time.Time) (next domain.WizardState) {
	defer func() {
		if r := recover(); r != nil {
			s.errors.Report("wizard.transition", fmt.Errorf("transition panic: %v", r), map[string]any{
				"action": action.Name(),
			})
			next = state
		}
	}()
	return transition(s.calc, state, action, now)
}

// writeSnapshot mirrors the state to durable storage without blocking the
// dispatcher. Failures are reported and dropped; the in-memory state stays
// authoritative for the session.
func (s *Store) writeSnapshot(state domain.WizardState, seq uint64) {
	data, err := persist.Encode(state)
	if err != nil {
		s.errors.Report("wizard.persist", err, nil)
		return
	}

	s.persistWG.Add(1)
	go func() {
		defer s.persistWG.Done()
		s.persistMu.Lock()
		defer s.persistMu.Unlock()
		if seq < s.persistDone {
			return
		}
		s.persistDone = seq

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.snapshots.Write(ctx, data); err != nil {
			s.errors.Report("wizard.persist", err, nil)
		}
	}()
}

func (s *Store) clearSnapshot(seq uint64) {
	s.persistWG.Add(1)
	go func() {
		defer s.persistWG.Done()
		s.persistMu.Lock()
		defer s.persistMu.Unlock()
		if seq < s.persistDone {
			return
		}
		s.persistDone = seq

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.snapshots.Clear(ctx); err != nil {
			s.errors.Report("wizard.persist", err, nil)
		}
	}()
}

// diffState names the top-level state sections that changed, for field-level
// telemetry
func diffState(old, next domain.WizardState) []string {
	var changed []string
	if !reflect.DeepEqual(old.Draft, next.Draft) {
		changed = append(changed, "draft")
	}
	if old.Pricing != next.Pricing {
		changed = append(changed, "pricing")
	}
	if old.Price != next.Price {
		changed = append(changed, "price")
	}
	if !reflect.DeepEqual(old.PhotoUploads, next.PhotoUploads) {
		changed = append(changed, "photo_uploads")
	}
	if old.CurrentStep != next.CurrentStep {
		changed = append(changed, "current_step")
	}
	if !reflect.DeepEqual(old.Validation, next.Validation) {
		changed = append(changed, "validation")
	}
	if old.UI != next.UI {
		changed = append(changed, "ui")
	}
	if !reflect.DeepEqual(old.Analytics, next.Analytics) {
		changed = append(changed, "analytics")
	}
	return changed
}
