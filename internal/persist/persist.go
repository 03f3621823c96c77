// Package persist mirrors the wizard state to a single named slot in
// durable storage so an interrupted session can resume. Writes are
// fire-and-forget from the store's point of view; reads happen once, at
// session start.
package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/project-nvt/posting-engine/internal/domain"
)

// Port is the storage contract for one snapshot slot
type Port interface {
	// Read returns the stored snapshot, or (nil, nil) when no snapshot exists
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// Encode serializes a state snapshot. Photo uploads carry raw in-memory
// file data and are always persisted as an empty list.
func Encode(state domain.WizardState) ([]byte, error) {
	state.PhotoUploads = []domain.PhotoUpload{}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Decode merges a stored snapshot over a freshly constructed initial state,
// so fields added after the snapshot was written keep their defaults.
// Transient UI flags are forced off and the debug-panel flag keeps the
// fresh state's value: both are session-scoped, not durable.
func Decode(data []byte, fresh domain.WizardState) (domain.WizardState, error) {
	// Unmarshal targets a deep copy: json.Unmarshal writes sibling fields
	// before it hits a type error, and a shared map would leak snapshot
	// residue into both the fallback and the caller's fresh value.
	state := cloneState(fresh)
	if err := json.Unmarshal(data, &state); err != nil {
		return cloneState(fresh), fmt.Errorf("unmarshal snapshot: %w", err)
	}

	state.PhotoUploads = nil
	state.UI.Submitting = false
	state.UI.NavigatingBack = false
	state.UI.DebugPanelVisible = fresh.UI.DebugPanelVisible
	if state.Analytics.StepElapsedMS == nil {
		state.Analytics.StepElapsedMS = map[domain.Step]int64{}
	}
	return state, nil
}

// cloneState deep-copies the slice and map fields so the copy shares no
// storage with the original
func cloneState(s domain.WizardState) domain.WizardState {
	out := s
	out.Draft.Requirements = append([]string(nil), s.Draft.Requirements...)
	out.Draft.Specialties = append([]string(nil), s.Draft.Specialties...)
	out.PhotoUploads = append([]domain.PhotoUpload(nil), s.PhotoUploads...)
	out.Validation.Errors = append([]string(nil), s.Validation.Errors...)
	if s.Analytics.StepElapsedMS != nil {
		elapsed := make(map[domain.Step]int64, len(s.Analytics.StepElapsedMS))
		for k, v := range s.Analytics.StepElapsedMS {
			elapsed[k] = v
		}
		out.Analytics.StepElapsedMS = elapsed
	}
	return out
}
