package wizard

import (
	"time"

	"github.com/project-nvt/posting-engine/internal/domain"
	"github.com/project-nvt/posting-engine/internal/pricing"
	"github.com/project-nvt/posting-engine/internal/validation"
)

// DefaultPricingOptions is the selection every new session starts from
func DefaultPricingOptions() domain.PricingOptions {
	return domain.PricingOptions{
		SelectedTier:   domain.TierPremium,
		DurationMonths: 1,
		AutoRenew:      true,
		IsFirstPost:    true,
		IsNationwide:   false,
	}
}

// NewInitialState builds a fresh session state
func NewInitialState(calc *pricing.Calculator, now time.Time, debugVisible bool) domain.WizardState {
	opts := DefaultPricingOptions()
	return domain.WizardState{
		Draft:        domain.JobDraft{},
		Pricing:      opts,
		Price:        calc.Calculate(opts),
		PhotoUploads: nil,
		CurrentStep:  domain.StepDetails,
		Validation:   domain.ValidationResult{},
		UI:           domain.UIFlags{DebugPanelVisible: debugVisible},
		Analytics: domain.Analytics{
			StartedAt:      now,
			StepCheckpoint: now,
			StepElapsedMS:  map[domain.Step]int64{},
		},
	}
}

// transition computes the next state for one action. Pure and total: it
// never mutates state, never touches I/O, and an action outside the known
// set returns the input unchanged. now is injected so step timing stays
// deterministic under test.
func transition(calc *pricing.Calculator, state domain.WizardState, action Action, now time.Time) domain.WizardState {
	next := cloneState(state)

	switch a := action.(type) {
	case UpdateJobData:
		a.Patch.apply(&next.Draft)
		next.Validation.HasValidJobData = next.Draft.HasRequiredFields()

	case UpdatePricingOptions:
		a.Patch.apply(&next.Pricing)
		// Diamond is annual-only; the constraint lives in the transition so
		// an invalid combination never becomes observable state.
		if next.Pricing.SelectedTier == domain.TierDiamond {
			next.Pricing.DurationMonths = domain.DiamondDurationMonths
		}
		next.Price = calc.Calculate(next.Pricing)
		next.Analytics.PricingChangeCount++

	case SetPhotoUploads:
		next.PhotoUploads = append([]domain.PhotoUpload(nil), a.Uploads...)

	case SetStep:
		elapsed := now.Sub(next.Analytics.StepCheckpoint).Milliseconds()
		if elapsed > 0 {
			next.Analytics.StepElapsedMS[next.CurrentStep] += elapsed
		}
		next.Analytics.StepCheckpoint = now
		next.CurrentStep = a.Step

	case ValidateForm:
		next.Validation = validation.Validate(next.Draft, next.Pricing)

	case StartSubmission:
		next.UI.Submitting = true
		next.Analytics.SubmitAttemptCount++

	case SubmissionSuccess:
		next.UI.Submitting = false

	case SubmissionFailure:
		next.UI.Submitting = false
		next.Validation.Errors = append(next.Validation.Errors, a.Message)

	case NavigateBack:
		next.UI.NavigatingBack = true

	case ToggleDebugPanel:
		next.UI.DebugPanelVisible = !next.UI.DebugPanelVisible

	case ResetForm:
		return NewInitialState(calc, now, a.DebugPanelVisible)

	default:
		return state
	}

	return next
}

// cloneState deep-copies the mutable parts of the state so a transition can
// never alias its input
func cloneState(s domain.WizardState) domain.WizardState {
	next := s
	next.Draft.Requirements = append([]string(nil), s.Draft.Requirements...)
	next.Draft.Specialties = append([]string(nil), s.Draft.Specialties...)
	next.PhotoUploads = append([]domain.PhotoUpload(nil), s.PhotoUploads...)
	next.Validation.Errors = append([]string(nil), s.Validation.Errors...)
	elapsed := make(map[domain.Step]int64, len(s.Analytics.StepElapsedMS))
	for k, v := range s.Analytics.StepElapsedMS {
		elapsed[k] = v
	}
	next.Analytics.StepElapsedMS = elapsed
	return next
}
