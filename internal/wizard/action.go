package wizard

import "github.com/project-nvt/posting-engine/internal/domain"

// Action is the closed set of wizard transitions. Each variant carries its
// own statically-known payload; the reducer matches exhaustively and treats
// anything outside this set as a no-op.
type Action interface {
	// Name is the stable tag reported to telemetry
	Name() string
	isAction()
}

// JobDraftPatch is a partial JobDraft update; nil fields are left untouched
type JobDraftPatch struct {
	Title             *string
	Location          *string
	Description       *string
	DescriptionVI     *string
	ContactEmail      *string
	ContactPhone      *string
	OwnerName         *string
	ZaloHandle        *string
	Salary            *string
	EmploymentType    *string
	Requirements      []string
	Specialties       []string
	WeeklyPay         *bool
	HasHousing        *bool
	NoSupplyDeduction *bool
	OwnerWillTrain    *bool
	IsUrgent          *bool
}

func (p JobDraftPatch) apply(d *domain.JobDraft) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Location != nil {
		d.Location = *p.Location
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.DescriptionVI != nil {
		d.DescriptionVI = *p.DescriptionVI
	}
	if p.ContactEmail != nil {
		d.ContactEmail = *p.ContactEmail
	}
	if p.ContactPhone != nil {
		d.ContactPhone = *p.ContactPhone
	}
	if p.OwnerName != nil {
		d.OwnerName = *p.OwnerName
	}
	if p.ZaloHandle != nil {
		d.ZaloHandle = *p.ZaloHandle
	}
	if p.Salary != nil {
		d.Salary = *p.Salary
	}
	if p.EmploymentType != nil {
		d.EmploymentType = *p.EmploymentType
	}
	if p.Requirements != nil {
		d.Requirements = append([]string(nil), p.Requirements...)
	}
	if p.Specialties != nil {
		d.Specialties = append([]string(nil), p.Specialties...)
	}
	if p.WeeklyPay != nil {
		d.WeeklyPay = *p.WeeklyPay
	}
	if p.HasHousing != nil {
		d.HasHousing = *p.HasHousing
	}
	if p.NoSupplyDeduction != nil {
		d.NoSupplyDeduction = *p.NoSupplyDeduction
	}
	if p.OwnerWillTrain != nil {
		d.OwnerWillTrain = *p.OwnerWillTrain
	}
	if p.IsUrgent != nil {
		d.IsUrgent = *p.IsUrgent
	}
}

// PricingPatch is a partial PricingOptions update; nil fields keep their
// current value
type PricingPatch struct {
	SelectedTier   *domain.Tier
	DurationMonths *int
	AutoRenew      *bool
	IsFirstPost    *bool
	IsNationwide   *bool
}

func (p PricingPatch) apply(o *domain.PricingOptions) {
	if p.SelectedTier != nil {
		o.SelectedTier = *p.SelectedTier
	}
	if p.DurationMonths != nil {
		o.DurationMonths = *p.DurationMonths
	}
	if p.AutoRenew != nil {
		o.AutoRenew = *p.AutoRenew
	}
	if p.IsFirstPost != nil {
		o.IsFirstPost = *p.IsFirstPost
	}
	if p.IsNationwide != nil {
		o.IsNationwide = *p.IsNationwide
	}
}

// UpdateJobData shallow-merges a patch into the draft
type UpdateJobData struct {
	Patch JobDraftPatch
}

// UpdatePricingOptions shallow-merges a patch into the pricing selection and
// recomputes the price
type UpdatePricingOptions struct {
	Patch PricingPatch
}

// SetPhotoUploads replaces the pending upload list wholesale
type SetPhotoUploads struct {
	Uploads []domain.PhotoUpload
}

// SetStep moves the wizard to another step
type SetStep struct {
	Step domain.Step
}

// ValidateForm runs the authoritative full-sweep validation
type ValidateForm struct{}

// StartSubmission marks the form as submitting
type StartSubmission struct{}

// SubmissionSuccess clears the submitting flag; resetting is a separate action
type SubmissionSuccess struct{}

// SubmissionFailure clears the submitting flag and surfaces the failure
type SubmissionFailure struct {
	Message string
}

// NavigateBack signals the view layer to navigate away; the core itself has
// no navigation capability
type NavigateBack struct{}

// ToggleDebugPanel flips debug-panel visibility
type ToggleDebugPanel struct{}

// ResetForm discards the session and starts over. DebugPanelVisible is
// resolved from the feature-flag provider by the dispatch wrapper before the
// reducer sees the action.
type ResetForm struct {
	DebugPanelVisible bool
}

func (UpdateJobData) Name() string        { return "update_job_data" }
func (UpdatePricingOptions) Name() string { return "update_pricing_options" }
func (SetPhotoUploads) Name() string      { return "set_photo_uploads" }
func (SetStep) Name() string              { return "set_step" }
func (ValidateForm) Name() string         { return "validate_form" }
func (StartSubmission) Name() string      { return "start_submission" }
func (SubmissionSuccess) Name() string    { return "submission_success" }
func (SubmissionFailure) Name() string    { return "submission_failure" }
func (NavigateBack) Name() string         { return "navigate_back" }
func (ToggleDebugPanel) Name() string     { return "toggle_debug_panel" }
func (ResetForm) Name() string            { return "reset_form" }

func (UpdateJobData) isAction()        {}
func (UpdatePricingOptions) isAction() {}
func (SetPhotoUploads) isAction()      {}
func (SetStep) isAction()              {}
func (ValidateForm) isAction()         {}
func (StartSubmission) isAction()      {}
func (SubmissionSuccess) isAction()    {}
func (SubmissionFailure) isAction()    {}
func (NavigateBack) isAction()         {}
func (ToggleDebugPanel) isAction()     {}
func (ResetForm) isAction()            {}
