package domain

import (
	"strings"
	"time"
)

// Tier is a named pricing level for a job posting
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierGold    Tier = "gold"
	TierDiamond Tier = "diamond"
)

// DiamondDurationMonths is the only billing duration the diamond tier sells in
const DiamondDurationMonths = 12

// Step identifies one screen of the posting wizard
type Step string

const (
	StepDetails Step = "details"
	StepPhotos  Step = "photos"
	StepPricing Step = "pricing"
	StepReview  Step = "review"
)

// JobDraft is the in-progress job posting being assembled by the wizard
type JobDraft struct {
	Title             string   `json:"title"`
	Location          string   `json:"location"`
	Description       string   `json:"description"`
	DescriptionVI     string   `json:"description_vi"` // Free-text Vietnamese description
	ContactEmail      string   `json:"contact_email"`
	ContactPhone      string   `json:"contact_phone"`
	OwnerName         string   `json:"owner_name"`
	ZaloHandle        string   `json:"zalo_handle"`
	Salary            string   `json:"salary"`
	EmploymentType    string   `json:"employment_type"`
	Requirements      []string `json:"requirements"`
	Specialties       []string `json:"specialties"`
	WeeklyPay         bool     `json:"weekly_pay"`
	HasHousing        bool     `json:"has_housing"`
	NoSupplyDeduction bool     `json:"no_supply_deduction"`
	OwnerWillTrain    bool     `json:"owner_will_train"`
	IsUrgent          bool     `json:"is_urgent"`
}

// HasRequiredFields reports whether the draft carries everything a posting
// cannot be submitted without. Whitespace-only values do not count, matching
// the full validation sweep.
func (d *JobDraft) HasRequiredFields() bool {
	return strings.TrimSpace(d.Title) != "" &&
		strings.TrimSpace(d.Location) != "" &&
		strings.TrimSpace(d.ContactEmail) != "" &&
		strings.TrimSpace(d.Description) != ""
}

// PricingOptions is the monetization selection for a posting
type PricingOptions struct {
	SelectedTier   Tier `json:"selected_tier"`
	DurationMonths int  `json:"duration_months"`
	AutoRenew      bool `json:"auto_renew"`
	IsFirstPost    bool `json:"is_first_post"` // Gates free-tier eligibility
	IsNationwide   bool `json:"is_nationwide"`
}

// CalculatedPrice is derived from PricingOptions and never edited directly
type CalculatedPrice struct {
	OriginalPrice      int64  `json:"original_price"`
	FinalPrice         int64  `json:"final_price"`
	DiscountPercent    int    `json:"discount_percent"`
	CurrencyCode       string `json:"currency_code"`
	OriginalFormatted  string `json:"original_formatted"`
	FinalFormatted     string `json:"final_formatted"`
	IsFreeTrial        bool   `json:"is_free_trial"`
	IsRecurringBilling bool   `json:"is_recurring_billing"`
}

// PhotoUpload references a pending in-memory upload. Handles are never
// serialized; rehydrated states always start with an empty list.
type PhotoUpload struct {
	FileName string `json:"file_name"`
	Size     int64  `json:"size"`
	Data     []byte `json:"-"`
}

// ValidationResult is the outcome of a full-sweep draft check
type ValidationResult struct {
	HasValidJobData bool     `json:"has_valid_job_data"`
	HasValidPricing bool     `json:"has_valid_pricing"`
	Errors          []string `json:"errors"`
}

// UIFlags are transient view-layer signals; submitting and navigating-back
// are always forced false after rehydration
type UIFlags struct {
	Submitting        bool `json:"submitting"`
	NavigatingBack    bool `json:"navigating_back"`
	DebugPanelVisible bool `json:"debug_panel_visible"`
}

// Analytics accumulates wizard instrumentation counters
type Analytics struct {
	StartedAt          time.Time      `json:"started_at"`
	StepCheckpoint     time.Time      `json:"step_checkpoint"`
	StepElapsedMS      map[Step]int64 `json:"step_elapsed_ms"`
	PricingChangeCount int            `json:"pricing_change_count"`
	SubmitAttemptCount int            `json:"submit_attempt_count"`
}

// WizardState is the aggregate root owned by one wizard session
type WizardState struct {
	Draft        JobDraft         `json:"draft"`
	Pricing      PricingOptions   `json:"pricing"`
	Price        CalculatedPrice  `json:"price"`
	PhotoUploads []PhotoUpload    `json:"photo_uploads"`
	CurrentStep  Step             `json:"current_step"`
	Validation   ValidationResult `json:"validation"`
	UI           UIFlags          `json:"ui"`
	Analytics    Analytics        `json:"analytics"`
}

// SubmissionPayload is the flattened posting handed to the creation pipeline
// once validation passes
type SubmissionPayload struct {
	ID                string    `json:"id"`
	OwnerUserID       string    `json:"owner_user_id"`
	Title             string    `json:"title"`
	Location          string    `json:"location"`
	Description       string    `json:"description"`
	DescriptionVI     string    `json:"description_vi"`
	ContactEmail      string    `json:"contact_email"`
	ContactPhone      string    `json:"contact_phone"`
	OwnerName         string    `json:"owner_name"`
	ZaloHandle        string    `json:"zalo_handle"`
	Salary            string    `json:"salary"`
	EmploymentType    string    `json:"employment_type"`
	Requirements      []string  `json:"requirements"`
	Specialties       []string  `json:"specialties"`
	WeeklyPay         bool      `json:"weekly_pay"`
	HasHousing        bool      `json:"has_housing"`
	NoSupplyDeduction bool      `json:"no_supply_deduction"`
	OwnerWillTrain    bool      `json:"owner_will_train"`
	IsUrgent          bool      `json:"is_urgent"`
	IsNationwide      bool      `json:"is_nationwide"`
	Tier              Tier      `json:"tier"`
	DurationMonths    int       `json:"duration_months"`
	AutoRenew         bool      `json:"auto_renew"`
	FinalPrice        int64     `json:"final_price"`
	CurrencyCode      string    `json:"currency_code"`
	SubmittedAt       time.Time `json:"submitted_at"`
}
