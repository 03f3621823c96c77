// Package validation is the authoritative full-sweep check run before a
// posting is submitted. The reducer tracks a cheap has-required-fields flag
// on every edit; this package produces the definitive result plus one
// human-readable message per violated rule, job-data rules first, pricing
// rules second, in a stable order.
package validation

import (
	"strings"

	"github.com/project-nvt/posting-engine/internal/domain"
)

// Messages surfaced to the posting owner. Order of appearance in Validate
// is part of the contract.
const (
	MsgTitleRequired       = "Job title is required"
	MsgLocationRequired    = "Location is required"
	MsgContactEmailInvalid = "A valid contact email is required"
	MsgDescriptionRequired = "Job description is required"
	MsgDurationInvalid     = "Posting duration must be at least 1 month"
	MsgDiamondAnnualOnly   = "Diamond tier is billed annually (12 months)"
	MsgFreeTierFirstPost   = "Free tier is only available on your first post"
)

// Validate checks the draft and pricing selection independently and returns
// the aggregate result
func Validate(draft domain.JobDraft, opts domain.PricingOptions) domain.ValidationResult {
	var errs []string

	if strings.TrimSpace(draft.Title) == "" {
		errs = append(errs, MsgTitleRequired)
	}
	if strings.TrimSpace(draft.Location) == "" {
		errs = append(errs, MsgLocationRequired)
	}
	if !validEmail(draft.ContactEmail) {
		errs = append(errs, MsgContactEmailInvalid)
	}
	if strings.TrimSpace(draft.Description) == "" {
		errs = append(errs, MsgDescriptionRequired)
	}
	jobDataErrors := len(errs)

	if opts.DurationMonths < 1 {
		errs = append(errs, MsgDurationInvalid)
	}
	// The reducer forces diamond selections to 12 months; this guards
	// rehydrated or hand-built states that bypassed it.
	if opts.SelectedTier == domain.TierDiamond && opts.DurationMonths != domain.DiamondDurationMonths {
		errs = append(errs, MsgDiamondAnnualOnly)
	}
	if opts.SelectedTier == domain.TierFree && !opts.IsFirstPost {
		errs = append(errs, MsgFreeTierFirstPost)
	}

	return domain.ValidationResult{
		HasValidJobData: jobDataErrors == 0,
		HasValidPricing: len(errs) == jobDataErrors,
		Errors:          errs,
	}
}

// validEmail is intentionally loose: non-empty, one "@" with characters on
// both sides and a dot in the domain part
func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domainPart := s[at+1:]
	return strings.Contains(domainPart, ".") && !strings.HasPrefix(domainPart, ".") && !strings.HasSuffix(domainPart, ".")
}
