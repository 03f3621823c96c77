// Package submit turns a validated wizard draft into a posting and moves it
// through the creation pipeline: payload assembly, sanitization, queueing,
// and a double-submit guard.
package submit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/project-nvt/posting-engine/internal/domain"
)

// BuildPayload flattens a validated draft plus its pricing selection into
// the posting handed to the creation pipeline. Caller is responsible for
// running validation first; this function only assembles and cleans.
func BuildPayload(san *Sanitizer, state domain.WizardState, ownerUserID string, now time.Time) *domain.SubmissionPayload {
	draft := state.Draft
	opts := state.Pricing

	p := &domain.SubmissionPayload{
		ID:                payloadID(ownerUserID, draft.Title, draft.Location),
		OwnerUserID:       ownerUserID,
		Title:             san.Plain(draft.Title),
		Location:          san.Plain(draft.Location),
		Description:       san.Description(draft.Description),
		DescriptionVI:     san.Description(draft.DescriptionVI),
		ContactEmail:      strings.TrimSpace(draft.ContactEmail),
		ContactPhone:      strings.TrimSpace(draft.ContactPhone),
		OwnerName:         san.Plain(draft.OwnerName),
		ZaloHandle:        strings.TrimSpace(draft.ZaloHandle),
		Salary:            san.Plain(draft.Salary),
		EmploymentType:    san.Plain(draft.EmploymentType),
		Requirements:      san.PlainList(draft.Requirements),
		Specialties:       san.PlainList(draft.Specialties),
		WeeklyPay:         draft.WeeklyPay,
		HasHousing:        draft.HasHousing,
		NoSupplyDeduction: draft.NoSupplyDeduction,
		OwnerWillTrain:    draft.OwnerWillTrain,
		IsUrgent:          draft.IsUrgent,
		IsNationwide:      opts.IsNationwide,
		Tier:              opts.SelectedTier,
		DurationMonths:    opts.DurationMonths,
		AutoRenew:         opts.AutoRenew,
		FinalPrice:        state.Price.FinalPrice,
		CurrencyCode:      state.Price.CurrencyCode,
		SubmittedAt:       now.UTC(),
	}
	return p
}

// payloadID derives a stable posting ID from the owner and the fields that
// identify a posting. Resubmitting the same draft produces the same ID, so
// the dedup guard and the upsert indexers collapse double submits.
func payloadID(ownerUserID, title, location string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s",
		ownerUserID,
		strings.ToLower(strings.TrimSpace(title)),
		strings.ToLower(strings.TrimSpace(location)),
	)))
	return hex.EncodeToString(h[:16])
}
