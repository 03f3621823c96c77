package submit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/project-nvt/posting-engine/internal/domain"
	"github.com/project-nvt/posting-engine/internal/wizard"
)

// ErrValidationFailed is returned when the draft does not pass the
// full-sweep validation; the messages live in the wizard state
var ErrValidationFailed = errors.New("posting failed validation")

// Creator accepts a finished posting. Satisfied by *Publisher; tests supply
// an in-memory fake.
type Creator interface {
	Publish(ctx context.Context, payload *domain.SubmissionPayload) error
}

// Service drives a wizard session through submission: validate, flag the
// session as submitting, assemble the payload, hand it to the creator, and
// report the outcome back into the session.
type Service struct {
	store     *wizard.Store
	creator   Creator
	sanitizer *Sanitizer
	clock     func() time.Time
}

// NewService creates a submission service for one wizard session
func NewService(store *wizard.Store, creator Creator) *Service {
	return &Service{
		store:     store,
		creator:   creator,
		sanitizer: NewSanitizer(),
		clock:     time.Now,
	}
}

// Submit attempts to create the posting for the session's current draft.
// On validation failure it returns ErrValidationFailed without touching the
// creator; on creator failure the session keeps its draft and surfaces the
// error so the owner can retry.
func (s *Service) Submit(ctx context.Context, ownerUserID string) (*domain.SubmissionPayload, error) {
	state := s.store.Dispatch(wizard.ValidateForm{})
	if !state.Validation.HasValidJobData || !state.Validation.HasValidPricing {
		return nil, ErrValidationFailed
	}

	state = s.store.Dispatch(wizard.StartSubmission{})
	payload := BuildPayload(s.sanitizer, state, ownerUserID, s.clock())

	if err := s.creator.Publish(ctx, payload); err != nil {
		s.store.Dispatch(wizard.SubmissionFailure{Message: "Could not submit posting, please try again"})
		return nil, fmt.Errorf("publish posting: %w", err)
	}

	s.store.Dispatch(wizard.SubmissionSuccess{})
	return payload, nil
}
