package indexer

import (
	"context"

	"github.com/project-nvt/posting-engine/internal/domain"
)

// Indexer is the storage contract for created postings
type Indexer interface {
	// Index writes a single posting
	Index(ctx context.Context, payload *domain.SubmissionPayload) error
	// BulkIndex writes a batch of postings
	BulkIndex(ctx context.Context, payloads []*domain.SubmissionPayload) error
}
