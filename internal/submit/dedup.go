package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/project-nvt/posting-engine/internal/domain"
)

// Deduplicator guards against the same posting being created twice, e.g. a
// double-clicked submit button or a retried queue delivery
type Deduplicator struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

// NewDeduplicator creates a Redis-backed submission guard
func NewDeduplicator(client *redis.Client, prefix string, defaultTTL time.Duration) *Deduplicator {
	if prefix == "" {
		prefix = "postings:seen"
	}
	if defaultTTL == 0 {
		defaultTTL = 30 * 24 * time.Hour
	}
	return &Deduplicator{
		client:     client,
		prefix:     prefix,
		defaultTTL: defaultTTL,
	}
}

// Seen reports whether this posting ID has already been processed
func (d *Deduplicator) Seen(ctx context.Context, payloadID string) (bool, error) {
	_, err := d.client.Get(ctx, d.makeKey(payloadID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	return true, nil
}

// Mark records a processed posting. The marker lives as long as the paid
// duration so an expired-and-reposted job is not treated as a duplicate.
func (d *Deduplicator) Mark(ctx context.Context, payload *domain.SubmissionPayload) error {
	ttl := d.defaultTTL
	if payload.DurationMonths > 0 {
		ttl = time.Duration(payload.DurationMonths) * 30 * 24 * time.Hour
	}

	key := d.makeKey(payload.ID)
	if err := d.client.Set(ctx, key, payload.SubmittedAt.Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (d *Deduplicator) makeKey(payloadID string) string {
	return fmt.Sprintf("%s:%s", d.prefix, payloadID)
}
