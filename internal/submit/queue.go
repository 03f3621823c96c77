package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/project-nvt/posting-engine/internal/domain"
)

// Publisher pushes submitted postings onto the creation queue
type Publisher struct {
	client    *redis.Client
	queueName string
}

// NewPublisher creates a queue publisher
func NewPublisher(client *redis.Client, queueName string) *Publisher {
	if queueName == "" {
		queueName = "postings:submitted"
	}
	return &Publisher{
		client:    client,
		queueName: queueName,
	}
}

// Publish pushes a single posting onto the queue
func (p *Publisher) Publish(ctx context.Context, payload *domain.SubmissionPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	if err := p.client.LPush(ctx, p.queueName, data).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}

	return nil
}

// QueueLength returns the current queue depth
func (p *Publisher) QueueLength(ctx context.Context) (int64, error) {
	return p.client.LLen(ctx, p.queueName).Result()
}

// Consumer consumes submitted postings from the creation queue
type Consumer struct {
	client    *redis.Client
	queueName string
	timeout   time.Duration
}

// NewConsumer creates a queue consumer
func NewConsumer(client *redis.Client, queueName string, timeout time.Duration) *Consumer {
	if queueName == "" {
		queueName = "postings:submitted"
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Consumer{
		client:    client,
		queueName: queueName,
		timeout:   timeout,
	}
}

// Consume blocks for one posting. Returns nil, nil on timeout.
func (c *Consumer) Consume(ctx context.Context) (*domain.SubmissionPayload, error) {
	result, err := c.client.BRPop(ctx, c.timeout, c.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("brpop: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var payload domain.SubmissionPayload
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	return &payload, nil
}

// ConsumeBatch consumes up to maxBatch postings. BRPOP for the first item
// keeps the loop from spinning; RPOP fills the rest of the batch.
func (c *Consumer) ConsumeBatch(ctx context.Context, maxBatch int) ([]*domain.SubmissionPayload, error) {
	payloads := make([]*domain.SubmissionPayload, 0, maxBatch)

	result, err := c.client.BRPop(ctx, c.timeout, c.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return payloads, nil
		}
		return nil, fmt.Errorf("brpop: %w", err)
	}

	if len(result) >= 2 {
		var payload domain.SubmissionPayload
		if err := json.Unmarshal([]byte(result[1]), &payload); err == nil {
			payloads = append(payloads, &payload)
		} else {
			log.Printf("skip malformed payload: %v", err)
		}
	}

	for i := 1; i < maxBatch; i++ {
		result, err := c.client.RPop(ctx, c.queueName).Result()
		if err != nil {
			if err == redis.Nil {
				break
			}
			return payloads, fmt.Errorf("rpop: %w", err)
		}

		var payload domain.SubmissionPayload
		if err := json.Unmarshal([]byte(result), &payload); err != nil {
			log.Printf("skip malformed payload: %v", err)
			continue
		}

		payloads = append(payloads, &payload)
	}

	return payloads, nil
}
