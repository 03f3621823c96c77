package telemetry

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event is the wire shape pushed onto the analytics queue
type Event struct {
	EventType  string         `json:"event_type"`
	Name       string         `json:"name"`
	Payload    map[string]any `json:"payload,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// RedisSink pushes events as JSON onto a Redis list for the analytics
// consumer. Push failures are logged and dropped.
type RedisSink struct {
	client    *redis.Client
	queueName string
	timeout   time.Duration
}

// NewRedisSink creates a sink publishing to the given queue
func NewRedisSink(client *redis.Client, queueName string, timeout time.Duration) *RedisSink {
	if queueName == "" {
		queueName = "analytics:events"
	}
	if timeout == 0 {
		timeout = 2 * time.Second
	}
	return &RedisSink{
		client:    client,
		queueName: queueName,
		timeout:   timeout,
	}
}

// Record pushes one event. Fire-and-forget: errors are logged, never returned.
func (s *RedisSink) Record(eventType, name string, payload map[string]any) {
	data, err := json.Marshal(Event{
		EventType:  eventType,
		Name:       name,
		Payload:    payload,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("telemetry marshal: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.LPush(ctx, s.queueName, data).Err(); err != nil {
		log.Printf("telemetry lpush: %v", err)
	}
}
