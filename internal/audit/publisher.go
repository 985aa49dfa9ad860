// Package audit captures authentication attempts as events on a Redis
// stream and persists them asynchronously. The pipeline is
// fire-and-forget: audit failures never affect the request that
// produced them.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradegate/tradegate/internal/metrics"
)

const (
	// StreamKey is the Redis stream for auth events.
	StreamKey = "stream:auth_events"

	// DeadLetterStreamKey is the Redis stream for poison messages.
	DeadLetterStreamKey = "stream:auth_events:dlq"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000

	// PublishTimeout is the max time to wait for Redis publish.
	PublishTimeout = 100 * time.Millisecond
)

// EventPayload is the compressed event format for the Redis stream.
type EventPayload struct {
	Kind      string `json:"k"`  // register | login | reset
	Outcome   string `json:"o"`  // success | rejected | conflict | upstream_error | unavailable
	EmailHash string `json:"eh"` // privacy-safe subject hash
	At        int64  `json:"t"`  // Unix milliseconds
}

// Publisher enqueues auth events to the Redis stream.
type Publisher struct {
	redis   *redis.Client
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewPublisher creates a new audit event publisher.
func NewPublisher(client *redis.Client, logger *slog.Logger, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Publisher{
		redis:   client,
		logger:  logger.With("component", "audit.publisher"),
		metrics: recorder,
	}
}

// Publish adds an auth event to the stream synchronously.
func (p *Publisher) Publish(ctx context.Context, event EventPayload) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true, // ~MAXLEN for performance
		ID:     "*",  // Auto-generate ID
		Values: map[string]interface{}{
			"payload": string(data),
		},
	}).Result()

	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	return result, nil
}

// PublishAsync publishes without blocking the caller.
// Errors are logged but not returned (fire-and-forget).
func (p *Publisher) PublishAsync(event EventPayload) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		streamID, err := p.Publish(ctx, event)
		if err != nil {
			p.logger.Warn("failed to publish auth event",
				"kind", event.Kind,
				"outcome", event.Outcome,
				"error", err,
			)
			p.metrics.IncAuditEventPublished("dropped")
			return
		}

		p.logger.Debug("auth event published",
			"kind", event.Kind,
			"outcome", event.Outcome,
			"stream_id", streamID,
		)
		p.metrics.IncAuditEventPublished("success")
	}()
}

// HashEmail creates a privacy-safe subject identifier.
// Uses SHA256(email + daily_salt) truncated to 16 hex chars; the salt
// rotates at midnight UTC so hashes cannot be joined across days.
func HashEmail(email string, at time.Time) string {
	dailySalt := fmt.Sprintf("tradegate:%s", at.UTC().Format("2006-01-02"))

	hash := sha256.Sum256([]byte(email + dailySalt))
	return hex.EncodeToString(hash[:])[:16]
}
