package worker

// retry_cron.go
// Background goroutine that periodically drains the alert DLQ and re-enqueues
// failed low stock alert jobs. Uses the circuit breaker state to avoid
// re-feeding jobs to a downed SMTP relay.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shemaparfait19/centurysoapv2/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = time.Minute
	retryBatchSize    = 10
	// MaxAlertAttempts caps delivery tries per alert job; beyond it the
	// job is dropped for good.
	MaxAlertAttempts = 3
)

// StartRetryCron launches a background goroutine that ticks every minute and
// moves retryable DLQ entries back onto the alert queue. It respects the
// context for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, rdb, cb)
			}
		}
	}()
}

func processRetries(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	// If CB is open, skip entirely — the relay is still down
	if cb.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueAlerts
	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty queue or connection trouble; next tick retries
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: unreadable DLQ entry dropped")
			continue
		}

		job, ok := rebuildJob(entry)
		if !ok {
			log.Error().
				Str("job_type", entry.JobType).
				Int("attempts", entry.Attempts).
				Str("reason", entry.Reason).
				Msg("retry_cron: max attempts exceeded, dropping job")
			continue
		}

		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to marshal job")
			continue
		}
		if err := rdb.LPush(ctx, entry.OriginalQueue, encoded).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to re-enqueue job")
			// Put the entry back so it is not lost.
			_ = rdb.LPush(ctx, dlqKey, raw).Err()
			return
		}
		log.Info().
			Str("job_type", entry.JobType).
			Int("attempts", entry.Attempts).
			Msg("retry_cron: job re-enqueued from DLQ")
	}
}

// rebuildJob turns a DLQ entry back into a queue job, keeping the attempt
// count. Returns false when the entry has used up its delivery attempts.
func rebuildJob(entry DLQEntry) (Job, bool) {
	if entry.Attempts >= MaxAlertAttempts {
		return Job{}, false
	}
	return Job{
		Type:     entry.JobType,
		Payload:  entry.Payload,
		Attempts: entry.Attempts,
	}, true
}
