package worker

// alert_worker.go
// Processes low stock alert jobs from QueueAlerts.
// Emails the shop owner when a size drops below the restock threshold,
// going through the circuit breaker so a downed SMTP relay is not hammered.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shemaparfait19/centurysoapv2/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AlertWorker processes low stock alert jobs from QueueAlerts.
type AlertWorker struct {
	mailer  *infra.Mailer
	cb      *infra.CircuitBreaker
	rdb     *redis.Client
	alertTo string
}

// NewAlertWorker creates an AlertWorker with the provided SMTP mailer.
func NewAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client, alertTo string) *AlertWorker {
	return &AlertWorker{mailer: mailer, cb: cb, rdb: rdb, alertTo: alertTo}
}

// Process sends the low stock email. Jobs that cannot be delivered go to
// the DLQ instead of being silently dropped; the retry sweep re-enqueues
// them with attempts incremented.
func (w *AlertWorker) Process(ctx context.Context, raw json.RawMessage, attempts int) {
	var payload LowStockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return
	}
	if w.alertTo == "" {
		log.Warn().Msg("alert_worker: no alert recipient configured — skipping")
		return
	}

	subject := fmt.Sprintf("Low stock: %s (%s)", payload.Product, payload.Size)
	body := fmt.Sprintf(
		"Stock for %s (%s) is down to %d units. Time to restock.",
		payload.Product, payload.Size, payload.Stock,
	)

	err := w.cb.Execute(func() error {
		return w.mailer.Send(w.alertTo, subject, body)
	})
	if err != nil {
		log.Error().Err(err).
			Str("product", payload.Product).
			Str("size", payload.Size).
			Msg("alert_worker: failed to send low stock email")
		SendToDLQ(ctx, w.rdb, QueueAlerts, "low_stock_alert", raw, err.Error(), attempts+1)
		return
	}
	log.Info().
		Str("product", payload.Product).
		Str("size", payload.Size).
		Int("stock", payload.Stock).
		Msg("alert_worker: low stock alert sent")
}
