package worker

// email_worker.go
// Delivers the fiscal invoice PDF to the customer email. All SMTP traffic goes
// through the circuit breaker; a failed delivery leaves the factura in
// email_estado='pendiente' with a scheduled next_retry_at so retry_cron can
// pick it up, and lands in the DLQ once MaxEmailRetries is exceeded.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"edapos/internal/infra"
	"edapos/internal/model"
	"edapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaxEmailRetries bounds delivery attempts before the invoice is flagged
// email_estado='error' and parked in the DLQ.
const MaxEmailRetries = 5

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	FacturaID string `json:"factura_id"`
}

type EmailWorker struct {
	mailer      *infra.Mailer
	cb          *infra.CircuitBreaker
	facturaRepo repository.FacturaRepository
	rdb         *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, facturaRepo repository.FacturaRepository, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb, facturaRepo: facturaRepo, rdb: rdb}
}

// Process delivers the invoice email for a queued job.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	facturaID, err := uuid.Parse(payload.FacturaID)
	if err != nil {
		log.Error().Str("factura_id", payload.FacturaID).Msg("email_worker: invalid factura_id")
		return
	}
	factura, err := w.facturaRepo.FindByID(ctx, facturaID)
	if err != nil {
		log.Error().Err(err).Str("factura_id", payload.FacturaID).Msg("email_worker: factura not found")
		return
	}
	w.Deliver(ctx, factura)
}

// Deliver attempts the SMTP send and updates the delivery state on the row.
// Shared by the queue path and retry_cron.
func (w *EmailWorker) Deliver(ctx context.Context, factura *model.Factura) {
	if factura.ClienteEmail == nil || *factura.ClienteEmail == "" {
		log.Warn().Str("factura_id", factura.ID.String()).Msg("email_worker: no recipient — skipping")
		return
	}
	if factura.EmailEstado == model.EntregaEnviada {
		return
	}
	if factura.PDFPath == nil || *factura.PDFPath == "" {
		// PDF not ready yet — leave pendiente, retry_cron comes back
		w.scheduleRetry(ctx, factura, "PDF todavía no generado")
		return
	}

	to := *factura.ClienteEmail
	subject := fmt.Sprintf("Factura No. %d", factura.NumeroFiscal)
	body := fmt.Sprintf("Adjunto encontrará su factura.\nTotal: L %s", factura.Total.StringFixed(2))

	sendErr := withRetry(ctx, 3, func(attempt int) error {
		return w.cb.Execute(func() error {
			return w.mailer.SendFactura(to, subject, body, *factura.PDFPath)
		})
	})
	if sendErr != nil {
		w.scheduleRetry(ctx, factura, sendErr.Error())
		return
	}

	factura.EmailEstado = model.EntregaEnviada
	factura.NextRetryAt = nil
	factura.LastError = nil
	if err := w.facturaRepo.Update(ctx, factura); err != nil {
		log.Error().Err(err).Str("factura_id", factura.ID.String()).Msg("email_worker: failed to record delivery")
		return
	}
	log.Info().Str("to", to).Str("factura_id", factura.ID.String()).Msg("email_worker: factura sent")
}

func (w *EmailWorker) scheduleRetry(ctx context.Context, factura *model.Factura, reason string) {
	factura.RetryCount++
	factura.LastError = &reason

	if factura.RetryCount >= MaxEmailRetries {
		factura.EmailEstado = model.EntregaError
		factura.NextRetryAt = nil
		log.Error().
			Str("factura_id", factura.ID.String()).
			Int("retries", factura.RetryCount).
			Msg("email_worker: max retries exceeded, moving to DLQ")

		payload, _ := json.Marshal(EmailJobPayload{FacturaID: factura.ID.String()})
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", payload,
			fmt.Sprintf("max retries (%d) exceeded: %s", MaxEmailRetries, reason),
			factura.RetryCount)
	} else {
		next := time.Now().Add(computeRetryBackoff(factura.RetryCount))
		factura.NextRetryAt = &next
		log.Warn().
			Str("factura_id", factura.ID.String()).
			Int("retry_count", factura.RetryCount).
			Time("next_retry_at", next).
			Msg("email_worker: delivery failed, scheduled next attempt")
	}

	if err := w.facturaRepo.Update(ctx, factura); err != nil {
		log.Error().Err(err).Str("factura_id", factura.ID.String()).Msg("email_worker: failed to record retry state")
	}
}

// computeRetryBackoff doubles per attempt: 1m, 2m, 4m … capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	backoff := time.Duration(1<<uint(retryCount-1)) * time.Minute
	if backoff > 30*time.Minute {
		backoff = 30 * time.Minute
	}
	return backoff
}
