package worker

// factura_worker.go
// Processes PDF-generation jobs from QueueFactura.
// Renders the fiscal invoice PDF right after emission and, when the customer
// left an email, chains an email delivery job.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"edapos/internal/infra"
	"edapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FacturaJobPayload is the job envelope sent to QueueFactura.
type FacturaJobPayload struct {
	FacturaID    string  `json:"factura_id"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

type FacturaWorker struct {
	facturaRepo    repository.FacturaRepository
	caiRepo        repository.CAIRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	empresaNombre  string
	empresaRTN     string
}

func NewFacturaWorker(
	facturaRepo repository.FacturaRepository,
	caiRepo repository.CAIRepository,
	dispatcher *Dispatcher,
	pdfStoragePath, empresaNombre, empresaRTN string,
) *FacturaWorker {
	return &FacturaWorker{
		facturaRepo:    facturaRepo,
		caiRepo:        caiRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		empresaNombre:  empresaNombre,
		empresaRTN:     empresaRTN,
	}
}

// Process handles a single factura job:
//  1. Fetch the factura (with items, pagos, cliente) and its CAI
//  2. Generate the PDF and store its path on the row
//  3. Enqueue the email delivery job when the customer left an address
func (w *FacturaWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload FacturaJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("factura_worker: invalid payload")
		return
	}

	facturaID, err := uuid.Parse(payload.FacturaID)
	if err != nil {
		log.Error().Str("factura_id", payload.FacturaID).Msg("factura_worker: invalid factura_id")
		return
	}

	factura, err := w.facturaRepo.FindByID(ctx, facturaID)
	if err != nil {
		log.Error().Err(err).Str("factura_id", payload.FacturaID).Msg("factura_worker: factura not found")
		return
	}

	pdfData := infra.FacturaPDFData{
		EmpresaNombre: w.empresaNombre,
		EmpresaRTN:    w.empresaRTN,
	}
	if cai, err := w.caiRepo.FindByID(ctx, factura.CAIID); err == nil {
		pdfData.CAICodigo = cai.Codigo
		pdfData.CAIFechaLim = cai.FechaLimite.Format("02/01/2006")
	}

	pdfPath, err := infra.GenerateFacturaPDF(factura, pdfData, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("factura_id", payload.FacturaID).Msg("factura_worker: PDF generation failed")
		return
	}
	factura.PDFPath = &pdfPath
	if err := w.facturaRepo.Update(ctx, factura); err != nil {
		log.Error().Err(err).Str("factura_id", payload.FacturaID).Msg("factura_worker: failed to store pdf path")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("factura_id", payload.FacturaID).Msg("factura_worker: PDF generated")

	email := payload.ClienteEmail
	if email == nil {
		email = factura.ClienteEmail
	}
	if email != nil && *email != "" {
		emailJob := EmailJobPayload{FacturaID: factura.ID.String()}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			// retry_cron picks it up later: email_estado stays 'pendiente'
			log.Warn().Err(err).Str("email", *email).Msg("factura_worker: failed to enqueue email")
			now := time.Now()
			factura.NextRetryAt = &now
			_ = w.facturaRepo.Update(ctx, factura)
		} else {
			log.Info().Str("email", *email).Msg("factura_worker: email job enqueued")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
