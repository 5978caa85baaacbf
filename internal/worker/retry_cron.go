package worker

// retry_cron.go
// Background goroutine that periodically re-attempts email deliveries for
// facturas stuck in email_estado='pendiente' with a next_retry_at in the past.
// Uses the Circuit Breaker to avoid hammering a downed SMTP server.

import (
	"context"
	"time"

	"edapos/internal/infra"
	"edapos/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	FacturaRepo repository.FacturaRepository
	EmailWorker *EmailWorker
	CB          *infra.CircuitBreaker
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries facturas with overdue deliveries, and re-attempts the send through
// the CB. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
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
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed mail server
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	facturas, err := cfg.FacturaRepo.ListEntregasPendientes(ctx, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending deliveries")
		return
	}
	if len(facturas) == 0 {
		return
	}

	log.Info().Int("count", len(facturas)).Msg("retry_cron: processing pending deliveries")

	for i := range facturas {
		// Check CB state before each send — it may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}
		cfg.EmailWorker.Deliver(ctx, &facturas[i])
	}
}
