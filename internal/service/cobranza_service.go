package service

import (
	"context"
	"time"

	"edapos/internal/domainerr"
	"edapos/internal/dto"
	"edapos/internal/repository"

	"github.com/google/uuid"
)

// CobranzaService builds the collections view: which customers owe money and
// which invoices make up each debt. Only facturas emitidas with saldo > 0
// count — anuladas and saldadas are invisible here.
type CobranzaService interface {
	ListarDeudores(ctx context.Context, term string) ([]dto.DeudorResponse, error)
	ListarFacturasPendientes(ctx context.Context, clienteID uuid.UUID) ([]dto.FacturaPendienteResponse, error)
}

type cobranzaService struct {
	facturaRepo repository.FacturaRepository
	clienteRepo repository.ClienteRepository
}

func NewCobranzaService(facturaRepo repository.FacturaRepository, clienteRepo repository.ClienteRepository) CobranzaService {
	return &cobranzaService{facturaRepo: facturaRepo, clienteRepo: clienteRepo}
}

// ── ListarDeudores ────────────────────────────────────────────────────────────

func (s *cobranzaService) ListarDeudores(ctx context.Context, term string) ([]dto.DeudorResponse, error) {
	rows, err := s.facturaRepo.ListDeudores(ctx, term)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DeudorResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, dto.DeudorResponse{
			ClienteID:          r.ClienteID.String(),
			Nombre:             r.Nombre,
			RTN:                r.RTN,
			FacturasPendientes: r.FacturasPendientes,
			SaldoTotal:         r.SaldoTotal,
		})
	}
	return resp, nil
}

// ── ListarFacturasPendientes ──────────────────────────────────────────────────
// Aging order: soonest-due first, oldest first among same due dates.

func (s *cobranzaService) ListarFacturasPendientes(ctx context.Context, clienteID uuid.UUID) ([]dto.FacturaPendienteResponse, error) {
	if _, err := s.clienteRepo.FindByID(ctx, clienteID); err != nil {
		return nil, domainerr.NotFound("cliente no encontrado")
	}

	facturas, err := s.facturaRepo.ListPendientesPorCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resp := make([]dto.FacturaPendienteResponse, 0, len(facturas))
	for _, f := range facturas {
		item := dto.FacturaPendienteResponse{
			FacturaID:      f.ID.String(),
			NumeroFiscal:   f.NumeroFiscal,
			Total:          f.Total,
			SaldoPendiente: f.SaldoPendiente,
			EmitidaAt:      f.CreatedAt.Format(time.RFC3339),
		}
		if f.FechaVencimiento != nil {
			v := f.FechaVencimiento.Format("2006-01-02")
			item.FechaVencimiento = &v
			item.Vencida = f.FechaVencimiento.Before(now)
		}
		resp = append(resp, item)
	}
	return resp, nil
}
