package service

import (
	"context"

	"edapos/internal/domainerr"
	"edapos/internal/dto"
	"edapos/internal/model"
	"edapos/internal/repository"

	"github.com/google/uuid"
)

// CatalogoService administers the small reference tables: impuestos,
// descuentos and tipos de pago.
type CatalogoService interface {
	CrearImpuesto(ctx context.Context, req dto.CrearImpuestoRequest) (*dto.ImpuestoResponse, error)
	ListarImpuestos(ctx context.Context) ([]dto.ImpuestoResponse, error)
	DesactivarImpuesto(ctx context.Context, id uuid.UUID) error

	CrearDescuento(ctx context.Context, req dto.CrearDescuentoRequest) (*dto.DescuentoResponse, error)
	ListarDescuentos(ctx context.Context) ([]dto.DescuentoResponse, error)
	DesactivarDescuento(ctx context.Context, id uuid.UUID) error

	CrearTipoPago(ctx context.Context, req dto.CrearTipoPagoRequest) (*dto.TipoPagoResponse, error)
	ListarTiposPago(ctx context.Context) ([]dto.TipoPagoResponse, error)
	DesactivarTipoPago(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	repo repository.CatalogoRepository
}

func NewCatalogoService(repo repository.CatalogoRepository) CatalogoService {
	return &catalogoService{repo: repo}
}

// ── Impuestos ─────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearImpuesto(ctx context.Context, req dto.CrearImpuestoRequest) (*dto.ImpuestoResponse, error) {
	impuesto := &model.Impuesto{Nombre: req.Nombre, Tasa: req.Tasa, Activo: true}
	if err := s.repo.CreateImpuesto(ctx, impuesto); err != nil {
		return nil, err
	}
	return impuestoToResponse(impuesto), nil
}

func (s *catalogoService) ListarImpuestos(ctx context.Context) ([]dto.ImpuestoResponse, error) {
	impuestos, err := s.repo.ListImpuestos(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ImpuestoResponse, 0, len(impuestos))
	for i := range impuestos {
		resp = append(resp, *impuestoToResponse(&impuestos[i]))
	}
	return resp, nil
}

func (s *catalogoService) DesactivarImpuesto(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindImpuestoByID(ctx, id); err != nil {
		return domainerr.NotFound("impuesto no encontrado")
	}
	return s.repo.DesactivarImpuesto(ctx, id)
}

// ── Descuentos ────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearDescuento(ctx context.Context, req dto.CrearDescuentoRequest) (*dto.DescuentoResponse, error) {
	descuento := &model.Descuento{Nombre: req.Nombre, Porcentaje: req.Porcentaje, Activo: true}
	if err := s.repo.CreateDescuento(ctx, descuento); err != nil {
		return nil, err
	}
	return descuentoToResponse(descuento), nil
}

func (s *catalogoService) ListarDescuentos(ctx context.Context) ([]dto.DescuentoResponse, error) {
	descuentos, err := s.repo.ListDescuentos(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DescuentoResponse, 0, len(descuentos))
	for i := range descuentos {
		resp = append(resp, *descuentoToResponse(&descuentos[i]))
	}
	return resp, nil
}

func (s *catalogoService) DesactivarDescuento(ctx context.Context, id uuid.UUID) error {
	return s.repo.DesactivarDescuento(ctx, id)
}

// ── Tipos de pago ─────────────────────────────────────────────────────────────

func (s *catalogoService) CrearTipoPago(ctx context.Context, req dto.CrearTipoPagoRequest) (*dto.TipoPagoResponse, error) {
	tipo := &model.TipoPago{Nombre: req.Nombre, Activo: true}
	if err := s.repo.CreateTipoPago(ctx, tipo); err != nil {
		return nil, err
	}
	return tipoPagoToResponse(tipo), nil
}

func (s *catalogoService) ListarTiposPago(ctx context.Context) ([]dto.TipoPagoResponse, error) {
	tipos, err := s.repo.ListTiposPago(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TipoPagoResponse, 0, len(tipos))
	for i := range tipos {
		resp = append(resp, *tipoPagoToResponse(&tipos[i]))
	}
	return resp, nil
}

func (s *catalogoService) DesactivarTipoPago(ctx context.Context, id uuid.UUID) error {
	return s.repo.DesactivarTipoPago(ctx, id)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func impuestoToResponse(i *model.Impuesto) *dto.ImpuestoResponse {
	return &dto.ImpuestoResponse{ID: i.ID.String(), Nombre: i.Nombre, Tasa: i.Tasa, Activo: i.Activo}
}

func descuentoToResponse(d *model.Descuento) *dto.DescuentoResponse {
	return &dto.DescuentoResponse{ID: d.ID.String(), Nombre: d.Nombre, Porcentaje: d.Porcentaje, Activo: d.Activo}
}

func tipoPagoToResponse(t *model.TipoPago) *dto.TipoPagoResponse {
	return &dto.TipoPagoResponse{ID: t.ID.String(), Nombre: t.Nombre, Activo: t.Activo}
}
