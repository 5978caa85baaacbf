package service

import (
	"context"
	"errors"
	"time"

	"edapos/internal/domainerr"
	"edapos/internal/dto"
	"edapos/internal/model"
	"edapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FacturaService interface {
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error)
	Listar(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error)
	RegistrarAbono(ctx context.Context, id uuid.UUID, req dto.AbonoRequest) (*dto.FacturaResponse, error)
	MarcarImpresa(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error)
	Anular(ctx context.Context, id uuid.UUID, motivo string) error
	ObtenerPDFPath(ctx context.Context, id uuid.UUID) (string, error)
}

type facturaService struct {
	repo repository.FacturaRepository
}

func NewFacturaService(repo repository.FacturaRepository) FacturaService {
	return &facturaService{repo: repo}
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *facturaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error) {
	factura, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerr.NotFound("factura no encontrada")
	}
	return facturaToResponse(factura), nil
}

func (s *facturaService) Listar(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	facturas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FacturaResponse, 0, len(facturas))
	for i := range facturas {
		items = append(items, *facturaToResponse(&facturas[i]))
	}
	return &dto.FacturaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── RegistrarAbono ────────────────────────────────────────────────────────────
// Partial payment against an emitted credit invoice. The saldo only ever
// decreases; an abono larger than the saldo is rejected, so it can never
// go negative.

func (s *facturaService) RegistrarAbono(ctx context.Context, id uuid.UUID, req dto.AbonoRequest) (*dto.FacturaResponse, error) {
	var factura *model.Factura
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		f, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return domainerr.NotFound("factura no encontrada")
		}
		if f.Estado != model.FacturaEmitida {
			return domainerr.InvalidTransition("solo las facturas emitidas reciben abonos")
		}
		if f.SaldoPendiente.IsZero() {
			return domainerr.InvalidTransition("la factura ya está saldada")
		}
		if req.Monto.GreaterThan(f.SaldoPendiente) {
			return errors.New("el abono excede el saldo pendiente")
		}

		pago := &model.FacturaPago{
			FacturaID: f.ID,
			Metodo:    req.Metodo,
			Monto:     req.Monto,
		}
		if err := s.repo.CreatePagoTx(tx, pago); err != nil {
			return err
		}

		f.SaldoPendiente = f.SaldoPendiente.Sub(req.Monto)
		if err := s.repo.UpdateTx(tx, f); err != nil {
			return err
		}
		f.Pagos = append(f.Pagos, *pago)
		factura = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return facturaToResponse(factura), nil
}

// ── MarcarImpresa ─────────────────────────────────────────────────────────────
// Reprints are legal and audited: the counter increments on every call, it is
// never reset. The first call also stamps impresa_at.

func (s *facturaService) MarcarImpresa(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error) {
	factura, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerr.NotFound("factura no encontrada")
	}
	if factura.Estado == model.FacturaBorrador {
		return nil, domainerr.InvalidTransition("la factura aún no fue emitida")
	}

	factura.ContadorImpresiones++
	if !factura.Impresa {
		factura.Impresa = true
		now := time.Now()
		factura.ImpresaAt = &now
	}
	if err := s.repo.Update(ctx, factura); err != nil {
		return nil, err
	}
	return facturaToResponse(factura), nil
}

// ── Anular ────────────────────────────────────────────────────────────────────
// Cancellation keeps the fiscal number — SAR requires the full, gapless
// sequence to remain accountable. The row is never deleted.

func (s *facturaService) Anular(ctx context.Context, id uuid.UUID, motivo string) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		f, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return domainerr.NotFound("factura no encontrada")
		}
		if f.Estado != model.FacturaEmitida {
			return domainerr.InvalidTransition("solo se anulan facturas emitidas")
		}
		f.Estado = model.FacturaAnulada
		return s.repo.UpdateTx(tx, f)
	})
}

// ── ObtenerPDFPath ────────────────────────────────────────────────────────────

func (s *facturaService) ObtenerPDFPath(ctx context.Context, id uuid.UUID) (string, error) {
	factura, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", domainerr.NotFound("factura no encontrada")
	}
	if factura.PDFPath == nil || *factura.PDFPath == "" {
		return "", errors.New("PDF no disponible todavía; el worker lo genera tras la emisión")
	}
	return *factura.PDFPath, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func facturaToResponse(f *model.Factura) *dto.FacturaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(f.Items))
	for _, item := range f.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.ItemVentaResponse{
			ProductoID:     item.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		})
	}
	pagos := make([]dto.PagoRequest, 0, len(f.Pagos))
	for _, p := range f.Pagos {
		pagos = append(pagos, dto.PagoRequest{Metodo: p.Metodo, Monto: p.Monto})
	}

	resp := &dto.FacturaResponse{
		ID:                  f.ID.String(),
		NumeroFiscal:        f.NumeroFiscal,
		TurnoID:             f.TurnoID.String(),
		Estado:              f.Estado,
		Subtotal:            f.Subtotal,
		DescuentoTotal:      f.DescuentoTotal,
		ImpuestoTotal:       f.ImpuestoTotal,
		Total:               f.Total,
		SaldoPendiente:      f.SaldoPendiente,
		Impresa:             f.Impresa,
		ContadorImpresiones: f.ContadorImpresiones,
		Items:               items,
		Pagos:               pagos,
		CreatedAt:           f.CreatedAt.Format(time.RFC3339),
	}
	if f.ClienteID != nil {
		c := f.ClienteID.String()
		resp.ClienteID = &c
	}
	if f.Cliente != nil {
		resp.Cliente = &f.Cliente.Nombre
	}
	if f.FechaVencimiento != nil {
		v := f.FechaVencimiento.Format("2006-01-02")
		resp.FechaVencimiento = &v
	}
	if f.PDFPath != nil && *f.PDFPath != "" {
		u := "/v1/facturas/" + f.ID.String() + "/pdf"
		resp.PDFUrl = &u
	}
	return resp
}
