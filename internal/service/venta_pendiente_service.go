package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edapos/internal/domainerr"
	"edapos/internal/dto"
	"edapos/internal/model"
	"edapos/internal/repository"
	"edapos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaPendienteService holds the per-cashier queue of in-progress sales and
// converts them into fiscal invoices at checkout.
type VentaPendienteService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearVentaPendienteRequest) (*dto.VentaPendienteResponse, error)
	ObtenerPorID(ctx context.Context, usuarioID, id uuid.UUID) (*dto.VentaPendienteResponse, error)
	ListarPorUsuario(ctx context.Context, usuarioID uuid.UUID) ([]dto.VentaPendienteResponse, error)
	Finalizar(ctx context.Context, usuarioID, ventaID uuid.UUID, req dto.FinalizarVentaRequest) (*dto.FacturaResponse, error)
	Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error
}

type ventaPendienteService struct {
	repo         repository.VentaPendienteRepository
	facturaRepo  repository.FacturaRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	correlativo  CorrelativoService
	turno        TurnoService
	dispatcher   *worker.Dispatcher
}

func NewVentaPendienteService(
	repo repository.VentaPendienteRepository,
	facturaRepo repository.FacturaRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	correlativo CorrelativoService,
	turno TurnoService,
	dispatcher *worker.Dispatcher,
) VentaPendienteService {
	return &ventaPendienteService{
		repo:         repo,
		facturaRepo:  facturaRepo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		correlativo:  correlativo,
		turno:        turno,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *ventaPendienteService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearVentaPendienteRequest) (*dto.VentaPendienteResponse, error) {
	venta := &model.VentaPendiente{UsuarioID: usuarioID}

	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		cliente, err := s.clienteRepo.FindByID(ctx, cid)
		if err != nil {
			return nil, domainerr.NotFound("cliente no encontrado")
		}
		if !cliente.Activo {
			return nil, domainerr.Inactive("el cliente está inactivo")
		}
		venta.ClienteID = &cid
	}

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, domainerr.NotFound(fmt.Sprintf("producto %s no encontrado", item.ProductoID))
		}
		if !p.Activo {
			return nil, domainerr.Inactive(fmt.Sprintf("el producto %s está inactivo y no puede venderse", p.Nombre))
		}
		precio := item.PrecioUnitario
		if precio.IsZero() {
			precio = p.PrecioVenta
		}
		venta.Items = append(venta.Items, model.VentaPendienteItem{
			ProductoID:     pid,
			Cantidad:       item.Cantidad,
			PrecioUnitario: precio,
		})
	}

	if err := s.repo.Create(ctx, venta); err != nil {
		return nil, err
	}
	created, err := s.repo.FindByID(ctx, venta.ID)
	if err != nil {
		created = venta
	}
	return ventaPendienteToResponse(created), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ventaPendienteService) ObtenerPorID(ctx context.Context, usuarioID, id uuid.UUID) (*dto.VentaPendienteResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerr.NotFound("venta pendiente no encontrada")
	}
	// Carts belong to the cashier that parked them; a foreign id looks
	// nonexistent so carts are not enumerable across users.
	if venta.UsuarioID != usuarioID {
		return nil, domainerr.NotFound("venta pendiente no encontrada")
	}
	return ventaPendienteToResponse(venta), nil
}

// ListarPorUsuario returns the cashier's queue oldest-first, so the terminal
// resumes carts in the order they were parked.
func (s *ventaPendienteService) ListarPorUsuario(ctx context.Context, usuarioID uuid.UUID) ([]dto.VentaPendienteResponse, error) {
	ventas, err := s.repo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.VentaPendienteResponse, 0, len(ventas))
	for i := range ventas {
		resp = append(resp, *ventaPendienteToResponse(&ventas[i]))
	}
	return resp, nil
}

// ── Finalizar ─────────────────────────────────────────────────────────────────
// Checkout. All-or-nothing transaction:
//   1. validate turno abierto (row locked until commit)
//   2. consume the next correlativo from the CAI block
//   3. create the factura emitida with its items and pagos
//   4. delete the venta pendiente
// If any step fails every prior effect rolls back — the correlativo cursor is
// not advanced, no invoice exists, the cart stays queued.
// After commit the PDF/email chain is dispatched asynchronously.

func (s *ventaPendienteService) Finalizar(ctx context.Context, usuarioID, ventaID uuid.UUID, req dto.FinalizarVentaRequest) (*dto.FacturaResponse, error) {
	venta, err := s.repo.FindByID(ctx, ventaID)
	if err != nil {
		return nil, domainerr.NotFound("venta pendiente no encontrada")
	}
	if venta.UsuarioID != usuarioID {
		return nil, domainerr.NotFound("venta pendiente no encontrada")
	}
	if len(venta.Items) == 0 {
		return nil, errors.New("la venta pendiente no tiene ítems")
	}

	caiID, err := uuid.Parse(req.CAIID)
	if err != nil {
		return nil, fmt.Errorf("cai_id inválido: %w", err)
	}
	turnoID, err := uuid.Parse(req.TurnoID)
	if err != nil {
		return nil, fmt.Errorf("turno_id inválido: %w", err)
	}

	// Pre-flight: totals and payment rules, outside the TX.
	subtotal := decimal.Zero
	impuestoTotal := decimal.Zero
	for _, item := range venta.Items {
		lineSubtotal := item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		subtotal = subtotal.Add(lineSubtotal)
		if item.Producto != nil && item.Producto.Impuesto != nil {
			impuestoTotal = impuestoTotal.Add(lineSubtotal.Mul(item.Producto.Impuesto.Tasa))
		}
	}
	impuestoTotal = impuestoTotal.Round(2)
	total := subtotal.Add(impuestoTotal)

	totalPagos := decimal.Zero
	for _, pago := range req.Pagos {
		totalPagos = totalPagos.Add(pago.Monto)
	}
	if totalPagos.GreaterThan(total) {
		return nil, errors.New("el monto pagado excede el total de la venta")
	}
	saldo := total.Sub(totalPagos)

	var fechaVencimiento *time.Time
	if saldo.IsPositive() {
		if venta.ClienteID == nil {
			return nil, errors.New("una venta al crédito requiere cliente registrado")
		}
		if req.DiasCredito < 1 {
			return nil, errors.New("indique dias_credito para el saldo no pagado")
		}
		v := time.Now().AddDate(0, 0, req.DiasCredito)
		fechaVencimiento = &v
	}

	emailEstado := model.EntregaNoAplica
	if req.ClienteEmail != nil && *req.ClienteEmail != "" {
		emailEstado = model.EntregaPendiente
	}

	var factura model.Factura
	txErr := runTx(ctx, s.facturaRepo.DB(), func(tx *gorm.DB) error {
		if _, err := s.turno.RequireAbiertoTx(tx, turnoID); err != nil {
			return err
		}

		numero, err := s.correlativo.AsignarTx(ctx, tx, caiID)
		if err != nil {
			return err
		}

		factura = model.Factura{
			NumeroFiscal:   numero,
			CAIID:          caiID,
			TurnoID:        turnoID,
			ClienteID:      venta.ClienteID,
			UsuarioID:      usuarioID,
			Estado:         model.FacturaEmitida,
			Subtotal:       subtotal,
			ImpuestoTotal:  impuestoTotal,
			DescuentoTotal: decimal.Zero,
			Total:          total,
			SaldoPendiente: saldo,

			FechaVencimiento: fechaVencimiento,
			ClienteEmail:     req.ClienteEmail,
			EmailEstado:      emailEstado,
		}
		for _, item := range venta.Items {
			factura.Items = append(factura.Items, model.FacturaItem{
				ProductoID:     item.ProductoID,
				Cantidad:       item.Cantidad,
				PrecioUnitario: item.PrecioUnitario,
				Subtotal:       item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad))),
			})
		}
		for _, pago := range req.Pagos {
			factura.Pagos = append(factura.Pagos, model.FacturaPago{
				Metodo: pago.Metodo,
				Monto:  pago.Monto,
			})
		}
		if err := s.facturaRepo.CreateTx(tx, &factura); err != nil {
			return err
		}

		return s.repo.DeleteTx(tx, ventaID)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async PDF + email chain (best-effort — fire & forget).
	if s.dispatcher != nil {
		payload := map[string]interface{}{"factura_id": factura.ID.String()}
		if req.ClienteEmail != nil && *req.ClienteEmail != "" {
			payload["cliente_email"] = *req.ClienteEmail
		}
		_ = s.dispatcher.EnqueueFactura(ctx, payload)
	}

	resp := facturaToResponse(&factura)
	for i, item := range venta.Items {
		if i < len(resp.Items) && item.Producto != nil {
			resp.Items[i].Producto = item.Producto.Nombre
		}
	}
	return resp, nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────
// Abandon. Always permitted from any point before checkout; nothing fiscal
// happened yet so nothing remains. Only the owning cashier can abandon a cart.

func (s *ventaPendienteService) Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domainerr.NotFound("venta pendiente no encontrada")
	}
	if venta.UsuarioID != usuarioID {
		return domainerr.NotFound("venta pendiente no encontrada")
	}
	return s.repo.Delete(ctx, id)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func ventaPendienteToResponse(v *model.VentaPendiente) *dto.VentaPendienteResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	total := decimal.Zero
	for _, item := range v.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		sub := item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		total = total.Add(sub)
		items = append(items, dto.ItemVentaResponse{
			ProductoID:     item.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       sub,
		})
	}
	var clienteID *string
	if v.ClienteID != nil {
		c := v.ClienteID.String()
		clienteID = &c
	}
	return &dto.VentaPendienteResponse{
		ID:        v.ID.String(),
		UsuarioID: v.UsuarioID.String(),
		ClienteID: clienteID,
		Items:     items,
		Total:     total,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
	}
}
