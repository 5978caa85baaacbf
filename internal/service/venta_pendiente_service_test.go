package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"edapos/internal/domainerr"
	"edapos/internal/dto"
	"edapos/internal/model"
	"edapos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkoutFixture wires a complete in-memory checkout environment: one 15%
// ISV product, one credit customer, an open shift and a fresh CAI block.
type checkoutFixture struct {
	ventaRepo   *fakeVentaPendienteRepo
	facturaRepo *fakeFacturaRepo
	caiRepo     *fakeCAIRepo
	turnoRepo   *fakeTurnoRepo

	svc         service.VentaPendienteService
	correlativo service.CorrelativoService
	turnoSvc    service.TurnoService

	usuarioID uuid.UUID
	producto  *model.Producto
	cliente   *model.Cliente
	turnoID   uuid.UUID
	cai       *model.CAI
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	ctx := context.Background()

	productoRepo := newFakeProductoRepo()
	clienteRepo := newFakeClienteRepo()
	ventaRepo := newFakeVentaPendienteRepo(productoRepo)
	facturaRepo := newFakeFacturaRepo()
	caiRepo := newFakeCAIRepo()
	turnoRepo := newFakeTurnoRepo()

	isv := &model.Impuesto{ID: uuid.New(), Nombre: "ISV 15%", Tasa: decimal.NewFromFloat(0.15), Activo: true}
	producto := &model.Producto{
		CodigoBarras: "7421000001234",
		Nombre:       "Café molido 1lb",
		PrecioCosto:  decimal.NewFromFloat(80),
		PrecioVenta:  decimal.NewFromFloat(120),
		ImpuestoID:   &isv.ID,
		Impuesto:     isv,
		Activo:       true,
	}
	require.NoError(t, productoRepo.Create(ctx, producto))

	rtn := "08011985123960"
	cliente := &model.Cliente{Nombre: "Distribuidora El Paraíso", RTN: &rtn, Activo: true}
	require.NoError(t, clienteRepo.Create(ctx, cliente))

	correlativoSvc := service.NewCorrelativoService(caiRepo)
	turnoSvc := service.NewTurnoService(turnoRepo)

	usuarioID := uuid.New()
	turnoResp, err := turnoSvc.Abrir(ctx, usuarioID, dto.AbrirTurnoRequest{Caja: 1})
	require.NoError(t, err)

	cai := seedCAI(t, caiRepo, 1, 1000)

	svc := service.NewVentaPendienteService(
		ventaRepo, facturaRepo, productoRepo, clienteRepo,
		correlativoSvc, turnoSvc, nil,
	)

	return &checkoutFixture{
		ventaRepo:   ventaRepo,
		facturaRepo: facturaRepo,
		caiRepo:     caiRepo,
		turnoRepo:   turnoRepo,
		svc:         svc,
		correlativo: correlativoSvc,
		turnoSvc:    turnoSvc,
		usuarioID:   usuarioID,
		producto:    producto,
		cliente:     cliente,
		turnoID:     uuid.MustParse(turnoResp.ID),
		cai:         cai,
	}
}

func (fx *checkoutFixture) crearVenta(t *testing.T, cantidad int) uuid.UUID {
	t.Helper()
	resp, err := fx.svc.Crear(context.Background(), fx.usuarioID, dto.CrearVentaPendienteRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: fx.producto.ID.String(), Cantidad: cantidad}},
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

// ── Crear ────────────────────────────────────────────────────────────────────

func TestCrearVentaPendiente(t *testing.T) {
	fx := newCheckoutFixture(t)

	resp, err := fx.svc.Crear(context.Background(), fx.usuarioID, dto.CrearVentaPendienteRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: fx.producto.ID.String(), Cantidad: 2}},
	})
	require.NoError(t, err)

	// Zero unit price falls back to the list price.
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "120", resp.Items[0].PrecioUnitario.String())
	assert.Equal(t, "240", resp.Total.String())
}

func TestCrearVentaProductoInactivo(t *testing.T) {
	fx := newCheckoutFixture(t)
	fx.producto.Activo = false

	_, err := fx.svc.Crear(context.Background(), fx.usuarioID, dto.CrearVentaPendienteRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: fx.producto.ID.String(), Cantidad: 1}},
	})
	assert.True(t, domainerr.Is(err, domainerr.KindInactive))
}

func TestCrearVentaClienteInexistente(t *testing.T) {
	fx := newCheckoutFixture(t)
	desconocido := uuid.NewString()

	_, err := fx.svc.Crear(context.Background(), fx.usuarioID, dto.CrearVentaPendienteRequest{
		ClienteID: &desconocido,
		Items:     []dto.ItemVentaRequest{{ProductoID: fx.producto.ID.String(), Cantidad: 1}},
	})
	assert.True(t, domainerr.Is(err, domainerr.KindNotFound))
}

func TestListarVentasFIFO(t *testing.T) {
	fx := newCheckoutFixture(t)

	primera := fx.crearVenta(t, 1)
	segunda := fx.crearVenta(t, 2)
	tercera := fx.crearVenta(t, 3)

	cola, err := fx.svc.ListarPorUsuario(context.Background(), fx.usuarioID)
	require.NoError(t, err)
	require.Len(t, cola, 3)
	assert.Equal(t, primera.String(), cola[0].ID)
	assert.Equal(t, segunda.String(), cola[1].ID)
	assert.Equal(t, tercera.String(), cola[2].ID)
}

// ── Finalizar ────────────────────────────────────────────────────────────────

func TestFinalizarVentaContado(t *testing.T) {
	fx := newCheckoutFixture(t)
	ventaID := fx.crearVenta(t, 2)

	// 2 × 120 = 240 + 15% ISV = 276, paid in full.
	resp, err := fx.svc.Finalizar(context.Background(), fx.usuarioID, ventaID, dto.FinalizarVentaRequest{
		CAIID:   fx.cai.ID.String(),
		TurnoID: fx.turnoID.String(),
		Pagos:   []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromFloat(276)}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.FacturaEmitida, resp.Estado)
	assert.Equal(t, int64(1), resp.NumeroFiscal)
	assert.Equal(t, "240", resp.Subtotal.String())
	assert.Equal(t, "36", resp.ImpuestoTotal.String())
	assert.Equal(t, "276", resp.Total.String())
	assert.True(t, resp.SaldoPendiente.IsZero())
	assert.Nil(t, resp.FechaVencimiento)

	// The cart is gone and the CAI cursor moved exactly one step.
	_, err = fx.svc.ObtenerPorID(context.Background(), fx.usuarioID, ventaID)
	assert.True(t, domainerr.Is(err, domainerr.KindNotFound))
	assert.Equal(t, int64(2), fx.caiRepo.cais[fx.cai.ID].CorrelativoActual)
}

func TestFinalizarNumerosConsecutivos(t *testing.T) {
	fx := newCheckoutFixture(t)

	for want := int64(1); want <= 3; want++ {
		ventaID := fx.crearVenta(t, 1)
		resp, err := fx.svc.Finalizar(context.Background(), fx.usuarioID, ventaID, dto.FinalizarVentaRequest{
			CAIID:   fx.cai.ID.String(),
			TurnoID: fx.turnoID.String(),
			Pagos:   []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromFloat(138)}},
		})
		require.NoError(t, err)
		assert.Equal(t, want, resp.NumeroFiscal)
	}
}

func TestFinalizarVentaCredito(t *testing.T) {
	fx := newCheckoutFixture(t)
	clienteID := fx.cliente.ID.String()

	crearResp, err := fx.svc.Crear(context.Background(), fx.usuarioID, dto.CrearVentaPendienteRequest{
		ClienteID: &clienteID,
		Items:     []dto.ItemVentaRequest{{ProductoID: fx.producto.ID.String(), Cantidad: 1}},
	})
	require.NoError(t, err)

	// Total 138, pays 38 → saldo 100 at 30 días.
	resp, err := fx.svc.Finalizar(context.Background(), fx.usuarioID, uuid.MustParse(crearResp.ID), dto.FinalizarVentaRequest{
		CAIID:       fx.cai.ID.String(),
		TurnoID:     fx.turnoID.String(),
		Pagos:       []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromFloat(38)}},
		DiasCredito: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, "100", resp.SaldoPendiente.String())
	require.NotNil(t, resp.FechaVencimiento)
	wantVence := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	assert.Equal(t, wantVence, *resp.FechaVencimiento)
}

func TestFinalizarCreditoSinCliente(t *testing.T) {
	fx := newCheckoutFixture(t)
	ventaID := fx.crearVenta(t, 1)

	// Consumidor final cannot leave a balance.
	_, err := fx.svc.Finalizar(context.Background(), fx.usuarioID, ventaID, dto.FinalizarVentaRequest{
		CAIID:       fx.cai.ID.String(),
		TurnoID:     fx.turnoID.String(),
		Pagos:       []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromFloat(50)}},
		DiasCredito: 30,
	})
	assert.ErrorContains(t, err, "cliente registrado")
}

func TestFinalizarPagoExcedente(t *testing.T) {
	fx := newCheckoutFixture(t)
	ventaID := fx.crearVenta(t, 1)

	_, err := fx.svc.Finalizar(context.Background(), fx.usuarioID, ventaID, dto.FinalizarVentaRequest{
		CAIID:   fx.cai.ID.String(),
		TurnoID: fx.turnoID.String(),
		Pagos:   []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromFloat(500)}},
	})
	assert.ErrorContains(t, err, "excede el total")
}

func TestFinalizarTurnoCerrado(t *testing.T) {
	fx := newCheckoutFixture(t)
	ventaID := fx.crearVenta(t, 1)

	_, err := fx.turnoSvc.Cerrar(context.Background(), fx.turnoID)
	require.NoError(t, err)

	_, err = fx.svc.Finalizar(context.Background(), fx.usuarioID, ventaID, dto.FinalizarVentaRequest{
		CAIID:   fx.cai.ID.String(),
		TurnoID: fx.turnoID.String(),
		Pagos:   []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromFloat(138)}},
	})
	assert.True(t, domainerr.Is(err, domainerr.KindInactive))

	// Nothing was consumed: the cart survives and the cursor never moved.
	_, findErr := fx.svc.ObtenerPorID(context.Background(), fx.usuarioID, ventaID)
	assert.NoError(t, findErr)
	assert.Equal(t, int64(1), fx.caiRepo.cais[fx.cai.ID].CorrelativoActual)
	assert.Empty(t, fx.facturaRepo.facturas)
}

func TestFinalizarCAIAgotado(t *testing.T) {
	fx := newCheckoutFixture(t)
	fx.cai.CorrelativoActual = fx.cai.RangoFinal + 1
	ventaID := fx.crearVenta(t, 1)

	_, err := fx.svc.Finalizar(context.Background(), fx.usuarioID, ventaID, dto.FinalizarVentaRequest{
		CAIID:   fx.cai.ID.String(),
		TurnoID: fx.turnoID.String(),
		Pagos:   []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromFloat(138)}},
	})
	assert.True(t, domainerr.Is(err, domainerr.KindExhausted))

	_, findErr := fx.svc.ObtenerPorID(context.Background(), fx.usuarioID, ventaID)
	assert.NoError(t, findErr)
	assert.Empty(t, fx.facturaRepo.facturas)
}

func TestFinalizarVentaAjena(t *testing.T) {
	fx := newCheckoutFixture(t)
	ventaID := fx.crearVenta(t, 1)

	// Another cashier cannot see (nor finalize) someone else's cart.
	_, err := fx.svc.Finalizar(context.Background(), uuid.New(), ventaID, dto.FinalizarVentaRequest{
		CAIID:   fx.cai.ID.String(),
		TurnoID: fx.turnoID.String(),
	})
	assert.True(t, domainerr.Is(err, domainerr.KindNotFound))
}

// ── Eliminar ─────────────────────────────────────────────────────────────────

func TestEliminarVentaPendiente(t *testing.T) {
	fx := newCheckoutFixture(t)
	ventaID := fx.crearVenta(t, 1)

	require.NoError(t, fx.svc.Eliminar(context.Background(), fx.usuarioID, ventaID))
	_, err := fx.svc.ObtenerPorID(context.Background(), fx.usuarioID, ventaID)
	assert.True(t, domainerr.Is(err, domainerr.KindNotFound))

	// Abandoning consumed nothing fiscal.
	assert.Equal(t, int64(1), fx.caiRepo.cais[fx.cai.ID].CorrelativoActual)

	err = fx.svc.Eliminar(context.Background(), fx.usuarioID, ventaID)
	assert.True(t, domainerr.Is(err, domainerr.KindNotFound))
}

func TestEliminarVentaAjena(t *testing.T) {
	fx := newCheckoutFixture(t)
	ventaID := fx.crearVenta(t, 1)
	otro := uuid.New()

	// A foreign cart id behaves as nonexistent for read and delete alike.
	_, err := fx.svc.ObtenerPorID(context.Background(), otro, ventaID)
	assert.True(t, domainerr.Is(err, domainerr.KindNotFound))

	err = fx.svc.Eliminar(context.Background(), otro, ventaID)
	assert.True(t, domainerr.Is(err, domainerr.KindNotFound))

	// The owner still has the cart intact.
	venta, err := fx.svc.ObtenerPorID(context.Background(), fx.usuarioID, ventaID)
	require.NoError(t, err)
	assert.Len(t, venta.Items, 1)
}

func TestFinalizarFallaAlEmitir(t *testing.T) {
	fx := newCheckoutFixture(t)
	ventaID := fx.crearVenta(t, 1)
	fx.facturaRepo.failCreate = errors.New("insert rechazado")

	_, err := fx.svc.Finalizar(context.Background(), fx.usuarioID, ventaID, dto.FinalizarVentaRequest{
		CAIID:   fx.cai.ID.String(),
		TurnoID: fx.turnoID.String(),
		Pagos:   []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromFloat(138)}},
	})
	require.Error(t, err)

	// No invoice exists and the cart stays queued for another attempt.
	assert.Empty(t, fx.facturaRepo.facturas)
	_, findErr := fx.svc.ObtenerPorID(context.Background(), fx.usuarioID, ventaID)
	assert.NoError(t, findErr)
}
