package service_test

import (
	"context"
	"testing"
	"time"

	"edapos/internal/domainerr"
	"edapos/internal/model"
	"edapos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cobranzaFixture: three customers — two with open balances, one fully paid.
func newCobranzaFixture(t *testing.T) (service.CobranzaService, *fakeFacturaRepo, []*model.Cliente) {
	t.Helper()
	ctx := context.Background()

	facturaRepo := newFakeFacturaRepo()
	clienteRepo := newFakeClienteRepo()

	rtnA, rtnB := "08011985123960", "05011990456120"
	clientes := []*model.Cliente{
		{Nombre: "Abarrotería Central", RTN: &rtnA, Activo: true},
		{Nombre: "Bodega La Sureña", RTN: &rtnB, Activo: true},
		{Nombre: "Carlos Mejía", Activo: true},
	}
	for _, c := range clientes {
		require.NoError(t, clienteRepo.Create(ctx, c))
		facturaRepo.clientes[c.ID] = c
	}

	deuda := func(cliente *model.Cliente, numero int64, saldo float64, vence *time.Time) {
		f := &model.Factura{
			NumeroFiscal:     numero,
			CAIID:            uuid.New(),
			TurnoID:          uuid.New(),
			ClienteID:        &cliente.ID,
			UsuarioID:        uuid.New(),
			Estado:           model.FacturaEmitida,
			Total:            decimal.NewFromFloat(saldo + 100),
			SaldoPendiente:   decimal.NewFromFloat(saldo),
			FechaVencimiento: vence,
			EmailEstado:      model.EntregaNoAplica,
		}
		require.NoError(t, facturaRepo.CreateTx(nil, f))
	}

	manana := time.Now().AddDate(0, 0, 1)
	ayer := time.Now().AddDate(0, 0, -1)
	enUnMes := time.Now().AddDate(0, 1, 0)

	deuda(clientes[0], 1, 500, &manana)
	deuda(clientes[0], 2, 250, &ayer) // overdue
	deuda(clientes[1], 3, 1000, &enUnMes)
	deuda(clientes[2], 4, 0, nil) // fully paid — must not appear

	// Anulada with saldo must not count either.
	anulada := &model.Factura{
		NumeroFiscal: 5, CAIID: uuid.New(), TurnoID: uuid.New(),
		ClienteID: &clientes[1].ID, UsuarioID: uuid.New(),
		Estado: model.FacturaAnulada,
		Total:  decimal.NewFromFloat(300), SaldoPendiente: decimal.NewFromFloat(300),
		EmailEstado: model.EntregaNoAplica,
	}
	require.NoError(t, facturaRepo.CreateTx(nil, anulada))

	return service.NewCobranzaService(facturaRepo, clienteRepo), facturaRepo, clientes
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestListarDeudores(t *testing.T) {
	svc, _, clientes := newCobranzaFixture(t)

	deudores, err := svc.ListarDeudores(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, deudores, 2)

	// Alphabetical by nombre.
	assert.Equal(t, clientes[0].ID.String(), deudores[0].ClienteID)
	assert.Equal(t, int64(2), deudores[0].FacturasPendientes)
	assert.Equal(t, "750", deudores[0].SaldoTotal.String())

	assert.Equal(t, clientes[1].ID.String(), deudores[1].ClienteID)
	assert.Equal(t, int64(1), deudores[1].FacturasPendientes)
	assert.Equal(t, "1000", deudores[1].SaldoTotal.String())
}

func TestListarDeudoresFiltro(t *testing.T) {
	svc, _, clientes := newCobranzaFixture(t)

	porNombre, err := svc.ListarDeudores(context.Background(), "sureña")
	require.NoError(t, err)
	require.Len(t, porNombre, 1)
	assert.Equal(t, clientes[1].Nombre, porNombre[0].Nombre)

	porRTN, err := svc.ListarDeudores(context.Background(), "08011985")
	require.NoError(t, err)
	require.Len(t, porRTN, 1)
	assert.Equal(t, clientes[0].Nombre, porRTN[0].Nombre)

	ninguno, err := svc.ListarDeudores(context.Background(), "inexistente")
	require.NoError(t, err)
	assert.Empty(t, ninguno)
}

func TestListarFacturasPendientes(t *testing.T) {
	svc, _, clientes := newCobranzaFixture(t)

	pendientes, err := svc.ListarFacturasPendientes(context.Background(), clientes[0].ID)
	require.NoError(t, err)
	require.Len(t, pendientes, 2)

	// Aging order: the overdue invoice comes first and is flagged vencida.
	assert.Equal(t, int64(2), pendientes[0].NumeroFiscal)
	assert.True(t, pendientes[0].Vencida)
	assert.Equal(t, int64(1), pendientes[1].NumeroFiscal)
	assert.False(t, pendientes[1].Vencida)
}

func TestListarFacturasPendientesClienteSaldado(t *testing.T) {
	svc, _, clientes := newCobranzaFixture(t)

	pendientes, err := svc.ListarFacturasPendientes(context.Background(), clientes[2].ID)
	require.NoError(t, err)
	assert.Empty(t, pendientes)
}

func TestListarFacturasPendientesClienteInexistente(t *testing.T) {
	svc, _, _ := newCobranzaFixture(t)

	_, err := svc.ListarFacturasPendientes(context.Background(), uuid.New())
	assert.True(t, domainerr.Is(err, domainerr.KindNotFound))
}
