package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"edapos/internal/domainerr"
	"edapos/internal/dto"
	"edapos/internal/model"
	"edapos/internal/repository"
	"edapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory CAIRepository ──────────────────────────────────────────────────

type fakeCAIRepo struct {
	cais map[uuid.UUID]*model.CAI
	// stealNext simulates a concurrent allocator: the next compare-and-swap
	// finds the cursor already advanced and affects zero rows.
	stealNext bool
}

func newFakeCAIRepo() *fakeCAIRepo {
	return &fakeCAIRepo{cais: make(map[uuid.UUID]*model.CAI)}
}

func (r *fakeCAIRepo) Create(_ context.Context, c *model.CAI) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for _, existing := range r.cais {
		if existing.Codigo == c.Codigo {
			return gorm.ErrDuplicatedKey
		}
	}
	c.CreatedAt = time.Now()
	r.cais[c.ID] = c
	return nil
}

func (r *fakeCAIRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CAI, error) {
	c, ok := r.cais[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCAIRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.CAI, error) {
	c, ok := r.cais[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *c
	return &cloned, nil
}

func (r *fakeCAIRepo) IncrementCorrelativoTx(_ *gorm.DB, id uuid.UUID, desde int64) (int64, error) {
	c, ok := r.cais[id]
	if !ok {
		return 0, nil
	}
	if r.stealNext {
		r.stealNext = false
		c.CorrelativoActual = desde + 1
		return 0, nil
	}
	if c.CorrelativoActual != desde {
		return 0, nil
	}
	c.CorrelativoActual = desde + 1
	return 1, nil
}

func (r *fakeCAIRepo) List(_ context.Context, incluirInactivos bool) ([]model.CAI, error) {
	var out []model.CAI
	for _, c := range r.cais {
		if !incluirInactivos && !c.Activo {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCAIRepo) FindActivoPorCaja(_ context.Context, caja int) (*model.CAI, error) {
	for _, c := range r.cais {
		if c.Caja == caja && c.Activo && !c.Agotado() {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCAIRepo) Update(_ context.Context, c *model.CAI) error {
	r.cais[c.ID] = c
	return nil
}

func (r *fakeCAIRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.cais, id)
	return nil
}

func (r *fakeCAIRepo) DB() *gorm.DB { return nil }

var _ repository.CAIRepository = (*fakeCAIRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func seedCAI(t *testing.T, repo *fakeCAIRepo, desde, hasta int64) *model.CAI {
	t.Helper()
	cai := &model.CAI{
		Codigo:            "254F8-612021-9001A-" + uuid.NewString()[:8],
		Caja:              1,
		RangoInicial:      desde,
		CorrelativoActual: desde,
		RangoFinal:        hasta,
		FechaLimite:       time.Now().AddDate(0, 6, 0),
		Activo:            true,
	}
	require.NoError(t, repo.Create(context.Background(), cai))
	return cai
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestAsignarSecuenciaSinHuecos(t *testing.T) {
	repo := newFakeCAIRepo()
	svc := service.NewCorrelativoService(repo)
	cai := seedCAI(t, repo, 1000, 1004)

	// Five numbers available: 1000..1004, assigned in order with no gaps.
	for want := int64(1000); want <= 1004; want++ {
		n, err := svc.Asignar(context.Background(), cai.ID)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	// Sixth allocation exhausts the block.
	_, err := svc.Asignar(context.Background(), cai.ID)
	assert.True(t, domainerr.Is(err, domainerr.KindExhausted))
}

func TestAsignarAgotadoNoMueveCursor(t *testing.T) {
	repo := newFakeCAIRepo()
	svc := service.NewCorrelativoService(repo)
	cai := seedCAI(t, repo, 500, 500)

	n, err := svc.Asignar(context.Background(), cai.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), n)

	// Repeated attempts on an exhausted block must not touch the cursor.
	for i := 0; i < 3; i++ {
		_, err = svc.Asignar(context.Background(), cai.ID)
		assert.True(t, domainerr.Is(err, domainerr.KindExhausted))
	}
	assert.Equal(t, int64(501), repo.cais[cai.ID].CorrelativoActual)
}

func TestAsignarCAIDesactivado(t *testing.T) {
	repo := newFakeCAIRepo()
	svc := service.NewCorrelativoService(repo)
	cai := seedCAI(t, repo, 1, 100)
	cai.Activo = false

	_, err := svc.Asignar(context.Background(), cai.ID)
	assert.True(t, domainerr.Is(err, domainerr.KindInactive))
	assert.Equal(t, int64(1), repo.cais[cai.ID].CorrelativoActual)
}

func TestAsignarCAIVencido(t *testing.T) {
	repo := newFakeCAIRepo()
	svc := service.NewCorrelativoService(repo)
	cai := seedCAI(t, repo, 1, 100)
	cai.FechaLimite = time.Now().AddDate(0, 0, -1)

	_, err := svc.Asignar(context.Background(), cai.ID)
	assert.True(t, domainerr.Is(err, domainerr.KindInactive))
	assert.ErrorContains(t, err, "venció")
}

func TestAsignarCarreraEntreTerminales(t *testing.T) {
	repo := newFakeCAIRepo()
	svc := service.NewCorrelativoService(repo)
	cai := seedCAI(t, repo, 1, 100)

	// Another terminal advances the cursor between our read and write.
	repo.stealNext = true
	_, err := svc.Asignar(context.Background(), cai.ID)
	assert.True(t, domainerr.Is(err, domainerr.KindConflict))

	// The retry sees the advanced cursor and succeeds with the next number.
	n, err := svc.Asignar(context.Background(), cai.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestAsignarCAIInexistente(t *testing.T) {
	repo := newFakeCAIRepo()
	svc := service.NewCorrelativoService(repo)

	_, err := svc.Asignar(context.Background(), uuid.New())
	assert.True(t, domainerr.Is(err, domainerr.KindNotFound))
}

func TestCrearRangoInvalido(t *testing.T) {
	repo := newFakeCAIRepo()
	svc := service.NewCorrelativoService(repo)

	_, err := svc.Crear(context.Background(), dto.CrearCAIRequest{
		Codigo: "254F8-612021-9001A-000001", Caja: 1,
		RangoInicial: 100, RangoFinal: 50,
		FechaLimite: "2027-01-31",
	})
	assert.ErrorContains(t, err, "rango final")
}

func TestCrearCodigoDuplicado(t *testing.T) {
	repo := newFakeCAIRepo()
	svc := service.NewCorrelativoService(repo)

	req := dto.CrearCAIRequest{
		Codigo: "254F8-612021-9001A-000001", Caja: 1,
		RangoInicial: 1, RangoFinal: 1000,
		FechaLimite: "2027-01-31",
	}
	_, err := svc.Crear(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Crear(context.Background(), req)
	assert.True(t, domainerr.Is(err, domainerr.KindConflict))
}

func TestEliminarCAIUsado(t *testing.T) {
	repo := newFakeCAIRepo()
	svc := service.NewCorrelativoService(repo)
	cai := seedCAI(t, repo, 1, 100)

	_, err := svc.Asignar(context.Background(), cai.ID)
	require.NoError(t, err)

	// Once a number was issued, the block can only be deactivated.
	err = svc.Eliminar(context.Background(), cai.ID)
	assert.True(t, domainerr.Is(err, domainerr.KindInvalidTransition))
	_, ok := repo.cais[cai.ID]
	assert.True(t, ok, "el CAI usado debe sobrevivir al intento de borrado")

	require.NoError(t, svc.Desactivar(context.Background(), cai.ID))
	assert.False(t, repo.cais[cai.ID].Activo)
}

func TestEliminarCAISinUso(t *testing.T) {
	repo := newFakeCAIRepo()
	svc := service.NewCorrelativoService(repo)
	cai := seedCAI(t, repo, 1, 100)

	require.NoError(t, svc.Eliminar(context.Background(), cai.ID))
	_, ok := repo.cais[cai.ID]
	assert.False(t, ok)
}

func TestListarExcluyeInactivos(t *testing.T) {
	repo := newFakeCAIRepo()
	svc := service.NewCorrelativoService(repo)
	seedCAI(t, repo, 1, 100)
	inactivo := seedCAI(t, repo, 200, 300)
	inactivo.Activo = false

	activos, err := svc.Listar(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, activos, 1)

	todos, err := svc.Listar(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestRestantesReportados(t *testing.T) {
	repo := newFakeCAIRepo()
	svc := service.NewCorrelativoService(repo)
	cai := seedCAI(t, repo, 10, 19)

	resp, err := svc.ObtenerPorID(context.Background(), cai.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.Restantes)
	assert.False(t, resp.Agotado)

	for i := 0; i < 10; i++ {
		_, err := svc.Asignar(context.Background(), cai.ID)
		require.NoError(t, err)
	}

	resp, err = svc.ObtenerPorID(context.Background(), cai.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Restantes)
	assert.True(t, resp.Agotado)
}

func TestErroresDeInfraNoSonDeDominio(t *testing.T) {
	_, ok := domainerr.KindOf(errors.New("connection refused"))
	assert.False(t, ok)
}
