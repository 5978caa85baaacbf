package service_test

import (
	"context"
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

// ── In-memory TurnoRepository ────────────────────────────────────────────────

type fakeTurnoRepo struct {
	turnos map[uuid.UUID]*model.Turno
	// lockReads counts FOR UPDATE reads so tests can assert the checkout
	// path serializes against Cerrar instead of reading without a lock
	lockReads int
}

func newFakeTurnoRepo() *fakeTurnoRepo {
	return &fakeTurnoRepo{turnos: make(map[uuid.UUID]*model.Turno)}
}

func (r *fakeTurnoRepo) Create(_ context.Context, t *model.Turno) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	// Enforce the partial unique index on turnos(caja) WHERE estado='abierto'
	for _, existing := range r.turnos {
		if existing.Caja == t.Caja && existing.Abierto() {
			return gorm.ErrDuplicatedKey
		}
	}
	t.OpenedAt = time.Now()
	r.turnos[t.ID] = t
	return nil
}

func (r *fakeTurnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Turno, error) {
	t, ok := r.turnos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeTurnoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Turno, error) {
	r.lockReads++
	return r.FindByID(context.Background(), id)
}

func (r *fakeTurnoRepo) FindAbiertoPorCaja(_ context.Context, caja int) (*model.Turno, error) {
	for _, t := range r.turnos {
		if t.Caja == caja && t.Abierto() {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTurnoRepo) FindAbiertoPorUsuario(_ context.Context, usuarioID uuid.UUID) (*model.Turno, error) {
	for _, t := range r.turnos {
		if t.UsuarioID == usuarioID && t.Abierto() {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTurnoRepo) Update(_ context.Context, t *model.Turno) error {
	r.turnos[t.ID] = t
	return nil
}

func (r *fakeTurnoRepo) UpdateTx(_ *gorm.DB, t *model.Turno) error {
	r.turnos[t.ID] = t
	return nil
}

func (r *fakeTurnoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.turnos, id)
	return nil
}

func (r *fakeTurnoRepo) List(_ context.Context, page, limit int) ([]model.Turno, int64, error) {
	all := make([]model.Turno, 0, len(r.turnos))
	for _, t := range r.turnos {
		all = append(all, *t)
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeTurnoRepo) DB() *gorm.DB { return nil }

var _ repository.TurnoRepository = (*fakeTurnoRepo)(nil)

// ── Tests ────────────────────────────────────────────────────────────────────

func TestAbrirTurno(t *testing.T) {
	repo := newFakeTurnoRepo()
	svc := service.NewTurnoService(repo)

	resp, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{Caja: 1})
	require.NoError(t, err)
	assert.Equal(t, model.TurnoAbierto, resp.Estado)
	assert.Equal(t, 1, resp.Caja)
	assert.Nil(t, resp.ClosedAt)
}

func TestAbrirTurnoDuplicado(t *testing.T) {
	repo := newFakeTurnoRepo()
	svc := service.NewTurnoService(repo)

	primero, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{Caja: 1})
	require.NoError(t, err)

	// Second open on the same caja is rejected and the original is untouched.
	_, err = svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{Caja: 1})
	assert.True(t, domainerr.Is(err, domainerr.KindInvalidTransition))

	vigente, err := svc.ObtenerPorID(context.Background(), uuid.MustParse(primero.ID))
	require.NoError(t, err)
	assert.Equal(t, model.TurnoAbierto, vigente.Estado)

	// A different caja opens fine.
	_, err = svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{Caja: 2})
	assert.NoError(t, err)
}

func TestCerrarTurno(t *testing.T) {
	repo := newFakeTurnoRepo()
	svc := service.NewTurnoService(repo)

	resp, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{Caja: 1})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	cerrado, err := svc.Cerrar(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.TurnoCerrado, cerrado.Estado)
	require.NotNil(t, cerrado.ClosedAt)

	// Closing is terminal.
	_, err = svc.Cerrar(context.Background(), id)
	assert.True(t, domainerr.Is(err, domainerr.KindInvalidTransition))

	// The caja frees up for the next shift.
	_, err = svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{Caja: 1})
	assert.NoError(t, err)
}

func TestObtenerTurnoAbiertoPorUsuario(t *testing.T) {
	repo := newFakeTurnoRepo()
	svc := service.NewTurnoService(repo)
	usuarioID := uuid.New()

	_, err := svc.ObtenerAbiertoPorUsuario(context.Background(), usuarioID)
	assert.True(t, domainerr.Is(err, domainerr.KindNotFound))

	abierto, err := svc.Abrir(context.Background(), usuarioID, dto.AbrirTurnoRequest{Caja: 3})
	require.NoError(t, err)

	activo, err := svc.ObtenerAbiertoPorUsuario(context.Background(), usuarioID)
	require.NoError(t, err)
	assert.Equal(t, abierto.ID, activo.ID)
}

func TestEliminarTurnoAbierto(t *testing.T) {
	repo := newFakeTurnoRepo()
	svc := service.NewTurnoService(repo)

	resp, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{Caja: 1})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	err = svc.Eliminar(context.Background(), id)
	assert.True(t, domainerr.Is(err, domainerr.KindInvalidTransition))

	_, err = svc.Cerrar(context.Background(), id)
	require.NoError(t, err)
	assert.NoError(t, svc.Eliminar(context.Background(), id))
}

func TestRequireAbiertoTx(t *testing.T) {
	repo := newFakeTurnoRepo()
	svc := service.NewTurnoService(repo)

	resp, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{Caja: 1})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	turno, err := svc.RequireAbiertoTx(nil, id)
	require.NoError(t, err)
	assert.True(t, turno.Abierto())
	// The check must go through the FOR UPDATE read so a concurrent Cerrar
	// blocks until the checkout commits.
	assert.Equal(t, 1, repo.lockReads)

	_, err = svc.Cerrar(context.Background(), id)
	require.NoError(t, err)

	_, err = svc.RequireAbiertoTx(nil, id)
	assert.True(t, domainerr.Is(err, domainerr.KindInactive))

	_, err = svc.RequireAbiertoTx(nil, uuid.New())
	assert.True(t, domainerr.Is(err, domainerr.KindNotFound))
}

func TestHistorialPaginado(t *testing.T) {
	repo := newFakeTurnoRepo()
	svc := service.NewTurnoService(repo)

	for caja := 1; caja <= 5; caja++ {
		_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{Caja: caja})
		require.NoError(t, err)
	}

	page, err := svc.Historial(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Len(t, page.Data, 3)

	page, err = svc.Historial(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
}
