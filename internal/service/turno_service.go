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

// TurnoService manages the cash-register shift lifecycle. Every invoice is
// tied to an open shift, so VentaPendienteService calls RequireAbiertoTx
// inside its finalization transaction.
type TurnoService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error)
	Cerrar(ctx context.Context, id uuid.UUID) (*dto.TurnoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.TurnoResponse, error)
	ObtenerAbiertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*dto.TurnoResponse, error)
	Historial(ctx context.Context, page, limit int) (*dto.TurnoListResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error

	// RequireAbiertoTx fails fast when the shift is missing or closed.
	RequireAbiertoTx(tx *gorm.DB, id uuid.UUID) (*model.Turno, error)
}

type turnoService struct {
	repo repository.TurnoRepository
}

func NewTurnoService(repo repository.TurnoRepository) TurnoService {
	return &turnoService{repo: repo}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// Guard: a single open shift per caja. The service-level check gives a clean
// error message; the partial unique index on turnos(caja) closes the race
// when two terminals open at once.

func (s *turnoService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error) {
	if existing, err := s.repo.FindAbiertoPorCaja(ctx, req.Caja); err == nil && existing != nil {
		return nil, domainerr.InvalidTransition("ya existe un turno abierto en esta caja")
	}

	turno := &model.Turno{
		Caja:      req.Caja,
		UsuarioID: usuarioID,
		Estado:    model.TurnoAbierto,
	}
	if err := s.repo.Create(ctx, turno); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domainerr.Conflict("otra terminal abrió un turno en esta caja; reintente")
		}
		return nil, err
	}
	return turnoToResponse(turno), nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Closing is terminal. Invoices issued under the shift are untouched.

func (s *turnoService) Cerrar(ctx context.Context, id uuid.UUID) (*dto.TurnoResponse, error) {
	var turno *model.Turno
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		t, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return domainerr.NotFound("turno no encontrado")
		}
		if !t.Abierto() {
			return domainerr.InvalidTransition("el turno ya está cerrado")
		}
		now := time.Now()
		t.Estado = model.TurnoCerrado
		t.ClosedAt = &now
		if err := s.repo.UpdateTx(tx, t); err != nil {
			return err
		}
		turno = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return turnoToResponse(turno), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *turnoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.TurnoResponse, error) {
	turno, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerr.NotFound("turno no encontrado")
	}
	return turnoToResponse(turno), nil
}

func (s *turnoService) ObtenerAbiertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*dto.TurnoResponse, error) {
	turno, err := s.repo.FindAbiertoPorUsuario(ctx, usuarioID)
	if err != nil || turno == nil {
		return nil, domainerr.NotFound("el usuario no tiene un turno abierto")
	}
	return turnoToResponse(turno), nil
}

func (s *turnoService) Historial(ctx context.Context, page, limit int) (*dto.TurnoListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	turnos, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TurnoResponse, 0, len(turnos))
	for i := range turnos {
		items = append(items, *turnoToResponse(&turnos[i]))
	}
	return &dto.TurnoListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *turnoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	turno, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domainerr.NotFound("turno no encontrado")
	}
	if turno.Abierto() {
		return domainerr.InvalidTransition("no se puede eliminar un turno abierto; ciérrelo primero")
	}
	return s.repo.Delete(ctx, id)
}

// ── RequireAbiertoTx ──────────────────────────────────────────────────────────

// RequireAbiertoTx locks the shift row inside the caller's transaction so a
// concurrent Cerrar blocks until the checkout commits. Without the lock a
// close could land between this check and the invoice insert.
func (s *turnoService) RequireAbiertoTx(tx *gorm.DB, id uuid.UUID) (*model.Turno, error) {
	turno, err := s.repo.FindByIDForUpdateTx(tx, id)
	if err != nil {
		return nil, domainerr.NotFound("turno no encontrado")
	}
	if !turno.Abierto() {
		return nil, domainerr.Inactive("el turno está cerrado; abra un turno para facturar")
	}
	return turno, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func turnoToResponse(t *model.Turno) *dto.TurnoResponse {
	resp := &dto.TurnoResponse{
		ID:        t.ID.String(),
		Caja:      t.Caja,
		UsuarioID: t.UsuarioID.String(),
		Estado:    t.Estado,
		OpenedAt:  t.OpenedAt.Format(time.RFC3339),
	}
	if t.ClosedAt != nil {
		c := t.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &c
	}
	return resp
}
