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

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CorrelativoService administers CAI authorizations and hands out fiscal
// numbers from their authorized ranges.
type CorrelativoService interface {
	Crear(ctx context.Context, req dto.CrearCAIRequest) (*dto.CAIResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CAIResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.CAIResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Eliminar(ctx context.Context, id uuid.UUID) error

	// Asignar consumes the next fiscal number in its own transaction.
	Asignar(ctx context.Context, caiID uuid.UUID) (int64, error)
	// AsignarTx is called by VentaPendienteService inside the finalization
	// transaction. Locks the CAI row, validates it and advances the cursor
	// with a compare-and-swap. Returns the number assigned to the caller.
	AsignarTx(ctx context.Context, tx *gorm.DB, caiID uuid.UUID) (int64, error)
}

type correlativoService struct {
	repo repository.CAIRepository
}

func NewCorrelativoService(repo repository.CAIRepository) CorrelativoService {
	return &correlativoService{repo: repo}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *correlativoService) Crear(ctx context.Context, req dto.CrearCAIRequest) (*dto.CAIResponse, error) {
	if req.RangoFinal < req.RangoInicial {
		return nil, errors.New("el rango final debe ser mayor o igual al rango inicial")
	}
	fechaLimite, err := time.Parse("2006-01-02", req.FechaLimite)
	if err != nil {
		return nil, fmt.Errorf("fecha_limite inválida: %w", err)
	}

	cai := &model.CAI{
		Codigo:            req.Codigo,
		Caja:              req.Caja,
		RangoInicial:      req.RangoInicial,
		CorrelativoActual: req.RangoInicial,
		RangoFinal:        req.RangoFinal,
		FechaLimite:       fechaLimite,
		Activo:            true,
	}
	if err := s.repo.Create(ctx, cai); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domainerr.Conflict("ya existe un CAI registrado con ese código")
		}
		return nil, err
	}
	return caiToResponse(cai), nil
}

// ── ObtenerPorID / Listar ─────────────────────────────────────────────────────

func (s *correlativoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CAIResponse, error) {
	cai, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerr.NotFound("CAI no encontrado")
	}
	return caiToResponse(cai), nil
}

func (s *correlativoService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.CAIResponse, error) {
	cais, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CAIResponse, 0, len(cais))
	for i := range cais {
		resp = append(resp, *caiToResponse(&cais[i]))
	}
	return resp, nil
}

// ── Desactivar ────────────────────────────────────────────────────────────────
// Deactivation is always legal and keeps the row for audit. Issued invoices
// retain their numbers.

func (s *correlativoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	cai, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domainerr.NotFound("CAI no encontrado")
	}
	cai.Activo = false
	return s.repo.Update(ctx, cai)
}

// ── Eliminar ──────────────────────────────────────────────────────────────────
// Hard delete is only allowed while no number has been consumed. Once the
// cursor moved, fiscal traceability demands the row survives.

func (s *correlativoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	cai, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domainerr.NotFound("CAI no encontrado")
	}
	if !cai.SinUso() {
		return domainerr.InvalidTransition("el CAI ya emitió correlativos; desactívelo en lugar de eliminarlo")
	}
	return s.repo.Delete(ctx, id)
}

// ── Asignar ───────────────────────────────────────────────────────────────────

func (s *correlativoService) Asignar(ctx context.Context, caiID uuid.UUID) (int64, error) {
	var numero int64
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.AsignarTx(ctx, tx, caiID)
		if err != nil {
			return err
		}
		numero = n
		return nil
	})
	return numero, err
}

func (s *correlativoService) AsignarTx(ctx context.Context, tx *gorm.DB, caiID uuid.UUID) (int64, error) {
	cai, err := s.repo.FindByIDForUpdateTx(tx, caiID)
	if err != nil {
		return 0, domainerr.NotFound("CAI no encontrado")
	}
	if !cai.Activo {
		return 0, domainerr.Inactive("el CAI está desactivado y no puede emitir correlativos")
	}
	if cai.Vencido(time.Now()) {
		return 0, domainerr.Inactive(fmt.Sprintf("el CAI venció el %s", cai.FechaLimite.Format("2006-01-02")))
	}
	if cai.Agotado() {
		return 0, domainerr.Exhausted("el rango autorizado del CAI está agotado; registre un nuevo CAI")
	}

	numero := cai.CorrelativoActual
	rows, err := s.repo.IncrementCorrelativoTx(tx, caiID, numero)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		// Another terminal advanced the cursor between read and write.
		return 0, domainerr.Conflict("otra terminal asignó el correlativo; reintente la operación")
	}
	return numero, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func caiToResponse(c *model.CAI) *dto.CAIResponse {
	return &dto.CAIResponse{
		ID:                c.ID.String(),
		Codigo:            c.Codigo,
		Caja:              c.Caja,
		RangoInicial:      c.RangoInicial,
		CorrelativoActual: c.CorrelativoActual,
		RangoFinal:        c.RangoFinal,
		Restantes:         c.Restantes(),
		Agotado:           c.Agotado(),
		FechaLimite:       c.FechaLimite.Format("2006-01-02"),
		Activo:            c.Activo,
	}
}
