package repository

import (
	"context"

	"edapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TurnoRepository interface {
	Create(ctx context.Context, t *model.Turno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	// FindByIDForUpdateTx locks the shift row so close/finalize serialize
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Turno, error)
	FindAbiertoPorCaja(ctx context.Context, caja int) (*model.Turno, error)
	FindAbiertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Turno, error)
	Update(ctx context.Context, t *model.Turno) error
	UpdateTx(tx *gorm.DB, t *model.Turno) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, page, limit int) ([]model.Turno, int64, error)
	DB() *gorm.DB
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) Create(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) FindAbiertoPorCaja(ctx context.Context, caja int) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).
		Where("caja = ? AND estado = 'abierto'", caja).
		First(&t).Error
	return &t, err
}

func (r *turnoRepo) FindAbiertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND estado = 'abierto'", usuarioID).
		First(&t).Error
	return &t, err
}

func (r *turnoRepo) Update(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *turnoRepo) UpdateTx(tx *gorm.DB, t *model.Turno) error {
	return tx.Save(t).Error
}

func (r *turnoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Turno{}, id).Error
}

func (r *turnoRepo) List(ctx context.Context, page, limit int) ([]model.Turno, int64, error) {
	var turnos []model.Turno
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Turno{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("opened_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&turnos).Error
	return turnos, total, err
}

func (r *turnoRepo) DB() *gorm.DB { return r.db }
