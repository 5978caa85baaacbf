package repository

import (
	"context"

	"edapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CAIRepository interface {
	Create(ctx context.Context, c *model.CAI) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CAI, error)
	// FindByIDForUpdateTx takes a row lock — allocation must run under it
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.CAI, error)
	// IncrementCorrelativoTx is a compare-and-swap: advances the correlative
	// only if it still equals desde. Returns the number of rows affected
	// (0 = a concurrent allocator won the race).
	IncrementCorrelativoTx(tx *gorm.DB, id uuid.UUID, desde int64) (int64, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.CAI, error)
	FindActivoPorCaja(ctx context.Context, caja int) (*model.CAI, error)
	Update(ctx context.Context, c *model.CAI) error
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type caiRepo struct{ db *gorm.DB }

func NewCAIRepository(db *gorm.DB) CAIRepository { return &caiRepo{db: db} }

func (r *caiRepo) DB() *gorm.DB { return r.db }

func (r *caiRepo) Create(ctx context.Context, c *model.CAI) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caiRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CAI, error) {
	var c model.CAI
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *caiRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.CAI, error) {
	var c model.CAI
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error
	return &c, err
}

func (r *caiRepo) IncrementCorrelativoTx(tx *gorm.DB, id uuid.UUID, desde int64) (int64, error) {
	res := tx.Model(&model.CAI{}).
		Where("id = ? AND correlativo_actual = ?", id, desde).
		Update("correlativo_actual", desde+1)
	return res.RowsAffected, res.Error
}

func (r *caiRepo) List(ctx context.Context, incluirInactivos bool) ([]model.CAI, error) {
	var blocks []model.CAI
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Find(&blocks).Error
	return blocks, err
}

func (r *caiRepo) FindActivoPorCaja(ctx context.Context, caja int) (*model.CAI, error) {
	var c model.CAI
	err := r.db.WithContext(ctx).
		Where("caja = ? AND activo = true AND correlativo_actual <= rango_final", caja).
		Order("created_at ASC").
		First(&c).Error
	return &c, err
}

func (r *caiRepo) Update(ctx context.Context, c *model.CAI) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *caiRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CAI{}, id).Error
}
