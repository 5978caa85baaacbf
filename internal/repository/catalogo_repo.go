package repository

import (
	"context"

	"edapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogoRepository covers the reference tables (impuestos, descuentos,
// tipos de pago). Pure existence-check CRUD — no invariants beyond Activo.
type CatalogoRepository interface {
	CreateImpuesto(ctx context.Context, i *model.Impuesto) error
	ListImpuestos(ctx context.Context) ([]model.Impuesto, error)
	FindImpuestoByID(ctx context.Context, id uuid.UUID) (*model.Impuesto, error)
	DesactivarImpuesto(ctx context.Context, id uuid.UUID) error

	CreateDescuento(ctx context.Context, d *model.Descuento) error
	ListDescuentos(ctx context.Context) ([]model.Descuento, error)
	DesactivarDescuento(ctx context.Context, id uuid.UUID) error

	CreateTipoPago(ctx context.Context, t *model.TipoPago) error
	ListTiposPago(ctx context.Context) ([]model.TipoPago, error)
	DesactivarTipoPago(ctx context.Context, id uuid.UUID) error
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) CreateImpuesto(ctx context.Context, i *model.Impuesto) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *catalogoRepo) ListImpuestos(ctx context.Context) ([]model.Impuesto, error) {
	var items []model.Impuesto
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&items).Error
	return items, err
}

func (r *catalogoRepo) FindImpuestoByID(ctx context.Context, id uuid.UUID) (*model.Impuesto, error) {
	var i model.Impuesto
	err := r.db.WithContext(ctx).First(&i, id).Error
	return &i, err
}

func (r *catalogoRepo) DesactivarImpuesto(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Impuesto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *catalogoRepo) CreateDescuento(ctx context.Context, d *model.Descuento) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *catalogoRepo) ListDescuentos(ctx context.Context) ([]model.Descuento, error) {
	var items []model.Descuento
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&items).Error
	return items, err
}

func (r *catalogoRepo) DesactivarDescuento(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Descuento{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *catalogoRepo) CreateTipoPago(ctx context.Context, t *model.TipoPago) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *catalogoRepo) ListTiposPago(ctx context.Context) ([]model.TipoPago, error) {
	var items []model.TipoPago
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&items).Error
	return items, err
}

func (r *catalogoRepo) DesactivarTipoPago(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.TipoPago{}).Where("id = ?", id).Update("activo", false).Error
}
