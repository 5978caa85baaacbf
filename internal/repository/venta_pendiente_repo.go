package repository

import (
	"context"

	"edapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaPendienteRepository interface {
	Create(ctx context.Context, v *model.VentaPendiente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.VentaPendiente, error)
	// ListByUsuario orders oldest-first — interrupted carts resume FIFO
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.VentaPendiente, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
}

type ventaPendienteRepo struct{ db *gorm.DB }

func NewVentaPendienteRepository(db *gorm.DB) VentaPendienteRepository {
	return &ventaPendienteRepo{db: db}
}

func (r *ventaPendienteRepo) Create(ctx context.Context, v *model.VentaPendiente) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ventaPendienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.VentaPendiente, error) {
	var v model.VentaPendiente
	err := r.db.WithContext(ctx).Preload("Items.Producto.Impuesto").First(&v, id).Error
	return &v, err
}

func (r *ventaPendienteRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.VentaPendiente, error) {
	var ventas []model.VentaPendiente
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").
		Where("usuario_id = ?", usuarioID).
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaPendienteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&model.VentaPendiente{ID: id}).Error
}

func (r *ventaPendienteRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Select("Items").Delete(&model.VentaPendiente{ID: id}).Error
}
