package repository

import (
	"context"

	"edapos/internal/dto"
	"edapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeudorRow is the grouped aggregation row behind ListarDeudores.
type DeudorRow struct {
	ClienteID          uuid.UUID
	Nombre             string
	RTN                *string
	FacturasPendientes int64
	SaldoTotal         decimal.Decimal
}

type FacturaRepository interface {
	CreateTx(tx *gorm.DB, f *model.Factura) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error)
	Update(ctx context.Context, f *model.Factura) error
	UpdateTx(tx *gorm.DB, f *model.Factura) error
	CreatePagoTx(tx *gorm.DB, p *model.FacturaPago) error
	List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error)
	// ListDeudores groups emitida invoices with saldo_pendiente > 0 per customer,
	// optionally filtered by case-insensitive substring on nombre or RTN.
	ListDeudores(ctx context.Context, term string) ([]DeudorRow, error)
	// ListPendientesPorCliente returns the collection/aging order:
	// fecha_vencimiento ASC (nulls last), then created_at ASC.
	ListPendientesPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Factura, error)
	ListEntregasPendientes(ctx context.Context, limit int) ([]model.Factura, error)
	DB() *gorm.DB
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) DB() *gorm.DB { return r.db }

func (r *facturaRepo) CreateTx(tx *gorm.DB, f *model.Factura) error {
	return tx.Create(f).Error
}

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").Preload("Pagos").Preload("Cliente").
		First(&f, id).Error
	return &f, err
}

func (r *facturaRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&f, id).Error
	return &f, err
}

func (r *facturaRepo) Update(ctx context.Context, f *model.Factura) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *facturaRepo) UpdateTx(tx *gorm.DB, f *model.Factura) error {
	return tx.Save(f).Error
}

func (r *facturaRepo) CreatePagoTx(tx *gorm.DB, p *model.FacturaPago) error {
	return tx.Create(p).Error
}

func (r *facturaRepo) List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var facturas []model.Factura
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Factura{})
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items.Producto").Preload("Pagos").Preload("Cliente").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&facturas).Error
	return facturas, total, err
}

func (r *facturaRepo) ListDeudores(ctx context.Context, term string) ([]DeudorRow, error) {
	var rows []DeudorRow
	q := r.db.WithContext(ctx).
		Table("facturas").
		Select(`clientes.id AS cliente_id, clientes.nombre, clientes.rtn,
			COUNT(facturas.id) AS facturas_pendientes,
			SUM(facturas.saldo_pendiente) AS saldo_total`).
		Joins("JOIN clientes ON clientes.id = facturas.cliente_id").
		Where("facturas.estado = ? AND facturas.saldo_pendiente > 0", model.FacturaEmitida).
		Group("clientes.id, clientes.nombre, clientes.rtn").
		Order("clientes.nombre ASC")
	if term != "" {
		q = q.Where("clientes.nombre ILIKE ? OR clientes.rtn ILIKE ?", "%"+term+"%", "%"+term+"%")
	}
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *facturaRepo) ListPendientesPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Factura, error) {
	var facturas []model.Factura
	err := r.db.WithContext(ctx).
		Where("cliente_id = ? AND estado = ? AND saldo_pendiente > 0", clienteID, model.FacturaEmitida).
		Order("fecha_vencimiento ASC NULLS LAST, created_at ASC").
		Find(&facturas).Error
	return facturas, err
}

func (r *facturaRepo) ListEntregasPendientes(ctx context.Context, limit int) ([]model.Factura, error) {
	// Partial index idx_facturas_email_retry covers this query
	var facturas []model.Factura
	err := r.db.WithContext(ctx).
		Where("email_estado = ? AND next_retry_at IS NOT NULL AND next_retry_at <= NOW()", model.EntregaPendiente).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&facturas).Error
	return facturas, err
}
