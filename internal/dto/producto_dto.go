package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	CodigoBarras string          `json:"codigo_barras" validate:"required,min=3,max=50"`
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=150"`
	Descripcion  *string         `json:"descripcion"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"  validate:"min=0"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"required,gt=0"`
	ImpuestoID   *string         `json:"impuesto_id"   validate:"omitempty,uuid"`
	UnidadMedida string          `json:"unidad_medida"`
}

type ActualizarProductoRequest struct {
	Nombre       string          `json:"nombre"       validate:"omitempty,min=2,max=150"`
	Descripcion  *string         `json:"descripcion"`
	PrecioCosto  decimal.Decimal `json:"precio_costo" validate:"min=0"`
	PrecioVenta  decimal.Decimal `json:"precio_venta" validate:"min=0"`
	ImpuestoID   *string         `json:"impuesto_id"  validate:"omitempty,uuid"`
	UnidadMedida string          `json:"unidad_medida"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID           string          `json:"id"`
	CodigoBarras string          `json:"codigo_barras"`
	Nombre       string          `json:"nombre"`
	Descripcion  *string         `json:"descripcion"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	Impuesto     *string         `json:"impuesto"`
	UnidadMedida string          `json:"unidad_medida"`
	Activo       bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// PrecioResponse is the cached price-check payload (GET /v1/precio/:codigo).
type PrecioResponse struct {
	CodigoBarras string          `json:"codigo_barras"`
	Nombre       string          `json:"nombre"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
}
