package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearImpuestoRequest struct {
	Nombre string          `json:"nombre" validate:"required,min=2,max=50"`
	Tasa   decimal.Decimal `json:"tasa"   validate:"required,min=0"`
}

type CrearDescuentoRequest struct {
	Nombre     string          `json:"nombre"     validate:"required,min=2,max=50"`
	Porcentaje decimal.Decimal `json:"porcentaje" validate:"required,gt=0"`
}

type CrearTipoPagoRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ImpuestoResponse struct {
	ID     string          `json:"id"`
	Nombre string          `json:"nombre"`
	Tasa   decimal.Decimal `json:"tasa"`
	Activo bool            `json:"activo"`
}

type DescuentoResponse struct {
	ID         string          `json:"id"`
	Nombre     string          `json:"nombre"`
	Porcentaje decimal.Decimal `json:"porcentaje"`
	Activo     bool            `json:"activo"`
}

type TipoPagoResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}
