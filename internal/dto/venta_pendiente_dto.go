package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
	// PrecioUnitario opcional — cero usa el precio de lista del producto
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
}

type CrearVentaPendienteRequest struct {
	ClienteID *string            `json:"cliente_id" validate:"omitempty,uuid"`
	Items     []ItemVentaRequest `json:"items"      validate:"required,min=1,dive"`
}

type PagoRequest struct {
	Metodo string          `json:"metodo" validate:"required,oneof=efectivo tarjeta transferencia credito"`
	Monto  decimal.Decimal `json:"monto"  validate:"required,gt=0"`
}

type FinalizarVentaRequest struct {
	CAIID   string        `json:"cai_id"   validate:"required,uuid"`
	TurnoID string        `json:"turno_id" validate:"required,uuid"`
	Pagos   []PagoRequest `json:"pagos"    validate:"dive"`
	// DiasCredito > 0 convierte el resto no pagado en crédito (requiere cliente)
	DiasCredito  int     `json:"dias_credito" validate:"min=0,max=180"`
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaPendienteResponse struct {
	ID        string              `json:"id"`
	UsuarioID string              `json:"usuario_id"`
	ClienteID *string             `json:"cliente_id"`
	Items     []ItemVentaResponse `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	CreatedAt string              `json:"created_at"`
}
