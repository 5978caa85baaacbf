package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AnularFacturaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3,max=250"`
}

type AbonoRequest struct {
	Monto  decimal.Decimal `json:"monto"  validate:"required,gt=0"`
	Metodo string          `json:"metodo" validate:"required,oneof=efectivo tarjeta transferencia"`
}

type FacturaFilter struct {
	Estado    string `form:"estado"`
	ClienteID string `form:"cliente_id"`
	Fecha     string `form:"fecha"` // YYYY-MM-DD
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type FacturaResponse struct {
	ID           string  `json:"id"`
	NumeroFiscal int64   `json:"numero_fiscal"`
	CAICodigo    string  `json:"cai_codigo,omitempty"`
	TurnoID      string  `json:"turno_id"`
	ClienteID    *string `json:"cliente_id"`
	Cliente      *string `json:"cliente"`
	Estado       string  `json:"estado"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	DescuentoTotal decimal.Decimal `json:"descuento_total"`
	ImpuestoTotal  decimal.Decimal `json:"impuesto_total"`
	Total          decimal.Decimal `json:"total"`
	SaldoPendiente decimal.Decimal `json:"saldo_pendiente"`

	FechaVencimiento *string `json:"fecha_vencimiento"`

	Impresa             bool    `json:"impresa"`
	ContadorImpresiones int     `json:"contador_impresiones"`
	PDFUrl              *string `json:"pdf_url,omitempty"`

	Items     []ItemVentaResponse `json:"items"`
	Pagos     []PagoRequest       `json:"pagos"`
	CreatedAt string              `json:"created_at"`
}

type FacturaListResponse struct {
	Data  []FacturaResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
